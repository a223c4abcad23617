package widget

// Theme is the caller-supplied styling context for a chart
type Theme struct {
	Name           string   `json:"name,omitempty"`
	Palette        []string `json:"palette,omitempty"`
	TextColor      string   `json:"textColor,omitempty"`
	AxisLineColor  string   `json:"axisLineColor,omitempty"`
	SplitLineColor string   `json:"splitLineColor,omitempty"`
	Background     string   `json:"background,omitempty"`
}

var defaultPalette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc",
}

// DefaultTheme is used when a request carries no theme
func DefaultTheme() Theme {
	palette := make([]string, len(defaultPalette))
	copy(palette, defaultPalette)

	return Theme{
		Name:           "default",
		Palette:        palette,
		TextColor:      "#333333",
		AxisLineColor:  "#6e7079",
		SplitLineColor: "#e0e6f1",
		Background:     "transparent",
	}
}

// WithDefaults fills every empty field from DefaultTheme
func (t Theme) WithDefaults() Theme {
	def := DefaultTheme()
	if t.Name == "" {
		t.Name = def.Name
	}
	if len(t.Palette) == 0 {
		t.Palette = def.Palette
	}
	if t.TextColor == "" {
		t.TextColor = def.TextColor
	}
	if t.AxisLineColor == "" {
		t.AxisLineColor = def.AxisLineColor
	}
	if t.SplitLineColor == "" {
		t.SplitLineColor = def.SplitLineColor
	}
	if t.Background == "" {
		t.Background = def.Background
	}
	return t
}

// PaletteColor cycles the palette by index
func (t Theme) PaletteColor(i int) string {
	if len(t.Palette) == 0 {
		return defaultPalette[i%len(defaultPalette)]
	}
	return t.Palette[i%len(t.Palette)]
}
