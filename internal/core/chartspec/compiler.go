package chartspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/format"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// ErrUnsupportedChartType is returned for a chart type without a compiler
var ErrUnsupportedChartType = errors.New("unsupported chart type")

type compileFunc func(c *compilation) (*Spec, error)

// compilers must hold an entry for every widget.ChartTypes member
var compilers = map[widget.ChartType]compileFunc{
	widget.ChartBar:     compileBar,
	widget.ChartColumn:  compileColumn,
	widget.ChartLine:    compileLine,
	widget.ChartArea:    compileArea,
	widget.ChartPie:     compilePie,
	widget.ChartRing:    compileRing,
	widget.ChartScatter: compileScatter,
	widget.ChartRadar:   compileRadar,
	widget.ChartCombo:   compileCombo,
	widget.ChartKPI:     compileKPI,
}

// Compile turns a payload into a chart specification for the widget.
// A nil payload compiles to a nil spec.
func Compile(payload *analytics.ChartPayload, w widget.Spec, theme widget.Theme, compact bool) (*Spec, error) {
	if payload == nil {
		return nil, nil
	}

	fn, ok := compilers[w.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChartType, w.Type)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	c := newCompilation(payload, w, theme, compact)
	spec, err := fn(c)
	if err != nil {
		return nil, fmt.Errorf("compile %s chart: %w", w.Type, err)
	}

	spec.Type = w.Type
	spec.Title = w.Title
	spec.Palette = c.theme.Palette
	return spec, nil
}

// compilation carries the shared inputs of one Compile call
type compilation struct {
	payload *analytics.ChartPayload
	widget  widget.Spec
	opts    widget.Options
	theme   widget.Theme
	compact bool
}

func newCompilation(payload *analytics.ChartPayload, w widget.Spec, theme widget.Theme, compact bool) *compilation {
	theme = theme.WithDefaults()
	if len(w.Options.Palette) > 0 {
		theme.Palette = w.Options.Palette
	}

	return &compilation{
		payload: payload,
		widget:  w,
		opts:    w.Options,
		theme:   theme,
		compact: compact,
	}
}

func (c *compilation) stacked() bool {
	return c.opts.Stack || c.opts.PercentStack
}

func (c *compilation) paletteColor(i int) string {
	return c.theme.PaletteColor(i)
}

// explicitSeriesColor is the caller-set color of series s, "" when unset
func (c *compilation) explicitSeriesColor(s int) string {
	if s < len(c.payload.SeriesColors) {
		return c.payload.SeriesColors[s]
	}
	return ""
}

// seriesColor resolves a whole-series color: explicit, else palette by series index
func (c *compilation) seriesColor(s int) string {
	if color := c.explicitSeriesColor(s); color != "" {
		return color
	}
	return c.paletteColor(s)
}

// pointColor resolves the explicit color of point j in series s.
// Per-point colors only apply when the payload has exactly one series.
func (c *compilation) pointColor(s, j int) string {
	if color := c.explicitSeriesColor(s); color != "" {
		return color
	}
	if len(c.payload.Series) == 1 && j < len(c.payload.DataColors) {
		return c.payload.DataColors[j]
	}
	return ""
}

// measureFor returns the measure that produced series s
func (c *compilation) measureFor(s int) *widget.Measure {
	measures := c.widget.Measures
	if len(measures) == 0 {
		return nil
	}
	if c.widget.SeriesBy == "" && s < len(measures) {
		return &measures[s]
	}
	return &measures[0]
}

func (c *compilation) legend(entries []string) *Legend {
	show := c.opts.Legend.Show == nil || *c.opts.Legend.Show
	if c.compact {
		show = false
	}

	position := c.opts.Legend.Position
	if position == "" {
		position = "top"
	}

	data := make([]string, len(entries))
	copy(data, entries)
	return &Legend{Show: show, Position: position, Data: data}
}

func (c *compilation) grid() *Grid {
	if c.compact {
		return &Grid{Left: "4", Right: "4", Top: "4", Bottom: "4", ContainLabel: true}
	}
	return &Grid{Left: "3%", Right: "4%", Top: "12%", Bottom: "8%", ContainLabel: true}
}

// labelKind selects the label position rules for a series shape
type labelKind int

const (
	labelVertical labelKind = iota
	labelHorizontal
	labelLine
	labelPie
	labelRing
)

var piePositions = []string{"inside", "outside", "center"}

// normalizePosition maps a requested label position onto one the series shape supports
func normalizePosition(kind labelKind, requested string) string {
	requested = strings.TrimSpace(requested)

	switch kind {
	case labelVertical, labelHorizontal:
		outside := "top"
		allowed := []string{"top", "bottom", "inside"}
		if kind == labelHorizontal {
			outside = "right"
			allowed = []string{"right", "left", "inside"}
		}
		switch requested {
		case "outside":
			return outside
		case "center":
			return "inside"
		}
		return oneOf(requested, allowed, outside)
	case labelLine:
		return oneOf(requested, []string{"top", "inside"}, "top")
	case labelRing:
		return oneOf(requested, piePositions, "center")
	default:
		return oneOf(requested, piePositions, "outside")
	}
}

func oneOf(value string, allowed []string, fallback string) string {
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}

// label resolves the data label of a series. Series overrides win over widget defaults.
func (c *compilation) label(series string, kind labelKind, points []analytics.Point) Label {
	defaults := c.opts.Labels
	show := defaults.Show
	position := defaults.Position
	mode := defaults.Format
	showPercent := defaults.ShowPercent

	if ov := c.opts.OverrideFor(series); ov != nil && ov.Label != nil {
		if ov.Label.Show != nil {
			show = *ov.Label.Show
		}
		if ov.Label.Position != nil {
			position = *ov.Label.Position
		}
		if ov.Label.Format != nil {
			mode = *ov.Label.Format
		}
		if ov.Label.ShowPercent != nil {
			showPercent = *ov.Label.ShowPercent
		}
	}

	label := Label{Show: show, Position: normalizePosition(kind, position), Format: mode}
	if !show {
		return label
	}

	opts := format.Options{
		Mode:             mode,
		Prefix:           defaults.Prefix,
		Suffix:           defaults.Suffix,
		ShowPercent:      showPercent,
		PercentDecimals:  defaults.PercentDecimals,
		PercentPlacement: defaults.PercentPlacement,
	}
	label.Texts = make([]string, len(points))
	for j, pt := range points {
		label.Texts[j] = format.Label(pt.RawValue(), pt.Percent, opts)
	}
	return label
}

// axis builds the decorations shared by category and value axes.
// A hidden axis drops its title, line, ticks and labels.
func (c *compilation) axis(kind string, opts widget.AxisOptions) Axis {
	visible := opts.Visible()

	axis := Axis{
		Type:      kind,
		Show:      visible,
		AxisLine:  Line{Show: visible, Color: c.theme.AxisLineColor},
		AxisTick:  Line{Show: visible && kind == AxisCategory, Color: c.theme.AxisLineColor},
		AxisLabel: AxisLabel{Show: visible, Rotate: opts.LabelRotate, Color: c.theme.TextColor},
		SplitLine: Line{Show: kind == AxisValue, Color: c.theme.SplitLineColor},
	}
	if opts.ShowSplitLine != nil {
		axis.SplitLine.Show = *opts.ShowSplitLine
	}
	if visible && !c.compact {
		axis.Name = opts.Title
	}
	return axis
}

func (c *compilation) categoryAxis(opts widget.AxisOptions) Axis {
	axis := c.axis(AxisCategory, opts)
	axis.Data = make([]string, len(c.payload.Labels))
	copy(axis.Data, c.payload.Labels)
	return axis
}

// valueAxis computes the numeric domain from the data, then applies explicit bounds.
// Percent stacking pins the domain to [0,1].
func (c *compilation) valueAxis(opts widget.AxisOptions, series [][]analytics.Point, stacked, percent bool) Axis {
	axis := c.axis(AxisValue, opts)

	lo, hi := valueExtent(series, stacked)
	if opts.Min != nil {
		lo = *opts.Min
	}
	if opts.Max != nil {
		hi = *opts.Max
	}
	if percent {
		lo, hi = 0, 1
		axis.AxisLabel.Percent = true
	}

	axis.Min = &lo
	axis.Max = &hi
	return axis
}

// valueExtent is the data-driven [min, max] including zero.
// Stacked extents sum positive and negative values per category separately.
func valueExtent(series [][]analytics.Point, stacked bool) (float64, float64) {
	lo, hi := 0.0, 0.0
	if len(series) == 0 {
		return lo, hi
	}

	if !stacked {
		for _, points := range series {
			for _, pt := range points {
				if pt.Value < lo {
					lo = pt.Value
				}
				if pt.Value > hi {
					hi = pt.Value
				}
			}
		}
		return lo, hi
	}

	for j := range series[0] {
		pos, neg := 0.0, 0.0
		for _, points := range series {
			if v := points[j].Value; v >= 0 {
				pos += v
			} else {
				neg += v
			}
		}
		if pos > hi {
			hi = pos
		}
		if neg < lo {
			lo = neg
		}
	}
	return lo, hi
}
