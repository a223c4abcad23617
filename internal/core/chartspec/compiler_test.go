package chartspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/format"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

func newPayload(labels, legends []string, values ...[]float64) *analytics.ChartPayload {
	series := make([][]analytics.Point, len(values))
	for s, vs := range values {
		series[s] = make([]analytics.Point, len(vs))
		for j, v := range vs {
			series[s][j] = analytics.Point{Value: v}
		}
	}
	return &analytics.ChartPayload{Labels: labels, Legends: legends, Series: series}
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func TestCompile_NilPayload(t *testing.T) {
	spec, err := Compile(nil, widget.Spec{Type: widget.ChartBar}, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Nil(t, spec)
}

func TestCompile_EveryChartTypeHasCompiler(t *testing.T) {
	for _, chartType := range widget.ChartTypes {
		_, ok := compilers[chartType]
		assert.True(t, ok, "no compiler for %s", chartType)
	}
	assert.Len(t, compilers, len(widget.ChartTypes))
}

func TestCompile_UnsupportedType(t *testing.T) {
	_, err := Compile(newPayload(nil, nil), widget.Spec{Type: "gauge"}, widget.Theme{}, false)
	assert.ErrorIs(t, err, ErrUnsupportedChartType)
}

func TestCompile_ShapeMismatch(t *testing.T) {
	payload := newPayload([]string{"a", "b"}, []string{"s"}, []float64{1})
	_, err := Compile(payload, widget.Spec{Type: widget.ChartColumn}, widget.Theme{}, false)
	assert.ErrorIs(t, err, analytics.ErrShapeMismatch)
}

func TestCompile_BarIsHorizontal(t *testing.T) {
	payload := newPayload([]string{"a", "b"}, []string{"s"}, []float64{1, 2})

	bar, err := Compile(payload, widget.Spec{Type: widget.ChartBar}, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, AxisValue, bar.XAxis[0].Type)
	assert.Equal(t, AxisCategory, bar.YAxis[0].Type)
	assert.Equal(t, []string{"a", "b"}, bar.YAxis[0].Data)
	assert.Equal(t, "right", bar.Series[0].Label.Position)

	column, err := Compile(payload, widget.Spec{Type: widget.ChartColumn}, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, AxisCategory, column.XAxis[0].Type)
	assert.Equal(t, AxisValue, column.YAxis[0].Type)
	assert.Equal(t, "top", column.Series[0].Label.Position)
	assert.Equal(t, widget.ChartColumn, column.Type)
}

func TestCompile_ColorResolution(t *testing.T) {
	theme := widget.Theme{Palette: []string{"#111", "#222"}}

	t.Run("palette cycles by series", func(t *testing.T) {
		payload := newPayload([]string{"x"}, []string{"a", "b", "c"}, []float64{1}, []float64{2}, []float64{3})
		spec, err := Compile(payload, widget.Spec{Type: widget.ChartColumn}, theme, false)
		require.NoError(t, err)
		assert.Equal(t, "#111", spec.Series[0].Color)
		assert.Equal(t, "#222", spec.Series[1].Color)
		assert.Equal(t, "#111", spec.Series[2].Color)
	})

	t.Run("series color wins", func(t *testing.T) {
		payload := newPayload([]string{"x", "y"}, []string{"a"}, []float64{1, 2})
		payload.SeriesColors = []string{"#f00"}
		payload.DataColors = []string{"#0f0", ""}

		spec, err := Compile(payload, widget.Spec{Type: widget.ChartColumn}, theme, false)
		require.NoError(t, err)
		assert.Equal(t, "#f00", spec.Series[0].Color)
		assert.Empty(t, spec.Series[0].Data[0].Color)
	})

	t.Run("data colors only for a single series", func(t *testing.T) {
		single := newPayload([]string{"x", "y"}, []string{"a"}, []float64{1, 2})
		single.DataColors = []string{"#0f0", ""}
		spec, err := Compile(single, widget.Spec{Type: widget.ChartColumn}, theme, false)
		require.NoError(t, err)
		assert.Equal(t, "#0f0", spec.Series[0].Data[0].Color)
		assert.Empty(t, spec.Series[0].Data[1].Color)

		multi := newPayload([]string{"x", "y"}, []string{"a", "b"}, []float64{1, 2}, []float64{3, 4})
		multi.DataColors = []string{"#0f0", ""}
		spec, err = Compile(multi, widget.Spec{Type: widget.ChartColumn}, theme, false)
		require.NoError(t, err)
		assert.Empty(t, spec.Series[0].Data[0].Color)
	})

	t.Run("pie slices use palette by slice", func(t *testing.T) {
		payload := newPayload([]string{"x", "y", "z"}, []string{"a"}, []float64{1, 2, 3})
		payload.DataColors = []string{"", "#0f0", ""}
		spec, err := Compile(payload, widget.Spec{Type: widget.ChartPie}, theme, false)
		require.NoError(t, err)
		colors := []string{spec.Series[0].Data[0].Color, spec.Series[0].Data[1].Color, spec.Series[0].Data[2].Color}
		assert.Equal(t, []string{"#111", "#0f0", "#111"}, colors)
	})

	t.Run("widget palette overrides theme", func(t *testing.T) {
		payload := newPayload([]string{"x"}, []string{"a"}, []float64{1})
		w := widget.Spec{Type: widget.ChartLine, Options: widget.Options{Palette: []string{"#abc"}}}
		spec, err := Compile(payload, w, theme, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"#abc"}, spec.Palette)
		assert.Equal(t, "#abc", spec.Series[0].Color)
	})
}

func TestCompile_HiddenAxisKeepsDomain(t *testing.T) {
	payload := newPayload([]string{"a", "b"}, []string{"s"}, []float64{-3, 12})

	visible := widget.Spec{Type: widget.ChartColumn, Options: widget.Options{YAxis: widget.AxisOptions{Title: "Revenue"}}}
	hidden := visible
	hidden.Options.YAxis.Show = boolPtr(false)

	shown, err := Compile(payload, visible, widget.Theme{}, false)
	require.NoError(t, err)
	gone, err := Compile(payload, hidden, widget.Theme{}, false)
	require.NoError(t, err)

	assert.Equal(t, "Revenue", shown.YAxis[0].Name)
	assert.True(t, shown.YAxis[0].AxisLabel.Show)

	axis := gone.YAxis[0]
	assert.False(t, axis.Show)
	assert.Empty(t, axis.Name)
	assert.False(t, axis.AxisLine.Show)
	assert.False(t, axis.AxisTick.Show)
	assert.False(t, axis.AxisLabel.Show)
	assert.Equal(t, -3.0, *axis.Min)
	assert.Equal(t, 12.0, *axis.Max)
	assert.Equal(t, *shown.YAxis[0].Min, *axis.Min)
	assert.Equal(t, *shown.YAxis[0].Max, *axis.Max)
}

func TestCompile_StackedExtent(t *testing.T) {
	payload := newPayload([]string{"x", "y"}, []string{"a", "b"}, []float64{1, 2}, []float64{3, -1})
	w := widget.Spec{Type: widget.ChartColumn, Options: widget.Options{Stack: true}}

	spec, err := Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, -1.0, *spec.YAxis[0].Min)
	assert.Equal(t, 4.0, *spec.YAxis[0].Max)
	assert.Equal(t, "total", spec.Series[0].Stack)
}

func TestCompile_PercentStackForcesUnitDomain(t *testing.T) {
	payload := newPayload([]string{"x"}, []string{"a", "b"}, []float64{0.25}, []float64{0.75})
	w := widget.Spec{Type: widget.ChartColumn, Options: widget.Options{
		PercentStack: true,
		YAxis:        widget.AxisOptions{Max: floatPtr(500)},
	}}

	spec, err := Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *spec.YAxis[0].Min)
	assert.Equal(t, 1.0, *spec.YAxis[0].Max)
	assert.True(t, spec.YAxis[0].AxisLabel.Percent)
}

func TestNormalizePosition(t *testing.T) {
	cases := []struct {
		kind      labelKind
		requested string
		want      string
	}{
		{labelVertical, "outside", "top"},
		{labelVertical, "center", "inside"},
		{labelVertical, "bottom", "bottom"},
		{labelVertical, "weird", "top"},
		{labelHorizontal, "outside", "right"},
		{labelHorizontal, "center", "inside"},
		{labelHorizontal, "", "right"},
		{labelLine, "inside", "inside"},
		{labelLine, "outside", "top"},
		{labelLine, "", "top"},
		{labelPie, "", "outside"},
		{labelPie, "center", "center"},
		{labelRing, "", "center"},
		{labelRing, "top", "center"},
		{labelRing, "inside", "inside"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizePosition(tc.kind, tc.requested), "kind=%d requested=%q", tc.kind, tc.requested)
	}
}

func TestCompile_LabelTexts(t *testing.T) {
	pct := 0.125
	payload := &analytics.ChartPayload{
		Labels:  []string{"x"},
		Legends: []string{"a"},
		Series:  [][]analytics.Point{{{Value: 1200, Percent: &pct}}},
	}
	w := widget.Spec{Type: widget.ChartColumn, Options: widget.Options{Labels: widget.LabelOptions{
		Show:            true,
		Format:          format.ModeNumber,
		ShowPercent:     true,
		PercentDecimals: 1,
	}}}

	spec, err := Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1,200 (12.5%)"}, spec.Series[0].Label.Texts)

	w.Options.Labels.PercentPlacement = format.PercentPrefix
	spec, err = Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"12.5% 1,200"}, spec.Series[0].Label.Texts)
}

func TestCompile_SeriesOverridesWin(t *testing.T) {
	payload := newPayload([]string{"x", "y"}, []string{"a", "b"}, []float64{1, 2}, []float64{3, 4})
	position := "inside"
	compact := format.ModeCompact
	dotted := "dotted"

	w := widget.Spec{Type: widget.ChartLine, Options: widget.Options{
		Smooth:    true,
		LineWidth: 2,
		Labels:    widget.LabelOptions{Show: true, Position: "top"},
		SeriesOverrides: []widget.SeriesOverride{{
			Series:    "b",
			Smooth:    boolPtr(false),
			LineStyle: &dotted,
			Label:     &widget.LabelOverride{Position: &position, Format: &compact},
		}},
	}}

	spec, err := Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)

	a, b := spec.Series[0], spec.Series[1]
	assert.True(t, a.Smooth)
	assert.False(t, b.Smooth)
	assert.Equal(t, &LineStyle{Width: 2}, a.LineStyle)
	assert.Equal(t, &LineStyle{Width: 2, Type: "dotted"}, b.LineStyle)
	assert.Equal(t, "top", a.Label.Position)
	assert.Equal(t, "inside", b.Label.Position)
	assert.Equal(t, format.ModeCompact, b.Label.Format)

	w.Options.SeriesOverrides[0].Label.Show = boolPtr(false)
	spec, err = Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)
	assert.True(t, spec.Series[0].Label.Show)
	assert.False(t, spec.Series[1].Label.Show)
	assert.Empty(t, spec.Series[1].Label.Texts)
}

func TestCompile_ComboDualAxis(t *testing.T) {
	payload := newPayload([]string{"x", "y"}, []string{"revenue", "orders"}, []float64{100, 200}, []float64{3, 7})
	w := widget.Spec{
		Type:       widget.ChartCombo,
		Dimensions: []string{"month"},
		Measures: []widget.Measure{
			{Column: "amount", Aggregate: widget.AggSum, Label: "revenue"},
			{Aggregate: widget.AggCount, Label: "orders", Axis: 1, SeriesType: widget.ChartLine},
		},
	}

	spec, err := Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)
	require.Len(t, spec.YAxis, 2)
	assert.Equal(t, "right", spec.YAxis[1].Position)
	assert.Equal(t, 200.0, *spec.YAxis[0].Max)
	assert.Equal(t, 7.0, *spec.YAxis[1].Max)
	assert.Equal(t, "bar", spec.Series[0].Type)
	assert.Equal(t, "line", spec.Series[1].Type)
	assert.Equal(t, 0, spec.Series[0].YAxisIndex)
	assert.Equal(t, 1, spec.Series[1].YAxisIndex)

	t.Run("hidden secondary axis is not materialized", func(t *testing.T) {
		hidden := w
		hidden.Options.SecondaryAxis.Show = boolPtr(false)
		spec, err := Compile(payload, hidden, widget.Theme{}, false)
		require.NoError(t, err)
		require.Len(t, spec.YAxis, 1)
		assert.Equal(t, 0, spec.Series[1].YAxisIndex)
		assert.Equal(t, 200.0, *spec.YAxis[0].Max)
	})

	t.Run("unused secondary axis is not materialized", func(t *testing.T) {
		single := w
		single.Measures = []widget.Measure{w.Measures[0], {Aggregate: widget.AggCount, Label: "orders"}}
		spec, err := Compile(payload, single, widget.Theme{}, false)
		require.NoError(t, err)
		assert.Len(t, spec.YAxis, 1)
	})

	t.Run("override axis wins over measure", func(t *testing.T) {
		zero := 0
		moved := w
		moved.Options.SeriesOverrides = []widget.SeriesOverride{{Series: "orders", Axis: &zero, Type: widget.ChartBar}}
		spec, err := Compile(payload, moved, widget.Theme{}, false)
		require.NoError(t, err)
		assert.Len(t, spec.YAxis, 1)
		assert.Equal(t, "bar", spec.Series[1].Type)
	})
}

func TestCompile_PieAndRing(t *testing.T) {
	payload := newPayload([]string{"x", "y"}, []string{"share"}, []float64{1, 3})

	pie, err := Compile(payload, widget.Spec{Type: widget.ChartPie}, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"0%", "70%"}, pie.Series[0].Radius)
	assert.Equal(t, "outside", pie.Series[0].Label.Position)
	assert.Equal(t, []string{"x", "y"}, pie.Legend.Data)
	assert.Empty(t, pie.XAxis)

	ring, err := Compile(payload, widget.Spec{Type: widget.ChartRing}, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"40%", "70%"}, ring.Series[0].Radius)
	assert.Equal(t, "center", ring.Series[0].Label.Position)
}

func TestCompile_Radar(t *testing.T) {
	payload := newPayload([]string{"speed", "power"}, []string{"a", "b"}, []float64{3, 0}, []float64{5, 0})

	spec, err := Compile(payload, widget.Spec{Type: widget.ChartRadar}, widget.Theme{}, false)
	require.NoError(t, err)
	require.NotNil(t, spec.Radar)
	assert.Equal(t, []Indicator{{Name: "speed", Max: 5}, {Name: "power", Max: 1}}, spec.Radar.Indicators)
	assert.Len(t, spec.Series, 2)
	assert.Equal(t, "radar", spec.Series[0].Type)
}

func TestCompile_Scatter(t *testing.T) {
	payload := newPayload([]string{"p1", "p2"}, []string{"height", "weight"}, []float64{170, 180}, []float64{60, 80})
	w := widget.Spec{Type: widget.ChartScatter}

	spec, err := Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)
	require.Len(t, spec.Series, 1)
	assert.Equal(t, []float64{180, 80}, spec.Series[0].Data[1].Coords)
	assert.Equal(t, "height", spec.XAxis[0].Name)
	assert.Equal(t, "weight", spec.YAxis[0].Name)

	_, err = Compile(newPayload([]string{"p1"}, []string{"height"}, []float64{1}), w, widget.Theme{}, false)
	assert.Error(t, err)
}

func TestCompile_KPI(t *testing.T) {
	payload := newPayload([]string{"Revenue"}, []string{"Revenue"}, []float64{1234567})

	spec, err := Compile(payload, widget.Spec{Type: widget.ChartKPI}, widget.Theme{TextColor: "#222"}, false)
	require.NoError(t, err)
	require.NotNil(t, spec.KPI)
	assert.Equal(t, "1234567", spec.KPI.Text)
	assert.Equal(t, 48, spec.KPI.FontSize)
	assert.Equal(t, "bold", spec.KPI.FontWeight)
	assert.Equal(t, "#222", spec.KPI.Color)
	assert.Nil(t, spec.Legend)
	assert.Empty(t, spec.XAxis)

	w := widget.Spec{Type: widget.ChartKPI, Options: widget.Options{KPI: widget.KPIOptions{
		Format: format.ModeCompact, Prefix: "$", FontSize: 32, Color: "#f00",
	}}}
	spec, err = Compile(payload, w, widget.Theme{}, false)
	require.NoError(t, err)
	assert.Equal(t, "$1.2M", spec.KPI.Text)
	assert.Equal(t, 32, spec.KPI.FontSize)
	assert.Equal(t, "#f00", spec.KPI.Color)
}

func TestCompile_Compact(t *testing.T) {
	payload := newPayload([]string{"a"}, []string{"s"}, []float64{1})
	w := widget.Spec{Type: widget.ChartColumn, Options: widget.Options{
		XAxis: widget.AxisOptions{Title: "Region"},
	}}

	spec, err := Compile(payload, w, widget.Theme{}, true)
	require.NoError(t, err)
	assert.False(t, spec.Legend.Show)
	assert.Empty(t, spec.XAxis[0].Name)
	assert.True(t, spec.XAxis[0].Show)
	assert.Equal(t, "4", spec.Grid.Left)
}
