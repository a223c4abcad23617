package chartspec

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

const (
	seriesBar     = "bar"
	seriesLine    = "line"
	seriesScatter = "scatter"
	seriesPie     = "pie"
	seriesRadar   = "radar"

	stackPrimary = "total"
)

// data converts series s into data points, attaching per-point colors when set
func (c *compilation) data(s int) []Datum {
	points := c.payload.Series[s]
	out := make([]Datum, len(points))
	for j, pt := range points {
		d := Datum{Name: c.payload.Labels[j], Value: pt.Value, Raw: pt.Raw}
		if c.explicitSeriesColor(s) == "" {
			d.Color = c.pointColor(s, j)
		}
		out[j] = d
	}
	return out
}

func (c *compilation) cartesianSeries(s int, seriesType string, kind labelKind) Series {
	name := c.payload.Legends[s]
	ser := Series{
		Name:  name,
		Type:  seriesType,
		Data:  c.data(s),
		Label: c.label(name, kind, c.payload.Series[s]),
		Color: c.seriesColor(s),
	}
	if c.stacked() {
		ser.Stack = stackPrimary
	}
	return ser
}

// applyLineStyle sets smoothing, stroke and area fill. Series overrides win.
func (c *compilation) applyLineStyle(ser *Series, area bool) {
	smooth := c.opts.Smooth
	width := c.opts.LineWidth
	style := c.opts.LineStyle

	if ov := c.opts.OverrideFor(ser.Name); ov != nil {
		if ov.Smooth != nil {
			smooth = *ov.Smooth
		}
		if ov.LineWidth != nil {
			width = *ov.LineWidth
		}
		if ov.LineStyle != nil {
			style = *ov.LineStyle
		}
	}

	ser.Smooth = smooth
	if width > 0 || style != "" {
		ser.LineStyle = &LineStyle{Width: width, Type: style}
	}
	if area || c.opts.ShowArea {
		ser.AreaStyle = &AreaStyle{Opacity: 0.3}
	}
}

func compileBar(c *compilation) (*Spec, error) {
	return c.barLike(true), nil
}

func compileColumn(c *compilation) (*Spec, error) {
	return c.barLike(false), nil
}

// barLike lays bars out horizontally (category on y) or vertically (category on x)
func (c *compilation) barLike(horizontal bool) *Spec {
	kind := labelVertical
	if horizontal {
		kind = labelHorizontal
	}

	series := make([]Series, len(c.payload.Legends))
	for s := range series {
		series[s] = c.cartesianSeries(s, seriesBar, kind)
	}

	spec := &Spec{Legend: c.legend(c.payload.Legends), Grid: c.grid(), Series: series}
	if horizontal {
		spec.XAxis = []Axis{c.valueAxis(c.opts.XAxis, c.payload.Series, c.stacked(), c.opts.PercentStack)}
		spec.YAxis = []Axis{c.categoryAxis(c.opts.YAxis)}
		return spec
	}

	spec.XAxis = []Axis{c.categoryAxis(c.opts.XAxis)}
	spec.YAxis = []Axis{c.valueAxis(c.opts.YAxis, c.payload.Series, c.stacked(), c.opts.PercentStack)}
	return spec
}

func compileLine(c *compilation) (*Spec, error) {
	return c.lineLike(false), nil
}

func compileArea(c *compilation) (*Spec, error) {
	return c.lineLike(true), nil
}

func (c *compilation) lineLike(area bool) *Spec {
	series := make([]Series, len(c.payload.Legends))
	for s := range series {
		series[s] = c.cartesianSeries(s, seriesLine, labelLine)
		c.applyLineStyle(&series[s], area)
	}

	return &Spec{
		Legend: c.legend(c.payload.Legends),
		Grid:   c.grid(),
		XAxis:  []Axis{c.categoryAxis(c.opts.XAxis)},
		YAxis:  []Axis{c.valueAxis(c.opts.YAxis, c.payload.Series, c.stacked(), c.opts.PercentStack)},
		Series: series,
	}
}

// comboShape resolves the series shape: override, then measure, then bars
func (c *compilation) comboShape(s int, name string) widget.ChartType {
	if ov := c.opts.OverrideFor(name); ov != nil && ov.Type != "" {
		return ov.Type
	}
	if m := c.measureFor(s); m != nil && m.SeriesType != "" {
		return m.SeriesType
	}
	return widget.ChartColumn
}

// comboAxis resolves the value axis index: override, then measure
func (c *compilation) comboAxis(s int, name string) int {
	if ov := c.opts.OverrideFor(name); ov != nil && ov.Axis != nil {
		return *ov.Axis
	}
	if m := c.measureFor(s); m != nil {
		return m.Axis
	}
	return 0
}

// compileCombo mixes bar and line series over one or two value axes.
// The secondary axis exists only when a series uses it and it is not hidden.
func compileCombo(c *compilation) (*Spec, error) {
	legends := c.payload.Legends
	series := make([]Series, len(legends))
	axisOf := make([]int, len(legends))

	usesSecondary := false
	for s, name := range legends {
		axisOf[s] = c.comboAxis(s, name)
		if axisOf[s] == 1 {
			usesSecondary = true
		}
	}
	dual := usesSecondary && c.opts.SecondaryAxis.Visible()

	var primary, secondary [][]analytics.Point
	for s, name := range legends {
		shape := c.comboShape(s, name)

		switch shape {
		case widget.ChartLine, widget.ChartArea:
			series[s] = c.cartesianSeries(s, seriesLine, labelLine)
			c.applyLineStyle(&series[s], shape == widget.ChartArea)
		default:
			series[s] = c.cartesianSeries(s, seriesBar, labelVertical)
		}

		if dual && axisOf[s] == 1 {
			series[s].YAxisIndex = 1
			if series[s].Stack != "" {
				series[s].Stack = fmt.Sprintf("%s-%d", stackPrimary, 1)
			}
			secondary = append(secondary, c.payload.Series[s])
			continue
		}
		primary = append(primary, c.payload.Series[s])
	}

	yAxes := []Axis{c.valueAxis(c.opts.YAxis, primary, c.stacked(), c.opts.PercentStack)}
	if dual {
		right := c.valueAxis(c.opts.SecondaryAxis, secondary, c.stacked(), c.opts.PercentStack)
		right.Position = "right"
		right.SplitLine.Show = false
		yAxes = append(yAxes, right)
	}

	return &Spec{
		Legend: c.legend(legends),
		Grid:   c.grid(),
		XAxis:  []Axis{c.categoryAxis(c.opts.XAxis)},
		YAxis:  yAxes,
		Series: series,
	}, nil
}

// compileScatter plots series 0 against series 1, one point per category
func compileScatter(c *compilation) (*Spec, error) {
	if len(c.payload.Series) < 2 {
		return nil, fmt.Errorf("scatter needs an x and a y series, got %d", len(c.payload.Series))
	}

	xs, ys := c.payload.Series[0], c.payload.Series[1]
	data := make([]Datum, len(ys))
	for j := range ys {
		data[j] = Datum{
			Name:   c.payload.Labels[j],
			Value:  ys[j].Value,
			Coords: []float64{xs[j].Value, ys[j].Value},
		}
	}

	name := c.payload.Legends[1]
	color := c.explicitSeriesColor(1)
	if color == "" {
		color = c.paletteColor(0)
	}

	xAxis := c.valueAxis(c.opts.XAxis, single(xs), false, false)
	if xAxis.Name == "" && xAxis.Show && !c.compact {
		xAxis.Name = c.payload.Legends[0]
	}
	yAxis := c.valueAxis(c.opts.YAxis, single(ys), false, false)
	if yAxis.Name == "" && yAxis.Show && !c.compact {
		yAxis.Name = name
	}

	return &Spec{
		Legend: c.legend([]string{name}),
		Grid:   c.grid(),
		XAxis:  []Axis{xAxis},
		YAxis:  []Axis{yAxis},
		Series: []Series{{
			Name:  name,
			Type:  seriesScatter,
			Data:  data,
			Label: c.label(name, labelLine, ys),
			Color: color,
		}},
	}, nil
}

func single(points []analytics.Point) [][]analytics.Point {
	return [][]analytics.Point{points}
}
