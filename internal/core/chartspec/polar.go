package chartspec

import (
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/format"
)

var (
	pieRadius  = []string{"0%", "70%"}
	ringRadius = []string{"40%", "70%"}
)

const (
	kpiFontSize   = 48
	kpiFontWeight = "bold"
)

func compilePie(c *compilation) (*Spec, error) {
	return c.pieLike(pieRadius, labelPie), nil
}

func compileRing(c *compilation) (*Spec, error) {
	return c.pieLike(ringRadius, labelRing), nil
}

// pieLike draws the first series as slices, one per label.
// Slices are colored per point: explicit series color, explicit data color, then palette by slice.
func (c *compilation) pieLike(radius []string, kind labelKind) *Spec {
	spec := &Spec{Legend: c.legend(c.payload.Labels)}
	if len(c.payload.Series) == 0 {
		return spec
	}

	name := c.payload.Legends[0]
	points := c.payload.Series[0]
	data := make([]Datum, len(points))
	for j, pt := range points {
		color := c.pointColor(0, j)
		if color == "" {
			color = c.paletteColor(j)
		}
		data[j] = Datum{Name: c.payload.Labels[j], Value: pt.Value, Raw: pt.Raw, Color: color}
	}

	r := make([]string, len(radius))
	copy(r, radius)

	spec.Series = []Series{{
		Name:   name,
		Type:   seriesPie,
		Data:   data,
		Label:  c.label(name, kind, points),
		Radius: r,
	}}
	return spec
}

// compileRadar draws one polygon per series over one spoke per label
func compileRadar(c *compilation) (*Spec, error) {
	indicators := make([]Indicator, len(c.payload.Labels))
	for j, label := range c.payload.Labels {
		peak := 0.0
		for _, points := range c.payload.Series {
			if points[j].Value > peak {
				peak = points[j].Value
			}
		}
		if peak <= 0 {
			peak = 1
		}
		indicators[j] = Indicator{Name: label, Max: peak}
	}

	series := make([]Series, len(c.payload.Legends))
	for s := range series {
		series[s] = c.cartesianSeries(s, seriesRadar, labelLine)
		series[s].Stack = ""
		c.applyLineStyle(&series[s], false)
	}

	return &Spec{
		Legend: c.legend(c.payload.Legends),
		Radar:  &Radar{Indicators: indicators},
		Series: series,
	}, nil
}

// compileKPI renders the single aggregated value as text; axes and legend are not used
func compileKPI(c *compilation) (*Spec, error) {
	opts := c.opts.KPI

	label := ""
	if len(c.payload.Labels) > 0 {
		label = c.payload.Labels[0]
	}
	value := 0.0
	if len(c.payload.Series) > 0 && len(c.payload.Series[0]) > 0 {
		value = c.payload.Series[0][0].RawValue()
	}

	kpi := &KPI{
		Label:      label,
		Value:      value,
		Text:       opts.Prefix + format.Value(value, opts.Format) + opts.Suffix,
		FontSize:   opts.FontSize,
		FontWeight: opts.FontWeight,
		Color:      opts.Color,
	}
	if kpi.FontSize <= 0 {
		kpi.FontSize = kpiFontSize
	}
	if kpi.FontWeight == "" {
		kpi.FontWeight = kpiFontWeight
	}
	if kpi.Color == "" {
		kpi.Color = c.theme.TextColor
	}

	return &Spec{KPI: kpi}, nil
}
