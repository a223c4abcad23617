package widget

import (
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/format"
)

// ChartType is the closed set of chart shapes a widget can render
type ChartType string

const (
	ChartBar     ChartType = "bar" // horizontal bars
	ChartColumn  ChartType = "column"
	ChartLine    ChartType = "line"
	ChartArea    ChartType = "area"
	ChartPie     ChartType = "pie"
	ChartRing    ChartType = "ring"
	ChartScatter ChartType = "scatter"
	ChartRadar   ChartType = "radar"
	ChartCombo   ChartType = "combo"
	ChartKPI     ChartType = "kpi"
)

// ChartTypes lists every supported chart type
var ChartTypes = []ChartType{
	ChartBar, ChartColumn, ChartLine, ChartArea, ChartPie,
	ChartRing, ChartScatter, ChartRadar, ChartCombo, ChartKPI,
}

// Aggregate is the per-bucket reduction applied to a measure column
type Aggregate string

const (
	AggSum      Aggregate = "sum"
	AggCount    Aggregate = "count"
	AggAvg      Aggregate = "avg"
	AggMin      Aggregate = "min"
	AggMax      Aggregate = "max"
	AggDistinct Aggregate = "distinct"
)

// Spec is the declarative description of one dashboard widget
type Spec struct {
	ID              string          `json:"id,omitempty"`
	Title           string          `json:"title,omitempty"`
	Type            ChartType       `json:"type" validate:"required,oneof=bar column line area pie ring scatter radar combo kpi"`
	Dimensions      []string        `json:"dimensions,omitempty" validate:"required_unless=Type kpi,dive,required"`
	DateGranularity string          `json:"dateGranularity,omitempty" validate:"omitempty,oneof=day week month quarter year"`
	SeriesBy        string          `json:"seriesBy,omitempty"` // Stacking/series dimension
	Measures        []Measure       `json:"measures" validate:"required,min=1,dive"`
	Filters         []filter.Clause `json:"filters,omitempty" validate:"dive"` // Widget-local, ANDed with global filters
	Options         Options         `json:"options"`
}

// Measure is one aggregated value column
type Measure struct {
	Column    string    `json:"column,omitempty" validate:"required_unless=Aggregate count"`
	Aggregate Aggregate `json:"aggregate" validate:"required,oneof=sum count avg min max distinct"`
	Label     string    `json:"label,omitempty"`
	// Combo only: value axis index (0 primary, 1 secondary) and the series shape
	Axis       int       `json:"axis,omitempty" validate:"min=0,max=1"`
	SeriesType ChartType `json:"seriesType,omitempty" validate:"omitempty,oneof=bar column line area"`
}

// Options holds the per-chart display configuration
type Options struct {
	Stack        bool   `json:"stack,omitempty"`
	PercentStack bool   `json:"percentStack,omitempty"`
	TopN         int    `json:"topN,omitempty" validate:"min=0"`
	GroupOthers  *bool  `json:"groupOthers,omitempty"` // nil means enabled
	OthersLabel  string `json:"othersLabel,omitempty"`
	SortBy       string `json:"sortBy,omitempty" validate:"omitempty,oneof=label value_asc value_desc"`

	XAxis         AxisOptions   `json:"xAxis"`
	YAxis         AxisOptions   `json:"yAxis"`
	SecondaryAxis AxisOptions   `json:"secondaryAxis"`
	Legend        LegendOptions `json:"legend"`
	Labels        LabelOptions  `json:"labels"`

	Smooth    bool    `json:"smooth,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty" validate:"min=0"`
	LineStyle string  `json:"lineStyle,omitempty" validate:"omitempty,oneof=solid dashed dotted"`
	ShowArea  bool    `json:"showArea,omitempty"`

	SeriesOverrides []SeriesOverride  `json:"seriesOverrides,omitempty" validate:"dive"`
	DataColors      map[string]string `json:"dataColors,omitempty"` // Category label -> color
	Palette         []string          `json:"palette,omitempty"`    // Overrides the theme palette

	KPI KPIOptions `json:"kpi"`
}

// AxisOptions configures one axis
type AxisOptions struct {
	Show          *bool    `json:"show,omitempty"`
	Title         string   `json:"title,omitempty"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	ShowSplitLine *bool    `json:"showSplitLine,omitempty"`
	LabelRotate   int      `json:"labelRotate,omitempty"`
}

// Visible defaults to true
func (a AxisOptions) Visible() bool {
	return a.Show == nil || *a.Show
}

// LegendOptions configures the legend
type LegendOptions struct {
	Show     *bool  `json:"show,omitempty"`
	Position string `json:"position,omitempty" validate:"omitempty,oneof=top bottom left right"`
}

// LabelOptions are the widget-level data label defaults
type LabelOptions struct {
	Show             bool                    `json:"show,omitempty"`
	Position         string                  `json:"position,omitempty"`
	Format           format.Mode             `json:"format,omitempty" validate:"omitempty,oneof=text number compact accounting auto"`
	Prefix           string                  `json:"prefix,omitempty"`
	Suffix           string                  `json:"suffix,omitempty"`
	ShowPercent      bool                    `json:"showPercent,omitempty"`
	PercentDecimals  int                     `json:"percentDecimals,omitempty" validate:"min=0,max=6"`
	PercentPlacement format.PercentPlacement `json:"percentPlacement,omitempty" validate:"omitempty,oneof=prefix suffix"`
}

// SeriesOverride carries per-series settings; a non-nil field wins over the widget default
type SeriesOverride struct {
	Series    string         `json:"series" validate:"required"` // Legend name
	Color     string         `json:"color,omitempty"`
	Type      ChartType      `json:"type,omitempty" validate:"omitempty,oneof=bar column line area"`
	Axis      *int           `json:"axis,omitempty" validate:"omitempty,min=0,max=1"`
	Smooth    *bool          `json:"smooth,omitempty"`
	LineWidth *float64       `json:"lineWidth,omitempty"`
	LineStyle *string        `json:"lineStyle,omitempty"`
	Label     *LabelOverride `json:"label,omitempty"`
}

// LabelOverride is the per-series counterpart of LabelOptions
type LabelOverride struct {
	Show        *bool        `json:"show,omitempty"`
	Position    *string      `json:"position,omitempty"`
	Format      *format.Mode `json:"format,omitempty"`
	ShowPercent *bool        `json:"showPercent,omitempty"`
}

// KPIOptions configures the single-value widget
type KPIOptions struct {
	FontSize   int         `json:"fontSize,omitempty" validate:"min=0"`
	FontWeight string      `json:"fontWeight,omitempty"`
	Color      string      `json:"color,omitempty"`
	Format     format.Mode `json:"format,omitempty" validate:"omitempty,oneof=text number compact accounting auto"`
	Prefix     string      `json:"prefix,omitempty"`
	Suffix     string      `json:"suffix,omitempty"`
}
