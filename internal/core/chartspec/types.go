// Package chartspec compiles aggregated chart payloads into a renderer-agnostic specification.
package chartspec

import (
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/format"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// Spec is the renderer-ready chart specification
type Spec struct {
	Type    widget.ChartType `json:"type"`
	Title   string           `json:"title,omitempty"`
	Palette []string         `json:"palette"`
	Legend  *Legend          `json:"legend,omitempty"`
	Grid    *Grid            `json:"grid,omitempty"`
	XAxis   []Axis           `json:"xAxis,omitempty"`
	YAxis   []Axis           `json:"yAxis,omitempty"`
	Radar   *Radar           `json:"radar,omitempty"`
	Series  []Series         `json:"series,omitempty"`
	KPI     *KPI             `json:"kpi,omitempty"`
}

// Axis types
const (
	AxisCategory = "category"
	AxisValue    = "value"
)

// Axis describes one axis. A hidden axis keeps its Min/Max.
type Axis struct {
	Type      string    `json:"type"`
	Name      string    `json:"name,omitempty"`
	Show      bool      `json:"show"`
	Position  string    `json:"position,omitempty"`
	Data      []string  `json:"data,omitempty"`
	Min       *float64  `json:"min,omitempty"`
	Max       *float64  `json:"max,omitempty"`
	AxisLine  Line      `json:"axisLine"`
	AxisTick  Line      `json:"axisTick"`
	AxisLabel AxisLabel `json:"axisLabel"`
	SplitLine Line      `json:"splitLine"`
}

// Line toggles an axis decoration
type Line struct {
	Show  bool   `json:"show"`
	Color string `json:"color,omitempty"`
}

// AxisLabel configures tick labels
type AxisLabel struct {
	Show    bool   `json:"show"`
	Rotate  int    `json:"rotate,omitempty"`
	Color   string `json:"color,omitempty"`
	Percent bool   `json:"percent,omitempty"` // Values are 0..1 fractions
}

// Legend lists the entries shown next to the chart
type Legend struct {
	Show     bool     `json:"show"`
	Position string   `json:"position"`
	Data     []string `json:"data"`
}

// Grid is the plot area padding
type Grid struct {
	Left         string `json:"left"`
	Right        string `json:"right"`
	Top          string `json:"top"`
	Bottom       string `json:"bottom"`
	ContainLabel bool   `json:"containLabel"`
}

// Series is one drawable series
type Series struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Data       []Datum    `json:"data"`
	Stack      string     `json:"stack,omitempty"`
	Smooth     bool       `json:"smooth,omitempty"`
	LineStyle  *LineStyle `json:"lineStyle,omitempty"`
	AreaStyle  *AreaStyle `json:"areaStyle,omitempty"`
	Label      Label      `json:"label"`
	Color      string     `json:"color,omitempty"`
	XAxisIndex int        `json:"xAxisIndex,omitempty"`
	YAxisIndex int        `json:"yAxisIndex,omitempty"`
	Radius     []string   `json:"radius,omitempty"`
}

// Datum is one data point of a series
type Datum struct {
	Name   string    `json:"name,omitempty"`
	Value  float64   `json:"value"`
	Raw    *float64  `json:"raw,omitempty"`
	Coords []float64 `json:"coords,omitempty"` // Scatter [x, y] or radar vector
	Color  string    `json:"color,omitempty"`
}

// Label is the data label intent plus the pre-formatted text per datum
type Label struct {
	Show     bool        `json:"show"`
	Position string      `json:"position,omitempty"`
	Format   format.Mode `json:"format,omitempty"`
	Texts    []string    `json:"texts,omitempty"`
}

// LineStyle is the stroke of line-like series
type LineStyle struct {
	Width float64 `json:"width,omitempty"`
	Type  string  `json:"type,omitempty"`
}

// AreaStyle fills under a line
type AreaStyle struct {
	Opacity float64 `json:"opacity"`
}

// Radar holds the polar indicators
type Radar struct {
	Indicators []Indicator `json:"indicators"`
}

// Indicator is one radar spoke
type Indicator struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

// KPI is the single-value block
type KPI struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Text       string  `json:"text"`
	FontSize   int     `json:"fontSize"`
	FontWeight string  `json:"fontWeight"`
	Color      string  `json:"color"`
}
