package models

import (
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/chartspec"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// ComputeChartRequest is an ad-hoc chart over one data source
type ComputeChartRequest struct {
	DataSourceID string          `json:"dataSourceId" validate:"required,uuid"`
	Widget       widget.Spec     `json:"widget"`
	Filters      []filter.Clause `json:"filters,omitempty" validate:"dive"`
	Theme        *widget.Theme   `json:"theme,omitempty"`
	Compact      bool            `json:"compact,omitempty"`
}

// ComputeWidgetRequest carries the dashboard state a stored widget is computed under.
// Filters are ANDed with the project's global filters.
type ComputeWidgetRequest struct {
	Filters []filter.Clause `json:"filters,omitempty" validate:"dive"`
	Theme   *widget.Theme   `json:"theme,omitempty"`
	Compact bool            `json:"compact,omitempty"`
}

// ChartResult is one computed chart. Superseded results carry no payload.
type ChartResult struct {
	WidgetID   string                  `json:"widgetId,omitempty"`
	ElementID  string                  `json:"elementId,omitempty"`
	Generation int64                   `json:"generation"`
	Cached     bool                    `json:"cached,omitempty"`
	Superseded bool                    `json:"superseded,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Payload    *analytics.ChartPayload `json:"payload,omitempty"`
	Spec       *chartspec.Spec         `json:"spec,omitempty"`
}

// ChartSummary is a narrative of a computed widget
type ChartSummary struct {
	WidgetID   string `json:"widgetId"`
	Provider   string `json:"provider"`
	Summary    string `json:"summary"`
	Generation int64  `json:"generation"`
}
