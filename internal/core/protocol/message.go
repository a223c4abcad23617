// Package protocol defines the messages exchanged between the pipeline client and a worker host.
package protocol

import (
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/chartspec"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transform"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// MessageType tags the envelope
type MessageType string

const (
	TypeSetSource      MessageType = "setSource"      // caller -> host, no reply
	TypeComputeRequest MessageType = "computeRequest" // caller -> host
	TypePayload        MessageType = "payload"        // host -> caller
	TypeError          MessageType = "error"          // host -> caller
)

// Message is the single envelope carried by every transport.
// Only the fields relevant to Type are set.
type Message struct {
	Type       MessageType `json:"type"`
	RequestID  string      `json:"requestId,omitempty"`
	Generation int64       `json:"generation,omitempty"`

	// setSource
	DataSourceID   string           `json:"dataSourceId,omitempty"`
	RowVersion     string           `json:"rowVersion,omitempty"`
	TransformRules []transform.Rule `json:"transformRules,omitempty"`
	Rows           []filter.Row     `json:"rows,omitempty"`

	// computeRequest
	WidgetSpec *widget.Spec    `json:"widgetSpec,omitempty"`
	FilterSet  []filter.Clause `json:"filterSet,omitempty"`
	Theme      *widget.Theme   `json:"theme,omitempty"`
	Compact    bool            `json:"compact,omitempty"`

	// payload / error
	Result *ChartResult `json:"payload,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// ChartResult is the reply body of a successful computation
type ChartResult struct {
	Payload *analytics.ChartPayload `json:"payload"`
	Spec    *chartspec.Spec         `json:"spec"`
}

// Routable reports whether a reply to this message can be correlated
func (m Message) Routable() bool {
	return m.RequestID != ""
}

// ErrorReply builds an error message answering m
func (m Message) ErrorReply(err error) Message {
	return Message{
		Type:       TypeError,
		RequestID:  m.RequestID,
		Generation: m.Generation,
		Error:      err.Error(),
	}
}

// PayloadReply builds a payload message answering m
func (m Message) PayloadReply(result *ChartResult) Message {
	return Message{
		Type:       TypePayload,
		RequestID:  m.RequestID,
		Generation: m.Generation,
		Result:     result,
	}
}
