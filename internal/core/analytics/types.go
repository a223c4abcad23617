package analytics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
)

// Row is a single record of the cached data source
type Row = filter.Row

// ChartPayload is the aggregated, shape-agnostic result of a widget query
type ChartPayload struct {
	Labels       []string  `json:"labels"`                 // Category axis labels or pie segments
	Legends      []string  `json:"legends"`                // One per series
	Series       [][]Point `json:"series"`                 // series[i][j] is legend i at label j
	SeriesColors []string  `json:"seriesColors,omitempty"` // Explicit color per series, "" when unset
	DataColors   []string  `json:"dataColors,omitempty"`   // Explicit color per label, "" when unset
}

// Point is one aggregated value.
// It encodes as a bare number unless it carries a raw value or a percent share.
type Point struct {
	Value   float64  `json:"value"`
	Raw     *float64 `json:"raw,omitempty"`     // Pre-normalization value under percent stacking
	Percent *float64 `json:"percent,omitempty"` // Share used by percent label annotations
}

// RawValue is the value before any percent normalization
func (p Point) RawValue() float64 {
	if p.Raw != nil {
		return *p.Raw
	}
	return p.Value
}

type pointFields Point

// MarshalJSON emits a bare number for plain points
func (p Point) MarshalJSON() ([]byte, error) {
	if p.Raw == nil && p.Percent == nil {
		return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
	}
	return json.Marshal(pointFields(p))
}

// UnmarshalJSON accepts either a bare number or a {value, ...} record
func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Point{}
		return nil
	}

	if data[0] == '{' {
		var fields pointFields
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		*p = Point(fields)
		return nil
	}

	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("chart point: %w", err)
	}
	*p = Point{Value: value}
	return nil
}

// ErrShapeMismatch is returned when series and labels disagree in cardinality
var ErrShapeMismatch = errors.New("chart payload shape mismatch")

// Validate enforces len(series) == len(legends) and len(series[i]) == len(labels)
func (p *ChartPayload) Validate() error {
	if len(p.Series) != len(p.Legends) {
		return fmt.Errorf("%w: %d series for %d legends", ErrShapeMismatch, len(p.Series), len(p.Legends))
	}
	for i, s := range p.Series {
		if len(s) != len(p.Labels) {
			return fmt.Errorf("%w: series %q has %d points for %d labels", ErrShapeMismatch, p.Legends[i], len(s), len(p.Labels))
		}
	}
	if len(p.SeriesColors) > 0 && len(p.SeriesColors) != len(p.Legends) {
		return fmt.Errorf("%w: %d series colors for %d legends", ErrShapeMismatch, len(p.SeriesColors), len(p.Legends))
	}
	if len(p.DataColors) > 0 && len(p.DataColors) != len(p.Labels) {
		return fmt.Errorf("%w: %d data colors for %d labels", ErrShapeMismatch, len(p.DataColors), len(p.Labels))
	}
	return nil
}

// Values flattens one series into plain raw numbers
func (p *ChartPayload) Values(series int) []float64 {
	out := make([]float64, len(p.Series[series]))
	for i, pt := range p.Series[series] {
		out[i] = pt.RawValue()
	}
	return out
}
