package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// ErrNoMeasures is returned for a widget without any measure
var ErrNoMeasures = errors.New("widget has no measures")

// accumulator reduces the values of one (category, series) cell
type accumulator struct {
	sum      float64
	count    int
	min      float64
	max      float64
	distinct map[string]struct{}
}

func (a *accumulator) add(raw interface{}, agg widget.Aggregate, column string) {
	switch agg {
	case widget.AggCount:
		if column == "" || raw != nil {
			a.count++
		}
		return
	case widget.AggDistinct:
		if raw == nil {
			return
		}
		if a.distinct == nil {
			a.distinct = make(map[string]struct{})
		}
		a.distinct[strings.ToLower(labelOf(raw))] = struct{}{}
		return
	}

	num, err := cast.ToFloat64E(raw)
	if err != nil || raw == nil {
		return
	}

	if a.count == 0 || num < a.min {
		a.min = num
	}
	if a.count == 0 || num > a.max {
		a.max = num
	}
	a.sum += num
	a.count++
}

func (a *accumulator) result(agg widget.Aggregate) float64 {
	if a == nil {
		return 0
	}

	switch agg {
	case widget.AggCount:
		return float64(a.count)
	case widget.AggDistinct:
		return float64(len(a.distinct))
	case widget.AggAvg:
		if a.count == 0 {
			return 0
		}
		return a.sum / float64(a.count)
	case widget.AggMin:
		return a.min
	case widget.AggMax:
		return a.max
	default:
		return a.sum
	}
}

// grid is the intermediate category x series table
type grid struct {
	labels     []string
	labelStart map[string]time.Time // Bucket start for date-granular labels
	legends    []string
	aggs       []widget.Aggregate // Reduction per series
	cells      map[string]map[string]*accumulator
	values     [][]float64 // values[series][category]
}

func newGrid() *grid {
	return &grid{
		labelStart: make(map[string]time.Time),
		cells:      make(map[string]map[string]*accumulator),
	}
}

func (g *grid) cell(label, series string) *accumulator {
	row, ok := g.cells[label]
	if !ok {
		row = make(map[string]*accumulator)
		g.cells[label] = row
		g.labels = append(g.labels, label)
	}
	acc, ok := row[series]
	if !ok {
		acc = &accumulator{}
		row[series] = acc
	}
	return acc
}

func (g *grid) addLegend(name string, agg widget.Aggregate) {
	for _, l := range g.legends {
		if l == name {
			return
		}
	}
	g.legends = append(g.legends, name)
	g.aggs = append(g.aggs, agg)
}

// materialize turns accumulators into the values matrix in first-seen label order
func (g *grid) materialize() {
	g.values = make([][]float64, len(g.legends))
	for s, legend := range g.legends {
		g.values[s] = make([]float64, len(g.labels))
		for c, label := range g.labels {
			g.values[s][c] = g.cells[label][legend].result(g.aggs[s])
		}
	}
}

// Aggregate groups already-filtered rows into a chart payload for the widget
func Aggregate(rows []Row, spec widget.Spec) (*ChartPayload, error) {
	if len(spec.Measures) == 0 {
		return nil, ErrNoMeasures
	}

	if spec.Type == widget.ChartKPI {
		return kpiPayload(rows, spec.Measures[0]), nil
	}
	if len(spec.Dimensions) == 0 {
		return nil, fmt.Errorf("%s chart needs a dimension", spec.Type)
	}

	g := newGrid()
	splitBySeries := spec.SeriesBy != "" && spec.Type != widget.ChartScatter

	if !splitBySeries {
		for _, m := range spec.Measures {
			g.addLegend(m.Name(), m.Aggregate)
		}
	}

	for _, row := range rows {
		label := categoryLabel(row, spec, g)

		if splitBySeries {
			m := spec.Measures[0]
			series := blankLabel(labelOf(row[spec.SeriesBy]))
			g.addLegend(series, m.Aggregate)
			g.cell(label, series).add(row[m.Column], m.Aggregate, m.Column)
			continue
		}

		for _, m := range spec.Measures {
			g.cell(label, m.Name()).add(row[m.Column], m.Aggregate, m.Column)
		}
	}

	g.materialize()
	orderCategories(g, spec)
	applyTopN(g, spec.Options)

	payload := &ChartPayload{
		Labels:  g.labels,
		Legends: g.legends,
		Series:  shapeSeries(g.values, spec.Options),
	}
	if payload.Labels == nil {
		payload.Labels = []string{}
	}
	if payload.Legends == nil {
		payload.Legends = []string{}
	}
	resolvePayloadColors(payload, spec.Options)

	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

func kpiPayload(rows []Row, m widget.Measure) *ChartPayload {
	acc := &accumulator{}
	for _, row := range rows {
		acc.add(row[m.Column], m.Aggregate, m.Column)
	}

	name := m.Name()
	return &ChartPayload{
		Labels:  []string{name},
		Legends: []string{name},
		Series:  [][]Point{{{Value: acc.result(m.Aggregate)}}},
	}
}

// categoryLabel joins the dimension values of a row, bucketing the first one by date when asked
func categoryLabel(row Row, spec widget.Spec, g *grid) string {
	parts := make([]string, 0, len(spec.Dimensions))

	for i, dim := range spec.Dimensions {
		raw := row[dim]
		if i == 0 && spec.DateGranularity != "" {
			if t, ok := filter.ParseInstant(raw); ok {
				label, start := BucketDate(t, Granularity(spec.DateGranularity))
				parts = append(parts, label)
				if len(spec.Dimensions) == 1 {
					g.labelStart[label] = start
				}
				continue
			}
		}
		parts = append(parts, blankLabel(labelOf(raw)))
	}

	return strings.Join(parts, " / ")
}

func blankLabel(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(blank)"
	}
	return s
}

// labelOf renders a cell value as a category label
func labelOf(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		if v.Equal(filter.StartOfDay(v)) {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	default:
		return cast.ToString(v)
	}
}
