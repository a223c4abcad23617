package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/widget"
)

// orderCategories reorders labels (and value columns) for the widget.
// First-seen order is kept unless a sort was requested or the chart needs a continuous axis.
func orderCategories(g *grid, spec widget.Spec) {
	n := len(g.labels)
	if n < 2 {
		return
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	totals := columnTotals(g.values, n)

	switch spec.Options.SortBy {
	case "label":
		sort.SliceStable(perm, func(a, b int) bool {
			return naturalLess(g.labels[perm[a]], g.labels[perm[b]])
		})
	case "value_asc":
		sort.SliceStable(perm, func(a, b int) bool { return totals[perm[a]] < totals[perm[b]] })
	case "value_desc":
		sort.SliceStable(perm, func(a, b int) bool { return totals[perm[a]] > totals[perm[b]] })
	default:
		keys, ok := continuousKeys(g, spec)
		if !ok {
			return
		}
		sort.SliceStable(perm, func(a, b int) bool { return keys[perm[a]] < keys[perm[b]] })
	}

	labels := make([]string, n)
	for i, p := range perm {
		labels[i] = g.labels[p]
	}
	g.labels = labels

	for s := range g.values {
		row := make([]float64, n)
		for i, p := range perm {
			row[i] = g.values[s][p]
		}
		g.values[s] = row
	}
}

// continuousKeys returns a numeric sort key per label when the axis must be ordered
func continuousKeys(g *grid, spec widget.Spec) ([]float64, bool) {
	keys := make([]float64, len(g.labels))

	if spec.DateGranularity != "" {
		for i, label := range g.labels {
			start, ok := g.labelStart[label]
			if !ok {
				return nil, false
			}
			keys[i] = float64(start.Unix())
		}
		return keys, true
	}

	if spec.Type != widget.ChartLine && spec.Type != widget.ChartArea {
		return nil, false
	}

	numeric := true
	for i, label := range g.labels {
		v, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
		if err != nil {
			numeric = false
			break
		}
		keys[i] = v
	}
	if numeric {
		return keys, true
	}

	for i, label := range g.labels {
		t, ok := filter.ParseInstant(label)
		if !ok {
			return nil, false
		}
		keys[i] = float64(t.UnixNano()) / float64(time.Second)
	}
	return keys, true
}

func naturalLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

func columnTotals(values [][]float64, n int) []float64 {
	totals := make([]float64, n)
	for _, series := range values {
		for c, v := range series {
			totals[c] += v
		}
	}
	return totals
}

// applyTopN keeps the n largest categories and folds the rest into an overflow bucket.
// Ties keep first-seen order; the kept categories keep their relative order.
func applyTopN(g *grid, opts widget.Options) {
	n := len(g.labels)
	if opts.TopN <= 0 || n <= opts.TopN {
		return
	}

	totals := columnTotals(g.values, n)
	ranked := make([]int, n)
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return math.Abs(totals[ranked[a]]) > math.Abs(totals[ranked[b]])
	})

	keep := make(map[int]bool, opts.TopN)
	for _, idx := range ranked[:opts.TopN] {
		keep[idx] = true
	}

	labels := make([]string, 0, opts.TopN+1)
	for c, label := range g.labels {
		if keep[c] {
			labels = append(labels, label)
		}
	}

	groupOthers := opts.GroupOthersEnabled()
	if groupOthers {
		labels = append(labels, opts.OthersName())
	}

	for s, series := range g.values {
		row := make([]float64, 0, len(labels))
		others := 0.0
		for c, v := range series {
			if keep[c] {
				row = append(row, v)
			} else {
				others += v
			}
		}
		if groupOthers {
			row = append(row, others)
		}
		g.values[s] = row
	}

	g.labels = labels
}

// shapeSeries converts raw values into points, applying percent-of-total math
func shapeSeries(values [][]float64, opts widget.Options) [][]Point {
	n := 0
	if len(values) > 0 {
		n = len(values[0])
	}

	colTotals := columnTotals(values, n)
	seriesTotals := make([]float64, len(values))
	for s, series := range values {
		for _, v := range series {
			seriesTotals[s] += v
		}
	}

	wantPercent := opts.WantsPercentLabels()
	out := make([][]Point, len(values))

	for s, series := range values {
		out[s] = make([]Point, len(series))
		for c, v := range series {
			if opts.PercentStack {
				normalized := share(v, colTotals[c])
				raw := v
				pt := Point{Value: normalized, Raw: &raw}
				if wantPercent {
					pct := normalized
					pt.Percent = &pct
				}
				out[s][c] = pt
				continue
			}

			pt := Point{Value: v}
			if wantPercent {
				denominator := seriesTotals[s]
				if opts.Stack {
					denominator = colTotals[c]
				}
				pct := share(v, denominator)
				pt.Percent = &pct
			}
			out[s][c] = pt
		}
	}
	return out
}

// share divides and clamps to [0,1]; a zero total yields 0
func share(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	r := v / total
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func resolvePayloadColors(p *ChartPayload, opts widget.Options) {
	seriesColors := make([]string, len(p.Legends))
	anySeries := false
	for i, legend := range p.Legends {
		if ov := opts.OverrideFor(legend); ov != nil && ov.Color != "" {
			seriesColors[i] = ov.Color
			anySeries = true
		}
	}
	if anySeries {
		p.SeriesColors = seriesColors
	}

	if len(opts.DataColors) == 0 {
		return
	}
	dataColors := make([]string, len(p.Labels))
	anyData := false
	for i, label := range p.Labels {
		if c, ok := opts.DataColors[label]; ok && c != "" {
			dataColors[i] = c
			anyData = true
		}
	}
	if anyData {
		p.DataColors = dataColors
	}
}
