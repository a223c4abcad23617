package analytics

import (
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
)

// Granularity buckets a date dimension
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// BucketDate returns the label and start instant of the bucket containing t
func BucketDate(t time.Time, granularity Granularity) (string, time.Time) {
	switch granularity {
	case GranularityWeek:
		// Weeks start on Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := filter.StartOfDay(t.AddDate(0, 0, -weekday+1))
		return start.Format("2006-01-02"), start

	case GranularityMonth:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start.Format("2006-01"), start

	case GranularityQuarter:
		q := (int(t.Month()) - 1) / 3
		start := time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, t.Location())
		return fmt.Sprintf("%d-Q%d", t.Year(), q+1), start

	case GranularityYear:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
		return start.Format("2006"), start

	default:
		start := filter.StartOfDay(t)
		return start.Format("2006-01-02"), start
	}
}
