package filter

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// StartOfDay returns 00:00:00.000 of the day t falls on
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999999999 of the day t falls on
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// ParseInstant converts a row or clause value into a UTC instant.
// Blank strings and nil are reported as unparseable.
func ParseInstant(value interface{}) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}

	t, err := cast.ToTimeInDefaultLocationE(value, time.UTC)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// dayBounds is an inclusive [start, end] window; a nil side is unbounded
type dayBounds struct {
	start *time.Time
	end   *time.Time
}

func (b dayBounds) unbounded() bool {
	return b.start == nil && b.end == nil
}

func (b dayBounds) contains(t time.Time) bool {
	if b.start != nil && t.Before(*b.start) {
		return false
	}
	if b.end != nil && t.After(*b.end) {
		return false
	}
	return true
}

func startBound(value interface{}) *time.Time {
	t, ok := ParseInstant(value)
	if !ok {
		return nil
	}
	s := StartOfDay(t)
	return &s
}

func endBound(value interface{}) *time.Time {
	t, ok := ParseInstant(value)
	if !ok {
		return nil
	}
	e := EndOfDay(t)
	return &e
}
