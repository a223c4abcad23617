package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Matches reports whether a single row satisfies one clause
func Matches(row Row, clause Clause) bool {
	switch clause.DataType {
	case DataTypeText, DataTypeNumber:
		return matchesValue(row, clause)
	case DataTypeDate:
		return matchesDate(row, clause)
	default:
		// Unvalidated clauses never hide data
		return true
	}
}

// MatchesAll reports whether the row satisfies every clause (logical AND)
func MatchesAll(row Row, clauses ...Clause) bool {
	for _, clause := range clauses {
		if !Matches(row, clause) {
			return false
		}
	}
	return true
}

// Apply returns the rows accepted by every clause, preserving order
func Apply(rows []Row, clauses ...Clause) []Row {
	if len(clauses) == 0 {
		return rows
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if MatchesAll(row, clauses...) {
			out = append(out, row)
		}
	}
	return out
}

// Validate checks a clause before it is applied
func Validate(clause Clause) error {
	if strings.TrimSpace(clause.Column) == "" {
		return ErrMissingColumn
	}

	switch clause.DataType {
	case DataTypeText, DataTypeNumber:
		return nil
	case DataTypeDate:
		switch clause.Operator {
		case "", OperatorBetween, OperatorOn, OperatorBefore, OperatorAfter:
			return nil
		default:
			return fmt.Errorf("%w: %q on column %s", ErrUnknownOperator, clause.Operator, clause.Column)
		}
	default:
		return fmt.Errorf("%w: %q on column %s", ErrUnknownDataType, clause.DataType, clause.Column)
	}
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func matchesValue(row Row, clause Clause) bool {
	if isEmpty(clause.Value) {
		return true
	}

	want := cast.ToString(clause.Value)
	got := cast.ToString(row[clause.Column])
	if strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want)) {
		return true
	}

	if clause.DataType != DataTypeNumber {
		return false
	}

	// 5 and "5.0" are the same number
	wantNum, err := strconv.ParseFloat(strings.TrimSpace(want), 64)
	if err != nil {
		return false
	}
	gotNum, err := cast.ToFloat64E(row[clause.Column])
	if err != nil {
		return false
	}
	return gotNum == wantNum
}

func matchesDate(row Row, clause Clause) bool {
	bounds := clauseBounds(clause)
	if bounds.unbounded() {
		return true
	}

	instant, ok := ParseInstant(row[clause.Column])
	if !ok {
		return false
	}

	switch clause.Operator {
	case OperatorBefore:
		return instant.Before(*bounds.start)
	case OperatorAfter:
		return instant.After(*bounds.end)
	default:
		return bounds.contains(instant)
	}
}

// clauseBounds derives the day window a date clause compares against
func clauseBounds(clause Clause) dayBounds {
	switch clause.Operator {
	case OperatorOn, OperatorBefore, OperatorAfter:
		start := startBound(clause.Value)
		end := endBound(clause.Value)
		if start == nil || end == nil {
			return dayBounds{}
		}
		return dayBounds{start: start, end: end}
	default:
		return dayBounds{
			start: startBound(clause.Value),
			end:   endBound(clause.EndValue),
		}
	}
}
