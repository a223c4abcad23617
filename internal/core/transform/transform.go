// Package transform applies a data source's transform rules to its raw rows.
package transform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cast"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
)

// RuleType names a transform operation
type RuleType string

const (
	RuleRename  RuleType = "rename"
	RuleCast    RuleType = "cast"
	RuleReplace RuleType = "replace"
	RuleExclude RuleType = "exclude"
)

// Rule is one column transformation, applied in list order
type Rule struct {
	Type     RuleType        `json:"type"`
	Column   string          `json:"column"`
	To       string          `json:"to,omitempty"`       // rename target
	CastType filter.DataType `json:"castType,omitempty"` // cast target
	Find     string          `json:"find,omitempty"`     // replace: exact cell value to match
	Replace  string          `json:"replace,omitempty"`
}

// Validate checks a single rule
func (r Rule) Validate() error {
	if r.Column == "" {
		return fmt.Errorf("transform rule %s: column is required", r.Type)
	}

	switch r.Type {
	case RuleRename:
		if r.To == "" {
			return fmt.Errorf("transform rule rename %s: target is required", r.Column)
		}
	case RuleCast:
		switch r.CastType {
		case filter.DataTypeText, filter.DataTypeNumber, filter.DataTypeDate:
		default:
			return fmt.Errorf("transform rule cast %s: unknown type %q", r.Column, r.CastType)
		}
	case RuleReplace, RuleExclude:
	default:
		return fmt.Errorf("unknown transform rule type %q", r.Type)
	}
	return nil
}

// Apply returns transformed copies of rows; the input rows are never mutated
func Apply(rows []filter.Row, rules []Rule) ([]filter.Row, error) {
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}

	out := make([]filter.Row, len(rows))
	for i, row := range rows {
		copied := make(filter.Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		for _, rule := range rules {
			applyRule(copied, rule)
		}
		out[i] = copied
	}
	return out, nil
}

func applyRule(row filter.Row, rule Rule) {
	value, exists := row[rule.Column]

	switch rule.Type {
	case RuleRename:
		if exists {
			delete(row, rule.Column)
			row[rule.To] = value
		}
	case RuleExclude:
		delete(row, rule.Column)
	case RuleReplace:
		if exists && strings.EqualFold(cast.ToString(value), rule.Find) {
			row[rule.Column] = rule.Replace
		}
	case RuleCast:
		if exists {
			row[rule.Column] = castValue(value, rule.CastType)
		}
	}
}

// castValue converts a cell; values that cannot be converted become nil
func castValue(value interface{}, to filter.DataType) interface{} {
	switch to {
	case filter.DataTypeNumber:
		if s, ok := value.(string); ok {
			// "1,250" from spreadsheet exports
			value = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		}
		num, err := cast.ToFloat64E(value)
		if err != nil {
			return nil
		}
		return num
	case filter.DataTypeDate:
		t, ok := filter.ParseInstant(value)
		if !ok {
			return nil
		}
		return t
	default:
		if f, ok := value.(float64); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return cast.ToString(value)
	}
}

// Hash fingerprints a rule list; equal lists always hash equal
func Hash(rules []Rule) string {
	if len(rules) == 0 {
		return "0"
	}

	encoded, err := json.Marshal(rules)
	if err != nil {
		// Rule only holds strings, Marshal cannot fail
		return "invalid"
	}
	return strconv.FormatUint(xxhash.Sum64(encoded), 16)
}
