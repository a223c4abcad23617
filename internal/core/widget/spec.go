package widget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
)

var validate = validator.New()

// ErrInvalidSpec wraps every widget validation failure
var ErrInvalidSpec = errors.New("invalid widget spec")

// Validate checks the spec before it enters the pipeline
func (s Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, describe(err))
	}

	for _, clause := range s.Filters {
		if err := filter.Validate(clause); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
	}

	if s.Type == ChartScatter && len(s.Measures) < 2 {
		return fmt.Errorf("%w: scatter needs an x and a y measure", ErrInvalidSpec)
	}

	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// Name is the legend name of a measure
func (m Measure) Name() string {
	if m.Label != "" {
		return m.Label
	}
	if m.Aggregate == AggCount && m.Column == "" {
		return "count"
	}
	return fmt.Sprintf("%s(%s)", m.Aggregate, m.Column)
}

// OverrideFor returns the override for a series, nil when absent
func (o Options) OverrideFor(series string) *SeriesOverride {
	for i := range o.SeriesOverrides {
		if o.SeriesOverrides[i].Series == series {
			return &o.SeriesOverrides[i]
		}
	}
	return nil
}

// GroupOthersEnabled is true unless groupOthers was explicitly disabled
func (o Options) GroupOthersEnabled() bool {
	return o.GroupOthers == nil || *o.GroupOthers
}

// OthersName is the label of the synthetic overflow bucket
func (o Options) OthersName() string {
	if o.OthersLabel != "" {
		return o.OthersLabel
	}
	return "Others"
}

// WantsPercentLabels reports whether any label asks for a percent annotation
func (o Options) WantsPercentLabels() bool {
	if o.Labels.ShowPercent {
		return true
	}
	for _, ov := range o.SeriesOverrides {
		if ov.Label != nil && ov.Label.ShowPercent != nil && *ov.Label.ShowPercent {
			return true
		}
	}
	return false
}
