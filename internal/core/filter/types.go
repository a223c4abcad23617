package filter

import "errors"

// Row is a single schema-agnostic record of a data source
type Row = map[string]interface{}

// DataType decides how a clause compares row values
type DataType string

const (
	DataTypeText   DataType = "text"
	DataTypeNumber DataType = "number"
	DataTypeDate   DataType = "date"
)

// DateOperator is only meaningful for date clauses
type DateOperator string

const (
	OperatorBetween DateOperator = "between"
	OperatorOn      DateOperator = "on"
	OperatorBefore  DateOperator = "before"
	OperatorAfter   DateOperator = "after"
)

// Clause represents a single filter condition on one column
type Clause struct {
	Column   string       `json:"column" validate:"required"`
	DataType DataType     `json:"dataType" validate:"required,oneof=text number date"`
	Value    interface{}  `json:"value,omitempty"`
	EndValue interface{}  `json:"endValue,omitempty"`                                                    // Range end, "between" only
	Operator DateOperator `json:"operator,omitempty" validate:"omitempty,oneof=between on before after"` // Defaults to "between"
}

var (
	ErrUnknownDataType = errors.New("unknown filter data type")
	ErrUnknownOperator = errors.New("unknown date operator")
	ErrMissingColumn   = errors.New("filter column is required")
)
