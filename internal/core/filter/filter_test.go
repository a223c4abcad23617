package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenDays() []Row {
	rows := make([]Row, 0, 10)
	for d := 1; d <= 10; d++ {
		rows = append(rows, Row{"date": fmt.Sprintf("2024-01-%02d", d), "region": "North"})
	}
	return rows
}

func TestMatches_DateOperators(t *testing.T) {
	rows := tenDays()

	between := Clause{Column: "date", DataType: DataTypeDate, Operator: OperatorBetween, Value: "2024-01-03", EndValue: "2024-01-05"}
	assert.Len(t, Apply(rows, between), 3)

	on := Clause{Column: "date", DataType: DataTypeDate, Operator: OperatorOn, Value: "2024-01-03"}
	assert.Len(t, Apply(rows, on), 1)

	before := Clause{Column: "date", DataType: DataTypeDate, Operator: OperatorBefore, Value: "2024-01-03"}
	assert.Len(t, Apply(rows, before), 2)

	after := Clause{Column: "date", DataType: DataTypeDate, Operator: OperatorAfter, Value: "2024-01-03"}
	assert.Len(t, Apply(rows, after), 7)
}

func TestMatches_DateBetweenOpenEnded(t *testing.T) {
	rows := tenDays()

	from := Clause{Column: "date", DataType: DataTypeDate, Value: "2024-01-08"}
	assert.Len(t, Apply(rows, from), 3, "missing end bound is unbounded")

	until := Clause{Column: "date", DataType: DataTypeDate, EndValue: "2024-01-02"}
	assert.Len(t, Apply(rows, until), 2, "missing start bound is unbounded")
}

func TestMatches_DateTimeOfDayIsInclusive(t *testing.T) {
	row := Row{"created_at": "2024-01-05T23:30:00Z"}
	clause := Clause{Column: "created_at", DataType: DataTypeDate, Value: "2024-01-03", EndValue: "2024-01-05"}
	assert.True(t, Matches(row, clause))

	on := Clause{Column: "created_at", DataType: DataTypeDate, Operator: OperatorOn, Value: "2024-01-05"}
	assert.True(t, Matches(row, on))
}

func TestMatches_DateFailOpen(t *testing.T) {
	rows := tenDays()

	noBounds := Clause{Column: "date", DataType: DataTypeDate}
	assert.Len(t, Apply(rows, noBounds), 10)

	badValue := Clause{Column: "date", DataType: DataTypeDate, Operator: OperatorBefore, Value: "not a date"}
	assert.Len(t, Apply(rows, badValue), 10)
}

func TestMatches_DateUnparseableRowNeverMatches(t *testing.T) {
	clause := Clause{Column: "date", DataType: DataTypeDate, Operator: OperatorAfter, Value: "2020-01-01"}

	assert.False(t, Matches(Row{"date": "someday"}, clause))
	assert.False(t, Matches(Row{"date": ""}, clause))
	assert.False(t, Matches(Row{}, clause))
}

func TestMatches_TextIsCaseInsensitiveEquality(t *testing.T) {
	clause := Clause{Column: "region", DataType: DataTypeText, Value: "north"}

	assert.True(t, Matches(Row{"region": "North"}, clause))
	assert.False(t, Matches(Row{"region": "Northwest"}, clause), "equality, not substring")
	assert.False(t, Matches(Row{}, clause))
}

func TestMatches_EmptyValueMatchesEverything(t *testing.T) {
	assert.True(t, Matches(Row{"region": "South"}, Clause{Column: "region", DataType: DataTypeText}))
	assert.True(t, Matches(Row{"region": "South"}, Clause{Column: "region", DataType: DataTypeText, Value: "  "}))
	assert.True(t, Matches(Row{"qty": 4}, Clause{Column: "qty", DataType: DataTypeNumber, Value: ""}))
}

func TestMatches_NumberIsValueEquality(t *testing.T) {
	clause := Clause{Column: "qty", DataType: DataTypeNumber, Value: "5"}

	assert.True(t, Matches(Row{"qty": 5}, clause))
	assert.True(t, Matches(Row{"qty": 5.0}, clause))
	assert.True(t, Matches(Row{"qty": "5.0"}, clause))
	assert.False(t, Matches(Row{"qty": 6}, clause), "no inequality semantics")
}

func TestMatchesAll_IsLogicalAnd(t *testing.T) {
	row := Row{"region": "North", "date": "2024-01-04"}

	assert.True(t, MatchesAll(row,
		Clause{Column: "region", DataType: DataTypeText, Value: "NORTH"},
		Clause{Column: "date", DataType: DataTypeDate, Operator: OperatorAfter, Value: "2024-01-03"},
	))
	assert.False(t, MatchesAll(row,
		Clause{Column: "region", DataType: DataTypeText, Value: "NORTH"},
		Clause{Column: "date", DataType: DataTypeDate, Operator: OperatorBefore, Value: "2024-01-03"},
	))
	assert.True(t, MatchesAll(row), "empty set accepts")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Clause{Column: "a", DataType: DataTypeText}))
	require.NoError(t, Validate(Clause{Column: "a", DataType: DataTypeDate, Operator: OperatorOn}))

	assert.ErrorIs(t, Validate(Clause{DataType: DataTypeText}), ErrMissingColumn)
	assert.ErrorIs(t, Validate(Clause{Column: "a", DataType: "bool"}), ErrUnknownDataType)
	assert.ErrorIs(t, Validate(Clause{Column: "a", DataType: DataTypeDate, Operator: "during"}), ErrUnknownOperator)
}
