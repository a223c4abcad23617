package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Modes(t *testing.T) {
	assert.Equal(t, "1234567.891", Value(1234567.891, ModeText))
	assert.Equal(t, "1,234,568", Value(1234567.891, ModeNumber))
	assert.Equal(t, "1,234,567.89", Value(1234567.891, ModeAccounting))
	assert.Equal(t, "1,234", Value(1234, ModeAccounting), "accounting drops trailing zeros")
	assert.Equal(t, "1.2M", Value(1234567.891, ModeCompact))
}

func TestValue_NumberBeyondInt64(t *testing.T) {
	assert.Equal(t, "10,000,000,000,000,000,000", Value(1e19, ModeNumber))
	assert.Equal(t, "-10,000,000,000,000,000,000", Value(-1e19, ModeNumber))
	assert.Equal(t, "-1,235", Value(-1234.5, ModeNumber))
	assert.Equal(t, "0", Value(-0.3, ModeNumber))
}

func TestValue_AutoIsVerbatim(t *testing.T) {
	assert.Equal(t, "1234567", Value(1234567, ModeAuto))
	assert.Equal(t, "0.25", Value(0.25, ModeAuto))
	assert.Equal(t, "007", Value("007", ModeAuto), "strings are kept as written")
}

func TestValue_NonNumeric(t *testing.T) {
	assert.Equal(t, "North", Value("North", ModeNumber))
	assert.Equal(t, "", Value(nil, ModeNumber))
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "950", Compact(950))
	assert.Equal(t, "1.5K", Compact(1500))
	assert.Equal(t, "1K", Compact(1000))
	assert.Equal(t, "1M", Compact(999990))
	assert.Equal(t, "2B", Compact(2e9))
	assert.Equal(t, "-3.4K", Compact(-3400))
	assert.Equal(t, "0.5", Compact(0.5))
}

func TestLabel_PercentPlacement(t *testing.T) {
	pct := 0.125

	suffix := Options{Mode: ModeNumber, ShowPercent: true, PercentDecimals: 1, PercentPlacement: PercentSuffix}
	assert.Equal(t, "1,200 (12.5%)", Label(1200, &pct, suffix))

	rounded := 0.126
	prefix := Options{Mode: ModeNumber, ShowPercent: true, PercentDecimals: 0, PercentPlacement: PercentPrefix}
	assert.Equal(t, "13% 1,200", Label(1200, &rounded, prefix))

	noPercent := Options{Mode: ModeNumber, Prefix: "$", Suffix: " USD"}
	assert.Equal(t, "$1,200 USD", Label(1200, &pct, noPercent))

	assert.Equal(t, "1,200", Label(1200, nil, suffix), "no fraction, no annotation")
}
