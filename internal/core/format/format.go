// Package format renders numeric chart values into label text.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
)

// Mode selects how a numeric value is rendered
type Mode string

const (
	ModeText       Mode = "text"       // verbatim
	ModeNumber     Mode = "number"     // grouped, no decimals
	ModeCompact    Mode = "compact"    // 1.2K, 3.4M, 5B
	ModeAccounting Mode = "accounting" // grouped, up to two decimals
	ModeAuto       Mode = "auto"       // verbatim unless the caller classified it
)

// PercentPlacement positions a percent annotation relative to the base value
type PercentPlacement string

const (
	PercentPrefix PercentPlacement = "prefix"
	PercentSuffix PercentPlacement = "suffix"
)

// Options controls a full label render
type Options struct {
	Mode             Mode
	Prefix           string
	Suffix           string
	ShowPercent      bool
	PercentDecimals  int
	PercentPlacement PercentPlacement
}

// Value renders a single value in the given mode.
// Non-numeric values are always returned verbatim.
func Value(value interface{}, mode Mode) string {
	if value == nil {
		return ""
	}

	num, err := cast.ToFloat64E(value)
	if err != nil {
		return cast.ToString(value)
	}

	switch mode {
	case ModeNumber:
		rounded := math.Round(num)
		if rounded == 0 {
			rounded = 0 // drop the sign of -0
		}
		return humanize.Commaf(rounded)
	case ModeAccounting:
		return humanize.CommafWithDigits(num, 2)
	case ModeCompact:
		return Compact(num)
	case ModeText, ModeAuto, "":
		if s, ok := value.(string); ok {
			return s
		}
		return strconv.FormatFloat(num, 'f', -1, 64)
	default:
		return strconv.FormatFloat(num, 'f', -1, 64)
	}
}

var siToCompact = map[string]string{
	"k": "K",
	"M": "M",
	"G": "B",
	"T": "T",
	"P": "P",
	"E": "E",
}

// Compact renders locale-compact notation with at most one decimal
func Compact(num float64) string {
	sign := ""
	if num < 0 {
		sign = "-"
		num = -num
	}

	if num < 1000 {
		return sign + trimZero(fmt.Sprintf("%.1f", num))
	}

	scaled, prefix := humanize.ComputeSI(num)
	// 999.95K rounds to 1000.0K, promote it
	if math.Round(scaled*10)/10 >= 1000 {
		scaled, prefix = humanize.ComputeSI(num * 1.0001)
	}
	return sign + trimZero(fmt.Sprintf("%.1f", scaled)) + siToCompact[prefix]
}

// Percent renders a 0..1 fraction as "12.5%"
func Percent(fraction float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(fraction*100, 'f', decimals, 64) + "%"
}

// Label renders a data label: prefix, formatted value, suffix and an optional percent annotation
func Label(value interface{}, percent *float64, opts Options) string {
	base := opts.Prefix + Value(value, opts.Mode) + opts.Suffix
	if !opts.ShowPercent || percent == nil {
		return base
	}

	pct := Percent(*percent, opts.PercentDecimals)
	if opts.PercentPlacement == PercentPrefix {
		return pct + " " + base
	}
	return base + " (" + pct + ")"
}

func trimZero(s string) string {
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
