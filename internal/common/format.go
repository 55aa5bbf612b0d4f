package common

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrency formats a GBP amount with thousands separators, e.g. "£12,345.67".
// Non-finite values (a zero-quantity derived price) render as "-".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "-"
	}
	neg := amount < 0
	s := groupThousands(fmt.Sprintf("%.2f", math.Abs(amount)))
	if neg {
		return "-£" + s
	}
	return "£" + s
}

// FormatPercent formats a percentage with two decimals, e.g. "7.60%".
func FormatPercent(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatSignedPercent formats a percentage with an explicit sign, e.g. "+1.25%".
func FormatSignedPercent(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}

// FormatQuantity formats a unit quantity, trimming trailing zeros.
func FormatQuantity(qty float64) string {
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return "-"
	}
	s := fmt.Sprintf("%.4f", qty)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// groupThousands inserts commas into the integer part of a fixed-point string.
func groupThousands(s string) string {
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + fracPart
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + fracPart
}
