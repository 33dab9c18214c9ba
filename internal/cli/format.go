// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// currencyFormat is the go-humanize layout for grouped, two-decimal amounts.
const currencyFormat = "#,###.##"

// ParseAmount parses a decimal amount string, tolerating thousands separators
// and surrounding whitespace. The second result is false for empty or
// non-numeric input.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(StripCommas(s))
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatCurrency formats a decimal amount string as USD.
// e.g., "1234.5" -> "$1,234.50". Unparseable input renders as "$0.00".
func FormatCurrency(amount string) string {
	v, ok := ParseAmount(amount)
	if !ok {
		v = 0
	}
	return FormatUSD(v)
}

// FormatUSD formats a float as a grouped, two-decimal USD string.
func FormatUSD(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat(currencyFormat, -v)
	}
	return "$" + humanize.FormatFloat(currencyFormat, v)
}

// FormatGrouped formats a float with thousands separators and two decimals,
// without a currency symbol. e.g., 1500 -> "1,500.00"
func FormatGrouped(v float64) string {
	return humanize.FormatFloat(currencyFormat, v)
}

// FormatFixed formats a float with exactly two decimals and no grouping.
func FormatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatAmountInput normalizes a typed amount to two decimals without
// grouping, e.g. "1,500" -> "1500.00". Unparseable input is returned as is.
func FormatAmountInput(s string) string {
	v, ok := ParseAmount(s)
	if !ok {
		return s
	}
	return FormatFixed(v)
}

// StripCommas removes thousands separators from a formatted amount.
func StripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// FormatRelative formats t relative to now, e.g. "3 days ago".
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// Truncate shortens s to at most maxLen runes, marking the cut with an ellipsis.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
