// Package currency formats rupee amounts the way the API has always rendered them.
package currency

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Code   = "INR"
	Symbol = "₹"
)

// Western thousands grouping ("1,234,567"), not the Indian lakh grouping.
var printer = message.NewPrinter(language.English)

// Truncate drops the fractional part toward zero.
func Truncate(amount float64) int64 {
	return int64(math.Trunc(amount))
}

// Group formats n with comma thousands separators.
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatINR renders "₹1,234,567" from a truncated amount.
func FormatINR(amount float64) string {
	return Symbol + Group(Truncate(amount))
}

// FormatDelta renders a signed adjustment as "+₹N" or "-₹N".
func FormatDelta(delta int64) string {
	if delta < 0 {
		return "-" + Symbol + Group(-delta)
	}
	return "+" + Symbol + Group(delta)
}

// FormatFloat renders v the way a float prints in the legacy API:
// shortest round-trip form, with ".0" on integral values ("70.0", "32.5").
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FormatNumber renders v without a trailing ".0" when integral ("3", "2.5").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
