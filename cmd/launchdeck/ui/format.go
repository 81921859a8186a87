package ui

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer renders numbers with English grouping separators. All figures in
// the tool are display-only, so one fixed locale keeps columns aligned.
var printer = message.NewPrinter(language.English)

// FormatInt renders a whole number with thousands separators: 1,234,567.
func FormatInt(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// FormatFloat renders a number with thousands separators and exactly two
// decimals: 1,234.50.
func FormatFloat(v float64) string {
	return printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatMoney renders an amount with its currency code: "NPR 1,234.50".
// An empty currency falls back to the bare amount.
func FormatMoney(currency string, v float64) string {
	if currency == "" {
		return FormatFloat(v)
	}
	return currency + " " + FormatFloat(v)
}

// FormatPct renders a percentage with one decimal: "26.7%".
func FormatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FormatScore renders a 0-5 style score with two decimals, without
// grouping. Layer scores never reach a thousand.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatBool renders a boolean gate as a check or cross mark.
func FormatBool(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}

// Truncate shortens s to at most l runes, ellipsized.
func Truncate(s string, l int) string {
	if l <= 3 {
		l = 3
	}
	runes := []rune(s)
	if len(runes) <= l {
		return s
	}
	return string(runes[:l-3]) + "..."
}
