package common

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric token from an upstream report cell.
// Thousands separators and surrounding whitespace are stripped. Empty
// cells and placeholder tokens ("-", "--", "---") return nil, as does
// anything that fails to parse. Never panics.
func ParseNumber(s string) *float64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.Trim(cleaned, " ")

	switch cleaned {
	case "", "-", "--", "---", "N/A":
		return nil
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseInt parses an integer token with the same cleaning rules as
// ParseNumber. Fractional values are truncated toward zero.
func ParseInt(s string) *int64 {
	v := ParseNumber(s)
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

// Round2 rounds to 2 decimal places. NaN and Inf collapse to 0 so a
// division against a zero reference never leaks into stored records.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places with the same NaN/Inf handling.
func Round4(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10000) / 10000
}

// RoundLots converts a share count to board lots (1000 shares), rounded
// to the nearest whole lot.
func RoundLots(shares float64) float64 {
	return math.Round(shares / 1000)
}

// Float64Ptr returns a pointer to v. Convenience for literal records.
func Float64Ptr(v float64) *float64 { return &v }

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }

// Deref returns the pointed-to value, or 0 for nil.
func Deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
