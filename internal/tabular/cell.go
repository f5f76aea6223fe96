package tabular

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric cell. Empty, non-numeric and non-finite cells are reported as missing.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatNumber renders a value without trailing zeros, e.g. 4 or 0.25.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// cellValue stores numbers as numbers in workbooks so spreadsheet tools can compute on them.
func cellValue(s string) interface{} {
	if v, ok := ParseNumber(s); ok {
		return v
	}
	return s
}
