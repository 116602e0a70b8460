package exporter

import (
	"strconv"
)

// formatRate formats a percentage with exactly one decimal place, so 45
// appears as 45.0
func formatRate(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatOptional renders a nil string as an empty cell
func formatOptional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
