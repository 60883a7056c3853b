package exporter

import (
	"fmt"
	"strings"
)

// formatFloat formats a float64 value for CSV output. Values are rendered
// with up to six decimal places and trailing zeros trimmed, so 0.625 stays
// 0.625 and 100.0 becomes 100.
func formatFloat(f float64) string {
	s := fmt.Sprintf("%.6f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
