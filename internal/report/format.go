package report

import (
	"fmt"
	"strconv"
)

// FormatGDP renders a GDP value with K/M/B suffixes at the 1e3/1e6/1e9
// thresholds. Values below 1000 print as-is.
func FormatGDP(num float64) string {
	switch {
	case num >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", num/1_000_000_000)
	case num >= 1_000_000:
		return fmt.Sprintf("%.1fM", num/1_000_000)
	case num >= 1_000:
		return fmt.Sprintf("%.1fK", num/1_000)
	default:
		return strconv.FormatFloat(num, 'f', -1, 64)
	}
}
