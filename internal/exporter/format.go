package exporter

import (
	"fmt"
)

// formatFloat renders a float with exactly 2 decimal places so values
// like 13.4 appear as 13.40 in every row.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt renders an int64 for CSV output.
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatRank renders a rank cell. Rank 0 means unranked and becomes an
// empty cell so spreadsheet sorts and filters skip it.
func formatRank(r int) string {
	if r == 0 {
		return ""
	}
	return fmt.Sprintf("%d", r)
}
