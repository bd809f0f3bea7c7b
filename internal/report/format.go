package report

import "fmt"

// formatRate formats a defect rate with 4 decimal places
func formatRate(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// formatPercent formats a rate as a percentage with 2 decimal places
func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}
