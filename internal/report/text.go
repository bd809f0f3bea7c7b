package report

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spccli/internal/analysis"
	apperrors "spccli/internal/errors"
)

// ReportData carries everything the textual summary shows. Optional
// sections are pointers: a nil section renders as an explanatory line
// instead of numbers, so a failed t-test does not suppress the rest.
type ReportData struct {
	Overall      *analysis.SummaryStatistics
	Day          *analysis.SummaryStatistics
	Night        *analysis.SummaryStatistics
	Limits       *analysis.ControlLimits
	TTest        *analysis.TTestResult
	TTestSkipped string // reason the t-test could not run
	Alpha        float64
	TotalRecords int
	Excluded     int
	GeneratedAt  time.Time
}

// Verdict derives the plain-language conclusion from the p-value and the
// comparison of the two shift means. It is recomputed on every call, never
// stored.
func Verdict(t analysis.TTestResult, alpha float64) string {
	if !t.Significant(alpha) {
		return "No statistically significant difference between shifts detected."
	}
	diff := math.Abs(t.Night.Mean-t.Day.Mean) * 100
	if t.Night.Mean > t.Day.Mean {
		return fmt.Sprintf("Night shift has a significantly higher defect rate (by %.4f%%).", diff)
	}
	return fmt.Sprintf("Day shift has a significantly higher defect rate (by %.4f%%).", diff)
}

// TextRenderer produces the summary report
type TextRenderer struct {
	logger *slog.Logger
}

// NewTextRenderer creates a text report renderer
func NewTextRenderer(logger *slog.Logger) *TextRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextRenderer{logger: logger}
}

// Render writes the summary report to w
func (r *TextRenderer) Render(w io.Writer, data ReportData) error {
	divider := strings.Repeat("=", 60)

	if _, err := fmt.Fprintf(w, "DEFECT ANALYSIS - STATISTICAL SUMMARY\n%s\n\n", divider); err != nil {
		return apperrors.NewRenderError("failed to write report", err)
	}

	fmt.Fprintf(w, "DATASET:\n")
	fmt.Fprintf(w, "Records               : %d\n", data.TotalRecords)
	fmt.Fprintf(w, "Excluded (no units)   : %d\n\n", data.Excluded)

	fmt.Fprintf(w, "OVERALL DEFECT RATE:\n")
	if data.Overall != nil {
		o := data.Overall
		fmt.Fprintf(w, "Observations          : %d\n", o.N)
		fmt.Fprintf(w, "Mean Defect Rate      : %s (%s)\n", formatRate(o.Mean), formatPercent(o.Mean))
		fmt.Fprintf(w, "Std Deviation         : %s\n", formatRate(o.StdDev))
		fmt.Fprintf(w, "%.0f%% Confidence Interval: [%s, %s]\n",
			o.Confidence*100, formatRate(o.CILower), formatRate(o.CIUpper))
	} else {
		fmt.Fprintf(w, "Not computed: fewer than 2 usable records.\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "CONTROL CHART LIMITS:\n")
	if data.Limits != nil {
		fmt.Fprintf(w, "CL  : %s\n", formatRate(data.Limits.Centerline))
		fmt.Fprintf(w, "UCL : %s\n", formatRate(data.Limits.UCL))
		fmt.Fprintf(w, "LCL : %s\n", formatRate(data.Limits.LCL))
	} else {
		fmt.Fprintf(w, "Not computed: fewer than 2 usable records.\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "PER-SHIFT SUMMARY:\n")
	r.renderShift(w, "Day", data.Day)
	r.renderShift(w, "Night", data.Night)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "T-TEST (DAY vs NIGHT):\n")
	if data.TTest != nil {
		tt := data.TTest
		name := "Student's t-test (pooled variance)"
		if tt.Welch {
			name = "Welch's t-test (unequal variance)"
		}
		fmt.Fprintf(w, "Test        : %s\n", name)
		fmt.Fprintf(w, "T-statistic : %.4f\n", tt.T)
		fmt.Fprintf(w, "Deg Freedom : %.2f\n", tt.DoF)
		fmt.Fprintf(w, "P-value     : %.6f\n", tt.P)
		fmt.Fprintf(w, "Alpha       : %g\n\n", data.Alpha)
		fmt.Fprintf(w, "INTERPRETATION:\n%s\n", Verdict(*tt, data.Alpha))
	} else {
		fmt.Fprintf(w, "Not computed: %s\n", data.TTestSkipped)
	}

	fmt.Fprintf(w, "\n%s\nReport generated on %s\n%s\n",
		divider, data.GeneratedAt.Format("2006-01-02 15:04:05"), divider)

	return nil
}

// renderShift writes one shift's block of the per-shift summary
func (r *TextRenderer) renderShift(w io.Writer, name string, s *analysis.SummaryStatistics) {
	if s == nil {
		fmt.Fprintf(w, "%-5s : not computed (fewer than 2 records)\n", name)
		return
	}
	fmt.Fprintf(w, "%-5s : n=%d  mean=%s  std=%s\n",
		name, s.N, formatRate(s.Mean), formatRate(s.StdDev))
}

// WriteSummary renders the report to a file
func (r *TextRenderer) WriteSummary(path string, data ReportData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewRenderError("failed to create report directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewRenderError(fmt.Sprintf("failed to create report file %s", path), err)
	}
	defer file.Close()

	if err := r.Render(file, data); err != nil {
		return err
	}

	r.logger.Info("summary report written", slog.String("path", path))
	return nil
}
