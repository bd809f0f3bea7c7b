package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spccli/internal/dataset"
	apperrors "spccli/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewRenderError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.NewRenderError(fmt.Sprintf("failed to open file %s", filePath), err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewRenderError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewRenderError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewRenderError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewRenderError("failed to flush CSV", err)
	}

	return nil
}

// WriteRates exports the per-record defect rates. Excluded rows appear with
// an "excluded" marker instead of a rate so the report total still accounts
// for them.
func (w *CSVWriter) WriteRates(filePath string, ds *dataset.Dataset) error {
	records := make([][]string, 0, ds.Len())
	for _, r := range ds.Records() {
		rateCell := "excluded"
		if rate, ok := r.DefectRate(); ok {
			rateCell = formatRate(rate)
		}
		records = append(records, []string{
			r.Date.Format("2006-01-02"),
			r.Shift.String(),
			fmt.Sprintf("%d", r.UnitsProduced),
			fmt.Sprintf("%d", r.DefectCount),
			rateCell,
		})
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{"Date", "Shift", "Units_Produced", "Defect_Count", "Defect_Rate"},
		Records:   records,
		BOMPrefix: true,
	})
}
