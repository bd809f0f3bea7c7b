package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	apperrors "spccli/internal/errors"
)

// Column names expected in the header row, after normalization
const (
	colDate          = "date"
	colShift         = "shift"
	colUnitsProduced = "units_produced"
	colDefectCount   = "defect_count"
)

var requiredColumns = []string{colDate, colShift, colUnitsProduced, colDefectCount}

// Sheet names tried before falling back to a full scan
var preferredSheets = []string{"Defects", "Data", "Sheet1"}

// dateLayouts covers the renderings excelize produces for date cells,
// plus the ISO form used by plain-text entry.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"01-02-2006",
	"1/2/06 15:04",
	"1/2/2006",
	"02/01/2006",
}

// Loader reads a defect workbook into a Dataset
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLoader creates a new workbook loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   logger,
		validate: validator.New(),
	}
}

// Load reads the workbook at path and returns the dataset. When sheet is
// empty the loader discovers the data sheet by header content.
func (l *Loader) Load(path, sheet string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	rows, sheetName, err := l.findDataSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	headerRow, columnMap, err := l.mapColumns(rows)
	if err != nil {
		return nil, err
	}

	l.logger.Info("found defect data",
		slog.String("sheet", sheetName),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", len(rows)))

	var records []DefectRecord
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		// Row index as shown in the workbook (1-based)
		rec, err := l.parseRow(row, columnMap, i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	ds := NewDataset(records)
	l.logger.Info("dataset loaded",
		slog.Int("records", ds.Len()),
		slog.Int("excluded_zero_production", ds.ExcludedCount()))

	return ds, nil
}

// findDataSheet locates the worksheet holding the defect table. An explicit
// sheet name wins; otherwise well-known names are tried, then every sheet is
// scanned for the required header columns.
func (l *Loader) findDataSheet(f *excelize.File, sheet string) ([][]string, string, error) {
	if sheet != "" {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, "", apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
		}
		return rows, sheet, nil
	}

	for _, name := range preferredSheets {
		if rows, err := f.GetRows(name); err == nil && hasHeaderRow(rows) {
			return rows, name, nil
		}
	}

	for _, name := range f.GetSheetList() {
		if rows, err := f.GetRows(name); err == nil && hasHeaderRow(rows) {
			l.logger.Debug("discovered data sheet by header scan", slog.String("sheet", name))
			return rows, name, nil
		}
	}

	return nil, "", apperrors.NewParsingError("could not find a sheet with Date/Shift/Units_Produced/Defect_Count columns", nil)
}

// mapColumns finds the header row and maps column names to indexes.
// The header row does not need to be the first row of the sheet.
func (l *Loader) mapColumns(rows [][]string) (int, map[string]int, error) {
	for i, row := range rows {
		columnMap := make(map[string]int)
		for j, cell := range row {
			columnMap[normalizeColumn(cell)] = j
		}

		complete := true
		for _, col := range requiredColumns {
			if _, ok := columnMap[col]; !ok {
				complete = false
				break
			}
		}
		if complete {
			return i, columnMap, nil
		}

		// Only scan the top of the sheet for a header
		if i >= 9 {
			break
		}
	}

	missing := missingColumns(rows)
	return 0, nil, apperrors.NewParsingError(
		fmt.Sprintf("no header row with required columns, missing: %s", strings.Join(missing, ", ")), nil)
}

// missingColumns reports which required columns never appear in the top rows
func missingColumns(rows [][]string) []string {
	seen := make(map[string]bool)
	for i, row := range rows {
		if i >= 10 {
			break
		}
		for _, cell := range row {
			seen[normalizeColumn(cell)] = true
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// parseRow converts one worksheet row into a DefectRecord
func (l *Loader) parseRow(row []string, columnMap map[string]int, rowIndex int) (DefectRecord, error) {
	var rec DefectRecord

	dateRaw := cellAt(row, columnMap[colDate])
	date, err := parseDate(dateRaw)
	if err != nil {
		return rec, apperrors.NewValidationError(rowIndex, "Date", err.Error())
	}
	rec.Date = date

	shift, err := ParseShift(cellAt(row, columnMap[colShift]))
	if err != nil {
		return rec, apperrors.NewValidationError(rowIndex, "Shift", err.Error())
	}
	rec.Shift = shift

	units, err := parseCount(cellAt(row, columnMap[colUnitsProduced]))
	if err != nil {
		return rec, apperrors.NewValidationError(rowIndex, "Units_Produced", err.Error())
	}
	rec.UnitsProduced = units

	defects, err := parseCount(cellAt(row, columnMap[colDefectCount]))
	if err != nil {
		return rec, apperrors.NewValidationError(rowIndex, "Defect_Count", err.Error())
	}
	rec.DefectCount = defects

	if err := l.validate.Struct(rec); err != nil {
		return rec, validationError(err, rowIndex)
	}

	return rec, nil
}

// validationError maps a validator failure onto the workbook column name
func validationError(err error, rowIndex int) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.StructField() {
		case "UnitsProduced":
			return apperrors.NewValidationError(rowIndex, "Units_Produced", "must be non-negative")
		case "DefectCount":
			if fe.Tag() == "ltefield" {
				return apperrors.NewValidationError(rowIndex, "Defect_Count", "must not exceed Units_Produced")
			}
			return apperrors.NewValidationError(rowIndex, "Defect_Count", "must be non-negative")
		}
	}
	return apperrors.NewValidationError(rowIndex, "row", err.Error())
}

// normalizeColumn lowercases a header cell and collapses separators so
// "Units Produced", "units_produced" and "Units_Produced" all match.
func normalizeColumn(cell string) string {
	c := strings.ToLower(strings.TrimSpace(cell))
	c = strings.ReplaceAll(c, " ", "_")
	c = strings.ReplaceAll(c, "-", "_")
	return c
}

// hasHeaderRow reports whether any of the top rows contains all required columns
func hasHeaderRow(rows [][]string) bool {
	for i, row := range rows {
		if i >= 10 {
			return false
		}
		found := 0
		for _, cell := range row {
			for _, col := range requiredColumns {
				if normalizeColumn(cell) == col {
					found++
					break
				}
			}
		}
		if found == len(requiredColumns) {
			return true
		}
	}
	return false
}

// isBlankRow reports whether every cell in the row is empty
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cellAt returns the cell at index, tolerating ragged rows
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCount parses a non-negative integer cell. Workbooks sometimes store
// counts as floats ("120.0") or with thousands separators.
func parseCount(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("value is missing")
	}
	cleaned := strings.ReplaceAll(raw, ",", "")
	if n, err := strconv.Atoi(cleaned); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(f), nil
}

// excelEpoch is day zero of the 1900 date system used by xlsx serial dates
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseDate parses a date cell, accepting common spreadsheet renderings and
// raw Excel serial numbers.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("value is missing")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		return excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour))), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
