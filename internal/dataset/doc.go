// Package dataset defines the defect-record domain model and loads it from
// an Excel workbook.
//
// A Dataset is built once by the Loader and never mutated. Rows with zero
// units produced are retained but excluded from rate-based statistics;
// malformed rows (missing counts, defects exceeding production, unknown
// shift values) abort the load with a validation error naming the row and
// column.
package dataset
