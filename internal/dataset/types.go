package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Shift identifies which production shift a batch ran on
type Shift int

const (
	// ShiftDay is the day production shift
	ShiftDay Shift = iota
	// ShiftNight is the night production shift
	ShiftNight
)

// String returns the display name of the shift
func (s Shift) String() string {
	switch s {
	case ShiftDay:
		return "Day"
	case ShiftNight:
		return "Night"
	default:
		return "unknown"
	}
}

// ParseShift normalizes a raw cell value into a Shift. Matching is
// case-insensitive with surrounding space ignored.
func ParseShift(raw string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "day":
		return ShiftDay, nil
	case "night":
		return ShiftNight, nil
	default:
		return 0, fmt.Errorf("unrecognized shift value %q", raw)
	}
}

// DefectRecord represents one production batch row from the source workbook
type DefectRecord struct {
	Date          time.Time `json:"date"`
	Shift         Shift     `json:"shift"`
	UnitsProduced int       `json:"units_produced" validate:"gte=0"`
	DefectCount   int       `json:"defect_count" validate:"gte=0,ltefield=UnitsProduced"`
}

// Excluded reports whether the record is kept out of rate-based statistics.
// A batch with zero production has no defined defect rate.
func (r DefectRecord) Excluded() bool {
	return r.UnitsProduced == 0
}

// DefectRate returns defect_count / units_produced and whether the rate is
// defined. The rate of a well-formed record is always in [0, 1].
func (r DefectRecord) DefectRate() (float64, bool) {
	if r.Excluded() {
		return 0, false
	}
	return float64(r.DefectCount) / float64(r.UnitsProduced), true
}

// Label renders the record for chart axis ticks, e.g. "2024-03-01 (Day)"
func (r DefectRecord) Label() string {
	return fmt.Sprintf("%s (%s)", r.Date.Format("2006-01-02"), r.Shift)
}

// Dataset is an immutable, ordered collection of defect records.
// Insertion order matches the source row order.
type Dataset struct {
	records []DefectRecord
}

// NewDataset builds a dataset from records, copying the input slice
func NewDataset(records []DefectRecord) *Dataset {
	copied := make([]DefectRecord, len(records))
	copy(copied, records)
	return &Dataset{records: copied}
}

// Len returns the total number of records, excluded ones included
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in source order
func (d *Dataset) Records() []DefectRecord {
	out := make([]DefectRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Included returns the records that participate in rate-based statistics
func (d *Dataset) Included() []DefectRecord {
	var out []DefectRecord
	for _, r := range d.records {
		if !r.Excluded() {
			out = append(out, r)
		}
	}
	return out
}

// ExcludedCount returns the number of zero-production records
func (d *Dataset) ExcludedCount() int {
	n := 0
	for _, r := range d.records {
		if r.Excluded() {
			n++
		}
	}
	return n
}

// ByShift returns the included records for one shift, in source order
func (d *Dataset) ByShift(s Shift) []DefectRecord {
	var out []DefectRecord
	for _, r := range d.records {
		if !r.Excluded() && r.Shift == s {
			out = append(out, r)
		}
	}
	return out
}

// Rates extracts the defect rates of the given records, skipping excluded ones
func Rates(records []DefectRecord) []float64 {
	var out []float64
	for _, r := range records {
		if rate, ok := r.DefectRate(); ok {
			out = append(out, rate)
		}
	}
	return out
}
