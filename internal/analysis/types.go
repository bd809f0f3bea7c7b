package analysis

// SummaryStatistics describes the defect-rate distribution of a record subset
type SummaryStatistics struct {
	N          int     `json:"n"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	CILower    float64 `json:"ci_lower"`
	CIUpper    float64 `json:"ci_upper"`
	Confidence float64 `json:"confidence"`
}

// ControlLimits holds the centerline and the three-sigma control bounds of
// the defect rate over the full dataset.
type ControlLimits struct {
	Centerline float64 `json:"centerline"`
	UCL        float64 `json:"ucl"`
	LCL        float64 `json:"lcl"`
	Sigma      float64 `json:"sigma"`
}

// Outside reports whether a rate falls outside [LCL, UCL]
func (c ControlLimits) Outside(rate float64) bool {
	return rate < c.LCL || rate > c.UCL
}

// SampleSummary describes one side of the shift comparison
type SampleSummary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// TTestResult is the outcome of the independent two-sample t-test comparing
// Day and Night defect rates. T is computed as Day minus Night, so a
// negative statistic means the night shift ran a higher defect rate.
type TTestResult struct {
	T     float64       `json:"t"`
	DoF   float64       `json:"dof"`
	P     float64       `json:"p"`
	Welch bool          `json:"welch"`
	Day   SampleSummary `json:"day"`
	Night SampleSummary `json:"night"`
}

// Significant reports whether the p-value clears the given threshold.
// The label is derived, never stored; the p-value is the authoritative output.
func (r TTestResult) Significant(alpha float64) bool {
	return r.P < alpha
}
