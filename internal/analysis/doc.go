// Package analysis computes the defect-rate statistics: per-subset summary
// statistics (mean, sample standard deviation, t-based confidence interval),
// three-sigma control limits over the full dataset, and the independent
// two-sample t-test comparing the Day and Night shifts.
//
// Everything is a pure function of the input records; the Engine carries
// only the confidence level and a logger. Subsets smaller than two records
// fail with an insufficient-data error, and independent statistics are
// unaffected by each other's failures.
//
// Example usage:
//
//	engine := analysis.NewEngine(0.95, logger)
//
//	overall, err := engine.Summarize("overall", ds.Included())
//	limits, err := engine.ControlLimits(ds.Included())
//	ttest, err := engine.CompareShifts(ds, false)
//
// The t-test defaults to the pooled-variance Student's form; pass welch=true
// for the unequal-variance correction. The statistic is Day minus Night.
package analysis
