package analysis

import (
	"log/slog"
	"math"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"spccli/internal/dataset"
	apperrors "spccli/internal/errors"
)

// minSampleSize is the smallest subset a sample standard deviation is
// defined for.
const minSampleSize = 2

// Engine computes the defect-rate statistics. All methods are pure
// functions of their inputs; the engine itself only carries configuration.
type Engine struct {
	confidence float64
	logger     *slog.Logger
}

// NewEngine creates a metrics engine with the given confidence level for
// interval estimates, e.g. 0.95.
func NewEngine(confidence float64, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		confidence: confidence,
		logger:     logger,
	}
}

// Summarize computes mean, sample standard deviation and the confidence
// interval of the defect rate over the included records. The label names
// the subset in errors and logs ("overall", "Day shift", "Night shift").
func (e *Engine) Summarize(label string, records []dataset.DefectRecord) (SummaryStatistics, error) {
	rates := dataset.Rates(records)
	n := len(rates)
	if n < minSampleSize {
		return SummaryStatistics{}, apperrors.NewInsufficientDataError(label, n, minSampleSize)
	}

	samp := stats.Sample{Xs: rates}
	mean := samp.Mean()
	sd := samp.StdDev()

	// Student's t critical value for a two-sided interval at the
	// configured confidence, n-1 degrees of freedom.
	tCrit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(0.5 + e.confidence/2)
	margin := tCrit * sd / math.Sqrt(float64(n))

	summary := SummaryStatistics{
		N:          n,
		Mean:       mean,
		StdDev:     sd,
		CILower:    mean - margin,
		CIUpper:    mean + margin,
		Confidence: e.confidence,
	}

	e.logger.Debug("computed summary statistics",
		slog.String("subset", label),
		slog.Int("n", n),
		slog.Float64("mean", mean),
		slog.Float64("std_dev", sd))

	return summary, nil
}

// ControlLimits computes the three-sigma control bounds of the defect rate
// over the included records, regardless of shift. The lower limit floors
// at zero since a defect rate cannot be negative.
func (e *Engine) ControlLimits(records []dataset.DefectRecord) (ControlLimits, error) {
	rates := dataset.Rates(records)
	n := len(rates)
	if n < minSampleSize {
		return ControlLimits{}, apperrors.NewInsufficientDataError("control limits", n, minSampleSize)
	}

	samp := stats.Sample{Xs: rates}
	mean := samp.Mean()
	sd := samp.StdDev()

	limits := ControlLimits{
		Centerline: mean,
		UCL:        mean + 3*sd,
		LCL:        math.Max(0, mean-3*sd),
		Sigma:      sd,
	}

	e.logger.Debug("computed control limits",
		slog.Float64("centerline", limits.Centerline),
		slog.Float64("ucl", limits.UCL),
		slog.Float64("lcl", limits.LCL))

	return limits, nil
}
