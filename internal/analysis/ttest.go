package analysis

import (
	"errors"
	"log/slog"
	"math"

	"github.com/aclements/go-moremath/stats"

	"spccli/internal/dataset"
	apperrors "spccli/internal/errors"
)

// CompareShifts runs the independent two-sample t-test of defect rates,
// Day against Night. The default is the pooled-variance Student's test;
// welch selects the unequal-variance form. The subtraction order is fixed
// as Day minus Night so the sign of T is reproducible.
func (e *Engine) CompareShifts(ds *dataset.Dataset, welch bool) (TTestResult, error) {
	dayRates := dataset.Rates(ds.ByShift(dataset.ShiftDay))
	nightRates := dataset.Rates(ds.ByShift(dataset.ShiftNight))

	if len(dayRates) < minSampleSize {
		return TTestResult{}, apperrors.NewInsufficientDataError("Day shift", len(dayRates), minSampleSize)
	}
	if len(nightRates) < minSampleSize {
		return TTestResult{}, apperrors.NewInsufficientDataError("Night shift", len(nightRates), minSampleSize)
	}

	day := stats.Sample{Xs: dayRates}
	night := stats.Sample{Xs: nightRates}

	result := TTestResult{
		Welch: welch,
		Day:   SampleSummary{N: len(dayRates), Mean: day.Mean(), StdDev: day.StdDev()},
		Night: SampleSummary{N: len(nightRates), Mean: night.Mean(), StdDev: night.StdDev()},
	}

	var (
		tt  *stats.TTestResult
		err error
	)
	if welch {
		tt, err = stats.TwoSampleWelchTTest(day, night, stats.LocationDiffers)
	} else {
		tt, err = stats.TwoSampleTTest(day, night, stats.LocationDiffers)
	}

	switch {
	case err == nil:
		result.T = tt.T
		result.DoF = tt.DoF
		result.P = tt.P
	case errors.Is(err, stats.ErrZeroVariance):
		// Both samples are constant. In the limit the test statistic is
		// infinite when the means differ and zero when they coincide,
		// matching what scipy reports for the same inputs.
		result.DoF = float64(len(dayRates) + len(nightRates) - 2)
		if result.Day.Mean == result.Night.Mean {
			result.T = 0
			result.P = 1
		} else {
			result.T = math.Inf(sign(result.Day.Mean - result.Night.Mean))
			result.P = 0
		}
	default:
		return TTestResult{}, apperrors.NewAppError(apperrors.ErrTypeInsufficientData, "t-test failed", err)
	}

	e.logger.Info("shift comparison complete",
		slog.Float64("t", result.T),
		slog.Float64("dof", result.DoF),
		slog.Float64("p", result.P),
		slog.Bool("welch", welch))

	return result, nil
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
