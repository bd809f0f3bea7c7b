package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"spccli/internal/analysis"
	"spccli/internal/config"
	"spccli/internal/dataset"
	apperrors "spccli/internal/errors"
	"spccli/internal/report"
)

// Result collects everything a run produced. Statistics that could not be
// computed are nil; rendering failures are collected without discarding the
// numbers that were already computed.
type Result struct {
	Dataset *dataset.Dataset
	Report  report.ReportData

	ChartPath   string
	SummaryPath string
	RatesPath   string

	RenderErrors []error
}

// Pipeline runs the linear load, compute, compare, render sequence
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger

	loader *dataset.Loader
	engine *analysis.Engine
	chart  *report.ChartRenderer
	text   *report.TextRenderer
	csv    *report.CSVWriter
}

// New creates a pipeline from configuration
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		loader: dataset.NewLoader(logger),
		engine: analysis.NewEngine(cfg.Analysis.Confidence, logger),
		chart:  report.NewChartRenderer(logger),
		text:   report.NewTextRenderer(logger),
		csv:    report.NewCSVWriter(logger),
	}
}

// Run executes the full analysis. It returns an error only for unrecoverable
// failures (unreadable or malformed input); insufficient-data and rendering
// problems are reported through the Result instead so independent statistics
// still complete.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.logger.InfoContext(ctx, "loading data", slog.String("input", p.cfg.Input.Path))
	ds, err := p.loader.Load(p.cfg.Input.Path, p.cfg.Input.Sheet)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Dataset: ds,
		Report: report.ReportData{
			Alpha:        p.cfg.Analysis.Alpha,
			TotalRecords: ds.Len(),
			Excluded:     ds.ExcludedCount(),
			GeneratedAt:  time.Now(),
		},
	}

	p.computeStatistics(ctx, result)
	p.render(ctx, result)

	return result, nil
}

// computeStatistics fills in every statistic the data allows. Each block is
// independent: a subset too small for one statistic does not stop the others.
func (p *Pipeline) computeStatistics(ctx context.Context, result *Result) {
	ds := result.Dataset
	included := ds.Included()

	p.logger.InfoContext(ctx, "calculating metrics",
		slog.Int("included", len(included)),
		slog.Int("excluded", ds.ExcludedCount()))

	if overall, err := p.engine.Summarize("overall", included); err == nil {
		result.Report.Overall = &overall
	} else {
		p.logger.WarnContext(ctx, "overall summary not computed", "error", err)
	}

	if limits, err := p.engine.ControlLimits(included); err == nil {
		result.Report.Limits = &limits
	} else {
		p.logger.WarnContext(ctx, "control limits not computed", "error", err)
	}

	if day, err := p.engine.Summarize("Day shift", ds.ByShift(dataset.ShiftDay)); err == nil {
		result.Report.Day = &day
	}
	if night, err := p.engine.Summarize("Night shift", ds.ByShift(dataset.ShiftNight)); err == nil {
		result.Report.Night = &night
	}

	p.logger.InfoContext(ctx, "performing t-test")
	if ttest, err := p.engine.CompareShifts(ds, p.cfg.Analysis.Welch); err == nil {
		result.Report.TTest = &ttest
	} else {
		result.Report.TTestSkipped = err.Error()
		p.logger.WarnContext(ctx, "t-test not computed", "error", err)
	}
}

// render writes the artifacts. A failure in one artifact is recorded and the
// rest are still attempted; computed statistics are never rolled back.
func (p *Pipeline) render(ctx context.Context, result *Result) {
	suffix := ""
	if p.cfg.Output.Timestamped {
		suffix = "_" + result.Report.GeneratedAt.Format("20060102_150405")
	}

	result.RatesPath = filepath.Join(p.cfg.Output.Dir, fmt.Sprintf("defect_rates%s.csv", suffix))
	if err := p.csv.WriteRates(result.RatesPath, result.Dataset); err != nil {
		result.RatesPath = ""
		result.RenderErrors = append(result.RenderErrors, err)
		p.logger.ErrorContext(ctx, "rates export failed", "error", err)
	}

	result.SummaryPath = filepath.Join(p.cfg.Output.Dir, fmt.Sprintf("summary%s.txt", suffix))
	if err := p.text.WriteSummary(result.SummaryPath, result.Report); err != nil {
		result.SummaryPath = ""
		result.RenderErrors = append(result.RenderErrors, err)
		p.logger.ErrorContext(ctx, "summary report failed", "error", err)
	}

	if result.Report.Limits != nil {
		result.ChartPath = filepath.Join(p.cfg.Output.Dir, fmt.Sprintf("control_chart%s.png", suffix))
		if err := p.chart.RenderControlChart(result.ChartPath, result.Dataset, *result.Report.Limits); err != nil {
			result.ChartPath = ""
			result.RenderErrors = append(result.RenderErrors, err)
			p.logger.ErrorContext(ctx, "chart rendering failed", "error", err)
		}
	} else {
		result.RenderErrors = append(result.RenderErrors,
			apperrors.NewRenderError("control chart skipped: no control limits available", nil))
	}
}
