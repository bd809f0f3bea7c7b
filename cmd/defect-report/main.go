// Command defect-report analyzes a manufacturing defect workbook and writes
// a control chart, a statistical summary and a per-record rates export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"spccli/internal/config"
	"spccli/internal/infrastructure"
	"spccli/internal/pipeline"
	"spccli/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	input := flag.String("input", "", "path to the defect workbook (defaults to data/defects.xlsx)")
	output := flag.String("output", "", "directory for report artifacts (defaults to outputs)")
	alpha := flag.Float64("alpha", 0, "significance threshold for the shift comparison (defaults to 0.05)")
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Flags override the config file and environment
	if *input != "" {
		cfg.Input.Path = *input
	}
	if *output != "" {
		cfg.Output.Dir = *output
	}
	if *alpha != 0 {
		cfg.Analysis.Alpha = *alpha
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize logger: %v\n", err)
		logger = slog.Default()
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger.InfoContext(ctx, "starting defect analysis",
		slog.String("input", cfg.Input.Path),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Float64("alpha", cfg.Analysis.Alpha),
		slog.Bool("welch", cfg.Analysis.Welch))

	result, err := pipeline.New(cfg, logger).Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Echo the summary to the terminal regardless of file rendering outcome
	if err := report.NewTextRenderer(logger).Render(os.Stdout, result.Report); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	for _, rerr := range result.RenderErrors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", rerr)
	}

	if result.ChartPath != "" {
		fmt.Printf("\nControl chart : %s\n", result.ChartPath)
	}
	if result.SummaryPath != "" {
		fmt.Printf("Summary report: %s\n", result.SummaryPath)
	}
	if result.RatesPath != "" {
		fmt.Printf("Rates export  : %s\n", result.RatesPath)
	}

	return 0
}
