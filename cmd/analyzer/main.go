// Command analyzer runs a complete qPCR ΔΔCt analysis over a CSV dataset
// and writes the report package (CSV tables, JSON export, Excel workbook,
// HTML report) to the output directory.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"qpcrcli/internal/config"
	"qpcrcli/internal/dataprocessing"
	"qpcrcli/internal/exporter"
	"qpcrcli/internal/infrastructure"
	"qpcrcli/internal/qpcr"
	"qpcrcli/internal/stats"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	inputPath := flag.String("input", "", "input CSV file (overrides config)")
	outputDir := flag.String("out", "", "output directory for reports (overrides config)")
	referenceGene := flag.String("reference", "", "reference gene name (overrides config)")
	controlCondition := flag.String("control", "", "control condition label (overrides config)")
	alpha := flag.Float64("alpha", 0, "significance level (overrides config)")
	testMode := flag.String("mode", "", "test mode: independent or paired (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyFlags(&cfg, *inputPath, *outputDir, *referenceGene, *controlCondition, *alpha, *testMode)

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	if cfg.Paths.InputFile == "" {
		logger.Error("No input file specified", "hint", "pass -input or set paths.input_file")
		os.Exit(1)
	}

	logger.Info("Loading dataset", "path", cfg.Paths.InputFile)
	measurements, err := dataprocessing.ReadFile(cfg.Paths.InputFile, logger)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}

	analyzer, err := qpcr.NewAnalyzer(qpcr.Config{
		ReferenceGene:    cfg.Analysis.ReferenceGene,
		ControlCondition: cfg.Analysis.ControlCondition,
		Alpha:            cfg.Analysis.Alpha,
		TestMode:         stats.TestMode(cfg.Analysis.TestMode),
	}, logger)
	if err != nil {
		logger.Error("Invalid analysis configuration", "error", err)
		os.Exit(1)
	}

	bundle, err := analyzer.Run(context.Background(), measurements)
	if err != nil {
		logger.Error("Analysis failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewWriter(cfg.Paths.OutputDir, logger)
	paths, err := writer.WriteAll(bundle)
	if err != nil {
		logger.Error("Failed to write reports", "error", err)
		os.Exit(1)
	}

	logger.Info("Analysis complete",
		"run_id", bundle.RunID,
		"genes", len(bundle.TargetGenes()),
		"tests", len(bundle.Tests),
		"tests_excluded", bundle.TestsExcluded,
		"rows_rejected", bundle.Validation.RejectedRows,
		"reports", len(paths))
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cfg *config.Config, input, out, reference, control string, alpha float64, mode string) {
	if input != "" {
		cfg.Paths.InputFile = input
	}
	if out != "" {
		cfg.Paths.OutputDir = out
	}
	if reference != "" {
		cfg.Analysis.ReferenceGene = reference
	}
	if control != "" {
		cfg.Analysis.ControlCondition = control
	}
	if alpha != 0 {
		cfg.Analysis.Alpha = alpha
	}
	if mode != "" {
		cfg.Analysis.TestMode = mode
	}
}
