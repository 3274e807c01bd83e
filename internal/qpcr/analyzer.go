package qpcr

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"qpcrcli/internal/stats"
)

// Config holds the per-run analysis parameters. There are no process-wide
// defaults: every Analyzer receives its configuration explicitly.
type Config struct {
	ReferenceGene    string
	ControlCondition string
	Alpha            float64
	TestMode         stats.TestMode
}

// Validate checks the configuration before any data is touched.
func (c Config) Validate() error {
	if c.ReferenceGene == "" {
		return fmt.Errorf("reference gene must be set")
	}
	if c.ControlCondition == "" {
		return fmt.Errorf("control condition must be set")
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", c.Alpha)
	}
	if !c.TestMode.Valid() {
		return fmt.Errorf("unsupported test mode %q", c.TestMode)
	}
	return nil
}

// Analyzer orchestrates one complete ΔΔCt analysis: validation, replicate
// aggregation, delta computation, descriptive summaries and statistical
// testing, in that fixed order. An Analyzer is safe for concurrent use; each
// Run is a pure function of its input and the configuration.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer for the given configuration. A nil logger
// falls back to slog.Default().
func NewAnalyzer(cfg Config, logger *slog.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}, nil
}

// Run executes the pipeline over one input table and returns the complete
// result bundle. Fatal conditions (SchemaError from ingestion-side checks,
// ConfigurationError for a missing reference gene or control group) abort
// the run; missing-pair and insufficient-data conditions are collected on
// the bundle instead.
func (a *Analyzer) Run(ctx context.Context, measurements []Measurement) (*ResultBundle, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := a.logger.With(slog.String("run_id", runID))

	logger.InfoContext(ctx, "starting qPCR analysis",
		slog.Int("rows", len(measurements)),
		slog.String("reference_gene", a.cfg.ReferenceGene),
		slog.String("control_condition", a.cfg.ControlCondition))

	valid, report := Validate(measurements, logger)

	ctTable := AggregateReplicates(valid)
	logger.InfoContext(ctx, "aggregated technical replicates",
		slog.Int("sample_gene_rows", len(ctTable)))

	deltaCt, diags, err := CalculateDeltaCt(ctTable, a.cfg.ReferenceGene)
	if err != nil {
		return nil, err
	}

	foldChanges, err := CalculateDeltaDeltaCt(deltaCt, a.cfg.ControlCondition)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "computed fold changes",
		slog.Int("delta_ct_records", len(deltaCt)),
		slog.Int("fold_change_records", len(foldChanges)))

	tester, err := stats.NewTester(a.cfg.Alpha, a.cfg.TestMode, logger)
	if err != nil {
		return nil, err
	}
	comparisons := a.buildComparisons(deltaCt)

	bundle := &ResultBundle{
		RunID:            runID,
		GeneratedAt:      start,
		ReferenceGene:    a.cfg.ReferenceGene,
		ControlCondition: a.cfg.ControlCondition,
		Alpha:            a.cfg.Alpha,
		TestMode:         string(a.cfg.TestMode),
		Validation:       report,
		CtTable:          ctTable,
		DeltaCt:          deltaCt,
		FoldChanges:      foldChanges,
		Diagnostics:      diags,
	}

	// Summary and testing read the same immutable tables and never write
	// them, so they run concurrently.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		bundle.Summary = BuildSummary(foldChanges, 1-a.cfg.Alpha)
		return nil
	})
	g.Go(func() error {
		bundle.Tests, bundle.TestsExcluded = tester.Run(comparisons)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "analysis complete",
		slog.Int("genes", len(bundle.TargetGenes())),
		slog.Int("tests", len(bundle.Tests)),
		slog.Int("tests_excluded", bundle.TestsExcluded),
		slog.Duration("elapsed", time.Since(start)))

	return bundle, nil
}

// buildComparisons groups the ΔCt table into one treatment-vs-control
// comparison per (gene, non-control condition), ordered by gene then
// condition. The tester receives the whole batch at once so correction runs
// over a fixed set.
func (a *Analyzer) buildComparisons(deltaCt []DeltaCtRecord) []stats.GeneComparison {
	type key struct {
		gene      string
		condition string
	}

	values := make(map[key][]float64)
	for _, rec := range deltaCt {
		k := key{gene: rec.TargetGene, condition: rec.Condition}
		values[k] = append(values[k], rec.DeltaCt)
	}

	var keys []key
	for k := range values {
		if k.condition == a.cfg.ControlCondition {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].gene != keys[j].gene {
			return keys[i].gene < keys[j].gene
		}
		return keys[i].condition < keys[j].condition
	})

	comparisons := make([]stats.GeneComparison, 0, len(keys))
	for _, k := range keys {
		comparisons = append(comparisons, stats.GeneComparison{
			Gene:             k.gene,
			Condition:        k.condition,
			ControlCondition: a.cfg.ControlCondition,
			Treatment:        values[k],
			Control:          values[key{gene: k.gene, condition: a.cfg.ControlCondition}],
		})
	}
	return comparisons
}
