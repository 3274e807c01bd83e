// Package qpcr implements relative gene-expression quantification from
// qPCR cycle-threshold (Ct) measurements using the comparative ΔΔCt method.
//
// The package is organized as a fixed pipeline:
//
// 1. Validator: screens raw measurements for structural and value validity
// 2. Replicate Aggregator: collapses technical replicates into per-sample Ct means
// 3. Delta Calculator: ΔCt → ΔΔCt → fold change (2^-ΔΔCt)
// 4. Summary Builder: per-gene/condition descriptive statistics
// 5. Statistical Tester (internal/stats): hypothesis tests and corrections
//
// The Analyzer orchestrates the stages and returns a ResultBundle holding
// every intermediate table plus diagnostics, so report writers never have to
// re-derive anything.
//
// Basic usage:
//
//	analyzer, err := qpcr.NewAnalyzer(qpcr.Config{
//	    ReferenceGene:    "GAPDH",
//	    ControlCondition: "Control",
//	    Alpha:            0.05,
//	    TestMode:         stats.TestIndependent,
//	}, logger)
//	if err != nil {
//	    return err
//	}
//	bundle, err := analyzer.Run(ctx, measurements)
//
// A run is a pure function of its input and configuration: no state is kept
// between runs, and output ordering is fully deterministic.
package qpcr
