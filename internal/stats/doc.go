// Package stats provides the hypothesis-testing layer of the qPCR pipeline:
// per-gene Student's t-tests over ΔCt distributions, Cohen's d effect sizes,
// confidence intervals, and multiple-comparison correction (Bonferroni,
// Holm, Benjamini-Hochberg) across the full set of tests performed in one
// run.
//
// Tests run in the ΔCt domain, where measurement noise is approximately
// additive, never on linear fold changes. Comparisons with fewer than two
// observations on either side are tagged insufficient and excluded from the
// correction set, so the Bonferroni test count stays honest.
package stats
