package stats

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Tester runs the statistical layer of an analysis: one hypothesis test per
// gene comparison, effect sizes, and multiple-comparison correction over the
// whole batch. A Tester is stateless between calls; each Run is independent.
type Tester struct {
	alpha  float64
	mode   TestMode
	logger *slog.Logger
}

// NewTester creates a tester with the given significance threshold and test
// mode. A nil logger falls back to slog.Default().
func NewTester(alpha float64, mode TestMode, logger *slog.Logger) (*Tester, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("alpha must be in (0, 1), got %g", alpha)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unsupported test mode %q", mode)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tester{alpha: alpha, mode: mode, logger: logger}, nil
}

// Run tests every comparison in the batch and then applies Bonferroni, Holm
// and Benjamini-Hochberg correction across the batch's numeric results.
// Corrections are computed over this fixed set in one pass; comparisons
// tagged insufficient are excluded from the set entirely, and the second
// return value reports how many were excluded.
//
// Results come back in input order.
func (t *Tester) Run(comparisons []GeneComparison) ([]TestResult, int) {
	results := make([]TestResult, len(comparisons))
	excluded := 0

	for i, cmp := range comparisons {
		results[i] = t.test(cmp)
		if results[i].Status != StatusOK {
			excluded++
		}
	}

	t.correct(results)

	t.logger.Info("statistical testing complete",
		slog.Int("comparisons", len(comparisons)),
		slog.Int("excluded", excluded),
		slog.String("mode", string(t.mode)))

	return results, excluded
}

func (t *Tester) test(cmp GeneComparison) TestResult {
	res := TestResult{
		Gene:       cmp.Gene,
		Condition:  cmp.Condition,
		Comparison: fmt.Sprintf("%s vs %s", cmp.Condition, cmp.ControlCondition),
		Status:     StatusOK,
		ControlN:   len(cmp.Control),
		TreatmentN: len(cmp.Treatment),
	}

	if len(cmp.Control) < 2 || len(cmp.Treatment) < 2 {
		res.Status = StatusInsufficientData
		t.logger.Warn("insufficient data for comparison",
			slog.String("gene", cmp.Gene),
			slog.String("condition", cmp.Condition),
			slog.Int("control_n", len(cmp.Control)),
			slog.Int("treatment_n", len(cmp.Treatment)))
		return res
	}

	res.ControlMean = stat.Mean(cmp.Control, nil)
	res.ControlSD = stat.StdDev(cmp.Control, nil)
	res.TreatmentMean = stat.Mean(cmp.Treatment, nil)
	res.TreatmentSD = stat.StdDev(cmp.Treatment, nil)
	res.MeanDifference = res.TreatmentMean - res.ControlMean

	mode := t.mode
	if mode == TestPaired && len(cmp.Treatment) != len(cmp.Control) {
		t.logger.Warn("unequal group sizes for paired test, falling back to independent",
			slog.String("gene", cmp.Gene),
			slog.Int("treatment_n", len(cmp.Treatment)),
			slog.Int("control_n", len(cmp.Control)))
		mode = TestIndependent
		res.PairedFallback = true
	}

	switch mode {
	case TestPaired:
		res.TStatistic, res.DegreesOfFreedom = pairedT(cmp.Treatment, cmp.Control)
	default:
		res.TStatistic, res.DegreesOfFreedom = independentT(cmp.Treatment, cmp.Control)
	}
	res.PValue = twoSidedP(res.TStatistic, res.DegreesOfFreedom)
	res.SignificantRaw = res.PValue < t.alpha

	// Cohen's d with pooled standard deviation; undefined for two constant
	// groups.
	if pooled := pooledSD(cmp.Treatment, cmp.Control); pooled > 0 {
		d := res.MeanDifference / pooled
		res.EffectSize = &d
		res.EffectLabel = InterpretEffectSize(d)
	} else {
		res.EffectLabel = EffectUnknown
	}

	res.CILower, res.CIUpper = t.meanDifferenceCI(cmp, res.MeanDifference)

	return res
}

// correct fills the corrected p-values and per-method significance flags for
// every numeric result, using the batch's full test count.
func (t *Tester) correct(results []TestResult) {
	var idx []int
	var raw []float64
	for i := range results {
		if results[i].Status == StatusOK {
			idx = append(idx, i)
			raw = append(raw, results[i].PValue)
		}
	}
	if len(raw) == 0 {
		return
	}

	bonf := Bonferroni(raw)
	holm := Holm(raw)
	fdr := BenjaminiHochberg(raw)

	for j, i := range idx {
		results[i].PBonferroni = bonf[j]
		results[i].PHolm = holm[j]
		results[i].PFDR = fdr[j]
		results[i].SignificantBonferroni = bonf[j] < t.alpha
		results[i].SignificantHolm = holm[j] < t.alpha
		results[i].SignificantFDR = fdr[j] < t.alpha
	}
}

// independentT is Student's two-sample t-test with pooled variance.
func independentT(treatment, control []float64) (tStat, df float64) {
	n1 := float64(len(treatment))
	n2 := float64(len(control))
	m1 := stat.Mean(treatment, nil)
	m2 := stat.Mean(control, nil)

	df = n1 + n2 - 2
	pooled := pooledSD(treatment, control)
	if pooled == 0 {
		if m1 == m2 {
			return 0, df
		}
		return math.Inf(sign(m1 - m2)), df
	}
	tStat = (m1 - m2) / (pooled * math.Sqrt(1/n1+1/n2))
	return tStat, df
}

// pairedT tests the per-pair differences against zero. Callers guarantee
// equal lengths.
func pairedT(treatment, control []float64) (tStat, df float64) {
	n := len(treatment)
	diffs := make([]float64, n)
	for i := range treatment {
		diffs[i] = treatment[i] - control[i]
	}
	mean := stat.Mean(diffs, nil)
	sd := stat.StdDev(diffs, nil)

	df = float64(n - 1)
	if sd == 0 {
		if mean == 0 {
			return 0, df
		}
		return math.Inf(sign(mean)), df
	}
	tStat = mean / (sd / math.Sqrt(float64(n)))
	return tStat, df
}

// twoSidedP converts a t statistic to its two-sided p-value under the
// Student's t distribution with df degrees of freedom.
func twoSidedP(tStat, df float64) float64 {
	if math.IsInf(tStat, 0) {
		return 0
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(tStat))
}

// meanDifferenceCI is the (1-alpha) confidence interval of the difference of
// group means, using the standard-error-of-difference formula with pooled
// degrees of freedom.
func (t *Tester) meanDifferenceCI(cmp GeneComparison, meanDiff float64) (lower, upper float64) {
	n1 := float64(len(cmp.Treatment))
	n2 := float64(len(cmp.Control))
	v1 := stat.Variance(cmp.Treatment, nil)
	v2 := stat.Variance(cmp.Control, nil)

	se := math.Sqrt(v1/n1 + v2/n2)
	df := n1 + n2 - 2
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	tCrit := dist.Quantile(1 - t.alpha/2)
	return meanDiff - tCrit*se, meanDiff + tCrit*se
}

func pooledSD(a, b []float64) float64 {
	n1 := float64(len(a))
	n2 := float64(len(b))
	v1 := stat.Variance(a, nil)
	v2 := stat.Variance(b, nil)
	return math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
