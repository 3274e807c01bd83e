package stats

// TestMode selects the hypothesis test applied to each gene comparison.
type TestMode string

const (
	// TestIndependent runs a two-sample Student's t-test with pooled variance.
	TestIndependent TestMode = "independent"
	// TestPaired runs a paired t-test; it requires equal group sizes and
	// falls back to the independent test when the groups differ.
	TestPaired TestMode = "paired"
)

// Valid reports whether the mode is one of the supported test types.
func (m TestMode) Valid() bool {
	return m == TestIndependent || m == TestPaired
}

// Status tags the outcome of one comparison. Modeling this explicitly (and
// not as a sentinel p-value) keeps phantom tests out of the correction set.
type Status string

const (
	StatusOK Status = "ok"
	// StatusInsufficientData: fewer than two observations in a compared
	// group. No numeric result exists and the comparison does not count
	// toward multiple-comparison correction.
	StatusInsufficientData Status = "insufficient_data"
)

// EffectLabel is the conventional interpretation of a Cohen's d magnitude.
type EffectLabel string

const (
	EffectNegligible EffectLabel = "negligible"
	EffectSmall      EffectLabel = "small"
	EffectMedium     EffectLabel = "medium"
	EffectLarge      EffectLabel = "large"
	// EffectUnknown is reported when the pooled standard deviation is zero
	// and d is undefined.
	EffectUnknown EffectLabel = "unknown"
)

// GeneComparison is one treatment-vs-control comparison: the ΔCt values of
// both groups for a single gene.
type GeneComparison struct {
	Gene             string
	Condition        string // treatment condition label
	ControlCondition string
	Treatment        []float64 // treatment-group ΔCt values
	Control          []float64 // control-group ΔCt values
}

// TestResult is the per-comparison outcome. Numeric fields are meaningful
// only when Status is StatusOK; reporting collaborators consume this
// read-only and never recompute anything.
type TestResult struct {
	Gene       string `json:"gene"`
	Condition  string `json:"condition"`
	Comparison string `json:"comparison"`
	Status     Status `json:"status"`

	ControlN      int     `json:"control_n"`
	ControlMean   float64 `json:"control_mean"`
	ControlSD     float64 `json:"control_sd"`
	TreatmentN    int     `json:"treatment_n"`
	TreatmentMean float64 `json:"treatment_mean"`
	TreatmentSD   float64 `json:"treatment_sd"`

	MeanDifference   float64 `json:"mean_difference"`
	TStatistic       float64 `json:"t_statistic"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	CILower          float64 `json:"ci_lower"`
	CIUpper          float64 `json:"ci_upper"`

	EffectSize  *float64    `json:"effect_size,omitempty"`
	EffectLabel EffectLabel `json:"effect_label,omitempty"`

	// PairedFallback records that a paired test was requested but the group
	// sizes differed, so the independent test was used instead.
	PairedFallback bool `json:"paired_fallback,omitempty"`

	PBonferroni float64 `json:"p_bonferroni"`
	PHolm       float64 `json:"p_holm"`
	PFDR        float64 `json:"p_fdr"`

	SignificantRaw        bool `json:"significant_raw"`
	SignificantBonferroni bool `json:"significant_bonferroni"`
	SignificantHolm       bool `json:"significant_holm"`
	SignificantFDR        bool `json:"significant_fdr"`
}

// InterpretEffectSize maps |d| to its conventional label using the fixed
// 0.2 / 0.5 / 0.8 thresholds.
func InterpretEffectSize(d float64) EffectLabel {
	abs := d
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 0.2:
		return EffectNegligible
	case abs < 0.5:
		return EffectSmall
	case abs < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}
