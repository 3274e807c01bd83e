package qpcr

import (
	"sort"
	"time"

	"qpcrcli/internal/stats"
)

// Measurement is one raw qPCR reading as ingested from the input table.
// Immutable once created; the pipeline never modifies raw rows.
type Measurement struct {
	SampleID      string  `json:"sample_id"`
	Gene          string  `json:"gene"`
	Condition     string  `json:"condition"`
	BiologicalRep int     `json:"biological_rep,omitempty"`
	TechnicalRep  int     `json:"technical_rep,omitempty"`
	WellPosition  string  `json:"well_position,omitempty"`
	Ct            float64 `json:"ct_value"`
	// CtText preserves the raw cell contents so the validator can tell a
	// non-numeric entry apart from a genuinely missing one. Empty for rows
	// that arrive pre-parsed (e.g. over the HTTP API).
	CtText string `json:"-"`
}

// RejectReason classifies why the validator excluded a row.
type RejectReason string

const (
	ReasonMissingField  RejectReason = "missing_required_field"
	ReasonNonNumericCt  RejectReason = "non_numeric_ct"
	ReasonCtNotPositive RejectReason = "ct_not_positive"
	ReasonCtAboveLimit  RejectReason = "ct_above_limit"
	ReasonCtNaN         RejectReason = "ct_nan"
)

// ValidatedMeasurement annotates a Measurement with its validation outcome.
type ValidatedMeasurement struct {
	Measurement
	Valid  bool         `json:"valid"`
	Reason RejectReason `json:"reason,omitempty"`
}

// ValidationReport summarizes the validator's pass over the input table.
type ValidationReport struct {
	TotalRows    int                    `json:"total_rows"`
	ValidRows    int                    `json:"valid_rows"`
	RejectedRows int                    `json:"rejected_rows"`
	ByReason     map[RejectReason]int   `json:"by_reason,omitempty"`
	Rejected     []ValidatedMeasurement `json:"rejected,omitempty"`
}

// SampleGeneCt is the aggregated Ct for one (sample, gene) pair: the mean of
// that pair's valid technical replicates. CtSD is nil when only a single
// replicate was observed; a pair with zero valid replicates is never emitted.
type SampleGeneCt struct {
	SampleID      string   `json:"sample_id"`
	Gene          string   `json:"gene"`
	Condition     string   `json:"condition"`
	BiologicalRep int      `json:"biological_rep,omitempty"`
	MeanCt        float64  `json:"mean_ct"`
	CtSD          *float64 `json:"ct_sd,omitempty"`
	Replicates    int      `json:"replicates"`
}

// DeltaCtRecord is the per-sample normalization of a target gene against the
// reference gene: ΔCt = target Ct − reference Ct, both from the same sample.
type DeltaCtRecord struct {
	SampleID      string  `json:"sample_id"`
	Condition     string  `json:"condition"`
	BiologicalRep int     `json:"biological_rep,omitempty"`
	TargetGene    string  `json:"target_gene"`
	ReferenceGene string  `json:"reference_gene"`
	TargetCt      float64 `json:"target_ct"`
	ReferenceCt   float64 `json:"reference_ct"`
	DeltaCt       float64 `json:"delta_ct"`
}

// DeltaDeltaCtRecord carries one sample's ΔΔCt and fold change for a target
// gene. ControlMeanDeltaCt is the gene's baseline: the mean ΔCt across the
// control condition's samples. Control samples are referenced against their
// own group mean, so their ΔΔCt values average to exactly zero.
type DeltaDeltaCtRecord struct {
	SampleID           string  `json:"sample_id"`
	Condition          string  `json:"condition"`
	BiologicalRep      int     `json:"biological_rep,omitempty"`
	Gene               string  `json:"gene"`
	DeltaCt            float64 `json:"delta_ct"`
	ControlMeanDeltaCt float64 `json:"control_mean_delta_ct"`
	DeltaDeltaCt       float64 `json:"delta_delta_ct"`
	FoldChange         float64 `json:"fold_change"`
}

// SummaryRow holds per-(gene, condition) descriptive statistics over the
// linear fold-change values. SEM and the confidence bounds are nil for
// single-observation groups rather than zero.
type SummaryRow struct {
	Gene           string   `json:"gene"`
	Condition      string   `json:"condition"`
	N              int      `json:"n"`
	MeanFoldChange float64  `json:"mean_fold_change"`
	FoldChangeSEM  *float64 `json:"fold_change_sem,omitempty"`
	CILower        *float64 `json:"ci_lower,omitempty"`
	CIUpper        *float64 `json:"ci_upper,omitempty"`
	MeanDeltaCt    float64  `json:"mean_delta_ct"`
}

// DiagnosticKind classifies a non-fatal missing-data condition.
type DiagnosticKind string

const (
	// DiagMissingReference: a sample has target-gene rows but no aggregated
	// reference-gene Ct, so its ΔCt records are omitted.
	DiagMissingReference DiagnosticKind = "missing_reference_ct"
	// DiagMissingTarget: a sample carries only the reference gene and
	// contributes nothing to the ΔCt table.
	DiagMissingTarget DiagnosticKind = "no_target_genes"
)

// Diagnostic is one collected missing-pair issue. Diagnostics never abort a
// run; they ride along on the ResultBundle for data-quality auditing.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	SampleID string         `json:"sample_id"`
	Gene     string         `json:"gene,omitempty"`
	Message  string         `json:"message"`
}

// ResultBundle is the sole handoff surface to reporting and plotting
// collaborators. It exposes every table the pipeline produced; consumers
// format these values and never re-derive statistics.
type ResultBundle struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	ReferenceGene    string  `json:"reference_gene"`
	ControlCondition string  `json:"control_condition"`
	Alpha            float64 `json:"alpha"`
	TestMode         string  `json:"test_mode"`

	Validation  ValidationReport     `json:"validation"`
	CtTable     []SampleGeneCt       `json:"ct_table"`
	DeltaCt     []DeltaCtRecord      `json:"delta_ct"`
	FoldChanges []DeltaDeltaCtRecord `json:"fold_changes"`
	Summary     []SummaryRow         `json:"summary"`

	Tests         []stats.TestResult `json:"tests"`
	TestsExcluded int                `json:"tests_excluded"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// TargetGenes returns the sorted set of target genes present in the
// fold-change table.
func (b *ResultBundle) TargetGenes() []string {
	seen := make(map[string]bool)
	var genes []string
	for _, rec := range b.FoldChanges {
		if !seen[rec.Gene] {
			seen[rec.Gene] = true
			genes = append(genes, rec.Gene)
		}
	}
	sort.Strings(genes)
	return genes
}

// Conditions returns the sorted set of condition labels present in the
// fold-change table.
func (b *ResultBundle) Conditions() []string {
	seen := make(map[string]bool)
	var conds []string
	for _, rec := range b.FoldChanges {
		if !seen[rec.Condition] {
			seen[rec.Condition] = true
			conds = append(conds, rec.Condition)
		}
	}
	sort.Strings(conds)
	return conds
}
