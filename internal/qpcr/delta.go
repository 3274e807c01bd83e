package qpcr

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FoldChange converts a ΔΔCt value to linear-scale relative expression.
// ΔΔCt = 0 maps to 1 (no change), negative ΔΔCt to >1 (upregulation),
// positive ΔΔCt to <1 (downregulation). No clamping or rounding: precision
// is preserved for the statistics downstream.
func FoldChange(deltaDeltaCt float64) float64 {
	return math.Exp2(-deltaDeltaCt)
}

// CalculateDeltaCt normalizes each sample's target genes against the
// reference gene: ΔCt = target mean Ct − reference mean Ct, both rows from
// the same sample. Samples lacking an aggregated reference Ct contribute no
// records and are reported as missing-pair diagnostics; no default is ever
// substituted.
//
// A dataset with no reference-gene rows at all cannot be analyzed and fails
// with a ConfigurationError before any record is produced.
func CalculateDeltaCt(ctTable []SampleGeneCt, referenceGene string) ([]DeltaCtRecord, []Diagnostic, error) {
	refBySample := make(map[string]SampleGeneCt)
	targetsBySample := make(map[string][]SampleGeneCt)
	for _, row := range ctTable {
		if row.Gene == referenceGene {
			refBySample[row.SampleID] = row
		} else {
			targetsBySample[row.SampleID] = append(targetsBySample[row.SampleID], row)
		}
	}

	if len(refBySample) == 0 {
		return nil, nil, &ConfigurationError{
			Missing: "reference gene",
			Detail:  fmt.Sprintf("no measurements found for reference gene %q", referenceGene),
		}
	}

	samples := make([]string, 0, len(targetsBySample))
	for sampleID := range targetsBySample {
		samples = append(samples, sampleID)
	}
	sort.Strings(samples)

	var records []DeltaCtRecord
	var diags []Diagnostic
	for _, sampleID := range samples {
		ref, ok := refBySample[sampleID]
		if !ok {
			diags = append(diags, Diagnostic{
				Kind:     DiagMissingReference,
				SampleID: sampleID,
				Gene:     referenceGene,
				Message:  fmt.Sprintf("sample %s has no %s measurement; its targets were skipped", sampleID, referenceGene),
			})
			continue
		}
		targets := targetsBySample[sampleID]
		sort.Slice(targets, func(i, j int) bool { return targets[i].Gene < targets[j].Gene })
		for _, target := range targets {
			records = append(records, DeltaCtRecord{
				SampleID:      sampleID,
				Condition:     target.Condition,
				BiologicalRep: target.BiologicalRep,
				TargetGene:    target.Gene,
				ReferenceGene: referenceGene,
				TargetCt:      target.MeanCt,
				ReferenceCt:   ref.MeanCt,
				DeltaCt:       target.MeanCt - ref.MeanCt,
			})
		}
	}

	// Samples carrying only the reference gene contribute nothing to the
	// ΔCt table; flag them.
	refOnly := make([]string, 0)
	for sampleID := range refBySample {
		if _, ok := targetsBySample[sampleID]; !ok {
			refOnly = append(refOnly, sampleID)
		}
	}
	sort.Strings(refOnly)
	for _, sampleID := range refOnly {
		diags = append(diags, Diagnostic{
			Kind:     DiagMissingTarget,
			SampleID: sampleID,
			Message:  fmt.Sprintf("sample %s carries only the reference gene", sampleID),
		})
	}

	return records, diags, nil
}

// CalculateDeltaDeltaCt references every sample's ΔCt against the control
// condition's per-gene baseline (the mean ΔCt over control samples) and
// derives the fold change. Control samples are referenced against their own
// group mean, so their ΔΔCt averages to exactly zero by construction.
//
// A gene with no control-condition sample has no baseline and cannot be
// analyzed; that is a ConfigurationError naming the gene, not a silent skip.
func CalculateDeltaDeltaCt(deltaCt []DeltaCtRecord, controlCondition string) ([]DeltaDeltaCtRecord, error) {
	controlByGene := make(map[string][]float64)
	for _, rec := range deltaCt {
		if rec.Condition == controlCondition {
			controlByGene[rec.TargetGene] = append(controlByGene[rec.TargetGene], rec.DeltaCt)
		}
	}

	baselines := make(map[string]float64, len(controlByGene))
	for gene, values := range controlByGene {
		baselines[gene] = stat.Mean(values, nil)
	}

	records := make([]DeltaDeltaCtRecord, 0, len(deltaCt))
	for _, rec := range deltaCt {
		baseline, ok := baselines[rec.TargetGene]
		if !ok {
			return nil, &ConfigurationError{
				Gene:    rec.TargetGene,
				Missing: "control condition",
				Detail:  fmt.Sprintf("no %q samples with a ΔCt value for this gene", controlCondition),
			}
		}
		ddct := rec.DeltaCt - baseline
		records = append(records, DeltaDeltaCtRecord{
			SampleID:           rec.SampleID,
			Condition:          rec.Condition,
			BiologicalRep:      rec.BiologicalRep,
			Gene:               rec.TargetGene,
			DeltaCt:            rec.DeltaCt,
			ControlMeanDeltaCt: baseline,
			DeltaDeltaCt:       ddct,
			FoldChange:         FoldChange(ddct),
		})
	}

	return records, nil
}
