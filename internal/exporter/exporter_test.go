package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qpcrcli/internal/qpcr"
	"qpcrcli/internal/stats"
)

func float64Ptr(v float64) *float64 { return &v }

// fixtureBundle is a small but fully populated result set: one significant
// gene, one untestable gene, and a control baseline.
func fixtureBundle() *qpcr.ResultBundle {
	effect := -3.2
	return &qpcr.ResultBundle{
		RunID:            "test-run",
		GeneratedAt:      time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		ReferenceGene:    "GAPDH",
		ControlCondition: "Control",
		Alpha:            0.05,
		TestMode:         "independent",
		Validation: qpcr.ValidationReport{
			TotalRows:    10,
			ValidRows:    9,
			RejectedRows: 1,
			ByReason: map[qpcr.RejectReason]int{
				qpcr.ReasonNonNumericCt: 1,
			},
		},
		CtTable: []qpcr.SampleGeneCt{
			{SampleID: "C1", Gene: "GAPDH", Condition: "Control", MeanCt: 18.48, CtSD: float64Ptr(0.05), Replicates: 2},
			{SampleID: "C1", Gene: "IL6", Condition: "Control", MeanCt: 28.34, Replicates: 1},
		},
		DeltaCt: []qpcr.DeltaCtRecord{
			{SampleID: "C1", Condition: "Control", TargetGene: "IL6", ReferenceGene: "GAPDH", TargetCt: 28.34, ReferenceCt: 18.48, DeltaCt: 9.86},
			{SampleID: "T1", Condition: "Treatment", TargetGene: "IL6", ReferenceGene: "GAPDH", TargetCt: 25.1, ReferenceCt: 18.6, DeltaCt: 6.5},
		},
		FoldChanges: []qpcr.DeltaDeltaCtRecord{
			{SampleID: "C1", Condition: "Control", Gene: "IL6", DeltaCt: 9.86, ControlMeanDeltaCt: 9.86, DeltaDeltaCt: 0, FoldChange: 1},
			{SampleID: "T1", Condition: "Treatment", Gene: "IL6", DeltaCt: 6.5, ControlMeanDeltaCt: 9.86, DeltaDeltaCt: -3.36, FoldChange: 10.2679},
		},
		Summary: []qpcr.SummaryRow{
			{Gene: "IL6", Condition: "Control", N: 1, MeanFoldChange: 1, MeanDeltaCt: 9.86},
			{Gene: "IL6", Condition: "Treatment", N: 1, MeanFoldChange: 10.2679, MeanDeltaCt: 6.5},
		},
		Tests: []stats.TestResult{
			{
				Gene:                  "IL6",
				Condition:             "Treatment",
				Comparison:            "Treatment vs Control",
				Status:                stats.StatusOK,
				ControlN:              3,
				TreatmentN:            3,
				MeanDifference:        -3.36,
				TStatistic:            -12.4,
				DegreesOfFreedom:      4,
				PValue:                0.00024,
				PBonferroni:           0.00048,
				PHolm:                 0.00048,
				PFDR:                  0.00048,
				EffectSize:            &effect,
				EffectLabel:           stats.EffectLarge,
				SignificantRaw:        true,
				SignificantBonferroni: true,
				SignificantHolm:       true,
				SignificantFDR:        true,
			},
			{
				Gene:       "TNF",
				Condition:  "Treatment",
				Comparison: "Treatment vs Control",
				Status:     stats.StatusInsufficientData,
				ControlN:   1,
				TreatmentN: 3,
			},
		},
		TestsExcluded: 1,
		Diagnostics: []qpcr.Diagnostic{
			{Kind: qpcr.DiagMissingReference, SampleID: "T2", Gene: "GAPDH", Message: "sample T2 has no reference gene Ct"},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Files carry a UTF-8 BOM for Excel.
	require.True(t, strings.HasPrefix(string(data), "\xef\xbb\xbf"))
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xef\xbb\xbf")))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSVTables(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	paths, err := w.WriteCSVTables(fixtureBundle())
	require.NoError(t, err)
	require.Len(t, paths, 5)

	for _, name := range []string{"ct_table.csv", "delta_ct.csv", "fold_changes.csv", "summary.csv", "statistical_tests.csv"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	ct := readCSV(t, filepath.Join(dir, "ct_table.csv"))
	require.Len(t, ct, 3)
	assert.Equal(t, ctHeaders, ct[0])
	assert.Equal(t, "18.4800", ct[1][4])
	assert.Equal(t, "0.0500", ct[1][5])
	// Single-replicate SD stays blank, not zero.
	assert.Equal(t, "", ct[2][5])

	tests := readCSV(t, filepath.Join(dir, "statistical_tests.csv"))
	require.Len(t, tests, 3)
	assert.Equal(t, testHeaders, tests[0])
	assert.Equal(t, "IL6", tests[1][0])
	assert.Equal(t, "ok", tests[1][2])
	assert.Equal(t, "0.00024", tests[1][8])
	assert.Equal(t, "yes", tests[1][14])
	// Insufficient-data rows have identity cells only.
	assert.Equal(t, "insufficient_data", tests[2][2])
	for _, cell := range tests[2][5:] {
		assert.Empty(t, cell)
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	path, err := w.WriteJSON(fixtureBundle())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export struct {
		Metadata struct {
			ToolkitVersion string `json:"toolkit_version"`
			AnalysisType   string `json:"analysis_type"`
		} `json:"metadata"`
		ExperimentalDesign struct {
			TotalSamples int      `json:"total_samples"`
			TargetGenes  []string `json:"target_genes"`
			Conditions   []string `json:"conditions"`
		} `json:"experimental_design"`
		Results qpcr.ResultBundle `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &export))

	assert.Equal(t, "qPCR_ddCt_analysis", export.Metadata.AnalysisType)
	assert.Equal(t, 2, export.ExperimentalDesign.TotalSamples)
	assert.Equal(t, []string{"IL6"}, export.ExperimentalDesign.TargetGenes)
	assert.Equal(t, []string{"Control", "Treatment"}, export.ExperimentalDesign.Conditions)
	assert.Equal(t, "test-run", export.Results.RunID)
	assert.Len(t, export.Results.Tests, 2)
	require.NotNil(t, export.Results.Tests[0].EffectSize)
	assert.InDelta(t, -3.2, *export.Results.Tests[0].EffectSize, 1e-12)
}

func TestWriteExcel(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	path, err := w.WriteExcel(fixtureBundle())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis.xlsx"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	path, err := w.WriteHTML(fixtureBundle())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "qPCR ΔΔCt Analysis Report")
	assert.Contains(t, html, "IL6")
	assert.Contains(t, html, "GAPDH")
	// The significant gene shows up in the interpretation section with its
	// direction of regulation.
	assert.Contains(t, html, "upregulated")
	assert.NotContains(t, html, "No statistically significant changes")
}

func TestWriteHTMLNoSignificantGenes(t *testing.T) {
	bundle := fixtureBundle()
	bundle.Tests = bundle.Tests[1:]
	bundle.TestsExcluded = 1

	dir := t.TempDir()
	w := NewWriter(dir, nil)

	path, err := w.WriteHTML(bundle)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No statistically significant changes")
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	paths, err := w.WriteAll(fixtureBundle())
	require.NoError(t, err)
	assert.Len(t, paths, 8)
	for _, path := range paths {
		assert.FileExists(t, path)
	}
}
