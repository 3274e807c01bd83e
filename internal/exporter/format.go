package exporter

import (
	"fmt"

	"qpcrcli/internal/qpcr"
	"qpcrcli/internal/stats"
)

// formatFloat renders a numeric cell with 4 decimal places. Ct instruments
// report two decimals; four keeps derived quantities comparable without
// printing float noise.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// formatOptFloat renders a nullable numeric cell; absent values stay empty
// rather than printing a fake zero.
func formatOptFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatPValue keeps more precision than ordinary cells; corrected p-values
// near alpha need it.
func formatPValue(p float64) string {
	return fmt.Sprintf("%.6g", p)
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// testStatusCells renders the numeric portion of a test row, blank when the
// comparison was excluded for insufficient data.
func testStatusCells(t stats.TestResult) []string {
	if t.Status != stats.StatusOK {
		return []string{"", "", "", "", "", "", "", "", "", ""}
	}
	return []string{
		formatFloat(t.MeanDifference),
		formatFloat(t.TStatistic),
		formatFloat(t.DegreesOfFreedom),
		formatPValue(t.PValue),
		formatPValue(t.PBonferroni),
		formatPValue(t.PHolm),
		formatPValue(t.PFDR),
		formatOptFloat(t.EffectSize),
		string(t.EffectLabel),
		formatBool(t.SignificantFDR),
	}
}

// direction names the regulation direction of a fold change.
func direction(foldChange float64) string {
	if foldChange > 1 {
		return "upregulated"
	}
	return "downregulated"
}

// summaryFor finds the summary row for a gene/condition pair.
func summaryFor(bundle *qpcr.ResultBundle, gene, condition string) (qpcr.SummaryRow, bool) {
	for _, row := range bundle.Summary {
		if row.Gene == gene && row.Condition == condition {
			return row, true
		}
	}
	return qpcr.SummaryRow{}, false
}
