package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"qpcrcli/internal/qpcr"
	"qpcrcli/internal/stats"
)

// WriteExcel writes the analysis workbook: an executive summary sheet
// followed by one sheet per result table.
func (w *Writer) WriteExcel(bundle *qpcr.ResultBundle) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{"Executive_Summary", []string{"Parameter", "Value"}, executiveSummary(bundle)},
		{"Statistical_Tests", testHeaders, testRecords(bundle)},
		{"Fold_Changes", foldChangeHeaders, foldChangeRecords(bundle)},
		{"Summary", summaryHeaders, summaryRecords(bundle)},
		{"Delta_Ct", deltaCtHeaders, deltaCtRecords(bundle)},
		{"Ct_Table", ctHeaders, ctRecords(bundle)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			// The default sheet becomes the first report sheet.
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return "", fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}

		if err := writeSheet(f, sheet.name, sheet.headers, sheet.records); err != nil {
			return "", err
		}
	}

	path := filepath.Join(w.outputDir, "analysis.xlsx")
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, records [][]string) error {
	for col, name := range headers {
		axis, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("sheet %s header cell: %w", sheet, err)
		}
		if err := f.SetCellValue(sheet, axis, name); err != nil {
			return fmt.Errorf("sheet %s header: %w", sheet, err)
		}
	}
	for row, record := range records {
		for col, value := range record {
			axis, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("sheet %s cell: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, axis, value); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", sheet, row+1, err)
			}
		}
	}
	return nil
}

// executiveSummary builds the parameter/value rows of the first sheet.
func executiveSummary(bundle *qpcr.ResultBundle) [][]string {
	samples := make(map[string]bool)
	for _, rec := range bundle.FoldChanges {
		samples[rec.SampleID] = true
	}

	rows := [][]string{
		{"Run ID", bundle.RunID},
		{"Analysis Date", bundle.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Reference Gene", bundle.ReferenceGene},
		{"Control Condition", bundle.ControlCondition},
		{"Statistical Method", fmt.Sprintf("Student's t-test (%s) with Bonferroni/Holm/FDR correction", bundle.TestMode)},
		{"Significance Level", formatFloat(bundle.Alpha)},
		{"Total Samples", formatInt(len(samples))},
		{"Target Genes", formatInt(len(bundle.TargetGenes()))},
		{"Rows Rejected", formatInt(bundle.Validation.RejectedRows)},
		{"Tests Excluded (insufficient data)", formatInt(bundle.TestsExcluded)},
	}

	for _, t := range bundle.Tests {
		if t.Status != stats.StatusOK {
			rows = append(rows, []string{fmt.Sprintf("%s (%s)", t.Gene, t.Comparison), "insufficient data"})
			continue
		}
		if summary, ok := summaryFor(bundle, t.Gene, t.Condition); ok {
			rows = append(rows, []string{
				fmt.Sprintf("%s Fold Change", t.Gene),
				fmt.Sprintf("%.2f", summary.MeanFoldChange),
			})
		}
		rows = append(rows,
			[]string{fmt.Sprintf("%s P-value", t.Gene), formatPValue(t.PValue)},
			[]string{fmt.Sprintf("%s Significant (FDR)", t.Gene), formatBool(t.SignificantFDR)},
		)
	}
	return rows
}
