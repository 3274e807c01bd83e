package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"qpcrcli/internal/qpcr"
)

// Writer renders result bundles into report files under a base directory.
type Writer struct {
	outputDir string
	logger    *slog.Logger
}

// NewWriter creates a report writer. A nil logger falls back to
// slog.Default().
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outputDir: outputDir, logger: logger}
}

// WriteAll generates the complete report package (CSV tables, JSON export,
// Excel workbook, HTML report) and returns the paths written.
func (w *Writer) WriteAll(bundle *qpcr.ResultBundle) ([]string, error) {
	var paths []string

	csvPaths, err := w.WriteCSVTables(bundle)
	if err != nil {
		return nil, err
	}
	paths = append(paths, csvPaths...)

	jsonPath, err := w.WriteJSON(bundle)
	if err != nil {
		return nil, err
	}
	paths = append(paths, jsonPath)

	xlsxPath, err := w.WriteExcel(bundle)
	if err != nil {
		return nil, err
	}
	paths = append(paths, xlsxPath)

	htmlPath, err := w.WriteHTML(bundle)
	if err != nil {
		return nil, err
	}
	paths = append(paths, htmlPath)

	w.logger.Info("report package written",
		slog.String("output_dir", w.outputDir),
		slog.Int("files", len(paths)))
	return paths, nil
}

// WriteCSVTables writes one CSV file per result table.
func (w *Writer) WriteCSVTables(bundle *qpcr.ResultBundle) ([]string, error) {
	tables := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{"ct_table.csv", ctHeaders, ctRecords(bundle)},
		{"delta_ct.csv", deltaCtHeaders, deltaCtRecords(bundle)},
		{"fold_changes.csv", foldChangeHeaders, foldChangeRecords(bundle)},
		{"summary.csv", summaryHeaders, summaryRecords(bundle)},
		{"statistical_tests.csv", testHeaders, testRecords(bundle)},
	}

	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		path := filepath.Join(w.outputDir, table.name)
		if err := w.writeCSV(path, table.headers, table.records); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeCSV writes a single CSV file with a UTF-8 BOM so Excel opens it
// correctly.
func (w *Writer) writeCSV(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return writer.Error()
}

var ctHeaders = []string{"Sample_ID", "Gene", "Condition", "Biological_Rep", "Mean_Ct", "Ct_SD", "Replicates"}

func ctRecords(bundle *qpcr.ResultBundle) [][]string {
	records := make([][]string, 0, len(bundle.CtTable))
	for _, row := range bundle.CtTable {
		records = append(records, []string{
			row.SampleID,
			row.Gene,
			row.Condition,
			formatInt(row.BiologicalRep),
			formatFloat(row.MeanCt),
			formatOptFloat(row.CtSD),
			formatInt(row.Replicates),
		})
	}
	return records
}

var deltaCtHeaders = []string{"Sample_ID", "Condition", "Target_Gene", "Reference_Gene", "Target_Ct", "Reference_Ct", "Delta_Ct"}

func deltaCtRecords(bundle *qpcr.ResultBundle) [][]string {
	records := make([][]string, 0, len(bundle.DeltaCt))
	for _, rec := range bundle.DeltaCt {
		records = append(records, []string{
			rec.SampleID,
			rec.Condition,
			rec.TargetGene,
			rec.ReferenceGene,
			formatFloat(rec.TargetCt),
			formatFloat(rec.ReferenceCt),
			formatFloat(rec.DeltaCt),
		})
	}
	return records
}

var foldChangeHeaders = []string{"Sample_ID", "Condition", "Gene", "Delta_Ct", "Control_Mean_Delta_Ct", "Delta_Delta_Ct", "Fold_Change"}

func foldChangeRecords(bundle *qpcr.ResultBundle) [][]string {
	records := make([][]string, 0, len(bundle.FoldChanges))
	for _, rec := range bundle.FoldChanges {
		records = append(records, []string{
			rec.SampleID,
			rec.Condition,
			rec.Gene,
			formatFloat(rec.DeltaCt),
			formatFloat(rec.ControlMeanDeltaCt),
			formatFloat(rec.DeltaDeltaCt),
			formatFloat(rec.FoldChange),
		})
	}
	return records
}

var summaryHeaders = []string{"Gene", "Condition", "N", "Mean_Fold_Change", "Fold_Change_SEM", "CI_Lower", "CI_Upper", "Mean_Delta_Ct"}

func summaryRecords(bundle *qpcr.ResultBundle) [][]string {
	records := make([][]string, 0, len(bundle.Summary))
	for _, row := range bundle.Summary {
		records = append(records, []string{
			row.Gene,
			row.Condition,
			formatInt(row.N),
			formatFloat(row.MeanFoldChange),
			formatOptFloat(row.FoldChangeSEM),
			formatOptFloat(row.CILower),
			formatOptFloat(row.CIUpper),
			formatFloat(row.MeanDeltaCt),
		})
	}
	return records
}

var testHeaders = []string{
	"Gene", "Comparison", "Status", "Control_N", "Treatment_N",
	"Mean_Difference", "T_Statistic", "Degrees_Freedom", "P_Value",
	"P_Bonferroni", "P_Holm", "P_FDR", "Cohens_D", "Effect_Size", "Significant_FDR",
}

func testRecords(bundle *qpcr.ResultBundle) [][]string {
	records := make([][]string, 0, len(bundle.Tests))
	for _, t := range bundle.Tests {
		row := []string{
			t.Gene,
			t.Comparison,
			string(t.Status),
			formatInt(t.ControlN),
			formatInt(t.TreatmentN),
		}
		row = append(row, testStatusCells(t)...)
		records = append(records, row)
	}
	return records
}
