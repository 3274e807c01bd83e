package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"qpcrcli/internal/qpcr"
)

const toolkitVersion = "1.0.0"

// jsonExport wraps the bundle with export metadata and the experimental
// design overview.
type jsonExport struct {
	Metadata struct {
		ExportedAt     time.Time `json:"exported_at"`
		ToolkitVersion string    `json:"toolkit_version"`
		AnalysisType   string    `json:"analysis_type"`
	} `json:"metadata"`
	ExperimentalDesign struct {
		TotalSamples int      `json:"total_samples"`
		TargetGenes  []string `json:"target_genes"`
		Conditions   []string `json:"conditions"`
	} `json:"experimental_design"`
	Results *qpcr.ResultBundle `json:"results"`
}

// WriteJSON writes the full bundle as an indented JSON document.
func (w *Writer) WriteJSON(bundle *qpcr.ResultBundle) (string, error) {
	export := jsonExport{Results: bundle}
	export.Metadata.ExportedAt = time.Now().UTC()
	export.Metadata.ToolkitVersion = toolkitVersion
	export.Metadata.AnalysisType = "qPCR_ddCt_analysis"

	samples := make(map[string]bool)
	for _, rec := range bundle.FoldChanges {
		samples[rec.SampleID] = true
	}
	export.ExperimentalDesign.TotalSamples = len(samples)
	export.ExperimentalDesign.TargetGenes = bundle.TargetGenes()
	export.ExperimentalDesign.Conditions = bundle.Conditions()

	path := filepath.Join(w.outputDir, "analysis.json")
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
