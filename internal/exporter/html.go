package exporter

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"qpcrcli/internal/qpcr"
	"qpcrcli/internal/stats"
)

// htmlReport is the template context for the HTML report page.
type htmlReport struct {
	Bundle          *qpcr.ResultBundle
	TotalSamples    int
	TargetGenes     []string
	Interpretations []interpretation
}

// interpretation is one line of the biological-interpretation section: a
// significant gene with its direction of regulation.
type interpretation struct {
	Gene       string
	FoldChange float64
	Direction  string
	PValue     float64
	Comparison string
}

// WriteHTML renders the self-contained HTML report.
func (w *Writer) WriteHTML(bundle *qpcr.ResultBundle) (string, error) {
	samples := make(map[string]bool)
	for _, rec := range bundle.FoldChanges {
		samples[rec.SampleID] = true
	}

	report := htmlReport{
		Bundle:       bundle,
		TotalSamples: len(samples),
		TargetGenes:  bundle.TargetGenes(),
	}

	for _, t := range bundle.Tests {
		if t.Status != stats.StatusOK || !t.SignificantRaw {
			continue
		}
		fold := 1.0
		if summary, ok := summaryFor(bundle, t.Gene, t.Condition); ok {
			fold = summary.MeanFoldChange
		}
		report.Interpretations = append(report.Interpretations, interpretation{
			Gene:       t.Gene,
			FoldChange: fold,
			Direction:  direction(fold),
			PValue:     t.PValue,
			Comparison: t.Comparison,
		})
	}

	path := filepath.Join(w.outputDir, "report.html")
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, report); err != nil {
		return "", fmt.Errorf("render HTML report: %w", err)
	}
	return path, nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"f2":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f4":  formatFloat,
	"p":   formatPValue,
	"opt": formatOptFloat,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>qPCR Analysis Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #2c5f8a; padding-bottom: 0.3em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #bbb; padding: 4px 10px; text-align: right; }
th { background: #2c5f8a; color: #fff; }
td:first-child, th:first-child { text-align: left; }
.sig { font-weight: bold; color: #1a7a1a; }
.meta { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>qPCR ΔΔCt Analysis Report</h1>
<p class="meta">Run {{.Bundle.RunID}} · {{.Bundle.GeneratedAt.Format "2006-01-02 15:04:05"}} ·
reference {{.Bundle.ReferenceGene}} · control {{.Bundle.ControlCondition}} ·
α = {{f2 .Bundle.Alpha}} · {{.Bundle.TestMode}} t-test</p>

<h2>Dataset</h2>
<ul>
<li>{{.TotalSamples}} samples, {{len .TargetGenes}} target genes</li>
<li>{{.Bundle.Validation.ValidRows}} of {{.Bundle.Validation.TotalRows}} rows valid
({{.Bundle.Validation.RejectedRows}} rejected)</li>
{{if .Bundle.Diagnostics}}<li>{{len .Bundle.Diagnostics}} missing-data diagnostics</li>{{end}}
</ul>

<h2>Fold Change Summary</h2>
<table>
<tr><th>Gene</th><th>Condition</th><th>N</th><th>Mean Fold Change</th><th>SEM</th><th>Mean ΔCt</th></tr>
{{range .Bundle.Summary}}
<tr><td>{{.Gene}}</td><td>{{.Condition}}</td><td>{{.N}}</td>
<td>{{f4 .MeanFoldChange}}</td><td>{{opt .FoldChangeSEM}}</td><td>{{f4 .MeanDeltaCt}}</td></tr>
{{end}}
</table>

<h2>Statistical Tests</h2>
<table>
<tr><th>Gene</th><th>Comparison</th><th>Status</th><th>p</th><th>p (Bonferroni)</th>
<th>p (FDR)</th><th>Cohen's d</th><th>Effect</th></tr>
{{range .Bundle.Tests}}
<tr><td>{{.Gene}}</td><td>{{.Comparison}}</td><td>{{.Status}}</td>
{{if eq .Status "ok"}}
<td{{if .SignificantRaw}} class="sig"{{end}}>{{p .PValue}}</td>
<td{{if .SignificantBonferroni}} class="sig"{{end}}>{{p .PBonferroni}}</td>
<td{{if .SignificantFDR}} class="sig"{{end}}>{{p .PFDR}}</td>
<td>{{opt .EffectSize}}</td><td>{{.EffectLabel}}</td>
{{else}}<td></td><td></td><td></td><td></td><td></td>{{end}}
</tr>
{{end}}
</table>

<h2>Biological Interpretation</h2>
{{if .Interpretations}}
<ul>
{{range .Interpretations}}
<li><strong>{{.Gene}}</strong>: {{f2 .FoldChange}}-fold {{.Direction}}
({{.Comparison}}, p={{p .PValue}})</li>
{{end}}
</ul>
{{else}}
<p>No statistically significant changes detected in gene expression.</p>
{{end}}
</body>
</html>
`))
