// Package exporter renders a completed analysis bundle into report files.
//
// Four formats are supported:
//
// CSV: one file per table (aggregated Ct, ΔCt, fold changes, summary,
// statistical tests), UTF-8 BOM prefixed for Excel compatibility.
//
// JSON: the full result bundle plus export metadata, for downstream
// processing.
//
// Excel: a single workbook with one sheet per table plus an executive
// summary sheet, written with excelize.
//
// HTML: a self-contained report page with the summary and test tables and a
// short biological interpretation of the significant genes.
//
// Exporters format what the pipeline already computed; no statistic is ever
// re-derived here.
package exporter
