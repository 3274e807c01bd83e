package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"qpcrcli/internal/qpcr"
)

// Required input columns, by exact name.
const (
	ColSampleID  = "Sample_ID"
	ColGene      = "Gene"
	ColCondition = "Condition"
	ColCtValue   = "Ct_Value"
)

// Optional input columns.
const (
	ColBiologicalRep = "Biological_Rep"
	ColTechnicalRep  = "Technical_Rep"
	ColWellPosition  = "Well_Position"
)

// ReadFile loads a qPCR dataset from a CSV file.
func ReadFile(path string, logger *slog.Logger) ([]qpcr.Measurement, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer file.Close()

	measurements, err := Read(file, logger)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return measurements, nil
}

// Read parses CSV data into measurements. The header row is mandatory;
// absence of a required column aborts with a qpcr.SchemaError before any
// row is read. Malformed Ct cells do not abort: the raw text rides along on
// the measurement for the validator to classify.
func Read(r io.Reader, logger *slog.Logger) ([]qpcr.Measurement, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &qpcr.SchemaError{Missing: []string{ColSampleID, ColGene, ColCondition, ColCtValue}}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))] = i
	}

	var missing []string
	for _, required := range []string{ColSampleID, ColGene, ColCondition, ColCtValue} {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &qpcr.SchemaError{Missing: missing}
	}

	var measurements []qpcr.Measurement
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		m := qpcr.Measurement{
			SampleID:     cell(record, columns, ColSampleID),
			Gene:         cell(record, columns, ColGene),
			Condition:    cell(record, columns, ColCondition),
			WellPosition: cell(record, columns, ColWellPosition),
			CtText:       cell(record, columns, ColCtValue),
		}
		m.Ct = parseCt(m.CtText)
		m.BiologicalRep = parseIntCell(cell(record, columns, ColBiologicalRep))
		m.TechnicalRep = parseIntCell(cell(record, columns, ColTechnicalRep))

		measurements = append(measurements, m)
	}

	logger.Info("loaded qPCR dataset", slog.Int("rows", len(measurements)))
	return measurements, nil
}

// cell returns the named column of a record, or "" when the column is
// absent or the row is short.
func cell(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseCt converts the raw Ct cell. Unparseable text becomes NaN; the
// validator tells the cases apart from the preserved raw text.
func parseCt(raw string) float64 {
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseIntCell(raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
