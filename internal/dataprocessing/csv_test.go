package dataprocessing

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qpcrcli/internal/qpcr"
)

func TestReadCompleteDataset(t *testing.T) {
	input := strings.Join([]string{
		"Sample_ID,Gene,Condition,Ct_Value,Biological_Rep,Technical_Rep,Well_Position",
		"S001,GAPDH,Control,18.45,1,1,A1",
		"S001,GAPDH,Control,18.52,1,2,A2",
		"S001,IL6,Control,28.34,1,1,B1",
	}, "\n")

	measurements, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, measurements, 3)

	first := measurements[0]
	assert.Equal(t, "S001", first.SampleID)
	assert.Equal(t, "GAPDH", first.Gene)
	assert.Equal(t, "Control", first.Condition)
	assert.InDelta(t, 18.45, first.Ct, 1e-12)
	assert.Equal(t, "18.45", first.CtText)
	assert.Equal(t, 1, first.BiologicalRep)
	assert.Equal(t, 1, first.TechnicalRep)
	assert.Equal(t, "A1", first.WellPosition)

	assert.Equal(t, 2, measurements[1].TechnicalRep)
	assert.Equal(t, "IL6", measurements[2].Gene)
}

func TestReadOptionalColumnsAbsent(t *testing.T) {
	input := "Sample_ID,Gene,Condition,Ct_Value\nS001,GAPDH,Control,18.45\n"

	measurements, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, measurements, 1)
	assert.Zero(t, measurements[0].BiologicalRep)
	assert.Zero(t, measurements[0].TechnicalRep)
	assert.Empty(t, measurements[0].WellPosition)
}

func TestReadMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{
			"no ct column",
			"Sample_ID,Gene,Condition\nS001,GAPDH,Control\n",
			[]string{"Ct_Value"},
		},
		{
			"several missing",
			"Sample_ID,Well_Position\nS001,A1\n",
			[]string{"Gene", "Condition", "Ct_Value"},
		},
		{
			"empty input",
			"",
			[]string{"Sample_ID", "Gene", "Condition", "Ct_Value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), nil)
			require.Error(t, err)

			var schemaErr *qpcr.SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.missing, schemaErr.Missing)
		})
	}
}

func TestReadKeepsMalformedCtCells(t *testing.T) {
	input := strings.Join([]string{
		"Sample_ID,Gene,Condition,Ct_Value",
		"S001,GAPDH,Control,not_a_number",
		"S002,GAPDH,Control,",
		"S003,GAPDH,Control,NaN",
	}, "\n")

	measurements, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, measurements, 3)

	assert.True(t, math.IsNaN(measurements[0].Ct))
	assert.Equal(t, "not_a_number", measurements[0].CtText)
	assert.True(t, math.IsNaN(measurements[1].Ct))
	assert.Empty(t, measurements[1].CtText)
	assert.True(t, math.IsNaN(measurements[2].Ct))
	assert.Equal(t, "NaN", measurements[2].CtText)
}

func TestReadShortRows(t *testing.T) {
	input := strings.Join([]string{
		"Sample_ID,Gene,Condition,Ct_Value",
		"S001,GAPDH",
	}, "\n")

	measurements, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, measurements, 1)
	assert.Empty(t, measurements[0].Condition)
	assert.True(t, math.IsNaN(measurements[0].Ct))
}

func TestReadBOMHeader(t *testing.T) {
	input := "\uFEFFSample_ID,Gene,Condition,Ct_Value\nS001,GAPDH,Control,18.45\n"

	measurements, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, measurements, 1)
	assert.Equal(t, "S001", measurements[0].SampleID)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.csv")
	contents := "Sample_ID,Gene,Condition,Ct_Value\nS001,GAPDH,Control,18.45\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	measurements, err := ReadFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, measurements, 1)

	_, err = ReadFile(filepath.Join(dir, "absent.csv"), nil)
	assert.Error(t, err)
}
