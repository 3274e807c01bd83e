package qpcr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeasurement() Measurement {
	return Measurement{
		SampleID:  "S001",
		Gene:      "IL6",
		Condition: "Control",
		Ct:        24.5,
		CtText:    "24.5",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Measurement)
		reason RejectReason
	}{
		{
			name:   "valid row passes",
			mutate: func(m *Measurement) {},
		},
		{
			name:   "missing sample id",
			mutate: func(m *Measurement) { m.SampleID = "" },
			reason: ReasonMissingField,
		},
		{
			name:   "missing gene",
			mutate: func(m *Measurement) { m.Gene = "  " },
			reason: ReasonMissingField,
		},
		{
			name:   "missing condition",
			mutate: func(m *Measurement) { m.Condition = "" },
			reason: ReasonMissingField,
		},
		{
			name: "empty ct cell",
			mutate: func(m *Measurement) {
				m.Ct = math.NaN()
				m.CtText = ""
			},
			reason: ReasonMissingField,
		},
		{
			name: "non-numeric ct",
			mutate: func(m *Measurement) {
				m.Ct = math.NaN()
				m.CtText = "undetermined"
			},
			reason: ReasonNonNumericCt,
		},
		{
			name: "literal NaN ct",
			mutate: func(m *Measurement) {
				m.Ct = math.NaN()
				m.CtText = "NaN"
			},
			reason: ReasonCtNaN,
		},
		{
			name:   "zero ct",
			mutate: func(m *Measurement) { m.Ct = 0; m.CtText = "0" },
			reason: ReasonCtNotPositive,
		},
		{
			name:   "negative ct",
			mutate: func(m *Measurement) { m.Ct = -3.2; m.CtText = "-3.2" },
			reason: ReasonCtNotPositive,
		},
		{
			name:   "ct above cycle limit",
			mutate: func(m *Measurement) { m.Ct = 41.0; m.CtText = "41.0" },
			reason: ReasonCtAboveLimit,
		},
		{
			name:   "ct exactly at the limit is valid",
			mutate: func(m *Measurement) { m.Ct = 40.0; m.CtText = "40.0" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMeasurement()
			tt.mutate(&m)

			valid, report := Validate([]Measurement{m}, nil)

			assert.Equal(t, 1, report.TotalRows)
			if tt.reason == "" {
				assert.Len(t, valid, 1)
				assert.Equal(t, 0, report.RejectedRows)
				return
			}
			assert.Empty(t, valid)
			require.Len(t, report.Rejected, 1)
			assert.Equal(t, tt.reason, report.Rejected[0].Reason)
			assert.Equal(t, 1, report.ByReason[tt.reason])
		})
	}
}

func TestValidateCountsPerReason(t *testing.T) {
	rows := []Measurement{
		validMeasurement(),
		{SampleID: "S002", Gene: "IL6", Condition: "Treatment", Ct: 50, CtText: "50"},
		{SampleID: "S003", Gene: "IL6", Condition: "Treatment", Ct: 45, CtText: "45"},
		{SampleID: "S004", Gene: "IL6", Condition: "Treatment", Ct: -1, CtText: "-1"},
		{SampleID: "", Gene: "IL6", Condition: "Treatment", Ct: 20, CtText: "20"},
	}

	valid, report := Validate(rows, nil)

	assert.Len(t, valid, 1)
	assert.Equal(t, 5, report.TotalRows)
	assert.Equal(t, 1, report.ValidRows)
	assert.Equal(t, 4, report.RejectedRows)
	assert.Equal(t, 2, report.ByReason[ReasonCtAboveLimit])
	assert.Equal(t, 1, report.ByReason[ReasonCtNotPositive])
	assert.Equal(t, 1, report.ByReason[ReasonMissingField])
}
