package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBonferroni(t *testing.T) {
	tests := []struct {
		name     string
		raw      []float64
		expected []float64
	}{
		{"empty", nil, nil},
		{"single test unchanged", []float64{0.03}, []float64{0.03}},
		{"multiplied by count", []float64{0.01, 0.02, 0.03}, []float64{0.03, 0.06, 0.09}},
		{"capped at one", []float64{0.4, 0.5, 0.6}, []float64{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bonferroni(tt.raw)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-12)
			}
		})
	}
}

func TestHolm(t *testing.T) {
	// Step-down: sorted ascending the multipliers are n, n-1, ..., 1, with a
	// running maximum so corrected values never decrease with rank.
	got := Holm([]float64{0.01, 0.04, 0.03, 0.005})
	expected := []float64{0.03, 0.06, 0.06, 0.02}
	require.Len(t, got, 4)
	for i := range expected {
		assert.InDelta(t, expected[i], got[i], 1e-12)
	}
}

func TestBenjaminiHochberg(t *testing.T) {
	tests := []struct {
		name     string
		raw      []float64
		expected []float64
	}{
		{
			"sorted input",
			[]float64{0.005, 0.01, 0.04, 0.05},
			[]float64{0.02, 0.02, 0.05, 0.05},
		},
		{
			"running minimum flattens equal steps",
			[]float64{0.01, 0.02, 0.03, 0.04},
			[]float64{0.04, 0.04, 0.04, 0.04},
		},
		{
			"unsorted input keeps positional order",
			[]float64{0.04, 0.005, 0.05, 0.01},
			[]float64{0.05, 0.02, 0.05, 0.02},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BenjaminiHochberg(tt.raw)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-12)
			}
		})
	}
}

func TestCorrectionInvariants(t *testing.T) {
	raw := []float64{0.002, 0.048, 0.011, 0.2, 0.93, 0.0004}

	bonf := Bonferroni(raw)
	holm := Holm(raw)
	fdr := BenjaminiHochberg(raw)

	for i, p := range raw {
		// Every correction is conservative and stays a probability.
		assert.GreaterOrEqual(t, bonf[i], p, "bonferroni at %d", i)
		assert.GreaterOrEqual(t, holm[i], p, "holm at %d", i)
		assert.GreaterOrEqual(t, fdr[i], p, "fdr at %d", i)
		assert.LessOrEqual(t, bonf[i], 1.0)
		assert.LessOrEqual(t, holm[i], 1.0)
		assert.LessOrEqual(t, fdr[i], 1.0)

		// Holm never exceeds Bonferroni, and BH never exceeds Holm.
		assert.LessOrEqual(t, holm[i], bonf[i], "holm vs bonferroni at %d", i)
		assert.LessOrEqual(t, fdr[i], holm[i], "fdr vs holm at %d", i)
	}
}

func TestCorrectionsPreserveTies(t *testing.T) {
	raw := []float64{0.02, 0.02, 0.02}
	for _, got := range [][]float64{Bonferroni(raw), Holm(raw), BenjaminiHochberg(raw)} {
		require.Len(t, got, 3)
		assert.Equal(t, got[0], got[1])
		assert.Equal(t, got[1], got[2])
	}
}
