package stats

import "sort"

// Bonferroni multiplies each p-value by the number of tests, capping at 1.
// It controls the family-wise error rate and is the most conservative of the
// three corrections offered.
func Bonferroni(p []float64) []float64 {
	n := float64(len(p))
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = min1(v * n)
	}
	return out
}

// Holm applies the Holm step-down correction: the i-th smallest p-value is
// scaled by (n - i), with a running maximum enforcing monotonicity in rank
// order.
func Holm(p []float64) []float64 {
	n := len(p)
	order := rankOrder(p)
	out := make([]float64, n)

	runningMax := 0.0
	for i, idx := range order {
		adj := min1(p[idx] * float64(n-i))
		if adj < runningMax {
			adj = runningMax
		}
		out[idx] = adj
		runningMax = adj
	}
	return out
}

// BenjaminiHochberg applies the step-up false-discovery-rate procedure: the
// i-th smallest p-value (1-based rank) is scaled by n/i, with a running
// minimum from the largest rank downward enforcing monotonicity.
func BenjaminiHochberg(p []float64) []float64 {
	n := len(p)
	order := rankOrder(p)
	out := make([]float64, n)

	runningMin := 1.0
	for i := n - 1; i >= 0; i-- {
		idx := order[i]
		adj := min1(p[idx] * float64(n) / float64(i+1))
		if adj > runningMin {
			adj = runningMin
		}
		out[idx] = adj
		runningMin = adj
	}
	return out
}

// rankOrder returns indices sorted by ascending p-value. Ties break on the
// original index so repeated runs rank identically.
func rankOrder(p []float64) []int {
	order := make([]int, len(p))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return p[order[a]] < p[order[b]]
	})
	return order
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
