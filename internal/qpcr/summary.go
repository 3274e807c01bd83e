package qpcr

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// BuildSummary aggregates fold-change records into per-(gene, condition)
// descriptive statistics: n, the arithmetic mean of the linear fold-change
// values, the standard error of that mean, its confidence interval at the
// given level, and the group's mean ΔCt. The mean is arithmetic, not
// geometric.
//
// Single-observation groups report a defined mean but nil SEM and nil
// confidence bounds. Inputs are read-only.
func BuildSummary(records []DeltaDeltaCtRecord, confidenceLevel float64) []SummaryRow {
	type key struct {
		gene      string
		condition string
	}

	groups := make(map[key][]DeltaDeltaCtRecord)
	for _, rec := range records {
		k := key{gene: rec.Gene, condition: rec.Condition}
		groups[k] = append(groups[k], rec)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].gene != keys[j].gene {
			return keys[i].gene < keys[j].gene
		}
		return keys[i].condition < keys[j].condition
	})

	rows := make([]SummaryRow, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		folds := make([]float64, len(group))
		dcts := make([]float64, len(group))
		for i, rec := range group {
			folds[i] = rec.FoldChange
			dcts[i] = rec.DeltaCt
		}

		row := SummaryRow{
			Gene:           k.gene,
			Condition:      k.condition,
			N:              len(group),
			MeanFoldChange: stat.Mean(folds, nil),
			MeanDeltaCt:    stat.Mean(dcts, nil),
		}

		if n := len(folds); n > 1 {
			sem := stat.StdDev(folds, nil) / math.Sqrt(float64(n))
			row.FoldChangeSEM = &sem

			tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
			tCrit := tDist.Quantile(1 - (1-confidenceLevel)/2)
			lower := row.MeanFoldChange - tCrit*sem
			upper := row.MeanFoldChange + tCrit*sem
			row.CILower = &lower
			row.CIUpper = &upper
		}

		rows = append(rows, row)
	}

	return rows
}
