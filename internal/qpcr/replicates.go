package qpcr

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// AggregateReplicates collapses technical replicates of the same
// (sample, gene) pair into one SampleGeneCt row: the arithmetic mean of the
// replicate Ct values plus their sample standard deviation.
//
// Averaging happens here, in linear Ct space, strictly before any ΔCt
// subtraction. Subtracting first and averaging the differences is not
// equivalent when replicate counts differ between genes, so the order is
// part of the contract.
//
// Pairs with a single replicate get a nil SD. Pairs with zero valid
// replicates never reach this function (the validator already dropped their
// rows), so no zero-filled output exists.
func AggregateReplicates(measurements []Measurement) []SampleGeneCt {
	type key struct {
		sampleID string
		gene     string
	}

	groups := make(map[key][]Measurement)
	for _, m := range measurements {
		k := key{sampleID: m.SampleID, gene: m.Gene}
		groups[k] = append(groups[k], m)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sampleID != keys[j].sampleID {
			return keys[i].sampleID < keys[j].sampleID
		}
		return keys[i].gene < keys[j].gene
	})

	rows := make([]SampleGeneCt, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		cts := make([]float64, len(group))
		for i, m := range group {
			cts[i] = m.Ct
		}
		// Fixed summation order makes the aggregate independent of input
		// row order down to the last bit.
		sort.Float64s(cts)

		row := SampleGeneCt{
			SampleID:      k.sampleID,
			Gene:          k.gene,
			Condition:     group[0].Condition,
			BiologicalRep: group[0].BiologicalRep,
			MeanCt:        stat.Mean(cts, nil),
			Replicates:    len(cts),
		}
		if len(cts) > 1 {
			sd := stat.StdDev(cts, nil)
			row.CtSD = &sd
		}
		rows = append(rows, row)
	}

	return rows
}
