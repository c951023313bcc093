// BiGAnts: Bi-clustering Results Analysis Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

package app

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GeneFilter prescribes a function type for implementing filters on genes of the expression table, to restrict the
// analysis to a subset of genes. A filter receives the gene ID and the gene's expression values over all patients.
type GeneFilter func(gene string, values []float64) bool

// ApplyGeneFilters returns the row indices of the genes that pass all filters, in table order.
func ApplyGeneFilters(filters []GeneFilter, expr *Expression) []int {
	kept := []int{}
	for i, gene := range expr.Genes {
		values := expr.Data.RawRowView(i)
		keep := true
		for _, filter := range filters {
			if !filter(gene, values) {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, i)
		}
	}
	return kept
}

// InNetworkFilter removes all genes that are not part of the PPI network.
func InNetworkFilter(net *Network) GeneFilter {
	return func(gene string, _ []float64) bool {
		return net.HasGene(gene)
	}
}

// MinVarianceFilter removes all genes whose expression variance is below the given minimum. A minimum of 0 still
// removes nothing; use a small positive value to remove constant genes.
func MinVarianceFilter(minVariance float64) GeneFilter {
	return func(_ string, values []float64) bool {
		return stat.Variance(values, nil) >= minVariance
	}
}

// TopVarianceFilter keeps only the size genes with the highest expression variance among the given candidate rows.
// Ties are broken by table order.
func TopVarianceFilter(expr *Expression, candidates []int, size int) GeneFilter {
	keep := map[string]bool{}
	if size <= 0 || size >= len(candidates) {
		for _, i := range candidates {
			keep[expr.Genes[i]] = true
		}
	} else {
		variances := make([]float64, len(expr.Genes))
		for _, i := range candidates {
			variances[i] = stat.Variance(expr.Data.RawRowView(i), nil)
		}
		ranked := append([]int(nil), candidates...)
		sort.SliceStable(ranked, func(a, b int) bool {
			return variances[ranked[a]] > variances[ranked[b]]
		})
		for _, i := range ranked[:size] {
			keep[expr.Genes[i]] = true
		}
	}
	return func(gene string, _ []float64) bool {
		return keep[gene]
	}
}
