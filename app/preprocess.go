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
	"fmt"
	"math"

	"bigants/results"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PreprocessOptions configures how raw inputs are turned into the dataset the optimizer was run on. The options must
// match the ones used for the optimizer run, otherwise the solution's gene indices refer to different genes.
type PreprocessOptions struct {
	Log2         bool    // transform expression values to log2(x+1)
	Size         int     // keep only the Size most variable genes, 0 keeps all
	MinVariance  float64 // remove genes with a lower expression variance
	ZScore       bool    // standardize each gene's expression over all patients
	DropIsolated bool    // remove genes without interactions to other kept genes
}

// log2Expression returns a copy of the expression table with log2(x+1) transformed values.
func log2Expression(expr *Expression) *Expression {
	r, c := expr.Data.Dims()
	data := mat.NewDense(r, c, nil)
	data.Apply(func(_, _ int, v float64) float64 {
		return math.Log2(v + 1)
	}, expr.Data)
	return &Expression{Genes: expr.Genes, Patients: expr.Patients, Data: data}
}

// zScore standardizes a gene's expression values in place. Constant genes become all zeroes.
func zScore(values []float64) {
	mean, std := stat.MeanStdDev(values, nil)
	for i, v := range values {
		if std == 0 || math.IsNaN(std) {
			values[i] = 0
		} else {
			values[i] = (v - mean) / std
		}
	}
}

// dropIsolated removes the rows of genes that have no interaction with any other kept gene.
func dropIsolated(expr *Expression, net *Network, rows []int) []int {
	kept := map[int64]bool{}
	for _, i := range rows {
		kept[net.Index[expr.Genes[i]]] = true
	}
	result := []int{}
	for _, i := range rows {
		id := net.Index[expr.Genes[i]]
		neighbours := net.Graph.From(id)
		for neighbours.Next() {
			if kept[neighbours.Node().ID()] {
				result = append(result, i)
				break
			}
		}
	}
	return result
}

// Preprocess combines an expression table and a PPI network into a dataset. Only genes that occur in both inputs are
// kept. Genes become indices 0..n-1 in expression table order, patients become indices n..n+m-1 in column order, and
// the network is relabelled to gene indices.
func Preprocess(expr *Expression, net *Network, opts PreprocessOptions) (*results.Dataset, error) {
	if opts.Log2 {
		expr = log2Expression(expr)
	}
	filters := []GeneFilter{InNetworkFilter(net)}
	if opts.MinVariance > 0 {
		filters = append(filters, MinVarianceFilter(opts.MinVariance))
	}
	rows := ApplyGeneFilters(filters, expr)
	if opts.Size > 0 {
		rows = ApplyGeneFilters([]GeneFilter{TopVarianceFilter(expr, rows, opts.Size)}, expr)
	}
	if opts.DropIsolated {
		rows = dropIsolated(expr, net, rows)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no genes shared between expression data and PPI network")
	}
	n, m := len(rows), len(expr.Patients)
	ds := &results.Dataset{
		LabelIDs:    make([]string, 0, n+m),
		NofGenes:    n,
		NofPatients: m,
		GE:          mat.NewDense(n, m, nil),
		G:           simple.NewUndirectedGraph(),
	}
	netToIndex := map[int64]int64{}
	for i, row := range rows {
		gene := expr.Genes[row]
		ds.LabelIDs = append(ds.LabelIDs, gene)
		values := ds.GE.RawRowView(i)
		copy(values, expr.Data.RawRowView(row))
		if opts.ZScore {
			zScore(values)
		}
		ds.G.AddNode(simple.Node(i))
		netToIndex[net.Index[gene]] = int64(i)
	}
	ds.LabelIDs = append(ds.LabelIDs, expr.Patients...)
	edges := net.Graph.Edges()
	for edges.Next() {
		edge := edges.Edge()
		from, ok1 := netToIndex[edge.From().ID()]
		to, ok2 := netToIndex[edge.To().ID()]
		if ok1 && ok2 {
			ds.G.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	log.Info().Int("genes", n).Int("patients", m).Int("interactions", ds.G.Edges().Len()).
		Msg("Preprocessed dataset")
	return ds, nil
}
