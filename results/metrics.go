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

package results

import (
	"fmt"
	"math"

	"bigants/cluster"

	"github.com/exascience/pargo/parallel"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Difference holds the per-gene difference in mean expression between the two patient clusters. The difference is
// taken from the cluster with the higher overall mean expression, so that the values are mostly positive.
type Difference struct {
	Values       []float64 // per gene, in Nodes order
	Means1       []float64 // per gene mean expression in cluster 1
	Means2       []float64 // per gene mean expression in cluster 2
	Cluster1High bool      // whether cluster 1 has the higher overall mean expression
}

// partitionMeans computes the mean expression of each solution gene over a set of patients.
func (r *Results) partitionMeans(ds *Dataset, pts []int) []float64 {
	means := make([]float64, len(r.Nodes))
	parallel.Range(0, len(r.Nodes), 0, func(low, high int) {
		for i := low; i < high; i++ {
			row := ds.GE.RawRowView(r.Nodes[i])
			sum := 0.0
			for _, patient := range pts {
				sum += row[ds.column(patient)]
			}
			means[i] = sum / float64(len(pts))
		}
	})
	return means
}

// MeanDifference computes the difference in mean expression of each solution gene between the patient clusters.
func (r *Results) MeanDifference(ds *Dataset) (*Difference, error) {
	if len(r.Pts1) == 0 || len(r.Pts2) == 0 {
		return nil, fmt.Errorf("a patient cluster is empty (%d and %d patients)", len(r.Pts1), len(r.Pts2))
	}
	diff := &Difference{
		Values: make([]float64, len(r.Nodes)),
		Means1: r.partitionMeans(ds, r.Pts1),
		Means2: r.partitionMeans(ds, r.Pts2),
	}
	diff.Cluster1High = stat.Mean(diff.Means1, nil) > stat.Mean(diff.Means2, nil)
	for i := range diff.Values {
		if diff.Cluster1High {
			diff.Values[i] = diff.Means1[i] - diff.Means2[i]
		} else {
			diff.Values[i] = diff.Means2[i] - diff.Means1[i]
		}
	}
	return diff, nil
}

// partitionMatrix extracts the expression of the solution genes for a set of patients: one row per patient, one
// column per gene.
func (r *Results) partitionMatrix(ds *Dataset, pts []int) *mat.Dense {
	m := mat.NewDense(len(pts), len(r.Nodes), nil)
	for i, patient := range pts {
		col := ds.column(patient)
		for j, node := range r.Nodes {
			m.Set(i, j, ds.GE.At(node, col))
		}
	}
	return m
}

// Correlations holds the gene-gene correlation matrices of the two patient clusters, and their mean absolute
// correlation.
type Correlations struct {
	Part1, Part2 *mat.SymDense
	Mean1, Mean2 float64
}

// correlation computes the gene-gene Pearson correlation over a set of patients. Genes with constant expression have
// an undefined correlation, also with themselves, which is represented as NaN.
func (r *Results) correlation(ds *Dataset, pts []int) (*mat.SymDense, error) {
	if len(pts) < 2 {
		return nil, fmt.Errorf("correlation needs at least 2 patients per cluster, got %d", len(pts))
	}
	x := r.partitionMatrix(ds, pts)
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)
	for j := range r.Nodes {
		if stat.Variance(mat.Col(nil, j, x), nil) == 0 {
			for k := range r.Nodes {
				corr.SetSym(j, k, math.NaN())
			}
		}
	}
	return &corr, nil
}

// meanAbs returns the mean absolute value of the entries of a matrix. Any NaN entry makes the mean NaN.
func meanAbs(m mat.Matrix) float64 {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum += math.Abs(m.At(i, j))
		}
	}
	return sum / float64(rows*cols)
}

// CorrelationMaps computes the gene-gene correlation matrices of both patient clusters.
func (r *Results) CorrelationMaps(ds *Dataset) (*Correlations, error) {
	part1, err := r.correlation(ds, r.Pts1)
	if err != nil {
		return nil, err
	}
	part2, err := r.correlation(ds, r.Pts2)
	if err != nil {
		return nil, err
	}
	return &Correlations{Part1: part1, Part2: part2, Mean1: meanAbs(part1), Mean2: meanAbs(part2)}, nil
}

// Subnetwork is the part of the PPI network induced by the solution genes. Node IDs are gene indices.
type Subnetwork struct {
	Graph *simple.UndirectedGraph
	Names map[int64]string // node ID -> gene name
}

// Subnetwork extracts the PPI network induced by the solution genes.
func (r *Results) Subnetwork(ds *Dataset) *Subnetwork {
	sub := &Subnetwork{Graph: simple.NewUndirectedGraph(), Names: map[int64]string{}}
	for i, node := range r.Nodes {
		sub.Graph.AddNode(simple.Node(node))
		sub.Names[int64(node)] = r.GeneName(r.Genes[i])
	}
	for i, u := range r.Nodes {
		for _, v := range r.Nodes[i+1:] {
			if ds.G.HasEdgeBetween(int64(u), int64(v)) {
				sub.Graph.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
			}
		}
	}
	return sub
}

// JaccardIndex compares the patient clusters with two known patient classes. It returns the jaccard coefficient of
// cluster 1 and of cluster 2, each with the class it is matched to in the best matching of clusters onto classes.
func (r *Results) JaccardIndex(trueLabels TrueLabels) (float64, float64) {
	return cluster.BestMatch([2][]string{r.Patients1, r.Patients2}, trueLabels)
}
