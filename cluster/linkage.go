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

package cluster

import (
	"math"

	"github.com/exascience/pargo/parallel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Hierarchical clustering of the columns of an expression matrix, used to order genes in a clustermap.
// Clusters are merged with average linkage (UPGMA) on euclidean distances. Cluster IDs follow the usual convention:
// IDs 0..N-1 are the original columns, and the i-th merge creates cluster N+i.

// Merge represents one agglomeration step: clusters Left and Right are joined at the given Height into a cluster of
// Size columns.
type Merge struct {
	Left, Right int
	Height      float64
	Size        int
}

// Dendrogram is the full merge history for N columns. It has N-1 merges, or none when N < 2.
type Dendrogram struct {
	N      int
	Merges []Merge
}

// distanceMatrix computes the pairwise euclidean distances between the columns of m. Each pair is computed once by the
// worker that owns its smallest index, so rows can be filled in parallel.
func distanceMatrix(m mat.Matrix) [][]float64 {
	_, n := m.Dims()
	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = mat.Col(nil, j, m)
	}
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	parallel.Range(0, n, 0, func(low, high int) {
		for i := low; i < high; i++ {
			for j := i + 1; j < n; j++ {
				d := floats.Distance(cols[i], cols[j], 2)
				dist[i][j] = d
				dist[j][i] = d
			}
		}
	})
	return dist
}

// AverageLinkage clusters the columns of m with average linkage on euclidean distances.
func AverageLinkage(m mat.Matrix) *Dendrogram {
	_, n := m.Dims()
	d := &Dendrogram{N: n}
	if n < 2 {
		return d
	}
	dist := distanceMatrix(m)
	// slot i holds cluster ids[i] of sizes[i] columns while active[i] is set
	ids := make([]int, n)
	sizes := make([]int, n)
	active := make([]bool, n)
	for i := range ids {
		ids[i] = i
		sizes[i] = 1
		active[i] = true
	}
	for step := 0; step < n-1; step++ {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}
		if bi < 0 {
			// only NaN distances left, merge the first two active slots
			for i := 0; i < n && bj < 0; i++ {
				if active[i] {
					if bi < 0 {
						bi = i
					} else {
						bj = i
					}
				}
			}
			best = math.NaN()
		}
		left, right := ids[bi], ids[bj]
		if left > right {
			left, right = right, left
		}
		size := sizes[bi] + sizes[bj]
		d.Merges = append(d.Merges, Merge{Left: left, Right: right, Height: best, Size: size})
		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			avg := (float64(sizes[bi])*dist[bi][k] + float64(sizes[bj])*dist[bj][k]) / float64(size)
			dist[bi][k] = avg
			dist[k][bi] = avg
		}
		ids[bi] = n + step
		sizes[bi] = size
		active[bj] = false
	}
	return d
}

// Order returns the columns in dendrogram leaf order, visiting the left subtree of each merge before the right one.
func (d *Dendrogram) Order() []int {
	if d.N == 0 {
		return []int{}
	}
	if len(d.Merges) == 0 {
		return []int{0}
	}
	order := make([]int, 0, d.N)
	stack := []int{d.N + len(d.Merges) - 1}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < d.N {
			order = append(order, id)
			continue
		}
		merge := d.Merges[id-d.N]
		stack = append(stack, merge.Right, merge.Left)
	}
	return order
}

// MaxHeight returns the height of the highest merge, ignoring NaN heights.
func (d *Dendrogram) MaxHeight() float64 {
	highest := 0.0
	for _, merge := range d.Merges {
		if merge.Height > highest {
			highest = merge.Height
		}
	}
	return highest
}
