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

package render

import (
	"math"
	"sort"

	"github.com/exascience/pargo/parallel"
	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/plot/plotter"
)

// Layout maps graph node IDs onto positions.
type Layout map[int64]plotter.XY

const (
	minDistance     = 0.01
	layoutThreshold = 1e-4
	randomScale     = 1 << 24
)

// SpringLayout positions the nodes of g with the Fruchterman-Reingold force-directed algorithm. Nodes start at random
// positions in the unit square, drawn from a generator seeded with seed (a zero seed draws from the global generator).
// The optimal distance between nodes is 1/sqrt(n), the temperature starts at a tenth of the layout extent and cools
// linearly over the iterations. The final positions are centred on the origin and scaled to fit [-1,1].
func SpringLayout(g graph.Graph, iterations int, seed uint32) Layout {
	ids := nodeIDs(g)
	n := len(ids)
	layout := Layout{}
	if n == 0 {
		return layout
	}
	var rng fastrand.RNG
	rng.Seed(seed)
	random := func() float64 {
		if seed == 0 {
			return float64(fastrand.Uint32n(randomScale)) / randomScale
		}
		return float64(rng.Uint32n(randomScale)) / randomScale
	}
	pos := make([]plotter.XY, n)
	for i := range pos {
		pos[i].X = random()
		pos[i].Y = random()
	}
	adjacent := make([][]bool, n)
	index := make(map[int64]int, n)
	for i, id := range ids {
		index[id] = i
		adjacent[i] = make([]bool, n)
	}
	for i, id := range ids {
		neighbours := g.From(id)
		for neighbours.Next() {
			if j, ok := index[neighbours.Node().ID()]; ok {
				adjacent[i][j] = true
			}
		}
	}
	k := math.Sqrt(1 / float64(n))
	t := 0.1 * extent(pos)
	dt := t / float64(iterations+1)
	displacement := make([]plotter.XY, n)
	for iteration := 0; iteration < iterations; iteration++ {
		parallel.Range(0, n, 0, func(low, high int) {
			for i := low; i < high; i++ {
				var dx, dy float64
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					deltaX := pos[i].X - pos[j].X
					deltaY := pos[i].Y - pos[j].Y
					distance := math.Max(math.Hypot(deltaX, deltaY), minDistance)
					force := k * k / (distance * distance)
					if adjacent[i][j] {
						force -= distance / k
					}
					dx += deltaX * force
					dy += deltaY * force
				}
				displacement[i] = plotter.XY{X: dx, Y: dy}
			}
		})
		moved := 0.0
		for i, d := range displacement {
			length := math.Hypot(d.X, d.Y)
			if length < minDistance {
				length = 0.1
			}
			stepX, stepY := d.X*t/length, d.Y*t/length
			pos[i].X += stepX
			pos[i].Y += stepY
			moved += stepX*stepX + stepY*stepY
		}
		t -= dt
		if math.Sqrt(moved)/float64(n) < layoutThreshold {
			break
		}
	}
	rescale(pos)
	for i, id := range ids {
		layout[id] = pos[i]
	}
	return layout
}

// nodeIDs returns the node IDs of g in increasing order.
func nodeIDs(g graph.Graph) []int64 {
	nodes := g.Nodes()
	ids := make([]int64, 0, nodes.Len())
	for nodes.Next() {
		ids = append(ids, nodes.Node().ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// extent returns the larger of the x and y ranges of a set of positions.
func extent(pos []plotter.XY) float64 {
	xmin, xmax, ymin, ymax := plotter.XYRange(plotter.XYs(pos))
	return math.Max(xmax-xmin, ymax-ymin)
}

// rescale centres positions on the origin and scales them so that the largest coordinate is 1.
func rescale(pos []plotter.XY) {
	var meanX, meanY float64
	for _, p := range pos {
		meanX += p.X
		meanY += p.Y
	}
	meanX /= float64(len(pos))
	meanY /= float64(len(pos))
	limit := 0.0
	for i := range pos {
		pos[i].X -= meanX
		pos[i].Y -= meanY
		limit = math.Max(limit, math.Max(math.Abs(pos[i].X), math.Abs(pos[i].Y)))
	}
	if limit == 0 {
		return
	}
	for i := range pos {
		pos[i].X /= limit
		pos[i].Y /= limit
	}
}
