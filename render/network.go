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
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// EdgeGraph is an undirected graph whose edges can be listed, such as *simple.UndirectedGraph.
type EdgeGraph interface {
	graph.Undirected
	Edges() graph.Edges
}

// NetworkFigure describes a network diagram with one colour value per node.
type NetworkFigure struct {
	Graph      EdgeGraph
	Labels     map[int64]string  // node ID -> label
	Values     map[int64]float64 // node ID -> colour value
	Title      string
	Iterations int    // spring layout iterations
	Seed       uint32 // spring layout seed, 0 for a random layout
}

const colorBarWidth = 2 * vg.Centimeter

// valueColorMap returns a colour map spanning values. A degenerate range is widened so that the colour bar can be
// drawn.
func valueColorMap(cm palette.ColorMap, values map[int64]float64) palette.ColorMap {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	cm.SetMin(lo)
	cm.SetMax(hi)
	return cm
}

// NetworkPlots builds the network diagram and its colour bar.
func NetworkPlots(fig NetworkFigure) (network, bar *plot.Plot, err error) {
	ids := nodeIDs(fig.Graph)
	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("network has no nodes")
	}
	iterations := fig.Iterations
	if iterations <= 0 {
		iterations = 50
	}
	layout := SpringLayout(fig.Graph, iterations, fig.Seed)
	cm := valueColorMap(moreland.Kindlmann(), fig.Values)
	cm.SetAlpha(0.7)

	network = plot.New()
	network.Title.Text = fig.Title
	network.HideAxes()
	edges := fig.Graph.Edges()
	for edges.Next() {
		edge := edges.Edge()
		line, err := plotter.NewLine(plotter.XYs{layout[edge.From().ID()], layout[edge.To().ID()]})
		if err != nil {
			return nil, nil, err
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = color.Gray{Y: 64}
		network.Add(line)
	}
	xys := make(plotter.XYs, len(ids))
	labels := make([]string, len(ids))
	for i, id := range ids {
		xys[i] = layout[id]
		labels[i] = fig.Labels[id]
	}
	nodes, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, nil, err
	}
	nodes.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, err := cm.At(fig.Values[ids[i]])
		if err != nil {
			c = color.Gray{Y: 128}
		}
		return draw.GlyphStyle{Color: c, Radius: vg.Points(12), Shape: draw.CircleGlyph{}}
	}
	network.Add(nodes)
	names, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, nil, err
	}
	for i := range names.TextStyle {
		names.TextStyle[i] = textStyle(vg.Points(9), color.Black)
		names.TextStyle[i].XAlign = draw.XCenter
		names.TextStyle[i].YAlign = draw.YCenter
	}
	network.Add(names)
	// keep the outer glyphs inside the canvas
	network.X.Min, network.X.Max = -1.15, 1.15
	network.Y.Min, network.Y.Max = -1.15, 1.15

	bar = plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.HideX()
	bar.Y.Padding = 0
	return network, bar, nil
}

// Network writes a network diagram to file.
func Network(file string, cfg Config, fig NetworkFigure) error {
	network, bar, err := NetworkPlots(fig)
	if err != nil {
		return err
	}
	return Save(file, cfg, func(dc draw.Canvas) {
		network.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))
		bar.Draw(draw.Crop(dc, dc.Max.X-dc.Min.X-colorBarWidth, 0, vg.Centimeter, -vg.Centimeter))
	})
}
