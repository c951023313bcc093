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

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// matrixGrid presents a matrix as a plotter.GridXYZ. Row 0 of the matrix is drawn on top.
type matrixGrid struct {
	m mat.Matrix
}

func (g matrixGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g matrixGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g matrixGrid) X(c int) float64 {
	return float64(c)
}

func (g matrixGrid) Y(r int) float64 {
	return float64(r)
}

// Panel is a titled heat map of a square matrix with the same labels on both axes.
type Panel struct {
	Title  string
	Matrix mat.Matrix
	Labels []string
}

// heatmapPlot builds a heat map plot for a matrix, with row labels listed from top to bottom.
func heatmapPlot(m mat.Matrix, pal palette.Palette, lo, hi float64, cols, rows []string) *plot.Plot {
	hm := plotter.NewHeatMap(matrixGrid{m}, pal)
	hm.Min, hm.Max = lo, hi
	hm.NaN = color.White
	hm.Underflow = pal.Colors()[0]
	hm.Overflow = pal.Colors()[len(pal.Colors())-1]
	p := plot.New()
	p.Add(hm)
	if cols != nil {
		p.NominalX(cols...)
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	if rows != nil {
		reversed := make([]string, len(rows))
		for i, name := range rows {
			reversed[len(rows)-1-i] = name
		}
		p.NominalY(reversed...)
	}
	return p
}

// colorBarPlot builds a vertical colour bar for a colour map.
func colorBarPlot(cm palette.ColorMap) *plot.Plot {
	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.HideX()
	bar.Y.Padding = 0
	return bar
}

// CorrelationPlots builds one heat map per panel, with values between -1 and 1, followed by a shared colour bar.
func CorrelationPlots(panels []Panel) ([]*plot.Plot, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("no correlation matrices to draw")
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	pal := cm.Palette(255)
	plots := make([]*plot.Plot, 0, len(panels)+1)
	for _, panel := range panels {
		r, c := panel.Matrix.Dims()
		if r != c || r != len(panel.Labels) {
			return nil, fmt.Errorf("correlation matrix of %d x %d genes has %d labels", r, c, len(panel.Labels))
		}
		p := heatmapPlot(panel.Matrix, pal, -1, 1, panel.Labels, panel.Labels)
		p.Title.Text = panel.Title
		plots = append(plots, p)
	}
	return append(plots, colorBarPlot(cm)), nil
}

// CorrelationHeatmaps writes side-by-side correlation heat maps to file.
func CorrelationHeatmaps(file string, cfg Config, panels []Panel) error {
	plots, err := CorrelationPlots(panels)
	if err != nil {
		return err
	}
	heatmaps, bar := plots[:len(plots)-1], plots[len(plots)-1]
	return Save(file, cfg, func(dc draw.Canvas) {
		drawGrid(draw.Crop(dc, 0, -colorBarWidth, 0, 0), [][]*plot.Plot{heatmaps})
		bar.Draw(draw.Crop(dc, dc.Max.X-dc.Min.X-colorBarWidth, 0, 2*vg.Centimeter, -vg.Centimeter))
	})
}
