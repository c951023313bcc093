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

	"bigants/cluster"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Strip is a column of row colours drawn next to a clustermap. A nil colour leaves the row blank.
type Strip struct {
	Name   string
	Colors []color.Color
}

// LegendEntry is a coloured legend label.
type LegendEntry struct {
	Label string
	Color color.Color
}

// ClustermapFigure describes a heat map whose columns are ordered by a dendrogram drawn above it. Rows are drawn in
// matrix order, top to bottom.
type ClustermapFigure struct {
	Matrix     mat.Matrix
	Columns    []string
	Dendrogram *cluster.Dendrogram // nil keeps the matrix column order
	Strips     []Strip
	Legend     []LegendEntry
	XLabel     string
	YLabel     string
	Ticks      []float64 // colour bar ticks
	Palette    string    // ColorBrewer palette name
}

// rampGrid is a single-column grid of evenly spaced values between lo and hi, used to draw a colour bar with the same
// palette as a heat map.
type rampGrid struct {
	lo, hi float64
	n      int
}

func (g rampGrid) Dims() (c, r int) { return 1, g.n }

func (g rampGrid) Z(_, r int) float64 { return g.Y(r) }

func (g rampGrid) X(int) float64 { return 0 }

func (g rampGrid) Y(r int) float64 {
	return g.lo + (g.hi-g.lo)*(float64(r)+0.5)/float64(g.n)
}

// clustermap holds the plots and layout data of a clustermap.
type clustermap struct {
	fig   ClustermapFigure
	order []int
	heat  *plot.Plot
	bar   *plot.Plot
}

// valueRange returns the smallest and largest non-NaN entries of m.
func valueRange(m mat.Matrix) (float64, float64) {
	r, c := m.Dims()
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); !math.IsNaN(v) {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
	}
	if math.IsInf(lo, 1) {
		return -1, 1
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

func newClustermap(fig ClustermapFigure) (*clustermap, error) {
	r, c := fig.Matrix.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("empty clustermap matrix")
	}
	if len(fig.Columns) != c {
		return nil, fmt.Errorf("clustermap has %d columns and %d column labels", c, len(fig.Columns))
	}
	for _, strip := range fig.Strips {
		if len(strip.Colors) != r {
			return nil, fmt.Errorf("strip %s has %d colours for %d rows", strip.Name, len(strip.Colors), r)
		}
	}
	order := make([]int, c)
	for j := range order {
		order[j] = j
	}
	if fig.Dendrogram != nil {
		if fig.Dendrogram.N != c {
			return nil, fmt.Errorf("dendrogram has %d leaves for %d columns", fig.Dendrogram.N, c)
		}
		order = fig.Dendrogram.Order()
	}
	ordered := mat.NewDense(r, c, nil)
	columns := make([]string, c)
	for k, j := range order {
		ordered.SetCol(k, mat.Col(nil, j, fig.Matrix))
		columns[k] = fig.Columns[j]
	}
	name := fig.Palette
	if name == "" {
		name = "Spectral"
	}
	pal, err := brewer.GetPalette(brewer.TypeAny, name, 11)
	if err != nil {
		return nil, err
	}
	lo, hi := valueRange(ordered)
	heat := heatmapPlot(ordered, pal, lo, hi, columns, nil)
	heat.X.Label.Text = fig.XLabel
	heat.Y.Label.Text = fig.YLabel
	heat.Y.Tick.Marker = plot.ConstantTicks{}

	bar := plot.New()
	ramp := plotter.NewHeatMap(rampGrid{lo: lo, hi: hi, n: 128}, pal)
	ramp.Min, ramp.Max = lo, hi
	bar.Add(ramp)
	bar.HideX()
	bar.Y.Padding = 0
	ticks := plot.ConstantTicks{}
	for _, tick := range fig.Ticks {
		if tick >= lo && tick <= hi {
			ticks = append(ticks, plot.Tick{Value: tick, Label: fmt.Sprint(tick)})
		}
	}
	if len(ticks) > 0 {
		bar.Y.Tick.Marker = ticks
	}
	return &clustermap{fig: fig, order: order, heat: heat, bar: bar}, nil
}

const (
	stripWidth  = 4 * vg.Millimeter
	stripMargin = 12 * vg.Millimeter
	legendRow   = 5 * vg.Millimeter
)

func (cm *clustermap) draw(dc draw.Canvas) {
	width := dc.Max.X - dc.Min.X
	height := dc.Max.Y - dc.Min.Y
	left := vg.Length(len(cm.fig.Strips))*stripWidth + stripMargin
	legendHeight := vg.Length((len(cm.fig.Legend)+1)/2)*legendRow + 2*vg.Millimeter
	top := height/5 + legendHeight

	heatArea := draw.Crop(dc, left, -colorBarWidth, 0, -top)
	cm.heat.Draw(heatArea)
	data := cm.heat.DataCanvas(heatArea)
	trX, trY := cm.heat.Transforms(&data)
	rows, _ := cm.fig.Matrix.Dims()

	// row colour strips, left of the heat map
	labelStyle := textStyle(vg.Points(8), color.Black)
	labelStyle.Rotation = math.Pi / 2
	labelStyle.XAlign = draw.XRight
	labelStyle.YAlign = draw.YCenter
	for k, strip := range cm.fig.Strips {
		x0 := heatArea.Min.X - vg.Length(len(cm.fig.Strips)-k)*stripWidth - vg.Millimeter
		x1 := x0 + stripWidth
		for i, clr := range strip.Colors {
			if clr == nil {
				continue
			}
			y := float64(rows - 1 - i)
			y0, y1 := trY(y-0.5), trY(y+0.5)
			dc.FillPolygon(clr, []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}})
		}
		dc.FillText(labelStyle, vg.Point{X: (x0 + x1) / 2, Y: data.Min.Y - vg.Millimeter}, strip.Name)
	}

	// column dendrogram, above the heat map
	if d := cm.fig.Dendrogram; d != nil && len(d.Merges) > 0 {
		base := heatArea.Max.Y + vg.Millimeter
		roof := dc.Max.Y - legendHeight
		scale := d.MaxHeight()
		if scale <= 0 || math.IsNaN(scale) {
			scale = 1
		}
		xs := make([]vg.Length, d.N+len(d.Merges))
		hs := make([]float64, d.N+len(d.Merges))
		for k, leaf := range cm.order {
			xs[leaf] = trX(float64(k))
		}
		sty := draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}
		y := func(h float64) vg.Length {
			return base + vg.Length(h/scale)*(roof-base)
		}
		for i, merge := range d.Merges {
			id := d.N + i
			h := merge.Height
			if math.IsNaN(h) {
				h = math.Max(hs[merge.Left], hs[merge.Right])
			}
			xs[id] = (xs[merge.Left] + xs[merge.Right]) / 2
			hs[id] = h
			dc.StrokeLines(sty, []vg.Point{
				{X: xs[merge.Left], Y: y(hs[merge.Left])},
				{X: xs[merge.Left], Y: y(h)},
				{X: xs[merge.Right], Y: y(h)},
				{X: xs[merge.Right], Y: y(hs[merge.Right])},
			})
		}
	}

	// legend, two entries per row, top of the figure
	entryStyle := textStyle(vg.Points(9), color.Black)
	entryStyle.YAlign = draw.YCenter
	columnWidth := (width - left - colorBarWidth) / 4
	for i, entry := range cm.fig.Legend {
		x := heatArea.Min.X + columnWidth + vg.Length(i%2)*columnWidth
		y := dc.Max.Y - vg.Length(i/2)*legendRow - legendRow/2
		swatch{entry.Color}.Thumbnail(&draw.Canvas{Canvas: dc, Rectangle: vg.Rectangle{
			Min: vg.Point{X: x, Y: y - 1.5*vg.Millimeter},
			Max: vg.Point{X: x + 3*vg.Millimeter, Y: y + 1.5*vg.Millimeter},
		}})
		dc.FillText(entryStyle, vg.Point{X: x + 4*vg.Millimeter, Y: y}, entry.Label)
	}

	cm.bar.Draw(draw.Canvas{Canvas: dc, Rectangle: vg.Rectangle{
		Min: vg.Point{X: dc.Max.X - colorBarWidth + 2*vg.Millimeter, Y: data.Min.Y},
		Max: vg.Point{X: dc.Max.X - 2*vg.Millimeter, Y: data.Max.Y},
	}})
}

// Clustermap writes a clustermap to file.
func Clustermap(file string, cfg Config, fig ClustermapFigure) error {
	cm, err := newClustermap(fig)
	if err != nil {
		return err
	}
	return Save(file, cfg, cm.draw)
}

// ColumnOrder returns the display order of the clustermap columns.
func ColumnOrder(fig ClustermapFigure) ([]int, error) {
	cm, err := newClustermap(fig)
	if err != nil {
		return nil, err
	}
	return cm.order, nil
}
