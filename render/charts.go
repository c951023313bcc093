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

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ConvergencePlot builds a line plot of the best and average score per iteration.
func ConvergencePlot(best, average []float64) (*plot.Plot, error) {
	if len(best) == 0 && len(average) == 0 {
		return nil, fmt.Errorf("no scores to plot")
	}
	p := plot.New()
	p.X.Label.Text = "Iterations"
	p.Y.Label.Text = "Score"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	err := plotutil.AddLines(p, "best score", series(best), "average score", series(average))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// series turns a slice of values into points (iteration, value).
func series(values []float64) plotter.XYs {
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	return xys
}

// Convergence writes a convergence plot to file.
func Convergence(file string, cfg Config, best, average []float64) error {
	p, err := ConvergencePlot(best, average)
	if err != nil {
		return err
	}
	return SavePlots(file, cfg, []*plot.Plot{p})
}

// Bar is a labelled bar of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
}

// BarsPlot builds a horizontal bar chart, with the first bar on top.
func BarsPlot(title, xLabel string, bars []Bar) (*plot.Plot, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars to plot")
	}
	values := make(plotter.Values, len(bars))
	labels := make([]string, len(bars))
	for i, bar := range bars {
		values[len(bars)-1-i] = bar.Value
		labels[len(bars)-1-i] = bar.Label
	}
	chart, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, err
	}
	chart.Horizontal = true
	chart.Color = plotutil.Color(0)
	chart.LineStyle.Width = 0
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Add(chart)
	p.NominalY(labels...)
	return p, nil
}

// EnrichmentBars writes a horizontal bar chart to file.
func EnrichmentBars(file string, cfg Config, title, xLabel string, bars []Bar) error {
	p, err := BarsPlot(title, xLabel, bars)
	if err != nil {
		return err
	}
	return SavePlots(file, cfg, []*plot.Plot{p})
}
