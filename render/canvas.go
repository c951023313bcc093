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

// Package render draws the BiGAnts figures with gonum/plot. Every figure is written to a single file whose format is
// taken from the file extension.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgeps" // eps output
	"gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf" // pdf output
	_ "gonum.org/v1/plot/vg/vgsvg" // svg output
)

// Config holds the size and resolution of a figure.
type Config struct {
	Width, Height vg.Length
	DPI           int // resolution of png, jpg and tif output
}

// DefaultConfig returns the figure configuration used when none is given: 8 by 6 inches at 300 dpi.
func DefaultConfig() Config {
	return Config{Width: 8 * vg.Inch, Height: 6 * vg.Inch, DPI: 300}
}

// Formats lists the supported output file extensions.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}

// Format returns the output format for a file name, based on its extension.
func Format(file string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
	for _, format := range Formats {
		if ext == format {
			return ext, nil
		}
	}
	return "", fmt.Errorf("unsupported figure format %q for %s", ext, file)
}

func newCanvas(format string, cfg Config) (vg.CanvasWriterTo, error) {
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = vgimg.DefaultDPI
	}
	switch format {
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(cfg.Width, cfg.Height), vgimg.UseDPI(dpi))}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(cfg.Width, cfg.Height), vgimg.UseDPI(dpi))}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(cfg.Width, cfg.Height), vgimg.UseDPI(dpi))}, nil
	default:
		return draw.NewFormattedCanvas(cfg.Width, cfg.Height, format)
	}
}

// Save creates a canvas for file, lets fn draw on it, and writes the result.
func Save(file string, cfg Config, fn func(dc draw.Canvas)) (err error) {
	format, err := Format(file)
	if err != nil {
		return err
	}
	c, err := newCanvas(format, cfg)
	if err != nil {
		return err
	}
	fn(draw.New(c))
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	if _, err = c.WriteTo(f); err != nil {
		return fmt.Errorf("writing figure %s: %w", file, err)
	}
	return nil
}

// SavePlots draws rows of plots aligned on a grid and writes them to file.
func SavePlots(file string, cfg Config, rows ...[]*plot.Plot) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return fmt.Errorf("no plots to save")
	}
	return Save(file, cfg, func(dc draw.Canvas) {
		drawGrid(dc, rows)
	})
}

func drawGrid(dc draw.Canvas, rows [][]*plot.Plot) {
	tiles := draw.Tiles{
		Rows:      len(rows),
		Cols:      len(rows[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(rows, tiles, dc)
	for j, row := range rows {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}
}

// textStyle returns a plain text style of the given size.
func textStyle(size vg.Length, clr color.Color) text.Style {
	return text.Style{
		Color:   clr,
		Font:    font.From(plot.DefaultFont, size),
		Handler: plot.DefaultTextHandler,
	}
}

// swatch is a legend thumbnail that fills its area with a single colour.
type swatch struct {
	color.Color
}

// Thumbnail implements the plot.Thumbnailer interface.
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, pts)
}
