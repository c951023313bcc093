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

package config

import (
	"io"
	"os"
	"time"

	"bigants/app"
	"bigants/render"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
)

// Config holds the run parameters of an analysis. Values come from defaults, an optional configuration file, and
// command-line flags bound to the same keys.
type Config struct {
	v *viper.Viper
}

// New creates a configuration with defaults.
func New() *Config {
	v := viper.New()

	v.SetDefault("name", "bigants")
	v.SetDefault("output", ".")

	// preprocessing, must match the optimizer run
	v.SetDefault("preprocess.log2", false)
	v.SetDefault("preprocess.size", 0)
	v.SetDefault("preprocess.min_variance", 0.0)
	v.SetDefault("preprocess.zscore", false)
	v.SetDefault("preprocess.drop_isolated", false)

	// figures
	v.SetDefault("figure.format", "png")
	v.SetDefault("figure.width_inch", 8.0)
	v.SetDefault("figure.height_inch", 6.0)
	v.SetDefault("figure.dpi", 300)
	v.SetDefault("figure.layout_iterations", 50)

	// gene names
	v.SetDefault("genes.convert", false)
	v.SetDefault("genes.orig_id", "")
	v.SetDefault("genes.species", "human")

	v.SetDefault("enrichment.library", "GO_Biological_Process_2018")

	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile merges a YAML, TOML or JSON configuration file into the configuration.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Viper exposes the underlying store, so that command-line flags can be bound to keys.
func (c *Config) Viper() *viper.Viper { return c.v }

// Set overrides a key.
func (c *Config) Set(key string, value interface{}) { c.v.Set(key, value) }

func (c *Config) Name() string   { return c.v.GetString("name") }
func (c *Config) Output() string { return c.v.GetString("output") }

func (c *Config) Log2() bool           { return c.v.GetBool("preprocess.log2") }
func (c *Config) Size() int            { return c.v.GetInt("preprocess.size") }
func (c *Config) MinVariance() float64 { return c.v.GetFloat64("preprocess.min_variance") }
func (c *Config) ZScore() bool         { return c.v.GetBool("preprocess.zscore") }
func (c *Config) DropIsolated() bool   { return c.v.GetBool("preprocess.drop_isolated") }

func (c *Config) Format() string        { return c.v.GetString("figure.format") }
func (c *Config) Width() float64        { return c.v.GetFloat64("figure.width_inch") }
func (c *Config) Height() float64       { return c.v.GetFloat64("figure.height_inch") }
func (c *Config) DPI() int              { return c.v.GetInt("figure.dpi") }
func (c *Config) LayoutIterations() int { return c.v.GetInt("figure.layout_iterations") }

func (c *Config) Convert() bool   { return c.v.GetBool("genes.convert") }
func (c *Config) OrigID() string  { return c.v.GetString("genes.orig_id") }
func (c *Config) Species() string { return c.v.GetString("genes.species") }

func (c *Config) Library() string { return c.v.GetString("enrichment.library") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Preprocess returns the preprocessing options.
func (c *Config) Preprocess() app.PreprocessOptions {
	return app.PreprocessOptions{
		Log2:         c.Log2(),
		Size:         c.Size(),
		MinVariance:  c.MinVariance(),
		ZScore:       c.ZScore(),
		DropIsolated: c.DropIsolated(),
	}
}

// Figure returns the figure size and resolution.
func (c *Config) Figure() render.Config {
	return render.Config{
		Width:  vg.Length(c.Width()) * vg.Inch,
		Height: vg.Length(c.Height()) * vg.Inch,
		DPI:    c.DPI(),
	}
}

// CreateLogger creates a zerolog logger based on the configured level. Unknown levels fall back to info.
func (c *Config) CreateLogger(out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	if out == nil {
		out = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Str("service", "bigants").Logger()
}
