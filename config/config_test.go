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
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, "bigants", c.Name())
	assert.Equal(t, "png", c.Format())
	assert.Equal(t, 300, c.DPI())
	assert.Equal(t, 50, c.LayoutIterations())
	assert.Equal(t, "human", c.Species())
	assert.False(t, c.Convert())
	fig := c.Figure()
	assert.Equal(t, 8*vg.Inch, fig.Width)
	assert.Equal(t, 6*vg.Inch, fig.Height)
	opts := c.Preprocess()
	assert.Zero(t, opts.Size)
	assert.False(t, opts.Log2)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bigants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: brca
preprocess:
  log2: true
  size: 2000
  zscore: true
figure:
  format: svg
  dpi: 150
genes:
  convert: true
  orig_id: entrezgene
`), 0644))

	c := New()
	require.NoError(t, c.LoadFromFile(path))
	assert.Equal(t, "brca", c.Name())
	assert.Equal(t, "svg", c.Format())
	assert.Equal(t, 150, c.DPI())
	assert.True(t, c.Convert())
	assert.Equal(t, "entrezgene", c.OrigID())
	opts := c.Preprocess()
	assert.True(t, opts.Log2)
	assert.True(t, opts.ZScore)
	assert.Equal(t, 2000, opts.Size)
	// keys missing from the file keep their defaults
	assert.Equal(t, 6*vg.Inch, c.Figure().Height)

	assert.Error(t, New().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestSet(t *testing.T) {
	c := New()
	c.Set("preprocess.drop_isolated", true)
	assert.True(t, c.Preprocess().DropIsolated)
}

func TestCreateLogger(t *testing.T) {
	c := New()
	c.Set("logging.level", "warn")
	var buf bytes.Buffer
	logger := c.CreateLogger(&buf)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	c.Set("logging.level", "loud")
	assert.Equal(t, zerolog.InfoLevel, c.CreateLogger(&buf).GetLevel())
}

func TestLoadServices(t *testing.T) {
	s, err := LoadServices()
	require.NoError(t, err)
	assert.Equal(t, "https://mygene.info/v3", s.MyGeneURL)
	assert.Equal(t, "https://maayanlab.cloud/Enrichr", s.EnrichrURL)
	assert.Equal(t, time.Minute, s.HTTPTimeout)
	assert.Equal(t, uint(3), s.HTTPRetries)
	assert.Empty(t, s.CachePath)

	t.Setenv("BIGANTS_ENRICHR_URL", "http://localhost:8080")
	t.Setenv("BIGANTS_HTTP_TIMEOUT", "5s")
	t.Setenv("BIGANTS_CACHE_PATH", filepath.Join(t.TempDir(), "symbols.db"))
	s, err = LoadServices()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", s.EnrichrURL)
	assert.Equal(t, 5*time.Second, s.HTTPTimeout)

	resolver, closeCache, err := s.Resolver("mouse")
	require.NoError(t, err)
	assert.NotNil(t, resolver)
	assert.NoError(t, closeCache())
}

func TestLoadServicesInvalid(t *testing.T) {
	t.Setenv("BIGANTS_HTTP_RETRIES", "0")
	_, err := LoadServices()
	assert.Error(t, err)

	t.Setenv("BIGANTS_HTTP_RETRIES", "many")
	_, err = LoadServices()
	assert.Error(t, err)
}
