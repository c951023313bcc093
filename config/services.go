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
	"errors"
	"fmt"
	"time"

	"bigants/enrichr"
	"bigants/mygene"

	"github.com/caarlos0/env/v10"
)

// Services holds the endpoints of the web services used for gene names and enrichment analysis.
type Services struct {
	MyGeneURL   string        `env:"BIGANTS_MYGENE_URL" envDefault:"https://mygene.info/v3"`
	EnrichrURL  string        `env:"BIGANTS_ENRICHR_URL" envDefault:"https://maayanlab.cloud/Enrichr"`
	HTTPTimeout time.Duration `env:"BIGANTS_HTTP_TIMEOUT" envDefault:"60s"`
	HTTPRetries uint          `env:"BIGANTS_HTTP_RETRIES" envDefault:"3"`
	// CachePath is the SQLite file caching resolved gene symbols, empty disables caching.
	CachePath string `env:"BIGANTS_CACHE_PATH"`
}

// LoadServices reads the service endpoints from environment variables.
func LoadServices() (*Services, error) {
	s := &Services{}
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("failed to parse service config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %w", err)
	}
	return s, nil
}

// Validate checks the service configuration.
func (s *Services) Validate() error {
	if s.MyGeneURL == "" {
		return errors.New("MyGene.info URL is required")
	}
	if s.EnrichrURL == "" {
		return errors.New("Enrichr URL is required")
	}
	if s.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP timeout: %v", s.HTTPTimeout)
	}
	if s.HTTPRetries < 1 {
		return errors.New("at least one HTTP attempt is required")
	}
	return nil
}

// MyGene returns a MyGene.info client.
func (s *Services) MyGene() *mygene.Client {
	return mygene.NewClient(s.MyGeneURL, s.HTTPTimeout, s.HTTPRetries)
}

// Enrichr returns an Enrichr client.
func (s *Services) Enrichr() *enrichr.Client {
	return enrichr.NewClient(s.EnrichrURL, s.HTTPTimeout, s.HTTPRetries)
}

// Resolver returns a gene-symbol resolver, backed by the SQLite cache when CachePath is set. The returned close
// function releases the cache.
func (s *Services) Resolver(species string) (*mygene.Resolver, func() error, error) {
	if s.CachePath == "" {
		return mygene.NewResolver(s.MyGene(), nil, species), func() error { return nil }, nil
	}
	cache, err := mygene.OpenCache(s.CachePath)
	if err != nil {
		return nil, nil, err
	}
	return mygene.NewResolver(s.MyGene(), cache, species), cache.Close, nil
}
