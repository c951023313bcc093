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

package mygene

import (
	"context"

	"bigants/utils"

	"github.com/rs/zerolog/log"
)

// Resolver maps gene IDs onto gene symbols, consulting an optional cache before querying the service.
type Resolver struct {
	client  *Client
	cache   *Cache
	species string
}

// NewResolver creates a resolver for the given species, e.g. "human". The cache may be nil.
func NewResolver(client *Client, cache *Cache, species string) *Resolver {
	if species == "" {
		species = "human"
	}
	return &Resolver{client: client, cache: cache, species: species}
}

// Symbols returns the symbols of genes, whose IDs are of the given scope. Genes without a symbol are left out of the
// result. When the service returns several hits for a gene, the last hit with a symbol wins.
func (r *Resolver) Symbols(ctx context.Context, genes []string, scope string) (map[string]string, error) {
	ids := utils.Unique(genes)
	known := map[string]string{}
	if r.cache != nil {
		cached, err := r.cache.Lookup(ctx, scope, r.species, ids)
		if err != nil {
			return nil, err
		}
		known = cached
	}
	missing := []string{}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		hits, err := r.client.QueryMany(ctx, missing, scope, "symbol", r.species)
		if err != nil {
			return nil, err
		}
		fresh := make(map[string]string, len(missing))
		for _, id := range missing {
			fresh[id] = ""
		}
		for _, hit := range hits {
			if !hit.NotFound && hit.Symbol != "" {
				fresh[hit.Query] = hit.Symbol
			}
		}
		if r.cache != nil {
			if err := r.cache.Store(ctx, scope, r.species, fresh); err != nil {
				return nil, err
			}
		}
		for id, symbol := range fresh {
			known[id] = symbol
		}
	}
	log.Info().Int("genes", len(ids)).Int("queried", len(missing)).Msg("Resolved gene symbols")
	symbols := make(map[string]string, len(known))
	for id, symbol := range known {
		if symbol != "" {
			symbols[id] = symbol
		}
	}
	return symbols, nil
}
