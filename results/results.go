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

// Package results analyses the solution of a BiGAnts run: a set of genes from the PPI network and a partition of the
// patients in two clusters, both given as indices into the preprocessed data set. It maps the indices back to gene and
// patient IDs, computes descriptive statistics of the partition, and draws figures.
package results

import (
	"context"
	"errors"
	"fmt"

	"bigants/render"

	"github.com/rs/zerolog/log"
)

// GeneResolver maps gene IDs of a given type (scope), e.g. "entrezgene", onto gene symbols. Genes that cannot be
// resolved are left out of the returned map.
type GeneResolver interface {
	Symbols(ctx context.Context, genes []string, scope string) (map[string]string, error)
}

// Options configures the analysis of a solution.
type Options struct {
	Name     string       // prefix for output files
	Convert  bool         // convert gene IDs to gene symbols
	OrigID   string       // the type of the original gene IDs, e.g. "entrezgene", "ensembl.gene", "symbol"
	Resolver GeneResolver // used when Convert is set
	Figure   render.Config
}

// Results holds a solution mapped back onto gene and patient IDs.
type Results struct {
	Name       string
	LabelIDs   []string
	Nodes      []int    // gene indices
	Genes      []string // gene IDs, in Nodes order
	Patients1  []string // IDs of patients labelled 1
	Patients2  []string // IDs of patients labelled 0
	Pts1       []int    // patient indices of Patients1
	Pts2       []int    // patient indices of Patients2
	Convert    bool
	OrigID     string
	Mapping    map[string]string // gene ID -> gene name
	RevMapping map[string]string // gene name -> gene ID
	Scores     Scores
	Figure     render.Config
}

// New maps a solution onto the IDs of a data set. When opts.Convert is set, gene IDs are converted to gene symbols
// with opts.Resolver; genes without a symbol keep their ID as name.
func New(ctx context.Context, ds *Dataset, sol *Solution, opts Options) (*Results, error) {
	if err := sol.Validate(ds); err != nil {
		return nil, err
	}
	if opts.Convert && opts.OrigID == "" {
		return nil, errors.New("specify the original gene ID or disable conversion")
	}
	name := opts.Name
	if name == "" {
		name = "bigants"
	}
	figure := opts.Figure
	if figure.Width == 0 || figure.Height == 0 {
		figure = render.DefaultConfig()
	}
	r := &Results{
		Name:       name,
		LabelIDs:   ds.LabelIDs,
		Nodes:      append([]int(nil), sol.Nodes...),
		Genes:      make([]string, len(sol.Nodes)),
		Patients1:  []string{},
		Patients2:  []string{},
		Pts1:       []int{},
		Pts2:       []int{},
		Convert:    opts.Convert,
		OrigID:     opts.OrigID,
		Mapping:    map[string]string{},
		RevMapping: map[string]string{},
		Scores:     sol.Scores,
		Figure:     figure,
	}
	for i, node := range sol.Nodes {
		r.Genes[i] = ds.LabelIDs[node]
	}
	for j, label := range sol.Labels {
		patient := ds.PatientIndex(j)
		if label == 1 {
			r.Patients1 = append(r.Patients1, ds.LabelIDs[patient])
			r.Pts1 = append(r.Pts1, patient)
		} else {
			r.Patients2 = append(r.Patients2, ds.LabelIDs[patient])
			r.Pts2 = append(r.Pts2, patient)
		}
	}
	symbols := map[string]string{}
	if opts.Convert {
		if opts.Resolver == nil {
			return nil, errors.New("gene ID conversion requires a gene resolver")
		}
		var err error
		symbols, err = opts.Resolver.Symbols(ctx, r.Genes, opts.OrigID)
		if err != nil {
			return nil, fmt.Errorf("converting gene IDs: %w", err)
		}
	}
	for _, gene := range r.Genes {
		symbol, ok := symbols[gene]
		if !ok {
			if opts.Convert {
				log.Warn().Msgf("%s was not mapped to any gene name", gene)
			}
			symbol = gene
		}
		r.Mapping[gene] = symbol
		r.RevMapping[symbol] = gene
	}
	log.Info().Int("genes", len(r.Genes)).Int("cluster1", len(r.Patients1)).Int("cluster2", len(r.Patients2)).
		Msg("Mapped solution onto gene and patient IDs")
	return r, nil
}

// GeneName returns the name of a gene: its symbol when IDs are converted, its ID otherwise.
func (r *Results) GeneName(gene string) string {
	if name, ok := r.Mapping[gene]; ok {
		return name
	}
	return gene
}

// GeneNames returns the names of the solution genes, in Nodes order.
func (r *Results) GeneNames() []string {
	names := make([]string, len(r.Genes))
	for i, gene := range r.Genes {
		names[i] = r.GeneName(gene)
	}
	return names
}
