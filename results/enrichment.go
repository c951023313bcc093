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

package results

import (
	"context"
	"errors"
	"math"
	"path/filepath"

	"bigants/enrichr"
	"bigants/render"
	"bigants/utils"

	"github.com/rs/zerolog/log"
)

const (
	// EnrichmentDescription labels the gene lists submitted for enrichment analysis.
	EnrichmentDescription = "pathway"
	// EnrichmentCutoff is the adjusted p-value below which enriched terms are drawn.
	EnrichmentCutoff = 0.05
	// maxBars is the largest number of terms drawn in the enrichment bar chart.
	maxBars = 10
)

// EnrichmentAnalysis tests the solution genes for enrichment in an Enrichr gene-set library, e.g.
// "GO_Biological_Process_2018" or "KEGG_2019_Human". The report and a bar chart of the significant terms are written
// to outdir, unless outdir is empty. Enrichr only accepts gene symbols, so gene IDs must either be converted or already
// be symbols.
func (r *Results) EnrichmentAnalysis(ctx context.Context, client *enrichr.Client, library,
	outdir string) (*enrichr.Report, error) {
	if !r.Convert && r.OrigID != "symbol" {
		return nil, errors.New("Enrichr accepts only gene names as input: enable conversion and give the original gene ID")
	}
	if libraries, err := client.Libraries(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not list the Enrichr libraries")
	} else if !utils.MemberString(library, libraries) {
		log.Warn().Msgf("Library %s is not listed by Enrichr", library)
	}
	report, err := enrichr.Run(ctx, client, r.GeneNames(), library, EnrichmentDescription, outdir)
	if err != nil {
		return nil, err
	}
	significant := report.Significant(EnrichmentCutoff)
	if outdir == "" || len(significant) == 0 {
		log.Info().Int("significant", len(significant)).Msg("No enrichment bar chart drawn")
		return report, nil
	}
	bars := make([]render.Bar, 0, maxBars)
	for _, term := range significant[:min(maxBars, len(significant))] {
		p := math.Max(term.AdjustedPValue, math.SmallestNonzeroFloat64)
		bars = append(bars, render.Bar{Label: term.Term, Value: -math.Log10(p)})
	}
	output := filepath.Join(outdir, enrichr.ReportName(library, EnrichmentDescription)+".pdf")
	log.Info().Msgf("Rendering enrichment bar chart to %s", output)
	if err := render.EnrichmentBars(output, r.Figure, library, "-log10(Adjusted P-value)", bars); err != nil {
		return nil, err
	}
	return report, nil
}
