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

package enrichr

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Report holds the enrichment results of one gene list against one library.
type Report struct {
	Library     string
	Description string
	Genes       []string
	Terms       []Term
}

// ReportName returns the base name of the report files for a library and description.
func ReportName(library, description string) string {
	return fmt.Sprintf("%s.%s.enrichr.reports", library, description)
}

// Run uploads genes, tests them against library and, when outdir is not empty, writes the report to outdir.
func Run(ctx context.Context, c *Client, genes []string, library, description, outdir string) (*Report, error) {
	list, err := c.AddList(ctx, genes, description)
	if err != nil {
		return nil, err
	}
	terms, err := c.Enrich(ctx, list.UserListID, library)
	if err != nil {
		return nil, err
	}
	report := &Report{Library: library, Description: description, Genes: genes, Terms: terms}
	log.Info().Str("library", library).Int("terms", len(terms)).Msg("Enrichment analysis done")
	if outdir != "" {
		if _, err := report.WriteReport(outdir); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Significant returns the terms with an adjusted p-value below cutoff, most significant first.
func (r *Report) Significant(cutoff float64) []Term {
	terms := []Term{}
	for _, term := range r.Terms {
		if term.AdjustedPValue < cutoff {
			terms = append(terms, term)
		}
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].AdjustedPValue < terms[j].AdjustedPValue
	})
	return terms
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteReport writes the report as a tab-separated file into outdir, creating outdir if needed. The header is:
// Gene_set, Term, P-value, Adjusted P-value, Old P-value, Old Adjusted P-value, Odds Ratio, Combined Score, Genes.
// Overlapping genes are separated by semicolons. It returns the name of the written file.
func (r *Report) WriteReport(outdir string) (string, error) {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", err
	}
	name := filepath.Join(outdir, ReportName(r.Library, r.Description)+".txt")
	file, err := os.Create(name)
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "Gene_set\tTerm\tP-value\tAdjusted P-value\tOld P-value\tOld Adjusted P-value\tOdds Ratio\tCombined Score\tGenes")
	for _, term := range r.Terms {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Library, term.Term, formatFloat(term.PValue),
			formatFloat(term.AdjustedPValue), formatFloat(term.OldPValue), formatFloat(term.OldAdjustedPValue),
			formatFloat(term.OddsRatio), formatFloat(term.CombinedScore), strings.Join(term.Genes, ";"))
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	log.Info().Msgf("Wrote enrichment report to %s", name)
	return name, nil
}
