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

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bigants/app"
	"bigants/config"
	"bigants/enrichr"
	"bigants/results"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func printTerms(w io.Writer, terms []enrichr.Term) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Term", "Adjusted P-value", "Combined score", "Genes"})
	for _, term := range terms {
		table.Append([]string{
			term.Term,
			strconv.FormatFloat(term.AdjustedPValue, 'g', 4, 64),
			strconv.FormatFloat(term.CombinedScore, 'f', 2, 64),
			strings.Join(term.Genes, ";"),
		})
	}
	table.Render()
}

func (r *runner) enrichCmd() *cobra.Command {
	var genesFile string
	cmd := &cobra.Command{
		Use:   "enrich [" + inputArgs + "]",
		Short: "Run Enrichr gene-set enrichment analysis on the solution genes",
		Long: `enrich submits the solution genes to Enrichr and writes the report and a bar chart of the
significant terms to the output directory. With --genes, a list of gene symbols is submitted instead
and no solution inputs are needed.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if genesFile != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := config.LoadServices()
			if err != nil {
				return err
			}
			client := services.Enrichr()
			library := r.cfg.Library()
			if genesFile != "" {
				genes, err := app.ParseIDList(genesFile)
				if err != nil {
					return err
				}
				report, err := enrichr.Run(cmd.Context(), client, genes, library, results.EnrichmentDescription,
					r.cfg.Output())
				if err != nil {
					return err
				}
				printTerms(cmd.OutOrStdout(), report.Significant(results.EnrichmentCutoff))
				return nil
			}
			return r.run(cmd, args, func(ctx context.Context, a *analysis) error {
				report, err := a.res.EnrichmentAnalysis(ctx, client, library, r.cfg.Output())
				if err != nil {
					return err
				}
				printTerms(cmd.OutOrStdout(), report.Significant(results.EnrichmentCutoff))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&genesFile, "genes", "", "A file with one gene symbol per line.")
	return cmd
}

func (r *runner) librariesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "List the Enrichr gene-set libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := config.LoadServices()
			if err != nil {
				return err
			}
			libraries, err := services.Enrichr().Libraries(cmd.Context())
			if err != nil {
				return err
			}
			for _, library := range libraries {
				fmt.Fprintln(cmd.OutOrStdout(), library)
			}
			return nil
		},
	}
}
