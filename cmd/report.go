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
	"os"
	"path/filepath"
	"strings"

	"bigants/config"
	"bigants/results"
	"bigants/utils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func printSummary(w io.Writer, summary *results.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"", "Cluster 1", "Cluster 2"})
	table.Append([]string{"Patients", fmt.Sprint(summary.Cluster1), fmt.Sprint(summary.Cluster2)})
	table.Append([]string{"Mean absolute correlation", formatScore(summary.MeanAbsCorrelation[0]),
		formatScore(summary.MeanAbsCorrelation[1])})
	if summary.Jaccard != nil {
		table.Append([]string{"Jaccard index", formatScore(summary.Jaccard[0]), formatScore(summary.Jaccard[1])})
	}
	high := "Cluster 2"
	if summary.Cluster1High {
		high = "Cluster 1"
	}
	table.SetFooter([]string{"Higher expression", high, ""})
	table.Render()
	fmt.Fprintf(w, "Genes (%d): %s\n", len(summary.Genes), strings.Join(summary.Genes, ", "))
}

func writeSummaryFile(name string, summary *results.Summary) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if e := file.Close(); err == nil {
			err = e
		}
	}()
	return results.WriteSummary(file, summary)
}

func (r *runner) reportCmd() *cobra.Command {
	var labels labelFlags
	var classNames string
	var enrich bool
	cmd := &cobra.Command{
		Use:   "report " + inputArgs,
		Short: "Write all figures, result tables and a summary of a solution",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			trueLabels, err := labels.parse()
			if err != nil {
				return err
			}
			return r.run(cmd, args, func(ctx context.Context, a *analysis) error {
				g, ctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					return a.res.ShowNetworks(a.ds, r.output("network"), r.cfg.LayoutIterations())
				})
				g.Go(func() error {
					_, err := a.res.CorMap(a.ds, r.output("cormap"))
					return err
				})
				g.Go(func() error {
					_, err := a.res.ShowClustermap(a.ds, trueLabels, utils.SplitList(classNames), r.output("clustermap"))
					return err
				})
				g.Go(func() error {
					return a.res.ConvergencePlot(a.res.Scores, r.output("convergence"))
				})
				g.Go(func() error {
					return results.PrintResultsToFile(a.res, a.ds, r.cfg.Output())
				})
				if enrich {
					g.Go(func() error {
						services, err := config.LoadServices()
						if err != nil {
							return err
						}
						_, err = a.res.EnrichmentAnalysis(ctx, services.Enrichr(), r.cfg.Library(), r.cfg.Output())
						return err
					})
				}
				if err := g.Wait(); err != nil {
					return err
				}
				summary, err := a.res.Summarize(a.ds, trueLabels)
				if err != nil {
					return err
				}
				name := filepath.Join(r.cfg.Output(), r.cfg.Name()+"-summary.yaml")
				if err := writeSummaryFile(name, summary); err != nil {
					return err
				}
				log.Info().Msgf("Wrote summary to %s", name)
				printSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
	labels.register(cmd)
	cmd.Flags().StringVar(&classNames, "classNames", "", "Comma separated names of the two known classes.")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "Also run Enrichr enrichment analysis.")
	return cmd
}
