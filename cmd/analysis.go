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
	"errors"
	"fmt"
	"io"
	"strconv"

	"bigants/results"
	"bigants/utils"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func (r *runner) networkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "network " + inputArgs,
		Short: "Draw the solution subnetwork coloured by mean expression difference",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(_ context.Context, a *analysis) error {
				return a.res.ShowNetworks(a.ds, r.output("network"), r.cfg.LayoutIterations())
			})
		},
	}
}

func printCorrelations(w io.Writer, corr *results.Correlations) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Cluster", "Mean absolute correlation"})
	table.Append([]string{"1", formatScore(corr.Mean1)})
	table.Append([]string{"2", formatScore(corr.Mean2)})
	table.Render()
}

func (r *runner) cormapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cormap " + inputArgs,
		Short: "Draw the gene-gene correlation heatmaps of both patient clusters",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(_ context.Context, a *analysis) error {
				corr, err := a.res.CorMap(a.ds, r.output("cormap"))
				if err != nil {
					return err
				}
				printCorrelations(cmd.OutOrStdout(), corr)
				return nil
			})
		},
	}
}

func (r *runner) clustermapCmd() *cobra.Command {
	var labels labelFlags
	var classNames string
	cmd := &cobra.Command{
		Use:   "clustermap " + inputArgs,
		Short: "Draw the patient expression of the solution genes with cluster and class strips",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			trueLabels, err := labels.parse()
			if err != nil {
				return err
			}
			return r.run(cmd, args, func(_ context.Context, a *analysis) error {
				_, err := a.res.ShowClustermap(a.ds, trueLabels, utils.SplitList(classNames), r.output("clustermap"))
				return err
			})
		},
	}
	labels.register(cmd)
	cmd.Flags().StringVar(&classNames, "classNames", "", "Comma separated names of the two known classes.")
	return cmd
}

func printJaccard(w io.Writer, j1, j2 float64) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Cluster", "Jaccard index"})
	table.Append([]string{"1", formatScore(j1)})
	table.Append([]string{"2", formatScore(j2)})
	table.Render()
}

func (r *runner) jaccardCmd() *cobra.Command {
	var labels labelFlags
	cmd := &cobra.Command{
		Use:   "jaccard " + inputArgs,
		Short: "Compare the patient clusters with known classes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			trueLabels, err := labels.parse()
			if err != nil {
				return err
			}
			if trueLabels == nil {
				return errors.New("jaccard requires --trueLabels1 and --trueLabels2")
			}
			return r.run(cmd, args, func(_ context.Context, a *analysis) error {
				j1, j2 := a.res.JaccardIndex(*trueLabels)
				printJaccard(cmd.OutOrStdout(), j1, j2)
				return nil
			})
		},
	}
	labels.register(cmd)
	return cmd
}

func (r *runner) convergenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convergence " + inputArgs,
		Short: "Draw the best and average optimizer score per iteration",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args, func(_ context.Context, a *analysis) error {
				if err := a.res.ConvergencePlot(a.res.Scores, r.output("convergence")); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d iterations\n", a.res.Scores.Count)
				return nil
			})
		},
	}
}
