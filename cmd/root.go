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
	"bytes"
	"fmt"
	"runtime"

	"bigants/config"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	programVersion = 0.1
	programName    = "bigants"
)

func programMessage() string {
	return fmt.Sprint(programName, " version ", programVersion, " compiled with ", runtime.Version())
}

// runner holds the state shared by the commands of one invocation.
type runner struct {
	cfg         *config.Config
	cfgFile     string
	nrOfThreads int
}

// bind registers a flag and binds it to a configuration key, so that a value given on the command line overrides the
// configuration file.
func (r *runner) bind(flags *pflag.FlagSet, key, name string) {
	if err := r.cfg.Viper().BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

// commandLine echoes the command with the flags that were given explicitly.
func commandLine(cmd *cobra.Command, args []string) string {
	var command bytes.Buffer
	fmt.Fprint(&command, cmd.CommandPath())
	for _, arg := range args {
		fmt.Fprint(&command, " ", arg)
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		fmt.Fprint(&command, " --", f.Name, " ", f.Value.String())
	})
	return command.String()
}

func (r *runner) preRun(cmd *cobra.Command, args []string) error {
	if r.cfgFile != "" {
		if err := r.cfg.LoadFromFile(r.cfgFile); err != nil {
			return fmt.Errorf("reading configuration %s: %w", r.cfgFile, err)
		}
	}
	log.Logger = r.cfg.CreateLogger(cmd.ErrOrStderr())
	if r.nrOfThreads > 0 {
		runtime.GOMAXPROCS(r.nrOfThreads)
	}
	log.Info().Msg(programMessage())
	log.Info().Msgf("Executing command: %s", commandLine(cmd, args))
	return nil
}

// NewRootCmd creates the bigants command with all its subcommands.
func NewRootCmd() *cobra.Command {
	r := &runner{cfg: config.New()}
	root := &cobra.Command{
		Use:   programName,
		Short: "Analyse and visualize BiGAnts bi-clustering results",
		Long: `bigants maps a BiGAnts solution (selected genes and a two-way patient partition) back onto the
gene and patient IDs of its input data, computes descriptive statistics, renders figures and runs
gene-set enrichment analysis.

Analysis commands take the expression file, the network file and the solution file the optimizer
was run on. The preprocessing flags must match the ones of the optimizer run.`,
		Version:           fmt.Sprint(programVersion),
		SilenceUsage:      true,
		PersistentPreRunE: r.preRun,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&r.cfgFile, "config", "", "A YAML, TOML or JSON file with run parameters.")
	flags.IntVar(&r.nrOfThreads, "nrOfThreads", 0, "The number of threads to use, 0 uses all cores.")
	flags.String("logLevel", "info", "The log level: debug, info, warn or error.")
	r.bind(flags, "logging.level", "logLevel")
	flags.String("name", "bigants", "The name of the run. This is used to generate the names of the output files.")
	r.bind(flags, "name", "name")
	flags.String("out", ".", "The directory for output files.")
	r.bind(flags, "output", "out")
	flags.String("format", "png", "The figure format: png, jpg, tiff, svg, eps or pdf.")
	r.bind(flags, "figure.format", "format")
	flags.Int("dpi", 300, "The resolution of raster figures.")
	r.bind(flags, "figure.dpi", "dpi")
	flags.Bool("log2", false, "Transform expression values to log2(x+1).")
	r.bind(flags, "preprocess.log2", "log2")
	flags.Int("size", 0, "Keep only the given number of most variable genes, 0 keeps all.")
	r.bind(flags, "preprocess.size", "size")
	flags.Float64("minVariance", 0, "Remove genes with a lower expression variance.")
	r.bind(flags, "preprocess.min_variance", "minVariance")
	flags.Bool("zscore", false, "Standardize the expression of each gene.")
	r.bind(flags, "preprocess.zscore", "zscore")
	flags.Bool("dropIsolated", false, "Remove genes without interactions.")
	r.bind(flags, "preprocess.drop_isolated", "dropIsolated")
	flags.Bool("convert", false, "Convert gene IDs to gene symbols with MyGene.info.")
	r.bind(flags, "genes.convert", "convert")
	flags.String("origID", "", "The type of the gene IDs, e.g. entrezgene, ensembl.gene or symbol.")
	r.bind(flags, "genes.orig_id", "origID")
	flags.String("species", "human", "The species used for gene ID conversion.")
	r.bind(flags, "genes.species", "species")
	flags.Int("iterations", 50, "The number of spring layout iterations for network figures.")
	r.bind(flags, "figure.layout_iterations", "iterations")
	flags.String("library", "GO_Biological_Process_2018", "The Enrichr gene-set library.")
	r.bind(flags, "enrichment.library", "library")

	root.AddCommand(
		r.networkCmd(),
		r.cormapCmd(),
		r.clustermapCmd(),
		r.jaccardCmd(),
		r.convergenceCmd(),
		r.enrichCmd(),
		r.librariesCmd(),
		r.reportCmd(),
	)
	return root
}

// Execute runs the bigants command.
func Execute() error {
	return NewRootCmd().Execute()
}
