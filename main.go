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

package main

import (
	"os"

	"bigants/cmd"
)

/*
Bigants is a tool for analysing the results of BiGAnts, a bi-clustering optimizer that selects a connected set of genes
in a protein-protein interaction network and splits the patients into two groups with different expression of these
genes.

Usage:
	bigants command exprFile networkFile solutionFile [flags]

Example:
	bigants report expr.tsv network.graphml solution.json --name BRCA --out ./BRCA/ --size 2000 --zscore
	--convert --origID entrezgene --trueLabels1 luminal.txt --trueLabels2 basal.txt --classNames luminal,basal
	--enrich --library KEGG_2019_Human

The commands are:

network
	Draws the subnetwork of the selected genes. Each gene is coloured by the difference in its mean expression between
	the two patient clusters.
cormap
	Draws the gene-gene correlation matrices of both patient clusters side by side and prints their mean absolute
	correlation.
clustermap
	Draws the expression of the selected genes for all patients, genes ordered by average-linkage clustering, with a
	strip showing the patient clusters and, with --trueLabels1 and --trueLabels2, a strip showing known classes.
jaccard
	Prints the Jaccard index of each patient cluster with its best matching known class.
convergence
	Draws the best and average score of the optimizer per iteration.
enrich
	Submits the selected gene symbols to Enrichr and writes the enrichment report and a bar chart of the significant
	terms. With --genes file, a list of gene symbols is submitted instead.
libraries
	Lists the gene-set libraries of Enrichr.
report
	Runs all of the above, writes the genes, patients and subnetwork of the solution to file, and writes a summary.

The flags are:

--config file
	A YAML, TOML or JSON file with run parameters. Flags given on the command line override the file.
--name string
	Sets the name of the run. This name is used to generate the names of the output files.
--out path
	Sets the directory for output files.
--format png | jpg | tiff | svg | eps | pdf
	Sets the figure format.
--dpi nr
	Sets the resolution of raster figures.
--log2, --size nr, --minVariance nr, --zscore, --dropIsolated
	Preprocessing of the expression data. These must match the preprocessing of the optimizer run, otherwise the gene
	indices of the solution refer to the wrong genes.
--convert, --origID entrezgene | ensembl.gene | symbol | ..., --species string
	Convert gene IDs to gene symbols with MyGene.info. Resolved symbols are cached in the SQLite file given by the
	BIGANTS_CACHE_PATH environment variable.
--iterations nr
	Sets the number of spring layout iterations for network figures.
--library string
	Sets the Enrichr gene-set library, e.g. GO_Biological_Process_2018 or KEGG_2019_Human.
--nrOfThreads nr
	Sets the number of threads to use.

The environment variables BIGANTS_MYGENE_URL, BIGANTS_ENRICHR_URL, BIGANTS_HTTP_TIMEOUT and BIGANTS_HTTP_RETRIES
configure the web services.
*/

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
