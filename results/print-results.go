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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Printing of results

// PrintResults prints the solution genes and the patient clusters in a human-readable format.
func PrintResults(w io.Writer, r *Results) {
	fmt.Fprintf(w, "Genes (%d): %s\n", len(r.Genes), strings.Join(r.GeneNames(), ", "))
	fmt.Fprintf(w, "Cluster 1 (%d patients): %s\n", len(r.Patients1), strings.Join(r.Patients1, ", "))
	fmt.Fprintf(w, "Cluster 2 (%d patients): %s\n", len(r.Patients2), strings.Join(r.Patients2, ", "))
}

// createFile creates a file and passes a buffered writer for it to print.
func createFile(name string, print func(w *bufio.Writer)) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if e := file.Close(); err == nil {
			err = e
		}
	}()
	w := bufio.NewWriter(file)
	print(w)
	return w.Flush()
}

// printGenesToTabFile prints one line per solution gene: gene ID tab gene name tab difference in mean expression.
func printGenesToTabFile(r *Results, diff *Difference, name string) error {
	return createFile(name, func(w *bufio.Writer) {
		fmt.Fprintf(w, "gene\tname\tmean_difference\n")
		for i, gene := range r.Genes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", gene, r.GeneName(gene), strconv.FormatFloat(diff.Values[i], 'E', -1, 64))
		}
	})
}

// printPatientsToTabFile prints one line per patient: patient ID tab cluster.
func printPatientsToTabFile(r *Results, name string) error {
	return createFile(name, func(w *bufio.Writer) {
		fmt.Fprintf(w, "patient\tcluster\n")
		for _, patient := range r.Patients1 {
			fmt.Fprintf(w, "%s\t1\n", patient)
		}
		for _, patient := range r.Patients2 {
			fmt.Fprintf(w, "%s\t2\n", patient)
		}
	})
}

// printSubnetworkToGraphFile prints the solution subnetwork to a GML file. Nodes are labelled with gene names and carry
// the difference in mean expression as a value.
func printSubnetworkToGraphFile(r *Results, ds *Dataset, diff *Difference, name string) error {
	sub := r.Subnetwork(ds)
	return createFile(name, func(w *bufio.Writer) {
		fmt.Fprintf(w, "graph [\n directed 0\n")
		for i, node := range r.Nodes {
			fmt.Fprintf(w, "node [ id %d\nlabel %s\nvalue %s\n]\n", node, strconv.Quote(sub.Names[int64(node)]),
				strconv.FormatFloat(diff.Values[i], 'E', -1, 64))
		}
		edges := sub.Graph.Edges()
		for edges.Next() {
			edge := edges.Edge()
			fmt.Fprintf(w, "edge [\nsource %d\ntarget %d\n]\n", edge.From().ID(), edge.To().ID())
		}
		fmt.Fprintf(w, "]\n")
	})
}

// PrintResultsToFile prints the results to files in the directory at path: <name>-genes.tab lists the solution genes
// with their difference in mean expression, <name>-patients.tab lists the patient clusters, and <name>-subnetwork.gml
// holds the solution subnetwork.
func PrintResultsToFile(r *Results, ds *Dataset, path string) error {
	diff, err := r.MeanDifference(ds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	base := filepath.Join(path, r.Name)
	if err := printGenesToTabFile(r, diff, base+"-genes.tab"); err != nil {
		return err
	}
	if err := printPatientsToTabFile(r, base+"-patients.tab"); err != nil {
		return err
	}
	if err := printSubnetworkToGraphFile(r, ds, diff, base+"-subnetwork.gml"); err != nil {
		return err
	}
	log.Info().Msgf("Printed results to %s-*", base)
	return nil
}

// Summary collects the main figures of an analysis.
type Summary struct {
	Name               string      `yaml:"name"`
	Genes              []string    `yaml:"genes"`
	Cluster1           int         `yaml:"cluster1"`
	Cluster2           int         `yaml:"cluster2"`
	Cluster1High       bool        `yaml:"cluster1_high_expression"`
	MeanAbsCorrelation [2]float64  `yaml:"mean_abs_correlation"`
	Jaccard            *[2]float64 `yaml:"jaccard,omitempty"`
	Iterations         int         `yaml:"iterations"`
	BestScore          float64     `yaml:"best_score"`
}

// Summarize computes the summary of the results. trueLabels may be nil.
func (r *Results) Summarize(ds *Dataset, trueLabels *TrueLabels) (*Summary, error) {
	diff, err := r.MeanDifference(ds)
	if err != nil {
		return nil, err
	}
	corr, err := r.CorrelationMaps(ds)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		Name:               r.Name,
		Genes:              r.GeneNames(),
		Cluster1:           len(r.Patients1),
		Cluster2:           len(r.Patients2),
		Cluster1High:       diff.Cluster1High,
		MeanAbsCorrelation: [2]float64{corr.Mean1, corr.Mean2},
		Iterations:         r.Scores.Count,
	}
	if n := len(r.Scores.Best); n > 0 {
		summary.BestScore = r.Scores.Best[n-1]
	}
	if trueLabels != nil {
		j1, j2 := r.JaccardIndex(*trueLabels)
		summary.Jaccard = &[2]float64{j1, j2}
	}
	return summary, nil
}

// WriteSummary writes a summary as YAML to w.
func WriteSummary(w io.Writer, summary *Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return err
	}
	return enc.Close()
}
