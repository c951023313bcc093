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
	"fmt"
	"image/color"
	"math"
	"strconv"

	"bigants/cluster"
	"bigants/render"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// Colours of the clustermap row strips.
var (
	Cluster1Color = color.RGBA{R: 0x4f, G: 0xb6, B: 0xd3, A: 0xff}
	Cluster2Color = color.RGBA{R: 0x22, G: 0x86, B: 0x3e, A: 0xff}
	Class1Color   = color.RGBA{R: 0xf3, G: 0xff, B: 0x33, A: 0xff}
	Class2Color   = color.RGBA{R: 0xbf, G: 0x00, B: 0xbf, A: 0xff}
)

// round2 formats a value rounded to two decimals.
func round2(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

// ShowNetworks draws the subnetwork of the solution genes, with each gene coloured by its difference in mean expression
// between the patient clusters. The figure is written to output, unless output is empty.
func (r *Results) ShowNetworks(ds *Dataset, output string, iterations int) error {
	sub := r.Subnetwork(ds)
	diff, err := r.MeanDifference(ds)
	if err != nil {
		return err
	}
	if output == "" {
		log.Info().Msg("No output file given for the network figure")
		return nil
	}
	values := make(map[int64]float64, len(r.Nodes))
	for i, node := range r.Nodes {
		values[int64(node)] = diff.Values[i]
	}
	log.Info().Int("genes", len(r.Nodes)).Int("interactions", sub.Graph.Edges().Len()).
		Msgf("Rendering network to %s", output)
	return render.Network(output, r.Figure, render.NetworkFigure{
		Graph:      sub.Graph,
		Labels:     sub.Names,
		Values:     values,
		Iterations: iterations,
	})
}

// CorMap draws the gene-gene correlation matrices of both patient clusters side by side. The figure is written to
// output, unless output is empty.
func (r *Results) CorMap(ds *Dataset, output string) (*Correlations, error) {
	corr, err := r.CorrelationMaps(ds)
	if err != nil {
		return nil, err
	}
	if output == "" {
		log.Info().Msg("No output file given for the correlation maps")
		return corr, nil
	}
	names := r.GeneNames()
	log.Info().Msgf("Rendering correlation maps to %s", output)
	err = render.CorrelationHeatmaps(output, r.Figure, []render.Panel{
		{Title: "Partition 1 mean absolute correlation " + round2(corr.Mean1), Matrix: corr.Part1, Labels: names},
		{Title: "Partition 2 mean absolute correlation " + round2(corr.Mean2), Matrix: corr.Part2, Labels: names},
	})
	return corr, err
}

// ClustermapData is the patients x genes expression matrix of a solution, with the patient annotations drawn next to
// it.
type ClustermapData struct {
	Matrix     *mat.Dense // patients of cluster 1, then cluster 2, x solution genes
	Patients   []string
	Genes      []string // gene names
	Dendrogram *cluster.Dendrogram
	Clusters   []int // 1 or 2 per patient
	Classes    []int // 1 or 2 per patient when true labels are known, 0 for patients in neither class
}

// Clustermap prepares the clustermap data. Genes are clustered with average linkage on euclidean distances; patients
// are not clustered. trueLabels may be nil.
func (r *Results) Clustermap(ds *Dataset, trueLabels *TrueLabels) *ClustermapData {
	pts := append(append([]int{}, r.Pts1...), r.Pts2...)
	data := &ClustermapData{
		Matrix:   r.partitionMatrix(ds, pts),
		Patients: make([]string, len(pts)),
		Genes:    r.GeneNames(),
		Clusters: make([]int, len(pts)),
	}
	data.Dendrogram = cluster.AverageLinkage(data.Matrix)
	var class1, class2 map[string]bool
	if trueLabels != nil {
		data.Classes = make([]int, len(pts))
		class1 = map[string]bool{}
		class2 = map[string]bool{}
		for _, id := range trueLabels[0] {
			class1[id] = true
		}
		for _, id := range trueLabels[1] {
			class2[id] = true
		}
	}
	for i, patient := range pts {
		id := r.LabelIDs[patient]
		data.Patients[i] = id
		if i < len(r.Pts1) {
			data.Clusters[i] = 1
		} else {
			data.Clusters[i] = 2
		}
		if data.Classes != nil {
			switch {
			case class1[id]:
				data.Classes[i] = 1
			case class2[id]:
				data.Classes[i] = 2
			}
		}
	}
	return data
}

// ShowClustermap draws the clustermap of a solution: patient expression of the solution genes, genes ordered by a
// dendrogram, with a strip showing the patient clusters and, when trueLabels is given, a strip showing the known
// classes. classNames names the known classes when it holds exactly two names. The figure is written to output,
// unless output is empty.
func (r *Results) ShowClustermap(ds *Dataset, trueLabels *TrueLabels, classNames []string,
	output string) (*ClustermapData, error) {
	data := r.Clustermap(ds, trueLabels)
	if output == "" {
		log.Info().Msg("No output file given for the clustermap")
		return data, nil
	}
	clusters := render.Strip{Name: "clusters", Colors: make([]color.Color, len(data.Clusters))}
	for i, c := range data.Clusters {
		if c == 1 {
			clusters.Colors[i] = Cluster1Color
		} else {
			clusters.Colors[i] = Cluster2Color
		}
	}
	fig := render.ClustermapFigure{
		Matrix:     data.Matrix,
		Columns:    data.Genes,
		Dendrogram: data.Dendrogram,
		Strips:     []render.Strip{clusters},
		XLabel:     "Genes",
		YLabel:     "Patients",
		Ticks:      []float64{-5, 0, 5},
		Palette:    "Spectral",
	}
	if data.Classes != nil {
		classes := render.Strip{Name: "true", Colors: make([]color.Color, len(data.Classes))}
		for i, c := range data.Classes {
			switch c {
			case 1:
				classes.Colors[i] = Class1Color
			case 2:
				classes.Colors[i] = Class2Color
			}
		}
		fig.Strips = append(fig.Strips, classes)
		names := []string{"true class1", "true class2"}
		if len(classNames) == 2 {
			names = classNames
		}
		fig.Legend = append(fig.Legend,
			render.LegendEntry{Label: names[0], Color: Class1Color},
			render.LegendEntry{Label: names[1], Color: Class2Color})
	}
	fig.Legend = append(fig.Legend,
		render.LegendEntry{Label: "cluster1", Color: Cluster1Color},
		render.LegendEntry{Label: "cluster2", Color: Cluster2Color})
	log.Info().Msgf("Rendering clustermap to %s", output)
	return data, render.Clustermap(output, r.Figure, fig)
}

// ConvergencePlot draws the best and average score per iteration of the optimizer run. When the two series differ in
// length, only the iterations present in both are drawn. The figure is written to output, unless output is empty.
func (r *Results) ConvergencePlot(scores Scores, output string) error {
	best, average := scores.Trace()
	if len(best) == 0 {
		return fmt.Errorf("no iterations with both a best and an average score")
	}
	if len(best) != len(scores.Best) || len(average) != len(scores.Average) {
		log.Warn().Int("best", len(scores.Best)).Int("average", len(scores.Average)).
			Msgf("Convergence plot truncated to %d iterations", len(best))
	}
	if output == "" {
		log.Info().Msg("No output file given for the convergence plot")
		return nil
	}
	log.Info().Int("iterations", len(best)).Msgf("Rendering convergence plot to %s", output)
	return render.Convergence(output, r.Figure, best, average)
}
