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

package results_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bigants/enrichr"
	"bigants/render"
	"bigants/results"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"
)

// testDataset has 4 genes and 6 patients. Gene G1 is constant over the last three patients, gene G3 is constant.
func testDataset() *results.Dataset {
	g := simple.NewUndirectedGraph()
	for i := 0; i < 4; i++ {
		g.AddNode(simple.Node(i))
	}
	g.SetEdge(simple.Edge{F: simple.Node(0), T: simple.Node(1)})
	g.SetEdge(simple.Edge{F: simple.Node(1), T: simple.Node(2)})
	g.SetEdge(simple.Edge{F: simple.Node(2), T: simple.Node(3)})
	return &results.Dataset{
		LabelIDs:    []string{"G0", "G1", "G2", "G3", "P0", "P1", "P2", "P3", "P4", "P5"},
		NofGenes:    4,
		NofPatients: 6,
		GE: mat.NewDense(4, 6, []float64{
			1, 2, 3, 10, 11, 12,
			2, 4, 6, 1, 1, 1,
			3, 2, 1, 5, 6, 7,
			0, 0, 0, 0, 0, 0,
		}),
		G: g,
	}
}

func testSolution() *results.Solution {
	return &results.Solution{
		Nodes:  []int{0, 1, 2},
		Labels: []int{1, 1, 1, 0, 0, 0},
		Scores: results.Scores{Count: 3, Best: []float64{1, 2, 2.5}, Average: []float64{0.5, 1, 1.5}},
	}
}

func smallFigure() render.Config {
	return render.Config{Width: 4 * vg.Inch, Height: 3 * vg.Inch, DPI: 72}
}

func newResults(t *testing.T, opts results.Options) (*results.Results, *results.Dataset) {
	t.Helper()
	ds := testDataset()
	opts.Figure = smallFigure()
	r, err := results.New(context.Background(), ds, testSolution(), opts)
	require.NoError(t, err)
	return r, ds
}

type fakeResolver struct {
	symbols map[string]string
	err     error
	scope   string
}

func (f *fakeResolver) Symbols(_ context.Context, _ []string, scope string) (map[string]string, error) {
	f.scope = scope
	return f.symbols, f.err
}

func TestNew(t *testing.T) {
	r, _ := newResults(t, results.Options{})
	assert.Equal(t, "bigants", r.Name)
	assert.Equal(t, []string{"G0", "G1", "G2"}, r.Genes)
	assert.Equal(t, []string{"P0", "P1", "P2"}, r.Patients1)
	assert.Equal(t, []string{"P3", "P4", "P5"}, r.Patients2)
	assert.Equal(t, []int{4, 5, 6}, r.Pts1)
	assert.Equal(t, []int{7, 8, 9}, r.Pts2)
	assert.Equal(t, r.Genes, r.GeneNames())
	assert.Equal(t, "G1", r.Mapping["G1"])
}

func TestNewConvert(t *testing.T) {
	resolver := &fakeResolver{symbols: map[string]string{"G0": "TP53", "G2": "MDM2"}}
	r, _ := newResults(t, results.Options{Name: "run", Convert: true, OrigID: "entrezgene", Resolver: resolver})
	assert.Equal(t, "entrezgene", resolver.scope)
	assert.Equal(t, []string{"TP53", "G1", "MDM2"}, r.GeneNames())
	assert.Equal(t, "G2", r.RevMapping["MDM2"])
	assert.Equal(t, "G1", r.RevMapping["G1"])
}

func TestNewErrors(t *testing.T) {
	ctx := context.Background()
	ds := testDataset()
	tests := []struct {
		name string
		sol  func() *results.Solution
		opts results.Options
	}{
		{name: "conversion without gene ID type", sol: testSolution, opts: results.Options{Convert: true}},
		{name: "conversion without resolver", sol: testSolution,
			opts: results.Options{Convert: true, OrigID: "entrezgene"}},
		{name: "resolver failure", sol: testSolution, opts: results.Options{Convert: true, OrigID: "entrezgene",
			Resolver: &fakeResolver{err: errors.New("offline")}}},
		{name: "gene out of range", sol: func() *results.Solution {
			sol := testSolution()
			sol.Nodes = []int{0, 4}
			return sol
		}},
		{name: "duplicate gene", sol: func() *results.Solution {
			sol := testSolution()
			sol.Nodes = []int{1, 1}
			return sol
		}},
		{name: "no genes", sol: func() *results.Solution {
			sol := testSolution()
			sol.Nodes = nil
			return sol
		}},
		{name: "missing labels", sol: func() *results.Solution {
			sol := testSolution()
			sol.Labels = sol.Labels[:5]
			return sol
		}},
		{name: "label not binary", sol: func() *results.Solution {
			sol := testSolution()
			sol.Labels[2] = 2
			return sol
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := results.New(ctx, ds, tt.sol(), tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestMeanDifference(t *testing.T) {
	r, ds := newResults(t, results.Options{})
	diff, err := r.MeanDifference(ds)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 2}, diff.Means1)
	assert.Equal(t, []float64{11, 1, 6}, diff.Means2)
	assert.False(t, diff.Cluster1High)
	assert.Equal(t, []float64{9, -3, 4}, diff.Values)
}

func TestCorrelationMaps(t *testing.T) {
	r, ds := newResults(t, results.Options{})
	corr, err := r.CorrelationMaps(ds)
	require.NoError(t, err)
	assert.InDelta(t, 1, corr.Part1.At(0, 1), 1e-12)
	assert.InDelta(t, -1, corr.Part1.At(0, 2), 1e-12)
	assert.InDelta(t, 1, corr.Mean1, 1e-12)
	// G1 is constant in cluster 2
	assert.True(t, math.IsNaN(corr.Part2.At(1, 1)))
	assert.True(t, math.IsNaN(corr.Part2.At(0, 1)))
	assert.InDelta(t, 1, corr.Part2.At(0, 2), 1e-12)
	// an undefined correlation makes the mean undefined
	assert.True(t, math.IsNaN(corr.Mean2))
}

func TestCorrelationMapsSmallCluster(t *testing.T) {
	ds := testDataset()
	sol := testSolution()
	sol.Labels = []int{1, 0, 0, 0, 0, 0}
	r, err := results.New(context.Background(), ds, sol, results.Options{})
	require.NoError(t, err)
	_, err = r.CorrelationMaps(ds)
	assert.Error(t, err)

	sol.Labels = []int{0, 0, 0, 0, 0, 0}
	r, err = results.New(context.Background(), ds, sol, results.Options{})
	require.NoError(t, err)
	_, err = r.MeanDifference(ds)
	assert.Error(t, err)
}

func TestSubnetwork(t *testing.T) {
	resolver := &fakeResolver{symbols: map[string]string{"G0": "TP53"}}
	r, ds := newResults(t, results.Options{Convert: true, OrigID: "entrezgene", Resolver: resolver})
	sub := r.Subnetwork(ds)
	assert.Equal(t, 3, sub.Graph.Nodes().Len())
	assert.Equal(t, 2, sub.Graph.Edges().Len())
	assert.False(t, sub.Graph.HasEdgeBetween(2, 3))
	assert.Equal(t, "TP53", sub.Names[0])
	assert.Equal(t, "G2", sub.Names[2])
}

func TestJaccardIndex(t *testing.T) {
	r, _ := newResults(t, results.Options{})
	j1, j2 := r.JaccardIndex(results.TrueLabels{{"P0", "P1", "P2"}, {"P3", "P4", "P5"}})
	assert.Equal(t, 1.0, j1)
	assert.Equal(t, 1.0, j2)
	j1, j2 = r.JaccardIndex(results.TrueLabels{{"P3", "P4", "P5"}, {"P0", "P1", "P2"}})
	assert.Equal(t, 1.0, j1)
	assert.Equal(t, 1.0, j2)
	j1, j2 = r.JaccardIndex(results.TrueLabels{{"P0", "P1"}, {"P2", "P3", "P4", "P5"}})
	assert.InDelta(t, 2.0/3, j1, 1e-12)
	assert.InDelta(t, 0.75, j2, 1e-12)

	// crossed matching: cluster 1 matches class 2 and cluster 2 matches class 1, reported per cluster
	j1, j2 = r.JaccardIndex(results.TrueLabels{{"P3", "P4", "P5"}, {"P0"}})
	assert.InDelta(t, 1.0/3, j1, 1e-12)
	assert.InDelta(t, 1.0, j2, 1e-12)
}

func TestClustermap(t *testing.T) {
	r, ds := newResults(t, results.Options{})
	data := r.Clustermap(ds, nil)
	rows, cols := data.Matrix.Dims()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"P0", "P1", "P2", "P3", "P4", "P5"}, data.Patients)
	assert.Equal(t, []int{1, 1, 1, 2, 2, 2}, data.Clusters)
	assert.Nil(t, data.Classes)
	assert.Equal(t, 10.0, data.Matrix.At(3, 0))
	assert.Len(t, data.Dendrogram.Merges, 2)

	data = r.Clustermap(ds, &results.TrueLabels{{"P0", "P3"}, {"P1"}})
	assert.Equal(t, []int{1, 2, 0, 1, 0, 0}, data.Classes)
}

func TestFigures(t *testing.T) {
	r, ds := newResults(t, results.Options{})
	dir := t.TempDir()

	require.NoError(t, r.ShowNetworks(ds, filepath.Join(dir, "network.png"), 20))
	corr, err := r.CorMap(ds, filepath.Join(dir, "cormap.svg"))
	require.NoError(t, err)
	assert.NotNil(t, corr)
	_, err = r.ShowClustermap(ds, &results.TrueLabels{{"P0", "P1"}, {"P3"}}, []string{"tumour", "normal"},
		filepath.Join(dir, "clustermap.png"))
	require.NoError(t, err)
	_, err = r.ShowClustermap(ds, nil, nil, filepath.Join(dir, "clustermap-plain.pdf"))
	require.NoError(t, err)
	require.NoError(t, r.ConvergencePlot(r.Scores, filepath.Join(dir, "convergence.png")))

	for _, name := range []string{"network.png", "cormap.svg", "clustermap.png", "clustermap-plain.pdf",
		"convergence.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestFiguresWithoutOutput(t *testing.T) {
	r, ds := newResults(t, results.Options{})
	assert.NoError(t, r.ShowNetworks(ds, "", 0))
	_, err := r.CorMap(ds, "")
	assert.NoError(t, err)
	_, err = r.ShowClustermap(ds, nil, nil, "")
	assert.NoError(t, err)
	assert.NoError(t, r.ConvergencePlot(r.Scores, ""))
	assert.Error(t, r.ConvergencePlot(results.Scores{Best: []float64{1}}, ""))
	assert.NoError(t, r.ConvergencePlot(results.Scores{Best: []float64{1, 2, 3}, Average: []float64{1, 2}}, ""))
	assert.Error(t, r.ShowNetworks(ds, "network.bmp", 0))
}

func TestScoresTrace(t *testing.T) {
	best, average := results.Scores{Count: 3, Best: []float64{1, 2, 3}, Average: []float64{0.5, 1}}.Trace()
	assert.Equal(t, []float64{1, 2}, best)
	assert.Equal(t, []float64{0.5, 1}, average)

	best, average = results.Scores{Best: []float64{1}, Average: []float64{0.5, 1, 1.5}}.Trace()
	assert.Equal(t, []float64{1}, best)
	assert.Equal(t, []float64{0.5}, average)

	best, average = results.Scores{}.Trace()
	assert.Empty(t, best)
	assert.Empty(t, average)
}

func TestConvergencePlotUnequalSeries(t *testing.T) {
	r, _ := newResults(t, results.Options{})
	file := filepath.Join(t.TempDir(), "convergence.png")
	require.NoError(t, r.ConvergencePlot(results.Scores{Count: 3, Best: []float64{1, 2, 2.5}, Average: []float64{0.5, 1}},
		file))
	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestEnrichmentAnalysis(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/datasetStatistics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statistics": [{"libraryName": "KEGG_2019_Human"}]}`))
	})
	mux.HandleFunc("/addList", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "TP53\nG1\nMDM2", r.FormValue("list"))
		w.Write([]byte(`{"userListId": 7, "shortId": "x"}`))
	})
	mux.HandleFunc("/enrich", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"KEGG_2019_Human": [[1, "p53 signaling pathway", 1e-6, 30, 400, ["TP53", "MDM2"], 1e-4, 1e-6, 1e-4]]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	client := enrichr.NewClient(server.URL, 5*time.Second, 1)

	plain, _ := newResults(t, results.Options{OrigID: "entrezgene"})
	_, err := plain.EnrichmentAnalysis(context.Background(), client, "KEGG_2019_Human", "")
	assert.Error(t, err)

	resolver := &fakeResolver{symbols: map[string]string{"G0": "TP53", "G2": "MDM2"}}
	r, _ := newResults(t, results.Options{Convert: true, OrigID: "entrezgene", Resolver: resolver})
	outdir := t.TempDir()
	report, err := r.EnrichmentAnalysis(context.Background(), client, "KEGG_2019_Human", outdir)
	require.NoError(t, err)
	require.Len(t, report.Terms, 1)
	assert.Equal(t, "p53 signaling pathway", report.Terms[0].Term)
	for _, name := range []string{"KEGG_2019_Human.pathway.enrichr.reports.txt", "KEGG_2019_Human.pathway.enrichr.reports.pdf"} {
		_, err := os.Stat(filepath.Join(outdir, name))
		assert.NoError(t, err, name)
	}
}

func TestEnrichmentAnalysisManyTerms(t *testing.T) {
	rows := make([]string, 12)
	for i := range rows {
		rows[i] = fmt.Sprintf(`[%d, "pathway %d", 1e-6, 30, 400, ["TP53"], %g, 1e-6, 1e-4]`, i+1, i, 1e-4*float64(i+1))
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/datasetStatistics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statistics": [{"libraryName": "KEGG_2019_Human"}]}`))
	})
	mux.HandleFunc("/addList", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"userListId": 7, "shortId": "x"}`))
	})
	mux.HandleFunc("/enrich", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"KEGG_2019_Human": [` + strings.Join(rows, ",") + `]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	client := enrichr.NewClient(server.URL, 5*time.Second, 1)

	resolver := &fakeResolver{symbols: map[string]string{"G0": "TP53", "G2": "MDM2"}}
	r, _ := newResults(t, results.Options{Convert: true, OrigID: "entrezgene", Resolver: resolver})
	outdir := t.TempDir()
	report, err := r.EnrichmentAnalysis(context.Background(), client, "KEGG_2019_Human", outdir)
	require.NoError(t, err)
	assert.Len(t, report.Significant(results.EnrichmentCutoff), 12)
	_, err = os.Stat(filepath.Join(outdir, "KEGG_2019_Human.pathway.enrichr.reports.pdf"))
	assert.NoError(t, err)
}

func TestPrintResultsToFile(t *testing.T) {
	r, ds := newResults(t, results.Options{Name: "test"})
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, results.PrintResultsToFile(r, ds, dir))

	patients, err := os.ReadFile(filepath.Join(dir, "test-patients.tab"))
	require.NoError(t, err)
	assert.Equal(t, "patient\tcluster\nP0\t1\nP1\t1\nP2\t1\nP3\t2\nP4\t2\nP5\t2\n", string(patients))

	genes, err := os.ReadFile(filepath.Join(dir, "test-genes.tab"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(genes)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "G0\tG0\t9E+00", lines[1])

	gml, err := os.ReadFile(filepath.Join(dir, "test-subnetwork.gml"))
	require.NoError(t, err)
	assert.Contains(t, string(gml), "label \"G1\"")
	assert.Equal(t, 2, strings.Count(string(gml), "edge ["))
}

func TestPrintResults(t *testing.T) {
	r, _ := newResults(t, results.Options{})
	var buf bytes.Buffer
	results.PrintResults(&buf, r)
	assert.Equal(t, "Genes (3): G0, G1, G2\nCluster 1 (3 patients): P0, P1, P2\nCluster 2 (3 patients): P3, P4, P5\n",
		buf.String())
}

func TestSummary(t *testing.T) {
	r, ds := newResults(t, results.Options{Name: "test"})
	summary, err := r.Summarize(ds, &results.TrueLabels{{"P0", "P1", "P2"}, {"P3", "P4", "P5"}})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Iterations)
	assert.Equal(t, 2.5, summary.BestScore)
	require.NotNil(t, summary.Jaccard)
	assert.Equal(t, [2]float64{1, 1}, *summary.Jaccard)
	assert.InDelta(t, 1, summary.MeanAbsCorrelation[0], 1e-12)
	assert.True(t, math.IsNaN(summary.MeanAbsCorrelation[1]))

	var buf bytes.Buffer
	require.NoError(t, results.WriteSummary(&buf, summary))
	out := buf.String()
	assert.Contains(t, out, "name: test")
	assert.Contains(t, out, "cluster1: 3")
	assert.Contains(t, out, "jaccard:")

	summary, err = r.Summarize(ds, nil)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, results.WriteSummary(&buf, summary))
	assert.NotContains(t, buf.String(), "jaccard:")
}
