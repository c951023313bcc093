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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const expressionTable = "Geneid\tP0\tP1\tP2\tP3\tP4\tP5\n" +
	"G0\t1\t2\t3\t10\t11\t12\n" +
	"G1\t2\t4\t6\t1\t1.5\t1\n" +
	"G2\t3\t2\t1\t5\t6\t7\n" +
	"G3\t0\t1\t0\t1\t0\t1\n"

const network = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <graph edgedefault="undirected">
    <node id="G0"/>
    <node id="G1"/>
    <node id="G2"/>
    <node id="G3"/>
    <edge source="G0" target="G1"/>
    <edge source="G1" target="G2"/>
    <edge source="G2" target="G3"/>
  </graph>
</graphml>
`

const solution = `{"nodes": [0, 1, 2], "labels": [1, 1, 1, 0, 0, 0],
"scores": {"count": 3, "best": [1, 2, 2.5], "average": [0.5, 1, 1.5]}}`

// inputs writes the files of a small optimizer run and returns the command arguments.
func inputs(t *testing.T) (dir string, args []string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"expr.tsv":      expressionTable,
		"network.xml":   network,
		"solution.json": solution,
		"class1.txt":    "P0\nP1\n\nP2\n",
		"class2.txt":    "P3\nP4\nP5\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir, []string{
		filepath.Join(dir, "expr.tsv"),
		filepath.Join(dir, "network.xml"),
		filepath.Join(dir, "solution.json"),
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNetworkCommand(t *testing.T) {
	dir, args := inputs(t)
	out := filepath.Join(dir, "out")
	_, err := execute(t, append([]string{"network", "--name", "run", "--out", out, "--dpi", "50",
		"--iterations", "10"}, args...)...)
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(out, "run-network.png"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCormapCommand(t *testing.T) {
	dir, args := inputs(t)
	stdout, err := execute(t, append([]string{"cormap", "--out", dir, "--format", "svg"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "MEAN ABSOLUTE CORRELATION")
	_, err = os.Stat(filepath.Join(dir, "bigants-cormap.svg"))
	assert.NoError(t, err)
}

func TestJaccardCommand(t *testing.T) {
	dir, args := inputs(t)
	stdout, err := execute(t, append([]string{"jaccard",
		"--trueLabels1", filepath.Join(dir, "class1.txt"),
		"--trueLabels2", filepath.Join(dir, "class2.txt")}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.0000")

	_, err = execute(t, append([]string{"jaccard"}, args...)...)
	assert.Error(t, err)
	_, err = execute(t, append([]string{"jaccard", "--trueLabels1", filepath.Join(dir, "class1.txt")}, args...)...)
	assert.Error(t, err)
}

// tableRows maps the first cell of every table row to its remaining cells.
func tableRows(out string) map[string][]string {
	rows := map[string][]string{}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "|")
		if len(fields) < 4 {
			continue
		}
		cells := make([]string, 0, len(fields)-2)
		for _, f := range fields[1 : len(fields)-1] {
			cells = append(cells, strings.TrimSpace(f))
		}
		rows[cells[0]] = cells[1:]
	}
	return rows
}

// crossedClasses writes patient classes that match the clusters crosswise: cluster 1 (P0, P1, P2) overlaps class 2
// by a third and cluster 2 (P3, P4, P5) equals class 1.
func crossedClasses(t *testing.T, dir string) (class1, class2 string) {
	t.Helper()
	class1 = filepath.Join(dir, "crossed1.txt")
	class2 = filepath.Join(dir, "crossed2.txt")
	require.NoError(t, os.WriteFile(class1, []byte("P3\nP4\nP5\n"), 0644))
	require.NoError(t, os.WriteFile(class2, []byte("P0\n"), 0644))
	return class1, class2
}

func TestJaccardCommandRowsFollowClusters(t *testing.T) {
	dir, args := inputs(t)
	class1, class2 := crossedClasses(t, dir)
	stdout, err := execute(t, append([]string{"jaccard", "--trueLabels1", class1, "--trueLabels2", class2}, args...)...)
	require.NoError(t, err)
	rows := tableRows(stdout)
	assert.Equal(t, []string{"0.3333"}, rows["1"])
	assert.Equal(t, []string{"1.0000"}, rows["2"])
}

func TestReportJaccardColumnsFollowClusters(t *testing.T) {
	dir, args := inputs(t)
	class1, class2 := crossedClasses(t, dir)
	out := filepath.Join(dir, "report")
	stdout, err := execute(t, append([]string{"report", "--name", "run", "--out", out, "--dpi", "50",
		"--trueLabels1", class1, "--trueLabels2", class2}, args...)...)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.3333", "1.0000"}, tableRows(stdout)["Jaccard index"])

	data, err := os.ReadFile(filepath.Join(out, "run-summary.yaml"))
	require.NoError(t, err)
	var summary struct {
		Jaccard []float64 `yaml:"jaccard"`
	}
	require.NoError(t, yaml.Unmarshal(data, &summary))
	require.Len(t, summary.Jaccard, 2)
	assert.InDelta(t, 1.0/3, summary.Jaccard[0], 1e-12)
	assert.InDelta(t, 1.0, summary.Jaccard[1], 1e-12)
}

func TestCommandErrors(t *testing.T) {
	dir, args := inputs(t)
	_, err := execute(t, "network", args[0])
	assert.Error(t, err)
	_, err = execute(t, "network", args[0], args[1], filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	_, err = execute(t, append([]string{"network", "--config", filepath.Join(dir, "missing.yaml")}, args...)...)
	assert.Error(t, err)
	// conversion needs the type of the gene IDs
	_, err = execute(t, append([]string{"cormap", "--convert"}, args...)...)
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir, args := inputs(t)
	out := filepath.Join(dir, "figures")
	config := filepath.Join(dir, "bigants.yaml")
	require.NoError(t, os.WriteFile(config, []byte("name: fromfile\noutput: "+out+"\nfigure:\n  format: pdf\n"),
		0644))
	stdout, err := execute(t, append([]string{"convergence", "--config", config}, args...)...)
	require.NoError(t, err)
	assert.Equal(t, "3 iterations\n", stdout)
	_, err = os.Stat(filepath.Join(out, "fromfile-convergence.pdf"))
	assert.NoError(t, err)
}

func TestReportCommand(t *testing.T) {
	dir, args := inputs(t)
	out := filepath.Join(dir, "report")
	stdout, err := execute(t, append([]string{"report", "--name", "run", "--out", out, "--dpi", "50",
		"--trueLabels1", filepath.Join(dir, "class1.txt"),
		"--trueLabels2", filepath.Join(dir, "class2.txt"),
		"--classNames", "tumour,normal"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Jaccard index")
	assert.Contains(t, stdout, "Genes (3): G0, G1, G2")

	for _, name := range []string{"run-network.png", "run-cormap.png", "run-clustermap.png",
		"run-convergence.png", "run-genes.tab", "run-patients.tab", "run-subnetwork.gml", "run-summary.yaml"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(out, "run-summary.yaml"))
	require.NoError(t, err)
	var summary map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &summary))
	assert.Equal(t, "run", summary["name"])
	assert.Equal(t, 3, summary["cluster1"])
	assert.Equal(t, 3, summary["iterations"])
}

func enrichrServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/datasetStatistics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statistics": [{"libraryName": "KEGG_2019_Human"}, {"libraryName": "WikiPathways_2019_Human"}]}`))
	})
	mux.HandleFunc("/addList", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"userListId": 3, "shortId": "abc"}`))
	})
	mux.HandleFunc("/enrich", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"KEGG_2019_Human": [[1, "p53 signaling pathway", 1e-6, 30, 400, ["TP53", "MDM2"], 1e-4, 1e-6, 1e-4],
[2, "Cell cycle", 0.2, 2, 3, ["CDK2"], 0.3, 0.2, 0.3]]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLibrariesCommand(t *testing.T) {
	t.Setenv("BIGANTS_ENRICHR_URL", enrichrServer(t).URL)
	stdout, err := execute(t, "libraries")
	require.NoError(t, err)
	assert.Equal(t, "KEGG_2019_Human\nWikiPathways_2019_Human\n", stdout)
}

func TestEnrichCommand(t *testing.T) {
	t.Setenv("BIGANTS_ENRICHR_URL", enrichrServer(t).URL)
	dir := t.TempDir()
	genes := filepath.Join(dir, "genes.txt")
	require.NoError(t, os.WriteFile(genes, []byte("TP53\nMDM2\nCDK2\n"), 0644))

	stdout, err := execute(t, "enrich", "--genes", genes, "--library", "KEGG_2019_Human", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "p53 signaling pathway")
	assert.NotContains(t, stdout, "Cell cycle")
	_, err = os.Stat(filepath.Join(dir, "KEGG_2019_Human.pathway.enrichr.reports.txt"))
	assert.NoError(t, err)

	_, err = execute(t, "enrich", "--genes", genes, "extra")
	assert.Error(t, err)

	// solution genes are IDs, not symbols
	_, args := inputs(t)
	_, err = execute(t, append([]string{"enrich", "--library", "KEGG_2019_Human", "--out", dir}, args...)...)
	assert.Error(t, err)
	stdout, err = execute(t, append([]string{"enrich", "--library", "KEGG_2019_Human", "--out", dir,
		"--origID", "symbol"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "p53 signaling pathway")
}

func TestCommandLine(t *testing.T) {
	root := NewRootCmd()
	network, _, err := root.Find([]string{"network"})
	require.NoError(t, err)
	require.NoError(t, network.ParseFlags([]string{"--name", "run", "--dpi", "72"}))
	assert.Equal(t, "bigants network a b c --dpi 72 --name run", commandLine(network, []string{"a", "b", "c"}))
}
