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

package app

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bigants/results"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

//Package app parses the inputs of a BiGAnts run.
//A BiGAnts run has 3 data inputs:
//A gene expression file: a tab-separated table with one row per gene and one column per patient.
//A protein-protein interaction network, as a GraphML file or as a tab-separated edge list.
//A solution file written after running the optimizer: the selected genes, the patient labels, and the scores.
//Optionally, two files with patient IDs of known patient classes are used to evaluate the patient partition.

// Expression contains a gene expression table as parsed from file.
type Expression struct {
	Genes    []string   //gene IDs, one per row
	Patients []string   //patient IDs, one per column
	Data     *mat.Dense //genes x patients
}

// rowIndex maps gene IDs onto their row in the expression table.
func (expr *Expression) rowIndex() map[string]int {
	index := make(map[string]int, len(expr.Genes))
	for i, gene := range expr.Genes {
		index[gene] = i
	}
	return index
}

// ParseExpression parses a tab-separated gene expression file. The header is: Geneid, patient1, patient2, ... and
// every following line lists a gene ID and one expression value per patient. When a gene occurs more than once, the
// first occurrence is kept.
func ParseExpression(file string) (*Expression, error) {
	tsvFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer tsvFile.Close()
	expr, err := parseExpression(tsvFile)
	if err != nil {
		return nil, fmt.Errorf("parsing expression file %s: %w", file, err)
	}
	log.Info().Int("genes", len(expr.Genes)).Int("patients", len(expr.Patients)).
		Msgf("Parsed expression data from %s", file)
	return expr, nil
}

func parseExpression(r io.Reader) (*Expression, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty expression table")
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("expression header lists no patients")
	}
	expr := &Expression{Patients: append([]string(nil), header[1:]...)}
	seen := map[string]bool{}
	var values []float64
	dupCtr := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		gene := record[0]
		if seen[gene] {
			dupCtr++
			continue
		}
		seen[gene] = true
		for i, field := range record[1:] {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("gene %s, patient %s: %w", gene, expr.Patients[i], err)
			}
			values = append(values, value)
		}
		expr.Genes = append(expr.Genes, gene)
	}
	if len(expr.Genes) == 0 {
		return nil, fmt.Errorf("expression table lists no genes")
	}
	if dupCtr > 0 {
		log.Warn().Int("rows", dupCtr).Msg("Skipped duplicate gene rows in expression data")
	}
	expr.Data = mat.NewDense(len(expr.Genes), len(expr.Patients), values)
	return expr, nil
}

// Network contains a PPI network as parsed from file. Nodes are identified by gene ID in the input and by an int64 in
// the graph.
type Network struct {
	Graph *simple.UndirectedGraph
	IDs   []string         //graph node ID -> gene ID
	Index map[string]int64 //gene ID -> graph node ID
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{Graph: simple.NewUndirectedGraph(), Index: map[string]int64{}}
}

// node returns the graph node ID of a gene, adding the gene to the network if needed.
func (net *Network) node(gene string) int64 {
	if id, ok := net.Index[gene]; ok {
		return id
	}
	id := int64(len(net.IDs))
	net.IDs = append(net.IDs, gene)
	net.Index[gene] = id
	net.Graph.AddNode(simple.Node(id))
	return id
}

// AddInteraction adds an undirected edge between two genes. Self loops are ignored. It returns whether a new edge was
// added.
func (net *Network) AddInteraction(gene1, gene2 string) bool {
	id1 := net.node(gene1)
	id2 := net.node(gene2)
	if id1 == id2 || net.Graph.HasEdgeBetween(id1, id2) {
		return false
	}
	net.Graph.SetEdge(simple.Edge{F: simple.Node(id1), T: simple.Node(id2)})
	return true
}

// HasGene checks if a gene is a node of the network.
func (net *Network) HasGene(gene string) bool {
	_, ok := net.Index[gene]
	return ok
}

//Structs for unmarshalling GraphML data. Only node IDs and edge endpoints are used; data keys are ignored.

type graphMLNode struct {
	ID string `xml:"id,attr"`
}

type graphMLEdge struct {
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

type graphMLGraph struct {
	Nodes []graphMLNode `xml:"node"`
	Edges []graphMLEdge `xml:"edge"`
}

type graphML struct {
	XMLName xml.Name       `xml:"graphml"`
	Graphs  []graphMLGraph `xml:"graph"`
}

// parseGraphML parses a GraphML document into a network.
func parseGraphML(r io.Reader) (*Network, error) {
	doc := graphML{}
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	if len(doc.Graphs) == 0 {
		return nil, fmt.Errorf("no graph element in GraphML document")
	}
	net := NewNetwork()
	for _, g := range doc.Graphs {
		for _, node := range g.Nodes {
			net.node(node.ID)
		}
		for _, edge := range g.Edges {
			if edge.Source == "" || edge.Target == "" {
				return nil, fmt.Errorf("edge without source or target")
			}
			net.AddInteraction(edge.Source, edge.Target)
		}
	}
	return net, nil
}

// parseEdgeList parses a tab-separated list of interactions, one gene pair per line. Extra columns, e.g. confidence
// scores, are ignored.
func parseEdgeList(r io.Reader) (*Network, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.Comment = '#'
	net := NewNetwork()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("interaction line with %d fields", len(record))
		}
		net.AddInteraction(record[0], record[1])
	}
	return net, nil
}

// ParseNetwork parses a PPI network from a GraphML file, or from a tab-separated edge list if the file extension is
// .tsv, .tab or .txt.
func ParseNetwork(file string) (*Network, error) {
	netFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer netFile.Close()
	var net *Network
	switch strings.ToLower(filepath.Ext(file)) {
	case ".tsv", ".tab", ".txt":
		net, err = parseEdgeList(netFile)
	default:
		net, err = parseGraphML(netFile)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing network file %s: %w", file, err)
	}
	log.Info().Int("nodes", len(net.IDs)).Int("edges", net.Graph.Edges().Len()).
		Msgf("Parsed PPI network from %s", file)
	return net, nil
}

// ParseSolution parses a JSON solution file as written after an optimizer run:
// {"nodes": [...], "labels": [...], "scores": {"count": n, "best": [...], "average": [...]}}.
func ParseSolution(file string) (*results.Solution, error) {
	jsonFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer jsonFile.Close()
	solution := &results.Solution{}
	if err := json.NewDecoder(jsonFile).Decode(solution); err != nil {
		return nil, fmt.Errorf("parsing solution file %s: %w", file, err)
	}
	log.Info().Int("genes", len(solution.Nodes)).Int("patients", len(solution.Labels)).
		Int("iterations", solution.Scores.Count).Msgf("Parsed solution from %s", file)
	return solution, nil
}

// ParseIDList parses a file with one ID per line. Blank lines are skipped.
func ParseIDList(file string) ([]string, error) {
	listFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer listFile.Close()
	return parseIDList(listFile)
}

func parseIDList(r io.Reader) ([]string, error) {
	ids := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, scanner.Err()
}

// ParseTrueLabels parses two files that list the patient IDs of two known patient classes.
func ParseTrueLabels(file1, file2 string) (results.TrueLabels, error) {
	var labels results.TrueLabels
	for i, file := range []string{file1, file2} {
		ids, err := ParseIDList(file)
		if err != nil {
			return labels, fmt.Errorf("parsing true labels: %w", err)
		}
		labels[i] = ids
	}
	log.Info().Int("class1", len(labels[0])).Int("class2", len(labels[1])).Msg("Parsed true patient classes")
	return labels, nil
}
