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

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// Dataset represents the preprocessed input the optimizer was run on. Genes and patients share one index space: indices
// 0..NofGenes-1 are genes and indices NofGenes..NofGenes+NofPatients-1 are patients. LabelIDs maps every index onto
// its biological identifier.
type Dataset struct {
	LabelIDs    []string                // index -> gene or patient ID
	NofGenes    int                     // n
	NofPatients int                     // m
	GE          *mat.Dense              // n x m expression matrix, row = gene index, column = patient index - n
	G           *simple.UndirectedGraph // PPI network, node ID = gene index
}

// PatientIndex returns the index of the j-th patient column in the shared index space.
func (ds *Dataset) PatientIndex(j int) int {
	return ds.NofGenes + j
}

// column returns the expression matrix column of a patient index.
func (ds *Dataset) column(patient int) int {
	return patient - ds.NofGenes
}

// Scores represents the convergence trace of the optimizer: the number of iterations, the best score per iteration, and
// the average score per iteration.
type Scores struct {
	Count   int       `json:"count" yaml:"count"`
	Best    []float64 `json:"best" yaml:"best"`
	Average []float64 `json:"average" yaml:"average"`
}

// Trace returns the best and average scores of the iterations for which both are known.
func (s Scores) Trace() (best, average []float64) {
	n := min(len(s.Best), len(s.Average))
	return s.Best[:n], s.Average[:n]
}

// Solution represents the optimizer's output: the selected gene indices, a 0/1 label per patient in patient index order,
// and the convergence trace.
type Solution struct {
	Nodes  []int  `json:"nodes"`
	Labels []int  `json:"labels"`
	Scores Scores `json:"scores"`
}

// Validate checks that a solution refers to genes and patients of the given dataset.
func (s *Solution) Validate(ds *Dataset) error {
	if len(s.Nodes) == 0 {
		return fmt.Errorf("solution selects no genes")
	}
	seen := map[int]bool{}
	for _, node := range s.Nodes {
		if node < 0 || node >= ds.NofGenes {
			return fmt.Errorf("solution gene index %d out of range [0, %d)", node, ds.NofGenes)
		}
		if seen[node] {
			return fmt.Errorf("solution selects gene index %d twice", node)
		}
		seen[node] = true
	}
	if len(s.Labels) != ds.NofPatients {
		return fmt.Errorf("solution has %d patient labels, dataset has %d patients", len(s.Labels), ds.NofPatients)
	}
	for i, label := range s.Labels {
		if label != 0 && label != 1 {
			return fmt.Errorf("patient label %d at position %d is not 0 or 1", label, i)
		}
	}
	return nil
}

// TrueLabels holds the patient IDs of two known patient classes, e.g. case and control.
type TrueLabels [2][]string
