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

package cluster

import "bigants/utils"

// Comparing a patient partition against known patient classes.
// The overlap between a computed cluster and a known class is measured with the jaccard similarity coefficient:
// size of the intersection / size of the union. Since cluster numbering is arbitrary, the two clusters are matched to
// the two classes in whichever of the two possible ways gives the highest total overlap.

// Jaccard computes the jaccard similarity coefficient of two sets of IDs. If either set is empty, the coefficient is 0.
func Jaccard(x, y []string) float64 {
	if len(x) == 0 || len(y) == 0 {
		return 0
	}
	return float64(utils.IntersectionSize(x, y)) / float64(utils.UnionSize(x, y))
}

// JaccardMatrix computes the jaccard coefficient for every (cluster, class) combination: res[i][j] compares
// clusters[i] with classes[j].
func JaccardMatrix(clusters, classes [2][]string) [2][2]float64 {
	var res [2][2]float64
	for i := range clusters {
		for j := range classes {
			res[i][j] = Jaccard(clusters[i], classes[j])
		}
	}
	return res
}

// BestMatch returns the jaccard coefficients of the best one-to-one matching between two clusters and two known
// classes. The first coefficient belongs to clusters[0] and the second to clusters[1], each compared with the class it
// is matched to. The straight matching (cluster 1 to class 1, cluster 2 to class 2) is only chosen if its total is
// strictly larger than the crossed matching.
func BestMatch(clusters, classes [2][]string) (float64, float64) {
	res := JaccardMatrix(clusters, classes)
	cand1 := [2]float64{res[0][0], res[1][1]}
	cand2 := [2]float64{res[0][1], res[1][0]}
	if cand1[0]+cand1[1] > cand2[0]+cand2[1] {
		return cand1[0], cand1[1]
	}
	return cand2[0], cand2[1]
}
