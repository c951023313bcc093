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

package utils

import "strings"

// MemberString checks if a string occurs in a list of strings.
func MemberString(s string, list []string) bool {
	for _, s2 := range list {
		if s2 == s {
			return true
		}
	}
	return false
}

// StringSet turns a list of strings into a set.
func StringSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}

// Unique returns the strings of a list without duplicates, in order of first occurrence.
func Unique(list []string) []string {
	seen := make(map[string]bool, len(list))
	result := make([]string, 0, len(list))
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

// IntersectionSize returns the number of unique strings that occur in both lists.
func IntersectionSize(list1, list2 []string) int {
	set1 := StringSet(list1)
	seen := map[string]bool{}
	ctr := 0
	for _, s := range list2 {
		if set1[s] && !seen[s] {
			seen[s] = true
			ctr++
		}
	}
	return ctr
}

// UnionSize returns the number of unique strings that occur in either list.
func UnionSize(list1, list2 []string) int {
	set := StringSet(list1)
	for _, s := range list2 {
		set[s] = true
	}
	return len(set)
}

// SplitList splits a comma separated command line value into its non-empty parts.
func SplitList(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
