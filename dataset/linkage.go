// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"math"

	"github.com/yourbasic/bit"

	"github.com/singlet-bio/singlet/errors"
)

// A Linkage is a precomputed hierarchical clustering of n
// observations, encoded as n-1 merges. Merge i joins clusters A and
// B at height Dist into a cluster of Count observations, which then
// has index n+i. Indexes below n are single observations.
//
// This is the layout produced by scipy.cluster.hierarchy.linkage.
type Linkage []Merge

// A Merge is one row of a Linkage.
type Merge struct {
	A, B  int
	Dist  float64
	Count int
}

// LinkageFromRows converts raw [a, b, dist, count] rows to a
// Linkage.
func LinkageFromRows(rows [][]float64) (Linkage, error) {
	l := make(Linkage, len(rows))
	for i, r := range rows {
		if len(r) != 4 {
			return nil, errors.Config("linkage row %d has %d fields, want 4", i, len(r))
		}
		for _, k := range []int{0, 1, 3} {
			if r[k] != math.Trunc(r[k]) || r[k] < 0 {
				return nil, errors.Config("linkage row %d: field %d is not an index", i, k)
			}
		}
		l[i] = Merge{A: int(r[0]), B: int(r[1]), Dist: r[2], Count: int(r[3])}
	}
	return l, nil
}

// Len returns the number of observations clustered by l.
func (l Linkage) Len() int {
	return len(l) + 1
}

// Validate checks that every merge refers to existing clusters that
// have not been merged yet and that the counts add up.
func (l Linkage) Validate() error {
	n := l.Len()
	size := func(idx int) int {
		if idx < n {
			return 1
		}
		return l[idx-n].Count
	}
	used := bit.New()
	for i, m := range l {
		for _, c := range []int{m.A, m.B} {
			if c < 0 || c >= n+i {
				return errors.Config("linkage merge %d refers to unknown cluster %d", i, c)
			}
			if used.Contains(c) {
				return errors.Config("linkage merge %d reuses cluster %d", i, c)
			}
			used.Add(c)
		}
		if m.A == m.B {
			return errors.Config("linkage merge %d joins cluster %d with itself", i, m.A)
		}
		if want := size(m.A) + size(m.B); m.Count != want {
			return errors.Config("linkage merge %d has count %d, want %d", i, m.Count, want)
		}
	}
	return nil
}

// Leaves returns the observations in dendrogram order: a depth-first
// walk from the last merge, visiting A before B.
func (l Linkage) Leaves() ([]int, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	n := l.Len()
	if len(l) == 0 {
		return []int{0}, nil
	}
	order := make([]int, 0, n)
	stack := []int{n + len(l) - 1}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c < n {
			order = append(order, c)
			continue
		}
		m := l[c-n]
		stack = append(stack, m.B, m.A)
	}
	return order, nil
}

// A Clusterer computes hierarchical clusterings on demand. phenotypes
// names metadata columns to cluster on alongside the counts.
type Clusterer interface {
	Hierarchical(d *Dataset, axis Axis, phenotypes []string) (Linkage, error)
}
