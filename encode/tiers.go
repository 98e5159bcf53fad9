// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"

	"github.com/singlet-bio/singlet/errors"
)

// DefaultTiers is the default number of draw-order tiers.
const DefaultTiers = 4

// BucketTiers splits normalized values into at most n equal-population
// buckets and returns the bucket of each value. Drawing rows in
// ascending tier order puts the highest values on top.
//
// Bucket edges are the sample quantiles at 0, 1/n, ..., 1, linearly
// interpolated between order statistics (R type 7). Duplicate
// edges are merged, so fewer than n tiers may be used. A value on an
// inner edge belongs to the lower bucket. Tiers are numbered densely
// from 0; NaN values are in tier 0.
func BucketTiers(normalized []float64, n int) ([]int, error) {
	if n < 1 {
		return nil, errors.Config("need at least one tier, got %d", n)
	}
	tiers := make([]int, len(normalized))

	var xs []float64
	for _, v := range normalized {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return tiers, nil
	}
	sample := stats.Sample{Xs: xs}
	sample.Sort()

	var edges []float64
	for _, q := range vec.Linspace(0, 1, n+1) {
		e := quantileR7(sample.Xs, q)
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	if len(edges) < 2 {
		// Every value is the same.
		return tiers, nil
	}

	inner := edges[1:]
	for i, v := range normalized {
		if math.IsNaN(v) {
			continue
		}
		t := sort.SearchFloat64s(inner, v)
		if t >= len(inner) {
			t = len(inner) - 1
		}
		tiers[i] = t
	}
	return tiers, nil
}

// quantileR7 returns the q-quantile of the sorted values xs.
func quantileR7(xs []float64, q float64) float64 {
	h := q * float64(len(xs)-1)
	lo := int(math.Floor(h))
	if lo >= len(xs)-1 {
		return xs[len(xs)-1]
	}
	if lo < 0 {
		return xs[0]
	}
	return xs[lo] + (h-float64(lo))*(xs[lo+1]-xs[lo])
}

// TierOrder returns the row indexes sorted by ascending tier, keeping
// the original order within a tier.
func TierOrder(tiers []int) []int {
	idx := make([]int, len(tiers))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return tiers[idx[a]] < tiers[idx[b]]
	})
	return idx
}
