// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/singlet-bio/singlet/errors"
)

// Metrics lists the per-feature statistics known to Statistics.
var Metrics = []string{"mean", "var", "std", "cv", "fano", "min", "max"}

var metricFuncs = map[string]func(stats.Sample) float64{
	"mean": func(s stats.Sample) float64 { return s.Mean() },
	"var":  func(s stats.Sample) float64 { return s.Variance() },
	"std":  func(s stats.Sample) float64 { return s.StdDev() },
	"cv": func(s stats.Sample) float64 {
		return s.StdDev() / s.Mean()
	},
	"fano": func(s stats.Sample) float64 {
		return s.Variance() / s.Mean()
	},
	"min": func(s stats.Sample) float64 {
		min, _ := s.Bounds()
		return min
	},
	"max": func(s stats.Sample) float64 {
		_, max := s.Bounds()
		return max
	},
}

// Statistics computes the named metrics of every feature across
// samples. The result maps each metric to one value per feature, in
// c.Features order. Missing counts are skipped. Variances use the
// n-1 denominator.
func (c *CountsTable) Statistics(metrics ...string) (map[string][]float64, error) {
	fns := make([]func(stats.Sample) float64, len(metrics))
	for i, m := range metrics {
		fn, ok := metricFuncs[m]
		if !ok {
			return nil, errors.Config("unknown statistic %q", m)
		}
		fns[i] = fn
	}

	out := make(map[string][]float64, len(metrics))
	for _, m := range metrics {
		out[m] = make([]float64, len(c.Features))
	}
	for i, row := range c.Values {
		s := stats.Sample{Xs: presentValues(row)}
		for k, m := range metrics {
			if len(s.Xs) == 0 {
				out[m][i] = math.NaN()
				continue
			}
			out[m][i] = fns[k](s)
		}
	}
	return out, nil
}

// Median returns the median count of feature name across samples.
func (c *CountsTable) Median(name string) (float64, error) {
	row, err := c.Row(name)
	if err != nil {
		return 0, err
	}
	return median(row), nil
}

func median(xs []float64) float64 {
	s := stats.Sample{Xs: presentValues(xs)}
	if len(s.Xs) == 0 {
		return math.NaN()
	}
	s.Sort()
	n := len(s.Xs)
	if n%2 == 1 {
		return s.Xs[n/2]
	}
	return (s.Xs[n/2-1] + s.Xs[n/2]) / 2
}

// presentValues returns a copy of xs without NaNs.
func presentValues(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
