// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// StatisticsOptions configures ScatterStatistics.
type StatisticsOptions struct {
	// Features is "mapped" (the default) or "total".
	// FeatureNames, if non-nil, lists the features instead.
	Features     string
	FeatureNames []string

	// X and Y name the statistics on each axis (see
	// dataset.Metrics). They default to "mean" and "cv".
	X, Y string

	Props map[string]any
}

// ScatterStatistics plots one statistic of each feature against
// another. A "mean" axis is logarithmic and a "cv" axis starts at 0.
func ScatterStatistics(d *dataset.Dataset, opts StatisticsOptions) (*Figure, error) {
	if opts.Features == "" {
		opts.Features = "mapped"
	}
	if opts.X == "" {
		opts.X = "mean"
	}
	if opts.Y == "" {
		opts.Y = "cv"
	}
	props, err := NormalizeProps(opts.Props, map[string]any{
		"s":     10.0,
		"color": "darkgrey",
	})
	if err != nil {
		return nil, err
	}

	counts := d.Counts
	if opts.FeatureNames == nil && opts.Features == "total" {
		for _, f := range counts.OtherFeatures {
			if !counts.HasFeature(f) {
				return nil, errors.Config("other feature %q not found in counts", f)
			}
		}
		for _, f := range counts.SpikeIns {
			if !counts.HasFeature(f) {
				return nil, errors.Config("spike-in %q not found in counts", f)
			}
		}
	}
	counts, err = selectFeatures(counts, opts.Features, opts.FeatureNames, true, "total", "mapped")
	if err != nil {
		return nil, err
	}

	st, err := counts.Statistics(opts.X, opts.Y)
	if err != nil {
		return nil, err
	}
	xs, ys := st[opts.X], st[opts.Y]
	xAxis, yAxis := statAxis(opts.X, xs), statAxis(opts.Y, ys)

	tab := new(table.Builder).
		Add("feature", counts.Features).
		Add(opts.X, xs).
		Add(opts.Y, ys).
		Add("x", xAxis.values(xs)).
		Add("y", yAxis.values(ys)).
		Done()

	f := newFigure("stats", tab, props)
	f.X, f.Y = xAxis, yAxis
	f.Plot.Add(gg.LayerPoints{
		X:     "x",
		Y:     "y",
		Color: f.Plot.Const(props.color(encode.DefaultColor)),
	})
	f.finish()
	return f, nil
}

func statAxis(metric string, values []float64) Axis {
	a := autoAxis(metric)
	_, max := stats.Bounds(finite(values))
	switch metric {
	case "mean":
		a.Log, a.Min, a.Max = true, 0.5, 1.05*max
	case "cv":
		a.Min, a.Max = 0, 1.05*max
	}
	return a
}

func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
