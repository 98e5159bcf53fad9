// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"sort"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// CoverageOptions configures Coverage.
type CoverageOptions struct {
	// Features is the feature set to sum over: "total" (the
	// default), "mapped", "spikeins", or "other". FeatureNames,
	// if non-nil, lists the features instead.
	Features     string
	FeatureNames []string

	// Kind is the plot kind. The only kind is "cumulative".
	Kind string

	Props map[string]any
}

// Coverage plots the distribution of the number of reads per sample.
// The cumulative kind sorts the per-sample totals and plots, for
// each, the fraction of samples with at least that many reads.
func Coverage(d *dataset.Dataset, opts CoverageOptions) (*Figure, error) {
	if opts.Features == "" {
		opts.Features = "total"
	}
	if opts.Kind == "" {
		opts.Kind = "cumulative"
	}
	props, err := NormalizeProps(opts.Props, map[string]any{
		"linewidth": 2.0,
		"color":     "darkgrey",
	})
	if err != nil {
		return nil, err
	}

	counts, err := selectFeatures(d.Counts, opts.Features, opts.FeatureNames, false,
		"total", "mapped", "spikeins", "other")
	if err != nil {
		return nil, err
	}
	if opts.Kind != "cumulative" {
		return nil, errors.Config("unknown coverage plot kind %q", opts.Kind)
	}

	sums := counts.SumSamples()
	order := make([]int, len(sums))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return sums[order[i]] < sums[order[j]] })
	samples := make([]string, len(order))
	reads := make([]float64, len(order))
	for k, i := range order {
		samples[k] = counts.Samples[i]
		reads[k] = sums[i]
	}
	frac := vec.Map(func(x float64) float64 { return 1 - x }, vec.Linspace(0, 1, len(reads)))

	_, max := stats.Bounds(reads)
	xAxis := Axis{Label: countsLabel(counts.Normalized), Log: true, Min: 0.5, Max: 1.05 * max}
	yAxis := Axis{Label: "Cumulative distribution", Min: -0.05, Max: 1.05}

	tab := new(table.Builder).
		Add("sample", samples).
		Add("reads", reads).
		Add("fraction", frac).
		Add("x", xAxis.values(reads)).
		Add("y", frac).
		Done()

	f := newFigure("coverage", tab, props)
	f.X, f.Y = xAxis, yAxis
	f.Plot.Add(gg.LayerLines{
		X:     "x",
		Y:     "y",
		Color: f.Plot.Const(props.color(encode.DefaultColor)),
	})
	f.finish()
	return f, nil
}
