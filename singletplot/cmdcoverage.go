// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/singlet-bio/singlet/plot"
)

var coveragePlotter = plotter{
	use:   "coverage",
	short: "Plot the cumulative distribution of reads per sample",
	bind: func(cmd *cobra.Command) drawFunc {
		var opts plot.CoverageOptions
		var props map[string]string
		f := cmd.Flags()
		f.StringVar(&opts.Features, "features", "total", "feature `set`: total, mapped, spikeins, or other")
		f.StringSliceVar(&opts.FeatureNames, "feature", nil, "sum over the named features instead of a set")
		f.StringVar(&opts.Kind, "kind", "cumulative", "plot `kind`")
		f.StringToStringVar(&props, "prop", nil, "drawing property `key=value`")
		return func(e *env) (*plot.Figure, error) {
			opts.Props = withColor(parseProps(props), e)
			return plot.Coverage(e.d, opts)
		}
	},
}

// withColor adds the configured default color to props unless props
// sets one.
func withColor(props map[string]any, e *env) map[string]any {
	if e.cfg.Plot.Color == "" {
		return props
	}
	for _, k := range []string{"c", "color"} {
		if _, ok := props[k]; ok {
			return props
		}
	}
	if props == nil {
		props = make(map[string]any)
	}
	props["color"] = e.cfg.Plot.Color
	return props
}
