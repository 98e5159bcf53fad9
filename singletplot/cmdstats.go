// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/singlet-bio/singlet/plot"
)

var statsPlotter = plotter{
	use:   "stats",
	short: "Scatter one feature statistic against another",
	long: `Stats plots one statistic of each feature against another, by default
the mean against the coefficient of variation. Statistics are mean,
var, std, cv, fano, min, and max.`,
	bind: func(cmd *cobra.Command) drawFunc {
		var opts plot.StatisticsOptions
		var props map[string]string
		f := cmd.Flags()
		f.StringVar(&opts.Features, "features", "mapped", "feature `set`: mapped or total")
		f.StringSliceVar(&opts.FeatureNames, "feature", nil, "plot the named features instead of a set")
		f.StringVarP(&opts.X, "x", "x", "mean", "`statistic` on the X axis")
		f.StringVarP(&opts.Y, "y", "y", "cv", "`statistic` on the Y axis")
		f.StringToStringVar(&props, "prop", nil, "drawing property `key=value`")
		return func(e *env) (*plot.Figure, error) {
			opts.Props = withColor(parseProps(props), e)
			return plot.ScatterStatistics(e.d, opts)
		}
	},
}
