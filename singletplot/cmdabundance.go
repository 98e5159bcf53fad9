// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/singlet-bio/singlet/plot"
)

var abundancePlotter = plotter{
	use:   "abundance",
	short: "Plot how group sizes change along a sample property",
	bind: func(cmd *cobra.Command) drawFunc {
		var opts plot.AbundanceOptions
		var scatterProps, lineProps map[string]string
		var pal string
		f := cmd.Flags()
		f.StringVar(&opts.GroupBy, "group-by", "", "sample metadata `column` defining the groups")
		f.StringVar(&opts.Along, "along", "", "sample metadata `column` to follow")
		f.StringVar(&opts.Kind, "kind", "number", "number, fraction, or percent")
		f.StringSliceVar(&opts.GroupOrder, "group-order", nil, "draw only these `groups`, in order")
		f.StringSliceVar(&opts.AlongOrder, "along-order", nil, "use only these `values`, in order")
		f.BoolVar(&opts.NoScatter, "no-scatter", false, "do not draw the points")
		f.BoolVar(&opts.Interpolate, "interpolate", false, "draw a monotonic curve through each group")
		f.StringVar(&pal, "palette", "", "group color `palette`")
		f.Float64Var(&opts.YMin, "ymin", 0, "floor abundances at `value`")
		f.Float64Var(&opts.LogBase, "log-base", 0, "plot abundances in log `base`")
		f.StringToStringVar(&scatterProps, "scatter-prop", nil, "point property `key=value`")
		f.StringToStringVar(&lineProps, "line-prop", nil, "curve property `key=value`")
		cmd.MarkFlagRequired("group-by")
		cmd.MarkFlagRequired("along")
		return func(e *env) (*plot.Figure, error) {
			var err error
			if opts.Palette, err = parsePalette(pal); err != nil {
				return nil, err
			}
			opts.ScatterProps = parseProps(scatterProps)
			opts.InterpolateProps = parseProps(lineProps)
			return plot.GroupAbundanceChanges(e.d, opts, e.legends)
		}
	},
}
