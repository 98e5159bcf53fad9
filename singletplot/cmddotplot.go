// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/plot"
)

var dotplotPlotter = plotter{
	use:   "dotplot",
	short: "Draw a dot plot of expression per group",
	long: `Dotplot groups samples (or features, with --group-axis features) by
a metadata column and draws one dot per group and plotted item. Dot
size is the fraction of the group at or above --threshold; dot color
is the group's mean level.

--vmin and --vmax are min/max (across all items), min_single/max_single
(per item), or a number.`,
	bind: func(cmd *cobra.Command) drawFunc {
		var opts plot.DotPlotOptions
		var props map[string]string
		var axis, colorLog, vmin, vmax, pal string
		f := cmd.Flags()
		f.StringVar(&axis, "group-axis", "samples", "axis to group: samples or features")
		f.StringVar(&opts.GroupBy, "group-by", "", "metadata `column` to group by")
		f.StringSliceVar(&opts.GroupOrder, "group-order", nil, "draw only these `groups`, in order")
		f.StringSliceVar(&opts.PlotList, "plot", nil, "counts or metadata `keys` to plot")
		f.StringVar(&colorLog, "color-log", "", "log-scale levels: true or false (default: true for counts)")
		f.StringVar(&vmin, "vmin", "min", "lower color `bound`")
		f.StringVar(&vmax, "vmax", "max", "upper color `bound`")
		f.Float64Var(&opts.Threshold, "threshold", plot.DefaultThreshold, "expression `threshold`")
		f.Float64Var(&opts.MinSize, "min-size", plot.DefaultMinSize, "`size` of a dot with no expressing entries")
		f.StringVar(&opts.Layout, "layout", "horizontal", "horizontal or vertical")
		f.StringVar(&pal, "palette", "", "color `palette`")
		f.StringToStringVar(&props, "prop", nil, "drawing property `key=value`")
		cmd.MarkFlagRequired("group-by")
		cmd.MarkFlagRequired("plot")
		return func(e *env) (*plot.Figure, error) {
			var err error
			if opts.GroupAxis, err = dataset.ParseAxis(axis); err != nil {
				return nil, err
			}
			if opts.ColorLog, err = optionalBool(colorLog); err != nil {
				return nil, err
			}
			if opts.Vmin, err = plot.ParseBound(vmin, false); err != nil {
				return nil, err
			}
			if opts.Vmax, err = plot.ParseBound(vmax, true); err != nil {
				return nil, err
			}
			if pal == "" {
				pal = e.cfg.Plot.Colormap
			}
			if opts.Palette, err = parsePalette(pal); err != nil {
				return nil, err
			}
			opts.Props = parseProps(props)
			return plot.DotPlot(e.d, opts, e.legends)
		}
	},
}
