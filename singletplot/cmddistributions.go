// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/singlet-bio/singlet/errors"
	"github.com/singlet-bio/singlet/plot"
)

var distributionsPlotter = plotter{
	use:   "distributions",
	short: "Plot the distribution of counts of each feature",
	bind: func(cmd *cobra.Command) drawFunc {
		var opts plot.DistributionOptions
		var props map[string]string
		var bottom string
		f := cmd.Flags()
		f.StringVar(&opts.Features, "features", "", "feature `set`: spikeins or other")
		f.StringSliceVar(&opts.FeatureNames, "feature", nil, "plot the named features instead of a set")
		f.StringVar(&opts.Kind, "kind", "violin", "plot `kind`: violin, box, or swarm")
		f.StringVar(&opts.Orientation, "orientation", "vertical", "vertical or horizontal")
		f.StringVar(&opts.Sort, "sort", "", "sort features by median: ascending or descending")
		f.StringVar(&bottom, "bottom", "0", "floor counts at `value`, or at the pseudocount")
		f.StringToStringVar(&props, "prop", nil, "drawing property `key=value`")
		return func(e *env) (*plot.Figure, error) {
			if bottom == "pseudocount" {
				opts.BottomPseudocount = true
			} else {
				v, err := strconv.ParseFloat(bottom, 64)
				if err != nil {
					return nil, errors.Config("--bottom must be a number or \"pseudocount\", got %q", bottom)
				}
				opts.Bottom = v
			}
			opts.Props = withColor(parseProps(props), e)
			return plot.Distributions(e.d, opts)
		}
	},
}
