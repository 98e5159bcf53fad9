// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/singlet-bio/singlet/plot"
)

var clustermapPlotter = plotter{
	use:   "clustermap",
	short: "Draw the counts as a clustered heatmap",
	long: `Clustermap draws features against samples as a heatmap. Rows and
columns are reordered by precomputed linkage matrices, one merge
"a b dist count" per line, as written by scipy's linkage.

Annotation bars are given as key or key:palette, for example
--annotate-samples cellType:tab10 --annotate-features "mean expression".`,
	bind: func(cmd *cobra.Command) drawFunc {
		var opts plot.ClustermapOptions
		var props map[string]string
		var sampleLinkage, featureLinkage, pal string
		var annSamples, annFeatures []string
		f := cmd.Flags()
		f.StringVar(&sampleLinkage, "sample-linkage", "", "order samples by the linkage in `file`")
		f.StringVar(&featureLinkage, "feature-linkage", "", "order features by the linkage in `file`")
		f.StringSliceVar(&opts.PhenotypesClusterFeatures, "phenotypes", nil, "add numeric sample metadata `columns` as rows")
		f.StringArrayVar(&annSamples, "annotate-samples", nil, "add a sample annotation bar `key[:palette]`")
		f.StringArrayVar(&annFeatures, "annotate-features", nil, "add a feature annotation bar `key[:palette]`")
		f.StringVar(&opts.Orientation, "orientation", "horizontal", "horizontal or vertical")
		f.StringVar(&pal, "palette", "", "heatmap `palette`")
		f.BoolVar(&opts.Log, "log", false, "color by log10 of the counts")
		f.StringToStringVar(&props, "prop", nil, "drawing property `key=value`")
		return func(e *env) (*plot.Figure, error) {
			var err error
			if opts.ClusterSamples.Linkage, err = readLinkage(sampleLinkage); err != nil {
				return nil, err
			}
			if opts.ClusterFeatures.Linkage, err = readLinkage(featureLinkage); err != nil {
				return nil, err
			}
			if pal == "" {
				pal = e.cfg.Plot.Colormap
			}
			if opts.Palette, err = parsePalette(pal); err != nil {
				return nil, err
			}
			if opts.AnnotateSamples, err = parseAnnotations(annSamples); err != nil {
				return nil, err
			}
			if opts.AnnotateFeatures, err = parseAnnotations(annFeatures); err != nil {
				return nil, err
			}
			opts.Props = parseProps(props)
			return plot.Clustermap(e.d, opts, e.legends)
		}
	},
}

func parseAnnotations(specs []string) ([]plot.Annotation, error) {
	var anns []plot.Annotation
	for _, s := range specs {
		key, pal, _ := strings.Cut(s, ":")
		p, err := parsePalette(pal)
		if err != nil {
			return nil, err
		}
		anns = append(anns, plot.Annotation{Key: key, Palette: p})
	}
	return anns, nil
}
