// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image/color"
	"slices"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// ReducedOptions configures ScatterReduced.
type ReducedOptions struct {
	// Columns names two numeric metadata columns holding the
	// embedding, both in the samplesheet or both in the
	// featuresheet. Alternatively, Coordinates gives the
	// embedding directly.
	Columns     []string
	Coordinates *Coordinates

	// ColorBy names a metadata column or a counts row to color
	// the dots by. If empty, every dot has DefaultColor.
	ColorBy string

	// ColorLog selects log coloring of numeric values. If nil,
	// counts are logged and metadata are not.
	ColorLog *bool

	// Palette defaults to viridis.
	Palette encode.Palette

	// DefaultColor colors missing categories and values.
	DefaultColor color.Color

	// HighOnTop draws dots in ascending order of their
	// normalized value so high values end up on top. It has no
	// effect on categorical coloring.
	HighOnTop bool

	Props map[string]any
}

// Coordinates is an embedding of samples or features.
type Coordinates struct {
	IDs  []string
	X, Y []float64
}

// ScatterReduced plots samples or features in a low-dimensional
// embedding, such as a t-SNE or PCA projection.
func ScatterReduced(d *dataset.Dataset, opts ReducedOptions, legends *Legends) (*Figure, error) {
	if opts.Palette == nil {
		opts.Palette = encode.Named("viridis")
	}
	if opts.DefaultColor == nil {
		opts.DefaultColor = encode.DefaultColor
	}
	props, err := NormalizeProps(opts.Props, map[string]any{"s": 90.0})
	if err != nil {
		return nil, err
	}

	axis, coords, err := embedding(d, opts)
	if err != nil {
		return nil, err
	}
	n := len(coords.IDs)

	colors := make([]color.NRGBA, n)
	for i := range colors {
		colors[i] = encode.WithAlpha(opts.DefaultColor, 1)
	}
	tiers := make([]int, n)

	var cats *encode.Categories
	var dom *encode.Domain
	if opts.ColorBy != "" {
		v, err := d.Lookup(axis, opts.ColorBy)
		if err != nil {
			return nil, err
		}
		if v.Categorical {
			cs, c, err := encode.ResolveCategorical(v.Labels, opts.Palette, opts.DefaultColor)
			if err != nil {
				return nil, err
			}
			colors, cats = cs, &c
		} else {
			copts := encode.ContinuousOptions{Default: opts.DefaultColor}
			copts.Log = !v.Phenotype
			if opts.ColorLog != nil {
				copts.Log = *opts.ColorLog
			}
			if copts.Log {
				copts.Pseudocount = d.Counts.Pseudocount
				if v.Phenotype {
					min, _ := stats.Bounds(finite(v.Values))
					copts.Pseudocount = 0.1 * min
				}
			}
			cs, dm, err := encode.ResolveContinuous(v.Values, opts.Palette, copts)
			if err != nil {
				return nil, err
			}
			colors, dom = cs, &dm

			if opts.HighOnTop {
				norm := make([]float64, n)
				for i, x := range v.Values {
					norm[i] = dm.Normalize(x)
				}
				tiers, err = encode.BucketTiers(norm, encode.DefaultTiers)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	order := encode.TierOrder(tiers)
	ids := make([]string, n)
	xs, ys := make([]float64, n), make([]float64, n)
	cs := make([]color.Color, n)
	ts := make([]int, n)
	for k, i := range order {
		ids[k], xs[k], ys[k], cs[k], ts[k] = coords.IDs[i], coords.X[i], coords.Y[i], colors[i], tiers[i]
	}
	tab := new(table.Builder).
		Add("id", ids).
		Add("x", xs).
		Add("y", ys).
		Add("tier", ts).
		Add("color", cs).
		Done()

	f := newFigure("reduced", tab, props)
	xLabel, yLabel := "dimension 1", "dimension 2"
	if opts.Coordinates == nil {
		xLabel, yLabel = opts.Columns[0], opts.Columns[1]
	}
	f.X, f.Y = autoAxis(xLabel), autoAxis(yLabel)
	f.Plot.Add(gg.LayerPoints{X: "x", Y: "y", Color: "color"})
	f.finish()

	if cats != nil {
		legends.setCategories(f.ID, "color", *cats)
	}
	if dom != nil {
		legends.setDomain(f.ID, "color", *dom)
	}
	return f, nil
}

// embedding resolves the coordinates of opts and the axis they
// belong to.
func embedding(d *dataset.Dataset, opts ReducedOptions) (dataset.Axis, *Coordinates, error) {
	if c := opts.Coordinates; c != nil {
		if len(c.X) != len(c.IDs) || len(c.Y) != len(c.IDs) {
			return 0, nil, errors.Config("coordinates have %d identifiers but %d×%d values", len(c.IDs), len(c.X), len(c.Y))
		}
		switch {
		case slices.Equal(c.IDs, d.SampleNames()):
			return dataset.Samples, c, nil
		case slices.Equal(c.IDs, d.FeatureNames()):
			return dataset.Features, c, nil
		}
		return 0, nil, errors.Config("coordinates match neither the samples nor the features")
	}

	if len(opts.Columns) != 2 {
		return 0, nil, errors.Config("need two coordinate columns, got %d", len(opts.Columns))
	}
	for _, axis := range []dataset.Axis{dataset.Samples, dataset.Features} {
		sheet := d.Sheet(axis)
		cx, okx := sheet.Column(opts.Columns[0])
		cy, oky := sheet.Column(opts.Columns[1])
		if !okx || !oky {
			continue
		}
		if cx.Categorical || cy.Categorical {
			return 0, nil, errors.Config("coordinate columns %q must be numeric", opts.Columns)
		}
		return axis, &Coordinates{IDs: sheet.IDs, X: cx.Values, Y: cy.Values}, nil
	}
	return 0, nil, errors.Config("coordinate columns %q are in neither the samplesheet nor the featuresheet", opts.Columns)
}
