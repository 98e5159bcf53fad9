// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image/color"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// MeanExpression is the feature annotation key for the mean count of
// each feature.
const MeanExpression = "mean expression"

// ClustermapOptions configures Clustermap.
type ClustermapOptions struct {
	ClusterSamples, ClusterFeatures Clustering

	// PhenotypesClusterSamples are passed to the Clusterer when
	// clustering samples.
	PhenotypesClusterSamples []string

	// PhenotypesClusterFeatures are numeric samplesheet columns
	// appended to the heatmap as extra rows and clustered along
	// with the features. A precomputed feature linkage must
	// include them, in the same order.
	PhenotypesClusterFeatures []string

	// AnnotateSamples and AnnotateFeatures add one color bar per
	// entry, in order.
	AnnotateSamples, AnnotateFeatures []Annotation

	// Orientation is "horizontal" (samples on the abscissa, the
	// default) or "vertical".
	Orientation string

	// Palette colors the heatmap. It defaults to viridis.
	Palette encode.Palette

	// Log colors the heatmap by log10(count + pseudocount).
	Log bool

	// Clusterer computes linkages that are requested but not
	// given.
	Clusterer dataset.Clusterer

	Props map[string]any
}

// Clustering selects how one axis of a clustermap is ordered. The
// zero value keeps the dataset order.
type Clustering struct {
	// Linkage is a precomputed clustering. It takes precedence
	// over Compute.
	Linkage dataset.Linkage

	// Compute asks the Clusterer for a linkage.
	Compute bool
}

// An Annotation is one color bar along a clustermap axis.
type Annotation struct {
	// Key is a metadata column. Sample annotations may also name
	// a feature, and feature annotations may use MeanExpression.
	Key string

	// Palette defaults to "deep" for categorical annotations and
	// viridis for numeric ones.
	Palette encode.Palette
}

// Clustermap draws the counts as a heatmap of features against
// samples, optionally reordered by hierarchical clusterings and
// flanked by annotation bars. The heatmap domain and one Colorbar per
// annotation are recorded in legends.
func Clustermap(d *dataset.Dataset, opts ClustermapOptions, legends *Legends) (*Figure, error) {
	if opts.Orientation == "" {
		opts.Orientation = "horizontal"
	}
	if err := checkOrientation(opts.Orientation); err != nil {
		return nil, err
	}
	if opts.Palette == nil {
		opts.Palette = encode.Named("viridis")
	}
	props, err := NormalizeProps(opts.Props, nil)
	if err != nil {
		return nil, err
	}

	rows := append([]string(nil), d.FeatureNames()...)
	values := append([][]float64(nil), d.Counts.Values...)
	for _, ph := range opts.PhenotypesClusterFeatures {
		col, ok := d.SampleSheet.Column(ph)
		if !ok {
			return nil, errors.Lookup("%q is not a samplesheet column", ph)
		}
		if col.Categorical {
			return nil, errors.Config("cannot cluster on categorical phenotype %q", ph)
		}
		rows = append(rows, ph)
		values = append(values, col.Values)
	}
	cols := d.SampleNames()
	nrows, ncols := len(rows), len(cols)

	rowOrder, err := leafOrder(d, dataset.Features, opts.ClusterFeatures, opts.PhenotypesClusterFeatures, opts.Clusterer, nrows)
	if err != nil {
		return nil, err
	}
	colOrder, err := leafOrder(d, dataset.Samples, opts.ClusterSamples, opts.PhenotypesClusterSamples, opts.Clusterer, ncols)
	if err != nil {
		return nil, err
	}

	flat := make([]float64, 0, nrows*ncols)
	for _, r := range values {
		flat = append(flat, r...)
	}
	heat, dom, err := encode.ResolveContinuous(flat, opts.Palette, encode.ContinuousOptions{
		Log:         opts.Log,
		Pseudocount: d.Counts.Pseudocount,
	})
	if err != nil {
		return nil, err
	}

	sampleBars, err := sampleAnnotations(d, opts.AnnotateSamples)
	if err != nil {
		return nil, err
	}
	featureBars, err := featureAnnotations(d, opts.AnnotateFeatures)
	if err != nil {
		return nil, err
	}

	// pos places a (feature position, sample position) cell. The
	// feature axis runs from the top down and negative positions
	// are annotation bars.
	horizontal := opts.Orientation == "horizontal"
	pos := func(fi, si int) (float64, float64) {
		if horizontal {
			return float64(si), float64(nrows - 1 - fi)
		}
		return float64(fi), float64(ncols - 1 - si)
	}

	var t tileTable
	for i, r := range rowOrder {
		for j, c := range colOrder {
			x, y := pos(i, j)
			t.add("heatmap", rows[r], cols[c], values[r][c], x, y, heat[r*ncols+c])
		}
	}
	for k, b := range sampleBars {
		for j, c := range colOrder {
			x, y := pos(-(k + 1), j)
			t.add(b.cb.Name, b.cb.Name, cols[c], b.value(c), x, y, b.colors[c])
		}
	}
	for k, b := range featureBars {
		for i, r := range rowOrder {
			if r >= len(d.FeatureNames()) {
				// Phenotype rows have no feature metadata.
				continue
			}
			x, y := pos(i, -(k + 1))
			t.add(b.cb.Name, rows[r], b.cb.Name, b.value(r), x, y, b.colors[r])
		}
	}

	f := newFigure("clustermap", t.done(), props)
	f.X, f.Y = autoAxis("samples"), autoAxis("features")
	if !horizontal {
		f.X, f.Y = f.Y, f.X
	}
	f.Plot.Add(gg.LayerTiles{X: "x", Y: "y", Fill: "fill"})
	f.finish()

	legends.setDomain(f.ID, "heatmap", dom)
	for _, b := range sampleBars {
		legends.addColorbar(f.ID, b.cb)
	}
	for _, b := range featureBars {
		legends.addColorbar(f.ID, b.cb)
	}
	return f, nil
}

// leafOrder returns the display order of the n entries along axis.
func leafOrder(d *dataset.Dataset, axis dataset.Axis, c Clustering, phenotypes []string, cl dataset.Clusterer, n int) ([]int, error) {
	l := c.Linkage
	if l == nil {
		if !c.Compute {
			order := make([]int, n)
			for i := range order {
				order[i] = i
			}
			return order, nil
		}
		if cl == nil {
			return nil, errors.Config("clustering %s needs a precomputed linkage or a clusterer", axis)
		}
		var err error
		if l, err = cl.Hierarchical(d, axis, phenotypes); err != nil {
			return nil, err
		}
	}
	if l.Len() != n {
		return nil, errors.Config("%s linkage clusters %d entries, have %d", axis, l.Len(), n)
	}
	return l.Leaves()
}

// A colorBar is a resolved annotation: one color per sample or
// feature, and its legend.
type colorBar struct {
	cb     Colorbar
	values []float64
	colors []color.NRGBA
}

func (b colorBar) value(i int) float64 {
	if b.values == nil {
		return math.NaN()
	}
	return b.values[i]
}

func sampleAnnotations(d *dataset.Dataset, anns []Annotation) ([]colorBar, error) {
	var bars []colorBar
	for _, a := range anns {
		v, err := d.Lookup(dataset.Samples, a.Key)
		if err != nil {
			return nil, err
		}
		b, err := annotate(a, v.Categorical, v.Labels, v.Values)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func featureAnnotations(d *dataset.Dataset, anns []Annotation) ([]colorBar, error) {
	var bars []colorBar
	for _, a := range anns {
		var b colorBar
		var err error
		if a.Key == MeanExpression {
			st, serr := d.Counts.Statistics("mean")
			if serr != nil {
				return nil, serr
			}
			b, err = annotate(a, false, nil, st["mean"])
		} else {
			col, ok := d.FeatureSheet.Column(a.Key)
			if !ok {
				return nil, errors.Lookup("%q is not a featuresheet column", a.Key)
			}
			b, err = annotate(a, col.Categorical, col.Labels, col.Values)
		}
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func annotate(a Annotation, categorical bool, labels []string, values []float64) (colorBar, error) {
	b := colorBar{cb: Colorbar{Name: a.Key, Qualitative: categorical}}
	if categorical {
		p := a.Palette
		if p == nil {
			p = encode.Named("deep")
		}
		cs, cats, err := encode.ResolveCategorical(labels, p, nil)
		if err != nil {
			return b, err
		}
		b.colors, b.cb.Categories = cs, cats
		return b, nil
	}
	p := a.Palette
	if p == nil {
		p = encode.Named("viridis")
	}
	cs, dom, err := encode.ResolveContinuous(values, p, encode.ContinuousOptions{})
	if err != nil {
		return b, err
	}
	b.values, b.colors, b.cb.Domain = values, cs, dom
	return b, nil
}

// tileTable accumulates the cells of a tile plot.
type tileTable struct {
	layer, row, col []string
	value, x, y     []float64
	fill            []color.Color
}

func (t *tileTable) add(layer, row, col string, value, x, y float64, fill color.Color) {
	t.layer = append(t.layer, layer)
	t.row = append(t.row, row)
	t.col = append(t.col, col)
	t.value = append(t.value, value)
	t.x = append(t.x, x)
	t.y = append(t.y, y)
	t.fill = append(t.fill, fill)
}

func (t *tileTable) done() *table.Table {
	return new(table.Builder).
		Add("layer", t.layer).
		Add("row", t.row).
		Add("column", t.col).
		Add("value", t.value).
		Add("x", t.x).
		Add("y", t.y).
		Add("fill", t.fill).
		Done()
}
