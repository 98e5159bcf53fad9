// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image/color"
	"math"
	"strconv"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/vec"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// interpolationPoints is the number of points drawn per interpolated
// group.
const interpolationPoints = 100

// AbundanceOptions configures GroupAbundanceChanges.
type AbundanceOptions struct {
	// GroupBy and Along are samplesheet columns. Samples are
	// counted per (group, along) pair.
	GroupBy, Along string

	// Kind is "number" (the default), "fraction", or "percent".
	// The latter two normalize each along value across groups.
	Kind string

	// GroupOrder and AlongOrder select and order the groups and
	// along values. If nil, all values in natural order are used.
	GroupOrder, AlongOrder []string

	// NoScatter hides the points. Interpolate draws a monotonic
	// cubic through each group's points.
	NoScatter, Interpolate bool

	// Palette colors the groups. Explicit palettes are looked up
	// by group; other palettes are assigned in group order.
	// It defaults to tab10. A color in ScatterProps or
	// InterpolateProps overrides it for that layer.
	Palette encode.Palette

	// YMin floors the abundances, for example to allow log plots.
	YMin float64

	// LogBase, if positive, plots log_LogBase of the abundances.
	LogBase float64

	ScatterProps, InterpolateProps map[string]any
}

// GroupAbundanceChanges plots how the number of samples in each group
// changes along another sample property, such as time. Group colors
// are recorded in legends under "groups".
func GroupAbundanceChanges(d *dataset.Dataset, opts AbundanceOptions, legends *Legends) (*Figure, error) {
	if opts.Kind == "" {
		opts.Kind = "number"
	}
	var norm float64
	switch opts.Kind {
	case "number":
	case "fraction":
		norm = 1
	case "percent":
		norm = 100
	default:
		return nil, errors.Config("abundance kind must be number, fraction, or percent, got %q", opts.Kind)
	}
	if opts.Palette == nil {
		opts.Palette = encode.Named("tab10")
	}
	props, err := NormalizeProps(opts.ScatterProps, nil)
	if err != nil {
		return nil, err
	}
	lineProps, err := NormalizeProps(opts.InterpolateProps, nil)
	if err != nil {
		return nil, err
	}

	var cols [2][]string
	for i, name := range []string{opts.GroupBy, opts.Along} {
		col, ok := d.SampleSheet.Column(name)
		if !ok {
			return nil, errors.Lookup("%q is not a samplesheet column", name)
		}
		cols[i] = col.Strings()
	}
	groups, err := pickOrder(encode.UniqueLabels(cols[0]), opts.GroupOrder, opts.GroupBy)
	if err != nil {
		return nil, err
	}
	along, err := pickOrder(encode.UniqueLabels(cols[1]), opts.AlongOrder, opts.Along)
	if err != nil {
		return nil, err
	}

	// Counts are normalized over all groups, not just the selected
	// ones.
	type cell struct{ g, a string }
	counts := make(map[cell]float64)
	totals := make(map[string]float64)
	for i, g := range cols[0] {
		counts[cell{g, cols[1][i]}]++
		totals[cols[1][i]]++
	}
	abundance := func(g, a string) float64 {
		v := counts[cell{g, a}]
		if norm != 0 {
			v = norm * v / totals[a]
		}
		v = math.Max(v, opts.YMin)
		if opts.LogBase > 0 {
			v = math.Log(v) / math.Log(opts.LogBase)
		}
		return v
	}

	colors, cats, err := groupColors(groups, opts.Palette)
	if err != nil {
		return nil, err
	}

	var pg, pa []string
	var px, py []float64
	var pc []color.Color
	var lg []string
	var lx, ly []float64
	var lc []color.Color
	xs := make([]float64, len(along))
	for j := range along {
		xs[j] = float64(j)
	}
	for i, g := range groups {
		ys := make([]float64, len(along))
		for j, a := range along {
			ys[j] = abundance(g, a)
			pg, pa = append(pg, g), append(pa, a)
			px, py = append(px, xs[j]), append(py, ys[j])
			pc = append(pc, props.color(colors[i]))
		}
		if !opts.Interpolate {
			continue
		}
		ip, err := newPCHIP(xs, ys)
		if err != nil {
			return nil, err
		}
		for _, x := range vec.Linspace(xs[0], xs[len(xs)-1], interpolationPoints) {
			lg = append(lg, g)
			lx, ly = append(lx, x), append(ly, ip.At(x))
			lc = append(lc, lineProps.color(colors[i]))
		}
	}

	points := new(table.Builder).
		Add("group", pg).
		Add("along", pa).
		Add("x", px).
		Add("y", py).
		Add("color", pc).
		Done()
	f := newFigure("abundance", points, props)
	f.X = autoAxis(opts.Along)
	f.Y = autoAxis(capitalize(opts.Kind) + " of samples")
	if !opts.NoScatter {
		f.Plot.Add(gg.LayerPoints{X: "x", Y: "y", Color: "color"})
	}
	if opts.Interpolate {
		lines := new(table.Builder).
			Add("group", lg).
			Add("x", lx).
			Add("y", ly).
			Add("color", lc).
			Done()
		f.Plot.SetData(lines).GroupBy("group")
		f.Plot.Add(gg.LayerLines{X: "x", Y: "y", Color: "color"})
	}
	f.finish()

	legends.setCategories(f.ID, "groups", cats)
	return f, nil
}

// pickOrder returns order, checking that every entry is one of
// labels, or labels itself if order is nil.
func pickOrder(labels, order []string, column string) ([]string, error) {
	if order == nil {
		return labels, nil
	}
	known := make(map[string]bool, len(labels))
	for _, l := range labels {
		known[l] = true
	}
	for _, o := range order {
		if !known[o] {
			return nil, errors.Lookup("%q is not a value of %q", o, column)
		}
	}
	return order, nil
}

// groupColors assigns colors to groups in the given order.
func groupColors(groups []string, p encode.Palette) ([]color.NRGBA, encode.Categories, error) {
	if _, ok := p.(encode.Explicit); ok {
		_, cats, err := encode.ResolveCategorical(groups, p, nil)
		if err != nil {
			return nil, cats, err
		}
		cats.Labels = groups
		return cats.Ordered(), cats, nil
	}
	// Positional palettes follow the group order, which need not
	// be the natural order of the labels. Resolve by position.
	pos := make([]string, len(groups))
	for i := range pos {
		pos[i] = strconv.Itoa(i)
	}
	cs, _, err := encode.ResolveCategorical(pos, p, nil)
	if err != nil {
		return nil, encode.Categories{}, err
	}
	cats := encode.Categories{Labels: groups, Colors: make(map[string]color.NRGBA, len(groups))}
	for i, g := range groups {
		cats.Colors[g] = cs[i]
	}
	return cs, cats, nil
}
