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
	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// Dot plot defaults.
const (
	DefaultThreshold = 10
	DefaultMinSize   = 2
)

// DotPlotOptions configures DotPlot.
type DotPlotOptions struct {
	// GroupAxis is the axis that is grouped. Samples groups
	// samples and plots features (or sample metadata); Features
	// groups features and plots samples.
	GroupAxis dataset.Axis

	// GroupBy is the metadata column of GroupAxis to group by.
	GroupBy string

	// GroupOrder lists the groups to draw, in order. If nil, all
	// groups are drawn in natural label order.
	GroupOrder []string

	// PlotList names the counts or metadata columns to plot.
	PlotList []string

	// ColorLog selects log levels. If nil, counts are logged and
	// metadata are not.
	ColorLog *bool

	// Vmin and Vmax bound the color scale. The zero Bound means
	// the extreme level across the whole plot.
	Vmin, Vmax Bound

	// Threshold is the count at or above which an entry is
	// considered expressed. Zero means DefaultThreshold.
	Threshold float64

	// MinSize is the size of a dot with fraction 0. Zero means
	// DefaultMinSize.
	MinSize float64

	// Layout is "horizontal" (groups as rows, the default) or
	// "vertical".
	Layout string

	// Palette defaults to plasma.
	Palette encode.Palette

	Props map[string]any
}

// BoundKind selects how a Bound is computed.
type BoundKind int

const (
	// BoundAll takes the extreme level across all plotted items.
	BoundAll BoundKind = iota
	// BoundSingle takes the extreme level of each item separately.
	BoundSingle
	// BoundValue uses Bound.Value.
	BoundValue
)

// A Bound is one end of a dot plot color scale.
type Bound struct {
	Kind  BoundKind
	Value float64
}

// ParseBound parses one end of a color scale. The lower end accepts
// "min", "min_single", or a number; the upper end accepts "max",
// "max_single", or a number.
func ParseBound(s string, upper bool) (Bound, error) {
	end, other := "min", "max"
	if upper {
		end, other = "max", "min"
	}
	switch s {
	case end:
		return Bound{Kind: BoundAll}, nil
	case end + "_single":
		return Bound{Kind: BoundSingle}, nil
	case other, other + "_single":
		return Bound{}, errors.Config("%q cannot bound the %s of the scale", s, end)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Bound{}, errors.Config("bound must be %s, %s_single, or a number, got %q", end, end, s)
	}
	return Bound{Kind: BoundValue, Value: v}, nil
}

func (b Bound) resolve(all, single [2]float64, upper bool) float64 {
	i := 0
	if upper {
		i = 1
	}
	switch b.Kind {
	case BoundSingle:
		return single[i]
	case BoundValue:
		return b.Value
	}
	return all[i]
}

// dot is one (item, group) cell of a dot plot.
type dot struct {
	item, group     string
	fraction, level float64
	x, y            float64
}

// DotPlot groups samples (or features) and draws one dot per plotted
// item and group. A dot's size shows the fraction of group members at
// or above the threshold and its color the mean level in the group.
// The size and color mappings are recorded in legends.
func DotPlot(d *dataset.Dataset, opts DotPlotOptions, legends *Legends) (*Figure, error) {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MinSize == 0 {
		opts.MinSize = DefaultMinSize
	}
	if opts.Layout == "" {
		opts.Layout = "horizontal"
	}
	if opts.Layout != "horizontal" && opts.Layout != "vertical" {
		return nil, errors.Config("layout must be \"horizontal\" or \"vertical\", got %q", opts.Layout)
	}
	if opts.Palette == nil {
		opts.Palette = encode.Named("plasma")
	}
	cmap, err := encode.Continuous(opts.Palette)
	if err != nil {
		return nil, err
	}
	props, err := NormalizeProps(opts.Props, nil)
	if err != nil {
		return nil, err
	}
	if len(opts.PlotList) == 0 {
		return nil, errors.Config("nothing to plot")
	}

	gcol, ok := d.Sheet(opts.GroupAxis).Column(opts.GroupBy)
	if !ok {
		return nil, errors.Lookup("%q is not a %s metadata column", opts.GroupBy, opts.GroupAxis)
	}
	membership := gcol.Strings()
	present := encode.UniqueLabels(membership)
	groups := opts.GroupOrder
	if groups == nil {
		groups = present
	}
	isPresent := make(map[string]bool, len(present))
	for _, g := range present {
		isPresent[g] = true
	}

	var dots []dot
	for ii, item := range opts.PlotList {
		values, counts, err := dotValues(d, opts.GroupAxis, item)
		if err != nil {
			return nil, err
		}
		clog := counts
		if opts.ColorLog != nil {
			clog = *opts.ColorLog
		}
		for gi, g := range groups {
			if !isPresent[g] {
				continue
			}
			var n, above int
			var levels []float64
			for k, m := range membership {
				if m != g {
					continue
				}
				n++
				v := values[k]
				if v >= opts.Threshold {
					above++
				}
				if math.IsNaN(v) {
					continue
				}
				if clog {
					v = math.Log10(v + d.Counts.Pseudocount)
				}
				levels = append(levels, v)
			}
			level := math.NaN()
			if len(levels) > 0 {
				level = stats.Mean(levels)
			}
			dt := dot{item: item, group: g, fraction: float64(above) / float64(n), level: level}
			dt.x, dt.y = float64(ii), float64(gi)
			if opts.Layout == "vertical" {
				dt.x, dt.y = dt.y, dt.x
			}
			dots = append(dots, dt)
		}
	}

	all := levelBounds(dots, "")
	dm := &DotMap{
		Sizes:  encode.DefaultSizeMap(opts.MinSize),
		Colors: cmap,
		Bounds: make(map[string][2]float64, len(opts.PlotList)),
	}
	for _, item := range opts.PlotList {
		single := levelBounds(dots, item)
		dm.Bounds[item] = [2]float64{
			opts.Vmin.resolve(all, single, false),
			opts.Vmax.resolve(all, single, true),
		}
	}

	n := len(dots)
	var (
		items, grps   = make([]string, n), make([]string, n)
		fracs, levels = make([]float64, n), make([]float64, n)
		sizes, shades = make([]float64, n), make([]float64, n)
		xs, ys        = make([]float64, n), make([]float64, n)
		colors        = make([]color.Color, n)
	)
	missing := encode.WithAlpha(encode.DefaultColor, encode.MissingAlpha)
	for i, dt := range dots {
		b := dm.Bounds[dt.item]
		items[i], grps[i] = dt.item, dt.group
		fracs[i], levels[i] = dt.fraction, dt.level
		sizes[i] = dm.Sizes.Size(dt.fraction)
		shades[i] = shade(dt.level, b[0], b[1])
		xs[i], ys[i] = dt.x, dt.y
		if math.IsNaN(dt.level) {
			colors[i] = missing
		} else {
			colors[i] = dm.Color(dt.item, dt.level)
		}
	}
	tab := new(table.Builder).
		Add("item", items).
		Add("group", grps).
		Add("fraction", fracs).
		Add("level", levels).
		Add("size", sizes).
		Add("shade", shades).
		Add("x", xs).
		Add("y", ys).
		Add("color", colors).
		Done()

	f := newFigure("dotplot", tab, props)
	itemLabel := "features"
	if opts.GroupAxis == dataset.Features {
		itemLabel = "samples"
	}
	itemAxis := Axis{Label: itemLabel, Min: -0.5, Max: float64(len(opts.PlotList)) - 0.5}
	groupAxis := Axis{Label: opts.GroupBy, Min: -0.5, Max: float64(len(groups)) - 0.5}
	f.X, f.Y = itemAxis, groupAxis
	if opts.Layout == "vertical" {
		f.X, f.Y = groupAxis, itemAxis
	}
	f.Plot.Add(gg.LayerPoints{X: "x", Y: "y", Color: "color", Size: "size"})
	f.finish()

	legends.setDots(f.ID, dm)
	return f, nil
}

// dotValues returns the values of item for every entry along axis and
// whether they are counts. Counts take precedence over metadata and
// missing counts are zero.
func dotValues(d *dataset.Dataset, axis dataset.Axis, item string) ([]float64, bool, error) {
	var values []float64
	var err error
	switch {
	case axis == dataset.Samples && d.Counts.HasFeature(item):
		values, err = d.Counts.Row(item)
	case axis == dataset.Features && d.Counts.HasSample(item):
		values, err = d.Counts.Column(item)
	default:
		col, ok := d.Sheet(axis).Column(item)
		if !ok {
			return nil, false, errors.Lookup("%q is neither a counts entry nor a %s metadata column", item, axis)
		}
		if col.Categorical {
			return nil, false, errors.Config("cannot plot categorical column %q", item)
		}
		return col.Values, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			out[i] = v
		}
	}
	return out, true, nil
}

// levelBounds returns the extreme levels of the dots of item, or of
// all dots if item is "".
func levelBounds(dots []dot, item string) [2]float64 {
	var levels []float64
	for _, dt := range dots {
		if (item == "" || dt.item == item) && !math.IsNaN(dt.level) {
			levels = append(levels, dt.level)
		}
	}
	lo, hi := stats.Bounds(levels)
	return [2]float64{lo, hi}
}

// shade normalizes level into [0, 1] between min and max.
func shade(level, min, max float64) float64 {
	return scale.Linear{Min: min, Max: max, Clamp: true}.Map(level)
}
