// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// DistributionOptions configures Distributions.
type DistributionOptions struct {
	// Features is "spikeins" or "other". FeatureNames, if
	// non-nil, lists the features instead.
	Features     string
	FeatureNames []string

	// Kind is "violin" (the default), "box", or "swarm".
	Kind string

	// Orientation is "vertical" (the default), with counts on
	// the Y axis, or "horizontal".
	Orientation string

	// Sort orders features by median count: "ascending" or
	// "descending". If empty, features keep their order.
	Sort string

	// Counts below Bottom are raised to it. If
	// BottomPseudocount is set, the counts table's pseudocount
	// is used instead.
	Bottom            float64
	BottomPseudocount bool

	Props map[string]any
}

// Distributions plots the distribution of counts of each selected
// feature across samples, one panel per feature.
func Distributions(d *dataset.Dataset, opts DistributionOptions) (*Figure, error) {
	if opts.Kind == "" {
		opts.Kind = "violin"
	}
	if opts.Orientation == "" {
		opts.Orientation = "vertical"
	}
	switch opts.Kind {
	case "violin", "box", "swarm":
	default:
		return nil, errors.Config("unknown distribution plot kind %q", opts.Kind)
	}
	if err := checkOrientation(opts.Orientation); err != nil {
		return nil, err
	}
	if opts.Features == "" && opts.FeatureNames == nil {
		return nil, errors.Config("no features to plot")
	}
	props, err := NormalizeProps(opts.Props, nil)
	if err != nil {
		return nil, err
	}

	counts, err := selectFeatures(d.Counts, opts.Features, opts.FeatureNames, true, "spikeins", "other")
	if err != nil {
		return nil, err
	}
	if len(counts.Features) == 0 {
		return nil, errors.Config("no features to plot")
	}

	features := append([]string(nil), counts.Features...)
	switch opts.Sort {
	case "":
	case "ascending", "descending":
		med := make(map[string]float64, len(features))
		for _, f := range features {
			med[f], _ = counts.Median(f)
		}
		desc := opts.Sort == "descending"
		sort.SliceStable(features, func(i, j int) bool {
			a, b := med[features[i]], med[features[j]]
			if desc {
				return a > b
			}
			return a < b
		})
	default:
		return nil, errors.Config("sort must be \"ascending\" or \"descending\", got %q", opts.Sort)
	}

	bottom := opts.Bottom
	if opts.BottomPseudocount {
		bottom = counts.Pseudocount
	}

	// Long form: one row per (feature, sample) count.
	var names []string
	var index []int
	var values []float64
	for i, f := range features {
		row, _ := counts.Row(f)
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			names = append(names, f)
			index = append(index, i)
			values = append(values, math.Max(v, bottom))
		}
	}
	_, max := stats.Bounds(values)

	valueAxis := Axis{Label: countsLabel(counts.Normalized), Min: 0.9 * bottom, Max: 1.1 * max}
	posAxis := autoAxis("")

	long := new(table.Builder).
		Add("feature", names).
		Add("index", index).
		Add("counts", values).
		Done()

	f := newFigure("distributions", long, props)
	if opts.Orientation == "vertical" {
		f.X, f.Y = posAxis, valueAxis
	} else {
		f.X, f.Y = valueAxis, posAxis
	}
	fill := props.color(encode.DefaultColor)

	// xy orders a position and a value column as X and Y.
	xy := func(pos, val string) (string, string) {
		if opts.Orientation == "vertical" {
			return pos, val
		}
		return val, pos
	}
	facet := gg.FacetCommon{
		Col: "index",
		Labeler: func(v interface{}) string {
			if i, ok := v.(int); ok && i >= 0 && i < len(features) {
				return features[i]
			}
			return ""
		},
	}
	addFacet := func(p *gg.Plot) {
		if opts.Orientation == "vertical" {
			p.Add(gg.FacetX(facet))
		} else {
			p.Add(gg.FacetY(facet))
		}
	}

	switch opts.Kind {
	case "violin":
		bw := stats.BandwidthScott(stats.Sample{Xs: values})
		if !(bw > 0) {
			bw = 1
		}
		p := f.Plot
		p.GroupBy("index")
		p.Stat(ggstat.Density{X: "counts", Bandwidth: bw, Widen: 1, SplitGroups: true})
		p.Stat(violinOutline{X: "counts", Key: "index"})
		addFacet(p)
		x, y := xy("width", "counts")
		p.Add(gg.LayerPaths{X: x, Y: y, Fill: p.Const(fill)})

	case "box":
		summary, paths := boxPaths(features, counts, bottom)
		f.Table = summary
		p := gg.NewPlot(paths)
		f.Plot = p
		addFacet(p)
		p.GroupBy("path")
		x, y := xy("pos", "value")
		p.Add(gg.LayerPaths{X: x, Y: y, Color: p.Const(fill)})

	case "swarm":
		pos := make([]float64, len(values))
		k := 0
		for i := range values {
			if i > 0 && index[i] != index[i-1] {
				k = 0
			}
			pos[i] = float64(k%9-4) * 0.08
			k++
		}
		p := gg.NewPlot(table.NewBuilder(long).Add("pos", pos).Done())
		f.Plot = p
		addFacet(p)
		x, y := xy("pos", "counts")
		p.Add(gg.LayerPoints{X: x, Y: y, Color: p.Const(fill)})
	}
	f.finish()
	return f, nil
}

// boxPaths computes the quartiles and whiskers of each feature and
// the outline paths of their box plots.
func boxPaths(features []string, counts *dataset.CountsTable, bottom float64) (summary, paths *table.Table) {
	var q1s, meds, q3s, lows, highs []float64

	var pIndex []int
	var pPath []string
	var pPos, pValue []float64
	add := func(i int, name string, pts ...[2]float64) {
		for _, pt := range pts {
			pIndex = append(pIndex, i)
			pPath = append(pPath, features[i]+"/"+name)
			pPos = append(pPos, pt[0])
			pValue = append(pValue, pt[1])
		}
	}

	for i, f := range features {
		row, _ := counts.Row(f)
		var xs []float64
		for _, v := range row {
			if !math.IsNaN(v) {
				xs = append(xs, math.Max(v, bottom))
			}
		}
		s := stats.Sample{Xs: xs}
		s.Sort()
		q1, med, q3 := s.Quantile(0.25), s.Quantile(0.5), s.Quantile(0.75)
		iqr := q3 - q1
		lo, hi := q1, q3
		for _, x := range s.Xs {
			if x >= q1-1.5*iqr {
				lo = math.Min(lo, x)
				break
			}
		}
		for j := len(s.Xs) - 1; j >= 0; j-- {
			if x := s.Xs[j]; x <= q3+1.5*iqr {
				hi = math.Max(hi, x)
				break
			}
		}
		q1s, meds, q3s = append(q1s, q1), append(meds, med), append(q3s, q3)
		lows, highs = append(lows, lo), append(highs, hi)

		const w = 0.3
		add(i, "box", [2]float64{-w, q1}, [2]float64{w, q1}, [2]float64{w, q3}, [2]float64{-w, q3}, [2]float64{-w, q1})
		add(i, "median", [2]float64{-w, med}, [2]float64{w, med})
		add(i, "low", [2]float64{0, q1}, [2]float64{0, lo})
		add(i, "high", [2]float64{0, q3}, [2]float64{0, hi})
	}

	summary = new(table.Builder).
		Add("feature", features).
		Add("q1", q1s).
		Add("median", meds).
		Add("q3", q3s).
		Add("low", lows).
		Add("high", highs).
		Done()
	paths = new(table.Builder).
		Add("index", pIndex).
		Add("path", pPath).
		Add("pos", pPos).
		Add("value", pValue).
		Done()
	return summary, paths
}
