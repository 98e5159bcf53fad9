// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"image/color"
	"math"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"

	"github.com/singlet-bio/singlet/errors"
)

// ContinuousOptions configures ResolveContinuous.
type ContinuousOptions struct {
	// Log maps values through log10(v + Pseudocount) before
	// computing the domain and normalizing.
	Log bool

	// Pseudocount must be positive if Log is set.
	Pseudocount float64

	// Min and Max, if non-nil, fix the domain bounds instead of
	// taking them from the data. They are in the same units as
	// the values and are log-transformed along with them.
	Min, Max *float64

	// Default is the color of missing values, drawn at
	// MissingAlpha. If nil, DefaultColor is used.
	Default color.Color
}

// Domain is the legend of a continuous encoding: the bounds of the
// (possibly log-transformed) values and the color function they are
// normalized into.
type Domain struct {
	Min, Max    float64
	Log         bool
	Pseudocount float64
	Palette     palette.Continuous
}

// Transform applies the domain's log transform, if any, to v.
func (d Domain) Transform(v float64) float64 {
	if d.Log {
		return math.Log10(v + d.Pseudocount)
	}
	return v
}

// Normalize maps v into [0, 1]. Missing values stay NaN.
func (d Domain) Normalize(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	s := scale.Linear{Min: d.Min, Max: d.Max, Clamp: true}
	return s.Map(d.Transform(v))
}

// Color returns the color of v, which must not be missing.
func (d Domain) Color(v float64) color.NRGBA {
	return toNRGBA(d.Palette.Map(d.Normalize(v)))
}

// ResolveContinuous assigns a color to every entry of values. NaN
// entries are missing: they do not contribute to the domain and are
// drawn in the default color at MissingAlpha.
//
// It fails if the palette has no continuous form, if Log is set with a
// non-positive pseudocount, if no value is present, or if the domain
// is degenerate.
func ResolveContinuous(values []float64, p Palette, opts ContinuousOptions) ([]color.NRGBA, Domain, error) {
	cont, err := Continuous(p)
	if err != nil {
		return nil, Domain{}, err
	}
	d := Domain{Log: opts.Log, Palette: cont}
	if opts.Log {
		if !(opts.Pseudocount > 0) {
			return nil, Domain{}, errors.Config("log coloring needs a positive pseudocount, got %v", opts.Pseudocount)
		}
		d.Pseudocount = opts.Pseudocount
	}

	present := make([]float64, 0, len(values))
	for _, v := range values {
		if tv := d.Transform(v); isFinite(tv) {
			present = append(present, tv)
		}
	}
	lo, hi := stats.Bounds(present)
	if opts.Min != nil {
		lo = d.Transform(*opts.Min)
	}
	if opts.Max != nil {
		hi = d.Transform(*opts.Max)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return nil, Domain{}, errors.Config("no values to color")
	}
	if lo == hi {
		return nil, Domain{}, errors.Config("degenerate color domain [%v, %v]", lo, hi)
	}
	d.Min, d.Max = lo, hi

	missing := WithAlpha(opts.Default, MissingAlpha)
	out := make([]color.NRGBA, len(values))
	for i, v := range values {
		if !isFinite(d.Transform(v)) {
			out[i] = missing
			continue
		}
		out[i] = d.Color(v)
	}
	return out, d, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
