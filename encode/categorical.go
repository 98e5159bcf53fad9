// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"image/color"
	"math"
	"sort"
	"strconv"

	"github.com/aclements/go-moremath/vec"

	"github.com/singlet-bio/singlet/errors"
)

// Categories is the legend of a categorical encoding.
type Categories struct {
	// Labels is the sorted set of distinct labels.
	Labels []string

	// Colors maps each label in Labels to its color.
	Colors map[string]color.NRGBA
}

// Ordered returns the colors of c.Labels, in order.
func (c Categories) Ordered() []color.NRGBA {
	out := make([]color.NRGBA, len(c.Labels))
	for i, l := range c.Labels {
		out[i] = c.Colors[l]
	}
	return out
}

// ResolveCategorical assigns a color to every entry of values.
//
// The distinct labels are sorted in natural order: numerically if
// every label parses as a number, lexicographically otherwise. A
// Generator or continuous Named palette is sampled at evenly spaced
// points of [0, 1], one per label. An Explicit palette is looked up
// per label, falling back to def. Listed and discrete Named palettes
// are assigned positionally and must have at least as many colors as
// there are labels.
func ResolveCategorical(values []string, p Palette, def color.Color) ([]color.NRGBA, Categories, error) {
	labels := UniqueLabels(values)

	palette, err := categoryColors(labels, p, def)
	if err != nil {
		return nil, Categories{}, err
	}

	cats := Categories{Labels: labels, Colors: make(map[string]color.NRGBA, len(labels))}
	for i, l := range labels {
		cats.Colors[l] = palette[i]
	}
	out := make([]color.NRGBA, len(values))
	for i, v := range values {
		out[i] = cats.Colors[v]
	}
	return out, cats, nil
}

func categoryColors(labels []string, p Palette, def color.Color) ([]color.NRGBA, error) {
	n := len(labels)
	sample := func(f interface{ Map(float64) color.Color }) []color.NRGBA {
		out := make([]color.NRGBA, n)
		if n == 0 {
			return out
		}
		for i, x := range vec.Linspace(0, 1, n) {
			out[i] = toNRGBA(f.Map(x))
		}
		return out
	}
	positional := func(cs []color.Color, what string) ([]color.NRGBA, error) {
		if len(cs) < n {
			return nil, errors.Config("%s has %d colors but there are %d categories", what, len(cs), n)
		}
		out := make([]color.NRGBA, n)
		for i := range out {
			out[i] = toNRGBA(cs[i])
		}
		return out, nil
	}

	switch p := p.(type) {
	case Generator:
		if p.Continuous == nil {
			return nil, errors.Config("generator palette has no color function")
		}
		return sample(p.Continuous), nil

	case Named:
		np, err := lookupNamed(p)
		if err != nil {
			return nil, err
		}
		if np.cont != nil {
			return sample(np.cont), nil
		}
		cs := atLeast(np.levels, n)
		if cs == nil {
			cs = largest(np.levels)
		}
		return positional(cs, "palette "+strconv.Quote(string(p)))

	case Explicit:
		fallback := def
		if p.Default != nil {
			fallback = p.Default
		}
		out := make([]color.NRGBA, n)
		for i, l := range labels {
			if c, ok := p.Colors[l]; ok {
				out[i] = toNRGBA(c)
			} else {
				out[i] = toNRGBA(fallback)
			}
		}
		return out, nil

	case Listed:
		return positional(p, "palette")

	case nil:
		return nil, errors.Config("no palette")
	}
	return nil, errors.Config("unsupported palette %T", p)
}

// UniqueLabels returns the distinct values in natural order.
func UniqueLabels(values []string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			labels = append(labels, v)
		}
	}
	SortLabels(labels)
	return labels
}

// SortLabels sorts labels numerically if they all parse as numbers
// and lexicographically otherwise.
func SortLabels(labels []string) {
	nums := make(map[string]float64, len(labels))
	for _, l := range labels {
		x, err := strconv.ParseFloat(l, 64)
		if err != nil || math.IsNaN(x) {
			sort.Strings(labels)
			return
		}
		nums[l] = x
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := nums[labels[i]], nums[labels[j]]
		if a != b {
			return a < b
		}
		return labels[i] < labels[j]
	})
}
