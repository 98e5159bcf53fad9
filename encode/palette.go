// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/palette/brewer"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/singlet-bio/singlet/errors"
)

// A Palette describes how colors are chosen. It is one of Named,
// Explicit, Listed, or Generator.
type Palette interface {
	isPalette()
}

// Named is a palette looked up by name. Continuous names ("viridis",
// "plasma", ...) resolve to color functions; qualitative names
// ("tab10", "Set1", ...) resolve to lists of colors. A "_r" suffix
// reverses the palette.
type Named string

// Explicit maps labels to colors. Labels absent from Colors get
// Default, or the caller's default color if Default is nil.
type Explicit struct {
	Colors  map[string]color.Color
	Default color.Color
}

// Listed is an ordered list of colors, assigned positionally to the
// sorted distinct labels.
type Listed []color.Color

// Generator is a continuous color function sampled on [0, 1].
type Generator struct {
	palette.Continuous
}

func (Named) isPalette()     {}
func (Explicit) isPalette()  {}
func (Listed) isPalette()    {}
func (Generator) isPalette() {}

var (
	plasma = gradient("#0d0887", "#4b03a1", "#7d03a8", "#a82296", "#cb4679",
		"#e56b5d", "#f89441", "#fdc328", "#f0f921")
	inferno = gradient("#000004", "#280b54", "#65156e", "#9f2a63", "#d44842",
		"#f57d15", "#fac127", "#fcffa4")
	magma = gradient("#000004", "#1c1044", "#4f127b", "#812581", "#b5367a",
		"#e55064", "#fb8761", "#fec287", "#fcfdbf")
	cividis = gradient("#00224e", "#123570", "#3b496c", "#575d6d", "#707173",
		"#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838")
	coolwarm = gradient("#3b4cc0", "#6788ee", "#9abbff", "#c9d7f0", "#edd1c2",
		"#f7a889", "#e26952", "#b40426")
	greys = gradient("#ffffff", "#000000")
)

var continuousPalettes = map[string]palette.Continuous{
	"viridis":  palette.Viridis,
	"plasma":   plasma,
	"inferno":  inferno,
	"magma":    magma,
	"cividis":  cividis,
	"coolwarm": coolwarm,
	"greys":    greys,
}

var qualitativePalettes = map[string][]color.Color{
	"tab10": colors("#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"),
	"tab20": colors("#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
		"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5", "#8c564b",
		"#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f", "#c7c7c7", "#bcbd22",
		"#dbdb8d", "#17becf", "#9edae5"),
	"deep": colors("#4c72b0", "#dd8452", "#55a868", "#c44e52", "#8172b3",
		"#937860", "#da8bc3", "#8c8c8c", "#ccb974", "#64b5cd"),
}

// brewerByName indexes brewer.ByName case-insensitively.
var brewerByName = func() map[string]map[int][]color.Color {
	m := make(map[string]map[int][]color.Color, len(brewer.ByName))
	for name, levels := range brewer.ByName {
		m[strings.ToLower(name)] = levels
	}
	return m
}()

// Gradient is a continuous palette that interpolates linearly in
// sRGB between evenly spaced colors on [0, 1]. Unlike
// palette.RGBGradient, it blends within the first segment too.
type Gradient []color.NRGBA

func (g Gradient) Map(x float64) color.Color {
	switch {
	case len(g) == 1:
		return g[0]
	case !(x > 0):
		return g[0]
	case x >= 1:
		return g[len(g)-1]
	}
	pos := x * float64(len(g)-1)
	i := int(pos)
	fr := pos - float64(i)
	a, b := g[i], g[i+1]
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, gr, bl := ca.BlendRgb(cb, fr).Clamped().RGB255()
	alpha := uint8(math.Round(float64(a.A) + fr*(float64(b.A)-float64(a.A))))
	return color.NRGBA{r, gr, bl, alpha}
}

func gradient(hexes ...string) Gradient {
	g := make(Gradient, len(hexes))
	for i, h := range hexes {
		g[i] = MustParseColor(h)
	}
	return g
}

func colors(hexes ...string) []color.Color {
	cs := make([]color.Color, len(hexes))
	for i, h := range hexes {
		cs[i] = MustParseColor(h)
	}
	return cs
}

type reversed struct {
	palette.Continuous
}

func (r reversed) Map(x float64) color.Color {
	return r.Continuous.Map(1 - x)
}

// namedPalette is the resolved form of a Named palette. Exactly one of
// cont and levels is set.
type namedPalette struct {
	cont   palette.Continuous
	levels map[int][]color.Color
}

func lookupNamed(n Named) (namedPalette, error) {
	name := strings.ToLower(string(n))
	rev := strings.HasSuffix(name, "_r")
	name = strings.TrimSuffix(name, "_r")

	var np namedPalette
	if c, ok := continuousPalettes[name]; ok {
		np.cont = c
	} else if cs, ok := qualitativePalettes[name]; ok {
		np.levels = map[int][]color.Color{len(cs): cs}
	} else if levels, ok := brewerByName[name]; ok {
		np.levels = levels
	} else {
		return np, errors.Config("unknown palette %q", string(n))
	}

	if rev {
		if np.cont != nil {
			np.cont = reversed{np.cont}
		} else {
			rl := make(map[int][]color.Color, len(np.levels))
			for k, cs := range np.levels {
				r := make([]color.Color, len(cs))
				for i, c := range cs {
					r[len(cs)-1-i] = c
				}
				rl[k] = r
			}
			np.levels = rl
		}
	}
	return np, nil
}

// largest returns the variant with the most levels.
func largest(levels map[int][]color.Color) []color.Color {
	best := -1
	for k := range levels {
		if k > best {
			best = k
		}
	}
	return levels[best]
}

// atLeast returns the smallest variant with at least n levels, or nil.
func atLeast(levels map[int][]color.Color, n int) []color.Color {
	keys := make([]int, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if k >= n {
			return levels[k]
		}
	}
	return nil
}

// Continuous returns the continuous color function of p. Listed and
// named discrete palettes are interpolated; Explicit palettes have no
// continuous form.
func Continuous(p Palette) (palette.Continuous, error) {
	switch p := p.(type) {
	case Generator:
		if p.Continuous == nil {
			return nil, errors.Config("generator palette has no color function")
		}
		return p.Continuous, nil
	case Named:
		np, err := lookupNamed(p)
		if err != nil {
			return nil, err
		}
		if np.cont != nil {
			return np.cont, nil
		}
		return interpolate(largest(np.levels))
	case Listed:
		return interpolate(p)
	case Explicit:
		return nil, errors.Config("an explicit label mapping cannot color continuous values")
	case nil:
		return nil, errors.Config("no palette")
	}
	return nil, errors.Config("unsupported palette %T", p)
}

func interpolate(cs []color.Color) (palette.Continuous, error) {
	if len(cs) == 0 {
		return nil, errors.Config("empty palette")
	}
	g := make(Gradient, len(cs))
	for i, c := range cs {
		g[i] = toNRGBA(c)
	}
	return g, nil
}
