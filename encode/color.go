// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/singlet-bio/singlet/errors"
)

// MissingAlpha is the opacity given to the default color of rows
// whose value is missing.
const MissingAlpha = 0.3

// DefaultColor is the color used for missing categories, missing
// values, and uncolored plots.
var DefaultColor = color.NRGBA{0xa9, 0xa9, 0xa9, 0xff} // darkgrey

// ParseColor parses a CSS color name ("darkgrey") or a hex color
// ("#rgb", "#rrggbb", or "#rrggbbaa").
func ParseColor(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, nil
	}
	if !strings.HasPrefix(name, "#") {
		return color.NRGBA{}, errors.Config("unknown color %q", s)
	}
	hex := name[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.NRGBA{}, errors.Config("malformed hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Config("malformed hex color %q", s)
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// MustParseColor is like ParseColor but panics on error. It is
// intended for package-level color tables.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" if c is translucent.
func Hex(c color.Color) string {
	n := toNRGBA(c)
	if n.A == 0xff {
		return "#" + hex2(n.R) + hex2(n.G) + hex2(n.B)
	}
	return "#" + hex2(n.R) + hex2(n.G) + hex2(n.B) + hex2(n.A)
}

func hex2(b uint8) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xf]})
}

// WithAlpha returns c with its opacity replaced by alpha in [0, 1].
func WithAlpha(c color.Color, alpha float64) color.NRGBA {
	n := toNRGBA(c)
	n.A = uint8(math.Round(clamp01(alpha) * 255))
	return n
}

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return DefaultColor
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	} else if x > 1 {
		return 1
	}
	return x
}
