// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import "math"

// SizeMap maps the fraction of entities passing a threshold to a dot
// size: MinSize + (fraction*Scale)^Exponent.
type SizeMap struct {
	MinSize  float64
	Exponent float64
	Scale    float64
}

// DefaultSizeMap returns the dot-plot size map with the given minimum
// size, exponent 2, and scale 11.
func DefaultSizeMap(minSize float64) SizeMap {
	return SizeMap{MinSize: minSize, Exponent: 2, Scale: 11}
}

// Size returns the size of a dot for fraction. Fractions outside
// [0, 1] are not clamped.
func (m SizeMap) Size(fraction float64) float64 {
	return m.MinSize + math.Pow(fraction*m.Scale, m.Exponent)
}

// SizeFromFraction is DefaultSizeMap(minSize).Size(fraction).
func SizeFromFraction(fraction, minSize float64) float64 {
	return DefaultSizeMap(minSize).Size(fraction)
}
