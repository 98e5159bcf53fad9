// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"math"
	"sort"

	"github.com/singlet-bio/singlet/errors"
)

// pchip is a piecewise cubic Hermite interpolant whose slopes are
// chosen to preserve the monotonicity of the data (Fritsch-Carlson,
// with the three-point end conditions used by SciPy).
type pchip struct {
	xs, ys, ds []float64
}

func newPCHIP(xs, ys []float64) (*pchip, error) {
	n := len(xs)
	if n != len(ys) {
		return nil, errors.Config("interpolation needs as many x as y values, got %d and %d", n, len(ys))
	}
	if n < 2 {
		return nil, errors.Config("interpolation needs at least 2 points, got %d", n)
	}
	for i := 1; i < n; i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, errors.Config("interpolation x values must be strictly increasing")
		}
	}

	h := make([]float64, n-1)
	m := make([]float64, n-1)
	for k := range h {
		h[k] = xs[k+1] - xs[k]
		m[k] = (ys[k+1] - ys[k]) / h[k]
	}
	ds := make([]float64, n)
	if n == 2 {
		ds[0], ds[1] = m[0], m[0]
		return &pchip{xs, ys, ds}, nil
	}

	for k := 1; k < n-1; k++ {
		if m[k-1] == 0 || m[k] == 0 || sign(m[k-1]) != sign(m[k]) {
			continue
		}
		w1 := 2*h[k] + h[k-1]
		w2 := h[k] + 2*h[k-1]
		ds[k] = (w1 + w2) / (w1/m[k-1] + w2/m[k])
	}
	ds[0] = pchipEnd(h[0], h[1], m[0], m[1])
	ds[n-1] = pchipEnd(h[n-2], h[n-3], m[n-2], m[n-3])
	return &pchip{xs, ys, ds}, nil
}

// pchipEnd is the one-sided three-point slope at an end point, where
// h0 and m0 describe the end interval and h1 and m1 its neighbor.
func pchipEnd(h0, h1, m0, m1 float64) float64 {
	d := ((2*h0+h1)*m0 - h0*m1) / (h0 + h1)
	if sign(d) != sign(m0) {
		return 0
	}
	if sign(m0) != sign(m1) && math.Abs(d) > math.Abs(3*m0) {
		return 3 * m0
	}
	return d
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// At evaluates the interpolant at x. Outside the data range the end
// polynomials are extended.
func (p *pchip) At(x float64) float64 {
	n := len(p.xs)
	k := sort.SearchFloat64s(p.xs, x) - 1
	if k < 0 {
		k = 0
	} else if k > n-2 {
		k = n - 2
	}
	h := p.xs[k+1] - p.xs[k]
	t := (x - p.xs[k]) / h
	t2, t3 := t*t, t*t*t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*p.ys[k] + h10*h*p.ds[k] + h01*p.ys[k+1] + h11*h*p.ds[k+1]
}
