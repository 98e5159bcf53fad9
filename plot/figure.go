// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plot draws single-cell expression data.
//
// Each plotting function reads a dataset.Dataset, resolves colors and
// sizes with package encode, and returns a Figure holding a go-gg
// plot and the data table behind it. Legends (category colors, color
// domains, dot size maps) are not attached to the Figure; they are
// recorded in a caller-owned Legends table keyed by Figure.ID.
package plot

import (
	"io"
	"math"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/vec"
	"github.com/google/uuid"
)

// A Figure is a rendered-on-demand plot.
type Figure struct {
	// ID identifies the figure in a Legends table.
	ID uuid.UUID

	// Kind is the plotting function that made the figure, such
	// as "coverage" or "dotplot".
	Kind string

	Plot *gg.Plot

	// Table is the data behind the plot, one row per mark.
	Table table.Grouping

	// Width and Height are the SVG dimensions in pixels.
	Width, Height int

	// X and Y describe the position axes.
	X, Y Axis

	// Props are the effective drawing properties.
	Props Props
}

// Default figure sizes, in pixels.
const (
	DefaultWidth  = 975
	DefaultHeight = 600
)

func newFigure(kind string, tab table.Grouping, props Props) *Figure {
	return &Figure{
		ID:     uuid.New(),
		Kind:   kind,
		Plot:   gg.NewPlot(tab),
		Table:  tab,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Props:  props,
	}
}

// WriteSVG renders f as SVG to w.
func (f *Figure) WriteSVG(w io.Writer) error {
	return f.Plot.WriteSVG(w, f.Width, f.Height)
}

// WriteTable prints f's data table to w.
func (f *Figure) WriteTable(w io.Writer) error {
	table.Fprint(w, f.Table)
	return nil
}

// finish applies f's axes to its plot.
func (f *Figure) finish() {
	f.X.apply(f.Plot, "x")
	f.Y.apply(f.Plot, "y")
}

// An Axis describes how a position axis is drawn. Limits are in data
// units; NaN limits are taken from the data.
type Axis struct {
	Label    string
	Log      bool
	Min, Max float64
}

func autoAxis(label string) Axis {
	return Axis{Label: label, Min: math.NaN(), Max: math.NaN()}
}

// values maps xs into the axis's plotting coordinates. Values that
// have no coordinate on a log axis become NaN.
func (a Axis) values(xs []float64) []float64 {
	if !a.Log {
		return xs
	}
	return vec.Map(func(x float64) float64 {
		if !(x > 0) {
			return math.NaN()
		}
		return math.Log10(x)
	}, xs)
}

func (a Axis) title() string {
	if a.Log && a.Label != "" {
		return "log10 " + a.Label
	}
	return a.Label
}

func (a Axis) apply(p *gg.Plot, aes string) {
	if a.Label != "" {
		p.Add(gg.AxisLabel(aes, a.title()))
	}
	if math.IsNaN(a.Min) && math.IsNaN(a.Max) {
		return
	}
	s := gg.NewLinearScaler()
	lim := a.values([]float64{a.Min, a.Max})
	if !math.IsNaN(lim[0]) {
		s.SetMin(lim[0])
	}
	if !math.IsNaN(lim[1]) {
		s.SetMax(lim[1])
	}
	p.SetScale(aes, s)
}

// countsLabel describes the units of a counts table normalized by
// method: raw reads, a named normalization, or nothing for a custom
// one.
func countsLabel(method string) string {
	switch method {
	case "":
		return "Number of reads"
	case "custom":
		return ""
	}
	return strings.ReplaceAll(capitalize(method), "_", " ")
}

// capitalize upper-cases the first letter of s and lower-cases the
// rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
