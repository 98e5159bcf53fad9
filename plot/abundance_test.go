// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

func TestGroupAbundanceChanges(t *testing.T) {
	d := testDataset(t)
	legends := NewLegends()

	f, err := GroupAbundanceChanges(d, AbundanceOptions{GroupBy: "cellType", Along: "time", Kind: "percent"}, legends)
	require.NoError(t, err)
	require.Equal(t, []string{"B", "B", "T", "T"}, column[[]string](t, f, "group"))
	require.Equal(t, []string{"1", "2", "1", "2"}, column[[]string](t, f, "along"))
	require.Equal(t, []float64{50, 50, 50, 50}, column[[]float64](t, f, "y"))
	require.Equal(t, "Percent of samples", f.Y.Label)
	require.Equal(t, "time", f.X.Label)

	lg, ok := legends.Get(f.ID)
	require.True(t, ok)
	require.Equal(t, []string{"B", "T"}, lg.Categories["groups"].Labels)

	f, err = GroupAbundanceChanges(d, AbundanceOptions{GroupBy: "cellType", Along: "time", Kind: "fraction"}, nil)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, column[[]float64](t, f, "y"))

	f, err = GroupAbundanceChanges(d, AbundanceOptions{GroupBy: "cellType", Along: "time", YMin: 10, LogBase: 10}, nil)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 1, 1, 1}, column[[]float64](t, f, "y"), 1e-12)
}

func TestGroupAbundanceChangesOrderAndColors(t *testing.T) {
	d := testDataset(t)
	legends := NewLegends()
	red := encode.MustParseColor("red")
	blue := encode.MustParseColor("blue")

	f, err := GroupAbundanceChanges(d, AbundanceOptions{
		GroupBy:     "cellType",
		Along:       "time",
		GroupOrder:  []string{"T", "B"},
		AlongOrder:  []string{"2", "1"},
		Palette:     encode.Listed{red, blue},
		Interpolate: true,
	}, legends)
	require.NoError(t, err)
	require.Equal(t, []string{"T", "T", "B", "B"}, column[[]string](t, f, "group"))
	require.Equal(t, []string{"2", "1", "2", "1"}, column[[]string](t, f, "along"))
	colors := column[[]color.Color](t, f, "color")
	require.Equal(t, color.Color(red), colors[0])
	require.Equal(t, color.Color(blue), colors[2])

	lg, _ := legends.Get(f.ID)
	require.Equal(t, []string{"T", "B"}, lg.Categories["groups"].Labels)
	require.Equal(t, red, lg.Categories["groups"].Colors["T"])

	f, err = GroupAbundanceChanges(d, AbundanceOptions{
		GroupBy: "cellType",
		Along:   "time",
		Palette: encode.Explicit{Colors: map[string]color.Color{"T": red}},
	}, legends)
	require.NoError(t, err)
	lg, _ = legends.Get(f.ID)
	require.Equal(t, red, lg.Categories["groups"].Colors["T"])
	require.Equal(t, encode.DefaultColor, lg.Categories["groups"].Colors["B"])

	f, err = GroupAbundanceChanges(d, AbundanceOptions{
		GroupBy:      "cellType",
		Along:        "time",
		ScatterProps: map[string]any{"c": "blue"},
	}, nil)
	require.NoError(t, err)
	for _, c := range column[[]color.Color](t, f, "color") {
		require.Equal(t, color.Color(blue), c)
	}
}

func TestGroupAbundanceChangesErrors(t *testing.T) {
	d := testDataset(t)

	for _, opts := range []AbundanceOptions{
		{GroupBy: "cellType", Along: "time", Kind: "ratio"},
		{GroupBy: "cellType", Along: "time", Palette: encode.Listed{encode.DefaultColor}},
	} {
		_, err := GroupAbundanceChanges(d, opts, nil)
		requireCode(t, err, errors.CodeConfig)
	}
	for _, opts := range []AbundanceOptions{
		{GroupBy: "batch", Along: "time"},
		{GroupBy: "cellType", Along: "time", GroupOrder: []string{"NK"}},
		{GroupBy: "cellType", Along: "time", AlongOrder: []string{"3"}},
	} {
		_, err := GroupAbundanceChanges(d, opts, nil)
		requireCode(t, err, errors.CodeLookup)
	}
}

func TestPCHIP(t *testing.T) {
	// Two points interpolate linearly.
	p, err := newPCHIP([]float64{0, 1}, []float64{0, 2})
	require.NoError(t, err)
	require.InDelta(t, 0.5, p.At(0.25), 1e-12)

	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 1, 2}
	p, err = newPCHIP(xs, ys)
	require.NoError(t, err)
	for i, x := range xs {
		require.InDelta(t, ys[i], p.At(x), 1e-12)
	}
	// Flat stretches stay flat.
	require.InDelta(t, 1, p.At(1.5), 1e-12)
	// No overshoot on monotonic data.
	for x := 0.0; x <= 3; x += 0.05 {
		y := p.At(x)
		require.GreaterOrEqual(t, y, -1e-12)
		require.LessOrEqual(t, y, 2+1e-12)
	}

	_, err = newPCHIP([]float64{0}, []float64{0})
	requireCode(t, err, errors.CodeConfig)
	_, err = newPCHIP([]float64{0, 0}, []float64{0, 1})
	requireCode(t, err, errors.CodeConfig)
	_, err = newPCHIP([]float64{0, 1}, []float64{0})
	requireCode(t, err, errors.CodeConfig)
}
