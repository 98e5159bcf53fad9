// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/singlet-bio/singlet/errors"
)

var nan = math.NaN()

func ptr(x float64) *float64 { return &x }

func TestResolveCategoricalRoundTrip(t *testing.T) {
	values := []string{"b", "a", "c", "a", "b", "b"}
	colors, cats, err := ResolveCategorical(values, Named("tab10"), DefaultColor)
	require.NoError(t, err)
	require.Len(t, colors, len(values))
	require.Equal(t, []string{"a", "b", "c"}, cats.Labels)
	require.Len(t, cats.Colors, 3)

	legendColors := map[color.NRGBA]bool{}
	for _, c := range cats.Colors {
		legendColors[c] = true
	}
	for i, c := range colors {
		require.True(t, legendColors[c], "row %d color not in legend", i)
		require.Equal(t, cats.Colors[values[i]], c)
	}
}

func TestResolveCategoricalNaturalOrder(t *testing.T) {
	_, cats, err := ResolveCategorical([]string{"10", "2", "1", "2"}, Named("viridis"), DefaultColor)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "10"}, cats.Labels)

	_, cats, err = ResolveCategorical([]string{"10", "2", "x"}, Named("viridis"), DefaultColor)
	require.NoError(t, err)
	require.Equal(t, []string{"10", "2", "x"}, cats.Labels)
}

func TestResolveCategoricalGenerator(t *testing.T) {
	g := Gradient{{0, 0, 0, 255}, {200, 100, 50, 255}}
	_, cats, err := ResolveCategorical([]string{"x", "y", "z"}, Generator{g}, DefaultColor)
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{0, 0, 0, 255}, cats.Colors["x"])
	require.Equal(t, color.NRGBA{100, 50, 25, 255}, cats.Colors["y"])
	require.Equal(t, color.NRGBA{200, 100, 50, 255}, cats.Colors["z"])
}

func TestResolveCategoricalExplicit(t *testing.T) {
	red := MustParseColor("red")
	p := Explicit{Colors: map[string]color.Color{"T cell": red}}
	colors, cats, err := ResolveCategorical([]string{"T cell", "B cell"}, p, DefaultColor)
	require.NoError(t, err)
	require.Equal(t, []color.NRGBA{red, DefaultColor}, colors)
	require.Equal(t, DefaultColor, cats.Colors["B cell"])

	blue := MustParseColor("blue")
	p.Default = blue
	colors, _, err = ResolveCategorical([]string{"B cell"}, p, DefaultColor)
	require.NoError(t, err)
	require.Equal(t, []color.NRGBA{blue}, colors)
}

func TestResolveCategoricalPaletteTooSmall(t *testing.T) {
	p := Listed{MustParseColor("red"), MustParseColor("blue")}
	_, _, err := ResolveCategorical([]string{"a", "b", "c"}, p, DefaultColor)
	require.True(t, errors.Is(err, errors.CodeConfig), "got %v", err)

	colors, _, err := ResolveCategorical([]string{"b", "a"}, p, DefaultColor)
	require.NoError(t, err)
	require.Equal(t, []color.NRGBA{MustParseColor("blue"), MustParseColor("red")}, colors)
}

func TestResolveCategoricalUnknownPalette(t *testing.T) {
	_, _, err := ResolveCategorical([]string{"a"}, Named("no-such-palette"), DefaultColor)
	require.True(t, errors.Is(err, errors.CodeConfig))
}

func TestResolveContinuousIdempotent(t *testing.T) {
	values := []float64{0, 0.125, 0.5, 0.8, 1}
	_, d, err := ResolveContinuous(values, Named("viridis"), ContinuousOptions{Min: ptr(0), Max: ptr(1)})
	require.NoError(t, err)
	for _, v := range values {
		require.InDelta(t, v, d.Normalize(v), 1e-12)
	}
}

func TestResolveContinuousMissing(t *testing.T) {
	values := []float64{1, 2, nan, 4}
	colors, d, err := ResolveContinuous(values, Named("viridis"), ContinuousOptions{})
	require.NoError(t, err)
	require.Equal(t, 1.0, d.Min)
	require.Equal(t, 4.0, d.Max)
	require.Equal(t, WithAlpha(DefaultColor, 0.3), colors[2])
	require.Equal(t, uint8(77), colors[2].A)
	require.Equal(t, d.Color(1), colors[0])
	require.Equal(t, d.Color(4), colors[3])

	red := MustParseColor("red")
	colors, _, err = ResolveContinuous(values, Named("viridis"), ContinuousOptions{Default: red})
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{255, 0, 0, 77}, colors[2])
}

func TestResolveContinuousDegenerate(t *testing.T) {
	_, _, err := ResolveContinuous([]float64{5, 5, 5}, Named("viridis"), ContinuousOptions{})
	require.True(t, errors.Is(err, errors.CodeConfig), "got %v", err)

	_, _, err = ResolveContinuous([]float64{nan, nan}, Named("viridis"), ContinuousOptions{})
	require.True(t, errors.Is(err, errors.CodeConfig), "got %v", err)
}

func TestResolveContinuousLog(t *testing.T) {
	_, d, err := ResolveContinuous([]float64{1, 10, 100}, Named("viridis"), ContinuousOptions{Log: true, Pseudocount: 0.1})
	require.NoError(t, err)
	require.InDelta(t, 0.0414, d.Min, 1e-4)
	require.InDelta(t, 2.0004, d.Max, 1e-4)
	require.InDelta(t, 0, d.Normalize(1), 1e-12)
	require.InDelta(t, 1, d.Normalize(100), 1e-12)

	for _, pc := range []float64{0, -1} {
		_, _, err = ResolveContinuous([]float64{1, 10}, Named("viridis"), ContinuousOptions{Log: true, Pseudocount: pc})
		require.True(t, errors.Is(err, errors.CodeConfig), "pseudocount %v: got %v", pc, err)
	}
}

func TestResolveContinuousClamp(t *testing.T) {
	g := Gradient{{0, 0, 0, 255}, {255, 255, 255, 255}}
	colors, d, err := ResolveContinuous([]float64{-5, 0.5, 7}, Generator{g}, ContinuousOptions{Min: ptr(0), Max: ptr(1)})
	require.NoError(t, err)
	require.Equal(t, 0.0, d.Normalize(-5))
	require.Equal(t, 1.0, d.Normalize(7))
	require.Equal(t, g[0], colors[0])
	require.Equal(t, g[1], colors[2])
}

func TestResolveContinuousExplicitPalette(t *testing.T) {
	_, _, err := ResolveContinuous([]float64{1, 2}, Explicit{}, ContinuousOptions{})
	require.True(t, errors.Is(err, errors.CodeConfig))
}

func TestBucketTiers(t *testing.T) {
	values := []float64{0.0, 0.1, 0.5, 0.9, 1.0}
	tiers, err := BucketTiers(values, DefaultTiers)
	require.NoError(t, err)
	require.Len(t, tiers, len(values))

	distinct := map[int]bool{}
	max := 0
	for i, tier := range tiers {
		distinct[tier] = true
		if i > 0 {
			require.GreaterOrEqual(t, tier, tiers[i-1])
		}
		if tier > max {
			max = tier
		}
	}
	require.LessOrEqual(t, len(distinct), 4)
	require.Equal(t, max, tiers[4])
	require.Equal(t, []int{0, 0, 1, 2, 3}, tiers)

	again, err := BucketTiers(values, DefaultTiers)
	require.NoError(t, err)
	require.Equal(t, tiers, again)
}

func TestQuantileR7(t *testing.T) {
	xs := []float64{0, 0.1, 0.5, 0.9, 1}
	require.Equal(t, 0.0, quantileR7(xs, 0))
	require.Equal(t, 0.1, quantileR7(xs, 0.25))
	require.Equal(t, 0.5, quantileR7(xs, 0.5))
	require.Equal(t, 1.0, quantileR7(xs, 1))
	require.InDelta(t, 2.25, quantileR7([]float64{0, 0, 0, 0, 1, 2, 3, 4}, 0.75), 1e-12)
	require.Equal(t, 7.0, quantileR7([]float64{7}, 0.5))
}

func TestBucketTiersDuplicateEdges(t *testing.T) {
	// Edges 0, 0, 0.5, 2.25, 4 collapse to three buckets.
	tiers, err := BucketTiers([]float64{0, 0, 0, 0, 1, 2, 3, 4}, 4)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 0, 0, 1, 1, 2, 2}, tiers)

	// Only the min and max survive as edges: one bucket.
	tiers, err = BucketTiers([]float64{0, 0, 0, 0, 0, 0, 1}, 4)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 0, 0, 0, 0, 0}, tiers)

	tiers, err = BucketTiers([]float64{0.3, 0.3, nan}, 4)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 0}, tiers)

	_, err = BucketTiers([]float64{1}, 0)
	require.True(t, errors.Is(err, errors.CodeConfig))
}

func TestTierOrder(t *testing.T) {
	require.Equal(t, []int{1, 3, 0, 2}, TierOrder([]int{2, 0, 3, 0}))
}

func TestSizeFromFraction(t *testing.T) {
	require.Equal(t, 32.25, SizeFromFraction(0.5, 2))
	require.Equal(t, 2.0, SizeFromFraction(0, 2))
	// Out-of-range fractions pass through.
	require.Equal(t, 2+math.Pow(22, 2), SizeFromFraction(2, 2))
	require.Equal(t, 1+8.0, SizeMap{MinSize: 1, Exponent: 3, Scale: 2}.Size(1))
}
