// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/singlet-bio/singlet/errors"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"darkgrey", DefaultColor},
		{"DarkGrey", DefaultColor},
		{"red", color.NRGBA{255, 0, 0, 255}},
		{"#0f0", color.NRGBA{0, 255, 0, 255}},
		{"#123456", color.NRGBA{0x12, 0x34, 0x56, 0xff}},
		{"#12345680", color.NRGBA{0x12, 0x34, 0x56, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"notacolor", "#12", "#zzzzzz"} {
		_, err := ParseColor(bad)
		require.True(t, errors.Is(err, errors.CodeConfig), "%q: got %v", bad, err)
	}
}

func TestHex(t *testing.T) {
	require.Equal(t, "#a9a9a9", Hex(DefaultColor))
	require.Equal(t, "#a9a9a94d", Hex(WithAlpha(DefaultColor, 0.3)))
}

func TestGradient(t *testing.T) {
	g := Gradient{{0, 0, 0, 255}, {100, 100, 100, 255}, {200, 0, 0, 255}}
	require.Equal(t, g[0], g.Map(0))
	require.Equal(t, g[0], g.Map(-1))
	require.Equal(t, color.NRGBA{50, 50, 50, 255}, g.Map(0.25))
	require.Equal(t, g[1], g.Map(0.5))
	require.Equal(t, g[2], g.Map(1))

	bw := Gradient{{0, 0, 0, 255}, {255, 255, 255, 255}}
	require.Equal(t, color.NRGBA{128, 128, 128, 255}, bw.Map(0.5))
	require.Equal(t, color.NRGBA{64, 64, 64, 255}, bw.Map(0.25))
}

func TestNamedReversed(t *testing.T) {
	fwd, err := Continuous(Named("plasma"))
	require.NoError(t, err)
	rev, err := Continuous(Named("plasma_r"))
	require.NoError(t, err)
	require.Equal(t, fwd.Map(0), rev.Map(1))
	require.Equal(t, fwd.Map(1), rev.Map(0))
}

func TestNamedBrewer(t *testing.T) {
	_, cats, err := ResolveCategorical([]string{"a", "b", "c"}, Named("Set1"), DefaultColor)
	require.NoError(t, err)
	require.Len(t, cats.Colors, 3)

	_, err = Continuous(Named("blues"))
	require.NoError(t, err)
}
