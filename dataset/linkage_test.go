// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/singlet-bio/singlet/errors"
)

func TestLinkageLeaves(t *testing.T) {
	// ((2, 0), (1, 3))
	l, err := LinkageFromRows([][]float64{
		{2, 0, 0.1, 2},
		{1, 3, 0.3, 2},
		{4, 5, 0.9, 4},
	})
	require.NoError(t, err)
	require.Equal(t, 4, l.Len())
	leaves, err := l.Leaves()
	require.NoError(t, err)
	require.Equal(t, []int{2, 0, 1, 3}, leaves)
}

func TestLinkageInvalid(t *testing.T) {
	tests := map[string][][]float64{
		"forward reference": {{0, 3, 1, 2}, {1, 2, 1, 2}},
		"reused cluster":    {{0, 1, 1, 2}, {0, 2, 1, 2}},
		"bad count":         {{0, 1, 1, 3}, {2, 3, 1, 3}},
		"short row":         {{0, 1, 1}},
		"fractional index":  {{0.5, 1, 1, 2}},
	}
	for name, rows := range tests {
		t.Run(name, func(t *testing.T) {
			l, err := LinkageFromRows(rows)
			if err == nil {
				_, err = l.Leaves()
			}
			require.True(t, errors.Is(err, errors.CodeConfig), "got %v", err)
		})
	}
}
