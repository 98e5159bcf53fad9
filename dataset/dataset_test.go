// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/singlet-bio/singlet/errors"
)

func testCounts(t *testing.T) *CountsTable {
	t.Helper()
	c, err := NewCountsTable(
		[]string{"Actb", "Gapdh", "ERCC-00002", "__ambiguous"},
		[]string{"s1", "s2", "s3"},
		[][]float64{
			{10, 20, 30},
			{0, 5, math.NaN()},
			{1, 1, 4},
			{2, 0, 0},
		})
	require.NoError(t, err)
	c.SpikeIns = []string{"ERCC-00002"}
	c.OtherFeatures = []string{"__ambiguous", "__not_aligned"}
	return c
}

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	c := testCounts(t)
	samples, err := NewSheet(c.Samples)
	require.NoError(t, err)
	require.NoError(t, samples.AddCategorical("cellType", []string{"T", "B", "T"}))
	require.NoError(t, samples.AddNumeric("quality", []float64{0.5, math.NaN(), 2}))
	features, err := NewSheet(c.Features)
	require.NoError(t, err)
	require.NoError(t, features.AddCategorical("kind", []string{"gene", "gene", "spikein", "other"}))
	d, err := New(c, samples, features)
	require.NoError(t, err)
	return d
}

func TestNewCountsTableShape(t *testing.T) {
	_, err := NewCountsTable([]string{"a"}, []string{"s1", "s2"}, [][]float64{{1}})
	require.True(t, errors.Is(err, errors.CodeInvalidData))

	_, err = NewCountsTable([]string{"a", "a"}, []string{"s1"}, [][]float64{{1}, {2}})
	require.True(t, errors.Is(err, errors.CodeInvalidData))
}

func TestRowColumn(t *testing.T) {
	c := testCounts(t)
	row, err := c.Row("Actb")
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20, 30}, row)

	col, err := c.Column("s2")
	require.NoError(t, err)
	require.Equal(t, []float64{20, 5, 1, 0}, col)

	_, err = c.Row("nope")
	require.True(t, errors.Is(err, errors.CodeLookup))
	_, err = c.Column("nope")
	require.True(t, errors.Is(err, errors.CodeLookup))
}

func TestSumSamples(t *testing.T) {
	require.Equal(t, []float64{13, 26, 34}, testCounts(t).SumSamples())
}

func TestExcludeFeatures(t *testing.T) {
	c := testCounts(t)

	_, err := c.ExcludeFeatures(true, true, false)
	require.True(t, errors.Is(err, errors.CodeConfig), "__not_aligned is missing")

	mapped, err := c.ExcludeFeatures(true, true, true)
	require.NoError(t, err)
	require.Equal(t, []string{"Actb", "Gapdh"}, mapped.Features)
	require.Equal(t, c.SpikeIns, mapped.SpikeIns)

	noSpikes, err := c.ExcludeFeatures(true, false, false)
	require.NoError(t, err)
	require.Equal(t, []string{"Actb", "Gapdh", "__ambiguous"}, noSpikes.Features)

	require.Equal(t, []string{"ERCC-00002"}, c.SpikeInsTable().Features)
	require.Equal(t, []string{"__ambiguous"}, c.OtherFeaturesTable().Features)
}

func TestSubset(t *testing.T) {
	c := testCounts(t)
	s, err := c.Subset([]string{"Gapdh", "Actb"})
	require.NoError(t, err)
	require.Equal(t, []string{"Gapdh", "Actb"}, s.Features)
	row, err := s.Row("Actb")
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20, 30}, row)

	_, err = c.Subset([]string{"Actb", "Actb"})
	require.True(t, errors.Is(err, errors.CodeConfig))
	_, err = c.Subset([]string{"nope"})
	require.True(t, errors.Is(err, errors.CodeLookup))
}

func TestTranspose(t *testing.T) {
	c := testCounts(t)
	tr := c.Transpose()
	require.Equal(t, c.Samples, tr.Features)
	require.Equal(t, c.Features, tr.Samples)
	row, err := tr.Row("s2")
	require.NoError(t, err)
	require.Equal(t, []float64{20, 5, 1, 0}, row)
}

func TestNormalize(t *testing.T) {
	c := testCounts(t)
	n, err := c.Normalize("counts_per_million")
	require.NoError(t, err)
	require.Equal(t, "counts_per_million", n.Normalized)
	row, err := n.Row("Actb")
	require.NoError(t, err)
	require.InDelta(t, 1e6*10/10, row[0], 1e-6)
	require.InDelta(t, 1e6*20/25, row[1], 1e-6)

	_, err = n.Normalize("counts_per_million")
	require.True(t, errors.Is(err, errors.CodeConfig))
	_, err = c.Normalize("tpm")
	require.True(t, errors.Is(err, errors.CodeConfig))
}

func TestStatistics(t *testing.T) {
	c := testCounts(t)
	st, err := c.Statistics("mean", "var", "std", "cv", "fano", "min", "max")
	require.NoError(t, err)

	require.Equal(t, 20.0, st["mean"][0])
	require.Equal(t, 100.0, st["var"][0])
	require.Equal(t, 10.0, st["std"][0])
	require.Equal(t, 0.5, st["cv"][0])
	require.Equal(t, 5.0, st["fano"][0])
	require.Equal(t, 10.0, st["min"][0])
	require.Equal(t, 30.0, st["max"][0])

	// The missing count of Gapdh is skipped.
	require.Equal(t, 2.5, st["mean"][1])

	_, err = c.Statistics("mean", "kurtosis")
	require.True(t, errors.Is(err, errors.CodeConfig))
}

func TestMedian(t *testing.T) {
	c := testCounts(t)
	m, err := c.Median("Actb")
	require.NoError(t, err)
	require.Equal(t, 20.0, m)
	m, err = c.Median("Gapdh")
	require.NoError(t, err)
	require.Equal(t, 2.5, m)
}

func TestFingerprint(t *testing.T) {
	a, b := testCounts(t), testCounts(t)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	b.Values[0][0] = 11
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestLookup(t *testing.T) {
	d := testDataset(t)

	tests := []struct {
		axis        Axis
		key         string
		categorical bool
		phenotype   bool
	}{
		{Samples, "cellType", true, true},
		{Samples, "quality", false, true},
		{Samples, "Actb", false, false},
		{Features, "kind", true, true},
		{Features, "s1", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String()+"/"+tt.key, func(t *testing.T) {
			v, err := d.Lookup(tt.axis, tt.key)
			require.NoError(t, err)
			require.Equal(t, tt.categorical, v.Categorical)
			require.Equal(t, tt.phenotype, v.Phenotype)
			require.Equal(t, len(d.Names(tt.axis)), v.Len())
		})
	}

	_, err := d.Lookup(Samples, "nope")
	require.True(t, errors.Is(err, errors.CodeLookup))
	_, err = d.Lookup(Features, "Actb")
	require.True(t, errors.Is(err, errors.CodeLookup))
}

func TestNewMismatchedSheet(t *testing.T) {
	c := testCounts(t)
	s, err := NewSheet([]string{"s3", "s2", "s1"})
	require.NoError(t, err)
	_, err = New(c, s, nil)
	require.True(t, errors.Is(err, errors.CodeInvalidData))
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("features")
	require.NoError(t, err)
	require.Equal(t, Features, a)
	_, err = ParseAxis("cells")
	require.True(t, errors.Is(err, errors.CodeConfig))
}
