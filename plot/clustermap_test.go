// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/errors"
)

// sampleLinkage joins (s1, s2) and (s3, s4), then both pairs, with
// the second pair first.
var sampleLinkage = dataset.Linkage{
	{A: 0, B: 1, Dist: 1, Count: 2},
	{A: 2, B: 3, Dist: 1, Count: 2},
	{A: 5, B: 4, Dist: 2, Count: 4},
}

type fixedClusterer struct {
	calls int
	axis  dataset.Axis
}

func (c *fixedClusterer) Hierarchical(d *dataset.Dataset, axis dataset.Axis, phenotypes []string) (dataset.Linkage, error) {
	c.calls++
	c.axis = axis
	return sampleLinkage, nil
}

func heatmapCells(t *testing.T, f *Figure) (rows, cols []string) {
	layers := column[[]string](t, f, "layer")
	allRows := column[[]string](t, f, "row")
	allCols := column[[]string](t, f, "column")
	for i, l := range layers {
		if l == "heatmap" {
			rows = append(rows, allRows[i])
			cols = append(cols, allCols[i])
		}
	}
	return rows, cols
}

func TestClustermap(t *testing.T) {
	d := testDataset(t)
	legends := NewLegends()

	f, err := Clustermap(d, ClustermapOptions{}, legends)
	require.NoError(t, err)
	rows, cols := heatmapCells(t, f)
	require.Len(t, rows, 20)
	require.Equal(t, []string{"s1", "s2", "s3", "s4"}, cols[:4])
	require.Equal(t, "samples", f.X.Label)

	lg, ok := legends.Get(f.ID)
	require.True(t, ok)
	require.Equal(t, 0.0, lg.Domains["heatmap"].Min)
	require.Equal(t, 200.0, lg.Domains["heatmap"].Max)
	require.Empty(t, lg.Colorbars)

	f, err = Clustermap(d, ClustermapOptions{Orientation: "vertical"}, nil)
	require.NoError(t, err)
	require.Equal(t, "features", f.X.Label)
}

func TestClustermapLinkage(t *testing.T) {
	d := testDataset(t)

	f, err := Clustermap(d, ClustermapOptions{ClusterSamples: Clustering{Linkage: sampleLinkage}}, nil)
	require.NoError(t, err)
	_, cols := heatmapCells(t, f)
	require.Equal(t, []string{"s3", "s4", "s1", "s2"}, cols[:4])

	cl := &fixedClusterer{}
	f, err = Clustermap(d, ClustermapOptions{ClusterSamples: Clustering{Compute: true}, Clusterer: cl}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, cl.calls)
	require.Equal(t, dataset.Samples, cl.axis)
	_, cols = heatmapCells(t, f)
	require.Equal(t, []string{"s3", "s4", "s1", "s2"}, cols[:4])

	_, err = Clustermap(d, ClustermapOptions{ClusterSamples: Clustering{Compute: true}}, nil)
	requireCode(t, err, errors.CodeConfig)

	// Four samples cannot be ordered by a clustering of five features.
	_, err = Clustermap(d, ClustermapOptions{ClusterFeatures: Clustering{Linkage: sampleLinkage}}, nil)
	requireCode(t, err, errors.CodeConfig)
}

func TestClustermapPhenotypes(t *testing.T) {
	d := testDataset(t)

	f, err := Clustermap(d, ClustermapOptions{PhenotypesClusterFeatures: []string{"quality"}}, nil)
	require.NoError(t, err)
	rows, _ := heatmapCells(t, f)
	require.Len(t, rows, 24)
	require.Equal(t, "quality", rows[len(rows)-1])

	_, err = Clustermap(d, ClustermapOptions{PhenotypesClusterFeatures: []string{"cellType"}}, nil)
	requireCode(t, err, errors.CodeConfig)
	_, err = Clustermap(d, ClustermapOptions{PhenotypesClusterFeatures: []string{"age"}}, nil)
	requireCode(t, err, errors.CodeLookup)
}

func TestClustermapAnnotations(t *testing.T) {
	d := testDataset(t)
	legends := NewLegends()

	f, err := Clustermap(d, ClustermapOptions{
		AnnotateSamples:  []Annotation{{Key: "cellType"}, {Key: "Actb"}},
		AnnotateFeatures: []Annotation{{Key: MeanExpression}},
	}, legends)
	require.NoError(t, err)
	require.Len(t, column[[]string](t, f, "layer"), 20+2*4+5)

	lg, _ := legends.Get(f.ID)
	require.Len(t, lg.Colorbars, 3)
	require.Equal(t, "cellType", lg.Colorbars[0].Name)
	require.True(t, lg.Colorbars[0].Qualitative)
	require.Equal(t, []string{"B", "T"}, lg.Colorbars[0].Categories.Labels)
	require.False(t, lg.Colorbars[1].Qualitative)
	require.Equal(t, 200.0, lg.Colorbars[1].Domain.Max)
	require.Equal(t, MeanExpression, lg.Colorbars[2].Name)
	require.Equal(t, 2.5, lg.Colorbars[2].Domain.Min)
	require.Equal(t, 87.5, lg.Colorbars[2].Domain.Max)

	_, err = Clustermap(d, ClustermapOptions{AnnotateFeatures: []Annotation{{Key: "s1"}}}, nil)
	requireCode(t, err, errors.CodeLookup)
}

func TestClustermapOrientation(t *testing.T) {
	_, err := Clustermap(testDataset(t), ClustermapOptions{Orientation: "diagonal"}, nil)
	requireCode(t, err, errors.CodeConfig)
}
