// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/singlet-bio/singlet/errors"
)

const countsTSV = `name	s1	s2	s3
Actb	10	20	30
Gapdh	0	5	NA
`

const samplesheetCSV = `name,cellType,timepoint,quality
s1,T,1,0.5
s2,B,2,
s3,T,2,2
`

func TestReadCounts(t *testing.T) {
	c, err := ReadCounts(strings.NewReader(countsTSV), '\t')
	require.NoError(t, err)
	require.Equal(t, []string{"Actb", "Gapdh"}, c.Features)
	require.Equal(t, []string{"s1", "s2", "s3"}, c.Samples)
	require.Equal(t, 30.0, c.Values[0][2])
	require.True(t, math.IsNaN(c.Values[1][2]))
	require.Equal(t, DefaultPseudocount, c.Pseudocount)
}

func TestReadCountsErrors(t *testing.T) {
	tests := map[string]string{
		"empty":     "",
		"bad count": "name\ts1\nActb\tmany\n",
		"ragged":    "name\ts1\ts2\nActb\t1\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCounts(strings.NewReader(in), '\t')
			require.True(t, errors.Is(err, errors.CodeInvalidData), "got %v", err)
		})
	}
}

func TestReadSheet(t *testing.T) {
	s, err := ReadSheet(strings.NewReader(samplesheetCSV), ',', "timepoint")
	require.NoError(t, err)
	require.Equal(t, []string{"cellType", "timepoint", "quality"}, s.Columns())

	ct, ok := s.Column("cellType")
	require.True(t, ok)
	require.True(t, ct.Categorical)

	tp, ok := s.Column("timepoint")
	require.True(t, ok)
	require.True(t, tp.Categorical, "forced categorical")
	require.Equal(t, []string{"1", "2", "2"}, tp.Labels)

	q, ok := s.Column("quality")
	require.True(t, ok)
	require.False(t, q.Categorical)
	require.True(t, math.IsNaN(q.Values[1]))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	countsPath := filepath.Join(dir, "counts.tsv.gz")
	f, err := os.Create(countsPath)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(countsTSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	sheetPath := filepath.Join(dir, "samplesheet.csv")
	require.NoError(t, os.WriteFile(sheetPath, []byte(samplesheetCSV), 0o644))

	d, err := Load(Source{
		CountsPath:      countsPath,
		SampleSheetPath: sheetPath,
		Pseudocount:     1,
		SpikeIns:        []string{"ERCC-00002"},
	})
	require.NoError(t, err)
	require.Equal(t, 1.0, d.Counts.Pseudocount)
	require.Equal(t, []string{"ERCC-00002"}, d.Counts.SpikeIns)
	require.Nil(t, d.FeatureSheet)

	v, err := d.Lookup(Samples, "timepoint")
	require.NoError(t, err)
	require.False(t, v.Categorical)
	require.Equal(t, []float64{1, 2, 2}, v.Values)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{CountsPath: filepath.Join(t.TempDir(), "nope.csv")})
	require.True(t, errors.Is(err, errors.CodeIO))

	_, err = Load(Source{})
	require.True(t, errors.Is(err, errors.CodeConfig))
}
