// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
	"github.com/singlet-bio/singlet/plot"
)

const testCounts = `name	s1	s2	s3	s4
Actb	100	200	50	0
Gapdh	10	0	30	40
ERCC-00002	5	5	5	5
`

const testSamples = `name	cellType	time
s1	T	1
s2	B	1
s3	T	2
s4	B	2
`

const testConfig = `
dataset:
  counts_table: counts.tsv
  samplesheet: samples.tsv
  spikeins: [ERCC-00002]
`

// writeDataset writes a small dataset and its configuration to a
// temporary directory and returns the configuration path.
func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range map[string]string{
		"counts.tsv":  testCounts,
		"samples.tsv": testSamples,
		"singlet.yml": testConfig,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
	}
	return filepath.Join(dir, "singlet.yml")
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestTableCommand(t *testing.T) {
	cfg := writeDataset(t)

	out, _, err := execute(t, "table", "coverage", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "s4")
	require.Contains(t, out, "reads")

	out, stderr, err := execute(t, "table", "dotplot", "--config", cfg,
		"--group-by", "cellType", "--plot", "Actb,Gapdh", "--legend")
	require.NoError(t, err)
	require.Contains(t, out, "Gapdh")
	require.Contains(t, stderr, "fraction expressing")
}

func TestRenderCompressed(t *testing.T) {
	cfg := writeDataset(t)
	outPath := filepath.Join(t.TempDir(), "coverage.svgz")

	_, _, err := execute(t, "coverage", "--config", cfg, "-o", outPath, "--width", "400")
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	svg, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Contains(t, string(svg), "<svg")
}

func TestCommandErrors(t *testing.T) {
	cfg := writeDataset(t)

	_, _, err := execute(t, "coverage", "--config", filepath.Join(t.TempDir(), "missing.yml"))
	require.True(t, errors.Is(err, errors.CodeIO), "got %v", err)

	_, _, err = execute(t, "table", "abundance", "--config", cfg, "--group-by", "cellType", "--along", "time", "--kind", "ratio")
	require.True(t, errors.Is(err, errors.CodeConfig), "got %v", err)

	_, _, err = execute(t, "table", "dotplot", "--config", cfg, "--group-by", "cellType", "--plot", "Xist")
	require.True(t, errors.Is(err, errors.CodeLookup), "got %v", err)

	_, _, err = execute(t, "table", "dotplot", "--config", cfg, "--plot", "Actb")
	require.Error(t, err)
}

func TestParsePalette(t *testing.T) {
	red := encode.MustParseColor("red")
	blue := encode.MustParseColor("blue")

	p, err := parsePalette("")
	require.NoError(t, err)
	require.Nil(t, p)

	p, err = parsePalette("viridis")
	require.NoError(t, err)
	require.Equal(t, encode.Named("viridis"), p)

	p, err = parsePalette("red")
	require.NoError(t, err)
	require.Equal(t, encode.Listed{red}, p)

	p, err = parsePalette("red, #0000ff")
	require.NoError(t, err)
	require.Equal(t, encode.Listed{red, blue}, p)

	p, err = parsePalette("T=red,B=blue,*=blue")
	require.NoError(t, err)
	require.Equal(t, encode.Explicit{
		Colors:  map[string]color.Color{"T": red, "B": blue},
		Default: blue,
	}, p)

	for _, s := range []string{"red,notacolor", "T=notacolor", "T=red,B"} {
		_, err := parsePalette(s)
		require.True(t, errors.Is(err, errors.CodeConfig), "%q: got %v", s, err)
	}
}

func TestParseProps(t *testing.T) {
	require.Nil(t, parseProps(nil))
	require.Equal(t, map[string]any{"lw": 2.0, "aa": true, "c": "red"},
		parseProps(map[string]string{"lw": "2", "aa": "true", "c": "red"}))
}

func TestOptionalBool(t *testing.T) {
	b, err := optionalBool("")
	require.NoError(t, err)
	require.Nil(t, b)
	b, err = optionalBool("false")
	require.NoError(t, err)
	require.False(t, *b)
	_, err = optionalBool("maybe")
	require.Error(t, err)
}

func TestReadLinkage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkage.txt")
	require.NoError(t, os.WriteFile(path, []byte("# a b dist count\n0 1 1.5 2\n2,3,2,3\n"), 0o644))

	l, err := readLinkage(path)
	require.NoError(t, err)
	require.Equal(t, 3, l.Len())
	require.Equal(t, 1.5, l[0].Dist)

	l, err = readLinkage("")
	require.NoError(t, err)
	require.Nil(t, l)

	require.NoError(t, os.WriteFile(path, []byte("0 1 x 2\n"), 0o644))
	_, err = readLinkage(path)
	require.True(t, errors.Is(err, errors.CodeInvalidData))
}

func TestReadCoordinates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsne.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,x,y\ns1,0,1\ns2,2.5,-1\n"), 0o644))

	c, err := readCoordinates(path)
	require.NoError(t, err)
	require.Equal(t, &plot.Coordinates{
		IDs: []string{"s1", "s2"},
		X:   []float64{0, 2.5},
		Y:   []float64{1, -1},
	}, c)
}

func TestPrintLegend(t *testing.T) {
	var buf bytes.Buffer
	printLegend(&buf, &plot.Legend{
		Categories: map[string]encode.Categories{
			"color": {Labels: []string{"B", "T"}, Colors: map[string]color.NRGBA{
				"B": encode.MustParseColor("blue"),
				"T": encode.MustParseColor("red"),
			}},
		},
		Domains: map[string]encode.Domain{
			"heatmap": {Min: 0, Max: 2, Log: true, Pseudocount: 0.1},
		},
	})
	out := buf.String()
	require.Contains(t, out, "color")
	require.Contains(t, out, "T")
	require.Contains(t, out, "log10, pseudocount 0.1")
}
