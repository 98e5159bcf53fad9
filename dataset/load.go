// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/singlet-bio/singlet/errors"
)

// Source describes where a dataset is stored.
type Source struct {
	// CountsPath names a delimited text file whose header row
	// gives the sample names and whose first column gives the
	// feature names. It is required.
	CountsPath string

	// SampleSheetPath and FeatureSheetPath name optional
	// metadata files with a header row of column names and a
	// first column of identifiers.
	SampleSheetPath  string
	FeatureSheetPath string

	// Sep is the field separator. If 0, it is chosen per file:
	// tab for ".tsv" and ".txt", comma otherwise.
	Sep rune

	// Pseudocount overrides DefaultPseudocount if positive.
	Pseudocount float64

	SpikeIns      []string
	OtherFeatures []string
	Normalized    string

	// Categorical names metadata columns to keep as labels even
	// if every entry looks like a number.
	Categorical []string
}

// Load reads the dataset described by src. Files ending in ".gz" are
// decompressed.
func Load(src Source) (*Dataset, error) {
	if src.CountsPath == "" {
		return nil, errors.Config("no counts table path")
	}

	var counts *CountsTable
	err := readFile(src.CountsPath, src.Sep, func(r *csv.Reader) error {
		var err error
		counts, err = readCounts(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	if src.Pseudocount > 0 {
		counts.Pseudocount = src.Pseudocount
	}
	counts.SpikeIns = src.SpikeIns
	counts.OtherFeatures = src.OtherFeatures
	counts.Normalized = src.Normalized

	sheet := func(path string) (*Sheet, error) {
		if path == "" {
			return nil, nil
		}
		var s *Sheet
		err := readFile(path, src.Sep, func(r *csv.Reader) error {
			var err error
			s, err = readSheet(r, src.Categorical)
			return err
		})
		return s, err
	}
	samples, err := sheet(src.SampleSheetPath)
	if err != nil {
		return nil, err
	}
	features, err := sheet(src.FeatureSheetPath)
	if err != nil {
		return nil, err
	}
	return New(counts, samples, features)
}

func readFile(path string, sep rune, fn func(*csv.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.CodeIO, err, "opening %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	name := path
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return errors.Wrap(errors.CodeInvalidData, err, "reading %s", path)
		}
		defer zr.Close()
		r = zr
		name = strings.TrimSuffix(path, ".gz")
	}
	if sep == 0 {
		sep = sepFor(name)
	}

	if err := fn(newReader(r, sep)); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.CodeInvalidData, err, "reading %s", path)
		}
		return err
	}
	return nil
}

// invalid marks uncoded parse errors as invalid data.
func invalid(err error) error {
	if err != nil && errors.GetCode(err) == "" {
		return errors.Wrap(errors.CodeInvalidData, err, "parsing")
	}
	return err
}

func sepFor(name string) rune {
	switch filepath.Ext(name) {
	case ".tsv", ".txt", ".tab":
		return '\t'
	}
	return ','
}

func newReader(r io.Reader, sep rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.Comment = '#'
	return cr
}

// ReadCounts reads a counts table from r.
func ReadCounts(r io.Reader, sep rune) (*CountsTable, error) {
	c, err := readCounts(newReader(r, sep))
	return c, invalid(err)
}

// ReadSheet reads a metadata sheet from r. Columns named in
// categorical are never treated as numeric.
func ReadSheet(r io.Reader, sep rune, categorical ...string) (*Sheet, error) {
	s, err := readSheet(newReader(r, sep), categorical)
	return s, invalid(err)
}

func readCounts(r *csv.Reader) (*CountsTable, error) {
	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New(errors.CodeInvalidData, "empty counts table")
	} else if err != nil {
		return nil, err
	}
	samples := header[1:]

	var features []string
	var values [][]float64
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		row := make([]float64, len(rec)-1)
		for j, cell := range rec[1:] {
			v, ok := parseCell(cell)
			if !ok {
				line, _ := r.FieldPos(j + 1)
				return nil, errors.New(errors.CodeInvalidData, "line %d: feature %q: bad count %q", line, rec[0], cell)
			}
			row[j] = v
		}
		features = append(features, rec[0])
		values = append(values, row)
	}
	return NewCountsTable(features, samples, values)
}

func readSheet(r *csv.Reader, categorical []string) (*Sheet, error) {
	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New(errors.CodeInvalidData, "empty sheet")
	} else if err != nil {
		return nil, err
	}
	names := header[1:]

	var ids []string
	cells := make([][]string, len(names))
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		ids = append(ids, rec[0])
		for j, cell := range rec[1:] {
			cells[j] = append(cells[j], cell)
		}
	}

	s, err := NewSheet(ids)
	if err != nil {
		return nil, err
	}
	forced := make(map[string]bool, len(categorical))
	for _, c := range categorical {
		forced[c] = true
	}
	for j, name := range names {
		col := &Column{Name: name, Categorical: true, Labels: cells[j]}
		if !forced[name] {
			if values, ok := parseColumn(cells[j]); ok {
				col = &Column{Name: name, Values: values}
			}
		}
		if err := s.Add(col); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// parseColumn parses cells as numbers. It fails if any present cell
// is not a number or if every cell is missing.
func parseColumn(cells []string) ([]float64, bool) {
	values := make([]float64, len(cells))
	present := false
	for i, cell := range cells {
		v, ok := parseCell(cell)
		if !ok {
			return nil, false
		}
		if !math.IsNaN(v) {
			present = true
		}
		values[i] = v
	}
	return values, present
}

// parseCell parses a numeric cell. Empty, "NA", and "NaN" cells are
// missing and parse as NaN.
func parseCell(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "na", "nan":
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
