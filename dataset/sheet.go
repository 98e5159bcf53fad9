// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"strconv"

	"github.com/singlet-bio/singlet/errors"
)

// A Sheet is a table of metadata with one row per identifier (a
// sample or a feature) and any number of named columns.
type Sheet struct {
	IDs []string

	cols  []*Column
	byCol map[string]*Column
	byID  map[string]int
}

// A Column is one metadata column of a Sheet. Categorical columns
// hold Labels; numeric columns hold Values, with NaN for missing
// entries.
type Column struct {
	Name        string
	Categorical bool
	Labels      []string
	Values      []float64
}

// Len returns the number of entries in c.
func (c *Column) Len() int {
	if c.Categorical {
		return len(c.Labels)
	}
	return len(c.Values)
}

// Strings returns the entries of c as labels. Numeric entries are
// formatted in the shortest form that round-trips.
func (c *Column) Strings() []string {
	if c.Categorical {
		return c.Labels
	}
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

// NewSheet returns an empty sheet over ids.
func NewSheet(ids []string) (*Sheet, error) {
	s := &Sheet{
		IDs:   ids,
		byCol: make(map[string]*Column),
		byID:  make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		if _, ok := s.byID[id]; ok {
			return nil, errors.New(errors.CodeInvalidData, "duplicate identifier %q", id)
		}
		s.byID[id] = i
	}
	return s, nil
}

// Add appends col to s. It must have one entry per identifier and a
// name not already in s.
func (s *Sheet) Add(col *Column) error {
	if col.Len() != len(s.IDs) {
		return errors.New(errors.CodeInvalidData, "column %q has %d entries, want %d", col.Name, col.Len(), len(s.IDs))
	}
	if _, ok := s.byCol[col.Name]; ok {
		return errors.New(errors.CodeInvalidData, "duplicate column %q", col.Name)
	}
	s.cols = append(s.cols, col)
	s.byCol[col.Name] = col
	return nil
}

// AddCategorical is shorthand for adding a categorical column.
func (s *Sheet) AddCategorical(name string, labels []string) error {
	return s.Add(&Column{Name: name, Categorical: true, Labels: labels})
}

// AddNumeric is shorthand for adding a numeric column.
func (s *Sheet) AddNumeric(name string, values []float64) error {
	return s.Add(&Column{Name: name, Values: values})
}

// Column returns the column called name.
func (s *Sheet) Column(name string) (*Column, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.byCol[name]
	return c, ok
}

// Columns returns the column names in insertion order.
func (s *Sheet) Columns() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.cols))
	for i, c := range s.cols {
		names[i] = c.Name
	}
	return names
}

// Index returns the row of id.
func (s *Sheet) Index(id string) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// Len returns the number of identifiers.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.IDs)
}
