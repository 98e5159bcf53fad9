// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset holds single-cell expression data: a counts table
// of features by samples, and sample and feature metadata sheets.
package dataset

import (
	"fmt"
	"slices"

	"github.com/singlet-bio/singlet/errors"
)

// Axis selects samples or features.
type Axis int

const (
	Samples Axis = iota
	Features
)

func (a Axis) String() string {
	switch a {
	case Samples:
		return "samples"
	case Features:
		return "features"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis parses "samples" or "features".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "samples":
		return Samples, nil
	case "features":
		return Features, nil
	}
	return 0, errors.Config("axis must be \"samples\" or \"features\", got %q", s)
}

// A Dataset is a counts table with its metadata. SampleSheet rows
// line up with Counts.Samples and FeatureSheet rows with
// Counts.Features; either sheet may be nil.
type Dataset struct {
	Counts       *CountsTable
	SampleSheet  *Sheet
	FeatureSheet *Sheet
}

// New returns a Dataset, checking that the sheets describe the same
// identifiers as counts, in the same order.
func New(counts *CountsTable, samples, features *Sheet) (*Dataset, error) {
	if samples != nil && !slices.Equal(samples.IDs, counts.Samples) {
		return nil, errors.New(errors.CodeInvalidData, "samplesheet does not match the samples of the counts table")
	}
	if features != nil && !slices.Equal(features.IDs, counts.Features) {
		return nil, errors.New(errors.CodeInvalidData, "featuresheet does not match the features of the counts table")
	}
	return &Dataset{Counts: counts, SampleSheet: samples, FeatureSheet: features}, nil
}

// SampleNames returns the sample identifiers.
func (d *Dataset) SampleNames() []string { return d.Counts.Samples }

// FeatureNames returns the feature identifiers.
func (d *Dataset) FeatureNames() []string { return d.Counts.Features }

// Names returns the identifiers along axis.
func (d *Dataset) Names(axis Axis) []string {
	if axis == Features {
		return d.Counts.Features
	}
	return d.Counts.Samples
}

// Sheet returns the metadata sheet along axis.
func (d *Dataset) Sheet(axis Axis) *Sheet {
	if axis == Features {
		return d.FeatureSheet
	}
	return d.SampleSheet
}

// A ValueColumn is one value per sample or per feature, taken either
// from a metadata column or from the counts table.
type ValueColumn struct {
	Name string
	IDs  []string

	// Categorical columns hold Labels, numeric ones Values.
	Categorical bool
	Labels      []string
	Values      []float64

	// Phenotype is set if the column came from a metadata sheet
	// rather than the counts.
	Phenotype bool
}

// Len returns the number of entries in v.
func (v *ValueColumn) Len() int {
	if v.Categorical {
		return len(v.Labels)
	}
	return len(v.Values)
}

// Lookup returns the values of key for every identifier along axis.
// Metadata columns take precedence. Otherwise key must name the
// other axis of the counts table: a feature for Samples, or a sample
// for Features.
func (d *Dataset) Lookup(axis Axis, key string) (*ValueColumn, error) {
	ids := d.Names(axis)
	if col, ok := d.Sheet(axis).Column(key); ok {
		return &ValueColumn{
			Name:        key,
			IDs:         ids,
			Categorical: col.Categorical,
			Labels:      col.Labels,
			Values:      col.Values,
			Phenotype:   true,
		}, nil
	}

	var values []float64
	var err error
	if axis == Samples {
		values, err = d.Counts.Row(key)
	} else {
		values, err = d.Counts.Column(key)
	}
	if err != nil {
		return nil, errors.Lookup("%q is neither a %s metadata column nor a counts %s", key, axis.singular(), axis.other().singular())
	}
	return &ValueColumn{Name: key, IDs: ids, Values: values}, nil
}

func (a Axis) singular() string {
	if a == Features {
		return "feature"
	}
	return "sample"
}

func (a Axis) other() Axis {
	if a == Features {
		return Samples
	}
	return Features
}
