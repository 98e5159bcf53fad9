// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/singlet-bio/singlet/errors"
)

// DefaultPseudocount is the pseudocount of a new CountsTable.
const DefaultPseudocount = 0.1

// A CountsTable is a features × samples matrix of counts.
type CountsTable struct {
	// Features and Samples name the rows and columns.
	Features []string
	Samples  []string

	// Values[i][j] is the count of Features[i] in Samples[j].
	// NaN is a missing count.
	Values [][]float64

	// Pseudocount is added before taking logarithms.
	Pseudocount float64

	// SpikeIns and OtherFeatures name special features, such
	// as ERCC spike-in controls and unmapped or ambiguous read
	// bins. They need not all be present in Features.
	SpikeIns      []string
	OtherFeatures []string

	// Normalized describes the units of Values: "" for raw
	// reads, "custom" for an unnamed normalization, or a
	// method name such as "counts_per_million".
	Normalized string

	featureIdx map[string]int
	sampleIdx  map[string]int
}

// NewCountsTable returns a CountsTable over the given names and
// values. values must have one row per feature and one column per
// sample, and names must be unique.
func NewCountsTable(features, samples []string, values [][]float64) (*CountsTable, error) {
	if len(values) != len(features) {
		return nil, errors.New(errors.CodeInvalidData, "counts have %d rows but %d features", len(values), len(features))
	}
	for i, row := range values {
		if len(row) != len(samples) {
			return nil, errors.New(errors.CodeInvalidData, "feature %q has %d counts but there are %d samples", features[i], len(row), len(samples))
		}
	}
	c := &CountsTable{
		Features:    features,
		Samples:     samples,
		Values:      values,
		Pseudocount: DefaultPseudocount,
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CountsTable) index() error {
	c.featureIdx = make(map[string]int, len(c.Features))
	for i, f := range c.Features {
		if _, ok := c.featureIdx[f]; ok {
			return errors.New(errors.CodeInvalidData, "duplicate feature %q", f)
		}
		c.featureIdx[f] = i
	}
	c.sampleIdx = make(map[string]int, len(c.Samples))
	for j, s := range c.Samples {
		if _, ok := c.sampleIdx[s]; ok {
			return errors.New(errors.CodeInvalidData, "duplicate sample %q", s)
		}
		c.sampleIdx[s] = j
	}
	return nil
}

// derive returns a table with c's metadata and the given contents.
func (c *CountsTable) derive(features, samples []string, values [][]float64) *CountsTable {
	n := &CountsTable{
		Features:      features,
		Samples:       samples,
		Values:        values,
		Pseudocount:   c.Pseudocount,
		SpikeIns:      c.SpikeIns,
		OtherFeatures: c.OtherFeatures,
		Normalized:    c.Normalized,
	}
	// Names come from c, so they are already unique.
	n.index()
	return n
}

// HasFeature reports whether name is a row of c.
func (c *CountsTable) HasFeature(name string) bool {
	_, ok := c.featureIdx[name]
	return ok
}

// HasSample reports whether name is a column of c.
func (c *CountsTable) HasSample(name string) bool {
	_, ok := c.sampleIdx[name]
	return ok
}

// Row returns the counts of feature name across all samples. The
// result aliases c.
func (c *CountsTable) Row(name string) ([]float64, error) {
	i, ok := c.featureIdx[name]
	if !ok {
		return nil, errors.Lookup("no feature %q", name)
	}
	return c.Values[i], nil
}

// Column returns the counts of every feature in sample name.
func (c *CountsTable) Column(name string) ([]float64, error) {
	j, ok := c.sampleIdx[name]
	if !ok {
		return nil, errors.Lookup("no sample %q", name)
	}
	out := make([]float64, len(c.Features))
	for i, row := range c.Values {
		out[i] = row[j]
	}
	return out, nil
}

// SumSamples returns the total count of each sample. Missing counts
// are skipped.
func (c *CountsTable) SumSamples() []float64 {
	sums := make([]float64, len(c.Samples))
	for _, row := range c.Values {
		for j, v := range row {
			if !math.IsNaN(v) {
				sums[j] += v
			}
		}
	}
	return sums
}

// Subset returns the rows of c named by features, in that order.
func (c *CountsTable) Subset(features []string) (*CountsTable, error) {
	seen := make(map[string]bool, len(features))
	values := make([][]float64, len(features))
	for i, f := range features {
		if seen[f] {
			return nil, errors.Config("feature %q selected twice", f)
		}
		seen[f] = true
		row, err := c.Row(f)
		if err != nil {
			return nil, err
		}
		values[i] = row
	}
	return c.derive(features, c.Samples, values), nil
}

// ExcludeFeatures returns c without its spike-ins and/or other
// features. Unless ignoreMissing is set, every excluded name must be
// a row of c.
func (c *CountsTable) ExcludeFeatures(spikeins, other, ignoreMissing bool) (*CountsTable, error) {
	drop := make(map[string]bool)
	add := func(names []string, what string) error {
		for _, n := range names {
			if !c.HasFeature(n) && !ignoreMissing {
				return errors.Config("%s %q not found in counts", what, n)
			}
			drop[n] = true
		}
		return nil
	}
	if spikeins {
		if err := add(c.SpikeIns, "spike-in"); err != nil {
			return nil, err
		}
	}
	if other {
		if err := add(c.OtherFeatures, "other feature"); err != nil {
			return nil, err
		}
	}

	var keep []string
	for _, f := range c.Features {
		if !drop[f] {
			keep = append(keep, f)
		}
	}
	return c.Subset(keep)
}

// SpikeInsTable returns the spike-in rows present in c.
func (c *CountsTable) SpikeInsTable() *CountsTable {
	t, _ := c.Subset(c.present(c.SpikeIns))
	return t
}

// OtherFeaturesTable returns the other-feature rows present in c.
func (c *CountsTable) OtherFeaturesTable() *CountsTable {
	t, _ := c.Subset(c.present(c.OtherFeatures))
	return t
}

func (c *CountsTable) present(names []string) []string {
	var out []string
	for _, n := range names {
		if c.HasFeature(n) {
			out = append(out, n)
		}
	}
	return out
}

// Transpose returns the samples × features table. Its Features are
// c's Samples and vice versa.
func (c *CountsTable) Transpose() *CountsTable {
	values := make([][]float64, len(c.Samples))
	for j := range values {
		values[j] = make([]float64, len(c.Features))
		for i, row := range c.Values {
			values[j][i] = row[j]
		}
	}
	return c.derive(c.Samples, c.Features, values)
}

// Normalize returns c scaled by method. The only method is
// "counts_per_million", which divides each sample by its total and
// multiplies by one million. Spike-ins and other features are left
// out of the totals but scaled with everything else.
func (c *CountsTable) Normalize(method string) (*CountsTable, error) {
	if c.Normalized != "" {
		return nil, errors.Config("counts are already normalized (%s)", c.Normalized)
	}
	switch method {
	case "counts_per_million":
	default:
		return nil, errors.Config("unknown normalization %q", method)
	}

	mapped, err := c.ExcludeFeatures(true, true, true)
	if err != nil {
		return nil, err
	}
	sizes := mapped.SumSamples()
	values := make([][]float64, len(c.Values))
	for i, row := range c.Values {
		values[i] = make([]float64, len(row))
		for j, v := range row {
			values[i][j] = 1e6 * v / sizes[j]
		}
	}
	n := c.derive(c.Features, c.Samples, values)
	n.Normalized = method
	return n, nil
}

// Fingerprint returns a hash of c's names and values. Tables with
// equal contents have equal fingerprints.
func (c *CountsTable) Fingerprint() uint64 {
	h := xxhash.New()
	for _, f := range c.Features {
		h.WriteString(f)
		h.Write([]byte{0})
	}
	for _, s := range c.Samples {
		h.WriteString(s)
		h.Write([]byte{0})
	}
	var buf [8]byte
	for _, row := range c.Values {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}
