// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/errors"
)

// violinOutline turns each group's density estimate over X into a
// closed polygon: the "width" column runs from +density down one side
// and back up the other at -density. The group label is kept in
// column Key.
type violinOutline struct {
	X, Key string
}

func (v violinOutline) F(g table.Grouping) table.Grouping {
	return table.MapTables(g, func(gid table.GroupID, t *table.Table) *table.Table {
		xs, ds := floatCol(t, v.X), floatCol(t, "probability density")
		n := len(xs)
		px := make([]float64, 0, 2*n)
		pw := make([]float64, 0, 2*n)
		for i := 0; i < n; i++ {
			px = append(px, xs[i])
			pw = append(pw, ds[i])
		}
		for i := n - 1; i >= 0; i-- {
			px = append(px, xs[i])
			pw = append(pw, -ds[i])
		}
		return new(table.Builder).
			Add(v.X, px).
			Add("width", pw).
			AddConst(v.Key, gid.Label()).
			Done()
	})
}

func floatCol(t *table.Table, col string) []float64 {
	var xs []float64
	slice.Convert(&xs, t.MustColumn(col))
	return xs
}

// selectFeatures returns the rows of c named by set, or by names if
// it is non-nil. Known sets are "total" (everything), "mapped"
// (without spike-ins and other features), "spikeins", and "other".
// allowed restricts the sets a caller accepts.
func selectFeatures(c *dataset.CountsTable, set string, names []string, ignoreMissing bool, allowed ...string) (*dataset.CountsTable, error) {
	if names != nil {
		return c.Subset(names)
	}
	ok := false
	for _, a := range allowed {
		if a == set {
			ok = true
		}
	}
	if !ok {
		return nil, errors.Config("unknown feature set %q", set)
	}
	switch set {
	case "total":
		return c, nil
	case "mapped":
		return c.ExcludeFeatures(true, true, ignoreMissing)
	case "spikeins":
		return c.SpikeInsTable(), nil
	case "other":
		return c.OtherFeaturesTable(), nil
	}
	return nil, errors.Config("unknown feature set %q", set)
}

func checkOrientation(o string) error {
	switch o {
	case "horizontal", "vertical":
		return nil
	}
	return errors.Config("orientation must be \"horizontal\" or \"vertical\", got %q", o)
}
