// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image/color"
	"sync"

	"github.com/aclements/go-gg/palette"
	"github.com/google/uuid"

	"github.com/singlet-bio/singlet/encode"
)

// Legends records the legend artifacts of figures, keyed by
// Figure.ID. It is safe for concurrent use. A nil *Legends discards
// everything recorded in it.
type Legends struct {
	mu sync.Mutex
	m  map[uuid.UUID]*Legend
}

// A Legend holds what a reader needs to decode one figure's colors
// and sizes.
type Legend struct {
	// Categories maps a role ("color", "groups") to a
	// categorical encoding.
	Categories map[string]encode.Categories

	// Domains maps a role ("color", "heatmap") to a continuous
	// encoding.
	Domains map[string]encode.Domain

	// Colorbars describe clustermap annotation bars, in drawing
	// order.
	Colorbars []Colorbar

	// Dots is the size and color mapping of a dot plot.
	Dots *DotMap
}

// A Colorbar describes one annotation bar of a clustermap.
type Colorbar struct {
	Name string

	// Qualitative bars have Categories; sequential bars have a
	// Domain.
	Qualitative bool
	Categories  encode.Categories
	Domain      encode.Domain
}

// A DotMap records how a dot plot maps fractions to sizes and levels
// to colors.
type DotMap struct {
	Sizes  encode.SizeMap
	Colors palette.Continuous

	// Bounds maps each plotted item to the [min, max] level range
	// its shades are normalized by.
	Bounds map[string][2]float64
}

// Color returns the color of level for item.
func (d *DotMap) Color(item string, level float64) color.Color {
	b := d.Bounds[item]
	return d.Colors.Map(shade(level, b[0], b[1]))
}

// NewLegends returns an empty legend table.
func NewLegends() *Legends {
	return &Legends{m: make(map[uuid.UUID]*Legend)}
}

// Get returns the legend of the figure with the given ID.
func (l *Legends) Get(id uuid.UUID) (*Legend, bool) {
	if l == nil {
		return nil, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lg, ok := l.m[id]
	return lg, ok
}

// Delete forgets the legend of id.
func (l *Legends) Delete(id uuid.UUID) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.m, id)
}

// Len returns the number of figures with legends.
func (l *Legends) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func (l *Legends) update(id uuid.UUID, fn func(*Legend)) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lg, ok := l.m[id]
	if !ok {
		lg = &Legend{
			Categories: make(map[string]encode.Categories),
			Domains:    make(map[string]encode.Domain),
		}
		l.m[id] = lg
	}
	fn(lg)
}

func (l *Legends) setCategories(id uuid.UUID, role string, c encode.Categories) {
	l.update(id, func(lg *Legend) { lg.Categories[role] = c })
}

func (l *Legends) setDomain(id uuid.UUID, role string, d encode.Domain) {
	l.update(id, func(lg *Legend) { lg.Domains[role] = d })
}

func (l *Legends) addColorbar(id uuid.UUID, cb Colorbar) {
	l.update(id, func(lg *Legend) { lg.Colorbars = append(lg.Colorbars, cb) })
}

func (l *Legends) setDots(id uuid.UUID, d *DotMap) {
	l.update(id, func(lg *Legend) { lg.Dots = d })
}
