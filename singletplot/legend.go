// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/charmbracelet/lipgloss"

	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/plot"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// rampWidth is the number of cells in a printed color ramp.
const rampWidth = 24

// swatch renders a two-cell block of c.
func swatch(c color.Color) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(encode.Hex(c)[:7])).Render("  ")
}

func ramp(p palette.Continuous) string {
	var b strings.Builder
	for i := 0; i < rampWidth; i++ {
		x := float64(i) / (rampWidth - 1)
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(encode.Hex(p.Map(x))[:7])).Render(" "))
	}
	return b.String()
}

// printLegend writes a terminal rendering of lg to w.
func printLegend(w io.Writer, lg *plot.Legend) {
	for _, role := range sortedKeys(lg.Categories) {
		printCategories(w, role, lg.Categories[role])
	}
	for _, role := range sortedKeys(lg.Domains) {
		printDomain(w, role, lg.Domains[role])
	}
	for _, cb := range lg.Colorbars {
		if cb.Qualitative {
			printCategories(w, cb.Name, cb.Categories)
		} else {
			printDomain(w, cb.Name, cb.Domain)
		}
	}
	if lg.Dots != nil {
		printDots(w, lg.Dots)
	}
}

func printCategories(w io.Writer, title string, c encode.Categories) {
	fmt.Fprintln(w, styleTitle.Render(title))
	for _, l := range c.Labels {
		fmt.Fprintf(w, "  %s %s\n", swatch(c.Colors[l]), l)
	}
}

func printDomain(w io.Writer, title string, d encode.Domain) {
	fmt.Fprintln(w, styleTitle.Render(title))
	unit := ""
	if d.Log {
		unit = styleDim.Render(fmt.Sprintf(" (log10, pseudocount %g)", d.Pseudocount))
	}
	if d.Palette == nil {
		fmt.Fprintf(w, "  %.3g .. %.3g%s\n", d.Min, d.Max, unit)
		return
	}
	fmt.Fprintf(w, "  %.3g %s %.3g%s\n", d.Min, ramp(d.Palette), d.Max, unit)
}

func printDots(w io.Writer, d *plot.DotMap) {
	fmt.Fprintln(w, styleTitle.Render("fraction expressing"))
	for _, f := range []float64{0, 0.25, 0.5, 0.75, 1} {
		fmt.Fprintf(w, "  %3.0f%% %s\n", 100*f, styleDim.Render(fmt.Sprintf("size %.1f", d.Sizes.Size(f))))
	}
	if d.Colors == nil {
		return
	}
	fmt.Fprintln(w, styleTitle.Render("level"))
	for _, item := range sortedKeys(d.Bounds) {
		b := d.Bounds[item]
		fmt.Fprintf(w, "  %s %.3g %s %.3g\n", item, b[0], ramp(d.Colors), b[1])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
