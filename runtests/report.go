// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/singlet-bio/singlet/internal/loganal"
)

var (
	stylePass  = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleFail  = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	styleSkip  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
)

// writeReport summarizes results: one line per script, then the
// failures grouped into classes.
func writeReport(w io.Writer, results []*Result, notRun []Script) {
	var total time.Duration
	var failures []*loganal.Failure
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "%s %s %s\n", styleSkip.Render("-"), r.Script.Name(), styleSkip.Render("("+r.Script.Where.String()+" only)"))
		case r.Failed():
			fmt.Fprintf(w, "%s %s (%s)\n", styleFail.Render("✗"), r.Script.Name(), r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(w, "%s %s (%s)\n", stylePass.Render("✓"), r.Script.Name(), r.Duration.Round(time.Millisecond))
		}
		if r.ReadErr != nil {
			fmt.Fprintf(w, "  %s\n", styleSkip.Render("output incomplete: "+r.ReadErr.Error()))
		}
		total += r.Duration
		failures = append(failures, r.Failures...)
	}
	for _, s := range notRun {
		fmt.Fprintf(w, "%s %s %s\n", styleSkip.Render("-"), s.Name(), styleSkip.Render("(not run)"))
	}
	fmt.Fprintf(w, "total %s\n", total.Round(time.Millisecond))

	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("Failures"))
	classes := loganal.Classify(failures)
	keys := make([]loganal.Failure, 0, len(classes))
	for k := range classes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return classes[keys[i]][0] < classes[keys[j]][0]
	})
	for _, k := range keys {
		n := len(classes[k])
		if n == 1 {
			fmt.Fprintf(w, "  %s\n", k)
		} else {
			fmt.Fprintf(w, "  %s (×%d)\n", k, n)
		}
	}
}
