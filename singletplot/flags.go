// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
)

// parsePalette parses a palette flag. It is one of:
//
//	viridis                 a named palette
//	red,#00ff00,blue        a list of colors
//	T=red,B=blue            a mapping from labels to colors
//	T=red,B=blue,*=grey     the same, with a default color
//
// An empty string means the plot's default palette.
func parsePalette(s string) (encode.Palette, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if !strings.Contains(s, "=") {
		if len(parts) == 1 {
			if _, err := encode.ParseColor(s); err != nil {
				return encode.Named(s), nil
			}
		}
		var l encode.Listed
		for _, p := range parts {
			c, err := encode.ParseColor(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			l = append(l, c)
		}
		return l, nil
	}

	e := encode.Explicit{Colors: make(map[string]color.Color)}
	for _, p := range parts {
		label, name, ok := strings.Cut(p, "=")
		if !ok {
			return nil, errors.Config("palette entry %q is not label=color", p)
		}
		c, err := encode.ParseColor(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		if label == "*" {
			e.Default = c
		} else {
			e.Colors[strings.TrimSpace(label)] = c
		}
	}
	return e, nil
}

// parseProps converts --prop key=value flags to drawing properties.
// Values that parse as numbers or booleans are converted.
func parseProps(kv map[string]string) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	props := make(map[string]any, len(kv))
	for k, v := range kv {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			props[k] = f
		} else if b, err := strconv.ParseBool(v); err == nil {
			props[k] = b
		} else {
			props[k] = v
		}
	}
	return props
}

// optionalBool maps "", "true", and "false" to nil, &true, and
// &false.
func optionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, errors.Config("bad boolean %q", s)
	}
	return &b, nil
}

// readLinkage reads a linkage matrix with one merge per line, four
// whitespace- or comma-separated numbers each. Lines starting with
// "#" are ignored.
func readLinkage(path string) (dataset.Linkage, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeIO, err, "reading linkage")
	}
	defer f.Close()

	var rows [][]float64
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		row := make([]float64, len(fields))
		for i, fld := range fields {
			row[i], err = strconv.ParseFloat(fld, 64)
			if err != nil {
				return nil, errors.Wrap(errors.CodeInvalidData, err, "%s:%d", path, line)
			}
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeIO, err, "reading linkage")
	}
	return dataset.LinkageFromRows(rows)
}
