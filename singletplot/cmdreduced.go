// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/singlet-bio/singlet/encode"
	"github.com/singlet-bio/singlet/errors"
	"github.com/singlet-bio/singlet/plot"
)

var reducedPlotter = plotter{
	use:   "reduced",
	short: "Scatter samples or features in a reduced space",
	long: `Reduced plots samples or features at coordinates taken from two
metadata columns (--columns) or from a file of id,x,y rows
(--coordinates), optionally colored by a metadata column or an
expression profile (--color-by).`,
	bind: func(cmd *cobra.Command) drawFunc {
		var opts plot.ReducedOptions
		var props map[string]string
		var coords, colorLog, pal, def string
		f := cmd.Flags()
		f.StringSliceVar(&opts.Columns, "columns", nil, "the two metadata `columns` holding the embedding")
		f.StringVar(&coords, "coordinates", "", "read the embedding from `file` of id,x,y rows")
		f.StringVar(&opts.ColorBy, "color-by", "", "color by metadata column or counts `key`")
		f.StringVar(&colorLog, "color-log", "", "log-scale colors: true or false (default: true for counts)")
		f.StringVar(&pal, "palette", "", "color `palette`")
		f.StringVar(&def, "default-color", "", "`color` of missing values")
		f.BoolVar(&opts.HighOnTop, "high-on-top", false, "draw high values last")
		f.StringToStringVar(&props, "prop", nil, "drawing property `key=value`")
		return func(e *env) (*plot.Figure, error) {
			var err error
			if opts.ColorLog, err = optionalBool(colorLog); err != nil {
				return nil, err
			}
			if pal == "" {
				pal = e.cfg.Plot.Colormap
			}
			if opts.Palette, err = parsePalette(pal); err != nil {
				return nil, err
			}
			if def == "" {
				def = e.cfg.Plot.Color
			}
			if def != "" {
				if opts.DefaultColor, err = encode.ParseColor(def); err != nil {
					return nil, err
				}
			}
			if coords != "" {
				if opts.Coordinates, err = readCoordinates(coords); err != nil {
					return nil, err
				}
			}
			opts.Props = parseProps(props)
			return plot.ScatterReduced(e.d, opts, e.legends)
		}
	},
}

// readCoordinates reads an embedding from a delimited file of id, x,
// y rows. A header row is skipped if its coordinates are not numbers.
func readCoordinates(path string) (*plot.Coordinates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeIO, err, "reading coordinates")
	}
	defer f.Close()

	r := csv.NewReader(f)
	if strings.HasSuffix(path, ".tsv") || strings.HasSuffix(path, ".txt") {
		r.Comma = '\t'
	}
	r.FieldsPerRecord = 3
	recs, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidData, err, "reading %s", path)
	}

	var c plot.Coordinates
	for i, rec := range recs {
		x, errx := strconv.ParseFloat(rec[1], 64)
		y, erry := strconv.ParseFloat(rec[2], 64)
		if errx != nil || erry != nil {
			if i == 0 {
				continue
			}
			return nil, errors.New(errors.CodeInvalidData, "%s:%d: bad coordinates", path, i+1)
		}
		c.IDs = append(c.IDs, rec[0])
		c.X = append(c.X, x)
		c.Y = append(c.Y, y)
	}
	return &c, nil
}
