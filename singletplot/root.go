// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/internal/config"
	"github.com/singlet-bio/singlet/plot"
)

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	verbose   bool
	config    string
	output    string
	legend    bool
	width     int
	height    int
	normalize string
}

// env is what a plot command draws from.
type env struct {
	d       *dataset.Dataset
	cfg     *config.Config
	legends *plot.Legends
}

// drawFunc draws one figure.
type drawFunc func(e *env) (*plot.Figure, error)

// A plotter is a subcommand that draws a figure. bind registers the
// subcommand's flags on cmd and returns the function that draws with
// them.
type plotter struct {
	use   string
	short string
	long  string
	bind  func(cmd *cobra.Command) drawFunc
}

var plotters = []plotter{
	coveragePlotter,
	statsPlotter,
	distributionsPlotter,
	reducedPlotter,
	clustermapPlotter,
	dotplotPlotter,
	abundancePlotter,
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:          "singletplot",
		Short:        "singletplot draws single-cell expression data",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if g.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&g.config, "config", "", "configuration `file` (default $"+config.EnvVar+" or "+config.DefaultFilename+")")
	pf.StringVarP(&g.output, "output", "o", "", "write SVG to `file` instead of standard output")
	pf.BoolVar(&g.legend, "legend", false, "print the legend to standard error")
	pf.IntVar(&g.width, "width", 0, "figure width in pixels")
	pf.IntVar(&g.height, "height", 0, "figure height in pixels")
	pf.StringVar(&g.normalize, "normalize", "", "normalize the counts by `method` (counts_per_million)")

	table := &cobra.Command{
		Use:   "table",
		Short: "Print the data behind a plot",
	}
	for _, p := range plotters {
		root.AddCommand(newPlotCmd(p, &g, renderFigure))
		table.AddCommand(newPlotCmd(p, &g, printTable))
	}
	root.AddCommand(table)
	return root
}

// emitFunc writes a drawn figure.
type emitFunc func(cmd *cobra.Command, g *globalFlags, f *plot.Figure) error

func newPlotCmd(p plotter, g *globalFlags, emit emitFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   p.use,
		Short: p.short,
		Long:  p.long,
		Args:  cobra.NoArgs,
	}
	draw := p.bind(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := loadEnv(ctx, g)
		if err != nil {
			return err
		}
		f, err := draw(e)
		if err != nil {
			return err
		}
		applySize(f, g, e.cfg)
		if err := emit(cmd, g, f); err != nil {
			return err
		}
		if g.legend {
			if lg, ok := e.legends.Get(f.ID); ok {
				printLegend(cmd.ErrOrStderr(), lg)
			}
		}
		return nil
	}
	return cmd
}

// loadEnv reads the configuration and the dataset it describes.
func loadEnv(ctx context.Context, g *globalFlags) (*env, error) {
	logger := loggerFromContext(ctx)

	path := config.Resolve(g.config)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", "path", path)

	prog := newProgress(logger)
	d, err := dataset.Load(cfg.Source())
	if err != nil {
		return nil, err
	}
	if g.normalize != "" {
		counts, err := d.Counts.Normalize(g.normalize)
		if err != nil {
			return nil, err
		}
		d.Counts = counts
	}
	prog.done("loaded dataset",
		"features", len(d.FeatureNames()),
		"samples", len(d.SampleNames()),
		"fingerprint", fmt.Sprintf("%016x", d.Counts.Fingerprint()))

	return &env{d: d, cfg: cfg, legends: plot.NewLegends()}, nil
}

// applySize sets f's size from the flags, falling back to the
// configuration.
func applySize(f *plot.Figure, g *globalFlags, cfg *config.Config) {
	if cfg.Plot.Width > 0 {
		f.Width = int(cfg.Plot.Width)
	}
	if cfg.Plot.Height > 0 {
		f.Height = int(cfg.Plot.Height)
	}
	if g.width > 0 {
		f.Width = g.width
	}
	if g.height > 0 {
		f.Height = g.height
	}
}

func renderFigure(cmd *cobra.Command, g *globalFlags, f *plot.Figure) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)
	if err := writeOutput(cmd.OutOrStdout(), g.output, f.WriteSVG); err != nil {
		return err
	}
	dest := g.output
	if dest == "" {
		dest = "stdout"
	}
	prog.done("rendered plot", "kind", f.Kind, "output", dest)
	return nil
}

func printTable(cmd *cobra.Command, g *globalFlags, f *plot.Figure) error {
	return writeOutput(cmd.OutOrStdout(), g.output, f.WriteTable)
}

// writeOutput calls write with the named file, or stdout if name is
// empty. Files ending in ".svgz" or ".gz" are gzip-compressed.
func writeOutput(stdout io.Writer, name string, write func(io.Writer) error) error {
	if name == "" {
		return write(stdout)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(name, ".svgz") || strings.HasSuffix(name, ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}
	err = write(w)
	if zw != nil {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
