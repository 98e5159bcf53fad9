// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command singletplot draws plots of a single-cell counts table.
//
// The dataset is described by a configuration file (see package
// internal/config) named by --config, the SINGLET_CONFIG_FILENAME
// environment variable, or singlet.yml in the current directory.
//
// Each subcommand draws one kind of plot and writes it as SVG to
// standard output or to the file named by -o. Output files ending in
// .svgz are gzip-compressed. With --legend, the colors and sizes the
// plot uses are printed to standard error.
//
// The table subcommand takes the same subcommands and prints the
// data behind the plot instead of drawing it:
//
//	singletplot dotplot --group-by cellType --plot Actb,Cd3e -o dots.svg
//	singletplot table dotplot --group-by cellType --plot Actb,Cd3e
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
