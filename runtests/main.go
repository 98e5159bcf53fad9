// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command runtests runs singlet's counts table test scripts.
//
// Usage:
//
//	runtests [flags] [script...]
//
// The scripts run one at a time, in order, from the checkout
// directory, with SINGLET_CONFIG_FILENAME pointing at the example
// configuration. The first failing script stops the run. Naming
// scripts (for example "statistics bin") runs only those.
//
// Against a local checkout (--where local, or automatically when the
// host name equals --local-host), the checkout is prepended to
// PYTHONPATH so the scripts test it rather than an installed copy.
//
// Failures are extracted from each failing script's output and
// grouped into classes, so that, for example, the same exception
// with different array sizes is reported once.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

// LocalHostEnv names the development host when --local-host is not
// given.
const LocalHostEnv = "SINGLET_LOCAL_HOST"

// errFailed reports that a script failed. Its details have already
// been printed.
var errFailed = errors.New("tests failed")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		if err != errFailed {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type flags struct {
	verbose     bool
	checkout    string
	config      string
	interpreter string
	where       string
	localHost   string
	timeout     time.Duration
	stream      string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "runtests [script...]",
		Short:        "Run the counts table test scripts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if f.verbose {
				level = log.DebugLevel
			}
			logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})
			return run(cmd, &f, args, logger)
		},
	}
	fs := cmd.Flags()
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")
	fs.StringVar(&f.checkout, "checkout", ".", "run scripts in `dir`")
	fs.StringVar(&f.config, "config", DefaultConfig, "configuration `file` exported to the scripts")
	fs.StringVar(&f.interpreter, "interpreter", "", "run scripts with `command`, such as \"python3 -X dev\"")
	fs.StringVar(&f.where, "where", "auto", "host kind: local, remote, or auto")
	fs.StringVar(&f.localHost, "local-host", "", "host `name` of the development machine (default $"+LocalHostEnv+")")
	fs.DurationVar(&f.timeout, "timeout", 10*time.Minute, "stop each script after `duration`")
	fs.StringVar(&f.stream, "stream", "auto", "copy script output to stdout: always, never, or auto (if a terminal)")
	return cmd
}

func run(cmd *cobra.Command, f *flags, args []string, logger *log.Logger) error {
	host, _ := os.Hostname()
	local, err := isLocal(f.where, host, f.localHost)
	if err != nil {
		return err
	}
	interp, err := shellquote.Split(f.interpreter)
	if err != nil {
		return fmt.Errorf("bad --interpreter: %w", err)
	}
	scripts, err := selectScripts(countsTableScripts, args)
	if err != nil {
		return err
	}

	r := &Runner{
		Checkout:    f.checkout,
		Config:      f.config,
		Interpreter: interp,
		Local:       local,
		Host:        host,
		Timeout:     f.timeout,
		Logger:      logger,
	}
	switch f.stream {
	case "always":
		r.Out = cmd.OutOrStdout()
	case "never":
	case "auto":
		if terminal.IsTerminal(int(os.Stdout.Fd())) {
			r.Out = cmd.OutOrStdout()
		}
	default:
		return fmt.Errorf("--stream must be always, never, or auto")
	}
	logger.Debug("host", "name", host, "local", local)

	results, err := r.Run(cmd.Context(), scripts)
	if err != nil {
		return err
	}
	writeReport(cmd.OutOrStdout(), results, scripts[len(results):])
	for _, res := range results {
		if res.Failed() {
			if r.Out == nil {
				cmd.OutOrStdout().Write(res.Output)
			}
			return errFailed
		}
	}
	return nil
}

// isLocal decides whether this is a development checkout.
func isLocal(where, host, localHost string) (bool, error) {
	switch where {
	case "local":
		return true, nil
	case "remote":
		return false, nil
	case "auto":
		if localHost == "" {
			localHost = os.Getenv(LocalHostEnv)
		}
		return localHost != "" && host == localHost, nil
	}
	return false, fmt.Errorf("--where must be local, remote, or auto, got %q", where)
}

// selectScripts returns the scripts named in names, by Name, in run
// order. No names selects all scripts.
func selectScripts(all []Script, names []string) ([]Script, error) {
	if len(names) == 0 {
		return all, nil
	}
	var out []Script
	for _, s := range all {
		if slices.Contains(names, s.Name()) || slices.Contains(names, s.Path) {
			out = append(out, s)
		}
	}
	for _, n := range names {
		if !slices.ContainsFunc(all, func(s Script) bool { return s.Name() == n || s.Path == n }) {
			return nil, fmt.Errorf("unknown script %q", n)
		}
	}
	return out, nil
}
