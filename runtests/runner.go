// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/singlet-bio/singlet/errors"
	"github.com/singlet-bio/singlet/internal/config"
	"github.com/singlet-bio/singlet/internal/loganal"
)

// Where restricts the hosts a script runs on.
type Where int

const (
	Anywhere Where = iota
	// LocalOnly scripts run only against a local checkout.
	LocalOnly
	// RemoteOnly scripts run only against an installed package.
	RemoteOnly
)

func (w Where) String() string {
	switch w {
	case LocalOnly:
		return "local"
	case RemoteOnly:
		return "remote"
	}
	return "anywhere"
}

func (w Where) runs(local bool) bool {
	switch w {
	case LocalOnly:
		return local
	case RemoteOnly:
		return !local
	}
	return true
}

// A Script is one test script, named relative to the checkout.
type Script struct {
	Path  string
	Where Where
}

// Name returns the script's file name without its extension.
func (s Script) Name() string {
	return strings.TrimSuffix(filepath.Base(s.Path), filepath.Ext(s.Path))
}

// countsTableScripts are the counts table tests, in the order they
// must run: each builds on the state the previous ones checked.
var countsTableScripts = []Script{
	{Path: "test/counts_table/initialize.py"},
	{Path: "test/counts_table/statistics.py"},
	{Path: "test/counts_table/bin.py"},
	{Path: "test/counts_table/initialize_sparse.py"},
	{Path: "test/counts_table/statistics_sparse.py"},
	{Path: "test/counts_table/initialize_xr.py"},
	{Path: "test/counts_table/statistics_xr.py"},
}

// DefaultConfig is the configuration the test scripts read.
const DefaultConfig = "example_data/config_example.yml"

// Runner runs test scripts one at a time.
type Runner struct {
	// Checkout is the directory scripts run in. Script paths and
	// Config are relative to it.
	Checkout string

	// Config is exported to scripts as config.EnvVar.
	Config string

	// Interpreter, if non-empty, is prepended to each script's
	// command line. Otherwise scripts are executed directly.
	Interpreter []string

	// Local is set when running against a development checkout.
	// The checkout is then prepended to PYTHONPATH so scripts
	// import it instead of an installed package.
	Local bool

	// Host names the machine in failure reports.
	Host string

	// Timeout bounds each script's run time. Zero means no limit.
	Timeout time.Duration

	// Grace is how long Kill waits for each signal.
	Grace time.Duration

	// Env is the base environment. If nil, os.Environ() is used.
	Env []string

	// Out, if non-nil, receives script output as it is produced.
	Out io.Writer

	Logger *log.Logger
}

// Result is the outcome of one script.
type Result struct {
	Script Script

	// Skipped is set if the script does not run on this host.
	Skipped bool

	Status   *os.ProcessState
	TimedOut bool
	Duration time.Duration
	Output   []byte

	// ReadErr is any error reading the script's output, in which
	// case Output is incomplete.
	ReadErr error

	// Failures are extracted from Output if the script failed.
	Failures []*loganal.Failure
}

// Failed reports whether the script ran and did not succeed.
func (r *Result) Failed() bool {
	if r.Skipped {
		return false
	}
	return r.TimedOut || r.Status == nil || !r.Status.Success()
}

// Run runs scripts in order and stops at the first failure. It
// returns the results of the scripts it got to. An error means a
// script could not be started or ctx was canceled.
func (r *Runner) Run(ctx context.Context, scripts []Script) ([]*Result, error) {
	env, err := r.environ()
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, s := range scripts {
		if !s.Where.runs(r.Local) {
			r.logger().Debug("skipping", "script", s.Path, "where", s.Where)
			results = append(results, &Result{Script: s, Skipped: true})
			continue
		}
		res, err := r.runOne(ctx, s, env)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
		if res.Failed() {
			break
		}
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, s Script, env []string) (*Result, error) {
	logger := r.logger()
	args := append(append([]string(nil), r.Interpreter...), s.Path)

	var buf bytes.Buffer
	var out io.Writer = &buf
	if r.Out != nil {
		out = io.MultiWriter(&buf, r.Out)
	}

	logger.Info("running", "script", s.Path)
	start := time.Now()
	cmd, err := StartCommand(args, r.Checkout, env, out)
	if err != nil {
		return nil, errors.Wrap(errors.CodeIO, err, "starting %s", s.Path)
	}

	res := &Result{Script: s}
	var timeout <-chan time.Time
	if r.Timeout > 0 {
		t := time.NewTimer(r.Timeout)
		defer t.Stop()
		timeout = t.C
	}
	select {
	case <-cmd.Done():
	case <-timeout:
		res.TimedOut = true
		cmd.Kill(r.grace())
		<-cmd.Done()
	case <-ctx.Done():
		cmd.Kill(r.grace())
		<-cmd.Done()
		return nil, ctx.Err()
	}

	res.Status = cmd.Status
	res.Duration = time.Since(start)
	res.Output = buf.Bytes()
	if res.ReadErr = cmd.ReadErr(); res.ReadErr != nil {
		logger.Warn("output incomplete", "script", s.Path, "err", res.ReadErr)
	}

	if !res.Failed() {
		logger.Info("passed", "script", s.Path, "took", res.Duration.Round(time.Millisecond))
		return res, nil
	}

	res.Failures = loganal.Extract(string(res.Output), s.Path, r.Host)
	if res.TimedOut {
		res.Failures = append([]*loganal.Failure{{
			Script:  s.Path,
			Message: fmt.Sprintf("timed out after %v", r.Timeout),
			Host:    r.Host,
		}}, res.Failures...)
	}
	logger.Error("failed", "script", s.Path, "status", res.Status, "took", res.Duration.Round(time.Millisecond))
	return res, nil
}

// environ returns the environment scripts run with.
func (r *Runner) environ() ([]string, error) {
	env := r.Env
	if env == nil {
		env = os.Environ()
	}
	env = append([]string(nil), env...)

	cfg := r.Config
	if cfg == "" {
		cfg = DefaultConfig
	}
	env = setenv(env, config.EnvVar, cfg)

	if r.Local {
		dir, err := filepath.Abs(r.Checkout)
		if err != nil {
			return nil, errors.Wrap(errors.CodeIO, err, "resolving checkout")
		}
		if old := getenv(env, "PYTHONPATH"); old != "" {
			dir += string(os.PathListSeparator) + old
		}
		env = setenv(env, "PYTHONPATH", dir)
		r.logger().Debug("using local checkout", "PYTHONPATH", dir)
	}
	return env, nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func (r *Runner) grace() time.Duration {
	if r.Grace <= 0 {
		return 10 * time.Second
	}
	return r.Grace
}

func getenv(env []string, key string) string {
	for i := len(env) - 1; i >= 0; i-- {
		if k, v, ok := strings.Cut(env[i], "="); ok && k == key {
			return v
		}
	}
	return ""
}

// setenv sets key in env, replacing any existing entries.
func setenv(env []string, key, value string) []string {
	out := env[:0]
	for _, kv := range env {
		if k, _, ok := strings.Cut(kv, "="); ok && k == key {
			continue
		}
		out = append(out, kv)
	}
	return append(out, key+"="+value)
}
