// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// A test script may start its own subprocesses (an interpreter
// forking workers, a shell running a pipeline). They can outlive the
// script and keep its output pipe open. Command runs the script in
// its own process group so the whole tree can be signaled, and stops
// copying output once the script itself has exited.

// Command is a running test script.
type Command struct {
	// Status is the exit status, set once Done is closed.
	Status *os.ProcessState

	// waitChan is closed when the script has exited and Status is
	// set.
	waitChan chan struct{}

	// readDone is closed when the reader stops reading output.
	readDone chan struct{}

	mu      sync.Mutex // Protects fields below
	cmd     *exec.Cmd
	sigProc *os.Process
	out     io.Writer
	readErr error
}

// StartCommand starts args in directory dir with environment env,
// copying its stdout and stderr to out. Writes to out happen with no
// other locking, so out need not be safe for concurrent use, but it
// must not be read until Done is closed.
func StartCommand(args []string, dir string, env []string, out io.Writer) (*Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Env = env

	// A new process group does not receive terminal signals, so
	// the caller must forward interrupts with Kill.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	// Use our own pipe rather than out so the copy can be cut off
	// while orphaned children still hold the write side.
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	defer func() {
		w.Close()
		if r != nil {
			r.Close()
		}
	}()
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	// Signal the process group if we can, else just the process.
	sigProc, err := os.FindProcess(-cmd.Process.Pid)
	if err != nil {
		sigProc = cmd.Process
	}

	c := &Command{waitChan: make(chan struct{}), cmd: cmd, sigProc: sigProc, out: out}
	c.readDone = make(chan struct{})
	go c.reader(r)
	r = nil
	go c.waiter()
	return c, nil
}

func (c *Command) reader(f *os.File) {
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			c.mu.Lock()
			// Drop output written by leftover children
			// after the script exited.
			if c.cmd != nil {
				c.out.Write(buf[:n])
			}
			c.mu.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				c.mu.Lock()
				c.readErr = err
				c.mu.Unlock()
			}
			break
		}
	}
	f.Close()
	close(c.readDone)
}

func (c *Command) waiter() {
	err := c.cmd.Wait()
	switch err.(type) {
	case nil, *exec.ExitError:
	default:
		panic(fmt.Sprintf("wait %d failed: %s", c.cmd.Process.Pid, err))
	}

	// Kill whatever is left of the process group before its ID
	// can be reused. This fails if the group is already gone.
	c.mu.Lock()
	c.sigProc.Signal(os.Kill)
	c.sigProc = nil
	c.mu.Unlock()

	// The pipe is asynchronous, so output may still be in
	// flight. Don't wait long: an orphan may hold it open.
	select {
	case <-c.readDone:
	case <-time.After(1 * time.Second):
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.Status = c.cmd.ProcessState
	c.cmd = nil
	close(c.waitChan)
}

// Kill stops the script and its process group, first with
// traceSignal, then interrupt, then kill, giving each grace to take
// effect.
func (c *Command) Kill(grace time.Duration) {
	for _, sig := range []os.Signal{traceSignal, os.Interrupt, os.Kill} {
		if sig == nil {
			continue
		}

		if func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.sigProc == nil {
				return true
			}
			c.sigProc.Signal(sig)
			return false
		}() {
			return
		}

		select {
		case <-c.waitChan:
			return
		case <-time.After(grace):
		}
	}
}

// ReadErr returns any error reading the script's output. Output
// read after the script exited is dropped, so it is only meaningful
// once Done is closed.
func (c *Command) ReadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// Done returns a channel that is closed when the script has exited
// and its output and status are ready.
func (c *Command) Done() <-chan struct{} {
	return c.waitChan
}
