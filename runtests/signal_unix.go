// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import "syscall"

// traceSignal is the first signal sent to stop a script. A Python
// script dies on it with its cleanup handlers run.
var traceSignal = syscall.SIGTERM
