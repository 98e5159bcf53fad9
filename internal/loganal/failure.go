// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loganal extracts and classifies failures from the output of
// test scripts.
package loganal

import (
	"regexp"
	"strings"
)

// Failure records a failure extracted from a test script's output.
type Failure struct {
	// Script is the test script that failed.
	Script string

	// Message is the failure message. For an uncaught Python
	// exception, this is the exception line, such as
	// "ValueError: bad axis".
	Message string

	// Where indicates where this failure happened. For an
	// uncaught exception, this is the file and line of the
	// innermost traceback frame.
	Where string

	// Host is the machine the script ran on.
	Host string
}

func (f Failure) String() string {
	s := f.Script
	if f.Where != "" {
		if s != "" {
			s += " "
		}
		s += "at " + f.Where
	}
	if s != "" {
		s += ": "
	}
	s += f.Message
	return s
}

var (
	canonLine = regexp.MustCompile(`\r+\n`)

	// tracebackHeader starts a Python traceback. Chained
	// exceptions print several.
	tracebackHeader = regexp.MustCompile(`^Traceback \(most recent call last\):\n`)

	// tracebackFrame matches one frame of a traceback and its
	// optional source line. Group 1 is the file, group 2 the
	// line.
	tracebackFrame = regexp.MustCompile(`^  File "([^"]+)", line ([0-9]+)(?:, in .*)?\n(?:    .*\n)*`)

	// exceptionLine matches the exception that ends a traceback.
	exceptionLine = regexp.MustCompile(`^([A-Za-z_][\w.]*(?:: .*)?)$`)

	// errorLine matches failures reported without a traceback.
	errorLine = regexp.MustCompile(`^(?:FAIL|FAILED|ERROR|[Ee]rror):?\s+(.*)`)

	// killedLine matches a report that the script was killed.
	killedLine = regexp.MustCompile(`^(?:Killed|Terminated|Segmentation fault)\b.*`)

	// goodLine matches known-good lines.
	goodLine = regexp.MustCompile(`^(?:ok\s|PASS|OK\b|\.+$)`)
)

// Extract parses the failures from the output m of script, which ran
// on host. If m holds no recognizable failure, Extract returns a
// single "unknown failure" quoting the last unrecognized line.
func Extract(m, script, host string) []*Failure {
	fs := []*Failure{}
	last := ""
	chained := false

	m = canonLine.ReplaceAllString(m, "\n")
	matcher := newMatcher(m)
	for !matcher.done() {
		switch {
		case matcher.consume(tracebackHeader):
			f := &Failure{Message: "unknown exception"}
			for matcher.consume(tracebackFrame) {
				f.Where = matcher.groups[1] + ":" + matcher.groups[2]
			}
			line := matcher.line()
			if s := exceptionLine.FindStringSubmatch(line); s != nil {
				f.Message = s[1]
			}
			// A chained traceback replaces the exception
			// it was raised while handling.
			if chained && len(fs) > 0 {
				fs = fs[:len(fs)-1]
			}
			chained = false
			fs = append(fs, f)

		default:
			line := matcher.line()
			switch {
			case strings.HasPrefix(line, "During handling of the above exception") ||
				strings.HasPrefix(line, "The above exception was the direct cause"):
				chained = true
			case errorLine.MatchString(line):
				fs = append(fs, &Failure{Message: errorLine.FindStringSubmatch(line)[1]})
			case killedLine.MatchString(line):
				fs = append(fs, &Failure{Message: strings.TrimSpace(line)})
			case goodLine.MatchString(line):
			case strings.TrimSpace(line) != "":
				last = strings.TrimSpace(line)
			}
		}
	}

	if len(fs) == 0 {
		fs = append(fs, &Failure{Message: "unknown failure: " + last})
	}
	for _, f := range fs {
		f.Script, f.Host = script, host
	}
	return fs
}
