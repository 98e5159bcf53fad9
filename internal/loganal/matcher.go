// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loganal

import (
	"regexp"
	"strings"
)

// matcher walks a log a line at a time, consuming anchored regexp
// matches at the current position.
type matcher struct {
	str string
	pos int

	// groups holds the submatches of the last successful
	// consume.
	groups []string
}

func newMatcher(str string) *matcher {
	return &matcher{str: str}
}

func (m *matcher) done() bool {
	return m.pos >= len(m.str)
}

// consume matches r at the current position. r must be anchored with
// ^. On a match, it advances past the match and records the groups.
func (m *matcher) consume(r *regexp.Regexp) bool {
	idx := r.FindStringSubmatchIndex(m.str[m.pos:])
	if idx == nil || idx[0] != 0 {
		m.groups = m.groups[:0]
		return false
	}
	m.groups = m.groups[:0]
	for i := 0; i < len(idx); i += 2 {
		if idx[i] < 0 {
			m.groups = append(m.groups, "")
			continue
		}
		m.groups = append(m.groups, m.str[m.pos+idx[i]:m.pos+idx[i+1]])
	}
	m.pos += idx[1]
	return true
}

// line consumes and returns the rest of the current line, without
// its terminator.
func (m *matcher) line() string {
	rest := m.str[m.pos:]
	i := strings.IndexByte(rest, '\n')
	if i < 0 {
		m.pos = len(m.str)
		return rest
	}
	m.pos += i + 1
	return rest[:i]
}
