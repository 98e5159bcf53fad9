// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loganal

import (
	"regexp"
	"strings"
)

// numberWords matches words made of letters and at least one digit
// 0-9, such as "42", "0x1f", or "tmpab12cd". Matching whole words
// catches hexadecimal numbers and temporary file names.
var numberWords = regexp.MustCompile(`\pL*[0-9][\pL0-9]*`)

// canonicalMessage replaces every word of f.Message that contains a
// digit with "…".
func (f *Failure) canonicalMessage() string {
	if !strings.ContainsAny(f.Message, "0123456789") {
		return f.Message
	}
	return numberWords.ReplaceAllString(f.Message, "…")
}

// canonicalFields splits f.Message into alternating runs of
// numberWords matches and the text between them.
func (f *Failure) canonicalFields() []string {
	fields := []string{}
	msg := f.Message
	for len(msg) > 0 {
		next := numberWords.FindStringIndex(msg)
		if next == nil {
			fields = append(fields, msg)
			break
		}
		if next[0] > 0 {
			fields = append(fields, msg[:next[0]])
		}
		fields = append(fields, msg[next[0]:next[1]])
		msg = msg[next[1]:]
	}
	return fields
}

// Classify groups a set of failures into canonicalized failure
// classes. Failures of the same script at the same place whose
// messages differ only in numbers (sizes, indexes, temporary file
// names) share a class. The returned map maps each class to the
// indexes of its failures in fs; every failure is in exactly one
// class.
//
// Within a class, numeric words that all failures agree on are kept,
// and Host is kept only if all failures ran on the same host.
func Classify(fs []*Failure) map[Failure][]int {
	canon := map[Failure][]int{}
	for i, f := range fs {
		key := Failure{
			Script:  f.Script,
			Message: f.canonicalMessage(),
			Where:   f.Where,
		}
		canon[key] = append(canon[key], i)
	}

	out := make(map[Failure][]int, len(canon))
	for key, class := range canon {
		first := fs[class[0]]
		if len(class) == 1 {
			key.Message, key.Host = first.Message, first.Host
			out[key] = class
			continue
		}

		if key.Message != first.Message {
			fields := first.canonicalFields()
			for _, fi := range class[1:] {
				nfields := fs[fi].canonicalFields()
				for i, field := range fields {
					if field != nfields[i] {
						fields[i] = "…"
					}
				}
			}
			key.Message = strings.Join(fields, "")
		}

		key.Host = first.Host
		for _, fi := range class[1:] {
			if fs[fi].Host != key.Host {
				key.Host = ""
				break
			}
		}
		out[key] = class
	}
	return out
}
