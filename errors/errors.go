// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides the coded error types shared by the
// encoder, dataset, and plot packages.
//
// Every failure a caller can act on carries a Code:
//
//   - CodeConfig: the caller supplied an unusable configuration, such
//     as a palette with too few colors, a degenerate color domain, a
//     non-positive pseudocount, or an unknown plot kind.
//   - CodeLookup: a key names neither a metadata column nor a row of
//     the counts table.
//   - CodeInvalidData: an input file could not be parsed.
//   - CodeIO: reading or writing a file failed.
//
// Use Is to test for a code anywhere in a wrapped chain:
//
//	if errors.Is(err, errors.CodeConfig) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeConfig      Code = "CONFIG"
	CodeLookup      Code = "LOOKUP"
	CodeInvalidData Code = "INVALID_DATA"
	CodeIO          Code = "IO"
)

// Error is an error with a Code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with the given code that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Config returns a configuration error.
func Config(format string, args ...any) *Error {
	return New(CodeConfig, format, args...)
}

// Lookup returns a lookup error.
func Lookup(format string, args ...any) *Error {
	return New(CodeLookup, format, args...)
}

// Is reports whether some *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
