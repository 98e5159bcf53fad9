// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encode maps columns of data values to visual attributes.
//
// Categorical columns are colored with ResolveCategorical, numeric
// columns with ResolveContinuous, dot sizes come from a SizeMap, and
// BucketTiers orders dense scatter plots so high values are drawn
// last. Every function is pure: legends (Categories and Domain) are
// returned to the caller, which decides where to keep them.
package encode
