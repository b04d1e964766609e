// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pds implements the persistent data structure library underlying
// the Spork language runtime: an immutable, structurally-shared Vector,
// Float64Vector, Int64Vector, Map, Set, SortedVector and Cons. Vector, Map,
// Set and SortedVector each have an exported Transient counterpart
// permitting localized in-place mutation during construction;
// Float64Vector and Int64Vector use a transient only internally and
// export none, and Cons has none.
//
// The collection types themselves live in the vector, numvec, pmap, pset,
// sortedvec and cons subpackages; this root package holds the machinery
// shared across all of them (edit tokens, error kinds, and the HashOf/
// EqualOf functions that forward to a value's own Hash/Equal methods when
// present) plus a thin set of convenience factory functions re-exporting
// the subpackage constructors.
package pds
