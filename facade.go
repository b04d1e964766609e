// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pds

import "github.com/spork-lang/pds/internal/core"

// EditToken, Error, Kind and the HashOf/EqualOf forwarding helpers live in
// internal/core so that every collection subpackage (vector, numvec,
// pmap, pset, sortedvec, cons) can depend on them without those
// subpackages needing to import this root package; this root package in
// turn imports the subpackages to re-export their constructors, so the
// shared machinery has to live one level below both to avoid an import
// cycle. These type aliases and thin wrappers are the public names;
// internal/core is never imported directly by callers outside this
// module.
type (
	EditToken = core.EditToken
	Error     = core.Error
	Kind      = core.Kind
)

const (
	IndexOutOfRange = core.IndexOutOfRange
	KeyNotFound     = core.KeyNotFound
	EmptyPop        = core.EmptyPop
	UseAfterFreeze  = core.UseAfterFreeze
	TypeError       = core.TypeError
	ArityError      = core.ArityError
	Overflow        = core.Overflow
)

// Hashable is implemented by user types that want a hash other than the
// HashOf fallback; see internal/core.Hashable for the full contract.
type Hashable = core.Hashable

// Equatable is implemented by user types that want an equality other
// than the EqualOf fallback; see internal/core.Equatable.
type Equatable = core.Equatable

// HashOf forwards to the host's hash contract for x.
func HashOf(x any) uint64 { return core.HashOf(x) }

// EqualOf forwards to the host's equality contract for a and b.
func EqualOf(a, b any) bool { return core.EqualOf(a, b) }

// NewEditToken allocates a fresh edit token for a newly opened transient.
func NewEditToken() *EditToken { return core.NewEditToken() }
