// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

// An EditToken is the opaque, identity-compared sentinel attached to
// transient-owned nodes. A transient mints exactly one EditToken when it
// is opened; every node the
// transient allocates or clones during its lifetime carries that same
// token, so a mutating operation can tell in O(1) whether it already owns
// a node (token identity, via ==) or must clone-on-write first.
//
// EditToken is never compared by value, only by pointer identity: two
// *EditToken values are the "same" token iff they are the same pointer.
// Its single blank byte field keeps the type non-zero-sized, so every
// NewEditToken call yields a distinct address.
type EditToken struct{ _ byte }

// NewEditToken allocates a fresh, unique edit token for a newly opened
// transient.
func NewEditToken() *EditToken {
	return &EditToken{}
}
