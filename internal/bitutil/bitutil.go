// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitutil holds the handful of bit-twiddling primitives shared by
// the trie and HAMT implementations: slicing a hash or index
// into 5-bit path segments, and mapping an occupancy bitmap bit to its
// position in a packed array via popcount.
package bitutil

import "math/bits"

// Bits and Width are the bit-partitioning parameters used throughout this
// module's tries: each level of a trie consumes a 5-bit slice of the index
// or hash, giving 32-way branching.
const (
	Bits  = 5
	Width = 1 << Bits // 32
	Mask  = Width - 1 // 0x1F
)

// SlotIndex returns the Width-way slot index at the given shift for key.
// key is either a plain vector index or a hash value; shift is a multiple
// of Bits counting down from the tree's height.
func SlotIndex(key uint64, shift uint) uint {
	return uint(key>>shift) & Mask
}

// Bit returns the single-bit occupancy mask for the slot that key maps to
// at shift.
func Bit(key uint64, shift uint) uint32 {
	return uint32(1) << SlotIndex(key, shift)
}

// PackedIndex maps a single occupancy bit to its position within the
// packed slot array of a bitmap-indexed node: the number of bits set in
// bitmap below bit, i.e. popcount(bitmap & (bit-1)).
func PackedIndex(bitmap uint32, bit uint32) int {
	return bits.OnesCount32(bitmap & (bit - 1))
}

// PopCount32 counts the set bits of x. Exposed directly for callers (such
// as the HAMT's ArrayNode compaction check) that already have a full
// bitmap/child-count word rather than a single bit.
func PopCount32(x uint32) int {
	return bits.OnesCount32(x)
}
