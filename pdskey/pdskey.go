// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdskey provides optional Hashable/Equatable key wrappers for
// callers who want control over hashing and equality semantics that the
// pds.HashOf/pds.EqualOf fallback can't express on its own, chiefly
// Unicode-normalized string comparison, so that two strings differing
// only by composed/decomposed accent form hash and compare equal.
package pdskey

import (
	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

// StringKey wraps a string. NewStringKey normalizes its input to Unicode
// NFC, so that visually and semantically identical strings built from
// different combining-character sequences become the same key in a Map
// or Set; Hash and Equal do not re-normalize k itself.
type StringKey string

// NewStringKey normalizes s to NFC and wraps it as a StringKey.
func NewStringKey(s string) StringKey {
	return StringKey(norm.NFC.String(s))
}

// Hash implements pds.Hashable.
func (k StringKey) Hash() uint64 {
	return xxhash.Sum64String(string(k))
}

// Equal implements pds.Equatable. A plain string other need not already
// be normalized: it is normalized to NFC before the byte-for-byte
// comparison. A StringKey other is compared as it is, byte for byte.
func (k StringKey) Equal(other any) bool {
	switch o := other.(type) {
	case StringKey:
		return string(k) == string(o)
	case string:
		return string(k) == norm.NFC.String(o)
	default:
		return false
	}
}

// String returns the normalized text k wraps.
func (k StringKey) String() string { return string(k) }

// IntKey wraps an int with an explicit Hash/Equal pair, for callers who
// want to avoid the reflect-free but still type-switched HashOf fallback
// path on the hottest lookup keys.
type IntKey int

// Hash implements pds.Hashable.
func (k IntKey) Hash() uint64 {
	var buf [8]byte
	u := uint64(int64(k))
	for i := range buf {
		buf[i] = byte(u >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

// Equal implements pds.Equatable.
func (k IntKey) Equal(other any) bool {
	switch o := other.(type) {
	case IntKey:
		return k == o
	case int:
		return int(k) == o
	case int64:
		return int64(k) == o
	default:
		return false
	}
}

// Int64Key wraps an int64 with an explicit Hash/Equal pair.
type Int64Key int64

// Hash implements pds.Hashable.
func (k Int64Key) Hash() uint64 {
	var buf [8]byte
	u := uint64(k)
	for i := range buf {
		buf[i] = byte(u >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

// Equal implements pds.Equatable.
func (k Int64Key) Equal(other any) bool {
	switch o := other.(type) {
	case Int64Key:
		return k == o
	case int64:
		return int64(k) == o
	case int:
		return int64(k) == int64(o)
	default:
		return false
	}
}
