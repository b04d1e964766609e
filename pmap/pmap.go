// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pmap implements Map and TransientMap, an immutable,
// structurally-shared hash map backed by a hash-array-mapped trie.
package pmap

import (
	"iter"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/spork-lang/pds/internal/core"
	"github.com/spork-lang/pds/internal/hamt"
)

// Pair is a key/value literal used by Of.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// P builds a Pair, e.g. pmap.Of(pmap.P("a", 1), pmap.P("b", 2)).
func P[K, V any](k K, v V) Pair[K, V] { return Pair[K, V]{Key: k, Value: v} }

// Map is an immutable hash map from K to V. Keys are compared and hashed
// via pds.HashOf/pds.EqualOf: any type works, with types implementing
// pds.Hashable/pds.Equatable overriding the default forwarding.
type Map[K, V any] struct {
	root  hamt.Node[K, V]
	count int

	hashed atomic.Bool
	hash   atomic.Uint64
}

var emptyCache sync.Map

type emptyKey struct{ k, v reflect.Type }

// Empty returns the canonical empty Map for (K, V), the same pointer on
// every call for a given (K, V) pair.
func Empty[K, V any]() *Map[K, V] {
	key := emptyKey{reflect.TypeFor[K](), reflect.TypeFor[V]()}
	return core.Singleton(&emptyCache, key, func() *Map[K, V] { return &Map[K, V]{} })
}

// Of builds a Map from literal pairs; later duplicates win.
func Of[K, V any](pairs ...Pair[K, V]) *Map[K, V] {
	if len(pairs) == 0 {
		return Empty[K, V]()
	}
	tm := Empty[K, V]().Transient()
	for _, p := range pairs {
		tm.Assoc(p.Key, p.Value)
	}
	return tm.Persistent()
}

// FromSeq builds a Map from an iterator of (key, value) pairs; later
// duplicates win.
func FromSeq[K, V any](seq iter.Seq2[K, V]) *Map[K, V] {
	tm := Empty[K, V]().Transient()
	for k, v := range seq {
		tm.Assoc(k, v)
	}
	return tm.Persistent()
}

// Len returns the number of entries in m.
func (m *Map[K, V]) Len() int { return m.count }

// Get returns the value associated with k, and whether it was present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	return hamt.Find[K, V](m.root, core.HashOf(k), 0, k)
}

// GetOr returns the value associated with k, or def if k is absent.
func (m *Map[K, V]) GetOr(k K, def V) V {
	if v, ok := m.Get(k); ok {
		return v
	}
	return def
}

// MustGet returns the value associated with k, panicking with
// *pds.Error{Kind: pds.KeyNotFound} if k is absent.
func (m *Map[K, V]) MustGet(k K) V {
	v, ok := m.Get(k)
	if !ok {
		core.Fail(core.KeyNotFound, "pmap.MustGet", k)
	}
	return v
}

// Contains reports whether k is present in m.
func (m *Map[K, V]) Contains(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Assoc returns a new Map with k associated to v.
func (m *Map[K, V]) Assoc(k K, v V) *Map[K, V] {
	tm := m.Transient()
	tm.Assoc(k, v)
	return tm.Persistent()
}

// Dissoc returns a new Map with k removed, or m itself if k was absent.
func (m *Map[K, V]) Dissoc(k K) *Map[K, V] {
	if !m.Contains(k) {
		return m
	}
	tm := m.Transient()
	tm.Dissoc(k)
	return tm.Persistent()
}

// Merge returns a new Map holding every entry of m and other; for a key
// present in both, other's value wins.
func (m *Map[K, V]) Merge(other *Map[K, V]) *Map[K, V] {
	tm := m.Transient()
	for k, v := range other.Entries() {
		tm.Assoc(k, v)
	}
	return tm.Persistent()
}

// Keys returns an iterator over m's keys, depth-first and deterministic
// for an unchanged Map but unrelated to key or insertion order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range hamt.All[K, V](m.root) {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over m's values, in the same order Keys
// visits their keys.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range hamt.All[K, V](m.root) {
			if !yield(v) {
				return
			}
		}
	}
}

// Entries returns an iterator over m's (key, value) pairs.
func (m *Map[K, V]) Entries() iter.Seq2[K, V] {
	return hamt.All[K, V](m.root)
}

// Hash computes m's order-independent structural hash,
// h = XOR over entries of (hash(k) XOR hash(v)), cached after first
// computation so repeated calls (e.g. as a Set element or nested Map
// key) are O(1).
func (m *Map[K, V]) Hash() uint64 {
	if m.hashed.Load() {
		return m.hash.Load()
	}
	var h uint64
	for k, v := range m.Entries() {
		h ^= core.HashOf(k) ^ core.HashOf(v)
	}
	m.hash.Store(h)
	m.hashed.Store(true)
	return h
}

// Equal reports whether m and other hold the same count of entries and
// every entry of m is present in other with an equal value.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if m.count != other.count {
		return false
	}
	for k, v := range m.Entries() {
		ov, ok := other.Get(k)
		if !ok || !core.EqualOf(v, ov) {
			return false
		}
	}
	return true
}

// Transient returns a TransientMap for batch-editing a copy of m.
func (m *Map[K, V]) Transient() *TransientMap[K, V] {
	return &TransientMap[K, V]{owner: core.NewEditToken(), root: m.root, count: m.count}
}

// A TransientMap is a mutable view of a Map under construction. It must
// be used from a single goroutine; Persistent publishes it and
// invalidates it for further mutation.
type TransientMap[K, V any] struct {
	owner *core.EditToken
	root  hamt.Node[K, V]
	count int
	done  bool
}

func (tm *TransientMap[K, V]) checkLive(op string) {
	if tm.done {
		core.Fail(core.UseAfterFreeze, op, nil)
	}
}

// Len returns the number of entries currently in tm.
func (tm *TransientMap[K, V]) Len() int { return tm.count }

// Get returns the value associated with k, and whether it was present.
func (tm *TransientMap[K, V]) Get(k K) (V, bool) {
	return hamt.Find[K, V](tm.root, core.HashOf(k), 0, k)
}

// Assoc associates k with v in place.
func (tm *TransientMap[K, V]) Assoc(k K, v V) {
	tm.checkLive("pmap.TransientMap.Assoc")
	newRoot, added := hamt.Insert(tm.root, tm.owner, core.HashOf(k), 0, k, v)
	tm.root = newRoot
	if added {
		tm.count++
	}
}

// Dissoc removes k in place, a no-op if k is absent.
func (tm *TransientMap[K, V]) Dissoc(k K) {
	tm.checkLive("pmap.TransientMap.Dissoc")
	newRoot, removed := hamt.Delete[K, V](tm.root, tm.owner, core.HashOf(k), 0, k)
	tm.root = newRoot
	if removed {
		tm.count--
	}
}

// Persistent freezes tm and returns an immutable Map sharing its final
// structure. Any further mutating call on tm panics with
// *pds.Error{Kind: pds.UseAfterFreeze}.
func (tm *TransientMap[K, V]) Persistent() *Map[K, V] {
	tm.checkLive("pmap.TransientMap.Persistent")
	tm.done = true
	return &Map[K, V]{root: tm.root, count: tm.count}
}
