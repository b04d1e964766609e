// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pset implements Set and TransientSet as a shallow wrapper
// around pmap.Map[T, struct{}].
package pset

import (
	"iter"
	"reflect"
	"sync"

	"github.com/spork-lang/pds/internal/core"
	"github.com/spork-lang/pds/pmap"
)

type unit = struct{}

// Set is an immutable, structurally-shared set of T.
type Set[T any] struct {
	m *pmap.Map[T, unit]
}

var emptyCache sync.Map

// Empty returns the canonical empty Set for T, the same pointer on every
// call for a given T.
func Empty[T any]() *Set[T] {
	return core.Singleton(&emptyCache, reflect.TypeFor[T](), func() *Set[T] { return &Set[T]{m: pmap.Empty[T, unit]()} })
}

// Of builds a Set from literal elements.
func Of[T any](items ...T) *Set[T] {
	ts := Empty[T]().Transient()
	for _, x := range items {
		ts.Add(x)
	}
	return ts.Persistent()
}

// FromSeq builds a Set from an iterator.
func FromSeq[T any](seq iter.Seq[T]) *Set[T] {
	ts := Empty[T]().Transient()
	for x := range seq {
		ts.Add(x)
	}
	return ts.Persistent()
}

// Len returns the number of elements in s.
func (s *Set[T]) Len() int { return s.m.Len() }

// Contains reports whether x is a member of s.
func (s *Set[T]) Contains(x T) bool { return s.m.Contains(x) }

// Add returns a new Set with x added.
func (s *Set[T]) Add(x T) *Set[T] { return &Set[T]{m: s.m.Assoc(x, unit{})} }

// Remove returns a new Set with x removed, a no-op if x was absent.
func (s *Set[T]) Remove(x T) *Set[T] { return &Set[T]{m: s.m.Dissoc(x)} }

// Values returns an iterator over s's elements.
func (s *Set[T]) Values() iter.Seq[T] { return s.m.Keys() }

// Union returns the elements present in s or b (or both). It
// accumulates into a transient seeded from whichever of s, b is larger,
// so the walk touches the fewest possible elements.
func (s *Set[T]) Union(b *Set[T]) *Set[T] {
	big, small := s, b
	if small.Len() > big.Len() {
		big, small = small, big
	}
	ts := big.Transient()
	for x := range small.Values() {
		ts.Add(x)
	}
	return ts.Persistent()
}

// Intersect returns the elements present in both s and b, walking
// whichever operand is smaller.
func (s *Set[T]) Intersect(b *Set[T]) *Set[T] {
	small, big := s, b
	if big.Len() < small.Len() {
		small, big = big, small
	}
	ts := Empty[T]().Transient()
	for x := range small.Values() {
		if big.Contains(x) {
			ts.Add(x)
		}
	}
	return ts.Persistent()
}

// Difference returns the elements of s that are not in b.
func (s *Set[T]) Difference(b *Set[T]) *Set[T] {
	ts := s.Transient()
	for x := range b.Values() {
		ts.Remove(x)
	}
	return ts.Persistent()
}

// SymmetricDifference returns the elements present in exactly one of
// s, b.
func (s *Set[T]) SymmetricDifference(b *Set[T]) *Set[T] {
	ts := Empty[T]().Transient()
	for x := range s.Values() {
		if !b.Contains(x) {
			ts.Add(x)
		}
	}
	for x := range b.Values() {
		if !s.Contains(x) {
			ts.Add(x)
		}
	}
	return ts.Persistent()
}

// IsSubset reports whether every element of s is also in b.
func (s *Set[T]) IsSubset(b *Set[T]) bool {
	if s.Len() > b.Len() {
		return false
	}
	for x := range s.Values() {
		if !b.Contains(x) {
			return false
		}
	}
	return true
}

// IsProperSubset reports whether s is a subset of b and s has fewer
// elements than b.
func (s *Set[T]) IsProperSubset(b *Set[T]) bool {
	return s.Len() < b.Len() && s.IsSubset(b)
}

// Equal reports whether s and b hold the same elements, order
// irrelevant.
func (s *Set[T]) Equal(b *Set[T]) bool {
	return s.Len() == b.Len() && s.IsSubset(b)
}

// Hash computes s's order-independent structural hash.
func (s *Set[T]) Hash() uint64 {
	var h uint64
	for x := range s.Values() {
		h ^= core.HashOf(x)
	}
	return h
}

// Transient returns a TransientSet for batch-editing a copy of s.
func (s *Set[T]) Transient() *TransientSet[T] {
	return &TransientSet[T]{tm: s.m.Transient()}
}

// A TransientSet is a mutable view of a Set under construction. It must
// be used from a single goroutine; Persistent publishes it and
// invalidates it for further mutation.
type TransientSet[T any] struct {
	tm *pmap.TransientMap[T, unit]
}

// Len returns the number of elements currently in ts.
func (ts *TransientSet[T]) Len() int { return ts.tm.Len() }

// Contains reports whether x is currently a member of ts.
func (ts *TransientSet[T]) Contains(x T) bool {
	_, ok := ts.tm.Get(x)
	return ok
}

// Add inserts x into ts in place.
func (ts *TransientSet[T]) Add(x T) { ts.tm.Assoc(x, unit{}) }

// Remove deletes x from ts in place, a no-op if x is absent.
func (ts *TransientSet[T]) Remove(x T) { ts.tm.Dissoc(x) }

// Persistent freezes ts and returns an immutable Set sharing its final
// structure.
func (ts *TransientSet[T]) Persistent() *Set[T] {
	return &Set[T]{m: ts.tm.Persistent()}
}
