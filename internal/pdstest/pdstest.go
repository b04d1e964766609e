// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdstest holds generic property-test harnesses shared by the
// collections' own _test.go files, so the universal invariants
// (persistence, empty identity, hash/equal consistency, transient
// round-trip, factory round-trip, iterator snapshot) are written once and
// parametrized per collection instead of being restated by hand.
package pdstest

import (
	"reflect"

	"pgregory.net/rapid"
)

// CheckPersistence asserts that applying mutate to base never changes
// what observe reports for base itself: every mutating operation in this
// module returns a new value and leaves its receiver alone.
func CheckPersistence[C any](t *rapid.T, base C, mutate func(C) C, observe func(C) any) {
	t.Helper()
	before := observe(base)
	mutate(base)
	if after := observe(base); after != before {
		t.Fatalf("mutation observed on receiver: before=%v after=%v", before, after)
	}
}

// CheckEmptyIdentity asserts that two independently constructed empty
// collections compare equal and hash equal.
func CheckEmptyIdentity[C any](t *rapid.T, empty func() C, equal func(C, C) bool, hash func(C) uint64) {
	a, b := empty(), empty()
	if !equal(a, b) {
		t.Fatalf("two empty collections are not Equal")
	}
	if hash(a) != hash(b) {
		t.Fatalf("two empty collections hash unequally: %d vs %d", hash(a), hash(b))
	}
}

// CheckHashConsistency asserts Equal(a, b) implies Hash(a) == Hash(b),
// the contract every Hashable/Equatable-respecting collection must honor
// so that it can itself be used as a Map key or Set element.
func CheckHashConsistency[C any](t *rapid.T, a, b C, equal func(C, C) bool, hash func(C) uint64) {
	if equal(a, b) && hash(a) != hash(b) {
		t.Fatalf("Equal(a, b) but Hash(a)=%d != Hash(b)=%d", hash(a), hash(b))
	}
}

// CheckTransientRoundTrip asserts that feeding the same sequence of
// elements through a transient's in-place mutator and then freezing it
// produces a collection equal to the one built by the purely persistent
// path, one element at a time.
func CheckTransientRoundTrip[C any, T any](
	t *rapid.T,
	elems []T,
	empty func() C,
	persistentAdd func(C, T) C,
	transient func(C) any,
	transientAdd func(any, T),
	freeze func(any) C,
	equal func(C, C) bool,
) {
	want := empty()
	for _, x := range elems {
		want = persistentAdd(want, x)
	}

	tr := transient(empty())
	for _, x := range elems {
		transientAdd(tr, x)
	}
	got := freeze(tr)

	if !equal(got, want) {
		t.Fatalf("transient round trip diverged from persistent build")
	}
}

// CheckFactoryRoundTrip asserts that a variadic-literal factory function
// produces the same collection as folding the same elements in one at a
// time through the persistent add operation.
func CheckFactoryRoundTrip[C any, T any](
	t *rapid.T,
	elems []T,
	empty func() C,
	persistentAdd func(C, T) C,
	factory func(...T) C,
	equal func(C, C) bool,
) {
	want := empty()
	for _, x := range elems {
		want = persistentAdd(want, x)
	}
	got := factory(elems...)
	if !equal(got, want) {
		t.Fatalf("factory(%v) diverged from sequential add", elems)
	}
}

// CheckIteratorSnapshot asserts that a value, once obtained by All/Values
// style iteration, keeps yielding the elements it saw at the moment
// iteration began even if the source collection is mutated meanwhile.
// True by construction for every collection here since mutation always
// returns a new root and never touches shared structure, but worth
// asserting explicitly since it is the property callers actually depend
// on.
func CheckIteratorSnapshot[C any, T any](
	t *rapid.T,
	c C,
	all func(C) []T,
	mutate func(C) C,
) {
	before := all(c)
	mutate(c)
	after := all(c)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("iterating c after an unrelated mutate() call changed its elements: %v vs %v", before, after)
	}
}

// Ints generates a slice of small ints for property tests that just
// need arbitrary distinguishable elements.
func Ints(t *rapid.T, maxLen int) []int {
	return rapid.SliceOfN(rapid.IntRange(-1000, 1000), 0, maxLen).Draw(t, "elems")
}
