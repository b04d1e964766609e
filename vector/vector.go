// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vector implements the persistent Vector and TransientVector
// types: an ordered sequence of T with O(log32 n) indexed read, update,
// and O(1) amortized append/pop at the end, backed by a 32-way
// bit-partitioned trie with a trailing tail buffer.
package vector

import (
	"cmp"
	"iter"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/spork-lang/pds/cons"
	"github.com/spork-lang/pds/internal/core"
	"github.com/spork-lang/pds/internal/trie32"
)

// Vector is an immutable, structurally-shared sequence of T.
type Vector[T any] struct {
	t trie32.Tree[T]

	hashed atomic.Bool
	hash   atomic.Uint64
}

var emptyCache sync.Map

// Empty returns the canonical empty Vector for T. Of() with no arguments
// returns an equally-empty Vector. Every Vector[T] has its own per-T
// singleton, cached in emptyCache and keyed on T's reflect.Type, so that
// repeated calls for the same element type return the identical pointer
// rather than a fresh allocation.
func Empty[T any]() *Vector[T] {
	return core.Singleton(&emptyCache, reflect.TypeFor[T](), func() *Vector[T] { return &Vector[T]{} })
}

// Of builds a Vector from literal elements, e.g. vector.Of(1, 2, 3).
func Of[T any](items ...T) *Vector[T] {
	if len(items) == 0 {
		return Empty[T]()
	}
	tv := Empty[T]().Transient()
	for _, x := range items {
		tv.Append(x)
	}
	return tv.Persistent()
}

// FromSeq builds a Vector from an iterator, preserving iteration order.
func FromSeq[T any](seq iter.Seq[T]) *Vector[T] {
	tv := Empty[T]().Transient()
	for x := range seq {
		tv.Append(x)
	}
	return tv.Persistent()
}

// Len returns the number of elements in v.
func (v *Vector[T]) Len() int { return v.t.Len() }

// At returns v[i]. Negative i counts from the end. Panics with
// *pds.Error{Kind: pds.IndexOutOfRange} if i is out of [-Len(), Len()).
func (v *Vector[T]) At(i int) T {
	idx := v.resolveIndex(i, false)
	return v.t.At(idx)
}

// resolveIndex normalizes a (possibly negative) index against Len(),
// allowing i == Len() when allowAppend is set (Update's append alias).
func (v *Vector[T]) resolveIndex(i int, allowAppend bool) int {
	n := v.Len()
	orig := i
	if i < 0 {
		i += n
	}
	upper := n
	if allowAppend {
		upper = n + 1
	}
	if i < 0 || i >= upper {
		core.Fail(core.IndexOutOfRange, "vector.At", orig)
	}
	return i
}

// Update returns a new Vector with index i replaced by x. i == Len() is
// accepted as an append alias.
func (v *Vector[T]) Update(i int, x T) *Vector[T] {
	idx := v.resolveIndex(i, true)
	if idx == v.Len() {
		return v.Append(x)
	}
	tv := v.Transient()
	tv.Set(idx, x)
	return tv.Persistent()
}

// Append returns a new Vector with x added at the end.
func (v *Vector[T]) Append(x T) *Vector[T] {
	tv := v.Transient()
	tv.Append(x)
	return tv.Persistent()
}

// Pop returns a new Vector with the last element removed. Panics with
// *pds.Error{Kind: pds.EmptyPop} if v is empty.
func (v *Vector[T]) Pop() *Vector[T] {
	if v.Len() == 0 {
		core.Fail(core.EmptyPop, "vector.Pop", nil)
	}
	tv := v.Transient()
	tv.e.Resize(tv.e.Len() - 1)
	return tv.Persistent()
}

// Concat returns a new Vector with every element of seq appended, via a
// single transient.
func (v *Vector[T]) Concat(seq iter.Seq[T]) *Vector[T] {
	tv := v.Transient()
	for x := range seq {
		tv.Append(x)
	}
	return tv.Persistent()
}

// ToCons builds a persistent linked list from v's elements, front to
// back, by walking v end to start and prepending.
func (v *Vector[T]) ToCons() *cons.Cons[T] {
	l := cons.Nil[T]()
	for i := v.Len() - 1; i >= 0; i-- {
		l = cons.New(v.At(i), l)
	}
	return l
}

// All returns an iterator over (index, value) pairs in index order. It is
// single-pass and snapshot-consistent: it reflects exactly the state of v
// at the moment All is called, unaffected by anything done to v
// afterwards, automatic here since v is immutable.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.t.Slice() {
			if !yield(i, x) {
				return
			}
		}
	}
}

// Values returns an iterator over v's elements, discarding indices.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.t.Slice() {
			if !yield(x) {
				return
			}
		}
	}
}

// Slice materializes v into a freshly allocated plain slice.
func (v *Vector[T]) Slice() []T { return v.t.Slice() }

// Hash computes v's structural hash, h = 31*h + hash(x) across v in
// index order, cached after first computation.
func (v *Vector[T]) Hash() uint64 {
	if v.hashed.Load() {
		return v.hash.Load()
	}
	var h uint64
	for _, x := range v.t.Slice() {
		h = core.CombineHash(h, core.HashOf(x))
	}
	v.hash.Store(h)
	v.hashed.Store(true)
	return h
}

// Equal reports whether v and w have the same length and are
// element-wise equal in index order.
func (v *Vector[T]) Equal(w *Vector[T]) bool {
	if v.Len() != w.Len() {
		return false
	}
	as, bs := v.t.Slice(), w.t.Slice()
	for i := range as {
		if !core.EqualOf(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// Sort returns a new Vector holding v's elements sorted by their own
// natural order, ascending unless reverse is set. Equal elements keep
// their relative order.
func Sort[T cmp.Ordered](v *Vector[T], reverse bool) *Vector[T] {
	return SortByKey(v, func(x T) T { return x }, reverse)
}

// SortByKey returns a new Vector holding v's elements sorted by
// key(x), ascending unless reverse is set, stable on ties. Grouped with
// Sort as a package-level function rather than a method since Go methods
// cannot introduce a type parameter beyond the receiver's own, the same
// reason sortedvec.New/NewByKey are package-level functions.
func SortByKey[T any, K cmp.Ordered](v *Vector[T], key func(T) K, reverse bool) *Vector[T] {
	s := v.t.Slice()
	slices.SortStableFunc(s, func(a, b T) int {
		c := cmp.Compare(key(a), key(b))
		if reverse {
			return -c
		}
		return c
	})
	return Of(s...)
}

// Transient returns a TransientVector for batch-editing a copy of v.
func (v *Vector[T]) Transient() *TransientVector[T] {
	owner := core.NewEditToken()
	return &TransientVector[T]{owner: owner, e: trie32.NewEditor[T](owner, v.t)}
}

// A TransientVector is a mutable view of a Vector under construction. It
// must be used from a single goroutine; Persistent publishes it and
// invalidates it for further mutation.
type TransientVector[T any] struct {
	owner *core.EditToken
	e     *trie32.Editor[T]
	done  bool
}

func (tv *TransientVector[T]) checkLive(op string) {
	if tv.done {
		core.Fail(core.UseAfterFreeze, op, nil)
	}
}

// Len returns the number of elements currently in tv.
func (tv *TransientVector[T]) Len() int { return tv.e.Len() }

// At returns tv[i].
func (tv *TransientVector[T]) At(i int) T {
	if i < 0 || i >= tv.Len() {
		core.Fail(core.IndexOutOfRange, "vector.TransientVector.At", i)
	}
	return tv.e.At(i)
}

// Set assigns tv[i] = x in place.
func (tv *TransientVector[T]) Set(i int, x T) {
	tv.checkLive("vector.TransientVector.Set")
	if i < 0 || i >= tv.Len() {
		core.Fail(core.IndexOutOfRange, "vector.TransientVector.Set", i)
	}
	tv.e.Set(i, x)
}

// Append appends x to tv in place.
func (tv *TransientVector[T]) Append(x T) {
	tv.checkLive("vector.TransientVector.Append")
	tv.e.Append(x)
}

// Persistent freezes tv and returns an immutable Vector sharing its
// final structure. Any further mutating call on tv panics with
// *pds.Error{Kind: pds.UseAfterFreeze}.
func (tv *TransientVector[T]) Persistent() *Vector[T] {
	tv.checkLive("vector.TransientVector.Persistent")
	tv.done = true
	return &Vector[T]{t: tv.e.Freeze()}
}
