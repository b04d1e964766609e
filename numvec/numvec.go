// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numvec implements Float64Vector and Int64Vector: vectors with
// the same trie shape as vector.Vector but unboxed primitive storage and
// a contiguous, lazily materialized read-only buffer view.
package numvec

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/spork-lang/pds/internal/core"
	"github.com/spork-lang/pds/internal/trie32"
)

// Numeric is the element-type constraint for numVec.
type Numeric interface {
	~float64 | ~int64
}

// numVec is the shared, type-parameterized storage for both typed
// vectors. It is not exported: Float64Vector and Int64Vector wrap it
// with the unboxing/conversion rules their element kind requires.
type numVec[T Numeric] struct {
	t trie32.Tree[T]

	once sync.Once
	view []T

	hashed atomic.Bool
	hash   atomic.Uint64
}

func emptyNumVec[T Numeric]() *numVec[T] { return &numVec[T]{} }

func (v *numVec[T]) len() int { return v.t.Len() }

// resolveIndex normalizes a (possibly negative) index against len(),
// allowing i == len() when allowAppend is set (Update's append alias),
// mirroring vector.Vector.resolveIndex.
func (v *numVec[T]) resolveIndex(i int, allowAppend bool) int {
	n := v.len()
	orig := i
	if i < 0 {
		i += n
	}
	upper := n
	if allowAppend {
		upper = n + 1
	}
	if i < 0 || i >= upper {
		core.Fail(core.IndexOutOfRange, "numvec.At", orig)
	}
	return i
}

func (v *numVec[T]) at(i int) T {
	return v.t.At(v.resolveIndex(i, false))
}

func (v *numVec[T]) appendRaw(x T) *numVec[T] {
	tv := v.transient()
	tv.appendRaw(x)
	return tv.persistent()
}

func (v *numVec[T]) updateRaw(i int, x T) *numVec[T] {
	idx := v.resolveIndex(i, true)
	if idx == v.len() {
		return v.appendRaw(x)
	}
	tv := v.transient()
	tv.setRaw(idx, x)
	return tv.persistent()
}

func (v *numVec[T]) popRaw() *numVec[T] {
	if v.len() == 0 {
		core.Fail(core.EmptyPop, "numvec.Pop", nil)
	}
	tv := v.transient()
	tv.e.Resize(tv.e.Len() - 1)
	return tv.persistent()
}

func (v *numVec[T]) hashCode() uint64 {
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

func (v *numVec[T]) equal(other *numVec[T]) bool {
	if v.len() != other.len() {
		return false
	}
	as, bs := v.t.Slice(), other.t.Slice()
	for i := range as {
		if !core.EqualOf(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func (v *numVec[T]) view_() []T {
	v.once.Do(func() {
		v.view = v.t.Slice()
	})
	return v.view
}

func (v *numVec[T]) transient() *transientNumVec[T] {
	owner := core.NewEditToken()
	return &transientNumVec[T]{owner: owner, e: trie32.NewEditor[T](owner, v.t)}
}

type transientNumVec[T Numeric] struct {
	owner *core.EditToken
	e     *trie32.Editor[T]
	done  bool
}

func (tv *transientNumVec[T]) checkLive(op string) {
	if tv.done {
		core.Fail(core.UseAfterFreeze, op, nil)
	}
}

func (tv *transientNumVec[T]) appendRaw(x T) {
	tv.checkLive("numvec.transient.Append")
	tv.e.Append(x)
}

func (tv *transientNumVec[T]) setRaw(i int, x T) {
	tv.checkLive("numvec.transient.Set")
	tv.e.Set(i, x)
}

func (tv *transientNumVec[T]) persistent() *numVec[T] {
	tv.checkLive("numvec.transient.Persistent")
	tv.done = true
	return &numVec[T]{t: tv.e.Freeze()}
}

// Float64Vector is a persistent vector of float64 with an unboxed
// backing store and a zero-copy contiguous view.
type Float64Vector struct {
	v *numVec[float64]
}

var emptyFloat64Vector = &Float64Vector{v: emptyNumVec[float64]()}

// EmptyFloat64Vector returns the canonical empty Float64Vector, the same
// pointer on every call; unlike the generic collections, Float64Vector
// is a concrete type, so its singleton is just a package-level var.
func EmptyFloat64Vector() *Float64Vector {
	return emptyFloat64Vector
}

// NewFloat64Vector builds a Float64Vector from untyped values, unboxing
// each via toFloat64. It fails with a *pds.Error{Kind: pds.TypeError} if
// any element is neither a float nor an integer kind.
func NewFloat64Vector(xs ...any) (*Float64Vector, error) {
	tv := EmptyFloat64Vector().v.transient()
	for _, x := range xs {
		f, ok := toFloat64(x)
		if !ok {
			return nil, core.New(core.TypeError, "numvec.NewFloat64Vector", x)
		}
		tv.appendRaw(f)
	}
	return &Float64Vector{v: tv.persistent()}, nil
}

// FromFloat64Seq builds a Float64Vector from an iterator of already-typed
// float64 values; this path never fails since there is no unboxing step.
func FromFloat64Seq(seq iter.Seq[float64]) *Float64Vector {
	tv := EmptyFloat64Vector().v.transient()
	for x := range seq {
		tv.appendRaw(x)
	}
	return &Float64Vector{v: tv.persistent()}
}

// Len returns the number of elements in v.
func (v *Float64Vector) Len() int { return v.v.len() }

// At returns v[i] as a float64. Negative i counts from the end. Panics
// with *pds.Error{Kind: pds.IndexOutOfRange} if i is out of range.
func (v *Float64Vector) At(i int) float64 { return v.v.at(i) }

// Append unboxes x and returns a new Float64Vector with it appended,
// failing with *pds.Error{Kind: pds.TypeError} if x cannot be
// represented as a float64.
func (v *Float64Vector) Append(x any) (*Float64Vector, error) {
	f, ok := toFloat64(x)
	if !ok {
		return nil, core.New(core.TypeError, "numvec.Float64Vector.Append", x)
	}
	return &Float64Vector{v: v.v.appendRaw(f)}, nil
}

// Update unboxes x and returns a new Float64Vector with index i
// replaced. i == Len() is accepted as an append alias. Fails with
// *pds.Error{Kind: pds.TypeError} if x cannot be represented as a
// float64, and panics with *pds.Error{Kind: pds.IndexOutOfRange} for an
// index outside [-Len(), Len()].
func (v *Float64Vector) Update(i int, x any) (*Float64Vector, error) {
	f, ok := toFloat64(x)
	if !ok {
		return nil, core.New(core.TypeError, "numvec.Float64Vector.Update", x)
	}
	return &Float64Vector{v: v.v.updateRaw(i, f)}, nil
}

// Pop returns a new Float64Vector with the last element removed. Panics
// with *pds.Error{Kind: pds.EmptyPop} if v is empty.
func (v *Float64Vector) Pop() *Float64Vector { return &Float64Vector{v: v.v.popRaw()} }

// Hash computes v's structural hash, the same h = 31*h + hash(x) form
// vector.Vector.Hash uses, cached after first computation.
func (v *Float64Vector) Hash() uint64 { return v.v.hashCode() }

// Equal reports whether v and w have the same length and are
// element-wise equal in index order.
func (v *Float64Vector) Equal(w *Float64Vector) bool { return v.v.equal(w.v) }

// View materializes, on first call, a flat read-only buffer holding v's
// elements in order, and returns the same view on every later call. The
// view's lifetime equals v's.
func (v *Float64Vector) View() Float64View { return Float64View{s: v.v.view_()} }

// Values returns an iterator over v's elements in order.
func (v *Float64Vector) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, x := range v.v.t.Slice() {
			if !yield(x) {
				return
			}
		}
	}
}

// Int64Vector is a persistent vector of int64 with an unboxed backing
// store and a zero-copy contiguous view.
type Int64Vector struct {
	v *numVec[int64]
}

var emptyInt64Vector = &Int64Vector{v: emptyNumVec[int64]()}

// EmptyInt64Vector returns the canonical empty Int64Vector, the same
// pointer on every call.
func EmptyInt64Vector() *Int64Vector {
	return emptyInt64Vector
}

// NewInt64Vector builds an Int64Vector from untyped values, unboxing
// each via toInt64. It fails with *pds.Error{Kind: pds.TypeError} for a
// non-integer input, or *pds.Error{Kind: pds.Overflow} for an integer
// outside the int64 range.
func NewInt64Vector(xs ...any) (*Int64Vector, error) {
	tv := EmptyInt64Vector().v.transient()
	for _, x := range xs {
		i, kind, ok := toInt64(x)
		if !ok {
			return nil, core.New(kind, "numvec.NewInt64Vector", x)
		}
		tv.appendRaw(i)
	}
	return &Int64Vector{v: tv.persistent()}, nil
}

// FromInt64Seq builds an Int64Vector from an iterator of already-typed
// int64 values.
func FromInt64Seq(seq iter.Seq[int64]) *Int64Vector {
	tv := EmptyInt64Vector().v.transient()
	for x := range seq {
		tv.appendRaw(x)
	}
	return &Int64Vector{v: tv.persistent()}
}

// Len returns the number of elements in v.
func (v *Int64Vector) Len() int { return v.v.len() }

// At returns v[i] as an int64. Negative i counts from the end. Panics
// with *pds.Error{Kind: pds.IndexOutOfRange} if i is out of range.
func (v *Int64Vector) At(i int) int64 { return v.v.at(i) }

// Append unboxes x and returns a new Int64Vector with it appended,
// failing with *pds.Error{Kind: pds.TypeError} if x is not an integer
// kind, or *pds.Error{Kind: pds.Overflow} if it does not fit in int64.
func (v *Int64Vector) Append(x any) (*Int64Vector, error) {
	i, kind, ok := toInt64(x)
	if !ok {
		return nil, core.New(kind, "numvec.Int64Vector.Append", x)
	}
	return &Int64Vector{v: v.v.appendRaw(i)}, nil
}

// Update unboxes x and returns a new Int64Vector with index i replaced.
// i == Len() is accepted as an append alias. Fails with
// *pds.Error{Kind: pds.TypeError} for a non-integer input, or
// *pds.Error{Kind: pds.Overflow} for an integer outside the int64 range;
// panics with *pds.Error{Kind: pds.IndexOutOfRange} for an index outside
// [-Len(), Len()].
func (v *Int64Vector) Update(i int, x any) (*Int64Vector, error) {
	n, kind, ok := toInt64(x)
	if !ok {
		return nil, core.New(kind, "numvec.Int64Vector.Update", x)
	}
	return &Int64Vector{v: v.v.updateRaw(i, n)}, nil
}

// Pop returns a new Int64Vector with the last element removed. Panics
// with *pds.Error{Kind: pds.EmptyPop} if v is empty.
func (v *Int64Vector) Pop() *Int64Vector { return &Int64Vector{v: v.v.popRaw()} }

// Hash computes v's structural hash, cached after first computation.
func (v *Int64Vector) Hash() uint64 { return v.v.hashCode() }

// Equal reports whether v and w have the same length and are
// element-wise equal in index order.
func (v *Int64Vector) Equal(w *Int64Vector) bool { return v.v.equal(w.v) }

// View materializes, on first call, a flat read-only buffer holding v's
// elements in order, and returns the same view on every later call.
func (v *Int64Vector) View() Int64View { return Int64View{s: v.v.view_()} }

// Values returns an iterator over v's elements in order.
func (v *Int64Vector) Values() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for _, x := range v.v.t.Slice() {
			if !yield(x) {
				return
			}
		}
	}
}
