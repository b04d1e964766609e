// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pds

import (
	"cmp"
	"iter"

	"github.com/spork-lang/pds/cons"
	"github.com/spork-lang/pds/numvec"
	"github.com/spork-lang/pds/pmap"
	"github.com/spork-lang/pds/pset"
	"github.com/spork-lang/pds/sortedvec"
	"github.com/spork-lang/pds/vector"
)

// Vec builds a Vector from literal elements, e.g. pds.Vec(1, 2, 3).
func Vec[T any](items ...T) *vector.Vector[T] { return vector.Of(items...) }

// EmptyVec returns the canonical empty Vector for T.
func EmptyVec[T any]() *vector.Vector[T] { return vector.Empty[T]() }

// SortVec returns a new Vector holding v's elements in host-native sorted
// order, ascending unless reverse is set.
func SortVec[T cmp.Ordered](v *vector.Vector[T], reverse bool) *vector.Vector[T] {
	return vector.Sort(v, reverse)
}

// SortVecByKey returns a new Vector holding v's elements ordered by the
// derived key, ascending unless reverse is set.
func SortVecByKey[T any, K cmp.Ordered](v *vector.Vector[T], key func(T) K, reverse bool) *vector.Vector[T] {
	return vector.SortByKey(v, key, reverse)
}

// FloatVec builds a Float64Vector from float or integer literals,
// converting each to float64. It returns an error if any element has no
// numeric conversion.
func FloatVec(xs ...any) (*numvec.Float64Vector, error) { return numvec.NewFloat64Vector(xs...) }

// EmptyFloatVec returns the canonical empty Float64Vector.
func EmptyFloatVec() *numvec.Float64Vector { return numvec.EmptyFloat64Vector() }

// IntVec builds an Int64Vector from integer literals. It returns an
// error if any element is non-integral or out of int64 range.
func IntVec(xs ...any) (*numvec.Int64Vector, error) { return numvec.NewInt64Vector(xs...) }

// EmptyIntVec returns the canonical empty Int64Vector.
func EmptyIntVec() *numvec.Int64Vector { return numvec.EmptyInt64Vector() }

// MapOf builds a Map from literal key/value pairs, e.g.
// pds.MapOf(pmap.P("a", 1), pmap.P("b", 2)).
func MapOf[K, V any](pairs ...pmap.Pair[K, V]) *pmap.Map[K, V] { return pmap.Of(pairs...) }

// EmptyMap returns the canonical empty Map for (K, V).
func EmptyMap[K, V any]() *pmap.Map[K, V] { return pmap.Empty[K, V]() }

// SetOf builds a Set from literal elements.
func SetOf[T any](items ...T) *pset.Set[T] { return pset.Of(items...) }

// EmptySet returns the canonical empty Set for T.
func EmptySet[T any]() *pset.Set[T] { return pset.Empty[T]() }

// Sorted builds a SortedVector ordered by less from literal elements.
func Sorted[T any](less func(a, b T) bool, items ...T) *sortedvec.SortedVector[T] {
	return sortedvec.New(less, items...)
}

// SortedByKey builds a SortedVector ordered by comparing a derived key,
// e.g. pds.SortedByKey(func(p Person) int { return p.Age }, cmp.Less, people...).
func SortedByKey[T, K any](keyFn func(T) K, less func(a, b K) bool, items ...T) *sortedvec.SortedVector[T] {
	return sortedvec.NewByKey(keyFn, less, items...)
}

// List builds a Cons from literal elements in order, e.g. pds.List(1,2,3)
// yields the list (1 2 3).
func List[T any](items ...T) *cons.Cons[T] { return cons.Of(items...) }

// EmptyList returns the canonical empty Cons for T.
func EmptyList[T any]() *cons.Cons[T] { return cons.Nil[T]() }

// VecFromSeq builds a Vector from an iterator.
func VecFromSeq[T any](seq iter.Seq[T]) *vector.Vector[T] { return vector.FromSeq(seq) }

// MapFromSeq builds a Map from an iterator of (key, value) pairs.
func MapFromSeq[K, V any](seq iter.Seq2[K, V]) *pmap.Map[K, V] { return pmap.FromSeq(seq) }

// SetFromSeq builds a Set from an iterator.
func SetFromSeq[T any](seq iter.Seq[T]) *pset.Set[T] { return pset.FromSeq(seq) }
