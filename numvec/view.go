// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numvec

import "iter"

// View is a read-only, zero-copy window over a numeric vector's
// contiguous backing buffer, materialized once and reused by every later
// View() call. It deliberately exposes no mutating method: unlike a
// plain []T, there is no index-assignment syntax that could write
// through it, so "attempted writes must fail" holds by construction
// rather than by a defensive copy.
type View[T Numeric] struct {
	s []T
}

// Len returns the number of elements in the view.
func (v View[T]) Len() int { return len(v.s) }

// At returns the element at index i. Panics the same way a plain slice
// index out of range would.
func (v View[T]) At(i int) T { return v.s[i] }

// All returns an iterator over the view's elements in order.
func (v View[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.s {
			if !yield(x) {
				return
			}
		}
	}
}

// Float64View is a read-only view over a Float64Vector's contiguous
// backing buffer.
type Float64View = View[float64]

// Int64View is a read-only view over an Int64Vector's contiguous backing
// buffer.
type Int64View = View[int64]
