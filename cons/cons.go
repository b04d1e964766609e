// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cons implements Cons, the persistent singly-linked list.
// Unlike the other collections in this module, Cons has no transient
// counterpart: a list built cell-by-cell is already its own O(1)
// construction primitive, so batching edits behind a mutable view buys
// nothing extra here.
package cons

import (
	"iter"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/spork-lang/pds/internal/core"
)

// Cons is a persistent linked-list cell holding first and rest. Lists
// terminate at the nil sentinel returned by Nil.
type Cons[T any] struct {
	first T
	rest  *Cons[T]
	isNil bool

	hashed atomic.Bool
	hash   atomic.Uint64
}

var nilCache sync.Map

// Nil returns the canonical empty list for T, the same pointer on every
// call for a given T.
func Nil[T any]() *Cons[T] {
	return core.Singleton(&nilCache, reflect.TypeFor[T](), func() *Cons[T] { return &Cons[T]{isNil: true} })
}

// New conses x onto tail in O(1), returning a new list cell.
func New[T any](x T, tail *Cons[T]) *Cons[T] {
	if tail == nil {
		tail = Nil[T]()
	}
	return &Cons[T]{first: x, rest: tail}
}

// Of builds a list from literal elements in order, e.g. cons.Of(1,2,3)
// yields the list (1 2 3).
func Of[T any](items ...T) *Cons[T] {
	l := Nil[T]()
	for i := len(items) - 1; i >= 0; i-- {
		l = New(items[i], l)
	}
	return l
}

// IsNil reports whether c is the empty list.
func (c *Cons[T]) IsNil() bool { return c.isNil }

// First returns c's head element. Calling First on the empty list
// returns the zero value of T; callers should check IsNil first, the
// same way they would check len(s) before indexing a Go slice.
func (c *Cons[T]) First() T { return c.first }

// Rest returns c's tail, or the empty list if c is already empty.
func (c *Cons[T]) Rest() *Cons[T] {
	if c.isNil {
		return c
	}
	return c.rest
}

// Len returns the number of elements in c, in O(n).
func (c *Cons[T]) Len() int {
	n := 0
	for p := c; !p.isNil; p = p.rest {
		n++
	}
	return n
}

// All returns a single-pass iterator over c's elements, front to back.
// Each call to All starts a fresh walk from c's own head; the list being
// persistent, this is always snapshot-consistent.
func (c *Cons[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for p := c; !p.isNil; p = p.rest {
			if !yield(p.first) {
				return
			}
		}
	}
}

// Slice materializes c into a freshly allocated plain slice.
func (c *Cons[T]) Slice() []T {
	out := make([]T, 0, c.Len())
	for x := range c.All() {
		out = append(out, x)
	}
	return out
}

// Equal reports whether c and other hold pairwise-equal elements in the
// same order.
func (c *Cons[T]) Equal(other *Cons[T]) bool {
	p, q := c, other
	for {
		if p.isNil != q.isNil {
			return false
		}
		if p.isNil {
			return true
		}
		if !core.EqualOf(p.first, q.first) {
			return false
		}
		p, q = p.rest, q.rest
	}
}

// Hash computes c's structural hash, h = 31*h + hash(x) across the list
// front to back, cached after first computation.
func (c *Cons[T]) Hash() uint64 {
	if c.hashed.Load() {
		return c.hash.Load()
	}
	var h uint64
	for x := range c.All() {
		h = core.CombineHash(h, core.HashOf(x))
	}
	c.hash.Store(h)
	c.hashed.Store(true)
	return h
}
