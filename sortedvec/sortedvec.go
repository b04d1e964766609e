// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sortedvec implements SortedVector and TransientSortedVector: a
// persistent ordered sequence backed by a left-leaning red-black tree
// with subtree-size annotations, giving O(log n) rank and indexed
// access in addition to O(log n) insert/remove.
package sortedvec

import (
	"iter"
	"sync/atomic"

	"github.com/spork-lang/pds/internal/core"
)

// hashMultiplier is the classic FNV-1 64-bit prime, used to fold each
// element's hash into sv's order-sensitive structural hash.
const hashMultiplier = 1099511628211

type node[T any] struct {
	val         T
	left, right *node[T]
	red         bool
	size        int
	owner       *core.EditToken
}

func isRed[T any](n *node[T]) bool { return n != nil && n.red }

func nodeSize[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func cloneNode[T any](n *node[T], owner *core.EditToken) *node[T] {
	if n.owner == owner {
		return n
	}
	cp := *n
	cp.owner = owner
	return &cp
}

func rotateLeft[T any](owner *core.EditToken, h *node[T]) *node[T] {
	x := cloneNode(h.right, owner)
	h = cloneNode(h, owner)
	h.right = x.left
	x.left = h
	x.red = h.red
	h.red = true
	x.size = h.size
	h.size = 1 + nodeSize(h.left) + nodeSize(h.right)
	return x
}

func rotateRight[T any](owner *core.EditToken, h *node[T]) *node[T] {
	x := cloneNode(h.left, owner)
	h = cloneNode(h, owner)
	h.left = x.right
	x.right = h
	x.red = h.red
	h.red = true
	x.size = h.size
	h.size = 1 + nodeSize(h.left) + nodeSize(h.right)
	return x
}

func flipColors[T any](owner *core.EditToken, h *node[T]) *node[T] {
	h = cloneNode(h, owner)
	h.left = cloneNode(h.left, owner)
	h.right = cloneNode(h.right, owner)
	h.red = !h.red
	h.left.red = !h.left.red
	h.right.red = !h.right.red
	return h
}

// fixUp restores the LLRB invariants at h after an insertion or deletion
// may have left it with a right-leaning red edge or two consecutive
// left-reds, and recomputes its subtree size.
func fixUp[T any](owner *core.EditToken, h *node[T]) *node[T] {
	if isRed(h.right) && !isRed(h.left) {
		h = rotateLeft(owner, h)
	}
	if isRed(h.left) && isRed(h.left.left) {
		h = rotateRight(owner, h)
	}
	if isRed(h.left) && isRed(h.right) {
		h = flipColors(owner, h)
	}
	h.size = 1 + nodeSize(h.left) + nodeSize(h.right)
	return h
}

// insert adds x to the subtree rooted at h, strictly-less going left and
// everything else (equal or greater) going right so that duplicate keys
// preserve stable insertion order.
func insert[T any](owner *core.EditToken, h *node[T], x T, less func(a, b T) bool) *node[T] {
	if h == nil {
		return &node[T]{val: x, red: true, size: 1, owner: owner}
	}
	h = cloneNode(h, owner)
	if less(x, h.val) {
		h.left = insert(owner, h.left, x, less)
	} else {
		h.right = insert(owner, h.right, x, less)
	}
	return fixUp(owner, h)
}

func moveRedLeft[T any](owner *core.EditToken, h *node[T]) *node[T] {
	h = flipColors(owner, h)
	if isRed(h.right.left) {
		h.right = rotateRight(owner, h.right)
		h = rotateLeft(owner, h)
		h = flipColors(owner, h)
	}
	return h
}

func moveRedRight[T any](owner *core.EditToken, h *node[T]) *node[T] {
	h = flipColors(owner, h)
	if isRed(h.left.left) {
		h = rotateRight(owner, h)
		h = flipColors(owner, h)
	}
	return h
}

func minNode[T any](h *node[T]) *node[T] {
	for h.left != nil {
		h = h.left
	}
	return h
}

func deleteMin[T any](owner *core.EditToken, h *node[T]) *node[T] {
	if h.left == nil {
		return nil
	}
	if !isRed(h.left) && !isRed(h.left.left) {
		h = moveRedLeft(owner, h)
	} else {
		h = cloneNode(h, owner)
	}
	h.left = deleteMin(owner, h.left)
	return fixUp(owner, h)
}

// deleteNode removes one node equal to x (under less) from the subtree
// rooted at h, following the standard LLRB delete: push a red edge down
// the search path so the node actually being removed is always red,
// then either drop a leaf or splice in the in-order successor.
func deleteNode[T any](owner *core.EditToken, h *node[T], x T, less func(a, b T) bool) (*node[T], bool) {
	if h == nil {
		return nil, false
	}
	var removed bool
	if less(x, h.val) {
		if h.left == nil {
			return h, false
		}
		if !isRed(h.left) && !isRed(h.left.left) {
			h = moveRedLeft(owner, h)
		} else {
			h = cloneNode(h, owner)
		}
		h.left, removed = deleteNode(owner, h.left, x, less)
	} else {
		if isRed(h.left) {
			h = rotateRight(owner, h)
		} else {
			h = cloneNode(h, owner)
		}
		if !less(h.val, x) && h.right == nil {
			return nil, true
		}
		if h.right != nil && !isRed(h.right) && !isRed(h.right.left) {
			h = moveRedRight(owner, h)
		}
		if !less(h.val, x) {
			removed = true
			h.val = minNode(h.right).val
			h.right = deleteMin(owner, h.right)
		} else {
			h.right, removed = deleteNode(owner, h.right, x, less)
		}
	}
	return fixUp(owner, h), removed
}

func nth[T any](h *node[T], i int) T {
	for h != nil {
		ls := nodeSize(h.left)
		switch {
		case i < ls:
			h = h.left
		case i == ls:
			return h.val
		default:
			i -= ls + 1
			h = h.right
		}
	}
	var zero T
	return zero
}

// rank counts the elements strictly less than x under less.
func rank[T any](h *node[T], x T, less func(a, b T) bool) int {
	r := 0
	for h != nil {
		if less(h.val, x) {
			r += nodeSize(h.left) + 1
			h = h.right
		} else {
			h = h.left
		}
	}
	return r
}

func contains[T any](h *node[T], x T, less func(a, b T) bool) bool {
	for h != nil {
		switch {
		case less(x, h.val):
			h = h.left
		case less(h.val, x):
			h = h.right
		default:
			return true
		}
	}
	return false
}

// SortedVector is an immutable, structurally-shared sequence of T kept
// in order under a caller-supplied total order. Duplicates are
// permitted; a new element equal to existing ones is inserted after
// them, so repeated inserts of the same key are stable.
type SortedVector[T any] struct {
	root  *node[T]
	count int
	less  func(a, b T) bool

	hashed atomic.Bool
	hash   atomic.Uint64
}

// New builds a SortedVector from literal elements, ordered by less.
func New[T any](less func(a, b T) bool, items ...T) *SortedVector[T] {
	sv := &SortedVector[T]{less: less}
	tv := sv.Transient()
	for _, x := range items {
		tv.Conj(x)
	}
	return tv.Persistent()
}

// NewByKey builds a SortedVector ordered by keyFn(x) under less, e.g.
// sorting structs by a field without writing a bespoke comparator over
// the whole struct.
func NewByKey[T, K any](keyFn func(T) K, less func(a, b K) bool, items ...T) *SortedVector[T] {
	return New(func(a, b T) bool { return less(keyFn(a), keyFn(b)) }, items...)
}

// FromSeq builds a SortedVector from an iterator, ordered by less.
func FromSeq[T any](less func(a, b T) bool, seq iter.Seq[T]) *SortedVector[T] {
	sv := &SortedVector[T]{less: less}
	tv := sv.Transient()
	for x := range seq {
		tv.Conj(x)
	}
	return tv.Persistent()
}

// Reversed returns a new SortedVector holding the same elements under
// the reversed order.
func (sv *SortedVector[T]) Reversed() *SortedVector[T] {
	reversed := func(a, b T) bool { return sv.less(b, a) }
	out := &SortedVector[T]{less: reversed}
	tv := out.Transient()
	for x := range sv.All() {
		tv.Conj(x)
	}
	return tv.Persistent()
}

// Len returns the number of elements in sv.
func (sv *SortedVector[T]) Len() int { return sv.count }

// Conj returns a new SortedVector with x inserted in sorted position.
func (sv *SortedVector[T]) Conj(x T) *SortedVector[T] {
	tv := sv.Transient()
	tv.Conj(x)
	return tv.Persistent()
}

// Disj returns a new SortedVector with one occurrence of x removed, or
// sv itself if x is absent.
func (sv *SortedVector[T]) Disj(x T) *SortedVector[T] {
	if !sv.Contains(x) {
		return sv
	}
	tv := sv.Transient()
	tv.Disj(x)
	return tv.Persistent()
}

// Nth returns the i'th smallest element (0-indexed). Panics with
// *pds.Error{Kind: pds.IndexOutOfRange} if i is out of [0, Len()).
func (sv *SortedVector[T]) Nth(i int) T {
	if i < 0 || i >= sv.count {
		core.Fail(core.IndexOutOfRange, "sortedvec.Nth", i)
	}
	return nth(sv.root, i)
}

// First returns the smallest element. Panics with
// *pds.Error{Kind: pds.IndexOutOfRange} if sv is empty.
func (sv *SortedVector[T]) First() T { return sv.Nth(0) }

// Last returns the largest element. Panics with
// *pds.Error{Kind: pds.IndexOutOfRange} if sv is empty.
func (sv *SortedVector[T]) Last() T { return sv.Nth(sv.count - 1) }

// Rank returns the number of elements strictly less than x.
func (sv *SortedVector[T]) Rank(x T) int { return rank(sv.root, x, sv.less) }

// Contains reports whether x (under sv's order) is present in sv.
func (sv *SortedVector[T]) Contains(x T) bool { return contains(sv.root, x, sv.less) }

// IndexOf returns the index of x's earliest occurrence, or -1 if x is
// absent.
func (sv *SortedVector[T]) IndexOf(x T) int {
	if !sv.Contains(x) {
		return -1
	}
	return rank(sv.root, x, sv.less)
}

// All returns a single-pass, in-order iterator over sv's elements,
// walking a left-spine stack rather than recursing.
func (sv *SortedVector[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		stack := make([]*node[T], 0, 32)
		n := sv.root
		for n != nil || len(stack) > 0 {
			for n != nil {
				stack = append(stack, n)
				n = n.left
			}
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.val) {
				return
			}
			n = n.right
		}
	}
}

// Slice materializes sv into a freshly allocated plain slice, in order.
func (sv *SortedVector[T]) Slice() []T {
	out := make([]T, 0, sv.count)
	for x := range sv.All() {
		out = append(out, x)
	}
	return out
}

// Equal reports whether sv and tv have the same count and are
// element-wise equal under iteration order.
func (sv *SortedVector[T]) Equal(tv *SortedVector[T]) bool {
	if sv.count != tv.count {
		return false
	}
	next, stop := iter.Pull(tv.All())
	defer stop()
	for x := range sv.All() {
		y, ok := next()
		if !ok || !core.EqualOf(x, y) {
			return false
		}
	}
	return true
}

// Hash computes sv's order-sensitive structural hash, accumulating
// (h XOR hash(x)) * hashMultiplier across sv in iteration order, cached
// after first computation.
func (sv *SortedVector[T]) Hash() uint64 {
	if sv.hashed.Load() {
		return sv.hash.Load()
	}
	var h uint64
	for x := range sv.All() {
		h = (h ^ core.HashOf(x)) * hashMultiplier
	}
	sv.hash.Store(h)
	sv.hashed.Store(true)
	return h
}

// Transient returns a TransientSortedVector for batch-editing a copy of
// sv, preserving its comparator.
func (sv *SortedVector[T]) Transient() *TransientSortedVector[T] {
	return &TransientSortedVector[T]{owner: core.NewEditToken(), root: sv.root, count: sv.count, less: sv.less}
}

// A TransientSortedVector is a mutable view of a SortedVector under
// construction. It must be used from a single goroutine; Persistent
// publishes it and invalidates it for further mutation.
type TransientSortedVector[T any] struct {
	owner *core.EditToken
	root  *node[T]
	count int
	less  func(a, b T) bool
	done  bool
}

func (tv *TransientSortedVector[T]) checkLive(op string) {
	if tv.done {
		core.Fail(core.UseAfterFreeze, op, nil)
	}
}

// Len returns the number of elements currently in tv.
func (tv *TransientSortedVector[T]) Len() int { return tv.count }

// Conj inserts x in place, in sorted position.
func (tv *TransientSortedVector[T]) Conj(x T) {
	tv.checkLive("sortedvec.TransientSortedVector.Conj")
	tv.root = insert(tv.owner, tv.root, x, tv.less)
	tv.root.red = false
	tv.count++
}

// Disj removes one occurrence of x in place, a no-op if x is absent.
func (tv *TransientSortedVector[T]) Disj(x T) {
	tv.checkLive("sortedvec.TransientSortedVector.Disj")
	newRoot, removed := deleteNode(tv.owner, tv.root, x, tv.less)
	tv.root = newRoot
	if tv.root != nil {
		tv.root.red = false
	}
	if removed {
		tv.count--
	}
}

// Persistent freezes tv and returns an immutable SortedVector sharing
// its final structure.
func (tv *TransientSortedVector[T]) Persistent() *SortedVector[T] {
	tv.checkLive("sortedvec.TransientSortedVector.Persistent")
	tv.done = true
	return &SortedVector[T]{root: tv.root, count: tv.count, less: tv.less}
}
