// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trie32 implements the 32-way bit-partitioned trie with a
// trailing tail buffer shared by Vector and the typed numeric vectors.
// It is a tail-plus-tree shape with copy-on-write node sharing, branching
// factor 32 (BITS=5, WIDTH=32), identifying a transient's owned nodes by
// a shared *pds.EditToken pointer rather than a global atomic id counter,
// since transients are single-thread-only and never compared across
// goroutines.
package trie32

import (
	"fmt"
	"slices"

	"github.com/spork-lang/pds/internal/bitutil"
)

const (
	chunkBits = bitutil.Bits
	chunk     = bitutil.Width
	chunkMask = bitutil.Mask
)

// Owner is the minimal identity type a trie node needs to decide whether
// it is writable in place. It is satisfied by *pds.EditToken; the trie
// package itself stays independent of the root pds package to avoid an
// import cycle (pds re-exports the collection constructors).
type Owner = any

// Tree is an immutable 32-way trie plus tail, the shared storage shape
// for both Vector[T] (T = any element type) and numVec[T] (T restricted
// to float64/int64 with unboxed leaves); both have identical trie
// shape, differing only in the element type stored at the leaves.
//
// root is either nil (no tree content at all) or a *inode[T]; it is
// deliberately typed any, not *inode[T], so that "no node here" is always
// the interface's true zero value rather than a non-nil interface
// wrapping a nil pointer; the two are different values in Go, and
// conflating them is an easy source of a nil-pointer panic when
// descending through a hole (a trie position with no node at all,
// read back as the zero value).
type Tree[T any] struct {
	root   any // nil, or *inode[T]
	height int // 0 = empty; minimum 2 once the tree holds a full chunk
	tlen   int // element count stored in the tree (excludes tail)
	tail   []T // 0..chunk pending elements not yet flushed to the tree
}

type leaf[T any] struct {
	val   [chunk]T
	owner Owner
}

type inode[T any] struct {
	kids  [chunk]any // nil, or *inode[T] (interior levels), or *leaf[T] (level 0)
	owner Owner
}

// Len returns the number of elements in t.
func (t *Tree[T]) Len() int { return t.tlen + len(t.tail) }

// treeHeight returns the tree height needed to index tlen elements in the
// tree proper (excluding the tail): 0 for an empty tree, otherwise the
// minimum height such that the tree can address index tlen-1, with a
// floor of 2 since a lone leaf is never itself the root (the root is
// always either nil or an *inode[T]).
func treeHeight(tlen int) int {
	if tlen == 0 {
		return 0
	}
	h := 2
	for cap := chunk * chunk; cap < tlen; cap *= chunk {
		h++
	}
	return h
}

// At returns t[i], the value at index i in [0, Len()).
func (t *Tree[T]) At(i int) T {
	if i >= t.tlen {
		return t.tail[i-t.tlen]
	}
	p := t.root
	for shift := (t.height - 1) * chunkBits; shift > 0 && p != nil; shift -= chunkBits {
		p = p.(*inode[T]).kids[(i>>shift)&chunkMask]
	}
	if p == nil {
		var zero T
		return zero
	}
	return p.(*leaf[T]).val[i&chunkMask]
}

// Slice returns a freshly allocated plain slice holding t[0:Len()], in
// index order. Used by Vector/numVec's materialization and sort helpers.
func (t *Tree[T]) Slice() []T {
	out := make([]T, 0, t.Len())
	t.visit(func(_ int, x T) bool {
		out = append(out, x)
		return true
	})
	return out
}

// visit calls f(i, t[i]) for every index in order, stopping early if f
// returns false.
func (t *Tree[T]) visit(f func(i int, x T) bool) {
	if t.tlen > 0 {
		if !visitNode[T](t.root, t.height-1, 0, t.tlen, f) {
			return
		}
	}
	for k, x := range t.tail {
		if !f(t.tlen+k, x) {
			return
		}
	}
}

func visitNode[T any](p any, level, start, end int, f func(int, T) bool) bool {
	if p == nil {
		var zero T
		for ; start < end; start++ {
			if !f(start, zero) {
				return false
			}
		}
		return true
	}
	if level == 0 {
		l := p.(*leaf[T])
		for i := start; i < end; i++ {
			if !f(i, l.val[i&chunkMask]) {
				return false
			}
		}
		return true
	}
	n := p.(*inode[T])
	shift := level * chunkBits
	width := 1 << shift
	for j := (start >> shift) & chunkMask; j < chunk && start < end; j++ {
		m := min(end-start, width-start&(width-1))
		if !visitNode[T](n.kids[j], level-1, start, start+m, f) {
			return false
		}
		start += m
	}
	return true
}

// Editor mutates a private copy of a Tree under ownership token owner: a
// node is mutated in place iff it already carries owner, otherwise it is
// cloned (or created) first and the clone takes ownership.
type Editor[T any] struct {
	owner Owner
	t     Tree[T]
}

// NewEditor opens an Editor over (a copy of) src under the given owner
// token. src's own storage is left untouched; Editor never mutates
// anything reachable from src until it has cloned it.
func NewEditor[T any](owner Owner, src Tree[T]) *Editor[T] {
	e := &Editor[T]{owner: owner, t: src}
	e.t.tail = slices.Clone(src.tail)
	return e
}

// Freeze publishes e's current state as an immutable Tree, usable
// forever after. It does not invalidate e; callers enforce the
// "UseAfterFreeze" single-shot contract at the collection layer by
// discarding their owner token once Freeze has been called.
func (e *Editor[T]) Freeze() Tree[T] {
	return Tree[T]{root: e.t.root, height: e.t.height, tlen: e.t.tlen, tail: slices.Clone(e.t.tail)}
}

// Len returns the number of elements currently in e.
func (e *Editor[T]) Len() int { return e.t.Len() }

// At returns e[i].
func (e *Editor[T]) At(i int) T { return e.t.At(i) }

// wleaf returns a writable *leaf[T] for the slot *p, cloning or creating
// it if it is not already owned by e.
func (e *Editor[T]) wleaf(p *any) *leaf[T] {
	cur, _ := (*p).(*leaf[T])
	if cur != nil && cur.owner == e.owner {
		return cur
	}
	l := new(leaf[T])
	if cur != nil {
		l.val = cur.val
	}
	l.owner = e.owner
	*p = l
	return l
}

// wnode returns a writable *inode[T] for the slot *p, cloning or creating
// it if it is not already owned by e.
func (e *Editor[T]) wnode(p *any) *inode[T] {
	cur, _ := (*p).(*inode[T])
	if cur != nil && cur.owner == e.owner {
		return cur
	}
	n := new(inode[T])
	if cur != nil {
		n.kids = cur.kids
	}
	n.owner = e.owner
	*p = n
	return n
}

// descend walks from the tree root down to the leaf slot holding index i,
// cloning nodes under e's ownership as it goes, and returns that leaf
// slot's address so the caller can read or overwrite it.
func (e *Editor[T]) descend(i int) *any {
	p := &e.t.root
	for shift := (e.t.height - 1) * chunkBits; shift > 0; shift -= chunkBits {
		n := e.wnode(p)
		p = &n.kids[(i>>shift)&chunkMask]
	}
	return p
}

// Set assigns e[i] = x for i in [0, Len()).
func (e *Editor[T]) Set(i int, x T) {
	if i >= e.t.tlen {
		e.t.tail[i-e.t.tlen] = x
		return
	}
	l := e.wleaf(e.descend(i))
	l.val[i&chunkMask] = x
}

func (e *Editor[T]) growTo(tlen int) {
	if tlen == e.t.tlen {
		return
	}
	h := treeHeight(tlen)
	if h == e.t.height {
		e.t.tlen = tlen
		return
	}
	if e.t.height == 0 {
		e.t.height = h
		e.t.tlen = tlen
		return
	}
	for ; e.t.height < h; e.t.height++ {
		n := &inode[T]{owner: e.owner}
		n.kids[0] = e.t.root
		e.t.root = n
	}
	e.t.tlen = tlen
}

func (e *Editor[T]) shrinkTo(tlen int) {
	h := treeHeight(tlen)
	e.t.tlen = tlen
	if h == e.t.height {
		return
	}
	if h == 0 {
		e.t.root = nil
		e.t.height = 0
		return
	}
	for ; e.t.height > h; e.t.height-- {
		if n, ok := e.t.root.(*inode[T]); ok && n != nil {
			e.t.root = n.kids[0]
		} else {
			e.t.root = nil
		}
	}
}

// Append appends a single element to e, growing the tail or, once the
// tail is full, flushing it into the tree: clone-and-grow the tail;
// once full, push it as a new leaf, growing a fresh root when the tree
// overflows its current height.
func (e *Editor[T]) Append(x T) {
	if len(e.t.tail) < chunk {
		e.t.tail = append(e.t.tail, x)
		return
	}
	e.flushTail()
	e.t.tail = append(e.t.tail[:0], x)
}

// flushTail pushes a full tail (len == chunk) into the tree as a new leaf.
func (e *Editor[T]) flushTail() {
	off := e.t.tlen
	e.growTo(off + chunk)
	l := e.wleaf(e.descend(off))
	l.val = [chunk]T(e.t.tail[:chunk])
}

// Resize grows or shrinks e to exactly n elements. Growing leaves new
// elements as the zero value of T; shrinking discards trailing elements.
// This underlies Pop (Resize(Len()-1)).
func (e *Editor[T]) Resize(n int) {
	switch {
	case n == e.t.Len():
		return
	case n > e.t.Len():
		for e.t.Len() < n {
			var zero T
			e.Append(zero)
		}
	default:
		tlen, tailLen := n&^chunkMask, n&chunkMask
		if tlen != e.t.tlen {
			var newTail []T
			if tailLen != 0 {
				p := e.t.root
				for shift := (e.t.height - 1) * chunkBits; shift > 0 && p != nil; shift -= chunkBits {
					p = p.(*inode[T]).kids[(tlen>>shift)&chunkMask]
				}
				newTail = make([]T, tailLen)
				if l, ok := p.(*leaf[T]); ok {
					copy(newTail, l.val[:tailLen])
				}
			}
			e.shrinkTo(tlen)
			e.t.tail = newTail
			return
		}
		e.t.tail = e.t.tail[:tailLen]
	}
	if e.t.Len() != n {
		panic(fmt.Sprintf("trie32: internal error: Resize(%d) produced length %d", n, e.t.Len()))
	}
}
