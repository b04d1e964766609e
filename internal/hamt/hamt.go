// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hamt implements the hash-array-mapped trie shared by pmap.Map
// and, through it, pset.Set: a bitmap-indexed node for sparse fan-out, an
// array node once a level grows dense, and a collision node for the rare
// case of two distinct keys hashing identically.
package hamt

import (
	"math/bits"

	"github.com/spork-lang/pds/internal/bitutil"
	"github.com/spork-lang/pds/internal/core"
)

// arrayPromoteThreshold is the populated-slot count above which a
// Bitmap node promotes itself to an Array node.
const arrayPromoteThreshold = 16

// arrayCompactThreshold is the populated-child count at or below which
// an Array node compacts itself back down to a Bitmap node.
const arrayCompactThreshold = bitutil.Width / 4

// Node is the closed set of trie node kinds: Bitmap, Array, Collision,
// plus the untyped nil interface value standing for "no node here".
type Node[K, V any] interface {
	isNode()
}

// slot is a Bitmap node's packed-array element: either a flat (key,
// value) entry, or, when two keys have landed on the same bit at this
// level, a pointer down to a child node handling the next level.
type slot[K, V any] struct {
	key    K
	value  V
	hasKey bool
	child  Node[K, V]
}

// Bitmap is a sparse node: bitmap marks which of the 32 possible
// children/entries are populated, slots holds them packed in ascending
// bit order.
type Bitmap[K, V any] struct {
	bitmap uint32
	slots  []slot[K, V]
	owner  *core.EditToken
}

func (*Bitmap[K, V]) isNode() {}

// Array is a dense node: every one of the 32 possible children is
// stored directly, nil where absent.
type Array[K, V any] struct {
	children [bitutil.Width]Node[K, V]
	count    int
	owner    *core.EditToken
}

func (*Array[K, V]) isNode() {}

type pair[K, V any] struct {
	key   K
	value V
}

// Collision holds every entry whose key hashes, in full, to the same
// 64-bit value, vanishingly rare for a well-distributed hash, but a
// closed trie must still represent it rather than recursing forever.
type Collision[K, V any] struct {
	hash  uint64
	pairs []pair[K, V]
	owner *core.EditToken
}

func (*Collision[K, V]) isNode() {}

// Find looks up k (whose hash is h) starting at shift in the subtree
// rooted at n.
func Find[K, V any](n Node[K, V], h uint64, shift uint, k K) (V, bool) {
	switch node := n.(type) {
	case nil:
		var zero V
		return zero, false
	case *Bitmap[K, V]:
		bit := bitutil.Bit(h, shift)
		if node.bitmap&bit == 0 {
			var zero V
			return zero, false
		}
		s := node.slots[bitutil.PackedIndex(node.bitmap, bit)]
		if s.hasKey {
			if core.EqualOf(s.key, k) {
				return s.value, true
			}
			var zero V
			return zero, false
		}
		return Find[K, V](s.child, h, shift+bitutil.Bits, k)
	case *Array[K, V]:
		return Find[K, V](node.children[bitutil.SlotIndex(h, shift)], h, shift+bitutil.Bits, k)
	case *Collision[K, V]:
		if node.hash != h {
			var zero V
			return zero, false
		}
		for _, p := range node.pairs {
			if core.EqualOf(p.key, k) {
				return p.value, true
			}
		}
		var zero V
		return zero, false
	default:
		var zero V
		return zero, false
	}
}

// newSingle builds a fresh one-entry Bitmap holding (k, v) at the bit
// position h has at shift.
func newSingle[K, V any](owner *core.EditToken, h uint64, shift uint, k K, v V) *Bitmap[K, V] {
	return &Bitmap[K, V]{
		bitmap: bitutil.Bit(h, shift),
		slots:  []slot[K, V]{{key: k, value: v, hasKey: true}},
		owner:  owner,
	}
}

// wbitmap returns a node matching n, writable in place under owner: n
// itself if it already carries owner, otherwise a shallow clone.
func wbitmap[K, V any](n *Bitmap[K, V], owner *core.EditToken) *Bitmap[K, V] {
	if n.owner == owner {
		return n
	}
	return &Bitmap[K, V]{bitmap: n.bitmap, slots: append([]slot[K, V](nil), n.slots...), owner: owner}
}

func warray[K, V any](n *Array[K, V], owner *core.EditToken) *Array[K, V] {
	if n.owner == owner {
		return n
	}
	cp := &Array[K, V]{count: n.count, owner: owner}
	cp.children = n.children
	return cp
}

func wcollision[K, V any](n *Collision[K, V], owner *core.EditToken) *Collision[K, V] {
	if n.owner == owner {
		return n
	}
	return &Collision[K, V]{hash: n.hash, pairs: append([]pair[K, V](nil), n.pairs...), owner: owner}
}

func insertSlot[K, V any](slots []slot[K, V], at int, s slot[K, V]) []slot[K, V] {
	slots = append(slots, slot[K, V]{})
	copy(slots[at+1:], slots[at:])
	slots[at] = s
	return slots
}

func removeSlot[K, V any](slots []slot[K, V], at int) []slot[K, V] {
	copy(slots[at:], slots[at+1:])
	return slots[:len(slots)-1]
}

// promoteToArray rebuilds n, a Bitmap that has just exceeded
// arrayPromoteThreshold populated slots, as an Array at the same level:
// every flat entry becomes a single-entry Bitmap child one level down,
// every existing child is kept as-is.
func promoteToArray[K, V any](n *Bitmap[K, V], shift uint, owner *core.EditToken) *Array[K, V] {
	arr := &Array[K, V]{owner: owner}
	bm := n.bitmap
	idx := 0
	for bm != 0 {
		j := bits.TrailingZeros32(bm)
		bit := uint32(1) << uint(j)
		s := n.slots[idx]
		if s.hasKey {
			arr.children[j] = newSingle[K, V](owner, core.HashOf(s.key), shift+bitutil.Bits, s.key, s.value)
		} else {
			arr.children[j] = s.child
		}
		arr.count++
		idx++
		bm &^= bit
	}
	return arr
}

// compactToBitmap rebuilds n, an Array that has just dropped to
// arrayCompactThreshold or fewer populated children, as a Bitmap at the
// same level, each child kept as a nested child slot.
func compactToBitmap[K, V any](n *Array[K, V], owner *core.EditToken) *Bitmap[K, V] {
	nb := &Bitmap[K, V]{owner: owner}
	for j := 0; j < bitutil.Width; j++ {
		child := n.children[j]
		if child == nil {
			continue
		}
		nb.bitmap |= uint32(1) << uint(j)
		nb.slots = append(nb.slots, slot[K, V]{child: child})
	}
	return nb
}

// Insert returns a new subtree with (k, v) recorded, reusing nodes
// already owned by owner and cloning the rest, plus whether the key was
// newly added (false means an existing key's value was replaced).
func Insert[K, V any](n Node[K, V], owner *core.EditToken, h uint64, shift uint, k K, v V) (Node[K, V], bool) {
	switch node := n.(type) {
	case nil:
		return newSingle[K, V](owner, h, shift, k, v), true

	case *Bitmap[K, V]:
		bit := bitutil.Bit(h, shift)
		idx := bitutil.PackedIndex(node.bitmap, bit)
		if node.bitmap&bit == 0 {
			nb := wbitmap(node, owner)
			nb.bitmap |= bit
			nb.slots = insertSlot(nb.slots, idx, slot[K, V]{key: k, value: v, hasKey: true})
			if len(nb.slots) > arrayPromoteThreshold {
				return promoteToArray[K, V](nb, shift, owner), true
			}
			return nb, true
		}
		s := node.slots[idx]
		if s.hasKey {
			if core.EqualOf(s.key, k) {
				nb := wbitmap(node, owner)
				nb.slots[idx].value = v
				return nb, false
			}
			h2 := core.HashOf(s.key)
			var child Node[K, V]
			if h2 == h {
				child = &Collision[K, V]{hash: h, pairs: []pair[K, V]{{s.key, s.value}, {k, v}}, owner: owner}
			} else {
				nested, _ := Insert[K, V](newSingle[K, V](owner, h2, shift+bitutil.Bits, s.key, s.value), owner, h, shift+bitutil.Bits, k, v)
				child = nested
			}
			nb := wbitmap(node, owner)
			nb.slots[idx] = slot[K, V]{child: child}
			return nb, true
		}
		newChild, added := Insert(s.child, owner, h, shift+bitutil.Bits, k, v)
		nb := wbitmap(node, owner)
		nb.slots[idx] = slot[K, V]{child: newChild}
		return nb, added

	case *Array[K, V]:
		idx := bitutil.SlotIndex(h, shift)
		wasNil := node.children[idx] == nil
		newChild, added := Insert(node.children[idx], owner, h, shift+bitutil.Bits, k, v)
		na := warray(node, owner)
		na.children[idx] = newChild
		if wasNil {
			na.count++
		}
		return na, added

	case *Collision[K, V]:
		if node.hash != h {
			wrapped := &Bitmap[K, V]{bitmap: bitutil.Bit(node.hash, shift), slots: []slot[K, V]{{child: node}}, owner: owner}
			return Insert[K, V](wrapped, owner, h, shift, k, v)
		}
		for i, p := range node.pairs {
			if core.EqualOf(p.key, k) {
				nc := wcollision(node, owner)
				nc.pairs[i].value = v
				return nc, false
			}
		}
		nc := wcollision(node, owner)
		nc.pairs = append(nc.pairs, pair[K, V]{k, v})
		return nc, true

	default:
		return n, false
	}
}

// flatEntry reports whether n is a single-entry node that its parent
// Bitmap can inline directly as a flat slot instead of keeping a child
// pointer, true for a Collision that has shrunk to one pair, or a
// Bitmap holding exactly one flat entry and no children.
func flatEntry[K, V any](n Node[K, V]) (K, V, bool) {
	switch node := n.(type) {
	case *Collision[K, V]:
		if len(node.pairs) == 1 {
			return node.pairs[0].key, node.pairs[0].value, true
		}
	case *Bitmap[K, V]:
		if len(node.slots) == 1 && node.slots[0].hasKey {
			return node.slots[0].key, node.slots[0].value, true
		}
	}
	var zk K
	var zv V
	return zk, zv, false
}

// Delete returns a new subtree with k removed, or n unchanged (removed
// == false) if k was never present. A fully emptied subtree is reported
// back as the untyped nil Node value, never a typed nil pointer.
func Delete[K, V any](n Node[K, V], owner *core.EditToken, h uint64, shift uint, k K) (Node[K, V], bool) {
	switch node := n.(type) {
	case nil:
		return nil, false

	case *Bitmap[K, V]:
		bit := bitutil.Bit(h, shift)
		if node.bitmap&bit == 0 {
			return n, false
		}
		idx := bitutil.PackedIndex(node.bitmap, bit)
		s := node.slots[idx]
		if s.hasKey {
			if !core.EqualOf(s.key, k) {
				return n, false
			}
			nb := wbitmap(node, owner)
			nb.bitmap &^= bit
			nb.slots = removeSlot(nb.slots, idx)
			if nb.bitmap == 0 {
				return nil, true
			}
			return nb, true
		}
		newChild, removed := Delete[K, V](s.child, owner, h, shift+bitutil.Bits, k)
		if !removed {
			return n, false
		}
		nb := wbitmap(node, owner)
		if newChild == nil {
			nb.bitmap &^= bit
			nb.slots = removeSlot(nb.slots, idx)
			if nb.bitmap == 0 {
				return nil, true
			}
			return nb, true
		}
		if fk, fv, ok := flatEntry[K, V](newChild); ok {
			nb.slots[idx] = slot[K, V]{key: fk, value: fv, hasKey: true}
		} else {
			nb.slots[idx] = slot[K, V]{child: newChild}
		}
		return nb, true

	case *Array[K, V]:
		idx := bitutil.SlotIndex(h, shift)
		child := node.children[idx]
		if child == nil {
			return n, false
		}
		newChild, removed := Delete[K, V](child, owner, h, shift+bitutil.Bits, k)
		if !removed {
			return n, false
		}
		na := warray(node, owner)
		na.children[idx] = newChild
		if newChild == nil {
			na.count--
		}
		if na.count <= arrayCompactThreshold {
			return compactToBitmap[K, V](na, owner), true
		}
		return na, true

	case *Collision[K, V]:
		if node.hash != h {
			return n, false
		}
		for i, p := range node.pairs {
			if core.EqualOf(p.key, k) {
				if len(node.pairs) == 1 {
					return nil, true
				}
				nc := wcollision(node, owner)
				nc.pairs = append(nc.pairs[:i], nc.pairs[i+1:]...)
				return nc, true
			}
		}
		return n, false

	default:
		return n, false
	}
}

// All returns a depth-first iterator over every (key, value) pair in
// the subtree rooted at n. Order is deterministic for an unchanged tree
// but carries no relation to key order or insertion order.
func All[K, V any](n Node[K, V]) func(yield func(K, V) bool) {
	return func(yield func(K, V) bool) {
		walk(n, yield)
	}
}

func walk[K, V any](n Node[K, V], yield func(K, V) bool) bool {
	switch node := n.(type) {
	case nil:
		return true
	case *Bitmap[K, V]:
		for _, s := range node.slots {
			if s.hasKey {
				if !yield(s.key, s.value) {
					return false
				}
			} else if !walk(s.child, yield) {
				return false
			}
		}
		return true
	case *Array[K, V]:
		for _, c := range node.children {
			if c != nil && !walk(c, yield) {
				return false
			}
		}
		return true
	case *Collision[K, V]:
		for _, p := range node.pairs {
			if !yield(p.key, p.value) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
