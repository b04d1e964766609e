// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hamt

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spork-lang/pds/internal/core"
)

func collect(t *testing.T, n Node[int, int]) map[int]int {
	t.Helper()
	got := map[int]int{}
	for k, v := range All[int, int](n) {
		got[k] = v
	}
	return got
}

func TestInsertFindAcrossThresholds(t *testing.T) {
	owner := core.NewEditToken()
	var root Node[int, int]
	const N = 500
	for i := 0; i < N; i++ {
		var added bool
		root, added = Insert[int, int](root, owner, core.HashOf(i), 0, i, i*10)
		require.True(t, added, "insert %d should add a new key", i)
	}
	require.Len(t, collect(t, root), N)
	for i := 0; i < N; i++ {
		v, ok := Find[int, int](root, core.HashOf(i), 0, i)
		require.True(t, ok, "key %d should be found", i)
		require.Equal(t, i*10, v)
	}
	_, ok := Find[int, int](root, core.HashOf(N+1), 0, N+1)
	require.False(t, ok, "absent key should not be found")
}

func TestInsertReplaceDoesNotAdd(t *testing.T) {
	owner := core.NewEditToken()
	var root Node[int, int]
	root, added := Insert[int, int](root, owner, core.HashOf(1), 0, 1, 100)
	require.True(t, added)
	root, added = Insert[int, int](root, owner, core.HashOf(1), 0, 1, 200)
	require.False(t, added, "replacing an existing key should report added=false")
	v, ok := Find[int, int](root, core.HashOf(1), 0, 1)
	require.True(t, ok)
	require.Equal(t, 200, v)
}

func TestDeleteShrinksBackToEmpty(t *testing.T) {
	owner := core.NewEditToken()
	var root Node[int, int]
	const N = 300
	for i := 0; i < N; i++ {
		root, _ = Insert[int, int](root, owner, core.HashOf(i), 0, i, i)
	}
	for i := 0; i < N; i++ {
		var removed bool
		root, removed = Delete[int, int](root, owner, core.HashOf(i), 0, i)
		require.True(t, removed, "delete %d should remove an existing key", i)
	}
	require.Nil(t, root, "deleting every key should leave the untyped nil Node")
	require.Empty(t, collect(t, root))
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	owner := core.NewEditToken()
	var root Node[int, int]
	root, _ = Insert[int, int](root, owner, core.HashOf(1), 0, 1, 1)
	_, removed := Delete[int, int](root, owner, core.HashOf(99), 0, 99)
	require.False(t, removed)
}

func TestPersistentInsertDoesNotMutateOldRoot(t *testing.T) {
	ownerA := core.NewEditToken()
	var rootA Node[int, int]
	rootA, _ = Insert[int, int](rootA, ownerA, core.HashOf(1), 0, 1, 1)

	ownerB := core.NewEditToken()
	rootB, _ := Insert[int, int](rootA, ownerB, core.HashOf(2), 0, 2, 2)

	_, ok := Find[int, int](rootA, core.HashOf(2), 0, 2)
	require.False(t, ok, "inserting under a new owner must not mutate the old root")
	_, ok = Find[int, int](rootB, core.HashOf(1), 0, 1)
	require.True(t, ok)
	_, ok = Find[int, int](rootB, core.HashOf(2), 0, 2)
	require.True(t, ok)
}

func TestCollisionNodeHandlesEqualHashDistinctKeys(t *testing.T) {
	owner := core.NewEditToken()
	var root Node[collidingKey, int]
	const h = 0xdeadbeef
	a := collidingKey{hash: h, id: 1}
	b := collidingKey{hash: h, id: 2}
	root, _ = Insert[collidingKey, int](root, owner, h, 0, a, 1)
	root, added := Insert[collidingKey, int](root, owner, h, 0, b, 2)
	require.True(t, added)

	va, ok := Find[collidingKey, int](root, h, 0, a)
	require.True(t, ok)
	require.Equal(t, 1, va)
	vb, ok := Find[collidingKey, int](root, h, 0, b)
	require.True(t, ok)
	require.Equal(t, 2, vb)

	root, removed := Delete[collidingKey, int](root, owner, h, 0, a)
	require.True(t, removed)
	_, ok = Find[collidingKey, int](root, h, 0, a)
	require.False(t, ok)
	vb, ok = Find[collidingKey, int](root, h, 0, b)
	require.True(t, ok)
	require.Equal(t, 2, vb)
}

func TestAllIterationEarlyStop(t *testing.T) {
	owner := core.NewEditToken()
	var root Node[int, int]
	for i := 0; i < 50; i++ {
		root, _ = Insert[int, int](root, owner, core.HashOf(i), 0, i, i)
	}
	seen := 0
	for range All[int, int](root) {
		seen++
		if seen == 5 {
			break
		}
	}
	require.Equal(t, 5, seen)
}

// collidingKey lets the collision-node path be exercised deterministically
// instead of waiting on an accidental 64-bit hash collision.
type collidingKey struct {
	hash uint64
	id   int
}

func (k collidingKey) Hash() uint64 { return k.hash }
func (k collidingKey) Equal(other any) bool {
	o, ok := other.(collidingKey)
	return ok && o.id == k.id
}

func TestSortedKeysStableAfterManyOps(t *testing.T) {
	owner := core.NewEditToken()
	var root Node[int, int]
	for i := 0; i < 200; i++ {
		root, _ = Insert[int, int](root, owner, core.HashOf(i), 0, i, i)
	}
	for i := 0; i < 200; i += 2 {
		root, _ = Delete[int, int](root, owner, core.HashOf(i), 0, i)
	}
	got := collect(t, root)
	var keys []int
	for k := range got {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	require.Len(t, keys, 100)
	for _, k := range keys {
		require.Equal(t, 1, k%2, "only odd keys should remain")
	}
}
