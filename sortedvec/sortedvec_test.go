// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sortedvec

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/spork-lang/pds/internal/pdstest"
)

func less(a, b int) bool { return a < b }

func TestConjKeepsSortedOrder(t *testing.T) {
	sv := New(less, 5, 3, 8, 1, 9, 2)
	require.Equal(t, []int{1, 2, 3, 5, 8, 9}, sv.Slice())
}

func TestNthRankIndexOf(t *testing.T) {
	sv := New(less, 10, 20, 30, 40, 50)
	require.Equal(t, 30, sv.Nth(2))
	require.Equal(t, 0, sv.Rank(10))
	require.Equal(t, 2, sv.Rank(30))
	require.Equal(t, 5, sv.Rank(999))
	require.Equal(t, 2, sv.IndexOf(30))
	require.Equal(t, -1, sv.IndexOf(999))
}

func TestFirstLast(t *testing.T) {
	sv := New(less, 5, 1, 9, 3)
	require.Equal(t, 1, sv.First())
	require.Equal(t, 9, sv.Last())
}

func TestDisjRemovesOneOccurrence(t *testing.T) {
	sv := New(less, 1, 2, 2, 3)
	sv2 := sv.Disj(2)
	require.Equal(t, []int{1, 2, 3}, sv2.Slice())
	require.Equal(t, []int{1, 2, 2, 3}, sv.Slice(), "Disj must not mutate receiver")

	sv3 := sv.Disj(999)
	require.True(t, sv3 == sv, "Disj of an absent element should return the receiver unchanged")
}

func TestReversed(t *testing.T) {
	sv := New(less, 1, 2, 3)
	require.Equal(t, []int{3, 2, 1}, sv.Reversed().Slice())
}

func TestStableDuplicateOrder(t *testing.T) {
	type pair struct {
		key, seq int
	}
	sv := NewByKey(func(p pair) int { return p.key }, less,
		pair{1, 0}, pair{1, 1}, pair{0, 2}, pair{1, 3})
	var seqs []int
	for p := range sv.All() {
		seqs = append(seqs, p.seq)
	}
	require.Equal(t, []int{2, 0, 1, 3}, seqs)
}

func TestLargeRandomInsertDelete(t *testing.T) {
	const N = 2000
	perm := rand.New(rand.NewSource(1)).Perm(N)
	tv := New(less).Transient()
	for _, x := range perm {
		tv.Conj(x)
	}
	sv := tv.Persistent()
	require.Equal(t, N, sv.Len())
	got := sv.Slice()
	want := make([]int, N)
	for i := range want {
		want[i] = i
	}
	require.Equal(t, want, got)

	tv2 := sv.Transient()
	for i := 0; i < N; i += 2 {
		tv2.Disj(i)
	}
	sv2 := tv2.Persistent()
	require.Equal(t, N/2, sv2.Len())
	for _, x := range sv2.Slice() {
		require.Equal(t, 1, x%2)
	}
	// sv must remain untouched by the transient built atop it.
	require.Equal(t, N, sv.Len())
}

func TestHashAndEqual(t *testing.T) {
	a := New(less, 3, 1, 2)
	b := New(less, 1, 2, 3)
	require.True(t, a.Equal(b), "a and b hold the same elements in the same sorted order")
	require.Equal(t, a.Hash(), b.Hash())
	require.Equal(t, a.Hash(), a.Hash(), "Hash must be stable across calls")

	c := New(less, 1, 2, 4)
	require.False(t, a.Equal(c))

	reversed := a.Reversed()
	require.False(t, a.Equal(reversed), "order-sensitive Equal must distinguish ascending from descending")
}

func TestTransientUseAfterFreezePanics(t *testing.T) {
	tv := New(less).Transient()
	tv.Conj(1)
	tv.Persistent()
	defer func() {
		if recover() == nil {
			t.Fatalf("Conj after Persistent did not panic")
		}
	}()
	tv.Conj(2)
}

func TestEmptyIdentityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pdstest.CheckEmptyIdentity(rt,
			func() *SortedVector[int] { return New[int](less) },
			func(a, b *SortedVector[int]) bool {
				return slicesEqual(a.Slice(), b.Slice())
			},
			func(sv *SortedVector[int]) uint64 { return uint64(sv.Len()) },
		)
	})
}

func TestPersistenceProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		elems := pdstest.Ints(rt, 40)
		base := New(less, elems...)
		pdstest.CheckPersistence(rt, base,
			func(sv *SortedVector[int]) *SortedVector[int] { return sv.Conj(123456) },
			func(sv *SortedVector[int]) any { return sv.Len() },
		)
	})
}

func TestFactoryMatchesSortedInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		elems := pdstest.Ints(rt, 60)
		sv := New(less, elems...)
		want := append([]int(nil), elems...)
		sort.Ints(want)
		if !slicesEqual(sv.Slice(), want) {
			rt.Fatalf("SortedVector.Slice() = %v, want %v", sv.Slice(), want)
		}
	})
}

func slicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
