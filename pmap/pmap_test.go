// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pmap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/spork-lang/pds/internal/pdstest"
)

func TestAssocGetDissoc(t *testing.T) {
	m := Empty[string, int]()
	m1 := m.Assoc("a", 1)
	m2 := m1.Assoc("b", 2)

	require.Equal(t, 0, m.Len())
	require.Equal(t, 1, m1.Len())
	require.Equal(t, 2, m2.Len())

	v, ok := m2.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = m2.Get("missing")
	require.False(t, ok)
	require.Equal(t, 0, v)

	m3 := m2.Dissoc("a")
	require.Equal(t, 1, m3.Len())
	_, ok = m3.Get("a")
	require.False(t, ok)
	// m2 itself must be unaffected.
	_, ok = m2.Get("a")
	require.True(t, ok)
}

func TestMustGetPanicsOnMissingKey(t *testing.T) {
	m := Of(P("a", 1))
	defer func() {
		if recover() == nil {
			t.Fatalf("MustGet on missing key did not panic")
		}
	}()
	m.MustGet("missing")
}

func TestMerge(t *testing.T) {
	a := Of(P("x", 1), P("y", 2))
	b := Of(P("y", 20), P("z", 3))
	m := a.Merge(b)
	require.Equal(t, 3, m.Len())
	v, _ := m.Get("y")
	require.Equal(t, 20, v, "Merge should let other's value win on conflict")
}

func TestEqualAndHash(t *testing.T) {
	a := Of(P("x", 1), P("y", 2))
	b := Of(P("y", 2), P("x", 1))
	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())

	c := Of(P("x", 1), P("y", 3))
	require.False(t, a.Equal(c))
}

func TestHashCachedAcrossCalls(t *testing.T) {
	m := Of(P("a", 1), P("b", 2), P("c", 3))
	h1 := m.Hash()
	h2 := m.Hash()
	require.Equal(t, h1, h2)
}

func TestEmptySingleton(t *testing.T) {
	require.True(t, Empty[string, int]() == Empty[string, int](), "Empty[string,int]() returned different references")
	require.True(t, Empty[int, int]() == Empty[int, int](), "Empty[int,int]() returned different references")
	require.False(t, any(Empty[string, int]()) == any(Empty[int, string]()), "Empty for distinct (K,V) pairs should be distinct instances")
}

func TestTransientRoundTrip(t *testing.T) {
	tm := Empty[int, int]().Transient()
	for i := 0; i < 100; i++ {
		tm.Assoc(i, i*i)
	}
	for i := 0; i < 100; i += 3 {
		tm.Dissoc(i)
	}
	m := tm.Persistent()
	require.Equal(t, 66, m.Len())
	for i := 0; i < 100; i++ {
		v, ok := m.Get(i)
		if i%3 == 0 {
			require.False(t, ok)
		} else {
			require.True(t, ok)
			require.Equal(t, i*i, v)
		}
	}
}

func TestTransientUseAfterFreezePanics(t *testing.T) {
	tm := Empty[int, int]().Transient()
	tm.Assoc(1, 1)
	tm.Persistent()
	defer func() {
		if recover() == nil {
			t.Fatalf("Assoc after Persistent did not panic")
		}
	}()
	tm.Assoc(2, 2)
}

func TestEmptyIdentityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pdstest.CheckEmptyIdentity(rt,
			Empty[int, int],
			func(a, b *Map[int, int]) bool { return a.Equal(b) },
			func(m *Map[int, int]) uint64 { return m.Hash() },
		)
	})
}

func TestPersistenceProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(rt, "n")
		base := Empty[int, int]()
		for i := 0; i < n; i++ {
			base = base.Assoc(i, i)
		}
		pdstest.CheckPersistence(rt, base,
			func(m *Map[int, int]) *Map[int, int] { return m.Assoc(999, 999) },
			func(m *Map[int, int]) any { return m.Len() },
		)
	})
}

func TestFactoryRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		pairs := make([]Pair[int, int], n)
		for i := range pairs {
			pairs[i] = P(i, i*2)
		}
		pdstest.CheckFactoryRoundTrip(rt, pairs,
			Empty[int, int],
			func(m *Map[int, int], p Pair[int, int]) *Map[int, int] { return m.Assoc(p.Key, p.Value) },
			Of[int, int],
			func(a, b *Map[int, int]) bool { return a.Equal(b) },
		)
	})
}
