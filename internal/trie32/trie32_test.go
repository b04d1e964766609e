// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trie32

import (
	"fmt"
	"slices"
	"testing"
)

func TestSmall(t *testing.T) {
	for i := range 100 {
		testN(t, i)
	}
}

func TestLarge(t *testing.T) {
	testN(t, 5001)
}

func testN(t *testing.T, N int) {
	t.Helper()
	const V = 1000
	owner := new(int)
	var s0 Tree[int]
	e := NewEditor[int](owner, s0)
	for i := range N {
		e.Append(V + i)
	}
	if n := e.Len(); n != N {
		t.Fatalf("e.Len() = %d, want %d", n, N)
	}
	for i := range N {
		if j := e.At(i); j != V+i {
			t.Fatalf("e.At(%d) = %d, want %d", i, j, V+i)
		}
	}

	tr := e.Freeze()
	if n := tr.Len(); n != N {
		t.Fatalf("tr.Len() = %d, want %d", n, N)
	}
	for i := range N {
		if j := tr.At(i); j != V+i {
			t.Fatalf("tr.At(%d) = %d, want %d", i, j, V+i)
		}
	}

	want := make([]int, N)
	for i := range want {
		want[i] = V + i
	}
	if !slices.Equal(tr.Slice(), want) {
		t.Fatalf("tr.Slice() mismatched want for N=%d", N)
	}

	// Tree itself does no bounds checking on negative indices (that is
	// the collection layer's job via resolveIndex); At(Len()) still
	// panics because it falls through to an out-of-range tail index.
	wantPanic(t, fmt.Sprintf("N=%d At(N)", N), func() { tr.At(N) })
}

func TestSetDoesNotMutateOtherEditors(t *testing.T) {
	owner1 := new(int)
	var s0 Tree[int]
	e1 := NewEditor[int](owner1, s0)
	for i := range 200 {
		e1.Append(i)
	}
	tr1 := e1.Freeze()

	owner2 := new(int)
	e2 := NewEditor[int](owner2, tr1)
	e2.Set(50, 99999)
	tr2 := e2.Freeze()

	if tr1.At(50) != 50 {
		t.Fatalf("Set under a different owner mutated the original tree: tr1.At(50) = %d, want 50", tr1.At(50))
	}
	if tr2.At(50) != 99999 {
		t.Fatalf("tr2.At(50) = %d, want 99999", tr2.At(50))
	}
}

func TestResizeGrowAndShrink(t *testing.T) {
	owner := new(int)
	var s0 Tree[int]
	e := NewEditor[int](owner, s0)
	const N = 500
	for i := range N {
		e.Append(i)
	}

	e.Resize(100)
	if e.Len() != 100 {
		t.Fatalf("after Resize(100): Len() = %d, want 100", e.Len())
	}
	for i := range 100 {
		if e.At(i) != i {
			t.Fatalf("after shrink, At(%d) = %d, want %d", i, e.At(i), i)
		}
	}

	e.Resize(300)
	if e.Len() != 300 {
		t.Fatalf("after Resize(300): Len() = %d, want 300", e.Len())
	}
	for i := 100; i < 300; i++ {
		if e.At(i) != 0 {
			t.Fatalf("after grow, At(%d) = %d, want 0 (hole)", i, e.At(i))
		}
	}
}

func wantPanic(t *testing.T, msg string, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		if recover() == nil {
			t.Fatalf("%s: no panic", msg)
		}
	}()
	f()
}
