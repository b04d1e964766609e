// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numvec

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/spork-lang/pds/internal/core"
)

// viewSlice materializes a View into a plain slice for comparison in
// tests; production code never needs this since View has no mutating
// method to protect against.
func viewSlice[T Numeric](v View[T]) []T {
	out := make([]T, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

func equalSlice[T comparable](a, b []T) bool {
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

func TestFloat64VectorBasics(t *testing.T) {
	v, err := NewFloat64Vector(1, 2.5, int64(3), float32(4.5))
	if err != nil {
		t.Fatalf("NewFloat64Vector: %v", err)
	}
	if v.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", v.Len())
	}
	want := []float64{1, 2.5, 3, 4.5}
	if got := viewSlice(v.View()); !equalSlice(got, want) {
		t.Fatalf("View() = %v, want %v", got, want)
	}
	if v.At(-1) != 4.5 {
		t.Fatalf("At(-1) = %v, want 4.5", v.At(-1))
	}

	v2, err := v.Append("not a number")
	if err == nil || v2 != nil {
		t.Fatalf("Append(string) = (%v, %v), want (nil, TypeError)", v2, err)
	}
	var perr *core.Error
	if !errors.As(err, &perr) || perr.Kind != core.TypeError {
		t.Fatalf("Append(string) error kind = %v, want TypeError", err)
	}
}

func TestFloat64VectorUpdatePopHashEqual(t *testing.T) {
	v, _ := NewFloat64Vector(1, 2, 3)
	v2, err := v.Update(1, 9.5)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v2.At(1) != 9.5 || v.At(1) != 2 {
		t.Fatalf("Update mutated receiver or produced wrong value: v=%v v2=%v", viewSlice(v.View()), viewSlice(v2.View()))
	}

	v3 := v2.Pop()
	if v3.Len() != 2 || v2.Len() != 3 {
		t.Fatalf("Pop mutated receiver or wrong length: v2.Len=%d v3.Len=%d", v2.Len(), v3.Len())
	}

	a, _ := NewFloat64Vector(1, 2, 3)
	b, _ := NewFloat64Vector(1, 2, 3)
	if !a.Equal(b) {
		t.Fatalf("Equal(a, b) = false, want true for identical contents")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("Hash(a)=%d != Hash(b)=%d for Equal vectors", a.Hash(), b.Hash())
	}
	if a.Hash() != a.Hash() {
		t.Fatalf("Hash() not stable across calls")
	}

	wantPanic(t, func() { v.Update(-100, 1) })
}

func wantPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic, got none")
		}
	}()
	f()
}

func TestInt64VectorOverflow(t *testing.T) {
	_, err := NewInt64Vector(uint64(1) << 63)
	var perr *core.Error
	if !errors.As(err, &perr) || perr.Kind != core.Overflow {
		t.Fatalf("NewInt64Vector(huge uint64) error = %v, want Overflow", err)
	}

	_, err = NewInt64Vector(3.14)
	if !errors.As(err, &perr) || perr.Kind != core.TypeError {
		t.Fatalf("NewInt64Vector(3.14) error = %v, want TypeError", err)
	}

	v, err := NewInt64Vector(1, 2, 3)
	if err != nil {
		t.Fatalf("NewInt64Vector: %v", err)
	}
	if got := viewSlice(v.View()); !equalSlice(got, []int64{1, 2, 3}) {
		t.Fatalf("View() = %v, want [1 2 3]", got)
	}

	wantPanic(t, func() { v.Update(-100, 1) })
}

func TestFloat64VectorViewStable(t *testing.T) {
	v, _ := NewFloat64Vector(1, 2, 3)
	a := v.View()
	b := v.View()
	if &a.s[0] != &b.s[0] {
		t.Fatalf("View() returned distinct backing arrays on repeated calls")
	}
}

func TestEmptySingleton(t *testing.T) {
	if EmptyFloat64Vector() != EmptyFloat64Vector() {
		t.Fatalf("EmptyFloat64Vector() returned different references")
	}
	if EmptyInt64Vector() != EmptyInt64Vector() {
		t.Fatalf("EmptyInt64Vector() returned different references")
	}
}

func TestFloat64VectorPersistenceProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(rt, "n")
		xs := make([]any, n)
		for i := range xs {
			xs[i] = rapid.Float64Range(-1000, 1000).Draw(rt, "x")
		}
		v, err := NewFloat64Vector(xs...)
		if err != nil {
			rt.Fatalf("NewFloat64Vector: %v", err)
		}
		before := v.Len()
		if _, err := v.Append(1.0); err != nil {
			rt.Fatalf("Append: %v", err)
		}
		if v.Len() != before {
			rt.Fatalf("Append mutated receiver: Len() = %d, want %d", v.Len(), before)
		}
	})
}
