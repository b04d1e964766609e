// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdskey

import "testing"

func TestStringKeyNormalizesNFC(t *testing.T) {
	// "é" as a single composed codepoint vs "e" + combining acute accent.
	composed := NewStringKey("café")
	decomposed := NewStringKey("café")

	if !composed.Equal(decomposed) {
		t.Fatalf("NFC-equivalent strings compared unequal")
	}
	if composed.Hash() != decomposed.Hash() {
		t.Fatalf("NFC-equivalent strings hashed differently")
	}
}

func TestStringKeyEqualAgainstPlainString(t *testing.T) {
	k := NewStringKey("hello")
	if !k.Equal("hello") {
		t.Fatalf("StringKey did not compare equal to an equivalent plain string")
	}
	if k.Equal("world") {
		t.Fatalf("StringKey compared equal to a different plain string")
	}
	if k.Equal(42) {
		t.Fatalf("StringKey compared equal to a non-string value")
	}
}

func TestIntKeyHashAndEqual(t *testing.T) {
	a := IntKey(7)
	b := IntKey(7)
	c := IntKey(8)
	if a.Hash() != b.Hash() {
		t.Fatalf("equal IntKeys hashed differently")
	}
	if !a.Equal(b) || !a.Equal(7) || !a.Equal(int64(7)) {
		t.Fatalf("IntKey.Equal failed against an equal value")
	}
	if a.Equal(c) {
		t.Fatalf("IntKey.Equal succeeded against an unequal value")
	}
}

func TestInt64KeyHashAndEqual(t *testing.T) {
	a := Int64Key(1 << 40)
	b := Int64Key(1 << 40)
	if a.Hash() != b.Hash() {
		t.Fatalf("equal Int64Keys hashed differently")
	}
	if !a.Equal(b) || !a.Equal(int64(1<<40)) || !a.Equal(int(1<<40)) {
		t.Fatalf("Int64Key.Equal failed against an equal value")
	}
}
