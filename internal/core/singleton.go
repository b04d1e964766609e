// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import "sync"

// Singleton returns the cached *V for key, building it via build on first
// use. Every collection's canonical empty instance (Vector.Empty,
// Map.Empty, Set.Empty, Cons.Nil, and so on) is one cache entry keyed on
// its type parameters, so that repeated calls for the same type return
// the identical pointer rather than a fresh allocation. Concurrent
// callers racing to build the same key converge on whichever build won
// the LoadOrStore; the loser's result is discarded, which is harmless
// since an empty collection carries no state to lose.
func Singleton[V any](cache *sync.Map, key any, build func() *V) *V {
	if v, ok := cache.Load(key); ok {
		return v.(*V)
	}
	actual, _ := cache.LoadOrStore(key, build())
	return actual.(*V)
}
