// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Hashable is implemented by user types that want a cheaper or
// semantically specific hash than the fallback HashOf provides. This
// library forwards to a value's own hash contract rather than
// reimplementing it: HashOf is that forwarding point.
type Hashable interface {
	Hash() uint64
}

// Equatable is implemented by user types that want value-equality
// semantics distinct from Go's built-in == or reflect.DeepEqual. EqualOf
// is the forwarding point, mirroring Hashable.
type Equatable interface {
	Equal(other any) bool
}

// HashOf computes a hash for x, used as the building block for every
// collection's structural hash.
// Resolution order:
//  1. x implements Hashable: use it directly.
//  2. x is one of the common primitive kinds: hash it directly, with no
//     allocation.
//  3. Fallback: format x and hash the formatted bytes. This is the
//     "host's open-ended hash contract" for types that implement neither
//     Hashable nor a primitive kind; it is consistent (equal
//     %#v-formatted values hash equal) but not fast, and exists so that
//     HAMT/Map/Set/Vector construction never simply refuses a type.
func HashOf(x any) uint64 {
	switch v := x.(type) {
	case Hashable:
		return v.Hash()
	case nil:
		return 0
	case string:
		return xxhash.Sum64String(v)
	case []byte:
		return xxhash.Sum64(v)
	case int:
		return hashUint64(uint64(v))
	case int64:
		return hashUint64(uint64(v))
	case int32:
		return hashUint64(uint64(v))
	case uint:
		return hashUint64(uint64(v))
	case uint64:
		return hashUint64(v)
	case uint32:
		return hashUint64(uint64(v))
	case float64:
		return hashUint64(math.Float64bits(v))
	case float32:
		return hashUint64(math.Float64bits(float64(v)))
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return xxhash.Sum64String(fmt.Sprintf("%#v", x))
	}
}

// hashUint64 finalizes a raw 64-bit key with xxhash's own mixing step so
// small integers (which are very common map/set keys) do not collide
// trivially in the low bits that the HAMT's SlotIndex reads first.
func hashUint64(u uint64) uint64 {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(u >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

// EqualOf reports whether a and b are value-equal under the host's
// equality contract. Resolution order mirrors HashOf:
// Equatable first, then comparable built-ins via ==, then
// reflect.DeepEqual as a last resort for composite types.
func EqualOf(a, b any) bool {
	if ea, ok := a.(Equatable); ok {
		return ea.Equal(b)
	}
	if eb, ok := b.(Equatable); ok {
		return eb.Equal(a)
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}

// CombineHash folds x into the running hash h using the same
// multiplicative accumulation used to build a structural hash over
// Vector and Cons elements (h = 31*h + hash(x)).
func CombineHash(h uint64, x uint64) uint64 {
	return 31*h + x
}
