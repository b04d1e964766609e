// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numvec

import (
	"math"

	"github.com/spork-lang/pds/internal/core"
)

// toFloat64 unboxes x into a float64. Any float or integer kind is
// accepted; anything else is rejected.
func toFloat64(x any) (float64, bool) {
	switch v := x.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	}
	return 0, false
}

// toInt64 unboxes x into an int64. Non-integer kinds fail with
// TypeError; an integer kind outside the int64 range fails with
// Overflow (only possible via uint64 today).
func toInt64(x any) (int64, core.Kind, bool) {
	switch v := x.(type) {
	case int:
		return int64(v), 0, true
	case int64:
		return v, 0, true
	case int32:
		return int64(v), 0, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, core.Overflow, false
		}
		return int64(v), 0, true
	case uint32:
		return int64(v), 0, true
	case uint64:
		if v > math.MaxInt64 {
			return 0, core.Overflow, false
		}
		return int64(v), 0, true
	}
	return 0, core.TypeError, false
}
