// Copyright 2024 The Spork Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// A Kind classifies the semantic error categories raised by this module,
// independent of which collection raised them.
type Kind int

const (
	// IndexOutOfRange is raised by indexed access outside [-count, count)
	// on a vector, or Update outside [0, count].
	IndexOutOfRange Kind = iota
	// KeyNotFound is raised by subscript-style access on a map with an
	// absent key.
	KeyNotFound
	// EmptyPop is raised by Pop on an empty Vector, Float64Vector or
	// Int64Vector.
	EmptyPop
	// UseAfterFreeze is raised by any mutating operation on a transient
	// after Persistent has already been called on it.
	UseAfterFreeze
	// TypeError is raised by non-numeric input to a typed-vector
	// constructor, Append or Update.
	TypeError
	// ArityError is not raised by any operation in this module: pmap.Of
	// takes typed Pair values and Merge takes a *Map, so neither can be
	// handed a malformed argument list.
	ArityError
	// Overflow is raised by an integer out of int64 range handed to an
	// Int64Vector.
	Overflow
)

func (k Kind) String() string {
	switch k {
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case KeyNotFound:
		return "KeyNotFound"
	case EmptyPop:
		return "EmptyPop"
	case UseAfterFreeze:
		return "UseAfterFreeze"
	case TypeError:
		return "TypeError"
	case ArityError:
		return "ArityError"
	case Overflow:
		return "Overflow"
	default:
		return "Unknown"
	}
}

// An Error is the concrete error type this module raises, either as a
// panic value (for the kinds that are always a caller bug: bad index,
// popping empty, mutating a frozen transient) or as a plain returned
// error (for the kinds that reflect bad caller input: TypeError,
// ArityError, Overflow).
//
// Error follows a single typed error value raised for every failure,
// refined with a Kind so callers can switch on the semantic category.
type Error struct {
	Kind Kind
	// Op names the failing operation, e.g. "vector.At" or "pmap.MustGet".
	Op string
	// Value is the offending index, key or element, when one exists.
	Value any
	cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("pds: %s: %s", e.Op, e.Kind)
	if e.Value != nil {
		msg = fmt.Sprintf("%s (value=%v)", msg, e.Value)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// newError constructs an Error for the given kind/op, optionally
// recording the offending value.
func newError(kind Kind, op string, value any) *Error {
	return &Error{Kind: kind, Op: op, Value: value}
}

// New constructs an *Error for the given kind/op/value without panicking,
// for the collection operations whose failure mode is bad caller input
// rather than caller bug (TypeError, ArityError, Overflow), which Go
// idiom returns as a plain error instead of a panic.
func New(kind Kind, op string, value any) *Error {
	return newError(kind, op, value)
}

// wrapError constructs an Error for the given kind/op, wrapping cause
// with stack-annotated context via github.com/pkg/errors rather than
// losing the original cause. Used by Recovered.
func wrapError(kind Kind, op string, value any, cause error) *Error {
	return &Error{Kind: kind, Op: op, Value: value, cause: errors.Wrap(cause, op)}
}

// Fail panics with a freshly constructed *Error of the given kind. Used by
// collection methods whose failure mode is "always a caller bug" (index
// out of range, pop-empty, use-after-freeze), matching Go's own
// convention of panicking on a bad slice index rather than returning an
// error.
func Fail(kind Kind, op string, value any) {
	panic(newError(kind, op, value))
}

// Recovered wraps a recovered panic value (r, as returned by recover())
// into an *Error of the given kind, attaching it as the cause so the
// original panic is not lost. No collection operation in this module
// calls it: a panic raised by a user-supplied callback (Hash, Equal, a
// SortedVector less func) propagates out of the operation unwrapped.
func Recovered(kind Kind, op string, r any) *Error {
	if err, ok := r.(error); ok {
		return wrapError(kind, op, nil, err)
	}
	return wrapError(kind, op, nil, fmt.Errorf("%v", r))
}
