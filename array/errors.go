package array

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUsage marks malformed creation or adjustment options.
	ErrUsage = errors.New("array: invalid usage")
	// ErrHairyRef is returned by dispatch slots with no accessor installed.
	ErrHairyRef = errors.New("array: no accessor for widetag")
	// ErrNilElement is returned when reading an array of element type NIL.
	ErrNilElement = errors.New("array: element type NIL has no values")
	// ErrNoFillPointer is returned by fill-pointer operations on arrays without one.
	ErrNoFillPointer = errors.New("array: no fill pointer")
	// ErrNotAdjustable is returned when an operation requires an actually adjustable array.
	ErrNotAdjustable = errors.New("array: not adjustable")
	// ErrEmptyVector is returned by VectorPop at fill pointer zero.
	ErrEmptyVector = errors.New("array: fill pointer is zero")
	// ErrNotBitArray is returned by bit operations on non-bit arrays.
	ErrNotBitArray = errors.New("array: not a bit array")
)

// BoundsError reports an out-of-range subscript.
type BoundsError struct {
	Array *Array
	Axis  int
	Index int
	Bound int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for axis %d of %s, should be in [0, %d)", e.Index, e.Axis, e.Array.describe(), e.Bound)
}

// ArityError reports a subscript count that differs from the rank.
type ArityError struct {
	Array *Array
	Want  int
	Got   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("wrong number of subscripts for %s: expected %d, got %d", e.Array.describe(), e.Want, e.Got)
}

// InvalidArrayError reports access to an array whose displaced-to storage
// shrank below its extent. Dimensions are the dimensions it had before it
// was invalidated.
type InvalidArrayError struct {
	Array      *Array
	Dimensions []int
}

func (e *InvalidArrayError) Error() string {
	return fmt.Sprintf("array of dimensions %s has been invalidated: its displaced-to array was adjusted below its extent", dimString(e.Dimensions))
}

// TypeError reports a value that does not belong to an array's element type.
type TypeError struct {
	Datum    any
	Expected string
	cause    error
}

func (e *TypeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("the value %v (%T) is not of type %s: %v", e.Datum, e.Datum, e.Expected, e.cause)
	}
	return fmt.Sprintf("the value %v (%T) is not of type %s", e.Datum, e.Datum, e.Expected)
}

func (e *TypeError) Unwrap() error { return e.cause }

// ShapeMismatchError reports initial contents whose nesting does not match
// the dimensions.
type ShapeMismatchError struct {
	Axis     int
	Expected int
	Actual   int
}

func (e *ShapeMismatchError) Error() string {
	if e.Actual < 0 {
		return fmt.Sprintf("initial contents: expected a sequence of length %d at axis %d", e.Expected, e.Axis)
	}
	return fmt.Sprintf("initial contents: axis %d has length %d, expected %d", e.Axis, e.Actual, e.Expected)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrUsage }

// FillPointerError reports a fill pointer outside [0, size].
type FillPointerError struct {
	FillPointer int
	Size        int
}

func (e *FillPointerError) Error() string {
	return fmt.Sprintf("fill pointer %d is out of range for size %d", e.FillPointer, e.Size)
}

func (e *FillPointerError) Unwrap() error { return ErrUsage }

// InvariantError is raised (as a panic) when an internal invariant fails.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "array: failed invariant: " + e.Msg }

// aver panics unless cond holds. It is never compiled out.
func aver(cond bool, msg string) {
	if !cond {
		panic(&InvariantError{Msg: msg})
	}
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

func dimString(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprint(d)
	}
	return "(" + strings.Join(parts, " ") + ")"
}
