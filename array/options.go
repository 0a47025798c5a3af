package array

import "github.com/hupe1980/arrayrt/widetag"

type options struct {
	initialElement    any
	hasInitialElement bool

	initialContents    any
	hasInitialContents bool

	adjustable bool

	fillPointer      int
	hasFillPointer   bool
	fillPointerToEnd bool

	displacedTo  *Array
	offset       int
	hasDisplaced bool

	elementType    widetag.Widetag
	hasElementType bool

	onInvalidate func(*Array)
}

// Option configures New, Make and Adjust.
type Option func(*options)

// InitialElement fills every element with v.
func InitialElement(v any) Option {
	return func(o *options) {
		o.initialElement = v
		o.hasInitialElement = true
	}
}

// InitialContents fills the array from nested sequences whose shape must
// match the dimensions exactly. Slices and arrays of any element type are
// accepted at every level; a string is a sequence of runes.
func InitialContents(v any) Option {
	return func(o *options) {
		o.initialContents = v
		o.hasInitialContents = true
	}
}

// Adjustable makes the array actually adjustable: Adjust mutates it in place.
func Adjustable() Option {
	return func(o *options) { o.adjustable = true }
}

// FillPointer gives a vector a fill pointer equal to its total size.
func FillPointer() Option {
	return func(o *options) {
		o.hasFillPointer = true
		o.fillPointerToEnd = true
	}
}

// FillPointerAt gives a vector a fill pointer of n.
func FillPointerAt(n int) Option {
	return func(o *options) {
		o.hasFillPointer = true
		o.fillPointerToEnd = false
		o.fillPointer = n
	}
}

// DisplacedTo shares target's elements starting at offset instead of
// allocating storage.
func DisplacedTo(target *Array, offset int) Option {
	return func(o *options) {
		o.displacedTo = target
		o.offset = offset
		o.hasDisplaced = true
	}
}

// ElementType asserts the element widetag. Adjust rejects a widetag that
// differs from the array's.
func ElementType(w widetag.Widetag) Option {
	return func(o *options) {
		o.elementType = w
		o.hasElementType = true
	}
}

// OnInvalidate registers fn to be called for every array invalidated by an
// Adjust.
func OnInvalidate(fn func(*Array)) Option {
	return func(o *options) { o.onInvalidate = fn }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
