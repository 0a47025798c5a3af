// Package array implements specialized multi-dimensional arrays.
//
// # Storage
//
// Every array is backed by a storage vector whose layout is chosen once, at
// creation, from the element type's widetag (see package widetag). Bits are
// packed 1, 2, 4, 8, 16, 32 or 64 to a slot; floats, complex floats and
// characters are stored unboxed; element type T stores any Go value.
//
// # Dispatch
//
// Element access goes through tables indexed by widetag instead of a type
// switch: one reader and one type-checking writer is generated per element
// widetag at init, and header widetags route through storage resolution.
// Slots without an accessor hold a stub returning ErrHairyRef.
//
// # Displacement and Adjustment
//
// An array can share the elements of another array (DisplacedTo). The
// target records its dependents through weak references only. When Adjust
// shrinks an adjustable target below a dependent's extent, the dependent is
// invalidated: its dimensions read as zero and every access reports an
// *InvalidArrayError carrying its former dimensions.
//
// Element reads and writes are safe from many goroutines as long as no two
// goroutines write elements packed into the same word. Adjust, fill-pointer
// updates and displacement changes require external serialization.
package array
