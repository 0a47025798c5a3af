// Package widetag classifies array element types into storage layouts.
//
// A widetag names one specialized representation: bit-packed, byte-packed,
// word-packed integers, floats, complex floats, characters, the boxed
// generic layout (T), or the uninhabited layout (NIL) used by element types
// that admit no values, such as (double-float (5.0) (3.0)).
//
// Element types are given as Lisp-style specifiers:
//
//	w, bits, err := widetag.ResolveString("(unsigned-byte 3)") // UnsignedByte4, 4
//
// Specifiers the resolver cannot classify directly are expanded one level
// through an Expander and resolved again. A specifier that expands to itself
// names a known type with no specialized layout and resolves to T; one the
// Expander does not know fails with ErrUnknownType.
package widetag
