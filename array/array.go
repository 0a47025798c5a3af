package array

import (
	"fmt"
	"slices"

	"github.com/hupe1980/arrayrt/internal/storage"
	"github.com/hupe1980/arrayrt/widetag"
)

// Array is a multi-dimensional array.
//
// A simple vector (rank one, not adjustable, no fill pointer, not displaced)
// has no header: the Array is its storage vector. Every other array carries
// a header holding dimensions, fill pointer and displacement. The header is
// mutated in place by Adjust on adjustable arrays, so the *Array identity
// survives adjustment.
//
// Element reads and writes need no locking. Adjust performs multi-field
// header updates and must be serialized by the caller for any array that
// may be adjusted, or displaced onto, concurrently.
type Array struct {
	vec *storage.Vector
	hdr *header
}

type header struct {
	tag        widetag.Widetag
	dims       []int
	total      int
	fill       int
	hasFill    bool
	adjustable bool

	displacedTo *Array
	offset      int
	// displacedFrom holds weak references to arrays displaced onto this one.
	displacedFrom backrefs

	invalid   bool
	savedDims []int
}

// Widetag returns the dispatch widetag: the element widetag for simple
// vectors, a header widetag otherwise.
func (a *Array) Widetag() widetag.Widetag {
	if a.hdr == nil {
		return a.vec.Tag()
	}
	return a.hdr.tag
}

// ElementType returns the element widetag.
func (a *Array) ElementType() widetag.Widetag {
	if a.hdr == nil {
		return a.vec.Tag()
	}
	return a.elem()
}

func (a *Array) elem() widetag.Widetag {
	for cur := a; ; {
		if cur.hdr == nil || cur.hdr.displacedTo == nil {
			return cur.vec.Tag()
		}
		cur = cur.hdr.displacedTo
	}
}

// ElementTypeSpecifier returns the upgraded element type, e.g. "(unsigned-byte 8)".
func (a *Array) ElementTypeSpecifier() string { return a.ElementType().Info().Specifier }

// IsSimple reports whether a is a header-less simple vector.
func (a *Array) IsSimple() bool { return a.hdr == nil }

// Rank returns the number of dimensions.
func (a *Array) Rank() int {
	if a.hdr == nil {
		return 1
	}
	return len(a.hdr.dims)
}

// Dimensions returns a copy of the dimensions.
func (a *Array) Dimensions() []int {
	if a.hdr == nil {
		return []int{a.vec.Len()}
	}
	return slices.Clone(a.hdr.dims)
}

// Dimension returns the length of axis.
func (a *Array) Dimension(axis int) (int, error) {
	if axis < 0 || axis >= a.Rank() {
		return 0, usagef("axis %d out of range for rank %d", axis, a.Rank())
	}
	if a.hdr == nil {
		return a.vec.Len(), nil
	}
	return a.hdr.dims[axis], nil
}

// TotalSize returns the product of the dimensions.
func (a *Array) TotalSize() int {
	if a.hdr == nil {
		return a.vec.Len()
	}
	return a.hdr.total
}

// IsAdjustable reports whether Adjust mutates a in place.
func (a *Array) IsAdjustable() bool { return a.hdr != nil && a.hdr.adjustable }

// HasFillPointer reports whether a has a fill pointer.
func (a *Array) HasFillPointer() bool { return a.hdr != nil && a.hdr.hasFill }

// Displacement returns the array a is displaced to and the offset, or nil.
func (a *Array) Displacement() (*Array, int) {
	if a.hdr == nil || a.hdr.displacedTo == nil {
		return nil, 0
	}
	return a.hdr.displacedTo, a.hdr.offset
}

// IsInvalid reports whether a has been invalidated by a shrink of the
// array it is displaced to.
func (a *Array) IsInvalid() bool { return a.hdr != nil && a.hdr.invalid }

// Length returns the active length of a vector: the fill pointer if
// present, else the total size.
func (a *Array) Length() int {
	if a.HasFillPointer() {
		return a.hdr.fill
	}
	return a.TotalSize()
}

func (a *Array) String() string { return a.describe() }

func (a *Array) describe() string {
	kind := "simple-vector"
	if a.hdr != nil {
		kind = "array"
		if len(a.hdr.dims) == 1 {
			kind = "vector"
		}
	}
	return fmt.Sprintf("#<%s %s %s>", kind, a.ElementTypeSpecifier(), dimString(a.Dimensions()))
}

// data resolves the storage vector backing a and the element offset of a's
// first element in it, following displacement chains. A displaced link whose
// extent exceeds its target is invalidated on the spot.
func (a *Array) data() (*storage.Vector, int, error) {
	off := 0
	for cur := a; ; {
		h := cur.hdr
		if h == nil {
			return cur.vec, off, nil
		}
		if h.invalid {
			return nil, 0, a.invalidError()
		}
		if h.displacedTo == nil {
			return cur.vec, off, nil
		}
		if h.offset+h.total > h.displacedTo.TotalSize() {
			invalidate(cur, nil)
			return nil, 0, a.invalidError()
		}
		off += h.offset
		cur = h.displacedTo
	}
}

func (a *Array) invalidError() error {
	dims := a.Dimensions()
	if a.hdr != nil && a.hdr.invalid {
		dims = slices.Clone(a.hdr.savedDims)
	}
	return &InvalidArrayError{Array: a, Dimensions: dims}
}

func product(dims []int) (int, error) {
	total := 1
	for axis, d := range dims {
		if d < 0 {
			return 0, usagef("negative dimension %d at axis %d", d, axis)
		}
		if d != 0 && total > maxTotalSize/d {
			return 0, usagef("dimensions %s exceed the array total size limit", dimString(dims))
		}
		total *= d
	}
	return total, nil
}

// maxTotalSize bounds total sizes so bit budgets fit in 64 bits.
const maxTotalSize = 1 << 56
