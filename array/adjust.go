package array

import (
	"slices"

	"github.com/hupe1980/arrayrt/internal/storage"
)

// Adjust changes the dimensions, contents or displacement of a.
//
// An adjustable array is mutated in place and returned; its identity is
// unchanged. Any other array is left as it was and a new array with the
// requested shape is returned, so callers must use the return value.
//
// Without DisplacedTo or InitialContents, elements whose subscripts are in
// bounds for both the old and new dimensions keep their values; new
// positions receive the initial element, or storage zero if none is given.
// Arrays displaced onto a whose extent no longer fits are invalidated.
//
// Adjust is not safe for concurrent use on the same array or on arrays
// sharing a displacement chain; callers serialize adjustment.
func Adjust(a *Array, dims []int, opts ...Option) (*Array, error) {
	o := collect(opts)
	if len(dims) != a.Rank() {
		return nil, usagef("cannot adjust %s to rank %d", a.describe(), len(dims))
	}
	elem := a.ElementType()
	if o.hasElementType && o.elementType != elem {
		return nil, usagef("element type %s does not match %s", o.elementType.Info().Specifier, elem.Info().Specifier)
	}
	total, err := product(dims)
	if err != nil {
		return nil, err
	}
	if o.hasInitialElement && o.hasInitialContents {
		return nil, usagef("both initial element and initial contents specified")
	}
	if o.hasDisplaced && (o.hasInitialElement || o.hasInitialContents) {
		return nil, usagef("initial element or contents specified for a displaced array")
	}
	fill, hasFill, err := adjustedFill(a, o, total)
	if err != nil {
		return nil, err
	}

	if o.hasDisplaced {
		// A non-adjustable a yields a fresh array, which may displace onto a.
		self := a
		if !a.IsAdjustable() {
			self = nil
		}
		if err := checkDisplacement(self, o.displacedTo, elem, o.offset, total); err != nil {
			return nil, err
		}
		if !a.IsAdjustable() {
			return newDisplaced(dims, total, elem, fill, options{
				hasFillPointer: hasFill,
				displacedTo:    o.displacedTo,
				offset:         o.offset,
			})
		}
		a.install(nil, dims, total, fill, o.displacedTo, o.offset)
		propagateShrink(a, o.onInvalidate)
		return a, nil
	}

	var vec *storage.Vector
	switch {
	case o.hasInitialContents:
		if vec, err = storage.Allocate(elem, total); err != nil {
			return nil, err
		}
		if err := initialize(vec, dims, o); err != nil {
			return nil, err
		}
	case a.shrinkableInPlace(dims, total, o):
		a.vec.Shrink(total)
		vec = a.vec
	default:
		if vec, err = reshape(a, dims, total, o); err != nil {
			return nil, err
		}
	}

	if !a.IsAdjustable() {
		if len(dims) == 1 && !hasFill {
			return &Array{vec: vec}, nil
		}
		return &Array{vec: vec, hdr: newHeader(elem, dims, total, fill, options{hasFillPointer: hasFill})}, nil
	}
	a.install(vec, dims, total, fill, nil, 0)
	propagateShrink(a, o.onInvalidate)
	return a, nil
}

// adjustedFill applies the fill-pointer rules: a new fill pointer requires
// an existing one, and keeping the old one requires it to fit.
func adjustedFill(a *Array, o options, total int) (fill int, hasFill bool, err error) {
	if o.hasFillPointer {
		if !a.HasFillPointer() {
			return 0, false, usagef("%s has no fill pointer to adjust", a.describe())
		}
		if o.fillPointerToEnd {
			return total, true, nil
		}
		if o.fillPointer < 0 || o.fillPointer > total {
			return 0, false, &FillPointerError{FillPointer: o.fillPointer, Size: total}
		}
		return o.fillPointer, true, nil
	}
	if !a.HasFillPointer() {
		return 0, false, nil
	}
	if a.hdr.fill > total {
		return 0, false, &FillPointerError{FillPointer: a.hdr.fill, Size: total}
	}
	return a.hdr.fill, true, nil
}

// shrinkableInPlace reports whether an adjustable vector that owns its
// storage can keep it, truncated.
func (a *Array) shrinkableInPlace(dims []int, total int, o options) bool {
	return a.IsAdjustable() && len(dims) == 1 && a.hdr.displacedTo == nil && !a.hdr.invalid &&
		a.vec != nil && total <= a.vec.Len() && !o.hasInitialElement
}

// install replaces a's header contents as a group.
func (a *Array) install(vec *storage.Vector, dims []int, total, fill int, target *Array, offset int) {
	h := a.hdr
	aver(h != nil && h.adjustable, "in-place adjustment of a non-adjustable array")
	if old := h.displacedTo; old != nil && old != target && old.hdr != nil {
		old.hdr.displacedFrom.remove(a)
	}
	if target != nil && target != h.displacedTo && target.hdr != nil {
		target.hdr.displacedFrom.add(a)
	}
	a.vec = vec
	h.dims = slices.Clone(dims)
	h.total = total
	h.fill = fill
	h.displacedTo = target
	h.offset = offset
	h.invalid = false
	h.savedDims = nil
}

// reshape allocates new storage for dims and copies the overlap of the old
// and new shapes into it.
func reshape(a *Array, dims []int, total int, o options) (*storage.Vector, error) {
	elem := a.ElementType()
	vec, err := storage.Allocate(elem, total)
	if err != nil {
		return nil, err
	}
	if o.hasInitialElement {
		if err := initialize(vec, dims, o); err != nil {
			return nil, err
		}
	}
	if a.IsInvalid() {
		return vec, nil
	}
	old, off, err := a.data()
	if err != nil {
		return nil, err
	}
	oldDims := a.Dimensions()
	if len(dims) == 1 {
		storage.Copy(vec, 0, old, off, min(oldDims[0], dims[0]))
		return vec, nil
	}
	copyOverlap(vec, dims, old, off, oldDims)
	return vec, nil
}

// copyOverlap copies every element whose subscripts are in bounds on each
// axis of both shapes. The last axis is copied as one run per row.
func copyOverlap(dst *storage.Vector, dstDims []int, src *storage.Vector, srcOff int, srcDims []int) {
	rank := len(dstDims)
	if rank == 0 {
		if dst.Len() > 0 && src.Len() > srcOff {
			storage.Copy(dst, 0, src, srcOff, 1)
		}
		return
	}
	box := make([]int, rank)
	for i := range box {
		box[i] = min(dstDims[i], srcDims[i])
		if box[i] == 0 {
			return
		}
	}
	run := box[rank-1]
	subs := make([]int, rank)
	for {
		dstIdx, srcIdx := 0, 0
		for axis := range rank {
			dstIdx = dstIdx*dstDims[axis] + subs[axis]
			srcIdx = srcIdx*srcDims[axis] + subs[axis]
		}
		storage.Copy(dst, dstIdx, src, srcOff+srcIdx, run)

		axis := rank - 2
		for axis >= 0 {
			subs[axis]++
			if subs[axis] < box[axis] {
				break
			}
			subs[axis] = 0
			axis--
		}
		if axis < 0 {
			return
		}
	}
}

// Compact returns a fresh array with a's dimensions, fill pointer and
// element type that owns a copy of a's elements.
func (a *Array) Compact() (*Array, error) {
	if a.IsInvalid() {
		return nil, a.invalidError()
	}
	elem := a.ElementType()
	total := a.TotalSize()
	vec, err := storage.Allocate(elem, total)
	if err != nil {
		return nil, err
	}
	src, off, err := a.data()
	if err != nil {
		return nil, err
	}
	storage.Copy(vec, 0, src, off, total)
	if a.hdr == nil {
		return &Array{vec: vec}, nil
	}
	return &Array{vec: vec, hdr: newHeader(elem, a.hdr.dims, total, a.hdr.fill, options{
		hasFillPointer: a.hdr.hasFill,
		adjustable:     a.hdr.adjustable,
	})}, nil
}
