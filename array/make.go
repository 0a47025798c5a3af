package array

import (
	"reflect"
	"slices"

	"github.com/hupe1980/arrayrt/internal/storage"
	"github.com/hupe1980/arrayrt/widetag"
)

// Make resolves elementType with the builtin resolver and creates an array.
func Make(dims []int, elementType string, opts ...Option) (*Array, error) {
	tag, _, err := widetag.ResolveString(elementType)
	if err != nil {
		return nil, err
	}
	return New(dims, tag, opts...)
}

// NewVector is New with a single dimension.
func NewVector(length int, tag widetag.Widetag, opts ...Option) (*Array, error) {
	return New([]int{length}, tag, opts...)
}

// New creates an array of the given dimensions whose elements are stored
// with widetag tag.
//
// A rank-one array that is not adjustable, has no fill pointer and is not
// displaced is allocated as a header-less simple vector.
func New(dims []int, tag widetag.Widetag, opts ...Option) (*Array, error) {
	o := collect(opts)
	if !tag.IsElement() {
		return nil, usagef("%s is not an element widetag", tag)
	}
	if o.hasElementType && o.elementType != tag {
		return nil, usagef("element type %s conflicts with %s", o.elementType, tag)
	}
	total, err := product(dims)
	if err != nil {
		return nil, err
	}
	fill, err := checkOptions(o, len(dims), total)
	if err != nil {
		return nil, err
	}
	if o.hasDisplaced {
		return newDisplaced(dims, total, tag, fill, o)
	}

	vec, err := storage.Allocate(tag, total)
	if err != nil {
		return nil, err
	}
	if err := initialize(vec, dims, o); err != nil {
		return nil, err
	}
	if len(dims) == 1 && !o.adjustable && !o.hasFillPointer {
		return &Array{vec: vec}, nil
	}
	return &Array{vec: vec, hdr: newHeader(tag, dims, total, fill, o)}, nil
}

func newHeader(tag widetag.Widetag, dims []int, total, fill int, o options) *header {
	return &header{
		tag:        widetag.HeaderFor(tag, len(dims)),
		dims:       slices.Clone(dims),
		total:      total,
		fill:       fill,
		hasFill:    o.hasFillPointer,
		adjustable: o.adjustable,
	}
}

// checkOptions validates option combinations and returns the fill pointer.
func checkOptions(o options, rank, total int) (int, error) {
	if o.hasInitialElement && o.hasInitialContents {
		return 0, usagef("both initial element and initial contents specified")
	}
	if o.hasDisplaced && (o.hasInitialElement || o.hasInitialContents) {
		return 0, usagef("initial element or contents specified for a displaced array")
	}
	if !o.hasFillPointer {
		return 0, nil
	}
	if rank != 1 {
		return 0, usagef("fill pointer specified for an array of rank %d", rank)
	}
	if o.fillPointerToEnd {
		return total, nil
	}
	if o.fillPointer < 0 || o.fillPointer > total {
		return 0, &FillPointerError{FillPointer: o.fillPointer, Size: total}
	}
	return o.fillPointer, nil
}

func checkDisplacement(a, target *Array, tag widetag.Widetag, offset, total int) error {
	if target == nil {
		return usagef("displaced to nil")
	}
	if target.IsInvalid() {
		return target.invalidError()
	}
	if et := target.ElementType(); et != tag {
		return usagef("cannot displace an array of element type %s onto one of element type %s", tag.Info().Specifier, et.Info().Specifier)
	}
	if offset < 0 || offset+total > target.TotalSize() {
		return usagef("displaced index offset %d plus size %d exceeds %s", offset, total, target.describe())
	}
	if a != nil && reachable(target, a) {
		return usagef("displacing %s onto %s would create a cycle", a.describe(), target.describe())
	}
	return nil
}

func newDisplaced(dims []int, total int, tag widetag.Widetag, fill int, o options) (*Array, error) {
	if err := checkDisplacement(nil, o.displacedTo, tag, o.offset, total); err != nil {
		return nil, err
	}
	hdr := newHeader(tag, dims, total, fill, o)
	hdr.displacedTo = o.displacedTo
	hdr.offset = o.offset
	a := &Array{hdr: hdr}
	if o.displacedTo.hdr != nil {
		o.displacedTo.hdr.displacedFrom.add(a)
	}
	return a, nil
}

// initialize applies the initial element or contents to a fresh vector.
func initialize(vec *storage.Vector, dims []int, o options) error {
	set := vectorSet[vec.Tag()]
	switch {
	case o.hasInitialElement:
		if vec.Len() == 0 {
			return nil
		}
		if err := set(vec, 0, o.initialElement); err != nil {
			return err
		}
		for i := 1; i < vec.Len(); i++ {
			storage.Copy(vec, i, vec, 0, 1)
		}
	case o.hasInitialContents:
		flat, err := flatten(o.initialContents, dims)
		if err != nil {
			return err
		}
		for i, x := range flat {
			if err := set(vec, i, x); err != nil {
				return err
			}
		}
	}
	return nil
}

// flatten walks nested sequences in row-major order, checking each level's
// length against dims.
func flatten(contents any, dims []int) ([]any, error) {
	if len(dims) == 0 {
		return []any{contents}, nil
	}
	total, err := product(dims)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, total)
	var walk func(x any, axis int) error
	walk = func(x any, axis int) error {
		seq, ok := sequence(x)
		if !ok {
			return &ShapeMismatchError{Axis: axis, Expected: dims[axis], Actual: -1}
		}
		if len(seq) != dims[axis] {
			return &ShapeMismatchError{Axis: axis, Expected: dims[axis], Actual: len(seq)}
		}
		if axis == len(dims)-1 {
			out = append(out, seq...)
			return nil
		}
		for _, item := range seq {
			if err := walk(item, axis+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(contents, 0); err != nil {
		return nil, err
	}
	return out, nil
}

func sequence(x any) ([]any, bool) {
	switch s := x.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case string:
		runes := []rune(s)
		out := make([]any, len(runes))
		for i, r := range runes {
			out[i] = r
		}
		return out, true
	case *Array:
		if s.Rank() != 1 {
			return nil, false
		}
		c, err := s.ActiveContents()
		return c, err == nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}
