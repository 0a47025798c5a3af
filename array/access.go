package array

import "github.com/hupe1980/arrayrt/internal/storage"

// RowMajorIndex maps subscripts to a row-major index (last axis fastest).
func (a *Array) RowMajorIndex(subs ...int) (int, error) {
	i, _, err := a.rowMajorIndex(subs, false)
	return i, err
}

// InBounds reports whether subs is a valid subscript list for a.
func (a *Array) InBounds(subs ...int) bool {
	_, ok, _ := a.rowMajorIndex(subs, true)
	return ok
}

// rowMajorIndex validates subs. In quiet mode it reports failure through ok
// instead of an error.
func (a *Array) rowMajorIndex(subs []int, quiet bool) (index int, ok bool, err error) {
	if len(subs) != a.Rank() {
		if quiet {
			return 0, false, nil
		}
		return 0, false, &ArityError{Array: a, Want: a.Rank(), Got: len(subs)}
	}
	if a.hdr == nil {
		n := a.vec.Len()
		if uint(subs[0]) >= uint(n) {
			if quiet {
				return 0, false, nil
			}
			return 0, false, &BoundsError{Array: a, Axis: 0, Index: subs[0], Bound: n}
		}
		return subs[0], true, nil
	}
	dims := a.hdr.dims
	for axis, s := range subs {
		if uint(s) < uint(dims[axis]) {
			index = index*dims[axis] + s
			continue
		}
		if quiet {
			return 0, false, nil
		}
		if a.hdr.invalid {
			return 0, false, a.invalidError()
		}
		return 0, false, &BoundsError{Array: a, Axis: axis, Index: s, Bound: dims[axis]}
	}
	return index, true, nil
}

// Aref returns the element at subs.
func (a *Array) Aref(subs ...int) (any, error) {
	i, err := a.RowMajorIndex(subs...)
	if err != nil {
		return nil, err
	}
	return refTable[a.Widetag()](a, i)
}

// SetAref stores x at subs.
func (a *Array) SetAref(x any, subs ...int) error {
	i, err := a.RowMajorIndex(subs...)
	if err != nil {
		return err
	}
	return setTable[a.Widetag()](a, i, x)
}

// RowMajorAref returns the element at row-major index i, checking i
// against the total size.
func (a *Array) RowMajorAref(i int) (any, error) {
	return refCheckedTable[a.Widetag()](a, i)
}

// SetRowMajorAref stores x at row-major index i, checking i against the
// total size.
func (a *Array) SetRowMajorAref(i int, x any) error {
	return setCheckedTable[a.Widetag()](a, i, x)
}

// RefUnchecked reads row-major index i without a bounds check; i must be
// known valid. Out-of-range indices panic.
func (a *Array) RefUnchecked(i int) (any, error) {
	return refTable[a.Widetag()](a, i)
}

// SetUnchecked stores row-major index i without a bounds check.
func (a *Array) SetUnchecked(i int, x any) error {
	return setTable[a.Widetag()](a, i, x)
}

// Contents returns every element in row-major order, ignoring any fill pointer.
func (a *Array) Contents() ([]any, error) {
	return a.contents(a.TotalSize())
}

// ActiveContents returns the elements below the fill pointer (all elements
// when there is none).
func (a *Array) ActiveContents() ([]any, error) {
	return a.contents(a.Length())
}

func (a *Array) contents(n int) ([]any, error) {
	vec, off, err := a.data()
	if err != nil {
		return nil, err
	}
	get := vectorRef[vec.Tag()]
	out := make([]any, n)
	for i := range out {
		if out[i], err = get(vec, off+i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Nested returns the contents as nested []any following the dimensions;
// a rank-zero array yields its single element.
func (a *Array) Nested() (any, error) {
	flat, err := a.Contents()
	if err != nil {
		return nil, err
	}
	dims := a.Dimensions()
	if len(dims) == 0 {
		return flat[0], nil
	}
	var build func(axis, start int) ([]any, int)
	build = func(axis, start int) ([]any, int) {
		out := make([]any, dims[axis])
		if axis == len(dims)-1 {
			copy(out, flat[start:start+dims[axis]])
			return out, start + dims[axis]
		}
		for i := range out {
			out[i], start = build(axis+1, start)
		}
		return out, start
	}
	out, _ := build(0, 0)
	return out, nil
}

// Fill stores x into row-major indices [start, end). end < 0 means the
// active length.
func (a *Array) Fill(x any, start, end int) error {
	if err := a.checkLive(); err != nil {
		return err
	}
	if end < 0 {
		end = a.Length()
	}
	if start < 0 || start > end || end > a.TotalSize() {
		return usagef("fill range [%d, %d) invalid for %s", start, end, a.describe())
	}
	if start == end {
		return nil
	}
	vec, off, err := a.data()
	if err != nil {
		return err
	}
	if err := vectorSet[vec.Tag()](vec, off+start, x); err != nil {
		return err
	}
	for i := start + 1; i < end; i++ {
		storage.Copy(vec, off+i, vec, off+start, 1)
	}
	return nil
}
