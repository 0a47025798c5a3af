package array

// FillPointer returns the fill pointer of a vector.
func (a *Array) FillPointer() (int, error) {
	if !a.HasFillPointer() {
		return 0, ErrNoFillPointer
	}
	return a.hdr.fill, nil
}

// SetFillPointer sets the fill pointer to n, 0 <= n <= total size.
func (a *Array) SetFillPointer(n int) error {
	if !a.HasFillPointer() {
		return ErrNoFillPointer
	}
	if err := a.checkLive(); err != nil {
		return err
	}
	if n < 0 || n > a.hdr.total {
		return &FillPointerError{FillPointer: n, Size: a.hdr.total}
	}
	a.hdr.fill = n
	return nil
}

// VectorPush stores x at the fill pointer and increments it. ok is false,
// and nothing is stored, when the vector is full.
func (a *Array) VectorPush(x any) (index int, ok bool, err error) {
	if !a.HasFillPointer() {
		return 0, false, ErrNoFillPointer
	}
	if err := a.checkLive(); err != nil {
		return 0, false, err
	}
	fp := a.hdr.fill
	if fp >= a.hdr.total {
		return 0, false, nil
	}
	if err := setTable[a.Widetag()](a, fp, x); err != nil {
		return 0, false, err
	}
	a.hdr.fill = fp + 1
	return fp, true, nil
}

// VectorPushExtend is VectorPush that grows a full vector through Adjust.
// The vector grows by at least extension elements, and by at least its
// current size so repeated pushes stay amortized O(1).
func (a *Array) VectorPushExtend(x any, extension int, opts ...Option) (int, error) {
	if !a.HasFillPointer() {
		return 0, ErrNoFillPointer
	}
	if err := a.checkLive(); err != nil {
		return 0, err
	}
	if a.hdr.fill >= a.hdr.total {
		if !a.IsAdjustable() {
			return 0, ErrNotAdjustable
		}
		grow := max(extension, a.hdr.total, 1)
		if _, err := Adjust(a, []int{a.hdr.total + grow}, opts...); err != nil {
			return 0, err
		}
	}
	i, _, err := a.VectorPush(x)
	return i, err
}

// VectorPop decrements the fill pointer and returns the element it now
// designates.
func (a *Array) VectorPop() (any, error) {
	if !a.HasFillPointer() {
		return nil, ErrNoFillPointer
	}
	if err := a.checkLive(); err != nil {
		return nil, err
	}
	if a.hdr.fill == 0 {
		return nil, ErrEmptyVector
	}
	a.hdr.fill--
	return refTable[a.Widetag()](a, a.hdr.fill)
}

// checkLive reports an InvalidArrayError when a, or a link of its
// displacement chain, has been invalidated.
func (a *Array) checkLive() error {
	_, _, err := a.data()
	return err
}
