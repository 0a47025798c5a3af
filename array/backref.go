package array

import "weak"

// backrefs is the list of arrays displaced onto an array. Entries are weak:
// the list answers "who depends on me" for invalidation and never keeps a
// dependent alive.
type backrefs struct {
	refs []weak.Pointer[Array]
}

func (b *backrefs) add(a *Array) {
	b.prune()
	b.refs = append(b.refs, weak.Make(a))
}

func (b *backrefs) remove(a *Array) {
	w := weak.Make(a)
	kept := b.refs[:0]
	for _, r := range b.refs {
		if r != w && r.Value() != nil {
			kept = append(kept, r)
		}
	}
	clear(b.refs[len(kept):])
	b.refs = kept
}

// prune drops collected entries.
func (b *backrefs) prune() {
	kept := b.refs[:0]
	for _, r := range b.refs {
		if r.Value() != nil {
			kept = append(kept, r)
		}
	}
	clear(b.refs[len(kept):])
	b.refs = kept
}

// live returns the dependents still reachable.
func (b *backrefs) live() []*Array {
	var out []*Array
	for _, r := range b.refs {
		if a := r.Value(); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// invalidate zeroes a's dimensions, remembering them for diagnostics, and
// recursively invalidates every array displaced onto a. The displacement
// graph is acyclic, so the walk terminates. onInvalidate, if non-nil, is
// called once per newly invalidated array.
func invalidate(a *Array, onInvalidate func(*Array)) {
	h := a.hdr
	aver(h != nil, "invalidating a simple vector")
	if h.invalid {
		return
	}
	h.savedDims = h.dims
	h.dims = make([]int, len(h.savedDims))
	h.total = 0
	if h.hasFill {
		h.fill = 0
	}
	h.invalid = true
	if onInvalidate != nil {
		onInvalidate(a)
	}
	for _, d := range h.displacedFrom.live() {
		invalidate(d, onInvalidate)
	}
}

// propagateShrink invalidates dependents of a whose extent no longer fits.
func propagateShrink(a *Array, onInvalidate func(*Array)) {
	if a.hdr == nil {
		return
	}
	size := a.hdr.total
	for _, d := range a.hdr.displacedFrom.live() {
		dh := d.hdr
		if dh.displacedTo != a || dh.invalid {
			continue
		}
		if dh.offset+dh.total > size {
			invalidate(d, onInvalidate)
		}
	}
}

// reachable reports whether target's displacement chain reaches a.
func reachable(target, a *Array) bool {
	for cur := target; cur != nil; {
		if cur == a {
			return true
		}
		if cur.hdr == nil {
			return false
		}
		cur = cur.hdr.displacedTo
	}
	return false
}
