package storage

import (
	"errors"
	"fmt"

	"github.com/hupe1980/arrayrt/internal/mem"
	"github.com/hupe1980/arrayrt/widetag"
)

var (
	// ErrNotElementType is returned when allocating storage for a header widetag.
	ErrNotElementType = errors.New("storage: widetag is not an element type")
	// ErrNegativeLength is returned for negative lengths.
	ErrNegativeLength = errors.New("storage: negative length")
)

// Vector is a fixed-length specialized storage vector.
type Vector struct {
	tag    widetag.Widetag
	bits   uint
	length int
	words  []uint64
	boxed  []any
}

// Allocate returns a zeroed vector of length elements of tag. The word
// count is ceiling(length*bits, 64), with one extra element for strings.
func Allocate(tag widetag.Widetag, length int) (*Vector, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, length)
	}
	if !tag.IsElement() {
		return nil, fmt.Errorf("%w: %s", ErrNotElementType, tag)
	}
	v := &Vector{tag: tag, bits: tag.Bits(), length: length}
	if tag == widetag.T {
		v.boxed = make([]any, length)
		return v, nil
	}
	v.words = mem.AllocWords(widetag.AllocationWords(tag, length))
	return v, nil
}

// FromWords wraps an existing word image. words must hold at least
// AllocationWords(tag, length) words.
func FromWords(tag widetag.Widetag, length int, words []uint64) (*Vector, error) {
	if !tag.IsElement() || tag == widetag.T {
		return nil, fmt.Errorf("%w: %s", ErrNotElementType, tag)
	}
	if need := widetag.AllocationWords(tag, length); len(words) < need {
		return nil, fmt.Errorf("storage: image holds %d words, need %d", len(words), need)
	}
	return &Vector{tag: tag, bits: tag.Bits(), length: length, words: words}, nil
}

// Tag returns the element widetag.
func (v *Vector) Tag() widetag.Widetag { return v.tag }

// Len returns the number of elements.
func (v *Vector) Len() int { return v.length }

// Words returns the packed word image (nil for boxed vectors).
func (v *Vector) Words() []uint64 { return v.words }

// Boxed returns the element slice of a boxed vector.
func (v *Vector) Boxed() []any { return v.boxed }

// ByteSize returns the number of bytes of element storage.
func (v *Vector) ByteSize() int {
	if v.boxed != nil {
		return len(v.boxed) * 8
	}
	return len(v.words) * 8
}

// Get returns the raw bits of element i. Widths up to 64.
func (v *Vector) Get(i int) uint64 {
	switch v.bits {
	case 64:
		return v.words[i]
	case 0:
		return 0
	}
	per := widetag.WordBits / v.bits
	shift := uint(i%int(per)) * v.bits
	mask := uint64(1)<<v.bits - 1
	return (v.words[i/int(per)] >> shift) & mask
}

// Set stores the raw bits of element i. Widths up to 64.
func (v *Vector) Set(i int, x uint64) {
	switch v.bits {
	case 64:
		v.words[i] = x
		return
	case 0:
		return
	}
	per := widetag.WordBits / v.bits
	shift := uint(i%int(per)) * v.bits
	mask := uint64(1)<<v.bits - 1
	w := &v.words[i/int(per)]
	*w = (*w &^ (mask << shift)) | ((x & mask) << shift)
}

// Get128 returns both words of a 128-bit element.
func (v *Vector) Get128(i int) (lo, hi uint64) {
	return v.words[2*i], v.words[2*i+1]
}

// Set128 stores both words of a 128-bit element.
func (v *Vector) Set128(i int, lo, hi uint64) {
	v.words[2*i] = lo
	v.words[2*i+1] = hi
}

// Copy copies n elements from src[srcStart:] to dst[dstStart:] without
// type checks. Both vectors must share a widetag. Overlapping ranges of the
// same vector copy as if through a temporary.
func Copy(dst *Vector, dstStart int, src *Vector, srcStart, n int) {
	if n <= 0 {
		return
	}
	if dst.tag != src.tag {
		panic(fmt.Sprintf("storage: copy between %s and %s", src.tag, dst.tag))
	}
	switch {
	case dst.boxed != nil:
		copy(dst.boxed[dstStart:dstStart+n], src.boxed[srcStart:srcStart+n])
	case dst.bits == 128:
		copy(dst.words[2*dstStart:2*(dstStart+n)], src.words[2*srcStart:2*(srcStart+n)])
	case dst.bits == 64:
		copy(dst.words[dstStart:dstStart+n], src.words[srcStart:srcStart+n])
	case dst == src && dstStart > srcStart:
		for i := n - 1; i >= 0; i-- {
			dst.Set(dstStart+i, src.Get(srcStart+i))
		}
	default:
		for i := range n {
			dst.Set(dstStart+i, src.Get(srcStart+i))
		}
	}
}

// Shrink truncates v to n elements in place. Elements past n are cleared
// so boxed values can be collected and packed tails read as zero if the
// vector later grows into a new allocation copied from this one.
func (v *Vector) Shrink(n int) {
	if n >= v.length || n < 0 {
		return
	}
	if v.boxed != nil {
		clear(v.boxed[n:])
		v.boxed = v.boxed[:n]
		v.length = n
		return
	}
	switch v.bits {
	case 128:
		clear(v.words[2*n : 2*v.length])
	case 64:
		clear(v.words[n:v.length])
	case 0:
	default:
		for i := n; i < v.length; i++ {
			v.Set(i, 0)
		}
	}
	v.length = n
}
