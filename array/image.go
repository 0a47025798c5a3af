package array

import (
	"github.com/hupe1980/arrayrt/internal/mem"
	"github.com/hupe1980/arrayrt/internal/storage"
	"github.com/hupe1980/arrayrt/widetag"
)

// Image is the storage image of an unboxed array: its packed words in host
// byte order, covering exactly the array's elements.
type Image struct {
	Tag    widetag.Widetag
	Length int
	Words  []uint64
}

// Bytes returns the native-endian byte view of the image words.
func (im Image) Bytes() []byte { return mem.WordBytes(im.Words) }

// StorageImage returns the packed storage of a's elements. Displaced arrays
// are compacted first. Boxed arrays have no image; use Contents.
func (a *Array) StorageImage() (Image, error) {
	elem := a.ElementType()
	if elem == widetag.T {
		return Image{}, usagef("%s has boxed storage", a.describe())
	}
	vec, off, err := a.data()
	if err != nil {
		return Image{}, err
	}
	n := a.TotalSize()
	if off != 0 || vec.Len() != n {
		c, err := a.Compact()
		if err != nil {
			return Image{}, err
		}
		vec = c.vec
	}
	return Image{Tag: elem, Length: n, Words: vec.Words()[:widetag.AllocationWords(elem, n)]}, nil
}

// FromImage builds an array over im's words without copying. The options
// accepted are Adjustable and FillPointer/FillPointerAt.
func FromImage(dims []int, im Image, opts ...Option) (*Array, error) {
	o := collect(opts)
	if o.hasInitialElement || o.hasInitialContents || o.hasDisplaced {
		return nil, usagef("image arrays take no initial contents or displacement")
	}
	total, err := product(dims)
	if err != nil {
		return nil, err
	}
	if total != im.Length {
		return nil, usagef("image holds %d elements, dimensions %s need %d", im.Length, dimString(dims), total)
	}
	fill, err := checkOptions(o, len(dims), total)
	if err != nil {
		return nil, err
	}
	vec, err := storage.FromWords(im.Tag, total, im.Words)
	if err != nil {
		return nil, err
	}
	if len(dims) == 1 && !o.adjustable && !o.hasFillPointer {
		return &Array{vec: vec}, nil
	}
	return &Array{vec: vec, hdr: newHeader(im.Tag, dims, total, fill, o)}, nil
}
