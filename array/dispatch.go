package array

import (
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/hupe1980/arrayrt/internal/conv"
	"github.com/hupe1980/arrayrt/internal/storage"
	"github.com/hupe1980/arrayrt/widetag"
)

type (
	vref func(v *storage.Vector, i int) (any, error)
	vset func(v *storage.Vector, i int, x any) error

	aref func(a *Array, i int) (any, error)
	aset func(a *Array, i int, x any) error
)

// Dispatch tables indexed by widetag. Element-level tables access a storage
// vector directly; array-level tables take an array and, for header
// widetags, resolve its storage first. Every slot is populated: slots with
// no accessor hold an error stub.
var (
	vectorRef [widetag.Count]vref
	vectorSet [widetag.Count]vset

	refTable        [widetag.Count]aref
	refCheckedTable [widetag.Count]aref
	setTable        [widetag.Count]aset
	setCheckedTable [widetag.Count]aset
)

func init() {
	for w := range widetag.Count {
		tag := widetag.Widetag(w)
		vectorRef[w] = func(*storage.Vector, int) (any, error) { return nil, hairyRefError(tag) }
		vectorSet[w] = func(*storage.Vector, int, any) error { return hairyRefError(tag) }
		refTable[w] = func(*Array, int) (any, error) { return nil, hairyRefError(tag) }
		refCheckedTable[w] = refTable[w]
		setTable[w] = func(*Array, int, any) error { return hairyRefError(tag) }
		setCheckedTable[w] = setTable[w]
	}

	for _, info := range widetag.Specialized() {
		get, set := specializedAccessors(info)
		vectorRef[info.Tag], vectorSet[info.Tag] = get, set

		refTable[info.Tag] = func(a *Array, i int) (any, error) { return get(a.vec, i) }
		setTable[info.Tag] = func(a *Array, i int, x any) error { return set(a.vec, i, x) }
		refCheckedTable[info.Tag] = func(a *Array, i int) (any, error) {
			if uint(i) >= uint(a.vec.Len()) {
				return nil, &BoundsError{Array: a, Axis: 0, Index: i, Bound: a.vec.Len()}
			}
			return get(a.vec, i)
		}
		setCheckedTable[info.Tag] = func(a *Array, i int, x any) error {
			if uint(i) >= uint(a.vec.Len()) {
				return &BoundsError{Array: a, Axis: 0, Index: i, Bound: a.vec.Len()}
			}
			return set(a.vec, i, x)
		}
	}

	for _, tag := range widetag.Headers() {
		refTable[tag] = hairyRef
		setTable[tag] = hairySet
		refCheckedTable[tag] = func(a *Array, i int) (any, error) {
			if err := checkRowMajor(a, i); err != nil {
				return nil, err
			}
			return hairyRef(a, i)
		}
		setCheckedTable[tag] = func(a *Array, i int, x any) error {
			if err := checkRowMajor(a, i); err != nil {
				return err
			}
			return hairySet(a, i, x)
		}
	}
}

func hairyRefError(tag widetag.Widetag) error {
	return fmt.Errorf("%w: %s", ErrHairyRef, tag)
}

// hairyRef reads through a header: resolve storage and offset, then
// dispatch on the storage widetag.
func hairyRef(a *Array, i int) (any, error) {
	vec, off, err := a.data()
	if err != nil {
		return nil, err
	}
	return vectorRef[vec.Tag()](vec, off+i)
}

func hairySet(a *Array, i int, x any) error {
	vec, off, err := a.data()
	if err != nil {
		return err
	}
	return vectorSet[vec.Tag()](vec, off+i, x)
}

func checkRowMajor(a *Array, i int) error {
	if a.hdr.invalid {
		return a.invalidError()
	}
	if uint(i) >= uint(a.hdr.total) {
		return &BoundsError{Array: a, Axis: 0, Index: i, Bound: a.hdr.total}
	}
	return nil
}

// specializedAccessors generates the reader and type-checking writer for
// one element widetag.
func specializedAccessors(info widetag.Info) (vref, vset) {
	mismatch := func(x any, cause error) error {
		return &TypeError{Datum: x, Expected: info.Specifier, cause: cause}
	}
	switch info.Kind {
	case widetag.KindNil:
		return func(*storage.Vector, int) (any, error) { return nil, ErrNilElement },
			func(_ *storage.Vector, _ int, x any) error { return mismatch(x, nil) }

	case widetag.KindUnsigned:
		width := info.Width
		return func(v *storage.Vector, i int) (any, error) { return v.Get(i), nil },
			func(v *storage.Vector, i int, x any) error {
				u, err := conv.ToUint64(x)
				if err != nil {
					return mismatch(x, err)
				}
				if !conv.FitsUnsigned(u, width) {
					return mismatch(x, nil)
				}
				v.Set(i, u)
				return nil
			}

	case widetag.KindSigned:
		width, bits := info.Width, info.Bits
		return func(v *storage.Vector, i int) (any, error) {
				shift := 64 - bits
				return int64(v.Get(i)<<shift) >> shift, nil
			},
			func(v *storage.Vector, i int, x any) error {
				s, err := conv.ToInt64(x)
				if err != nil {
					return mismatch(x, err)
				}
				if !conv.FitsSigned(s, width) {
					return mismatch(x, nil)
				}
				v.Set(i, uint64(s))
				return nil
			}

	case widetag.KindFloat:
		if info.Tag == widetag.SingleFloat {
			return func(v *storage.Vector, i int) (any, error) {
					return math.Float32frombits(uint32(v.Get(i))), nil
				},
				func(v *storage.Vector, i int, x any) error {
					f, ok := x.(float32)
					if !ok {
						return mismatch(x, nil)
					}
					v.Set(i, uint64(math.Float32bits(f)))
					return nil
				}
		}
		return func(v *storage.Vector, i int) (any, error) { return math.Float64frombits(v.Get(i)), nil },
			func(v *storage.Vector, i int, x any) error {
				f, ok := x.(float64)
				if !ok {
					return mismatch(x, nil)
				}
				v.Set(i, math.Float64bits(f))
				return nil
			}

	case widetag.KindComplex:
		if info.Tag == widetag.ComplexSingleFloat {
			return func(v *storage.Vector, i int) (any, error) {
					w := v.Get(i)
					return complex(math.Float32frombits(uint32(w)), math.Float32frombits(uint32(w>>32))), nil
				},
				func(v *storage.Vector, i int, x any) error {
					c, ok := x.(complex64)
					if !ok {
						return mismatch(x, nil)
					}
					v.Set(i, uint64(math.Float32bits(real(c)))|uint64(math.Float32bits(imag(c)))<<32)
					return nil
				}
		}
		return func(v *storage.Vector, i int) (any, error) {
				lo, hi := v.Get128(i)
				return complex(math.Float64frombits(lo), math.Float64frombits(hi)), nil
			},
			func(v *storage.Vector, i int, x any) error {
				c, ok := x.(complex128)
				if !ok {
					return mismatch(x, nil)
				}
				v.Set128(i, math.Float64bits(real(c)), math.Float64bits(imag(c)))
				return nil
			}

	case widetag.KindCharacter:
		base := info.Tag == widetag.BaseChar
		return func(v *storage.Vector, i int) (any, error) {
				r := rune(v.Get(i))
				if base {
					return charmap.ISO8859_1.DecodeByte(byte(r)), nil
				}
				return r, nil
			},
			func(v *storage.Vector, i int, x any) error {
				r, ok := x.(rune)
				if !ok || !utf8.ValidRune(r) {
					return mismatch(x, nil)
				}
				if base {
					b, ok := charmap.ISO8859_1.EncodeRune(r)
					if !ok {
						return mismatch(x, nil)
					}
					v.Set(i, uint64(b))
					return nil
				}
				v.Set(i, uint64(r))
				return nil
			}

	case widetag.KindBoxed:
		return func(v *storage.Vector, i int) (any, error) { return v.Boxed()[i], nil },
			func(v *storage.Vector, i int, x any) error {
				v.Boxed()[i] = x
				return nil
			}
	}
	aver(false, "no accessor generator for "+info.Name)
	return nil, nil
}
