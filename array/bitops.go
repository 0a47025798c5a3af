package array

import (
	"slices"

	"github.com/hupe1980/arrayrt/internal/storage"
	"github.com/hupe1980/arrayrt/widetag"
)

// BoolOp is a two-argument boolean operation on bits.
type BoolOp uint8

const (
	OpAnd   BoolOp = iota // x and y
	OpIor                 // x or y
	OpXor                 // x xor y
	OpEqv                 // not (x xor y)
	OpNand                // not (x and y)
	OpNor                 // not (x or y)
	OpAndc1               // (not x) and y
	OpAndc2               // x and (not y)
	OpOrc1                // (not x) or y
	OpOrc2                // x or (not y)
	numBoolOps
)

// bitOpTable holds the word-wise implementation of each BoolOp.
var bitOpTable = [numBoolOps]func(x, y uint64) uint64{
	OpAnd:   func(x, y uint64) uint64 { return x & y },
	OpIor:   func(x, y uint64) uint64 { return x | y },
	OpXor:   func(x, y uint64) uint64 { return x ^ y },
	OpEqv:   func(x, y uint64) uint64 { return ^(x ^ y) },
	OpNand:  func(x, y uint64) uint64 { return ^(x & y) },
	OpNor:   func(x, y uint64) uint64 { return ^(x | y) },
	OpAndc1: func(x, y uint64) uint64 { return ^x & y },
	OpAndc2: func(x, y uint64) uint64 { return x &^ y },
	OpOrc1:  func(x, y uint64) uint64 { return ^x | y },
	OpOrc2:  func(x, y uint64) uint64 { return x | ^y },
}

// BitOp applies op element-wise to two bit arrays of equal dimensions.
// The result goes to result if non-nil (which may be x), else to a fresh
// array.
func BitOp(op BoolOp, x, y, result *Array) (*Array, error) {
	if op >= numBoolOps {
		return nil, usagef("unknown boolean operation %d", op)
	}
	return bitBash(bitOpTable[op], x, y, result)
}

// BitAnd is BitOp(OpAnd, x, y, result).
func BitAnd(x, y, result *Array) (*Array, error) { return BitOp(OpAnd, x, y, result) }

// BitIor is BitOp(OpIor, x, y, result).
func BitIor(x, y, result *Array) (*Array, error) { return BitOp(OpIor, x, y, result) }

// BitXor is BitOp(OpXor, x, y, result).
func BitXor(x, y, result *Array) (*Array, error) { return BitOp(OpXor, x, y, result) }

// BitEqv is BitOp(OpEqv, x, y, result).
func BitEqv(x, y, result *Array) (*Array, error) { return BitOp(OpEqv, x, y, result) }

// BitNand is BitOp(OpNand, x, y, result).
func BitNand(x, y, result *Array) (*Array, error) { return BitOp(OpNand, x, y, result) }

// BitNor is BitOp(OpNor, x, y, result).
func BitNor(x, y, result *Array) (*Array, error) { return BitOp(OpNor, x, y, result) }

// BitAndc1 is BitOp(OpAndc1, x, y, result).
func BitAndc1(x, y, result *Array) (*Array, error) { return BitOp(OpAndc1, x, y, result) }

// BitAndc2 is BitOp(OpAndc2, x, y, result).
func BitAndc2(x, y, result *Array) (*Array, error) { return BitOp(OpAndc2, x, y, result) }

// BitOrc1 is BitOp(OpOrc1, x, y, result).
func BitOrc1(x, y, result *Array) (*Array, error) { return BitOp(OpOrc1, x, y, result) }

// BitOrc2 is BitOp(OpOrc2, x, y, result).
func BitOrc2(x, y, result *Array) (*Array, error) { return BitOp(OpOrc2, x, y, result) }

// BitNot complements every bit of x.
func BitNot(x, result *Array) (*Array, error) {
	return bitBash(func(a, _ uint64) uint64 { return ^a }, x, x, result)
}

func bitBash(fn func(x, y uint64) uint64, x, y, result *Array) (*Array, error) {
	dims := x.Dimensions()
	for _, a := range []*Array{x, y, result} {
		if a == nil {
			continue
		}
		if a.ElementType() != widetag.Bit {
			return nil, ErrNotBitArray
		}
		if !slices.Equal(a.Dimensions(), dims) {
			return nil, usagef("bit array dimensions %s and %s differ", dimString(dims), dimString(a.Dimensions()))
		}
	}
	if result == nil {
		var err error
		if result, err = New(dims, widetag.Bit); err != nil {
			return nil, err
		}
	}
	xv, xo, err := x.data()
	if err != nil {
		return nil, err
	}
	yv, yo, err := y.data()
	if err != nil {
		return nil, err
	}
	rv, ro, err := result.data()
	if err != nil {
		return nil, err
	}
	n := x.TotalSize()
	if xo == 0 && yo == 0 && ro == 0 {
		bashWords(fn, xv, yv, rv, n)
		return result, nil
	}
	for i := range n {
		rv.Set(ro+i, fn(xv.Get(xo+i), yv.Get(yo+i))&1)
	}
	return result, nil
}

// bashWords combines whole words, masking the last partial word so bits
// past n in the result keep their values.
func bashWords(fn func(x, y uint64) uint64, xv, yv, rv *storage.Vector, n int) {
	xw, yw, rw := xv.Words(), yv.Words(), rv.Words()
	full := n / widetag.WordBits
	for i := range full {
		rw[i] = fn(xw[i], yw[i])
	}
	if tail := n % widetag.WordBits; tail != 0 {
		mask := uint64(1)<<tail - 1
		rw[full] = rw[full]&^mask | fn(xw[full], yw[full])&mask
	}
}
