package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arrayrt/widetag"
)

func TestAllocate_Words(t *testing.T) {
	v, err := Allocate(widetag.Bit, 130)
	require.NoError(t, err)
	assert.Len(t, v.Words(), 3)
	assert.Equal(t, 24, v.ByteSize())

	s, err := Allocate(widetag.BaseChar, 8)
	require.NoError(t, err)
	assert.Len(t, s.Words(), 2, "strings reserve a trailing element")

	b, err := Allocate(widetag.T, 3)
	require.NoError(t, err)
	assert.Len(t, b.Boxed(), 3)
	assert.Nil(t, b.Words())

	_, err = Allocate(widetag.ArrayHeader, 1)
	require.ErrorIs(t, err, ErrNotElementType)
	_, err = Allocate(widetag.Bit, -1)
	require.ErrorIs(t, err, ErrNegativeLength)
}

func TestVector_PackingLittleEndianWithinWord(t *testing.T) {
	v, err := Allocate(widetag.UnsignedByte4, 16)
	require.NoError(t, err)
	v.Set(0, 0x1)
	v.Set(1, 0x2)
	v.Set(15, 0xf)
	assert.Equal(t, uint64(0xf000000000000021), v.Words()[0])
	assert.Equal(t, uint64(0x2), v.Get(1))

	// Values wider than the element are masked.
	v.Set(2, 0x35)
	assert.Equal(t, uint64(0x5), v.Get(2))
	assert.Equal(t, uint64(0x2), v.Get(1))
}

func TestVector_GetSetAllWidths(t *testing.T) {
	for _, info := range widetag.Specialized() {
		if info.Bits == 0 || info.Bits > 64 || info.Tag == widetag.T {
			continue
		}
		t.Run(info.Name, func(t *testing.T) {
			v, err := Allocate(info.Tag, 100)
			require.NoError(t, err)
			mask := uint64(1)<<info.Bits - 1
			if info.Bits == 64 {
				mask = ^uint64(0)
			}
			for i := range 100 {
				v.Set(i, uint64(i*2654435761)&mask)
			}
			for i := range 100 {
				assert.Equal(t, uint64(i*2654435761)&mask, v.Get(i), "element %d", i)
			}
		})
	}
}

func TestVector_128(t *testing.T) {
	v, err := Allocate(widetag.ComplexDoubleFloat, 3)
	require.NoError(t, err)
	require.Len(t, v.Words(), 6)
	v.Set128(1, 7, 9)
	lo, hi := v.Get128(1)
	assert.Equal(t, uint64(7), lo)
	assert.Equal(t, uint64(9), hi)
}

func TestCopy_Overlap(t *testing.T) {
	v, err := Allocate(widetag.UnsignedByte8, 10)
	require.NoError(t, err)
	for i := range 10 {
		v.Set(i, uint64(i))
	}
	Copy(v, 2, v, 0, 5)
	got := make([]uint64, 10)
	for i := range got {
		got[i] = v.Get(i)
	}
	assert.Equal(t, []uint64{0, 1, 0, 1, 2, 3, 4, 7, 8, 9}, got)

	w, err := Allocate(widetag.Bit, 4)
	require.NoError(t, err)
	assert.Panics(t, func() { Copy(w, 0, v, 0, 1) })
}

func TestShrink_ClearsTail(t *testing.T) {
	v, err := Allocate(widetag.UnsignedByte8, 16)
	require.NoError(t, err)
	for i := range 16 {
		v.Set(i, 0xff)
	}
	v.Shrink(3)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, uint64(0xffffff), v.Words()[0])

	b, err := Allocate(widetag.T, 4)
	require.NoError(t, err)
	b.Boxed()[3] = "x"
	b.Shrink(2)
	assert.Len(t, b.Boxed(), 2)
}

func TestFromWords(t *testing.T) {
	_, err := FromWords(widetag.UnsignedByte16, 5, make([]uint64, 1))
	require.Error(t, err)
	v, err := FromWords(widetag.UnsignedByte16, 5, []uint64{0x0004000300020001, 5})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v.Get(2))
	assert.Equal(t, uint64(5), v.Get(4))
}
