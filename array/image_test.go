package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arrayrt/widetag"
)

func TestStorageImage_RoundTrip(t *testing.T) {
	a, err := New([]int{3, 3}, widetag.UnsignedByte16, InitialElement(0xbeef))
	require.NoError(t, err)
	im, err := a.StorageImage()
	require.NoError(t, err)
	assert.Equal(t, widetag.UnsignedByte16, im.Tag)
	assert.Equal(t, 9, im.Length)
	assert.Len(t, im.Words, 3)
	assert.Len(t, im.Bytes(), 24)

	b, err := FromImage([]int{3, 3}, im, Adjustable())
	require.NoError(t, err)
	assert.True(t, b.IsAdjustable())
	assert.Equal(t, contents(t, a), contents(t, b))

	_, err = FromImage([]int{2, 2}, im)
	require.ErrorIs(t, err, ErrUsage)
	_, err = FromImage([]int{9}, im, InitialElement(1))
	require.ErrorIs(t, err, ErrUsage)
}

func TestStorageImage_DisplacedIsCompacted(t *testing.T) {
	base, err := New([]int{8}, widetag.UnsignedByte8, InitialContents([]int{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(t, err)
	d, err := New([]int{2}, widetag.UnsignedByte8, DisplacedTo(base, 5))
	require.NoError(t, err)
	im, err := d.StorageImage()
	require.NoError(t, err)
	require.Len(t, im.Words, 1)
	assert.Equal(t, uint64(0x0706), im.Words[0])
}

func TestStorageImage_BoxedHasNone(t *testing.T) {
	a, err := NewVector(2, widetag.T)
	require.NoError(t, err)
	_, err = a.StorageImage()
	require.ErrorIs(t, err, ErrUsage)
}
