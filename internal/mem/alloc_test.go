package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAligned(t *testing.T) {
	for _, size := range []int{1, 7, 64, 1000} {
		b := AllocAligned(size)
		require.Len(t, b, size)
		assert.Zero(t, uintptr(unsafe.Pointer(&b[0]))%Alignment)
	}
	assert.Nil(t, AllocAligned(0))
}

func TestAllocWords(t *testing.T) {
	w := AllocWords(5)
	require.Len(t, w, 5)
	assert.Zero(t, uintptr(unsafe.Pointer(&w[0]))%Alignment)
	for _, x := range w {
		assert.Zero(t, x)
	}
	assert.Nil(t, AllocWords(0))
}

func TestWordBytes_Aliases(t *testing.T) {
	w := AllocWords(2)
	b := WordBytes(w)
	require.Len(t, b, 16)
	for i := range b {
		b[i] = 0xff
	}
	assert.Equal(t, ^uint64(0), w[0])
	assert.Equal(t, ^uint64(0), w[1])
	assert.Nil(t, WordBytes(nil))
}
