package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arrayrt/widetag"
)

func TestVectorPushPop(t *testing.T) {
	v, err := New([]int{3}, widetag.Character, FillPointerAt(0))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Length())

	for i, r := range "abc" {
		idx, ok, err := v.VectorPush(r)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
	_, ok, err := v.VectorPush('d')
	require.NoError(t, err)
	assert.False(t, ok, "push onto a full vector")

	active, err := v.ActiveContents()
	require.NoError(t, err)
	assert.Equal(t, []any{'a', 'b', 'c'}, active)

	r, err := v.VectorPop()
	require.NoError(t, err)
	assert.Equal(t, 'c', r)
	assert.Equal(t, 2, v.Length())

	require.NoError(t, v.SetFillPointer(0))
	_, err = v.VectorPop()
	require.ErrorIs(t, err, ErrEmptyVector)

	var fe *FillPointerError
	require.ErrorAs(t, v.SetFillPointer(4), &fe)
}

func TestVectorPushExtend(t *testing.T) {
	v, err := New([]int{2}, widetag.SignedByte32, Adjustable(), FillPointerAt(0))
	require.NoError(t, err)

	for i := range 9 {
		idx, err := v.VectorPushExtend(i*10, 0)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	assert.Equal(t, 9, v.Length())
	assert.GreaterOrEqual(t, v.TotalSize(), 9)
	active, err := v.ActiveContents()
	require.NoError(t, err)
	assert.Equal(t, ints(0, 10, 20, 30, 40, 50, 60, 70, 80), active)

	// Extension larger than the current size wins.
	size := v.TotalSize()
	require.NoError(t, v.SetFillPointer(size))
	_, err = v.VectorPushExtend(1, 100)
	require.NoError(t, err)
	assert.Equal(t, size+100, v.TotalSize())
}

func TestVectorPushExtend_Errors(t *testing.T) {
	plain, err := NewVector(2, widetag.Fixnum)
	require.NoError(t, err)
	_, err = plain.VectorPushExtend(1, 1)
	require.ErrorIs(t, err, ErrNoFillPointer)
	_, _, err = plain.VectorPush(1)
	require.ErrorIs(t, err, ErrNoFillPointer)
	_, err = plain.FillPointer()
	require.ErrorIs(t, err, ErrNoFillPointer)

	fixed, err := New([]int{1}, widetag.Fixnum, FillPointer())
	require.NoError(t, err)
	_, err = fixed.VectorPushExtend(1, 1)
	require.ErrorIs(t, err, ErrNotAdjustable)
}

func TestVectorOps_InvalidatedArray(t *testing.T) {
	newInvalid := func(t *testing.T) *Array {
		t.Helper()
		s, err := New([]int{8}, widetag.Fixnum, Adjustable())
		require.NoError(t, err)
		w, err := New([]int{4}, widetag.Fixnum, DisplacedTo(s, 4), FillPointerAt(2), Adjustable())
		require.NoError(t, err)
		_, err = Adjust(s, []int{2})
		require.NoError(t, err)
		require.True(t, w.IsInvalid())
		return w
	}

	tests := map[string]func(w *Array) error{
		"VectorPush": func(w *Array) error {
			_, _, err := w.VectorPush(1)
			return err
		},
		"VectorPushExtend": func(w *Array) error {
			_, err := w.VectorPushExtend(42, 1)
			return err
		},
		"VectorPop": func(w *Array) error {
			_, err := w.VectorPop()
			return err
		},
		"SetFillPointer": func(w *Array) error { return w.SetFillPointer(0) },
		"Fill":           func(w *Array) error { return w.Fill(7, 0, -1) },
	}
	for name, op := range tests {
		t.Run(name, func(t *testing.T) {
			w := newInvalid(t)
			var ie *InvalidArrayError
			require.ErrorAs(t, op(w), &ie)
			assert.Equal(t, []int{4}, ie.Dimensions)
			assert.True(t, w.IsInvalid(), "the array stays invalid")
		})
	}
}
