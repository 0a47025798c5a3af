package array

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arrayrt/widetag"
)

func TestMake_Shape(t *testing.T) {
	a, err := Make([]int{3, 4}, "(unsigned-byte 8)")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Rank())
	assert.Equal(t, []int{3, 4}, a.Dimensions())
	assert.Equal(t, 12, a.TotalSize())
	assert.Equal(t, widetag.UnsignedByte8, a.ElementType())
	assert.Equal(t, widetag.ArrayHeader, a.Widetag())
	assert.Equal(t, "(unsigned-byte 8)", a.ElementTypeSpecifier())
	assert.False(t, a.IsSimple())

	d, err := a.Dimension(1)
	require.NoError(t, err)
	assert.Equal(t, 4, d)
	_, err = a.Dimension(2)
	require.ErrorIs(t, err, ErrUsage)
}

func TestNew_SimpleVectorFastPath(t *testing.T) {
	v, err := NewVector(5, widetag.Fixnum)
	require.NoError(t, err)
	assert.True(t, v.IsSimple())
	assert.Equal(t, widetag.Fixnum, v.Widetag())

	adj, err := NewVector(5, widetag.Fixnum, Adjustable())
	require.NoError(t, err)
	assert.False(t, adj.IsSimple())
	assert.Equal(t, widetag.ComplexVector, adj.Widetag())

	s, err := NewVector(5, widetag.Character, FillPointer())
	require.NoError(t, err)
	assert.Equal(t, widetag.ComplexCharacterString, s.Widetag())
}

func TestRowMajorIndex(t *testing.T) {
	a, err := Make([]int{3, 4}, "fixnum")
	require.NoError(t, err)

	i, err := a.RowMajorIndex(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 11, i)

	i, err = a.RowMajorIndex(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, i)

	_, err = a.RowMajorIndex(3, 0)
	var be *BoundsError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 0, be.Axis)
	assert.Equal(t, 3, be.Index)
	assert.Equal(t, 3, be.Bound)

	_, err = a.RowMajorIndex(1)
	var ae *ArityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 2, ae.Want)

	assert.True(t, a.InBounds(0, 3))
	assert.False(t, a.InBounds(0, 4))
	assert.False(t, a.InBounds(-1, 0))
	assert.False(t, a.InBounds(0))
}

func TestRankZero(t *testing.T) {
	a, err := New(nil, widetag.T, InitialContents("only"))
	require.NoError(t, err)
	assert.Equal(t, 0, a.Rank())
	assert.Equal(t, 1, a.TotalSize())
	v, err := a.Aref()
	require.NoError(t, err)
	assert.Equal(t, "only", v)
	n, err := a.Nested()
	require.NoError(t, err)
	assert.Equal(t, "only", n)
}

func TestRoundTrip_EveryWidetag(t *testing.T) {
	tests := []struct {
		tag  widetag.Widetag
		in   any
		want any
	}{
		{widetag.Bit, 1, uint64(1)},
		{widetag.UnsignedByte2, uint8(3), uint64(3)},
		{widetag.UnsignedByte4, 15, uint64(15)},
		{widetag.UnsignedByte7, 127, uint64(127)},
		{widetag.UnsignedByte8, 255, uint64(255)},
		{widetag.UnsignedByte15, 1<<15 - 1, uint64(1<<15 - 1)},
		{widetag.UnsignedByte16, uint16(65535), uint64(65535)},
		{widetag.UnsignedByte31, 1<<31 - 1, uint64(1<<31 - 1)},
		{widetag.UnsignedByte32, uint32(1<<32 - 1), uint64(1<<32 - 1)},
		{widetag.UnsignedByte62, 1<<62 - 1, uint64(1<<62 - 1)},
		{widetag.UnsignedByte63, 1<<63 - 1, uint64(1<<63 - 1)},
		{widetag.UnsignedByte64, uint64(1<<64 - 1), uint64(1<<64 - 1)},
		{widetag.SignedByte8, -128, int64(-128)},
		{widetag.SignedByte16, int16(-300), int64(-300)},
		{widetag.SignedByte32, -1 << 31, int64(-1 << 31)},
		{widetag.Fixnum, -1 << 62, int64(-1 << 62)},
		{widetag.SignedByte64, int64(-1 << 63), int64(-1 << 63)},
		{widetag.SingleFloat, float32(1.5), float32(1.5)},
		{widetag.DoubleFloat, -2.25, -2.25},
		{widetag.ComplexSingleFloat, complex64(1 + 2i), complex64(1 + 2i)},
		{widetag.ComplexDoubleFloat, complex(3.5, -4), complex(3.5, -4)},
		{widetag.BaseChar, 'é', 'é'},
		{widetag.Character, '世', '世'},
		{widetag.T, []string{"boxed"}, []string{"boxed"}},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			for _, dims := range [][]int{{7}, {2, 4}} {
				a, err := New(dims, tt.tag)
				require.NoError(t, err)
				last := a.TotalSize() - 1
				require.NoError(t, a.SetRowMajorAref(last, tt.in))
				got, err := a.RowMajorAref(last)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)

				// Neighbours are untouched.
				if tt.tag != widetag.T {
					zero, err := a.RowMajorAref(last - 1)
					require.NoError(t, err)
					assert.NotEqual(t, tt.want, zero)
				}
			}
		})
	}
}

func TestSet_TypeMismatch(t *testing.T) {
	tests := []struct {
		tag widetag.Widetag
		x   any
	}{
		{widetag.Bit, 2},
		{widetag.UnsignedByte7, 128},
		{widetag.UnsignedByte8, -1},
		{widetag.UnsignedByte8, "x"},
		{widetag.SignedByte8, 128},
		{widetag.Fixnum, int64(1) << 62},
		{widetag.SingleFloat, 1.5},
		{widetag.DoubleFloat, float32(1)},
		{widetag.DoubleFloat, 1},
		{widetag.ComplexSingleFloat, complex(1, 1)},
		{widetag.BaseChar, '世'},
		{widetag.Character, 65},
		{widetag.Nil, nil},
	}
	for _, tt := range tests {
		a, err := NewVector(2, tt.tag)
		require.NoError(t, err)
		err = a.SetAref(tt.x, 0)
		var te *TypeError
		require.ErrorAs(t, err, &te, "%s <- %#v", tt.tag, tt.x)
		assert.Equal(t, tt.tag.Info().Specifier, te.Expected)
	}
}

func TestNilElementType(t *testing.T) {
	a, err := Make([]int{3}, "(integer 5 3)")
	require.NoError(t, err)
	assert.Equal(t, widetag.Nil, a.ElementType())
	_, err = a.Aref(0)
	require.ErrorIs(t, err, ErrNilElement)
}

func TestInitialElementAndContents(t *testing.T) {
	a, err := New([]int{2, 3}, widetag.SignedByte16, InitialElement(-7))
	require.NoError(t, err)
	c, err := a.Contents()
	require.NoError(t, err)
	for _, x := range c {
		assert.Equal(t, int64(-7), x)
	}

	b, err := New([]int{2, 3}, widetag.UnsignedByte8, InitialContents([][]int{{1, 2, 3}, {4, 5, 6}}))
	require.NoError(t, err)
	v, err := b.Aref(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), v)

	nested, err := b.Nested()
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{uint64(1), uint64(2), uint64(3)},
		[]any{uint64(4), uint64(5), uint64(6)},
	}, nested)

	s, err := NewVector(3, widetag.BaseChar, InitialContents("abc"))
	require.NoError(t, err)
	r, err := s.Aref(2)
	require.NoError(t, err)
	assert.Equal(t, 'c', r)
}

func TestInitialContents_ShapeMismatch(t *testing.T) {
	_, err := New([]int{2, 3}, widetag.Fixnum, InitialContents([][]int{{1, 2, 3}, {4, 5}}))
	var se *ShapeMismatchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Axis)
	assert.Equal(t, 3, se.Expected)
	assert.Equal(t, 2, se.Actual)
	assert.ErrorIs(t, err, ErrUsage)

	_, err = New([]int{2}, widetag.Fixnum, InitialContents(5))
	require.ErrorAs(t, err, &se)
}

func TestNew_UsageErrors(t *testing.T) {
	_, err := New([]int{2}, widetag.Fixnum, InitialElement(1), InitialContents([]int{1, 2}))
	require.ErrorIs(t, err, ErrUsage)

	_, err = New([]int{-1}, widetag.Fixnum)
	require.ErrorIs(t, err, ErrUsage)

	_, err = New([]int{2, 2}, widetag.Fixnum, FillPointer())
	require.ErrorIs(t, err, ErrUsage)

	_, err = New([]int{2}, widetag.Fixnum, FillPointerAt(3))
	var fe *FillPointerError
	require.ErrorAs(t, err, &fe)

	_, err = New([]int{2}, widetag.ArrayHeader)
	require.ErrorIs(t, err, ErrUsage)

	_, err = New([]int{2}, widetag.Fixnum, ElementType(widetag.Bit))
	require.ErrorIs(t, err, ErrUsage)

	_, err = Make([]int{2}, "no-such-type")
	require.ErrorIs(t, err, widetag.ErrUnknownType)
}

func TestDisplacement_Aliasing(t *testing.T) {
	base, err := New([]int{10}, widetag.Fixnum, InitialContents([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	require.NoError(t, err)
	d, err := New([]int{2, 2}, widetag.Fixnum, DisplacedTo(base, 3))
	require.NoError(t, err)

	v, err := d.Aref(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v)

	require.NoError(t, d.SetAref(-1, 0, 0))
	v, err = base.Aref(3)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)

	target, off := d.Displacement()
	assert.Same(t, base, target)
	assert.Equal(t, 3, off)

	// Displacing onto a displaced array composes offsets.
	dd, err := New([]int{2}, widetag.Fixnum, DisplacedTo(d, 1))
	require.NoError(t, err)
	v, err = dd.Aref(0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
	assert.Equal(t, widetag.Fixnum, dd.ElementType())
}

func TestDisplacement_Errors(t *testing.T) {
	base, err := NewVector(4, widetag.Fixnum)
	require.NoError(t, err)

	_, err = New([]int{3}, widetag.Fixnum, DisplacedTo(base, 2))
	require.ErrorIs(t, err, ErrUsage)

	_, err = New([]int{2}, widetag.Bit, DisplacedTo(base, 0))
	require.ErrorIs(t, err, ErrUsage)

	_, err = New([]int{2}, widetag.Fixnum, DisplacedTo(base, 0), InitialElement(1))
	require.ErrorIs(t, err, ErrUsage)
}

func TestRowMajorAref_Bounds(t *testing.T) {
	for _, opts := range [][]Option{nil, {Adjustable()}} {
		a, err := New([]int{4}, widetag.UnsignedByte8, opts...)
		require.NoError(t, err)
		_, err = a.RowMajorAref(4)
		var be *BoundsError
		require.ErrorAs(t, err, &be)
		require.Error(t, a.SetRowMajorAref(-1, 0))
	}
}

func TestFill(t *testing.T) {
	a, err := NewVector(6, widetag.UnsignedByte4)
	require.NoError(t, err)
	require.NoError(t, a.Fill(9, 1, 4))
	c, err := a.Contents()
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(0), uint64(9), uint64(9), uint64(9), uint64(0), uint64(0)}, c)

	require.ErrorIs(t, a.Fill(1, 4, 2), ErrUsage)
	var te *TypeError
	require.ErrorAs(t, a.Fill(16, 0, -1), &te)
}

func TestDispatchTables_Populated(t *testing.T) {
	for w := range widetag.Count {
		assert.NotNil(t, vectorRef[w])
		assert.NotNil(t, vectorSet[w])
		assert.NotNil(t, refTable[w])
		assert.NotNil(t, refCheckedTable[w])
		assert.NotNil(t, setTable[w])
		assert.NotNil(t, setCheckedTable[w])
	}
	_, err := refTable[widetag.Invalid](nil, 0)
	assert.True(t, errors.Is(err, ErrHairyRef))
}

func TestAver(t *testing.T) {
	assert.PanicsWithError(t, "array: failed invariant: boom", func() { aver(false, "boom") })
	assert.NotPanics(t, func() { aver(true, "fine") })
}
