package widetag

import "fmt"

// Widetag identifies a concrete storage representation.
//
// Element widetags name the packed layout of a storage vector. Header
// widetags name the array header kinds that sit in front of a storage
// vector (non-simple vectors and arrays of rank other than one).
type Widetag uint8

const (
	// Invalid is never assigned to an array; dispatch slots for it hold the error stub.
	Invalid Widetag = iota

	Nil
	Bit
	UnsignedByte2
	UnsignedByte4
	UnsignedByte7
	UnsignedByte8
	UnsignedByte15
	UnsignedByte16
	UnsignedByte31
	UnsignedByte32
	UnsignedByte62
	UnsignedByte63
	UnsignedByte64
	SignedByte8
	SignedByte16
	SignedByte32
	Fixnum
	SignedByte64
	SingleFloat
	DoubleFloat
	ComplexSingleFloat
	ComplexDoubleFloat
	BaseChar
	Character
	T

	ComplexBitVector
	ComplexBaseString
	ComplexCharacterString
	ComplexVector
	ArrayHeader

	numWidetags
)

// Count is the number of widetags; dispatch tables are this long.
const Count = int(numWidetags)

// WordBits is the width of one storage word.
const WordBits = 64

// Kind groups element widetags by how their bits are interpreted.
type Kind uint8

const (
	KindNone Kind = iota
	KindNil
	KindUnsigned
	KindSigned
	KindFloat
	KindComplex
	KindCharacter
	KindBoxed
	KindHeader
)

// Info describes one entry of the specialized element type registry.
type Info struct {
	Tag  Widetag
	Name string
	// Specifier is the canonical (upgraded) element type.
	Specifier string
	Kind      Kind
	// Bits is the storage width of one element.
	Bits uint
	// Width is the logical width of integer kinds (7 for (unsigned-byte 7)).
	Width uint
	// String marks character storage that reserves one trailing element.
	String bool
}

var registry = [numWidetags]Info{
	Invalid:            {Tag: Invalid, Name: "invalid", Kind: KindNone},
	Nil:                {Tag: Nil, Name: "nil", Specifier: "nil", Kind: KindNil},
	Bit:                {Tag: Bit, Name: "bit", Specifier: "bit", Kind: KindUnsigned, Bits: 1, Width: 1},
	UnsignedByte2:      {Tag: UnsignedByte2, Name: "unsigned-byte-2", Specifier: "(unsigned-byte 2)", Kind: KindUnsigned, Bits: 2, Width: 2},
	UnsignedByte4:      {Tag: UnsignedByte4, Name: "unsigned-byte-4", Specifier: "(unsigned-byte 4)", Kind: KindUnsigned, Bits: 4, Width: 4},
	UnsignedByte7:      {Tag: UnsignedByte7, Name: "unsigned-byte-7", Specifier: "(unsigned-byte 7)", Kind: KindUnsigned, Bits: 8, Width: 7},
	UnsignedByte8:      {Tag: UnsignedByte8, Name: "unsigned-byte-8", Specifier: "(unsigned-byte 8)", Kind: KindUnsigned, Bits: 8, Width: 8},
	UnsignedByte15:     {Tag: UnsignedByte15, Name: "unsigned-byte-15", Specifier: "(unsigned-byte 15)", Kind: KindUnsigned, Bits: 16, Width: 15},
	UnsignedByte16:     {Tag: UnsignedByte16, Name: "unsigned-byte-16", Specifier: "(unsigned-byte 16)", Kind: KindUnsigned, Bits: 16, Width: 16},
	UnsignedByte31:     {Tag: UnsignedByte31, Name: "unsigned-byte-31", Specifier: "(unsigned-byte 31)", Kind: KindUnsigned, Bits: 32, Width: 31},
	UnsignedByte32:     {Tag: UnsignedByte32, Name: "unsigned-byte-32", Specifier: "(unsigned-byte 32)", Kind: KindUnsigned, Bits: 32, Width: 32},
	UnsignedByte62:     {Tag: UnsignedByte62, Name: "unsigned-byte-62", Specifier: "(unsigned-byte 62)", Kind: KindUnsigned, Bits: 64, Width: 62},
	UnsignedByte63:     {Tag: UnsignedByte63, Name: "unsigned-byte-63", Specifier: "(unsigned-byte 63)", Kind: KindUnsigned, Bits: 64, Width: 63},
	UnsignedByte64:     {Tag: UnsignedByte64, Name: "unsigned-byte-64", Specifier: "(unsigned-byte 64)", Kind: KindUnsigned, Bits: 64, Width: 64},
	SignedByte8:        {Tag: SignedByte8, Name: "signed-byte-8", Specifier: "(signed-byte 8)", Kind: KindSigned, Bits: 8, Width: 8},
	SignedByte16:       {Tag: SignedByte16, Name: "signed-byte-16", Specifier: "(signed-byte 16)", Kind: KindSigned, Bits: 16, Width: 16},
	SignedByte32:       {Tag: SignedByte32, Name: "signed-byte-32", Specifier: "(signed-byte 32)", Kind: KindSigned, Bits: 32, Width: 32},
	Fixnum:             {Tag: Fixnum, Name: "fixnum", Specifier: "fixnum", Kind: KindSigned, Bits: 64, Width: 63},
	SignedByte64:       {Tag: SignedByte64, Name: "signed-byte-64", Specifier: "(signed-byte 64)", Kind: KindSigned, Bits: 64, Width: 64},
	SingleFloat:        {Tag: SingleFloat, Name: "single-float", Specifier: "single-float", Kind: KindFloat, Bits: 32},
	DoubleFloat:        {Tag: DoubleFloat, Name: "double-float", Specifier: "double-float", Kind: KindFloat, Bits: 64},
	ComplexSingleFloat: {Tag: ComplexSingleFloat, Name: "complex-single-float", Specifier: "(complex single-float)", Kind: KindComplex, Bits: 64},
	ComplexDoubleFloat: {Tag: ComplexDoubleFloat, Name: "complex-double-float", Specifier: "(complex double-float)", Kind: KindComplex, Bits: 128},
	BaseChar:           {Tag: BaseChar, Name: "base-char", Specifier: "base-char", Kind: KindCharacter, Bits: 8, String: true},
	Character:          {Tag: Character, Name: "character", Specifier: "character", Kind: KindCharacter, Bits: 32, String: true},
	T:                  {Tag: T, Name: "t", Specifier: "t", Kind: KindBoxed, Bits: WordBits},

	ComplexBitVector:       {Tag: ComplexBitVector, Name: "complex-bit-vector", Kind: KindHeader},
	ComplexBaseString:      {Tag: ComplexBaseString, Name: "complex-base-string", Kind: KindHeader},
	ComplexCharacterString: {Tag: ComplexCharacterString, Name: "complex-character-string", Kind: KindHeader},
	ComplexVector:          {Tag: ComplexVector, Name: "complex-vector", Kind: KindHeader},
	ArrayHeader:            {Tag: ArrayHeader, Name: "array-header", Kind: KindHeader},
}

// Info returns the registry entry for w.
func (w Widetag) Info() Info {
	if int(w) >= Count {
		return registry[Invalid]
	}
	return registry[w]
}

func (w Widetag) String() string {
	if int(w) >= Count {
		return fmt.Sprintf("widetag(%d)", uint8(w))
	}
	return registry[w].Name
}

// Bits returns the storage width of one element of w.
func (w Widetag) Bits() uint { return w.Info().Bits }

// IsElement reports whether w names a storage layout.
func (w Widetag) IsElement() bool {
	k := w.Info().Kind
	return k != KindNone && k != KindHeader
}

// IsHeader reports whether w names an array header kind.
func (w Widetag) IsHeader() bool { return w.Info().Kind == KindHeader }

// Specialized returns the element widetags in registry order. Dispatch
// tables are generated by ranging over this list.
func Specialized() []Info {
	out := make([]Info, 0, int(T-Nil)+1)
	for w := Nil; w <= T; w++ {
		out = append(out, registry[w])
	}
	return out
}

// Headers returns the header widetags.
func Headers() []Widetag {
	return []Widetag{ComplexBitVector, ComplexBaseString, ComplexCharacterString, ComplexVector, ArrayHeader}
}

// HeaderFor returns the header widetag used by a non-simple array of the
// given element widetag and rank.
func HeaderFor(elem Widetag, rank int) Widetag {
	if rank != 1 {
		return ArrayHeader
	}
	switch elem {
	case Bit:
		return ComplexBitVector
	case BaseChar:
		return ComplexBaseString
	case Character:
		return ComplexCharacterString
	default:
		return ComplexVector
	}
}

// AllocationWords returns the number of storage words needed for length
// elements of w. Character strings budget one extra element for the
// trailing null.
func AllocationWords(w Widetag, length int) int {
	info := w.Info()
	if info.Bits == 0 || length < 0 {
		return 0
	}
	n := uint64(length)
	if info.String {
		n++
	}
	total := n * uint64(info.Bits)
	return int((total + WordBits - 1) / WordBits)
}
