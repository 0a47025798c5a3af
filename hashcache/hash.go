package hashcache

import (
	"hash/maphash"
	"math/bits"
	"reflect"
)

var seed = maphash.MakeSeed()

// Mix combines two hashes. It is not commutative, so argument order matters.
func Mix(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a^0x9e3779b97f4a7c15, b|1)
	return (hi ^ lo) + bits.RotateLeft64(a, 23) ^ b
}

// HashOf hashes a comparable value.
func HashOf[T comparable](v T) uint64 {
	return maphash.Comparable(seed, v)
}

// HashComparable hashes an argument list whose dynamic values are all
// comparable. It panics on non-comparable values, like map keys do.
func HashComparable(args []any) uint64 {
	var h uint64
	for _, a := range args {
		h = Mix(h, maphash.Comparable(seed, a))
	}
	return h
}

// Eq compares with ==. Both values must be comparable.
func Eq(stored, query any) bool { return stored == query }

// Equal compares with reflect.DeepEqual.
func Equal(stored, query any) bool { return reflect.DeepEqual(stored, query) }
