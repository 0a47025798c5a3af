package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every allocation (one cache line).
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocWords allocates n zeroed 64-bit words with 64-byte alignment.
func AllocWords(n int) []uint64 {
	if n <= 0 {
		return nil
	}
	byteSlice := AllocAligned(n * 8)
	ptr := unsafe.Pointer(&byteSlice[0])   //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*uint64)(ptr), n) //nolint:gosec // unsafe is required for memory alignment
}

// WordBytes returns the native-endian byte view of words. The view aliases
// words; it does not copy.
func WordBytes(words []uint64) []byte {
	if len(words) == 0 {
		return nil
	}
	ptr := unsafe.Pointer(&words[0])              //nolint:gosec // byte view of word storage
	return unsafe.Slice((*byte)(ptr), len(words)*8) //nolint:gosec // byte view of word storage
}
