// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Storage words are allocated 64-byte aligned so a vector's first element
// starts on a cache line and its byte image can be handed to block codecs
// without copying.
package mem
