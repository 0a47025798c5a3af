// Package storage implements the specialized backing vectors of arrays.
//
// Unboxed element kinds are packed into 64-bit words, little-endian within a
// word: element i of a k-bit kind occupies bits [(i%(64/k))*k, +k) of word
// i/(64/k). Complex double-floats take two words per element. The boxed kind
// (widetag T) is a plain []any.
//
// Vectors carry no synchronization. Sub-word stores to different elements
// sharing a word race with each other.
//
// Vectors are allocated through Allocate, which sizes the word buffer with
// widetag.AllocationWords so every layout decision lives in the widetag
// registry.
package storage
