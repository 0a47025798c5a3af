// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between signed/unsigned and different bit-width integer types.
//
// Use cases:
//   - Type-checked stores into integer-specialized arrays
//   - Validating untrusted data from dump headers (dimensions, fill pointers)
package conv
