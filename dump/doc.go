// Package dump writes arrays to a compact binary stream and reads them back.
//
// Unboxed arrays are stored as their packed storage words, split into
// blocks that are optionally compressed with LZ4 or Zstandard. Blocks are
// compressed in parallel. Arrays of element type T are stored as JSON, so
// only JSON-representable elements survive a round trip; numbers come back
// as int64 or float64.
package dump
