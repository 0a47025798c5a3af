// Package arrayrt is the storage and dispatch layer for Lisp-style arrays:
// specialized element storage, type-dispatched element access, displaced
// arrays, in-place adjustment, and small fixed-size memo caches for
// expensive pure queries.
//
// # Quick Start
//
//	rt := arrayrt.New(arrayrt.WithLogLevel(slog.LevelDebug))
//
//	a, _ := rt.MakeArray([]int{3, 4}, "(unsigned-byte 8)")
//	i, _ := a.RowMajorIndex(2, 3) // 11
//	_ = a.SetAref(uint8(7), 2, 3)
//
//	v, _ := rt.MakeArray([]int{5}, "fixnum",
//	    array.Adjustable(), array.InitialContents([]int{1, 2, 3, 4, 5}))
//	v, _ = rt.Adjust(ctx, v, []int{3}) // same array, now [1 2 3]
//
// # Packages
//
//   - widetag: element kinds, type specifier parsing and resolution.
//   - array: the array object model, dispatch tables and adjustment.
//   - hashcache: two-probe memo tables and memoization.
//   - dump: binary dump and load of arrays with block compression.
//
// # Errors
//
// Errors returned by Runtime methods wrap one of ErrInvalidArray,
// ErrOutOfBounds, ErrTypeMismatch or ErrUsage together with the typed
// error of the package that produced it.
package arrayrt
