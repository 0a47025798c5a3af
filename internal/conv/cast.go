package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotInteger is returned when a value is not of a Go integer kind.
var ErrNotInteger = errors.New("not an integer")

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// ToUint64 converts any Go integer value to uint64. Negative values fail.
func ToUint64(v any) (uint64, error) {
	switch x := v.(type) {
	case uint64:
		return x, nil
	case uint:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uintptr:
		return uint64(x), nil
	}
	s, err := ToInt64(v)
	if err != nil {
		return 0, err
	}
	if s < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", s)
	}
	return uint64(s), nil
}

// ToInt64 converts any Go integer value to int64. Unsigned values above
// math.MaxInt64 fail.
func ToInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint, uint64, uint32, uint16, uint8, uintptr:
		u, _ := ToUint64(x)
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("integer overflow: %d cannot be converted to int64 (too large)", u)
		}
		return int64(u), nil
	}
	return 0, fmt.Errorf("%w: %T", ErrNotInteger, v)
}

// FitsUnsigned reports whether v < 2^width.
func FitsUnsigned(v uint64, width uint) bool {
	return width >= 64 || v>>width == 0
}

// FitsSigned reports whether v is representable in width-bit two's complement.
func FitsSigned(v int64, width uint) bool {
	if width >= 64 {
		return true
	}
	limit := int64(1) << (width - 1)
	return v >= -limit && v < limit
}
