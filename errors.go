package arrayrt

import (
	"errors"
	"fmt"

	"github.com/hupe1980/arrayrt/array"
	"github.com/hupe1980/arrayrt/hashcache"
	"github.com/hupe1980/arrayrt/widetag"
)

var (
	// ErrInvalidArray is returned when an invalidated array is accessed.
	ErrInvalidArray = errors.New("invalid array")
	// ErrOutOfBounds is returned for subscripts outside the array.
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrTypeMismatch is returned when a value or specifier does not fit.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUsage is returned for inconsistent arguments.
	ErrUsage = errors.New("usage error")
)

// translateError maps package errors onto the root sentinels. The original
// error stays in the chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var inv *array.InvalidArrayError
	if errors.As(err, &inv) {
		return fmt.Errorf("%w: %w", ErrInvalidArray, err)
	}

	var be *array.BoundsError
	if errors.As(err, &be) {
		return fmt.Errorf("%w: %w", ErrOutOfBounds, err)
	}
	var ae *array.ArityError
	if errors.As(err, &ae) {
		return fmt.Errorf("%w: %w", ErrOutOfBounds, err)
	}

	var te *array.TypeError
	if errors.As(err, &te) {
		return fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	var wte *widetag.TypeError
	if errors.As(err, &wte) {
		return fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	if errors.Is(err, widetag.ErrSyntax) || errors.Is(err, widetag.ErrUnknownType) {
		return fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}

	if errors.Is(err, array.ErrUsage) ||
		errors.Is(err, array.ErrNoFillPointer) ||
		errors.Is(err, array.ErrNotAdjustable) ||
		errors.Is(err, hashcache.ErrInvalidConfig) ||
		errors.Is(err, hashcache.ErrArity) {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return err
}
