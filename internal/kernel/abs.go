package kernel

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// absInt32 is the bit-twiddled absolute value: (x + (x>>31)) ^ (x>>31).
func absInt32(x int32) int32 {
	s := x >> 31
	return (x + s) ^ s
}

// absInt64 is the 64-bit analogue of absInt32.
func absInt64(x int64) int64 {
	s := x >> 63
	return (x + s) ^ s
}

// absValue is the unchecked absolute value used internally by the
// AbsMax/AbsMin reductions. Unsigned types are returned unchanged.
func absValue[T Elem](v T) T {
	switch x := any(v).(type) {
	case int32:
		return any(absInt32(x)).(T)
	case int64:
		return any(absInt64(x)).(T)
	case float32:
		return any(math32.Abs(x)).(T)
	case float64:
		return any(math.Abs(x)).(T)
	default:
		return v
	}
}

// Abs returns the absolute value of x. For signed integers this is the
// bit-twiddled form of §4.4; it is undefined behavior (silently wraps) on
// T::MIN — use CheckedAbs when that must be caught.
func Abs[T Elem](x T) T {
	return absValue(x)
}

// CheckedAbs is Abs with the T::MIN overflow case surfaced as
// ErrIntegerOverflow instead of silently wrapping.
func CheckedAbs[T Elem](x T) (T, error) {
	switch v := any(x).(type) {
	case int32:
		if v == math.MinInt32 {
			return 0, fmt.Errorf("%w: abs(%d)", ErrIntegerOverflow, v)
		}
	case int64:
		if v == math.MinInt64 {
			return 0, fmt.Errorf("%w: abs(%d)", ErrIntegerOverflow, v)
		}
	}
	return absValue(x), nil
}
