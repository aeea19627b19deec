package kernel

import (
	"fmt"
	"math"
)

// maxFinite returns the largest finite value representable by T: the max
// float for floating-point types, T::MAX for integers.
func maxFinite[T Elem]() T {
	var z T
	switch any(z).(type) {
	case float32:
		return any(float32(math.MaxFloat32)).(T)
	case float64:
		return any(float64(math.MaxFloat64)).(T)
	case int32:
		return any(int32(math.MaxInt32)).(T)
	case int64:
		return any(int64(math.MaxInt64)).(T)
	case uint32:
		return any(uint32(math.MaxUint32)).(T)
	case uint8:
		return any(uint8(math.MaxUint8)).(T)
	default:
		panic(fmt.Sprintf("kernel: unsupported element type %T", z))
	}
}

// minFinite returns the smallest finite value representable by T: -max
// float for floating-point types, T::MIN for signed integers, 0 for
// unsigned integers.
func minFinite[T Elem]() T {
	var z T
	switch any(z).(type) {
	case float32:
		return any(float32(-math.MaxFloat32)).(T)
	case float64:
		return any(float64(-math.MaxFloat64)).(T)
	case int32:
		return any(int32(math.MinInt32)).(T)
	case int64:
		return any(int64(math.MinInt64)).(T)
	case uint32, uint8:
		return 0
	default:
		panic(fmt.Sprintf("kernel: unsupported element type %T", z))
	}
}
