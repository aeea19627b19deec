package kernel

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

func maxIntValue[I Integer]() float64 {
	var z I
	switch any(z).(type) {
	case int32:
		return float64(math.MaxInt32)
	case int64:
		return float64(math.MaxInt64)
	case uint32:
		return float64(math.MaxUint32)
	case uint8:
		return float64(math.MaxUint8)
	default:
		panic(fmt.Sprintf("kernel: unsupported integer type %T", z))
	}
}

func roundF[F Real](v F) F {
	switch x := any(v).(type) {
	case float32:
		return any(math32.Round(x)).(F)
	case float64:
		return any(math.Round(x)).(F)
	default:
		panic(fmt.Sprintf("kernel: unsupported float type %T", v))
	}
}

// Quantize computes m = absmax(x); if m > 1 it scales x by 1/m before
// rounding into y as x*MaxInt(I), otherwise it rounds x*MaxInt(I)
// directly. Returns m, which the caller must pass back to Unquantize.
// Iterates the full length of x and y — the source's stale
// "while i < 100" bound is not reproduced here (Design Notes).
func Quantize[F Real, I Integer](x []F, y []I) (F, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: x=%d y=%d", ErrUnequalSize, len(x), len(y))
	}
	if len(x) == 0 {
		return 0, ErrSizeZeroTensor
	}

	m, err := AbsMax(x)
	if err != nil {
		return 0, err
	}

	maxI := F(maxIntValue[I]())
	scale := F(1)
	if m > 1 {
		scale = 1 / m
	}
	for i := range x {
		y[i] = I(roundF(x[i] * scale * maxI))
	}
	return m, nil
}

// Unquantize is the inverse of Quantize given the m it returned.
func Unquantize[F Real, I Integer](x []I, y []F, m F) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: x=%d y=%d", ErrUnequalSize, len(x), len(y))
	}

	maxI := F(maxIntValue[I]())
	var factor F
	if m > 1 {
		factor = m / maxI
	} else {
		factor = 1 / maxI
	}
	for i := range x {
		y[i] = F(x[i]) * factor
	}
	return nil
}
