// Package kernel implements the plan-driven walkers and SIMD-chunked
// primitives of the kernel engine: contraction, inner/outer product,
// reduction, elementwise arithmetic, scalar broadcast, and
// quantize/unquantize.
package kernel

import "fmt"

// Real is the floating-point half of the element-type constraint.
type Real interface {
	~float32 | ~float64
}

// Integer is the integer half of the element-type constraint.
type Integer interface {
	~int32 | ~int64 | ~uint32 | ~uint8
}

// SignedInteger is the subset of Integer the bit-twiddled Abs applies to.
type SignedInteger interface {
	~int32 | ~int64
}

// Elem is the numeric element type every kernel in this package operates
// over; the tensor view uses the same constraint for its element type.
type Elem interface {
	Real | Integer
}

// DataType is runtime type information for a kernel operand, mirroring
// the teacher's DType enum (internal/tensor/dtype.go) but restricted to
// the numeric types kernels operate on.
type DataType int

const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint32
	Uint8
)

func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint32:
		return "uint32"
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// InferDataType infers DataType from a generic element type T.
func InferDataType[T Elem](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint32:
		return Uint32
	case uint8:
		return Uint8
	default:
		panic(fmt.Sprintf("kernel: unsupported element type %T", dummy))
	}
}
