package kernel

import "errors"

var (
	// ErrUnequalSize is returned when elementwise operands disagree on
	// element count.
	ErrUnequalSize = errors.New("kernel: unequal size")
	// ErrInvalidSizes covers other operand geometry mismatches a kernel
	// rejects before walking (e.g. a result Shape disagreeing with a plan).
	ErrInvalidSizes = errors.New("kernel: invalid sizes")
	// ErrInvalidDimensions is returned when a plan's rank disagrees with
	// the rank of the Shape it is asked to drive.
	ErrInvalidDimensions = errors.New("kernel: invalid dimensions")
	// ErrSizeZeroTensor is returned by reductions (and quantize) on an
	// empty operand.
	ErrSizeZeroTensor = errors.New("kernel: reduction on zero-size tensor")
	// ErrIntegerOverflow is returned by CheckedAbs on a signed integer's
	// minimum value, whose magnitude has no representable positive twin.
	ErrIntegerOverflow = errors.New("kernel: integer overflow")
)
