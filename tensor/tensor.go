// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor view: a typed data slice
// paired with a shape describing how to read it. It is the Go analogue
// of the tensor view of §2, built on top of internal/shape,
// internal/expr, and internal/kernel rather than duplicating their
// logic.
package tensor

import (
	"errors"
	"fmt"

	"github.com/go-zein/zein/internal/expr"
	"github.com/go-zein/zein/internal/kernel"
	"github.com/go-zein/zein/internal/shape"
)

// Size and Order are re-exported so callers never need to import
// internal/shape directly to construct a Tensor.
type (
	Size  = shape.Size
	Order = shape.Order
)

const (
	RowMajor = shape.RowMajor
	ColMajor = shape.ColMajor
)

// ErrShapeDataMismatch is returned when a Tensor is constructed with a
// data slice whose length does not match its shape's element count.
var ErrShapeDataMismatch = errors.New("tensor: data length does not match shape")

// Tensor is a view over a flat data slice described by a Shape. Two
// Tensors can share the same backing data slice under different Shapes
// (e.g. the result of Permutate), exactly as the underlying []T would.
type Tensor[T kernel.Elem] struct {
	data  []T
	shape shape.Shape
}

// New allocates a zeroed data slice of the shape's element count under a
// Shape built from order/sizes (rank is len(sizes)).
func New[T kernel.Elem](order Order, sizes []Size) (Tensor[T], error) {
	s, err := shape.New(len(sizes), order, sizes)
	if err != nil {
		return Tensor[T]{}, err
	}
	return Tensor[T]{data: make([]T, s.NumElements()), shape: s}, nil
}

// NewUnallocated builds a Shape-only Tensor with no backing data —
// IsValid reports false until a factory binds data to it with
// Factory.AllocToTensor. Mirrors the source's null-data-slice view,
// used to defer the allocation decision to the factory.
func NewUnallocated[T kernel.Elem](order Order, sizes []Size) (Tensor[T], error) {
	s, err := shape.New(len(sizes), order, sizes)
	if err != nil {
		return Tensor[T]{}, err
	}
	return Tensor[T]{shape: s}, nil
}

// FromSlice wraps an existing data slice under a Shape built from
// rank/order/sizes, without copying data.
func FromSlice[T kernel.Elem](data []T, order Order, sizes []Size) (Tensor[T], error) {
	s, err := shape.New(len(sizes), order, sizes)
	if err != nil {
		return Tensor[T]{}, err
	}
	if Size(len(data)) != s.NumElements() {
		return Tensor[T]{}, fmt.Errorf("%w: got %d elements, shape wants %d", ErrShapeDataMismatch, len(data), s.NumElements())
	}
	return Tensor[T]{data: data, shape: s}, nil
}

// IsValid reports whether t has a non-empty backing data slice whose
// length equals its shape's element count.
func (t Tensor[T]) IsValid() bool {
	return len(t.data) > 0 && Size(len(t.data)) == t.shape.NumElements()
}

// ValueSize is data.len, the number of elements actually backing this
// view. For a NewUnallocated view this is 0 even though its shape
// already describes a nonzero element count.
func (t Tensor[T]) ValueSize() Size { return Size(len(t.data)) }

// ValueCapacity is product(sizes), the element count the tensor's shape
// describes. IsValid requires ValueSize and ValueCapacity to agree.
func (t Tensor[T]) ValueCapacity() int { return int(t.shape.NumElements()) }

// Shape returns the tensor's current shape.
func (t Tensor[T]) Shape() shape.Shape { return t.shape }

// Data returns the raw backing slice. Mutations are visible to every
// view sharing this tensor's data.
func (t Tensor[T]) Data() []T { return t.data }

// GetValue reads the element at coord, bounds-checked against the
// tensor's shape.
func (t Tensor[T]) GetValue(coord []Size) (T, error) {
	off, err := t.shape.Index(coord)
	if err != nil {
		return 0, err
	}
	return t.data[off], nil
}

// SetValue writes v at coord, bounds-checked against the tensor's shape.
func (t Tensor[T]) SetValue(coord []Size, v T) error {
	off, err := t.shape.Index(coord)
	if err != nil {
		return err
	}
	t.data[off] = v
	return nil
}

// GetValueUnchecked reads the element at coord without bounds checking.
func (t Tensor[T]) GetValueUnchecked(coord []Size) T {
	return t.data[t.shape.IndexUnchecked(coord)]
}

// SetValueUnchecked writes v at coord without bounds checking.
func (t Tensor[T]) SetValueUnchecked(coord []Size, v T) {
	t.data[t.shape.IndexUnchecked(coord)] = v
}

// Permutate parses e (an axis-name expression such as "ijk->jki") and
// returns a new Tensor sharing this tensor's backing data under the
// permuted Shape. No data is copied or moved.
func (t Tensor[T]) Permutate(e string) (Tensor[T], error) {
	p, err := expr.ParsePermutation(t.shape.Rank(), e)
	if err != nil {
		return Tensor[T]{}, err
	}
	s, err := t.shape.ApplyPermutation(p)
	if err != nil {
		return Tensor[T]{}, err
	}
	return Tensor[T]{data: t.data, shape: s}, nil
}

// Swap exchanges the data and shape of t and other in place.
func (t *Tensor[T]) Swap(other *Tensor[T]) {
	t.data, other.data = other.data, t.data
	t.shape, other.shape = other.shape, t.shape
}

// View exposes the raw (data, shape) pair backing this tensor, for
// packages (such as factory) that need to hand it to internal/kernel
// without this package importing them back.
func (t Tensor[T]) View() ([]T, shape.Shape) { return t.data, t.shape }

// WithData returns a copy of t with its backing data slice replaced by
// data, which must have exactly t.ValueCapacity() elements. Used by a
// factory to bind freshly allocated data into a shape-only Tensor.
func (t Tensor[T]) WithData(data []T) (Tensor[T], error) {
	if shape.Size(len(data)) != t.shape.NumElements() {
		return Tensor[T]{}, fmt.Errorf("%w: got %d elements, shape wants %d", ErrShapeDataMismatch, len(data), t.shape.NumElements())
	}
	return Tensor[T]{data: data, shape: t.shape}, nil
}
