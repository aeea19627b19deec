// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package factory implements the typed tensor factory of §4.5: tensor
// allocation routed through a linear caching allocator, an allocation
// tracking list with a start/stop/free mode, and kernel-composing
// convenience operations that allocate their own result tensor.
package factory

import (
	"fmt"
	"unsafe"

	"github.com/go-zein/zein/internal/alloc"
	"github.com/go-zein/zein/internal/expr"
	"github.com/go-zein/zein/internal/kernel"
	"github.com/go-zein/zein/tensor"
)

// TrackingMode is the factory's recording state, per §4.5's transition
// table.
type TrackingMode uint8

const (
	Free TrackingMode = iota
	Start
	Stop
)

// defaultRegistry is the process-wide bounded pool of Caches that New
// draws from, the Go analogue of the source's fixed-size default-
// allocator array (§9) — sized generously rather than fixed at 100, and
// returning ErrRegistryExhausted instead of panicking once it fills up.
var defaultRegistry = alloc.NewRegistry(4096)

// Factory allocates Tensor[T] values through a Cache and, while in Start
// mode, records every produced data slice so they can be released
// together by a single SetMode(Free) call.
type Factory[T kernel.Elem] struct {
	cache    *alloc.Cache
	registry *alloc.Registry
	handle   int
	mode     TrackingMode
	tracked  [][]T
}

// New creates a Factory over a Cache acquired from the package's default
// Registry, backed by the Go runtime allocator. The acquired slot is
// released by Close. Use NewWithCache to build a Factory over a
// caller-owned Cache instead, bypassing the registry entirely.
func New[T kernel.Elem]() (*Factory[T], error) {
	cache, handle, err := defaultRegistry.Acquire(nil)
	if err != nil {
		return nil, err
	}
	return &Factory[T]{cache: cache, registry: defaultRegistry, handle: handle}, nil
}

// NewWithCache creates a Factory over an existing Cache, without drawing
// a slot from the default Registry; Close on such a Factory never
// touches the registry.
func NewWithCache[T kernel.Elem](cache *alloc.Cache) *Factory[T] {
	return &Factory[T]{cache: cache}
}

func elemSize[T kernel.Elem]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// allocData allocates n elements of T through the factory's Cache,
// reinterpreting the byte-oriented backing allocation as a []T. This
// mirrors the teacher's own raw byte-buffer-to-typed-slice reinterpret
// cast (internal/tensor/raw.go), extended to reuse the buffer through a
// cache instead of allocating fresh every time.
func (f *Factory[T]) allocData(n int) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	raw, err := f.cache.Alloc(n * elemSize[T]())
	if err != nil {
		return nil, err
	}
	//nolint:gosec // unsafe.Slice reinterprets a byte buffer sized for exactly n elements of T.
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), n), nil
}

func (f *Factory[T]) freeData(data []T) {
	if len(data) == 0 {
		return
	}
	n := len(data) * elemSize[T]()
	//nolint:gosec // inverse of allocData's reinterpret cast.
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), n)
	f.cache.Free(raw)
}

func (f *Factory[T]) track(data []T) {
	if f.mode == Start {
		f.tracked = append(f.tracked, data)
	}
}

// SetMode transitions the factory's tracking mode per §4.5's table:
// free->start begins recording, start->stop pauses it without
// releasing, {start,stop}->free releases every tracked slice and clears
// the list, stop->start resumes recording, and free->stop is a no-op
// that leaves the factory in Free (there is nothing to pause).
func (f *Factory[T]) SetMode(target TrackingMode) {
	if f.mode == Free && target == Stop {
		return
	}
	if target == Free && (f.mode == Start || f.mode == Stop) {
		for _, data := range f.tracked {
			f.freeData(data)
		}
		f.tracked = nil
	}
	f.mode = target
}

// Mode returns the factory's current tracking mode.
func (f *Factory[T]) Mode() TrackingMode { return f.mode }

// Close transitions the factory to Free, releasing every tracked slice,
// the Go analogue of the source's deinit. If the factory was built by
// New, its registry slot is also released; calling Close twice surfaces
// ErrInvalidIndex on the second call, since the slot is already gone.
func (f *Factory[T]) Close() error {
	f.SetMode(Free)
	if f.registry == nil {
		return nil
	}
	if err := f.registry.Release(f.handle); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}
	return nil
}

// AllocTensor allocates a new Tensor of the given order and sizes
// through the factory's cache, tracking it if the factory is in Start
// mode.
func (f *Factory[T]) AllocTensor(order tensor.Order, sizes []tensor.Size) (tensor.Tensor[T], error) {
	n := 1
	for _, s := range sizes {
		n *= int(s)
	}
	if n == 0 {
		return tensor.Tensor[T]{}, ErrTensorSizeZero
	}

	data, err := f.allocData(n)
	if err != nil {
		return tensor.Tensor[T]{}, err
	}
	t, err := tensor.FromSlice(data, order, sizes)
	if err != nil {
		f.freeData(data)
		return tensor.Tensor[T]{}, err
	}
	f.track(data)
	return t, nil
}

// AllocToTensor allocates fresh data sized to t's existing shape and
// rebuilds t over it. Fails with ErrTensorHasAlloc if t already owns
// data.
func (f *Factory[T]) AllocToTensor(t *tensor.Tensor[T]) error {
	if t.IsValid() {
		return ErrTensorHasAlloc
	}

	data, err := f.allocData(t.ValueCapacity())
	if err != nil {
		return err
	}
	bound, err := t.WithData(data)
	if err != nil {
		f.freeData(data)
		return err
	}
	f.track(data)
	*t = bound
	return nil
}

// FreeFromTensor returns t's backing data to the cache and clears t to
// an invalid Tensor. Freeing an already-invalid Tensor is a no-op.
func (f *Factory[T]) FreeFromTensor(t *tensor.Tensor[T]) {
	if !t.IsValid() {
		return
	}
	data, _ := t.View()
	f.freeData(data)
	*t = tensor.Tensor[T]{}
}

// CopyTensor allocates a new Tensor with the same shape as t and copies
// its data.
func (f *Factory[T]) CopyTensor(t tensor.Tensor[T]) (tensor.Tensor[T], error) {
	data, shape := t.View()
	out, err := f.allocData(len(data))
	if err != nil {
		return tensor.Tensor[T]{}, err
	}
	copy(out, data)

	result, err := tensor.FromSlice(out, shape.Order(), shape.Sizes())
	if err != nil {
		f.freeData(out)
		return tensor.Tensor[T]{}, err
	}
	f.track(out)
	return result, nil
}

func (f *Factory[T]) allocLike(like tensor.Tensor[T], sizes []tensor.Size) (tensor.Tensor[T], error) {
	_, s := like.View()
	return f.AllocTensor(s.Order(), sizes)
}

func sizesOf(s interface{ GetSize(int) tensor.Size }, rank int) []tensor.Size {
	out := make([]tensor.Size, rank)
	for i := range out {
		out[i] = s.GetSize(i)
	}
	return out
}

// Add, Sub, and Mul allocate a result tensor shaped like x and write the
// elementwise combination of x and y into it.
func (f *Factory[T]) Add(x, y tensor.Tensor[T]) (tensor.Tensor[T], error) {
	return f.elementwise(x, y, tensor.Add[T])
}

func (f *Factory[T]) Sub(x, y tensor.Tensor[T]) (tensor.Tensor[T], error) {
	return f.elementwise(x, y, tensor.Sub[T])
}

func (f *Factory[T]) Mul(x, y tensor.Tensor[T]) (tensor.Tensor[T], error) {
	return f.elementwise(x, y, tensor.Mul[T])
}

func (f *Factory[T]) elementwise(x, y tensor.Tensor[T], op func(tensor.Tensor[T], tensor.Tensor[T], tensor.Tensor[T]) error) (tensor.Tensor[T], error) {
	_, xs := x.View()
	z, err := f.allocLike(x, sizesOf(xs, xs.Rank()))
	if err != nil {
		return tensor.Tensor[T]{}, err
	}
	if err := op(x, y, z); err != nil {
		f.FreeFromTensor(&z)
		return tensor.Tensor[T]{}, err
	}
	return z, nil
}

// Scale and Bias allocate a result tensor shaped like x and write the
// scalar-broadcast result into it.
func (f *Factory[T]) Scale(x tensor.Tensor[T], s T) (tensor.Tensor[T], error) {
	return f.scalar(x, s, tensor.Scale[T])
}

func (f *Factory[T]) Bias(x tensor.Tensor[T], s T) (tensor.Tensor[T], error) {
	return f.scalar(x, s, tensor.Bias[T])
}

func (f *Factory[T]) scalar(x tensor.Tensor[T], s T, op func(tensor.Tensor[T], T, tensor.Tensor[T]) error) (tensor.Tensor[T], error) {
	_, xs := x.View()
	y, err := f.allocLike(x, sizesOf(xs, xs.Rank()))
	if err != nil {
		return tensor.Tensor[T]{}, err
	}
	if err := op(x, s, y); err != nil {
		f.FreeFromTensor(&y)
		return tensor.Tensor[T]{}, err
	}
	return y, nil
}

// Contraction parses e and allocates a result tensor of the plan's
// result rank, then contracts x into it.
func (f *Factory[T]) Contraction(x tensor.Tensor[T], e string) (tensor.Tensor[T], error) {
	_, xs := x.View()
	rank, err := expr.ContractedRank(e)
	if err != nil {
		return tensor.Tensor[T]{}, err
	}
	plan, err := expr.ParseContraction(xs.Rank(), rank, e)
	if err != nil {
		return tensor.Tensor[T]{}, err
	}

	sizes := make([]tensor.Size, rank)
	for i := 0; i < rank; i++ {
		sizes[plan.RHS[i]] = xs.GetSize(int(plan.LHS[i]))
	}
	z, err := f.allocLike(x, sizes)
	if err != nil {
		return tensor.Tensor[T]{}, err
	}
	if err := tensor.Contraction(x, e, z); err != nil {
		f.FreeFromTensor(&z)
		return tensor.Tensor[T]{}, err
	}
	return z, nil
}

// InnerProduct and OuterProduct allocate a result tensor of the
// caller-given resultSizes, then delegate to the matching kernel, which
// parses e. The result sizes are not derived from e or from the shapes of
// x and y; sizes that disagree with e are reported by the kernel.
func (f *Factory[T]) InnerProduct(x, y tensor.Tensor[T], e string, resultSizes []tensor.Size) (tensor.Tensor[T], error) {
	return f.productInto(x, y, e, resultSizes, tensor.InnerProduct[T])
}

func (f *Factory[T]) OuterProduct(x, y tensor.Tensor[T], e string, resultSizes []tensor.Size) (tensor.Tensor[T], error) {
	return f.productInto(x, y, e, resultSizes, tensor.OuterProduct[T])
}

func (f *Factory[T]) productInto(x, y tensor.Tensor[T], e string, resultSizes []tensor.Size, op func(tensor.Tensor[T], tensor.Tensor[T], string, tensor.Tensor[T]) error) (tensor.Tensor[T], error) {
	z, err := f.allocLike(x, resultSizes)
	if err != nil {
		return tensor.Tensor[T]{}, err
	}
	if err := op(x, y, e, z); err != nil {
		f.FreeFromTensor(&z)
		return tensor.Tensor[T]{}, err
	}
	return z, nil
}

// Permutation allocates a new view sharing x's data, permuted by e —
// thin wrapper over Tensor.Permutate kept here for symmetry with the
// other factory operations; it performs no allocation of its own.
func (f *Factory[T]) Permutation(x tensor.Tensor[T], e string) (tensor.Tensor[T], error) {
	return x.Permutate(e)
}
