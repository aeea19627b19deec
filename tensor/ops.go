// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/go-zein/zein/internal/expr"
	"github.com/go-zein/zein/internal/kernel"
)

// Sum, Product, Min, Max, AbsMax, and AbsMin reduce a tensor's data to a
// single scalar. AbsMax and AbsMin return max(|x|) and min(|x|)
// respectively.
func Sum[T kernel.Elem](t Tensor[T]) (T, error) { return kernel.Sum(t.data) }
func Product[T kernel.Elem](t Tensor[T]) (T, error) { return kernel.Product(t.data) }
func Min[T kernel.Elem](t Tensor[T]) (T, error) { return kernel.Min(t.data) }
func Max[T kernel.Elem](t Tensor[T]) (T, error) { return kernel.Max(t.data) }
func AbsMax[T kernel.Elem](t Tensor[T]) (T, error) { return kernel.AbsMax(t.data) }
func AbsMin[T kernel.Elem](t Tensor[T]) (T, error) { return kernel.AbsMin(t.data) }

// MapReduce folds f(x[i]) under op without materializing an intermediate
// tensor, e.g. sum-of-squares via MapReduce(t, kernel.OpSum, func(v T) T {
// return v * v }).
func MapReduce[T kernel.Elem](t Tensor[T], op kernel.ReduceOp, f func(T) T) (T, error) {
	return kernel.MapReduce(t.data, op, f)
}

// Add, Sub, and Mul write into z the elementwise result of combining x
// and y. All three tensors must have equal element counts.
func Add[T kernel.Elem](x, y, z Tensor[T]) error { return kernel.Add(x.data, y.data, z.data) }
func Sub[T kernel.Elem](x, y, z Tensor[T]) error { return kernel.Sub(x.data, y.data, z.data) }
func Mul[T kernel.Elem](x, y, z Tensor[T]) error { return kernel.Mul(x.data, y.data, z.data) }

// Scale writes y[i] = x[i] * s. Bias writes y[i] = x[i] + s.
func Scale[T kernel.Elem](x Tensor[T], s T, y Tensor[T]) error { return kernel.Scale(x.data, s, y.data) }
func Bias[T kernel.Elem](x Tensor[T], s T, y Tensor[T]) error { return kernel.Bias(x.data, s, y.data) }

// Contraction parses e and contracts x into z, e.g. Contraction(x,
// "ijk->ij", z) sums out the last axis of a rank-3 x into a rank-2 z.
func Contraction[T kernel.Elem](x Tensor[T], e string, z Tensor[T]) error {
	plan, err := expr.ParseContraction(x.shape.Rank(), z.shape.Rank(), e)
	if err != nil {
		return err
	}
	return kernel.Contract(plan, x.shape, x.data, z.shape, z.data)
}

// InnerProduct parses e (e.g. "ij,jk->ik") and contracts x against y
// into z.
func InnerProduct[T kernel.Elem](x Tensor[T], y Tensor[T], e string, z Tensor[T]) error {
	plan, err := expr.ParseInnerProduct(x.shape.Rank(), y.shape.Rank(), z.shape.Rank(), e)
	if err != nil {
		return err
	}
	return kernel.InnerProduct(plan, x.shape, x.data, y.shape, y.data, z.shape, z.data)
}

// OuterProduct parses e (e.g. "ij,kl->ijkl") and combines x and y into
// z with no contracted axes.
func OuterProduct[T kernel.Elem](x Tensor[T], y Tensor[T], e string, z Tensor[T]) error {
	plan, err := expr.ParseOuterProduct(x.shape.Rank(), y.shape.Rank(), z.shape.Rank(), e)
	if err != nil {
		return err
	}
	return kernel.OuterProduct(plan, x.shape, x.data, y.shape, y.data, z.shape, z.data)
}

// Quantize and Unquantize convert between a float tensor and a scaled
// integer tensor of the same element count; see kernel.Quantize.
func Quantize[F kernel.Real, I kernel.Integer](x Tensor[F], y Tensor[I]) (F, error) {
	return kernel.Quantize(x.data, y.data)
}

func Unquantize[F kernel.Real, I kernel.Integer](x Tensor[I], y Tensor[F], m F) error {
	return kernel.Unquantize(x.data, y.data, m)
}
