// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-zein/zein/tensor"
)

func TestAllocTensorZeroSizeRejected(t *testing.T) {
	f, err := New[float32]()
	require.NoError(t, err)
	_, err = f.AllocTensor(tensor.RowMajor, []tensor.Size{0, 4})
	assert.ErrorIs(t, err, ErrTensorSizeZero)
}

func TestAllocToTensorRejectsAlreadyAllocated(t *testing.T) {
	f, err := New[int32]()
	require.NoError(t, err)
	x, err := f.AllocTensor(tensor.RowMajor, []tensor.Size{2, 2})
	require.NoError(t, err)

	err = f.AllocToTensor(&x)
	assert.ErrorIs(t, err, ErrTensorHasAlloc)
}

func TestAllocToTensorBindsData(t *testing.T) {
	f, err := New[int32]()
	require.NoError(t, err)
	x, err := tensor.NewUnallocated[int32](tensor.RowMajor, []tensor.Size{2, 3})
	require.NoError(t, err)
	require.False(t, x.IsValid())

	require.NoError(t, f.AllocToTensor(&x))
	assert.True(t, x.IsValid())
	assert.Equal(t, tensor.Size(6), x.ValueSize())
}

func TestFreeFromTensorInvalidatesView(t *testing.T) {
	f, err := New[int32]()
	require.NoError(t, err)
	x, err := f.AllocTensor(tensor.RowMajor, []tensor.Size{4})
	require.NoError(t, err)

	f.FreeFromTensor(&x)
	assert.False(t, x.IsValid())
}

func TestCopyTensorIndependentBuffer(t *testing.T) {
	f, err := New[int32]()
	require.NoError(t, err)
	x, err := tensor.FromSlice([]int32{1, 2, 3}, tensor.RowMajor, []tensor.Size{3})
	require.NoError(t, err)

	y, err := f.CopyTensor(x)
	require.NoError(t, err)

	require.NoError(t, y.SetValue([]tensor.Size{0}, 99))
	v, err := x.GetValue([]tensor.Size{0})
	require.NoError(t, err)
	assert.Equal(t, int32(1), v, "CopyTensor must not alias the source buffer")
}

func TestTrackingModeTransitionsReleaseOnFree(t *testing.T) {
	f, err := New[int32]()
	require.NoError(t, err)
	f.SetMode(Start)

	x, err := f.AllocTensor(tensor.RowMajor, []tensor.Size{10})
	require.NoError(t, err)
	require.True(t, x.IsValid())

	f.SetMode(Stop)
	assert.Equal(t, Stop, f.Mode())

	f.SetMode(Free)
	assert.Equal(t, Free, f.Mode())
	assert.Empty(t, f.tracked)
	assert.Equal(t, []int{40}, f.cache.Sizes(), "the tracked 10-element int32 slice must be returned to the cache")
}

func TestFactoryAddSubBiasScale(t *testing.T) {
	f, err := New[int64]()
	require.NoError(t, err)
	const n = tensor.Size(100000)

	ones, err := tensor.New[int64](tensor.RowMajor, []tensor.Size{n})
	require.NoError(t, err)
	twos, err := tensor.New[int64](tensor.RowMajor, []tensor.Size{n})
	require.NoError(t, err)
	xd, _ := ones.View()
	yd, _ := twos.View()
	for i := range xd {
		xd[i] = 1
		yd[i] = 2
	}

	added, err := f.Add(ones, twos)
	require.NoError(t, err)
	sum, err := tensor.Sum(added)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), sum)

	subbed, err := f.Sub(ones, twos)
	require.NoError(t, err)
	sum, err = tensor.Sum(subbed)
	require.NoError(t, err)
	assert.Equal(t, int64(-100000), sum)

	biased, err := f.Bias(ones, 4)
	require.NoError(t, err)
	sum, err = tensor.Sum(biased)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), sum)

	scaled, err := f.Scale(ones, 4)
	require.NoError(t, err)
	sum, err = tensor.Sum(scaled)
	require.NoError(t, err)
	assert.Equal(t, int64(400000), sum)
}

func TestFactoryContraction(t *testing.T) {
	f, err := New[int32]()
	require.NoError(t, err)
	x, err := tensor.New[int32](tensor.RowMajor, []tensor.Size{3, 4, 3})
	require.NoError(t, err)
	data, _ := x.View()
	for i := range data {
		data[i] = int32(i + 1)
	}

	z, err := f.Contraction(x, "ijk->ij")
	require.NoError(t, err)
	sum, err := tensor.Sum(z)
	require.NoError(t, err)
	assert.Equal(t, int32(6+15+24+33+42+51+60+69+78+87+96+105), sum)
}

func TestCloseReleasesRegistrySlotAndRejectsDoubleClose(t *testing.T) {
	f, err := New[int32]()
	require.NoError(t, err)

	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Close(), ErrInvalidIndex)
}

func TestNewWithCacheCloseIsNoop(t *testing.T) {
	f := NewWithCache[int32](nil)
	assert.Nil(t, f.Close())
}

func TestFactoryInnerProduct(t *testing.T) {
	f, err := New[int32]()
	require.NoError(t, err)
	x, err := tensor.FromSlice([]int32{1, 1, 1, 1}, tensor.RowMajor, []tensor.Size{2, 2})
	require.NoError(t, err)
	y, err := tensor.FromSlice([]int32{1, 2, 3, 4}, tensor.RowMajor, []tensor.Size{2, 2})
	require.NoError(t, err)

	z, err := f.InnerProduct(x, y, "ij,jk->ik", []tensor.Size{2, 2})
	require.NoError(t, err)

	want := []int32{4, 6, 4, 6}
	for i, w := range want {
		v, err := z.GetValue([]tensor.Size{tensor.Size(i / 2), tensor.Size(i % 2)})
		require.NoError(t, err)
		assert.Equal(t, w, v)
	}
}
