// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package factory

import "errors"

var (
	// ErrTensorSizeZero is returned by AllocTensor for a zero-element shape.
	ErrTensorSizeZero = errors.New("factory: tensor has zero size")
	// ErrTensorHasAlloc is returned by AllocToTensor when the target view
	// already owns a non-nil data slice.
	ErrTensorHasAlloc = errors.New("factory: tensor already has an allocation")
	// ErrInvalidIndex is returned by Close when the factory's registry
	// slot handle is out of range or already released (e.g. Close called
	// twice on the same Factory). Wraps the underlying alloc.Registry
	// error.
	ErrInvalidIndex = errors.New("factory: invalid registry index")
)
