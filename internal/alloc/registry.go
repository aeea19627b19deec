package alloc

import (
	"errors"
	"sync"
)

var (
	// ErrRegistryExhausted is returned by Registry.Acquire once every slot
	// is in use. The source Zig implementation panics on this condition
	// from a fixed 100-slot static array; the reimplementation strategy
	// notes call that panic undesirable in production systems, so it is
	// surfaced as an ordinary error from a configurable-capacity registry
	// instead.
	ErrRegistryExhausted = errors.New("alloc: registry exhausted")
	// ErrInvalidIndex is returned by Registry.Release for a handle that
	// was never acquired (out of range).
	ErrInvalidIndex = errors.New("alloc: invalid registry index")
	// ErrIndexAlreadyFreed is returned by Registry.Release for a handle
	// whose slot has already been released.
	ErrIndexAlreadyFreed = errors.New("alloc: index already freed")
)

// Registry is a bounded, process-wide collection of Cache instances, the
// Go analogue of the source's fixed-capacity default-allocator array.
type Registry struct {
	mu       sync.Mutex
	capacity int
	slots    []*Cache
}

// NewRegistry creates a Registry that can hold at most capacity caches.
func NewRegistry(capacity int) *Registry {
	return &Registry{capacity: capacity}
}

// Acquire creates a new Cache over backing and returns it along with a
// handle used to Release it later. Fails with ErrRegistryExhausted once
// capacity caches are outstanding.
func (r *Registry) Acquire(backing Backing) (*Cache, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, slot := range r.slots {
		if slot == nil {
			c := NewCache(backing)
			r.slots[i] = c
			return c, i, nil
		}
	}
	if len(r.slots) >= r.capacity {
		return nil, 0, ErrRegistryExhausted
	}
	c := NewCache(backing)
	r.slots = append(r.slots, c)
	return c, len(r.slots) - 1, nil
}

// Release frees handle's slot so a future Acquire can reuse it. Fails
// with ErrInvalidIndex for a handle that was never acquired and
// ErrIndexAlreadyFreed for one already released.
func (r *Registry) Release(handle int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handle < 0 || handle >= len(r.slots) {
		return ErrInvalidIndex
	}
	if r.slots[handle] == nil {
		return ErrIndexAlreadyFreed
	}
	r.slots[handle] = nil
	return nil
}

// InUse reports how many slots are currently occupied.
func (r *Registry) InUse() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, slot := range r.slots {
		if slot != nil {
			n++
		}
	}
	return n
}
