package vmem

import (
	"fmt"
	"os"
	"sync/atomic"
)

var pageSize = os.Getpagesize()

// PageSize returns the granularity at which memory is committed.
func PageSize() int {
	return pageSize
}

// Region is a reserved range of virtual address space.
// It owns the mapping and is responsible for releasing it.
type Region struct {
	data      []byte
	committed int // committed prefix, page aligned
	released  atomic.Bool
	ops       osOps
}

// osOps bundles the platform hooks for one reservation.
type osOps struct {
	commit  func(data []byte) error
	release func(data []byte) error
}

// Reserve reserves size bytes of address space without committing it.
// The size is rounded up to a whole number of pages.
func Reserve(size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	size = roundUp(size, pageSize)

	data, ops, err := osReserve(size)
	if err != nil {
		return nil, fmt.Errorf("vmem: reserve %d bytes: %w", size, err)
	}
	return &Region{data: data, ops: ops}, nil
}

// Commit grows the committed prefix of the region so that [off, off+n) is
// readable and writable. The end is rounded up to a page boundary.
// Committing an already committed range is a no-op.
func (r *Region) Commit(off, n int) error {
	if r.released.Load() {
		return ErrReleased
	}
	if off < 0 || n < 0 || off+n > len(r.data) {
		return ErrOutOfBounds
	}

	end := roundUp(off+n, pageSize)
	if end > len(r.data) {
		end = len(r.data)
	}
	if end <= r.committed {
		return nil
	}

	if err := r.ops.commit(r.data[r.committed:end]); err != nil {
		return fmt.Errorf("vmem: commit [%d,%d): %w", r.committed, end, err)
	}
	r.committed = end
	return nil
}

// Bytes returns the whole reserved range. Only committed pages may be touched.
func (r *Region) Bytes() []byte {
	if r.released.Load() {
		return nil
	}
	return r.data
}

// Len returns the reserved size in bytes.
func (r *Region) Len() int {
	return len(r.data)
}

// Committed returns the size of the committed prefix in bytes.
func (r *Region) Committed() int {
	return r.committed
}

// Release returns the range to the operating system. It is idempotent.
func (r *Region) Release() error {
	if r.released.Swap(true) {
		return nil
	}
	data := r.data
	r.data = nil
	r.committed = 0
	if r.ops.release != nil && data != nil {
		return r.ops.release(data)
	}
	return nil
}

func roundUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
