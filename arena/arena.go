package arena

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/enginecore/internal/conv"
	"github.com/hupe1980/enginecore/internal/vmem"
)

const (
	// DefaultReserveSize is the default size of the reserved range (64 MiB).
	DefaultReserveSize = 64 << 20
	// DefaultCommitSize is the default commit granularity (64 KiB).
	DefaultCommitSize = 64 << 10
	// DefaultAlignment is the alignment used when callers pass align <= 0.
	DefaultAlignment = 8
)

// Budget is consulted before committing physical memory.
// *resource.Controller satisfies it.
type Budget interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

// Stats tracks arena usage.
//
// Note on semantics:
//   - Reserved: size of the reserved address range
//   - Committed: bytes currently backed by physical memory
//   - Offset: current bump cursor
//   - HighWater: largest cursor ever reached since creation
type Stats struct {
	Reserved       uint64 // Current: reserved range
	Committed      uint64 // Current: committed prefix
	Offset         uint64 // Current: bump cursor
	HighWater      uint64 // Historical: peak cursor
	Allocs         uint64 // Historical: Alloc calls
	Resizes        uint64 // Historical: Resize calls
	InPlaceResizes uint64 // Historical: Resize calls served without copying
	Resets         uint64 // Historical: FreeAll calls
}

// Arena is a bump allocator over a reserved, lazily committed address range.
//
// Invariant: 0 <= prevOffset <= offset <= committed <= length.
type Arena struct {
	name       string
	region     *vmem.Region
	data       []byte
	base       uintptr
	length     int
	offset     int
	prevOffset int
	commitSize int
	committed  int
	highWater  int
	zeroing    bool
	budget     Budget

	// checkpoint bookkeeping, see Checkpoint
	open   []uint64
	nextID uint64

	stats Stats
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithName labels the arena in errors, logs and metrics.
func WithName(name string) Option {
	return func(a *Arena) {
		a.name = name
	}
}

// WithBudget charges committed memory against b.
func WithBudget(b Budget) Option {
	return func(a *Arena) {
		a.budget = b
	}
}

// WithZeroing controls whether reused memory is cleared before it is handed
// out again. Enabled by default so every allocation starts zeroed.
func WithZeroing(enabled bool) Option {
	return func(a *Arena) {
		a.zeroing = enabled
	}
}

// New reserves reserveBytes of address space and commits the first chunk.
// Commits happen in multiples of commitChunkBytes, rounded up to the page size.
// Non-positive sizes select DefaultReserveSize and DefaultCommitSize.
func New(reserveBytes, commitChunkBytes int, opts ...Option) (*Arena, error) {
	if reserveBytes <= 0 {
		reserveBytes = DefaultReserveSize
	}
	if commitChunkBytes <= 0 {
		commitChunkBytes = DefaultCommitSize
	}

	a := &Arena{
		name:    "arena",
		zeroing: true,
	}
	for _, opt := range opts {
		opt(a)
	}

	region, err := vmem.Reserve(reserveBytes)
	if err != nil {
		return nil, fmt.Errorf("arena %q: %w", a.name, err)
	}

	a.region = region
	a.data = region.Bytes()
	a.base = uintptr(unsafe.Pointer(unsafe.SliceData(a.data))) //nolint:gosec // address arithmetic on off-heap memory
	a.length = region.Len()
	a.commitSize = min(conv.AlignUp(commitChunkBytes, vmem.PageSize()), a.length)

	if err := a.commitTo(1); err != nil {
		_ = region.Release()
		return nil, err
	}
	a.stats.Reserved = uint64(a.length)
	return a, nil
}

// MustNew is like New but panics on failure.
func MustNew(reserveBytes, commitChunkBytes int, opts ...Option) *Arena {
	a, err := New(reserveBytes, commitChunkBytes, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Alloc returns size zeroed bytes whose address is a multiple of align.
// It panics with ErrExhausted if the reserved range cannot hold the request
// and with ErrCommit if memory cannot be committed.
func (a *Arena) Alloc(size, align int) []byte {
	a.panicIfReleased()
	if size < 0 {
		panic(fmt.Errorf("%w: %d", ErrInvalidSize, size))
	}
	if size == 0 {
		return nil
	}

	start := a.alignedOffset(align)
	end := a.extend(start, start, size)

	a.prevOffset = start
	a.offset = end
	a.stats.Allocs++

	return a.data[start:end:end]
}

// Resize grows or shrinks the most recent allocation in place.
//
// When old starts at the arena's most recent allocation, the cursor is moved
// and the start address is preserved; newly exposed bytes are zeroed.
// Otherwise a new region is allocated and min(len(old), newSize) bytes are
// copied over. An empty old behaves like Alloc.
func (a *Arena) Resize(old []byte, newSize, align int) []byte {
	a.panicIfReleased()
	if newSize < 0 {
		panic(fmt.Errorf("%w: %d", ErrInvalidSize, newSize))
	}
	a.stats.Resizes++

	if len(old) == 0 {
		return a.Alloc(newSize, align)
	}

	if start := a.offsetOf(old); start >= 0 && start == a.prevOffset && a.offset > a.prevOffset {
		end := a.extend(start, start+len(old), newSize)
		a.offset = end
		a.stats.InPlaceResizes++
		return a.data[start:end:end]
	}

	mem := a.Alloc(newSize, align)
	copy(mem, old)
	return mem
}

// FreeAll rewinds the arena to empty. Committed pages are retained and
// every outstanding checkpoint becomes invalid.
func (a *Arena) FreeAll() {
	a.panicIfReleased()
	a.offset = 0
	a.prevOffset = 0
	a.open = a.open[:0]
	a.stats.Resets++
}

// Release returns the reserved range to the operating system.
// The arena cannot be used afterwards. Release is idempotent.
func (a *Arena) Release() error {
	if a.region == nil {
		return nil
	}
	if a.budget != nil {
		a.budget.ReleaseMemory(int64(a.committed))
	}
	err := a.region.Release()
	a.region = nil
	a.data = nil
	a.base = 0
	a.offset, a.prevOffset, a.committed = 0, 0, 0
	a.open = nil
	return err
}

// Contains reports whether b points into this arena's reserved range.
func (a *Arena) Contains(b []byte) bool {
	return a.offsetOf(b) >= 0
}

// Name returns the arena label.
func (a *Arena) Name() string { return a.name }

// Offset returns the bump cursor.
func (a *Arena) Offset() int { return a.offset }

// PrevOffset returns the start of the most recent allocation.
func (a *Arena) PrevOffset() int { return a.prevOffset }

// Committed returns the number of committed bytes.
func (a *Arena) Committed() int { return a.committed }

// Reserved returns the size of the reserved range.
func (a *Arena) Reserved() int { return a.length }

// CommitSize returns the commit granularity.
func (a *Arena) CommitSize() int { return a.commitSize }

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	s := a.stats
	s.Committed = uint64(a.committed)
	s.Offset = uint64(a.offset)
	s.HighWater = uint64(a.highWater)
	return s
}

// Usage returns the cursor as a percentage of committed memory.
func (a *Arena) Usage() float64 {
	if a.committed == 0 {
		return 0
	}
	return float64(a.offset) / float64(a.committed) * 100
}

func (a *Arena) String() string {
	return fmt.Sprintf(
		"Arena{name: %s, reserved: %.2f MB, committed: %.2f MB, offset: %d, usage: %.1f%%, allocs: %d}",
		a.name,
		float64(a.length)/(1024*1024),
		float64(a.committed)/(1024*1024),
		a.offset,
		a.Usage(),
		a.stats.Allocs,
	)
}

// alignedOffset returns the cursor rounded up so that the absolute address
// is a multiple of align.
func (a *Arena) alignedOffset(align int) int {
	if align <= 0 {
		align = DefaultAlignment
	}
	if !conv.IsPowerOfTwo(align) {
		panic(fmt.Errorf("%w: %d", ErrAlignment, align))
	}
	addr := a.base + uintptr(a.offset)
	mask := uintptr(align - 1)
	return int((addr+mask)&^mask - a.base)
}

// extend makes [start, start+size) usable and returns its end. Bytes from
// zeroFrom onwards that were handed out before are cleared when zeroing is
// enabled; bytes above the high-water mark are fresh pages and already zero.
func (a *Arena) extend(start, zeroFrom, size int) int {
	end := start + size
	if end > a.length || end < start {
		panic(fmt.Errorf("%w: %s needs %d bytes at offset %d, reserved %d",
			ErrExhausted, a.name, size, start, a.length))
	}
	if err := a.commitTo(end); err != nil {
		panic(err)
	}

	if a.zeroing && zeroFrom < end && zeroFrom < a.highWater {
		clear(a.data[zeroFrom:min(end, a.highWater)])
	}
	if end > a.highWater {
		a.highWater = end
	}
	return end
}

// commitTo grows the committed prefix to cover end, in commitSize steps.
func (a *Arena) commitTo(end int) error {
	if end <= a.committed {
		return nil
	}

	target := min(conv.AlignUp(end, a.commitSize), a.length)
	grow := target - a.committed

	if a.budget != nil {
		if err := a.budget.AcquireMemory(int64(grow)); err != nil {
			return fmt.Errorf("%w: %s: %d bytes: %w", ErrCommit, a.name, grow, err)
		}
	}
	if err := a.region.Commit(a.committed, grow); err != nil {
		if a.budget != nil {
			a.budget.ReleaseMemory(int64(grow))
		}
		return fmt.Errorf("%w: %s: %w", ErrCommit, a.name, err)
	}

	a.committed = target
	return nil
}

// offsetOf returns the arena offset of b's first byte, or -1 if b does not
// start inside the reserved range.
func (a *Arena) offsetOf(b []byte) int {
	if cap(b) == 0 || a.base == 0 {
		return -1
	}
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address comparison only
	if p < a.base || p >= a.base+uintptr(a.length) {
		return -1
	}
	return int(p - a.base)
}

func (a *Arena) panicIfReleased() {
	if a.region == nil {
		panic(fmt.Errorf("%w: %s", ErrReleased, a.name))
	}
}
