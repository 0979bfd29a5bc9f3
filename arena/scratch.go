package arena

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
)

const (
	// DefaultScratchCount is the number of arenas in a scratch pool.
	DefaultScratchCount = 4
	// DefaultScratchReserve is the reserved range of each scratch arena (64 MiB).
	DefaultScratchReserve = 64 << 20
)

// ScratchPool is a small set of arenas for temporary work.
//
// A pool belongs to one goroutine. Worker goroutines borrow their own pool
// with BorrowScratchPool so they never share a bump cursor.
type ScratchPool struct {
	arenas []*Arena
}

// NewScratchPool reserves count arenas of reserveBytes each.
// Non-positive count selects DefaultScratchCount.
func NewScratchPool(count, reserveBytes, commitBytes int, opts ...Option) (*ScratchPool, error) {
	if count <= 0 {
		count = DefaultScratchCount
	}
	if reserveBytes <= 0 {
		reserveBytes = DefaultScratchReserve
	}

	p := &ScratchPool{arenas: make([]*Arena, 0, count)}
	for i := 0; i < count; i++ {
		aopts := append(slices.Clone(opts), WithName(fmt.Sprintf("scratch-%d", i)))
		a, err := New(reserveBytes, commitBytes, aopts...)
		if err != nil {
			_ = p.Release()
			return nil, err
		}
		p.arenas = append(p.arenas, a)
	}
	return p, nil
}

// Acquire borrows the first pooled arena that is not one of conflicts and
// opens a checkpoint on it. It panics with ErrScratchExhausted when every
// pooled arena is excluded.
func (p *ScratchPool) Acquire(conflicts ...*Arena) Scratch {
	for _, a := range p.arenas {
		if !slices.Contains(conflicts, a) {
			return Scratch{cp: a.Checkpoint()}
		}
	}
	panic(fmt.Errorf("%w: %d pooled, %d conflicts", ErrScratchExhausted, len(p.arenas), len(conflicts)))
}

// Len returns the number of pooled arenas.
func (p *ScratchPool) Len() int {
	return len(p.arenas)
}

// Arenas returns the pooled arenas.
func (p *ScratchPool) Arenas() []*Arena {
	return p.arenas
}

// Stats returns the statistics of every pooled arena.
func (p *ScratchPool) Stats() []Stats {
	out := make([]Stats, len(p.arenas))
	for i, a := range p.arenas {
		out[i] = a.Stats()
	}
	return out
}

// Reset rewinds every pooled arena. No scratch may be outstanding.
func (p *ScratchPool) Reset() {
	for _, a := range p.arenas {
		a.FreeAll()
	}
}

// Release returns all pooled arenas to the operating system.
func (p *ScratchPool) Release() error {
	var errs []error
	for _, a := range p.arenas {
		errs = append(errs, a.Release())
	}
	p.arenas = nil
	return errors.Join(errs...)
}

// Scratch is a scoped loan of one pooled arena.
type Scratch struct {
	cp Checkpoint
}

// Arena returns the borrowed arena.
func (s Scratch) Arena() *Arena {
	return s.cp.arena
}

// Release rewinds the borrowed arena to where it was at Acquire.
func (s Scratch) Release() {
	s.cp.End()
}

var scratchPools = sync.Pool{
	New: func() any {
		p, err := NewScratchPool(DefaultScratchCount, DefaultScratchReserve, DefaultCommitSize)
		if err != nil {
			panic(err)
		}
		// Pools dropped by sync.Pool give their reservations back.
		runtime.AddCleanup(p, func(arenas []*Arena) {
			for _, a := range arenas {
				_ = a.Release()
			}
		}, p.arenas)
		return p
	},
}

// BorrowScratchPool hands a scratch pool to the calling goroutine.
// Return it with ReturnScratchPool when the goroutine's job is done.
func BorrowScratchPool() *ScratchPool {
	return scratchPools.Get().(*ScratchPool)
}

// ReturnScratchPool rewinds p and makes it available to other goroutines.
func ReturnScratchPool(p *ScratchPool) {
	if p == nil {
		return
	}
	p.Reset()
	scratchPools.Put(p)
}
