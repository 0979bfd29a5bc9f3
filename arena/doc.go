// Package arena provides virtual-memory-backed bump allocators.
//
// An Arena reserves a large address range up front and commits physical
// memory in fixed-size chunks as its cursor advances. Allocation is a
// pointer bump; deallocation is bulk (FreeAll) or scoped (Checkpoint).
// Addresses handed out never move, so containers built on an arena keep
// stable element pointers while they grow.
//
// # Basic Usage
//
//	a := arena.MustNew(64<<20, 64<<10) // reserve 64 MiB, commit 64 KiB at a time
//	defer a.Release()
//
//	buf := a.Alloc(1024, 8)
//	v := arena.Make[Vec3](a)
//	xs := arena.MakeSlice[uint32](a, 100)
//
//	a.FreeAll() // O(1), committed pages are kept for reuse
//
// # Checkpoints
//
// A Checkpoint rewinds every allocation made after it was taken:
//
//	cp := a.Checkpoint()
//	tmp := a.Alloc(4096, 8)
//	// ... use tmp ...
//	cp.End()
//
// Checkpoints must be ended in reverse order of creation. Ending one out of
// order panics with ErrCheckpointOrder.
//
// # Scratch Arenas
//
// A ScratchPool holds a small set of arenas for temporary work. Acquire skips
// the arenas passed as conflicts, so a routine never borrows the arena its
// caller handed it for results:
//
//	func build(out *arena.Arena, pool *arena.ScratchPool) []byte {
//	    s := pool.Acquire(out)
//	    defer s.Release()
//	    tmp := s.Arena().Alloc(1<<16, 8)
//	    ...
//	}
//
// # Fatal Conditions
//
// Exhausting the reserved range, a failed commit, checkpoint mis-nesting and
// scratch exhaustion all panic with an error wrapping the matching sentinel.
// Reservations are sized generously, so reaching one of these is a logic error
// (a leak or runaway growth) rather than a recoverable condition.
//
// # Safety
//
// Arena memory is not scanned by the garbage collector. Typed helpers
// (New, MakeSlice, SliceOf) refuse types that contain Go pointers.
// An Arena is not safe for concurrent use.
package arena
