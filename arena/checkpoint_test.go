package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpoint_NoAllocationIsNoop(t *testing.T) {
	a := newTestArena(t, 1<<20, 0)
	a.Alloc(24, 8)
	a.Alloc(8, 8)

	offset, prev := a.Offset(), a.PrevOffset()
	cp := Begin(a)
	cp.End()

	assert.Equal(t, offset, a.Offset())
	assert.Equal(t, prev, a.PrevOffset())
	assert.Zero(t, a.OpenCheckpoints())
}

func TestCheckpoint_RestoresOffset(t *testing.T) {
	for _, n := range []int{1, 7, 4096, 70000, 512 << 10} {
		a := newTestArena(t, 1<<20, 64<<10)
		a.Alloc(100, 8)

		before := a.Offset()
		cp := a.Checkpoint()
		assert.Equal(t, before, cp.Offset())
		assert.Same(t, a, cp.Arena())

		a.Alloc(n, 8)
		cp.End()

		assert.Equal(t, before, a.Offset(), "n=%d", n)
		assert.Equal(t, 0, a.PrevOffset(), "n=%d", n)
	}
}

func TestCheckpoint_Nested(t *testing.T) {
	a := newTestArena(t, 1<<20, 0)

	outer := a.Checkpoint()
	a.Alloc(64, 8)
	mid := a.Offset()

	inner := a.Checkpoint()
	a.Alloc(128, 8)
	require.Equal(t, 2, a.OpenCheckpoints())

	inner.End()
	assert.Equal(t, mid, a.Offset())

	outer.End()
	assert.Equal(t, 0, a.Offset())
}

func TestCheckpoint_ResizeAfterEnd(t *testing.T) {
	a := newTestArena(t, 1<<20, 0)

	b := a.Alloc(16, 8)
	cp := a.Checkpoint()
	a.Alloc(32, 8)
	cp.End()

	// The allocation made before the checkpoint is the most recent again.
	grown := a.Resize(b, 64, 8)
	assert.Same(t, &b[0], &grown[0])
}

func TestCheckpoint_OutOfOrder(t *testing.T) {
	t.Run("outer before inner", func(t *testing.T) {
		a := newTestArena(t, 1<<20, 0)
		outer := a.Checkpoint()
		inner := a.Checkpoint()

		requirePanicIs(t, ErrCheckpointOrder, func() { outer.End() })
		inner.End()
		outer.End()
	})

	t.Run("double end", func(t *testing.T) {
		a := newTestArena(t, 1<<20, 0)
		first := a.Checkpoint()
		first.End()
		second := a.Checkpoint()

		requirePanicIs(t, ErrCheckpointOrder, func() { first.End() })
		second.End()
	})

	t.Run("after free all", func(t *testing.T) {
		a := newTestArena(t, 1<<20, 0)
		cp := a.Checkpoint()
		a.FreeAll()

		requirePanicIs(t, ErrCheckpointOrder, func() { cp.End() })
	})

	t.Run("zero value", func(t *testing.T) {
		requirePanicIs(t, ErrCheckpointOrder, func() { Checkpoint{}.End() })
	})
}
