package arena

import "fmt"

// Checkpoint is a saved (offset, prevOffset) pair of one arena.
// Ending it rewinds every allocation made after it was taken.
type Checkpoint struct {
	arena      *Arena
	offset     int
	prevOffset int
	id         uint64
}

// Begin captures the current cursor of a. Equivalent to a.Checkpoint().
func Begin(a *Arena) Checkpoint {
	return a.Checkpoint()
}

// Checkpoint captures the current cursor.
// Checkpoints must be ended in reverse order of creation.
func (a *Arena) Checkpoint() Checkpoint {
	a.panicIfReleased()
	a.nextID++
	a.open = append(a.open, a.nextID)
	return Checkpoint{
		arena:      a,
		offset:     a.offset,
		prevOffset: a.prevOffset,
		id:         a.nextID,
	}
}

// OpenCheckpoints returns the number of checkpoints not yet ended.
func (a *Arena) OpenCheckpoints() int {
	return len(a.open)
}

// End restores the cursor saved by the checkpoint. It panics with
// ErrCheckpointOrder if c is not the innermost open checkpoint of its arena,
// which covers double ends and ends after FreeAll.
func (c Checkpoint) End() {
	a := c.arena
	if a == nil {
		panic(fmt.Errorf("%w: zero checkpoint", ErrCheckpointOrder))
	}
	a.panicIfReleased()

	n := len(a.open)
	if n == 0 || a.open[n-1] != c.id {
		panic(fmt.Errorf("%w: %s: checkpoint %d is not innermost (open: %d)",
			ErrCheckpointOrder, a.name, c.id, n))
	}
	a.open = a.open[:n-1]
	a.offset = c.offset
	a.prevOffset = c.prevOffset
}

// Arena returns the arena the checkpoint belongs to.
func (c Checkpoint) Arena() *Arena {
	return c.arena
}

// Offset returns the saved cursor.
func (c Checkpoint) Offset() int {
	return c.offset
}
