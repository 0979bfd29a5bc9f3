package arena

import "errors"

var (
	// ErrExhausted is raised when an allocation would run past the reserved range.
	ErrExhausted = errors.New("arena: reserved range exhausted")
	// ErrCommit is raised when committing memory fails or the budget refuses it.
	ErrCommit = errors.New("arena: commit failed")
	// ErrAlignment is raised for alignments that are not a power of two.
	ErrAlignment = errors.New("arena: alignment must be a power of two")
	// ErrInvalidSize is raised for negative sizes.
	ErrInvalidSize = errors.New("arena: invalid size")
	// ErrReleased is raised when using an arena after Release.
	ErrReleased = errors.New("arena: use after release")
	// ErrCheckpointOrder is raised when checkpoints are not ended in LIFO order.
	ErrCheckpointOrder = errors.New("arena: checkpoint ended out of order")
	// ErrScratchExhausted is raised when every pooled arena is excluded.
	ErrScratchExhausted = errors.New("arena: no scratch arena available")
	// ErrPointerType is raised when a type holding Go pointers is placed in an arena.
	ErrPointerType = errors.New("arena: type contains pointers")
)
