package entity

import "errors"

var (
	// ErrStaleKey is returned when a key does not refer to a live entity.
	ErrStaleKey = errors.New("entity: stale key")
	// ErrMountCycle is returned when a mount would make an entity its own
	// ancestor. Walks that find an existing cycle panic with it.
	ErrMountCycle = errors.New("entity: mount cycle")
)
