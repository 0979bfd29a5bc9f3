package vmem

import "errors"

var (
	// ErrInvalidSize is returned when a reservation size is not positive.
	ErrInvalidSize = errors.New("vmem: invalid size")
	// ErrOutOfBounds is returned when a commit range falls outside the region.
	ErrOutOfBounds = errors.New("vmem: out of bounds")
	// ErrReleased is returned when using a region after Release.
	ErrReleased = errors.New("vmem: region is released")
)
