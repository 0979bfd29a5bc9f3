//go:build !unix && !windows

package vmem

// Platforms without a reserve/commit split get plain heap memory.
// Commit has nothing to do there.
func osReserve(size int) ([]byte, osOps, error) {
	return make([]byte, size), osOps{
		commit:  func([]byte) error { return nil },
		release: func([]byte) error { return nil },
	}, nil
}
