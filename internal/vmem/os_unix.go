//go:build unix

package vmem

import (
	"golang.org/x/sys/unix"
)

func osReserve(size int) ([]byte, osOps, error) {
	// PROT_NONE private mappings are not charged against the commit limit.
	data, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, osOps{}, err
	}
	return data, osOps{commit: osCommit, release: unix.Munmap}, nil
}

func osCommit(data []byte) error {
	return unix.Mprotect(data, unix.PROT_READ|unix.PROT_WRITE)
}
