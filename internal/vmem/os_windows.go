//go:build windows

package vmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func osReserve(size int) ([]byte, osOps, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, osOps{}, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size) //nolint:gosec // unsafe is required for reserved memory

	return data, osOps{
		commit: osCommit,
		release: func(_ []byte) error {
			// MEM_RELEASE frees the whole reservation; size must be 0.
			return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
		},
	}, nil
}

func osCommit(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0])) //nolint:gosec // unsafe is required for reserved memory
	_, err := windows.VirtualAlloc(addr, uintptr(len(data)), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}
