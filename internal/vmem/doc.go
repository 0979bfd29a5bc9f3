// Package vmem reserves and commits virtual memory outside the Go heap.
//
// # Overview
//
// A Region is a contiguous range of address space obtained with Reserve.
// Reserving costs no physical memory; pages become usable only after Commit.
// This lets an allocator claim a generous range up front and grow into it
// without ever moving previously returned addresses.
//
//	r, err := vmem.Reserve(64 << 20)
//	if err != nil { ... }
//	defer r.Release()
//
//	// Make the first 64 KiB readable and writable.
//	if err := r.Commit(0, 64<<10); err != nil { ... }
//	data := r.Bytes()[:64<<10]
//
// # Platform Support
//
//   - Unix: mmap(2) with PROT_NONE, then mprotect(2) to commit
//   - Windows: VirtualAlloc with MEM_RESERVE, then MEM_COMMIT
//   - Other platforms: a heap-backed fallback where Commit is a no-op
//
// # Thread Safety
//
// Commit may be called from one goroutine at a time. Release is idempotent.
// Callers must not touch Bytes() after Release returns.
package vmem
