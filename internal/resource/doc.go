// Package resource implements the commit budget shared by all arenas of a Core.
//
// Arenas reserve address space freely but ask the Controller before
// committing physical memory. The Controller tracks committed bytes and,
// when a limit is configured, refuses commits that would exceed it:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 512 << 20,
//	})
//
//	if err := rc.AcquireMemory(64 << 10); err != nil {
//	    // ErrMemoryLimitExceeded - the arena treats this as fatal
//	}
//	defer rc.ReleaseMemory(64 << 10)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use, so scratch pools on
// worker goroutines may share one budget with the update loop.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
