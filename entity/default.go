package entity

import "sync"

var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// Default returns the process-wide pool, creating it on first use.
// It panics if the pool cannot be created.
func Default() *Pool {
	defaultPoolOnce.Do(func() {
		p, err := NewPool()
		if err != nil {
			panic(err)
		}
		defaultPool = p
	})
	return defaultPool
}
