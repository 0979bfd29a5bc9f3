package arena

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// requirePanicIs fails the test unless fn panics with an error matching target.
func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v is not %v", err, target)
	}()
	fn()
}

func newTestArena(t *testing.T, reserve, commit int, opts ...Option) *Arena {
	t.Helper()
	a, err := New(reserve, commit, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Release() })
	return a
}
