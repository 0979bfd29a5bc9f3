package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	opts = append([]Option{WithReserve(4 << 20)}, opts...)
	p, err := NewPool(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}
