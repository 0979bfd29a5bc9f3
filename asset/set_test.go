package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	var s Set
	assert.False(t, s.Add(0))

	for h := Handle(1); h <= MaxPerEntity; h++ {
		assert.True(t, s.Add(h))
	}
	assert.True(t, s.Add(2), "duplicate add")
	assert.False(t, s.Add(9), "full")
	assert.Equal(t, MaxPerEntity, s.Len())

	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.False(t, s.Has(2))
	assert.True(t, s.Add(9))
	assert.True(t, s.Has(9))

	var seen []Handle
	s.Each(func(h Handle) { seen = append(seen, h) })
	assert.Equal(t, []Handle{1, 9, 3, 4}, seen)

	s.Clear()
	assert.Zero(t, s.Len())
}
