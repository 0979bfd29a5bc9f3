package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vec3 struct {
	X, Y, Z float32
}

type record struct {
	ID    uint64
	Pos   vec3
	Flags [4]byte
}

type withPointer struct {
	Name string
}

func TestMake(t *testing.T) {
	a := newTestArena(t, 1<<20, 0)
	a.Alloc(1, 1)

	r := Make[record](a)
	require.NotNil(t, r)
	assert.Zero(t, uintptr(unsafe.Pointer(r))%unsafe.Alignof(*r))
	assert.Equal(t, record{}, *r)

	r.ID = 7
	r.Pos.Y = 2
	assert.Equal(t, uint64(7), r.ID)

	type empty struct{}
	assert.NotNil(t, Make[empty](a))
}

func TestMakeSlice(t *testing.T) {
	a := newTestArena(t, 1<<20, 0)

	xs := MakeSlice[uint32](a, 10)
	require.Len(t, xs, 10)
	for i := range xs {
		xs[i] = uint32(i)
	}
	assert.Equal(t, uint32(9), xs[9])
	assert.Nil(t, MakeSlice[uint32](a, 0))

	cp := CopySlice(a, []vec3{{1, 2, 3}, {4, 5, 6}})
	assert.Equal(t, []vec3{{1, 2, 3}, {4, 5, 6}}, cp)
}

func TestBytesAndString(t *testing.T) {
	a := newTestArena(t, 1<<20, 0)

	b := Bytes(a, []byte("payload"))
	assert.True(t, a.Contains(b))
	assert.Equal(t, "payload", string(b))
	assert.Nil(t, Bytes(a, nil))

	s := String(a, "entity-name")
	assert.Equal(t, "entity-name", s)
	assert.Equal(t, "", String(a, ""))
}

func TestSliceOfAndBytesOf(t *testing.T) {
	a := newTestArena(t, 1<<20, 0)

	raw := a.Alloc(3*int(unsafe.Sizeof(vec3{})), 4)
	vs := SliceOf[vec3](raw)
	require.Len(t, vs, 3)
	vs[2].Z = 9

	back := BytesOf(vs)
	assert.Len(t, back, len(raw))
	assert.Same(t, &raw[0], &back[0])

	assert.Nil(t, SliceOf[vec3](raw[:1]))
	assert.Nil(t, BytesOf[vec3](nil))

	misaligned := a.Alloc(16, 8)[1:]
	requirePanicIs(t, ErrAlignment, func() { SliceOf[uint64](misaligned) })
}

func TestPointerFree(t *testing.T) {
	assert.True(t, PointerFree[record]())
	assert.True(t, PointerFree[[8]float32]())
	assert.False(t, PointerFree[withPointer]())
	assert.False(t, PointerFree[[]byte]())
	assert.False(t, PointerFree[*int]())
	assert.False(t, PointerFree[[2]any]())

	a := newTestArena(t, 1<<20, 0)
	requirePanicIs(t, ErrPointerType, func() { Make[withPointer](a) })
	requirePanicIs(t, ErrPointerType, func() { MakeSlice[map[int]int](a, 2) })
}
