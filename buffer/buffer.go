package buffer

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/internal/conv"
)

// Buffer is a growable sequence of T.
//
// Invariant: Len() <= Cap().
type Buffer[T any] struct {
	data  []T // len(data) == capacity
	n     int
	arena *arena.Arena
}

// New creates a buffer with room for capacity elements.
// A nil arena places the storage on the Go heap. Arena-backed buffers
// require a pointer-free T and panic with arena.ErrPointerType otherwise.
func New[T any](a *arena.Arena, capacity int) *Buffer[T] {
	if a != nil && !arena.PointerFree[T]() {
		var zero T
		panic(fmt.Errorf("%w: buffer of %T", arena.ErrPointerType, zero))
	}
	b := &Buffer[T]{arena: a}
	if capacity > 0 {
		b.grow(capacity)
	}
	return b
}

// Append adds v at the end, growing the storage if needed.
func (b *Buffer[T]) Append(v T) {
	if b.n == len(b.data) {
		b.grow(b.n + 1)
	}
	b.data[b.n] = v
	b.n++
}

// AppendSlice adds vs at the end.
func (b *Buffer[T]) AppendSlice(vs ...T) {
	if len(vs) == 0 {
		return
	}
	if need := b.n + len(vs); need > len(b.data) {
		b.grow(need)
	}
	b.n += copy(b.data[b.n:], vs)
}

// Pop removes and returns the last element. Storage is not reclaimed.
func (b *Buffer[T]) Pop() (T, bool) {
	var zero T
	if b.n == 0 {
		return zero, false
	}
	b.n--
	v := b.data[b.n]
	b.data[b.n] = zero
	return v, true
}

// At returns a pointer to element i. It panics if i is out of range.
// The pointer is invalidated by the next growth.
func (b *Buffer[T]) At(i int) *T {
	return &b.data[:b.n][i]
}

// Set overwrites element i. It panics if i is out of range.
func (b *Buffer[T]) Set(i int, v T) {
	b.data[:b.n][i] = v
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int { return b.n }

// Cap returns the number of elements the storage can hold without growing.
func (b *Buffer[T]) Cap() int { return len(b.data) }

// Slice returns the elements as a slice sharing the buffer's storage.
func (b *Buffer[T]) Slice() []T {
	return b.data[:b.n:b.n]
}

// Grow ensures room for n more elements.
func (b *Buffer[T]) Grow(n int) {
	if n < 0 {
		panic(fmt.Errorf("buffer: negative grow %d", n))
	}
	if need := b.n + n; need > len(b.data) {
		b.grow(need)
	}
}

// Truncate drops every element from index n onwards.
func (b *Buffer[T]) Truncate(n int) {
	if n < 0 || n > b.n {
		panic(fmt.Errorf("buffer: truncate %d out of range [0, %d]", n, b.n))
	}
	clear(b.data[n:b.n])
	b.n = n
}

// Reset empties the buffer and keeps its storage.
func (b *Buffer[T]) Reset() {
	b.Truncate(0)
}

// Free drops the storage. Heap storage becomes garbage; arena storage stays
// in the arena until it is rewound.
func (b *Buffer[T]) Free() {
	b.data = nil
	b.n = 0
}

// Arena returns the owning arena, or nil for heap-backed buffers.
func (b *Buffer[T]) Arena() *arena.Arena { return b.arena }

// grow resizes the storage to the next power of two >= need.
func (b *Buffer[T]) grow(need int) {
	newCap := conv.NextPowerOfTwo(need)

	var zero T
	size := int(unsafe.Sizeof(zero))
	if b.arena == nil || size == 0 {
		data := make([]T, newCap)
		copy(data, b.data[:b.n])
		b.data = data
		return
	}

	bytes, err := conv.MulInt(newCap, size)
	if err != nil {
		panic(fmt.Errorf("%w: buffer of %d x %d bytes", arena.ErrInvalidSize, newCap, size))
	}
	raw := b.arena.Resize(arena.BytesOf(b.data), bytes, int(unsafe.Alignof(zero)))
	b.data = arena.SliceOf[T](raw)
}
