// Package buffer provides growable contiguous sequences backed by an arena
// or by the Go heap.
//
// A Buffer grows to the next power of two when it overflows. When the buffer
// is the most recent allocation of its arena the growth happens in place, so
// appending in a loop costs amortized O(1) without a free list:
//
//	a := arena.MustNew(1<<20, 0)
//	ids := buffer.New[uint32](a, 0)
//	for i := range 1000 {
//		ids.Append(uint32(i))
//	}
//
// Arena-backed buffers must not outlive a FreeAll (or checkpoint End) of
// their arena.
package buffer
