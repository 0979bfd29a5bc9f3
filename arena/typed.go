package arena

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Make allocates a zeroed T inside the arena.
// T must not contain Go pointers; see SliceOf.
func Make[T any](a *Arena) *T {
	mustBePointerFree[T]()
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T)
	}
	b := a.Alloc(size, int(unsafe.Alignof(zero)))
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // unsafe is required for arena implementation
}

// MakeSlice allocates a zeroed slice of n elements inside the arena.
// Returns nil if n <= 0.
func MakeSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	mustBePointerFree[T]()
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return make([]T, n)
	}
	b := a.Alloc(size*n, int(unsafe.Alignof(zero)))
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n) //nolint:gosec // unsafe is required for arena implementation
}

// CopySlice copies src into a new arena-backed slice.
func CopySlice[T any](a *Arena, src []T) []T {
	dst := MakeSlice[T](a, len(src))
	copy(dst, src)
	return dst
}

// Bytes copies src into the arena.
func Bytes(a *Arena, src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	dst := a.Alloc(len(src), 1)
	copy(dst, src)
	return dst
}

// String copies s into the arena and returns a string viewing the copy.
// The result is valid until the arena is rewound past it.
func String(a *Arena, s string) string {
	if s == "" {
		return ""
	}
	b := a.Alloc(len(s), 1)
	copy(b, s)
	return unsafe.String(unsafe.SliceData(b), len(b)) //nolint:gosec // unsafe is required for arena implementation
}

// SliceOf reinterprets b as a []T of len(b)/sizeof(T) elements.
// It panics if b is misaligned for T or T contains Go pointers, since
// memory outside the Go heap is invisible to the garbage collector.
func SliceOf[T any](b []byte) []T {
	mustBePointerFree[T]()
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 || len(b) < size {
		return nil
	}
	p := unsafe.Pointer(unsafe.SliceData(b)) //nolint:gosec // unsafe is required for arena implementation
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		panic(fmt.Errorf("%w: %T needs %d-byte alignment", ErrAlignment, zero, unsafe.Alignof(zero)))
	}
	return unsafe.Slice((*T)(p), len(b)/size)
}

// BytesOf returns the bytes backing the full capacity of s.
func BytesOf[T any](s []T) []byte {
	if cap(s) == 0 {
		return nil
	}
	var zero T
	n := cap(s) * int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), n) //nolint:gosec // unsafe is required for arena implementation
}

var pointerFree sync.Map // reflect.Type -> bool

// PointerFree reports whether T can live in arena memory.
func PointerFree[T any]() bool {
	t := reflect.TypeFor[T]()
	if v, ok := pointerFree.Load(t); ok {
		return v.(bool)
	}
	ok := !hasPointers(t)
	pointerFree.Store(t, ok)
	return ok
}

func mustBePointerFree[T any]() {
	if !PointerFree[T]() {
		panic(fmt.Errorf("%w: %s", ErrPointerType, reflect.TypeFor[T]()))
	}
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
