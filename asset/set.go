package asset

// Handle identifies a registered asset. The zero Handle means "none".
type Handle uint32

// MaxPerEntity is the number of handles a Set can hold.
const MaxPerEntity = 4

// Set is a fixed-capacity, pointer-free set of handles, suitable for
// embedding in arena-backed records.
type Set struct {
	handles [MaxPerEntity]Handle
}

// Add inserts h. It reports false if h is the zero handle or the set is full.
// Adding a handle already present is a no-op that reports true.
func (s *Set) Add(h Handle) bool {
	if h == 0 {
		return false
	}
	free := -1
	for i, x := range s.handles {
		if x == h {
			return true
		}
		if x == 0 && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return false
	}
	s.handles[free] = h
	return true
}

// Remove deletes h and reports whether it was present.
func (s *Set) Remove(h Handle) bool {
	if h == 0 {
		return false
	}
	for i, x := range s.handles {
		if x == h {
			s.handles[i] = 0
			return true
		}
	}
	return false
}

// Has reports whether h is in the set.
func (s *Set) Has(h Handle) bool {
	if h == 0 {
		return false
	}
	for _, x := range s.handles {
		if x == h {
			return true
		}
	}
	return false
}

// Len returns the number of handles.
func (s *Set) Len() int {
	n := 0
	for _, x := range s.handles {
		if x != 0 {
			n++
		}
	}
	return n
}

// Each calls fn for every handle in slot order.
func (s *Set) Each(fn func(Handle)) {
	for _, x := range s.handles {
		if x != 0 {
			fn(x)
		}
	}
}

// Clear removes every handle.
func (s *Set) Clear() {
	s.handles = [MaxPerEntity]Handle{}
}
