// Package conv provides checked integer conversions and the alignment
// arithmetic shared by the allocators.
//
// Use cases:
//   - Validating untrusted sizes and counts read from blob headers
//   - Rounding cursors up to an alignment or a capacity up to a power of two
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, slot numbers below a reserved bound), use direct casts instead.
package conv
