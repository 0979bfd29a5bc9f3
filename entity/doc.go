// Package entity implements the generation-indexed entity pool.
//
// Entities live in a pointer-stable, arena-backed array. A Key pairs a slot
// index with the slot's generation; Lookup is the only way to validate a key.
// Destroy only flags an entity. CommitDestroy, run once per update, destroys
// flagged entities together with everything mounted beneath them, bumps the
// slot generations and recycles the slots.
//
// Derived kinds (cameras, players, point lights) keep their data in
// per-kind side tables. The base record stores the kind tag and the index
// into that kind's table; the side record links back through its Owner key.
//
// A Pool is not safe for concurrent use.
package entity
