package entity

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/buffer"
	"github.com/hupe1980/enginecore/xform"
)

// Camera is the side record of KindCamera entities.
type Camera struct {
	Owner  Key
	FOV    float32 // vertical field of view in radians
	Near   float32
	Far    float32
	Aspect float32
	Active bool
}

// Player is the side record of KindPlayer entities.
type Player struct {
	Owner     Key
	Health    int32
	MaxHealth int32
	MoveSpeed float32
	Team      uint8
}

// PointLight is the side record of KindPointLight entities.
type PointLight struct {
	Owner     Key
	Color     xform.Vec3
	Intensity float32
	Radius    float32
}

func defaultCamera(owner Key) Camera {
	return Camera{Owner: owner, FOV: 1.0471976, Near: 0.1, Far: 1000, Aspect: 16.0 / 9.0}
}

func defaultPlayer(owner Key) Player {
	return Player{Owner: owner, Health: 100, MaxHealth: 100, MoveSpeed: 5}
}

func defaultPointLight(owner Key) PointLight {
	return PointLight{Owner: owner, Color: xform.One, Intensity: 1, Radius: 10}
}

// TableStats describes one side table.
type TableStats struct {
	Len  int // records ever appended
	Free int // records waiting for reuse
}

// sideTable is the kind-independent view of a side table, indexed by Kind.
type sideTable interface {
	reclaim(id uint32)
	stats() TableStats
	arena() *arena.Arena
}

// table is a dense side table. Reclaimed records are reused lowest index
// first; the table never shrinks, so issued indices stay valid.
type table[T any] struct {
	mem     *arena.Arena
	records *buffer.Buffer[T]
	free    *roaring.Bitmap
	init    func(owner Key) T
}

func newTable[T any](mem *arena.Arena, init func(Key) T) *table[T] {
	return &table[T]{
		mem:     mem,
		records: buffer.New[T](mem, 0),
		free:    roaring.New(),
		init:    init,
	}
}

func (t *table[T]) add(owner Key) (uint32, *T) {
	if !t.free.IsEmpty() {
		id := t.free.Minimum()
		t.free.Remove(id)
		r := t.records.At(int(id))
		*r = t.init(owner)
		return id, r
	}
	t.records.Append(t.init(owner))
	id := t.records.Len() - 1
	return uint32(id), t.records.At(id) //nolint:gosec // bounded by the arena reservation
}

func (t *table[T]) get(id uint32) *T {
	return t.records.At(int(id))
}

func (t *table[T]) reclaim(id uint32) {
	var zero T
	t.records.Set(int(id), zero)
	t.free.Add(id)
}

func (t *table[T]) stats() TableStats {
	return TableStats{Len: t.records.Len(), Free: int(t.free.GetCardinality())}
}

func (t *table[T]) arena() *arena.Arena { return t.mem }
