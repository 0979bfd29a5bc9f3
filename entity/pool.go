package entity

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/buffer"
)

// Stats describes the pool.
type Stats struct {
	Slots       int // base records ever created
	Live        int // live entities, pending ones included
	Pending     int // live entities flagged for destruction
	FreeSlots   int // slots waiting for reuse
	Cameras     TableStats
	Players     TableStats
	PointLights TableStats
}

// Pool owns entities and their side records.
type Pool struct {
	mem      *arena.Arena
	entities *buffer.Buffer[Entity]
	free     *buffer.Buffer[uint32]

	cameras *table[Camera]
	players *table[Player]
	lights  *table[PointLight]
	tables  [kindCount]sideTable

	live    int
	release ReleaseFunc
	bones   BoneResolver
	logger  *slog.Logger

	// CommitDestroy scratch state, kept to avoid per-frame allocation.
	marks *bitset.BitSet
	seen  *bitset.BitSet
	path  []uint32
}

// NewPool creates an empty pool.
func NewPool(opts ...Option) (*Pool, error) {
	o := options{reserve: DefaultReserve}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reserve <= 0 {
		o.reserve = DefaultReserve
	}

	p := &Pool{
		free:    buffer.New[uint32](nil, 0),
		release: o.release,
		bones:   o.bones,
		logger:  o.logger,
		marks:   bitset.New(0),
		seen:    bitset.New(0),
	}

	newArena := func(name string, reserve int) (*arena.Arena, error) {
		aopts := append(slices.Clone(o.arenaOpts), arena.WithName(name))
		return arena.New(reserve, o.commitBytes, aopts...)
	}

	var err error
	if p.mem, err = newArena("entities", o.reserve); err != nil {
		return nil, err
	}
	side := max(o.reserve/4, 1<<20)

	cameras, err := newArena("cameras", side)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	p.cameras = newTable(cameras, defaultCamera)
	p.tables[KindCamera] = p.cameras

	players, err := newArena("players", side)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	p.players = newTable(players, defaultPlayer)
	p.tables[KindPlayer] = p.players

	lights, err := newArena("point-lights", side)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	p.lights = newTable(lights, defaultPointLight)
	p.tables[KindPointLight] = p.lights

	// The base array is the only allocation in its arena, so growth is
	// always in place and entity pointers stay valid.
	p.entities = buffer.New[Entity](p.mem, 0)
	return p, nil
}

// NewEntity returns a live entity with default fields and its key.
// Freed slots are reused most recently freed first.
func (p *Pool) NewEntity() (*Entity, Key) {
	var e *Entity
	if slot, ok := p.free.Pop(); ok {
		e = p.entities.At(int(slot))
	} else {
		n := p.entities.Len()
		if uint64(n) >= math.MaxUint32 {
			panic(fmt.Errorf("%w: entity slots exhausted", arena.ErrExhausted))
		}
		p.entities.Append(Entity{})
		e = p.entities.At(n)
		e.slot = uint32(n)
	}
	e.reset()
	p.live++
	return e, e.Key()
}

// NewCamera creates an entity with a default camera record.
func (p *Pool) NewCamera() (*Entity, *Camera, Key) {
	e, key := p.NewEntity()
	id, c := p.cameras.add(key)
	e.kind, e.derivedID = KindCamera, id
	return e, c, key
}

// NewPlayer creates an entity with a default player record.
func (p *Pool) NewPlayer() (*Entity, *Player, Key) {
	e, key := p.NewEntity()
	id, pl := p.players.add(key)
	e.kind, e.derivedID = KindPlayer, id
	return e, pl, key
}

// NewPointLight creates an entity with a default point-light record.
func (p *Pool) NewPointLight() (*Entity, *PointLight, Key) {
	e, key := p.NewEntity()
	id, l := p.lights.add(key)
	e.kind, e.derivedID = KindPointLight, id
	return e, l, key
}

// Lookup returns the entity for key if the key is still valid.
// Entities flagged for destruction stay valid until CommitDestroy.
func (p *Pool) Lookup(key Key) (*Entity, bool) {
	if int64(key.Slot) >= int64(p.entities.Len()) {
		return nil, false
	}
	e := p.entities.At(int(key.Slot))
	if e.gen != key.Gen || !e.live() {
		return nil, false
	}
	return e, true
}

// KeyOf returns the key of e.
func (p *Pool) KeyOf(e *Entity) Key {
	return e.Key()
}

// Camera returns the camera record of key.
func (p *Pool) Camera(key Key) (*Camera, bool) {
	e, ok := p.Lookup(key)
	if !ok || e.kind != KindCamera {
		return nil, false
	}
	return p.cameras.get(e.derivedID), true
}

// Player returns the player record of key.
func (p *Pool) Player(key Key) (*Player, bool) {
	e, ok := p.Lookup(key)
	if !ok || e.kind != KindPlayer {
		return nil, false
	}
	return p.players.get(e.derivedID), true
}

// PointLight returns the point-light record of key.
func (p *Pool) PointLight(key Key) (*PointLight, bool) {
	e, ok := p.Lookup(key)
	if !ok || e.kind != KindPointLight {
		return nil, false
	}
	return p.lights.get(e.derivedID), true
}

// Destroy flags key for destruction by the next CommitDestroy.
// It reports false for stale keys.
func (p *Pool) Destroy(key Key) bool {
	e, ok := p.Lookup(key)
	if !ok {
		return false
	}
	e.Flags |= FlagPendingDestroy
	return true
}

// CommitDestroy destroys every live entity that is flagged or mounted,
// directly or transitively, under a flagged entity. For each one, in slot
// order, it runs the release callback, reclaims the side record, bumps the
// generation and frees the slot. It returns the number destroyed.
//
// CommitDestroy must not run while iterating the pool.
func (p *Pool) CommitDestroy() int {
	n := p.entities.Len()
	p.marks.ClearAll()
	p.seen.ClearAll()

	for slot := 0; slot < n; slot++ {
		if p.entities.At(slot).live() {
			p.resolveDoomed(uint32(slot), n) //nolint:gosec // slot < n <= MaxUint32
		}
	}

	destroyed := 0
	for i, ok := p.marks.NextSet(0); ok; i, ok = p.marks.NextSet(i + 1) {
		e := p.entities.At(int(i))
		if p.release != nil {
			p.release(e.Key(), e)
		}
		if t := p.tables[e.kind]; t != nil {
			t.reclaim(e.derivedID)
		}
		e.gen++
		e.Flags = FlagDestroyed
		e.kind, e.derivedID = KindNone, 0
		p.free.Append(e.slot)
		destroyed++
	}
	p.live -= destroyed

	if destroyed > 0 && p.logger != nil {
		p.logger.Debug("entities destroyed",
			slog.Int("destroyed", destroyed),
			slog.Int("live", p.live),
			slog.Int("free", p.free.Len()),
		)
	}
	return destroyed
}

// resolveDoomed walks the mount chain of slot until it finds a flagged
// entity, an already resolved entity or the root, and records the outcome
// for every entity on the way.
func (p *Pool) resolveDoomed(slot uint32, limit int) {
	path := p.path[:0]
	doomed := false

	for cur := slot; ; {
		if p.seen.Test(uint(cur)) {
			doomed = p.marks.Test(uint(cur))
			break
		}
		path = append(path, cur)
		if len(path) > limit {
			panic(fmt.Errorf("%w: entity %d", ErrMountCycle, slot))
		}
		e := p.entities.At(int(cur))
		if e.Flags.Has(FlagPendingDestroy) {
			doomed = true
			break
		}
		parent, ok := p.Lookup(e.MountKey)
		if !ok {
			break
		}
		cur = parent.slot
	}

	for _, s := range path {
		p.seen.Set(uint(s))
		if doomed {
			p.marks.Set(uint(s))
		}
	}
	p.path = path
}

// Len returns the number of slots, free ones included.
func (p *Pool) Len() int { return p.entities.Len() }

// Live returns the number of live entities.
func (p *Pool) Live() int { return p.live }

// FreeSlots returns the free list, next reused slot last.
func (p *Pool) FreeSlots() []uint32 {
	return slices.Clone(p.free.Slice())
}

// Stats returns pool statistics.
func (p *Pool) Stats() Stats {
	pending := 0
	for _, e := range p.entities.Slice() {
		if e.live() && e.Flags.Has(FlagPendingDestroy) {
			pending++
		}
	}
	return Stats{
		Slots:       p.entities.Len(),
		Live:        p.live,
		Pending:     pending,
		FreeSlots:   p.free.Len(),
		Cameras:     p.cameras.stats(),
		Players:     p.players.stats(),
		PointLights: p.lights.stats(),
	}
}

// Arenas returns the arenas backing the pool.
func (p *Pool) Arenas() []*arena.Arena {
	out := []*arena.Arena{p.mem}
	for _, t := range p.tables {
		if t != nil {
			out = append(out, t.arena())
		}
	}
	return out
}

// Close releases the pool's memory. The pool and every entity pointer
// obtained from it are unusable afterwards.
func (p *Pool) Close() error {
	var errs []error
	for _, a := range p.Arenas() {
		if a != nil {
			errs = append(errs, a.Release())
		}
	}
	p.entities = nil
	p.free.Free()
	p.live = 0
	return errors.Join(errs...)
}
