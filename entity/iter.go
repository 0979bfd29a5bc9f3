package entity

import "iter"

// FirstLive returns the key of the live entity with the lowest slot, or Nil.
func (p *Pool) FirstLive() Key {
	return p.scan(0, KindNone, false)
}

// NextLive returns the key of the next live entity after key's slot, or Nil.
// key itself need not be valid any more.
func (p *Pool) NextLive(key Key) Key {
	if key.IsNil() {
		return Nil
	}
	return p.scan(int(key.Slot)+1, KindNone, false)
}

// FirstLiveOf is FirstLive restricted to entities of kind k.
func (p *Pool) FirstLiveOf(k Kind) Key {
	return p.scan(0, k, true)
}

// NextLiveOf is NextLive restricted to entities of kind k.
func (p *Pool) NextLiveOf(k Kind, key Key) Key {
	if key.IsNil() {
		return Nil
	}
	return p.scan(int(key.Slot)+1, k, true)
}

func (p *Pool) scan(from int, k Kind, byKind bool) Key {
	for i := from; i < p.entities.Len(); i++ {
		e := p.entities.At(i)
		if e.live() && (!byKind || e.kind == k) {
			return e.Key()
		}
	}
	return Nil
}

// All yields live entities in ascending slot order. The sequence is a live
// view: entities created during iteration in higher slots are visited.
func (p *Pool) All() iter.Seq2[Key, *Entity] {
	return func(yield func(Key, *Entity) bool) {
		for k := p.FirstLive(); !k.IsNil(); k = p.NextLive(k) {
			if !yield(k, p.entities.At(int(k.Slot))) {
				return
			}
		}
	}
}

// Cameras yields live camera entities and their records.
func (p *Pool) Cameras() iter.Seq2[Key, *Camera] {
	return ofKind(p, KindCamera, p.cameras)
}

// Players yields live player entities and their records.
func (p *Pool) Players() iter.Seq2[Key, *Player] {
	return ofKind(p, KindPlayer, p.players)
}

// PointLights yields live point-light entities and their records.
func (p *Pool) PointLights() iter.Seq2[Key, *PointLight] {
	return ofKind(p, KindPointLight, p.lights)
}

func ofKind[T any](p *Pool, k Kind, t *table[T]) iter.Seq2[Key, *T] {
	return func(yield func(Key, *T) bool) {
		for key := p.FirstLiveOf(k); !key.IsNil(); key = p.NextLiveOf(k, key) {
			e := p.entities.At(int(key.Slot))
			if !yield(key, t.get(e.derivedID)) {
				return
			}
		}
	}
}

// Children yields the keys of live entities mounted directly on parent.
func (p *Pool) Children(parent Key) iter.Seq[Key] {
	return func(yield func(Key) bool) {
		if _, ok := p.Lookup(parent); !ok {
			return
		}
		for k, e := range p.All() {
			if e.MountKey == parent && !yield(k) {
				return
			}
		}
	}
}
