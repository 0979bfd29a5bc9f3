package entity

import (
	"github.com/hupe1980/enginecore/asset"
	"github.com/hupe1980/enginecore/xform"
)

// Flags holds entity status bits.
type Flags uint32

const (
	// FlagDestroyed marks a free slot.
	FlagDestroyed Flags = 1 << iota
	// FlagPendingDestroy marks an entity CommitDestroy will destroy.
	FlagPendingDestroy
	// FlagVisible marks an entity the renderer should draw.
	FlagVisible
	// FlagCastShadows marks an entity that casts shadows.
	FlagCastShadows
)

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Kind selects the side table an entity's DerivedID indexes.
type Kind uint8

const (
	// KindNone is a plain entity without side data.
	KindNone Kind = iota
	KindCamera
	KindPlayer
	KindPointLight

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCamera:
		return "camera"
	case KindPlayer:
		return "player"
	case KindPointLight:
		return "point-light"
	default:
		return "unknown"
	}
}

// BoneID names an attachment point on a mount parent. Zero is the parent's
// origin.
type BoneID uint32

// Entity is the base record of every entity. It is pointer-free so it can
// live in arena memory.
//
// Fields are read and written directly after a successful Lookup.
type Entity struct {
	// Local is the transform relative to the mount parent.
	Local xform.Transform
	Flags Flags
	// Assets lists the asset handles released on destroy.
	Assets asset.Set
	// MountKey is the parent, or Nil when unmounted. Use Pool.Mount to change it.
	MountKey  Key
	MountBone BoneID

	slot      uint32
	gen       uint32
	kind      Kind
	derivedID uint32
}

// Key returns the handle of e.
func (e *Entity) Key() Key { return Key{Slot: e.slot, Gen: e.gen} }

// Kind returns the derived kind of e.
func (e *Entity) Kind() Kind { return e.kind }

// DerivedID returns the index of e's record in its kind's side table.
func (e *Entity) DerivedID() uint32 { return e.derivedID }

// Mounted reports whether e has a mount parent.
func (e *Entity) Mounted() bool { return !e.MountKey.IsNil() }

// AssetSet implements asset.Holder.
func (e *Entity) AssetSet() *asset.Set { return &e.Assets }

func (e *Entity) live() bool { return !e.Flags.Has(FlagDestroyed) }

func (e *Entity) reset() {
	*e = Entity{
		Local:    xform.Identity(),
		Flags:    FlagVisible,
		MountKey: Nil,
		slot:     e.slot,
		gen:      e.gen,
	}
}
