package entity

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/enginecore/xform"
)

// Mount attaches key to bone of parent, keeping its world transform.
// The new local transform is currentWorld expressed relative to the
// parent's world transform.
// A Nil parent unmounts.
//
// Mount returns ErrStaleKey if either key is invalid and ErrMountCycle if
// parent is key itself or mounted beneath it.
func (p *Pool) Mount(key, parent Key, bone BoneID) error {
	e, ok := p.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrStaleKey, key)
	}

	world := p.ComputeWorldTransform(e)
	local := world
	if !parent.IsNil() {
		pe, ok := p.Lookup(parent)
		if !ok {
			return fmt.Errorf("%w: mount parent %s", ErrStaleKey, parent)
		}
		if p.isAncestorOrSelf(key, pe) {
			return fmt.Errorf("%w: %s under %s", ErrMountCycle, key, parent)
		}
		local = p.localUnder(pe, bone, world)
	} else {
		bone = 0
	}

	e.Local = local
	e.MountKey = parent
	e.MountBone = bone

	if p.logger != nil {
		p.logger.Debug("entity mounted",
			slog.String("entity", key.String()),
			slog.String("parent", parent.String()),
			slog.Uint64("bone", uint64(bone)),
		)
	}
	return nil
}

// Unmount detaches key from its parent, keeping its world transform.
func (p *Pool) Unmount(key Key) error {
	return p.Mount(key, Nil, 0)
}

// WorldTransform returns the world transform of key.
func (p *Pool) WorldTransform(key Key) (xform.Transform, bool) {
	e, ok := p.Lookup(key)
	if !ok {
		return xform.Transform{}, false
	}
	return p.ComputeWorldTransform(e), true
}

// ComputeWorldTransform composes local transforms up the mount chain of e.
// The walk stops at an unmounted entity or at a stale mount key. It panics
// with ErrMountCycle if the chain is longer than the pool, which only a
// direct write to MountKey can cause.
func (p *Pool) ComputeWorldTransform(e *Entity) xform.Transform {
	world := e.Local
	limit := p.entities.Len()

	for cur, steps := e, 0; ; steps++ {
		if steps > limit {
			panic(fmt.Errorf("%w: walking from %s", ErrMountCycle, e.Key()))
		}
		parent, ok := p.Lookup(cur.MountKey)
		if !ok {
			return world
		}
		world = parent.Local.Mul(p.boneTransform(cur.MountKey, cur.MountBone).Mul(world))
		cur = parent
	}
}

// isAncestorOrSelf reports whether key is e or one of e's mount ancestors.
func (p *Pool) isAncestorOrSelf(key Key, e *Entity) bool {
	limit := p.entities.Len()
	for steps := 0; steps <= limit; steps++ {
		if e.Key() == key {
			return true
		}
		parent, ok := p.Lookup(e.MountKey)
		if !ok {
			return false
		}
		e = parent
	}
	panic(fmt.Errorf("%w: walking from %s", ErrMountCycle, e.Key()))
}

// localUnder returns the local transform that places a child of parent's
// bone at world. The mount chain is peeled from the root down, mirroring the
// fold in ComputeWorldTransform, so the pose survives non-uniform scale.
func (p *Pool) localUnder(parent *Entity, bone BoneID, world xform.Transform) xform.Transform {
	var stack [16]xform.Transform
	chain := append(stack[:0], p.boneTransform(parent.Key(), bone), parent.Local)

	limit := p.entities.Len()
	for cur, steps := parent, 0; ; steps++ {
		if steps > limit {
			panic(fmt.Errorf("%w: walking from %s", ErrMountCycle, parent.Key()))
		}
		up, ok := p.Lookup(cur.MountKey)
		if !ok {
			break
		}
		chain = append(chain, p.boneTransform(cur.MountKey, cur.MountBone), up.Local)
		cur = up
	}

	for i := len(chain) - 1; i >= 0; i-- {
		world = chain[i].Relative(world)
	}
	return world
}

func (p *Pool) boneTransform(parent Key, bone BoneID) xform.Transform {
	if bone == 0 || p.bones == nil {
		return xform.Identity()
	}
	return p.bones.BoneTransform(parent, bone)
}
