package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/enginecore/xform"
)

func place(e *Entity, pos xform.Vec3, angle float32) {
	e.Local = xform.Transform{
		Position: pos,
		Rotation: xform.AxisAngle(xform.Vec3{Y: 1}, angle),
		Scale:    xform.One,
	}
}

func TestMount_PreservesWorldPose(t *testing.T) {
	p := newTestPool(t)

	parent, pk := p.NewEntity()
	place(parent, xform.Vec3{X: 10, Y: 2}, math.Pi/3)
	parent.Local.Scale = xform.Vec3{X: 2, Y: 2, Z: 2}

	child, ck := p.NewEntity()
	place(child, xform.Vec3{X: 1, Y: 2, Z: 3}, 0.25)

	before, ok := p.WorldTransform(ck)
	require.True(t, ok)

	require.NoError(t, p.Mount(ck, pk, 0))
	assert.Equal(t, pk, child.MountKey)

	after := p.ComputeWorldTransform(child)
	assert.True(t, after.ApproxEqual(before, xform.Epsilon), "before %v after %v", before, after)
	assert.False(t, child.Local.ApproxEqual(before, xform.Epsilon), "local is now parent-relative")

	// Moving the parent moves the child.
	parent.Local.Position.X += 5
	moved, _ := p.WorldTransform(ck)
	assert.InDelta(t, before.Position.X+5, moved.Position.X, 1e-3)

	require.NoError(t, p.Unmount(ck))
	assert.False(t, child.Mounted())
	assert.True(t, child.Local.ApproxEqual(moved, xform.Epsilon))
}

func TestMount_PreservesWorldPoseUnderNonUniformScale(t *testing.T) {
	stretched := xform.Transform{
		Position: xform.Vec3{X: 1},
		Rotation: xform.AxisAngle(xform.Vec3{Z: 1}, math.Pi/4),
		Scale:    xform.Vec3{X: 2, Y: 1, Z: 1},
	}

	tests := []struct {
		name  string
		chain []xform.Transform // root first
		child xform.Transform
	}{
		{
			name:  "rotated root parent",
			chain: []xform.Transform{stretched},
			child: xform.Transform{Position: xform.Vec3{X: 3, Y: 1}, Rotation: xform.IdentityQuat, Scale: xform.One},
		},
		{
			name: "nested parents",
			chain: []xform.Transform{
				stretched,
				{Position: xform.Vec3{Y: 2, Z: -1}, Rotation: xform.AxisAngle(xform.Vec3{X: 1, Y: 1}, 0.9), Scale: xform.Vec3{X: 1, Y: 3, Z: 0.5}},
				{Position: xform.Vec3{X: -1}, Rotation: xform.AxisAngle(xform.Vec3{Y: 1}, -0.4), Scale: xform.Vec3{X: 0.5, Y: 0.5, Z: 2}},
			},
			child: xform.Transform{Position: xform.Vec3{X: 4, Y: -2, Z: 6}, Rotation: xform.AxisAngle(xform.Vec3{Z: 1}, 1.3), Scale: xform.One},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPool(t)

			parent := Nil
			for _, local := range tt.chain {
				e, k := p.NewEntity()
				e.Local = local
				e.MountKey = parent
				parent = k
			}

			child, ck := p.NewEntity()
			child.Local = tt.child

			before, ok := p.WorldTransform(ck)
			require.True(t, ok)

			require.NoError(t, p.Mount(ck, parent, 0))
			after := p.ComputeWorldTransform(child)
			assert.True(t, after.Position.ApproxEqual(before.Position, 1e-3), "before %v after %v", before.Position, after.Position)
			assert.True(t, after.Rotation.ApproxEqual(before.Rotation, 1e-3), "before %v after %v", before.Rotation, after.Rotation)

			require.NoError(t, p.Unmount(ck))
			assert.True(t, child.Local.Position.ApproxEqual(before.Position, 1e-3), "unmounted %v", child.Local.Position)
		})
	}
}

func TestMount_Reparent(t *testing.T) {
	p := newTestPool(t)

	a, ak := p.NewEntity()
	place(a, xform.Vec3{X: -3}, 1)
	b, bk := p.NewEntity()
	place(b, xform.Vec3{Z: 8}, -0.5)
	_, ck := p.NewEntity()

	require.NoError(t, p.Mount(ck, ak, 0))
	before, _ := p.WorldTransform(ck)

	require.NoError(t, p.Mount(ck, bk, 0))
	after, _ := p.WorldTransform(ck)
	assert.True(t, after.ApproxEqual(before, xform.Epsilon))

	var children []Key
	for k := range p.Children(bk) {
		children = append(children, k)
	}
	assert.Equal(t, []Key{ck}, children)
	for range p.Children(ak) {
		t.Fatal("a has no children any more")
	}
}

func TestMount_RejectsCycles(t *testing.T) {
	p := newTestPool(t)

	_, a := p.NewEntity()
	_, b := p.NewEntity()
	_, c := p.NewEntity()
	require.NoError(t, p.Mount(b, a, 0))
	require.NoError(t, p.Mount(c, b, 0))

	assert.ErrorIs(t, p.Mount(a, a, 0), ErrMountCycle)
	assert.ErrorIs(t, p.Mount(a, c, 0), ErrMountCycle)
	assert.ErrorIs(t, p.Mount(a, b, 0), ErrMountCycle)

	ea, _ := p.Lookup(a)
	assert.False(t, ea.Mounted())
}

func TestMount_StaleKeys(t *testing.T) {
	p := newTestPool(t)

	_, a := p.NewEntity()
	_, b := p.NewEntity()
	p.Destroy(b)
	p.CommitDestroy()

	assert.ErrorIs(t, p.Mount(a, b, 0), ErrStaleKey)
	assert.ErrorIs(t, p.Mount(b, a, 0), ErrStaleKey)
	assert.ErrorIs(t, p.Unmount(b), ErrStaleKey)

	_, ok := p.WorldTransform(b)
	assert.False(t, ok)
}

func TestWorldTransform_StopsAtDestroyedParent(t *testing.T) {
	p := newTestPool(t)

	parent, pk := p.NewEntity()
	place(parent, xform.Vec3{X: 100}, 0)
	child, ck := p.NewEntity()
	require.NoError(t, p.Mount(ck, pk, 0))

	// A stale mount key ends the walk: the child's local is used as world.
	child.MountKey = Key{Slot: pk.Slot, Gen: pk.Gen + 1}
	w, ok := p.WorldTransform(ck)
	require.True(t, ok)
	assert.Equal(t, child.Local, w)
}

func TestWorldTransform_PanicsOnCycle(t *testing.T) {
	p := newTestPool(t)

	a, ak := p.NewEntity()
	b, bk := p.NewEntity()
	a.MountKey = bk
	b.MountKey = ak

	assert.PanicsWithError(t, ErrMountCycle.Error()+": walking from "+ak.String(), func() {
		p.ComputeWorldTransform(a)
	})
}

func TestMount_Bones(t *testing.T) {
	hand := xform.Transform{Position: xform.Vec3{X: 0.5, Y: 1.5}, Rotation: xform.IdentityQuat, Scale: xform.One}
	var asked []BoneID
	p := newTestPool(t, WithBoneResolver(BoneResolverFunc(func(_ Key, bone BoneID) xform.Transform {
		asked = append(asked, bone)
		return hand
	})))

	_, pk := p.NewEntity()
	sword, sk := p.NewEntity()

	require.NoError(t, p.Mount(sk, pk, 7))
	assert.Equal(t, BoneID(7), sword.MountBone)

	// The sword stays where it was; its local is relative to the bone.
	w, _ := p.WorldTransform(sk)
	assert.True(t, w.ApproxEqual(xform.Identity(), xform.Epsilon))
	assert.True(t, sword.Local.Position.ApproxEqual(xform.Vec3{X: -0.5, Y: -1.5}, xform.Epsilon))
	assert.Contains(t, asked, BoneID(7))

	// Bone zero never consults the resolver.
	asked = nil
	require.NoError(t, p.Mount(sk, pk, 0))
	assert.NotContains(t, asked, BoneID(0))
	w, _ = p.WorldTransform(sk)
	assert.True(t, w.ApproxEqual(xform.Identity(), xform.Epsilon))
}
