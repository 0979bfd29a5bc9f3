// Package xform provides the rigid transforms used by the entity hierarchy.
//
// A Transform applies scale, then rotation, then translation. Composition and
// inversion are exact for uniform scale; with non-uniform scale under
// rotation the result is the closest TRS approximation.
package xform

import "math"

// Epsilon is the default tolerance of the ApproxEqual helpers.
const Epsilon = 1e-4

// Vec3 is a 3-component vector.
type Vec3 struct {
	X, Y, Z float32
}

// One is the unit scale vector.
var One = Vec3{1, 1, 1}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul returns the component-wise product.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean norm.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Reciprocal returns the component-wise inverse. Zero components stay zero.
func (v Vec3) Reciprocal() Vec3 {
	return Vec3{recip(v.X), recip(v.Y), recip(v.Z)}
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(o Vec3, eps float32) bool {
	return near(v.X, o.X, eps) && near(v.Y, o.Y, eps) && near(v.Z, o.Z, eps)
}

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat is the rotation that does nothing.
var IdentityQuat = Quat{W: 1}

// AxisAngle returns the rotation of radians around axis.
func AxisAngle(axis Vec3, radians float32) Quat {
	l := axis.Length()
	if l == 0 {
		return IdentityQuat
	}
	s, c := math.Sincos(float64(radians) / 2)
	a := axis.Scale(float32(s) / l)
	return Quat{a.X, a.Y, a.Z, float32(c)}
}

// Mul returns q * o, the rotation o followed by q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Conjugate returns the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

// Normalize returns q scaled to unit length. The zero quaternion becomes
// the identity.
func (q Quat) Normalize() Quat {
	l := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if l == 0 {
		return IdentityQuat
	}
	inv := 1 / l
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// ApproxEqual reports whether q and o describe the same rotation within eps.
// q and -q are the same rotation.
func (q Quat) ApproxEqual(o Quat, eps float32) bool {
	same := near(q.X, o.X, eps) && near(q.Y, o.Y, eps) && near(q.Z, o.Z, eps) && near(q.W, o.W, eps)
	flipped := near(q.X, -o.X, eps) && near(q.Y, -o.Y, eps) && near(q.Z, -o.Z, eps) && near(q.W, -o.W, eps)
	return same || flipped
}

// Transform is a position, rotation and scale.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform {
	return Transform{Rotation: IdentityQuat, Scale: One}
}

// Mul returns t ∘ child: child expressed in t's parent space.
func (t Transform) Mul(child Transform) Transform {
	return Transform{
		Position: t.Apply(child.Position),
		Rotation: t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:    t.Scale.Mul(child.Scale),
	}
}

// Inverse returns the transform that undoes t. The result is exact only for
// uniform scale; use Relative or InverseApply when scale is non-uniform.
func (t Transform) Inverse() Transform {
	rot := t.Rotation.Conjugate()
	scale := t.Scale.Reciprocal()
	return Transform{
		Position: rot.Rotate(t.Position).Mul(scale).Scale(-1),
		Rotation: rot,
		Scale:    scale,
	}
}

// InverseApply maps p from t's parent space back into t's local space.
// It undoes Apply for any non-zero scale.
func (t Transform) InverseApply(p Vec3) Vec3 {
	return t.Rotation.Conjugate().Rotate(p.Sub(t.Position)).Mul(t.Scale.Reciprocal())
}

// Relative returns the local transform l with t.Mul(l) equal to world.
// Unlike Inverse().Mul(world) it holds for non-uniform scale.
func (t Transform) Relative(world Transform) Transform {
	return Transform{
		Position: t.InverseApply(world.Position),
		Rotation: t.Rotation.Conjugate().Mul(world.Rotation).Normalize(),
		Scale:    world.Scale.Mul(t.Scale.Reciprocal()),
	}
}

// Apply maps point p through t.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Position)
}

// ApproxEqual reports whether t and o match within eps.
func (t Transform) ApproxEqual(o Transform, eps float32) bool {
	return t.Position.ApproxEqual(o.Position, eps) &&
		t.Rotation.ApproxEqual(o.Rotation, eps) &&
		t.Scale.ApproxEqual(o.Scale, eps)
}

func near(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}

func recip(f float32) float32 {
	if f == 0 {
		return 0
	}
	return 1 / f
}
