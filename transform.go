package goom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a 3D rigid transformation stored as a 4x4 matrix.
// The upper-left 3x3 block holds the rotation and the last column the translation.
//
// The transformation matrix is laid out as follows:
//
//	| Xx  Yx  Zx  Tx |
//	| Xy  Yy  Zy  Ty |
//	| Xz  Yz  Zz  Tz |
//	| 0   0   0   1  |
//
// Where:
//   - X, Y, Z: the local axes expressed in world coordinates.
//   - T: the position of the local origin in world coordinates.
//
// Transforms compose by multiplication, t1.Mult(t2) applies t2 first.
type Transform struct {
	m mgl64.Mat4
}

// NewTransformIdentity creates and returns an identity transformation.
func NewTransformIdentity() Transform {
	return Transform{mgl64.Ident4()}
}

// NewTransformTranslate returns a transform that only translates by v.
func NewTransformTranslate(v mgl64.Vec3) Transform {
	return Transform{mgl64.Translate3D(v.X(), v.Y(), v.Z())}
}

// NewTransformRigid returns a transform from a position and an orientation.
//
// Parameters:
//   - position: translation of the local origin.
//   - orientation: rotation, normalized before use.
func NewTransformRigid(position mgl64.Vec3, orientation mgl64.Quat) Transform {
	rot := orientation.Normalize().Mat4()
	return Transform{mgl64.Translate3D(position.X(), position.Y(), position.Z()).Mul4(rot)}
}

// Mat4 returns the underlying matrix.
func (t Transform) Mat4() mgl64.Mat4 {
	return t.m
}

// Basis returns the rotation part of the transform.
func (t Transform) Basis() mgl64.Mat3 {
	return t.m.Mat3()
}

// Mult multiplies this and t2.
//
// Returns:
//
//   - A new Transform that applies t2 and then t.
func (t Transform) Mult(t2 Transform) Transform {
	return Transform{t.m.Mul4(t2.m)}
}

// Inverse returns the inverse of this transform.
// Rigid transforms are inverted with a transpose, no general inversion is needed.
func (t Transform) Inverse() Transform {
	rt := t.m.Mat3().Transpose()
	p := rt.Mul3x1(t.Position()).Mul(-1)
	return Transform{mgl64.Mat4{
		rt[0], rt[1], rt[2], 0,
		rt[3], rt[4], rt[5], 0,
		rt[6], rt[7], rt[8], 0,
		p[0], p[1], p[2], 1,
	}}
}

// Apply transforms the point p.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.m.Mul4x1(p.Vec4(1)).Vec3()
}

// ApplyVector transforms the direction v, translation is ignored.
func (t Transform) ApplyVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.m.Mat3().Mul3x1(v)
}

// ApplyInverse maps the world point p into the local space of t.
func (t Transform) ApplyInverse(p mgl64.Vec3) mgl64.Vec3 {
	return t.ApplyInverseVector(p.Sub(t.Position()))
}

// ApplyInverseVector maps the world direction v into the local space of t.
func (t Transform) ApplyInverseVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.m.Mat3().Transpose().Mul3x1(v)
}

// Axis returns column i of the matrix. Columns 0-2 are the local axes, 3 is the position.
func (t Transform) Axis(i int) mgl64.Vec3 {
	return t.m.Col(i).Vec3()
}

// Position returns the translation of the transform.
func (t Transform) Position() mgl64.Vec3 {
	return t.m.Col(3).Vec3()
}
