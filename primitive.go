package goom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// PrimitiveKind identifies the variant of a Primitive.
type PrimitiveKind uint8

const (
	PrimitivePlane PrimitiveKind = iota
	PrimitiveBox
	PrimitiveSphere

	// PrimitiveKindNum is the number of primitive kinds.
	PrimitiveKindNum = 3
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitivePlane:
		return "plane"
	case PrimitiveBox:
		return "box"
	case PrimitiveSphere:
		return "sphere"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", uint8(k))
	}
}

// IPrimitive is implemented by *Sphere, *Box and *Plane.
type IPrimitive interface {
	// CacheData updates the world space data of the primitive from its world transform.
	CacheData(transform Transform)
	kind() PrimitiveKind
}

// Primitive is a collision shape attached to a rigid body.
//
// The world transform is the body transform combined with the local offset.
// Primitives without a body (world planes) use the offset as their world transform.
type Primitive struct {
	Class    IPrimitive
	Body     *RigidBody
	UserData any

	offset    Transform
	transform Transform
}

// newPrimitive wraps class with an offset relative to body. body may be nil.
func newPrimitive(class IPrimitive, body *RigidBody, offset Transform) *Primitive {
	prim := &Primitive{
		Class:     class,
		Body:      body,
		offset:    offset,
		transform: offset,
	}
	return prim
}

func (p Primitive) String() string {
	return p.Kind().String()
}

// Kind returns the variant of p.
func (p *Primitive) Kind() PrimitiveKind {
	return p.Class.kind()
}

// Sphere returns the sphere data or nil if p is not a sphere.
func (p *Primitive) Sphere() *Sphere {
	s, _ := p.Class.(*Sphere)
	return s
}

// Box returns the box data or nil if p is not a box.
func (p *Primitive) Box() *Box {
	b, _ := p.Class.(*Box)
	return b
}

// Plane returns the plane data or nil if p is not a plane.
func (p *Primitive) Plane() *Plane {
	pl, _ := p.Class.(*Plane)
	return pl
}

// CalculateInternalData recomputes the world transform from the body pose.
func (p *Primitive) CalculateInternalData() {
	if p.Body != nil {
		p.transform = p.Body.transform.Mult(p.offset)
	} else {
		p.transform = p.offset
	}
	p.Class.CacheData(p.transform)
}

// Transform returns the world transform.
func (p *Primitive) Transform() Transform {
	return p.transform
}

// LocalTransform returns the offset relative to the body.
func (p *Primitive) LocalTransform() Transform {
	return p.offset
}

// SetLocalTransform changes the offset relative to the body and refreshes the world transform.
func (p *Primitive) SetLocalTransform(offset Transform) {
	p.offset = offset
	p.CalculateInternalData()
}

// Axis returns the world space axis i (0-2) or the position (3).
func (p *Primitive) Axis(i int) mgl64.Vec3 {
	return p.transform.Axis(i)
}

// Position returns the world space position of the primitive origin.
func (p *Primitive) Position() mgl64.Vec3 {
	return p.transform.Position()
}
