package goom

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// OffsetDescriptor places a primitive relative to its body.
type OffsetDescriptor struct {
	Position mgl64.Vec3 `yaml:"position" toml:"position"`
	// Orientation is a quaternion as (r, i, j, k). The zero value is the identity.
	Orientation [4]float64 `yaml:"orientation" toml:"orientation"`
}

// Transform returns the offset as a rigid transform. A nil descriptor is the identity.
func (d *OffsetDescriptor) Transform() Transform {
	if d == nil {
		return NewTransformIdentity()
	}
	return NewTransformRigid(d.Position, quatFromArray(d.Orientation))
}

// PrimitiveDescriptor describes one primitive of a body.
type PrimitiveDescriptor struct {
	// Type is "sphere" or "box", case insensitive.
	Type     string            `yaml:"type" toml:"type"`
	Radius   float64           `yaml:"radius,omitempty" toml:"radius,omitempty"`
	HalfSize mgl64.Vec3        `yaml:"half_size,omitempty" toml:"half_size,omitempty"`
	Offset   *OffsetDescriptor `yaml:"offset,omitempty" toml:"offset,omitempty"`
}

// PlaneDescriptor describes a static world half-space.
type PlaneDescriptor struct {
	Normal mgl64.Vec3 `yaml:"normal" toml:"normal"`
	Offset float64    `yaml:"offset" toml:"offset"`
}

func quatFromArray(a [4]float64) mgl64.Quat {
	if a == [4]float64{} {
		return mgl64.QuatIdent()
	}
	return mgl64.Quat{W: a[0], V: mgl64.Vec3{a[1], a[2], a[3]}}.Normalize()
}

// NewSphere returns a new Sphere primitive with the given radius and offset.
// The primitive is attached to body when body is not nil.
func NewSphere(body *RigidBody, radius float64, offset Transform) *Primitive {
	sphere := &Sphere{Radius: radius}
	sphere.Primitive = newPrimitive(sphere, body, offset)
	attach(body, sphere.Primitive)
	return sphere.Primitive
}

// NewBox returns a Box primitive with half extents halfSize.
// The primitive is attached to body when body is not nil.
//
// Parameters:
//   - body: The body to which the shape will be attached.
//   - halfSize: Half of the box size along each local axis.
//   - offset: Placement of the box relative to the body.
func NewBox(body *RigidBody, halfSize mgl64.Vec3, offset Transform) *Primitive {
	box := &Box{HalfSize: halfSize}
	box.Primitive = newPrimitive(box, body, offset)
	attach(body, box.Primitive)
	return box.Primitive
}

// NewPlane returns a world half-space with the given normal and offset.
// normal is expected to be unit length.
func NewPlane(normal mgl64.Vec3, offset float64) *Primitive {
	plane := &Plane{Normal: normal, Offset: offset}
	plane.Primitive = newPrimitive(plane, nil, NewTransformIdentity())
	return plane.Primitive
}

// NewPlaneFromDescriptor validates desc and returns a plane with a unit normal.
// A non-unit normal is normalized and the offset scaled so the half-space is unchanged.
func NewPlaneFromDescriptor(desc PlaneDescriptor) (*Primitive, error) {
	l := desc.Normal.Len()
	if l == 0 {
		return nil, fmt.Errorf("%w: plane normal is zero", ErrInvalidDescriptor)
	}
	return NewPlane(desc.Normal.Mul(1/l), desc.Offset/l), nil
}

// NewPrimitive builds the primitive desc describes and attaches it to body.
// Unknown types return ErrUnsupportedPrimitiveType and nothing is attached.
func NewPrimitive(body *RigidBody, desc PrimitiveDescriptor) (*Primitive, error) {
	switch strings.ToLower(desc.Type) {
	case "sphere":
		if desc.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius %v", ErrInvalidDescriptor, desc.Radius)
		}
		return NewSphere(body, desc.Radius, desc.Offset.Transform()), nil
	case "box":
		h := desc.HalfSize
		if h.X() <= 0 || h.Y() <= 0 || h.Z() <= 0 {
			return nil, fmt.Errorf("%w: box half size %v", ErrInvalidDescriptor, h)
		}
		return NewBox(body, h, desc.Offset.Transform()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPrimitiveType, desc.Type)
	}
}

func attach(body *RigidBody, prim *Primitive) {
	if body != nil {
		body.AttachPrimitive(prim)
	} else {
		prim.CalculateInternalData()
	}
}
