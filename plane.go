package goom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Plane is a half-space boundary: points p with Normal·p <= Offset are inside.
// Planes are not attached to bodies and never move.
type Plane struct {
	*Primitive
	Normal mgl64.Vec3
	Offset float64
}

func (plane *Plane) CacheData(transform Transform) {}

func (plane *Plane) kind() PrimitiveKind {
	return PrimitivePlane
}

// Distance returns the signed distance of p from the plane.
func (plane *Plane) Distance(p mgl64.Vec3) float64 {
	return plane.Normal.Dot(p) - plane.Offset
}
