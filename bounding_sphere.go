package goom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingSphere is the bounding volume stored in the BVH. (center, radius)
type BoundingSphere struct {
	Center mgl64.Vec3
	Radius float64
}

// NewBoundingSphere is convenience constructor for BoundingSphere structs.
func NewBoundingSphere(center mgl64.Vec3, radius float64) BoundingSphere {
	return BoundingSphere{
		Center: center,
		Radius: radius,
	}
}

func (s BoundingSphere) String() string {
	return fmt.Sprintf("%v %v %v %v", s.Center.X(), s.Center.Y(), s.Center.Z(), s.Radius)
}

// EnclosingSphere returns the smallest sphere holding both a and b.
// If one sphere already covers the other, a copy of the larger one is returned.
func EnclosingSphere(a, b BoundingSphere) BoundingSphere {
	offset := b.Center.Sub(a.Center)
	distSq := offset.LenSqr()
	radiusDiff := b.Radius - a.Radius

	if radiusDiff*radiusDiff >= distSq {
		if a.Radius > b.Radius {
			return a
		}
		return b
	}

	dist := math.Sqrt(distSq)
	radius := (dist + a.Radius + b.Radius) * 0.5
	center := a.Center
	if dist > 0 {
		center = center.Add(offset.Mul((radius - a.Radius) / dist))
	}
	return BoundingSphere{center, radius}
}

// Overlaps returns true if a and b intersect. Touching spheres do not overlap.
func (s BoundingSphere) Overlaps(other BoundingSphere) bool {
	distSq := s.Center.Sub(other.Center).LenSqr()
	sum := s.Radius + other.Radius
	return distSq < sum*sum
}

// Size returns the volume of the sphere.
func (s BoundingSphere) Size() float64 {
	return sphereVolumeFactor * s.Radius * s.Radius * s.Radius
}

// GrowthCost returns the increase of the squared radius needed to also hold other.
func (s BoundingSphere) GrowthCost(other BoundingSphere) float64 {
	enclosing := EnclosingSphere(s, other)
	return enclosing.Radius*enclosing.Radius - s.Radius*s.Radius
}

// Encloses returns true if other lies completely within s, within eps.
func (s BoundingSphere) Encloses(other BoundingSphere, eps float64) bool {
	return s.Center.Sub(other.Center).Len()+other.Radius <= s.Radius+eps
}

// FitToPrimitives grows the radius so every sphere and box in prims lies inside.
// The center is kept and the radius never shrinks. Planes are ignored.
func (s *BoundingSphere) FitToPrimitives(prims []*Primitive) {
	for _, prim := range prims {
		switch prim.Kind() {
		case PrimitiveSphere:
			d := prim.Position().Sub(s.Center).Len() + prim.Sphere().Radius
			s.Radius = math.Max(s.Radius, d)
		case PrimitiveBox:
			half := prim.Box().HalfSize
			for _, mult := range boxCorners {
				corner := prim.transform.Apply(mulElem(mult, half))
				s.Radius = math.Max(s.Radius, corner.Sub(s.Center).Len())
			}
		}
	}
}
