package goom

import (
	"github.com/go-gl/mathgl/mgl64"
)

type Sphere struct {
	*Primitive
	Radius float64
	center mgl64.Vec3
}

func (sphere *Sphere) CacheData(transform Transform) {
	sphere.center = transform.Position()
}

func (sphere *Sphere) kind() PrimitiveKind {
	return PrimitiveSphere
}

// Center returns the world space center of the sphere.
func (sphere *Sphere) Center() mgl64.Vec3 {
	return sphere.center
}

// Bounds returns the bounding sphere of this primitive.
func (sphere *Sphere) Bounds() BoundingSphere {
	return NewBoundingSphere(sphere.center, sphere.Radius)
}
