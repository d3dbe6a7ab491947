package goom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Box is an oriented box described by its half extents along the local axes.
type Box struct {
	*Primitive
	HalfSize mgl64.Vec3
	// world space corners, in boxCorners order
	corners [8]mgl64.Vec3
}

func (box *Box) CacheData(transform Transform) {
	for i, mult := range boxCorners {
		box.corners[i] = transform.Apply(mulElem(mult, box.HalfSize))
	}
}

func (box *Box) kind() PrimitiveKind {
	return PrimitiveBox
}

// Corners returns the 8 world space vertices of the box.
func (box *Box) Corners() [8]mgl64.Vec3 {
	return box.corners
}

// ProjectedRadius returns the half length of the box projected onto axis.
func (box *Box) ProjectedRadius(axis mgl64.Vec3) float64 {
	return box.HalfSize.X()*absDot(axis, box.Axis(0)) +
		box.HalfSize.Y()*absDot(axis, box.Axis(1)) +
		box.HalfSize.Z()*absDot(axis, box.Axis(2))
}
