package goom

// Boolean pre-filters. They never produce contacts.

// BoxAndHalfSpace returns true if box reaches into the half-space of plane.
func BoxAndHalfSpace(box *Box, plane *Plane) bool {
	projectedRadius := box.ProjectedRadius(plane.Normal)
	boxDistance := plane.Normal.Dot(box.Position()) - projectedRadius
	return boxDistance <= plane.Offset
}

// SphereAndHalfSpace returns true if sphere reaches into the half-space of plane.
func SphereAndHalfSpace(sphere *Sphere, plane *Plane) bool {
	return plane.Normal.Dot(sphere.Center())-sphere.Radius <= plane.Offset
}

// SphereAndSphere returns true if the spheres overlap.
func SphereAndSphere(a, b *Sphere) bool {
	return a.Bounds().Overlaps(b.Bounds())
}
