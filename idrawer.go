package goom

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/vec"
)

// Draw flags
const (
	DrawPrimitives      = 1 << 0
	DrawContacts        = 1 << 1
	DrawBoundingVolumes = 1 << 2
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

// Projection maps a world point onto the drawing plane.
type Projection func(p mgl64.Vec3) vec.Vec2

// ProjectXY drops the z coordinate.
func ProjectXY(p mgl64.Vec3) vec.Vec2 {
	return vec.Vec2{X: p.X(), Y: p.Y()}
}

// ProjectXZ looks down the y axis.
func ProjectXZ(p mgl64.Vec3) vec.Vec2 {
	return vec.Vec2{X: p.X(), Y: p.Z()}
}

// IDrawer draws a flat view of a world.
type IDrawer interface {
	DrawCircle(pos vec.Vec2, radius float64, outline, fill FColor, data any)
	DrawSegment(a, b vec.Vec2, fill FColor, data any)
	DrawPolygon(count int, verts []vec.Vec2, outline, fill FColor, data any)
	DrawDot(size float64, pos vec.Vec2, fill FColor, data any)

	Flags() uint
	Projection() Projection
	OutlineColor() FColor
	PrimitiveColor(prim *Primitive, data any) FColor
	ContactColor() FColor
	BoundingVolumeColor() FColor
	Data() any
}

// box edges as pairs of boxCorners indices
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// planeExtent is the half length of the segment drawn for a plane.
const planeExtent = 1000

// DrawPrimitive draws prim with the drawer implementation.
// Boxes are drawn as wireframes, planes as a long segment through the point closest to the origin.
func DrawPrimitive(prim *Primitive, drawer IDrawer) {
	data := drawer.Data()
	project := drawer.Projection()

	outline := drawer.OutlineColor()
	fill := drawer.PrimitiveColor(prim, data)

	switch class := prim.Class.(type) {
	case *Sphere:
		drawer.DrawCircle(project(class.Center()), class.Radius, outline, fill, data)
	case *Box:
		corners := class.Corners()
		for _, e := range boxEdges {
			drawer.DrawSegment(project(corners[e[0]]), project(corners[e[1]]), outline, data)
		}
	case *Plane:
		origin := class.Normal.Mul(class.Offset)
		// any direction on the plane
		tangent := class.Normal.Cross(mgl64.Vec3{0, 0, 1})
		if tangent.LenSqr() < axisEpsilon {
			tangent = class.Normal.Cross(mgl64.Vec3{1, 0, 0})
		}
		tangent = tangent.Normalize().Mul(planeExtent)
		drawer.DrawSegment(project(origin.Sub(tangent)), project(origin.Add(tangent)), fill, data)
	default:
		panic("Unknown primitive type")
	}
}

// DrawContact draws the contact point and a normal stroke as long as the penetration plus a margin.
func DrawContact(contact *Contact, drawer IDrawer) {
	data := drawer.Data()
	project := drawer.Projection()
	color := drawer.ContactColor()

	a := project(contact.Point)
	b := project(contact.Point.Add(contact.Normal.Mul(contact.Penetration + 0.1)))
	drawer.DrawDot(3, a, color, data)
	drawer.DrawSegment(a, b, color, data)
}

// DrawBVH draws the bounding sphere of every node of tree.
func DrawBVH(tree *BVH, drawer IDrawer) {
	if tree == nil {
		return
	}
	data := drawer.Data()
	project := drawer.Projection()
	color := drawer.BoundingVolumeColor()

	tree.EachNode(func(id NodeID) {
		volume := tree.Volume(id)
		drawer.DrawCircle(project(volume.Center), volume.Radius, color, FColor{}, data)
	})
}

// DebugDraw draws the world with the drawer implementation, filtered by the drawer flags.
// Contacts are only available while the contact handler runs.
func (w *World) DebugDraw(drawer IDrawer, contacts []*Contact) {
	flags := drawer.Flags()

	if flags&DrawPrimitives != 0 {
		for _, body := range w.Bodies {
			for _, prim := range body.Primitives {
				DrawPrimitive(prim, drawer)
			}
		}
		for _, plane := range w.Planes {
			DrawPrimitive(plane.Primitive, drawer)
		}
	}

	if flags&DrawBoundingVolumes != 0 {
		DrawBVH(w.BVH(), drawer)
	}

	if flags&DrawContacts != 0 {
		for _, contact := range contacts {
			DrawContact(contact, drawer)
		}
	}
}
