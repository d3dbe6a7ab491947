package goom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CollisionDetector runs the narrow-phase tests between primitives.
//
// Every test appends the contacts it finds to the given slice and returns it,
// together with true if anything was found. Contacts come from the detector's
// pool and stay valid until ClearCache.
type CollisionDetector struct {
	pool *ContactPool
}

// NewCollisionDetector returns a detector whose pool holds maxContacts contacts.
// A negative size uses MaxContacts.
func NewCollisionDetector(maxContacts int) *CollisionDetector {
	if maxContacts < 0 {
		maxContacts = MaxContacts
	}
	return &CollisionDetector{pool: NewContactPool(maxContacts)}
}

// Pool returns the contact pool of the detector.
func (cd *CollisionDetector) Pool() *ContactPool {
	return cd.pool
}

// ClearCache rewinds the contact pool. Contacts handed out before stay
// readable but will be overwritten by the next tests.
func (cd *CollisionDetector) ClearCache() {
	cd.pool.Reset()
}

func (cd *CollisionDetector) newContact(point, normal mgl64.Vec3, penetration float64, a, b *RigidBody, data CollisionData) *Contact {
	contact := cd.pool.Get()
	contact.Point = point
	contact.Normal = normal
	contact.Penetration = penetration
	contact.SetContactData(a, b, data.Restitution, data.Friction)
	return contact
}

// SphereAndSphere reports a contact when the centers are apart but closer than the sum of the radii.
// The normal points from b towards a.
func (cd *CollisionDetector) SphereAndSphere(a, b *Sphere, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	positionA := a.Center()
	midline := positionA.Sub(b.Center())
	size := midline.Len()

	if size <= 0 || size >= a.Radius+b.Radius {
		return contacts, false
	}

	contact := cd.newContact(
		positionA.Sub(midline.Mul(0.5)),
		midline.Mul(1/size),
		a.Radius+b.Radius-size,
		a.Body, b.Body, data,
	)
	return append(contacts, contact), true
}

// SphereAndHalfSpace reports a contact when the sphere reaches below the plane.
func (cd *CollisionDetector) SphereAndHalfSpace(sphere *Sphere, plane *Plane, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	position := sphere.Center()
	distance := plane.Normal.Dot(position) - sphere.Radius - plane.Offset

	if distance >= 0 {
		return contacts, false
	}

	contact := cd.newContact(
		position.Sub(plane.Normal.Mul(distance+sphere.Radius)),
		plane.Normal,
		-distance,
		sphere.Body, nil, data,
	)
	return append(contacts, contact), true
}

// BoxAndHalfSpace emits one contact for every box vertex on or below the plane.
// The contact point is the vertex moved onto the plane.
func (cd *CollisionDetector) BoxAndHalfSpace(box *Box, plane *Plane, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	if !BoxAndHalfSpace(box, plane) {
		return contacts, false
	}

	found := false
	for _, vertex := range box.Corners() {
		vertexDistance := vertex.Dot(plane.Normal)
		if vertexDistance > plane.Offset {
			continue
		}
		penetration := plane.Offset - vertexDistance
		contact := cd.newContact(
			vertex.Add(plane.Normal.Mul(penetration)),
			plane.Normal,
			penetration,
			box.Body, nil, data,
		)
		contacts = append(contacts, contact)
		found = true
	}
	return contacts, found
}

// BoxAndSphere reports a contact when the point of the box closest to the sphere
// center lies within the sphere. The normal points from the sphere towards the box.
func (cd *CollisionDetector) BoxAndSphere(box *Box, sphere *Sphere, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	center := sphere.Center()
	transform := box.Transform()
	relCenter := transform.ApplyInverse(center)

	for i := range 3 {
		if math.Abs(relCenter[i])-sphere.Radius > box.HalfSize[i] {
			return contacts, false
		}
	}

	var closest mgl64.Vec3
	for i := range 3 {
		closest[i] = clamp(relCenter[i], -box.HalfSize[i], box.HalfSize[i])
	}

	distSq := closest.Sub(relCenter).LenSqr()
	if distSq > sphere.Radius*sphere.Radius {
		return contacts, false
	}

	if distSq < 1e-12 {
		return append(contacts, cd.sphereInsideBox(box, sphere, relCenter, data)), true
	}

	closestWorld := transform.Apply(closest)
	contact := cd.newContact(
		closestWorld,
		closestWorld.Sub(center).Normalize(),
		sphere.Radius-math.Sqrt(distSq),
		box.Body, sphere.Body, data,
	)
	return append(contacts, contact), true
}

// sphereInsideBox pushes a sphere whose center is inside the box out through
// the nearest face.
func (cd *CollisionDetector) sphereInsideBox(box *Box, sphere *Sphere, relCenter mgl64.Vec3, data CollisionData) *Contact {
	axis := 0
	depth := math.MaxFloat64
	for i := range 3 {
		if d := box.HalfSize[i] - math.Abs(relCenter[i]); d < depth {
			axis, depth = i, d
		}
	}

	sign := 1.0
	if relCenter[axis] < 0 {
		sign = -1
	}
	face := relCenter
	face[axis] = sign * box.HalfSize[axis]

	return cd.newContact(
		box.Transform().Apply(face),
		box.Axis(axis).Mul(-sign),
		sphere.Radius+depth,
		box.Body, sphere.Body, data,
	)
}

// boxAxisTest tracks the smallest overlap found by the separating axis test.
type boxAxisTest struct {
	a, b     *Box
	toCentre mgl64.Vec3

	penetration float64
	best        int
}

// test returns false if axis separates the boxes. Near zero axes, produced by
// crossing parallel edges, are skipped.
func (t *boxAxisTest) test(axis mgl64.Vec3, index int) bool {
	if axis.LenSqr() < axisEpsilon {
		return true
	}
	axis = axis.Normalize()

	penetration := t.a.ProjectedRadius(axis) + t.b.ProjectedRadius(axis) - absDot(t.toCentre, axis)
	if penetration < 0 {
		return false
	}
	if penetration < t.penetration {
		t.penetration = penetration
		t.best = index
	}
	return true
}

// BoxAndBox runs the separating axis test over the 3 face axes of each box and
// the 9 edge cross products. A face axis gives a vertex-face contact on the
// deepest vertex of the other box. An edge axis gives an edge-edge contact at
// the midpoint of the closest points of the two edges.
func (cd *CollisionDetector) BoxAndBox(a, b *Box, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	t := boxAxisTest{
		a:           a,
		b:           b,
		toCentre:    b.Position().Sub(a.Position()),
		penetration: math.MaxFloat64,
		best:        math.MaxInt,
	}

	for i := range 3 {
		if !t.test(a.Axis(i), i) {
			return contacts, false
		}
	}
	for i := range 3 {
		if !t.test(b.Axis(i), 3+i) {
			return contacts, false
		}
	}
	bestSingleAxis := t.best

	for i := range 3 {
		for j := range 3 {
			if !t.test(b.Axis(j).Cross(a.Axis(i)), 6+i*3+j) {
				return contacts, false
			}
		}
	}

	var contact *Contact
	switch {
	case t.best < 3:
		contact = cd.vertexFaceContact(a, b, t.toCentre, t.best, t.penetration, data)
	case t.best < 6:
		contact = cd.vertexFaceContact(b, a, t.toCentre.Mul(-1), t.best-3, t.penetration, data)
	default:
		contact = cd.edgeEdgeContact(a, b, t.toCentre, t.best-6, bestSingleAxis, t.penetration, data)
	}
	return append(contacts, contact), true
}

// vertexFaceContact builds the contact of a vertex of other against face axis of box.
// The normal points from other towards box.
func (cd *CollisionDetector) vertexFaceContact(box, other *Box, toCentre mgl64.Vec3, axis int, penetration float64, data CollisionData) *Contact {
	normal := box.Axis(axis)
	if normal.Dot(toCentre) > 0 {
		normal = normal.Mul(-1)
	}

	vertex := other.HalfSize
	for i := range 3 {
		if other.Axis(i).Dot(normal) < 0 {
			vertex[i] = -vertex[i]
		}
	}

	return cd.newContact(other.Transform().Apply(vertex), normal, penetration, box.Body, other.Body, data)
}

func (cd *CollisionDetector) edgeEdgeContact(a, b *Box, toCentre mgl64.Vec3, edge, bestSingleAxis int, penetration float64, data CollisionData) *Contact {
	oneAxisIndex := edge / 3
	twoAxisIndex := edge % 3
	oneAxis := a.Axis(oneAxisIndex)
	twoAxis := b.Axis(twoAxisIndex)

	axis := twoAxis.Cross(oneAxis).Normalize()
	if axis.Dot(toCentre) > 0 {
		axis = axis.Mul(-1)
	}

	// a point on each of the two edges, still in box coordinates
	pointOnEdgeOne := a.HalfSize
	pointOnEdgeTwo := b.HalfSize
	for i := range 3 {
		if i == oneAxisIndex {
			pointOnEdgeOne[i] = 0
		} else if a.Axis(i).Dot(axis) > 0 {
			pointOnEdgeOne[i] = -pointOnEdgeOne[i]
		}

		if i == twoAxisIndex {
			pointOnEdgeTwo[i] = 0
		} else if b.Axis(i).Dot(axis) < 0 {
			pointOnEdgeTwo[i] = -pointOnEdgeTwo[i]
		}
	}
	pointOnEdgeOne = a.Transform().Apply(pointOnEdgeOne)
	pointOnEdgeTwo = b.Transform().Apply(pointOnEdgeTwo)

	point := edgeContactPoint(
		pointOnEdgeOne, oneAxis, a.HalfSize[oneAxisIndex],
		pointOnEdgeTwo, twoAxis, b.HalfSize[twoAxisIndex],
		bestSingleAxis > 2,
	)

	return cd.newContact(point, axis, penetration, a.Body, b.Body, data)
}

// edgeContactPoint returns the midpoint of the closest points of two edges given
// by a point, a direction and a half length each. Parallel edges and closest
// points beyond either edge fall back to one of the given edge points.
func edgeContactPoint(pOne, dOne mgl64.Vec3, oneSize float64, pTwo, dTwo mgl64.Vec3, twoSize float64, useOne bool) mgl64.Vec3 {
	fallback := pTwo
	if useOne {
		fallback = pOne
	}

	smOne := dOne.LenSqr()
	smTwo := dTwo.LenSqr()
	dpOneTwo := dTwo.Dot(dOne)

	toSt := pOne.Sub(pTwo)
	dpStaOne := dOne.Dot(toSt)
	dpStaTwo := dTwo.Dot(toSt)

	denom := smOne*smTwo - dpOneTwo*dpOneTwo
	if math.Abs(denom) < edgeEpsilon {
		return fallback
	}

	mua := (dpOneTwo*dpStaTwo - smTwo*dpStaOne) / denom
	mub := (smOne*dpStaTwo - dpOneTwo*dpStaOne) / denom

	if mua > oneSize || mua < -oneSize || mub > twoSize || mub < -twoSize {
		return fallback
	}

	cOne := pOne.Add(dOne.Mul(mua))
	cTwo := pTwo.Add(dTwo.Mul(mub))
	return cOne.Mul(0.5).Add(cTwo.Mul(0.5))
}

// CollisionFunc tests one ordered pair of primitive kinds.
type CollisionFunc func(cd *CollisionDetector, a, b *Primitive, data CollisionData, contacts []*Contact) ([]*Contact, bool)

func noCollision(_ *CollisionDetector, _, _ *Primitive, _ CollisionData, contacts []*Contact) ([]*Contact, bool) {
	return contacts, false
}

func boxToPlane(cd *CollisionDetector, a, b *Primitive, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	return cd.BoxAndHalfSpace(a.Box(), b.Plane(), data, contacts)
}

func sphereToPlane(cd *CollisionDetector, a, b *Primitive, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	return cd.SphereAndHalfSpace(a.Sphere(), b.Plane(), data, contacts)
}

func boxToBox(cd *CollisionDetector, a, b *Primitive, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	return cd.BoxAndBox(a.Box(), b.Box(), data, contacts)
}

func boxToSphere(cd *CollisionDetector, a, b *Primitive, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	return cd.BoxAndSphere(a.Box(), b.Sphere(), data, contacts)
}

func sphereToSphere(cd *CollisionDetector, a, b *Primitive, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	return cd.SphereAndSphere(a.Sphere(), b.Sphere(), data, contacts)
}

// swapped runs f with its primitives in the opposite order.
func swapped(f CollisionFunc) CollisionFunc {
	return func(cd *CollisionDetector, a, b *Primitive, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
		return f(cd, b, a, data, contacts)
	}
}

// BuiltinCollisionFuncs is indexed by a.Kind() + b.Kind()*PrimitiveKindNum.
var BuiltinCollisionFuncs = [PrimitiveKindNum * PrimitiveKindNum]CollisionFunc{
	noCollision,            // plane, plane
	boxToPlane,             // box, plane
	sphereToPlane,          // sphere, plane
	swapped(boxToPlane),    // plane, box
	boxToBox,               // box, box
	swapped(boxToSphere),   // sphere, box
	swapped(sphereToPlane), // plane, sphere
	boxToSphere,            // box, sphere
	sphereToSphere,         // sphere, sphere
}

// Collide tests two primitives of any kind.
func (cd *CollisionDetector) Collide(a, b *Primitive, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	return BuiltinCollisionFuncs[int(a.Kind())+int(b.Kind())*PrimitiveKindNum](cd, a, b, data, contacts)
}

// CheckForContacts tests every primitive of a against every primitive of b.
func (cd *CollisionDetector) CheckForContacts(a, b *RigidBody, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	found := false
	for _, pa := range a.Primitives {
		for _, pb := range b.Primitives {
			var ok bool
			contacts, ok = cd.Collide(pa, pb, data, contacts)
			found = found || ok
		}
	}
	return contacts, found
}

// CheckForContactsWithPlane tests every primitive of body against plane.
func (cd *CollisionDetector) CheckForContactsWithPlane(body *RigidBody, plane *Plane, data CollisionData, contacts []*Contact) ([]*Contact, bool) {
	found := false
	for _, prim := range body.Primitives {
		var ok bool
		contacts, ok = cd.Collide(prim, plane.Primitive, data, contacts)
		found = found || ok
	}
	return contacts, found
}
