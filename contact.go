package goom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact is a single contact point between two bodies, or a body and the world.
//
// Normal is unit length and points from the second body towards the first.
// The second body is nil for contacts against a world plane.
type Contact struct {
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64
	Bodies      [2]*RigidBody
	Restitution float64
	Friction    float64

	// columns are the normal and the two tangents
	contactToWorld          mgl64.Mat3
	relativeContactPosition [2]mgl64.Vec3
	// closing velocity in contact coordinates
	contactVelocity      mgl64.Vec3
	desiredDeltaVelocity float64
}

func (c Contact) String() string {
	return fmt.Sprintf("Contact point %v normal %v penetration %v", c.Point, c.Normal, c.Penetration)
}

// SetContactData sets the bodies and surface coefficients of the contact.
func (c *Contact) SetContactData(a, b *RigidBody, restitution, friction float64) {
	c.Bodies[0] = a
	c.Bodies[1] = b
	c.Restitution = restitution
	c.Friction = friction
}

func (c *Contact) swapBodies() {
	c.Normal = c.Normal.Mul(-1)
	c.Bodies[0], c.Bodies[1] = c.Bodies[1], c.Bodies[0]
}

// ContactToWorld returns the contact basis; its columns are the normal and two tangents.
func (c *Contact) ContactToWorld() mgl64.Mat3 {
	return c.contactToWorld
}

// RelativeContactPosition returns the contact point relative to body i.
func (c *Contact) RelativeContactPosition(i int) mgl64.Vec3 {
	return c.relativeContactPosition[i]
}

// ContactVelocity returns the closing velocity in contact coordinates.
func (c *Contact) ContactVelocity() mgl64.Vec3 {
	return c.contactVelocity
}

// DesiredDeltaVelocity returns the normal velocity change the resolver aims for.
func (c *Contact) DesiredDeltaVelocity() float64 {
	return c.desiredDeltaVelocity
}

// MatchAwakeState wakes the sleeping body if exactly one of the two bodies is awake.
// Contacts with the world never wake anything.
func (c *Contact) MatchAwakeState() {
	a, b := c.Bodies[0], c.Bodies[1]
	if a == nil || b == nil {
		return
	}
	if a.awake != b.awake {
		if a.awake {
			b.WakeUp()
		} else {
			a.WakeUp()
		}
	}
}

// canResolve returns true if at least one body can be moved by the resolver.
func (c *Contact) canResolve() bool {
	for _, b := range c.Bodies {
		if b != nil && !b.IsStatic() && b.HasFiniteMass() {
			return true
		}
	}
	return false
}

// calculateContactBasis builds an orthonormal basis around the normal, crossing
// with the world axis the normal is least aligned with.
func (c *Contact) calculateContactBasis() {
	n := c.Normal
	var t0 mgl64.Vec3

	if math.Abs(n.X()) > math.Abs(n.Y()) {
		s := 1 / math.Sqrt(n.Z()*n.Z()+n.X()*n.X())
		t0 = mgl64.Vec3{n.Z() * s, 0, -n.X() * s}
	} else {
		s := 1 / math.Sqrt(n.Z()*n.Z()+n.Y()*n.Y())
		t0 = mgl64.Vec3{0, -n.Z() * s, n.Y() * s}
	}
	t1 := n.Cross(t0)

	c.contactToWorld = mgl64.Mat3FromCols(n, t0, t1)
}

// localVelocity returns the velocity of the contact point on body i in contact
// coordinates, including the planar part of last frame's acceleration.
func (c *Contact) localVelocity(i int, duration float64) mgl64.Vec3 {
	body := c.Bodies[i]
	toContact := c.contactToWorld.Transpose()

	velocity := body.rotation.Cross(c.relativeContactPosition[i]).Add(body.velocity)
	local := toContact.Mul3x1(velocity)

	accVelocity := toContact.Mul3x1(body.lastFrameAcceleration.Mul(duration))
	accVelocity[0] = 0

	return local.Add(accVelocity)
}

// CalculateInternalData prepares the contact for resolution: the first body is
// made non-nil, the basis, relative positions and closing velocity are computed
// and the desired delta velocity is derived from them.
func (c *Contact) CalculateInternalData(duration float64) {
	if c.Bodies[0] == nil {
		c.swapBodies()
	}
	if c.Bodies[0] == nil {
		return
	}

	c.calculateContactBasis()

	c.relativeContactPosition[0] = c.Point.Sub(c.Bodies[0].position)
	c.contactVelocity = c.localVelocity(0, duration)
	if c.Bodies[1] != nil {
		c.relativeContactPosition[1] = c.Point.Sub(c.Bodies[1].position)
		c.contactVelocity = c.contactVelocity.Sub(c.localVelocity(1, duration))
	}

	c.CalculateDesiredDeltaVelocity(duration)
}

// CalculateDesiredDeltaVelocity computes the bounce velocity without the
// velocity built up by this frame's acceleration. Restitution is ignored
// below MinVelocity so resting contacts do not jitter.
func (c *Contact) CalculateDesiredDeltaVelocity(duration float64) {
	var velocityFromAcc float64
	if c.Bodies[0].awake {
		velocityFromAcc += c.Bodies[0].lastFrameAcceleration.Mul(duration).Dot(c.Normal)
	}
	if c.Bodies[1] != nil && c.Bodies[1].awake {
		velocityFromAcc -= c.Bodies[1].lastFrameAcceleration.Mul(duration).Dot(c.Normal)
	}

	restitution := c.Restitution
	vx := c.contactVelocity.X()
	if math.Abs(vx) < MinVelocity {
		restitution = 0
	}

	c.desiredDeltaVelocity = -vx - restitution*(vx-velocityFromAcc)
}

// ResolvePosition moves the bodies apart by penetration along the normal,
// splitting the move by each body's linear and angular inertia. The angular
// share of each body is capped to AngularLimit times its lever arm.
//
// Only the linear change is applied. The angular change is returned for
// propagation to other contacts but the orientation is left as is.
func (c *Contact) ResolvePosition(penetration float64) (linearChange, angularChange [2]mgl64.Vec3) {
	var angularInertia, linearInertia [2]float64
	var totalInertia float64

	for i, body := range c.Bodies {
		if body == nil {
			continue
		}
		r := c.relativeContactPosition[i]
		inertiaWorld := body.inverseInertiaTensorWorld.Mul3x1(r.Cross(c.Normal)).Cross(r)
		angularInertia[i] = inertiaWorld.Dot(c.Normal)
		linearInertia[i] = body.inverseMass
		totalInertia += angularInertia[i] + linearInertia[i]
	}
	if totalInertia == 0 {
		return
	}

	for i, body := range c.Bodies {
		if body == nil {
			continue
		}
		sign := 1.0
		if i == 1 {
			sign = -1
		}
		r := c.relativeContactPosition[i]

		angularMove := sign * penetration * (angularInertia[i] / totalInertia)
		linearMove := sign * penetration * (linearInertia[i] / totalInertia)

		projection := r.Add(c.Normal.Mul(-r.Dot(c.Normal)))
		maxMagnitude := AngularLimit * projection.Len()

		if angularMove < -maxMagnitude {
			totalMove := angularMove + linearMove
			angularMove = -maxMagnitude
			linearMove = totalMove - angularMove
		} else if angularMove > maxMagnitude {
			totalMove := angularMove + linearMove
			angularMove = maxMagnitude
			linearMove = totalMove - angularMove
		}

		if angularMove != 0 {
			target := r.Cross(c.Normal)
			angularChange[i] = body.inverseInertiaTensorWorld.Mul3x1(target).Mul(angularMove / angularInertia[i])
		}
		linearChange[i] = c.Normal.Mul(linearMove)

		body.position = body.position.Add(linearChange[i])
		if !body.awake {
			body.CalculateDerivedData()
		}
	}
	return
}

// frictionlessImpulse returns the impulse along the normal, in contact coordinates,
// that produces the desired delta velocity.
func (c *Contact) frictionlessImpulse() mgl64.Vec3 {
	var deltaVelocity float64
	for i, body := range c.Bodies {
		if body == nil {
			continue
		}
		r := c.relativeContactPosition[i]
		deltaVelWorld := body.inverseInertiaTensorWorld.Mul3x1(r.Cross(c.Normal)).Cross(r)
		deltaVelocity += deltaVelWorld.Dot(c.Normal) + body.inverseMass
	}
	if deltaVelocity == 0 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{c.desiredDeltaVelocity / deltaVelocity, 0, 0}
}

// ResolveVelocity applies the impulse for this contact to both bodies and
// returns the velocity and angular velocity changes.
//
// Contacts with non-zero friction get a zero impulse: frictional impulses are not implemented.
func (c *Contact) ResolveVelocity() (velocityChange, rotationChange [2]mgl64.Vec3) {
	var impulseContact mgl64.Vec3
	if c.Friction == 0 {
		impulseContact = c.frictionlessImpulse()
	}
	impulse := c.contactToWorld.Mul3x1(impulseContact)

	a := c.Bodies[0]
	rotationChange[0] = a.inverseInertiaTensorWorld.Mul3x1(c.relativeContactPosition[0].Cross(impulse))
	velocityChange[0] = impulse.Mul(a.inverseMass)
	applyImpulse(a, velocityChange[0], rotationChange[0])

	if b := c.Bodies[1]; b != nil {
		rotationChange[1] = b.inverseInertiaTensorWorld.Mul3x1(impulse.Cross(c.relativeContactPosition[1]))
		velocityChange[1] = impulse.Mul(-b.inverseMass)
		applyImpulse(b, velocityChange[1], rotationChange[1])
	}
	return
}

func applyImpulse(body *RigidBody, velocityChange, rotationChange mgl64.Vec3) {
	body.velocity = body.velocity.Add(velocityChange)
	body.rotation = body.rotation.Add(rotationChange)
}
