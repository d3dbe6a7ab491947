package goom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType for bodies; Dynamic or Static
type BodyType uint8

const (
	Dynamic BodyType = 0
	Static  BodyType = 1
)

// RigidBody is the state container integrated by the world and read by the collision core.
type RigidBody struct {
	// UserData is an object that this body is associated with.
	UserData any
	// ID is an optional name used by World.FindBody.
	ID         string
	World      *World
	Primitives []*Primitive

	bodyType BodyType

	position              mgl64.Vec3 // Position of the center of mass
	orientation           mgl64.Quat // Orientation
	velocity              mgl64.Vec3 // Linear velocity
	rotation              mgl64.Vec3 // Angular velocity
	acceleration          mgl64.Vec3 // Constant acceleration, gravity usually
	lastFrameAcceleration mgl64.Vec3 // Linear acceleration of the last integration
	force                 mgl64.Vec3 // Accumulated force
	torque                mgl64.Vec3 // Accumulated torque

	inverseMass               float64
	inverseInertiaTensor      mgl64.Mat3
	inverseInertiaTensorWorld mgl64.Mat3
	transform                 Transform

	linearDamping  float64
	angularDamping float64

	awake        bool
	canSleep     bool
	motion       float64
	sleepEpsilon float64

	bvh  *BVH
	node NodeID
}

// String returns body id as string
func (b RigidBody) String() string {
	return fmt.Sprint("Body ", b.ID, ", Primitives ", b.Primitives)
}

// NewRigidBody initializes an awake dynamic body at the origin with the given mass.
// Use SetInertiaTensor or SetInertiaTensorCoefficients to let it rotate.
func NewRigidBody(mass float64) *RigidBody {
	body := &RigidBody{
		orientation:    mgl64.QuatIdent(),
		transform:      NewTransformIdentity(),
		linearDamping:  LinearDamping,
		angularDamping: AngularDamping,
		canSleep:       true,
		sleepEpsilon:   SleepEpsilon,
		node:           NilNode,
	}
	body.SetMass(mass)
	body.CalculateDerivedData()
	body.WakeUp()
	return body
}

// NewStaticBody allocates and initializes a RigidBody, and set it as a static body.
func NewStaticBody() *RigidBody {
	body := NewRigidBody(1)
	body.SetType(Static)
	return body
}

// Type returns the type of the body.
func (body *RigidBody) Type() BodyType {
	return body.bodyType
}

// IsStatic returns true for static bodies.
func (body *RigidBody) IsStatic() bool {
	return body.bodyType == Static
}

// SetType sets the type of the body. Static bodies get infinite mass and
// inertia and lose their velocity.
func (body *RigidBody) SetType(bt BodyType) {
	body.bodyType = bt
	if bt == Static {
		body.inverseMass = 0
		body.inverseInertiaTensor = mgl64.Mat3{}
		body.velocity = mgl64.Vec3{}
		body.rotation = mgl64.Vec3{}
		body.CalculateDerivedData()
	}
}

// AttachPrimitive adds prim to the body and computes its world transform.
// A body already in a world gets its BVH leaf refitted.
func (body *RigidBody) AttachPrimitive(prim *Primitive) {
	prim.Body = body
	body.Primitives = append(body.Primitives, prim)
	prim.CalculateInternalData()
	if body.World != nil {
		body.World.refit(body)
	}
}

// AddPrimitives builds and attaches every descriptor. It stops at the first invalid one.
func (body *RigidBody) AddPrimitives(descs ...PrimitiveDescriptor) error {
	for _, desc := range descs {
		if _, err := NewPrimitive(body, desc); err != nil {
			return err
		}
	}
	return nil
}

// Mass returns mass of the body, math.MaxFloat64 for infinite mass.
func (body *RigidBody) Mass() float64 {
	if body.inverseMass == 0 {
		return math.MaxFloat64
	}
	return 1 / body.inverseMass
}

// SetMass sets mass of the body. mass must be positive.
func (body *RigidBody) SetMass(mass float64) {
	body.inverseMass = 1 / mass
}

func (body *RigidBody) InverseMass() float64 {
	return body.inverseMass
}

// SetInverseMass sets the inverse mass directly, 0 means infinite mass.
func (body *RigidBody) SetInverseMass(inverseMass float64) {
	body.inverseMass = inverseMass
}

// HasFiniteMass returns true if forces can move the body.
func (body *RigidBody) HasFiniteMass() bool {
	return body.inverseMass > 0
}

// SetInertiaTensor sets the inertia tensor in body space.
func (body *RigidBody) SetInertiaTensor(tensor mgl64.Mat3) {
	body.inverseInertiaTensor = tensor.Inv()
	body.updateWorldInertia()
}

// SetInertiaTensorCoefficients sets a diagonal inertia tensor.
func (body *RigidBody) SetInertiaTensorCoefficients(ix, iy, iz float64) {
	body.SetInertiaTensor(mgl64.Diag3(mgl64.Vec3{ix, iy, iz}))
}

// SetInverseInertiaTensor sets the inverse inertia tensor in body space.
func (body *RigidBody) SetInverseInertiaTensor(inverse mgl64.Mat3) {
	body.inverseInertiaTensor = inverse
	body.updateWorldInertia()
}

func (body *RigidBody) InverseInertiaTensor() mgl64.Mat3 {
	return body.inverseInertiaTensor
}

func (body *RigidBody) InverseInertiaTensorWorld() mgl64.Mat3 {
	return body.inverseInertiaTensorWorld
}

func (body *RigidBody) Position() mgl64.Vec3 {
	return body.position
}

// SetPosition moves the body and recomputes its derived data.
func (body *RigidBody) SetPosition(position mgl64.Vec3) {
	body.position = position
	body.CalculateDerivedData()
}

func (body *RigidBody) Orientation() mgl64.Quat {
	return body.orientation
}

// SetOrientation rotates the body and recomputes its derived data.
func (body *RigidBody) SetOrientation(orientation mgl64.Quat) {
	body.orientation = orientation
	body.CalculateDerivedData()
}

func (body *RigidBody) Velocity() mgl64.Vec3 {
	return body.velocity
}

func (body *RigidBody) SetVelocity(velocity mgl64.Vec3) {
	body.velocity = velocity
}

// AngularVelocity returns the rotation of the body in radians per second.
func (body *RigidBody) AngularVelocity() mgl64.Vec3 {
	return body.rotation
}

func (body *RigidBody) SetAngularVelocity(rotation mgl64.Vec3) {
	body.rotation = rotation
}

func (body *RigidBody) Acceleration() mgl64.Vec3 {
	return body.acceleration
}

// SetAcceleration sets a constant acceleration applied every integration.
func (body *RigidBody) SetAcceleration(acceleration mgl64.Vec3) {
	body.acceleration = acceleration
}

// LastFrameAcceleration returns the linear acceleration used by the last integration.
func (body *RigidBody) LastFrameAcceleration() mgl64.Vec3 {
	return body.lastFrameAcceleration
}

// Force returns the accumulated force.
func (body *RigidBody) Force() mgl64.Vec3 {
	return body.force
}

// Torque returns the accumulated torque.
func (body *RigidBody) Torque() mgl64.Vec3 {
	return body.torque
}

func (body *RigidBody) Transform() Transform {
	return body.transform
}

// SetDamping sets the fraction of linear and angular velocity kept each second.
func (body *RigidBody) SetDamping(linear, angular float64) {
	body.linearDamping = linear
	body.angularDamping = angular
}

// Node returns the BVH leaf handle of the body, NilNode when not indexed.
func (body *RigidBody) Node() NodeID {
	return body.node
}

func (body *RigidBody) IsAwake() bool {
	return body.awake
}

// SetAwake wakes the body up or puts it to sleep.
func (body *RigidBody) SetAwake(awake bool) {
	if awake {
		body.WakeUp()
	} else {
		body.Sleep()
	}
}

// WakeUp marks the body awake with enough motion to survive the next sleep check.
func (body *RigidBody) WakeUp() {
	body.awake = true
	body.motion = 2 * body.sleepEpsilon
}

// Sleep marks the body asleep and stops it.
func (body *RigidBody) Sleep() {
	body.awake = false
	body.velocity = mgl64.Vec3{}
	body.rotation = mgl64.Vec3{}
}

func (body *RigidBody) CanSleep() bool {
	return body.canSleep
}

// SetCanSleep enables sleeping. Bodies that cannot sleep are woken up.
func (body *RigidBody) SetCanSleep(canSleep bool) {
	body.canSleep = canSleep
	if !canSleep && !body.awake {
		body.WakeUp()
	}
}

// SetSleepEpsilon sets the motion under which the body falls asleep.
func (body *RigidBody) SetSleepEpsilon(eps float64) {
	body.sleepEpsilon = eps
}

// Motion returns the recency weighted kinetic energy estimate used for sleeping.
func (body *RigidBody) Motion() float64 {
	return body.motion
}

// ApplyForce adds a world space force at the center of mass.
func (body *RigidBody) ApplyForce(force mgl64.Vec3) {
	body.force = body.force.Add(force)
	body.WakeUp()
}

// ApplyForceAtPoint adds a world space force at a world space point.
// Off-center forces also add torque.
func (body *RigidBody) ApplyForceAtPoint(force, point mgl64.Vec3) {
	r := point.Sub(body.position)
	body.force = body.force.Add(force)
	body.torque = body.torque.Add(r.Cross(force))
	body.WakeUp()
}

// ApplyForceAtBodyPoint adds a world space force at a body space point.
func (body *RigidBody) ApplyForceAtBodyPoint(force, point mgl64.Vec3) {
	body.ApplyForceAtPoint(force, body.PointInWorldSpace(point))
}

// ApplyTorque adds a world space torque.
func (body *RigidBody) ApplyTorque(torque mgl64.Vec3) {
	body.torque = body.torque.Add(torque)
	body.WakeUp()
}

// ClearAccumulators resets the accumulated force and torque.
func (body *RigidBody) ClearAccumulators() {
	body.force = mgl64.Vec3{}
	body.torque = mgl64.Vec3{}
}

// PointInWorldSpace converts a body space point to world space.
func (body *RigidBody) PointInWorldSpace(point mgl64.Vec3) mgl64.Vec3 {
	return body.transform.Apply(point)
}

// PointInLocalSpace converts a world space point to body space.
func (body *RigidBody) PointInLocalSpace(point mgl64.Vec3) mgl64.Vec3 {
	return body.transform.ApplyInverse(point)
}

// DirectionInWorldSpace converts a body space direction to world space.
func (body *RigidBody) DirectionInWorldSpace(direction mgl64.Vec3) mgl64.Vec3 {
	return body.transform.ApplyVector(direction)
}

func (body *RigidBody) updateWorldInertia() {
	r := body.transform.Basis()
	body.inverseInertiaTensorWorld = r.Mul3(body.inverseInertiaTensor).Mul3(r.Transpose())
}

// CalculateDerivedData recomputes the transform, the world inertia and the
// primitive transforms from position and orientation, and moves the BVH leaf.
// Call it after changing the state directly.
func (body *RigidBody) CalculateDerivedData() {
	body.orientation = body.orientation.Normalize()
	body.transform = NewTransformRigid(body.position, body.orientation)
	body.updateWorldInertia()

	for _, prim := range body.Primitives {
		prim.CalculateInternalData()
	}

	if body.bvh != nil {
		body.bvh.UpdateHierarchy(body.node)
	}
}

// Integrate advances the body by duration seconds. Sleeping and static bodies are left untouched.
func (body *RigidBody) Integrate(duration float64) {
	if !body.awake || body.bodyType == Static {
		return
	}

	body.lastFrameAcceleration = body.acceleration.Add(body.force.Mul(body.inverseMass))
	angularAcceleration := body.inverseInertiaTensorWorld.Mul3x1(body.torque)

	body.velocity = body.velocity.Add(body.lastFrameAcceleration.Mul(duration))
	body.rotation = body.rotation.Add(angularAcceleration.Mul(duration))

	// drag
	body.velocity = body.velocity.Mul(math.Pow(body.linearDamping, duration))
	body.rotation = body.rotation.Mul(math.Pow(body.angularDamping, duration))

	body.position = body.position.Add(body.velocity.Mul(duration))
	body.orientation = addScaledVector(body.orientation, body.rotation, duration)

	body.CalculateDerivedData()
	body.ClearAccumulators()

	if body.canSleep {
		currentMotion := body.velocity.LenSqr() + body.rotation.LenSqr()
		bias := math.Pow(0.5, duration)
		body.motion = bias*body.motion + (1-bias)*currentMotion

		if body.motion < body.sleepEpsilon {
			body.Sleep()
		} else if body.motion > 5*body.sleepEpsilon {
			body.motion = 5 * body.sleepEpsilon
		}
	}
}
