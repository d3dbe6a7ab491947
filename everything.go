package goom

import (
	"fmt"
	"math"

	"cogentcore.org/core/base/errors"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrUnsupportedPrimitiveType is returned for a primitive descriptor with an unknown type.
	ErrUnsupportedPrimitiveType = errors.New("goom: unsupported primitive type")
	// ErrInvalidDescriptor is returned for descriptors with degenerate geometry or mass.
	ErrInvalidDescriptor = errors.New("goom: invalid descriptor")
	// ErrBodyNotFound is returned when removing a body the world does not own.
	ErrBodyNotFound = errors.New("goom: body not found")
	// ErrWorldLocked is returned when the world is mutated from a contact handler.
	ErrWorldLocked = errors.New("goom: world is locked")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("goom: invalid config")
)

const (
	// MaxContacts is the default capacity of the detector's contact pool.
	MaxContacts int = 30
	// PotentialContactLimit is the default cap on broad-phase pairs per step.
	PotentialContactLimit int = 1000

	// SleepEpsilon is the motion under which a body falls asleep.
	SleepEpsilon float64 = 0.2
	// LinearDamping is the fraction of linear velocity kept each second.
	LinearDamping float64 = 0.9999
	// AngularDamping is the fraction of angular velocity kept each second.
	AngularDamping float64 = 0.9999

	// MinVelocity is the closing speed under which restitution is ignored.
	MinVelocity float64 = 0.25
	// AngularLimit caps the angular share of a position correction.
	AngularLimit float64 = 0.2

	// PositionEpsilon is the default penetration tolerance of the resolver.
	PositionEpsilon float64 = 0.01
	// VelocityEpsilon is the default desired velocity tolerance of the resolver.
	VelocityEpsilon float64 = 0.01

	sphereVolumeFactor = 1.333333 * math.Pi
	axisEpsilon        = 0.0001
	edgeEpsilon        = 0.0001
)

// CollisionData holds the surface coefficients applied to every contact a narrow-phase test emits.
type CollisionData struct {
	Restitution float64
	Friction    float64
}

// PotentialContact is a pair of bodies whose bounding volumes overlap.
type PotentialContact struct {
	A, B *RigidBody
}

// corner multipliers for the 8 vertices of a box
var boxCorners = [8]mgl64.Vec3{
	{1, 1, 1},
	{-1, 1, 1},
	{1, -1, 1},
	{-1, -1, 1},
	{1, 1, -1},
	{-1, 1, -1},
	{1, -1, -1},
	{-1, -1, -1},
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func absDot(a, b mgl64.Vec3) float64 {
	return math.Abs(a.Dot(b))
}

func clamp(f, min, max float64) float64 {
	if f > min {
		return math.Min(f, max)
	} else {
		return math.Min(min, max)
	}
}

// addScaledVector rotates q by the angular displacement v.
func addScaledVector(q mgl64.Quat, v mgl64.Vec3, scale float64) mgl64.Quat {
	w := mgl64.Quat{W: 0, V: v.Mul(scale)}
	return q.Add(w.Mul(q).Scale(0.5))
}

// DebugInfo returns info of world
func DebugInfo(world *World) string {
	var awake, asleep, static int
	var ke float64
	for _, body := range world.Bodies {
		switch {
		case body.IsStatic():
			static++
		case body.IsAwake():
			awake++
		default:
			asleep++
		}
		if !body.HasFiniteMass() {
			continue
		}
		ke += body.Mass() * body.velocity.LenSqr()
	}

	return fmt.Sprintf(`Bodies: %d (awake %d, asleep %d, static %d) - Planes: %d
BVH nodes: %d, Contacts last step: %d (pool overflow %d)
Steps: %d, KE: %e`, len(world.Bodies), awake, asleep, static, len(world.Planes),
		world.BVH().NodeCount(), world.lastContactCount, world.lastOverflow, world.stamp, 0.5*ke)
}
