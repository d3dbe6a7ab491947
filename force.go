package goom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ForceGenerator adds a force to a body once per step.
type ForceGenerator interface {
	UpdateForce(body *RigidBody, duration float64)
}

// Gravity applies a constant acceleration to bodies with finite mass.
type Gravity struct {
	Gravity mgl64.Vec3
}

func NewGravity(gravity mgl64.Vec3) *Gravity {
	return &Gravity{Gravity: gravity}
}

func (g *Gravity) UpdateForce(body *RigidBody, _ float64) {
	if !body.HasFiniteMass() {
		return
	}
	body.ApplyForce(g.Gravity.Mul(body.Mass()))
}

// DampedSpring pulls a point of the body towards a point of Other.
//
// ConnectionPoint is in body coordinates. OtherConnectionPoint is in Other's
// coordinates, or in world coordinates when Other is nil.
type DampedSpring struct {
	ConnectionPoint      mgl64.Vec3
	Other                *RigidBody
	OtherConnectionPoint mgl64.Vec3

	RestLength, Stiffness, Damping float64
}

func NewDampedSpring(connectionPoint mgl64.Vec3, other *RigidBody, otherConnectionPoint mgl64.Vec3, restLength, stiffness, damping float64) *DampedSpring {
	return &DampedSpring{
		ConnectionPoint:      connectionPoint,
		Other:                other,
		OtherConnectionPoint: otherConnectionPoint,
		RestLength:           restLength,
		Stiffness:            stiffness,
		Damping:              damping,
	}
}

// pointVelocity returns the velocity of a world space point fixed to body.
func pointVelocity(body *RigidBody, point mgl64.Vec3) mgl64.Vec3 {
	return body.velocity.Add(body.rotation.Cross(point.Sub(body.position)))
}

func (spring *DampedSpring) UpdateForce(body *RigidBody, _ float64) {
	lws := body.PointInWorldSpace(spring.ConnectionPoint)
	ows := spring.OtherConnectionPoint
	var otherVelocity mgl64.Vec3
	if spring.Other != nil {
		ows = spring.Other.PointInWorldSpace(spring.OtherConnectionPoint)
		otherVelocity = pointVelocity(spring.Other, ows)
	}

	delta := lws.Sub(ows)
	length := delta.Len()
	if length == 0 {
		return
	}
	dir := delta.Mul(1 / length)

	relVel := pointVelocity(body, lws).Sub(otherVelocity).Dot(dir)
	magnitude := -spring.Stiffness*(length-spring.RestLength) - spring.Damping*relVel

	body.ApplyForceAtPoint(dir.Mul(magnitude), lws)
}

type forceRegistration struct {
	body      *RigidBody
	generator ForceGenerator
}

// ForceRegistry holds the body and generator pairs updated every step.
type ForceRegistry struct {
	registrations []forceRegistration
}

// Add registers generator for body. The same pair may be added more than once.
func (registry *ForceRegistry) Add(body *RigidBody, generator ForceGenerator) {
	registry.registrations = append(registry.registrations, forceRegistration{body, generator})
}

// Remove drops the first registration of the pair and returns true if there was one.
func (registry *ForceRegistry) Remove(body *RigidBody, generator ForceGenerator) bool {
	for i, r := range registry.registrations {
		if r.body == body && r.generator == generator {
			registry.registrations = append(registry.registrations[:i], registry.registrations[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveBody drops every registration of body.
func (registry *ForceRegistry) RemoveBody(body *RigidBody) {
	kept := registry.registrations[:0]
	for _, r := range registry.registrations {
		if r.body != body {
			kept = append(kept, r)
		}
	}
	clear(registry.registrations[len(kept):])
	registry.registrations = kept
}

func (registry *ForceRegistry) Clear() {
	registry.registrations = registry.registrations[:0]
}

func (registry *ForceRegistry) Len() int {
	return len(registry.registrations)
}

// UpdateForces runs every generator in registration order.
func (registry *ForceRegistry) UpdateForces(duration float64) {
	for _, r := range registry.registrations {
		r.generator.UpdateForce(r.body, duration)
	}
}
