package goom_test

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/goomengine/goom"
)

const delta = 1e-9

// sphereAt returns a sphere attached to a new body of mass 1 at position.
func sphereAt(position mgl64.Vec3, radius float64) *goom.Sphere {
	body := goom.NewRigidBody(1)
	body.SetPosition(position)
	return goom.NewSphere(body, radius, goom.NewTransformIdentity()).Sphere()
}

// boxAt returns a box attached to a new body of mass 1 at position.
func boxAt(position, halfSize mgl64.Vec3) *goom.Box {
	body := goom.NewRigidBody(1)
	body.SetPosition(position)
	return goom.NewBox(body, halfSize, goom.NewTransformIdentity()).Box()
}

func plane(normal mgl64.Vec3, offset float64) *goom.Plane {
	return goom.NewPlane(normal, offset).Plane()
}

func unitBox() mgl64.Vec3 {
	return mgl64.Vec3{1, 1, 1}
}

var data = goom.CollisionData{Restitution: 0.6, Friction: 0.4}
