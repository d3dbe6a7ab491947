package goom_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/goomengine/goom"
	"github.com/stretchr/testify/assert"
)

func TestIntersectionSphereAndSphere(t *testing.T) {
	a := sphereAt(mgl64.Vec3{}, 1)
	assert.True(t, goom.SphereAndSphere(a, sphereAt(mgl64.Vec3{1.9, 0, 0}, 1)))
	assert.False(t, goom.SphereAndSphere(a, sphereAt(mgl64.Vec3{2, 0, 0}, 1)))
	assert.False(t, goom.SphereAndSphere(a, sphereAt(mgl64.Vec3{0, 3, 0}, 1)))
}

func TestIntersectionSphereAndHalfSpace(t *testing.T) {
	ground := plane(mgl64.Vec3{0, 1, 0}, 0)
	assert.True(t, goom.SphereAndHalfSpace(sphereAt(mgl64.Vec3{0, 0.5, 0}, 1), ground))
	// touching counts
	assert.True(t, goom.SphereAndHalfSpace(sphereAt(mgl64.Vec3{0, 1, 0}, 1), ground))
	assert.False(t, goom.SphereAndHalfSpace(sphereAt(mgl64.Vec3{0, 1.5, 0}, 1), ground))
	// below the plane is inside
	assert.True(t, goom.SphereAndHalfSpace(sphereAt(mgl64.Vec3{0, -5, 0}, 1), ground))
}

func TestIntersectionBoxAndHalfSpace(t *testing.T) {
	ground := plane(mgl64.Vec3{0, 1, 0}, 0)
	assert.True(t, goom.BoxAndHalfSpace(boxAt(mgl64.Vec3{0, 0.9, 0}, unitBox()), ground))
	assert.False(t, goom.BoxAndHalfSpace(boxAt(mgl64.Vec3{0, 1.1, 0}, unitBox()), ground))

	// a box on its edge reaches further down
	box := boxAt(mgl64.Vec3{0, 1.2, 0}, unitBox())
	box.Body.SetOrientation(mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}))
	assert.True(t, goom.BoxAndHalfSpace(box, ground))
	assert.InDelta(t, math.Sqrt2, box.ProjectedRadius(mgl64.Vec3{0, 1, 0}), delta)
}
