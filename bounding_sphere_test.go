package goom_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/goomengine/goom"
	"github.com/stretchr/testify/assert"
)

func TestEnclosingSphere(t *testing.T) {
	a := goom.NewBoundingSphere(mgl64.Vec3{0, 0, 0}, 1)
	b := goom.NewBoundingSphere(mgl64.Vec3{4, 0, 0}, 1)

	s := goom.EnclosingSphere(a, b)
	assertVec(t, mgl64.Vec3{2, 0, 0}, s.Center, delta)
	assert.InDelta(t, 3, s.Radius, delta)

	// a sphere inside another returns the larger one
	inner := goom.NewBoundingSphere(mgl64.Vec3{0.5, 0, 0}, 0.2)
	assert.Equal(t, a, goom.EnclosingSphere(a, inner))
	assert.Equal(t, a, goom.EnclosingSphere(inner, a))

	// same center
	big := goom.NewBoundingSphere(mgl64.Vec3{}, 2)
	assert.Equal(t, big, goom.EnclosingSphere(a, big))
}

func TestEnclosingSphereEncloses(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	random := func() goom.BoundingSphere {
		return goom.NewBoundingSphere(
			mgl64.Vec3{rng.NormFloat64() * 5, rng.NormFloat64() * 5, rng.NormFloat64() * 5},
			rng.Float64()*3,
		)
	}
	for range 200 {
		a, b := random(), random()
		s := goom.EnclosingSphere(a, b)
		assert.True(t, s.Encloses(a, 1e-9), "%v does not enclose %v", s, a)
		assert.True(t, s.Encloses(b, 1e-9), "%v does not enclose %v", s, b)
		assert.LessOrEqual(t, s.Radius, a.Center.Sub(b.Center).Len()+a.Radius+b.Radius)
	}
}

func TestBoundingSphereOverlaps(t *testing.T) {
	a := goom.NewBoundingSphere(mgl64.Vec3{}, 1)

	assert.True(t, a.Overlaps(goom.NewBoundingSphere(mgl64.Vec3{1.9, 0, 0}, 1)))
	assert.False(t, a.Overlaps(goom.NewBoundingSphere(mgl64.Vec3{2, 0, 0}, 1)))
	assert.False(t, a.Overlaps(goom.NewBoundingSphere(mgl64.Vec3{0, 5, 0}, 1)))
	assert.True(t, a.Overlaps(a))
}

func TestBoundingSphereSizeAndGrowth(t *testing.T) {
	a := goom.NewBoundingSphere(mgl64.Vec3{}, 2)
	assert.InDelta(t, 4.0/3*math.Pi*8, a.Size(), 1e-4)

	assert.Zero(t, a.GrowthCost(goom.NewBoundingSphere(mgl64.Vec3{0.5, 0, 0}, 1)))
	// enclosing radius 2.5
	assert.InDelta(t, 2.25, a.GrowthCost(goom.NewBoundingSphere(mgl64.Vec3{2, 0, 0}, 1)), delta)
}

func TestFitToPrimitives(t *testing.T) {
	body := goom.NewRigidBody(1)
	body.SetPosition(mgl64.Vec3{1, 0, 0})
	goom.NewSphere(body, 0.5, goom.NewTransformTranslate(mgl64.Vec3{0, 2, 0}))
	goom.NewBox(body, mgl64.Vec3{1, 1, 1}, goom.NewTransformIdentity())

	volume := goom.NewBoundingSphere(body.Position(), 0)
	volume.FitToPrimitives(body.Primitives)
	assertVec(t, mgl64.Vec3{1, 0, 0}, volume.Center, 0)
	assert.InDelta(t, 2.5, volume.Radius, delta)

	for _, prim := range body.Primitives {
		if s := prim.Sphere(); s != nil {
			assert.True(t, volume.Encloses(s.Bounds(), delta))
		}
		if b := prim.Box(); b != nil {
			for _, corner := range b.Corners() {
				assert.LessOrEqual(t, corner.Sub(volume.Center).Len(), volume.Radius+delta)
			}
		}
	}

	// never shrinks
	large := goom.NewBoundingSphere(body.Position(), 10)
	large.FitToPrimitives(body.Primitives)
	assert.Equal(t, 10.0, large.Radius)
}
