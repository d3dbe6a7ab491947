package goom_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/goomengine/goom"
	"github.com/stretchr/testify/assert"
)

func TestContactBasisOrthonormal(t *testing.T) {
	normals := []mgl64.Vec3{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {-1, 0, 0}, {0, -1, 0},
		mgl64.Vec3{1, 1, 0}.Normalize(),
		mgl64.Vec3{1, 2, 3}.Normalize(),
		mgl64.Vec3{-0.3, 0.1, -0.9}.Normalize(),
	}
	for _, n := range normals {
		c := &goom.Contact{Normal: n}
		c.SetContactData(goom.NewRigidBody(1), nil, 0, 0)
		c.CalculateInternalData(1.0 / 60)

		basis := c.ContactToWorld()
		assertVec(t, n, basis.Col(0), delta)
		for i := range 3 {
			assert.InDelta(t, 1, basis.Col(i).Len(), delta, "column %d of basis for %v", i, n)
			for j := i + 1; j < 3; j++ {
				assert.InDelta(t, 0, basis.Col(i).Dot(basis.Col(j)), delta, "columns %d %d for %v", i, j, n)
			}
		}
		// right handed
		assertVec(t, basis.Col(2), basis.Col(0).Cross(basis.Col(1)), delta)
	}
}

func TestContactSwapsMissingFirstBody(t *testing.T) {
	body := goom.NewRigidBody(1)
	c := &goom.Contact{Normal: mgl64.Vec3{0, 1, 0}, Point: mgl64.Vec3{0, -1, 0}}
	c.SetContactData(nil, body, 0, 0)

	c.CalculateInternalData(1.0 / 60)
	assert.Same(t, body, c.Bodies[0])
	assert.Nil(t, c.Bodies[1])
	assertVec(t, mgl64.Vec3{0, -1, 0}, c.Normal, 0)
	assertVec(t, mgl64.Vec3{0, -1, 0}, c.RelativeContactPosition(0), delta)
}

func TestContactVelocity(t *testing.T) {
	a := goom.NewRigidBody(1)
	a.SetVelocity(mgl64.Vec3{0, -2, 0})
	b := goom.NewRigidBody(1)
	b.SetPosition(mgl64.Vec3{0, -2, 0})
	b.SetVelocity(mgl64.Vec3{0, 1, 0})

	c := &goom.Contact{Normal: mgl64.Vec3{0, 1, 0}, Point: mgl64.Vec3{0, -1, 0}}
	c.SetContactData(a, b, 0, 0)
	c.CalculateInternalData(1.0 / 60)

	assert.InDelta(t, -3, c.ContactVelocity().X(), delta)
	assert.InDelta(t, 3, c.DesiredDeltaVelocity(), delta)
}

func TestContactVelocityIncludesRotation(t *testing.T) {
	body := goom.NewRigidBody(1)
	body.SetAngularVelocity(mgl64.Vec3{0, 0, 1})

	c := &goom.Contact{Normal: mgl64.Vec3{0, 1, 0}, Point: mgl64.Vec3{1, 0, 0}}
	c.SetContactData(body, nil, 0, 0)
	c.CalculateInternalData(1.0 / 60)

	// w x r = (0, 0, 1) x (1, 0, 0) = (0, 1, 0)
	assert.InDelta(t, 1, c.ContactVelocity().X(), delta)
}

func TestMatchAwakeState(t *testing.T) {
	a := goom.NewRigidBody(1)
	b := goom.NewRigidBody(1)
	b.Sleep()

	c := &goom.Contact{}
	c.SetContactData(a, b, 0, 0)
	c.MatchAwakeState()
	assert.True(t, a.IsAwake())
	assert.True(t, b.IsAwake())

	a.Sleep()
	b.Sleep()
	c.MatchAwakeState()
	assert.False(t, a.IsAwake())
	assert.False(t, b.IsAwake())

	c.SetContactData(a, nil, 0, 0)
	c.MatchAwakeState()
	assert.False(t, a.IsAwake())
}

func TestResolvePositionKeepsOrientation(t *testing.T) {
	body := goom.NewRigidBody(1)
	body.SetInertiaTensorCoefficients(1, 1, 1)

	c := &goom.Contact{Normal: mgl64.Vec3{0, 1, 0}, Point: mgl64.Vec3{1, -1, 0}, Penetration: 0.1}
	c.SetContactData(body, nil, 0, 0)
	c.CalculateInternalData(1.0 / 60)

	linear, angular := c.ResolvePosition(c.Penetration)
	assertVec(t, mgl64.Vec3{0, 0.05, 0}, linear[0], delta)
	assertVec(t, mgl64.Vec3{0, 0, 0.05}, angular[0], delta)
	assertVec(t, mgl64.Vec3{0, 0.05, 0}, body.Position(), delta)
	assert.Equal(t, mgl64.QuatIdent(), body.Orientation())
}

func TestResolvePositionAngularLimit(t *testing.T) {
	body := goom.NewRigidBody(1)
	body.SetInertiaTensorCoefficients(0.01, 0.01, 0.01)

	// a short lever arm caps the angular share, the rest is moved linearly
	c := &goom.Contact{Normal: mgl64.Vec3{0, 1, 0}, Point: mgl64.Vec3{0.1, -1, 0}, Penetration: 1}
	c.SetContactData(body, nil, 0, 0)
	c.CalculateInternalData(1.0 / 60)

	linear, _ := c.ResolvePosition(c.Penetration)
	assertVec(t, mgl64.Vec3{0, 1 - goom.AngularLimit*0.1, 0}, linear[0], delta)
}
