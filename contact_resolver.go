package goom

// ContactResolver removes interpenetration and closing velocity from a set of contacts.
//
// Both passes repeatedly pick the worst contact, resolve it and propagate the
// change to every contact sharing a body with it. Each pass stops when nothing
// exceeds its epsilon or after 2 × len(contacts) iterations. Ties go to the
// earliest contact in the list.
type ContactResolver struct {
	VelocityEpsilon float64
	PositionEpsilon float64

	// PositionIterations and VelocityIterations override the iteration cap when positive.
	PositionIterations int
	VelocityIterations int

	// iterations used by the last Resolve call
	PositionIterationsUsed int
	VelocityIterationsUsed int
}

// NewContactResolver returns a resolver with the given tolerances.
func NewContactResolver(velocityEpsilon, positionEpsilon float64) *ContactResolver {
	return &ContactResolver{
		VelocityEpsilon: velocityEpsilon,
		PositionEpsilon: positionEpsilon,
	}
}

// Resolve runs the position pass and then the velocity pass over contacts.
// Reaching the iteration cap is not an error; the remainder is left for the next step.
func (r *ContactResolver) Resolve(contacts []*Contact, duration float64) {
	r.PositionIterationsUsed = 0
	r.VelocityIterationsUsed = 0
	if len(contacts) == 0 {
		return
	}

	for _, c := range contacts {
		c.CalculateInternalData(duration)
	}

	r.adjustPositions(contacts)
	r.adjustVelocities(contacts, duration)
}

func (r *ContactResolver) positionCap(n int) int {
	if r.PositionIterations > 0 {
		return r.PositionIterations
	}
	return 2 * n
}

func (r *ContactResolver) velocityCap(n int) int {
	if r.VelocityIterations > 0 {
		return r.VelocityIterations
	}
	return 2 * n
}

// Exhausted returns true if the last Resolve stopped on an iteration cap.
func (r *ContactResolver) Exhausted(contacts int) bool {
	return contacts > 0 && (r.PositionIterationsUsed >= r.positionCap(contacts) ||
		r.VelocityIterationsUsed >= r.velocityCap(contacts))
}

func (r *ContactResolver) adjustPositions(contacts []*Contact) {
	limit := r.positionCap(len(contacts))

	for r.PositionIterationsUsed < limit {
		worst := r.PositionEpsilon
		index := len(contacts)
		for i, c := range contacts {
			if c.Penetration > worst && c.canResolve() {
				worst = c.Penetration
				index = i
			}
		}
		if index == len(contacts) {
			break
		}

		chosen := contacts[index]
		chosen.MatchAwakeState()
		linearChange, angularChange := chosen.ResolvePosition(worst)

		for _, c := range contacts {
			for b, body := range c.Bodies {
				if body == nil || body.IsStatic() {
					continue
				}
				for d, moved := range chosen.Bodies {
					if body != moved {
						continue
					}
					deltaPosition := linearChange[d].Add(angularChange[d].Cross(c.relativeContactPosition[b]))
					// moving the first body reduces penetration, moving the second increases it
					sign := -1.0
					if b == 1 {
						sign = 1
					}
					c.Penetration += sign * deltaPosition.Dot(c.Normal)
				}
			}
		}
		r.PositionIterationsUsed++
	}
}

func (r *ContactResolver) adjustVelocities(contacts []*Contact, duration float64) {
	limit := r.velocityCap(len(contacts))

	for r.VelocityIterationsUsed < limit {
		worst := r.VelocityEpsilon
		index := len(contacts)
		for i, c := range contacts {
			if c.desiredDeltaVelocity > worst && c.canResolve() {
				worst = c.desiredDeltaVelocity
				index = i
			}
		}
		if index == len(contacts) {
			break
		}

		chosen := contacts[index]
		chosen.MatchAwakeState()
		velocityChange, rotationChange := chosen.ResolveVelocity()

		for _, c := range contacts {
			changed := false
			for b, body := range c.Bodies {
				if body == nil {
					continue
				}
				for d, moved := range chosen.Bodies {
					if body != moved {
						continue
					}
					deltaVel := velocityChange[d].Add(rotationChange[d].Cross(c.relativeContactPosition[b]))
					local := c.contactToWorld.Transpose().Mul3x1(deltaVel)
					if b == 1 {
						local = local.Mul(-1)
					}
					c.contactVelocity = c.contactVelocity.Add(local)
					changed = true
				}
			}
			if changed {
				c.CalculateDesiredDeltaVelocity(duration)
			}
		}
		r.VelocityIterationsUsed++
	}
}
