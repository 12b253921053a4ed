package physics

import (
	"math"

	"github.com/akmonengine/feather/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact is a touching pair found during a step. The normal points from
// A towards B.
type Contact struct {
	A, B        *Body
	Normal      mgl64.Vec3
	Penetration float64
}

// approachSpeed is the largest normal speed of the pair at the contact
// points before the position solve, taken from the solver's pre-solve state.
func approachSpeed(c *constraint.ContactConstraint) float64 {
	a, b := c.BodyA, c.BodyB
	speed := 0.0
	for _, p := range c.Points {
		rA := p.Position.Sub(a.Transform.Position)
		rB := p.Position.Sub(b.Transform.Position)
		vA := a.PresolveVelocity.Add(a.PresolveAngularVelocity.Cross(rA))
		vB := b.PresolveVelocity.Add(b.PresolveAngularVelocity.Cross(rB))
		speed = math.Max(speed, math.Abs(vB.Sub(vA).Dot(c.Normal)))
	}
	return speed
}

func depth(c *constraint.ContactConstraint) float64 {
	d := 0.0
	for _, p := range c.Points {
		d = math.Max(d, p.Penetration)
	}
	return d
}
