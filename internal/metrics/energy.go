package metrics

import (
	"github.com/san-kum/arduck/internal/sim"
)

// KineticEnergy averages the total kinetic energy of all balls, linear
// plus rotational, over the frames it observes.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(pairs []sim.Pair, t float64) {
	e.total += TotalKineticEnergy(pairs)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

func TotalKineticEnergy(pairs []sim.Pair) float64 {
	var ke float64
	for _, p := range pairs {
		b := p.Body
		v, w := b.Velocity, b.AngularVelocity
		ke += 0.5*b.Mass*v.Dot(v) + 0.5*b.Inertia*w.Dot(w)
	}
	return ke
}

// MaxSpeed is the highest ball speed seen since the last Reset.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(pairs []sim.Pair, t float64) {
	for _, p := range pairs {
		if s := p.Body.Velocity.Len(); s > m.max {
			m.max = s
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
