package metrics

import (
	"github.com/san-kum/arduck/internal/sim"
)

// Settled reports the fraction of balls at rest on the ground in the
// latest frame: slower than speed and no higher than ceiling.
type Settled struct {
	name     string
	speed    float64
	ceiling  float64
	fraction float64
}

func NewSettled(speed, ceiling float64) *Settled {
	return &Settled{
		name:    "settled",
		speed:   speed,
		ceiling: ceiling,
	}
}

func (s *Settled) Name() string {
	return s.name
}

func (s *Settled) Observe(pairs []sim.Pair, t float64) {
	if len(pairs) == 0 {
		s.fraction = 0
		return
	}
	n := 0
	for _, p := range pairs {
		if p.Body.Velocity.Len() < s.speed && p.Body.Position.Y() <= s.ceiling {
			n++
		}
	}
	s.fraction = float64(n) / float64(len(pairs))
}

func (s *Settled) Value() float64 {
	return s.fraction
}

func (s *Settled) Reset() {
	s.fraction = 0
}
