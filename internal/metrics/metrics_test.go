package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/physics"
	"github.com/san-kum/arduck/internal/scene"
	"github.com/san-kum/arduck/internal/sim"
)

func pair(pos, vel mgl64.Vec3) sim.Pair {
	b := physics.NewBody(physics.BodyOptions{
		Mass:     1,
		Shape:    physics.NewSphere(0.07),
		Position: pos,
	})
	b.Velocity = vel
	return sim.Pair{Mesh: scene.NewGroup("ball"), Body: b}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	pairs := []sim.Pair{
		pair(mgl64.Vec3{}, mgl64.Vec3{2, 0, 0}),
		pair(mgl64.Vec3{}, mgl64.Vec3{0, 0, 0}),
	}

	m.Observe(pairs, 0)
	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("expected energy 2, got %f", m.Value())
	}

	pairs[0].Body.Velocity = mgl64.Vec3{}
	m.Observe(pairs, 1)
	if math.Abs(m.Value()-1) > 1e-12 {
		t.Errorf("expected mean energy 1, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestRotationalEnergy(t *testing.T) {
	p := pair(mgl64.Vec3{}, mgl64.Vec3{})
	p.Body.AngularVelocity = mgl64.Vec3{0, 10, 0}

	want := 0.5 * p.Body.Inertia * 100
	if got := TotalKineticEnergy([]sim.Pair{p}); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()
	m.Observe([]sim.Pair{pair(mgl64.Vec3{}, mgl64.Vec3{3, 4, 0})}, 0)
	m.Observe([]sim.Pair{pair(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})}, 1)
	if m.Value() != 5 {
		t.Errorf("expected 5, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSettled(t *testing.T) {
	tests := []struct {
		name  string
		pairs []sim.Pair
		want  float64
	}{
		{"empty", nil, 0},
		{"all resting", []sim.Pair{
			pair(mgl64.Vec3{0, -0.15, 0}, mgl64.Vec3{}),
			pair(mgl64.Vec3{1, -0.15, 0}, mgl64.Vec3{0.01, 0, 0}),
		}, 1},
		{"one falling", []sim.Pair{
			pair(mgl64.Vec3{0, -0.15, 0}, mgl64.Vec3{}),
			pair(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, -3, 0}),
		}, 0.5},
		{"high but still", []sim.Pair{
			pair(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{}),
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettled(0.05, -0.1)
			s.Observe(tt.pairs, 0)
			if s.Value() != tt.want {
				t.Errorf("expected %f, got %f", tt.want, s.Value())
			}
		})
	}
}

func TestHeightTrace(t *testing.T) {
	h := NewHeightTrace(8)
	mh := NewMeanHeight()
	for i := 0; i < 5; i++ {
		pairs := []sim.Pair{
			pair(mgl64.Vec3{0, float64(i), 0}, mgl64.Vec3{}),
			pair(mgl64.Vec3{0, float64(i) + 2, 0}, mgl64.Vec3{}),
		}
		h.OnFrame(i, float64(i)/60, pairs, i%2 == 0)
		mh.Observe(pairs, float64(i)/60)
	}

	if len(h.Heights) != 5 || h.Heights[4] != 5 {
		t.Errorf("unexpected trace %v", h.Heights)
	}
	if mh.Value() != 5 {
		t.Errorf("expected mean height 5, got %f", mh.Value())
	}
	if !h.Touched[0] || h.Touched[1] {
		t.Errorf("unexpected touch trace %v", h.Touched)
	}

	d := h.Downsample(3)
	if len(d) != 3 || d[0] != 1 || d[2] != 5 {
		t.Errorf("unexpected downsample %v", d)
	}
	if len(h.Downsample(10)) != 5 {
		t.Error("downsample should not grow the trace")
	}
}
