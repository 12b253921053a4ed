package physics

import (
	"math"

	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Shape is the collision geometry attached to a body.
type Shape interface {
	// BoundingRadius is the radius of a sphere around the body origin that
	// contains the shape, or +Inf for unbounded shapes.
	BoundingRadius() float64
	// Inertia returns the scalar moment of inertia for the given mass.
	Inertia(mass float64) float64

	// collider builds the solver shape for a body posed at position/rotation.
	collider(position mgl64.Vec3, rotation mgl64.Quat) actor.ShapeInterface
}

// Sphere is a ball of the given radius centred on the body origin.
type Sphere struct {
	Radius float64
}

func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

func (s *Sphere) BoundingRadius() float64 { return s.Radius }

// Inertia of a solid sphere: 2/5 m r².
func (s *Sphere) Inertia(mass float64) float64 {
	return 0.4 * mass * s.Radius * s.Radius
}

func (s *Sphere) collider(mgl64.Vec3, mgl64.Quat) actor.ShapeInterface {
	return &actor.Sphere{Radius: s.Radius}
}

// Plane is an infinite half-space. In body coordinates its surface passes
// through the origin and its normal is +Z; rotate the body to orient it.
type Plane struct{}

func NewPlane() *Plane { return &Plane{} }

func (p *Plane) BoundingRadius() float64 { return math.Inf(1) }

func (p *Plane) Inertia(mass float64) float64 { return 0 }

// The solver plane lives in world coordinates: its body keeps the identity
// pose and the normal and offset carry the orientation.
func (p *Plane) collider(position mgl64.Vec3, rotation mgl64.Quat) actor.ShapeInterface {
	n := PlaneNormal(rotation)
	return &actor.Plane{Normal: n, Distance: n.Dot(position)}
}

// PlaneNormal is the world normal of a plane body with the given rotation.
func PlaneNormal(rotation mgl64.Quat) mgl64.Vec3 {
	return rotation.Rotate(planeLocalNormal).Normalize()
}

// planeLocalNormal is the normal of a Plane before the body rotation.
var planeLocalNormal = mgl64.Vec3{0, 0, 1}
