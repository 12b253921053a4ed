package physics

import (
	"math"

	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Damping is the fraction of velocity lost per second.
const (
	DefaultLinearDamping  = 0.01
	DefaultAngularDamping = 0.01
)

type BodyType int

const (
	BodyDynamic BodyType = iota
	BodyStatic
)

// Body is a rigid body. Bodies with zero mass are static: they never move
// and have infinite effective mass in contacts.
//
// The exported state is authoritative between steps; World.Step hands it to
// the solver body and reads the result back.
type Body struct {
	ID       int
	Type     BodyType
	Shape    Shape
	Material *Material

	Mass       float64
	InvMass    float64
	Inertia    float64
	InvInertia float64

	Position        mgl64.Vec3
	Quaternion      mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	// Force and Torque accumulate until the next World.Step.
	Force  mgl64.Vec3
	Torque mgl64.Vec3

	LinearDamping  float64
	AngularDamping float64

	rigid *actor.RigidBody
}

// BodyOptions configures NewBody. A zero Quaternion means identity.
type BodyOptions struct {
	Mass       float64
	Shape      Shape
	Material   *Material
	Position   mgl64.Vec3
	Quaternion mgl64.Quat
}

func NewBody(opts BodyOptions) *Body {
	b := &Body{
		Shape:          opts.Shape,
		Material:       opts.Material,
		Mass:           opts.Mass,
		Position:       opts.Position,
		Quaternion:     opts.Quaternion,
		LinearDamping:  DefaultLinearDamping,
		AngularDamping: DefaultAngularDamping,
	}
	if b.Quaternion == (mgl64.Quat{}) {
		b.Quaternion = mgl64.QuatIdent()
	}

	if opts.Mass <= 0 {
		b.Type = BodyStatic
		b.Mass = 0
		return b
	}

	b.Type = BodyDynamic
	b.InvMass = 1 / opts.Mass
	if opts.Shape != nil {
		b.Inertia = opts.Shape.Inertia(opts.Mass)
		if b.Inertia > 0 {
			b.InvInertia = 1 / b.Inertia
		}
	}
	return b
}

func (b *Body) IsStatic() bool { return b.Type == BodyStatic }

// ApplyForce adds f, acting at worldPoint, to the accumulators. A force at
// the body position produces no torque.
func (b *Body) ApplyForce(f, worldPoint mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.Force = b.Force.Add(f)
	b.Torque = b.Torque.Add(worldPoint.Sub(b.Position).Cross(f))
}

// SetRotationFromAxisAngle sets the orientation to a rotation of angle
// radians about axis.
func (b *Body) SetRotationFromAxisAngle(axis mgl64.Vec3, angle float64) {
	b.Quaternion = mgl64.QuatRotate(angle, axis.Normalize())
}

// newRigid builds the solver body. Static planes keep the identity pose,
// their collider is expressed in world coordinates.
func (b *Body) newRigid() *actor.RigidBody {
	t := actor.NewTransform()
	if b.IsStatic() {
		rb := actor.NewRigidBody(t, b.Shape.collider(b.Position, b.Quaternion), actor.BodyTypeStatic, 0)
		b.rigid = rb
		return rb
	}

	t.Position = b.Position
	t.Rotation = b.Quaternion
	t.InverseRotation = b.Quaternion.Inverse()

	shape := b.Shape.collider(b.Position, b.Quaternion)
	// ComputeMass is linear in density.
	density := b.Mass / shape.ComputeMass(1)
	rb := actor.NewRigidBody(t, shape, actor.BodyTypeDynamic, density)
	rb.Material.Restitution = DefaultRestitution
	rb.Material.StaticFriction = DefaultFriction
	rb.Material.DynamicFriction = DefaultFriction
	b.rigid = rb
	return rb
}

// push copies the body state into the solver and turns the accumulated
// force into a velocity change over dt.
func (b *Body) push(dt float64) {
	if b.IsStatic() {
		return
	}
	rb := b.rigid
	rb.Transform.Position = b.Position
	rb.Transform.Rotation = b.Quaternion
	rb.Transform.InverseRotation = b.Quaternion.Inverse()
	rb.Velocity = b.Velocity.Add(b.Force.Mul(b.InvMass * dt))
	rb.AngularVelocity = b.AngularVelocity.Add(b.Torque.Mul(b.InvInertia * dt))
	rb.Material.LinearDamping = dampingRate(b.LinearDamping)
	rb.Material.AngularDamping = dampingRate(b.AngularDamping)
	rb.IsSleeping = false
}

// pull reads the solved state back and clears the accumulators.
func (b *Body) pull() {
	b.Force = mgl64.Vec3{}
	b.Torque = mgl64.Vec3{}
	if b.IsStatic() {
		return
	}
	rb := b.rigid
	b.Position = rb.Transform.Position
	b.Quaternion = rb.Transform.Rotation
	b.Velocity = rb.Velocity
	b.AngularVelocity = rb.AngularVelocity
}

// dampingRate converts a per-second loss fraction into the exponential
// rate the solver uses: (1-d)^t == exp(-k t).
func dampingRate(d float64) float64 {
	d = math.Max(0, math.Min(d, 0.999999))
	return -math.Log(1 - d)
}
