package physics

import (
	"fmt"

	"github.com/akmonengine/feather"
	"github.com/akmonengine/feather/actor"
	"github.com/akmonengine/feather/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/dynamo"
)

const (
	DefaultSubsteps = 4

	// bodies per goroutine when integrating
	integrateChunk = 256
)

// World owns bodies and contact rules and advances them in fixed steps.
// Collision detection and the XPBD contact solve run in feather; the world
// adds force accumulators and per-pair contact materials on top.
type World struct {
	Gravity mgl64.Vec3

	// DefaultContactMaterial applies to pairs without a registered rule.
	DefaultContactMaterial ContactMaterial

	// Substeps splits every Step; more substeps give stiffer contacts.
	Substeps int

	solver           *feather.World
	bodies           []*Body
	byRigid          map[*actor.RigidBody]*Body
	contactMaterials map[materialKey]*ContactMaterial
	contacts         []Contact
	nextID           int
	time             float64
	steps            int
}

func NewWorld() *World {
	return &World{
		DefaultContactMaterial: ContactMaterial{
			Friction:    DefaultFriction,
			Restitution: DefaultRestitution,
		},
		Substeps:         DefaultSubsteps,
		solver:           &feather.World{Substeps: 1, Workers: feather.DEFAULT_WORKERS},
		byRigid:          make(map[*actor.RigidBody]*Body),
		contactMaterials: make(map[materialKey]*ContactMaterial),
	}
}

// Add inserts a body and assigns its ID. Static bodies are fixed in place
// from here on.
func (w *World) Add(b *Body) {
	if b.Shape == nil {
		panic(fmt.Sprintf("physics: body %d has no shape", w.nextID))
	}
	b.ID = w.nextID
	w.nextID++
	w.bodies = append(w.bodies, b)

	rb := b.newRigid()
	w.byRigid[rb] = b
	w.solver.AddBody(rb)
}

func (w *World) Bodies() []*Body { return w.bodies }

// Time is the simulated time accumulated by Step.
func (w *World) Time() float64 { return w.time }

func (w *World) StepCount() int { return w.steps }

// Contacts returns the touching pairs found during the last step, one per
// pair, in detection order.
func (w *World) Contacts() []Contact { return w.contacts }

// AddContactMaterial registers a rule for its material pair, replacing any
// earlier rule for the same pair.
func (w *World) AddContactMaterial(cm *ContactMaterial) {
	w.contactMaterials[materialKey{cm.A, cm.B}] = cm
	w.contactMaterials[materialKey{cm.B, cm.A}] = cm
}

// ContactMaterialFor returns the rule for (a, b) or the world default.
func (w *World) ContactMaterialFor(a, b *Material) *ContactMaterial {
	if cm, ok := w.contactMaterials[materialKey{a, b}]; ok {
		return cm
	}
	return &w.DefaultContactMaterial
}

// Step advances the world by dt seconds. Forces applied since the last
// step act over this step only.
func (w *World) Step(dt float64) {
	substeps := max(1, w.Substeps)
	h := dt / float64(substeps)
	w.solver.Gravity = w.Gravity

	for _, b := range w.bodies {
		b.push(dt)
	}

	w.contacts = w.contacts[:0]
	seen := make(map[[2]*Body]bool)
	rigid := w.solver.Bodies

	for range substeps {
		dynamo.ParallelFor(len(rigid), integrateChunk, func(start, end int) {
			for _, rb := range rigid[start:end] {
				rb.Integrate(h, w.Gravity)
			}
		})

		constraints := feather.NarrowPhase(feather.BroadPhase(w.solver.SpatialGrid, rigid, w.solver.Workers), w.solver.Workers)
		for _, c := range constraints {
			c.SolvePosition(h)
		}
		for _, rb := range rigid {
			rb.Update(h)
		}
		for _, c := range constraints {
			w.solveVelocity(c, h)
			w.record(c, seen)
		}
	}

	for _, b := range w.bodies {
		b.pull()
	}
	w.time += dt
	w.steps++
}

// solveVelocity applies the pair's contact material before the velocity
// solve. Contacts approaching slower than gravity adds in two substeps
// are resting and do not bounce.
func (w *World) solveVelocity(c *constraint.ContactConstraint, h float64) {
	a, b := w.byRigid[c.BodyA], w.byRigid[c.BodyB]
	if a == nil || b == nil {
		c.SolveVelocity(h)
		return
	}
	cm := w.ContactMaterialFor(a.Material, b.Material)

	restitution := cm.Restitution
	if approachSpeed(c) <= 2*w.Gravity.Len()*h {
		restitution = 0
	}
	for _, rb := range []*actor.RigidBody{c.BodyA, c.BodyB} {
		rb.Material.Restitution = restitution
		rb.Material.StaticFriction = cm.Friction
		rb.Material.DynamicFriction = cm.Friction
	}
	c.SolveVelocity(h)
}

func (w *World) record(c *constraint.ContactConstraint, seen map[[2]*Body]bool) {
	a, b := w.byRigid[c.BodyA], w.byRigid[c.BodyB]
	if a == nil || b == nil || len(c.Points) == 0 {
		return
	}
	key := [2]*Body{a, b}
	if a.ID > b.ID {
		key = [2]*Body{b, a}
	}
	if seen[key] {
		return
	}
	seen[key] = true
	w.contacts = append(w.contacts, Contact{A: a, B: b, Normal: c.Normal, Penetration: depth(c)})
}
