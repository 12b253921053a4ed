package sim

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/physics"
	"github.com/san-kum/arduck/internal/scene"
)

// Pair binds a visual mesh to the physics body that drives it.
type Pair struct {
	Mesh *scene.Mesh
	Body *physics.Body
}

// Sync copies the body pose onto the mesh. Visuals never feed back into
// physics.
func (p Pair) Sync() {
	p.Mesh.Position = p.Body.Position
	p.Mesh.Quaternion = p.Body.Quaternion
}

// Attract applies a force of the given magnitude pulling the body towards
// target, acting at the body centre, and returns it. A body sitting exactly
// on target gets no force.
func (p Pair) Attract(target mgl64.Vec3, magnitude float64) mgl64.Vec3 {
	d := p.Body.Position.Sub(target)
	l := d.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	f := d.Mul(-magnitude / l)
	p.Body.ApplyForce(f, p.Body.Position)
	return f
}

// Registry is the ordered set of pairs owned by a scene. Pairs are only
// ever appended; a body can be registered once.
type Registry struct {
	pairs  []Pair
	bodies map[*physics.Body]struct{}
}

func NewRegistry(capacity int) *Registry {
	return &Registry{
		pairs:  make([]Pair, 0, capacity),
		bodies: make(map[*physics.Body]struct{}, capacity),
	}
}

var errNilPair = errors.New("pair needs both a mesh and a body")

func (r *Registry) Add(mesh *scene.Mesh, body *physics.Body) (Pair, error) {
	if mesh == nil || body == nil {
		return Pair{}, errNilPair
	}
	if _, dup := r.bodies[body]; dup {
		return Pair{}, fmt.Errorf("body %d already paired", body.ID)
	}
	p := Pair{Mesh: mesh, Body: body}
	r.pairs = append(r.pairs, p)
	r.bodies[body] = struct{}{}
	return p, nil
}

func (r *Registry) Len() int { return len(r.pairs) }

func (r *Registry) At(i int) Pair { return r.pairs[i] }

// Pairs returns the pairs in registration order. The slice must not be
// modified.
func (r *Registry) Pairs() []Pair { return r.pairs }
