package physics

// Default contact parameters used when no ContactMaterial matches a pair.
const (
	DefaultFriction    = 0.3
	DefaultRestitution = 0.0
)

// Material is a physics tag shared by bodies of the same kind.
type Material struct {
	Name string
}

func NewMaterial(name string) *Material {
	return &Material{Name: name}
}

// ContactMaterial describes how two materials interact when their bodies touch.
type ContactMaterial struct {
	A, B        *Material
	Friction    float64
	Restitution float64
}

func NewContactMaterial(a, b *Material, friction, restitution float64) *ContactMaterial {
	return &ContactMaterial{A: a, B: b, Friction: friction, Restitution: restitution}
}

// Matches reports whether cm applies to the pair (a, b) in either order.
func (cm *ContactMaterial) Matches(a, b *Material) bool {
	return (cm.A == a && cm.B == b) || (cm.A == b && cm.B == a)
}

type materialKey struct {
	a, b *Material
}
