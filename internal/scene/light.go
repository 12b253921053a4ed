package scene

import "github.com/go-gl/mathgl/mgl64"

type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
)

func (k LightKind) String() string {
	switch k {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

// Light illuminates the scene. Position only matters for directional
// lights, which shine from Position towards the origin.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float64
	Position  mgl64.Vec3
}

func NewAmbientLight(c Color) *Light {
	return &Light{Kind: LightAmbient, Color: c, Intensity: 1}
}

func NewDirectionalLight(c Color, position mgl64.Vec3) *Light {
	return &Light{Kind: LightDirectional, Color: c, Intensity: 1, Position: position}
}

// Direction is the unit vector the light travels along.
func (l *Light) Direction() mgl64.Vec3 {
	if l.Kind != LightDirectional || l.Position.Len() == 0 {
		return mgl64.Vec3{}
	}
	return l.Position.Mul(-1).Normalize()
}
