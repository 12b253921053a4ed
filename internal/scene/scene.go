package scene

// Texture is an image the renderer can sample, such as a live camera feed.
type Texture interface {
	// Sample returns luminance in [0, 1] at normalized coordinates.
	Sample(u, v float64) float64
}

// Scene is the root of the render graph.
type Scene struct {
	Background Texture
	Lights     []*Light
	Meshes     []*Mesh
}

func New() *Scene {
	return &Scene{}
}

func (s *Scene) Add(m *Mesh) { s.Meshes = append(s.Meshes, m) }

func (s *Scene) AddLight(l *Light) { s.Lights = append(s.Lights, l) }

// Ambient sums the ambient light contributions.
func (s *Scene) Ambient() float64 {
	total := 0.0
	for _, l := range s.Lights {
		if l.Kind == LightAmbient {
			total += l.Color.Luminance() * l.Intensity
		}
	}
	return total
}
