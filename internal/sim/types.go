package sim

import (
	"context"

	"github.com/san-kum/arduck/internal/scene"
)

// Renderer draws a scene from a camera into the bound surface.
type Renderer interface {
	SetSize(width, height int)
	Render(s *scene.Scene, cam *scene.Camera) error
}

// Surface is the drawing context the loop presents frames to.
type Surface interface {
	Width() int
	Height() int
	EndFrame() error
}

// ModelLoader resolves a model source into a mesh.
type ModelLoader interface {
	Load(ctx context.Context, source string) (*scene.Mesh, error)
}

// TouchSource reports whether the user is currently touching the screen.
type TouchSource interface {
	Touching() bool
}

// Metric accumulates a scalar over the frames it observes.
type Metric interface {
	Name() string
	Observe(pairs []Pair, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every successful frame.
type Observer interface {
	OnFrame(frame int, t float64, pairs []Pair, touching bool)
}

type noTouch struct{}

func (noTouch) Touching() bool { return false }
