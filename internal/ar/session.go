// Package ar defines the AR session the scene is anchored to and a
// simulated handheld session for terminals and tests.
package ar

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/scene"
)

// Session is a device tracking session. Start blocks until tracking is
// available; afterwards CameraPose and Background may be called every frame.
type Session interface {
	Start(ctx context.Context) error
	CameraPose() mgl64.Mat4
	Background() scene.Texture
}

// NewCamera returns a camera whose pose is driven by s.
func NewCamera(s Session, width, height int, near, far float64) *scene.Camera {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	cam := scene.NewCamera(scene.DefaultFovY, aspect, near, far)
	cam.Source = s
	return cam
}
