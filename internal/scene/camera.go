package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const DefaultFovY = 60.0

// PoseSource supplies the camera-to-world transform, typically from an AR
// tracking session.
type PoseSource interface {
	CameraPose() mgl64.Mat4
}

// Camera is a perspective camera looking down its local -Z axis.
type Camera struct {
	FovY   float64 // degrees
	Aspect float64
	Near   float64
	Far    float64

	// MatrixWorld is the camera-to-world transform.
	MatrixWorld mgl64.Mat4
	Source      PoseSource
}

func NewCamera(fovY, aspect, near, far float64) *Camera {
	return &Camera{FovY: fovY, Aspect: aspect, Near: near, Far: far, MatrixWorld: mgl64.Ident4()}
}

// UpdateMatrixWorld pulls the latest pose from Source, if any.
func (c *Camera) UpdateMatrixWorld() {
	if c.Source != nil {
		c.MatrixWorld = c.Source.CameraPose()
	}
}

// WorldPosition transforms the origin through MatrixWorld.
func (c *Camera) WorldPosition() mgl64.Vec3 {
	return c.MatrixWorld.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
}

func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return c.MatrixWorld.Inv()
}

func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ViewProjection is ProjectionMatrix · ViewMatrix for the current pose.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Project maps a world point to normalized device coordinates. ok is false
// for points behind the camera or outside the depth range.
func (c *Camera) Project(p mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	return ProjectPoint(c.ViewProjection(), p)
}

// ProjectPoint is Project with a precomputed view-projection matrix.
func ProjectPoint(vp mgl64.Mat4, p mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return mgl64.Vec3{}, false
	}
	ndc = clip.Vec3().Mul(1 / clip[3])
	if math.Abs(ndc[2]) > 1 {
		return ndc, false
	}
	return ndc, true
}
