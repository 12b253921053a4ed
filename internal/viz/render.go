package viz

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/scene"
)

const (
	// Points further than this outside the viewport, in NDC, are not drawn.
	ndcGuard = 4.0
	// Ground lines are split so the parts in view survive clipping.
	groundSegments = 12
)

var (
	groundTint = scene.Color{R: 0.45, G: 0.45, B: 0.5}

	errNoSize = errors.New("renderer used before SetSize")
)

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Meshes int
	Edges  int
	// Light is the mean lit intensity of the drawn meshes.
	Light float64
}

// Renderer rasterizes a scene onto a braille canvas: camera background as
// shading, a reference grid on the ground and mesh wireframes lit by the
// scene lights.
type Renderer struct {
	GroundY    float64
	GridExtent float64
	GridStep   float64

	canvas *Canvas
	edges  map[*scene.Geometry][][2]int
	stats  FrameStats
}

func NewRenderer(groundY float64) *Renderer {
	return &Renderer{
		GroundY:    groundY,
		GridExtent: 3,
		GridStep:   0.5,
		edges:      make(map[*scene.Geometry][][2]int),
	}
}

// SetSize binds the renderer to a surface measured in braille dots.
func (r *Renderer) SetSize(width, height int) {
	r.canvas = NewCanvas(max(1, (width+1)/2), max(1, (height+3)/4))
}

func (r *Renderer) Canvas() *Canvas { return r.canvas }

func (r *Renderer) Stats() FrameStats { return r.stats }

func (r *Renderer) Render(s *scene.Scene, cam *scene.Camera) error {
	if r.canvas == nil {
		return errNoSize
	}
	c := r.canvas
	c.Clear()
	r.stats = FrameStats{}

	if s.Background != nil {
		for row := 0; row < c.Height; row++ {
			v := (float64(row) + 0.5) / float64(c.Height)
			for col := 0; col < c.Width; col++ {
				u := (float64(col) + 0.5) / float64(c.Width)
				c.SetShade(col, row, s.Background.Sample(u, v))
			}
		}
	}

	vp := cam.ViewProjection()
	r.drawGround(vp)

	light := newLighting(s.Lights)
	var lit float64
	for _, m := range s.Meshes {
		lit += r.drawMesh(m, mgl64.Ident4(), vp, light)
		r.stats.Meshes++
	}
	if r.stats.Meshes > 0 {
		r.stats.Light = lit / float64(r.stats.Meshes)
	}
	return nil
}

func (r *Renderer) drawGround(vp mgl64.Mat4) {
	if r.GridStep <= 0 {
		return
	}
	e := r.GridExtent
	for k := -e; k <= e+1e-9; k += r.GridStep {
		r.segmented(vp, mgl64.Vec3{k, r.GroundY, -2 * e}, mgl64.Vec3{k, r.GroundY, 0})
	}
	for k := -2 * e; k <= 1e-9; k += r.GridStep {
		r.segmented(vp, mgl64.Vec3{-e, r.GroundY, k}, mgl64.Vec3{e, r.GroundY, k})
	}
}

func (r *Renderer) segmented(vp mgl64.Mat4, a, b mgl64.Vec3) {
	step := b.Sub(a).Mul(1.0 / groundSegments)
	for i := 0; i < groundSegments; i++ {
		p := a.Add(step.Mul(float64(i)))
		r.line(vp, p, p.Add(step), groundTint)
	}
}

// drawMesh draws m and its children and returns the mean intensity of
// the geometry nodes it lit.
func (r *Renderer) drawMesh(m *scene.Mesh, parent, vp mgl64.Mat4, light lighting) float64 {
	world := parent.Mul4(m.Matrix())
	var sum float64
	var n int

	if g := m.Geometry; g != nil {
		base := scene.Color{R: 1, G: 1, B: 1}
		if m.Material != nil {
			base = m.Material.BaseColor()
		}
		verts := make([]mgl64.Vec3, len(g.Vertices))
		for i, v := range g.Vertices {
			verts[i] = world.Mul4x1(v.Vec4(1)).Vec3()
		}
		intensity := light.faces(verts, g.Faces)
		tint := scene.Color{R: base.R * intensity, G: base.G * intensity, B: base.B * intensity}
		for _, e := range r.edgesOf(g) {
			if r.line(vp, verts[e[0]], verts[e[1]], tint) {
				r.stats.Edges++
			}
		}
		sum += intensity
		n++
	}

	for _, c := range m.Children {
		sum += r.drawMesh(c, world, vp, light)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (r *Renderer) edgesOf(g *scene.Geometry) [][2]int {
	e, ok := r.edges[g]
	if !ok {
		e = g.Edges()
		r.edges[g] = e
	}
	return e
}

// line projects a world segment and draws it, reporting whether anything
// was drawn.
func (r *Renderer) line(vp mgl64.Mat4, a, b mgl64.Vec3, tint scene.Color) bool {
	x0, y0, ok0 := r.toDots(vp, a)
	x1, y1, ok1 := r.toDots(vp, b)
	if !ok0 || !ok1 {
		return false
	}
	r.canvas.DrawLineTint(x0, y0, x1, y1, tint)
	return true
}

func (r *Renderer) toDots(vp mgl64.Mat4, p mgl64.Vec3) (int, int, bool) {
	ndc, ok := scene.ProjectPoint(vp, p)
	if !ok || math.Abs(ndc[0]) > ndcGuard || math.Abs(ndc[1]) > ndcGuard {
		return 0, 0, false
	}
	w, h := float64(r.canvas.DotsWide()), float64(r.canvas.DotsHigh())
	x := int(math.Floor((ndc[0] + 1) / 2 * w))
	y := int(math.Floor((1 - ndc[1]) / 2 * h))
	return x, y, true
}

// lighting is the ambient term plus the directional lights of a scene.
type lighting struct {
	ambient     float64
	directional []directional
}

type directional struct {
	dir       mgl64.Vec3
	intensity float64
}

func newLighting(lights []*scene.Light) lighting {
	var l lighting
	for _, li := range lights {
		switch li.Kind {
		case scene.LightAmbient:
			l.ambient += li.Color.Luminance() * li.Intensity
		case scene.LightDirectional:
			l.directional = append(l.directional, directional{
				dir:       li.Direction(),
				intensity: li.Color.Luminance() * li.Intensity,
			})
		}
	}
	return l
}

// faces returns the mean Lambert intensity over the faces, capped at 1.
// Face winding is not trusted, so both sides are lit.
func (l lighting) faces(verts []mgl64.Vec3, faces [][3]int) float64 {
	if len(faces) == 0 {
		return math.Min(1, l.ambient)
	}
	var diffuse float64
	for _, f := range faces {
		n := verts[f[1]].Sub(verts[f[0]]).Cross(verts[f[2]].Sub(verts[f[0]]))
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		for _, d := range l.directional {
			diffuse += d.intensity * math.Abs(n.Dot(d.dir))
		}
	}
	return math.Min(1, l.ambient+diffuse/float64(len(faces)))
}
