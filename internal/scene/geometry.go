package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box3 is an axis-aligned bounding box. An empty box has Min > Max.
type Box3 struct {
	Min, Max mgl64.Vec3
}

func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{Min: mgl64.Vec3{inf, inf, inf}, Max: mgl64.Vec3{-inf, -inf, -inf}}
}

func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

func (b Box3) ExpandByPoint(p mgl64.Vec3) Box3 {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Size returns the extents along x, y and z; zero for an empty box.
func (b Box3) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func (b Box3) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Transform returns the box enclosing the eight corners of b under m.
func (b Box3) Transform(m mgl64.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out = out.ExpandByPoint(m.Mul4x1(corner.Vec4(1)).Vec3())
	}
	return out
}

// Geometry is immutable vertex data shared by every clone of a mesh.
type Geometry struct {
	Vertices []mgl64.Vec3
	Faces    [][3]int
	box      Box3
}

func NewGeometry(vertices []mgl64.Vec3, faces [][3]int) *Geometry {
	box := EmptyBox()
	for _, v := range vertices {
		box = box.ExpandByPoint(v)
	}
	return &Geometry{Vertices: vertices, Faces: faces, box: box}
}

// BoundingBox is the local-space box of the vertices.
func (g *Geometry) BoundingBox() Box3 { return g.box }

// Edges returns each undirected face edge once, as vertex index pairs.
func (g *Geometry) Edges() [][2]int {
	seen := make(map[[2]int]struct{}, len(g.Faces)*3)
	edges := make([][2]int, 0, len(g.Faces)*3)
	for _, f := range g.Faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := [2]int{a, b}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}
