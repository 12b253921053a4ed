package scene

import "github.com/go-gl/mathgl/mgl64"

// Mesh is a node in the scene graph. A mesh with nil Geometry is a group.
type Mesh struct {
	Name       string
	Geometry   *Geometry
	Material   Material
	Position   mgl64.Vec3
	Quaternion mgl64.Quat
	Scale      mgl64.Vec3
	Children   []*Mesh
}

func NewMesh(name string, g *Geometry, m Material) *Mesh {
	return &Mesh{
		Name:       name,
		Geometry:   g,
		Material:   m,
		Quaternion: mgl64.QuatIdent(),
		Scale:      mgl64.Vec3{1, 1, 1},
	}
}

// NewGroup returns an empty mesh holding the given children.
func NewGroup(name string, children ...*Mesh) *Mesh {
	g := NewMesh(name, nil, nil)
	g.Children = append(g.Children, children...)
	return g
}

func (m *Mesh) Add(child *Mesh) { m.Children = append(m.Children, child) }

// Traverse calls fn on m and every descendant, parents first.
func (m *Mesh) Traverse(fn func(*Mesh)) {
	fn(m)
	for _, c := range m.Children {
		c.Traverse(fn)
	}
}

// SetMaterial assigns mat to every node carrying geometry.
func (m *Mesh) SetMaterial(mat Material) {
	m.Traverse(func(n *Mesh) {
		if n.Geometry != nil {
			n.Material = mat
		}
	})
}

// Matrix is the local transform T·R·S.
func (m *Mesh) Matrix() mgl64.Mat4 {
	t := mgl64.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	s := mgl64.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	return t.Mul4(m.Quaternion.Mat4()).Mul4(s)
}

// Clone deep-copies the node tree. Geometry is shared, materials are
// shared by reference, transforms are independent.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Children = make([]*Mesh, len(m.Children))
	for i, child := range m.Children {
		c.Children[i] = child.Clone()
	}
	return &c
}

// BoundingBox returns the box of every descendant geometry, in the
// coordinate frame of m's parent.
func (m *Mesh) BoundingBox() Box3 {
	return m.boxUnder(mgl64.Ident4())
}

func (m *Mesh) boxUnder(parent mgl64.Mat4) Box3 {
	world := parent.Mul4(m.Matrix())
	box := EmptyBox()
	if m.Geometry != nil {
		box = box.Union(m.Geometry.BoundingBox().Transform(world))
	}
	for _, c := range m.Children {
		box = box.Union(c.boxUnder(world))
	}
	return box
}

// Template is a loaded model kept immutable so it can be instanced many
// times without aliasing transforms.
type Template struct {
	root *Mesh
}

// NewTemplate snapshots m; later changes to m do not affect the template.
func NewTemplate(m *Mesh) *Template {
	return &Template{root: m.Clone()}
}

// Instance returns a new independent copy of the template.
func (t *Template) Instance() *Mesh {
	return t.root.Clone()
}

// Size is the template's bounding-box extent.
func (t *Template) Size() mgl64.Vec3 {
	return t.root.BoundingBox().Size()
}
