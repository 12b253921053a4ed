package asset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/scene"
)

// ParseOBJ reads Wavefront OBJ geometry. Each `o` or `g` statement starts a
// new child mesh; faces with more than three vertices are fan-triangulated.
// Normals, texture coordinates and material libraries are ignored.
func ParseOBJ(r io.Reader, name string) (*scene.Mesh, error) {
	var (
		vertices []mgl64.Vec3
		root     = scene.NewGroup(name)
		current  = &objPart{name: name}
		parts    []*objPart
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var v mgl64.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				v[i] = f
			}
			vertices = append(vertices, v)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := parseIndex(ref, len(vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				current.faces = append(current.faces, [3]int{idx[0], idx[k], idx[k+1]})
			}
		case "o", "g":
			if len(current.faces) > 0 {
				parts = append(parts, current)
			}
			current = &objPart{name: strings.Join(fields[1:], " ")}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(current.faces) > 0 {
		parts = append(parts, current)
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("no vertices")
	}

	// Without faces the model is a point cloud; keep it as one part.
	if len(parts) == 0 {
		parts = append(parts, current)
	}
	for _, p := range parts {
		root.Add(scene.NewMesh(p.name, p.geometry(vertices), nil))
	}
	return root, nil
}

type objPart struct {
	name  string
	faces [][3]int
}

// geometry compacts the shared vertex pool down to the vertices this part
// references, so each child's bounding box is its own.
func (p *objPart) geometry(pool []mgl64.Vec3) *scene.Geometry {
	if len(p.faces) == 0 {
		return scene.NewGeometry(pool, nil)
	}
	remap := make(map[int]int)
	verts := make([]mgl64.Vec3, 0)
	faces := make([][3]int, len(p.faces))
	for fi, f := range p.faces {
		for k, gi := range f {
			li, ok := remap[gi]
			if !ok {
				li = len(verts)
				remap[gi] = li
				verts = append(verts, pool[gi])
			}
			faces[fi][k] = li
		}
	}
	return scene.NewGeometry(verts, faces)
}

// parseIndex resolves "v", "v/vt", "v//vn" or "v/vt/vn" to a zero-based
// vertex index. Negative indices count back from the latest vertex.
func parseIndex(ref string, count int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	i, err := strconv.Atoi(ref)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	default:
		return 0, fmt.Errorf("vertex index %d out of range (have %d)", i, count)
	}
}
