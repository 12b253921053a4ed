package asset

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/scene"
)

var builtins = map[string]func() *scene.Mesh{
	"icosphere": func() *scene.Mesh {
		return scene.NewGroup("icosphere", scene.NewMesh("sphere", Icosphere(1), nil))
	},
	"duck": builtinDuck,
}

// Builtin returns a generated model, for running without network access.
func Builtin(name string) (*scene.Mesh, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown builtin model %q (have %v)", name, BuiltinNames())
	}
	return build(), nil
}

func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Icosphere returns a unit sphere made by subdividing an icosahedron.
func Icosphere(subdivisions int) *scene.Geometry {
	t := (1 + math.Sqrt(5)) / 2
	verts := []mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range verts {
		verts[i] = verts[i].Normalize()
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for s := 0; s < subdivisions; s++ {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := mid[key]; ok {
				return i
			}
			verts = append(verts, verts[a].Add(verts[b]).Normalize())
			mid[key] = len(verts) - 1
			return len(verts) - 1
		}
		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			a, b, c := midpoint(f[0], f[1]), midpoint(f[1], f[2]), midpoint(f[2], f[0])
			next = append(next, [3]int{f[0], a, c}, [3]int{f[1], b, a}, [3]int{f[2], c, b}, [3]int{a, b, c})
		}
		faces = next
	}
	return scene.NewGeometry(verts, faces)
}

func builtinDuck() *scene.Mesh {
	sphere := Icosphere(1)

	body := scene.NewMesh("body", sphere, nil)
	body.Scale = mgl64.Vec3{1.2, 0.8, 0.9}

	head := scene.NewMesh("head", sphere, nil)
	head.Position = mgl64.Vec3{0.7, 0.9, 0}
	head.Scale = mgl64.Vec3{0.5, 0.5, 0.5}

	beak := scene.NewMesh("beak", sphere, nil)
	beak.Position = mgl64.Vec3{1.2, 0.85, 0}
	beak.Scale = mgl64.Vec3{0.25, 0.08, 0.18}

	return scene.NewGroup("duck", body, head, beak)
}
