package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/arduck/internal/dynamo"
)

// ScaleLongestSideToSize scales m uniformly so the longest side of its
// bounding box becomes size. The factor multiplies the current scale, so
// the result holds for meshes that were already scaled.
func ScaleLongestSideToSize(m *Mesh, size float64) error {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return fmt.Errorf("scale to %v: %w", size, dynamo.ErrParameterBounds)
	}

	ext := m.BoundingBox().Size()
	longest := math.Max(ext[0], math.Max(ext[1], ext[2]))
	if longest <= 0 || math.IsInf(longest, 0) || math.IsNaN(longest) {
		return fmt.Errorf("scale %q: %w", m.Name, dynamo.ErrDegenerateMesh)
	}

	m.Scale = m.Scale.Mul(size / longest)
	return nil
}
