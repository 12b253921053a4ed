package scene

// Color is a linear RGB triple in [0, 1].
type Color struct {
	R, G, B float64
}

// ColorHex converts 0xRRGGBB to a Color.
func ColorHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
	}
}

// Luminance uses Rec. 709 weights.
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// Material is a surface description shared between meshes.
type Material interface {
	BaseColor() Color
}

// PhongMaterial is a shiny surface with a diffuse colour and specular tint.
type PhongMaterial struct {
	Color    Color
	Specular Color
}

func (m *PhongMaterial) BaseColor() Color { return m.Color }
