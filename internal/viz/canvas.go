package viz

import (
	"strings"

	"github.com/san-kum/arduck/internal/scene"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// shadeRamp runs from dark to bright.
var shadeRamp = []rune(" .:-=+*#%@")

// Canvas is a grid of braille cells over a shaded background layer. Cells
// with any dot set show the dots in their tint; the rest show their shade.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Shade         [][]float64
	Tint          [][]scene.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Shade:  make([][]float64, h),
		Tint:   make([][]scene.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Shade[i] = make([]float64, w)
		c.Tint[i] = make([]scene.Color, w)
	}
	c.Clear()
	return c
}

// DotsWide and DotsHigh give the canvas size in sub-pixels.
func (c *Canvas) DotsWide() int { return c.Width * 2 }
func (c *Canvas) DotsHigh() int { return c.Height * 4 }

// Set sets the dot at sub-pixel (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at sub-pixel (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// SetShade stores background luminance in [0, 1] for a cell.
func (c *Canvas) SetShade(col, row int, v float64) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	c.Shade[row][col] = clamp01(v)
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.Shade[i][j] = 0
			c.Tint[i][j] = scene.Color{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.drawLine(x0, y0, x1, y1, nil)
}

// DrawLineTint draws a line and colours every cell it crosses.
func (c *Canvas) DrawLineTint(x0, y0, x1, y1 int, tint scene.Color) {
	c.drawLine(x0, y0, x1, y1, &tint)
}

func (c *Canvas) drawLine(x0, y0, x1, y1 int, tint *scene.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if tint != nil && x0 >= 0 && y0 >= 0 && x0/2 < c.Width && y0/4 < c.Height {
			c.Tint[y0/4][x0/2] = *tint
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Cell returns the rune shown for a cell and whether it carries dots.
func (c *Canvas) Cell(col, row int) (rune, bool) {
	r := c.Grid[row][col]
	if r != brailleBlank {
		return r, true
	}
	idx := int(c.Shade[row][col] * float64(len(shadeRamp)-1))
	return shadeRamp[idx], false
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r, _ := c.Cell(col, row)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
