package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/arduck/internal/metrics"
	"github.com/san-kum/arduck/internal/viz"
)

var errEmpty = errors.New("nothing to export")

// CanvasToSVG converts a rendered frame to SVG: one grey rectangle per
// cell for the camera background, one circle per braille dot in its tint.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsWide()) * scale
	height := float64(canvas.DotsHigh()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	sb.WriteString("<g>\n")
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			v := int(canvas.Shade[row][col] * 128)
			if v == 0 {
				continue
			}
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="rgb(%d,%d,%d)"/>
`, float64(col)*2*scale, float64(row)*4*scale, 2*scale, 4*scale, v, v, v)
		}
	}
	sb.WriteString("</g>\n<g>\n")

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			if _, dots := canvas.Cell(col, row); !dots {
				continue
			}
			tint := canvas.Tint[row][col]
			fill := fmt.Sprintf("rgb(%d,%d,%d)", channel(tint.R), channel(tint.G), channel(tint.B))
			if tint.R == 0 && tint.G == 0 && tint.B == 0 {
				fill = "#ffffff"
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := col*2+dx, row*4+dy
					if !canvas.IsSet(x, y) {
						continue
					}
					fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fill)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func channel(v float64) int {
	c := int(v * 255)
	if c < 0 {
		return 0
	}
	if c > 255 {
		return 255
	}
	return c
}

// TraceToSVG plots mean height against time. Frames where the screen was
// touched are shaded.
func TraceToSVG(trace *metrics.HeightTrace, width, height int, strokeColor string) string {
	points := len(trace.Heights)
	if points < 2 {
		return ""
	}

	minX, maxX := trace.Times[0], trace.Times[points-1]
	minY, maxY := trace.Heights[0], trace.Heights[0]
	for _, h := range trace.Heights {
		if h < minY {
			minY = h
		}
		if h > maxY {
			maxY = h
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	sx := func(t float64) float64 { return (t - minX) / rangeX * float64(width) }
	sy := func(h float64) float64 { return float64(height) - (h-minY)/rangeY*float64(height) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i := 0; i < points; i++ {
		if !trace.Touched[i] {
			continue
		}
		end := i
		for end+1 < points && trace.Touched[end+1] {
			end++
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="0" width="%.1f" height="%d" fill="#1a3a1a"/>
`, sx(trace.Times[i]), sx(trace.Times[end])-sx(trace.Times[i]), height)
		i = end
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i := 0; i < points; i++ {
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", sx(trace.Times[i]), sy(trace.Heights[i]))
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", sx(trace.Times[i]), sy(trace.Heights[i]))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteSVG writes svg to w, failing on empty input.
func WriteSVG(w io.Writer, svg string) error {
	if svg == "" {
		return errEmpty
	}
	_, err := io.WriteString(w, svg)
	return err
}
