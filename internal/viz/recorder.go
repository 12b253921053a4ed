package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
)

const (
	cellW = 8
	cellH = 16
)

var errNoFrames = errors.New("no frames captured")

// recordPalette holds ten background greys followed by the dot colour.
var recordPalette = func() color.Palette {
	p := make(color.Palette, 0, len(shadeRamp)+1)
	for i := range shadeRamp {
		v := uint8(255 * i / (len(shadeRamp) - 1) / 2)
		p = append(p, color.Gray{Y: v})
	}
	return append(p, color.RGBA{R: 242, G: 242, B: 0, A: 255})
}()

// Recorder is a headless Surface. It presents frames into the renderer's
// canvas and, when capturing, keeps every n-th frame as a GIF image.
type Recorder struct {
	width, height int
	renderer      *Renderer
	presented     int
	every         int
	frames        []*image.Paletted
}

// NewRecorder sizes the surface in braille dots, so cols x rows terminal
// cells map to cols*2 x rows*4.
func NewRecorder(cols, rows int, r *Renderer) *Recorder {
	return &Recorder{width: cols * 2, height: rows * 4, renderer: r}
}

func (r *Recorder) Width() int  { return r.width }
func (r *Recorder) Height() int { return r.height }

func (r *Recorder) EndFrame() error {
	r.presented++
	if r.every > 0 && (r.presented-1)%r.every == 0 {
		c := r.renderer.Canvas()
		if c == nil {
			return errNoSize
		}
		r.frames = append(r.frames, captureFrame(c))
	}
	return nil
}

// Capture keeps every n-th presented frame; n <= 0 stops capturing.
func (r *Recorder) Capture(n int) { r.every = n }

func (r *Recorder) Presented() int { return r.presented }

func (r *Recorder) Captured() int { return len(r.frames) }

// Snapshot is the text of the most recent frame.
func (r *Recorder) Snapshot() string {
	if c := r.renderer.Canvas(); c != nil {
		return c.String()
	}
	return ""
}

// WriteGIF encodes the captured frames as a looping animation.
func (r *Recorder) WriteGIF(w io.Writer, delay int) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) SaveGIF(path string, delay int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteGIF(f, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// captureFrame paints each cell's shade and then its dots.
func captureFrame(c *Canvas) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), recordPalette)
	dot := uint8(len(recordPalette) - 1)
	dotW, dotH := cellW/2, cellH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			shade := uint8(c.Shade[row][col] * float64(len(shadeRamp)-1))
			baseX, baseY := col*cellW, row*cellH
			for y := 0; y < cellH; y++ {
				for x := 0; x < cellW; x++ {
					img.SetColorIndex(baseX+x, baseY+y, shade)
				}
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !c.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, dot)
						}
					}
				}
			}
		}
	}
	return img
}
