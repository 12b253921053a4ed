package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/arduck/internal/metrics"
	"github.com/san-kum/arduck/internal/scene"
	"github.com/san-kum/arduck/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2) != "" {
		t.Error("nil canvas should export nothing")
	}

	c := viz.NewCanvas(2, 1)
	c.SetShade(1, 0, 0.5)
	c.DrawLineTint(0, 0, 1, 0, scene.Color{R: 1, G: 1})

	svg := CanvasToSVG(c, 2)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("malformed svg:\n%s", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `fill="rgb(255,255,0)"`) {
		t.Error("dots should carry their tint")
	}
	if !strings.Contains(svg, `fill="rgb(64,64,64)"`) {
		t.Error("background shade missing")
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Error("unexpected svg size")
	}
}

func TestTraceToSVG(t *testing.T) {
	trace := metrics.NewHeightTrace(4)
	if TraceToSVG(trace, 100, 50, "#00ff00") != "" {
		t.Error("empty trace should export nothing")
	}

	trace.Times = []float64{0, 1, 2, 3}
	trace.Heights = []float64{2, 1, 0, 0}
	trace.Touched = []bool{false, true, true, false}

	svg := TraceToSVG(trace, 100, 50, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("missing stroke colour")
	}
	if n := strings.Count(svg, " L"); n != 3 {
		t.Errorf("expected 3 line segments, got %d", n)
	}
	if n := strings.Count(svg, `fill="#1a3a1a"`); n != 1 {
		t.Errorf("expected one touch band, got %d", n)
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, ""); err == nil {
		t.Error("expected error for empty svg")
	}
	if err := WriteSVG(&buf, "<svg/>"); err != nil || buf.String() != "<svg/>" {
		t.Errorf("unexpected write: %v %q", err, buf.String())
	}
}
