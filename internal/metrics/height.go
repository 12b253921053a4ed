package metrics

import (
	"github.com/san-kum/arduck/internal/sim"
)

// MeanHeight is the mean ball height of the latest frame.
type MeanHeight struct {
	name  string
	value float64
}

func NewMeanHeight() *MeanHeight {
	return &MeanHeight{name: "mean_height"}
}

func (m *MeanHeight) Name() string { return m.name }

func (m *MeanHeight) Observe(pairs []sim.Pair, t float64) {
	m.value = meanHeight(pairs)
}

func (m *MeanHeight) Value() float64 { return m.value }

func (m *MeanHeight) Reset() { m.value = 0 }

func meanHeight(pairs []sim.Pair) float64 {
	if len(pairs) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pairs {
		sum += p.Body.Position.Y()
	}
	return sum / float64(len(pairs))
}

// HeightTrace records the mean ball height every frame, for plotting.
type HeightTrace struct {
	Times   []float64
	Heights []float64
	Touched []bool
}

func NewHeightTrace(capacity int) *HeightTrace {
	return &HeightTrace{
		Times:   make([]float64, 0, capacity),
		Heights: make([]float64, 0, capacity),
		Touched: make([]bool, 0, capacity),
	}
}

func (h *HeightTrace) OnFrame(frame int, t float64, pairs []sim.Pair, touching bool) {
	h.Times = append(h.Times, t)
	h.Heights = append(h.Heights, meanHeight(pairs))
	h.Touched = append(h.Touched, touching)
}

// Downsample returns at most n evenly spaced heights.
func (h *HeightTrace) Downsample(n int) []float64 {
	if n <= 0 || len(h.Heights) <= n {
		return h.Heights
	}
	out := make([]float64, n)
	step := float64(len(h.Heights)-1) / float64(n-1)
	for i := range out {
		out[i] = h.Heights[int(float64(i)*step+0.5)]
	}
	return out
}
