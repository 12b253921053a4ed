package sim

import (
	"context"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/config"
)

// RunResult summarizes one scene of an ensemble.
type RunResult struct {
	Seed      int64
	Pairs     int
	Frames    int
	Elapsed   time.Duration
	Positions []mgl64.Vec3
	Metrics   map[string]float64
}

// Ensemble bootstraps independent scenes in parallel, one per seed, and
// runs each for a fixed number of frames.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	frames    int

	// NewDeps builds fresh collaborators for one scene.
	NewDeps func() Deps
	// NewMetrics builds the metrics attached to each scene.
	NewMetrics func() []Metric
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, frames int, newDeps func() Deps) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, frames: frames, NewDeps: newDeps}
}

func (e *Ensemble) Run(ctx context.Context) ([]*RunResult, error) {
	results := make([]*RunResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = e.runOne(ctx, &cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, cfg *config.Config) (*RunResult, error) {
	loop, err := Bootstrap(ctx, cfg, e.NewDeps())
	if err != nil {
		return nil, err
	}
	if e.NewMetrics != nil {
		for _, m := range e.NewMetrics() {
			loop.AddMetric(m)
		}
	}

	start := time.Now()
	if err := loop.Run(ctx, Immediate(e.frames)); err != nil {
		return nil, err
	}

	res := &RunResult{
		Seed:    cfg.Seed,
		Pairs:   loop.Registry().Len(),
		Frames:  loop.Frames(),
		Elapsed: time.Since(start),
		Metrics: loop.Metrics(),
	}
	for _, p := range loop.Registry().Pairs() {
		res.Positions = append(res.Positions, p.Body.Position)
	}
	return res, nil
}
