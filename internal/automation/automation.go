package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/san-kum/arduck/internal/config"
	"github.com/san-kum/arduck/internal/input"
	"github.com/san-kum/arduck/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of headless scenes.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one scene for a number of frames, touching the screen
// during the listed windows.
type ScenarioStep struct {
	Preset  string             `yaml:"preset"`
	Model   string             `yaml:"model"`
	Seed    int64              `yaml:"seed"`
	Frames  int                `yaml:"frames"`
	Params  map[string]float64 `yaml:"params"`
	Touches []Window           `yaml:"touches"`
}

// Window is the half-open frame range [From, To).
type Window struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

func (w Window) Contains(frame int) bool { return frame >= w.From && frame < w.To }

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	for i, step := range scenario.Steps {
		if step.Frames <= 0 {
			return nil, fmt.Errorf("step %d: frames must be positive", i+1)
		}
		for _, w := range step.Touches {
			if w.To < w.From {
				return nil, fmt.Errorf("step %d: touch window %d-%d ends before it starts", i+1, w.From, w.To)
			}
		}
	}
	return &scenario, nil
}

// Config applies the step's preset, model, seed and parameters on top of
// a copy of base.
func (s ScenarioStep) Config(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Preset != "" {
		apply, ok := config.Presets[s.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets())
		}
		apply(&cfg)
	}
	if s.Model != "" {
		cfg.Model = s.Model
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	for k, v := range s.Params {
		if err := config.SetParam(&cfg, k, v); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// TouchScript drives a tracker from frame windows. It observes the loop
// so that the state for frame n+1 is in place before that frame reads it.
type TouchScript struct {
	windows []Window
	tracker *input.Tracker
}

func NewTouchScript(tracker *input.Tracker, windows []Window) *TouchScript {
	return &TouchScript{windows: windows, tracker: tracker}
}

func (s *TouchScript) Active(frame int) bool {
	for _, w := range s.windows {
		if w.Contains(frame) {
			return true
		}
	}
	return false
}

// Apply grants or releases so the tracker matches the script at frame.
func (s *TouchScript) Apply(frame int) {
	active := s.Active(frame)
	switch {
	case active && !s.tracker.Touching():
		if s.tracker.OnStartShouldSet() {
			s.tracker.OnGrant()
		}
	case !active && s.tracker.Touching():
		s.tracker.OnRelease()
	}
}

func (s *TouchScript) OnFrame(frame int, t float64, pairs []sim.Pair, touching bool) {
	s.Apply(frame + 1)
}

// Attach sets the touch state for the loop's next frame and follows the
// script from then on.
func (s *TouchScript) Attach(loop *sim.Loop) {
	s.Apply(loop.Frames())
	loop.AddObserver(s)
}

// StepResult summarizes one scenario step.
type StepResult struct {
	Step    int
	Preset  string
	Seed    int64
	Frames  int
	Grants  int64
	Elapsed time.Duration
	Metrics map[string]float64
}

// Runner executes scenarios. NewDeps builds the collaborators of a step
// around the step's tracker; NewMetrics, if set, attaches metrics.
type Runner struct {
	Base       *config.Config
	NewDeps    func(tracker *input.Tracker) sim.Deps
	NewMetrics func(cfg *config.Config) []sim.Metric
	Logger     *log.Logger
}

// RunScenario executes all steps in a scenario
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config(r.Base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Printf("running step %d/%d: %s (%d frames)", i+1, len(scenario.Steps), presetName(step.Preset), step.Frames)

		tracker := input.NewTracker()
		loop, err := sim.Bootstrap(ctx, cfg, r.NewDeps(tracker))
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		if r.NewMetrics != nil {
			for _, m := range r.NewMetrics(cfg) {
				loop.AddMetric(m)
			}
		}
		NewTouchScript(tracker, step.Touches).Attach(loop)

		start := time.Now()
		if err := loop.Run(ctx, sim.Immediate(step.Frames)); err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:    i + 1,
			Preset:  presetName(step.Preset),
			Seed:    cfg.Seed,
			Frames:  loop.Frames(),
			Grants:  tracker.Grants(),
			Elapsed: time.Since(start),
			Metrics: loop.Metrics(),
		})
	}

	return results, nil
}

func presetName(p string) string {
	if p == "" {
		return "base"
	}
	return p
}

// ParameterSweep runs ensembles across evenly spaced values of one
// parameter.
type ParameterSweep struct {
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Runs     int
	Frames   int
}

// SweepResult holds the ensemble-mean metrics at one parameter value.
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, newDeps func() sim.Deps, newMetrics func() []sim.Metric) ([]SweepResult, error) {
	if sweep.NumSteps < 1 || sweep.Runs < 1 {
		return nil, fmt.Errorf("sweep needs at least one step and one run")
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*paramStep
		cfg := *base
		if err := config.SetParam(&cfg, sweep.Param, val); err != nil {
			return nil, err
		}

		ens := sim.NewEnsemble(&cfg, sweep.Runs, cfg.Seed, sweep.Frames, newDeps)
		ens.NewMetrics = newMetrics
		runs, err := ens.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.Param, val, err)
		}

		results = append(results, SweepResult{Value: val, Metrics: MeanMetrics(runs)})
	}

	return results, nil
}

// MeanMetrics averages each metric over the runs of an ensemble.
func MeanMetrics(runs []*sim.RunResult) map[string]float64 {
	out := make(map[string]float64)
	if len(runs) == 0 {
		return out
	}
	for _, r := range runs {
		for k, v := range r.Metrics {
			out[k] += v
		}
	}
	for k := range out {
		out[k] /= float64(len(runs))
	}
	return out
}
