package sim

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/config"
	"github.com/san-kum/arduck/internal/dynamo"
	"github.com/san-kum/arduck/internal/physics"
	"github.com/san-kum/arduck/internal/scene"
)

// Loop is the per-frame driver built by Bootstrap. It is not safe for
// concurrent use; only the touch source may be written from elsewhere.
type Loop struct {
	cfg      *config.Config
	scene    *scene.Scene
	camera   *scene.Camera
	world    *physics.World
	ground   *physics.Body
	registry *Registry
	renderer Renderer
	surface  Surface
	touch    TouchSource
	logger   *log.Logger

	metrics   []Metric
	observers []Observer

	dt          float64
	touchForce  float64
	maxFailures int
	frame       int
	failures    int
	lastCamera  mgl64.Vec3
}

func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Loop) Scene() *scene.Scene        { return l.scene }
func (l *Loop) Camera() *scene.Camera      { return l.camera }
func (l *Loop) World() *physics.World      { return l.world }
func (l *Loop) Ground() *physics.Body      { return l.ground }
func (l *Loop) Registry() *Registry        { return l.registry }
func (l *Loop) Config() *config.Config     { return l.cfg }
func (l *Loop) Frames() int                { return l.frame }
func (l *Loop) CameraPosition() mgl64.Vec3 { return l.lastCamera }

// Metrics returns the current value of every registered metric by name.
func (l *Loop) Metrics() map[string]float64 {
	out := make(map[string]float64, len(l.metrics))
	for _, m := range l.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Frame runs one iteration: read the camera pose, step physics by the
// fixed dt, copy body poses to meshes, pull bodies towards the camera
// while touching, render and present, then report the frame to metrics
// and observers. A panic in a collaborator is
// returned as a frame error.
func (l *Loop) Frame(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = &dynamo.FrameError{Frame: l.frame, Time: l.world.Time(), Wrapped: err}
		}
		l.frame++
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	l.camera.UpdateMatrixWorld()
	camPos := l.camera.WorldPosition()
	l.lastCamera = camPos

	l.world.Step(l.dt)

	pairs := l.registry.Pairs()
	for _, p := range pairs {
		p.Sync()
	}
	if err := l.validate(); err != nil {
		return err
	}

	touching := l.touch.Touching()
	if touching {
		for _, p := range pairs {
			p.Attract(camPos, l.touchForce)
		}
	}

	if err := l.renderer.Render(l.scene, l.camera); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := l.surface.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}

	t := l.world.Time()
	for _, m := range l.metrics {
		m.Observe(pairs, t)
	}
	for _, o := range l.observers {
		o.OnFrame(l.frame, t, pairs, touching)
	}
	return nil
}

func (l *Loop) validate() error {
	for i, p := range l.registry.Pairs() {
		b := p.Body
		if !dynamo.IsFinite(b.Position) || !dynamo.IsFinite(b.Velocity) || !dynamo.IsFiniteQuat(b.Quaternion) {
			return fmt.Errorf("ball %d: %w", i, dynamo.ErrInvalidState)
		}
	}
	return nil
}

// Run calls Tick once per tick until ctx is done or ticks is closed.
func (l *Loop) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if err := l.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// Tick runs one frame. A failed frame is logged and skipped; Tick only
// returns an error once maxFailures frames in a row have failed, or when
// ctx is done.
func (l *Loop) Tick(ctx context.Context) error {
	err := l.Frame(ctx)
	if err == nil {
		l.failures = 0
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	l.failures++
	l.logger.Printf("skipping frame: %v", err)
	if l.failures >= l.maxFailures {
		return fmt.Errorf("%w: %w", dynamo.ErrTooManyFailures, err)
	}
	return nil
}

// Immediate returns a closed channel holding n ticks, for running frames
// back to back without waiting for a display.
func Immediate(n int) <-chan time.Time {
	ch := make(chan time.Time, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		ch <- now
	}
	close(ch)
	return ch
}

// Refresh emits a tick per display refresh at fps until ctx is done.
func Refresh(ctx context.Context, fps int) <-chan time.Time {
	ch := make(chan time.Time)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				select {
				case ch <- t:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}
