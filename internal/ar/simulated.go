package ar

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/dynamo"
	"github.com/san-kum/arduck/internal/scene"
)

// Options configures a Simulated session.
type Options struct {
	// Height of the device above the world origin.
	Height float64
	// Sway is the amplitude in metres of the hand-held drift; 0 holds still.
	Sway       float64
	SwayPeriod time.Duration
	// Delay emulates session negotiation.
	Delay time.Duration
	// Denied makes Start fail as if camera permission were refused.
	Denied bool
	// Now defaults to time.Now.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Height:     0,
		Sway:       0.05,
		SwayPeriod: 6 * time.Second,
	}
}

// Simulated is a Session with a scripted pose: the device looks down -Z
// from (0, Height, 0) and drifts on a small Lissajous path.
type Simulated struct {
	opts    Options
	started atomic.Bool
	epoch   time.Time
	feed    *CameraFeed
}

func NewSimulated(opts Options) *Simulated {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SwayPeriod <= 0 {
		opts.SwayPeriod = DefaultOptions().SwayPeriod
	}
	return &Simulated{opts: opts}
}

func (s *Simulated) Start(ctx context.Context) error {
	if s.opts.Denied {
		return fmt.Errorf("camera permission denied: %w", dynamo.ErrSessionUnavailable)
	}
	if s.opts.Delay > 0 {
		t := time.NewTimer(s.opts.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("negotiating session: %w: %w", dynamo.ErrSessionUnavailable, ctx.Err())
		case <-t.C:
		}
	}
	s.epoch = s.opts.Now()
	s.feed = &CameraFeed{session: s}
	s.started.Store(true)
	return nil
}

func (s *Simulated) Started() bool { return s.started.Load() }

func (s *Simulated) elapsed() float64 {
	if !s.started.Load() {
		return 0
	}
	return s.opts.Now().Sub(s.epoch).Seconds()
}

// CameraPose returns the camera-to-world transform at the current time.
func (s *Simulated) CameraPose() mgl64.Mat4 {
	phase := 2 * math.Pi * s.elapsed() / s.opts.SwayPeriod.Seconds()
	x := s.opts.Sway * math.Sin(phase)
	y := s.opts.Height + 0.5*s.opts.Sway*math.Sin(2*phase)
	yaw := 0.5 * s.opts.Sway * math.Sin(phase)
	return mgl64.Translate3D(x, y, 0).Mul4(mgl64.HomogRotate3DY(yaw))
}

func (s *Simulated) Background() scene.Texture {
	if s.feed == nil {
		return nil
	}
	return s.feed
}

// CameraFeed is the simulated live image: a floor below the horizon with
// a slowly moving speckle so the background visibly tracks time.
type CameraFeed struct {
	session *Simulated
}

func (f *CameraFeed) Sample(u, v float64) float64 {
	t := f.session.elapsed()
	if v > 0.55 {
		// floor tiles
		tile := (int(math.Floor(u*12)) + int(math.Floor((v+0.02*t)*8))) & 1
		return 0.25 + 0.15*float64(tile)
	}
	h := math.Sin(u*127.1+v*311.7+t*0.3) * 43758.5453
	return 0.5 + 0.5*(h-math.Floor(h))*0.8
}

// Unavailable is a Session for platforms without AR support.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Start(ctx context.Context) error {
	return fmt.Errorf("%s: %w", u.Reason, dynamo.ErrSessionUnavailable)
}

func (u Unavailable) CameraPose() mgl64.Mat4 { return mgl64.Ident4() }

func (u Unavailable) Background() scene.Texture { return nil }
