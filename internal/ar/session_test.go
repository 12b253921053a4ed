package ar

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/dynamo"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestSimulatedStart(t *testing.T) {
	s := NewSimulated(Options{})
	if s.Background() != nil {
		t.Error("background should be nil before Start")
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !s.Started() || s.Background() == nil {
		t.Error("session should be started with a camera feed")
	}
}

func TestSimulatedStartFailures(t *testing.T) {
	denied := NewSimulated(Options{Denied: true})
	if err := denied.Start(context.Background()); !errors.Is(err, dynamo.ErrSessionUnavailable) {
		t.Errorf("expected ErrSessionUnavailable, got %v", err)
	}

	slow := NewSimulated(Options{Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := slow.Start(ctx)
	if !errors.Is(err, dynamo.ErrSessionUnavailable) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled session start, got %v", err)
	}
	if slow.Started() {
		t.Error("canceled session must not report started")
	}

	if err := (Unavailable{Reason: "no ARKit"}).Start(context.Background()); !errors.Is(err, dynamo.ErrSessionUnavailable) {
		t.Errorf("expected ErrSessionUnavailable, got %v", err)
	}
}

func TestSimulatedPose(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewSimulated(Options{Height: 0.3, Sway: 0.1, SwayPeriod: 4 * time.Second, Now: clock.Now})
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	cam := NewCamera(s, 1920, 1080, 0.01, 1000)
	if math.Abs(cam.Aspect-1920.0/1080) > 1e-12 || cam.Near != 0.01 || cam.Far != 1000 {
		t.Errorf("camera params: %+v", cam)
	}

	cam.UpdateMatrixWorld()
	if !cam.WorldPosition().ApproxFuncEqual(mgl64.Vec3{0, 0.3, 0}, within(1e-9)) {
		t.Errorf("pose at t=0 = %v, want (0,0.3,0)", cam.WorldPosition())
	}

	clock.t = clock.t.Add(time.Second)
	cam.UpdateMatrixWorld()
	if got := cam.WorldPosition().X(); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("pose x after quarter period = %v, want 0.1", got)
	}
}

func TestStillSession(t *testing.T) {
	s := NewSimulated(Options{Height: 0.2})
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	p1 := s.CameraPose()
	time.Sleep(5 * time.Millisecond)
	if p2 := s.CameraPose(); p1 != p2 {
		t.Error("zero sway should hold the pose still")
	}
}

func TestCameraFeedRange(t *testing.T) {
	s := NewSimulated(Options{})
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	bg := s.Background()
	for u := 0.0; u <= 1; u += 0.1 {
		for v := 0.0; v <= 1; v += 0.1 {
			if l := bg.Sample(u, v); l < 0 || l > 1 {
				t.Fatalf("Sample(%v,%v) = %v out of [0,1]", u, v, l)
			}
		}
	}
}

// within compares components absolutely; mgl's relative comparison breaks
// down when one side is zero.
func within(tol float64) func(a, b float64) bool {
	return func(a, b float64) bool { return math.Abs(a-b) <= tol }
}
