package sim

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/dynamo"
)

func mustLoop(t *testing.T, f *fixture) *Loop {
	t.Helper()
	loop, err := f.bootstrap()
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return loop
}

func TestFrameSyncsMeshesFromBodies(t *testing.T) {
	f := newFixture()
	loop := mustLoop(t, f)

	for frame := 0; frame < 120; frame++ {
		if err := loop.Frame(context.Background()); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		for i, p := range loop.Registry().Pairs() {
			if p.Mesh.Position != p.Body.Position || p.Mesh.Quaternion != p.Body.Quaternion {
				t.Fatalf("frame %d pair %d out of sync: mesh %v body %v", frame, i, p.Mesh.Position, p.Body.Position)
			}
		}
	}

	if loop.Frames() != 120 || loop.World().StepCount() != 120 {
		t.Errorf("expected 120 frames and steps, got %d/%d", loop.Frames(), loop.World().StepCount())
	}
	if math.Abs(loop.World().Time()-2.0) > 1e-9 {
		t.Errorf("fixed step should advance 2s in 120 frames, got %v", loop.World().Time())
	}
}

func TestFrameMovesOnlyBodiesNotMeshesBack(t *testing.T) {
	f := newFixture()
	loop := mustLoop(t, f)
	p := loop.Registry().At(0)

	p.Mesh.Position = mgl64.Vec3{100, 100, 100}
	before := p.Body.Position
	if err := loop.Frame(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Body.Position.Sub(before).Len() > 1 {
		t.Errorf("mesh edits must not move the body: %v -> %v", before, p.Body.Position)
	}
}

func TestFrameTouchForce(t *testing.T) {
	f := newFixture()
	loop := mustLoop(t, f)

	if err := loop.Frame(context.Background()); err != nil {
		t.Fatal(err)
	}
	for i, p := range loop.Registry().Pairs() {
		if p.Body.Force != (mgl64.Vec3{}) {
			t.Errorf("pair %d got force %v without touch", i, p.Body.Force)
		}
	}

	f.touch.OnGrant()
	if err := loop.Frame(context.Background()); err != nil {
		t.Fatal(err)
	}
	cam := loop.CameraPosition()
	for i, p := range loop.Registry().Pairs() {
		toCamera := cam.Sub(p.Body.Position).Normalize()
		want := toCamera.Mul(1.2)
		if !p.Body.Force.ApproxFuncEqual(want, within(1e-9)) {
			t.Errorf("pair %d force = %v, want %v", i, p.Body.Force, want)
		}
		if math.Abs(p.Body.Force.Len()-1.2) > 1e-12 {
			t.Errorf("pair %d force magnitude = %v", i, p.Body.Force.Len())
		}
		if p.Body.Torque != (mgl64.Vec3{}) {
			t.Errorf("force at centre should not spin pair %d", i)
		}
	}

	f.touch.OnRelease()
	if err := loop.Frame(context.Background()); err != nil {
		t.Fatal(err)
	}
	for i, p := range loop.Registry().Pairs() {
		if p.Body.Force != (mgl64.Vec3{}) {
			t.Errorf("pair %d still pushed after release: %v", i, p.Body.Force)
		}
	}
}

func TestAttractAtCameraPosition(t *testing.T) {
	f := newFixture()
	loop := mustLoop(t, f)
	p := loop.Registry().At(0)

	if got := p.Attract(p.Body.Position, 1.2); got != (mgl64.Vec3{}) {
		t.Errorf("body on the target should get no force, got %v", got)
	}
	if !dynamo.IsFinite(p.Body.Force) {
		t.Error("force became non-finite")
	}
}

type countingObserver struct {
	frames   int
	touching int
	seen     []int
}

func (o *countingObserver) OnFrame(frame int, t float64, pairs []Pair, touching bool) {
	o.frames++
	o.seen = append(o.seen, frame)
	if touching {
		o.touching++
	}
}

func TestRunDrivesFramesFromTicks(t *testing.T) {
	f := newFixture()
	loop := mustLoop(t, f)
	obs := &countingObserver{}
	loop.AddObserver(obs)

	f.touch.OnGrant()
	if err := loop.Run(context.Background(), Immediate(30)); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if obs.frames != 30 || obs.touching != 30 {
		t.Errorf("observer saw %d frames (%d touching), want 30", obs.frames, obs.touching)
	}
	if f.renderer.lastSeen != 20 {
		t.Errorf("renderer saw %d meshes, want 20", f.renderer.lastSeen)
	}
}

func TestRunSkipsFailedFrames(t *testing.T) {
	f := newFixture()
	f.renderer.failOn = map[int]bool{2: true, 3: true}
	loop := mustLoop(t, f)
	obs := &countingObserver{}
	loop.AddObserver(obs)

	if err := loop.Run(context.Background(), Immediate(10)); err != nil {
		t.Fatalf("transient failures should be skipped, got %v", err)
	}
	if f.renderer.renders != 10 {
		t.Errorf("expected 10 render attempts, got %d", f.renderer.renders)
	}
	if f.surface.frames != 8 {
		t.Errorf("expected 8 presented frames, got %d", f.surface.frames)
	}
	if got := strings.Count(f.logs.String(), "skipping frame"); got != 2 {
		t.Errorf("expected 2 skip log lines, got %d:\n%s", got, f.logs.String())
	}
	// renders are counted from 1, frames from 0
	want := []int{0, 3, 4, 5, 6, 7, 8, 9}
	if !slices.Equal(obs.seen, want) {
		t.Errorf("observer saw frames %v, want only presented frames %v", obs.seen, want)
	}
}

func TestRunGivesUpAfterConsecutiveFailures(t *testing.T) {
	f := newFixture()
	f.cfg.MaxFrameFailures = 3
	f.renderer.failAll = true
	loop := mustLoop(t, f)

	err := loop.Run(context.Background(), Immediate(10))
	if !errors.Is(err, dynamo.ErrTooManyFailures) {
		t.Fatalf("expected ErrTooManyFailures, got %v", err)
	}
	var fe *dynamo.FrameError
	if !errors.As(err, &fe) || fe.Frame != 2 {
		t.Errorf("expected FrameError for frame 2, got %v", err)
	}
	if f.renderer.renders != 3 {
		t.Errorf("expected 3 attempts before giving up, got %d", f.renderer.renders)
	}
}

func TestFrameRecoversPanic(t *testing.T) {
	f := newFixture()
	f.renderer.panicOn = 1
	loop := mustLoop(t, f)

	err := loop.Frame(context.Background())
	var fe *dynamo.FrameError
	if !errors.As(err, &fe) || !strings.Contains(err.Error(), "renderer exploded") {
		t.Errorf("expected recovered FrameError, got %v", err)
	}
	if err := loop.Frame(context.Background()); err != nil {
		t.Errorf("loop should keep working after a recovered panic: %v", err)
	}
}

func TestFrameDetectsInvalidState(t *testing.T) {
	f := newFixture()
	loop := mustLoop(t, f)
	loop.Registry().At(3).Body.Velocity = mgl64.Vec3{math.NaN(), 0, 0}

	err := loop.Frame(context.Background())
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if f.renderer.renders != 0 {
		t.Error("malformed frame must not be rendered")
	}
}

func TestRunCanceled(t *testing.T) {
	f := newFixture()
	loop := mustLoop(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := loop.Run(ctx, make(chan time.Time)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := Refresh(ctx, 200)

	for i := 0; i < 3; i++ {
		<-ticks
	}
	cancel()
	for range ticks {
	}
}

func TestEnsemble(t *testing.T) {
	newDeps := func() Deps { return newFixture().deps() }
	cfg := newFixture().cfg

	run := func(seedStart int64) []*RunResult {
		res, err := NewEnsemble(cfg, 3, seedStart, 30, newDeps).Run(context.Background())
		if err != nil {
			t.Fatalf("ensemble failed: %v", err)
		}
		return res
	}

	a, b := run(10), run(10)
	for i := range a {
		if a[i].Seed != int64(10+i) || a[i].Pairs != 20 || a[i].Frames != 30 {
			t.Errorf("run %d: %+v", i, a[i])
		}
		for j := range a[i].Positions {
			if a[i].Positions[j] != b[i].Positions[j] {
				t.Fatalf("run %d ball %d differs across identical ensembles", i, j)
			}
		}
	}
	if a[0].Positions[0] == a[1].Positions[0] {
		t.Error("different seeds should give different scenes")
	}
}
