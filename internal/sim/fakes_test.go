package sim

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"

	"github.com/san-kum/arduck/internal/ar"
	"github.com/san-kum/arduck/internal/asset"
	"github.com/san-kum/arduck/internal/config"
	"github.com/san-kum/arduck/internal/input"
	"github.com/san-kum/arduck/internal/scene"
)

type fakeRenderer struct {
	mu       sync.Mutex
	width    int
	height   int
	renders  int
	failOn   map[int]bool
	failAll  bool
	panicOn  int
	lastSeen int
}

func (r *fakeRenderer) SetSize(w, h int) { r.width, r.height = w, h }

func (r *fakeRenderer) Render(s *scene.Scene, cam *scene.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
	r.lastSeen = len(s.Meshes)
	if r.panicOn == r.renders {
		panic("renderer exploded")
	}
	if r.failAll || r.failOn[r.renders] {
		return errors.New("gl context lost")
	}
	return nil
}

type fakeSurface struct {
	w, h   int
	frames int
}

func (s *fakeSurface) Width() int  { return s.w }
func (s *fakeSurface) Height() int { return s.h }
func (s *fakeSurface) EndFrame() error {
	s.frames++
	return nil
}

type fakeLoader struct {
	calls int
	mesh  *scene.Mesh
	err   error
}

func (l *fakeLoader) Load(ctx context.Context, source string) (*scene.Mesh, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	if l.mesh != nil {
		return l.mesh, nil
	}
	return asset.Builtin("duck")
}

type fixture struct {
	cfg      *config.Config
	renderer *fakeRenderer
	surface  *fakeSurface
	loader   *fakeLoader
	touch    *input.Tracker
	session  ar.Session
	logs     *bytes.Buffer
}

func newFixture() *fixture {
	cfg := config.DefaultConfig()
	cfg.Model = "builtin:duck"
	cfg.Seed = 7
	return &fixture{
		cfg:      cfg,
		renderer: &fakeRenderer{},
		surface:  &fakeSurface{w: 640, h: 480},
		loader:   &fakeLoader{},
		touch:    input.NewTracker(),
		session:  ar.NewSimulated(ar.Options{Height: 0}),
		logs:     &bytes.Buffer{},
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Session:  f.session,
		Loader:   f.loader,
		Renderer: f.renderer,
		Surface:  f.surface,
		Touch:    f.touch,
		Logger:   log.New(f.logs, "", 0),
	}
}

func (f *fixture) bootstrap() (*Loop, error) {
	return Bootstrap(context.Background(), f.cfg, f.deps())
}
