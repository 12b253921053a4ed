package sim

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/arduck/internal/ar"
	"github.com/san-kum/arduck/internal/config"
	"github.com/san-kum/arduck/internal/physics"
	"github.com/san-kum/arduck/internal/scene"
)

// Deps are the collaborators a scene is built on.
type Deps struct {
	Session  ar.Session
	Loader   ModelLoader
	Renderer Renderer
	Surface  Surface
	Touch    TouchSource
	Logger   *log.Logger
}

// Bootstrap builds the scene once: AR session, renderer, scene graph,
// lights, ground, the cloned ball pairs and their contact rule. It returns
// a loop ready to Run. Any failure aborts without rollback and no loop is
// returned.
func Bootstrap(ctx context.Context, cfg *config.Config, deps Deps) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	touch := deps.Touch
	if touch == nil {
		touch = noTouch{}
	}

	if err := deps.Session.Start(ctx); err != nil {
		return nil, fmt.Errorf("start AR session: %w", err)
	}

	width, height := deps.Surface.Width(), deps.Surface.Height()
	deps.Renderer.SetSize(width, height)

	scn := scene.New()
	scn.Background = deps.Session.Background()
	cam := ar.NewCamera(deps.Session, width, height, cfg.Camera.Near, cfg.Camera.Far)

	world := physics.NewWorld()
	world.Gravity = mgl64.Vec3{0, -cfg.World.Gravity, 0}

	dir := cfg.Lights.Direction
	scn.AddLight(scene.NewDirectionalLight(scene.ColorHex(cfg.Lights.Directional), mgl64.Vec3{dir[0], dir[1], dir[2]}))
	scn.AddLight(scene.NewAmbientLight(scene.ColorHex(cfg.Lights.Ambient)))

	groundMaterial := physics.NewMaterial("ground")
	ground := physics.NewBody(physics.BodyOptions{
		Mass:     0,
		Shape:    physics.NewPlane(),
		Material: groundMaterial,
		Position: mgl64.Vec3{0, cfg.World.GroundY, 0},
	})
	ground.SetRotationFromAxisAngle(mgl64.Vec3{1, 0, 0}, -math.Pi/2)
	world.Add(ground)

	model, err := deps.Loader.Load(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if err := scene.ScaleLongestSideToSize(model, cfg.Balls.ModelSize); err != nil {
		return nil, fmt.Errorf("scale model: %w", err)
	}
	template := scene.NewTemplate(model)

	c, s := cfg.Balls.Color, cfg.Balls.Specular
	ballMaterial := &scene.PhongMaterial{
		Color:    scene.Color{R: c[0], G: c[1], B: c[2]},
		Specular: scene.Color{R: s[0], G: s[1], B: s[2]},
	}
	ballPhysicsMaterial := physics.NewMaterial("ball")

	rng := rand.New(rand.NewSource(cfg.Seed))
	registry := NewRegistry(cfg.Balls.Count)
	for i := 0; i < cfg.Balls.Count; i++ {
		mesh := template.Instance()
		mesh.SetMaterial(ballMaterial)
		scn.Add(mesh)

		body := physics.NewBody(physics.BodyOptions{
			Mass:     cfg.Balls.Mass,
			Shape:    physics.NewSphere(cfg.Balls.Radius),
			Material: ballPhysicsMaterial,
			Position: spawnPoint(rng, cfg.Balls.SpawnMin, cfg.Balls.SpawnMax),
		})
		body.LinearDamping = cfg.Balls.Damping
		body.AngularDamping = cfg.Balls.Damping
		world.Add(body)

		if _, err := registry.Add(mesh, body); err != nil {
			return nil, fmt.Errorf("register ball %d: %w", i, err)
		}
	}

	world.AddContactMaterial(physics.NewContactMaterial(
		groundMaterial, ballPhysicsMaterial, cfg.Contact.Friction, cfg.Contact.Restitution))

	logger.Printf("scene ready: %d balls, model %q, surface %dx%d", registry.Len(), cfg.Model, width, height)

	return &Loop{
		cfg:         cfg,
		scene:       scn,
		camera:      cam,
		world:       world,
		ground:      ground,
		registry:    registry,
		renderer:    deps.Renderer,
		surface:     deps.Surface,
		touch:       touch,
		logger:      logger,
		dt:          cfg.Dt,
		touchForce:  cfg.Touch.Force,
		maxFailures: cfg.MaxFrameFailures,
	}, nil
}

// spawnPoint draws x, y, z in that order, uniformly within [min, max].
func spawnPoint(rng *rand.Rand, min, max [3]float64) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := 0; i < 3; i++ {
		p[i] = min[i] + rng.Float64()*(max[i]-min[i])
	}
	return p
}

// OnContextCreate is the entry point of a drawing context: it bootstraps
// the scene and then drives the frame loop from ticks until ctx ends.
func OnContextCreate(ctx context.Context, cfg *config.Config, deps Deps, ticks <-chan time.Time) error {
	loop, err := Bootstrap(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return loop.Run(ctx, ticks)
}
