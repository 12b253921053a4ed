package config

import (
	"fmt"
	"os"

	"github.com/san-kum/arduck/internal/asset"
	"github.com/san-kum/arduck/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBallCount        = 20
	DefaultBallRadius       = 0.07
	DefaultBallMass         = 1.0
	DefaultBallDamping      = 0.5
	DefaultModelSize        = 0.18
	DefaultGravity          = 9.82
	DefaultGroundY          = -0.22
	DefaultRestitution      = 0.7
	DefaultFriction         = 0.6
	DefaultTouchForce       = 1.2
	DefaultDt               = 1.0 / 60
	DefaultFPS              = 60
	DefaultNear             = 0.01
	DefaultFar              = 1000.0
	DefaultMaxFrameFailures = 30
	DefaultCols             = 80
	DefaultRows             = 24
)

type Config struct {
	Model            string         `yaml:"model"`
	Seed             int64          `yaml:"seed"`
	Dt               float64        `yaml:"dt"`
	FPS              int            `yaml:"fps"`
	MaxFrameFailures int            `yaml:"max_frame_failures"`
	Surface          SurfaceConfig  `yaml:"surface"`
	Camera           CameraConfig   `yaml:"camera"`
	Balls            BallConfig     `yaml:"balls"`
	World            WorldConfig    `yaml:"world"`
	Contact          ContactConfig  `yaml:"contact"`
	Touch            TouchConfig    `yaml:"touch"`
	Session          SessionConfig  `yaml:"session"`
	Lights           LightingConfig `yaml:"lights"`
}

// SurfaceConfig sizes the terminal view in character cells.
type SurfaceConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

type CameraConfig struct {
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

type BallConfig struct {
	Count     int     `yaml:"count"`
	Radius    float64 `yaml:"radius"`
	Mass      float64 `yaml:"mass"`
	ModelSize float64 `yaml:"model_size"`
	// Damping is the fraction of linear and angular velocity lost per
	// second; it stands in for rolling resistance.
	Damping  float64    `yaml:"damping"`
	SpawnMin [3]float64 `yaml:"spawn_min"`
	SpawnMax [3]float64 `yaml:"spawn_max"`
	Color    [3]float64 `yaml:"color"`
	Specular [3]float64 `yaml:"specular"`
}

type WorldConfig struct {
	Gravity float64 `yaml:"gravity"`
	GroundY float64 `yaml:"ground_y"`
}

type ContactConfig struct {
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

type TouchConfig struct {
	Force float64 `yaml:"force"`
}

type SessionConfig struct {
	Height float64 `yaml:"height"`
	Sway   float64 `yaml:"sway"`
}

type LightingConfig struct {
	Directional uint32     `yaml:"directional"`
	Ambient     uint32     `yaml:"ambient"`
	Direction   [3]float64 `yaml:"direction"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:            asset.DefaultModelURL,
		Seed:             1,
		Dt:               DefaultDt,
		FPS:              DefaultFPS,
		MaxFrameFailures: DefaultMaxFrameFailures,
		Surface:          SurfaceConfig{Cols: DefaultCols, Rows: DefaultRows},
		Camera:           CameraConfig{Near: DefaultNear, Far: DefaultFar},
		Balls: BallConfig{
			Count:     DefaultBallCount,
			Radius:    DefaultBallRadius,
			Mass:      DefaultBallMass,
			ModelSize: DefaultModelSize,
			Damping:   DefaultBallDamping,
			SpawnMin:  [3]float64{-0.5, 0.5, -2.5},
			SpawnMax:  [3]float64{0.5, 3.5, -1.5},
			Color:     [3]float64{0.95, 0.95, 0},
			Specular:  [3]float64{0.3, 0.3, 0.3},
		},
		World:   WorldConfig{Gravity: DefaultGravity, GroundY: DefaultGroundY},
		Contact: ContactConfig{Restitution: DefaultRestitution, Friction: DefaultFriction},
		Touch:   TouchConfig{Force: DefaultTouchForce},
		Session: SessionConfig{Height: 0, Sway: 0.05},
		Lights: LightingConfig{
			Directional: 0xdddddd,
			Ambient:     0x505050,
			Direction:   [3]float64{1, 1, 1},
		},
	}
}

// Load reads a yaml file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a yaml file on top of cfg. Keys missing from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Resolve builds a configuration from the defaults, then the named preset,
// then the file at path. Either may be empty.
func Resolve(preset, path string) (*Config, error) {
	cfg := DefaultConfig()
	if preset != "" {
		if cfg = GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, ListPresets())
		}
	}
	if path != "" {
		if err := LoadInto(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the scene cannot be built from.
func (c *Config) Validate() error {
	checks := []struct {
		ok   bool
		what string
	}{
		{c.Model != "", "model must be set"},
		{c.Dt > 0, fmt.Sprintf("dt must be positive, got %v", c.Dt)},
		{c.FPS > 0, fmt.Sprintf("fps must be positive, got %d", c.FPS)},
		{c.MaxFrameFailures > 0, "max_frame_failures must be positive"},
		{c.Surface.Cols > 0 && c.Surface.Rows > 0, "surface size must be positive"},
		{c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera needs 0 < near < far"},
		{c.Balls.Count >= 0, "ball count must not be negative"},
		{c.Balls.Radius > 0, "ball radius must be positive"},
		{c.Balls.Mass > 0, "ball mass must be positive"},
		{c.Balls.ModelSize > 0, "model size must be positive"},
		{c.Balls.Damping >= 0 && c.Balls.Damping < 1, "damping must be in [0, 1)"},
		{c.Contact.Restitution >= 0 && c.Contact.Restitution <= 1, "restitution must be in [0, 1]"},
		{c.Contact.Friction >= 0, "friction must not be negative"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("config: %s: %w", chk.what, dynamo.ErrParameterBounds)
		}
	}
	for i := 0; i < 3; i++ {
		if c.Balls.SpawnMax[i] < c.Balls.SpawnMin[i] {
			return fmt.Errorf("config: spawn_max[%d] < spawn_min[%d]: %w", i, i, dynamo.ErrParameterBounds)
		}
	}
	return nil
}
