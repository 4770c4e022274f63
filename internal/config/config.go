package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/geodesic"
	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/orbit"
)

const (
	DefaultEnergy          = 0.98
	DefaultAngularMomentum = 3.9
	DefaultR0              = 8.0
	DefaultMaxSteps        = 3000
	DefaultIntegrator      = "rk4"
	DefaultStoragePath     = ".geodesim/catalog.db"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Orbit       OrbitConfig       `yaml:"orbit"`
	Integration IntegrationConfig `yaml:"integration"`
	Storage     StorageConfig     `yaml:"storage"`
}

type OrbitConfig struct {
	Energy          float64 `yaml:"energy" env:"GEODESIM_ENERGY"`
	AngularMomentum float64 `yaml:"angular_momentum" env:"GEODESIM_ANGULAR_MOMENTUM"`
	R0              float64 `yaml:"r0" env:"GEODESIM_R0"`
	MaxSteps        int     `yaml:"max_steps" env:"GEODESIM_MAX_STEPS"`
}

type IntegrationConfig struct {
	Integrator    string  `yaml:"integrator" env:"GEODESIM_INTEGRATOR"`
	Step          float64 `yaml:"step" env:"GEODESIM_STEP"`
	HorizonMargin float64 `yaml:"horizon_margin" env:"GEODESIM_HORIZON_MARGIN"`
	OuterRadius   float64 `yaml:"outer_radius" env:"GEODESIM_OUTER_RADIUS"`
	Workers       int     `yaml:"workers" env:"GEODESIM_WORKERS"`
}

type StorageConfig struct {
	Path string `yaml:"path" env:"GEODESIM_DB"`
}

func DefaultConfig() *Config {
	return &Config{
		Orbit: OrbitConfig{
			Energy:          DefaultEnergy,
			AngularMomentum: DefaultAngularMomentum,
			R0:              DefaultR0,
			MaxSteps:        DefaultMaxSteps,
		},
		Integration: IntegrationConfig{
			Integrator:    DefaultIntegrator,
			Step:          dynamo.DefaultStep,
			HorizonMargin: dynamo.DefaultHorizonMargin,
			OuterRadius:   dynamo.DefaultOuterRadius,
		},
		Storage: StorageConfig{Path: DefaultStoragePath},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from GEODESIM_* variables. Unset variables leave
// the current value alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyPreset replaces the orbit section with p's.
func (c *Config) ApplyPreset(p *Preset) {
	if p != nil {
		c.Orbit = p.Orbit
	}
}

func (c *Config) Validate() error {
	o := c.Orbit
	switch {
	case o.Energy <= 0:
		return fmt.Errorf("%w: orbit.energy must be positive, got %g", ErrInvalid, o.Energy)
	case o.AngularMomentum <= 0:
		return fmt.Errorf("%w: orbit.angular_momentum must be positive, got %g", ErrInvalid, o.AngularMomentum)
	case o.R0 <= 0:
		return fmt.Errorf("%w: orbit.r0 must be positive, got %g", ErrInvalid, o.R0)
	case o.MaxSteps <= 0:
		return fmt.Errorf("%w: orbit.max_steps must be positive, got %d", ErrInvalid, o.MaxSteps)
	}
	if _, err := integrators.Lookup(c.Integration.Integrator); err != nil {
		return fmt.Errorf("%w: integration.integrator: %w", ErrInvalid, err)
	}
	if err := c.Dynamo().Validate(geodesic.SchwarzschildRadius); err != nil {
		return fmt.Errorf("%w: integration: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Config) Dynamo() dynamo.Config {
	return dynamo.Config{
		Step:          c.Integration.Step,
		HorizonMargin: c.Integration.HorizonMargin,
		OuterRadius:   c.Integration.OuterRadius,
	}
}

func (c *Config) Params() orbit.Params {
	return orbit.Params{
		E:        c.Orbit.Energy,
		L:        c.Orbit.AngularMomentum,
		R0:       c.Orbit.R0,
		MaxSteps: c.Orbit.MaxSteps,
	}
}

// Integrator builds an orbit integrator from the integration section.
func (c *Config) Integrator(opts ...orbit.Option) (*orbit.Integrator, error) {
	f, err := integrators.Lookup(c.Integration.Integrator)
	if err != nil {
		return nil, err
	}
	return orbit.New(c.Dynamo(), append([]orbit.Option{orbit.WithStepper(f)}, opts...)...)
}
