package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"motioncore/internal/constraint"
	"motioncore/internal/engine"
	"motioncore/internal/locomotion"
	"motioncore/internal/logger"
	"motioncore/internal/mover"
)

// Config is a motion profile.
type Config struct {
	Simulation SimulationConfig  `yaml:"simulation"`
	Logging    logger.Config     `yaml:"logging"`
	Constraint constraint.Config `yaml:"constraint"`
	Capsule    mover.Capsule     `yaml:"capsule"`
	Locomotion locomotion.Config `yaml:"locomotion"`
}

type SimulationConfig struct {
	FixedStep   float32 `yaml:"fixed_step"` // seconds
	MaxSubSteps int     `yaml:"max_sub_steps"`
	Gravity     float32 `yaml:"gravity"` // rigid bodies only, along -Y
}

func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			FixedStep:   engine.DefaultFixedStep,
			MaxSubSteps: 5,
			Gravity:     20,
		},
		Logging:    logger.Config{Level: "info", Format: "text"},
		Constraint: constraint.DefaultConfig(),
		Capsule:    mover.DefaultCapsule(),
		Locomotion: locomotion.DefaultConfig(),
	}
}

// Load reads a profile from path. Fields missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize clamps every section into range.
func (c *Config) Normalize() {
	if c.Simulation.FixedStep != c.Simulation.FixedStep || c.Simulation.FixedStep <= 0 {
		c.Simulation.FixedStep = engine.DefaultFixedStep
	}
	if c.Simulation.MaxSubSteps < 1 {
		c.Simulation.MaxSubSteps = 1
	}
	if c.Simulation.Gravity != c.Simulation.Gravity {
		c.Simulation.Gravity = 0
	}
	c.Constraint = c.Constraint.Normalize()
	c.Capsule = c.Capsule.Normalize()
	c.Locomotion = c.Locomotion.Normalize()
}

// Clock builds the fixed-step clock for a scene.
func (c *Config) Clock() *engine.FixedClock {
	return engine.NewFixedClock(c.Simulation.FixedStep, c.Simulation.MaxSubSteps)
}
