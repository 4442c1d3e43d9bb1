package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    bool
		validate   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:       "full profile",
			createFile: true,
			content: `simulation:
  fixed_step: 0.02
  max_sub_steps: 8
  gravity: 9.5
logging:
  level: debug
  format: json
constraint:
  frequency: 3
  damping_ratio: 0.7
  max_force: 500
  break_threshold: 40
capsule:
  radius: 0.5
  height: 2
  skin_width: 0.05
  step_offset: 0.3
  slope_limit: 50
locomotion:
  gravity: 30
  jump_height: 2
  coyote_time: 0.1
`,
			validate: func(t *testing.T, cfg *Config, err error) {
				if cfg.Simulation.FixedStep != 0.02 || cfg.Simulation.MaxSubSteps != 8 {
					t.Errorf("Simulation = %+v", cfg.Simulation)
				}
				if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
					t.Errorf("Logging = %+v", cfg.Logging)
				}
				if cfg.Constraint.Frequency != 3 || cfg.Constraint.MaxForce != 500 {
					t.Errorf("Constraint = %+v", cfg.Constraint)
				}
				if cfg.Capsule.Radius != 0.5 || cfg.Capsule.SlopeLimit != 50 {
					t.Errorf("Capsule = %+v", cfg.Capsule)
				}
				if cfg.Locomotion.Gravity != 30 || cfg.Locomotion.JumpHeight != 2 {
					t.Errorf("Locomotion = %+v", cfg.Locomotion)
				}
				// not in the file
				if cfg.Locomotion.JumpBuffer != 0.15 {
					t.Errorf("Locomotion.JumpBuffer = %f, want default 0.15", cfg.Locomotion.JumpBuffer)
				}
			},
		},
		{
			name:       "missing file",
			createFile: false,
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if !errors.Is(err, os.ErrNotExist) {
					t.Errorf("Expected not-exist error, got %v", err)
				}
			},
		},
		{
			name:       "invalid yaml",
			createFile: true,
			content:    "simulation: [unclosed",
			wantErr:    true,
		},
		{
			name:       "empty file keeps defaults",
			createFile: true,
			content:    "",
			validate: func(t *testing.T, cfg *Config, err error) {
				if *cfg != *Default() {
					t.Errorf("Expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name:       "out of range values are clamped",
			createFile: true,
			content: `simulation:
  fixed_step: -1
  max_sub_steps: 0
constraint:
  damping_ratio: 4
  frequency: -2
  max_force: .inf
capsule:
  radius: 0.5
  height: 2
  skin_width: 5
`,
			validate: func(t *testing.T, cfg *Config, err error) {
				if cfg.Simulation.FixedStep <= 0 || cfg.Simulation.MaxSubSteps != 1 {
					t.Errorf("Simulation not clamped: %+v", cfg.Simulation)
				}
				if cfg.Constraint.DampingRatio != 1 || cfg.Constraint.Frequency != 0 {
					t.Errorf("Constraint not clamped: %+v", cfg.Constraint)
				}
				if !math32.IsInf(cfg.Constraint.MaxForce, 1) {
					t.Errorf("MaxForce = %f, want +Inf", cfg.Constraint.MaxForce)
				}
				if cfg.Capsule.SkinWidth >= cfg.Capsule.Radius {
					t.Errorf("SkinWidth %f not below radius", cfg.Capsule.SkinWidth)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profile.yaml")
			if tt.createFile {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("write profile: %v", err)
				}
			}

			cfg, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.validate != nil {
				tt.validate(t, cfg, err)
			}
		})
	}
}

func TestClock(t *testing.T) {
	cfg := Default()
	cfg.Simulation.FixedStep = 0.5
	cfg.Simulation.MaxSubSteps = 3

	c := cfg.Clock()
	if c.Step != 0.5 || c.MaxSubSteps != 3 {
		t.Errorf("Clock = %+v", c)
	}
}

func TestShippedProfile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "profiles", "default.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if cfg.Capsule != want.Capsule {
		t.Errorf("Expected default capsule %+v, got %+v", want.Capsule, cfg.Capsule)
	}
	if cfg.Locomotion != want.Locomotion {
		t.Errorf("Expected default locomotion %+v, got %+v", want.Locomotion, cfg.Locomotion)
	}
	if !math32.IsInf(cfg.Constraint.MaxForce, 1) {
		t.Errorf("Expected unlimited max force, got %f", cfg.Constraint.MaxForce)
	}
}
