package constraint

import "github.com/chewxy/math32"

// Config holds the spring tuning shared by every constraint kind.
type Config struct {
	Frequency    float32 `yaml:"frequency"`     // Hz
	DampingRatio float32 `yaml:"damping_ratio"` // 0 = undamped, 1 = critical
	// MaxForce caps the accumulated impulse at MaxForce*dt. For orientation
	// rows it is a torque. Use .inf in YAML for no limit.
	MaxForce float32 `yaml:"max_force"`
	// BreakThreshold is the body speed at which the constraint breaks.
	// Zero or negative means it never breaks.
	BreakThreshold float32 `yaml:"break_threshold"`
}

// DefaultConfig is a critically damped 5 Hz spring with no force limit
// that never breaks.
func DefaultConfig() Config {
	return Config{
		Frequency:      5,
		DampingRatio:   1,
		MaxForce:       math32.Inf(1),
		BreakThreshold: math32.Inf(1),
	}
}

// Normalize clamps every field into its valid range.
func (c Config) Normalize() Config {
	if c.Frequency != c.Frequency || c.Frequency < 0 {
		c.Frequency = 0
	}
	switch {
	case c.DampingRatio != c.DampingRatio, c.DampingRatio < 0:
		c.DampingRatio = 0
	case c.DampingRatio > 1:
		c.DampingRatio = 1
	}
	if c.MaxForce != c.MaxForce || c.MaxForce < 0 {
		c.MaxForce = 0
	}
	if c.BreakThreshold != c.BreakThreshold || c.BreakThreshold <= 0 {
		c.BreakThreshold = math32.Inf(1)
	}
	return c
}
