package locomotion

import (
	"github.com/chewxy/math32"

	"motioncore/internal/physics"
)

// Config tunes how intents become motion.
type Config struct {
	SpeedChangeRate float32 `yaml:"speed_change_rate"` // 1/s
	// SpeedOffset is how close the current speed must be to the target
	// before it snaps instead of smoothing.
	SpeedOffset        float32 `yaml:"speed_offset"`
	Gravity            float32 `yaml:"gravity"`
	TerminalVelocity   float32 `yaml:"terminal_velocity"`
	FastFallMultiplier float32 `yaml:"fast_fall_multiplier"`
	JumpHeight         float32 `yaml:"jump_height"`
	// ApexTime, when set, replaces Gravity with 2*JumpHeight/ApexTime^2 so a
	// full jump reaches its peak after exactly ApexTime seconds.
	ApexTime   float32 `yaml:"apex_time"`
	CoyoteTime float32 `yaml:"coyote_time"`
	JumpBuffer float32 `yaml:"jump_buffer"`
}

func DefaultConfig() Config {
	return Config{
		SpeedChangeRate:    10,
		SpeedOffset:        0.1,
		Gravity:            20,
		TerminalVelocity:   50,
		FastFallMultiplier: 2,
		JumpHeight:         1.2,
		CoyoteTime:         0.12,
		JumpBuffer:         0.15,
	}
}

func (c Config) Normalize() Config {
	inf := math32.Inf(1)
	c.SpeedChangeRate = physics.Clamp(c.SpeedChangeRate, 0, inf)
	c.SpeedOffset = physics.Clamp(c.SpeedOffset, 0, inf)
	c.Gravity = physics.Clamp(c.Gravity, 0, inf)
	if c.TerminalVelocity != c.TerminalVelocity || c.TerminalVelocity <= 0 {
		c.TerminalVelocity = inf
	}
	c.FastFallMultiplier = physics.Clamp(c.FastFallMultiplier, 1, inf)
	c.JumpHeight = physics.Clamp(c.JumpHeight, 0, inf)
	c.ApexTime = physics.Clamp(c.ApexTime, 0, inf)
	c.CoyoteTime = physics.Clamp(c.CoyoteTime, 0, inf)
	c.JumpBuffer = physics.Clamp(c.JumpBuffer, 0, inf)
	return c
}

// EffectiveGravity is the gravity magnitude the controller integrates with.
func (c Config) EffectiveGravity() float32 {
	if c.ApexTime > 0 {
		return 2 * c.JumpHeight / (c.ApexTime * c.ApexTime)
	}
	return c.Gravity
}
