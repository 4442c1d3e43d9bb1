package locomotion

import (
	"github.com/chewxy/math32"

	"motioncore/internal/mover"
	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// timerSlack absorbs float32 drift when a timer runs out on exactly the
// frame it is checked.
const timerSlack = 1e-5

// Mover resolves a motion delta against the world.
type Mover interface {
	Move(delta rl.Vector3, dt float32) mover.MoveResult
}

// State is the controller's per-frame memory.
type State struct {
	// Gravity is the smoothed vertical velocity, jumps included.
	Gravity       rl.Vector3
	TargetMotion  rl.Vector3 // velocity requested since the last tick
	CurrentMotion rl.Vector3 // smoothed planar velocity
	Coyote        float32
	JumpBuffer    float32
	// FastFall counts down to the apex of a jump. It goes negative when the
	// jump is released early and stays negative until landing.
	FastFall float32
}

// Controller turns move and jump intents into motion for a Mover.
type Controller struct {
	Up rl.Vector3

	cfg           Config
	state         State
	mover         Mover
	grounded      bool
	pendingHeight float32
}

func New(m Mover, cfg Config) *Controller {
	return &Controller{Up: physics.Up, cfg: cfg.Normalize(), mover: m}
}

func (c *Controller) Config() Config { return c.cfg }
func (c *Controller) State() State   { return c.state }
func (c *Controller) Grounded() bool { return c.grounded }

func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg.Normalize()
}

// Velocity is the velocity the controller is currently asking for.
func (c *Controller) Velocity() rl.Vector3 {
	return rl.Vector3Add(c.state.CurrentMotion, c.state.Gravity)
}

// Reset clears all state. Call it when the owner is (re)activated.
func (c *Controller) Reset() {
	c.state = State{}
	c.grounded = false
	c.pendingHeight = 0
}

// RequestMove adds a desired planar velocity for the next tick.
func (c *Controller) RequestMove(velocity rl.Vector3) {
	c.state.TargetMotion = rl.Vector3Add(c.state.TargetMotion, velocity)
}

// RequestJump jumps to the given height, or the configured height when
// height is not positive. Airborne requests outside coyote time are
// buffered.
func (c *Controller) RequestJump(height float32) {
	if height <= 0 {
		height = c.cfg.JumpHeight
	}
	if c.grounded || c.state.Coyote > 0 {
		c.launch(height)
		return
	}
	c.state.JumpBuffer = c.cfg.JumpBuffer
	c.pendingHeight = height
}

// ReleaseJump marks the current jump as released early.
func (c *Controller) ReleaseJump() {
	if c.state.FastFall > 0 {
		c.state.FastFall = -c.state.FastFall
	}
}

func (c *Controller) launch(height float32) {
	up := c.up()
	g := c.cfg.EffectiveGravity()
	v := math32.Min(math32.Sqrt(2*height*g), c.cfg.TerminalVelocity)

	c.state.Gravity = rl.Vector3Scale(up, v)
	c.state.FastFall = 0
	if g > 0 {
		c.state.FastFall = v / g
	}
	c.state.Coyote = 0
	c.state.JumpBuffer = 0
	c.pendingHeight = 0
}

// Tick advances the timers and returns the motion for this frame.
func (c *Controller) Tick(dt float32, grounded bool) rl.Vector3 {
	up := c.up()
	c.grounded = grounded
	// A jump launched since the last tick has not left the ground yet.
	landed := grounded && rl.Vector3DotProduct(c.state.Gravity, up) <= 0

	// 1. Timers
	buffered := c.state.JumpBuffer > 0
	remaining := c.state.JumpBuffer - dt
	c.state.JumpBuffer = math32.Max(0, remaining)
	launched := false
	if landed && buffered && remaining > -timerSlack {
		c.launch(c.pendingHeight)
		launched = true
	}
	c.state.Coyote = math32.Max(0, c.state.Coyote-dt)
	if c.state.FastFall > 0 {
		c.state.FastFall = math32.Max(0, c.state.FastFall-dt)
	}
	if landed && !launched {
		c.state.Coyote = c.cfg.CoyoteTime
		if c.state.FastFall < 0 {
			c.state.FastFall = 0
		}
	}

	// 2. Planar speed
	target := physics.Horizontal(c.state.TargetMotion, up)
	c.state.TargetMotion = rl.Vector3{}
	targetSpeed := rl.Vector3Length(target)
	currentSpeed := rl.Vector3Length(c.state.CurrentMotion)

	speed := targetSpeed
	if math32.Abs(currentSpeed-targetSpeed) > c.cfg.SpeedOffset {
		t := math32.Min(1, c.cfg.SpeedChangeRate*dt)
		speed = currentSpeed + (targetSpeed-currentSpeed)*t
	}
	dir := target
	if targetSpeed == 0 {
		dir = c.state.CurrentMotion
	}
	if l := rl.Vector3Length(dir); l > 0 && speed > 0 {
		c.state.CurrentMotion = rl.Vector3Scale(dir, speed/l)
	} else {
		c.state.CurrentMotion = rl.Vector3{}
	}

	// 3. Gravity
	g := c.cfg.EffectiveGravity()
	if landed && !launched {
		c.state.Gravity = rl.Vector3Scale(up, -math32.Min(g*dt, c.cfg.TerminalVelocity))
	} else {
		step := g * dt
		if c.state.FastFall < 0 {
			step *= c.cfg.FastFallMultiplier
		}
		c.state.Gravity = rl.Vector3Subtract(c.state.Gravity, rl.Vector3Scale(up, step))
		if fall := -rl.Vector3DotProduct(c.state.Gravity, up); fall > c.cfg.TerminalVelocity {
			c.state.Gravity = rl.Vector3Scale(up, -c.cfg.TerminalVelocity)
		}
	}

	return rl.Vector3Scale(rl.Vector3Add(c.state.CurrentMotion, c.state.Gravity), dt)
}

// Update ticks with the last grounded flag, moves, and records whether the
// mover ended up on the ground.
func (c *Controller) Update(dt float32) mover.MoveResult {
	motion := c.Tick(dt, c.grounded)
	if c.mover == nil {
		return mover.MoveResult{Delta: motion}
	}
	res := c.mover.Move(motion, dt)
	c.grounded = res.Flags&mover.Below != 0
	return res
}

func (c *Controller) up() rl.Vector3 {
	if rl.Vector3Length(c.Up) < physics.Epsilon {
		return physics.Up
	}
	return rl.Vector3Normalize(c.Up)
}
