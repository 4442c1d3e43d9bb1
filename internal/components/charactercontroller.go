package components

import (
	"motioncore/internal/engine"
	"motioncore/internal/locomotion"
	"motioncore/internal/logger"
	"motioncore/internal/mover"
	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CharacterController moves its GameObject as a kinematic capsule with
// gravity, jumping and stair stepping. Similar to Unity's
// CharacterController driven by a third-person controller script.
type CharacterController struct {
	engine.BaseComponent

	// Configuration
	Shape      mover.Capsule
	Locomotion locomotion.Config

	// OnHit fires for every surface the capsule runs into.
	OnHit engine.EventWithArg[mover.ControllerHit]

	// Runtime state (not serialized)
	mover      *mover.Mover
	controller *locomotion.Controller
	last       mover.MoveResult
}

// NewCharacterController creates a new character controller with defaults
func NewCharacterController() *CharacterController {
	return &CharacterController{
		Shape:      mover.DefaultCapsule(),
		Locomotion: locomotion.DefaultConfig(),
	}
}

func (c *CharacterController) Start() {
	c.init()
	// Intents can arrive before the object joins a scene, leaving the mover
	// without a world to sweep against.
	if g := c.GetGameObject(); g != nil && g.Scene != nil && g.Scene.World != nil {
		c.mover.SetQuery(g.Scene.World)
	}
}

func (c *CharacterController) init() {
	if c.mover != nil {
		return
	}
	g := c.GetGameObject()

	var query physics.ShapeQuery
	name := ""
	if g != nil {
		name = g.Name
		if g.Scene != nil && g.Scene.World != nil {
			query = g.Scene.World
		}
	}

	c.mover = mover.New(query, c.Shape)
	c.mover.SetLogger(logger.L().WithField("controller", name))
	c.mover.OnHit.AddListener(c.OnHit.Invoke)
	if g != nil {
		c.mover.SetPosition(g.Transform.Position)
	}
	c.controller = locomotion.New(c.mover, c.Locomotion)
}

// OnEnable clears locomotion state when the object is reactivated.
func (c *CharacterController) OnEnable() {
	if c.controller != nil {
		c.controller.Reset()
	}
}

func (c *CharacterController) Update(deltaTime float32) {
	g := c.GetGameObject()
	if g == nil {
		return
	}
	c.init()

	// Transform edits made outside the controller count as teleports.
	c.mover.SetPosition(g.Transform.Position)
	c.mover.SetOrientation(g.Transform.Rotation)
	c.last = c.controller.Update(deltaTime)
	g.Transform.Position = c.mover.Position()
}

// Move moves the character by motion directly, bypassing locomotion.
// Returns the actual displacement after collision resolution.
func (c *CharacterController) Move(motion rl.Vector3, deltaTime float32) mover.MoveResult {
	g := c.GetGameObject()
	if g == nil {
		return mover.MoveResult{}
	}
	c.init()

	c.mover.SetPosition(g.Transform.Position)
	c.mover.SetOrientation(g.Transform.Rotation)
	c.last = c.mover.Move(motion, deltaTime)
	g.Transform.Position = c.mover.Position()
	return c.last
}

func (c *CharacterController) RequestMove(velocity rl.Vector3) {
	c.init()
	c.controller.RequestMove(velocity)
}

// RequestJump jumps to height, or to the configured jump height when height
// is not positive.
func (c *CharacterController) RequestJump(height float32) {
	c.init()
	c.controller.RequestJump(height)
}

func (c *CharacterController) ReleaseJump() {
	c.init()
	c.controller.ReleaseJump()
}

// Mover exposes the sweep resolver, for tuning the shape at runtime.
func (c *CharacterController) Mover() *mover.Mover {
	c.init()
	return c.mover
}

// SetLocomotion retunes gravity, jumping and speed smoothing.
func (c *CharacterController) SetLocomotion(cfg locomotion.Config) {
	c.init()
	c.Locomotion = cfg
	c.controller.SetConfig(cfg)
}

// IsGrounded returns whether the character is on the ground
func (c *CharacterController) IsGrounded() bool {
	return c.last.Flags&mover.Below != 0
}

// LastMove returns the result of the most recent move.
func (c *CharacterController) LastMove() mover.MoveResult {
	return c.last
}

// State exposes the locomotion timers, mostly for debug overlays.
func (c *CharacterController) State() locomotion.State {
	c.init()
	return c.controller.State()
}
