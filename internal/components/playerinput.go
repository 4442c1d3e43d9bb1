package components

import (
	"github.com/chewxy/math32"

	"motioncore/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Intent is one frame of player input.
type Intent struct {
	Move         rl.Vector2 // x = strafe right, y = forward
	Look         rl.Vector2 // mouse delta
	JumpPressed  bool
	JumpReleased bool
}

// PlayerInput turns keyboard and mouse input into locomotion requests for
// the CharacterController on the same object.
type PlayerInput struct {
	engine.BaseComponent
	Yaw       float32 // degrees
	Pitch     float32
	MoveSpeed float32
	LookSpeed float32
	// ReadInput is swapped out in tests. Defaults to the raylib keyboard and
	// mouse.
	ReadInput func() Intent
}

func NewPlayerInput() *PlayerInput {
	return &PlayerInput{
		Yaw:       -135.0,
		Pitch:     -30.0,
		MoveSpeed: 6.0,
		LookSpeed: 0.1,
		ReadInput: ReadKeyboard,
	}
}

func (p *PlayerInput) Update(deltaTime float32) {
	if p.ReadInput == nil {
		return
	}
	p.Apply(p.ReadInput())
}

// Apply feeds one frame of input to the character controller.
func (p *PlayerInput) Apply(in Intent) {
	p.Yaw += in.Look.X * p.LookSpeed
	p.Pitch -= in.Look.Y * p.LookSpeed

	// Clamp pitch
	if p.Pitch > 89 {
		p.Pitch = 89
	}
	if p.Pitch < -89 {
		p.Pitch = -89
	}

	g := p.GetGameObject()
	if g == nil {
		return
	}
	cc := engine.GetComponent[*CharacterController](g)
	if cc == nil {
		return
	}

	forward, right := p.Directions()
	move := rl.Vector3Add(rl.Vector3Scale(forward, in.Move.Y), rl.Vector3Scale(right, in.Move.X))

	// Normalize diagonal movement
	if l := rl.Vector3Length(move); l > 1 {
		move = rl.Vector3Scale(move, 1/l)
	}
	cc.RequestMove(rl.Vector3Scale(move, p.MoveSpeed))

	if in.JumpPressed {
		cc.RequestJump(0)
	}
	if in.JumpReleased {
		cc.ReleaseJump()
	}
}

// Directions returns the horizontal forward and right vectors for the
// current yaw.
func (p *PlayerInput) Directions() (forward, right rl.Vector3) {
	yaw := p.Yaw * rl.Deg2rad
	forward = rl.Vector3{X: math32.Cos(yaw), Z: math32.Sin(yaw)}
	right = rl.Vector3{X: -math32.Sin(yaw), Z: math32.Cos(yaw)}
	return
}

func (p *PlayerInput) LookDirection() rl.Vector3 {
	yaw := p.Yaw * rl.Deg2rad
	pitch := p.Pitch * rl.Deg2rad
	return rl.Vector3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}
}

// ReadKeyboard reads WASD, space and the mouse.
func ReadKeyboard() Intent {
	var in Intent
	if rl.IsKeyDown(rl.KeyW) {
		in.Move.Y++
	}
	if rl.IsKeyDown(rl.KeyS) {
		in.Move.Y--
	}
	if rl.IsKeyDown(rl.KeyD) {
		in.Move.X++
	}
	if rl.IsKeyDown(rl.KeyA) {
		in.Move.X--
	}
	in.Look = rl.GetMouseDelta()
	in.JumpPressed = rl.IsKeyPressed(rl.KeySpace)
	in.JumpReleased = rl.IsKeyReleased(rl.KeySpace)
	return in
}
