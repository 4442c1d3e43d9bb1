package game

import (
	"fmt"

	"github.com/chewxy/math32"

	"motioncore/internal/components"
	"motioncore/internal/constraint"
	"motioncore/internal/engine"
	"motioncore/internal/locomotion"
	"motioncore/internal/mover"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxForceSlider is the top of the force slider; the unlimited box takes
// over past it.
const maxForceSlider = 500.0

// Panel is the sandbox tuning window. Values edited here are pushed to the
// player and to the active grab joint.
type Panel struct {
	Bounds          rl.Rectangle
	Joint           constraint.Config
	UnlimitedForce  bool
	Capsule         mover.Capsule
	Locomotion      locomotion.Config
	OverlapRecovery bool
	BodyGravity     float32

	game *Game
}

func NewPanel(g *Game) *Panel {
	p := &Panel{
		Bounds:          rl.Rectangle{X: 10, Y: 90, Width: 300, Height: 352},
		Joint:           g.Config.Constraint,
		UnlimitedForce:  math32.IsInf(g.Config.Constraint.MaxForce, 1),
		Capsule:         g.Config.Capsule,
		Locomotion:      g.Config.Locomotion,
		OverlapRecovery: true,
		BodyGravity:     -g.World.Gravity().Y,
		game:            g,
	}
	if p.UnlimitedForce {
		p.Joint.MaxForce = maxForceSlider
	}
	return p
}

func (p *Panel) Contains(pt rl.Vector2) bool {
	b := p.Bounds
	return pt.X >= b.X && pt.X <= b.X+b.Width && pt.Y >= b.Y && pt.Y <= b.Y+b.Height
}

// JointConfig is the grab joint tuning currently shown in the panel.
func (p *Panel) JointConfig() constraint.Config {
	cfg := p.Joint
	if p.UnlimitedForce {
		cfg.MaxForce = math32.Inf(1)
	}
	return cfg.Normalize()
}

// Apply pushes the panel values into the running simulation.
func (p *Panel) Apply() {
	if cc := engine.GetComponent[*components.CharacterController](p.game.Player); cc != nil {
		m := cc.Mover()
		m.Shape = p.Capsule.Normalize()
		m.OverlapRecovery = p.OverlapRecovery
		cc.Shape = m.Shape
		cc.SetLocomotion(p.Locomotion)
	}
	p.game.World.SetGravity(rl.Vector3{Y: -p.BodyGravity})
	if j := p.game.grab.joint; j != nil && j.Attached() {
		j.SetConfig(p.JointConfig())
	}
}

func (p *Panel) Draw() {
	b := p.Bounds
	rl.DrawRectangleRec(b, rl.Fade(rl.Black, 0.6))

	x := b.X + 110
	y := b.Y + 10
	const rowH = 22
	changed := false

	slider := func(label string, value *float32, min, max float32) {
		rl.DrawText(label, int32(b.X+8), int32(y+4), 14, rl.LightGray)
		bounds := rl.Rectangle{X: x, Y: y, Width: b.Width - 170, Height: 16}
		v := gui.Slider(bounds, "", fmt.Sprintf("%.2f", *value), *value, min, max)
		if v != *value {
			*value = v
			changed = true
		}
		y += rowH
	}
	checkBox := func(label string, value *bool) {
		bounds := rl.Rectangle{X: b.X + 8, Y: y, Width: 16, Height: 16}
		v := gui.CheckBox(bounds, label, *value)
		if v != *value {
			*value = v
			changed = true
		}
		y += rowH
	}

	rl.DrawText("Grab joint", int32(b.X+8), int32(y), 16, rl.Yellow)
	y += rowH
	slider("Frequency", &p.Joint.Frequency, 0, 20)
	slider("Damping", &p.Joint.DampingRatio, 0, 1)
	slider("Max force", &p.Joint.MaxForce, 0, maxForceSlider)
	checkBox("Unlimited force", &p.UnlimitedForce)
	slider("Body gravity", &p.BodyGravity, 0, 60)

	rl.DrawText("Capsule", int32(b.X+8), int32(y), 16, rl.Yellow)
	y += rowH
	slider("Step offset", &p.Capsule.StepOffset, 0, 1)
	slider("Slope limit", &p.Capsule.SlopeLimit, 0, 90)
	slider("Skin width", &p.Capsule.SkinWidth, 0.01, 0.2)
	checkBox("Overlap recovery", &p.OverlapRecovery)

	rl.DrawText("Locomotion", int32(b.X+8), int32(y), 16, rl.Yellow)
	y += rowH
	slider("Jump height", &p.Locomotion.JumpHeight, 0, 4)
	slider("Gravity", &p.Locomotion.Gravity, 0, 60)
	slider("Coyote", &p.Locomotion.CoyoteTime, 0, 0.5)

	if changed {
		p.Apply()
	}
}
