package constraint

import (
	"fmt"

	"github.com/chewxy/math32"

	"motioncore/internal/engine"
	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Heading is a one-degree-of-freedom orientation spring: it turns a body
// about Axis until its heading matches Angle. Rotation about the other two
// axes is left to the physics backend.
type Heading struct {
	Axis  Axis
	Angle float32 // target, radians

	body   physics.Body
	cfg    Config
	torque float32 // warm start, impulse per second

	dirty      bool
	key        coefficientKey
	soft       softness
	mass       float32
	recomputes int

	broken  bool
	OnBreak engine.EventWithArg[float32]
}

func NewHeading(body physics.Body, axis Axis) *Heading {
	return &Heading{Axis: axis, body: body, cfg: DefaultConfig(), dirty: true}
}

func (h *Heading) Configure(axis Axis, angle float32, cfg Config) {
	h.Axis = axis
	h.Angle = angle
	h.cfg = cfg.Normalize()
	h.dirty = true
}

func (h *Heading) Config() Config {
	return h.cfg
}

func (h *Heading) Broken() bool {
	return h.broken
}

// Reset drops warm-start memory and the broken flag.
func (h *Heading) Reset() {
	h.torque = 0
	h.broken = false
	h.dirty = true
}

// Current returns the body's heading about Axis in radians.
func (h *Heading) Current() (float32, error) {
	if _, err := h.Axis.Vector(); err != nil {
		return 0, err
	}
	ref, side := h.Axis.reference()
	f := rl.Vector3RotateByQuaternion(ref, h.body.Orientation())
	return math32.Atan2(rl.Vector3DotProduct(f, side), rl.Vector3DotProduct(f, ref)), nil
}

func (h *Heading) Step(dt float32) error {
	if h.body == nil {
		return ErrNoBody
	}
	axis, err := h.Axis.Vector()
	if err != nil {
		return fmt.Errorf("heading step: %w", err)
	}
	if h.broken || dt <= 0 {
		return nil
	}

	current, _ := h.Current()
	angleErr := physics.WrapAngle(current - h.Angle)
	if h.body.IsSleeping() && math32.Abs(angleErr) <= physics.Epsilon {
		return nil
	}

	response := h.refresh(dt, axis)
	if !h.soft.active {
		h.torque = 0
		return nil
	}

	acc := h.torque * dt
	h.apply(response, acc)

	w := rl.Vector3DotProduct(h.body.AngularVelocity(), axis)
	impulse := -h.mass * (w + h.soft.beta*angleErr + h.soft.gamma*acc)
	limit := h.cfg.MaxForce * dt
	old := acc
	acc = physics.Clamp(acc+impulse, -limit, limit)
	h.apply(response, acc-old)
	h.torque = acc / dt

	speed := math32.Abs(rl.Vector3DotProduct(h.body.AngularVelocity(), axis))
	if speed >= h.cfg.BreakThreshold {
		h.broken = true
		h.torque = 0
		h.OnBreak.Invoke(speed)
	}
	return nil
}

func (h *Heading) apply(response rl.Vector3, impulse float32) {
	if impulse == 0 {
		return
	}
	h.body.ApplyVelocityDelta(rl.Vector3{}, rl.Vector3Scale(response, impulse))
}

// refresh updates the scalar effective mass and returns the world-space
// angular response to a unit impulse about axis.
func (h *Heading) refresh(dt float32, axis rl.Vector3) rl.Vector3 {
	invInertia := h.body.InverseInertia()
	key := coefficientKey{
		damping:     h.cfg.DampingRatio,
		frequency:   h.cfg.Frequency,
		invMass:     h.body.InverseMass(),
		invInertia:  invInertia,
		dt:          dt,
		orientation: h.body.Orientation(),
		axis:        axis,
	}
	world := physics.WorldInverseInertia(key.orientation, invInertia)
	response := physics.MulVec(world, axis)
	if !h.dirty && key == h.key {
		return response
	}
	h.key = key
	h.dirty = false
	h.recomputes++

	h.soft = computeSoftness(h.cfg.Frequency, h.cfg.DampingRatio, 1, dt)
	if h.soft.active {
		h.mass = 1 / (rl.Vector3DotProduct(axis, response) + h.soft.gamma)
	}
	return response
}
