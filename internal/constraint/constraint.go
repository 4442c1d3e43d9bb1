package constraint

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"motioncore/internal/engine"
	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNoBody is returned when a constraint is stepped without a body.
var ErrNoBody = errors.New("constraint has no body")

// Drive selects which rows of a Constraint are solved.
type Drive uint8

const (
	DrivePosition Drive = 1 << iota
	DriveOrientation
)

// Target is the pose a Constraint pulls its body toward.
type Target struct {
	Position    rl.Vector3
	Orientation rl.Quaternion
	Drive       Drive
}

func PositionTarget(p rl.Vector3) Target {
	return Target{Position: p, Orientation: rl.QuaternionIdentity(), Drive: DrivePosition}
}

func OrientationTarget(q rl.Quaternion) Target {
	return Target{Orientation: q, Drive: DriveOrientation}
}

func PoseTarget(p rl.Vector3, q rl.Quaternion) Target {
	return Target{Position: p, Orientation: q, Drive: DrivePosition | DriveOrientation}
}

// AngularError selects how the orientation row measures its error.
type AngularError uint8

const (
	// AxisAngle uses the exact shortest rotation between the poses.
	AxisAngle AngularError = iota
	// EulerWrapped wraps each Euler component of the relative rotation to
	// [-180, 180) independently. Only exact for single-axis error.
	EulerWrapped
)

// Constraint is a soft spring that pulls a body's anchor point toward a
// target position and/or its orientation toward a target rotation.
type Constraint struct {
	body         physics.Body
	cfg          Config
	target       Target
	anchor       rl.Vector3 // body space
	AngularError AngularError

	// Warm-start memory, stored as impulse per second so it survives a
	// change of step size.
	force  rl.Vector3
	torque rl.Vector3

	dirty       bool
	key         coefficientKey
	linear      softness
	angular     softness
	linearMass  mgl32.Mat3
	angularMass mgl32.Mat3
	invInertia  mgl32.Mat3 // world space
	recomputes  int

	broken  bool
	OnBreak engine.EventWithArg[float32] // resulting speed
}

// New returns an unconfigured constraint on body using DefaultConfig.
func New(body physics.Body) *Constraint {
	return &Constraint{
		body:   body,
		cfg:    DefaultConfig(),
		target: Target{Orientation: rl.QuaternionIdentity()},
		dirty:  true,
	}
}

// Configure sets the target, the body-space anchor and the spring tuning.
// Out-of-range tuning is clamped.
func (c *Constraint) Configure(target Target, anchor rl.Vector3, cfg Config) {
	c.target = target
	c.anchor = anchor
	c.cfg = cfg.Normalize()
	c.dirty = true
}

func (c *Constraint) Body() physics.Body { return c.body }
func (c *Constraint) Config() Config     { return c.cfg }
func (c *Constraint) Target() Target     { return c.target }
func (c *Constraint) Anchor() rl.Vector3 { return c.anchor }
func (c *Constraint) Broken() bool       { return c.broken }

func (c *Constraint) SetConfig(cfg Config) {
	c.cfg = cfg.Normalize()
	c.dirty = true
}

// SetTarget moves the target. The target is not a coefficient input, so
// the cache stays valid.
func (c *Constraint) SetTarget(t Target) {
	c.target = t
}

func (c *Constraint) SetTargetPosition(p rl.Vector3) {
	c.target.Position = p
}

func (c *Constraint) SetTargetOrientation(q rl.Quaternion) {
	c.target.Orientation = q
}

// AccumulatedImpulse returns the warm-start impulse for a step of dt.
func (c *Constraint) AccumulatedImpulse(dt float32) (linear, angular rl.Vector3) {
	return rl.Vector3Scale(c.force, dt), rl.Vector3Scale(c.torque, dt)
}

// Reset drops warm-start memory and the broken flag.
func (c *Constraint) Reset() {
	c.force = rl.Vector3{}
	c.torque = rl.Vector3{}
	c.broken = false
	c.dirty = true
}

// Step solves the constraint once. dt must be the same on every call for
// the spring to behave as tuned; a new dt re-derives the coefficients.
func (c *Constraint) Step(dt float32) error {
	if c.body == nil {
		return ErrNoBody
	}
	if c.broken || dt <= 0 || c.target.Drive == 0 {
		return nil
	}

	// 1. A sleeping body resting on its target is left alone
	if c.body.IsSleeping() && c.atTarget() {
		return nil
	}

	// 2. Coefficients
	c.refresh(dt)
	r := c.worldAnchor()
	linear := c.target.Drive&DrivePosition != 0 && c.linear.active
	angular := c.target.Drive&DriveOrientation != 0 && c.angular.active
	if !linear {
		c.force = rl.Vector3{}
	}
	if !angular {
		c.torque = rl.Vector3{}
	}

	// 3. Warm start
	if linear {
		c.applyLinear(rl.Vector3Scale(c.force, dt), r)
	}
	if angular {
		c.applyAngular(rl.Vector3Scale(c.torque, dt))
	}

	// 4-6. Solve and apply
	if linear {
		c.solveLinear(dt, r)
	}
	if angular {
		c.solveAngular(dt)
	}

	// 7. Break check
	var speed float32
	if linear {
		speed = rl.Vector3Length(c.body.LinearVelocity())
	}
	if angular {
		if w := rl.Vector3Length(c.body.AngularVelocity()); w > speed {
			speed = w
		}
	}
	if (linear || angular) && speed >= c.cfg.BreakThreshold {
		c.broken = true
		c.force = rl.Vector3{}
		c.torque = rl.Vector3{}
		c.OnBreak.Invoke(speed)
	}
	return nil
}

func (c *Constraint) solveLinear(dt float32, r rl.Vector3) {
	pos := rl.Vector3Add(c.body.Position(), r)
	displacement := rl.Vector3Subtract(pos, c.target.Position)
	cdot := rl.Vector3Add(c.body.LinearVelocity(), rl.Vector3CrossProduct(c.body.AngularVelocity(), r))

	acc := rl.Vector3Scale(c.force, dt)
	rhs := rl.Vector3Add(cdot, rl.Vector3Scale(displacement, c.linear.beta))
	rhs = rl.Vector3Add(rhs, rl.Vector3Scale(acc, c.linear.gamma))
	impulse := rl.Vector3Negate(physics.MulVec(c.linearMass, rhs))

	old := acc
	acc = physics.ClampLength(rl.Vector3Add(acc, impulse), c.cfg.MaxForce*dt)
	impulse = rl.Vector3Subtract(acc, old)

	c.applyLinear(impulse, r)
	c.force = rl.Vector3Scale(acc, 1/dt)
}

func (c *Constraint) solveAngular(dt float32) {
	errVec := c.rotationError()
	acc := rl.Vector3Scale(c.torque, dt)
	rhs := rl.Vector3Add(c.body.AngularVelocity(), rl.Vector3Scale(errVec, c.angular.beta))
	rhs = rl.Vector3Add(rhs, rl.Vector3Scale(acc, c.angular.gamma))
	impulse := rl.Vector3Negate(physics.MulVec(c.angularMass, rhs))

	old := acc
	acc = physics.ClampLength(rl.Vector3Add(acc, impulse), c.cfg.MaxForce*dt)
	impulse = rl.Vector3Subtract(acc, old)

	c.applyAngular(impulse)
	c.torque = rl.Vector3Scale(acc, 1/dt)
}

// applyLinear applies an impulse at the world-space offset r from the
// centre of mass.
func (c *Constraint) applyLinear(impulse, r rl.Vector3) {
	if impulse == (rl.Vector3{}) {
		return
	}
	dv := rl.Vector3Scale(impulse, c.body.InverseMass())
	dw := physics.MulVec(c.invInertia, rl.Vector3CrossProduct(r, impulse))
	c.body.ApplyVelocityDelta(dv, dw)
}

func (c *Constraint) applyAngular(impulse rl.Vector3) {
	if impulse == (rl.Vector3{}) {
		return
	}
	c.body.ApplyVelocityDelta(rl.Vector3{}, physics.MulVec(c.invInertia, impulse))
}

// refresh recomputes the cached coefficients when any input changed.
func (c *Constraint) refresh(dt float32) {
	invMass := c.body.InverseMass()
	invInertia := c.body.InverseInertia()
	key := coefficientKey{
		damping:    c.cfg.DampingRatio,
		frequency:  c.cfg.Frequency,
		invMass:    invMass,
		invInertia: invInertia,
		dt:         dt,
		anchor:     c.anchor,
	}
	// orientation only matters once something rotates with the body
	if invInertia != (rl.Vector3{}) || c.anchor != (rl.Vector3{}) {
		key.orientation = c.body.Orientation()
	}
	if !c.dirty && key == c.key {
		return
	}
	c.key = key
	c.dirty = false
	c.recomputes++

	var mass float32
	if invMass > 0 {
		mass = 1 / invMass
	}
	c.linear = computeSoftness(c.cfg.Frequency, c.cfg.DampingRatio, mass, dt)
	c.angular = computeSoftness(c.cfg.Frequency, c.cfg.DampingRatio, 1, dt)
	c.invInertia = physics.WorldInverseInertia(c.body.Orientation(), invInertia)

	if c.linear.active {
		s := physics.Skew(c.worldAnchor())
		k := mgl32.Ident3().Mul(invMass + c.linear.gamma).Sub(s.Mul3(c.invInertia).Mul3(s))
		c.linearMass = k.Inv()
	}
	if c.angular.active {
		k := c.invInertia.Add(mgl32.Ident3().Mul(c.angular.gamma))
		c.angularMass = k.Inv()
	}
}

func (c *Constraint) worldAnchor() rl.Vector3 {
	if c.anchor == (rl.Vector3{}) {
		return c.anchor
	}
	return rl.Vector3RotateByQuaternion(c.anchor, c.body.Orientation())
}

func (c *Constraint) rotationError() rl.Vector3 {
	if c.AngularError == EulerWrapped {
		return physics.EulerError(c.body.Orientation(), c.target.Orientation)
	}
	return physics.RotationError(c.body.Orientation(), c.target.Orientation)
}

func (c *Constraint) atTarget() bool {
	if c.target.Drive&DrivePosition != 0 {
		pos := rl.Vector3Add(c.body.Position(), c.worldAnchor())
		if rl.Vector3Length(rl.Vector3Subtract(pos, c.target.Position)) > physics.Epsilon {
			return false
		}
	}
	if c.target.Drive&DriveOrientation != 0 {
		if rl.Vector3Length(c.rotationError()) > physics.Epsilon {
			return false
		}
	}
	return true
}
