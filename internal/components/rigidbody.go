package components

import (
	"github.com/chewxy/math32"
	"github.com/sirupsen/logrus"

	"motioncore/internal/constraint"
	"motioncore/internal/engine"
	"motioncore/internal/logger"
	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.3  // units/sec - below this, object might sleep
	SleepAngularThreshold  = 0.05 // rad/sec
	SleepTimeThreshold     = 0.3  // seconds of low velocity before sleeping
)

// Rigidbody is a dynamic body that constraints can pull on. It implements
// physics.Body.
type Rigidbody struct {
	engine.BaseComponent
	Velocity rl.Vector3
	Spin     rl.Vector3 // angular velocity, radians per second, world space
	Mass     float32    // zero or negative means immovable
	// Inertia holds the principal moments of inertia in body space. A zero
	// component locks rotation about that axis.
	Inertia        rl.Vector3
	Bounciness     float32 // 0 = no bounce, 1 = perfect bounce
	Friction       float32 // 0 = ice, 1 = stops immediately
	LinearDamping  float32 // fraction of velocity kept per 1/60 s
	AngularDamping float32
	UseGravity     bool
	IsKinematic    bool // moves but doesn't get pushed by physics
	CanSleep       bool

	// Sleep state - sleeping objects skip physics simulation
	sleeping   bool
	sleepTimer float32

	joints *constraint.Group
	log    logrus.FieldLogger
}

var _ physics.Body = (*Rigidbody)(nil)

func NewRigidbody() *Rigidbody {
	rb := &Rigidbody{
		Mass:           1.0,
		Bounciness:     0.5,
		Friction:       0.1,
		LinearDamping:  1,
		AngularDamping: 0.98, // slight damping each frame
		UseGravity:     true,
		CanSleep:       true,
		joints:         constraint.NewGroup(),
	}
	rb.SetBoxInertia(rl.Vector3{X: 1, Y: 1, Z: 1})
	return rb
}

// SetBoxInertia sets the inertia of a solid box of the given size and the
// current mass.
func (r *Rigidbody) SetBoxInertia(size rl.Vector3) {
	k := r.Mass / 12
	x2, y2, z2 := size.X*size.X, size.Y*size.Y, size.Z*size.Z
	r.Inertia = rl.Vector3{X: k * (y2 + z2), Y: k * (x2 + z2), Z: k * (x2 + y2)}
}

// Joints returns the constraints acting on this body, stepped in insertion
// order every fixed step.
func (r *Rigidbody) Joints() *constraint.Group {
	if r.joints == nil {
		r.joints = constraint.NewGroup()
	}
	return r.joints
}

func (r *Rigidbody) Start() {
	if r.log == nil {
		r.log = logger.L().WithField("body", r.name())
	}
}

func (r *Rigidbody) FixedUpdate(fixedDelta float32) {
	if r.joints == nil || r.joints.Len() == 0 {
		return
	}
	removed, err := r.joints.Step(fixedDelta)
	if err != nil {
		r.logger().WithError(err).Error("Joint step failed")
	}
	for _, name := range removed {
		r.logger().WithField("joint", name).Info("Joint removed after breaking")
	}
}

// physics.Body

func (r *Rigidbody) Position() rl.Vector3 {
	if g := r.GetGameObject(); g != nil {
		return g.Transform.Position
	}
	return rl.Vector3{}
}

func (r *Rigidbody) Orientation() rl.Quaternion {
	if g := r.GetGameObject(); g != nil {
		return g.Transform.Rotation
	}
	return rl.QuaternionIdentity()
}

func (r *Rigidbody) LinearVelocity() rl.Vector3  { return r.Velocity }
func (r *Rigidbody) AngularVelocity() rl.Vector3 { return r.Spin }
func (r *Rigidbody) IsSleeping() bool            { return r.sleeping }

func (r *Rigidbody) InverseMass() float32 {
	if r.IsKinematic || r.Mass <= 0 {
		return 0
	}
	return 1 / r.Mass
}

func (r *Rigidbody) InverseInertia() rl.Vector3 {
	if r.IsKinematic || r.Mass <= 0 {
		return rl.Vector3{}
	}
	return rl.Vector3{X: inverse(r.Inertia.X), Y: inverse(r.Inertia.Y), Z: inverse(r.Inertia.Z)}
}

// ApplyVelocityDelta adds to the velocities and wakes the body.
func (r *Rigidbody) ApplyVelocityDelta(linear, angular rl.Vector3) {
	if r.IsKinematic {
		return
	}
	if linear == (rl.Vector3{}) && angular == (rl.Vector3{}) {
		return
	}
	r.Velocity = rl.Vector3Add(r.Velocity, linear)
	r.Spin = rl.Vector3Add(r.Spin, angular)
	r.Wake()
}

// Integrate advances the body by one fixed step with semi-implicit Euler.
func (r *Rigidbody) Integrate(dt float32, gravity rl.Vector3) {
	g := r.GetGameObject()
	if g == nil || r.IsKinematic || r.sleeping {
		return
	}

	// 1. Apply forces
	if r.UseGravity && r.Mass > 0 {
		r.Velocity = rl.Vector3Add(r.Velocity, rl.Vector3Scale(gravity, dt))
	}

	// 2. Damping, framerate independent
	r.Velocity = rl.Vector3Scale(r.Velocity, damping(r.LinearDamping, dt))
	r.Spin = rl.Vector3Scale(r.Spin, damping(r.AngularDamping, dt))

	// 3. Integrate
	g.Transform.Position = rl.Vector3Add(g.Transform.Position, rl.Vector3Scale(r.Velocity, dt))
	if speed := rl.Vector3Length(r.Spin); speed > 0 {
		axis := rl.Vector3Scale(r.Spin, 1/speed)
		dq := rl.QuaternionFromAxisAngle(axis, speed*dt)
		g.Transform.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(dq, g.Transform.Rotation))
	}
}

// Wake forces the rigidbody out of sleep state
func (r *Rigidbody) Wake() {
	r.sleeping = false
	r.sleepTimer = 0
}

// TrySleep checks if the rigidbody should go to sleep based on velocity
func (r *Rigidbody) TrySleep(deltaTime float32) {
	if !r.CanSleep || r.sleeping {
		return
	}

	speed := rl.Vector3Length(r.Velocity)
	angSpeed := rl.Vector3Length(r.Spin)

	if speed < SleepVelocityThreshold && angSpeed < SleepAngularThreshold {
		r.sleepTimer += deltaTime

		// Apply extra damping when nearly at rest to reduce jitter
		dampFactor := float32(0.9)
		r.Velocity = rl.Vector3Scale(r.Velocity, dampFactor)
		r.Spin = rl.Vector3Scale(r.Spin, dampFactor)

		if r.sleepTimer >= SleepTimeThreshold {
			r.sleeping = true
			r.Velocity = rl.Vector3{}
			r.Spin = rl.Vector3{}
		}
	} else {
		r.sleepTimer = 0
	}
}

func (r *Rigidbody) logger() logrus.FieldLogger {
	if r.log == nil {
		r.log = logger.L().WithField("body", r.name())
	}
	return r.log
}

func (r *Rigidbody) name() string {
	if g := r.GetGameObject(); g != nil {
		return g.Name
	}
	return ""
}

func inverse(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return 1 / v
}

// damping converts a per-1/60s keep factor into one for dt.
func damping(keep, dt float32) float32 {
	if keep >= 1 {
		return 1
	}
	if keep <= 0 {
		return 0
	}
	return math32.Pow(keep, dt*60)
}
