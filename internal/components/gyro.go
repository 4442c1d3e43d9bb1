package components

import (
	"errors"

	"motioncore/internal/constraint"
	"motioncore/internal/engine"
	"motioncore/internal/logger"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNoHeading is returned when reading the heading of a gyro that is not
// running in heading mode.
var ErrNoHeading = errors.New("gyro has no heading")

type GyroMode uint8

const (
	// GyroUpright holds the full orientation at Target.
	GyroUpright GyroMode = iota
	// GyroHeading turns the body about Axis only, toward Heading.
	GyroHeading
)

// Gyro keeps a Rigidbody upright or facing a heading.
type Gyro struct {
	engine.BaseComponent
	Name    string
	Mode    GyroMode
	Config  constraint.Config
	Target  rl.Quaternion
	Axis    constraint.Axis
	Heading float32 // radians

	upright *constraint.Constraint
	heading *constraint.Heading
}

func NewGyro(mode GyroMode) *Gyro {
	return &Gyro{
		Name:   "gyro",
		Mode:   mode,
		Config: constraint.DefaultConfig(),
		Target: rl.QuaternionIdentity(),
		Axis:   constraint.AxisY,
	}
}

func (g *Gyro) Start() {
	obj := g.GetGameObject()
	rb := engine.GetComponent[*Rigidbody](obj)
	if rb == nil {
		logger.L().WithField("body", obj.Name).Warn("Gyro needs a Rigidbody")
		return
	}

	switch g.Mode {
	case GyroHeading:
		g.heading = constraint.NewHeading(rb, g.Axis)
		g.heading.Configure(g.Axis, g.Heading, g.Config)
		rb.Joints().Add(g.Name, g.heading)
	default:
		g.upright = constraint.New(rb)
		g.upright.Configure(constraint.OrientationTarget(g.Target), rl.Vector3{}, g.Config)
		rb.Joints().Add(g.Name, g.upright)
	}
}

// SetHeading changes the target heading in radians.
func (g *Gyro) SetHeading(angle float32) {
	g.Heading = angle
	if g.heading != nil {
		g.heading.Angle = angle
	}
}

// SetTarget changes the upright target orientation.
func (g *Gyro) SetTarget(q rl.Quaternion) {
	g.Target = q
	if g.upright != nil {
		g.upright.SetTargetOrientation(q)
	}
}

// Current returns the body's heading about Axis. Upright gyros, and heading
// gyros that have not started, return ErrNoHeading.
func (g *Gyro) Current() (float32, error) {
	if g.heading == nil {
		return 0, ErrNoHeading
	}
	return g.heading.Current()
}
