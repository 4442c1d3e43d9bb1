package components

import (
	"errors"

	"github.com/sirupsen/logrus"

	"motioncore/internal/constraint"
	"motioncore/internal/engine"
	"motioncore/internal/logger"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNoRigidbody is returned when a joint is attached to an object without a
// Rigidbody.
var ErrNoRigidbody = errors.New("object has no rigidbody")

// TargetJoint pulls its object's Rigidbody toward a target pose, like a
// mouse joint. While attached, its constraint lives in the body's joint
// group under Name.
type TargetJoint struct {
	engine.BaseComponent
	Name         string
	Config       constraint.Config
	Anchor       rl.Vector3 // body space
	AngularError constraint.AngularError
	// Follow, when set, moves the target to that object every frame.
	Follow engine.GameObjectRef

	// OnBreak fires with the body speed when the joint breaks.
	OnBreak engine.EventWithArg[float32]

	body  *Rigidbody
	joint *constraint.Constraint
}

func NewTargetJoint(name string) *TargetJoint {
	return &TargetJoint{Name: name, Config: constraint.DefaultConfig()}
}

// Attach starts pulling toward target. Attaching again replaces the
// current target and keeps the warm-start memory.
func (j *TargetJoint) Attach(target constraint.Target) error {
	g := j.GetGameObject()
	if g == nil {
		return ErrNoRigidbody
	}
	rb := engine.GetComponent[*Rigidbody](g)
	if rb == nil {
		return ErrNoRigidbody
	}

	if j.joint != nil && j.body == rb {
		j.joint.Configure(target, j.Anchor, j.Config)
		return nil
	}
	j.Release()

	c := constraint.New(rb)
	c.AngularError = j.AngularError
	c.Configure(target, j.Anchor, j.Config)
	c.OnBreak.AddListener(func(speed float32) {
		j.log().WithField("speed", speed).Warn("Joint broke")
		j.joint = nil
		j.body = nil
		j.OnBreak.Invoke(speed)
	})
	rb.Joints().Add(j.Name, c)

	j.body = rb
	j.joint = c
	j.log().WithFields(logrus.Fields{
		"target": target.Position,
		"anchor": j.Anchor,
	}).Info("Joint attached")
	return nil
}

// Release detaches the joint. It is a no-op when not attached.
func (j *TargetJoint) Release() {
	if j.joint == nil {
		return
	}
	j.body.Joints().Remove(j.Name)
	j.joint = nil
	j.body = nil
	j.log().Info("Joint released")
}

func (j *TargetJoint) Attached() bool {
	return j.joint != nil
}

// Constraint returns the live constraint, or nil when detached.
func (j *TargetJoint) Constraint() *constraint.Constraint {
	return j.joint
}

func (j *TargetJoint) SetTargetPosition(p rl.Vector3) {
	if j.joint != nil {
		j.joint.SetTargetPosition(p)
	}
}

func (j *TargetJoint) SetTargetOrientation(q rl.Quaternion) {
	if j.joint != nil {
		j.joint.SetTargetOrientation(q)
	}
}

// SetConfig retunes the joint. It takes effect on the next step.
func (j *TargetJoint) SetConfig(cfg constraint.Config) {
	j.Config = cfg
	if j.joint != nil {
		j.joint.SetConfig(cfg)
	}
}

func (j *TargetJoint) Update(deltaTime float32) {
	if j.joint == nil || !j.Follow.IsValid() {
		return
	}
	g := j.GetGameObject()
	if g == nil || g.Scene == nil {
		return
	}
	if target := j.Follow.Get(g.Scene); target != nil {
		j.joint.SetTargetPosition(target.WorldPosition())
	}
}

func (j *TargetJoint) log() logrus.FieldLogger {
	name := ""
	if g := j.GetGameObject(); g != nil {
		name = g.Name
	}
	return logger.L().WithFields(logrus.Fields{"joint": j.Name, "body": name})
}
