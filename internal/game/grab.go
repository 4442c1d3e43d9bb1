package game

import (
	"motioncore/internal/components"
	"motioncore/internal/constraint"
	"motioncore/internal/engine"
	"motioncore/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const grabReach = 100.0

type grabState struct {
	object   *engine.GameObject
	joint    *components.TargetJoint
	distance float32
}

func (g *Game) updateGrab(ray rl.Ray) {
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		g.beginGrab(ray)
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		g.dragTo(ray)
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		g.endGrab()
	}
}

// beginGrab attaches the picked body's grab joint at the hit point. Returns
// false when the ray hits nothing grabbable.
func (g *Game) beginGrab(ray rl.Ray) bool {
	g.endGrab()

	obj, point, ok := g.World.Pick(ray.Position, ray.Direction, grabReach)
	if !ok {
		return false
	}
	joint := findGrabJoint(obj)
	if joint == nil {
		return false
	}

	// Anchor in body space, so the body hangs from where it was clicked
	local := rl.Vector3Subtract(point, obj.Transform.Position)
	joint.Anchor = rl.Vector3RotateByQuaternion(local, rl.QuaternionInvert(obj.Transform.Rotation))
	joint.SetConfig(g.panel.JointConfig())
	if err := joint.Attach(constraint.PositionTarget(point)); err != nil {
		g.log.WithError(err).Warn("Grab failed")
		return false
	}

	g.grab = grabState{
		object:   obj,
		joint:    joint,
		distance: rl.Vector3Distance(ray.Position, point),
	}
	return true
}

// dragTo moves the grab target along the ray, keeping the grab distance.
func (g *Game) dragTo(ray rl.Ray) {
	if g.grab.joint == nil {
		return
	}
	if !g.grab.joint.Attached() {
		// broke under load
		g.grab = grabState{}
		return
	}
	dir := rl.Vector3Normalize(ray.Direction)
	g.grab.joint.SetTargetPosition(rl.Vector3Add(ray.Position, rl.Vector3Scale(dir, g.grab.distance)))
}

func (g *Game) endGrab() {
	if g.grab.joint != nil {
		g.grab.joint.Release()
	}
	g.grab = grabState{}
}

func (g *Game) drawGrab() {
	if g.grab.joint == nil || !g.grab.joint.Attached() {
		return
	}
	c := g.grab.joint.Constraint()
	anchor := rl.Vector3Add(g.grab.object.Transform.Position,
		rl.Vector3RotateByQuaternion(c.Anchor(), g.grab.object.Transform.Rotation))
	target := c.Target().Position
	rl.DrawLine3D(anchor, target, rl.Yellow)
	rl.DrawSphere(target, 0.08, rl.Yellow)
}

func findGrabJoint(obj *engine.GameObject) *components.TargetJoint {
	for _, j := range engine.GetComponents[*components.TargetJoint](obj) {
		if j.Name == world.GrabJoint {
			return j
		}
	}
	return nil
}
