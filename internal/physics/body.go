package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Body is the rigid-body capability consumed by the constraint solver.
// The physics backend owns the body; callers only read its state and
// push velocity changes through ApplyVelocityDelta.
type Body interface {
	Position() rl.Vector3
	Orientation() rl.Quaternion
	LinearVelocity() rl.Vector3
	// AngularVelocity is in radians per second, world space.
	AngularVelocity() rl.Vector3
	ApplyVelocityDelta(linear, angular rl.Vector3)
	// InverseMass is 0 for bodies that cannot be pushed.
	InverseMass() float32
	// InverseInertia is per principal axis, in body space. A zero axis
	// cannot be rotated by impulses.
	InverseInertia() rl.Vector3
	IsSleeping() bool
}
