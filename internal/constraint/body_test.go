package constraint

import (
	"github.com/chewxy/math32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// fakeBody is a minimal rigid body that integrates with semi-implicit Euler.
type fakeBody struct {
	pos        rl.Vector3
	rot        rl.Quaternion
	vel        rl.Vector3
	angVel     rl.Vector3
	invMass    float32
	invInertia rl.Vector3
	sleeping   bool
	deltas     int
}

func newPointMass(mass float32) *fakeBody {
	return &fakeBody{rot: rl.QuaternionIdentity(), invMass: 1 / mass}
}

func newSolidBody(mass float32) *fakeBody {
	b := newPointMass(mass)
	b.invInertia = rl.Vector3{X: 1, Y: 1, Z: 1}
	return b
}

func (b *fakeBody) Position() rl.Vector3        { return b.pos }
func (b *fakeBody) Orientation() rl.Quaternion  { return b.rot }
func (b *fakeBody) LinearVelocity() rl.Vector3  { return b.vel }
func (b *fakeBody) AngularVelocity() rl.Vector3 { return b.angVel }
func (b *fakeBody) InverseMass() float32        { return b.invMass }
func (b *fakeBody) InverseInertia() rl.Vector3  { return b.invInertia }
func (b *fakeBody) IsSleeping() bool            { return b.sleeping }

func (b *fakeBody) ApplyVelocityDelta(linear, angular rl.Vector3) {
	b.deltas++
	b.vel = rl.Vector3Add(b.vel, linear)
	b.angVel = rl.Vector3Add(b.angVel, angular)
}

func (b *fakeBody) integrate(dt float32) {
	b.pos = rl.Vector3Add(b.pos, rl.Vector3Scale(b.vel, dt))
	speed := rl.Vector3Length(b.angVel)
	if speed > 0 {
		dq := rl.QuaternionFromAxisAngle(rl.Vector3Scale(b.angVel, 1/speed), speed*dt)
		b.rot = rl.QuaternionNormalize(rl.QuaternionMultiply(dq, b.rot))
	}
}

func near(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

func vec(x, y, z float32) rl.Vector3 {
	return rl.Vector3{X: x, Y: y, Z: z}
}
