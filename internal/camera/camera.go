package camera

import (
	"github.com/chewxy/math32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FollowCamera orbits a target at a fixed distance, looking along the
// player's yaw and pitch.
type FollowCamera struct {
	Position rl.Vector3
	Target   rl.Vector3
	Distance float32
	Height   float32 // aim point above the target
	// Smoothing is how quickly the camera catches up, per second. Zero snaps.
	Smoothing float32
	Fovy      float32
}

func New(target rl.Vector3) *FollowCamera {
	c := &FollowCamera{
		Target:    target,
		Distance:  6.0,
		Height:    1.0,
		Smoothing: 10.0,
		Fovy:      60,
	}
	c.Position = rl.Vector3Add(target, rl.Vector3{Y: c.Height, Z: -c.Distance})
	return c
}

// Desired returns where the camera wants to be for a target and a view
// direction given as yaw and pitch in degrees.
func (c *FollowCamera) Desired(target rl.Vector3, yaw, pitch float32) rl.Vector3 {
	look := Direction(yaw, pitch)
	aim := rl.Vector3Add(target, rl.Vector3{Y: c.Height})
	return rl.Vector3Subtract(aim, rl.Vector3Scale(look, c.Distance))
}

func (c *FollowCamera) Update(target rl.Vector3, yaw, pitch, deltaTime float32) {
	desired := c.Desired(target, yaw, pitch)
	c.Target = rl.Vector3Add(target, rl.Vector3{Y: c.Height})

	if c.Smoothing <= 0 {
		c.Position = desired
		return
	}
	t := math32.Min(1, c.Smoothing*deltaTime)
	c.Position = rl.Vector3Lerp(c.Position, desired, t)
}

func (c *FollowCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position,
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// Direction is the unit view vector for yaw and pitch in degrees.
func Direction(yaw, pitch float32) rl.Vector3 {
	yawRad := yaw * rl.Deg2rad
	pitchRad := pitch * rl.Deg2rad
	return rl.Vector3{
		X: math32.Cos(yawRad) * math32.Cos(pitchRad),
		Y: math32.Sin(pitchRad),
		Z: math32.Sin(yawRad) * math32.Cos(pitchRad),
	}
}
