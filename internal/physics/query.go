package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// CapsuleSize describes an upright capsule. Height is the full height,
// including both hemispherical caps.
type CapsuleSize struct {
	Radius float32
	Height float32
}

// HalfHeight returns half of the capsule's full height.
func (c CapsuleSize) HalfHeight() float32 {
	return c.Height / 2
}

// Hit is the result of a sweep query.
type Hit struct {
	Distance float32
	Point    rl.Vector3
	Normal   rl.Vector3
	// Penetration is how deep the shape already overlapped the collider
	// when the sweep started. Only set when Distance is 0.
	Penetration float32
}

// Overlapping reports whether the sweep started inside a collider.
func (h Hit) Overlapping() bool {
	return h.Distance <= 0 && h.Penetration > 0
}

// ShapeQuery sweeps shapes against the environment.
type ShapeQuery interface {
	// SweepCapsule casts a capsule centred at origin along a normalized
	// direction and returns the closest hit within maxDistance.
	SweepCapsule(origin rl.Vector3, orientation rl.Quaternion, size CapsuleSize, direction rl.Vector3, maxDistance float32) (Hit, bool)
}
