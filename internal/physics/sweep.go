package physics

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// StaticBoxes is a set of immovable axis-aligned boxes that answers sweep
// queries. Capsules are swept as their bounding box.
type StaticBoxes struct {
	boxes []cube.BBox
}

func NewStaticBoxes(boxes ...cube.BBox) *StaticBoxes {
	return &StaticBoxes{boxes: append([]cube.BBox(nil), boxes...)}
}

func (s *StaticBoxes) Add(b cube.BBox) {
	s.boxes = append(s.boxes, b)
}

// AddCentered adds a box from a center point and full size dimensions.
func (s *StaticBoxes) AddCentered(center, size rl.Vector3) cube.BBox {
	half := rl.Vector3Scale(size, 0.5)
	min := rl.Vector3Subtract(center, half)
	max := rl.Vector3Add(center, half)
	b := cube.Box(min.X, min.Y, min.Z, max.X, max.Y, max.Z)
	s.Add(b)
	return b
}

func (s *StaticBoxes) Boxes() []cube.BBox { return s.boxes }
func (s *StaticBoxes) Len() int           { return len(s.boxes) }

// CapsuleExtents returns the half size of the box that bounds a capsule with
// the given orientation.
func CapsuleExtents(orientation rl.Quaternion, size CapsuleSize) mgl32.Vec3 {
	seg := rl.Vector3RotateByQuaternion(rl.Vector3{Y: size.HalfHeight() - size.Radius}, orientation)
	return mgl32.Vec3{
		math32.Abs(seg.X) + size.Radius,
		math32.Abs(seg.Y) + size.Radius,
		math32.Abs(seg.Z) + size.Radius,
	}
}

// SweepCapsule implements ShapeQuery.
func (s *StaticBoxes) SweepCapsule(origin rl.Vector3, orientation rl.Quaternion, size CapsuleSize, direction rl.Vector3, maxDistance float32) (Hit, bool) {
	return s.sweep(Vec(origin), CapsuleExtents(orientation, size), direction, maxDistance)
}

// Raycast returns the closest box surface along a ray.
func (s *StaticBoxes) Raycast(origin, direction rl.Vector3, maxDistance float32) (Hit, bool) {
	return s.sweep(Vec(origin), mgl32.Vec3{}, direction, maxDistance)
}

// RaycastBox casts a ray against a single box. A ray starting inside b hits
// at distance 0.
func RaycastBox(origin, direction rl.Vector3, maxDistance float32, b cube.BBox) (Hit, bool) {
	if rl.Vector3Length(direction) < 1e-6 || maxDistance < 0 {
		return Hit{}, false
	}
	return sweepBox(Vec(origin), mgl32.Vec3{}, Vec(rl.Vector3Normalize(direction)), maxDistance, b)
}

func (s *StaticBoxes) sweep(origin, half mgl32.Vec3, direction rl.Vector3, maxDistance float32) (Hit, bool) {
	if rl.Vector3Length(direction) < 1e-6 || maxDistance < 0 {
		return Hit{}, false
	}
	dir := Vec(rl.Vector3Normalize(direction))

	// Broad phase: everything touching the swept bounds.
	start := cube.Box(
		origin.X()-half.X(), origin.Y()-half.Y(), origin.Z()-half.Z(),
		origin.X()+half.X(), origin.Y()+half.Y(), origin.Z()+half.Z(),
	)
	swept := start.Extend(dir.Mul(maxDistance)).Grow(Epsilon)

	var best Hit
	found := false
	for _, b := range s.boxes {
		if !swept.IntersectsWith(b) {
			continue
		}
		h, ok := sweepBox(origin, half, dir, maxDistance, b)
		if !ok {
			continue
		}
		if !found || h.Distance < best.Distance ||
			(h.Distance == best.Distance && h.Penetration > best.Penetration) {
			best = h
			found = true
		}
	}
	return best, found
}

// sweepBox casts a ray from origin against b expanded by half on every axis
// (slab method). An origin already inside the expanded box is an overlap:
// the hit reports distance 0 and the smallest push-out.
func sweepBox(origin, half, dir mgl32.Vec3, maxDistance float32, b cube.BBox) (Hit, bool) {
	min := b.Min().Sub(half)
	max := b.Max().Add(half)

	tNear := math32.Inf(-1)
	tFar := math32.Inf(1)
	axis := -1
	for i := 0; i < 3; i++ {
		if math32.Abs(dir[i]) < 1e-8 {
			if origin[i] < min[i] || origin[i] > max[i] {
				return Hit{}, false
			}
			continue
		}
		t1 := (min[i] - origin[i]) / dir[i]
		t2 := (max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
			axis = i
		}
		if t2 < tFar {
			tFar = t2
		}
	}
	if tNear > tFar || tFar <= 1e-6 || tNear > maxDistance {
		return Hit{}, false
	}

	if tNear < -1e-6 || axis < 0 {
		h := overlapHit(origin, half, min, max)
		// touching faces are not an overlap
		return h, h.Penetration > 1e-6
	}

	t := math32.Max(tNear, 0)
	var n mgl32.Vec3
	if dir[axis] > 0 {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	center := origin.Add(dir.Mul(t))
	return Hit{
		Distance: t,
		Point:    FromVec(center.Sub(n.Mul(half[axis]))),
		Normal:   FromVec(n),
	}, true
}

func overlapHit(origin, half, min, max mgl32.Vec3) Hit {
	// Penetration depth in each direction
	depth := math32.Inf(1)
	var n mgl32.Vec3
	for i := 0; i < 3; i++ {
		if d := max[i] - origin[i]; d < depth {
			depth = d
			n = mgl32.Vec3{}
			n[i] = 1
		}
		if d := origin[i] - min[i]; d < depth {
			depth = d
			n = mgl32.Vec3{}
			n[i] = -1
		}
	}
	axis := 0
	for i := 0; i < 3; i++ {
		if n[i] != 0 {
			axis = i
		}
	}
	return Hit{
		Distance:    0,
		Point:       FromVec(origin.Sub(n.Mul(half[axis]))),
		Normal:      FromVec(n),
		Penetration: depth,
	}
}
