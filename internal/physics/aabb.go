package physics

import (
	"github.com/ethaniccc/float32-cube/cube"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Resolve returns the minimum translation vector to push a out of b.
// Returns zero vector if no overlap.
func Resolve(a, b cube.BBox) rl.Vector3 {
	if !a.IntersectsWith(b) {
		return rl.Vector3Zero()
	}
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()

	// Penetration depth in each direction
	dx1 := bMax.X() - aMin.X() // push a in +X
	dx2 := aMax.X() - bMin.X() // push a in -X
	dy1 := bMax.Y() - aMin.Y() // push a in +Y
	dy2 := aMax.Y() - bMin.Y() // push a in -Y
	dz1 := bMax.Z() - aMin.Z() // push a in +Z
	dz2 := aMax.Z() - bMin.Z() // push a in -Z

	min := dx1
	result := rl.Vector3{X: dx1}
	if dx2 < min {
		min = dx2
		result = rl.Vector3{X: -dx2}
	}
	if dy1 < min {
		min = dy1
		result = rl.Vector3{Y: dy1}
	}
	if dy2 < min {
		min = dy2
		result = rl.Vector3{Y: -dy2}
	}
	if dz1 < min {
		min = dz1
		result = rl.Vector3{Z: dz1}
	}
	if dz2 < min {
		result = rl.Vector3{Z: -dz2}
	}
	return result
}

// Depenetrate returns the translation that moves box out of every static
// box it overlaps, resolving them one at a time in insertion order.
func (s *StaticBoxes) Depenetrate(box cube.BBox) rl.Vector3 {
	total := rl.Vector3Zero()
	for _, b := range s.boxes {
		push := Resolve(box, b)
		if push == (rl.Vector3{}) {
			continue
		}
		box = box.Translate(Vec(push))
		total = rl.Vector3Add(total, push)
	}
	return total
}
