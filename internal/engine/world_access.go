package engine

import (
	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// WorldAccess provides components with access to world-level queries
// without creating circular import dependencies.
type WorldAccess interface {
	physics.ShapeQuery
	Gravity() rl.Vector3
	Raycast(origin, direction rl.Vector3, maxDistance float32) (physics.Hit, bool)
}
