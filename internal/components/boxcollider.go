package components

import (
	"github.com/ethaniccc/float32-cube/cube"

	"motioncore/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BoxCollider is an axis-aligned box. Objects with a BoxCollider and no
// dynamic Rigidbody are static level geometry.
type BoxCollider struct {
	engine.BaseComponent
	Size   rl.Vector3
	Offset rl.Vector3
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		Size:   size,
		Offset: rl.Vector3{},
	}
}

func (b *BoxCollider) GetCenter() rl.Vector3 {
	g := b.GetGameObject()
	if g == nil {
		return b.Offset
	}
	return rl.Vector3Add(g.WorldPosition(), b.Offset)
}

// GetWorldSize returns the size scaled by the object's world scale, with
// negative scales folded to positive.
func (b *BoxCollider) GetWorldSize() rl.Vector3 {
	size := b.Size
	if g := b.GetGameObject(); g != nil {
		size = rl.Vector3Multiply(size, g.WorldScale())
	}
	return rl.Vector3{X: abs(size.X), Y: abs(size.Y), Z: abs(size.Z)}
}

// BBox returns the collider's bounds in world space.
func (b *BoxCollider) BBox() cube.BBox {
	c := b.GetCenter()
	h := rl.Vector3Scale(b.GetWorldSize(), 0.5)
	return cube.Box(c.X-h.X, c.Y-h.Y, c.Z-h.Z, c.X+h.X, c.Y+h.Y, c.Z+h.Z)
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
