package components

import (
	"motioncore/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ModelRenderer draws its object as a box of Size. The mesh is generated on
// first draw, so it can be attached before the window exists.
type ModelRenderer struct {
	engine.BaseComponent
	Size   rl.Vector3
	Color  rl.Color
	Wires  bool
	model  rl.Model
	loaded bool
}

func NewModelRenderer(size rl.Vector3, color rl.Color) *ModelRenderer {
	return &ModelRenderer{
		Size:  size,
		Color: color,
	}
}

func (m *ModelRenderer) Draw() {
	m.DrawOffset(rl.Vector3{})
}

// DrawOffset draws the box displaced by offset, for extrapolated rendering.
func (m *ModelRenderer) DrawOffset(offset rl.Vector3) {
	g := m.GetGameObject()
	if g == nil || !g.Active {
		return
	}
	if !m.loaded {
		m.model = rl.LoadModelFromMesh(rl.GenMeshCube(m.Size.X, m.Size.Y, m.Size.Z))
		m.loaded = true
	}

	// Build scale matrix
	scale := g.WorldScale()
	scaleMatrix := rl.MatrixScale(scale.X, scale.Y, scale.Z)

	rotMatrix := rl.QuaternionToMatrix(g.WorldRotation())

	pos := rl.Vector3Add(g.WorldPosition(), offset)
	transMatrix := rl.MatrixTranslate(pos.X, pos.Y, pos.Z)

	// Combine: scale -> rotate -> translate
	m.model.Transform = rl.MatrixMultiply(rl.MatrixMultiply(scaleMatrix, rotMatrix), transMatrix)

	rl.DrawModel(m.model, rl.Vector3Zero(), 1.0, m.Color)
	if m.Wires {
		rl.DrawModelWires(m.model, rl.Vector3Zero(), 1.0, rl.DarkGray)
	}
}

func (m *ModelRenderer) Unload() {
	if m.loaded {
		rl.UnloadModel(m.model)
		m.loaded = false
	}
}
