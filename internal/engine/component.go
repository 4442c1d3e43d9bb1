package engine

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// FixedUpdater is implemented by components that must run on the fixed
// simulation step. The step duration is constant for the lifetime of a scene.
type FixedUpdater interface {
	FixedUpdate(fixedDelta float32)
}

// Activatable is implemented by components that keep per-activation state.
// OnEnable runs whenever the owning GameObject goes from inactive to active.
type Activatable interface {
	OnEnable()
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
