package engine

type Scene struct {
	Name        string
	GameObjects []*GameObject
	World       WorldAccess
	Clock       *FixedClock
	// Physics runs once per fixed step, after every component's FixedUpdate.
	Physics FixedUpdater
	uidMap  map[uint64]*GameObject
	started bool
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		Clock:       NewFixedClock(DefaultFixedStep, 5),
		uidMap:      make(map[uint64]*GameObject),
	}
}

func (s *Scene) AddGameObject(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*GameObject)
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
	if s.started {
		g.Start()
	}
}

// RemoveGameObject removes g and all of its children from the scene.
func (s *Scene) RemoveGameObject(g *GameObject) {
	for _, child := range g.Children {
		s.RemoveGameObject(child)
	}
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			break
		}
	}
	delete(s.uidMap, g.UID)
	g.Scene = nil
}

func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidMap[uid]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

func (s *Scene) Start() {
	s.started = true
	for _, g := range s.snapshot() {
		g.Start()
	}
}

// Update runs every fixed step that fell due during this frame, then the
// per-frame update.
func (s *Scene) Update(deltaTime float32) {
	objects := s.snapshot()
	steps := s.Clock.Advance(deltaTime)
	for i := 0; i < steps; i++ {
		for _, g := range objects {
			if g.Scene == s {
				g.FixedUpdate(s.Clock.Step)
			}
		}
		if s.Physics != nil {
			s.Physics.FixedUpdate(s.Clock.Step)
		}
	}
	for _, g := range objects {
		if g.Scene == s {
			g.Update(deltaTime)
		}
	}
}

// snapshot lets components add or remove objects mid-update.
func (s *Scene) snapshot() []*GameObject {
	out := make([]*GameObject, len(s.GameObjects))
	copy(out, s.GameObjects)
	return out
}
