package engine

// GameObjectRef refers to a GameObject by UID so it can be stored in level
// files and survive the target being removed from the scene.
type GameObjectRef struct {
	UID uint64 // 0 = none
}

// Ref returns a reference to g. A nil g yields an empty reference.
func Ref(g *GameObject) GameObjectRef {
	if g == nil {
		return GameObjectRef{}
	}
	return GameObjectRef{UID: g.UID}
}

// Get resolves the reference. It returns nil for an empty reference, a nil
// scene, or a target that has left the scene.
func (r GameObjectRef) Get(scene *Scene) *GameObject {
	if r.UID == 0 || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

// IsValid reports whether the reference points at something. It does not
// check that the target still exists.
func (r GameObjectRef) IsValid() bool {
	return r.UID != 0
}

func (r *GameObjectRef) Set(g *GameObject) {
	*r = Ref(g)
}

func (r *GameObjectRef) Clear() {
	r.UID = 0
}
