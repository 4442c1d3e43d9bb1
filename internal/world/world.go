package world

import (
	"github.com/chewxy/math32"
	"github.com/sirupsen/logrus"

	"motioncore/internal/components"
	"motioncore/internal/config"
	"motioncore/internal/engine"
	"motioncore/internal/logger"
	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RestingSpeed is the impact speed below which a body stops bouncing.
const RestingSpeed = 1.0

// World owns the scene and its static level geometry. It answers sweep and
// ray queries for components and integrates dynamic bodies once per fixed
// step.
type World struct {
	Scene   *engine.Scene
	Statics *physics.StaticBoxes
	Spawn   rl.Vector3

	gravity rl.Vector3
	log     logrus.FieldLogger
}

var _ engine.WorldAccess = (*World)(nil)

func New(cfg *config.Config) *World {
	if cfg == nil {
		cfg = config.Default()
	}
	w := &World{
		Scene:   engine.NewScene("Main"),
		Statics: physics.NewStaticBoxes(),
		gravity: rl.Vector3{Y: -cfg.Simulation.Gravity},
		log:     logger.L().WithField("scene", "Main"),
	}
	w.Scene.Clock = cfg.Clock()
	w.Scene.World = w
	w.Scene.Physics = w
	return w
}

func (w *World) Gravity() rl.Vector3 {
	return w.gravity
}

func (w *World) SetGravity(g rl.Vector3) {
	w.gravity = g
}

func (w *World) SweepCapsule(origin rl.Vector3, orientation rl.Quaternion, size physics.CapsuleSize, direction rl.Vector3, maxDistance float32) (physics.Hit, bool) {
	return w.Statics.SweepCapsule(origin, orientation, size, direction, maxDistance)
}

func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32) (physics.Hit, bool) {
	return w.Statics.Raycast(origin, direction, maxDistance)
}

// AddObject adds g to the scene. Objects with a BoxCollider and no dynamic
// Rigidbody become static geometry; their bounds are captured once, so
// moving them later has no effect on queries.
func (w *World) AddObject(g *engine.GameObject) {
	w.Scene.AddGameObject(g)
	if isStatic(g) {
		col := engine.GetComponent[*components.BoxCollider](g)
		w.Statics.Add(col.BBox())
	}
}

func isStatic(g *engine.GameObject) bool {
	if engine.GetComponent[*components.BoxCollider](g) == nil {
		return false
	}
	rb := engine.GetComponent[*components.Rigidbody](g)
	return rb == nil || rb.IsKinematic
}

// Pick returns the closest dynamic body hit by the ray and the hit point.
func (w *World) Pick(origin, direction rl.Vector3, maxDistance float32) (*engine.GameObject, rl.Vector3, bool) {
	var best *engine.GameObject
	var point rl.Vector3
	closest := math32.Inf(1)
	for _, g := range w.Scene.GameObjects {
		if !g.Active || isStatic(g) {
			continue
		}
		col := engine.GetComponent[*components.BoxCollider](g)
		if col == nil {
			continue
		}
		h, ok := physics.RaycastBox(origin, direction, maxDistance, col.BBox())
		if !ok || h.Distance >= closest {
			continue
		}
		closest = h.Distance
		best = g
		point = h.Point
	}
	return best, point, best != nil
}

// Bodies returns every object with a dynamic Rigidbody.
func (w *World) Bodies() []*engine.GameObject {
	var out []*engine.GameObject
	for _, g := range w.Scene.GameObjects {
		if rb := engine.GetComponent[*components.Rigidbody](g); rb != nil && !rb.IsKinematic {
			out = append(out, g)
		}
	}
	return out
}

// RenderOffset is how far an awake body would have moved through the part
// of a fixed step still waiting in the clock, so drawing can run ahead of
// the simulation without stutter.
func (w *World) RenderOffset(g *engine.GameObject) rl.Vector3 {
	rb := engine.GetComponent[*components.Rigidbody](g)
	if rb == nil || rb.IsKinematic || rb.IsSleeping() {
		return rl.Vector3{}
	}
	clock := w.Scene.Clock
	return rl.Vector3Scale(rb.Velocity, clock.Alpha()*clock.Step)
}

func (w *World) Start() {
	w.Scene.Start()
}

func (w *World) Update(deltaTime float32) {
	w.Scene.Update(deltaTime)
}

// FixedUpdate integrates every awake body and pushes boxes out of the static
// geometry. It runs after the components, so joint impulses from this step
// are already in the velocities.
func (w *World) FixedUpdate(dt float32) {
	for _, g := range w.Scene.GameObjects {
		if !g.Active {
			continue
		}
		rb := engine.GetComponent[*components.Rigidbody](g)
		if rb == nil || rb.IsKinematic || rb.IsSleeping() {
			continue
		}

		// 1. Integrate
		rb.Integrate(dt, w.gravity)

		// 2. Resolve against static boxes
		if col := engine.GetComponent[*components.BoxCollider](g); col != nil {
			w.resolveStatic(g, rb, col)
		}

		// 3. Sleep
		rb.TrySleep(dt)
	}
}

func (w *World) resolveStatic(g *engine.GameObject, rb *components.Rigidbody, col *components.BoxCollider) {
	pushOut := w.Statics.Depenetrate(col.BBox())
	if pushOut == (rl.Vector3{}) {
		return
	}

	// Push fully out (static doesn't move)
	g.Transform.Position = rl.Vector3Add(g.Transform.Position, pushOut)

	pushLen := rl.Vector3Length(pushOut)
	if pushLen < physics.Epsilon {
		return
	}
	normal := rl.Vector3Scale(pushOut, 1/pushLen)

	velAlongNormal := rl.Vector3DotProduct(rb.Velocity, normal)
	if velAlongNormal >= 0 {
		return
	}

	bounce := rb.Bounciness
	if -velAlongNormal < RestingSpeed {
		bounce = 0
	}
	normalVel := rl.Vector3Scale(normal, velAlongNormal)
	tangent := rl.Vector3Subtract(rb.Velocity, normalVel)

	// Reflect with bounciness, friction on the tangential part
	rb.Velocity = rl.Vector3Add(
		rl.Vector3Scale(tangent, 1-physics.Clamp(rb.Friction, 0, 1)),
		rl.Vector3Scale(normalVel, -bounce),
	)
}
