package mover

import (
	"github.com/sirupsen/logrus"

	"motioncore/internal/engine"
	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// MoveResult is what a single Move resolved to.
type MoveResult struct {
	Flags    CollisionFlags
	Velocity rl.Vector3
	Delta    rl.Vector3
}

// ControllerHit describes a surface the capsule ran into while moving.
type ControllerHit struct {
	Point         rl.Vector3
	Normal        rl.Vector3
	MoveDirection rl.Vector3
	MoveLength    float32
}

// Mover moves a kinematic capsule through a world of colliders. It is
// similar to Unity's CharacterController.Move: horizontal first, then a
// step-up attempt, then vertical.
type Mover struct {
	Shape Capsule
	Up    rl.Vector3
	// OverlapRecovery pushes the capsule out when a sweep starts inside a
	// collider instead of refusing to move.
	OverlapRecovery bool

	// OnHit fires for every blocking surface, vertical first.
	OnHit engine.EventWithArg[ControllerHit]

	query       physics.ShapeQuery
	position    rl.Vector3
	orientation rl.Quaternion
	flags       CollisionFlags
	velocity    rl.Vector3
	log         logrus.FieldLogger
}

// New creates a mover at the origin. A nil query moves without collision.
func New(query physics.ShapeQuery, shape Capsule) *Mover {
	return &Mover{
		Shape:           shape.Normalize(),
		Up:              physics.Up,
		OverlapRecovery: true,
		query:           query,
		orientation:     rl.QuaternionIdentity(),
		log:             logrus.StandardLogger(),
	}
}

func (m *Mover) Position() rl.Vector3       { return m.position }
func (m *Mover) Orientation() rl.Quaternion { return m.orientation }
func (m *Mover) Flags() CollisionFlags      { return m.flags }
func (m *Mover) Velocity() rl.Vector3       { return m.velocity }
func (m *Mover) IsGrounded() bool           { return m.flags&Below != 0 }

func (m *Mover) SetPosition(p rl.Vector3)       { m.position = p }
func (m *Mover) SetOrientation(q rl.Quaternion) { m.orientation = q }

func (m *Mover) SetQuery(q physics.ShapeQuery) {
	m.query = q
}

func (m *Mover) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	m.log = l
}

type sweepResult struct {
	delta   rl.Vector3
	blocked bool
	hit     ControllerHit
}

// Move resolves delta against the world, updates the position and returns
// the movement actually applied.
func (m *Mover) Move(delta rl.Vector3, dt float32) MoveResult {
	up := m.up()
	vertical := rl.Vector3Scale(up, rl.Vector3DotProduct(delta, up))
	horizontal := rl.Vector3Subtract(delta, vertical)

	start := m.position
	pos := start
	var flags CollisionFlags
	var hits []ControllerHit

	// 1. Horizontal
	h := m.sweep(pos, horizontal)
	pos = rl.Vector3Add(pos, h.delta)

	stepped := false
	if h.blocked {
		flags |= Sides

		// 2. Step up
		if rl.Vector3DotProduct(delta, up) <= 0 && rl.Vector3Length(horizontal) > m.Shape.MinMoveDistance {
			remaining := physics.Horizontal(rl.Vector3Subtract(horizontal, h.delta), up)
			if p, hit, ok := m.step(pos, remaining, up); ok {
				pos = p
				flags = flags&^Sides | Below
				hits = append(hits, hit)
				stepped = true
			}
		}
	}

	// 3. Vertical
	if !stepped {
		v := m.sweep(pos, vertical)
		pos = rl.Vector3Add(pos, v.delta)
		if v.blocked {
			if rl.Vector3DotProduct(vertical, up) < 0 {
				flags |= Below
			} else {
				flags |= Above
			}
			hits = append(hits, v.hit)
		}
	}
	if h.blocked && !stepped {
		hits = append(hits, h.hit)
	}

	// 4. Apply
	m.position = pos
	m.flags = flags
	res := MoveResult{Flags: flags, Delta: rl.Vector3Subtract(pos, start)}
	if dt > 0 {
		res.Velocity = rl.Vector3Scale(res.Delta, 1/dt)
	}
	m.velocity = res.Velocity

	for _, hit := range hits {
		m.OnHit.Invoke(hit)
	}
	return res
}

// step tries to climb onto whatever blocked the horizontal move: up by at
// most StepOffset, forward by the rest of the motion, then back down onto a
// walkable surface.
func (m *Mover) step(pos, remaining, up rl.Vector3) (rl.Vector3, ControllerHit, bool) {
	if m.Shape.StepOffset <= 0 {
		return pos, ControllerHit{}, false
	}

	rise := m.sweep(pos, rl.Vector3Scale(up, m.Shape.StepOffset))
	height := rl.Vector3DotProduct(rise.delta, up)
	if height <= 0 {
		return pos, ControllerHit{}, false
	}
	p := rl.Vector3Add(pos, rise.delta)

	fwd := m.sweep(p, remaining)
	if fwd.blocked {
		return pos, ControllerHit{}, false
	}
	p = rl.Vector3Add(p, fwd.delta)

	down := m.sweep(p, rl.Vector3Scale(up, -(height+m.Shape.ContactOffset)))
	if !down.blocked {
		return pos, ControllerHit{}, false
	}
	if physics.AngleBetween(down.hit.Normal, up) > m.Shape.SlopeLimit {
		return pos, ControllerHit{}, false
	}
	p = rl.Vector3Add(p, down.delta)
	if rl.Vector3DotProduct(rl.Vector3Subtract(p, pos), up) <= 0 {
		return pos, ControllerHit{}, false
	}
	return p, down.hit, true
}

// sweep moves the capsule from origin by motion and stops SkinWidth short of
// the first opposing surface.
func (m *Mover) sweep(origin, motion rl.Vector3) sweepResult {
	dist := rl.Vector3Length(motion)
	if dist == 0 || dist < m.Shape.MinMoveDistance {
		return sweepResult{}
	}
	if m.query == nil {
		return sweepResult{delta: motion}
	}

	dir := rl.Vector3Scale(motion, 1/dist)
	hit, ok := m.query.SweepCapsule(origin, m.orientation, m.Shape.Size(), dir, dist+m.Shape.SkinWidth)
	if !ok || rl.Vector3DotProduct(hit.Normal, dir) >= 0 {
		return sweepResult{delta: motion}
	}
	ch := ControllerHit{Point: hit.Point, Normal: hit.Normal, MoveDirection: dir, MoveLength: dist}

	if hit.Overlapping() {
		if !m.OverlapRecovery {
			return sweepResult{blocked: true, hit: ch}
		}
		// Push out along the normal and keep the part of the motion that
		// slides along it.
		push := rl.Vector3Scale(hit.Normal, hit.Penetration+m.Shape.SkinWidth)
		into := rl.Vector3DotProduct(motion, hit.Normal)
		slide := rl.Vector3Subtract(motion, rl.Vector3Scale(hit.Normal, into))
		m.log.WithFields(logrus.Fields{
			"penetration": hit.Penetration,
			"normal":      hit.Normal,
		}).Debug("Recovering from overlap")
		return sweepResult{delta: rl.Vector3Add(push, slide), blocked: true, hit: ch}
	}

	allowed := hit.Distance - m.Shape.SkinWidth
	if allowed < 0 {
		allowed = 0
	}
	if allowed+1e-5 >= dist {
		return sweepResult{delta: motion}
	}
	return sweepResult{delta: rl.Vector3Scale(dir, allowed), blocked: true, hit: ch}
}

func (m *Mover) up() rl.Vector3 {
	if rl.Vector3Length(m.Up) < physics.Epsilon {
		return physics.Up
	}
	return rl.Vector3Normalize(m.Up)
}
