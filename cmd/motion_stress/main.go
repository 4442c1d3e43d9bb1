// Stress test timing the constraint solver and the character mover headless
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"motioncore/internal/components"
	"motioncore/internal/config"
	"motioncore/internal/constraint"
	"motioncore/internal/engine"
	"motioncore/internal/logger"
	"motioncore/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const arena = float32(40)

func main() {
	steps := flag.Int("steps", 600, "fixed steps per run")
	flag.Parse()

	cfg := config.Default()
	cfg.Logging.Level = "warn"
	logger.Init(cfg.Logging)

	// Test various counts
	testCounts := []int{10, 50, 100, 500, 1000, 2000}

	for _, count := range testCounts {
		run(cfg, count, *steps)
	}
}

func run(cfg *config.Config, count, steps int) {
	rng := rand.New(rand.NewSource(42)) // Consistent results
	w := world.New(cfg)
	buildArena(w, rng)

	joints := make([]*components.TargetJoint, 0, count)
	for i := 0; i < count; i++ {
		joints = append(joints, spawnBody(w, rng, i))
	}
	movers := make([]*components.CharacterController, 0, count)
	for i := 0; i < count; i++ {
		movers = append(movers, spawnMover(w, rng, i))
	}
	w.Start()

	for _, j := range joints {
		j.Attach(constraint.PositionTarget(randomPoint(rng, 1, 6)))
	}

	dt := w.Scene.Clock.Step
	start := time.Now()
	for i := 0; i < steps; i++ {
		// Retarget a few joints and steer movers every second
		if i%60 == 0 {
			for k, j := range joints {
				if k%4 == i/60%4 {
					j.SetTargetPosition(randomPoint(rng, 1, 6))
				}
			}
			for _, m := range movers {
				m.RequestMove(rl.Vector3{X: rng.Float32()*8 - 4, Z: rng.Float32()*8 - 4})
				if rng.Intn(3) == 0 {
					m.RequestJump(0)
				}
			}
		}
		w.Update(dt)
	}
	elapsed := time.Since(start)

	grounded := 0
	for _, m := range movers {
		if m.IsGrounded() {
			grounded++
		}
	}
	perStep := elapsed / time.Duration(steps)
	fmt.Printf("%5d joints + %5d movers: %10v/step | %8v total | %4d grounded\n",
		count, count, perStep.Round(time.Microsecond), elapsed.Round(time.Millisecond), grounded)
}

func buildArena(w *world.World, rng *rand.Rand) {
	half := arena / 2
	w.Statics.AddCentered(rl.Vector3{Y: -0.5}, rl.Vector3{X: arena, Y: 1, Z: arena})
	w.Statics.AddCentered(rl.Vector3{X: -half, Y: 2}, rl.Vector3{X: 1, Y: 4, Z: arena})
	w.Statics.AddCentered(rl.Vector3{X: half, Y: 2}, rl.Vector3{X: 1, Y: 4, Z: arena})
	w.Statics.AddCentered(rl.Vector3{Y: 2, Z: -half}, rl.Vector3{X: arena, Y: 4, Z: 1})
	w.Statics.AddCentered(rl.Vector3{Y: 2, Z: half}, rl.Vector3{X: arena, Y: 4, Z: 1})

	// Steps and ledges for the movers to climb
	for i := 0; i < 40; i++ {
		h := 0.1 + rng.Float32()*0.6
		w.Statics.AddCentered(randomPoint(rng, h/2, h/2), rl.Vector3{X: 2, Y: h, Z: 2})
	}
}

func spawnBody(w *world.World, rng *rand.Rand, i int) *components.TargetJoint {
	g := engine.NewGameObject(fmt.Sprintf("Body_%d", i))
	g.Transform.Position = randomPoint(rng, 2, 6)
	g.AddComponent(components.NewBoxCollider(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}))
	rb := components.NewRigidbody()
	rb.SetBoxInertia(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5})
	g.AddComponent(rb)
	joint := components.NewTargetJoint(world.GrabJoint)
	g.AddComponent(joint)
	w.AddObject(g)
	return joint
}

func spawnMover(w *world.World, rng *rand.Rand, i int) *components.CharacterController {
	g := engine.NewGameObject(fmt.Sprintf("Mover_%d", i))
	g.Transform.Position = randomPoint(rng, 2, 4)
	cc := components.NewCharacterController()
	g.AddComponent(cc)
	w.AddObject(g)
	return cc
}

func randomPoint(rng *rand.Rand, minY, maxY float32) rl.Vector3 {
	span := arena - 4
	return rl.Vector3{
		X: rng.Float32()*span - span/2,
		Y: minY + rng.Float32()*(maxY-minY),
		Z: rng.Float32()*span - span/2,
	}
}
