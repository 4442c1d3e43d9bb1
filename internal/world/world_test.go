package world

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"

	"motioncore/internal/components"
	"motioncore/internal/config"
	"motioncore/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const frame = float32(1) / 60

const testLevel = `
name: test
spawn: [0, 2, 0]
objects:
  - name: floor
    type: static
    position: [0, -0.5, 0]
    size: [20, 1, 20]
  - name: crate
    type: body
    position: [0, 3, 0]
    size: [1, 1, 1]
    color: Red
    body:
      mass: 2
      bounciness: 0.25
  - name: turret
    type: body
    position: [4, 1, 0]
    body:
      use_gravity: false
    gyro:
      mode: heading
      heading: 90
`

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w := New(config.Default())
	if err := w.ParseLevel([]byte(testLevel)); err != nil {
		t.Fatalf("ParseLevel failed: %v", err)
	}
	return w
}

func addFloor(w *World) *engine.GameObject {
	floor := engine.NewGameObject("Floor")
	floor.Transform.Position = rl.Vector3{Y: -0.5}
	floor.AddComponent(components.NewBoxCollider(rl.Vector3{X: 20, Y: 1, Z: 20}))
	w.AddObject(floor)
	return floor
}

func addCrate(w *World, pos rl.Vector3) (*engine.GameObject, *components.Rigidbody) {
	g := engine.NewGameObject("Crate")
	g.Transform.Position = pos
	g.AddComponent(components.NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1}))
	rb := components.NewRigidbody()
	g.AddComponent(rb)
	w.AddObject(g)
	return g, rb
}

func run(w *World, frames int) {
	for i := 0; i < frames; i++ {
		w.Update(frame)
	}
}

func TestNewWiresScene(t *testing.T) {
	w := New(nil)
	if w.Scene.World != w {
		t.Error("Expected the world to answer scene queries")
	}
	if w.Scene.Physics != w {
		t.Error("Expected the world to run the physics step")
	}
	if w.Gravity() != (rl.Vector3{Y: -20}) {
		t.Errorf("Expected default gravity (0,-20,0), got %v", w.Gravity())
	}
	if w.Scene.Clock.Step != config.Default().Simulation.FixedStep {
		t.Errorf("Expected configured fixed step, got %f", w.Scene.Clock.Step)
	}
}

func TestAddObjectRegistersStatics(t *testing.T) {
	w := New(nil)
	addFloor(w)
	addCrate(w, rl.Vector3{Y: 3})

	wall := engine.NewGameObject("Door")
	wall.AddComponent(components.NewBoxCollider(rl.Vector3{X: 1, Y: 2, Z: 1}))
	rb := components.NewRigidbody()
	rb.IsKinematic = true
	wall.AddComponent(rb)
	w.AddObject(wall)

	if w.Statics.Len() != 2 {
		t.Errorf("Expected floor and kinematic door as statics, got %d", w.Statics.Len())
	}
	if n := len(w.Bodies()); n != 1 {
		t.Errorf("Expected one dynamic body, got %d", n)
	}
}

func TestBodySettlesOnFloor(t *testing.T) {
	w := New(nil)
	addFloor(w)
	g, rb := addCrate(w, rl.Vector3{Y: 3})
	w.Start()

	run(w, 240)

	if math32.Abs(g.Transform.Position.Y-0.5) > 0.01 {
		t.Errorf("Expected crate resting at 0.5, got %f", g.Transform.Position.Y)
	}
	if !rb.IsSleeping() {
		t.Errorf("Expected crate asleep, velocity %v", rb.Velocity)
	}
}

func TestBodyBounces(t *testing.T) {
	w := New(nil)
	addFloor(w)
	_, rb := addCrate(w, rl.Vector3{Y: 0.5})
	rb.Bounciness = 1
	rb.Velocity = rl.Vector3{Y: -5}
	w.Start()

	w.FixedUpdate(frame)

	if rb.Velocity.Y <= 0 {
		t.Errorf("Expected the crate to bounce up, got %v", rb.Velocity)
	}
}

func TestRaycastHitsStatics(t *testing.T) {
	w := New(nil)
	addFloor(w)

	hit, ok := w.Raycast(rl.Vector3{Y: 5}, rl.Vector3{Y: -1}, 10)
	if !ok {
		t.Fatal("Expected to hit the floor")
	}
	if hit.Distance != 5 {
		t.Errorf("Expected distance 5, got %f", hit.Distance)
	}
	if _, ok := w.Raycast(rl.Vector3{Y: 5}, rl.Vector3{Y: 1}, 10); ok {
		t.Error("Expected upward ray to miss")
	}
}

func TestPickFindsClosestBody(t *testing.T) {
	w := New(nil)
	addFloor(w)
	near, _ := addCrate(w, rl.Vector3{Y: 3})
	addCrate(w, rl.Vector3{Y: 3, Z: 4})

	g, point, ok := w.Pick(rl.Vector3{Y: 3, Z: -10}, rl.Vector3{Z: 1}, 100)
	if !ok || g != near {
		t.Fatalf("Expected to pick the near crate, got %v", g)
	}
	if point != (rl.Vector3{Y: 3, Z: -0.5}) {
		t.Errorf("Expected hit on the near face, got %v", point)
	}

	if _, _, ok := w.Pick(rl.Vector3{Y: 20}, rl.Vector3{Y: 1}, 100); ok {
		t.Error("Expected no pick above the scene")
	}
}

func TestRenderOffsetUsesClockRemainder(t *testing.T) {
	w := New(nil)
	g, rb := addCrate(w, rl.Vector3{Y: 3})
	floor := addFloor(w)
	rb.Velocity = rl.Vector3{X: 2}

	step := w.Scene.Clock.Step
	w.Scene.Clock.Advance(step / 2)

	got := w.RenderOffset(g)
	if math32.Abs(got.X-step) > 1e-6 || got.Y != 0 || got.Z != 0 {
		t.Errorf("Expected offset (%f,0,0), got %v", step, got)
	}
	if w.RenderOffset(floor) != (rl.Vector3{}) {
		t.Error("Expected no offset for static geometry")
	}
}

func TestParseLevel(t *testing.T) {
	w := newTestWorld(t)

	if w.Statics.Len() != 1 {
		t.Errorf("Expected 1 static box, got %d", w.Statics.Len())
	}
	if w.Spawn != (rl.Vector3{Y: 2}) {
		t.Errorf("Expected spawn (0,2,0), got %v", w.Spawn)
	}

	crate := w.Scene.FindByName("crate")
	if crate == nil {
		t.Fatal("crate not loaded")
	}
	rb := engine.GetComponent[*components.Rigidbody](crate)
	if rb.Mass != 2 || rb.Bounciness != 0.25 {
		t.Errorf("Unexpected body settings mass=%f bounciness=%f", rb.Mass, rb.Bounciness)
	}
	if engine.GetComponent[*components.TargetJoint](crate) == nil {
		t.Error("Expected every body to carry a grab joint")
	}
	if r := engine.GetComponent[*components.ModelRenderer](crate); r == nil || r.Color != rl.Red {
		t.Error("Expected a red renderer")
	}

	turret := w.Scene.FindByName("turret")
	if turret == nil {
		t.Fatal("turret not loaded")
	}
	if engine.GetComponent[*components.Rigidbody](turret).UseGravity {
		t.Error("Expected use_gravity false")
	}
	gyro := engine.GetComponent[*components.Gyro](turret)
	if gyro == nil || gyro.Mode != components.GyroHeading {
		t.Fatal("Expected a heading gyro")
	}
	if math32.Abs(gyro.Heading-math32.Pi/2) > 1e-5 {
		t.Errorf("Expected heading pi/2, got %f", gyro.Heading)
	}
	if col := engine.GetComponent[*components.BoxCollider](turret); col.Size != (rl.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Expected default unit size, got %v", col.Size)
	}
}

func TestParseLevelErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		unknown bool
	}{
		{
			name:    "unknown type",
			data:    "objects:\n  - name: lamp\n    type: light\n",
			unknown: true,
		},
		{
			name: "unknown gyro mode",
			data: "objects:\n  - name: a\n    type: body\n    gyro:\n      mode: spin\n",
		},
		{
			name: "bad gyro axis",
			data: "objects:\n  - name: a\n    type: body\n    gyro:\n      mode: heading\n      axis: w\n",
		},
		{
			name: "invalid yaml",
			data: "objects: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(nil)
			addFloor(w)
			before := len(w.Scene.GameObjects)

			err := w.ParseLevel([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.unknown && !errors.Is(err, ErrUnknownLevelObject) {
				t.Errorf("Expected ErrUnknownLevelObject, got %v", err)
			}
			if len(w.Scene.GameObjects) != before {
				t.Error("A failed load should not add objects")
			}
		})
	}
}

func TestLoadLevelMissingFile(t *testing.T) {
	w := New(nil)
	if err := w.LoadLevel(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSaveLevelRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "level.yaml")
	if err := os.WriteFile(src, []byte(testLevel), 0644); err != nil {
		t.Fatal(err)
	}

	w := New(nil)
	if err := w.LoadLevel(src); err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	out := filepath.Join(dir, "saved.yaml")
	if err := w.SaveLevel(out); err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}

	again := New(nil)
	if err := again.LoadLevel(out); err != nil {
		t.Fatalf("Reloading saved level failed: %v", err)
	}
	if len(again.Scene.GameObjects) != len(w.Scene.GameObjects) {
		t.Errorf("Expected %d objects, got %d", len(w.Scene.GameObjects), len(again.Scene.GameObjects))
	}
	if again.Statics.Len() != 1 || again.Spawn != w.Spawn {
		t.Errorf("Statics or spawn lost: %d %v", again.Statics.Len(), again.Spawn)
	}
	crate := again.Scene.FindByName("crate")
	if crate == nil || engine.GetComponent[*components.Rigidbody](crate).Mass != 2 {
		t.Error("Expected crate mass to survive the round trip")
	}
	gyro := engine.GetComponent[*components.Gyro](again.Scene.FindByName("turret"))
	if gyro == nil || math32.Abs(gyro.Heading-math32.Pi/2) > 1e-4 {
		t.Error("Expected turret heading to survive the round trip")
	}
}

func TestCharacterStandsOnLevel(t *testing.T) {
	w := newTestWorld(t)
	player := engine.NewGameObject("Player")
	player.Transform.Position = rl.Vector3Add(w.Spawn, rl.Vector3{X: -4})
	cc := components.NewCharacterController()
	player.AddComponent(cc)
	w.AddObject(player)
	w.Start()

	run(w, 120)

	if !cc.IsGrounded() {
		t.Fatalf("Expected the player on the floor, at %v", player.Transform.Position)
	}
	if w.Statics.Len() != 1 {
		t.Error("The player should not become static geometry")
	}
}

func TestPlaygroundLevelLoads(t *testing.T) {
	w := New(nil)
	if err := w.LoadLevel(filepath.Join("..", "..", "levels", "playground.yaml")); err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	if w.Statics.Len() != 8 {
		t.Errorf("Expected 8 static boxes, got %d", w.Statics.Len())
	}
	if n := len(w.Bodies()); n != 4 {
		t.Errorf("Expected 4 bodies, got %d", n)
	}
}
