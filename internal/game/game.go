package game

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"motioncore/internal/camera"
	"motioncore/internal/components"
	"motioncore/internal/config"
	"motioncore/internal/engine"
	"motioncore/internal/logger"
	"motioncore/internal/mover"
	"motioncore/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Game struct {
	Config    *config.Config
	World     *world.World
	Player    *engine.GameObject
	Camera    *camera.FollowCamera
	LevelPath string
	ShowPanel bool
	DebugMode bool

	grab  grabState
	panel *Panel
	// contacts the player touched this frame, in the order they fired
	hits []mover.ControllerHit
	log   logrus.FieldLogger

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

// New builds the world and loads the level. It does not need a window.
func New(cfg *config.Config, levelPath string) (*Game, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Game{
		Config:    cfg,
		World:     world.New(cfg),
		LevelPath: levelPath,
		ShowPanel: true,
		log:       logger.L().WithField("level", levelPath),
	}
	if levelPath != "" {
		if err := g.World.LoadLevel(levelPath); err != nil {
			return nil, fmt.Errorf("load level: %w", err)
		}
	} else {
		g.World.Statics.AddCentered(rl.Vector3{Y: -0.5}, rl.Vector3{X: 60, Y: 1, Z: 60})
	}
	g.createPlayer()
	g.panel = NewPanel(g)
	return g, nil
}

func (g *Game) createPlayer() {
	g.Player = engine.NewGameObject("Player")
	g.Player.Transform.Position = g.World.Spawn

	cc := components.NewCharacterController()
	cc.Shape = g.Config.Capsule
	cc.Locomotion = g.Config.Locomotion
	cc.OnHit.AddListener(func(h mover.ControllerHit) {
		g.hits = append(g.hits, h)
	})
	g.Player.AddComponent(cc)

	input := components.NewPlayerInput()
	input.ReadInput = readInput
	g.Player.AddComponent(input)

	g.World.AddObject(g.Player)
	g.Camera = camera.New(g.Player.Transform.Position)
}

// readInput only turns the view while the right mouse button is held, so the
// left button stays free for grabbing.
func readInput() components.Intent {
	in := components.ReadKeyboard()
	if !rl.IsMouseButtonDown(rl.MouseRightButton) {
		in.Look = rl.Vector2{}
	}
	return in
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "motioncore sandbox")
	defer rl.CloseWindow()

	rl.SetTargetFPS(120)
	g.World.Start()
	defer g.unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	// Toggle panels
	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.ShowPanel = !g.ShowPanel
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Respawn()
	}
	if rl.IsKeyPressed(rl.KeyF5) && g.LevelPath != "" {
		if err := g.World.SaveLevel(g.LevelPath); err != nil {
			g.log.WithError(err).Error("Failed to save level")
		} else {
			g.log.Info("Level saved")
		}
	}

	cam := g.Camera.GetRaylibCamera()
	overPanel := g.ShowPanel && g.panel.Contains(rl.GetMousePosition())
	if !overPanel {
		g.updateGrab(rl.GetScreenToWorldRay(rl.GetMousePosition(), cam))
	}

	g.step(deltaTime)

	if input := engine.GetComponent[*components.PlayerInput](g.Player); input != nil {
		g.Camera.Update(g.Player.Transform.Position, input.Yaw, input.Pitch, deltaTime)
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) step(deltaTime float32) {
	g.hits = g.hits[:0]
	g.World.Update(deltaTime)
}

// Respawn puts the player back at the level spawn point.
func (g *Game) Respawn() {
	g.Player.Transform.Position = g.World.Spawn
	g.Player.SetActive(false)
	g.Player.SetActive(true)
}

func (g *Game) Draw() {
	camera := g.Camera.GetRaylibCamera()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	rl.BeginMode3D(camera)
	g.drawScene()
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) drawScene() {
	rl.DrawGrid(60, 1)

	// Statics without a renderer come from code, draw their bounds
	for _, b := range g.World.Statics.Boxes() {
		min, max := b.Min(), b.Max()
		center := rl.Vector3{X: (min.X() + max.X()) / 2, Y: (min.Y() + max.Y()) / 2, Z: (min.Z() + max.Z()) / 2}
		size := rl.Vector3{X: max.X() - min.X(), Y: max.Y() - min.Y(), Z: max.Z() - min.Z()}
		rl.DrawCubeWiresV(center, size, rl.Gray)
	}

	for _, obj := range g.World.Scene.GameObjects {
		if renderer := engine.GetComponent[*components.ModelRenderer](obj); renderer != nil {
			renderer.DrawOffset(g.World.RenderOffset(obj))
		}
	}

	g.drawPlayer()
	g.drawGrab()
	if g.DebugMode {
		g.drawHits()
	}
}

// drawHits marks each contact with its normal, brighter for earlier hits.
func (g *Game) drawHits() {
	for i, h := range g.hits {
		color := rl.Red
		if i > 0 {
			color = rl.Orange
		}
		rl.DrawSphere(h.Point, 0.05, color)
		rl.DrawLine3D(h.Point, rl.Vector3Add(h.Point, rl.Vector3Scale(h.Normal, 0.5)), color)
	}
}

func (g *Game) drawPlayer() {
	cc := engine.GetComponent[*components.CharacterController](g.Player)
	if cc == nil {
		return
	}
	pos := g.Player.Transform.Position
	seg := cc.Shape.Height/2 - cc.Shape.Radius
	start := rl.Vector3Add(pos, rl.Vector3{Y: -seg})
	end := rl.Vector3Add(pos, rl.Vector3{Y: seg})

	color := rl.SkyBlue
	if cc.IsGrounded() {
		color = rl.Lime
	}
	rl.DrawCapsuleWires(start, end, cc.Shape.Radius, 12, 6, color)
}

func (g *Game) DrawUI() {
	rl.DrawText("WASD to move, Space to jump, hold RMB to look", 10, 10, 20, rl.LightGray)
	rl.DrawText("LMB drags bodies, R respawns, Tab panel, F1 debug, F5 save", 10, 35, 20, rl.LightGray)
	rl.DrawFPS(10, 60)

	if g.ShowPanel {
		g.panel.Draw()
	}

	if g.DebugMode {
		cc := engine.GetComponent[*components.CharacterController](g.Player)
		if cc != nil {
			state := cc.State()
			last := cc.LastMove()
			rl.DrawText(fmt.Sprintf("Flags:   %s", last.Flags), 10, 85, 16, rl.Yellow)
			rl.DrawText(fmt.Sprintf("Gravity: %.2f  Coyote: %.2f  Buffer: %.2f", state.Gravity.Y, state.Coyote, state.JumpBuffer), 10, 105, 16, rl.Yellow)
			rl.DrawText(fmt.Sprintf("Hits:    %d", len(g.hits)), 200, 85, 16, rl.Yellow)
		}
		rl.DrawText(fmt.Sprintf("Update:  %.2f ms", g.updateMs), 10, 130, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Draw:    %.2f ms", g.drawMs), 10, 150, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Bodies:  %d", len(g.World.Bodies())), 10, 170, 16, rl.Lime)
	}
}

func (g *Game) unload() {
	for _, obj := range g.World.Scene.GameObjects {
		if renderer := engine.GetComponent[*components.ModelRenderer](obj); renderer != nil {
			renderer.Unload()
		}
	}
}
