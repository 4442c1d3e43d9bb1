package world

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"motioncore/internal/components"
	"motioncore/internal/constraint"
	"motioncore/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrUnknownLevelObject is returned for a level object whose type is not
// "static" or "body".
var ErrUnknownLevelObject = errors.New("unknown level object")

// GrabJoint is the name of the TargetJoint every loaded body carries.
const GrabJoint = "grab"

// --- YAML types ---

type LevelFile struct {
	Name    string      `yaml:"name,omitempty"`
	Spawn   [3]float32  `yaml:"spawn"`
	Objects []ObjectDef `yaml:"objects"`
}

type ObjectDef struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Tags     []string   `yaml:"tags,omitempty"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation,omitempty"` // degrees, bodies only
	Size     [3]float32 `yaml:"size"`
	Color    string     `yaml:"color,omitempty"`
	Body     *BodyDef   `yaml:"body,omitempty"`
	Gyro     *GyroDef   `yaml:"gyro,omitempty"`
}

type BodyDef struct {
	Mass       float32 `yaml:"mass,omitempty"`
	Bounciness float32 `yaml:"bounciness,omitempty"`
	Friction   float32 `yaml:"friction,omitempty"`
	UseGravity *bool   `yaml:"use_gravity,omitempty"`
	Kinematic  bool    `yaml:"kinematic,omitempty"`
}

type GyroDef struct {
	Mode         string  `yaml:"mode"` // upright or heading
	Axis         string  `yaml:"axis,omitempty"`
	Heading      float32 `yaml:"heading,omitempty"` // degrees
	Frequency    float32 `yaml:"frequency,omitempty"`
	DampingRatio float32 `yaml:"damping_ratio,omitempty"`
}

// --- Color mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

var nameByColor map[rl.Color]string

func init() {
	nameByColor = make(map[rl.Color]string, len(colorByName))
	for name, c := range colorByName {
		nameByColor[c] = name
	}
}

func lookupColor(name string, fallback rl.Color) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	return fallback
}

func lookupColorName(c rl.Color) string {
	if name, ok := nameByColor[c]; ok {
		return name
	}
	return ""
}

func vec(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func arr(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// --- Loading ---

func (w *World) LoadLevel(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read level: %w", err)
	}
	if err := w.ParseLevel(data); err != nil {
		return err
	}
	w.log.WithFields(logrus.Fields{
		"path":    path,
		"objects": len(w.Scene.GameObjects),
		"statics": w.Statics.Len(),
	}).Info("Level loaded")
	return nil
}

// ParseLevel adds every object of a YAML level to the world. Nothing is
// added when any object is invalid.
func (w *World) ParseLevel(data []byte) error {
	var lf LevelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return fmt.Errorf("parse level: %w", err)
	}

	objects := make([]*engine.GameObject, 0, len(lf.Objects))
	for i, def := range lf.Objects {
		g, err := buildObject(def)
		if err != nil {
			return fmt.Errorf("level object %d: %w", i, err)
		}
		objects = append(objects, g)
	}

	w.Spawn = vec(lf.Spawn)
	for _, g := range objects {
		w.AddObject(g)
	}
	return nil
}

func buildObject(def ObjectDef) (*engine.GameObject, error) {
	g := engine.NewGameObject(def.Name)
	g.Tags = def.Tags
	g.Transform.Position = vec(def.Position)

	size := vec(def.Size)
	if size == (rl.Vector3{}) {
		size = rl.Vector3{X: 1, Y: 1, Z: 1}
	}
	g.AddComponent(components.NewBoxCollider(size))

	switch def.Type {
	case "static":
		g.AddComponent(components.NewModelRenderer(size, lookupColor(def.Color, rl.LightGray)))
	case "body":
		g.Transform.SetEulerDegrees(vec(def.Rotation))
		g.AddComponent(loadRigidbody(def.Body, size))
		renderer := components.NewModelRenderer(size, lookupColor(def.Color, rl.Orange))
		renderer.Wires = true
		g.AddComponent(renderer)
		g.AddComponent(components.NewTargetJoint(GrabJoint))
		if def.Gyro != nil {
			gyro, err := loadGyro(*def.Gyro)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", def.Name, err)
			}
			g.AddComponent(gyro)
		}
	default:
		return nil, fmt.Errorf("%q has type %q: %w", def.Name, def.Type, ErrUnknownLevelObject)
	}
	return g, nil
}

func loadRigidbody(def *BodyDef, size rl.Vector3) *components.Rigidbody {
	rb := components.NewRigidbody()
	if def != nil {
		if def.Mass > 0 {
			rb.Mass = def.Mass
		}
		if def.Bounciness > 0 {
			rb.Bounciness = def.Bounciness
		}
		if def.Friction > 0 {
			rb.Friction = def.Friction
		}
		if def.UseGravity != nil {
			rb.UseGravity = *def.UseGravity
		}
		rb.IsKinematic = def.Kinematic
	}
	rb.SetBoxInertia(size)
	return rb
}

func loadGyro(def GyroDef) (*components.Gyro, error) {
	var mode components.GyroMode
	switch def.Mode {
	case "", "upright":
		mode = components.GyroUpright
	case "heading":
		mode = components.GyroHeading
	default:
		return nil, fmt.Errorf("unknown gyro mode %q", def.Mode)
	}

	gyro := components.NewGyro(mode)
	if def.Axis != "" {
		axis, err := constraint.ParseAxis(def.Axis)
		if err != nil {
			return nil, err
		}
		gyro.Axis = axis
	}
	gyro.Heading = def.Heading * rl.Deg2rad
	if def.Frequency > 0 {
		gyro.Config.Frequency = def.Frequency
	}
	if def.DampingRatio > 0 {
		gyro.Config.DampingRatio = def.DampingRatio
	}
	gyro.Config = gyro.Config.Normalize()
	return gyro, nil
}

// --- Saving ---

// SaveLevel writes the world's boxes and bodies back out as YAML. Objects
// without a BoxCollider, like the player, are skipped.
func (w *World) SaveLevel(path string) error {
	lf := LevelFile{Name: w.Scene.Name, Spawn: arr(w.Spawn)}

	for _, g := range w.Scene.GameObjects {
		col := engine.GetComponent[*components.BoxCollider](g)
		if col == nil {
			continue
		}
		def := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: arr(g.Transform.Position),
			Size:     arr(col.Size),
		}
		if r := engine.GetComponent[*components.ModelRenderer](g); r != nil {
			def.Color = lookupColorName(r.Color)
		}

		if rb := engine.GetComponent[*components.Rigidbody](g); rb == nil {
			def.Type = "static"
		} else {
			def.Type = "body"
			def.Rotation = arr(g.Transform.EulerDegrees())
			def.Body = saveRigidbody(rb)
			if gyro := engine.GetComponent[*components.Gyro](g); gyro != nil {
				def.Gyro = saveGyro(gyro)
			}
		}
		lf.Objects = append(lf.Objects, def)
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshal level: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write level: %w", err)
	}
	return nil
}

func saveRigidbody(rb *components.Rigidbody) *BodyDef {
	useGravity := rb.UseGravity
	return &BodyDef{
		Mass:       rb.Mass,
		Bounciness: rb.Bounciness,
		Friction:   rb.Friction,
		UseGravity: &useGravity,
		Kinematic:  rb.IsKinematic,
	}
}

func saveGyro(g *components.Gyro) *GyroDef {
	def := &GyroDef{
		Mode:         "upright",
		Axis:         g.Axis.String(),
		Frequency:    g.Config.Frequency,
		DampingRatio: g.Config.DampingRatio,
	}
	if g.Mode == components.GyroHeading {
		def.Mode = "heading"
		def.Heading = g.Heading * rl.Rad2deg
	}
	return def
}
