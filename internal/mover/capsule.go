package mover

import (
	"strings"

	"github.com/chewxy/math32"

	"motioncore/internal/physics"
)

// CollisionFlags reports which sides of the capsule touched something
// during a Move.
type CollisionFlags uint8

const (
	None  CollisionFlags = 0
	Below CollisionFlags = 1 << (iota - 1)
	Above
	Sides
)

func (f CollisionFlags) String() string {
	if f == None {
		return "None"
	}
	var parts []string
	if f&Below != 0 {
		parts = append(parts, "Below")
	}
	if f&Above != 0 {
		parts = append(parts, "Above")
	}
	if f&Sides != 0 {
		parts = append(parts, "Sides")
	}
	return strings.Join(parts, "|")
}

// Capsule is the character's collision shape and movement tolerances.
type Capsule struct {
	Radius float32 `yaml:"radius"`
	Height float32 `yaml:"height"` // full height, caps included
	// SkinWidth is the gap kept between the capsule and anything it touches.
	SkinWidth  float32 `yaml:"skin_width"`
	StepOffset float32 `yaml:"step_offset"`
	SlopeLimit float32 `yaml:"slope_limit"` // degrees
	// ContactOffset extends the step-down probe below the step height.
	ContactOffset   float32 `yaml:"contact_offset"`
	MinMoveDistance float32 `yaml:"min_move_distance"`
}

func DefaultCapsule() Capsule {
	return Capsule{
		Radius:          0.4,
		Height:          1.8,
		SkinWidth:       0.08,
		StepOffset:      0.4,
		SlopeLimit:      45,
		ContactOffset:   0.01,
		MinMoveDistance: 0.001,
	}
}

// Normalize clamps the capsule into a usable shape. The skin always stays
// strictly below the radius and half the height.
func (c Capsule) Normalize() Capsule {
	c.Radius = physics.Clamp(c.Radius, 0.01, math32.MaxFloat32)
	c.Height = physics.Clamp(c.Height, 2*c.Radius, math32.MaxFloat32)
	c.SkinWidth = physics.Clamp(c.SkinWidth, 1e-4, 0.9*math32.Min(c.Radius, c.Height/2))
	c.StepOffset = physics.Clamp(c.StepOffset, 0, c.Height)
	c.SlopeLimit = physics.Clamp(c.SlopeLimit, 0, 180)
	c.ContactOffset = physics.Clamp(c.ContactOffset, 0, math32.MaxFloat32)
	c.MinMoveDistance = physics.Clamp(c.MinMoveDistance, 0, math32.MaxFloat32)
	return c
}

// Size returns the shape used for sweep queries.
func (c Capsule) Size() physics.CapsuleSize {
	return physics.CapsuleSize{Radius: c.Radius, Height: c.Height}
}
