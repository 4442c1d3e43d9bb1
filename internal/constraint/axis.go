package constraint

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrInvalidAxis is returned when a single-axis constraint holds a value
// outside AxisX, AxisY and AxisZ.
var ErrInvalidAxis = errors.New("invalid axis of freedom")

// Axis selects the single rotational degree of freedom of a Heading.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// ParseAxis reads "x", "y" or "z".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("parse axis %q: %w", s, ErrInvalidAxis)
}

// UnmarshalText lets YAML and flag values name an axis.
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Vector is the world direction of the axis.
func (a Axis) Vector() (rl.Vector3, error) {
	switch a {
	case AxisX:
		return rl.Vector3{X: 1}, nil
	case AxisY:
		return rl.Vector3{Y: 1}, nil
	case AxisZ:
		return rl.Vector3{Z: 1}, nil
	}
	return rl.Vector3{}, fmt.Errorf("axis %d: %w", uint8(a), ErrInvalidAxis)
}

// reference is the body-space vector whose projection measures the angle
// around a. Rotating it by +angle about a yields (cos, sin) in the plane.
func (a Axis) reference() (ref, side rl.Vector3) {
	switch a {
	case AxisX:
		return rl.Vector3{Y: 1}, rl.Vector3{Z: 1}
	case AxisY:
		return rl.Vector3{Z: 1}, rl.Vector3{X: 1}
	default:
		return rl.Vector3{X: 1}, rl.Vector3{Y: 1}
	}
}
