package mover

import "testing"

func TestCapsuleNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    Capsule
		check func(Capsule) bool
	}{
		{
			name:  "height grows to fit both caps",
			in:    Capsule{Radius: 1, Height: 0.5, SkinWidth: 0.1},
			check: func(c Capsule) bool { return c.Height == 2 },
		},
		{
			name:  "skin stays below radius",
			in:    Capsule{Radius: 0.5, Height: 4, SkinWidth: 2},
			check: func(c Capsule) bool { return c.SkinWidth < c.Radius },
		},
		{
			name:  "skin stays below half height",
			in:    Capsule{Radius: 2, Height: 4, SkinWidth: 3},
			check: func(c Capsule) bool { return c.SkinWidth < c.Height/2 },
		},
		{
			name:  "zero skin becomes positive",
			in:    Capsule{Radius: 0.5, Height: 2},
			check: func(c Capsule) bool { return c.SkinWidth > 0 },
		},
		{
			name:  "slope limit clamped",
			in:    Capsule{Radius: 0.5, Height: 2, SkinWidth: 0.1, SlopeLimit: 270},
			check: func(c Capsule) bool { return c.SlopeLimit == 180 },
		},
		{
			name:  "negative offsets clamped",
			in:    Capsule{Radius: 0.5, Height: 2, SkinWidth: 0.1, StepOffset: -1, ContactOffset: -1, MinMoveDistance: -1},
			check: func(c Capsule) bool { return c.StepOffset == 0 && c.ContactOffset == 0 && c.MinMoveDistance == 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if !tt.check(got) {
				t.Errorf("Unexpected result %+v", got)
			}
		})
	}
}

func TestDefaultCapsuleIsNormalized(t *testing.T) {
	c := DefaultCapsule()
	if c.Normalize() != c {
		t.Errorf("Expected defaults to survive Normalize, got %+v", c.Normalize())
	}
}

func TestNewNormalizesShape(t *testing.T) {
	m := New(nil, Capsule{Radius: 0.5, Height: 0.5})
	if m.Shape.Height != 1 {
		t.Errorf("Expected height 1, got %f", m.Shape.Height)
	}
	if !m.OverlapRecovery {
		t.Error("Overlap recovery should default to on")
	}
}
