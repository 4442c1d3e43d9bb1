package engine

// DefaultFixedStep is the simulation step used when none is configured.
const DefaultFixedStep = float32(1.0 / 60.0)

// FixedClock turns variable frame times into a whole number of constant
// simulation steps. Time beyond MaxSubSteps steps in a single frame is
// dropped so a long stall cannot snowball.
type FixedClock struct {
	Step        float32
	MaxSubSteps int
	accumulator float32
}

func NewFixedClock(step float32, maxSubSteps int) *FixedClock {
	if step <= 0 || step != step {
		step = DefaultFixedStep
	}
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}
	return &FixedClock{Step: step, MaxSubSteps: maxSubSteps}
}

// Advance adds a frame's duration and returns how many fixed steps are due.
func (c *FixedClock) Advance(frameDelta float32) int {
	if frameDelta <= 0 {
		return 0
	}
	c.accumulator += frameDelta
	steps := 0
	for c.accumulator >= c.Step && steps < c.MaxSubSteps {
		c.accumulator -= c.Step
		steps++
	}
	if steps == c.MaxSubSteps && c.accumulator >= c.Step {
		c.accumulator = 0
	}
	return steps
}

// Alpha is the fraction of a step left in the accumulator, for render
// interpolation.
func (c *FixedClock) Alpha() float32 {
	return c.accumulator / c.Step
}

// Reset discards accumulated time.
func (c *FixedClock) Reset() {
	c.accumulator = 0
}
