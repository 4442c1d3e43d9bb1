package constraint

import (
	"testing"

	"github.com/chewxy/math32"

	"motioncore/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const step = float32(1.0 / 60.0)

func critical(freq float32) Config {
	cfg := DefaultConfig()
	cfg.Frequency = freq
	cfg.DampingRatio = 1
	return cfg
}

func TestEquilibriumIsIdempotent(t *testing.T) {
	body := newSolidBody(2)
	body.pos = vec(3, 1, -2)
	c := New(body)
	c.Configure(PoseTarget(body.pos, body.rot), vec(0, 0, 0), critical(5))

	for i := 0; i < 10; i++ {
		if err := c.Step(step); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	if body.vel != (rl.Vector3{}) || body.angVel != (rl.Vector3{}) {
		t.Errorf("Expected no velocity change, got v=%v w=%v", body.vel, body.angVel)
	}
	lin, ang := c.AccumulatedImpulse(step)
	if lin != (rl.Vector3{}) || ang != (rl.Vector3{}) {
		t.Errorf("Expected zero accumulated impulse, got %v %v", lin, ang)
	}
}

func TestCriticalDampingConvergesMonotonically(t *testing.T) {
	for _, mass := range []float32{0.25, 1, 8} {
		for _, freq := range []float32{1, 2, 5, 10} {
			body := newPointMass(mass)
			c := New(body)
			c.Configure(PositionTarget(vec(1, 0, 0)), vec(0, 0, 0), critical(freq))

			prev := float32(1)
			for i := 0; i < 240; i++ {
				if err := c.Step(step); err != nil {
					t.Fatalf("Step: %v", err)
				}
				body.integrate(step)

				remaining := 1 - body.pos.X
				if remaining > prev+1e-6 {
					t.Fatalf("m=%v f=%v: error grew at step %d: %v -> %v", mass, freq, i, prev, remaining)
				}
				if remaining < -1e-5 {
					t.Fatalf("m=%v f=%v: overshoot at step %d: %v", mass, freq, i, remaining)
				}
				prev = remaining
			}
		}
	}
}

func TestFiveHertzSettlesWithinOneSecond(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	c.Configure(PositionTarget(vec(1, 0, 0)), vec(0, 0, 0), critical(5))

	for i := 0; i < 60; i++ {
		if err := c.Step(step); err != nil {
			t.Fatalf("Step: %v", err)
		}
		body.integrate(step)
	}

	remaining := rl.Vector3Length(rl.Vector3Subtract(vec(1, 0, 0), body.pos))
	if remaining >= 0.01 {
		t.Errorf("Expected error below 1%% after 60 steps, got %v", remaining)
	}
}

func TestUnderdampedSpringOvershoots(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	cfg := critical(2)
	cfg.DampingRatio = 0.2
	c.Configure(PositionTarget(vec(1, 0, 0)), vec(0, 0, 0), cfg)

	var peak float32
	for i := 0; i < 120; i++ {
		c.Step(step)
		body.integrate(step)
		if body.pos.X > peak {
			peak = body.pos.X
		}
	}
	if peak <= 1 {
		t.Errorf("Expected a lightly damped spring to overshoot, peak %v", peak)
	}
}

func TestWarmStartCarriesImpulse(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	c.Configure(PositionTarget(vec(0, 2, 0)), vec(0, 0, 0), critical(5))

	c.Step(step)
	lin, _ := c.AccumulatedImpulse(step)
	if lin.Y <= 0 {
		t.Fatalf("Expected positive accumulated impulse toward the target, got %v", lin)
	}

	// Warm start is applied before the solve, so the body moves even when
	// the solve itself adds nothing new.
	deltas := body.deltas
	c.Step(step)
	if body.deltas-deltas != 2 {
		t.Errorf("Expected warm start plus solve deltas, got %d", body.deltas-deltas)
	}
}

func TestMaxForceClampsAccumulatedImpulse(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	cfg := critical(5)
	cfg.MaxForce = 6
	c.Configure(PositionTarget(vec(5, 0, 0)), vec(0, 0, 0), cfg)

	for i := 0; i < 10; i++ {
		c.Step(step)
		lin, _ := c.AccumulatedImpulse(step)
		if l := rl.Vector3Length(lin); l > 6*step+1e-5 {
			t.Fatalf("step %d: accumulated impulse %v exceeds max %v", i, l, 6*step)
		}
		body.integrate(step)
	}
	// Force-limited pull: v grows by at most maxForce*dt/m per step.
	if body.vel.X > 10*6*step+1e-4 {
		t.Errorf("Velocity %v exceeds what the force limit allows", body.vel.X)
	}
}

func TestZeroMaxForceIsInert(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	cfg := critical(5)
	cfg.MaxForce = 0
	c.Configure(PositionTarget(vec(5, 0, 0)), vec(0, 0, 0), cfg)

	c.Step(step)
	if body.vel != (rl.Vector3{}) {
		t.Errorf("Expected no motion with a zero force limit, got %v", body.vel)
	}
}

func TestZeroFrequencyDisablesPull(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	c.Configure(PositionTarget(vec(5, 0, 0)), vec(0, 0, 0), critical(0))

	if err := c.Step(step); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if body.vel != (rl.Vector3{}) {
		t.Errorf("Expected no motion at 0 Hz, got %v", body.vel)
	}
}

func TestImmovableBodyIsIgnored(t *testing.T) {
	body := newPointMass(1)
	body.invMass = 0
	c := New(body)
	c.Configure(PositionTarget(vec(5, 0, 0)), vec(0, 0, 0), critical(5))

	c.Step(step)
	if body.vel != (rl.Vector3{}) || body.deltas != 0 {
		t.Errorf("Expected no velocity delta on an immovable body, got %v", body.vel)
	}
}

func TestBreakEmitsOnce(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	cfg := critical(5)
	cfg.BreakThreshold = 1
	c.Configure(PositionTarget(vec(10, 0, 0)), vec(0, 0, 0), cfg)

	var fired []float32
	c.OnBreak.AddListener(func(m float32) { fired = append(fired, m) })

	c.Step(step)
	if !c.Broken() {
		t.Fatal("Expected the constraint to break")
	}
	if len(fired) != 1 || fired[0] < 1 {
		t.Fatalf("Expected one break event with magnitude >= 1, got %v", fired)
	}

	v := body.vel
	c.Step(step)
	if len(fired) != 1 {
		t.Errorf("Break event fired again: %v", fired)
	}
	if body.vel != v {
		t.Error("Broken constraint should not touch the body")
	}
}

func TestSleepingBodyAtTargetIsSkipped(t *testing.T) {
	body := newPointMass(1)
	body.sleeping = true
	c := New(body)
	c.Configure(PositionTarget(vec(0, 0, 0)), vec(0, 0, 0), critical(5))

	c.Step(step)
	if body.deltas != 0 {
		t.Errorf("Expected no velocity delta on a sleeping body at target, got %d", body.deltas)
	}
	if c.recomputes != 0 {
		t.Error("Skipped step should not touch the coefficient cache")
	}

	c.SetTargetPosition(vec(1, 0, 0))
	c.Step(step)
	if body.deltas == 0 {
		t.Error("Sleeping body away from its target should be pulled")
	}
}

func TestCoefficientsRecomputeOnlyWhenInputsChange(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	c.Configure(PositionTarget(vec(1, 0, 0)), vec(0, 0, 0), critical(5))

	c.Step(step)
	c.Step(step)
	if c.recomputes != 1 {
		t.Fatalf("Expected 1 recompute for unchanged inputs, got %d", c.recomputes)
	}

	c.SetTargetPosition(vec(2, 0, 0))
	c.Step(step)
	if c.recomputes != 1 {
		t.Errorf("Moving the target should not recompute, got %d", c.recomputes)
	}

	body.invMass = 0.5
	c.Step(step)
	if c.recomputes != 2 {
		t.Errorf("Mass change should recompute, got %d", c.recomputes)
	}
	if want := computeSoftness(5, 1, 2, step); c.linear != want {
		t.Errorf("Stale coefficients after mass change: %+v, want %+v", c.linear, want)
	}

	c.Step(step / 2)
	if c.recomputes != 3 {
		t.Errorf("Step size change should recompute, got %d", c.recomputes)
	}

	c.SetConfig(critical(3))
	c.Step(step / 2)
	if c.recomputes != 4 {
		t.Errorf("Config change should recompute, got %d", c.recomputes)
	}
}

func TestSoftnessCoefficients(t *testing.T) {
	s := computeSoftness(5, 1, 1, step)
	omega := 2 * math32.Pi * 5
	wantGamma := 1 / (step * (2*omega + step*omega*omega))
	if !near(s.gamma, wantGamma, 1e-5) {
		t.Errorf("gamma = %v, want %v", s.gamma, wantGamma)
	}
	if !near(s.beta, step*omega*omega*wantGamma, 1e-4) {
		t.Errorf("beta = %v, want %v", s.beta, step*omega*omega*wantGamma)
	}
	if computeSoftness(0, 1, 1, step).active {
		t.Error("zero frequency should produce an inactive row")
	}
	if computeSoftness(5, 1, 0, step).active {
		t.Error("zero mass should produce an inactive row")
	}
}

func TestAnchorOffsetCouplesRotation(t *testing.T) {
	body := newSolidBody(1)
	c := New(body)
	c.Configure(PositionTarget(vec(1, 1, 0)), vec(0, 1, 0), critical(5))

	c.Step(step)
	if body.vel.X <= 0 {
		t.Errorf("Expected +X linear response, got %v", body.vel)
	}
	if body.angVel.Z >= 0 {
		t.Errorf("Expected negative Z spin from an impulse above the centre, got %v", body.angVel)
	}

	for i := 0; i < 120; i++ {
		body.integrate(step)
		c.Step(step)
	}
	anchor := rl.Vector3Add(body.pos, rl.Vector3RotateByQuaternion(vec(0, 1, 0), body.rot))
	if d := rl.Vector3Distance(anchor, vec(1, 1, 0)); d > 0.01 {
		t.Errorf("Anchor did not reach the target, off by %v", d)
	}
}

func TestAnchorWithoutInertiaMatchesPointMass(t *testing.T) {
	offset := newPointMass(1)
	point := newPointMass(1)

	a := New(offset)
	a.Configure(PositionTarget(vec(1, 1, 0)), vec(0, 1, 0), critical(5))
	b := New(point)
	b.Configure(PositionTarget(vec(1, 0, 0)), vec(0, 0, 0), critical(5))

	a.Step(step)
	b.Step(step)
	if !near(offset.vel.X, point.vel.X, 1e-5) {
		t.Errorf("Coupling terms should vanish with zero inertia: %v vs %v", offset.vel.X, point.vel.X)
	}
	if offset.angVel != (rl.Vector3{}) {
		t.Errorf("Body without inverse inertia must not spin, got %v", offset.angVel)
	}
}

func TestOrientationConverges(t *testing.T) {
	for _, mode := range []AngularError{AxisAngle, EulerWrapped} {
		body := newSolidBody(1)
		c := New(body)
		c.AngularError = mode
		target := rl.QuaternionFromAxisAngle(vec(0, 0, 1), math32.Pi/2)
		c.Configure(OrientationTarget(target), vec(0, 0, 0), critical(3))

		for i := 0; i < 180; i++ {
			c.Step(step)
			body.integrate(step)
		}
		if e := rl.Vector3Length(physics.RotationError(body.rot, target)); e > 0.01 {
			t.Errorf("mode %d: orientation error %v after 3s", mode, e)
		}
		if body.vel != (rl.Vector3{}) {
			t.Errorf("mode %d: orientation-only pull moved the body: %v", mode, body.vel)
		}
	}
}

func TestStepWithoutBody(t *testing.T) {
	c := New(nil)
	c.Configure(PositionTarget(vec(1, 0, 0)), vec(0, 0, 0), critical(5))
	if err := c.Step(step); err != ErrNoBody {
		t.Errorf("Expected ErrNoBody, got %v", err)
	}
}

func TestResetClearsWarmStart(t *testing.T) {
	body := newPointMass(1)
	c := New(body)
	cfg := critical(5)
	cfg.BreakThreshold = 0.5
	c.Configure(PositionTarget(vec(3, 0, 0)), vec(0, 0, 0), cfg)
	c.Step(step)
	if !c.Broken() {
		t.Fatal("Expected break")
	}

	c.Reset()
	lin, _ := c.AccumulatedImpulse(step)
	if c.Broken() || lin != (rl.Vector3{}) {
		t.Error("Reset should clear the broken flag and warm start")
	}
}
