package constraint

import (
	"github.com/chewxy/math32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// softness holds the soft-constraint coefficients for one row.
type softness struct {
	gamma  float32 // impulse feedback, 1/mass units
	beta   float32 // position error to velocity bias, 1/s
	active bool
}

// computeSoftness derives gamma and beta for a spring of the given frequency
// and damping ratio acting on mass. A zero frequency or mass disables the
// row instead of producing infinities.
func computeSoftness(frequency, dampingRatio, mass, dt float32) softness {
	if frequency <= 0 || mass <= 0 || dt <= 0 {
		return softness{}
	}
	omega := 2 * math32.Pi * frequency
	damping := 2 * dampingRatio * omega * mass
	stiffness := mass * omega * omega
	gamma := 1 / (dt * (damping + dt*stiffness))
	return softness{
		gamma:  gamma,
		beta:   dt * stiffness * gamma,
		active: true,
	}
}

// coefficientKey captures every input the cached coefficients depend on.
// Any difference marks the cache dirty.
type coefficientKey struct {
	damping    float32
	frequency  float32
	invMass    float32
	invInertia rl.Vector3
	dt         float32
	// effective-mass coupling inputs
	orientation rl.Quaternion
	anchor      rl.Vector3
	axis        rl.Vector3
}
