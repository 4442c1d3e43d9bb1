package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Epsilon is the tolerance used for "already there" checks.
const Epsilon = 1e-4

// Up is the world up axis.
var Up = rl.Vector3{X: 0, Y: 1, Z: 0}

// Clamp restricts a value to a range. NaN is mapped to min.
func Clamp(v, min, max float32) float32 {
	if v != v || v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// WrapAngle maps an angle in radians into [-Pi, Pi).
func WrapAngle(a float32) float32 {
	twoPi := 2 * math32.Pi
	return a - twoPi*math32.Floor((a+math32.Pi)/twoPi)
}

// Vec converts a raylib vector to mathgl.
func Vec(v rl.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// FromVec converts a mathgl vector to raylib.
func FromVec(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// Skew returns the matrix S such that S*v equals r x v.
func Skew(r rl.Vector3) mgl32.Mat3 {
	// column-major
	return mgl32.Mat3{
		0, r.Z, -r.Y,
		-r.Z, 0, r.X,
		r.Y, -r.X, 0,
	}
}

// RotationMatrix returns the 3x3 rotation matrix of a quaternion.
func RotationMatrix(q rl.Quaternion) mgl32.Mat3 {
	mq := mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}.Normalize()
	return mq.Mat4().Mat3()
}

// WorldInverseInertia rotates a body-space diagonal inverse inertia into
// world space: R * diag(inv) * R^T.
func WorldInverseInertia(orientation rl.Quaternion, inv rl.Vector3) mgl32.Mat3 {
	r := RotationMatrix(orientation)
	return r.Mul3(mgl32.Diag3(Vec(inv))).Mul3(r.Transpose())
}

// MulVec multiplies a mathgl matrix with a raylib vector.
func MulVec(m mgl32.Mat3, v rl.Vector3) rl.Vector3 {
	return FromVec(m.Mul3x1(Vec(v)))
}

// ClampLength scales v down so its length does not exceed max.
func ClampLength(v rl.Vector3, max float32) rl.Vector3 {
	if math32.IsInf(max, 1) {
		return v
	}
	l := rl.Vector3Length(v)
	if l <= max || l == 0 {
		return v
	}
	return rl.Vector3Scale(v, max/l)
}

// Horizontal removes the component of v along up.
func Horizontal(v, up rl.Vector3) rl.Vector3 {
	return rl.Vector3Subtract(v, rl.Vector3Scale(up, rl.Vector3DotProduct(v, up)))
}

// AngleBetween returns the angle between two unit vectors in degrees.
func AngleBetween(a, b rl.Vector3) float32 {
	d := Clamp(rl.Vector3DotProduct(a, b), -1, 1)
	return math32.Acos(d) * rl.Rad2deg
}

// RotationError returns the rotation that carries target onto current as
// a scaled axis (axis * angle), taking the shortest path.
func RotationError(current, target rl.Quaternion) rl.Vector3 {
	q := rl.QuaternionMultiply(current, rl.QuaternionInvert(target))
	if q.W < 0 {
		q = rl.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
	}
	s := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if s < 1e-7 {
		// small angle: 2*sin(a/2) ~ a
		return rl.Vector3{X: 2 * q.X, Y: 2 * q.Y, Z: 2 * q.Z}
	}
	angle := 2 * math32.Atan2(s, q.W)
	return rl.Vector3Scale(rl.Vector3{X: q.X, Y: q.Y, Z: q.Z}, angle/s)
}

// EulerError returns the per-axis wrapped Euler decomposition of the rotation
// that carries target onto current. It only matches RotationError for
// single-axis rotations.
func EulerError(current, target rl.Quaternion) rl.Vector3 {
	q := rl.QuaternionMultiply(current, rl.QuaternionInvert(target))
	e := rl.QuaternionToEuler(q)
	return rl.Vector3{X: WrapAngle(e.X), Y: WrapAngle(e.Y), Z: WrapAngle(e.Z)}
}
