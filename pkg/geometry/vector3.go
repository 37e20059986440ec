package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon Precision constant for approximate comparisons.
// Components are float32, so this is much looser than a float64 epsilon.
const (
	Epsilon = 1e-5
)

// ErrDivideByZero is returned by Div when the scalar is zero.
var ErrDivideByZero = errors.New("vector cannot be divided by zero")

// Vector3 represents a 3D vector or point in cartesian space, in single precision.
// Fields are public because they are plain data: v := Vector3{1, 2, 3}
// Two vectors are exactly equal when v == other.
type Vector3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// Zero is the null vector.
var Zero = Vector3{}

// NewVector creates a new Vector3.
func NewVector(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// NewVectorSpherical builds a unit vector from an azimuth angle (radians, around the Z axis)
// and a z coordinate in [-1, 1]. With azimuth uniform in [0, 2π) and z uniform in [-1, 1]
// the result is uniformly distributed on the unit sphere.
func NewVectorSpherical(azimuth, z float32) Vector3 {
	base := float32(math.Sqrt(float64(1 - z*z)))
	return Vector3{
		X: base * float32(math.Cos(float64(azimuth))),
		Y: base * float32(math.Sin(float64(azimuth))),
		Z: z,
	}
}

// String implements the fmt.Stringer interface.
func (v Vector3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers, new values returned.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub subtracts the other vector from the current vector.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Mul scales the vector by a scalar value.
func (v Vector3) Mul(scalar float32) Vector3 {
	return Vector3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Div divides every component by scalar.
// A zero scalar yields an Inf vector and ErrDivideByZero.
func (v Vector3) Div(scalar float32) (Vector3, error) {
	if scalar == 0 {
		inf := float32(math.Inf(1))
		return Vector3{inf, inf, inf}, ErrDivideByZero
	}
	return Vector3{v.X / scalar, v.Y / scalar, v.Z / scalar}, nil
}

// Neg returns the opposite vector.
func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// ---------------------------------------------------------------------
// Vector3 Products
// ---------------------------------------------------------------------

// Dot calculates the dot product of two vectors.
func (v Vector3) Dot(other Vector3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross calculates the cross product v × other.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// Use it for comparisons, it avoids the square root.
func (v Vector3) LenSqr() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Len calculates the magnitude (length) of the vector.
func (v Vector3) Len() float32 {
	return float32(math.Sqrt(float64(v.LenSqr())))
}

// Normalize returns a unit vector in the same direction.
// Returns a zero vector if the length is zero.
func (v Vector3) Normalize() Vector3 {
	l := v.Len()
	if l == 0 {
		return Zero
	}
	return v.Mul(1 / l)
}

// ClampMagnitude keeps the length of v inside [min, max].
// A vector longer than max is scaled down to max, a non-zero vector shorter than min
// is scaled up to min, anything else is returned untouched.
func (v Vector3) ClampMagnitude(min, max float32) Vector3 {
	l := v.Len()
	if l > max {
		r := v.Mul(max / l)
		// float32 rounding can leave r one ulp above max
		for r.Len() > max {
			r = r.Mul(shrink)
		}
		return r
	}
	if l < min && l > 0 {
		return v.Mul(min / l)
	}
	return v
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector3) DistanceTo(other Vector3) float32 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector3) DistanceSquaredTo(other Vector3) float32 {
	return v.Sub(other).LenSqr()
}

// Yaw returns the heading (radians) of the horizontal X/Z components, measured from
// the +Z axis towards +X. Renderers use it to orient a marker along the velocity.
func (v Vector3) Yaw() float32 {
	return float32(math.Atan2(float64(v.X), float64(v.Z)))
}

// Lerp (Linear Interpolate) calculates a point between v and target based on t [0, 1].
func (v Vector3) Lerp(target Vector3, t float32) Vector3 {
	return v.Add(target.Sub(v).Mul(t))
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
// Use == when exact equality is required.
func (v Vector3) Eq(other Vector3) bool {
	return abs32(v.X-other.X) <= Epsilon &&
		abs32(v.Y-other.Y) <= Epsilon &&
		abs32(v.Z-other.Z) <= Epsilon
}

// IsFinite reports whether no component is NaN or Inf.
func (v Vector3) IsFinite() bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// shrink is the largest float32 below 1.
var shrink = math.Nextafter32(1, 0)

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
