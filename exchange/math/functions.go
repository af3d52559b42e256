package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

/** @brief Tolerance used when comparing positions that crossed a codec boundary. */
const K_FLOAT_EPSILON float64 = 1e-6

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.U - other.U, v.V - other.V}
}

/**
 * @brief Compares both elements of the vectors and ensures the difference
 * is less than tolerance.
 */
func (v Vec2) Compare(other Vec2, tolerance float64) bool {
	return m.Abs(v.U-other.U) <= tolerance && m.Abs(v.V-other.V) <= tolerance
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		v.X + other.X,
		v.Y + other.Y,
		v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		v.X - other.X,
		v.Y - other.Y,
		v.Z - other.Z}
}

func (v Vec3) MulScalar(scalar float64) Vec3 {
	return Vec3{
		v.X * scalar,
		v.Y * scalar,
		v.Z * scalar}
}

func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return m.Sqrt(v.LengthSquared())
}

/**
 * @brief Returns a normalized copy of the supplied vector. The zero vector
 * normalizes to itself rather than to NaN.
 */
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vec3{
		v.X / length,
		v.Y / length,
		v.Z / length}
}

/**
 * @brief Returns the dot product between the provided vectors.
 */
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

/**
 * @brief Calculates and returns the cross product of the supplied vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X}
}

/**
 * @brief Compares all elements of both vectors and ensures the difference
 * is less than tolerance.
 */
func (v Vec3) Compare(other Vec3, tolerance float64) bool {
	if m.Abs(v.X-other.X) > tolerance {
		return false
	}

	if m.Abs(v.Y-other.Y) > tolerance {
		return false
	}

	if m.Abs(v.Z-other.Z) > tolerance {
		return false
	}

	return true
}

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}
