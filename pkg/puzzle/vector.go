package puzzle

import (
	"math"

	"github.com/westphae/quaternion"
)

// Epsilon is the tolerance used for every orientation comparison.
// Rotations are composed in floating point, so vectors are never compared exactly.
const Epsilon = 0.01

// Vec is a point or direction in cube space.
//
// The axes are fixed to the solved cube: +X points out of R, +Y out of U
// and +Z out of F.
type Vec quaternion.Vec3

// Unit face normals.
var (
	VecU = Vec{Y: 1}
	VecD = Vec{Y: -1}
	VecR = Vec{X: 1}
	VecL = Vec{X: -1}
	VecF = Vec{Z: 1}
	VecB = Vec{Z: -1}
)

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec) Neg() Vec {
	return Vec{X: -v.X, Y: -v.Y, Z: -v.Z}
}

func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec) Cross(o Vec) Vec {
	return Vec{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Abs returns the Euclidean length.
func (v Vec) Abs() float64 {
	return math.Sqrt(v.Dot(v))
}

// ApproxEqual reports whether two vectors are within Epsilon of each other.
func (v Vec) ApproxEqual(o Vec) bool {
	return v.Sub(o).Abs() < Epsilon
}

// IsZero reports whether the vector is within Epsilon of the origin.
func (v Vec) IsZero() bool {
	return v.Abs() < Epsilon
}

// Component returns the coordinate along axis 0 (X), 1 (Y) or 2 (Z).
func (v Vec) Component(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// grid returns the vector snapped to integer coordinates.
func (v Vec) grid() [3]int {
	return [3]int{int(math.Round(v.X)), int(math.Round(v.Y)), int(math.Round(v.Z))}
}

// rotation is a turn by angle radians about a unit axis.
type rotation quaternion.Quaternion

func newRotation(axis Vec, angle float64) rotation {
	s := math.Sin(angle / 2)
	return rotation{
		W: math.Cos(angle / 2),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

func (r rotation) apply(v Vec) Vec {
	return Vec(quaternion.Quaternion(r).RotateVec3(quaternion.Vec3(v)))
}
