// Package geom provides the small geometric toolkit the frame packages are
// built on: 3-vectors, rotations stored as unit quaternions, and a Hermite
// polynomial interpolator working on vector samples with optional first
// derivatives.
package geom

import "math"

// Vector3 is a three-component cartesian vector. The zero value is the null
// vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Zero3 is the null vector.
var Zero3 = Vector3{}

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns k·v.
func (v Vector3) Scale(k float64) Vector3 {
	return Vector3{k * v.X, k * v.Y, k * v.Z}
}

// Neg returns -v.
func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// Dot returns the scalar product v·w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the vector product v × w.
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the euclidean norm of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// NormSq returns the squared euclidean norm of v.
func (v Vector3) NormSq() float64 {
	return v.Dot(v)
}

// Distance returns the euclidean distance between v and w.
func (v Vector3) Distance(w Vector3) float64 {
	return v.Sub(w).Norm()
}

// IsZero reports whether all components are exactly zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
