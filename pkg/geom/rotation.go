package geom

import (
	"math"

	"astrodyn-platform/pkg/errors"
)

// Axis identifies one of the three canonical rotation axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) unit() Vector3 {
	switch a {
	case AxisX:
		return Vector3{X: 1}
	case AxisY:
		return Vector3{Y: 1}
	default:
		return Vector3{Z: 1}
	}
}

// Rotation is an orientation change stored as a unit quaternion, used as a
// frame transform operator: Apply maps the coordinates of a fixed vector
// expressed in the original frame to its coordinates in the rotated frame.
// This is the convention of the classical Rz/Ry/Rx coordinate matrices, so a
// chain written M = Rz(a)·Ry(b)·Rz(c) in the literature becomes
// Rz(a).Compose(Ry(b).Compose(Rz(c))) here, the rightmost factor acting
// first. The zero value is not valid; use Identity.
type Rotation struct {
	q0, q1, q2, q3 float64
}

// Identity is the no-op rotation.
var Identity = Rotation{q0: 1}

// NewRotation builds the frame rotation of the given angle in radians around
// a canonical axis.
func NewRotation(axis Axis, angle float64) Rotation {
	u := axis.unit()
	coeff := -math.Sin(0.5 * angle)
	return Rotation{
		q0: math.Cos(0.5 * angle),
		q1: coeff * u.X,
		q2: coeff * u.Y,
		q3: coeff * u.Z,
	}
}

// NewRotationAxisAngle builds the frame rotation of the given angle around an
// arbitrary non-zero axis.
func NewRotationAxisAngle(axis Vector3, angle float64) (Rotation, error) {
	n := axis.Norm()
	if n == 0 {
		return Identity, errors.New("zero norm rotation axis")
	}
	coeff := -math.Sin(0.5*angle) / n
	return Rotation{
		q0: math.Cos(0.5 * angle),
		q1: coeff * axis.X,
		q2: coeff * axis.Y,
		q3: coeff * axis.Z,
	}, nil
}

// NewRotationQuaternion builds a rotation from quaternion components,
// scalar part first, normalizing them.
func NewRotationQuaternion(q0, q1, q2, q3 float64) (Rotation, error) {
	n := math.Sqrt(q0*q0 + q1*q1 + q2*q2 + q3*q3)
	if n == 0 {
		return Identity, errors.New("zero norm quaternion")
	}
	inv := 1 / n
	return Rotation{q0 * inv, q1 * inv, q2 * inv, q3 * inv}, nil
}

// Quaternion returns the quaternion components, scalar part first.
func (r Rotation) Quaternion() (q0, q1, q2, q3 float64) {
	return r.q0, r.q1, r.q2, r.q3
}

// Apply maps coordinates from the original frame to the rotated frame.
func (r Rotation) Apply(v Vector3) Vector3 {
	u := Vector3{r.q1, r.q2, r.q3}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(r.q0)).Add(u.Cross(t))
}

// ApplyInverse maps coordinates from the rotated frame back to the original
// frame.
func (r Rotation) ApplyInverse(v Vector3) Vector3 {
	return r.Inverse().Apply(v)
}

// Inverse returns the reverse rotation.
func (r Rotation) Inverse() Rotation {
	return Rotation{r.q0, -r.q1, -r.q2, -r.q3}
}

// Compose returns the rotation applying s first, then r, so that
// r.Compose(s).Apply(v) == r.Apply(s.Apply(v)).
func (r Rotation) Compose(s Rotation) Rotation {
	return Rotation{
		r.q0*s.q0 - r.q1*s.q1 - r.q2*s.q2 - r.q3*s.q3,
		r.q0*s.q1 + r.q1*s.q0 + r.q2*s.q3 - r.q3*s.q2,
		r.q0*s.q2 + r.q2*s.q0 + r.q3*s.q1 - r.q1*s.q3,
		r.q0*s.q3 + r.q3*s.q0 + r.q1*s.q2 - r.q2*s.q1,
	}
}

// Angle returns the rotation angle in [0, π].
func (r Rotation) Angle() float64 {
	sin := math.Sqrt(r.q1*r.q1 + r.q2*r.q2 + r.q3*r.q3)
	return 2 * math.Atan2(sin, math.Abs(r.q0))
}

// Distance returns the angle of the rotation separating r from s.
func (r Rotation) Distance(s Rotation) float64 {
	return r.Compose(s.Inverse()).Angle()
}

// Vector returns the rotation vector (axis scaled by angle) such that
// RotationFromVector(r.Vector()) reproduces r. The result angle never
// exceeds π.
func (r Rotation) Vector() Vector3 {
	q0, u := r.q0, Vector3{r.q1, r.q2, r.q3}
	if q0 < 0 {
		q0, u = -q0, u.Neg()
	}
	sin := u.Norm()
	if sin == 0 {
		return Zero3
	}
	angle := 2 * math.Atan2(sin, q0)
	return u.Scale(-angle / sin)
}

// RotationFromVector is the exponential map matching Vector: it builds the
// frame rotation whose axis is v direction and angle is v norm.
func RotationFromVector(v Vector3) Rotation {
	angle := v.Norm()
	if angle == 0 {
		return Identity
	}
	coeff := -math.Sin(0.5*angle) / angle
	return Rotation{
		q0: math.Cos(0.5 * angle),
		q1: coeff * v.X,
		q2: coeff * v.Y,
		q3: coeff * v.Z,
	}
}

// RateFromVectorDerivative converts the time derivative of a rotation vector
// chart into the rotation rate vector of the transform convention, for a
// rotation R(t) = RotationFromVector(v(t)) composed with a constant
// reference. Ill-conditioned only near v norm = π, far outside the small
// relative angles the interpolation windows produce.
func RateFromVectorDerivative(v, vDot Vector3) Vector3 {
	th2 := v.NormSq()
	var c1, c2 float64
	if th2 < 1e-8 {
		c1 = 0.5 - th2/24
		c2 = 1.0/6 - th2/120
	} else {
		th := math.Sqrt(th2)
		c1 = (1 - math.Cos(th)) / th2
		c2 = (th - math.Sin(th)) / (th2 * th)
	}
	cross := v.Cross(vDot)
	return vDot.Sub(cross.Scale(c1)).Add(v.Cross(cross).Scale(c2))
}

// VectorDerivativeFromRate is the inverse of RateFromVectorDerivative: it
// maps a rotation rate back to the chart derivative at chart point v.
func VectorDerivativeFromRate(v, omega Vector3) Vector3 {
	th2 := v.NormSq()
	var c float64
	if th2 < 1e-8 {
		c = 1.0/12 + th2/720
	} else {
		th := math.Sqrt(th2)
		c = 1/th2 - (1+math.Cos(th))/(2*th*math.Sin(th))
	}
	cross := v.Cross(omega)
	return omega.Add(cross.Scale(0.5)).Add(v.Cross(cross).Scale(c))
}
