// Package frame provides frame-tagged vectors and the rotations between the
// celestial and terrestrial reference frames.
//
// A Vector[F] carries its frame in the type, so a GCRS position cannot be
// passed where an ITRS one is expected. Moving between frames is only
// possible through a Rotation[From, To], which the Pipeline builds from the
// Earth-orientation primitives.
package frame

import (
	"math"

	"github.com/AlexApps99/stardome/internal/iau"
)

// Frame is implemented by the zero-size frame markers.
type Frame interface {
	Name() string
}

// Frame markers.
type (
	ICRS struct{} // International Celestial Reference System
	BCRS struct{} // Barycentric Celestial Reference System
	GCRS struct{} // Geocentric Celestial Reference System
	CIRS struct{} // Celestial Intermediate Reference System
	TIRS struct{} // Terrestrial Intermediate Reference System
	ITRS struct{} // International Terrestrial Reference System
	TEME struct{} // True Equator, Mean Equinox (SGP4 output)
	TOD  struct{} // True of Date (IAU 1976/1980)
)

func (ICRS) Name() string { return "ICRS" }
func (BCRS) Name() string { return "BCRS" }
func (GCRS) Name() string { return "GCRS" }
func (CIRS) Name() string { return "CIRS" }
func (TIRS) Name() string { return "TIRS" }
func (ITRS) Name() string { return "ITRS" }
func (TEME) Name() string { return "TEME" }
func (TOD) Name() string  { return "TOD" }

// Vector is a Cartesian 3-vector expressed in frame F. Units are the
// caller's; positions in this module are kilometres.
type Vector[F Frame] struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec builds a Vector in frame F.
func Vec[F Frame](x, y, z float64) Vector[F] {
	return Vector[F]{X: x, Y: y, Z: z}
}

// FrameName returns the name of v's frame.
func (v Vector[F]) FrameName() string {
	var f F
	return f.Name()
}

func (v Vector[F]) Add(o Vector[F]) Vector[F] { return Vector[F]{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector[F]) Sub(o Vector[F]) Vector[F] { return Vector[F]{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector[F]) Scale(k float64) Vector[F] { return Vector[F]{v.X * k, v.Y * k, v.Z * k} }
func (v Vector[F]) Dot(o Vector[F]) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector[F]) Norm() float64             { return math.Sqrt(v.Dot(v)) }

// Array returns the untagged components.
func (v Vector[F]) Array() iau.Vector3 { return iau.Vector3{v.X, v.Y, v.Z} }

func fromArray[F Frame](a iau.Vector3) Vector[F] { return Vector[F]{a[0], a[1], a[2]} }

// Rotation maps coordinates in frame From to frame To.
type Rotation[From, To Frame] struct {
	M iau.Matrix3
}

// Apply rotates v into the target frame.
func (r Rotation[From, To]) Apply(v Vector[From]) Vector[To] {
	return fromArray[To](iau.Rxp(r.M, v.Array()))
}

// Inverse returns the rotation in the opposite direction (the transpose).
func (r Rotation[From, To]) Inverse() Rotation[To, From] {
	return Rotation[To, From]{M: iau.Tr(r.M)}
}

// Matrix4 embeds the rotation in a homogeneous matrix with no translation.
func (r Rotation[From, To]) Matrix4() Matrix4 {
	return Matrix4FromRotation(r.M)
}

// Then composes r followed by next.
func Then[A, B, C Frame](r Rotation[A, B], next Rotation[B, C]) Rotation[A, C] {
	return Rotation[A, C]{M: iau.Rxr(next.M, r.M)}
}
