package iau

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix3 is a 3×3 matrix stored row-major. Rotation matrices follow the
// IAU convention: applying R to a column vector expressed in frame A yields
// the same vector expressed in frame B.
type Matrix3 [3][3]float64

// Vector3 is a column 3-vector.
type Vector3 [3]float64

// Identity returns the 3×3 identity matrix.
func Identity() Matrix3 {
	return Matrix3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Rx rotates the reference frame about the x-axis by phi, returning Rx(phi)·r.
// Positive phi is anticlockwise looking from the +x direction towards the origin.
func Rx(phi float64, r Matrix3) Matrix3 {
	s, c := math.Sincos(phi)
	var out Matrix3
	for j := 0; j < 3; j++ {
		out[0][j] = r[0][j]
		out[1][j] = c*r[1][j] + s*r[2][j]
		out[2][j] = -s*r[1][j] + c*r[2][j]
	}
	return out
}

// Ry rotates the reference frame about the y-axis by theta, returning Ry(theta)·r.
func Ry(theta float64, r Matrix3) Matrix3 {
	s, c := math.Sincos(theta)
	var out Matrix3
	for j := 0; j < 3; j++ {
		out[0][j] = c*r[0][j] - s*r[2][j]
		out[1][j] = r[1][j]
		out[2][j] = s*r[0][j] + c*r[2][j]
	}
	return out
}

// Rz rotates the reference frame about the z-axis by psi, returning Rz(psi)·r.
func Rz(psi float64, r Matrix3) Matrix3 {
	s, c := math.Sincos(psi)
	var out Matrix3
	for j := 0; j < 3; j++ {
		out[0][j] = c*r[0][j] + s*r[1][j]
		out[1][j] = -s*r[0][j] + c*r[1][j]
		out[2][j] = r[2][j]
	}
	return out
}

// Rxr returns the product a·b.
func Rxr(a, b Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var w float64
			for k := 0; k < 3; k++ {
				w += a[i][k] * b[k][j]
			}
			out[i][j] = w
		}
	}
	return out
}

// Tr returns the transpose of r.
func Tr(r Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[j][i]
		}
	}
	return out
}

// Rxp returns the product r·p.
func Rxp(r Matrix3, p Vector3) Vector3 {
	var out Vector3
	for i := 0; i < 3; i++ {
		out[i] = r[i][0]*p[0] + r[i][1]*p[1] + r[i][2]*p[2]
	}
	return out
}

// Dense returns a gonum copy of r.
func (r Matrix3) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		r[0][0], r[0][1], r[0][2],
		r[1][0], r[1][1], r[1][2],
		r[2][0], r[2][1], r[2][2],
	})
}

// OrthonormalityError returns the Frobenius norm of rᵀ·r − I. It is zero,
// up to rounding, for any proper rotation.
func (r Matrix3) OrthonormalityError() float64 {
	m := r.Dense()
	var p mat.Dense
	p.Mul(m.T(), m)
	p.Sub(&p, Identity().Dense())
	return mat.Norm(&p, 2)
}
