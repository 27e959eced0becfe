package frame

import (
	"gonum.org/v1/gonum/mat"

	"github.com/AlexApps99/stardome/internal/iau"
)

// Matrix4 is a row-major homogeneous transform, as handed to the renderer.
type Matrix4 [4][4]float64

// Identity4 returns the 4×4 identity.
func Identity4() Matrix4 {
	return Matrix4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Matrix4FromRotation embeds a 3×3 rotation with zero translation.
func Matrix4FromRotation(r iau.Matrix3) Matrix4 {
	m := Identity4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = r[i][j]
		}
	}
	return m
}

// WithTranslation returns m with its translation column set to (x, y, z).
func (m Matrix4) WithTranslation(x, y, z float64) Matrix4 {
	m[0][3], m[1][3], m[2][3] = x, y, z
	return m
}

// Rotation returns the upper-left 3×3 block.
func (m Matrix4) Rotation() iau.Matrix3 {
	var r iau.Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j]
		}
	}
	return r
}

// Translation returns the translation column.
func (m Matrix4) Translation() [3]float64 {
	return [3]float64{m[0][3], m[1][3], m[2][3]}
}

func (m Matrix4) dense() *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}

// Mul returns m·o: o is applied first.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var p mat.Dense
	p.Mul(m.dense(), o.dense())
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = p.At(i, j)
		}
	}
	return out
}

// TransformPoint applies m to the point (x, y, z, 1).
func (m Matrix4) TransformPoint(p [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*p[0] + m[i][1]*p[1] + m[i][2]*p[2] + m[i][3]
	}
	return out
}

// Flatten returns m in column-major order, the layout WebGL expects.
func (m Matrix4) Flatten() [16]float64 {
	var out [16]float64
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			out[4*j+i] = m[i][j]
		}
	}
	return out
}

// EarthModelMatrix returns the transform that places an Earth model, whose
// vertices are in ITRS, into the GCRS scene.
func EarthModelMatrix(c2t Rotation[GCRS, ITRS]) Matrix4 {
	return c2t.Inverse().Matrix4()
}
