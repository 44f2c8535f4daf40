package types

import (
	"github.com/chewxy/math32"

	"golang.org/x/image/math/f32"
)

const floatCmpEpsilon = 1e-6

// Mat4 is a 4x4 matrix stored in column-major order. Element (row, col)
// maps to index col*4 + row which keeps the layout compatible with the
// conventions used by https://github.com/go-gl/mathgl/blob/master/mgl32/matrix.go
type Mat4 f32.Mat4

// Create an identity matrix.
func Ident4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Create a translation matrix.
func Translate4(t Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		t[0], t[1], t[2], 1,
	}
}

// Create a scale matrix.
func Scale4(s Vec3) Mat4 {
	return Mat4{
		s[0], 0, 0, 0,
		0, s[1], 0, 0,
		0, 0, s[2], 0,
		0, 0, 0, 1,
	}
}

// Multiply two 4x4 matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * m2[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Multiply a 4x4 matrix with a 4 component vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

func (m Mat4) at(r, c int) float32 {
	return m[c*4+r]
}

// Calculate the determinant of the 3x3 submatrix obtained by deleting
// row r and column c.
func (m Mat4) minor(r, c int) float32 {
	var sub [9]float32
	i := 0
	for col := 0; col < 4; col++ {
		if col == c {
			continue
		}
		for row := 0; row < 4; row++ {
			if row == r {
				continue
			}
			sub[i] = m.at(row, col)
			i++
		}
	}

	return sub[0]*(sub[4]*sub[8]-sub[5]*sub[7]) -
		sub[3]*(sub[1]*sub[8]-sub[2]*sub[7]) +
		sub[6]*(sub[1]*sub[5]-sub[2]*sub[4])
}

func (m Mat4) cofactor(r, c int) float32 {
	if (r+c)&1 == 1 {
		return -m.minor(r, c)
	}
	return m.minor(r, c)
}

// Calculate the matrix determinant.
func (m Mat4) Det() float32 {
	var det float32
	for c := 0; c < 4; c++ {
		det += m.at(0, c) * m.cofactor(0, c)
	}
	return det
}

// Calculate the matrix inverse via the adjugate. Singular matrices yield
// the zero matrix.
func (m Mat4) Inv() Mat4 {
	det := m.Det()
	if math32.Abs(det) < floatCmpEpsilon {
		return Mat4{}
	}

	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m.cofactor(c, r) / det
		}
	}
	return out
}

// Extract the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Extract the per-axis scale factors as the lengths of the three basis
// columns. Negative scale cannot be recovered by this method.
func (m Mat4) ScalePart() Vec3 {
	return Vec3{
		Vec3{m[0], m[1], m[2]}.Len(),
		Vec3{m[4], m[5], m[6]}.Len(),
		Vec3{m[8], m[9], m[10]}.Len(),
	}
}

// Extract the rotation component as a unit quaternion. The basis columns
// are normalized first so that scale does not skew the result; a negated
// basis is used when the matrix encodes a reflection.
func (m Mat4) Rotation() Quat {
	c0 := Vec3{m[0], m[1], m[2]}
	c1 := Vec3{m[4], m[5], m[6]}
	c2 := Vec3{m[8], m[9], m[10]}
	if c0.Len() < floatCmpEpsilon || c1.Len() < floatCmpEpsilon || c2.Len() < floatCmpEpsilon {
		return QuatIdent()
	}
	c0, c1, c2 = c0.Normalize(), c1.Normalize(), c2.Normalize()

	// det < 0 indicates a reflection which a quaternion cannot encode.
	det := c0.Dot(c1.Cross(c2))
	if det < 0 {
		c0, c1, c2 = c0.Mul(-1), c1.Mul(-1), c2.Mul(-1)
	}

	m00, m10, m20 := c0[0], c0[1], c0[2]
	m01, m11, m21 := c1[0], c1[1], c1[2]
	m02, m12, m22 := c2[0], c2[1], c2[2]

	var q Quat
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 2 * math32.Sqrt(trace+1)
		q.W = 0.25 * s
		q.V[0] = (m21 - m12) / s
		q.V[1] = (m02 - m20) / s
		q.V[2] = (m10 - m01) / s
	case m00 > m11 && m00 > m22:
		s := 2 * math32.Sqrt(1+m00-m11-m22)
		q.W = (m21 - m12) / s
		q.V[0] = 0.25 * s
		q.V[1] = (m01 + m10) / s
		q.V[2] = (m02 + m20) / s
	case m11 > m22:
		s := 2 * math32.Sqrt(1+m11-m00-m22)
		q.W = (m02 - m20) / s
		q.V[0] = (m01 + m10) / s
		q.V[1] = 0.25 * s
		q.V[2] = (m12 + m21) / s
	default:
		s := 2 * math32.Sqrt(1+m22-m00-m11)
		q.W = (m10 - m01) / s
		q.V[0] = (m02 + m20) / s
		q.V[1] = (m12 + m21) / s
		q.V[2] = 0.25 * s
	}

	return q.Normalize()
}
