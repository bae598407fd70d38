// Package mat3 provides fixed-size 3x3 matrix and 3-vector arithmetic
// for the MNA engine. The inverse uses the closed-form adjugate
// formula; no iterative solver or general linear-algebra dependency is
// involved, so every operation is deterministic and allocation-free.
package mat3

// Vec is a 3-component column vector.
type Vec [3]float64

// Mat is a 3x3 matrix in row-major order.
type Mat [3][3]float64

// Add returns v + w.
func (v Vec) Add(w Vec) Vec {
	return Vec{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Add returns m + n.
func (m Mat) Add(n Mat) Mat {
	var out Mat
	for i := range m {
		for j := range m[i] {
			out[i][j] = m[i][j] + n[i][j]
		}
	}

	return out
}

// Sub returns m - n.
func (m Mat) Sub(n Mat) Mat {
	var out Mat
	for i := range m {
		for j := range m[i] {
			out[i][j] = m[i][j] - n[i][j]
		}
	}

	return out
}

// MulVec returns m * v.
func (m Mat) MulVec(v Vec) Vec {
	return Vec{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Det returns the determinant by cofactor expansion along the first row.
func (m Mat) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the adjugate-over-determinant inverse. ok is false
// when the matrix is singular (determinant exactly zero), in which
// case the returned matrix is the zero matrix.
func (m Mat) Inverse() (inv Mat, ok bool) {
	det := m.Det()
	if det == 0 {
		return Mat{}, false
	}

	d := 1 / det

	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * d
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * d
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * d
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * d
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * d
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * d
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * d
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * d
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * d

	return inv, true
}
