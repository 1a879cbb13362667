// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Mat22 is a 2x2 matrix stored by column, following the layout convention
// of github.com/g3n/engine/math32.Matrix3 (column-major flat array) narrowed
// to two dimensions and two columns.
type Mat22 struct {
	Ex Vec2 // first column
	Ey Vec2 // second column
}

// NewMat22 creates a new Mat22 from its two columns.
func NewMat22(ex, ey Vec2) *Mat22 {
	return &Mat22{Ex: ex, Ey: ey}
}

// IdentityMat22 returns the 2x2 identity matrix.
func IdentityMat22() Mat22 {
	return Mat22{Ex: Vec2{1, 0}, Ey: Vec2{0, 1}}
}

// SetAngle sets this matrix as a pure rotation matrix for the given angle.
// Returns the pointer to this updated matrix.
func (m *Mat22) SetAngle(angle float32) *Mat22 {
	c, s := Cos(angle), Sin(angle)
	m.Ex = Vec2{c, s}
	m.Ey = Vec2{-s, c}
	return m
}

// MulMat22Vec multiplies matrix A by vector v.
func MulMat22Vec(a Mat22, v Vec2) Vec2 {
	return Vec2{a.Ex.X*v.X + a.Ey.X*v.Y, a.Ex.Y*v.X + a.Ey.Y*v.Y}
}

// MulTMat22Vec multiplies the transpose of matrix A by vector v.
func MulTMat22Vec(a Mat22, v Vec2) Vec2 {
	return Vec2{Dot2(v, a.Ex), Dot2(v, a.Ey)}
}

// Determinant returns the determinant of this matrix.
func (m *Mat22) Determinant() float32 {
	return m.Ex.X*m.Ey.Y - m.Ey.X*m.Ex.Y
}

// Inverse returns the inverse of this matrix, or the zero matrix if singular.
func (m *Mat22) Inverse() Mat22 {
	a, b, c, d := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a*d - b*c
	if det != 0 {
		det = 1 / det
	}
	return Mat22{
		Ex: Vec2{det * d, -det * c},
		Ey: Vec2{-det * b, det * a},
	}
}

// Solve solves A*x = b for x, using Cramer's rule. Assumes the matrix is invertible.
func (m *Mat22) Solve(b Vec2) Vec2 {
	a11, a12, a21, a22 := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det != 0 {
		det = 1 / det
	}
	return Vec2{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}
