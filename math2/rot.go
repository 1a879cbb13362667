// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Rot represents a 2D rotation as a sine/cosine pair, avoiding
// repeated trig calls once constructed from an angle.
type Rot struct {
	S float32 // sin(angle)
	C float32 // cos(angle)
}

// NewRot creates and returns a pointer to a new Rot for the given angle in radians.
func NewRot(angle float32) *Rot {
	r := new(Rot)
	r.Set(angle)
	return r
}

// IdentityRot returns the identity rotation.
func IdentityRot() Rot {
	return Rot{S: 0, C: 1}
}

// Set sets this rotation from an angle in radians. Returns the pointer to this updated rotation.
func (r *Rot) Set(angle float32) *Rot {
	r.S = Sin(angle)
	r.C = Cos(angle)
	return r
}

// SetIdentity sets this rotation to the identity. Returns the pointer to this updated rotation.
func (r *Rot) SetIdentity() *Rot {
	r.S = 0
	r.C = 1
	return r
}

// Angle returns the angle in radians represented by this rotation.
func (r *Rot) Angle() float32 {
	return Atan2(r.S, r.C)
}

// XAxis returns the world direction of the rotation's local x-axis.
func (r *Rot) XAxis() Vec2 {
	return Vec2{r.C, r.S}
}

// YAxis returns the world direction of the rotation's local y-axis.
func (r *Rot) YAxis() Vec2 {
	return Vec2{-r.S, r.C}
}

// MulRot returns the composition q * r (rotate by r, then by q).
func MulRot(q, r Rot) Rot {
	return Rot{S: q.S*r.C + q.C*r.S, C: q.C*r.C - q.S*r.S}
}

// MulTRot returns the relative rotation q^-1 * r.
func MulTRot(q, r Rot) Rot {
	return Rot{S: q.C*r.S - q.S*r.C, C: q.C*r.C + q.S*r.S}
}

// RotVec rotates v by rotation q and returns the result.
func RotVec(q Rot, v Vec2) Vec2 {
	return Vec2{q.C*v.X - q.S*v.Y, q.S*v.X + q.C*v.Y}
}

// MulTRotVec rotates v by the inverse of rotation q and returns the result.
func MulTRotVec(q Rot, v Vec2) Vec2 {
	return Vec2{q.C*v.X + q.S*v.Y, -q.S*v.X + q.C*v.Y}
}
