// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Transform is a position and rotation, used to convert between the local
// coordinate frame of a shape and the world frame.
type Transform struct {
	P Vec2
	Q Rot
}

// NewTransform creates a new Transform from a position and rotation.
func NewTransform(p Vec2, q Rot) *Transform {
	return &Transform{P: p, Q: q}
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{P: Vec2{0, 0}, Q: IdentityRot()}
}

// SetIdentity resets this transform to the identity. Returns the pointer to this updated transform.
func (t *Transform) SetIdentity() *Transform {
	t.P.Zero()
	t.Q.SetIdentity()
	return t
}

// Set sets this transform's position and angle. Returns the pointer to this updated transform.
func (t *Transform) Set(p Vec2, angle float32) *Transform {
	t.P = p
	t.Q.Set(angle)
	return t
}

// MulTransformVec converts a local point/vector v into the world frame defined by t.
func MulTransformVec(t Transform, v Vec2) Vec2 {
	return Vec2{
		(t.Q.C*v.X-t.Q.S*v.Y) + t.P.X,
		(t.Q.S*v.X+t.Q.C*v.Y) + t.P.Y,
	}
}

// MulTTransformVec converts a world point/vector v into the local frame defined by t.
func MulTTransformVec(t Transform, v Vec2) Vec2 {
	px := v.X - t.P.X
	py := v.Y - t.P.Y
	return Vec2{t.Q.C*px + t.Q.S*py, -t.Q.S*px + t.Q.C*py}
}

// MulTransforms composes two transforms: applying the result to a point is
// equivalent to applying B, then A.
func MulTransforms(a, b Transform) Transform {
	return Transform{
		Q: MulRot(a.Q, b.Q),
		P: Add2(RotVec(a.Q, b.P), a.P),
	}
}

// MulTTransforms computes the relative transform of b in a's frame.
func MulTTransforms(a, b Transform) Transform {
	return Transform{
		Q: MulTRot(a.Q, b.Q),
		P: MulTRotVec(a.Q, Sub2(b.P, a.P)),
	}
}
