// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// AABB is an axis-aligned bounding box defined by its lower and upper bounds.
// Mirrors github.com/g3n/engine/math32.Box2, renamed and narrowed to the
// vocabulary the physics kernel uses (LowerBound/UpperBound rather than
// min/max) to match the spec's data model.
type AABB struct {
	LowerBound Vec2
	UpperBound Vec2
}

// NewAABB creates and returns a pointer to a new AABB.
func NewAABB(lower, upper Vec2) *AABB {
	return &AABB{LowerBound: lower, UpperBound: upper}
}

// Valid returns whether the lower bound is componentwise no greater than the upper bound.
func (b *AABB) Valid() bool {
	d := Sub2(b.UpperBound, b.LowerBound)
	return d.X >= 0 && d.Y >= 0
}

// Center returns the center point of this AABB.
func (b *AABB) Center() Vec2 {
	return Scale2(Add2(b.LowerBound, b.UpperBound), 0.5)
}

// Extents returns the half-widths of this AABB.
func (b *AABB) Extents() Vec2 {
	return Scale2(Sub2(b.UpperBound, b.LowerBound), 0.5)
}

// Perimeter returns the perimeter, 2*(width+height), of this AABB,
// used by the dynamic tree's surface-area heuristic.
func (b *AABB) Perimeter() float32 {
	wx := b.UpperBound.X - b.LowerBound.X
	wy := b.UpperBound.Y - b.LowerBound.Y
	return 2 * (wx + wy)
}

// Combine sets this AABB to the union of a and b. Returns the pointer to this updated AABB.
func (b *AABB) Combine(a, c *AABB) *AABB {
	b.LowerBound = Vec2{Min(a.LowerBound.X, c.LowerBound.X), Min(a.LowerBound.Y, c.LowerBound.Y)}
	b.UpperBound = Vec2{Max(a.UpperBound.X, c.UpperBound.X), Max(a.UpperBound.Y, c.UpperBound.Y)}
	return b
}

// CombineAABB returns the union of a and b without mutating either.
func CombineAABB(a, b AABB) AABB {
	return AABB{
		LowerBound: Vec2{Min(a.LowerBound.X, b.LowerBound.X), Min(a.LowerBound.Y, b.LowerBound.Y)},
		UpperBound: Vec2{Max(a.UpperBound.X, b.UpperBound.X), Max(a.UpperBound.Y, b.UpperBound.Y)},
	}
}

// Contains returns whether this AABB completely contains other.
func (b *AABB) Contains(other *AABB) bool {
	return b.LowerBound.X <= other.LowerBound.X &&
		b.LowerBound.Y <= other.LowerBound.Y &&
		other.UpperBound.X <= b.UpperBound.X &&
		other.UpperBound.Y <= b.UpperBound.Y
}

// TestOverlap returns whether a and b overlap. Symmetric and reflexive on non-empty boxes.
func TestOverlap(a, b *AABB) bool {
	d1 := Sub2(b.LowerBound, a.UpperBound)
	d2 := Sub2(a.LowerBound, b.UpperBound)
	if d1.X > 0 || d1.Y > 0 {
		return false
	}
	if d2.X > 0 || d2.Y > 0 {
		return false
	}
	return true
}

// RayCastInput describes a segment to test against an AABB or shape.
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float32
}

// RayCastOutput describes the result of a successful ray cast.
type RayCastOutput struct {
	Normal   Vec2
	Fraction float32
}

// RayCast performs a slab-method ray cast of the segment in input against this AABB.
func (b *AABB) RayCast(input *RayCastInput) (RayCastOutput, bool) {
	tMin := -Infinity
	tMax := input.MaxFraction

	p := input.P1
	d := Sub2(input.P2, input.P1)
	absD := Vec2{Abs(d.X), Abs(d.Y)}

	var normal Vec2

	axes := [2]struct {
		p, d, absD, lower, upper float32
		n                        Vec2
	}{
		{p.X, d.X, absD.X, b.LowerBound.X, b.UpperBound.X, Vec2{-1, 0}},
		{p.Y, d.Y, absD.Y, b.LowerBound.Y, b.UpperBound.Y, Vec2{0, -1}},
	}

	for _, ax := range axes {
		if ax.absD < Epsilon {
			if ax.p < ax.lower || ax.upper < ax.p {
				return RayCastOutput{}, false
			}
			continue
		}
		inv := 1 / ax.d
		t1 := (ax.lower - ax.p) * inv
		t2 := (ax.upper - ax.p) * inv
		s := float32(1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = -1
		}
		if t1 > tMin {
			normal = Scale2(ax.n, s)
			tMin = t1
		}
		tMax = Min(tMax, t2)
		if tMin > tMax {
			return RayCastOutput{}, false
		}
	}

	if tMin < 0 || tMin > input.MaxFraction {
		return RayCastOutput{}, false
	}
	return RayCastOutput{Normal: normal, Fraction: tMin}, true
}
