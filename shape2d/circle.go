// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape2d

import "github.com/g3n/engine2d/math2"

// Circle is a circle shape defined by a local-space position and radius.
type Circle struct {
	base
	Position math2.Vec2
}

// NewCircle creates and returns a pointer to a new Circle shape.
func NewCircle(position math2.Vec2, radius, density float32) *Circle {
	c := new(Circle)
	c.shapeType = TypeCircle
	c.radius = radius
	c.density = density
	c.Position = position
	return c
}

func (c *Circle) GetChildCount() int { return 1 }

func (c *Circle) ComputeAABB(xf math2.Transform, childIndex int) math2.AABB {
	p := math2.MulTransformVec(xf, c.Position)
	r := math2.Vec2{X: c.radius, Y: c.radius}
	return math2.AABB{
		LowerBound: math2.Sub2(p, r),
		UpperBound: math2.Add2(p, r),
	}
}

func (c *Circle) ComputeMass() MassData {
	mass := c.density * math2.Pi * c.radius * c.radius
	// I about the centroid, then parallel-axis shifted to the local origin.
	iCentroid := 0.5 * mass * c.radius * c.radius
	i := iCentroid + mass*math2.Dot2(c.Position, c.Position)
	return MassData{Mass: mass, Center: c.Position, I: i}
}

func (c *Circle) TestPoint(xf math2.Transform, p math2.Vec2) bool {
	center := math2.Add2(xf.P, math2.RotVec(xf.Q, c.Position))
	d := math2.Sub2(p, center)
	return math2.Dot2(d, d) <= c.radius*c.radius
}

func (c *Circle) RayCast(input *math2.RayCastInput, xf math2.Transform, childIndex int) (math2.RayCastOutput, bool) {
	position := math2.Add2(xf.P, math2.RotVec(xf.Q, c.Position))
	s := math2.Sub2(input.P1, position)
	b := math2.Dot2(s, s) - c.radius*c.radius

	r := math2.Sub2(input.P2, input.P1)
	rr := math2.Dot2(r, r)
	cc := math2.Dot2(s, r)
	sigma := cc*cc - rr*b
	if sigma < 0 || rr < math2.Epsilon {
		return math2.RayCastOutput{}, false
	}

	t := -(cc + math2.Sqrt(sigma))
	if t >= 0 && t <= input.MaxFraction*rr {
		t /= rr
		normal := math2.Add2(s, math2.Scale2(r, t))
		normal.Normalize()
		return math2.RayCastOutput{Normal: normal, Fraction: t}, true
	}
	return math2.RayCastOutput{}, false
}
