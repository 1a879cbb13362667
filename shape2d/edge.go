// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape2d

import "github.com/g3n/engine2d/math2"

// Edge is a line segment shape with two optional ghost vertices used to
// resolve ghost-collision ambiguity against neighboring edges (spec.md
// §3, §4.3). OneSided marks an edge that should only collide with
// polygons approaching from the side its normal points toward.
type Edge struct {
	base
	Vertex1, Vertex2 math2.Vec2
	Vertex0          math2.Vec2 // ghost vertex before Vertex1
	Vertex3          math2.Vec2 // ghost vertex after Vertex2
	HasVertex0       bool
	HasVertex3       bool
	OneSided         bool
}

// NewEdge creates and returns a pointer to a new two-sided Edge shape.
func NewEdge(v1, v2 math2.Vec2, density float32) *Edge {
	e := new(Edge)
	e.shapeType = TypeEdge
	e.radius = PolygonRadius
	e.density = density
	e.Vertex1 = v1
	e.Vertex2 = v2
	return e
}

// SetGhostVertex0 attaches the ghost vertex preceding Vertex1.
func (e *Edge) SetGhostVertex0(v math2.Vec2) {
	e.Vertex0 = v
	e.HasVertex0 = true
}

// SetGhostVertex3 attaches the ghost vertex following Vertex2.
func (e *Edge) SetGhostVertex3(v math2.Vec2) {
	e.Vertex3 = v
	e.HasVertex3 = true
}

func (e *Edge) GetChildCount() int { return 1 }

func (e *Edge) ComputeAABB(xf math2.Transform, childIndex int) math2.AABB {
	v1 := math2.MulTransformVec(xf, e.Vertex1)
	v2 := math2.MulTransformVec(xf, e.Vertex2)
	lower := v1
	lower.Min(&v2)
	upper := v1
	upper.Max(&v2)
	r := math2.Vec2{X: e.radius, Y: e.radius}
	return math2.AABB{LowerBound: math2.Sub2(lower, r), UpperBound: math2.Add2(upper, r)}
}

// ComputeMass treats the edge as having no area; mass is zero and it
// contributes no inertia, matching spec.md's treatment of edges as
// boundary geometry rather than solid bodies (typically attached to
// static bodies).
func (e *Edge) ComputeMass() MassData {
	mid := math2.Scale2(math2.Add2(e.Vertex1, e.Vertex2), 0.5)
	return MassData{Mass: 0, Center: mid, I: 0}
}

func (e *Edge) TestPoint(xf math2.Transform, p math2.Vec2) bool {
	return false // a zero-area edge contains no interior point
}

func (e *Edge) RayCast(input *math2.RayCastInput, xf math2.Transform, childIndex int) (math2.RayCastOutput, bool) {
	p1 := math2.MulTTransformVec(xf, input.P1)
	p2 := math2.MulTTransformVec(xf, input.P2)
	d := math2.Sub2(p2, p1)

	v1 := e.Vertex1
	v2 := e.Vertex2
	edge := math2.Sub2(v2, v1)
	normal := edge.Skew()
	normal.Normalize()

	denominator := math2.Dot2(d, normal)
	if denominator == 0 {
		return math2.RayCastOutput{}, false
	}
	numerator := math2.Dot2(normal, math2.Sub2(v1, p1))
	t := numerator / denominator
	if t < 0 || t > input.MaxFraction {
		return math2.RayCastOutput{}, false
	}

	point := math2.Add2(p1, math2.Scale2(d, t))
	rr := math2.Dot2(edge, edge)
	if rr == 0 {
		return math2.RayCastOutput{}, false
	}
	s := math2.Dot2(math2.Sub2(point, v1), edge) / rr
	if s < 0 || s > 1 {
		return math2.RayCastOutput{}, false
	}

	n := normal
	if denominator > 0 {
		n = math2.Neg2(n)
	}
	worldNormal := math2.RotVec(xf.Q, n)
	return math2.RayCastOutput{Normal: worldNormal, Fraction: t}, true
}
