// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

// CollideCircles generates the (0 or 1 point) manifold between two circles
// in their own local frames, transformed by xfA/xfB (spec.md §4.3).
func CollideCircles(a *shape2d.Circle, xfA math2.Transform, b *shape2d.Circle, xfB math2.Transform) Manifold {
	var m Manifold

	pA := math2.MulTransformVec(xfA, a.Position)
	pB := math2.MulTransformVec(xfB, b.Position)

	d := math2.Sub2(pB, pA)
	distSq := d.LengthSq()
	rA, rB := a.GetRadius(), b.GetRadius()
	radius := rA + rB
	if distSq > radius*radius {
		return m
	}

	m.Type = ManifoldCircles
	m.LocalPoint = a.Position
	m.PointCount = 1
	m.Points[0] = ManifoldPoint{LocalPoint: b.Position}
	return m
}

// CollidePolygonAndCircle generates the manifold between a convex polygon
// and a circle by finding the polygon face nearest the circle center, then
// handling the three region cases (inside, nearest a vertex, nearest the
// face) matching spec.md §4.3's enumerated collide-circle cases.
func CollidePolygonAndCircle(a *shape2d.Polygon, xfA math2.Transform, b *shape2d.Circle, xfB math2.Transform) Manifold {
	var m Manifold

	c := math2.MulTransformVec(xfB, b.Position)
	cLocal := math2.MulTTransformVec(xfA, c)

	radius := a.GetRadius() + b.GetRadius()
	n := len(a.Vertices)

	separation := -math2.Infinity
	normalIndex := 0
	for i := 0; i < n; i++ {
		s := math2.Dot2(a.Normals[i], math2.Sub2(cLocal, a.Vertices[i]))
		if s > radius {
			return m
		}
		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	v1 := a.Vertices[normalIndex]
	v2 := a.Vertices[(normalIndex+1)%n]

	if separation < math2.Epsilon {
		m.Type = ManifoldFaceA
		m.LocalNormal = a.Normals[normalIndex]
		m.LocalPoint = math2.Scale2(math2.Add2(v1, v2), 0.5)
		m.Points[0] = ManifoldPoint{LocalPoint: b.Position}
		m.PointCount = 1
		return m
	}

	u1 := math2.Dot2(math2.Sub2(cLocal, v1), math2.Sub2(v2, v1))
	u2 := math2.Dot2(math2.Sub2(cLocal, v2), math2.Sub2(v1, v2))

	var localNormal math2.Vec2
	var localPoint math2.Vec2

	if u1 <= 0 {
		if cLocal.DistanceToSquared(&v1) > radius*radius {
			return m
		}
		localNormal = math2.Sub2(cLocal, v1)
		localPoint = v1
	} else if u2 <= 0 {
		if cLocal.DistanceToSquared(&v2) > radius*radius {
			return m
		}
		localNormal = math2.Sub2(cLocal, v2)
		localPoint = v2
	} else {
		faceCenter := math2.Scale2(math2.Add2(v1, v2), 0.5)
		s := math2.Dot2(math2.Sub2(cLocal, faceCenter), a.Normals[normalIndex])
		if s > radius {
			return m
		}
		localNormal = a.Normals[normalIndex]
		localPoint = faceCenter
	}

	localNormal.Normalize()
	m.Type = ManifoldFaceA
	m.LocalNormal = localNormal
	m.LocalPoint = localPoint
	m.Points[0] = ManifoldPoint{LocalPoint: b.Position}
	m.PointCount = 1
	return m
}

// CollideEdgeAndCircle generates the manifold between a single edge
// (treated as a two-vertex, zero-area chain link) and a circle, by vertex
// and face regions: in a vertex region the normal points from that vertex
// to the circle center, otherwise it is the edge normal turned toward the
// circle's side. OneSided and the ghost vertices are not consulted.
func CollideEdgeAndCircle(a *shape2d.Edge, xfA math2.Transform, b *shape2d.Circle, xfB math2.Transform) Manifold {
	var m Manifold

	c := math2.MulTransformVec(xfB, b.Position)
	q := math2.MulTTransformVec(xfA, c)

	v1, v2 := a.Vertex1, a.Vertex2
	e := math2.Sub2(v2, v1)

	u := math2.Dot2(math2.Sub2(v2, q), e)
	v := math2.Dot2(math2.Sub2(q, v1), e)

	radius := a.GetRadius() + b.GetRadius()

	var pA math2.Vec2
	var normal math2.Vec2
	if v <= 0 {
		pA = v1
		d := math2.Sub2(q, v1)
		if d.LengthSq() > radius*radius {
			return m
		}
		normal = d
	} else if u <= 0 {
		pA = v2
		d := math2.Sub2(q, v2)
		if d.LengthSq() > radius*radius {
			return m
		}
		normal = d
	} else {
		ee := math2.Dot2(e, e)
		if ee <= math2.Epsilon {
			return m
		}
		pA = math2.Scale2(math2.Add2(math2.Scale2(v1, u), math2.Scale2(v2, v)), 1/ee)
		d := math2.Sub2(q, pA)
		if d.LengthSq() > radius*radius {
			return m
		}
		normal = e.Skew()
		if math2.Dot2(normal, math2.Sub2(q, v1)) < 0 {
			normal = math2.Neg2(normal)
		}
	}

	normal.Normalize()
	m.Type = ManifoldFaceA
	m.LocalNormal = normal
	m.LocalPoint = pA
	m.Points[0] = ManifoldPoint{LocalPoint: b.Position}
	m.PointCount = 1
	return m
}
