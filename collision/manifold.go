// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import "github.com/g3n/engine2d/math2"

// ManifoldType records what geometry produced a Manifold, which the
// contact solver needs to reconstruct world-space points and normals
// every step from the cached local data (spec.md §4.3).
type ManifoldType int

const (
	ManifoldCircles ManifoldType = iota
	ManifoldFaceA
	ManifoldFaceB
)

// MaxManifoldPoints bounds the points a single manifold can carry. Two
// convex shapes touch along at most a segment, hence at most 2 points.
const MaxManifoldPoints = 2

// ContactFeature tags which vertex/edge pair on each shape produced a
// manifold point, letting ContactID stay stable across steps so the
// solver can carry a point's accumulated impulse forward as warm start.
type ContactFeatureType uint8

const (
	FeatureVertex ContactFeatureType = iota
	FeatureFace
)

type ContactFeature struct {
	IndexA, IndexB byte
	TypeA, TypeB   ContactFeatureType
}

// ContactID identifies a manifold point across steps for impulse warm-starting.
type ContactID struct {
	Feature ContactFeature
}

func (a ContactID) Key() uint32 {
	return uint32(a.Feature.IndexA) | uint32(a.Feature.IndexB)<<8 |
		uint32(a.Feature.TypeA)<<16 | uint32(a.Feature.TypeB)<<24
}

// ManifoldPoint is one contact point in a manifold's local frame, along
// with the warm-startable impulse accumulators the solver carries between
// steps and the id used to match this point across re-collision.
type ManifoldPoint struct {
	LocalPoint     math2.Vec2
	NormalImpulse  float32
	TangentImpulse float32
	ID             ContactID
}

// Manifold is the local-frame result of narrow-phase collision between two
// shapes: 0, 1 or 2 points sharing one local normal/reference geometry,
// ready to be converted to world space by WorldManifold (spec.md §4.3).
type Manifold struct {
	Type        ManifoldType
	LocalPoint  math2.Vec2 // circle center (Circles) or reference face anchor (FaceA/FaceB)
	LocalNormal math2.Vec2 // reference face normal (FaceA/FaceB); unused for Circles
	Points      [MaxManifoldPoints]ManifoldPoint
	PointCount  int
}

// WorldManifold holds a manifold's points transformed to world space,
// with the solver-ready normal and per-point separation.
type WorldManifold struct {
	Normal     math2.Vec2
	Points     [MaxManifoldPoints]math2.Vec2
	Separations [MaxManifoldPoints]float32
}

// ComputeWorldManifold expands a local-frame Manifold against the two
// shapes' current transforms and radii into world-space points, a shared
// normal, and per-point separation (negative = penetrating).
func ComputeWorldManifold(m *Manifold, xfA math2.Transform, radiusA float32, xfB math2.Transform, radiusB float32) WorldManifold {
	var wm WorldManifold
	if m.PointCount == 0 {
		return wm
	}

	switch m.Type {
	case ManifoldCircles:
		pointA := math2.MulTransformVec(xfA, m.LocalPoint)
		pointB := math2.MulTransformVec(xfB, m.Points[0].LocalPoint)
		normal := math2.Vec2{X: 1, Y: 0}
		if pointB.DistanceToSquared(&pointA) > math2.Epsilon*math2.Epsilon {
			normal = math2.Sub2(pointB, pointA)
			normal.Normalize()
		}
		cA := math2.Add2(pointA, math2.Scale2(normal, radiusA))
		cB := math2.Sub2(pointB, math2.Scale2(normal, radiusB))
		wm.Normal = normal
		wm.Points[0] = math2.Scale2(math2.Add2(cA, cB), 0.5)
		wm.Separations[0] = math2.Dot2(math2.Sub2(cB, cA), normal)

	case ManifoldFaceA:
		normal := math2.RotVec(xfA.Q, m.LocalNormal)
		planePoint := math2.MulTransformVec(xfA, m.LocalPoint)
		wm.Normal = normal
		for i := 0; i < m.PointCount; i++ {
			clipPoint := math2.MulTransformVec(xfB, m.Points[i].LocalPoint)
			cA := math2.Add2(clipPoint, math2.Scale2(normal, radiusA-math2.Dot2(math2.Sub2(clipPoint, planePoint), normal)))
			cB := math2.Sub2(clipPoint, math2.Scale2(normal, radiusB))
			wm.Points[i] = math2.Scale2(math2.Add2(cA, cB), 0.5)
			wm.Separations[i] = math2.Dot2(math2.Sub2(cB, cA), normal)
		}

	case ManifoldFaceB:
		normal := math2.RotVec(xfB.Q, m.LocalNormal)
		planePoint := math2.MulTransformVec(xfB, m.LocalPoint)
		// Flip so the normal always points from A to B, matching FaceA's convention.
		wm.Normal = math2.Neg2(normal)
		for i := 0; i < m.PointCount; i++ {
			clipPoint := math2.MulTransformVec(xfA, m.Points[i].LocalPoint)
			cB := math2.Add2(clipPoint, math2.Scale2(normal, radiusB-math2.Dot2(math2.Sub2(clipPoint, planePoint), normal)))
			cA := math2.Sub2(clipPoint, math2.Scale2(normal, radiusA))
			wm.Points[i] = math2.Scale2(math2.Add2(cA, cB), 0.5)
			wm.Separations[i] = math2.Dot2(math2.Sub2(cA, cB), normal)
		}
	}
	return wm
}

// ClipVertex is one endpoint threaded through ClipSegmentToLine, carrying
// the ContactID of the feature it originated from so ids survive clipping.
type ClipVertex struct {
	Point math2.Vec2
	ID    ContactID
}

// ClipSegmentToLine clips segment vIn against the half-space
// dot(normal,x) <= offset, returning the (0, 1 or 2) vertices that remain,
// synthesizing a new ContactID for any newly-created intersection vertex
// tagged with edgeIndex (spec.md §4.3).
func ClipSegmentToLine(vIn [2]ClipVertex, normal math2.Vec2, offset float32, edgeIndex byte) ([2]ClipVertex, int) {
	var vOut [2]ClipVertex
	count := 0

	distance0 := math2.Dot2(normal, vIn[0].Point) - offset
	distance1 := math2.Dot2(normal, vIn[1].Point) - offset

	if distance0 <= 0 {
		vOut[count] = vIn[0]
		count++
	}
	if distance1 <= 0 {
		vOut[count] = vIn[1]
		count++
	}

	if distance0*distance1 < 0 {
		interp := distance0 / (distance0 - distance1)
		vOut[count].Point = math2.Add2(vIn[0].Point, math2.Scale2(math2.Sub2(vIn[1].Point, vIn[0].Point), interp))
		vOut[count].ID.Feature.IndexA = edgeIndex
		vOut[count].ID.Feature.TypeA = FeatureFace
		count++
	}

	return vOut, count
}
