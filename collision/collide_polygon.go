// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

// findMaxSeparation returns the edge of poly1 with the largest separation
// of poly2's vertices along its normal, and that separation; both vertex
// sets are given in the same (world) frame. Ties between edges keep the
// lower edge index. CollidePolygons prefers shape A as the reference
// polygon unless B's separation exceeds A's by more than a small tolerance.
func findMaxSeparation(verts1, norms1 []math2.Vec2, verts2 []math2.Vec2) (int, float32) {
	bestIndex := 0
	bestSeparation := -math2.Infinity

	for i := range verts1 {
		n := norms1[i]
		v1 := verts1[i]

		minVal := math2.Infinity
		for j := range verts2 {
			sij := math2.Dot2(n, math2.Sub2(verts2[j], v1))
			if sij < minVal {
				minVal = sij
			}
		}
		if minVal > bestSeparation {
			bestSeparation = minVal
			bestIndex = i
		}
	}
	return bestIndex, bestSeparation
}

// findIncidentEdge returns the index of the edge of verts2/norms2 whose
// normal is most anti-parallel to the reference edge's normal (transformed
// into shape 2's frame), the standard choice of incident face in SAT
// manifold clipping.
func findIncidentEdge(refNormal math2.Vec2, norms2 []math2.Vec2) int {
	index := 0
	minDot := math2.Infinity
	for i, n := range norms2 {
		d := math2.Dot2(refNormal, n)
		if d < minDot {
			minDot = d
			index = i
		}
	}
	return index
}

// CollidePolygons generates the (0, 1 or 2 point) manifold between two
// convex polygons using the separating-axis test to pick a reference face
// then clipping the incident edge against the reference face's side
// planes, in the teacher-absent algorithm spec.md §4.3 specifies directly
// (Box2D's b2CollidePolygons).
func CollidePolygons(a *shape2d.Polygon, xfA math2.Transform, b *shape2d.Polygon, xfB math2.Transform) Manifold {
	var m Manifold

	totalRadius := a.GetRadius() + b.GetRadius()

	vertsA := transformVertices(a.Vertices, xfA)
	vertsB := transformVertices(b.Vertices, xfB)
	normsA := transformNormals(a.Normals, xfA)
	normsB := transformNormals(b.Normals, xfB)

	edgeA, separationA := findMaxSeparation(vertsA, normsA, vertsB)
	if separationA > totalRadius {
		return m
	}
	edgeB, separationB := findMaxSeparation(vertsB, normsB, vertsA)
	if separationB > totalRadius {
		return m
	}

	var refVerts, refNorms, incVerts, incNorms []math2.Vec2
	var refEdge int
	flip := false
	const tol = 0.1 * shape2d.LinearSlop

	if separationB > separationA+tol {
		refVerts, refNorms, refEdge = vertsB, normsB, edgeB
		incVerts, incNorms = vertsA, normsA
		flip = true
	} else {
		refVerts, refNorms, refEdge = vertsA, normsA, edgeA
		incVerts, incNorms = vertsB, normsB
		flip = false
	}

	incEdge := findIncidentEdge(refNorms[refEdge], incNorms)
	n1 := len(incVerts)
	i1, i2 := incEdge, (incEdge+1)%n1

	v11 := refVerts[refEdge]
	v12 := refVerts[(refEdge+1)%len(refVerts)]
	tangent := math2.Sub2(v12, v11)
	tangent.Normalize()
	normal := tangent.Skew()

	// Tag each unclipped incident vertex with its own index so two points
	// that survive clipping untouched (the common flat face-on-face rest
	// contact) still carry distinct ContactIDs for warm-start matching.
	var vIn [2]ClipVertex
	vIn[0] = ClipVertex{Point: incVerts[i1]}
	vIn[0].ID.Feature.IndexA = byte(refEdge)
	vIn[0].ID.Feature.TypeA = FeatureFace
	vIn[0].ID.Feature.IndexB = byte(i1)
	vIn[0].ID.Feature.TypeB = FeatureVertex
	vIn[1] = ClipVertex{Point: incVerts[i2]}
	vIn[1].ID.Feature.IndexA = byte(refEdge)
	vIn[1].ID.Feature.TypeA = FeatureFace
	vIn[1].ID.Feature.IndexB = byte(i2)
	vIn[1].ID.Feature.TypeB = FeatureVertex

	lowerOffset := math2.Dot2(tangent, v11)
	vOut1, count1 := ClipSegmentToLine(vIn, math2.Neg2(tangent), -lowerOffset, byte(refEdge))
	if count1 < 2 {
		return m
	}

	upperOffset := math2.Dot2(tangent, v12)
	vOut2, count2 := ClipSegmentToLine(vOut1, tangent, upperOffset, byte((refEdge+1)%len(refVerts)))
	if count2 < 2 {
		return m
	}

	pointCount := 0
	for i := 0; i < 2; i++ {
		sep := math2.Dot2(normal, math2.Sub2(vOut2[i].Point, v11))
		if sep <= totalRadius {
			id := vOut2[i].ID
			if flip {
				// The clip IDs above were built assuming A is the reference
				// shape; when B is actually the reference, swap the A/B
				// halves of the feature so the ID still names "the face
				// side" and "the vertex side" consistently across frames
				// where the reference face flips between A and B.
				id.Feature.IndexA, id.Feature.IndexB = id.Feature.IndexB, id.Feature.IndexA
				id.Feature.TypeA, id.Feature.TypeB = id.Feature.TypeB, id.Feature.TypeA
			}
			mp := ManifoldPoint{ID: id}
			// Points are stored in the incident shape's own local frame:
			// A is incident when the reference face is B (flip), and vice versa.
			if flip {
				mp.LocalPoint = math2.MulTTransformVec(xfA, vOut2[i].Point)
			} else {
				mp.LocalPoint = math2.MulTTransformVec(xfB, vOut2[i].Point)
			}
			m.Points[pointCount] = mp
			pointCount++
		}
	}

	if pointCount == 0 {
		return m
	}

	m.PointCount = pointCount
	if flip {
		m.Type = ManifoldFaceB
		m.LocalNormal = math2.MulTRotVec(xfB.Q, normal)
		m.LocalPoint = math2.MulTTransformVec(xfB, v11)
	} else {
		m.Type = ManifoldFaceA
		m.LocalNormal = math2.MulTRotVec(xfA.Q, normal)
		m.LocalPoint = math2.MulTTransformVec(xfA, v11)
	}
	return m
}

// CollideEdgeAndPolygon generates the manifold between a single (possibly
// one-sided) edge and a convex polygon, by treating the edge as a
// two-vertex reference face and reusing the same clip-the-incident-edge
// logic as CollidePolygons. A one-sided edge rejects polygons approaching
// from behind its normal.
func CollideEdgeAndPolygon(a *shape2d.Edge, xfA math2.Transform, b *shape2d.Polygon, xfB math2.Transform) Manifold {
	var m Manifold

	edgeVerts := []math2.Vec2{a.Vertex1, a.Vertex2}
	edgeDir := math2.Sub2(a.Vertex2, a.Vertex1)
	edgeNormal := edgeDir.Skew()
	edgeNormal.Normalize()
	edgeNorms := []math2.Vec2{edgeNormal, math2.Neg2(edgeNormal)}

	totalRadius := a.GetRadius() + b.GetRadius()

	vertsA := transformVertices(edgeVerts, xfA)
	normsA := transformNormals(edgeNorms, xfA)
	vertsB := transformVertices(b.Vertices, xfB)
	normsB := transformNormals(b.Normals, xfB)

	// Only the edge's one real outward normal is a valid separating axis
	// candidate on the edge side; a one-sided edge further rejects the
	// polygon approaching from the back face.
	_, sepFront := findMaxSeparationSingle(vertsA[0], normsA[0], vertsB)
	if sepFront > totalRadius {
		return m
	}
	if a.OneSided {
		centroidB := math2.MulTransformVec(xfB, b.Centroid)
		if math2.Dot2(normsA[0], math2.Sub2(centroidB, vertsA[0])) < 0 {
			return m
		}
	}

	edgeB, separationB := findMaxSeparation(vertsB, normsB, vertsA)
	if separationB > totalRadius {
		return m
	}

	const tol = 0.1 * shape2d.LinearSlop
	var refVerts, refNorms, incVerts, incNorms []math2.Vec2
	var refEdgeIdx int
	flip := false

	if separationB > sepFront+tol {
		refVerts, refNorms, refEdgeIdx = vertsB, normsB, edgeB
		incVerts, incNorms = vertsA, []math2.Vec2{normsA[0]}
		flip = true
	} else {
		refVerts = vertsA
		refNorms = []math2.Vec2{normsA[0]}
		refEdgeIdx = 0
		incVerts, incNorms = vertsB, normsB
		flip = false
	}

	var incEdge int
	if flip {
		incEdge = 0
	} else {
		incEdge = findIncidentEdge(refNorms[refEdgeIdx], incNorms)
	}
	n1 := len(incVerts)
	i1, i2 := incEdge%n1, (incEdge+1)%n1

	refLen := len(refVerts)
	v11 := refVerts[refEdgeIdx]
	v12 := refVerts[(refEdgeIdx+1)%refLen]
	tangent := math2.Sub2(v12, v11)
	tangent.Normalize()
	normal := tangent.Skew()

	i2idx := i2 % n1
	if n1 == 2 {
		i2idx = 1
	}

	// Tag each unclipped incident vertex with its own index so two points
	// that survive clipping untouched still carry distinct ContactIDs for
	// warm-start matching (mirrors CollidePolygons above).
	var vIn [2]ClipVertex
	vIn[0] = ClipVertex{Point: incVerts[i1]}
	vIn[0].ID.Feature.IndexA = byte(refEdgeIdx)
	vIn[0].ID.Feature.TypeA = FeatureFace
	vIn[0].ID.Feature.IndexB = byte(i1)
	vIn[0].ID.Feature.TypeB = FeatureVertex
	vIn[1] = ClipVertex{Point: incVerts[i2idx]}
	vIn[1].ID.Feature.IndexA = byte(refEdgeIdx)
	vIn[1].ID.Feature.TypeA = FeatureFace
	vIn[1].ID.Feature.IndexB = byte(i2idx)
	vIn[1].ID.Feature.TypeB = FeatureVertex

	lowerOffset := math2.Dot2(tangent, v11)
	vOut1, count1 := ClipSegmentToLine(vIn, math2.Neg2(tangent), -lowerOffset, byte(refEdgeIdx))
	if count1 < 2 {
		return m
	}
	upperOffset := math2.Dot2(tangent, v12)
	vOut2, count2 := ClipSegmentToLine(vOut1, tangent, upperOffset, byte((refEdgeIdx+1)%refLen))
	if count2 < 2 {
		return m
	}

	pointCount := 0
	for i := 0; i < 2; i++ {
		sep := math2.Dot2(normal, math2.Sub2(vOut2[i].Point, v11))
		if sep <= totalRadius {
			id := vOut2[i].ID
			if flip {
				id.Feature.IndexA, id.Feature.IndexB = id.Feature.IndexB, id.Feature.IndexA
				id.Feature.TypeA, id.Feature.TypeB = id.Feature.TypeB, id.Feature.TypeA
			}
			mp := ManifoldPoint{ID: id}
			if flip {
				mp.LocalPoint = math2.MulTTransformVec(xfA, vOut2[i].Point)
			} else {
				mp.LocalPoint = math2.MulTTransformVec(xfB, vOut2[i].Point)
			}
			m.Points[pointCount] = mp
			pointCount++
		}
	}
	if pointCount == 0 {
		return m
	}

	m.PointCount = pointCount
	if flip {
		m.Type = ManifoldFaceB
		m.LocalNormal = math2.MulTRotVec(xfB.Q, normal)
		m.LocalPoint = math2.MulTTransformVec(xfB, v11)
	} else {
		m.Type = ManifoldFaceA
		m.LocalNormal = math2.MulTRotVec(xfA.Q, normal)
		m.LocalPoint = math2.MulTTransformVec(xfA, v11)
	}
	return m
}

func findMaxSeparationSingle(v math2.Vec2, n math2.Vec2, verts2 []math2.Vec2) (int, float32) {
	minVal := math2.Infinity
	for _, p := range verts2 {
		s := math2.Dot2(n, math2.Sub2(p, v))
		if s < minVal {
			minVal = s
		}
	}
	return 0, minVal
}

func transformVertices(verts []math2.Vec2, xf math2.Transform) []math2.Vec2 {
	out := make([]math2.Vec2, len(verts))
	for i, v := range verts {
		out[i] = math2.MulTransformVec(xf, v)
	}
	return out
}

func transformNormals(norms []math2.Vec2, xf math2.Transform) []math2.Vec2 {
	out := make([]math2.Vec2, len(norms))
	for i, n := range norms {
		out[i] = math2.RotVec(xf.Q, n)
	}
	return out
}
