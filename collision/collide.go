// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

// Collide dispatches to the narrow-phase collide function matching
// shapeA/shapeB's concrete types, resolving Edge children out of Chain
// shapes first (spec.md §4.3's shape-pair dispatch table). The A/B order
// of the returned Manifold always matches the order shapeA, shapeB were
// passed, regardless of which internal collide function's argument order
// it took to compute it.
func Collide(shapeA shape2d.IShape, xfA math2.Transform, childA int, shapeB shape2d.IShape, xfB math2.Transform, childB int) Manifold {
	a := resolveChild(shapeA, childA)
	b := resolveChild(shapeB, childB)

	switch sa := a.(type) {
	case *shape2d.Circle:
		switch sb := b.(type) {
		case *shape2d.Circle:
			return CollideCircles(sa, xfA, sb, xfB)
		case *shape2d.Polygon:
			return flipManifold(CollidePolygonAndCircle(sb, xfB, sa, xfA))
		case *shape2d.Edge:
			return flipManifold(CollideEdgeAndCircle(sb, xfB, sa, xfA))
		}
	case *shape2d.Polygon:
		switch sb := b.(type) {
		case *shape2d.Circle:
			return CollidePolygonAndCircle(sa, xfA, sb, xfB)
		case *shape2d.Polygon:
			return CollidePolygons(sa, xfA, sb, xfB)
		case *shape2d.Edge:
			return flipManifold(CollideEdgeAndPolygon(sb, xfB, sa, xfA))
		}
	case *shape2d.Edge:
		switch sb := b.(type) {
		case *shape2d.Circle:
			return CollideEdgeAndCircle(sa, xfA, sb, xfB)
		case *shape2d.Polygon:
			return CollideEdgeAndPolygon(sa, xfA, sb, xfB)
		case *shape2d.Edge:
			// Two boundary edges never generate a solid-contact manifold.
			return Manifold{}
		}
	}
	return Manifold{}
}

// resolveChild returns the concrete leaf shape for a shape's childIndex,
// unwrapping Chain into the one-sided Edge it synthesizes for that child.
func resolveChild(s shape2d.IShape, childIndex int) shape2d.IShape {
	if c, ok := s.(*shape2d.Chain); ok {
		return c.GetChildEdge(childIndex)
	}
	return s
}

// flipManifold swaps the manifold's meaning so a result computed with the
// reference/incident order opposite the caller's A/B order still reports
// through that same A/B order. Circles manifolds are symmetric in their
// data layout and left as computed; FaceA/FaceB swap type and world roles.
func flipManifold(m Manifold) Manifold {
	switch m.Type {
	case ManifoldFaceA:
		m.Type = ManifoldFaceB
	case ManifoldFaceB:
		m.Type = ManifoldFaceA
	}
	return m
}
