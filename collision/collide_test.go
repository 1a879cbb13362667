// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"testing"

	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

func identityAt(p math2.Vec2) math2.Transform {
	xf := math2.IdentityTransform()
	xf.P = p
	return xf
}

func TestCollideCirclesOverlap(t *testing.T) {
	a := shape2d.NewCircle(math2.Vec2{}, 1, 1)
	b := shape2d.NewCircle(math2.Vec2{}, 1, 1)

	m := CollideCircles(a, identityAt(math2.Vec2{X: 0, Y: 0}), b, identityAt(math2.Vec2{X: 1.5, Y: 0}))
	if m.PointCount != 1 {
		t.Fatalf("expected overlapping circles to produce 1 point, got %d", m.PointCount)
	}

	wm := ComputeWorldManifold(&m, identityAt(math2.Vec2{X: 0, Y: 0}), a.GetRadius(), identityAt(math2.Vec2{X: 1.5, Y: 0}), b.GetRadius())
	if wm.Separations[0] >= 0 {
		t.Errorf("expected negative separation for overlapping circles, got %v", wm.Separations[0])
	}
}

func TestCollideCirclesNoOverlap(t *testing.T) {
	a := shape2d.NewCircle(math2.Vec2{}, 1, 1)
	b := shape2d.NewCircle(math2.Vec2{}, 1, 1)

	m := CollideCircles(a, identityAt(math2.Vec2{X: 0, Y: 0}), b, identityAt(math2.Vec2{X: 10, Y: 0}))
	if m.PointCount != 0 {
		t.Errorf("expected separated circles to produce no manifold, got %d points", m.PointCount)
	}
}

func TestCollidePolygonsFaceManifold(t *testing.T) {
	a := shape2d.NewPolygonBox(1, 1, 1)
	b := shape2d.NewPolygonBox(1, 1, 1)

	// b sits directly above a, overlapping by 0.5 units.
	m := CollidePolygons(a, math2.IdentityTransform(), b, identityAt(math2.Vec2{X: 0, Y: 1.5}))
	if m.PointCount != 2 {
		t.Fatalf("expected 2-point face manifold between overlapping boxes, got %d", m.PointCount)
	}
	if m.Type != ManifoldFaceA && m.Type != ManifoldFaceB {
		t.Errorf("expected a face manifold type, got %v", m.Type)
	}
}

// TestCollidePolygonsFlatContactPointsHaveDistinctIDs reproduces the most
// common resting contact shape (an axis-aligned box flat on another box,
// where both incident vertices survive clipping untouched) and checks the
// two manifold points don't collide on ContactID.Key(), since
// physics/contact.go's warmStart matches surviving points by that key to
// carry impulses forward across steps.
func TestCollidePolygonsFlatContactPointsHaveDistinctIDs(t *testing.T) {
	a := shape2d.NewPolygonBox(1, 1, 1)
	b := shape2d.NewPolygonBox(1, 1, 1)

	m := CollidePolygons(a, math2.IdentityTransform(), b, identityAt(math2.Vec2{X: 0, Y: 1.9}))
	if m.PointCount != 2 {
		t.Fatalf("expected 2-point face manifold for a flat box resting on a box, got %d", m.PointCount)
	}
	if m.Points[0].ID.Key() == m.Points[1].ID.Key() {
		t.Errorf("expected distinct ContactIDs for the two unclipped incident vertices, both keyed %d", m.Points[0].ID.Key())
	}
}

func TestGJKDistanceSeparatedBoxes(t *testing.T) {
	a := shape2d.NewPolygonBox(1, 1, 1)
	b := shape2d.NewPolygonBox(1, 1, 1)

	proxyA := MakeDistanceProxy(a, 0)
	proxyB := MakeDistanceProxy(b, 0)

	out := ComputeDistance(proxyA, math2.IdentityTransform(), proxyB, identityAt(math2.Vec2{X: 5, Y: 0}), nil, false)
	want := float32(3) // gap between box edges at x=1 and x=4
	if math2.Abs(out.Distance-want) > 1e-3 {
		t.Errorf("distance = %v, want %v", out.Distance, want)
	}
}

func TestTimeOfImpactRectangles(t *testing.T) {
	a := shape2d.NewPolygonBox(0.5, 0.5, 1)
	b := shape2d.NewPolygonBox(0.5, 0.5, 1)

	proxyA := MakeDistanceProxy(a, 0)
	proxyB := MakeDistanceProxy(b, 0)

	sweepA := math2.Sweep{C0: math2.Vec2{X: 0, Y: 0}, C: math2.Vec2{X: 0, Y: 0}}
	sweepB := math2.Sweep{C0: math2.Vec2{X: 5, Y: 0}, C: math2.Vec2{X: 0.4, Y: 0}}

	out := TimeOfImpact(TOIInput{ProxyA: proxyA, ProxyB: proxyB, SweepA: sweepA, SweepB: sweepB, TMax: 1})
	if out.State != TOIStateTouching {
		t.Fatalf("expected the approaching boxes to register a touching TOI, got state %v", out.State)
	}
	if out.T <= 0 || out.T > 1 {
		t.Errorf("expected T in (0,1], got %v", out.T)
	}
}
