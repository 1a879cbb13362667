// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape2d

import (
	"testing"

	"github.com/g3n/engine2d/math2"
)

func TestPolygonBoxMass(t *testing.T) {

	hx, hy := float32(0.5), float32(1.5) // 1x3 rectangle
	center := math2.Vec2{X: 100, Y: -50}
	angle := float32(0.25)
	density := float32(1)

	p := NewPolygonBoxAt(hx, hy, center, angle, density)

	if !p.IsConvex() {
		t.Fatal("box polygon should be convex")
	}
	if p.Area() <= 0 {
		t.Fatalf("area should be positive, got %v", p.Area())
	}

	md := p.ComputeMass()
	wantMass := 4 * hx * hy * density
	if math2.Abs(md.Mass-wantMass) > 1e-3 {
		t.Errorf("mass = %v, want %v", md.Mass, wantMass)
	}

	const absTol, relTol = 1e-3, 1e-3
	tol := absTol + relTol*center.Length()
	if md.Center.DistanceTo(&center) > tol {
		t.Errorf("centroid = %v, want near %v (tol %v)", md.Center, center, tol)
	}

	wantI := wantMass/3*(hx*hx+hy*hy) + wantMass*math2.Dot2(center, center)
	iTol := 40 * (absTol + relTol*wantI)
	if math2.Abs(md.I-wantI) > iTol {
		t.Errorf("inertia = %v, want %v (tol %v)", md.I, wantI, iTol)
	}
}

func TestPolygonWeldsNearDuplicates(t *testing.T) {

	pts := []math2.Vec2{
		{0, 0}, {0, 0.0001}, {2, 0}, {2, 2}, {0, 2},
	}
	p, err := NewPolygon(pts, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Vertices) != 4 {
		t.Errorf("expected welding to collapse to 4 vertices, got %d", len(p.Vertices))
	}
}

func TestPolygonRejectsDegenerate(t *testing.T) {

	pts := []math2.Vec2{{0, 0}, {1, 0}}
	if _, err := NewPolygon(pts, 1); err == nil {
		t.Error("expected precondition error for a 2-point polygon")
	}

	collinear := []math2.Vec2{{0, 0}, {1, 0}, {2, 0}}
	if _, err := NewPolygon(collinear, 1); err == nil {
		t.Error("expected precondition error for collinear points")
	}
}

func TestChainGhostVertices(t *testing.T) {

	verts := []math2.Vec2{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	c, err := NewChain(verts, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mid := c.GetChildEdge(1)
	if !mid.HasVertex0 || !mid.HasVertex3 {
		t.Error("interior chain edge should have both ghost vertices")
	}

	first := c.GetChildEdge(0)
	if first.HasVertex0 {
		t.Error("first edge of an open chain should have no leading ghost vertex")
	}
	if !first.HasVertex3 {
		t.Error("first edge of an open chain should still have a trailing ghost vertex")
	}

	loop, err := NewChain(verts, true, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wrapped := loop.GetChildEdge(0)
	if !wrapped.HasVertex0 || !wrapped.HasVertex3 {
		t.Error("looped chain edges should have ghost vertices wired across the closure")
	}
}
