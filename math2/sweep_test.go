// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

import "testing"

// Test that GetTransform reproduces the sweep's two endpoints.
func TestSweepGetTransformEndpoints(t *testing.T) {

	s := Sweep{
		LocalCenter: Vec2{0, 0},
		C0:          Vec2{-2, 4},
		C:           Vec2{3, 8},
		A0:          0.5,
		A:           5,
		Alpha0:      0,
	}

	x0 := s.GetTransform(0)
	if !x0.P.Equals(&s.C0) {
		t.Errorf("GetTransform(0).P = %v, want %v", x0.P, s.C0)
	}
	if Abs(x0.Q.C-Cos(s.A0)) > 1e-5 {
		t.Errorf("GetTransform(0).Q.C = %v, want %v", x0.Q.C, Cos(s.A0))
	}

	x1 := s.GetTransform(1)
	if !x1.P.Equals(&s.C) {
		t.Errorf("GetTransform(1).P = %v, want %v", x1.P, s.C)
	}
	if Abs(x1.Q.C-Cos(s.A)) > 1e-5 {
		t.Errorf("GetTransform(1).Q.C = %v, want %v", x1.Q.C, Cos(s.A))
	}
}

func TestAABBTestOverlap(t *testing.T) {

	a := AABB{LowerBound: Vec2{0, 0}, UpperBound: Vec2{1, 1}}
	b := AABB{LowerBound: Vec2{0.5, 0.5}, UpperBound: Vec2{2, 2}}
	if !TestOverlap(&a, &b) {
		t.Error("expected overlap")
	}
	if !TestOverlap(&b, &a) {
		t.Error("TestOverlap should be symmetric")
	}
	if !TestOverlap(&a, &a) {
		t.Error("TestOverlap should be reflexive on a non-empty box")
	}

	c := AABB{LowerBound: Vec2{5, 5}, UpperBound: Vec2{6, 6}}
	if TestOverlap(&a, &c) {
		t.Error("expected no overlap")
	}
}
