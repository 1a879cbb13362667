// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/g3n/engine2d/math2"
)

// TestTwoPointBlockSolveConvergesInOneIteration sets up the canonical
// box-on-box resting contact (two symmetric points, non-zero rotational
// coupling between them) and checks the block solver drives both points'
// normal impulses to the exact simultaneous solution in a single velocity
// iteration, rather than needing several independent per-point passes to
// settle — the stabilization spec.md §4.6 calls the two-point block solve
// out for.
func TestTwoPointBlockSolveConvergesInOneIteration(t *testing.T) {
	contact := &Contact{
		Manifold: ManifoldView{
			Type:        1, // faceA
			LocalPoint:  math2.Vec2{X: 0, Y: 0.5},
			LocalNormal: math2.Vec2{X: 0, Y: 1},
			Points: [MaxManifoldPoints]math2.Vec2{
				{X: -0.5, Y: -0.5},
				{X: 0.5, Y: -0.5},
			},
			PointCount: 2,
		},
		Friction:     0,
		Restitution:  0,
		TangentSpeed: 0,
		IndexA:       0,
		IndexB:       1,
		InvMassA:     0,
		InvMassB:     1,
		InvIA:        0,
		InvIB:        6,
		RadiusA:      0,
		RadiusB:      0,
	}

	positions := []Position{
		{Center: math2.Vec2{X: 0, Y: 0}, Angle: 0},
		{Center: math2.Vec2{X: 0, Y: 1}, Angle: 0},
	}
	velocities := []Velocity{
		{V: math2.Vec2{X: 0, Y: 0}, W: 0},
		{V: math2.Vec2{X: 0, Y: -1}, W: 0},
	}

	cs := NewContactSolver([]*Contact{contact}, positions, velocities, 1.0/60.0)
	cs.InitializeVelocityConstraints()

	vc := &cs.velocityConstraints[0]
	if !vc.blockSolve {
		t.Fatalf("expected a well-conditioned two-point manifold to enable block solve")
	}

	cs.SolveVelocityConstraints()

	velB := cs.velocities[1]
	if math2.Abs(velB.V.Y) > 1e-3 {
		t.Errorf("expected the falling body's normal velocity to be fully absorbed in one block-solved iteration, got vy=%v", velB.V.Y)
	}
	if math2.Abs(velB.W) > 1e-3 {
		t.Errorf("expected no net rotation from a symmetric two-point contact, got w=%v", velB.W)
	}

	p1, p2 := vc.Points[0], vc.Points[1]
	if math2.Abs(p1.NormalImpulse-0.5) > 1e-3 || math2.Abs(p2.NormalImpulse-0.5) > 1e-3 {
		t.Errorf("expected both contact points to share the impulse evenly (0.5 each), got %v and %v", p1.NormalImpulse, p2.NormalImpulse)
	}
}

// TestIndependentSolveUsedForSinglePointManifold confirms the one-point
// path (no K matrix involved) still clamps to a non-negative impulse.
func TestIndependentSolveUsedForSinglePointManifold(t *testing.T) {
	contact := &Contact{
		Manifold: ManifoldView{
			Type:        1, // faceA
			LocalPoint:  math2.Vec2{X: 0, Y: 0.5},
			LocalNormal: math2.Vec2{X: 0, Y: 1},
			Points:      [MaxManifoldPoints]math2.Vec2{{X: 0, Y: -0.5}},
			PointCount:  1,
		},
		InvMassA: 0,
		InvMassB: 1,
		InvIA:    0,
		InvIB:    0,
	}

	positions := []Position{
		{Center: math2.Vec2{X: 0, Y: 0}, Angle: 0},
		{Center: math2.Vec2{X: 0, Y: 1}, Angle: 0},
	}
	velocities := []Velocity{
		{V: math2.Vec2{X: 0, Y: 0}, W: 0},
		{V: math2.Vec2{X: 0, Y: -2}, W: 0},
	}

	cs := NewContactSolver([]*Contact{contact}, positions, velocities, 1.0/60.0)
	cs.InitializeVelocityConstraints()
	if cs.velocityConstraints[0].blockSolve {
		t.Fatalf("a one-point manifold should never enable block solve")
	}

	cs.SolveVelocityConstraints()
	if cs.velocityConstraints[0].Points[0].NormalImpulse < 0 {
		t.Errorf("expected a non-negative clamped normal impulse, got %v", cs.velocityConstraints[0].Points[0].NormalImpulse)
	}
}
