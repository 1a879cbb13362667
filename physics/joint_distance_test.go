// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

// TestDistanceJointHoldsHangingBody pins a dynamic body to a static anchor
// with a rigid distance joint and checks gravity doesn't pull it past the
// joint's length.
func TestDistanceJointHoldsHangingBody(t *testing.T) {
	w := NewWorld(math2.Vec2{X: 0, Y: -10}, DefaultSettings())

	anchor := w.CreateBody(BodyDef{Type: StaticBody, Enabled: true})

	def := DefaultBodyDef()
	def.Position = math2.Vec2{X: 3, Y: 0}
	bob := w.CreateBody(def)
	bob.CreateFixture(FixtureDef{
		Shape:   shape2d.NewCircle(math2.Vec2{}, 0.2, 1),
		Density: 1,
		Filter:  DefaultFilter(),
	})

	const length = 3
	j := NewDistanceJoint(DistanceJointDef{
		BodyA:     anchor,
		BodyB:     bob,
		Length:    length,
		MinLength: length,
		MaxLength: length,
	})
	w.CreateJoint(j)

	dt := float32(1.0 / 60.0)
	for i := 0; i < 180; i++ {
		w.Step(dt, 8, 3)
	}

	bobPos := bob.GetPosition()
	anchorPos := anchor.GetPosition()
	dist := bobPos.DistanceTo(&anchorPos)
	if math2.Abs(dist-length) > 0.15 {
		t.Fatalf("distance from anchor = %v, want close to %v", dist, length)
	}
}

// TestRopeJointIsADistanceJointWithZeroMinLength exercises the RopeJoint
// constructor found in joint_rope.go, which just configures a DistanceJoint.
func TestRopeJointIsADistanceJointWithZeroMinLength(t *testing.T) {
	w := newTestWorld()
	a := w.CreateBody(BodyDef{Type: StaticBody, Enabled: true})
	b := w.CreateBody(DefaultBodyDef())
	b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 0.2, 1), Density: 1, Filter: DefaultFilter()})

	rope := NewRopeJoint(RopeJointDef{BodyA: a, BodyB: b, MaxLength: 5})
	if rope.GetBodyA() != a || rope.GetBodyB() != b {
		t.Error("RopeJoint should wire BodyA/BodyB from its Def")
	}
}
