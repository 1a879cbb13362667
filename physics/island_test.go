// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

// TestIslandPutsRestingBodyToSleep drops a ball onto the ground and runs
// long enough that it should settle under the sleep velocity thresholds and
// fall asleep, following spec.md's whole-island sleep-fate rule.
func TestIslandPutsRestingBodyToSleep(t *testing.T) {
	w := NewWorld(math2.Vec2{X: 0, Y: -10}, DefaultSettings())

	ground := w.CreateBody(BodyDef{Type: StaticBody, Enabled: true, Position: math2.Vec2{X: 0, Y: -1}})
	ground.CreateFixture(FixtureDef{Shape: shape2d.NewPolygonBox(10, 1, 0), Filter: DefaultFilter()})

	def := DefaultBodyDef()
	def.Position = math2.Vec2{X: 0, Y: 0.55}
	ball := w.CreateBody(def)
	ball.CreateFixture(FixtureDef{
		Shape:       shape2d.NewCircle(math2.Vec2{}, 0.5, 1),
		Density:     1,
		Friction:    0.3,
		Restitution: 0,
		Filter:      DefaultFilter(),
	})

	dt := float32(1.0 / 60.0)
	// TimeToSleep defaults to 0.5s; run well past that once the ball has
	// had time to settle onto the ground.
	for i := 0; i < 600; i++ {
		w.Step(dt, 8, 3)
	}

	if ball.IsAwake() {
		t.Error("a ball resting on the ground for 10s should have fallen asleep")
	}
}

// TestJointedBodiesShareAnIsland confirms two otherwise non-touching bodies
// connected by an enabled joint are assembled into the same island.
func TestJointedBodiesShareAnIsland(t *testing.T) {
	w := newTestWorld()
	a := w.CreateBody(DefaultBodyDef())
	a.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})
	b := w.CreateBody(DefaultBodyDef())
	b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})

	j := NewDistanceJoint(DistanceJointDef{BodyA: a, BodyB: b, Length: 2, MinLength: 2, MaxLength: 2})
	w.CreateJoint(j)

	// One discrete step should not panic even though nothing is touching.
	w.Step(1.0/60.0, 8, 3)

	islands := w.buildIslands()
	if len(islands) != 1 {
		t.Fatalf("expected a and b joined by an enabled joint to share one island, got %d", len(islands))
	}
}
