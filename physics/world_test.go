// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

// recordingListener counts contact lifecycle notifications.
type recordingListener struct {
	BaseContactListener
	begins, ends, postSolves int
}

func (r *recordingListener) BeginContact(c *Contact) { r.begins++ }
func (r *recordingListener) EndContact(c *Contact)   { r.ends++ }
func (r *recordingListener) PostSolve(c *Contact, impulse *ContactImpulse) {
	r.postSolves++
}

func TestWorldStepCircleRestsOnGround(t *testing.T) {
	w := NewWorld(math2.Vec2{X: 0, Y: -10}, DefaultSettings())

	listener := &recordingListener{}
	w.SetContactListener(listener)

	ground := w.CreateBody(BodyDef{Type: StaticBody, Enabled: true, Position: math2.Vec2{X: 0, Y: -1}})
	ground.CreateFixture(FixtureDef{
		Shape:  shape2d.NewPolygonBox(10, 1, 0),
		Filter: DefaultFilter(),
	})

	def := DefaultBodyDef()
	def.Position = math2.Vec2{X: 0, Y: 5}
	ball := w.CreateBody(def)
	ball.CreateFixture(FixtureDef{
		Shape:       shape2d.NewCircle(math2.Vec2{}, 0.5, 1),
		Density:     1,
		Friction:    0.3,
		Restitution: 0,
		Filter:      DefaultFilter(),
	})

	dt := float32(1.0 / 60.0)
	for i := 0; i < 300; i++ {
		w.Step(dt, 8, 3)
	}

	y := ball.GetPosition().Y
	// The ball should have fallen and come to rest just above the ground
	// top (at y=0), not passed through it and not still up near y=5.
	if y > 1 || y < -0.6 {
		t.Fatalf("ball.GetPosition().Y = %v, want roughly in [-0.6, 1] (resting on ground)", y)
	}
	if listener.begins == 0 {
		t.Error("expected at least one BeginContact as the ball landed")
	}
	if listener.postSolves == 0 {
		t.Error("expected PostSolve to fire while the contact was touching")
	}
}

func TestWorldQueryAABB(t *testing.T) {
	w := newTestWorld()
	b := w.CreateBody(DefaultBodyDef())
	f := b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})

	var hit *Fixture
	w.QueryAABB(math2.AABB{LowerBound: math2.Vec2{X: -2, Y: -2}, UpperBound: math2.Vec2{X: 2, Y: 2}}, func(found *Fixture) bool {
		hit = found
		return false
	})
	if hit != f {
		t.Error("QueryAABB should have found the fixture whose AABB overlaps the query box")
	}
}

func TestWorldRayCastHitsCircle(t *testing.T) {
	w := newTestWorld()
	b := w.CreateBody(BodyDef{Type: StaticBody, Enabled: true, Position: math2.Vec2{X: 5, Y: 0}})
	b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 0), Filter: DefaultFilter()})

	var hitFraction float32 = -1
	w.RayCast(math2.Vec2{X: 0, Y: 0}, math2.Vec2{X: 10, Y: 0}, func(f *Fixture, childIndex int, point, normal math2.Vec2, fraction float32) bool {
		hitFraction = fraction
		return true
	})
	if hitFraction <= 0 || hitFraction >= 1 {
		t.Fatalf("expected a ray hit with fraction in (0,1), got %v", hitFraction)
	}
}

func TestCreateJointWakesBodiesAndFiltersContacts(t *testing.T) {
	w := newTestWorld()
	a := w.CreateBody(DefaultBodyDef())
	a.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})
	bDef := DefaultBodyDef()
	bDef.Position = math2.Vec2{X: 0.5, Y: 0}
	b := w.CreateBody(bDef)
	b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})

	a.SetAwake(false)
	b.SetAwake(false)

	j := NewDistanceJoint(DistanceJointDef{
		BodyA: a, BodyB: b,
		Length:           1,
		MaxLength:        1,
		CollideConnected: false,
	})
	w.CreateJoint(j)

	if !a.IsAwake() || !b.IsAwake() {
		t.Error("CreateJoint should wake both bodies")
	}

	w.DestroyJoint(j)
	if len(w.Joints()) != 0 {
		t.Error("DestroyJoint should remove the joint from World.Joints()")
	}
}
