// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

// rejectAllFilter refuses every pair, letting a test confirm a custom
// ContactFilter is actually consulted on top of the Filter bits check.
type rejectAllFilter struct{}

func (rejectAllFilter) ShouldCollide(a, b *Fixture) bool { return false }

func TestContactFilterSuppressesContacts(t *testing.T) {
	w := newTestWorld()
	w.SetContactFilter(rejectAllFilter{})

	listener := &recordingListener{}
	w.SetContactListener(listener)

	a := w.CreateBody(DefaultBodyDef())
	a.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})

	bDef := DefaultBodyDef()
	bDef.Position = math2.Vec2{X: 0.5, Y: 0}
	b := w.CreateBody(bDef)
	b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})

	for i := 0; i < 10; i++ {
		w.Step(1.0/60.0, 8, 3)
	}

	if listener.begins != 0 {
		t.Errorf("ContactFilter rejecting every pair should leave BeginContact uncalled, got %d calls", listener.begins)
	}
}

func TestSensorFixtureDoesNotGenerateImpulses(t *testing.T) {
	w := newTestWorld()
	listener := &recordingListener{}
	w.SetContactListener(listener)

	a := w.CreateBody(BodyDef{Type: StaticBody, Enabled: true})
	a.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 0), IsSensor: true, Filter: DefaultFilter()})

	bDef := DefaultBodyDef()
	bDef.Position = math2.Vec2{X: 0.5, Y: 0}
	b := w.CreateBody(bDef)
	b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})

	for i := 0; i < 10; i++ {
		w.Step(1.0/60.0, 8, 3)
	}

	if listener.postSolves != 0 {
		t.Errorf("a sensor contact should never reach island solving / PostSolve, got %d calls", listener.postSolves)
	}
}
