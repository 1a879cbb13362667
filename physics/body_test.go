// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

func newTestWorld() *World {
	return NewWorld(math2.Vec2{X: 0, Y: -10}, DefaultSettings())
}

func TestCreateBodyTypes(t *testing.T) {
	w := newTestWorld()

	def := DefaultBodyDef()
	def.Position = math2.Vec2{X: 1, Y: 2}
	b := w.CreateBody(def)

	if b.BodyType() != DynamicBody {
		t.Fatalf("BodyType() = %v, want DynamicBody", b.BodyType())
	}
	if got := b.GetPosition(); got != def.Position {
		t.Errorf("GetPosition() = %v, want %v", got, def.Position)
	}
	if !b.IsAwake() {
		t.Error("body created with Awake: true should be awake")
	}

	ground := w.CreateBody(BodyDef{Type: StaticBody, Enabled: true})
	if ground.IsAwake() {
		t.Error("a static body should never report awake")
	}
	ground.SetAwake(true)
	if ground.IsAwake() {
		t.Error("SetAwake(true) on a static body should be a no-op")
	}
}

func TestDestroyBodySwapRemoval(t *testing.T) {
	w := newTestWorld()
	a := w.CreateBody(DefaultBodyDef())
	b := w.CreateBody(DefaultBodyDef())
	c := w.CreateBody(DefaultBodyDef())

	if len(w.Bodies()) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(w.Bodies()))
	}

	w.DestroyBody(a)

	if len(w.Bodies()) != 2 {
		t.Fatalf("expected 2 bodies after destroy, got %d", len(w.Bodies()))
	}
	for _, body := range w.Bodies() {
		if body == a {
			t.Fatal("destroyed body still present in World.Bodies()")
		}
	}
	if b.Index() != 0 && b.Index() != 1 {
		t.Errorf("unexpected index for b: %d", b.Index())
	}
	if c.Index() < 0 || c.Index() >= len(w.Bodies()) {
		t.Errorf("c.Index() out of range after swap-removal: %d", c.Index())
	}
}

func TestResetMassDataFromFixtureDensities(t *testing.T) {
	w := newTestWorld()
	b := w.CreateBody(DefaultBodyDef())

	b.CreateFixture(FixtureDef{
		Shape:    shape2d.NewCircle(math2.Vec2{}, 1, 2), // area = pi, density = 2
		Density:  2,
		Filter:   DefaultFilter(),
	})

	wantMass := float32(2) * math2.Pi * 1 * 1
	if math2.Abs(b.GetMass()-wantMass) > 1e-3 {
		t.Errorf("GetMass() = %v, want %v", b.GetMass(), wantMass)
	}

	b.CreateFixture(FixtureDef{
		Shape:   shape2d.NewCircle(math2.Vec2{}, 1, 5), // density = 5, different from the first fixture
		Density: 5,
		Filter:  DefaultFilter(),
	})

	wantMass = (float32(2) + 5) * math2.Pi * 1 * 1
	if math2.Abs(b.GetMass()-wantMass) > 1e-2 {
		t.Errorf("GetMass() after second fixture = %v, want %v (densities must not be dropped per-fixture)", b.GetMass(), wantMass)
	}
}

func TestApplyForceWakesAndAccumulates(t *testing.T) {
	w := newTestWorld()
	b := w.CreateBody(DefaultBodyDef())
	b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})
	b.SetAwake(false)

	b.ApplyForce(math2.Vec2{X: 10, Y: 0}, b.GetWorldCenter(), true)
	if !b.IsAwake() {
		t.Fatal("ApplyForce(wake=true) should wake the body")
	}
}

func TestSetTransformResynchronizesSweep(t *testing.T) {
	w := newTestWorld()
	b := w.CreateBody(DefaultBodyDef())
	b.CreateFixture(FixtureDef{Shape: shape2d.NewCircle(math2.Vec2{}, 1, 1), Density: 1, Filter: DefaultFilter()})

	b.SetTransform(math2.Vec2{X: 5, Y: -3}, 1.2)

	if got := b.GetPosition(); got.X != 5 || got.Y != -3 {
		t.Errorf("GetPosition() = %v, want {5 -3}", got)
	}
	if math2.Abs(b.GetAngle()-1.2) > 1e-5 {
		t.Errorf("GetAngle() = %v, want 1.2", b.GetAngle())
	}
}
