// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import "github.com/g3n/engine2d/collision"

// ContactFilter decides whether two fixtures should ever generate a
// Contact, on top of the Filter category/mask/group rule every fixture
// already carries. Install one on a World to add gameplay-specific
// exceptions (e.g. one-way platforms).
type ContactFilter interface {
	ShouldCollide(fixtureA, fixtureB *Fixture) bool
}

// defaultContactFilter applies only each fixture's Filter bits; the
// body-level type and joint rule is applied separately by
// Body.shouldCollideWith.
type defaultContactFilter struct{}

func (defaultContactFilter) ShouldCollide(fixtureA, fixtureB *Fixture) bool {
	return ShouldCollide(fixtureA.filter, fixtureB.filter)
}

// ContactListener receives the four contact lifecycle notifications a
// World's step can produce, in the order they occur during Step: BeginContact
// and EndContact as pairs start/stop touching, PreSolve before narrow-phase
// impulses are computed (letting a listener disable the contact for this
// step), and PostSolve after, carrying the impulses actually applied.
type ContactListener interface {
	BeginContact(contact *Contact)
	EndContact(contact *Contact)
	PreSolve(contact *Contact, oldManifold *Manifold)
	PostSolve(contact *Contact, impulse *ContactImpulse)
}

// Manifold re-exports collision.Manifold's shape under the physics package so
// callback implementations never need to import collision directly.
type Manifold = collision.Manifold

// ContactImpulse reports the normal/tangent impulses a PostSolve callback's
// contact was resolved with this step, one slot per manifold point.
type ContactImpulse struct {
	NormalImpulses  [2]float32
	TangentImpulses [2]float32
	Count           int
}

// BaseContactListener is a ContactListener with no-op bodies, embedded by
// callers who only care about a subset of the four notifications.
type BaseContactListener struct{}

func (BaseContactListener) BeginContact(contact *Contact)                  {}
func (BaseContactListener) EndContact(contact *Contact)                   {}
func (BaseContactListener) PreSolve(contact *Contact, oldManifold *Manifold) {}
func (BaseContactListener) PostSolve(contact *Contact, impulse *ContactImpulse) {}
