// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/collision"
	"github.com/g3n/engine2d/solver"
)

// contactKey uniquely names an unordered fixture-child pair, used to avoid
// creating a second Contact for a pair the broad-phase already reported.
type contactKey struct {
	fixtureA, fixtureB int
	childA, childB     int
}

func newContactKey(fA, fB *Fixture, childA, childB int) contactKey {
	if fA.id > fB.id || (fA.id == fB.id && childA > childB) {
		fA, fB = fB, fA
		childA, childB = childB, childA
	}
	return contactKey{fA.id, fB.id, childA, childB}
}

// ContactManager owns the broad-phase and the set of live Contacts derived
// from it, following the teacher's Manager-wraps-a-lower-layer-and-owns-a-
// registry shape (applied here to collision.BroadPhase instead of a scene
// graph). It creates/destroys Contacts as FindCollisionPairs reports new or
// stale proxy overlaps, and drives each surviving Contact's narrow-phase
// update once per step, firing Begin/EndContact as pairs start/stop
// touching.
type ContactManager struct {
	broadPhase *collision.BroadPhase
	fixtures   map[int]*Fixture

	contacts    map[contactKey]*Contact
	contactList []*Contact

	filter   ContactFilter
	listener ContactListener
}

func newContactManager(bp *collision.BroadPhase) *ContactManager {
	return &ContactManager{
		broadPhase: bp,
		fixtures:   make(map[int]*Fixture),
		contacts:   make(map[contactKey]*Contact),
		filter:     defaultContactFilter{},
		listener:   BaseContactListener{},
	}
}

func (cm *ContactManager) registerFixture(f *Fixture)   { cm.fixtures[f.id] = f }
func (cm *ContactManager) unregisterFixture(f *Fixture) { delete(cm.fixtures, f.id) }

func (cm *ContactManager) setFilter(f ContactFilter) {
	if f == nil {
		f = defaultContactFilter{}
	}
	cm.filter = f
}

func (cm *ContactManager) setListener(l ContactListener) {
	if l == nil {
		l = BaseContactListener{}
	}
	cm.listener = l
}

// findNewContacts drains the broad-phase's buffered move list and creates a
// Contact for every reported pair that passes filtering and doesn't already
// have one, matching the teacher's find-then-create separation from the
// per-step narrow-phase pass.
func (cm *ContactManager) findNewContacts() {
	for _, pair := range cm.broadPhase.FindCollisionPairs() {
		handleA := cm.broadPhase.UserData(pair.ProxyIDA)
		handleB := cm.broadPhase.UserData(pair.ProxyIDB)
		fA := cm.fixtures[handleA.FixtureID]
		fB := cm.fixtures[handleB.FixtureID]
		if fA == nil || fB == nil {
			continue
		}
		cm.createContact(fA, handleA.ChildIndex, fB, handleB.ChildIndex)
	}
}

func (cm *ContactManager) createContact(fA *Fixture, childA int, fB *Fixture, childB int) {
	bodyA, bodyB := fA.body, fB.body
	if bodyA == bodyB {
		return
	}
	key := newContactKey(fA, fB, childA, childB)
	if _, ok := cm.contacts[key]; ok {
		return
	}
	if !bodyA.shouldCollideWith(bodyB) {
		return
	}
	if !ShouldCollide(fA.filter, fB.filter) || !cm.filter.ShouldCollide(fA, fB) {
		return
	}

	c := newContact(fA, fB, childA, childB)
	cm.contacts[key] = c
	cm.contactList = append(cm.contactList, c)
	c.link()
}

// destroyContactsForFixture removes every Contact referencing f, called by
// Body.DestroyFixture before the fixture's proxies are dropped.
func (cm *ContactManager) destroyContactsForFixture(f *Fixture) {
	for i := 0; i < len(cm.contactList); {
		c := cm.contactList[i]
		if c.fA == f || c.fB == f {
			cm.destroyContact(c)
			continue
		}
		i++
	}
}

func (cm *ContactManager) destroyContact(c *Contact) {
	if c.IsTouching() {
		cm.listener.EndContact(c)
	}
	c.unlink()

	for i, other := range cm.contactList {
		if other == c {
			cm.contactList = append(cm.contactList[:i], cm.contactList[i+1:]...)
			break
		}
	}
	for k, v := range cm.contacts {
		if v == c {
			delete(cm.contacts, k)
			break
		}
	}
}

// collide runs the narrow-phase update for every live contact, destroying
// pairs whose fixtures should no longer collide (filter changed) or whose
// fattened AABBs no longer overlap, and firing Begin/EndContact as pairs'
// touching state flips. Matches the teacher's world-step sequence: find new
// pairs, then update existing ones, before the island solve.
func (cm *ContactManager) collide() {
	for i := 0; i < len(cm.contactList); {
		c := cm.contactList[i]
		fA, fB := c.fA, c.fB
		bodyA, bodyB := fA.body, fB.body

		if !bodyA.IsAwake() && !bodyB.IsAwake() &&
			bodyA.bodyType != StaticBody && bodyB.bodyType != StaticBody {
			i++
			continue
		}

		if c.flags&contactFilterFlag != 0 {
			if !bodyA.shouldCollideWith(bodyB) || !ShouldCollide(fA.filter, fB.filter) || !cm.filter.ShouldCollide(fA, fB) {
				cm.destroyContact(c)
				continue
			}
			c.flags &^= contactFilterFlag
		}

		proxyOverlap := true
		if len(fA.proxies) > c.childA && len(fB.proxies) > c.childB {
			proxyOverlap = cm.broadPhase.TestOverlap(fA.proxies[c.childA].proxyID, fB.proxies[c.childB].proxyID)
		}
		if !proxyOverlap {
			cm.destroyContact(c)
			continue
		}

		oldManifold := *c.Manifold()
		began, ended := c.update()
		if began {
			cm.listener.BeginContact(c)
		}
		if c.IsTouching() {
			cm.listener.PreSolve(c, &oldManifold)
		}
		if ended {
			cm.listener.EndContact(c)
		}
		i++
	}
}

// touchingContacts returns the subset of contactList currently touching and
// enabled, the set an island actually needs to solve.
func (cm *ContactManager) touchingContacts() []*Contact {
	out := make([]*Contact, 0, len(cm.contactList))
	for _, c := range cm.contactList {
		if c.IsTouching() && c.IsEnabled() && !c.isSensor() {
			out = append(out, c)
		}
	}
	return out
}

// toSolverContacts translates a slice of physics-level Contacts into the
// decoupled solver.Contact shape InitializeVelocityConstraints needs,
// restating each Manifold as a solver.ManifoldView (solver deliberately
// doesn't import collision, see solver/contact_solver.go).
func toSolverContacts(contacts []*Contact) []*solver.Contact {
	out := make([]*solver.Contact, len(contacts))
	for i, c := range contacts {
		m := c.manifold
		view := solver.ManifoldView{
			Type:        int(m.Type),
			LocalPoint:  m.LocalPoint,
			LocalNormal: m.LocalNormal,
			PointCount:  m.PointCount,
		}
		for j := 0; j < m.PointCount; j++ {
			view.Points[j] = m.Points[j].LocalPoint
		}

		bodyA, bodyB := c.fA.body, c.fB.body
		out[i] = &solver.Contact{
			Manifold:     view,
			Friction:     c.friction,
			Restitution:  c.restitution,
			TangentSpeed: c.tangentSpeed,
			IndexA:       bodyA.islandIndex,
			IndexB:       bodyB.islandIndex,
			InvMassA:     bodyA.invMass,
			InvMassB:     bodyB.invMass,
			InvIA:        bodyA.invI,
			InvIB:        bodyB.invI,
			LocalCenterA: bodyA.sweep.LocalCenter,
			LocalCenterB: bodyB.sweep.LocalCenter,
			RadiusA:      c.fA.shape.GetRadius(),
			RadiusB:      c.fB.shape.GetRadius(),
		}
	}
	return out
}

// storeImpulses writes a solved island's warm-start impulses back onto the
// physics-level manifold points toSolverContacts translated from, keyed by
// the same index ordering toSolverContacts produced.
func storeImpulses(contacts []*Contact, cs *solver.ContactSolver) {
	cs.StoreImpulses(func(contactIndex, pointIndex int, normalImpulse, tangentImpulse float32) {
		if contactIndex >= len(contacts) {
			return
		}
		c := contacts[contactIndex]
		if pointIndex >= c.manifold.PointCount {
			return
		}
		c.manifold.Points[pointIndex].NormalImpulse = normalImpulse
		c.manifold.Points[pointIndex].TangentImpulse = tangentImpulse
	})
}

// firePostSolve reports the impulses just stored on each contact to the
// listener, once per contact per step, after velocity constraints have been
// solved (matching the teacher's find-update-solve-notify step ordering).
func (cm *ContactManager) firePostSolve(contacts []*Contact) {
	for _, c := range contacts {
		var impulse ContactImpulse
		impulse.Count = c.manifold.PointCount
		for i := 0; i < c.manifold.PointCount && i < 2; i++ {
			impulse.NormalImpulses[i] = c.manifold.Points[i].NormalImpulse
			impulse.TangentImpulses[i] = c.manifold.Points[i].TangentImpulse
		}
		cm.listener.PostSolve(c, &impulse)
	}
}
