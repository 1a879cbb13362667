// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/collision"
	"github.com/g3n/engine2d/enginelog"
	"github.com/g3n/engine2d/math2"
)

// World owns every body, joint and contact in a simulation and drives
// Step, following the teacher's top-level Manager-of-managers shape:
// a broad-phase, a ContactManager built on top of it, and the collection
// of bodies/joints that CreateBody/CreateJoint hand out.
type World struct {
	settings Settings
	gravity  math2.Vec2

	bodies []*Body
	joints []Joint

	broadPhase     *collision.BroadPhase
	contactManager *ContactManager

	locked       bool
	fixtureIDSeq int

	subStepping bool
}

// NewWorld creates a World with the given gravity and tunables.
func NewWorld(gravity math2.Vec2, settings Settings) *World {
	w := &World{
		settings: settings,
		gravity:  gravity,
	}
	w.broadPhase = collision.NewBroadphase()
	w.contactManager = newContactManager(w.broadPhase)
	return w
}

func (w *World) IsLocked() bool { return w.locked }

func (w *World) Gravity() math2.Vec2     { return w.gravity }
func (w *World) SetGravity(g math2.Vec2) { w.gravity = g }

func (w *World) SetContactFilter(f ContactFilter)     { w.contactManager.setFilter(f) }
func (w *World) SetContactListener(l ContactListener) { w.contactManager.setListener(l) }

func (w *World) Bodies() []*Body { return w.bodies }
func (w *World) Joints() []Joint { return w.joints }

func (w *World) nextFixtureID() int {
	w.fixtureIDSeq++
	return w.fixtureIDSeq
}

func (w *World) registerFixture(f *Fixture)   { w.contactManager.registerFixture(f) }
func (w *World) unregisterFixture(f *Fixture) { w.contactManager.unregisterFixture(f) }

// CreateBody creates a new Body and adds it to the world.
func (w *World) CreateBody(def BodyDef) *Body {
	if w.locked {
		fail("cannot create a body while the world is stepping")
	}
	b := newBody(def, w)
	b.index = len(w.bodies)
	w.bodies = append(w.bodies, b)
	return b
}

// DestroyBody removes a body, its fixtures (and their contacts), and every
// joint attached to it.
func (w *World) DestroyBody(b *Body) {
	if w.locked {
		fail("cannot destroy a body while the world is stepping")
	}

	for je := b.jointList; je != nil; {
		next := je.Next
		w.DestroyJoint(je.Joint)
		je = next
	}

	for ce := b.contactList; ce != nil; {
		next := ce.Next
		w.contactManager.destroyContact(ce.Contact)
		ce = next
	}

	for _, f := range b.fixtures {
		if b.enabled {
			f.destroyProxies(w.broadPhase)
		}
		w.unregisterFixture(f)
	}
	b.fixtures = nil

	last := len(w.bodies) - 1
	w.bodies[b.index] = w.bodies[last]
	w.bodies[b.index].index = b.index
	w.bodies = w.bodies[:last]
	b.index = -1
}

// CreateJoint attaches j's two bodies via new JointEdges and adds j to the
// world's joint list. j must already have BodyA/BodyB set (every concrete
// NewXxxJoint constructor does this from its Def).
func (w *World) CreateJoint(j Joint) {
	if w.locked {
		fail("cannot create a joint while the world is stepping")
	}
	bodyA, bodyB := j.GetBodyA(), j.GetBodyB()
	edgeA := &JointEdge{Other: bodyB, Joint: j}
	edgeB := &JointEdge{Other: bodyA, Joint: j}
	j.setEdges(edgeA, edgeB)

	edgeA.Next = bodyA.jointList
	if bodyA.jointList != nil {
		bodyA.jointList.Prev = edgeA
	}
	bodyA.jointList = edgeA

	edgeB.Next = bodyB.jointList
	if bodyB.jointList != nil {
		bodyB.jointList.Prev = edgeB
	}
	bodyB.jointList = edgeB

	w.joints = append(w.joints, j)

	if !j.CollideConnected() {
		for ce := bodyA.contactList; ce != nil; ce = ce.Next {
			if ce.Other == bodyB {
				ce.Contact.flagFilter()
			}
		}
	}

	bodyA.SetAwake(true)
	bodyB.SetAwake(true)
}

// DestroyJoint unlinks j from both of its bodies' joint lists and removes
// it from the world.
func (w *World) DestroyJoint(j Joint) {
	if w.locked {
		fail("cannot destroy a joint while the world is stepping")
	}
	bodyA, bodyB := j.GetBodyA(), j.GetBodyB()
	bodyA.SetAwake(true)
	bodyB.SetAwake(true)

	ea, eb := j.edgeA(), j.edgeB()
	unlinkJointEdge(bodyA, ea)
	unlinkJointEdge(bodyB, eb)

	for i, other := range w.joints {
		if other == j {
			w.joints = append(w.joints[:i], w.joints[i+1:]...)
			break
		}
	}

	if !j.CollideConnected() {
		for ce := bodyA.contactList; ce != nil; ce = ce.Next {
			if ce.Other == bodyB {
				ce.Contact.flagFilter()
			}
		}
	}
}

func unlinkJointEdge(b *Body, e *JointEdge) {
	if e.Prev != nil {
		e.Prev.Next = e.Next
	} else {
		b.jointList = e.Next
	}
	if e.Next != nil {
		e.Next.Prev = e.Prev
	}
}

// Step advances the simulation by dt, running velocityIterations/
// positionIterations velocity/position solver passes per island, following
// the control flow spec.md §4 lays out: FindNewContacts, Collide, discrete
// island Solve, then (if enabled) the continuous TOI pass.
func (w *World) Step(dt float32, velocityIterations, positionIterations int) {
	w.settings.VelocityIterations = velocityIterations
	w.settings.PositionIterations = positionIterations

	w.locked = true
	defer func() { w.locked = false }()

	w.contactManager.findNewContacts()
	w.contactManager.collide()

	if dt > 0 {
		invDt := 1 / dt
		islands := w.buildIslands()
		if w.settings.Verbose {
			enginelog.Default.Debug("physics: islands=%d", len(islands))
		}
		for i, isl := range islands {
			if w.settings.Verbose {
				enginelog.Default.Debug("physics: island[%d] bodies=%d contacts=%d joints=%d", i, len(isl.bodies), len(isl.contacts), len(isl.joints))
			}
			isl.solve(w, dt, invDt, true)
			w.synchronizeIslandFixtures(isl)
		}

		if w.settings.EnableContinuous {
			w.solveTOI(dt)
		}
	}

	enginelog.Default.Debug("physics: step dt=%v bodies=%d contacts=%d", dt, len(w.bodies), len(w.contactManager.contactList))
}

// synchronizeIslandFixtures pushes every moved body's fixtures to the
// broad-phase at their post-solve transform, the step boundary the
// teacher's scene graph flushes transforms at.
func (w *World) synchronizeIslandFixtures(isl *island) {
	for _, b := range isl.bodies {
		if b.bodyType == DynamicBody {
			b.synchronizeFixtures()
		}
	}
}

// QueryAABB visits every fixture whose proxy's fattened AABB overlaps aabb.
func (w *World) QueryAABB(aabb math2.AABB, callback func(f *Fixture) bool) {
	w.broadPhase.Query(aabb, func(proxyID int) bool {
		handle := w.broadPhase.UserData(proxyID)
		f := w.contactManager.fixtures[handle.FixtureID]
		if f == nil {
			return true
		}
		return callback(f)
	})
}

// RayCastCallback reports a single ray-fixture hit; returning false stops
// the cast early, matching the teacher's early-out reporting callbacks use
// elsewhere (the broad-phase tree walk this wraps always visits leaves in
// an unspecified order, so "closest hit" filtering is the caller's job).
type RayCastCallback func(f *Fixture, childIndex int, point, normal math2.Vec2, fraction float32) bool

// RayCast walks the broad-phase tree along p1->p2, narrowing every proxy
// whose fat AABB the segment crosses against the fixture's actual shape.
func (w *World) RayCast(p1, p2 math2.Vec2, callback RayCastCallback) {
	w.broadPhase.RayCast(p1, p2, 1, func(input math2.RayCastInput, proxyID int) float32 {
		handle := w.broadPhase.UserData(proxyID)
		f := w.contactManager.fixtures[handle.FixtureID]
		if f == nil {
			return input.MaxFraction
		}
		out, hit := f.shape.RayCast(&input, f.body.GetTransform(), handle.ChildIndex)
		if !hit {
			return input.MaxFraction
		}
		point := math2.Add2(input.P1, math2.Scale2(math2.Sub2(input.P2, input.P1), out.Fraction))
		if callback(f, handle.ChildIndex, point, out.Normal, out.Fraction) {
			return out.Fraction
		}
		return 0
	})
}
