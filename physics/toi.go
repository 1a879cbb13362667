// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/collision"
	"github.com/g3n/engine2d/enginelog"
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/solver"
)

const toiMaxSubSteps = 8

// solveTOI runs the continuous-collision pass after the discrete island
// solve: repeatedly finds the contact with the smallest time of impact in
// [alpha0, 1] among bullet/fast-moving pairs, advances both bodies' sweeps
// to that instant, resolves penetration with a position-only sub-island,
// and integrates the remainder of the step (spec.md §4.6).
func (w *World) solveTOI(dt float32) {
	for sub := 0; sub < toiMaxSubSteps; sub++ {
		minAlpha := float32(1)
		var minContact *Contact

		for _, c := range w.contactManager.contactList {
			if !c.IsEnabled() || c.isSensor() || c.toiCount > 8 {
				continue
			}
			bodyA, bodyB := c.fA.body, c.fB.body
			if !toiEligible(bodyA, bodyB) {
				continue
			}

			alpha0 := math2.Max(bodyA.sweep.Alpha0, bodyB.sweep.Alpha0)
			if alpha0 >= 1 {
				continue
			}

			sweepA, sweepB := bodyA.sweep, bodyB.sweep
			sweepA.Advance(alpha0)
			sweepB.Advance(alpha0)

			proxyA := collision.MakeDistanceProxy(c.fA.shape, c.childA)
			proxyB := collision.MakeDistanceProxy(c.fB.shape, c.childB)

			output := collision.TimeOfImpact(collision.TOIInput{
				ProxyA: proxyA, ProxyB: proxyB,
				SweepA: sweepA, SweepB: sweepB,
				TMax: 1,
			})

			if output.State != collision.TOIStateTouching {
				continue
			}
			alpha := alpha0 + (1-alpha0)*output.T
			if alpha < minAlpha {
				minAlpha = alpha
				minContact = c
			}
		}

		if minContact == nil || minAlpha >= 1 {
			break
		}

		bodyA, bodyB := minContact.fA.body, minContact.fB.body
		backupA, backupB := bodyA.sweep, bodyB.sweep
		bodyA.sweep.Advance(minAlpha)
		bodyB.sweep.Advance(minAlpha)
		bodyA.synchronizeTransform()
		bodyB.synchronizeTransform()

		minContact.update()
		minContact.flags &^= contactTOIFlag
		minContact.toiCount++
		if !minContact.IsTouching() || !minContact.IsEnabled() {
			bodyA.sweep = backupA
			bodyB.sweep = backupB
			continue
		}

		if w.settings.Verbose {
			enginelog.Default.Debug("physics: toi sub=%d alpha=%v bodyA=%p bodyB=%p", sub, minAlpha, bodyA, bodyB)
		}

		isl := w.buildTOIIsland(bodyA, bodyB)
		isl.solveTOIPositions()

		for _, b := range isl.bodies {
			b.synchronizeTransform()
			if b.bodyType == DynamicBody {
				b.synchronizeFixtures()
			}
		}

		remaining := 1 - minAlpha
		if remaining > 0 {
			isl.solve(w, remaining*dt, 1/(remaining*dt), false)
		}
	}
}

// toiEligible reports whether a contact between bodyA/bodyB is even a
// candidate for continuous collision: at least one side dynamic, at least
// one side awake, and either side a bullet or both sides dynamic. A
// non-bullet dynamic body against a static or kinematic body is left to
// discrete integration.
func toiEligible(a, b *Body) bool {
	if a.bodyType != DynamicBody && b.bodyType != DynamicBody {
		return false
	}
	if !a.IsAwake() && !b.IsAwake() {
		return false
	}
	fast := a.bullet || b.bullet
	if !fast {
		fast = a.bodyType == DynamicBody && b.bodyType == DynamicBody
	}
	return fast
}

// buildTOIIsland assembles the small sub-island a TOI event resolves
// against: the two bodies directly involved plus, transitively, any other
// dynamic body touching either of them (excluding sensors and non-touching
// pairs), bounded by toiMaxSubSteps-scale limits in practice since a TOI
// event is local.
func (w *World) buildTOIIsland(seedA, seedB *Body) *island {
	isl := &island{bodies: []*Body{seedA, seedB}}
	visited := map[*Body]bool{seedA: true, seedB: true}
	queue := []*Body{seedA, seedB}
	seenContact := map[*Contact]bool{}
	seenJoint := map[Joint]bool{}

	collectEdges := func(b *Body) {
		for ce := b.contactList; ce != nil; ce = ce.Next {
			c := ce.Contact
			if !c.IsTouching() || c.isSensor() || !c.IsEnabled() || seenContact[c] {
				continue
			}
			seenContact[c] = true
			isl.contacts = append(isl.contacts, c)
			other := ce.Other
			if !visited[other] {
				visited[other] = true
				isl.bodies = append(isl.bodies, other)
				if other.bodyType == DynamicBody {
					queue = append(queue, other)
				}
			}
		}
		for je := b.jointList; je != nil; je = je.Next {
			j := je.Joint
			if seenJoint[j] || !j.GetBodyA().enabled || !j.GetBodyB().enabled {
				continue
			}
			seenJoint[j] = true
			isl.joints = append(isl.joints, j)
			other := je.Other
			if !visited[other] {
				visited[other] = true
				isl.bodies = append(isl.bodies, other)
				if other.bodyType == DynamicBody {
					queue = append(queue, other)
				}
			}
		}
	}

	for i := 0; i < len(queue); i++ {
		collectEdges(queue[i])
	}

	return isl
}

// solveTOIPositions runs a position-only correction pass (the discrete
// solver's SolvePositionConstraints with its same -3*linearSlop exit
// tolerance, at most 20 iterations; no stricter tolerance is applied here)
// over every touching, non-sensor
// contact between bodies in the TOI sub-island, so the event's penetration
// is resolved before the remainder of the step integrates.
func (isl *island) solveTOIPositions() {
	n := len(isl.bodies)
	isl.positions = make([]solver.Position, n)
	for i, b := range isl.bodies {
		b.islandIndex = i
		isl.positions[i] = solver.Position{Center: b.sweep.C, Angle: b.sweep.A}
	}

	solverContacts := toSolverContacts(isl.contacts)
	cs := solver.NewContactSolver(solverContacts, isl.positions, make([]solver.Velocity, n), 0)
	for iter := 0; iter < 20; iter++ {
		if cs.SolvePositionConstraints() {
			break
		}
	}

	for i, b := range isl.bodies {
		b.sweep.C = isl.positions[i].Center
		b.sweep.A = isl.positions[i].Angle
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A
	}
}
