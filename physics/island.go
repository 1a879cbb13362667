// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/solver"
)

// island is the transient connected component one DFS pass assembles from
// an awake dynamic body, following touching/enabled/non-sensor contact
// edges and enabled joint edges (spec.md §4.6's island-assembly rule). It
// owns the Position/Velocity slot arrays every contact and joint in it
// solves against this step.
type island struct {
	bodies   []*Body
	contacts []*Contact
	joints   []Joint

	positions  []solver.Position
	velocities []solver.Velocity
}

// buildIslands walks every awake, enabled dynamic body not yet claimed by
// an island, assembling one island per connected component. Static bodies
// reached by the walk are added to the island but their own contacts do
// not propagate it further, and their island flag is released once the
// island is complete so they can join later islands too, matching the
// teacher's "ground never links two otherwise-unrelated islands" rule.
func (w *World) buildIslands() []*island {
	for _, b := range w.bodies {
		b.islandFlag = false
	}
	for _, c := range w.contactManager.contactList {
		c.flags &^= contactIslandFlag
	}
	for _, j := range w.joints {
		j.setIslandFlag(false)
	}

	var islands []*island
	stack := make([]*Body, 0, len(w.bodies))

	for _, seed := range w.bodies {
		if seed.islandFlag || !seed.IsAwake() || !seed.enabled {
			continue
		}
		if seed.bodyType == StaticBody {
			continue
		}

		isl := &island{}
		stack = stack[:0]
		stack = append(stack, seed)
		seed.islandFlag = true

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			isl.bodies = append(isl.bodies, b)
			if b.bodyType != DynamicBody {
				continue
			}
			if !b.awake {
				b.SetAwake(true)
			}

			for ce := b.contactList; ce != nil; ce = ce.Next {
				c := ce.Contact
				if c.flags&contactIslandFlag != 0 {
					continue
				}
				if !c.IsTouching() || !c.IsEnabled() || c.isSensor() {
					continue
				}
				c.flags |= contactIslandFlag
				isl.contacts = append(isl.contacts, c)
				other := ce.Other
				if !other.islandFlag {
					other.islandFlag = true
					if other.bodyType != StaticBody {
						stack = append(stack, other)
					} else {
						isl.bodies = append(isl.bodies, other)
					}
				}
			}

			for je := b.jointList; je != nil; je = je.Next {
				j := je.Joint
				if j.islandFlag() {
					continue
				}
				if !j.GetBodyA().enabled || !j.GetBodyB().enabled {
					continue
				}
				j.setIslandFlag(true)
				isl.joints = append(isl.joints, j)
				other := je.Other
				if !other.islandFlag {
					other.islandFlag = true
					if other.bodyType != StaticBody {
						stack = append(stack, other)
					} else {
						isl.bodies = append(isl.bodies, other)
					}
				}
			}
		}

		for _, ib := range isl.bodies {
			if ib.bodyType == StaticBody {
				ib.islandFlag = false
			}
		}

		islands = append(islands, isl)
	}

	return islands
}

// solve runs one discrete step for the island: integrate forces into
// velocities, warm-start and iterate contact/joint velocity constraints,
// integrate positions, iterate position constraints, then write the
// corrected positions back onto each body and update sleep state (spec.md
// §4.6).
func (isl *island) solve(w *World, dt, invDt float32, allowSleep bool) {
	n := len(isl.bodies)
	isl.positions = make([]solver.Position, n)
	isl.velocities = make([]solver.Velocity, n)

	for i, b := range isl.bodies {
		b.islandIndex = i
		isl.positions[i] = solver.Position{Center: b.sweep.C, Angle: b.sweep.A}
		v := b.linearVelocity
		w_ := b.angularVelocity
		if b.bodyType == DynamicBody {
			v = math2.Add2(v, math2.Scale2(math2.Add2(math2.Scale2(w.gravity, b.gravityScale), math2.Scale2(b.force, b.invMass)), dt))
			w_ += dt * b.invI * b.torque
			v = math2.Scale2(v, 1/(1+dt*b.linearDamping))
			w_ *= 1 / (1 + dt*b.angularDamping)
		}
		isl.velocities[i] = solver.Velocity{V: v, W: w_}
	}

	solverContacts := toSolverContacts(isl.contacts)
	cs := solver.NewContactSolver(solverContacts, isl.positions, isl.velocities, dt)

	data := &solverData{positions: isl.positions, velocities: isl.velocities, dt: dt, invDt: invDt}
	for _, j := range isl.joints {
		j.initVelocityConstraints(data)
	}

	cs.InitializeVelocityConstraints()
	if w.settings.EnableWarmStarting {
		cs.WarmStart()
	}
	for _, j := range isl.joints {
		j.initVelocityConstraints(data)
	}

	for iter := 0; iter < w.settings.VelocityIterations; iter++ {
		for _, j := range isl.joints {
			j.solveVelocityConstraints(data)
		}
		cs.SolveVelocityConstraints()
	}

	storeImpulses(isl.contacts, cs)
	w.contactManager.firePostSolve(isl.contacts)

	for i, b := range isl.bodies {
		if b.bodyType != DynamicBody {
			continue
		}
		v := isl.velocities[i]
		translation := math2.Scale2(v.V, dt)
		if math2.Dot2(translation, translation) > w.settings.MaxTranslation*w.settings.MaxTranslation {
			ratio := w.settings.MaxTranslation / translation.Length()
			v.V = math2.Scale2(v.V, ratio)
		}
		rotation := dt * v.W
		if rotation*rotation > w.settings.MaxRotation*w.settings.MaxRotation {
			ratio := w.settings.MaxRotation / math2.Abs(rotation)
			v.W *= ratio
		}
		isl.velocities[i] = v
		isl.positions[i].Center = math2.Add2(isl.positions[i].Center, math2.Scale2(v.V, dt))
		isl.positions[i].Angle += dt * v.W
	}

	for iter := 0; iter < w.settings.PositionIterations; iter++ {
		contactsOK := cs.SolvePositionConstraints()
		jointsOK := true
		for _, j := range isl.joints {
			if !j.solvePositionConstraints(data) {
				jointsOK = false
			}
		}
		if contactsOK && jointsOK {
			break
		}
	}

	for i, b := range isl.bodies {
		b.sweep.C = isl.positions[i].Center
		b.sweep.A = isl.positions[i].Angle
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A
		if b.bodyType != DynamicBody {
			continue
		}
		b.linearVelocity = isl.velocities[i].V
		b.angularVelocity = isl.velocities[i].W
		b.synchronizeTransform()
	}

	isl.reportSleep(w, dt, allowSleep)
}

// reportSleep advances every dynamic body's sleep timer and, if allowSleep
// and every body in the island has stayed under threshold for TimeToSleep,
// puts the whole island to sleep together (spec.md §5's shared-island-
// sleep-fate rule).
func (isl *island) reportSleep(w *World, dt float32, allowSleep bool) {
	minSleepTime := math2.Infinity

	for _, b := range isl.bodies {
		if b.bodyType != DynamicBody {
			continue
		}
		if !b.allowSleep ||
			b.angularVelocity*b.angularVelocity > w.settings.AngularSleepTolerance*w.settings.AngularSleepTolerance ||
			math2.Dot2(b.linearVelocity, b.linearVelocity) > w.settings.LinearSleepTolerance*w.settings.LinearSleepTolerance {
			b.sleepTime = 0
			minSleepTime = 0
		} else {
			b.sleepTick(w.settings.TimeToSleep)
			b.sleepTime += dt
			minSleepTime = math2.Min(minSleepTime, b.sleepTime)
		}
	}

	if allowSleep && minSleepTime >= w.settings.TimeToSleep {
		for _, b := range isl.bodies {
			if b.bodyType == DynamicBody {
				b.SetAwake(false)
			}
		}
	}
}
