// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the sequential-impulse contact solver and its
// position-correction pass (spec.md §4.6). It deliberately does not reuse
// the teacher's equation-based Gauss-Seidel solver (see DESIGN.md): a
// contact's effective mass and warm-started impulse per point needs
// island-local Position/Velocity arrays indexed by slot, not a generic
// IEquation list, to match the block-solver-shaped pseudocode the contact
// model specifies.
package solver

import "github.com/g3n/engine2d/math2"

// Position is a body's island-local center-of-mass position and angle,
// the representation the position-correction pass integrates against
// directly (as opposed to the body's origin-based Transform).
type Position struct {
	Center math2.Vec2
	Angle  float32
}

// Velocity is a body's island-local linear and angular velocity.
type Velocity struct {
	V math2.Vec2
	W float32
}

// VelocityConstraintPoint caches the per-point effective mass terms and
// warm-started impulses for one manifold point, recomputed once per step
// in InitializeVelocityConstraints and mutated through velocity iterations.
type VelocityConstraintPoint struct {
	RA, RB               math2.Vec2
	NormalImpulse        float32
	TangentImpulse       float32
	NormalMass           float32
	TangentMass          float32
	VelocityBias         float32
}

// MaxManifoldPoints mirrors collision.MaxManifoldPoints; duplicated rather
// than imported to keep this package independent of the collision package
// (it only needs the generic two-point contact shape, not narrow-phase
// types).
const MaxManifoldPoints = 2

// ContactVelocityConstraint is one contact's solver state for the
// velocity-iteration pass: which island slots it couples, its normal and
// friction mass terms, and up to two manifold points.
type ContactVelocityConstraint struct {
	Points               [MaxManifoldPoints]VelocityConstraintPoint
	Normal               math2.Vec2
	Friction             float32
	Restitution          float32
	TangentSpeed         float32
	InvMassA, InvMassB   float32
	InvIA, InvIB         float32
	PointCount           int
	IndexA, IndexB       int

	// K is the 2x2 normal-impulse mass matrix coupling both points of a
	// two-point manifold, and blockSolve reports whether K is well
	// conditioned enough to solve both points simultaneously rather than
	// falling back to independent PGS (spec.md §4.6's block-LCP note).
	K          math2.Mat22
	blockSolve bool
}

// ContactPositionConstraint carries what SolvePositionConstraints needs to
// re-derive separations at the corrected positions: local-frame contact
// geometry plus each body's local center of mass and inverse mass/inertia.
type ContactPositionConstraint struct {
	LocalPoints        [MaxManifoldPoints]math2.Vec2
	LocalNormal        math2.Vec2
	LocalPoint         math2.Vec2
	IndexA, IndexB     int
	InvMassA, InvMassB float32
	LocalCenterA, LocalCenterB math2.Vec2
	InvIA, InvIB       float32
	PointCount         int
	RadiusA, RadiusB   float32
	ManifoldType       int
}

// Contact is the minimal view the solver needs from a physics-level
// contact: its manifold points (already in local frame) plus the per-body
// solver inputs, decoupled from any concrete Body/Fixture type so this
// package stays free of an import cycle with the root physics package.
type Contact struct {
	Manifold       ManifoldView
	Friction       float32
	Restitution    float32
	TangentSpeed   float32
	IndexA, IndexB int
	InvMassA, InvMassB         float32
	InvIA, InvIB               float32
	LocalCenterA, LocalCenterB math2.Vec2
	RadiusA, RadiusB           float32
}

// ManifoldView is the subset of collision.Manifold the contact solver
// consumes, restated here (rather than importing collision) to keep
// solver's only dependency on contact geometry, not on shape/broadphase
// types the physics package otherwise threads through collision.
type ManifoldView struct {
	Type       int // 0 = circles, 1 = faceA, 2 = faceB (matches collision.ManifoldType order)
	LocalPoint math2.Vec2
	LocalNormal math2.Vec2
	Points     [MaxManifoldPoints]math2.Vec2
	PointCount int
}

// ContactSolver accumulates ContactVelocityConstraint/ContactPositionConstraint
// for one island's contacts and drives the velocity-iteration and
// position-correction passes against the island's Position/Velocity
// arrays (spec.md §4.6).
type ContactSolver struct {
	contacts         []*Contact
	positions        []Position
	velocities       []Velocity
	velocityConstraints []ContactVelocityConstraint
	positionConstraints []ContactPositionConstraint
	dt               float32
}

// NewContactSolver builds a solver over contacts for one island step,
// sharing the island's positions/velocities slices by reference so every
// constraint's impulses feed directly back into the bodies' motion.
func NewContactSolver(contacts []*Contact, positions []Position, velocities []Velocity, dt float32) *ContactSolver {
	cs := &ContactSolver{contacts: contacts, positions: positions, velocities: velocities, dt: dt}
	cs.velocityConstraints = make([]ContactVelocityConstraint, len(contacts))
	cs.positionConstraints = make([]ContactPositionConstraint, len(contacts))
	return cs
}

const linearSlop = 0.005
const maxLinearCorrection = 0.2
const baumgarte = 0.2
const velocityThreshold = 1.0

// InitializeVelocityConstraints computes effective mass and restitution
// bias for every contact point from the current (pre-solve) positions and
// velocities, and seeds each point's RA/RB lever arms the velocity pass
// needs every iteration.
func (cs *ContactSolver) InitializeVelocityConstraints() {
	for ci, c := range cs.contacts {
		vc := &cs.velocityConstraints[ci]
		pc := &cs.positionConstraints[ci]

		vc.IndexA, vc.IndexB = c.IndexA, c.IndexB
		vc.InvMassA, vc.InvMassB = c.InvMassA, c.InvMassB
		vc.InvIA, vc.InvIB = c.InvIA, c.InvIB
		vc.Friction = c.Friction
		vc.Restitution = c.Restitution
		vc.TangentSpeed = c.TangentSpeed
		vc.PointCount = c.Manifold.PointCount

		pc.IndexA, pc.IndexB = c.IndexA, c.IndexB
		pc.InvMassA, pc.InvMassB = c.InvMassA, c.InvMassB
		pc.InvIA, pc.InvIB = c.InvIA, c.InvIB
		pc.LocalCenterA, pc.LocalCenterB = c.LocalCenterA, c.LocalCenterB
		pc.RadiusA, pc.RadiusB = c.RadiusA, c.RadiusB
		pc.PointCount = c.Manifold.PointCount
		pc.LocalNormal = c.Manifold.LocalNormal
		pc.LocalPoint = c.Manifold.LocalPoint
		pc.ManifoldType = c.Manifold.Type
		for i := 0; i < c.Manifold.PointCount; i++ {
			pc.LocalPoints[i] = c.Manifold.Points[i]
		}

		posA := cs.positions[c.IndexA]
		posB := cs.positions[c.IndexB]
		velA := cs.velocities[c.IndexA]
		velB := cs.velocities[c.IndexB]

		xfA := frameFromPosition(posA, c.LocalCenterA)
		xfB := frameFromPosition(posB, c.LocalCenterB)

		wm := worldManifoldFromView(c.Manifold, xfA, c.RadiusA, xfB, c.RadiusB)
		vc.Normal = wm.normal

		tangent := vc.Normal.Skew()

		for i := 0; i < vc.PointCount; i++ {
			p := &vc.Points[i]
			p.RA = math2.Sub2(wm.points[i], posA.Center)
			p.RB = math2.Sub2(wm.points[i], posB.Center)

			rnA := math2.Cross2(p.RA, vc.Normal)
			rnB := math2.Cross2(p.RB, vc.Normal)
			kNormal := c.InvMassA + c.InvMassB + c.InvIA*rnA*rnA + c.InvIB*rnB*rnB
			p.NormalMass = 0
			if kNormal > 0 {
				p.NormalMass = 1 / kNormal
			}

			rtA := math2.Cross2(p.RA, tangent)
			rtB := math2.Cross2(p.RB, tangent)
			kTangent := c.InvMassA + c.InvMassB + c.InvIA*rtA*rtA + c.InvIB*rtB*rtB
			p.TangentMass = 0
			if kTangent > 0 {
				p.TangentMass = 1 / kTangent
			}

			relVel := relativeVelocity(velA, velB, p.RA, p.RB)
			vn := math2.Dot2(relVel, vc.Normal)
			p.VelocityBias = 0
			if vn < -velocityThreshold {
				p.VelocityBias = -vc.Restitution * vn
			}
		}

		// Two-point manifolds couple both normal impulses through a shared
		// pair of bodies; set up the block so SolveVelocityConstraints can
		// solve both simultaneously instead of independently clamping each,
		// following Erin Catto's b2ContactSolver block solver.
		vc.blockSolve = false
		if vc.PointCount == 2 {
			p1, p2 := &vc.Points[0], &vc.Points[1]
			rn1A := math2.Cross2(p1.RA, vc.Normal)
			rn1B := math2.Cross2(p1.RB, vc.Normal)
			rn2A := math2.Cross2(p2.RA, vc.Normal)
			rn2B := math2.Cross2(p2.RB, vc.Normal)

			k11 := c.InvMassA + c.InvMassB + c.InvIA*rn1A*rn1A + c.InvIB*rn1B*rn1B
			k22 := c.InvMassA + c.InvMassB + c.InvIA*rn2A*rn2A + c.InvIB*rn2B*rn2B
			k12 := c.InvMassA + c.InvMassB + c.InvIA*rn1A*rn2A + c.InvIB*rn1B*rn2B

			// Guard against an ill-conditioned block (nearly parallel
			// contact points): fall back to independent solving rather
			// than risk an unstable simultaneous solve.
			const maxConditionNumber = 1000.0
			if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
				vc.K = math2.Mat22{Ex: math2.Vec2{X: k11, Y: k12}, Ey: math2.Vec2{X: k12, Y: k22}}
				vc.blockSolve = true
			}
		}
	}
}

// WarmStart reapplies each point's impulse accumulated from the previous
// step (already stored on the caller's manifold point before this island
// was built), so a resting stack doesn't have to re-ramp its normal force
// from zero every step.
func (cs *ContactSolver) WarmStart() {
	for ci := range cs.contacts {
		vc := &cs.velocityConstraints[ci]
		velA := &cs.velocities[vc.IndexA]
		velB := &cs.velocities[vc.IndexB]
		invMassA, invMassB := vc.InvMassA, vc.InvMassB
		invIA, invIB := vc.InvIA, vc.InvIB
		tangent := vc.Normal.Skew()

		for i := 0; i < vc.PointCount; i++ {
			p := &vc.Points[i]
			P := math2.Add2(math2.Scale2(vc.Normal, p.NormalImpulse), math2.Scale2(tangent, p.TangentImpulse))
			velA.V = math2.Sub2(velA.V, math2.Scale2(P, invMassA))
			velA.W -= invIA * math2.Cross2(p.RA, P)
			velB.V = math2.Add2(velB.V, math2.Scale2(P, invMassB))
			velB.W += invIB * math2.Cross2(p.RB, P)
		}
	}
}

// SolveVelocityConstraints runs one sequential-impulse sweep over every
// contact's friction, then normal impulse, clamping each to its Coulomb
// friction cone against the *previous* iteration's normal impulse (the
// standard PGS approximation to the joint friction/normal LCP).
func (cs *ContactSolver) SolveVelocityConstraints() {
	for ci := range cs.contacts {
		vc := &cs.velocityConstraints[ci]
		velA := &cs.velocities[vc.IndexA]
		velB := &cs.velocities[vc.IndexB]
		invMassA, invMassB := vc.InvMassA, vc.InvMassB
		invIA, invIB := vc.InvIA, vc.InvIB
		tangent := vc.Normal.Skew()

		for i := 0; i < vc.PointCount; i++ {
			p := &vc.Points[i]
			dv := relativeVelocity(*velA, *velB, p.RA, p.RB)
			vt := math2.Dot2(dv, tangent) - vc.TangentSpeed
			lambda := p.TangentMass * -vt

			maxFriction := vc.Friction * p.NormalImpulse
			newImpulse := math2.Clamp(p.TangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - p.TangentImpulse
			p.TangentImpulse = newImpulse

			P := math2.Scale2(tangent, lambda)
			velA.V = math2.Sub2(velA.V, math2.Scale2(P, invMassA))
			velA.W -= invIA * math2.Cross2(p.RA, P)
			velB.V = math2.Add2(velB.V, math2.Scale2(P, invMassB))
			velB.W += invIB * math2.Cross2(p.RB, P)
		}

		if vc.PointCount == 2 && vc.blockSolve {
			solveTwoPointBlock(vc, velA, velB)
		} else {
			for i := 0; i < vc.PointCount; i++ {
				p := &vc.Points[i]
				dv := relativeVelocity(*velA, *velB, p.RA, p.RB)
				vn := math2.Dot2(dv, vc.Normal)
				lambda := -p.NormalMass * (vn - p.VelocityBias)

				newImpulse := math2.Max(p.NormalImpulse+lambda, 0)
				lambda = newImpulse - p.NormalImpulse
				p.NormalImpulse = newImpulse

				P := math2.Scale2(vc.Normal, lambda)
				velA.V = math2.Sub2(velA.V, math2.Scale2(P, invMassA))
				velA.W -= invIA * math2.Cross2(p.RA, P)
				velB.V = math2.Add2(velB.V, math2.Scale2(P, invMassB))
				velB.W += invIB * math2.Cross2(p.RB, P)
			}
		}
	}
}

// solveTwoPointBlock resolves both contact points of a two-point manifold
// together against the 2x2 normal mass matrix vc.K, trying the four
// sub-cases Erin Catto's block solver enumerates in order (both points
// active, only point 1, only point 2, neither) until one yields a
// non-negative impulse pair consistent with non-negative post-solve
// separating velocities — the simultaneous resolution spec.md §4.6 calls
// for on a two-point manifold (the common box-on-box resting contact),
// where solving each point independently lets one point's correction
// perturb the other's target velocity every iteration.
func solveTwoPointBlock(vc *ContactVelocityConstraint, velA, velB *Velocity) {
	cp1, cp2 := &vc.Points[0], &vc.Points[1]
	invMassA, invMassB := vc.InvMassA, vc.InvMassB
	invIA, invIB := vc.InvIA, vc.InvIB

	a := math2.Vec2{X: cp1.NormalImpulse, Y: cp2.NormalImpulse}
	if a.X < 0 || a.Y < 0 {
		a = math2.Vec2{}
	}

	dv1 := relativeVelocity(*velA, *velB, cp1.RA, cp1.RB)
	dv2 := relativeVelocity(*velA, *velB, cp2.RA, cp2.RB)

	vn1 := math2.Dot2(dv1, vc.Normal)
	vn2 := math2.Dot2(dv2, vc.Normal)

	b := math2.Vec2{
		X: vn1 - cp1.VelocityBias,
		Y: vn2 - cp2.VelocityBias,
	}
	// Current velocities already reflect the warm-started impulse a, so
	// subtract its contribution to recover the velocity the constraint
	// would see starting from zero impulse.
	b = math2.Sub2(b, math2.MulMat22Vec(vc.K, a))

	apply := func(x math2.Vec2) {
		d := math2.Vec2{X: x.X - cp1.NormalImpulse, Y: x.Y - cp2.NormalImpulse}
		p1 := math2.Scale2(vc.Normal, d.X)
		p2 := math2.Scale2(vc.Normal, d.Y)

		velA.V = math2.Sub2(velA.V, math2.Scale2(math2.Add2(p1, p2), invMassA))
		velA.W -= invIA * (math2.Cross2(cp1.RA, p1) + math2.Cross2(cp2.RA, p2))
		velB.V = math2.Add2(velB.V, math2.Scale2(math2.Add2(p1, p2), invMassB))
		velB.W += invIB * (math2.Cross2(cp1.RB, p1) + math2.Cross2(cp2.RB, p2))

		cp1.NormalImpulse = x.X
		cp2.NormalImpulse = x.Y
	}

	// Case 1: both constraints active ( x1 >= 0, x2 >= 0 ).
	x := math2.Neg2(vc.K.Solve(b))
	if x.X >= 0 && x.Y >= 0 {
		apply(x)
		return
	}

	// Case 2: vn1 = 0 and x2 = 0.
	x = math2.Vec2{X: -cp1.NormalMass * b.X, Y: 0}
	if x.X >= 0 {
		vn2Case := vc.K.Ey.X*x.X + b.Y
		if vn2Case >= 0 {
			apply(x)
			return
		}
	}

	// Case 3: vn2 = 0 and x1 = 0.
	x = math2.Vec2{X: 0, Y: -cp2.NormalMass * b.Y}
	if x.Y >= 0 {
		vn1Case := vc.K.Ex.Y*x.Y + b.X
		if vn1Case >= 0 {
			apply(x)
			return
		}
	}

	// Case 4: both impulses are zero (the bodies are separating at both
	// points this iteration).
	x = math2.Vec2{}
	if b.X >= 0 && b.Y >= 0 {
		apply(x)
		return
	}

	// No sub-case satisfied the non-negativity requirements exactly (can
	// happen with numerical noise right at a case boundary); fall back to
	// the independent per-point clamp rather than apply an inconsistent
	// impulse pair.
	for i, p := range [2]*VelocityConstraintPoint{cp1, cp2} {
		var rA, rB math2.Vec2
		if i == 0 {
			rA, rB = cp1.RA, cp1.RB
		} else {
			rA, rB = cp2.RA, cp2.RB
		}
		dv := relativeVelocity(*velA, *velB, rA, rB)
		vn := math2.Dot2(dv, vc.Normal)
		lambda := -p.NormalMass * (vn - p.VelocityBias)
		newImpulse := math2.Max(p.NormalImpulse+lambda, 0)
		lambda = newImpulse - p.NormalImpulse
		p.NormalImpulse = newImpulse

		P := math2.Scale2(vc.Normal, lambda)
		velA.V = math2.Sub2(velA.V, math2.Scale2(P, invMassA))
		velA.W -= invIA * math2.Cross2(rA, P)
		velB.V = math2.Add2(velB.V, math2.Scale2(P, invMassB))
		velB.W += invIB * math2.Cross2(rB, P)
	}
}

// StoreImpulses copies each point's accumulated normal/tangent impulse
// back into dst (the caller's long-lived manifold points), keyed by
// index, so next step's contact persistence can warm-start from them.
func (cs *ContactSolver) StoreImpulses(dst func(contactIndex, pointIndex int, normalImpulse, tangentImpulse float32)) {
	for ci := range cs.contacts {
		vc := &cs.velocityConstraints[ci]
		for i := 0; i < vc.PointCount; i++ {
			dst(ci, i, vc.Points[i].NormalImpulse, vc.Points[i].TangentImpulse)
		}
	}
}

// SolvePositionConstraints runs one Nonlinear-Gauss-Seidel position
// correction sweep, recomputing each contact's separation at the
// *current* (already partly corrected) positions rather than reusing the
// velocity pass's cached lever arms, and returns whether the deepest
// separation seen in this sweep is no worse than -3*linearSlop (the island's exit condition,
// spec.md §4.6).
func (cs *ContactSolver) SolvePositionConstraints() bool {
	minSeparation := float32(0)

	for ci := range cs.positionConstraints {
		pc := &cs.positionConstraints[ci]

		posA := &cs.positions[pc.IndexA]
		posB := &cs.positions[pc.IndexB]

		for i := 0; i < pc.PointCount; i++ {
			xfA := frameFromPosition(*posA, pc.LocalCenterA)
			xfB := frameFromPosition(*posB, pc.LocalCenterB)

			point, normal, separation := pc.evaluate(i, xfA, xfB)

			rA := math2.Sub2(point, posA.Center)
			rB := math2.Sub2(point, posB.Center)

			if separation < minSeparation {
				minSeparation = separation
			}

			C := math2.Clamp(baumgarte*(separation+linearSlop), -maxLinearCorrection, 0)

			rnA := math2.Cross2(rA, normal)
			rnB := math2.Cross2(rB, normal)
			K := pc.InvMassA + pc.InvMassB + pc.InvIA*rnA*rnA + pc.InvIB*rnB*rnB

			impulse := float32(0)
			if K > 0 {
				impulse = -C / K
			}

			P := math2.Scale2(normal, impulse)

			posA.Center = math2.Sub2(posA.Center, math2.Scale2(P, pc.InvMassA))
			posA.Angle -= pc.InvIA * math2.Cross2(rA, P)
			posB.Center = math2.Add2(posB.Center, math2.Scale2(P, pc.InvMassB))
			posB.Angle += pc.InvIB * math2.Cross2(rB, P)
		}
	}

	return minSeparation >= -3*linearSlop
}

// evaluate recomputes the manifold point's world position, normal and
// separation at transforms xfA/xfB, matching collision.ComputeWorldManifold's
// per-type math but against a single requested point index.
func (pc *ContactPositionConstraint) evaluate(index int, xfA, xfB math2.Transform) (math2.Vec2, math2.Vec2, float32) {
	switch pc.ManifoldType {
	case 0: // circles
		pointA := math2.MulTransformVec(xfA, pc.LocalPoint)
		pointB := math2.MulTransformVec(xfB, pc.LocalPoints[0])
		normal := math2.Vec2{X: 1, Y: 0}
		if pointB.DistanceToSquared(&pointA) > math2.Epsilon*math2.Epsilon {
			normal = math2.Sub2(pointB, pointA)
			normal.Normalize()
		}
		cA := math2.Add2(pointA, math2.Scale2(normal, pc.RadiusA))
		cB := math2.Sub2(pointB, math2.Scale2(normal, pc.RadiusB))
		sep := math2.Dot2(math2.Sub2(cB, cA), normal)
		return math2.Scale2(math2.Add2(cA, cB), 0.5), normal, sep

	case 1: // faceA
		normal := math2.RotVec(xfA.Q, pc.LocalNormal)
		planePoint := math2.MulTransformVec(xfA, pc.LocalPoint)
		clipPoint := math2.MulTransformVec(xfB, pc.LocalPoints[index])
		cA := math2.Add2(clipPoint, math2.Scale2(normal, pc.RadiusA-math2.Dot2(math2.Sub2(clipPoint, planePoint), normal)))
		cB := math2.Sub2(clipPoint, math2.Scale2(normal, pc.RadiusB))
		sep := math2.Dot2(math2.Sub2(cB, cA), normal)
		return math2.Scale2(math2.Add2(cA, cB), 0.5), normal, sep

	default: // faceB
		normal := math2.RotVec(xfB.Q, pc.LocalNormal)
		planePoint := math2.MulTransformVec(xfB, pc.LocalPoint)
		clipPoint := math2.MulTransformVec(xfA, pc.LocalPoints[index])
		cB := math2.Add2(clipPoint, math2.Scale2(normal, pc.RadiusB-math2.Dot2(math2.Sub2(clipPoint, planePoint), normal)))
		cA := math2.Sub2(clipPoint, math2.Scale2(normal, pc.RadiusA))
		sep := math2.Dot2(math2.Sub2(cA, cB), normal)
		return math2.Scale2(math2.Add2(cA, cB), 0.5), math2.Neg2(normal), sep
	}
}

func frameFromPosition(p Position, localCenter math2.Vec2) math2.Transform {
	var q math2.Rot
	q.Set(p.Angle)
	xf := math2.Transform{Q: q}
	xf.P = math2.Sub2(p.Center, math2.RotVec(q, localCenter))
	return xf
}

func relativeVelocity(velA, velB Velocity, rA, rB math2.Vec2) math2.Vec2 {
	vB := math2.Add2(velB.V, math2.CrossScalarVec(velB.W, &rB))
	vA := math2.Add2(velA.V, math2.CrossScalarVec(velA.W, &rA))
	return math2.Sub2(vB, vA)
}

type worldManifoldResult struct {
	normal math2.Vec2
	points [MaxManifoldPoints]math2.Vec2
}

func worldManifoldFromView(m ManifoldView, xfA math2.Transform, radiusA float32, xfB math2.Transform, radiusB float32) worldManifoldResult {
	var wm worldManifoldResult
	if m.PointCount == 0 {
		return wm
	}
	switch m.Type {
	case 0:
		pointA := math2.MulTransformVec(xfA, m.LocalPoint)
		pointB := math2.MulTransformVec(xfB, m.Points[0])
		normal := math2.Vec2{X: 1, Y: 0}
		if pointB.DistanceToSquared(&pointA) > math2.Epsilon*math2.Epsilon {
			normal = math2.Sub2(pointB, pointA)
			normal.Normalize()
		}
		cA := math2.Add2(pointA, math2.Scale2(normal, radiusA))
		cB := math2.Sub2(pointB, math2.Scale2(normal, radiusB))
		wm.normal = normal
		wm.points[0] = math2.Scale2(math2.Add2(cA, cB), 0.5)
	case 1:
		normal := math2.RotVec(xfA.Q, m.LocalNormal)
		planePoint := math2.MulTransformVec(xfA, m.LocalPoint)
		wm.normal = normal
		for i := 0; i < m.PointCount; i++ {
			clipPoint := math2.MulTransformVec(xfB, m.Points[i])
			cA := math2.Add2(clipPoint, math2.Scale2(normal, radiusA-math2.Dot2(math2.Sub2(clipPoint, planePoint), normal)))
			cB := math2.Sub2(clipPoint, math2.Scale2(normal, radiusB))
			wm.points[i] = math2.Scale2(math2.Add2(cA, cB), 0.5)
		}
	default:
		normal := math2.RotVec(xfB.Q, m.LocalNormal)
		planePoint := math2.MulTransformVec(xfB, m.LocalPoint)
		wm.normal = math2.Neg2(normal)
		for i := 0; i < m.PointCount; i++ {
			clipPoint := math2.MulTransformVec(xfA, m.Points[i])
			cB := math2.Add2(clipPoint, math2.Scale2(normal, radiusB-math2.Dot2(math2.Sub2(clipPoint, planePoint), normal)))
			cA := math2.Sub2(clipPoint, math2.Scale2(normal, radiusA))
			wm.points[i] = math2.Scale2(math2.Add2(cA, cB), 0.5)
		}
	}
	return wm
}
