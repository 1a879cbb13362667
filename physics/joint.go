// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Joint variants follow the teacher's constraint idiom
// (experimental/physics/constraint/*.go: a base Constraint embedding
// BodyA/BodyB/CollideConnected, per-variant Init/Solve/SolvePosition
// triads) generalized from the teacher's 3D equation-based Gauss-Seidel
// solver to the 2D island-local Position/Velocity arrays the contact
// solver also uses (see DESIGN.md for why the teacher's equation.Equation
// abstraction was not ported verbatim).
package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/solver"
)

// Joint is the interface every constraint variant implements. A joint
// couples BodyA and BodyB; CollideConnected reports whether contacts
// between the two bodies are still generated despite the joint.
type Joint interface {
	GetBodyA() *Body
	GetBodyB() *Body
	CollideConnected() bool
	UserData() interface{}

	initVelocityConstraints(data *solverData)
	solveVelocityConstraints(data *solverData)
	solvePositionConstraints(data *solverData) bool

	edgeA() *JointEdge
	edgeB() *JointEdge
	setEdges(a, b *JointEdge)

	islandFlag() bool
	setIslandFlag(v bool)
}

// solverData is the per-island view every joint solves against: the
// island-local position/velocity slot arrays (shared with the contact
// solver) plus the step's time parameters.
type solverData struct {
	positions  []solver.Position
	velocities []solver.Velocity
	dt         float32
	invDt      float32
}

// jointBase is embedded by every concrete joint; it supplies the fields
// and trivial accessors common to all twelve variants.
type jointBase struct {
	bodyA, bodyB     *Body
	collideConnected bool
	userData         interface{}
	edgeAv, edgeBv   *JointEdge
	islandFlagv      bool

	indexA, indexB         int
	localCenterA, localCenterB math2.Vec2
	invMassA, invMassB     float32
	invIA, invIB           float32
}

func (j *jointBase) GetBodyA() *Body           { return j.bodyA }
func (j *jointBase) GetBodyB() *Body           { return j.bodyB }
func (j *jointBase) CollideConnected() bool    { return j.collideConnected }
func (j *jointBase) UserData() interface{}     { return j.userData }
func (j *jointBase) edgeA() *JointEdge         { return j.edgeAv }
func (j *jointBase) edgeB() *JointEdge         { return j.edgeBv }
func (j *jointBase) setEdges(a, b *JointEdge)  { j.edgeAv, j.edgeBv = a, b }
func (j *jointBase) islandFlag() bool          { return j.islandFlagv }
func (j *jointBase) setIslandFlag(v bool)      { j.islandFlagv = v }

func (j *jointBase) initBase() {
	j.indexA = j.bodyA.islandIndex
	j.indexB = j.bodyB.islandIndex
	j.localCenterA = j.bodyA.sweep.LocalCenter
	j.localCenterB = j.bodyB.sweep.LocalCenter
	j.invMassA = j.bodyA.invMass
	j.invMassB = j.bodyB.invMass
	j.invIA = j.bodyA.invI
	j.invIB = j.bodyB.invI
}

// SoftParams converts the frequency/damping-ratio surface into the
// stiffness/damping primitives the solver uses directly, per spec.md §9's
// soft-constraint note. mass is the effective mass the constraint acts
// through (not the body mass).
func SoftParams(frequencyHz, dampingRatio, mass float32) (stiffness, damping float32) {
	if frequencyHz <= 0 {
		return 0, 0
	}
	omega := 2 * math2.Pi * frequencyHz
	stiffness = mass * omega * omega
	damping = 2 * mass * dampingRatio * omega
	return stiffness, damping
}

// gamma and bias are the standard soft-constraint coefficients: with
// stiffness k and damping c over step h, gamma = 1/(h(c+hk)) and
// bias = h*k*gamma*C (C the constraint error), following Erin Catto's
// soft-constraint derivation referenced throughout spec.md §4.6.
func softCoefficients(stiffness, damping, h float32) (gamma, biasCoef float32) {
	if stiffness <= 0 {
		return 0, 0
	}
	d := h * (damping + h*stiffness)
	if d <= 0 {
		return 0, 0
	}
	gamma = 1 / d
	biasCoef = h * stiffness * gamma
	return gamma, biasCoef
}
