// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
)

// FrictionJointDef is the input to NewFrictionJoint.
type FrictionJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     math2.Vec2
	LocalAnchorB     math2.Vec2
	MaxForce         float32
	MaxTorque        float32
	CollideConnected bool
	UserData         interface{}
}

// FrictionJoint applies a damping-only translational and angular impulse,
// clamped to MaxForce/MaxTorque, with no position bias at all — it never
// corrects drift, only resists relative motion. Typically layered alongside
// another joint to emulate dry friction (e.g. a conveyor or damped hinge).
type FrictionJoint struct {
	jointBase

	localAnchorA, localAnchorB math2.Vec2
	maxForce, maxTorque         float32

	rA, rB       math2.Vec2
	linearMass   math2.Mat22
	angularMass  float32
	linearImpulse  math2.Vec2
	angularImpulse float32
}

// NewFrictionJoint creates and returns a pointer to a new FrictionJoint.
func NewFrictionJoint(def FrictionJointDef) *FrictionJoint {
	j := &FrictionJoint{
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		maxForce:     def.MaxForce,
		maxTorque:    def.MaxTorque,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

func (j *FrictionJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	qA, qB := rotOf(data.positions[j.indexA].Angle), rotOf(data.positions[j.indexB].Angle)
	j.rA = math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	j.rB = math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	angularInv := iA + iB
	if angularInv > 0 {
		j.angularMass = 1 / angularInv
	}

	k11 := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k12 := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k22 := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.linearMass = math2.Mat22{Ex: math2.Vec2{X: k11, Y: k12}, Ey: math2.Vec2{X: k12, Y: k22}}
}

func (j *FrictionJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB
	h := data.dt

	{
		cdot := vB.W - vA.W
		impulse := -j.angularMass * cdot
		old := j.angularImpulse
		maxImpulse := j.maxTorque * h
		j.angularImpulse = math2.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.angularImpulse - old
		vA.W -= iA * impulse
		vB.W += iB * impulse
	}

	{
		vpA := math2.Add2(vA.V, math2.CrossScalarVec(vA.W, &j.rA))
		vpB := math2.Add2(vB.V, math2.CrossScalarVec(vB.W, &j.rB))
		cdot := math2.Sub2(vpB, vpA)

		impulse := math2.Neg2(math2.MulMat22Vec(j.linearMass, cdot))
		old := j.linearImpulse
		j.linearImpulse = math2.Add2(j.linearImpulse, impulse)

		maxImpulse := j.maxForce * h
		if j.linearImpulse.Length() > maxImpulse {
			j.linearImpulse = math2.Scale2(j.linearImpulse, maxImpulse/j.linearImpulse.Length())
		}
		impulse = math2.Sub2(j.linearImpulse, old)

		vA.V = math2.Sub2(vA.V, math2.Scale2(impulse, mA))
		vA.W -= iA * math2.Cross2(j.rA, impulse)
		vB.V = math2.Add2(vB.V, math2.Scale2(impulse, mB))
		vB.W += iB * math2.Cross2(j.rB, impulse)
	}

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
}

// solvePositionConstraints is a no-op: a friction joint constrains only
// relative velocity, never position.
func (j *FrictionJoint) solvePositionConstraints(data *solverData) bool {
	return true
}
