// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
)

// MotorJointDef is the input to NewMotorJoint.
type MotorJointDef struct {
	BodyA, BodyB     *Body
	LinearOffset     math2.Vec2 // BodyB's target position relative to BodyA, in BodyA's frame
	AngularOffset    float32    // BodyB's target angle relative to BodyA
	MaxForce         float32
	MaxTorque        float32
	CorrectionFactor float32 // 0..1, fraction of position error corrected per step
	CollideConnected bool
	UserData         interface{}
}

// MotorJoint drives BodyB toward a LinearOffset/AngularOffset relative to
// BodyA, clamped to MaxForce/MaxTorque — Box2D's "smooth follow" joint, used
// to script one body's motion relative to another (e.g. a character
// standing on a moving platform) without a hard kinematic parent-child link.
type MotorJoint struct {
	jointBase

	linearOffset     math2.Vec2
	angularOffset    float32
	maxForce         float32
	maxTorque        float32
	correctionFactor float32

	rA, rB       math2.Vec2
	linearError  math2.Vec2
	angularError float32
	linearMass   math2.Mat22
	angularMass  float32
	linearImpulse  math2.Vec2
	angularImpulse float32
}

// NewMotorJoint creates and returns a pointer to a new MotorJoint.
func NewMotorJoint(def MotorJointDef) *MotorJoint {
	cf := def.CorrectionFactor
	if cf <= 0 {
		cf = 0.3
	}
	j := &MotorJoint{
		linearOffset:     def.LinearOffset,
		angularOffset:    def.AngularOffset,
		maxForce:         def.MaxForce,
		maxTorque:        def.MaxTorque,
		correctionFactor: cf,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

func (j *MotorJoint) SetLinearOffset(v math2.Vec2) { j.linearOffset = v }
func (j *MotorJoint) SetAngularOffset(v float32)    { j.angularOffset = v }

func (j *MotorJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	qA, qB := rotOf(data.positions[j.indexA].Angle), rotOf(data.positions[j.indexB].Angle)

	j.rA = math2.RotVec(qA, math2.Neg2(j.localCenterA))
	j.rB = math2.RotVec(qB, math2.Neg2(j.localCenterB))

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

	cA := data.positions[j.indexA].Center
	cB := data.positions[j.indexB].Center
	j.linearError = math2.Sub2(math2.Sub2(math2.Add2(cB, j.rB), math2.Add2(cA, j.rA)), math2.RotVec(qA, j.linearOffset))
	j.angularError = data.positions[j.indexB].Angle - data.positions[j.indexA].Angle - j.angularOffset
}

func (j *MotorJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB
	invH := data.invDt

	{
		cdot := vB.W - vA.W + invH*j.correctionFactor*j.angularError
		impulse := -j.angularMass * cdot
		old := j.angularImpulse
		maxImpulse := j.maxTorque * data.dt
		j.angularImpulse = math2.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.angularImpulse - old
		vA.W -= iA * impulse
		vB.W += iB * impulse
	}

	{
		vpA := math2.Add2(vA.V, math2.CrossScalarVec(vA.W, &j.rA))
		vpB := math2.Add2(vB.V, math2.CrossScalarVec(vB.W, &j.rB))
		cdot := math2.Add2(math2.Sub2(vpB, vpA), math2.Scale2(j.linearError, invH*j.correctionFactor))

		impulse := math2.Neg2(math2.MulMat22Vec(j.linearMass, cdot))
		old := j.linearImpulse
		j.linearImpulse = math2.Add2(j.linearImpulse, impulse)

		maxImpulse := j.maxForce * data.dt
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

// solvePositionConstraints is a no-op: a motor joint corrects its error
// through a velocity bias term each step rather than an NGS position pass.
func (j *MotorJoint) solvePositionConstraints(data *solverData) bool {
	return true
}
