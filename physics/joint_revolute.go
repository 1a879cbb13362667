// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
	"github.com/g3n/engine2d/solver"
)

// RevoluteJointDef is the input to NewRevoluteJoint.
type RevoluteJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     math2.Vec2
	LocalAnchorB     math2.Vec2
	ReferenceAngle   float32
	EnableLimit      bool
	LowerAngle       float32
	UpperAngle       float32
	EnableMotor      bool
	MotorSpeed       float32
	MaxMotorTorque   float32
	CollideConnected bool
	UserData         interface{}
}

// RevoluteJoint pins BodyA and BodyB's anchors together, removing the two
// translational degrees of freedom and leaving relative rotation, optionally
// bounded by an angle limit and/or driven by a motor.
type RevoluteJoint struct {
	jointBase

	localAnchorA, localAnchorB math2.Vec2
	referenceAngle             float32

	enableLimit              bool
	lowerAngle, upperAngle   float32
	enableMotor              bool
	motorSpeed, maxMotorTorque float32

	rA, rB       math2.Vec2
	pivotMass    math2.Mat22
	axialMass    float32
	pointImpulse math2.Vec2
	motorImpulse float32
	lowerImpulse, upperImpulse float32
}

// NewRevoluteJoint creates and returns a pointer to a new RevoluteJoint.
func NewRevoluteJoint(def RevoluteJointDef) *RevoluteJoint {
	j := &RevoluteJoint{
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		enableLimit:    def.EnableLimit,
		lowerAngle:     def.LowerAngle,
		upperAngle:     def.UpperAngle,
		enableMotor:    def.EnableMotor,
		motorSpeed:     def.MotorSpeed,
		maxMotorTorque: def.MaxMotorTorque,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

func (j *RevoluteJoint) EnableMotor(v bool)      { j.enableMotor = v }
func (j *RevoluteJoint) SetMotorSpeed(v float32) { j.motorSpeed = v }
func (j *RevoluteJoint) GetJointAngle() float32 {
	return j.bodyB.sweep.A - j.bodyA.sweep.A - j.referenceAngle
}

func (j *RevoluteJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	qA, qB := math2.Rot{}, math2.Rot{}
	qA.Set(data.positions[j.indexA].Angle)
	qB.Set(data.positions[j.indexB].Angle)

	j.rA = math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	j.rB = math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	k11 := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k12 := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k22 := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.pivotMass = math2.Mat22{Ex: math2.Vec2{X: k11, Y: k12}, Ey: math2.Vec2{X: k12, Y: k22}}

	axial := iA + iB
	if axial > 0 {
		j.axialMass = 1 / axial
	}

	if !j.enableMotor {
		j.motorImpulse = 0
	}
}

func (j *RevoluteJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	if j.enableMotor {
		cdot := vB.W - vA.W - j.motorSpeed
		impulse := -j.axialMass * cdot
		old := j.motorImpulse
		maxImpulse := j.maxMotorTorque * data.dt
		j.motorImpulse = math2.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		vA.W -= iA * impulse
		vB.W += iB * impulse
	}

	if j.enableLimit {
		angle := data.positions[j.indexB].Angle - data.positions[j.indexA].Angle - j.referenceAngle

		// Lower limit.
		{
			c := angle - j.lowerAngle
			bias := math2.Max(c, 0) * data.invDt
			cdot := vB.W - vA.W
			impulse := -j.axialMass * (cdot + bias)
			newImpulse := math2.Max(j.lowerImpulse+impulse, 0)
			impulse = newImpulse - j.lowerImpulse
			j.lowerImpulse = newImpulse
			vA.W -= iA * impulse
			vB.W += iB * impulse
		}
		// Upper limit.
		{
			c := j.upperAngle - angle
			bias := math2.Max(c, 0) * data.invDt
			cdot := vA.W - vB.W
			impulse := -j.axialMass * (cdot + bias)
			newImpulse := math2.Max(j.upperImpulse+impulse, 0)
			impulse = newImpulse - j.upperImpulse
			j.upperImpulse = newImpulse
			vA.W += iA * impulse
			vB.W -= iB * impulse
		}
	}

	vpA := math2.Add2(vA.V, math2.CrossScalarVec(vA.W, &j.rA))
	vpB := math2.Add2(vB.V, math2.CrossScalarVec(vB.W, &j.rB))
	cdot := math2.Sub2(vpB, vpA)

	impulse := math2.Neg2(math2.MulMat22Vec(j.pivotMass, cdot))
	j.pointImpulse = math2.Add2(j.pointImpulse, impulse)

	vA.V = math2.Sub2(vA.V, math2.Scale2(impulse, mA))
	vA.W -= iA * math2.Cross2(j.rA, impulse)
	vB.V = math2.Add2(vB.V, math2.Scale2(impulse, mB))
	vB.W += iB * math2.Cross2(j.rB, impulse)

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
}

func (j *RevoluteJoint) solvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].Center
	aA := data.positions[j.indexA].Angle
	cB := data.positions[j.indexB].Center
	aB := data.positions[j.indexB].Angle

	qA, qB := math2.Rot{}, math2.Rot{}
	qA.Set(aA)
	qB.Set(aB)

	angularError := float32(0)
	positionError := float32(0)

	if j.enableLimit {
		angle := aB - aA - j.referenceAngle
		c := float32(0)
		if j.lowerAngle == j.upperAngle {
			c = angle - j.lowerAngle
		} else if angle <= j.lowerAngle {
			c = math2.Min(angle-j.lowerAngle, 0)
		} else if angle >= j.upperAngle {
			c = math2.Max(angle-j.upperAngle, 0)
		}
		iA, iB := j.invIA, j.invIB
		limitImpulse := float32(0)
		if iA+iB > 0 {
			limitImpulse = -c / (iA + iB)
		}
		aA -= iA * limitImpulse
		aB += iB * limitImpulse
		angularError = math2.Abs(c)
	}

	qA.Set(aA)
	qB.Set(aB)
	rA := math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	rB := math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	c := math2.Sub2(math2.Add2(cB, rB), math2.Add2(cA, rA))
	positionError = c.Length()

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB
	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	k := math2.Mat22{Ex: math2.Vec2{X: k11, Y: k12}, Ey: math2.Vec2{X: k12, Y: k22}}
	impulse := math2.Neg2(k.Solve(c))

	cA = math2.Sub2(cA, math2.Scale2(impulse, mA))
	aA -= iA * math2.Cross2(rA, impulse)
	cB = math2.Add2(cB, math2.Scale2(impulse, mB))
	aB += iB * math2.Cross2(rB, impulse)

	data.positions[j.indexA] = solver.Position{Center: cA, Angle: aA}
	data.positions[j.indexB] = solver.Position{Center: cB, Angle: aB}

	return positionError <= shape2d.LinearSlop && angularError <= jointAngularSlop
}

const jointAngularSlop = 2.0 / 180.0 * math2.Pi
