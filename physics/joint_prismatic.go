// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
	"github.com/g3n/engine2d/solver"
)

// PrismaticJointDef is the input to NewPrismaticJoint.
type PrismaticJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     math2.Vec2
	LocalAnchorB     math2.Vec2
	LocalAxisA       math2.Vec2 // unit vector, in bodyA's frame
	ReferenceAngle   float32
	EnableLimit      bool
	LowerTranslation float32
	UpperTranslation float32
	EnableMotor      bool
	MotorSpeed       float32
	MaxMotorForce    float32
	CollideConnected bool
	UserData         interface{}
}

// PrismaticJoint constrains BodyB to slide along an axis fixed in BodyA,
// removing the perpendicular translation and the relative rotation, leaving
// one translational degree of freedom optionally bounded and/or motorized.
type PrismaticJoint struct {
	jointBase

	localAnchorA, localAnchorB math2.Vec2
	localAxisA                 math2.Vec2
	referenceAngle             float32

	enableLimit              bool
	lowerTranslation, upperTranslation float32
	enableMotor              bool
	motorSpeed, maxMotorForce float32

	axis, perp     math2.Vec2
	s1, s2, a1, a2 float32
	k11, k12, k22  float32
	impulse        math2.Vec2 // x: perpendicular, y: angular
	motorImpulse   float32
	lowerImpulse, upperImpulse float32
	axialMass      float32
}

// NewPrismaticJoint creates and returns a pointer to a new PrismaticJoint.
func NewPrismaticJoint(def PrismaticJointDef) *PrismaticJoint {
	axis := def.LocalAxisA
	if axis.Length() < shapeEpsilon {
		fail("prismatic joint requires a non-degenerate LocalAxisA")
	}
	j := &PrismaticJoint{
		localAnchorA:     def.LocalAnchorA,
		localAnchorB:     def.LocalAnchorB,
		localAxisA:       math2.Scale2(axis, 1/axis.Length()),
		referenceAngle:   def.ReferenceAngle,
		enableLimit:      def.EnableLimit,
		lowerTranslation: def.LowerTranslation,
		upperTranslation: def.UpperTranslation,
		enableMotor:      def.EnableMotor,
		motorSpeed:       def.MotorSpeed,
		maxMotorForce:    def.MaxMotorForce,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

func (j *PrismaticJoint) SetMotorSpeed(v float32) { j.motorSpeed = v }
func (j *PrismaticJoint) EnableMotor(v bool)      { j.enableMotor = v }

func (j *PrismaticJoint) GetJointTranslation() float32 {
	qA, qB := math2.Rot{}, math2.Rot{}
	qA.Set(j.bodyA.sweep.A)
	qB.Set(j.bodyB.sweep.A)
	d := math2.Sub2(
		math2.Add2(j.bodyB.sweep.C, math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))),
		math2.Add2(j.bodyA.sweep.C, math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))),
	)
	axis := math2.RotVec(qA, j.localAxisA)
	return math2.Dot2(d, axis)
}

func (j *PrismaticJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	qA, qB := math2.Rot{}, math2.Rot{}
	qA.Set(data.positions[j.indexA].Angle)
	qB.Set(data.positions[j.indexB].Angle)

	rA := math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	rB := math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))
	cA := data.positions[j.indexA].Center
	cB := data.positions[j.indexB].Center
	d := math2.Sub2(math2.Add2(cB, rB), math2.Add2(cA, rA))

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	j.axis = math2.RotVec(qA, j.localAxisA)
	j.a1 = math2.Cross2(math2.Add2(d, rA), j.axis)
	j.a2 = math2.Cross2(rB, j.axis)
	axialInv := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	if axialInv > 0 {
		j.axialMass = 1 / axialInv
	}

	j.perp = math2.Vec2{X: -j.axis.Y, Y: j.axis.X}
	j.s1 = math2.Cross2(math2.Add2(d, rA), j.perp)
	j.s2 = math2.Cross2(rB, j.perp)

	j.k11 = mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	j.k12 = iA*j.s1 + iB*j.s2
	j.k22 = iA + iB
	if j.k22 == 0 {
		j.k22 = 1
	}

	if !j.enableMotor {
		j.motorImpulse = 0
	}
}

func (j *PrismaticJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	if j.enableMotor {
		cdot := math2.Dot2(j.axis, math2.Sub2(vB.V, vA.V)) + j.a2*vB.W - j.a1*vA.W
		impulse := j.axialMass * (j.motorSpeed - cdot)
		old := j.motorImpulse
		maxImpulse := j.maxMotorForce * data.dt
		j.motorImpulse = math2.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old

		p := math2.Scale2(j.axis, impulse)
		la := impulse * j.a1
		lb := impulse * j.a2
		vA.V = math2.Sub2(vA.V, math2.Scale2(p, mA))
		vA.W -= iA * la
		vB.V = math2.Add2(vB.V, math2.Scale2(p, mB))
		vB.W += iB * lb
	}

	if j.enableLimit {
		translation := math2.Dot2(j.axis, math2.Sub2(
			math2.Add2(data.positions[j.indexB].Center, math2.RotVec(rotOf(data.positions[j.indexB].Angle), math2.Sub2(j.localAnchorB, j.localCenterB))),
			math2.Add2(data.positions[j.indexA].Center, math2.RotVec(rotOf(data.positions[j.indexA].Angle), math2.Sub2(j.localAnchorA, j.localCenterA))),
		))

		// Lower.
		{
			c := translation - j.lowerTranslation
			bias := math2.Max(c, 0) * data.invDt
			cdot := math2.Dot2(j.axis, math2.Sub2(vB.V, vA.V)) + j.a2*vB.W - j.a1*vA.W
			impulse := -j.axialMass * (cdot + bias)
			newImpulse := math2.Max(j.lowerImpulse+impulse, 0)
			impulse = newImpulse - j.lowerImpulse
			j.lowerImpulse = newImpulse

			p := math2.Scale2(j.axis, impulse)
			vA.V = math2.Sub2(vA.V, math2.Scale2(p, mA))
			vA.W -= iA * impulse * j.a1
			vB.V = math2.Add2(vB.V, math2.Scale2(p, mB))
			vB.W += iB * impulse * j.a2
		}
		// Upper.
		{
			c := j.upperTranslation - translation
			bias := math2.Max(c, 0) * data.invDt
			cdot := math2.Dot2(j.axis, math2.Sub2(vA.V, vB.V)) + j.a1*vA.W - j.a2*vB.W
			impulse := -j.axialMass * (cdot + bias)
			newImpulse := math2.Max(j.upperImpulse+impulse, 0)
			impulse = newImpulse - j.upperImpulse
			j.upperImpulse = newImpulse

			p := math2.Scale2(j.axis, impulse)
			vA.V = math2.Add2(vA.V, math2.Scale2(p, mA))
			vA.W += iA * impulse * j.a1
			vB.V = math2.Sub2(vB.V, math2.Scale2(p, mB))
			vB.W -= iB * impulse * j.a2
		}
	}

	cdot1X := math2.Dot2(j.perp, math2.Sub2(vB.V, vA.V)) + j.s2*vB.W - j.s1*vA.W
	cdot1Y := vB.W - vA.W

	k := math2.Mat22{Ex: math2.Vec2{X: j.k11, Y: j.k12}, Ey: math2.Vec2{X: j.k12, Y: j.k22}}
	impulse := math2.Neg2(k.Solve(math2.Vec2{X: cdot1X, Y: cdot1Y}))
	j.impulse = math2.Add2(j.impulse, impulse)

	p := math2.Scale2(j.perp, impulse.X)
	la := impulse.X*j.s1 + impulse.Y
	lb := impulse.X*j.s2 + impulse.Y

	vA.V = math2.Sub2(vA.V, math2.Scale2(p, mA))
	vA.W -= iA * la
	vB.V = math2.Add2(vB.V, math2.Scale2(p, mB))
	vB.W += iB * lb

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
}

func rotOf(angle float32) math2.Rot {
	r := math2.Rot{}
	r.Set(angle)
	return r
}

func (j *PrismaticJoint) solvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].Center
	aA := data.positions[j.indexA].Angle
	cB := data.positions[j.indexB].Center
	aB := data.positions[j.indexB].Angle

	qA, qB := rotOf(aA), rotOf(aB)

	rA := math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	rB := math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))
	d := math2.Sub2(math2.Add2(cB, rB), math2.Add2(cA, rA))

	axis := math2.RotVec(qA, j.localAxisA)
	perp := math2.Vec2{X: -axis.Y, Y: axis.X}
	s1 := math2.Cross2(math2.Add2(d, rA), perp)
	s2 := math2.Cross2(rB, perp)

	c1X := math2.Dot2(perp, d)
	c1Y := aB - aA - j.referenceAngle

	linearError := math2.Abs(c1X)
	angularError := math2.Abs(c1Y)

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}
	k := math2.Mat22{Ex: math2.Vec2{X: k11, Y: k12}, Ey: math2.Vec2{X: k12, Y: k22}}
	impulse := math2.Neg2(k.Solve(math2.Vec2{X: c1X, Y: c1Y}))

	p := math2.Scale2(perp, impulse.X)
	la := impulse.X*s1 + impulse.Y
	lb := impulse.X*s2 + impulse.Y

	cA = math2.Sub2(cA, math2.Scale2(p, mA))
	aA -= iA * la
	cB = math2.Add2(cB, math2.Scale2(p, mB))
	aB += iB * lb

	data.positions[j.indexA] = solver.Position{Center: cA, Angle: aA}
	data.positions[j.indexB] = solver.Position{Center: cB, Angle: aB}

	return linearError <= shape2d.LinearSlop && angularError <= jointAngularSlop
}
