// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/solver"
)

// WheelJointDef is the input to NewWheelJoint.
type WheelJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     math2.Vec2
	LocalAnchorB     math2.Vec2
	LocalAxisA       math2.Vec2
	EnableLimit      bool
	LowerTranslation float32
	UpperTranslation float32
	EnableMotor      bool
	MotorSpeed       float32
	MaxMotorTorque   float32
	Stiffness        float32
	Damping          float32
	CollideConnected bool
	UserData         interface{}
}

// WheelJoint is a PrismaticJoint's translational axis combined with a soft
// spring along that axis (following the conewise spring-and-limit shape the
// teacher's ConeTwist constraint uses, see experimental/physics/constraint/
// conetwist.go) plus an optional motor — the standard car-suspension joint.
type WheelJoint struct {
	jointBase

	localAnchorA, localAnchorB math2.Vec2
	localAxisA                 math2.Vec2

	enableLimit              bool
	lowerTranslation, upperTranslation float32
	enableMotor              bool
	motorSpeed, maxMotorTorque float32
	stiffness, damping       float32

	axis, perp     math2.Vec2
	s1, s2, a1, a2 float32
	springMass     float32
	bias, gamma    float32
	springImpulse  float32
	motorImpulse   float32
	lowerImpulse, upperImpulse float32
	axialMass      float32
	perpMass       float32
	angularMass    float32
	perpImpulse    float32
	angularImpulse float32
}

// NewWheelJoint creates and returns a pointer to a new WheelJoint.
func NewWheelJoint(def WheelJointDef) *WheelJoint {
	axis := def.LocalAxisA
	if axis.Length() < shapeEpsilon {
		axis = math2.Vec2{X: 1, Y: 0}
	} else {
		axis = math2.Scale2(axis, 1/axis.Length())
	}
	j := &WheelJoint{
		localAnchorA:     def.LocalAnchorA,
		localAnchorB:     def.LocalAnchorB,
		localAxisA:       axis,
		enableLimit:      def.EnableLimit,
		lowerTranslation: def.LowerTranslation,
		upperTranslation: def.UpperTranslation,
		enableMotor:      def.EnableMotor,
		motorSpeed:       def.MotorSpeed,
		maxMotorTorque:   def.MaxMotorTorque,
		stiffness:        def.Stiffness,
		damping:          def.Damping,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

func (j *WheelJoint) SetMotorSpeed(v float32) { j.motorSpeed = v }
func (j *WheelJoint) EnableMotor(v bool)      { j.enableMotor = v }

func (j *WheelJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	qA, qB := rotOf(data.positions[j.indexA].Angle), rotOf(data.positions[j.indexB].Angle)

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

	j.perp = math2.Vec2{X: -j.axis.Y, Y: j.axis.X}
	j.s1 = math2.Cross2(math2.Add2(d, rA), j.perp)
	j.s2 = math2.Cross2(rB, j.perp)

	invMass := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	if invMass > 0 {
		j.perpMass = 1 / invMass
	}

	angularInv := iA + iB
	if angularInv > 0 {
		j.angularMass = 1 / angularInv
	}

	j.springMass = 0
	j.bias, j.gamma = 0, 0
	if j.stiffness > 0 {
		axialInv := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
		if axialInv > 0 {
			j.springMass = 1 / axialInv
		}
		c := math2.Dot2(d, j.axis)
		gamma, biasCoef := softCoefficients(j.stiffness, j.damping, data.dt)
		j.gamma = gamma
		j.bias = c * biasCoef
		invMass2 := axialInv + j.gamma
		if invMass2 > 0 {
			j.springMass = 1 / invMass2
		}
	}

	axialInv := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	if axialInv > 0 {
		j.axialMass = 1 / axialInv
	}

	if !j.enableMotor {
		j.motorImpulse = 0
	}
}

func (j *WheelJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	if j.stiffness > 0 {
		cdot := math2.Dot2(j.axis, math2.Sub2(vB.V, vA.V)) + j.a2*vB.W - j.a1*vA.W
		impulse := -j.springMass * (cdot + j.bias + j.gamma*j.springImpulse)
		j.springImpulse += impulse
		p := math2.Scale2(j.axis, impulse)
		la := impulse * j.a1
		lb := impulse * j.a2
		vA.V = math2.Sub2(vA.V, math2.Scale2(p, mA))
		vA.W -= iA * la
		vB.V = math2.Add2(vB.V, math2.Scale2(p, mB))
		vB.W += iB * lb
	}

	if j.enableMotor {
		cdot := math2.Dot2(j.axis, math2.Sub2(vB.V, vA.V)) + j.a2*vB.W - j.a1*vA.W
		impulse := j.axialMass * (j.motorSpeed - cdot)
		old := j.motorImpulse
		maxImpulse := j.maxMotorTorque * data.dt
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

	{
		cdot1 := math2.Dot2(j.perp, math2.Sub2(vB.V, vA.V)) + j.s2*vB.W - j.s1*vA.W
		impulse := -j.perpMass * cdot1
		j.perpImpulse += impulse
		p := math2.Scale2(j.perp, impulse)
		la := impulse * j.s1
		lb := impulse * j.s2
		vA.V = math2.Sub2(vA.V, math2.Scale2(p, mA))
		vA.W -= iA * la
		vB.V = math2.Add2(vB.V, math2.Scale2(p, mB))
		vB.W += iB * lb
	}

	{
		cdot := vB.W - vA.W
		impulse := -j.angularMass * cdot
		j.angularImpulse += impulse
		vA.W -= iA * impulse
		vB.W += iB * impulse
	}

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
}

func (j *WheelJoint) solvePositionConstraints(data *solverData) bool {
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

	c := math2.Dot2(perp, d)

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	k := mA + mB + iA*s1*s1 + iB*s2*s2
	var impulse float32
	if k > 0 {
		impulse = -c / k
	}

	p := math2.Scale2(perp, impulse)
	la := impulse * s1
	lb := impulse * s2

	cA = math2.Sub2(cA, math2.Scale2(p, mA))
	aA -= iA * la
	cB = math2.Add2(cB, math2.Scale2(p, mB))
	aB += iB * lb

	data.positions[j.indexA] = solver.Position{Center: cA, Angle: aA}
	data.positions[j.indexB] = solver.Position{Center: cB, Angle: aB}

	return math2.Abs(c) <= 0.005
}
