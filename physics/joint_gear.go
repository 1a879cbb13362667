// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/solver"
)

// GearJointDef is the input to NewGearJoint. JointA and JointB must each be
// a *RevoluteJoint or *PrismaticJoint already attached to the world; Ratio
// couples their coordinates: coordinate1 + Ratio*coordinate2 == constant.
type GearJointDef struct {
	BodyA, BodyB     *Body
	JointA, JointB   Joint
	Ratio            float32
	CollideConnected bool
	UserData         interface{}
}

// GearJoint couples two existing prismatic/revolute joints so their relative
// coordinates move in lockstep through Ratio — a mechanical gear or rack and
// pinion. Unlike the other eleven variants, a GearJoint's BodyA/BodyB are
// the two *outer* bodies of the coupled joint pair (the teacher's jointed
// bodies); it copies JointA/JointB's anchors, axes and reference angles at
// construction and derives its own Jacobian rows from them each step.
type GearJoint struct {
	jointBase

	jointA, jointB Joint
	typeA, typeB   gearKind
	ratio          float32
	constant       float32

	bodyC, bodyD *Body
	localAnchorA, localAnchorB, localAnchorC, localAnchorD math2.Vec2
	localAxisC, localAxisD                                 math2.Vec2
	referenceAngleA, referenceAngleB                        float32

	indexC, indexD             int
	lcA, lcB, lcC, lcD         math2.Vec2
	mA, mB, mC, mD             float32
	iA, iB, iC, iD             float32

	jvAC, jvBD math2.Vec2
	jwA, jwB, jwC, jwD float32
	mass       float32
	impulse    float32
}

type gearKind int

const (
	gearRevolute gearKind = iota
	gearPrismatic
)

// NewGearJoint creates and returns a pointer to a new GearJoint.
func NewGearJoint(def GearJointDef) *GearJoint {
	if def.Ratio == 0 {
		fail("gear joint requires a non-zero ratio")
	}
	j := &GearJoint{
		jointA: def.JointA,
		jointB: def.JointB,
		ratio:  def.Ratio,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData

	switch a := def.JointA.(type) {
	case *RevoluteJoint:
		j.typeA = gearRevolute
		j.bodyC = a.bodyA
		j.localAnchorC = a.localAnchorA
		j.localAnchorA = a.localAnchorB
		j.referenceAngleA = a.referenceAngle
	case *PrismaticJoint:
		j.typeA = gearPrismatic
		j.bodyC = a.bodyA
		j.localAnchorC = a.localAnchorA
		j.localAnchorA = a.localAnchorB
		j.localAxisC = a.localAxisA
	default:
		fail("gear joint requires JointA to be a revolute or prismatic joint")
	}

	switch b := def.JointB.(type) {
	case *RevoluteJoint:
		j.typeB = gearRevolute
		j.bodyD = b.bodyA
		j.localAnchorD = b.localAnchorA
		j.localAnchorB = b.localAnchorB
		j.referenceAngleB = b.referenceAngle
	case *PrismaticJoint:
		j.typeB = gearPrismatic
		j.bodyD = b.bodyA
		j.localAnchorD = b.localAnchorA
		j.localAnchorB = b.localAnchorB
		j.localAxisD = b.localAxisA
	default:
		fail("gear joint requires JointB to be a revolute or prismatic joint")
	}

	return j
}

func (j *GearJoint) coordinateA() float32 {
	if j.typeA == gearRevolute {
		return j.bodyA.sweep.A - j.bodyC.sweep.A - j.referenceAngleA
	}
	d := math2.Sub2(j.bodyA.sweep.C, j.bodyC.sweep.C)
	axis := math2.RotVec(rotOf(j.bodyC.sweep.A), j.localAxisC)
	return math2.Dot2(d, axis)
}

func (j *GearJoint) coordinateB() float32 {
	if j.typeB == gearRevolute {
		return j.bodyB.sweep.A - j.bodyD.sweep.A - j.referenceAngleB
	}
	d := math2.Sub2(j.bodyB.sweep.C, j.bodyD.sweep.C)
	axis := math2.RotVec(rotOf(j.bodyD.sweep.A), j.localAxisD)
	return math2.Dot2(d, axis)
}

func (j *GearJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	j.indexC = j.bodyC.islandIndex
	j.indexD = j.bodyD.islandIndex
	j.lcA, j.lcB = j.bodyA.sweep.LocalCenter, j.bodyB.sweep.LocalCenter
	j.lcC, j.lcD = j.bodyC.sweep.LocalCenter, j.bodyD.sweep.LocalCenter
	j.mA, j.mB, j.mC, j.mD = j.bodyA.invMass, j.bodyB.invMass, j.bodyC.invMass, j.bodyD.invMass
	j.iA, j.iB, j.iC, j.iD = j.bodyA.invI, j.bodyB.invI, j.bodyC.invI, j.bodyD.invI

	qA := rotOf(data.positions[j.indexA].Angle)
	qB := rotOf(data.positions[j.indexB].Angle)
	qC := rotOf(data.positions[j.indexC].Angle)
	qD := rotOf(data.positions[j.indexD].Angle)

	massTerm := float32(0)

	if j.typeA == gearRevolute {
		j.jwA, j.jwC = 1, 1
		massTerm += j.iA + j.iC
	} else {
		axis := math2.RotVec(qC, j.localAxisC)
		rC := math2.RotVec(qC, math2.Sub2(j.localAnchorC, j.lcC))
		rA := math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.lcA))
		j.jvAC = axis
		j.jwC = math2.Cross2(rC, axis)
		j.jwA = math2.Cross2(rA, axis)
		massTerm += j.mC + j.mA + j.iC*j.jwC*j.jwC + j.iA*j.jwA*j.jwA
	}

	if j.typeB == gearRevolute {
		j.jwB, j.jwD = 1, 1
		massTerm += j.ratio * j.ratio * (j.iB + j.iD)
	} else {
		axis := math2.RotVec(qD, j.localAxisD)
		rD := math2.RotVec(qD, math2.Sub2(j.localAnchorD, j.lcD))
		rB := math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.lcB))
		j.jvBD = axis
		j.jwD = math2.Cross2(rD, axis)
		j.jwB = math2.Cross2(rB, axis)
		massTerm += j.ratio * j.ratio * (j.mD + j.mB + j.iD*j.jwD*j.jwD + j.iB*j.jwB*j.jwB)
	}

	if massTerm > 0 {
		j.mass = 1 / massTerm
	}

	j.constant = j.coordinateA() + j.ratio*j.coordinateB()
}

func (j *GearJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	vC := data.velocities[j.indexC]
	vD := data.velocities[j.indexD]

	cdotA := float32(0)
	if j.typeA == gearRevolute {
		cdotA = vA.W - vC.W
	} else {
		cdotA = math2.Dot2(j.jvAC, math2.Sub2(vA.V, vC.V)) + j.jwA*vA.W - j.jwC*vC.W
	}

	cdotB := float32(0)
	if j.typeB == gearRevolute {
		cdotB = vB.W - vD.W
	} else {
		cdotB = math2.Dot2(j.jvBD, math2.Sub2(vB.V, vD.V)) + j.jwB*vB.W - j.jwD*vD.W
	}

	cdot := cdotA + j.ratio*cdotB
	impulse := -j.mass * cdot
	j.impulse += impulse

	if j.typeA == gearRevolute {
		vA.W += j.iA * impulse
		vC.W -= j.iC * impulse
	} else {
		p := math2.Scale2(j.jvAC, impulse)
		vA.V = math2.Add2(vA.V, math2.Scale2(p, j.mA))
		vA.W += j.iA * impulse * j.jwA
		vC.V = math2.Sub2(vC.V, math2.Scale2(p, j.mC))
		vC.W -= j.iC * impulse * j.jwC
	}

	impulseB := j.ratio * impulse
	if j.typeB == gearRevolute {
		vB.W += j.iB * impulseB
		vD.W -= j.iD * impulseB
	} else {
		p := math2.Scale2(j.jvBD, impulseB)
		vB.V = math2.Add2(vB.V, math2.Scale2(p, j.mB))
		vB.W += j.iB * impulseB * j.jwB
		vD.V = math2.Sub2(vD.V, math2.Scale2(p, j.mD))
		vD.W -= j.iD * impulseB * j.jwD
	}

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
	data.velocities[j.indexC] = vC
	data.velocities[j.indexD] = vD
}

func (j *GearJoint) solvePositionConstraints(data *solverData) bool {
	cA, aA := data.positions[j.indexA].Center, data.positions[j.indexA].Angle
	cB, aB := data.positions[j.indexB].Center, data.positions[j.indexB].Angle
	cC, aC := data.positions[j.indexC].Center, data.positions[j.indexC].Angle
	cD, aD := data.positions[j.indexD].Center, data.positions[j.indexD].Angle

	qA, qB, qC, qD := rotOf(aA), rotOf(aB), rotOf(aC), rotOf(aD)

	var jvAC, jvBD math2.Vec2
	var jwA, jwB, jwC, jwD float32
	massTerm := float32(0)

	var coordA float32
	if j.typeA == gearRevolute {
		jwA, jwC = 1, 1
		massTerm += j.iA + j.iC
		coordA = aA - aC - j.referenceAngleA
	} else {
		axis := math2.RotVec(qC, j.localAxisC)
		rC := math2.RotVec(qC, math2.Sub2(j.localAnchorC, j.lcC))
		rA := math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.lcA))
		jvAC = axis
		jwC = math2.Cross2(rC, axis)
		jwA = math2.Cross2(rA, axis)
		massTerm += j.mC + j.mA + j.iC*jwC*jwC + j.iA*jwA*jwA
		d := math2.Sub2(math2.Add2(cA, rA), math2.Add2(cC, rC))
		coordA = math2.Dot2(d, axis)
	}

	var coordB float32
	if j.typeB == gearRevolute {
		jwB, jwD = 1, 1
		massTerm += j.ratio * j.ratio * (j.iB + j.iD)
		coordB = aB - aD - j.referenceAngleB
	} else {
		axis := math2.RotVec(qD, j.localAxisD)
		rD := math2.RotVec(qD, math2.Sub2(j.localAnchorD, j.lcD))
		rB := math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.lcB))
		jvBD = axis
		jwD = math2.Cross2(rD, axis)
		jwB = math2.Cross2(rB, axis)
		massTerm += j.ratio * j.ratio * (j.mD + j.mB + j.iD*jwD*jwD + j.iB*jwB*jwB)
		d := math2.Sub2(math2.Add2(cB, rB), math2.Add2(cD, rD))
		coordB = math2.Dot2(d, axis)
	}

	c := coordA + j.ratio*coordB - j.constant

	var mass float32
	if massTerm > 0 {
		mass = 1 / massTerm
	}
	impulse := -mass * c

	if j.typeA == gearRevolute {
		aA += j.iA * impulse
		aC -= j.iC * impulse
	} else {
		p := math2.Scale2(jvAC, impulse)
		cA = math2.Add2(cA, math2.Scale2(p, j.mA))
		aA += j.iA * impulse * jwA
		cC = math2.Sub2(cC, math2.Scale2(p, j.mC))
		aC -= j.iC * impulse * jwC
	}

	impulseB := j.ratio * impulse
	if j.typeB == gearRevolute {
		aB += j.iB * impulseB
		aD -= j.iD * impulseB
	} else {
		p := math2.Scale2(jvBD, impulseB)
		cB = math2.Add2(cB, math2.Scale2(p, j.mB))
		aB += j.iB * impulseB * jwB
		cD = math2.Sub2(cD, math2.Scale2(p, j.mD))
		aD -= j.iD * impulseB * jwD
	}

	data.positions[j.indexA] = solver.Position{Center: cA, Angle: aA}
	data.positions[j.indexB] = solver.Position{Center: cB, Angle: aB}
	data.positions[j.indexC] = solver.Position{Center: cC, Angle: aC}
	data.positions[j.indexD] = solver.Position{Center: cD, Angle: aD}

	return math2.Abs(c) < 10*shapeEpsilon
}
