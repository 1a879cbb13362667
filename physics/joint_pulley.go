// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/solver"
)

// PulleyJointDef is the input to NewPulleyJoint.
type PulleyJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     math2.Vec2
	LocalAnchorB     math2.Vec2
	GroundAnchorA    math2.Vec2 // world-space, fixed
	GroundAnchorB    math2.Vec2
	Ratio            float32 // LengthA + Ratio*LengthB stays constant; must be positive
	CollideConnected bool
	UserData         interface{}
}

// PulleyJoint couples the distances from two ground anchors to two body
// anchors through Ratio, so that LengthA + Ratio*LengthB stays constant —
// the classic block-and-tackle. Grounded on DistanceJoint's single-axis
// impulse shape (joint_distance.go), applied along two independently
// rotating axes and summed through the ratio rather than along one.
type PulleyJoint struct {
	jointBase

	localAnchorA, localAnchorB math2.Vec2
	groundAnchorA, groundAnchorB math2.Vec2
	ratio       float32
	constant    float32 // lengthA + ratio*lengthB, fixed at construction

	rA, rB   math2.Vec2
	uA, uB   math2.Vec2
	mass     float32
	impulse  float32
}

// NewPulleyJoint creates and returns a pointer to a new PulleyJoint. lengthA
// and lengthB are the initial rope lengths on each side, used to fix the
// conserved total constant = lengthA + ratio*lengthB.
func NewPulleyJoint(def PulleyJointDef, lengthA, lengthB float32) *PulleyJoint {
	ratio := def.Ratio
	if ratio <= 0 {
		fail("pulley joint requires a positive ratio")
	}
	j := &PulleyJoint{
		localAnchorA:  def.LocalAnchorA,
		localAnchorB:  def.LocalAnchorB,
		groundAnchorA: def.GroundAnchorA,
		groundAnchorB: def.GroundAnchorB,
		ratio:         ratio,
		constant:      lengthA + ratio*lengthB,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

func (j *PulleyJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	qA, qB := rotOf(data.positions[j.indexA].Angle), rotOf(data.positions[j.indexB].Angle)

	j.rA = math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	j.rB = math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	cA := data.positions[j.indexA].Center
	cB := data.positions[j.indexB].Center

	pA := math2.Add2(cA, j.rA)
	pB := math2.Add2(cB, j.rB)

	j.uA = math2.Sub2(pA, j.groundAnchorA)
	j.uB = math2.Sub2(pB, j.groundAnchorB)

	lengthA := j.uA.Length()
	lengthB := j.uB.Length()
	if lengthA > 10*shapeEpsilon {
		j.uA = math2.Scale2(j.uA, 1/lengthA)
	} else {
		j.uA = math2.Vec2{}
	}
	if lengthB > 10*shapeEpsilon {
		j.uB = math2.Scale2(j.uB, 1/lengthB)
	} else {
		j.uB = math2.Vec2{}
	}

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	ruA := math2.Cross2(j.rA, j.uA)
	ruB := math2.Cross2(j.rB, j.uB)

	mAterm := mA + iA*ruA*ruA
	mBterm := mB + iB*ruB*ruB

	invMass := mAterm + j.ratio*j.ratio*mBterm
	if invMass > 0 {
		j.mass = 1 / invMass
	}
}

func (j *PulleyJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	vpA := math2.Add2(vA.V, math2.CrossScalarVec(vA.W, &j.rA))
	vpB := math2.Add2(vB.V, math2.CrossScalarVec(vB.W, &j.rB))

	cdot := -(math2.Dot2(j.uA, vpA) + j.ratio*math2.Dot2(j.uB, vpB))
	impulse := -j.mass * cdot
	j.impulse += impulse

	pA := math2.Scale2(j.uA, -impulse)
	pB := math2.Scale2(j.uB, -j.ratio*impulse)

	vA.V = math2.Add2(vA.V, math2.Scale2(pA, mA))
	vA.W += iA * math2.Cross2(j.rA, pA)
	vB.V = math2.Add2(vB.V, math2.Scale2(pB, mB))
	vB.W += iB * math2.Cross2(j.rB, pB)

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
}

func (j *PulleyJoint) solvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].Center
	aA := data.positions[j.indexA].Angle
	cB := data.positions[j.indexB].Center
	aB := data.positions[j.indexB].Angle

	qA, qB := rotOf(aA), rotOf(aB)
	rA := math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	rB := math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	pA := math2.Add2(cA, rA)
	pB := math2.Add2(cB, rB)

	uA := math2.Sub2(pA, j.groundAnchorA)
	uB := math2.Sub2(pB, j.groundAnchorB)
	lengthA := uA.Length()
	lengthB := uB.Length()
	if lengthA > 10*shapeEpsilon {
		uA = math2.Scale2(uA, 1/lengthA)
	} else {
		uA = math2.Vec2{}
	}
	if lengthB > 10*shapeEpsilon {
		uB = math2.Scale2(uB, 1/lengthB)
	} else {
		uB = math2.Vec2{}
	}

	c := j.constant - lengthA - j.ratio*lengthB

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	ruA := math2.Cross2(rA, uA)
	ruB := math2.Cross2(rB, uB)
	mAterm := mA + iA*ruA*ruA
	mBterm := mB + iB*ruB*ruB
	invMass := mAterm + j.ratio*j.ratio*mBterm
	var impulse float32
	if invMass > 0 {
		impulse = -c / invMass
	}

	pAimp := math2.Scale2(uA, -impulse)
	pBimp := math2.Scale2(uB, -j.ratio*impulse)

	cA = math2.Add2(cA, math2.Scale2(pAimp, mA))
	aA += iA * math2.Cross2(rA, pAimp)
	cB = math2.Add2(cB, math2.Scale2(pBimp, mB))
	aB += iB * math2.Cross2(rB, pBimp)

	data.positions[j.indexA] = solver.Position{Center: cA, Angle: aA}
	data.positions[j.indexB] = solver.Position{Center: cB, Angle: aB}

	return math2.Abs(c) < shapeEpsilon*10
}
