// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
)

// AngleJointDef is the input to NewAngleJoint.
type AngleJointDef struct {
	BodyA, BodyB     *Body
	TargetAngle      float32 // holds bodyB.angle - bodyA.angle - TargetAngle == 0
	Ratio            float32 // bodyB.angle - Ratio*bodyA.angle - TargetAngle == 0, when non-default
	Stiffness        float32
	Damping          float32
	CollideConnected bool
	UserData         interface{}
}

// AngleJoint constrains the relative angle between BodyA and BodyB without
// constraining their relative position at all — WeldJoint's angular-only
// half, split out as its own joint (the teacher's Lock constraint couples
// position and all three rotational axes together; this keeps only the one
// 2D rotational degree of freedom WeldJoint also restricts, see
// joint_weld.go).
type AngleJoint struct {
	jointBase

	targetAngle float32
	ratio       float32
	stiffness   float32
	damping     float32

	mass    float32
	bias    float32
	gamma   float32
	impulse float32
}

// NewAngleJoint creates and returns a pointer to a new AngleJoint.
func NewAngleJoint(def AngleJointDef) *AngleJoint {
	ratio := def.Ratio
	if ratio == 0 {
		ratio = 1
	}
	j := &AngleJoint{
		targetAngle: def.TargetAngle,
		ratio:       ratio,
		stiffness:   def.Stiffness,
		damping:     def.Damping,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

func (j *AngleJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	iA, iB := j.invIA, j.invIB

	invMass := iA*j.ratio*j.ratio + iB
	if invMass > 0 {
		j.mass = 1 / invMass
	}

	j.bias, j.gamma = 0, 0
	if j.stiffness > 0 {
		c := data.positions[j.indexB].Angle - j.ratio*data.positions[j.indexA].Angle - j.targetAngle
		gamma, biasCoef := softCoefficients(j.stiffness, j.damping, data.dt)
		j.gamma = gamma
		if invMass+j.gamma > 0 {
			j.mass = 1 / (invMass + j.gamma)
		}
		j.bias = c * biasCoef * j.mass
		j.gamma *= j.mass
	}
}

func (j *AngleJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	iA, iB := j.invIA, j.invIB

	cdot := vB.W - j.ratio*vA.W
	impulse := -j.mass * (cdot + j.bias + j.gamma*j.impulse)
	j.impulse += impulse

	vA.W -= iA * j.ratio * impulse
	vB.W += iB * impulse

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
}

func (j *AngleJoint) solvePositionConstraints(data *solverData) bool {
	if j.stiffness > 0 {
		return true
	}

	aA := data.positions[j.indexA].Angle
	aB := data.positions[j.indexB].Angle
	iA, iB := j.invIA, j.invIB

	c := aB - j.ratio*aA - j.targetAngle
	invMass := iA*j.ratio*j.ratio + iB
	var impulse float32
	if invMass > 0 {
		impulse = -c / invMass
	}

	aA -= iA * j.ratio * impulse
	aB += iB * impulse

	data.positions[j.indexA].Angle = aA
	data.positions[j.indexB].Angle = aB

	return math2.Abs(c) <= jointAngularSlop
}
