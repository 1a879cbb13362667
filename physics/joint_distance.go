// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/solver"
)

// DistanceJointDef is the input to NewDistanceJoint.
type DistanceJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     math2.Vec2
	LocalAnchorB     math2.Vec2
	Length           float32
	MinLength        float32
	MaxLength        float32
	Stiffness        float32
	Damping          float32
	CollideConnected bool
	UserData         interface{}
}

// DistanceJoint holds BodyA and BodyB a fixed (or soft, or clamped-range)
// distance apart along the line between their anchors. Grounds spec.md's
// Distance and, with MinLength==0 and a large MaxLength, Rope joints.
type DistanceJoint struct {
	jointBase

	localAnchorA, localAnchorB math2.Vec2
	length, minLength, maxLength float32
	stiffness, damping            float32

	u          math2.Vec2
	rA, rB     math2.Vec2
	mass       float32
	bias       float32
	gamma      float32
	impulse    float32
	lowerImpulse, upperImpulse float32
	currentLength float32
}

// NewDistanceJoint creates and returns a pointer to a new DistanceJoint.
func NewDistanceJoint(def DistanceJointDef) *DistanceJoint {
	if def.MaxLength < def.MinLength {
		fail("distance joint requires MaxLength >= MinLength")
	}
	j := &DistanceJoint{
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		length:       math2.Max(def.Length, shapeEpsilon),
		minLength:    def.MinLength,
		maxLength:    def.MaxLength,
		stiffness:    def.Stiffness,
		damping:      def.Damping,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

const shapeEpsilon = 1e-6

func (j *DistanceJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	qA, qB := math2.Rot{}, math2.Rot{}
	qA.Set(data.positions[j.indexA].Angle)
	qB.Set(data.positions[j.indexB].Angle)

	j.rA = math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	j.rB = math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	cA := data.positions[j.indexA].Center
	cB := data.positions[j.indexB].Center
	d := math2.Sub2(math2.Add2(cB, j.rB), math2.Add2(cA, j.rA))

	j.currentLength = d.Length()
	if j.currentLength > shapeEpsilon {
		j.u = math2.Scale2(d, 1/j.currentLength)
	} else {
		j.u = math2.Vec2{}
	}

	crA := math2.Cross2(j.rA, j.u)
	crB := math2.Cross2(j.rB, j.u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	if invMass > 0 {
		j.mass = 1 / invMass
	}

	j.gamma, j.bias = 0, 0
	if j.stiffness > 0 {
		c := j.currentLength - j.length
		j.gamma, j.bias = 0, 0
		gamma, biasCoef := softCoefficients(j.stiffness, j.damping, data.dt)
		j.gamma = gamma * j.mass
		j.bias = c * biasCoef
		invMass += j.gamma
		if invMass > 0 {
			j.mass = 1 / invMass
		}
	}
}

func (j *DistanceJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]

	// Free-length range (rope/clamp behavior).
	if j.minLength < j.maxLength {
		if j.stiffness == 0 {
			vpA := math2.Add2(vA.V, math2.CrossScalarVec(vA.W, &j.rA))
			vpB := math2.Add2(vB.V, math2.CrossScalarVec(vB.W, &j.rB))
			cdot := math2.Dot2(j.u, math2.Sub2(vpB, vpA))

			cLower := j.currentLength - j.minLength
			bias := math2.Max(0, cLower) * data.invDt
			impulse := -j.mass * (cdot + bias)
			newImpulse := math2.Max(0, j.lowerImpulse+impulse)
			impulse = newImpulse - j.lowerImpulse
			j.lowerImpulse = newImpulse
			p := math2.Scale2(j.u, impulse)
			vA.V = math2.Sub2(vA.V, math2.Scale2(p, j.invMassA))
			vA.W -= j.invIA * math2.Cross2(j.rA, p)
			vB.V = math2.Add2(vB.V, math2.Scale2(p, j.invMassB))
			vB.W += j.invIB * math2.Cross2(j.rB, p)

			cUpper := j.maxLength - j.currentLength
			bias = math2.Max(0, cUpper) * data.invDt
			impulse = -j.mass * (-cdot + bias)
			newImpulse = math2.Max(0, j.upperImpulse+impulse)
			impulse = -(newImpulse - j.upperImpulse)
			j.upperImpulse = newImpulse
			p = math2.Scale2(j.u, impulse)
			vA.V = math2.Sub2(vA.V, math2.Scale2(p, j.invMassA))
			vA.W -= j.invIA * math2.Cross2(j.rA, p)
			vB.V = math2.Add2(vB.V, math2.Scale2(p, j.invMassB))
			vB.W += j.invIB * math2.Cross2(j.rB, p)
		}
	}

	if j.minLength == j.maxLength || j.stiffness > 0 {
		vpA := math2.Add2(vA.V, math2.CrossScalarVec(vA.W, &j.rA))
		vpB := math2.Add2(vB.V, math2.CrossScalarVec(vB.W, &j.rB))
		cdot := math2.Dot2(j.u, math2.Sub2(vpB, vpA))

		impulse := -j.mass * (cdot + j.bias + j.gamma*j.impulse)
		j.impulse += impulse
		p := math2.Scale2(j.u, impulse)
		vA.V = math2.Sub2(vA.V, math2.Scale2(p, j.invMassA))
		vA.W -= j.invIA * math2.Cross2(j.rA, p)
		vB.V = math2.Add2(vB.V, math2.Scale2(p, j.invMassB))
		vB.W += j.invIB * math2.Cross2(j.rB, p)
	}

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
}

func (j *DistanceJoint) solvePositionConstraints(data *solverData) bool {
	if j.stiffness > 0 {
		return true // soft constraints resolve entirely in velocity
	}

	cA := data.positions[j.indexA].Center
	aA := data.positions[j.indexA].Angle
	cB := data.positions[j.indexB].Center
	aB := data.positions[j.indexB].Angle

	qA, qB := math2.Rot{}, math2.Rot{}
	qA.Set(aA)
	qB.Set(aB)

	rA := math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	rB := math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	d := math2.Sub2(math2.Add2(cB, rB), math2.Add2(cA, rA))
	length := d.Length()
	var u math2.Vec2
	if length > shapeEpsilon {
		u = math2.Scale2(d, 1/length)
	}

	c := float32(0)
	if j.minLength == j.maxLength {
		c = length - j.length
	} else if length < j.minLength {
		c = length - j.minLength
	} else if length > j.maxLength {
		c = length - j.maxLength
	}

	c = math2.Clamp(c, -maxLinearCorrectionLimit, maxLinearCorrectionLimit)

	crA := math2.Cross2(rA, u)
	crB := math2.Cross2(rB, u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	var impulse float32
	if invMass > 0 {
		impulse = -c / invMass
	}
	p := math2.Scale2(u, impulse)

	cA = math2.Sub2(cA, math2.Scale2(p, j.invMassA))
	aA -= j.invIA * math2.Cross2(rA, p)
	cB = math2.Add2(cB, math2.Scale2(p, j.invMassB))
	aB += j.invIB * math2.Cross2(rB, p)

	data.positions[j.indexA] = solver.Position{Center: cA, Angle: aA}
	data.positions[j.indexB] = solver.Position{Center: cB, Angle: aB}

	return math2.Abs(c) < shapeEpsilon*10
}

const maxLinearCorrectionLimit = 0.2
