// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
	"github.com/g3n/engine2d/solver"
)

// WeldJointDef is the input to NewWeldJoint.
type WeldJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     math2.Vec2
	LocalAnchorB     math2.Vec2
	ReferenceAngle   float32
	Stiffness        float32 // 0 disables the soft behavior (rigid weld)
	Damping          float32
	CollideConnected bool
	UserData         interface{}
}

// WeldJoint removes all three relative degrees of freedom between BodyA and
// BodyB, welding them into a single rigid assembly (optionally softly, via
// Stiffness/Damping, grounded in the teacher's Lock constraint idiom — see
// experimental/physics/constraint/lock.go — generalized from three 3D
// rotational equations to a single 2D angular soft-constraint term).
type WeldJoint struct {
	jointBase

	localAnchorA, localAnchorB math2.Vec2
	referenceAngle              float32
	stiffness, damping          float32

	rA, rB        math2.Vec2
	mass          math2.Mat22 // 2x2 block for the point constraint's Schur complement when rigid
	angularMass   float32
	impulse       math2.Vec2
	angularImpulse float32
	bias, gamma   float32
}

// NewWeldJoint creates and returns a pointer to a new WeldJoint.
func NewWeldJoint(def WeldJointDef) *WeldJoint {
	j := &WeldJoint{
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		stiffness:      def.Stiffness,
		damping:        def.Damping,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	return j
}

func (j *WeldJoint) initVelocityConstraints(data *solverData) {
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
	j.gamma, j.bias = 0, 0
	if j.stiffness > 0 {
		c := data.positions[j.indexB].Angle - data.positions[j.indexA].Angle - j.referenceAngle
		gamma, biasCoef := softCoefficients(j.stiffness, j.damping, data.dt)
		j.gamma = gamma
		if angularInv+j.gamma > 0 {
			j.angularMass = 1 / (angularInv + j.gamma)
		}
		j.bias = c * biasCoef * j.angularMass
		j.gamma *= j.angularMass
	}

	k11 := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k12 := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k22 := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.mass = math2.Mat22{Ex: math2.Vec2{X: k11, Y: k12}, Ey: math2.Vec2{X: k12, Y: k22}}
}

func (j *WeldJoint) solveVelocityConstraints(data *solverData) {
	vA := data.velocities[j.indexA]
	vB := data.velocities[j.indexB]
	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	{
		cdot := vB.W - vA.W
		impulse := -j.angularMass * (cdot + j.bias + j.gamma*j.angularImpulse)
		j.angularImpulse += impulse
		vA.W -= iA * impulse
		vB.W += iB * impulse
	}

	vpA := math2.Add2(vA.V, math2.CrossScalarVec(vA.W, &j.rA))
	vpB := math2.Add2(vB.V, math2.CrossScalarVec(vB.W, &j.rB))
	cdot := math2.Sub2(vpB, vpA)

	impulse := math2.Neg2(math2.MulMat22Vec(j.mass, cdot))
	j.impulse = math2.Add2(j.impulse, impulse)

	vA.V = math2.Sub2(vA.V, math2.Scale2(impulse, mA))
	vA.W -= iA * math2.Cross2(j.rA, impulse)
	vB.V = math2.Add2(vB.V, math2.Scale2(impulse, mB))
	vB.W += iB * math2.Cross2(j.rB, impulse)

	data.velocities[j.indexA] = vA
	data.velocities[j.indexB] = vB
}

func (j *WeldJoint) solvePositionConstraints(data *solverData) bool {
	cA := data.positions[j.indexA].Center
	aA := data.positions[j.indexA].Angle
	cB := data.positions[j.indexB].Center
	aB := data.positions[j.indexB].Angle

	mA, mB := j.invMassA, j.invMassB
	iA, iB := j.invIA, j.invIB

	var angularError float32
	if j.stiffness > 0 {
		// A soft weld leaves its angular term to the velocity pass entirely.
	} else {
		c := aB - aA - j.referenceAngle
		angularInv := iA + iB
		var correction float32
		if angularInv > 0 {
			correction = -c / angularInv
		}
		aA -= iA * correction
		aB += iB * correction
		angularError = math2.Abs(c)
	}

	qA, qB := rotOf(aA), rotOf(aB)
	rA := math2.RotVec(qA, math2.Sub2(j.localAnchorA, j.localCenterA))
	rB := math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	c := math2.Sub2(math2.Add2(cB, rB), math2.Add2(cA, rA))
	positionError := c.Length()

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
