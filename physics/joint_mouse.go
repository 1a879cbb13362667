// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/math2"
)

// MouseJointDef is the input to NewMouseJoint. BodyA is conventionally a
// static ground body; BodyB is the body being dragged. Grounded on the
// teacher's PointToPoint constraint idiom (experimental/physics/constraint/
// pointtopoint.go), generalized to 2D. The pull toward Target is a soft
// spring set by Stiffness and Damping; with Stiffness left at zero the
// joint applies no pull.
type MouseJointDef struct {
	BodyA, BodyB     *Body
	Target           math2.Vec2 // world-space point BodyB's anchor is pulled toward
	MaxForce         float32
	Stiffness        float32
	Damping          float32
	CollideConnected bool
	UserData         interface{}
}

// MouseJoint pulls a single point on BodyB toward a world-space Target,
// typically driven every frame by an input device. It has no effect on
// BodyA beyond reading its frame (BodyA is usually a static ground body).
type MouseJoint struct {
	jointBase

	targetA        math2.Vec2
	localAnchorB   math2.Vec2
	maxForce       float32
	stiffness      float32
	damping        float32

	rB        math2.Vec2
	mass      math2.Mat22
	c0        math2.Vec2 // bias point, cached each init
	impulse   math2.Vec2
	beta      float32
	gamma     float32
}

// NewMouseJoint creates and returns a pointer to a new MouseJoint.
func NewMouseJoint(def MouseJointDef) *MouseJoint {
	j := &MouseJoint{
		targetA:   def.Target,
		maxForce:  def.MaxForce,
		stiffness: def.Stiffness,
		damping:   def.Damping,
	}
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
	j.localAnchorB = math2.MulTTransformVec(def.BodyB.GetTransform(), def.Target)
	return j
}

// SetTarget updates the world-space point BodyB is pulled toward.
func (j *MouseJoint) SetTarget(target math2.Vec2) {
	if !j.bodyB.IsAwake() {
		j.bodyB.SetAwake(true)
	}
	j.targetA = target
}

func (j *MouseJoint) initVelocityConstraints(data *solverData) {
	j.initBase()
	qB := rotOf(data.positions[j.indexB].Angle)

	gamma, biasCoef := softCoefficients(j.stiffness, j.damping, data.dt)
	j.gamma = gamma
	j.beta = biasCoef

	j.rB = math2.RotVec(qB, math2.Sub2(j.localAnchorB, j.localCenterB))

	mB := j.invMassB
	iB := j.invIB

	k11 := mB + iB*j.rB.Y*j.rB.Y + j.gamma
	k12 := -iB * j.rB.X * j.rB.Y
	k22 := mB + iB*j.rB.X*j.rB.X + j.gamma
	j.mass = math2.Mat22{Ex: math2.Vec2{X: k11, Y: k12}, Ey: math2.Vec2{X: k12, Y: k22}}

	c := math2.Sub2(math2.Add2(data.positions[j.indexB].Center, j.rB), j.targetA)
	j.c0 = math2.Scale2(c, j.beta)
}

func (j *MouseJoint) solveVelocityConstraints(data *solverData) {
	vB := data.velocities[j.indexB]
	mB := j.invMassB
	iB := j.invIB

	vpB := math2.Add2(vB.V, math2.CrossScalarVec(vB.W, &j.rB))
	cdot := math2.Add2(vpB, j.c0)
	cdot = math2.Add2(cdot, math2.Scale2(j.impulse, j.gamma))

	impulse := math2.Neg2(math2.MulMat22Vec(j.mass, cdot))
	oldImpulse := j.impulse
	j.impulse = math2.Add2(j.impulse, impulse)

	maxImpulse := j.maxForce * data.dt
	if j.impulse.Length() > maxImpulse {
		j.impulse = math2.Scale2(j.impulse, maxImpulse/j.impulse.Length())
	}
	impulse = math2.Sub2(j.impulse, oldImpulse)

	vB.V = math2.Add2(vB.V, math2.Scale2(impulse, mB))
	vB.W += iB * math2.Cross2(j.rB, impulse)

	data.velocities[j.indexB] = vB
}

// solvePositionConstraints is a no-op: MouseJoint is purely a velocity-bias
// (soft) constraint, matching Box2D's own b2MouseJoint.
func (j *MouseJoint) solvePositionConstraints(data *solverData) bool {
	return true
}
