// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/core"
	"github.com/g3n/engine2d/math2"
)

// BodyType specifies how a body is affected during simulation.
type BodyType int

const (
	// A static body does not move. It behaves as if it has infinite mass
	// and never collides with other static or kinematic bodies.
	StaticBody = BodyType(iota)

	// A kinematic body moves according to its velocity but never responds
	// to forces or impulses. It behaves as if it has infinite mass.
	KinematicBody

	// A dynamic body is fully simulated: finite mass, moved by forces,
	// impulses, and contact/joint resolution.
	DynamicBody
)

// BodySleepState tracks a body's progress toward sleep.
type BodySleepState int

const (
	Awake = BodySleepState(iota)
	Sleepy
	Sleeping
)

// Events dispatched on a Body's embedded Dispatcher.
const (
	SleepyEvent = "physics.SleepyEvent" // dispatched after a body goes sleepy
	SleepEvent  = "physics.SleepEvent"  // dispatched after a body falls asleep
	WakeUpEvent = "physics.WakeUpEvent" // dispatched after a sleeping body wakes
)

// BodyDef is the input to World.CreateBody.
type BodyDef struct {
	Type                 BodyType
	Position             math2.Vec2
	Angle                float32
	LinearVelocity       math2.Vec2
	AngularVelocity      float32
	LinearDamping        float32
	AngularDamping       float32
	GravityScale         float32
	AllowSleep           bool
	Awake                bool
	FixedRotation        bool
	Bullet               bool
	Enabled              bool
	UserData             interface{}
}

// DefaultBodyDef returns a BodyDef for an awake, sleep-eligible, enabled
// dynamic body at the origin with unit gravity scale.
func DefaultBodyDef() BodyDef {
	return BodyDef{
		Type:         DynamicBody,
		GravityScale: 1,
		AllowSleep:   true,
		Awake:        true,
		Enabled:      true,
	}
}

// Body is a rigid body: a transform, velocity, accumulated force/torque,
// mass properties, and the fixtures/contacts/joints attached to it.
type Body struct {
	core.Dispatcher

	world *World
	index int // index into World.bodies, kept valid via swap-with-last removal

	bodyType BodyType

	xf    math2.Transform // transform of the body origin
	sweep math2.Sweep     // motion of the center of mass over the current step

	linearVelocity  math2.Vec2
	angularVelocity float32

	force  math2.Vec2
	torque float32

	mass, invMass float32
	i, invI       float32 // rotational inertia (and inverse) about the center of mass

	linearDamping  float32
	angularDamping float32
	gravityScale   float32

	enabled       bool
	awake         bool
	allowSleep    bool
	bullet        bool
	fixedRotation bool
	sleepTime     float32

	islandIndex int
	islandFlag  bool

	fixtures    []*Fixture
	contactList *ContactEdge
	jointList   *JointEdge

	userData interface{}
}

func newBody(def BodyDef, world *World) *Body {
	b := &Body{
		world:          world,
		bodyType:       def.Type,
		linearVelocity: def.LinearVelocity,
		angularVelocity: def.AngularVelocity,
		linearDamping:  def.LinearDamping,
		angularDamping: def.AngularDamping,
		gravityScale:   def.GravityScale,
		enabled:        def.Enabled,
		awake:          def.Awake,
		allowSleep:     def.AllowSleep,
		bullet:         def.Bullet,
		fixedRotation:  def.FixedRotation,
		userData:       def.UserData,
	}
	b.Dispatcher.Initialize()
	b.xf.Q.Set(def.Angle)
	b.xf.P = def.Position
	b.sweep.C = math2.MulTransformVec(b.xf, math2.Vec2{})
	b.sweep.A = def.Angle
	b.sweep.C0 = b.sweep.C
	b.sweep.A0 = b.sweep.A
	if b.bodyType == DynamicBody {
		b.mass = 1
		b.invMass = 1
	}
	return b
}

func (b *Body) Index() int       { return b.index }
func (b *Body) World() *World    { return b.world }
func (b *Body) BodyType() BodyType { return b.bodyType }

func (b *Body) UserData() interface{}     { return b.userData }
func (b *Body) SetUserData(v interface{}) { b.userData = v }

// SetType changes the body's type. Changing to or from Static resets mass
// data and wakes the body, matching Box2D's b2Body::SetType.
func (b *Body) SetType(t BodyType) {
	if b.world.IsLocked() {
		fail("cannot change body type while the world is stepping")
	}
	if b.bodyType == t {
		return
	}
	b.bodyType = t
	b.resetMassData()
	if b.bodyType == StaticBody {
		b.linearVelocity = math2.Vec2{}
		b.angularVelocity = 0
		b.sweep.A0 = b.sweep.A
		b.sweep.C0 = b.sweep.C
		b.synchronizeFixtures()
	}
	b.SetAwake(true)
	b.force = math2.Vec2{}
	b.torque = 0

	// Every contact involving this body needs to be re-filtered.
	for ce := b.contactList; ce != nil; ce = ce.Next {
		ce.Contact.flagFilter()
	}
}

func (b *Body) IsBullet() bool     { return b.bullet }
func (b *Body) SetBullet(v bool)   { b.bullet = v }
func (b *Body) IsEnabled() bool    { return b.enabled }
func (b *Body) IsFixedRotation() bool { return b.fixedRotation }

func (b *Body) SetFixedRotation(v bool) {
	if b.fixedRotation == v {
		return
	}
	b.fixedRotation = v
	b.angularVelocity = 0
	b.resetMassData()
}

func (b *Body) IsSleepingAllowed() bool { return b.allowSleep }
func (b *Body) SetSleepingAllowed(v bool) {
	b.allowSleep = v
	if !v {
		b.SetAwake(true)
	}
}

func (b *Body) IsAwake() bool { return b.awake }

// SetAwake wakes a sleeping body or forces a dynamic/kinematic body to
// sleep, dispatching WakeUpEvent/SleepEvent as the state actually changes.
func (b *Body) SetAwake(flag bool) {
	if b.bodyType == StaticBody {
		return
	}
	if flag {
		wasAsleep := !b.awake
		b.sleepTime = 0
		b.awake = true
		if wasAsleep {
			b.Dispatch(WakeUpEvent, nil)
		}
	} else {
		wasAwake := b.awake
		b.sleepTime = 0
		b.awake = false
		b.linearVelocity = math2.Vec2{}
		b.angularVelocity = 0
		b.force = math2.Vec2{}
		b.torque = 0
		if wasAwake {
			b.Dispatch(SleepEvent, nil)
		}
	}
}

// sleepTick is called once per step by the island solver; it is named for
// the 3-state Awake/Sleepy/Sleeping dance the teacher's object.Body used,
// collapsed here to the 2-state flag Box2D tracks plus a running timer
// (SleepyEvent fires the first tick a body drops under threshold).
func (b *Body) sleepTick(minSleepTime float32) {
	if b.sleepTime == 0 && minSleepTime > 0 {
		b.Dispatch(SleepyEvent, nil)
	}
}

func (b *Body) GravityScale() float32      { return b.gravityScale }
func (b *Body) SetGravityScale(v float32)  { b.gravityScale = v }
func (b *Body) LinearDamping() float32     { return b.linearDamping }
func (b *Body) SetLinearDamping(v float32) { b.linearDamping = v }
func (b *Body) AngularDamping() float32    { return b.angularDamping }
func (b *Body) SetAngularDamping(v float32) { b.angularDamping = v }

func (b *Body) GetTransform() math2.Transform { return b.xf }

func (b *Body) GetPosition() math2.Vec2 { return b.xf.P }
func (b *Body) GetAngle() float32       { return b.sweep.A }
func (b *Body) GetWorldCenter() math2.Vec2 { return b.sweep.C }
func (b *Body) GetLocalCenter() math2.Vec2 { return b.sweep.LocalCenter }

// SetTransform teleports the body to the given position/angle, resets its
// sweep baseline, and resynchronizes broad-phase proxies immediately
// (rather than waiting for the next step).
func (b *Body) SetTransform(position math2.Vec2, angle float32) {
	if b.world.IsLocked() {
		fail("cannot set a body transform while the world is stepping")
	}
	b.xf.Q.Set(angle)
	b.xf.P = position
	b.sweep.C = math2.MulTransformVec(b.xf, b.sweep.LocalCenter)
	b.sweep.A = angle
	b.sweep.C0 = b.sweep.C
	b.sweep.A0 = angle
	b.synchronizeFixtures()
}

func (b *Body) GetLinearVelocity() math2.Vec2     { return b.linearVelocity }
func (b *Body) SetLinearVelocity(v math2.Vec2) {
	if b.bodyType == StaticBody {
		return
	}
	if math2.Dot2(v, v) > 0 {
		b.SetAwake(true)
	}
	b.linearVelocity = v
}

func (b *Body) GetAngularVelocity() float32 { return b.angularVelocity }
func (b *Body) SetAngularVelocity(w float32) {
	if b.bodyType == StaticBody {
		return
	}
	if w*w > 0 {
		b.SetAwake(true)
	}
	b.angularVelocity = w
}

func (b *Body) GetMass() float32 { return b.mass }
func (b *Body) GetInertia() float32 {
	return b.i + b.mass*math2.Dot2(b.sweep.LocalCenter, b.sweep.LocalCenter)
}

func (b *Body) GetWorldPoint(localPoint math2.Vec2) math2.Vec2 {
	return math2.MulTransformVec(b.xf, localPoint)
}
func (b *Body) GetWorldVector(localVector math2.Vec2) math2.Vec2 {
	return math2.RotVec(b.xf.Q, localVector)
}
func (b *Body) GetLocalPoint(worldPoint math2.Vec2) math2.Vec2 {
	return math2.MulTTransformVec(b.xf, worldPoint)
}
func (b *Body) GetLocalVector(worldVector math2.Vec2) math2.Vec2 {
	return math2.MulTRotVec(b.xf.Q, worldVector)
}

// GetLinearVelocityFromWorldPoint returns the world velocity of a world
// point fixed in the body: v + w x (p - center).
func (b *Body) GetLinearVelocityFromWorldPoint(worldPoint math2.Vec2) math2.Vec2 {
	r := math2.Sub2(worldPoint, b.sweep.C)
	return math2.Add2(b.linearVelocity, math2.CrossScalarVec(b.angularVelocity, &r))
}

// ApplyForce applies a force at a world point, accumulating torque if the
// point isn't the center of mass. Wakes the body.
func (b *Body) ApplyForce(force, point math2.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.force = math2.Add2(b.force, force)
	r := math2.Sub2(point, b.sweep.C)
	b.torque += math2.Cross2(r, force)
}

func (b *Body) ApplyForceToCenter(force math2.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.force = math2.Add2(b.force, force)
}

func (b *Body) ApplyTorque(torque float32, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.torque += torque
}

func (b *Body) ApplyLinearImpulse(impulse, point math2.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.linearVelocity = math2.Add2(b.linearVelocity, math2.Scale2(impulse, b.invMass))
	r := math2.Sub2(point, b.sweep.C)
	b.angularVelocity += b.invI * math2.Cross2(r, impulse)
}

func (b *Body) ApplyLinearImpulseToCenter(impulse math2.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.linearVelocity = math2.Add2(b.linearVelocity, math2.Scale2(impulse, b.invMass))
}

func (b *Body) ApplyAngularImpulse(impulse float32, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && !b.awake {
		b.SetAwake(true)
	}
	if !b.awake {
		return
	}
	b.angularVelocity += b.invI * impulse
}

// Fixtures returns the fixtures attached to this body. The caller must not
// retain the slice across a CreateFixture/DestroyFixture call.
func (b *Body) Fixtures() []*Fixture { return b.fixtures }

// CreateFixture attaches a new fixture to the body, inserts its broad-phase
// proxies if the body is enabled, and recomputes mass data from densities.
func (b *Body) CreateFixture(def FixtureDef) *Fixture {
	if b.world.IsLocked() {
		fail("cannot create a fixture while the world is stepping")
	}
	f := newFixture(b.world.nextFixtureID(), b, def)
	b.fixtures = append(b.fixtures, f)
	b.world.registerFixture(f)
	if b.enabled {
		f.createProxies(b.world.broadPhase)
	}
	b.resetMassData()
	return f
}

// DestroyFixture removes a fixture, its broad-phase proxies, and every
// contact that referenced it.
func (b *Body) DestroyFixture(f *Fixture) {
	if b.world.IsLocked() {
		fail("cannot destroy a fixture while the world is stepping")
	}
	for i, other := range b.fixtures {
		if other == f {
			b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
			break
		}
	}
	b.world.contactManager.destroyContactsForFixture(f)
	if b.enabled {
		f.destroyProxies(b.world.broadPhase)
	}
	b.world.unregisterFixture(f)
	b.resetMassData()
}

// resetMassData recomputes mass, center of mass, and rotational inertia
// from the densities of every attached fixture, following the standard
// additive combination of per-shape MassData about the body origin.
func (b *Body) resetMassData() {
	b.mass = 0
	b.invMass = 0
	b.i = 0
	b.invI = 0
	b.sweep.LocalCenter = math2.Vec2{}

	if b.bodyType != DynamicBody {
		b.sweep.C0 = b.xf.P
		b.sweep.C = b.xf.P
		b.sweep.A0 = b.sweep.A
		return
	}

	center := math2.Vec2{}
	for _, f := range b.fixtures {
		if f.density == 0 {
			continue
		}
		if settable, ok := f.shape.(interface{ SetDensity(float32) }); ok {
			settable.SetDensity(f.density)
		}
		md := f.shape.ComputeMass()
		b.mass += md.Mass
		center = math2.Add2(center, math2.Scale2(md.Center, md.Mass))
		b.i += md.I
	}

	if b.mass > 0 {
		b.invMass = 1 / b.mass
		center = math2.Scale2(center, b.invMass)
	} else {
		b.mass = 1
		b.invMass = 1
	}

	if b.i > 0 && !b.fixedRotation {
		b.i -= b.mass * math2.Dot2(center, center)
		b.invI = 1 / b.i
	} else {
		b.i = 0
		b.invI = 0
	}

	oldCenter := b.sweep.C
	b.sweep.LocalCenter = center
	b.sweep.C0 = math2.MulTransformVec(b.xf, b.sweep.LocalCenter)
	b.sweep.C = b.sweep.C0

	// Update center of mass velocity: v += w x (c - c0).
	delta := math2.Sub2(b.sweep.C, oldCenter)
	b.linearVelocity = math2.Add2(b.linearVelocity, math2.CrossScalarVec(b.angularVelocity, &delta))
}

// synchronizeTransform recomputes b.xf from the current sweep, which owns
// the authoritative center-of-mass motion during a step.
func (b *Body) synchronizeTransform() {
	b.xf.Q.Set(b.sweep.A)
	offset := math2.RotVec(b.xf.Q, b.sweep.LocalCenter)
	b.xf.P = math2.Sub2(b.sweep.C, offset)
}

// synchronizeFixtures pushes every fixture's broad-phase proxies to the
// body's current transform, used outside of a step (SetTransform) or at
// the end of one (World.synchronizeFixtures covers every body instead).
func (b *Body) synchronizeFixtures() {
	xf := b.xf
	for _, f := range b.fixtures {
		f.synchronize(b.world.broadPhase, xf, xf)
	}
}

// ShouldCollideWith reports whether b and other should ever generate
// contacts: at least one must be dynamic and no joint between them may
// forbid it. The same-body case is rejected by the caller, createContact.
func (b *Body) shouldCollideWith(other *Body) bool {
	if b.bodyType != DynamicBody && other.bodyType != DynamicBody {
		return false
	}
	for je := b.jointList; je != nil; je = je.Next {
		if je.Other == other && !je.Joint.CollideConnected() {
			return false
		}
	}
	return true
}

// ContactEdge links a Body into the doubly-linked contact list of every
// other body it currently has a Contact with.
type ContactEdge struct {
	Other   *Body
	Contact *Contact
	Prev    *ContactEdge
	Next    *ContactEdge
}

// JointEdge links a Body into the doubly-linked joint list of every other
// body it currently shares a Joint with.
type JointEdge struct {
	Other *Body
	Joint Joint
	Prev  *JointEdge
	Next  *JointEdge
}
