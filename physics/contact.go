// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/collision"
	"github.com/g3n/engine2d/math2"
)

// contactFlag bits track a Contact's lifecycle, mirroring Box2D's b2Contact
// flags rather than separate bool fields so filtering/touching/enabled all
// read from one word (spec.md §4.7).
type contactFlag uint8

const (
	contactTouchingFlag contactFlag = 1 << iota
	contactEnabledFlag
	contactFilterFlag // forces ShouldCollide to be re-evaluated next update
	contactIslandFlag
	contactTOIFlag
)

// Contact couples a pair of fixtures once their broad-phase proxies start
// overlapping, holding the narrow-phase Manifold between them and the
// warm-started impulses carried across steps.
type Contact struct {
	fixtureA, fixtureB *Body
	fA, fB             *Fixture
	childA, childB     int

	manifold collision.Manifold
	flags    contactFlag

	friction     float32
	restitution  float32
	tangentSpeed float32

	toiCount int

	edgeA, edgeB *ContactEdge
}

func newContact(fA, fB *Fixture, childA, childB int) *Contact {
	c := &Contact{
		fA: fA, fB: fB,
		fixtureA: fA.body, fixtureB: fB.body,
		childA: childA, childB: childB,
		flags: contactEnabledFlag,
	}
	c.friction = mixFriction(fA.friction, fB.friction)
	c.restitution = mixRestitution(fA.restitution, fB.restitution)
	c.edgeA = &ContactEdge{Other: fB.body, Contact: c}
	c.edgeB = &ContactEdge{Other: fA.body, Contact: c}
	return c
}

// link inserts this contact's two edges at the head of each body's contact
// list, following the teacher idiom of O(1) list insertion for newly
// created associations (prior-session Dispatcher subscriptions use the
// same head-insert shape).
func (c *Contact) link() {
	a, b := c.fA.body, c.fB.body
	c.edgeA.Next = a.contactList
	if a.contactList != nil {
		a.contactList.Prev = c.edgeA
	}
	a.contactList = c.edgeA

	c.edgeB.Next = b.contactList
	if b.contactList != nil {
		b.contactList.Prev = c.edgeB
	}
	b.contactList = c.edgeB
}

// unlink removes this contact's two edges from each body's contact list.
func (c *Contact) unlink() {
	a, b := c.fA.body, c.fB.body

	if c.edgeA.Prev != nil {
		c.edgeA.Prev.Next = c.edgeA.Next
	} else {
		a.contactList = c.edgeA.Next
	}
	if c.edgeA.Next != nil {
		c.edgeA.Next.Prev = c.edgeA.Prev
	}

	if c.edgeB.Prev != nil {
		c.edgeB.Prev.Next = c.edgeB.Next
	} else {
		b.contactList = c.edgeB.Next
	}
	if c.edgeB.Next != nil {
		c.edgeB.Next.Prev = c.edgeB.Prev
	}
}

// mixFriction/mixRestitution follow Box2D's default combination rules:
// geometric mean for friction, max for restitution.
func mixFriction(a, b float32) float32 {
	return math2.Sqrt(a * b)
}

func mixRestitution(a, b float32) float32 {
	return math2.Max(a, b)
}

func (c *Contact) FixtureA() *Fixture { return c.fA }
func (c *Contact) FixtureB() *Fixture { return c.fB }
func (c *Contact) ChildIndexA() int   { return c.childA }
func (c *Contact) ChildIndexB() int   { return c.childB }
func (c *Contact) Manifold() *collision.Manifold { return &c.manifold }
func (c *Contact) IsTouching() bool   { return c.flags&contactTouchingFlag != 0 }
func (c *Contact) IsEnabled() bool    { return c.flags&contactEnabledFlag != 0 }
func (c *Contact) SetEnabled(v bool) {
	if v {
		c.flags |= contactEnabledFlag
	} else {
		c.flags &^= contactEnabledFlag
	}
}

func (c *Contact) Friction() float32       { return c.friction }
func (c *Contact) SetFriction(v float32)   { c.friction = v }
func (c *Contact) Restitution() float32    { return c.restitution }
func (c *Contact) SetRestitution(v float32) { c.restitution = v }
func (c *Contact) TangentSpeed() float32   { return c.tangentSpeed }
func (c *Contact) SetTangentSpeed(v float32) { c.tangentSpeed = v }

func (c *Contact) flagFilter() { c.flags |= contactFilterFlag }

func (c *Contact) isSensor() bool { return c.fA.isSensor || c.fB.isSensor }

// update runs the narrow-phase collide for this pair, carrying forward each
// surviving manifold point's warm-start impulse by matching ContactID, and
// reports whether the pair transitioned to/from touching so the caller can
// fire Begin/EndContact.
func (c *Contact) update() (beganTouching, endedTouching bool) {
	oldManifold := c.manifold
	wasTouching := c.IsTouching()
	c.flags |= contactEnabledFlag

	xfA := c.fA.body.GetTransform()
	xfB := c.fB.body.GetTransform()

	touching := false
	if c.isSensor() {
		touching = collision.TestOverlap(c.fA.shape, xfA, c.childA, c.fB.shape, xfB, c.childB)
	} else {
		c.manifold = collision.Collide(c.fA.shape, xfA, c.childA, c.fB.shape, xfB, c.childB)
		touching = c.manifold.PointCount > 0
		c.warmStart(oldManifold)
	}

	if touching {
		c.flags |= contactTouchingFlag
	} else {
		c.flags &^= contactTouchingFlag
	}

	beganTouching = touching && !wasTouching
	endedTouching = !touching && wasTouching
	return
}

// warmStart matches surviving manifold points against the previous step's
// by ContactID, carrying each point's accumulated impulses forward (spec.md
// §9's warm-starting-via-ContactId.Key note).
func (c *Contact) warmStart(old collision.Manifold) {
	for i := 0; i < c.manifold.PointCount; i++ {
		p := &c.manifold.Points[i]
		for j := 0; j < old.PointCount; j++ {
			if old.Points[j].ID.Key() == p.ID.Key() {
				p.NormalImpulse = old.Points[j].NormalImpulse
				p.TangentImpulse = old.Points[j].TangentImpulse
				break
			}
		}
	}
}

