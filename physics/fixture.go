// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"github.com/g3n/engine2d/collision"
	"github.com/g3n/engine2d/math2"
	"github.com/g3n/engine2d/shape2d"
)

// Filter groups the collision-filtering bits a Fixture carries: two
// fixtures collide only if their categories pass each other's masks,
// unless they share a non-zero group index, which always decides instead.
type Filter struct {
	CategoryBits uint16
	MaskBits     uint16
	GroupIndex   int16
}

// DefaultFilter collides with everything and belongs to no group.
func DefaultFilter() Filter {
	return Filter{CategoryBits: 1, MaskBits: 0xFFFF, GroupIndex: 0}
}

// ShouldCollide applies Box2D's filter rule: equal non-zero group indices
// short-circuit the category/mask test.
func ShouldCollide(a, b Filter) bool {
	if a.GroupIndex == b.GroupIndex && a.GroupIndex != 0 {
		return a.GroupIndex > 0
	}
	return a.MaskBits&b.CategoryBits != 0 && b.MaskBits&a.CategoryBits != 0
}

// FixtureDef is the input to Body.CreateFixture.
type FixtureDef struct {
	Shape       shape2d.IShape
	Friction    float32
	Restitution float32
	Density     float32
	IsSensor    bool
	Filter      Filter
	UserData    interface{}
}

// fixtureProxy is one broad-phase proxy for one child of a fixture's shape
// (a polygon or circle has one; a chain has one per edge).
type fixtureProxy struct {
	aabb       math2.AABB
	childIndex int
	proxyID    int
}

// Fixture binds a shape to a body with material and filtering properties.
// The body owns its fixtures; a Fixture owns one broad-phase proxy per
// shape child.
type Fixture struct {
	id       int
	body     *Body
	shape    shape2d.IShape
	density  float32
	friction float32
	restitution float32
	isSensor bool
	filter   Filter
	userData interface{}
	proxies  []fixtureProxy
}

func newFixture(id int, body *Body, def FixtureDef) *Fixture {
	if def.Shape == nil {
		fail("fixture definition requires a shape")
	}
	f := &Fixture{
		id:          id,
		body:        body,
		shape:       def.Shape,
		density:     def.Density,
		friction:    def.Friction,
		restitution: def.Restitution,
		isSensor:    def.IsSensor,
		filter:      def.Filter,
		userData:    def.UserData,
	}
	return f
}

func (f *Fixture) Body() *Body           { return f.body }
func (f *Fixture) Shape() shape2d.IShape { return f.shape }
func (f *Fixture) Density() float32      { return f.density }
func (f *Fixture) Friction() float32     { return f.friction }
func (f *Fixture) Restitution() float32  { return f.restitution }
func (f *Fixture) IsSensor() bool        { return f.isSensor }
func (f *Fixture) Filter() Filter        { return f.filter }
func (f *Fixture) UserData() interface{} { return f.userData }
func (f *Fixture) SetUserData(v interface{}) { f.userData = v }

func (f *Fixture) SetFilter(filter Filter) {
	f.filter = filter
}

func (f *Fixture) SetSensor(sensor bool) {
	f.isSensor = sensor
}

func (f *Fixture) SetDensity(density float32) {
	f.density = density
}

// GetAABB returns the broad-phase fixture proxy's world AABB for the given
// shape child.
func (f *Fixture) GetAABB(childIndex int) math2.AABB {
	return f.proxies[childIndex].aabb
}

// createProxies inserts one broad-phase proxy per shape child at the
// fixture's body's current transform.
func (f *Fixture) createProxies(bp *collision.BroadPhase) {
	n := f.shape.GetChildCount()
	f.proxies = make([]fixtureProxy, n)
	xf := f.body.GetTransform()
	for i := 0; i < n; i++ {
		aabb := f.shape.ComputeAABB(xf, i)
		id := bp.CreateProxy(aabb, collision.ProxyHandle{FixtureID: f.id, ChildIndex: i})
		f.proxies[i] = fixtureProxy{aabb: aabb, childIndex: i, proxyID: id}
	}
}

func (f *Fixture) destroyProxies(bp *collision.BroadPhase) {
	for _, p := range f.proxies {
		bp.DestroyProxy(p.proxyID)
	}
	f.proxies = nil
}

// synchronize re-fattens and, if the fat AABB no longer contains the tight
// AABB, moves every proxy of this fixture to its transform at the new pose,
// predicting the displacement from the old to the new transform.
func (f *Fixture) synchronize(bp *collision.BroadPhase, xf1, xf2 math2.Transform) {
	for i := range f.proxies {
		p := &f.proxies[i]
		aabb1 := f.shape.ComputeAABB(xf1, p.childIndex)
		aabb2 := f.shape.ComputeAABB(xf2, p.childIndex)
		p.aabb = aabb2
		displacement := math2.Sub2(aabb2.LowerBound, aabb1.LowerBound)
		bp.MoveProxy(p.proxyID, aabb2, displacement)
	}
}
