// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape2d implements the immutable convex shape variants collided
// and integrated by the physics kernel: circles, edges, polygons and
// chains. Shapes are value-ish types that share a common {Type, Radius,
// Density} prefix (spec.md §3), compute their MassData on demand, and are dispatched on
// their Type tag rather than through deep interface inheritance, following
// the sum-typed design spec.md §9 calls for.
package shape2d

import "github.com/g3n/engine2d/math2"

// Type identifies which shape variant a Shape value holds.
type Type int

const (
	TypeCircle Type = iota
	TypeEdge
	TypePolygon
	TypeChain
)

func (t Type) String() string {
	switch t {
	case TypeCircle:
		return "circle"
	case TypeEdge:
		return "edge"
	case TypePolygon:
		return "polygon"
	case TypeChain:
		return "chain"
	default:
		return "unknown"
	}
}

// MassData holds the mass, rotational inertia (about the local origin)
// and centroid of a shape at unit or specified density.
type MassData struct {
	Mass   float32
	Center math2.Vec2
	I      float32 // rotational inertia about the local origin
}

// IShape is the interface implemented by every shape variant.
type IShape interface {
	GetType() Type
	GetRadius() float32
	GetDensity() float32
	GetChildCount() int
	ComputeAABB(xf math2.Transform, childIndex int) math2.AABB
	ComputeMass() MassData
	TestPoint(xf math2.Transform, p math2.Vec2) bool
	RayCast(input *math2.RayCastInput, xf math2.Transform, childIndex int) (math2.RayCastOutput, bool)
}

// base is the common prefix embedded by every shape variant, holding the
// shared fields {type, radius, density}; MassData is not cached here but
// recomputed by each variant's ComputeMass.
type base struct {
	shapeType Type
	radius    float32
	density   float32
}

func (b *base) GetType() Type        { return b.shapeType }
func (b *base) GetRadius() float32   { return b.radius }
func (b *base) GetDensity() float32  { return b.density }
func (b *base) SetDensity(d float32) { b.density = d }
