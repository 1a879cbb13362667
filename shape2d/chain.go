// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape2d

import "github.com/g3n/engine2d/math2"

// Chain is an ordered sequence of vertices yielding N-1 (or N if Loop is
// set) one-sided edge child shapes, each carrying the ghost vertices
// needed to resolve ghost-collision ambiguity at its neighbors (spec.md
// §3, supplemented feature #1 in SPEC_FULL.md: ghost vertices must be
// wired across the loop closure too, not just interior joints).
type Chain struct {
	base
	Vertices []math2.Vec2
	Loop     bool
}

// NewChain creates and returns a pointer to a new Chain shape from an
// ordered list of at least two vertices.
func NewChain(vertices []math2.Vec2, loop bool, density float32) (*Chain, error) {
	if len(vertices) < 2 {
		return nil, &PreconditionError{Msg: "chain requires at least 2 vertices"}
	}
	c := new(Chain)
	c.shapeType = TypeChain
	c.radius = PolygonRadius
	c.density = density
	c.Vertices = vertices
	c.Loop = loop
	return c, nil
}

// GetChildCount returns the number of edge children the chain yields.
func (c *Chain) GetChildCount() int {
	n := len(c.Vertices)
	if c.Loop {
		return n
	}
	return n - 1
}

// GetChildEdge returns the one-sided Edge shape for child index, with its
// ghost vertices populated from the chain's neighboring vertices (wrapping
// around the loop closure when Loop is set).
func (c *Chain) GetChildEdge(index int) *Edge {
	n := len(c.Vertices)
	i1 := index
	i2 := index + 1
	if c.Loop {
		i2 %= n
	}

	e := NewEdge(c.Vertices[i1], c.Vertices[i2], c.density)
	e.OneSided = true

	if c.Loop {
		i0 := (i1 - 1 + n) % n
		i3 := (i2 + 1) % n
		e.SetGhostVertex0(c.Vertices[i0])
		e.SetGhostVertex3(c.Vertices[i3])
	} else {
		if i1 > 0 {
			e.SetGhostVertex0(c.Vertices[i1-1])
		}
		if i2 < n-1 {
			e.SetGhostVertex3(c.Vertices[i2+1])
		}
	}
	return e
}

func (c *Chain) ComputeAABB(xf math2.Transform, childIndex int) math2.AABB {
	return c.GetChildEdge(childIndex).ComputeAABB(xf, 0)
}

// ComputeMass reports zero mass: chains are boundary geometry, always
// attached to static bodies in practice.
func (c *Chain) ComputeMass() MassData {
	return MassData{}
}

func (c *Chain) TestPoint(xf math2.Transform, p math2.Vec2) bool { return false }

func (c *Chain) RayCast(input *math2.RayCastInput, xf math2.Transform, childIndex int) (math2.RayCastOutput, bool) {
	return c.GetChildEdge(childIndex).RayCast(input, xf, 0)
}
