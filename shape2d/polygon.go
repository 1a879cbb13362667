// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape2d

import "github.com/g3n/engine2d/math2"

// MaxPolygonVertices bounds the size of a convex polygon's vertex buffer.
const MaxPolygonVertices = 8

// LinearSlop is the position slop allowed in the solver; polygons carry a
// skin of 2*LinearSlop (PolygonRadius) so resting contacts generate a
// stable manifold before shapes visually overlap.
const LinearSlop = 0.005
const PolygonRadius = 2 * LinearSlop

// PreconditionError reports a violated construction precondition, such as
// a degenerate polygon. Construction never silently repairs its input.
type PreconditionError struct{ Msg string }

func (e *PreconditionError) Error() string { return "shape2d: " + e.Msg }

// Polygon is a convex polygon with at most MaxPolygonVertices vertices,
// wound counter-clockwise, with one outward normal cached per edge.
type Polygon struct {
	base
	Vertices []math2.Vec2
	Normals  []math2.Vec2
	Centroid math2.Vec2
}

// NewPolygonBox creates an axis-aligned box polygon centered at the origin
// with half-widths hx, hy.
func NewPolygonBox(hx, hy, density float32) *Polygon {
	return NewPolygonBoxAt(hx, hy, math2.Vec2{}, 0, density)
}

// NewPolygonBoxAt creates a box polygon with half-widths hx, hy centered at
// center and rotated by angle radians.
func NewPolygonBoxAt(hx, hy float32, center math2.Vec2, angle, density float32) *Polygon {
	pts := []math2.Vec2{
		{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy},
	}
	q := math2.Rot{}
	q.Set(angle)
	for i := range pts {
		pts[i] = math2.Add2(center, math2.RotVec(q, pts[i]))
	}
	p, err := NewPolygon(pts, density)
	if err != nil {
		// A well-formed axis-aligned box can never fail welding/convexity.
		panic(err)
	}
	return p
}

// NewPolygon builds a convex polygon from an arbitrary point cloud: nearby
// points are welded (tolerance half of LinearSlop), a counter-clockwise
// convex hull is computed by gift wrapping, and outward edge normals and
// the centroid are cached. Returns a *PreconditionError if fewer than 3
// distinct, non-collinear points remain after welding.
func NewPolygon(points []math2.Vec2, density float32) (*Polygon, error) {
	welded := weldPoints(points)
	if len(welded) < 3 {
		return nil, &PreconditionError{Msg: "polygon requires at least 3 unique points after welding"}
	}

	hull, err := computeHull(welded)
	if err != nil {
		return nil, err
	}

	p := new(Polygon)
	p.shapeType = TypePolygon
	p.radius = PolygonRadius
	p.density = density
	p.Vertices = hull
	p.Normals = make([]math2.Vec2, len(hull))
	n := len(hull)
	for i := 0; i < n; i++ {
		edge := math2.Sub2(hull[(i+1)%n], hull[i])
		if edge.LengthSq() <= math2.Epsilon*math2.Epsilon {
			return nil, &PreconditionError{Msg: "polygon has a degenerate edge"}
		}
		normal := edge.Skew()
		normal.Normalize()
		p.Normals[i] = normal
	}
	p.Centroid = computeCentroid(p.Vertices)
	return p, nil
}

// weldPoints removes near-duplicate points (within half of LinearSlop).
func weldPoints(points []math2.Vec2) []math2.Vec2 {
	const tol = 0.5 * LinearSlop
	out := make([]math2.Vec2, 0, len(points))
	for _, p := range points {
		dup := false
		for _, q := range out {
			if p.DistanceToSquared(&q) < tol*tol {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// computeHull computes the counter-clockwise convex hull of points using
// gift wrapping (Jarvis march), capped at MaxPolygonVertices.
func computeHull(points []math2.Vec2) ([]math2.Vec2, error) {
	n := len(points)

	// Start from the leftmost-lowest point, guaranteed to be on the hull.
	i0 := 0
	for i := 1; i < n; i++ {
		if points[i].X < points[i0].X || (points[i].X == points[i0].X && points[i].Y < points[i0].Y) {
			i0 = i
		}
	}

	hull := make([]int, 0, MaxPolygonVertices)
	ih := i0
	for {
		hull = append(hull, ih)
		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}
			r := math2.Sub2(points[ie], points[hull[len(hull)-1]])
			v := math2.Sub2(points[j], points[hull[len(hull)-1]])
			c := math2.Cross2(r, v)
			if c < 0 {
				ie = j
			}
			// Collinear: prefer the farther point so nearly-duplicate
			// interior points don't get selected as hull vertices.
			if c == 0 && v.LengthSq() > r.LengthSq() {
				ie = j
			}
		}
		if ie == i0 {
			break
		}
		ih = ie
		if len(hull) >= MaxPolygonVertices {
			break
		}
	}

	if len(hull) < 3 {
		return nil, &PreconditionError{Msg: "point cloud does not enclose a non-degenerate convex hull"}
	}

	out := make([]math2.Vec2, len(hull))
	for i, idx := range hull {
		out[i] = points[idx]
	}
	return out, nil
}

func computeCentroid(vs []math2.Vec2) math2.Vec2 {
	c := math2.Vec2{}
	area := float32(0)
	origin := vs[0]
	const inv3 = 1.0 / 3.0
	for i := 1; i < len(vs)-1; i++ {
		e1 := math2.Sub2(vs[i], origin)
		e2 := math2.Sub2(vs[i+1], origin)
		d := math2.Cross2(e1, e2)
		triArea := 0.5 * d
		area += triArea
		c = math2.Add2(c, math2.Scale2(math2.Add2(e1, e2), triArea*inv3))
	}
	if area > math2.Epsilon {
		c.MultiplyScalar(1 / area)
	}
	c.Add(&origin)
	return c
}

func (p *Polygon) GetChildCount() int { return 1 }

// IsConvex reports whether every vertex lies on or inside the half-plane
// of every (non-adjacent) edge, i.e. the hull is still strictly convex.
func (p *Polygon) IsConvex() bool {
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		i1 := i
		i2 := (i + 1) % n
		edge := math2.Sub2(p.Vertices[i2], p.Vertices[i1])
		for j := 0; j < n; j++ {
			if j == i1 || j == i2 {
				continue
			}
			r := math2.Sub2(p.Vertices[j], p.Vertices[i1])
			if math2.Cross2(edge, r) < 0 {
				return false
			}
		}
	}
	return true
}

// Area returns the signed area of the polygon, which must be strictly positive.
func (p *Polygon) Area() float32 {
	area := float32(0)
	origin := p.Vertices[0]
	for i := 1; i < len(p.Vertices)-1; i++ {
		e1 := math2.Sub2(p.Vertices[i], origin)
		e2 := math2.Sub2(p.Vertices[i+1], origin)
		area += 0.5 * math2.Cross2(e1, e2)
	}
	return area
}

func (p *Polygon) ComputeAABB(xf math2.Transform, childIndex int) math2.AABB {
	lower := math2.MulTransformVec(xf, p.Vertices[0])
	upper := lower
	for i := 1; i < len(p.Vertices); i++ {
		v := math2.MulTransformVec(xf, p.Vertices[i])
		lower.Min(&v)
		upper.Max(&v)
	}
	r := math2.Vec2{X: p.radius, Y: p.radius}
	return math2.AABB{LowerBound: math2.Sub2(lower, r), UpperBound: math2.Add2(upper, r)}
}

// ComputeMass computes the mass, centroid and rotational inertia (about the
// local origin) of the polygon by summing triangle contributions from a
// reference point (the first vertex), following the standard polygon mass formula.
func (p *Polygon) ComputeMass() MassData {
	n := len(p.Vertices)
	center := math2.Vec2{}
	area := float32(0)
	I := float32(0)

	// Use the first vertex as the reference point; any interior-biased
	// reference works, this avoids needing the centroid up front.
	ref := p.Vertices[0]
	const k_inv3 = 1.0 / 3.0

	for i := 0; i < n; i++ {
		e1 := math2.Sub2(p.Vertices[i], ref)
		e2 := math2.Sub2(p.Vertices[(i+1)%n], ref)

		d := math2.Cross2(e1, e2)
		triArea := 0.5 * d
		area += triArea

		center = math2.Add2(center, math2.Scale2(math2.Add2(e1, e2), triArea*k_inv3))

		intx2 := e1.X*e1.X + e1.X*e2.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e1.Y*e2.Y + e2.Y*e2.Y
		I += (0.25 * k_inv3 * d) * (intx2 + inty2)
	}

	mass := p.density * area
	if area > math2.Epsilon {
		center.MultiplyScalar(1 / area)
	}
	centroid := math2.Add2(center, ref)

	// Shift I from the reference-point frame to the centroid, then to the origin.
	I = p.density * I
	I -= mass * math2.Dot2(center, center)
	I += mass * math2.Dot2(centroid, centroid)

	return MassData{Mass: mass, Center: centroid, I: I}
}

func (p *Polygon) TestPoint(xf math2.Transform, point math2.Vec2) bool {
	local := math2.MulTTransformVec(xf, point)
	for i := range p.Vertices {
		d := math2.Dot2(p.Normals[i], math2.Sub2(local, p.Vertices[i]))
		if d > 0 {
			return false
		}
	}
	return true
}

func (p *Polygon) RayCast(input *math2.RayCastInput, xf math2.Transform, childIndex int) (math2.RayCastOutput, bool) {
	p1 := math2.MulTTransformVec(xf, input.P1)
	p2 := math2.MulTTransformVec(xf, input.P2)
	d := math2.Sub2(p2, p1)

	lower := float32(0)
	upper := input.MaxFraction
	index := -1

	for i := range p.Vertices {
		numerator := math2.Dot2(p.Normals[i], math2.Sub2(p.Vertices[i], p1))
		denominator := math2.Dot2(p.Normals[i], d)
		if denominator == 0 {
			if numerator < 0 {
				return math2.RayCastOutput{}, false
			}
			continue
		}
		t := numerator / denominator
		if denominator < 0 && t > lower {
			lower = t
			index = i
		} else if denominator > 0 && t < upper {
			upper = t
		}
		if upper < lower {
			return math2.RayCastOutput{}, false
		}
	}

	if index >= 0 {
		normal := math2.RotVec(xf.Q, p.Normals[index])
		return math2.RayCastOutput{Normal: normal, Fraction: lower}, true
	}
	return math2.RayCastOutput{}, false
}
