// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import "github.com/g3n/engine2d/math2"

// ShapeCastInput describes a linear sweep of proxyB (translated by
// TranslationB, both at fixed orientations xfA/xfB) against the
// stationary proxyA (spec.md §4.5).
type ShapeCastInput struct {
	ProxyA, ProxyB   DistanceProxy
	TransformA, TransformB math2.Transform
	TranslationB     math2.Vec2
}

// ShapeCastOutput reports the first time-of-impact fraction in [0,1] at
// which the swept shapes first touch, or Hit=false if they never do
// within the sweep.
type ShapeCastOutput struct {
	Point    math2.Vec2
	Normal   math2.Vec2
	Lambda   float32
	Hit      bool
}

// ShapeCast performs conservative advancement along TranslationB: at each
// iteration it finds the separating-axis direction via GJK between the
// two (fixed-orientation) proxies displaced by the current lambda, then
// advances lambda by the distance along that axis divided by the
// translation's closing speed, until the proxies are within target
// tolerance of touching or the sweep is exhausted (spec.md §4.5, Box2D's
// b2ShapeCast).
func ShapeCast(input ShapeCastInput) ShapeCastOutput {
	var out ShapeCastOutput

	proxyA := input.ProxyA
	proxyB := input.ProxyB

	totalRadius := proxyA.Radius + proxyB.Radius
	const linearSlop = 0.005
	target := math2.Max(linearSlop, totalRadius-3*linearSlop)
	const tolerance = 0.25 * linearSlop

	lambda := float32(0)
	const maxIters = 20

	xfB := input.TransformB

	var s simplex
	s.count = 0

	for iter := 0; iter < maxIters; iter++ {
		xfB.P = math2.Add2(input.TransformB.P, math2.Scale2(input.TranslationB, lambda))

		var cache SimplexCache
		if s.count > 0 {
			cache.Count = s.count
			for i := 0; i < s.count; i++ {
				cache.IndexA[i] = s.v[i].indexA
				cache.IndexB[i] = s.v[i].indexB
			}
		}

		result := ComputeDistance(proxyA, input.TransformA, proxyB, xfB, &cache, false)

		if result.Distance <= target+tolerance {
			if iter == 0 {
				// Already touching at lambda=0: report a zero-fraction hit.
				out.Hit = true
				out.Lambda = 0
				out.Point = result.PointA
				n := math2.Sub2(result.PointB, result.PointA)
				n.Normalize()
				out.Normal = n
				return out
			}
			out.Hit = true
			out.Lambda = lambda
			out.Point = result.PointA
			n := math2.Sub2(result.PointB, result.PointA)
			n.Normalize()
			out.Normal = n
			return out
		}

		n := math2.Sub2(result.PointB, result.PointA)
		n.Normalize()

		closingSpeed := math2.Dot2(input.TranslationB, n)
		if closingSpeed >= 0 {
			return ShapeCastOutput{}
		}

		delta := (result.Distance - target) / -closingSpeed
		lambda += delta
		if lambda > 1 {
			return ShapeCastOutput{}
		}

		s.count = cache.Count
		for i := 0; i < s.count; i++ {
			s.v[i].indexA = cache.IndexA[i]
			s.v[i].indexB = cache.IndexB[i]
		}
	}
	return ShapeCastOutput{}
}
