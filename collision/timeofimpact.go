// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import "github.com/g3n/engine2d/math2"

// TOIState reports how a TimeOfImpact query concluded, distinguishing an
// actual first-contact time from the degenerate outcomes spec.md §4.5
// calls out: shapes already overlapping at t0, shapes that separate
// before ever touching, and iteration counts exhausted without
// convergence (reported, not panicked, since TOI failure is recoverable
// by the caller falling back to a conservative sub-step).
type TOIState int

const (
	TOIStateUnknown TOIState = iota
	TOIStateFailed
	TOIStateOverlapped
	TOIStateTouching
	TOIStateSeparated
)

// TOIInput describes the conservative-advancement sweep between two
// proxies, each following its own Sweep from its body's motion this step.
type TOIInput struct {
	ProxyA, ProxyB DistanceProxy
	SweepA, SweepB math2.Sweep
	TMax           float32 // normally 1
}

// TOIOutput is the result of a TimeOfImpact query: State plus, when it is
// TOIStateTouching, the time T in [0, TMax] of first contact.
type TOIOutput struct {
	State TOIState
	T     float32
}

// separationFunction evaluates the separation between the two sweeps at a
// given time t along the axis fixed at the sweep's initial configuration,
// one of Box2D's three cases: two points (vertex-vertex), a face on proxy
// A, or a face on proxy B.
type sepFuncType int

const (
	sepPoints sepFuncType = iota
	sepFaceA
	sepFaceB
)

type separationFunction struct {
	proxyA, proxyB *DistanceProxy
	sweepA, sweepB math2.Sweep
	kind           sepFuncType
	localPoint     math2.Vec2
	axis           math2.Vec2
	indexA, indexB int
}

func makeSeparationFunction(cache *SimplexCache, proxyA *DistanceProxy, sweepA math2.Sweep, proxyB *DistanceProxy, sweepB math2.Sweep, t1 float32) separationFunction {
	var f separationFunction
	f.proxyA, f.proxyB = proxyA, proxyB
	f.sweepA, f.sweepB = sweepA, sweepB

	xfA := sweepA.GetTransform(t1)
	xfB := sweepB.GetTransform(t1)

	count := cache.Count
	if count == 1 {
		f.kind = sepPoints
		localPointA := proxyA.Vertices[cache.IndexA[0]]
		localPointB := proxyB.Vertices[cache.IndexB[0]]
		pointA := math2.MulTransformVec(xfA, localPointA)
		pointB := math2.MulTransformVec(xfB, localPointB)
		f.axis = math2.Sub2(pointB, pointA)
		f.axis.Normalize()
		f.indexA, f.indexB = cache.IndexA[0], cache.IndexB[0]
		return f
	}

	if cache.IndexA[0] == cache.IndexA[1] {
		// Two points share an A index: face lives on B.
		f.kind = sepFaceB
		localPointB1 := proxyB.Vertices[cache.IndexB[0]]
		localPointB2 := proxyB.Vertices[cache.IndexB[1]]
		edgeB := math2.Sub2(localPointB2, localPointB1)
		f.axis = edgeB.Skew()
		f.axis.Normalize()
		normal := math2.RotVec(xfB.Q, f.axis)
		f.localPoint = math2.Scale2(math2.Add2(localPointB1, localPointB2), 0.5)
		pointB := math2.MulTransformVec(xfB, f.localPoint)

		localPointA := proxyA.Vertices[cache.IndexA[0]]
		pointA := math2.MulTransformVec(xfA, localPointA)
		s := math2.Dot2(math2.Sub2(pointA, pointB), normal)
		if s < 0 {
			f.axis = math2.Neg2(f.axis)
		}
		f.indexA, f.indexB = cache.IndexA[0], cache.IndexB[0]
		return f
	}

	f.kind = sepFaceA
	localPointA1 := proxyA.Vertices[cache.IndexA[0]]
	localPointA2 := proxyA.Vertices[cache.IndexA[1]]
	edgeA := math2.Sub2(localPointA2, localPointA1)
	f.axis = edgeA.Skew()
	f.axis.Normalize()
	normal := math2.RotVec(xfA.Q, f.axis)
	f.localPoint = math2.Scale2(math2.Add2(localPointA1, localPointA2), 0.5)
	pointA := math2.MulTransformVec(xfA, f.localPoint)

	localPointB := proxyB.Vertices[cache.IndexB[0]]
	pointB := math2.MulTransformVec(xfB, localPointB)
	s := math2.Dot2(math2.Sub2(pointB, pointA), normal)
	if s < 0 {
		f.axis = math2.Neg2(f.axis)
	}
	f.indexA, f.indexB = cache.IndexA[0], cache.IndexB[0]
	return f
}

func (f *separationFunction) findMinSeparation(t float32) (int, int, float32) {
	xfA := f.sweepA.GetTransform(t)
	xfB := f.sweepB.GetTransform(t)

	switch f.kind {
	case sepPoints:
		axisA := math2.MulTRotVec(xfA.Q, f.axis)
		axisB := math2.MulTRotVec(xfB.Q, math2.Neg2(f.axis))
		indexA := f.proxyA.support(axisA)
		indexB := f.proxyB.support(axisB)
		pointA := math2.MulTransformVec(xfA, f.proxyA.Vertices[indexA])
		pointB := math2.MulTransformVec(xfB, f.proxyB.Vertices[indexB])
		sep := math2.Dot2(math2.Sub2(pointB, pointA), f.axis)
		return indexA, indexB, sep

	case sepFaceA:
		normal := math2.RotVec(xfA.Q, f.axis)
		pointA := math2.MulTransformVec(xfA, f.localPoint)
		axisB := math2.MulTRotVec(xfB.Q, math2.Neg2(normal))
		indexB := f.proxyB.support(axisB)
		pointB := math2.MulTransformVec(xfB, f.proxyB.Vertices[indexB])
		sep := math2.Dot2(math2.Sub2(pointB, pointA), normal)
		return 0, indexB, sep

	default: // sepFaceB
		normal := math2.RotVec(xfB.Q, f.axis)
		pointB := math2.MulTransformVec(xfB, f.localPoint)
		axisA := math2.MulTRotVec(xfA.Q, math2.Neg2(normal))
		indexA := f.proxyA.support(axisA)
		pointA := math2.MulTransformVec(xfA, f.proxyA.Vertices[indexA])
		sep := math2.Dot2(math2.Sub2(pointA, pointB), normal)
		return indexA, 0, sep
	}
}

func (f *separationFunction) evaluate(indexA, indexB int, t float32) float32 {
	xfA := f.sweepA.GetTransform(t)
	xfB := f.sweepB.GetTransform(t)

	switch f.kind {
	case sepPoints:
		pointA := math2.MulTransformVec(xfA, f.proxyA.Vertices[indexA])
		pointB := math2.MulTransformVec(xfB, f.proxyB.Vertices[indexB])
		return math2.Dot2(math2.Sub2(pointB, pointA), f.axis)

	case sepFaceA:
		normal := math2.RotVec(xfA.Q, f.axis)
		pointA := math2.MulTransformVec(xfA, f.localPoint)
		pointB := math2.MulTransformVec(xfB, f.proxyB.Vertices[indexB])
		return math2.Dot2(math2.Sub2(pointB, pointA), normal)

	default:
		normal := math2.RotVec(xfB.Q, f.axis)
		pointB := math2.MulTransformVec(xfB, f.localPoint)
		pointA := math2.MulTransformVec(xfA, f.proxyA.Vertices[indexA])
		return math2.Dot2(math2.Sub2(pointA, pointB), normal)
	}
}

// TimeOfImpact finds the first time in [0, input.TMax] at which the two
// swept proxies come within linear-slop tolerance of touching, by
// alternating a GJK distance query (to refine the nearest-feature pair)
// with a root-find of the separation function along that pair's fixed
// axis (conservative advancement, spec.md §4.5, Box2D's b2TimeOfImpact).
func TimeOfImpact(input TOIInput) TOIOutput {
	const linearSlop = 0.005
	const target = 3 * linearSlop
	const tolerance = 0.25 * linearSlop

	sweepA := input.SweepA
	sweepB := input.SweepB
	sweepA.Normalize()
	sweepB.Normalize()

	tMax := input.TMax
	t1 := float32(0)
	const maxRootIters = 50
	const maxPushbackIters = 20

	var cache SimplexCache

	for iter := 0; iter < maxPushbackIters; iter++ {
		xfA := sweepA.GetTransform(t1)
		xfB := sweepB.GetTransform(t1)

		distOut := ComputeDistance(input.ProxyA, xfA, input.ProxyB, xfB, &cache, false)

		if distOut.Distance <= 0 {
			return TOIOutput{State: TOIStateOverlapped, T: 0}
		}
		if distOut.Distance < target+tolerance {
			return TOIOutput{State: TOIStateTouching, T: t1}
		}

		f := makeSeparationFunction(&cache, &input.ProxyA, sweepA, &input.ProxyB, sweepB, t1)

		done := false
		t2 := tMax
		pushBackIter := 0
		for {
			indexA, indexB, s2 := f.findMinSeparation(t2)
			if s2 > target+tolerance {
				return TOIOutput{State: TOIStateSeparated, T: tMax}
			}
			if s2 > target-tolerance {
				t1 = t2
				break
			}

			s1 := f.evaluate(indexA, indexB, t1)
			if s1 < target-tolerance {
				return TOIOutput{State: TOIStateFailed, T: t1}
			}
			if s1 <= target+tolerance {
				done = true
				break
			}

			a1, a2 := t1, t2
			rootIter := 0
			for {
				var tRoot float32
				if rootIter&1 != 0 {
					tRoot = a1 + (target-s1)*(a2-a1)/(s2-s1)
				} else {
					tRoot = 0.5 * (a1 + a2)
				}
				rootIter++

				sRoot := f.evaluate(indexA, indexB, tRoot)
				if math2.Abs(sRoot-target) < tolerance {
					t2 = tRoot
					break
				}
				if sRoot > target {
					a1 = tRoot
					s1 = sRoot
				} else {
					a2 = tRoot
					s2 = sRoot
				}
				if rootIter == maxRootIters {
					break
				}
			}

			pushBackIter++
			if pushBackIter == maxPushbackIters {
				break
			}
		}

		if done {
			return TOIOutput{State: TOIStateTouching, T: t1}
		}
		if t1 >= tMax {
			return TOIOutput{State: TOIStateSeparated, T: tMax}
		}
	}
	return TOIOutput{State: TOIStateFailed, T: t1}
}
