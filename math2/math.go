// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math2 implements the 2D vector, matrix, rotation, transform
// and bounding-box primitives that underpin the physics simulation.
// It mirrors the float32, pointer-receiver idiom of github.com/g3n/engine/math32
// narrowed to two dimensions.
package math2

import "math"

const Pi = math.Pi

var Infinity = float32(math.Inf(1))

// Epsilon is the smallest float32 increment the solver treats as non-zero.
const Epsilon = 1.1920929e-7

func DegToRad(degrees float32) float32 { return degrees * Pi / 180 }
func RadToDeg(radians float32) float32 { return radians * 180 / Pi }

// Clamp clamps x to the closed interval [a, b].
func Clamp(x, a, b float32) float32 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

func ClampInt(x, a, b int) int {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

func Abs(v float32) float32      { return float32(math.Abs(float64(v))) }
func Acos(v float32) float32     { return float32(math.Acos(float64(v))) }
func Asin(v float32) float32     { return float32(math.Asin(float64(v))) }
func Atan2(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }
func Ceil(v float32) float32     { return float32(math.Ceil(float64(v))) }
func Cos(v float32) float32      { return float32(math.Cos(float64(v))) }
func Floor(v float32) float32    { return float32(math.Floor(float64(v))) }
func Sin(v float32) float32      { return float32(math.Sin(float64(v))) }
func Sqrt(v float32) float32     { return float32(math.Sqrt(float64(v))) }
func IsNaN(v float32) bool       { return math.IsNaN(float64(v)) }

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
