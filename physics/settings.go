// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import "github.com/g3n/engine2d/shape2d"

// Settings groups the tunables that stay stable across steps. It is held by
// value inside a World rather than exposed through package-level vars,
// following the teacher's Simulation-holds-its-own-tunables pattern rather
// than global mutable state.
type Settings struct {
	LinearSlop         float32 // position slop allowed in the solver
	AngularSlop        float32 // angular slop, radians
	PolygonRadius      float32 // polygon skin thickness
	AABBExtension      float32 // broad-phase fattening margin
	AABBMultiplier     float32 // displacement lookahead multiplier
	MaxGJKIterations   int
	MaxTOIIterations   int
	MaxTOIRootIterations int

	VelocityIterations int
	PositionIterations int
	MaxTOISubSteps     int

	LinearSleepTolerance  float32
	AngularSleepTolerance float32
	TimeToSleep           float32

	Baumgarte          float32
	ToiBaumgarte       float32
	MaxLinearCorrection  float32
	MaxAngularCorrection float32

	VelocityThreshold float32 // below this approach speed, restitution is suppressed

	MaxTranslation float32 // per-step translation clamp, guards against tunneling explosions
	MaxRotation    float32

	EnableWarmStarting   bool
	EnableContinuous     bool
	EnableSubStepping    bool
	Verbose              bool // when set, the world also logs island/TOI diagnostics at DEBUG; the per-step line is logged regardless
}

// DefaultSettings returns the tunables spec.md §6 lists as defaults.
func DefaultSettings() Settings {
	return Settings{
		LinearSlop:           shape2d.LinearSlop,
		AngularSlop:          2.0 * 3.14159265 / 180.0,
		PolygonRadius:        shape2d.PolygonRadius,
		AABBExtension:        0.1,
		AABBMultiplier:       4,
		MaxGJKIterations:     20,
		MaxTOIIterations:     20,
		MaxTOIRootIterations: 50,

		VelocityIterations: 8,
		PositionIterations: 3,
		MaxTOISubSteps:     8,

		LinearSleepTolerance:  0.01,
		AngularSleepTolerance: 2.0 / 180.0 * 3.14159265,
		TimeToSleep:           0.5,

		Baumgarte:            0.2,
		ToiBaumgarte:         0.75,
		MaxLinearCorrection:  0.2,
		MaxAngularCorrection: 8.0 / 180.0 * 3.14159265,

		VelocityThreshold: 1.0,

		MaxTranslation: 2.0,
		MaxRotation:    0.5 * 3.14159265,

		EnableWarmStarting: true,
		EnableContinuous:   true,
		EnableSubStepping:  false,
		Verbose:            false,
	}
}
