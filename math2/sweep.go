// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Sweep describes the motion of a body's center of mass over one time step,
// used by the time-of-impact solver to evaluate the body's transform at any
// fraction alpha of the step.
type Sweep struct {
	LocalCenter Vec2 // local center of mass position
	C0, C       Vec2 // center of mass at alpha0 and alpha1
	A0, A       float32
	Alpha0      float32 // fraction of the step already consumed by a previous TOI event
}

// GetTransform evaluates the world transform of the body at fraction beta
// of the step, interpolating between (C0,A0) and (C,A), then shifting by
// the local center of mass so the result is the body's origin transform
// rather than its center-of-mass transform.
func (s *Sweep) GetTransform(beta float32) Transform {
	var t Transform
	t.P = Add2(Scale2(s.C0, 1-beta), Scale2(s.C, beta))
	angle := (1-beta)*s.A0 + beta*s.A
	t.Q.Set(angle)
	offset := RotVec(t.Q, s.LocalCenter)
	t.P = Sub2(t.P, offset)
	return t
}

// Advance advances the sweep's baseline forward to alpha, resetting Alpha0
// and re-basing C0/A0 at that fraction. Used once a TOI event has been
// resolved for part of the step.
func (s *Sweep) Advance(alpha float32) {
	if s.Alpha0 >= alpha {
		return
	}
	beta := (alpha - s.Alpha0) / (1 - s.Alpha0)
	s.C0 = Add2(Scale2(s.C0, 1-beta), Scale2(s.C, beta))
	s.A0 = (1-beta)*s.A0 + beta*s.A
	s.Alpha0 = alpha
}

// Normalize shifts A0 into [0, 2*Pi) and shifts A by the same multiple of
// 2*Pi, so the difference A - A0 is left unchanged.
func (s *Sweep) Normalize() {
	twoPi := float32(2 * Pi)
	d := twoPi * Floor(s.A0/twoPi)
	s.A0 -= d
	s.A -= d
}
