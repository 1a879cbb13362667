// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import "github.com/g3n/engine2d/math2"

// RopeJointDef is the input to NewRopeJoint.
type RopeJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA     math2.Vec2
	LocalAnchorB     math2.Vec2
	MaxLength        float32
	CollideConnected bool
	UserData         interface{}
}

// NewRopeJoint creates a joint that prevents two anchors from separating
// past MaxLength but otherwise applies no constraint. It is a DistanceJoint
// with its lower bound relaxed to zero and no stiffness, matching Box2D's
// own b2RopeJoint deprecation note that a rope is just that DistanceJoint
// configuration.
func NewRopeJoint(def RopeJointDef) *DistanceJoint {
	return NewDistanceJoint(DistanceJointDef{
		BodyA:            def.BodyA,
		BodyB:            def.BodyB,
		LocalAnchorA:     def.LocalAnchorA,
		LocalAnchorB:     def.LocalAnchorB,
		Length:           def.MaxLength,
		MinLength:        0,
		MaxLength:        def.MaxLength,
		CollideConnected: def.CollideConnected,
		UserData:         def.UserData,
	})
}
