// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import "testing"

func TestShouldCollideDefaultFilter(t *testing.T) {
	a := DefaultFilter()
	b := DefaultFilter()
	if !ShouldCollide(a, b) {
		t.Error("two default filters should collide")
	}
}

func TestShouldCollideCategoryMask(t *testing.T) {
	a := Filter{CategoryBits: 0x0002, MaskBits: 0x0001, GroupIndex: 0}
	b := Filter{CategoryBits: 0x0001, MaskBits: 0x0002, GroupIndex: 0}
	if !ShouldCollide(a, b) {
		t.Error("matching category/mask pairs should collide")
	}

	c := Filter{CategoryBits: 0x0004, MaskBits: 0x0004, GroupIndex: 0}
	if ShouldCollide(a, c) {
		t.Error("disjoint category/mask pairs should not collide")
	}
}

func TestShouldCollideGroupIndexOverridesMask(t *testing.T) {
	// Same positive group index always collides, even with disjoint masks.
	a := Filter{CategoryBits: 1, MaskBits: 0, GroupIndex: 5}
	b := Filter{CategoryBits: 2, MaskBits: 0, GroupIndex: 5}
	if !ShouldCollide(a, b) {
		t.Error("equal positive group indices should always collide")
	}

	// Same negative group index always forbids collision.
	c := Filter{CategoryBits: 1, MaskBits: 0xFFFF, GroupIndex: -3}
	d := Filter{CategoryBits: 1, MaskBits: 0xFFFF, GroupIndex: -3}
	if ShouldCollide(c, d) {
		t.Error("equal negative group indices should never collide")
	}
}
