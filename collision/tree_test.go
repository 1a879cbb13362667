// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"testing"

	"github.com/g3n/engine2d/math2"
)

func TestDynamicTreeQueryFindsOverlaps(t *testing.T) {
	tree := NewDynamicTree()

	id1 := tree.CreateProxy(math2.AABB{LowerBound: math2.Vec2{X: 0, Y: 0}, UpperBound: math2.Vec2{X: 1, Y: 1}}, ProxyHandle{FixtureID: 1})
	id2 := tree.CreateProxy(math2.AABB{LowerBound: math2.Vec2{X: 5, Y: 5}, UpperBound: math2.Vec2{X: 6, Y: 6}}, ProxyHandle{FixtureID: 2})

	found := map[int]bool{}
	tree.Query(math2.AABB{LowerBound: math2.Vec2{X: -1, Y: -1}, UpperBound: math2.Vec2{X: 2, Y: 2}}, func(id int) bool {
		found[id] = true
		return true
	})
	if !found[id1] {
		t.Error("expected query to find proxy 1")
	}
	if found[id2] {
		t.Error("did not expect query to find proxy 2")
	}
}

func TestDynamicTreeStressInsertRemove(t *testing.T) {
	tree := NewDynamicTree()
	var ids []int
	for i := 0; i < 200; i++ {
		x := float32(i % 20)
		y := float32(i / 20)
		aabb := math2.AABB{LowerBound: math2.Vec2{X: x, Y: y}, UpperBound: math2.Vec2{X: x + 1, Y: y + 1}}
		ids = append(ids, tree.CreateProxy(aabb, ProxyHandle{FixtureID: i}))
	}

	if balance := tree.MaxBalance(); balance > 2 {
		t.Errorf("tree max balance = %d, want <= 2 after bulk insert", balance)
	}

	for i, id := range ids {
		if i%3 == 0 {
			tree.DestroyProxy(id)
		}
	}

	if h := tree.Height(); h != tree.ComputeHeight() {
		t.Errorf("cached height %d does not match recomputed height %d", h, tree.ComputeHeight())
	}
	if balance := tree.MaxBalance(); balance > 2 {
		t.Errorf("tree max balance = %d, want <= 2 after partial removal", balance)
	}
}

func TestBroadPhasePairGeneration(t *testing.T) {
	bp := NewBroadphase()

	a := bp.CreateProxy(math2.AABB{LowerBound: math2.Vec2{X: 0, Y: 0}, UpperBound: math2.Vec2{X: 1, Y: 1}}, ProxyHandle{FixtureID: 1})
	b := bp.CreateProxy(math2.AABB{LowerBound: math2.Vec2{X: 0.5, Y: 0.5}, UpperBound: math2.Vec2{X: 1.5, Y: 1.5}}, ProxyHandle{FixtureID: 2})

	pairs := bp.FindCollisionPairs()
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 pair from overlapping proxies, got %d", len(pairs))
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if pairs[0].ProxyIDA != lo || pairs[0].ProxyIDB != hi {
		t.Errorf("pair = %+v, want (%d,%d)", pairs[0], lo, hi)
	}

	// No proxy moved since the last call: the buffer should be empty.
	if pairs := bp.FindCollisionPairs(); len(pairs) != 0 {
		t.Errorf("expected no pairs with an empty move buffer, got %d", len(pairs))
	}
}
