// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"sort"

	"github.com/g3n/engine2d/math2"
)

// CollisionPair names two proxies whose fattened AABBs overlap, in the
// same role the teacher's naive broadphase pair played, now produced by
// FindCollisionPairs walking the dynamic tree's move buffer instead of an O(n^2)
// double loop over every live proxy (spec.md §4.2).
type CollisionPair struct {
	ProxyIDA int
	ProxyIDB int
}

// BroadPhase wraps a DynamicTree with a move buffer: CreateProxy/MoveProxy
// queue the proxy for re-pairing, and FindCollisionPairs drains the buffer,
// querying the tree for every buffered proxy's current neighbors and
// de-duplicating so a pair already reported this step, or generated
// twice from two buffered sides, is only emitted once.
type BroadPhase struct {
	tree        *DynamicTree
	moveBuffer  []int
	inMoveSet   map[int]bool
	pairBuffer  []CollisionPair
	queryProxyID int
}

// NewBroadphase creates and returns a pointer to a new, empty BroadPhase.
func NewBroadphase() *BroadPhase {
	b := new(BroadPhase)
	b.tree = NewDynamicTree()
	b.inMoveSet = make(map[int]bool)
	return b
}

// CreateProxy inserts a new fattened proxy for aabb and buffers it for pairing.
func (b *BroadPhase) CreateProxy(aabb math2.AABB, handle ProxyHandle) int {
	id := b.tree.CreateProxy(aabb, handle)
	b.bufferMove(id)
	return id
}

// DestroyProxy removes a proxy, which must not appear in any future FindCollisionPairs call.
func (b *BroadPhase) DestroyProxy(id int) {
	b.unbufferMove(id)
	b.tree.DestroyProxy(id)
}

// MoveProxy updates a proxy's AABB and re-buffers it if the tree actually reinserted it.
func (b *BroadPhase) MoveProxy(id int, aabb math2.AABB, displacement math2.Vec2) {
	changed := b.tree.MoveProxy(id, aabb, displacement)
	if changed {
		b.bufferMove(id)
	}
}

// TouchProxy forces a proxy to be re-paired on the next FindCollisionPairs even if its AABB didn't change.
func (b *BroadPhase) TouchProxy(id int) { b.bufferMove(id) }

func (b *BroadPhase) bufferMove(id int) {
	if b.inMoveSet[id] {
		return
	}
	b.inMoveSet[id] = true
	b.moveBuffer = append(b.moveBuffer, id)
}

func (b *BroadPhase) unbufferMove(id int) {
	if !b.inMoveSet[id] {
		return
	}
	delete(b.inMoveSet, id)
	for i, v := range b.moveBuffer {
		if v == id {
			b.moveBuffer = append(b.moveBuffer[:i], b.moveBuffer[i+1:]...)
			break
		}
	}
}

// FatAABB returns the proxy's current fattened AABB.
func (b *BroadPhase) FatAABB(id int) math2.AABB { return b.tree.FatAABB(id) }

// UserData returns the handle a proxy was created with.
func (b *BroadPhase) UserData(id int) ProxyHandle { return b.tree.UserData(id) }

// TestOverlap reports whether two proxies' fat AABBs currently overlap.
func (b *BroadPhase) TestOverlap(idA, idB int) bool {
	a := b.tree.FatAABB(idA)
	c := b.tree.FatAABB(idB)
	return math2.TestOverlap(&a, &c)
}

// Query visits every proxy whose fat AABB overlaps aabb.
func (b *BroadPhase) Query(aabb math2.AABB, callback func(proxyID int) bool) {
	b.tree.Query(aabb, callback)
}

// RayCast walks the tree along the segment p1->p2; see DynamicTree.RayCast.
func (b *BroadPhase) RayCast(p1, p2 math2.Vec2, maxFraction float32, callback RayCastCallback) {
	b.tree.RayCast(p1, p2, maxFraction, callback)
}

// ShiftOrigin re-centers every stored AABB by -v.
func (b *BroadPhase) ShiftOrigin(v math2.Vec2) { b.tree.ShiftOrigin(v) }

// TreeHeight, TreeBalance and TreeQuality expose DynamicTree diagnostics
// through the BroadPhase facade, for world-level statistics.
func (b *BroadPhase) TreeHeight() int       { return b.tree.Height() }
func (b *BroadPhase) TreeBalance() int      { return b.tree.MaxBalance() }
func (b *BroadPhase) TreeQuality() float32  { return b.tree.AreaRatio() }

// FindCollisionPairs drains the move buffer into a de-duplicated list of
// CollisionPair, querying the tree for each buffered proxy's current
// neighbors. Matches the teacher's FindCollisionPairs entry point; the
// naive internal double loop is replaced by tree queries scoped to only
// the proxies that actually moved this step.
func (b *BroadPhase) FindCollisionPairs() []CollisionPair {
	b.pairBuffer = b.pairBuffer[:0]
	b.queryProxyID = -1

	for _, id := range b.moveBuffer {
		b.queryProxyID = id
		fatAABB := b.tree.FatAABB(id)
		b.tree.Query(fatAABB, b.queryCallback)
	}

	for _, id := range b.moveBuffer {
		b.tree.ClearMoved(id)
	}
	b.moveBuffer = b.moveBuffer[:0]
	for k := range b.inMoveSet {
		delete(b.inMoveSet, k)
	}

	sort.Slice(b.pairBuffer, func(i, j int) bool {
		if b.pairBuffer[i].ProxyIDA != b.pairBuffer[j].ProxyIDA {
			return b.pairBuffer[i].ProxyIDA < b.pairBuffer[j].ProxyIDA
		}
		return b.pairBuffer[i].ProxyIDB < b.pairBuffer[j].ProxyIDB
	})

	out := make([]CollisionPair, 0, len(b.pairBuffer))
	for i, p := range b.pairBuffer {
		if i > 0 && p == b.pairBuffer[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (b *BroadPhase) queryCallback(proxyID int) bool {
	if proxyID == b.queryProxyID {
		return true
	}
	// When both proxies of a pair were buffered, only the query of the
	// lower id reports it, to avoid double-counting the pair.
	if b.tree.WasMoved(proxyID) && proxyID < b.queryProxyID {
		return true
	}
	a, c := proxyID, b.queryProxyID
	if a > c {
		a, c = c, a
	}
	b.pairBuffer = append(b.pairBuffer, CollisionPair{ProxyIDA: a, ProxyIDB: c})
	return true
}
