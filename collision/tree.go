// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collision implements the broad-phase dynamic AABB tree and its
// move-buffered BroadPhase wrapper (spec.md §4.1, §4.2), the narrow-phase
// collide functions that produce contact manifolds (spec.md §4.3), and the
// GJK distance / shape-cast / time-of-impact kernels (spec.md §4.4, §4.5).
package collision

import "github.com/g3n/engine2d/math2"

// AABBExtension fattens every inserted AABB on each axis, matching the
// spec's default broad-phase fattening.
const AABBExtension = 0.1

// AABBMultiplier scales the displacement lookahead applied to a moving
// proxy's fat AABB on the leading axis.
const AABBMultiplier = 4

const nullNode = -1

// treeNode is one slot of the tree's array-backed node pool. A leaf has
// Child1 == Child2 == nullNode and holds UserData; an internal node has
// both children and no UserData. Free (unused) slots thread Parent as the
// next-free index, following the same index-recycling idiom as
// Simulation.nilBodies in the teacher's physics package.
type treeNode struct {
	aabb   math2.AABB
	parent int // also doubles as "next" in the free list
	child1 int
	child2 int
	height int // leaf height is 0; -1 marks a free slot
	moved  bool
	proxy  ProxyHandle
}

func (n *treeNode) isLeaf() bool { return n.child1 == nullNode }

// ProxyHandle is the opaque userdata a DynamicTree proxy carries: the
// tagged (FixtureId, ChildIndex) handle spec.md §9 calls for, rather than
// an owning reference into fixture storage.
type ProxyHandle struct {
	FixtureID  int
	ChildIndex int
}

// DynamicTree is a binary tree of fattened AABBs, pooled in a contiguous
// array with a free-list threaded through unused slots' parent field, and
// rebalanced on insertion/removal using single-rotation AVL-style
// balancing (spec.md §4.1).
type DynamicTree struct {
	nodes     []treeNode
	root      int
	freeList  int
	nodeCount int
}

// NewDynamicTree creates and returns a pointer to a new, empty DynamicTree.
func NewDynamicTree() *DynamicTree {
	t := new(DynamicTree)
	t.root = nullNode
	t.freeList = nullNode
	return t
}

func (t *DynamicTree) allocateNode() int {
	if t.freeList == nullNode {
		n := treeNode{parent: nullNode, height: -1}
		t.nodes = append(t.nodes, n)
		id := len(t.nodes) - 1
		t.nodes[id].parent = nullNode
		t.freeList = id
	}
	id := t.freeList
	t.freeList = t.nodes[id].parent
	t.nodes[id] = treeNode{parent: nullNode, child1: nullNode, child2: nullNode, height: 0}
	t.nodeCount++
	return id
}

func (t *DynamicTree) freeNode(id int) {
	t.nodes[id] = treeNode{parent: t.freeList, height: -1}
	t.freeList = id
	t.nodeCount--
}

// CreateProxy inserts a leaf for aabb fattened by AABBExtension and returns
// a stable id usable until DestroyProxy.
func (t *DynamicTree) CreateProxy(aabb math2.AABB, handle ProxyHandle) int {
	id := t.allocateNode()
	r := math2.Vec2{X: AABBExtension, Y: AABBExtension}
	t.nodes[id].aabb = math2.AABB{
		LowerBound: math2.Sub2(aabb.LowerBound, r),
		UpperBound: math2.Add2(aabb.UpperBound, r),
	}
	t.nodes[id].proxy = handle
	t.nodes[id].height = 0
	t.nodes[id].moved = true
	t.insertLeaf(id)
	return id
}

// DestroyProxy removes the leaf for id. id must not be reused afterward.
func (t *DynamicTree) DestroyProxy(id int) {
	t.assertValidID(id)
	if !t.nodes[id].isLeaf() {
		panic(&TreeError{Msg: "DestroyProxy called on a non-leaf id"})
	}
	t.removeLeaf(id)
	t.freeNode(id)
}

// TreeError reports a programming precondition violated against the tree,
// such as an invalid or stale proxy id.
type TreeError struct{ Msg string }

func (e *TreeError) Error() string { return "collision: " + e.Msg }

func (t *DynamicTree) assertValidID(id int) {
	if id < 0 || id >= len(t.nodes) || t.nodes[id].height == -1 {
		panic(&TreeError{Msg: "invalid or stale proxy id"})
	}
}

// MoveProxy updates the leaf for id to enclose newAabb, predictively
// reusing the existing fat AABB when the object isn't moving fast enough
// to bother (spec.md §4.1). Returns whether the proxy was actually
// reinserted.
func (t *DynamicTree) MoveProxy(id int, newAabb math2.AABB, displacement math2.Vec2) bool {
	t.assertValidID(id)
	fatAABB := t.nodes[id].aabb
	if fatAABB.Contains(&newAabb) {
		r4 := math2.Vec2{X: 4 * AABBExtension, Y: 4 * AABBExtension}
		hugeAABB := math2.AABB{
			LowerBound: math2.Sub2(fatAABB.LowerBound, r4),
			UpperBound: math2.Add2(fatAABB.UpperBound, r4),
		}
		if hugeAABB.Contains(&fatAABB) {
			return false
		}
	}

	t.removeLeaf(id)

	r := math2.Vec2{X: AABBExtension, Y: AABBExtension}
	fat := math2.AABB{
		LowerBound: math2.Sub2(newAabb.LowerBound, r),
		UpperBound: math2.Add2(newAabb.UpperBound, r),
	}
	if displacement.X < 0 {
		fat.LowerBound.X += displacement.X * AABBMultiplier
	} else {
		fat.UpperBound.X += displacement.X * AABBMultiplier
	}
	if displacement.Y < 0 {
		fat.LowerBound.Y += displacement.Y * AABBMultiplier
	} else {
		fat.UpperBound.Y += displacement.Y * AABBMultiplier
	}

	t.nodes[id].aabb = fat
	t.nodes[id].moved = true
	t.insertLeaf(id)
	return true
}

// WasMoved reports whether the proxy's fat AABB changed since the last
// ClearMoved call on it.
func (t *DynamicTree) WasMoved(id int) bool { return t.nodes[id].moved }

// ClearMoved resets the moved flag for id.
func (t *DynamicTree) ClearMoved(id int) { t.nodes[id].moved = false }

// FatAABB returns the current fattened AABB of the proxy.
func (t *DynamicTree) FatAABB(id int) math2.AABB { return t.nodes[id].aabb }

// UserData returns the handle stored for the proxy.
func (t *DynamicTree) UserData(id int) ProxyHandle { return t.nodes[id].proxy }

func (t *DynamicTree) insertLeaf(leaf int) {
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	leafAABB := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].isLeaf() {
		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		area := t.nodes[index].aabb.Perimeter()

		combined := math2.CombineAABB(t.nodes[index].aabb, leafAABB)
		combinedArea := combined.Perimeter()

		cost := 2 * combinedArea
		inheritanceCost := 2 * (combinedArea - area)

		cost1 := t.descendCost(child1, leafAABB) + inheritanceCost
		cost2 := t.descendCost(child2, leafAABB) + inheritanceCost

		if cost < cost1 && cost < cost2 {
			break
		}
		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].aabb = math2.CombineAABB(leafAABB, t.nodes[sibling].aabb)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullNode {
		if t.nodes[oldParent].child1 == sibling {
			t.nodes[oldParent].child1 = newParent
		} else {
			t.nodes[oldParent].child2 = newParent
		}
		t.nodes[newParent].child1 = sibling
		t.nodes[newParent].child2 = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
	} else {
		t.nodes[newParent].child1 = sibling
		t.nodes[newParent].child2 = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
		t.root = newParent
	}

	index = t.nodes[leaf].parent
	for index != nullNode {
		index = t.balance(index)

		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		t.nodes[index].height = 1 + math2.MaxInt(t.nodes[child1].height, t.nodes[child2].height)
		t.nodes[index].aabb = math2.CombineAABB(t.nodes[child1].aabb, t.nodes[child2].aabb)

		index = t.nodes[index].parent
	}
}

// descendCost returns the minimal cost of descending into child to host leafAABB.
func (t *DynamicTree) descendCost(child int, leafAABB math2.AABB) float32 {
	combined := math2.CombineAABB(t.nodes[child].aabb, leafAABB)
	if t.nodes[child].isLeaf() {
		return combined.Perimeter()
	}
	oldArea := t.nodes[child].aabb.Perimeter()
	newArea := combined.Perimeter()
	return newArea - oldArea
}

func (t *DynamicTree) removeLeaf(leaf int) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	var sibling int
	if t.nodes[parent].child1 == leaf {
		sibling = t.nodes[parent].child2
	} else {
		sibling = t.nodes[parent].child1
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].child1 == parent {
			t.nodes[grandParent].child1 = sibling
		} else {
			t.nodes[grandParent].child2 = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)

		index := grandParent
		for index != nullNode {
			index = t.balance(index)
			child1 := t.nodes[index].child1
			child2 := t.nodes[index].child2
			t.nodes[index].aabb = math2.CombineAABB(t.nodes[child1].aabb, t.nodes[child2].aabb)
			t.nodes[index].height = 1 + math2.MaxInt(t.nodes[child1].height, t.nodes[child2].height)
			index = t.nodes[index].parent
		}
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
}

// balance performs a single AVL-style rotation at iA if its two subtrees
// differ in height by more than 1, promoting the taller child and
// re-parenting its larger grandchild. Returns the new subtree root.
func (t *DynamicTree) balance(iA int) int {
	a := iA
	if t.nodes[a].isLeaf() || t.nodes[a].height < 2 {
		return a
	}

	iB := t.nodes[a].child1
	iC := t.nodes[a].child2
	balance := t.nodes[iC].height - t.nodes[iB].height

	if balance > 1 {
		return t.rotate(a, iC, iB, true)
	}
	if balance < -1 {
		return t.rotate(a, iB, iC, false)
	}
	return a
}

// rotate promotes node iF (the taller child of iA) over iA, choosing iF's
// larger grandchild to swap with iA. highIsChild2 records whether iF was
// iA.child2 (true) or iA.child1 (false), so children are rewired correctly.
func (t *DynamicTree) rotate(iA, iF, iOther int, highIsChild2 bool) int {
	f := &t.nodes[iF]
	iG := f.child1
	iH := f.child2

	f.child1 = iA
	f.parent = t.nodes[iA].parent
	t.nodes[iA].parent = iF

	if f.parent != nullNode {
		if t.nodes[f.parent].child1 == iA {
			t.nodes[f.parent].child1 = iF
		} else {
			t.nodes[f.parent].child2 = iF
		}
	} else {
		t.root = iF
	}

	if t.nodes[iG].height > t.nodes[iH].height {
		f.child2 = iG
		if highIsChild2 {
			t.nodes[iA].child2 = iH
		} else {
			t.nodes[iA].child1 = iH
		}
		t.nodes[iH].parent = iA
		t.nodes[iA].aabb = math2.CombineAABB(t.childAABB(iA, highIsChild2, iOther), t.nodes[iH].aabb)
		t.nodes[iA].height = 1 + math2.MaxInt(t.heightOf(iOther), t.nodes[iH].height)
		f.aabb = math2.CombineAABB(t.nodes[iA].aabb, t.nodes[iG].aabb)
		f.height = 1 + math2.MaxInt(t.nodes[iA].height, t.nodes[iG].height)
	} else {
		f.child2 = iH
		if highIsChild2 {
			t.nodes[iA].child2 = iG
		} else {
			t.nodes[iA].child1 = iG
		}
		t.nodes[iG].parent = iA
		t.nodes[iA].aabb = math2.CombineAABB(t.childAABB(iA, highIsChild2, iOther), t.nodes[iG].aabb)
		t.nodes[iA].height = 1 + math2.MaxInt(t.heightOf(iOther), t.nodes[iG].height)
		f.aabb = math2.CombineAABB(t.nodes[iA].aabb, t.nodes[iH].aabb)
		f.height = 1 + math2.MaxInt(t.nodes[iA].height, t.nodes[iH].height)
	}

	return iF
}

func (t *DynamicTree) childAABB(iA int, highIsChild2 bool, iOther int) math2.AABB {
	return t.nodes[iOther].aabb
}

func (t *DynamicTree) heightOf(id int) int { return t.nodes[id].height }

// Height returns the height of the whole tree (0 for an empty or single-leaf tree).
func (t *DynamicTree) Height() int {
	if t.root == nullNode {
		return 0
	}
	return t.nodes[t.root].height
}

// ComputeHeight recomputes tree height by direct traversal, for diagnostics and tests.
func (t *DynamicTree) ComputeHeight() int {
	return t.computeHeightAt(t.root)
}

func (t *DynamicTree) computeHeightAt(id int) int {
	if id == nullNode || t.nodes[id].isLeaf() {
		return 0
	}
	h1 := t.computeHeightAt(t.nodes[id].child1)
	h2 := t.computeHeightAt(t.nodes[id].child2)
	return 1 + math2.MaxInt(h1, h2)
}

// FreeListLength returns the number of unused node slots, for tests that
// check the pool stays balanced after Create/Destroy cycles.
func (t *DynamicTree) FreeListLength() int {
	n := 0
	for id := t.freeList; id != nullNode; id = t.nodes[id].parent {
		n++
	}
	return n
}

// Capacity returns the total number of node slots ever allocated.
func (t *DynamicTree) Capacity() int { return len(t.nodes) }

// AreaRatio returns the ratio of the tree's total internal-node perimeter
// to the root's perimeter, a diagnostic for how well-packed the tree is.
func (t *DynamicTree) AreaRatio() float32 {
	if t.root == nullNode {
		return 0
	}
	rootArea := t.nodes[t.root].aabb.Perimeter()
	total := float32(0)
	for i := range t.nodes {
		if t.nodes[i].height < 0 || t.nodes[i].isLeaf() {
			continue
		}
		total += t.nodes[i].aabb.Perimeter()
	}
	if rootArea == 0 {
		return 0
	}
	return total / rootArea
}

// MaxBalance returns the largest per-node height imbalance currently in
// the tree, a diagnostic exposed for tests of the AVL rebalancing invariant.
func (t *DynamicTree) MaxBalance() int {
	maxBalance := 0
	for i := range t.nodes {
		if t.nodes[i].height <= 1 {
			continue
		}
		c1, c2 := t.nodes[i].child1, t.nodes[i].child2
		balance := math2.Abs(float32(t.nodes[c1].height - t.nodes[c2].height))
		if int(balance) > maxBalance {
			maxBalance = int(balance)
		}
	}
	return maxBalance
}

// Query visits every leaf whose fat AABB overlaps aabb; callback returning
// false terminates iteration early.
func (t *DynamicTree) Query(aabb math2.AABB, callback func(proxyID int) bool) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}
		if !math2.TestOverlap(&t.nodes[id].aabb, &aabb) {
			continue
		}
		if t.nodes[id].isLeaf() {
			if !callback(id) {
				return
			}
		} else {
			stack = append(stack, t.nodes[id].child1, t.nodes[id].child2)
		}
	}
}

// RayCastCallback is invoked for each leaf the ray walk reaches; returning
// a value < 0 skips the leaf, 0 terminates the cast, and a positive value
// clips the ray to that fraction for the remainder of the walk.
type RayCastCallback func(input math2.RayCastInput, proxyID int) float32

// RayCast walks nodes whose AABB intersects the segment p1->p2, tightening
// maxFraction as callback clips it.
func (t *DynamicTree) RayCast(p1, p2 math2.Vec2, maxFraction float32, callback RayCastCallback) {
	if t.root == nullNode {
		return
	}
	r := math2.Sub2(p2, p1)
	r.Normalize()
	v := r.Skew()
	absV := math2.Vec2{X: math2.Abs(v.X), Y: math2.Abs(v.Y)}

	input := math2.RayCastInput{P1: p1, P2: p2, MaxFraction: maxFraction}

	segmentAABB := func(p2f math2.Vec2) math2.AABB {
		t1 := p1
		t2 := p2f
		lower := t1
		lower.Min(&t2)
		upper := t1
		upper.Max(&t2)
		return math2.AABB{LowerBound: lower, UpperBound: upper}
	}
	currentP2 := math2.Add2(p1, math2.Scale2(math2.Sub2(p2, p1), maxFraction))
	segAABB := segmentAABB(currentP2)

	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}
		if !math2.TestOverlap(&t.nodes[id].aabb, &segAABB) {
			continue
		}

		c := math2.Scale2(math2.Add2(t.nodes[id].aabb.LowerBound, t.nodes[id].aabb.UpperBound), 0.5)
		h := math2.Scale2(math2.Sub2(t.nodes[id].aabb.UpperBound, t.nodes[id].aabb.LowerBound), 0.5)
		separation := math2.Abs(math2.Dot2(v, math2.Sub2(p1, c))) - math2.Dot2(absV, h)
		if separation > 0 {
			continue
		}

		if t.nodes[id].isLeaf() {
			subInput := input
			subInput.MaxFraction = input.MaxFraction
			fraction := callback(subInput, id)
			if fraction == 0 {
				return
			}
			if fraction > 0 {
				input.MaxFraction = fraction
				currentP2 = math2.Add2(p1, math2.Scale2(math2.Sub2(p2, p1), fraction))
				segAABB = segmentAABB(currentP2)
			}
		} else {
			stack = append(stack, t.nodes[id].child1, t.nodes[id].child2)
		}
	}
}

// ShiftOrigin subtracts v from every node's bounds, to permit re-centering
// a long-lived world.
func (t *DynamicTree) ShiftOrigin(v math2.Vec2) {
	for i := range t.nodes {
		if t.nodes[i].height < 0 {
			continue
		}
		t.nodes[i].aabb.LowerBound = math2.Sub2(t.nodes[i].aabb.LowerBound, v)
		t.nodes[i].aabb.UpperBound = math2.Sub2(t.nodes[i].aabb.UpperBound, v)
	}
}
