package bvh

import "github.com/achilleasa/sbvh/types"

// Node is an entry of the flattened BVH node array. The meaning of the Left
// and Right fields depends on the node type:
//
//   - for interior nodes they are the indices of the child nodes
//   - for leaves they define the [Left, Right) range into the leaf primitive
//     index list
type Node struct {
	BBox types.AABB

	Left  int32
	Right int32

	// Node depth; the root is at depth 0.
	Depth int32

	Leaf bool
}

// Get the child node indices of an interior node.
func (n *Node) Children() (left, right int32) {
	return n.Left, n.Right
}

// Get the first primitive index and the primitive count of a leaf.
func (n *Node) Primitives() (first, count int32) {
	return n.Left, n.Right - n.Left
}

// Tree is the output of the BVH builder.
type Tree struct {
	// BVH nodes; the root is at index 0.
	Nodes []Node

	// Triangle indices referenced by the leaves. A triangle may be
	// referenced by more than one leaf when spatial splits are used.
	LeafPrimitives []int32

	Stats Stats
}

// Get the primitive indices referenced by a leaf node.
func (t *Tree) LeafItems(n *Node) []int32 {
	return t.LeafPrimitives[n.Left:n.Right]
}

// A reference to a node slot inside a node chunk.
type nodeRef struct {
	chunk int32
	slot  int32
}

// resultNode is the pre-merge representation of a Node. Interior nodes point to
// their children by chunk slot; leaves point to a range inside a leaf chunk.
type resultNode struct {
	bbox types.AABB

	left, right nodeRef

	leafChunk int32
	leafStart int32
	leafCount int32

	depth int32
	leaf  bool
}
