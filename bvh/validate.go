package bvh

import (
	"fmt"

	"github.com/achilleasa/sbvh/types"
)

// Validate checks the structural invariants of a tree built from the given
// list of triangle bboxes:
//
//   - every node is reachable from the root exactly once
//   - child bboxes are contained in their parent bbox
//   - child depth equals parent depth + 1 and never exceeds opts.MaxDepth
//   - leaves hold at most opts.MaxObjectsPerLeaf references
//   - every leaf reference overlaps the leaf bbox
//   - every triangle is referenced by at least one leaf
//
// Zero-valued option fields are replaced by their defaults.
func (t *Tree) Validate(boxes []types.AABB, opts Options) error {
	opts = opts.withDefaults()

	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: tree has no nodes", ErrInvalidTree)
	}

	var (
		visited    = make([]bool, len(t.Nodes))
		referenced = make([]bool, len(boxes))
		stack      = []int32{0}
	)

	if t.Nodes[0].Depth != 0 {
		return fmt.Errorf("%w: root depth is %d", ErrInvalidTree, t.Nodes[0].Depth)
	}

	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[nodeIndex] {
			return fmt.Errorf("%w: node %d is reachable more than once", ErrInvalidTree, nodeIndex)
		}
		visited[nodeIndex] = true

		node := &t.Nodes[nodeIndex]
		if int(node.Depth) > opts.MaxDepth {
			return fmt.Errorf("%w: node %d depth %d exceeds max depth %d", ErrInvalidTree, nodeIndex, node.Depth, opts.MaxDepth)
		}

		if node.Leaf {
			if err := t.validateLeaf(nodeIndex, boxes, referenced, opts); err != nil {
				return err
			}
			continue
		}

		left, right := node.Children()
		for _, child := range []int32{left, right} {
			if child <= 0 || int(child) >= len(t.Nodes) {
				return fmt.Errorf("%w: node %d has out of range child %d", ErrInvalidTree, nodeIndex, child)
			}

			childNode := &t.Nodes[child]
			if childNode.Depth != node.Depth+1 {
				return fmt.Errorf("%w: child %d of node %d has depth %d; expected %d", ErrInvalidTree, child, nodeIndex, childNode.Depth, node.Depth+1)
			}
			if !node.BBox.Contains(childNode.BBox) {
				return fmt.Errorf("%w: bbox of node %d is not contained in parent %d bbox", ErrInvalidTree, child, nodeIndex)
			}
			if _, count := childNode.Primitives(); childNode.Leaf && count <= 0 {
				return fmt.Errorf("%w: node %d has empty child leaf %d", ErrInvalidTree, nodeIndex, child)
			}
			stack = append(stack, child)
		}
	}

	for index, seen := range visited {
		if !seen {
			return fmt.Errorf("%w: node %d is not reachable from the root", ErrInvalidTree, index)
		}
	}

	for index, seen := range referenced {
		if !seen {
			return fmt.Errorf("%w: triangle %d is not referenced by any leaf", ErrInvalidTree, index)
		}
	}

	return nil
}

func (t *Tree) validateLeaf(nodeIndex int32, boxes []types.AABB, referenced []bool, opts Options) error {
	node := &t.Nodes[nodeIndex]
	if node.Left < 0 || node.Right < node.Left || int(node.Right) > len(t.LeafPrimitives) {
		return fmt.Errorf("%w: leaf %d has invalid primitive range [%d, %d)", ErrInvalidTree, nodeIndex, node.Left, node.Right)
	}

	items := t.LeafItems(node)
	if len(items) > opts.MaxObjectsPerLeaf {
		return fmt.Errorf("%w: leaf %d holds %d references; max %d", ErrInvalidTree, nodeIndex, len(items), opts.MaxObjectsPerLeaf)
	}

	for _, item := range items {
		if item < 0 || int(item) >= len(boxes) {
			return fmt.Errorf("%w: leaf %d references out of range triangle %d", ErrInvalidTree, nodeIndex, item)
		}
		if node.BBox.Intersect(boxes[item]).IsEmpty() {
			return fmt.Errorf("%w: triangle %d does not overlap the bbox of leaf %d", ErrInvalidTree, item, nodeIndex)
		}
		referenced[item] = true
	}
	return nil
}

// SAHCost calculates the surface area heuristic cost of the tree: the sum of
// the traversal cost of interior nodes and the intersection cost of leaf
// references, each weighted by the node area relative to the root area.
func (t *Tree) SAHCost(opts Options) float32 {
	opts = opts.withDefaults()
	if len(t.Nodes) == 0 {
		return 0
	}

	rootArea := t.Nodes[0].BBox.HalfArea()
	if rootArea <= 0 {
		return float32(len(t.LeafPrimitives)) * opts.IntersectionCost
	}

	var cost float32
	for index := range t.Nodes {
		node := &t.Nodes[index]
		weight := node.BBox.HalfArea() / rootArea
		if node.Leaf {
			_, count := node.Primitives()
			cost += weight * float32(count) * opts.IntersectionCost
			continue
		}
		cost += weight * opts.TraversalCost
	}
	return cost
}
