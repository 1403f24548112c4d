package bvh

import (
	"math"
	"testing"

	"github.com/achilleasa/sbvh/types"
)

func TestTreeSAHCost(t *testing.T) {
	rootBox := types.NewAABB(types.XYZ(0, 0, 0), types.XYZ(2, 1, 1))
	leftBox := types.NewAABB(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))
	rightBox := types.NewAABB(types.XYZ(1, 0, 0), types.XYZ(2, 1, 1))
	pointBox := types.NewAABB(types.XYZ(1, 1, 1), types.XYZ(1, 1, 1))

	type spec struct {
		tree *Tree
		exp  float32
	}

	specs := []spec{
		// root half area 5, leaves 3 each: 1 + 0.6*2*2 + 0.6*1*2
		{
			&Tree{
				Nodes: []Node{
					{BBox: rootBox, Left: 1, Right: 2},
					{BBox: leftBox, Left: 0, Right: 2, Depth: 1, Leaf: true},
					{BBox: rightBox, Left: 2, Right: 3, Depth: 1, Leaf: true},
				},
				LeafPrimitives: []int32{0, 1, 2},
			},
			4.6,
		},
		// a root without area costs one intersection per reference
		{
			&Tree{
				Nodes:          []Node{{BBox: pointBox, Left: 0, Right: 3, Leaf: true}},
				LeafPrimitives: []int32{0, 1, 2},
			},
			6,
		},
		{&Tree{}, 0},
	}

	opts := Options{IntersectionCost: 2, TraversalCost: 1}
	for specIndex, s := range specs {
		got := s.tree.SAHCost(opts)
		if math.Abs(float64(got-s.exp)) > 1e-5 {
			t.Errorf("[spec %d] expected SAH cost %f; got %f", specIndex, s.exp, got)
		}
	}
}

func TestTreeSAHCostUsesDefaults(t *testing.T) {
	box := types.NewAABB(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))
	tree := &Tree{
		Nodes:          []Node{{BBox: box, Left: 0, Right: 2, Leaf: true}},
		LeafPrimitives: []int32{0, 1},
	}

	exp := 2 * DefaultOptions().IntersectionCost
	if got := tree.SAHCost(Options{}); got != exp {
		t.Fatalf("expected SAH cost %f; got %f", exp, got)
	}
}
