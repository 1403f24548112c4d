package bvh

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/sbvh/types"
)

// Create a triangle whose bbox is the box defined by min and max.
func boxTriangle(min, max types.Vec3) types.Triangle {
	return types.Triangle{
		min,
		max,
		types.XYZ(max[0], min[1], max[2]),
	}
}

// A row of unit-box triangles along the X axis.
func cubeRow(count int) []types.Triangle {
	tris := make([]types.Triangle, count)
	for index := range tris {
		x := float32(index)
		tris[index] = boxTriangle(types.XYZ(x, 0, 0), types.XYZ(x+1, 1, 1))
	}
	return tris
}

// A large triangle with a small triangle cluster near one of its corners.
func longTriangleScene() []types.Triangle {
	tris := []types.Triangle{
		{types.XYZ(0, 0, 0), types.XYZ(100, 0, 0), types.XYZ(0, 100, 0)},
	}
	for index := 0; index < 8; index++ {
		x := float32(92 + (index%4)*2)
		y := float32(1 + (index/4)*4)
		tris = append(tris, types.Triangle{
			types.XYZ(x, y, 0),
			types.XYZ(x+1, y, 1),
			types.XYZ(x, y+1, 0.5),
		})
	}
	return tris
}

// A reproducible soup of randomly placed and oriented triangles.
func triangleSoup(count int, seed int64) []types.Triangle {
	rng := rand.New(rand.NewSource(seed))
	vertex := func(center types.Vec3, spread float32) types.Vec3 {
		return center.Add(types.XYZ(
			(rng.Float32()-0.5)*spread,
			(rng.Float32()-0.5)*spread,
			(rng.Float32()-0.5)*spread,
		))
	}

	tris := make([]types.Triangle, count)
	for index := range tris {
		center := types.XYZ(rng.Float32()*100, rng.Float32()*100, rng.Float32()*100)
		spread := 1 + rng.Float32()*20
		tris[index] = types.Triangle{
			vertex(center, spread),
			vertex(center, spread),
			vertex(center, spread),
		}
	}
	return tris
}

func triangleBoxes(tris []types.Triangle) []types.AABB {
	boxes := make([]types.AABB, len(tris))
	for index, tri := range tris {
		boxes[index] = tri.BBox()
	}
	return boxes
}

func objectRefs(tris []types.Triangle) []objectRef {
	objects := make([]objectRef, len(tris))
	for index, tri := range tris {
		objects[index] = objectRef{bbox: tri.BBox(), index: int32(index)}
	}
	return objects
}

func mustBuild(t *testing.T, tris []types.Triangle, opts Options) *Tree {
	t.Helper()

	boxes := triangleBoxes(tris)
	tree, err := Build(tris, boxes, opts)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if err = tree.Validate(boxes, opts); err != nil {
		t.Fatalf("built tree is not valid: %v", err)
	}
	return tree
}

// Collect the primitives referenced by the leaves of the subtree rooted at
// nodeIndex.
func subtreePrimitives(tree *Tree, nodeIndex int32) []int32 {
	node := &tree.Nodes[nodeIndex]
	if node.Leaf {
		return append([]int32(nil), tree.LeafItems(node)...)
	}
	return append(subtreePrimitives(tree, node.Left), subtreePrimitives(tree, node.Right)...)
}

// Tree shape independent of the node array layout.
type treeShape struct {
	BBox  types.AABB
	Items []int32
	Left  *treeShape
	Right *treeShape
}

func shapeOf(tree *Tree, nodeIndex int32) *treeShape {
	node := &tree.Nodes[nodeIndex]
	if node.Leaf {
		return &treeShape{
			BBox:  node.BBox,
			Items: append([]int32{}, tree.LeafItems(node)...),
		}
	}
	return &treeShape{
		BBox:  node.BBox,
		Left:  shapeOf(tree, node.Left),
		Right: shapeOf(tree, node.Right),
	}
}

// A scheduler that runs tasks one after the other on the goroutine calling
// Wait.
type serialScheduler struct {
	queue     []func(worker int)
	submitted int
}

func (s *serialScheduler) Submit(task func(worker int)) {
	s.submitted++
	s.queue = append(s.queue, task)
}

func (s *serialScheduler) Wait() {
	for len(s.queue) > 0 {
		task := s.queue[0]
		s.queue = s.queue[1:]
		task(0)
	}
}

func (s *serialScheduler) NumWorkers() int {
	return 1
}
