package scene

import (
	"strings"
	"testing"

	"github.com/achilleasa/sbvh/bvh"
	"github.com/achilleasa/sbvh/types"
)

func testScene(t *testing.T) *Scene {
	tris := []types.Triangle{
		{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0)},
		{types.XYZ(5, 0, 0), types.XYZ(6, 0, 0), types.XYZ(5, 1, 0)},
		{types.XYZ(10, 0, 0), types.XYZ(11, 0, 0), types.XYZ(10, 1, 0)},
	}
	boxes := make([]types.AABB, len(tris))
	for index, tri := range tris {
		boxes[index] = tri.BBox()
	}

	opts := bvh.DefaultOptions()
	opts.LeafThreshold = 1
	tree, err := bvh.Build(tris, boxes, opts)
	if err != nil {
		t.Fatal(err)
	}

	return &Scene{
		Triangles:         tris,
		MeshIndex:         []uint32{0, 0, 1},
		MeshNames:         []string{"a", "b"},
		BvhNodeList:       tree.Nodes,
		LeafPrimitiveList: tree.LeafPrimitives,
		Settings:          SettingsFromOptions(opts),
		BuildStats:        tree.Stats,
	}
}

func TestSceneValidate(t *testing.T) {
	sc := testScene(t)
	if err := sc.Validate(); err != nil {
		t.Fatal(err)
	}

	sc.MeshIndex[2] = 7
	if err := sc.Validate(); err == nil || !strings.Contains(err.Error(), "unknown mesh 7") {
		t.Fatalf("expected an unknown mesh error; got %v", err)
	}

	sc = testScene(t)
	sc.Triangles = sc.Triangles[:2]
	sc.MeshIndex = sc.MeshIndex[:2]
	if err := sc.Validate(); err == nil {
		t.Fatal("expected validation to fail for a tree referencing a missing triangle")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	opts := bvh.DefaultOptions()
	opts.LeafThreshold = 3
	opts.MaxDepth = 20
	opts.SpatialSplits = false

	got := SettingsFromOptions(opts).Options()
	if got.LeafThreshold != 3 || got.MaxDepth != 20 || got.SpatialSplits {
		t.Fatalf("expected settings to survive conversion; got %+v", got)
	}
}

func TestSceneStats(t *testing.T) {
	sc := testScene(t)
	table := sc.Stats()

	for _, exp := range []string{"Triangles", "Nodes", "Leaf primitives", "Total"} {
		if !strings.Contains(table, exp) {
			t.Errorf("expected stats table to contain %q:\n%s", exp, table)
		}
	}
}

func TestFmtSize(t *testing.T) {
	type spec struct {
		items []interface{}
		exp   string
	}

	specs := []spec{
		{[]interface{}{[]int32{}}, "  0 bytes"},
		{[]interface{}{make([]int32, 10)}, " 40 bytes"},
		{[]interface{}{make([]int32, 500), make([]byte, 500)}, "2.5 kb"},
		{[]interface{}{make([]byte, 3e6)}, "  3.0 mb"},
	}

	for index, s := range specs {
		if got := fmtSize(s.items...); got != s.exp {
			t.Errorf("[spec %d] expected %q; got %q", index, s.exp, got)
		}
	}
}
