package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/achilleasa/sbvh/bvh"
	"github.com/achilleasa/sbvh/types"
	"github.com/olekukonko/tablewriter"
)

// The build settings used to generate a compiled scene. They are stored
// together with the scene so that the tree can be validated against them
// after it is loaded.
type Settings struct {
	LeafThreshold     int
	MaxObjectsPerLeaf int
	IntersectionCost  float32
	TraversalCost     float32
	MaxDepth          int
	SpatialSplits     bool
}

// Create settings from a set of build options.
func SettingsFromOptions(opts bvh.Options) Settings {
	return Settings{
		LeafThreshold:     opts.LeafThreshold,
		MaxObjectsPerLeaf: opts.MaxObjectsPerLeaf,
		IntersectionCost:  opts.IntersectionCost,
		TraversalCost:     opts.TraversalCost,
		MaxDepth:          opts.MaxDepth,
		SpatialSplits:     opts.SpatialSplits,
	}
}

// Convert the settings back to build options. Options that are not stored
// with the scene get their default values.
func (s Settings) Options() bvh.Options {
	opts := bvh.DefaultOptions()
	opts.LeafThreshold = s.LeafThreshold
	opts.MaxObjectsPerLeaf = s.MaxObjectsPerLeaf
	opts.IntersectionCost = s.IntersectionCost
	opts.TraversalCost = s.TraversalCost
	opts.MaxDepth = s.MaxDepth
	opts.SpatialSplits = s.SpatialSplits
	return opts
}

// A compiled scene: the scene triangles and the BVH built on top of them.
type Scene struct {
	// Triangles are stored in mesh order.
	Triangles []types.Triangle

	// The mesh index of each triangle and the mesh names.
	MeshIndex []uint32
	MeshNames []string

	// The flattened BVH tree. Leaf nodes point to ranges of the leaf
	// primitive list which in turn holds indices to the triangle list.
	BvhNodeList       []bvh.Node
	LeafPrimitiveList []int32

	Settings   Settings
	BuildStats bvh.Stats
}

// Get the BVH tree of the scene.
func (sc *Scene) Tree() *bvh.Tree {
	return &bvh.Tree{
		Nodes:          sc.BvhNodeList,
		LeafPrimitives: sc.LeafPrimitiveList,
		Stats:          sc.BuildStats,
	}
}

// Get the bounding boxes of the scene triangles.
func (sc *Scene) TriangleBBoxes() []types.AABB {
	boxes := make([]types.AABB, len(sc.Triangles))
	for index, tri := range sc.Triangles {
		boxes[index] = tri.BBox()
	}
	return boxes
}

// Validate the scene BVH against the scene triangles and build settings.
func (sc *Scene) Validate() error {
	if len(sc.MeshIndex) != len(sc.Triangles) {
		return fmt.Errorf("scene: mesh index list has %d entries; expected %d", len(sc.MeshIndex), len(sc.Triangles))
	}
	for index, meshIndex := range sc.MeshIndex {
		if int(meshIndex) >= len(sc.MeshNames) {
			return fmt.Errorf("scene: triangle %d references unknown mesh %d", index, meshIndex)
		}
	}
	return sc.Tree().Validate(sc.TriangleBBoxes(), sc.Settings.Options())
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Size"})
	table.Append([]string{"Geometry", "---", fmtSize(sc.Triangles, sc.MeshIndex)})
	table.Append([]string{"", "Triangles", fmtSize(sc.Triangles)})
	table.Append([]string{"", "Mesh indices", fmtSize(sc.MeshIndex)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"BVH", "---", fmtSize(sc.BvhNodeList, sc.LeafPrimitiveList)})
	table.Append([]string{"", "Nodes", fmtSize(sc.BvhNodeList)})
	table.Append([]string{"", "Leaf primitives", fmtSize(sc.LeafPrimitiveList)})
	table.SetFooter([]string{"Total", " ", strings.TrimLeft(fmtSize(sc.Triangles, sc.MeshIndex, sc.BvhNodeList, sc.LeafPrimitiveList), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
