package bvh

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Build statistics. Each worker keeps its own copy while the tree is built;
// the copies are summed once all tasks have completed.
type Stats struct {
	Triangles  int `json:"triangles"`
	References int `json:"references"`

	InteriorNodes int `json:"interior_nodes"`
	Leaves        int `json:"leaves"`

	// Leaves by the reason they were created.
	ThresholdLeaves int `json:"threshold_leaves"`
	SAHLeaves       int `json:"sah_leaves"`
	DepthLeaves     int `json:"depth_leaves"`
	EmptyLeaves     int `json:"empty_leaves"`

	ObjectSplits    int `json:"object_splits"`
	SpatialSplits   int `json:"spatial_splits"`
	ArbitrarySplits int `json:"arbitrary_splits"`

	// Straddling references that were clipped into two fragments and
	// references that were kept whole by the unsplitting heuristic.
	ClippedReferences int `json:"clipped_references"`
	UnsplitReferences int `json:"unsplit_references"`

	Tasks      int `json:"tasks"`
	NodeChunks int `json:"node_chunks"`
	LeafChunks int `json:"leaf_chunks"`

	MaxDepth    int `json:"max_depth"`
	MaxLeafSize int `json:"max_leaf_size"`

	BuildTime time.Duration `json:"build_time"`
}

func (s *Stats) add(o *Stats) {
	s.References += o.References
	s.InteriorNodes += o.InteriorNodes
	s.Leaves += o.Leaves
	s.ThresholdLeaves += o.ThresholdLeaves
	s.SAHLeaves += o.SAHLeaves
	s.DepthLeaves += o.DepthLeaves
	s.EmptyLeaves += o.EmptyLeaves
	s.ObjectSplits += o.ObjectSplits
	s.SpatialSplits += o.SpatialSplits
	s.ArbitrarySplits += o.ArbitrarySplits
	s.ClippedReferences += o.ClippedReferences
	s.UnsplitReferences += o.UnsplitReferences
	s.Tasks += o.Tasks
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
	if o.MaxLeafSize > s.MaxLeafSize {
		s.MaxLeafSize = o.MaxLeafSize
	}
}

// Number of leaf references that duplicate a triangle already referenced by
// another leaf.
func (s *Stats) DuplicateReferences() int {
	if s.References < s.Triangles {
		return 0
	}
	return s.References - s.Triangles
}

// Build a tabular representation of the build statistics.
func (s *Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Category", "Metric", "Value"})
	table.Append([]string{"Input", "Triangles", fmt.Sprint(s.Triangles)})
	table.Append([]string{"", "Leaf references", fmt.Sprint(s.References)})
	table.Append([]string{"", "Duplicates", fmt.Sprint(s.DuplicateReferences())})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Nodes", "Interior", fmt.Sprint(s.InteriorNodes)})
	table.Append([]string{"", "Leaves", fmt.Sprint(s.Leaves)})
	table.Append([]string{"", "Max depth", fmt.Sprint(s.MaxDepth)})
	table.Append([]string{"", "Max leaf size", fmt.Sprint(s.MaxLeafSize)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Leaves", "Threshold", fmt.Sprint(s.ThresholdLeaves)})
	table.Append([]string{"", "SAH", fmt.Sprint(s.SAHLeaves)})
	table.Append([]string{"", "Depth limit", fmt.Sprint(s.DepthLeaves)})
	table.Append([]string{"", "Empty", fmt.Sprint(s.EmptyLeaves)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Splits", "Object", fmt.Sprint(s.ObjectSplits)})
	table.Append([]string{"", "Spatial", fmt.Sprint(s.SpatialSplits)})
	table.Append([]string{"", "Arbitrary", fmt.Sprint(s.ArbitrarySplits)})
	table.Append([]string{"", "Clipped refs", fmt.Sprint(s.ClippedReferences)})
	table.Append([]string{"", "Unsplit refs", fmt.Sprint(s.UnsplitReferences)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Build", "Tasks", fmt.Sprint(s.Tasks)})
	table.Append([]string{"", "Node chunks", fmt.Sprint(s.NodeChunks)})
	table.Append([]string{"", "Leaf chunks", fmt.Sprint(s.LeafChunks)})
	table.SetFooter([]string{"Build time", " ", s.BuildTime.String()})

	table.Render()
	return buf.String()
}
