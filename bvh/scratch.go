package bvh

import "github.com/achilleasa/sbvh/types"

// A SAH bucket used by the object split search.
type bucket struct {
	bbox  types.AABB
	count int
}

// A spatial split bin. Objects are counted in the bin their bbox starts
// (entries) and the bin it ends (exits).
type spatialBin struct {
	bbox    types.AABB
	entries int
	exits   int
}

// workerScratch holds the buffers used by a single pool worker. It is only
// ever accessed by the task currently running on that worker.
type workerScratch struct {
	// Partition output lists indexed by depth.
	left  [][]objectRef
	right [][]objectRef

	// Unsplit decisions for the objects of the node being split.
	unsplit []int8

	buckets [maxBuckets]bucket
	bins    [spatialBins]spatialBin

	// Right-to-left sweep results; entry i describes everything right of
	// boundary i.
	sweepBox   [maxBuckets]types.AABB
	sweepCount [maxBuckets]int

	stats Stats
}

func newWorkerScratch(maxDepth int) *workerScratch {
	return &workerScratch{
		left:  make([][]objectRef, maxDepth+1),
		right: make([][]objectRef, maxDepth+1),
	}
}

// Get an unsplit decision array large enough for count objects.
func (s *workerScratch) unsplitDecisions(count int) []int8 {
	if cap(s.unsplit) < count {
		s.unsplit = make([]int8, count)
	}
	s.unsplit = s.unsplit[:count]
	return s.unsplit
}
