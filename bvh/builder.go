package bvh

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/achilleasa/sbvh/log"
	"github.com/achilleasa/sbvh/pool"
	"github.com/achilleasa/sbvh/types"
)

type leafKind uint8

const (
	thresholdLeaf leafKind = iota
	sahLeaf
	depthLeaf
)

type builder struct {
	logger log.Logger
	opts   Options

	tris  []types.Triangle
	store *chunkStore
	sched Scheduler

	// Worker-local state indexed by the worker id passed to each task.
	scratch []*workerScratch

	rootHalfArea float32

	// The first chunk allocation failure. Once set, running tasks stop
	// building new nodes.
	failed  atomic.Bool
	errOnce sync.Once
	err     error
}

// Build a spatial split BVH for a list of triangles and their bounding boxes.
//
// The builder recursively partitions the triangles using a binned surface
// area heuristic. When the children of the best object split overlap,
// spatial splits that clip straddling triangles are also evaluated; the
// unsplitting heuristic keeps a straddling triangle whole when this is
// cheaper than clipping it. Large subtrees are built in parallel on the
// scheduler supplied via opts (or an internal worker pool).
//
// Leaves reference triangles by index via the LeafPrimitives list of the
// returned tree. With spatial splits a triangle may be referenced by more
// than one leaf.
func Build(tris []types.Triangle, boxes []types.AABB, opts Options) (*Tree, error) {
	if len(tris) != len(boxes) {
		return nil, fmt.Errorf("%w: %d triangles, %d bboxes", ErrMismatchedInput, len(tris), len(boxes))
	}
	if len(tris) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyObjects, len(tris))
	}
	for index, box := range boxes {
		if box.IsEmpty() || !isFinite(box) {
			return nil, fmt.Errorf("%w: bbox %d: %v", ErrInvalidBBox, index, box)
		}
	}

	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if levels := levelsToFit(len(tris), opts.MaxObjectsPerLeaf); levels > opts.MaxDepth {
		return nil, fmt.Errorf("%w: max depth %d cannot fit %d objects in leaves of %d (need %d levels)", ErrInvalidOptions, opts.MaxDepth, len(tris), opts.MaxObjectsPerLeaf, levels)
	}

	start := time.Now()

	sched := opts.Scheduler
	if sched == nil {
		p := pool.New(opts.Workers)
		defer p.Close()
		sched = p
	}

	b := &builder{
		logger:  log.New("bvh builder"),
		opts:    opts,
		tris:    tris,
		store:   newChunkStore(opts),
		sched:   sched,
		scratch: make([]*workerScratch, sched.NumWorkers()),
	}
	for index := range b.scratch {
		b.scratch[index] = newWorkerScratch(opts.MaxDepth)
	}

	objects := make([]objectRef, len(tris))
	for index := range tris {
		objects[index] = objectRef{bbox: boxes[index], index: int32(index)}
	}
	nodeBox, centroidBox := objectBounds(objects)
	b.rootHalfArea = nodeBox.HalfArea()

	cursor, err := newChunkCursor(b.store)
	if err != nil {
		return nil, err
	}
	root, err := cursor.reserveNode()
	if err != nil {
		return nil, err
	}

	sched.Submit(func(worker int) {
		b.runTask(worker, cursor, objects, nodeBox, centroidBox, 0, root)
	})
	sched.Wait()

	if b.err != nil {
		return nil, b.err
	}

	nodes, leafPrimitives := b.store.merge()

	stats := Stats{Triangles: len(tris)}
	for _, s := range b.scratch {
		stats.add(&s.stats)
	}
	stats.NodeChunks, stats.LeafChunks = b.store.numChunks()
	stats.BuildTime = time.Since(start)

	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, spatial splits: %d, tasks: %d",
		stats.BuildTime.Nanoseconds()/1e6,
		stats.MaxDepth, len(nodes), stats.Leaves, stats.SpatialSplits, stats.Tasks,
	)

	return &Tree{
		Nodes:          nodes,
		LeafPrimitives: leafPrimitives,
		Stats:          stats,
	}, nil
}

// Build a subtree on a pool worker.
func (b *builder) runTask(worker int, cursor *chunkCursor, objects []objectRef, nodeBox, centroidBox types.AABB, depth int, slot nodeSlot) {
	s := b.scratch[worker]
	s.stats.Tasks++

	if err := b.buildNode(s, cursor, objects, nodeBox, centroidBox, depth, slot); err != nil {
		b.fail(err)
	}
}

// Record a build failure. Only the first error is kept.
func (b *builder) fail(err error) {
	b.errOnce.Do(func() {
		b.err = err
	})
	b.failed.Store(true)
}

// Build the node stored at slot from objects and recurse into its children.
// The left child is always built on the calling worker; the right child is
// either built after it or handed to the scheduler as a new task.
func (b *builder) buildNode(s *workerScratch, cursor *chunkCursor, objects []objectRef, nodeBox, centroidBox types.AABB, depth int, slot nodeSlot) error {
	if b.failed.Load() {
		return nil
	}

	if depth > s.stats.MaxDepth {
		s.stats.MaxDepth = depth
	}

	count := len(objects)
	if count <= b.opts.LeafThreshold {
		return b.makeLeaf(s, cursor, objects, nodeBox, depth, slot, thresholdLeaf)
	}
	if depth >= b.opts.MaxDepth {
		return b.makeLeaf(s, cursor, objects, nodeBox, depth, slot, depthLeaf)
	}

	sp := split{kind: noSplit, axis: -1}

	// Once the remaining depth only suffices for halving the object list
	// down to the leaf size limit, SAH splits are no longer an option.
	mustHalve := count > b.opts.MaxObjectsPerLeaf &&
		b.opts.MaxDepth-depth <= levelsToFit(count, b.opts.MaxObjectsPerLeaf)

	if !mustHalve {
		if nodeHalfArea := nodeBox.HalfArea(); nodeHalfArea > 0 {
			sp = s.findSplit(objects, b.tris, nodeBox, centroidBox, b.rootHalfArea, b.opts.SpatialSplits, &b.opts)

			if sp.kind != noSplit {
				splitCost := b.opts.TraversalCost + b.opts.IntersectionCost*sp.cost/nodeHalfArea
				leafCost := float32(count) * b.opts.IntersectionCost
				if splitCost >= leafCost {
					sp.kind = noSplit
				}
			}
		}

		if sp.kind == noSplit && count <= b.opts.MaxObjectsPerLeaf {
			return b.makeLeaf(s, cursor, objects, nodeBox, depth, slot, sahLeaf)
		}
	}

	p := s.partition(objects, b.tris, depth, &sp)
	switch p.kind {
	case objectSplit:
		s.stats.ObjectSplits++
	case spatialSplit:
		s.stats.SpatialSplits++
	default:
		s.stats.ArbitrarySplits++
	}

	leftSlot, err := cursor.reserveNode()
	if err != nil {
		return err
	}

	node := resultNode{
		bbox:  nodeBox,
		depth: int32(depth),
	}
	s.stats.InteriorNodes++

	if len(p.left) > b.opts.TaskThreshold && len(p.right) > b.opts.TaskThreshold {
		// The scratch list holding the right objects is reused as soon as
		// this worker moves on, so the task gets its own copy.
		rightObjects := make([]objectRef, len(p.right))
		copy(rightObjects, p.right)

		rightCursor, err := newChunkCursor(b.store)
		if err != nil {
			return err
		}
		rightSlot, err := rightCursor.reserveNode()
		if err != nil {
			return err
		}

		node.left, node.right = leftSlot.ref(), rightSlot.ref()
		slot.set(node)

		rightBox, rightCentroids := p.rightBox, p.rightCentroids
		b.sched.Submit(func(worker int) {
			b.runTask(worker, rightCursor, rightObjects, rightBox, rightCentroids, depth+1, rightSlot)
		})

		return b.buildNode(s, cursor, p.left, p.leftBox, p.leftCentroids, depth+1, leftSlot)
	}

	rightSlot, err := cursor.reserveNode()
	if err != nil {
		return err
	}
	node.left, node.right = leftSlot.ref(), rightSlot.ref()
	slot.set(node)

	if err := b.buildNode(s, cursor, p.left, p.leftBox, p.leftCentroids, depth+1, leftSlot); err != nil {
		return err
	}
	return b.buildNode(s, cursor, p.right, p.rightBox, p.rightCentroids, depth+1, rightSlot)
}

// Write objects to the current leaf chunk and store a leaf node at slot.
func (b *builder) makeLeaf(s *workerScratch, cursor *chunkCursor, objects []objectRef, nodeBox types.AABB, depth int, slot nodeSlot, kind leafKind) error {
	chunk, start, err := cursor.writeLeaf(objects)
	if err != nil {
		return err
	}

	slot.set(resultNode{
		bbox:      nodeBox,
		leaf:      true,
		leafChunk: chunk,
		leafStart: start,
		leafCount: int32(len(objects)),
		depth:     int32(depth),
	})

	s.stats.Leaves++
	s.stats.References += len(objects)
	if len(objects) > s.stats.MaxLeafSize {
		s.stats.MaxLeafSize = len(objects)
	}
	if len(objects) == 0 {
		s.stats.EmptyLeaves++
	}
	switch kind {
	case thresholdLeaf:
		s.stats.ThresholdLeaves++
	case sahLeaf:
		s.stats.SAHLeaves++
	case depthLeaf:
		s.stats.DepthLeaves++
	}
	return nil
}

// Number of times count must be halved (rounding up) to fit in maxLeafSize.
func levelsToFit(count, maxLeafSize int) int {
	levels := 0
	for count > maxLeafSize {
		count = (count + 1) / 2
		levels++
	}
	return levels
}

func isFinite(box types.AABB) bool {
	for _, v := range box {
		for _, c := range v {
			if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
				return false
			}
		}
	}
	return true
}
