package bvh

import "fmt"

const (
	// Hard cap for the tree depth.
	defaultMaxDepth = 60

	// Max number of SAH buckets per axis.
	maxBuckets = 32

	// Spatial splits are only evaluated when the overlap of the best object
	// split children, relative to the root area, exceeds this value.
	defaultSpatialAlpha float32 = 1e-5

	// A spatial split must beat the object split cost by this relative margin.
	spatialAcceptEpsilon float32 = 1e-6

	defaultNodeChunkSize = 1 << 14
	defaultLeafChunkSize = 1 << 16
)

// The Scheduler interface is implemented by thread pools that can execute
// subtree build tasks. Submit must not block; tasks may submit other tasks.
type Scheduler interface {
	Submit(task func(worker int))
	Wait()
	NumWorkers() int
}

type Options struct {
	// Nodes with this many objects or fewer always become leaves.
	LeafThreshold int

	// Hard limit for the number of primitive references in a leaf.
	MaxObjectsPerLeaf int

	// Cost of a ray/primitive test relative to a ray/box test.
	IntersectionCost float32

	// Cost of traversing an interior node.
	TraversalCost float32

	// Nodes at this depth always become leaves. The root is at depth 0.
	MaxDepth int

	// The right child of a node is built as a separate task when both
	// children hold more than this many objects.
	TaskThreshold int

	// Enable spatial splits and the overlap threshold that triggers them.
	SpatialSplits bool
	SpatialAlpha  float32

	// Result chunk capacities.
	NodeChunkSize int
	LeafChunkSize int

	// Upper limit on the total number of allocated chunks; 0 means no limit.
	MaxChunks int

	// Number of workers when the builder creates its own pool. A value
	// <= 0 selects one worker per logical CPU.
	Workers int

	// An optional scheduler. If nil the builder runs its own worker pool.
	Scheduler Scheduler
}

// Get the default build options.
func DefaultOptions() Options {
	return Options{
		LeafThreshold:     4,
		MaxObjectsPerLeaf: 16,
		IntersectionCost:  1.5,
		TraversalCost:     1.0,
		MaxDepth:          defaultMaxDepth,
		TaskThreshold:     1024,
		SpatialSplits:     true,
		SpatialAlpha:      defaultSpatialAlpha,
		NodeChunkSize:     defaultNodeChunkSize,
		LeafChunkSize:     defaultLeafChunkSize,
	}
}

// Replace zero-valued fields with their defaults. SpatialSplits, MaxChunks,
// Workers and Scheduler are left as-is.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.LeafThreshold == 0 {
		o.LeafThreshold = def.LeafThreshold
	}
	if o.MaxObjectsPerLeaf == 0 {
		o.MaxObjectsPerLeaf = def.MaxObjectsPerLeaf
	}
	if o.IntersectionCost == 0 {
		o.IntersectionCost = def.IntersectionCost
	}
	if o.TraversalCost == 0 {
		o.TraversalCost = def.TraversalCost
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = def.MaxDepth
	}
	if o.TaskThreshold == 0 {
		o.TaskThreshold = def.TaskThreshold
	}
	if o.SpatialAlpha == 0 {
		o.SpatialAlpha = def.SpatialAlpha
	}
	if o.NodeChunkSize == 0 {
		o.NodeChunkSize = def.NodeChunkSize
	}
	if o.LeafChunkSize == 0 {
		o.LeafChunkSize = def.LeafChunkSize
	}
	return o
}

func (o Options) validate() error {
	switch {
	case o.LeafThreshold < 1:
		return fmt.Errorf("%w: leaf threshold must be >= 1; got %d", ErrInvalidOptions, o.LeafThreshold)
	case o.MaxObjectsPerLeaf < o.LeafThreshold:
		return fmt.Errorf("%w: max objects per leaf (%d) must be >= leaf threshold (%d)", ErrInvalidOptions, o.MaxObjectsPerLeaf, o.LeafThreshold)
	case o.IntersectionCost <= 0:
		return fmt.Errorf("%w: intersection cost must be > 0; got %f", ErrInvalidOptions, o.IntersectionCost)
	case o.TraversalCost < 0:
		return fmt.Errorf("%w: traversal cost must be >= 0; got %f", ErrInvalidOptions, o.TraversalCost)
	case o.MaxDepth < 1 || o.MaxDepth > 0xffff:
		return fmt.Errorf("%w: max depth must be in [1, 65535]; got %d", ErrInvalidOptions, o.MaxDepth)
	case o.TaskThreshold < 1:
		return fmt.Errorf("%w: task threshold must be >= 1; got %d", ErrInvalidOptions, o.TaskThreshold)
	case o.SpatialAlpha < 0:
		return fmt.Errorf("%w: spatial alpha must be >= 0; got %f", ErrInvalidOptions, o.SpatialAlpha)
	case o.NodeChunkSize < 1:
		return fmt.Errorf("%w: node chunk size must be >= 1; got %d", ErrInvalidOptions, o.NodeChunkSize)
	case o.LeafChunkSize < 1:
		return fmt.Errorf("%w: leaf chunk size must be >= 1; got %d", ErrInvalidOptions, o.LeafChunkSize)
	case o.MaxChunks < 0:
		return fmt.Errorf("%w: max chunks must be >= 0; got %d", ErrInvalidOptions, o.MaxChunks)
	}
	return nil
}
