package bvh

import "sync"

// A fixed-capacity, append-only node block. Once handed to a build task a
// chunk is only written by that task.
type nodeChunk struct {
	id    int32
	nodes []resultNode
}

// A fixed-capacity, append-only block of leaf primitive indices.
type leafChunk struct {
	id      int32
	indices []int32
}

// A reserved node slot that will be filled in by the task that owns it.
type nodeSlot struct {
	chunk *nodeChunk
	index int32
}

func (s nodeSlot) ref() nodeRef {
	return nodeRef{chunk: s.chunk.id, slot: s.index}
}

func (s nodeSlot) set(n resultNode) {
	s.chunk.nodes[s.index] = n
}

// chunkStore keeps track of all allocated chunks. Its mutex is only acquired
// when a chunk is allocated; node and leaf writes go directly to the chunks.
type chunkStore struct {
	mu         sync.Mutex
	nodeChunks []*nodeChunk
	leafChunks []*leafChunk

	nodeChunkSize int
	leafChunkSize int
	maxChunks     int
}

func newChunkStore(opts Options) *chunkStore {
	return &chunkStore{
		nodeChunkSize: opts.NodeChunkSize,
		leafChunkSize: opts.LeafChunkSize,
		maxChunks:     opts.MaxChunks,
	}
}

func (s *chunkStore) canAllocate() bool {
	return s.maxChunks == 0 || len(s.nodeChunks)+len(s.leafChunks) < s.maxChunks
}

// Allocate and register a new node chunk.
func (s *chunkStore) allocNodeChunk() (*nodeChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.canAllocate() {
		return nil, ErrChunkAllocation
	}

	c := &nodeChunk{
		id:    int32(len(s.nodeChunks)),
		nodes: make([]resultNode, 0, s.nodeChunkSize),
	}
	s.nodeChunks = append(s.nodeChunks, c)
	return c, nil
}

// Allocate and register a new leaf chunk that can hold at least minCapacity
// indices.
func (s *chunkStore) allocLeafChunk(minCapacity int) (*leafChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.canAllocate() {
		return nil, ErrChunkAllocation
	}

	capacity := s.leafChunkSize
	if minCapacity > capacity {
		capacity = minCapacity
	}

	c := &leafChunk{
		id:      int32(len(s.leafChunks)),
		indices: make([]int32, 0, capacity),
	}
	s.leafChunks = append(s.leafChunks, c)
	return c, nil
}

// Number of allocated node and leaf chunks.
func (s *chunkStore) numChunks() (nodes, leaves int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodeChunks), len(s.leafChunks)
}

// The chunk pair currently being filled by a build task.
type chunkCursor struct {
	store  *chunkStore
	nodes  *nodeChunk
	leaves *leafChunk
}

// Allocate a cursor backed by a fresh node and leaf chunk.
func newChunkCursor(store *chunkStore) (*chunkCursor, error) {
	nodes, err := store.allocNodeChunk()
	if err != nil {
		return nil, err
	}
	leaves, err := store.allocLeafChunk(0)
	if err != nil {
		return nil, err
	}
	return &chunkCursor{store: store, nodes: nodes, leaves: leaves}, nil
}

// Reserve a node slot, switching to a new chunk if the current one is full.
func (c *chunkCursor) reserveNode() (nodeSlot, error) {
	if len(c.nodes.nodes) == cap(c.nodes.nodes) {
		chunk, err := c.store.allocNodeChunk()
		if err != nil {
			return nodeSlot{}, err
		}
		c.nodes = chunk
	}

	c.nodes.nodes = append(c.nodes.nodes, resultNode{})
	return nodeSlot{chunk: c.nodes, index: int32(len(c.nodes.nodes) - 1)}, nil
}

// Append the source indices of a leaf's objects. All indices of a leaf are
// stored in the same chunk; a new chunk is allocated if the current one
// cannot hold them.
func (c *chunkCursor) writeLeaf(objects []objectRef) (chunk, start int32, err error) {
	if cap(c.leaves.indices)-len(c.leaves.indices) < len(objects) {
		leaves, err := c.store.allocLeafChunk(len(objects))
		if err != nil {
			return 0, 0, err
		}
		c.leaves = leaves
	}

	start = int32(len(c.leaves.indices))
	for _, obj := range objects {
		c.leaves.indices = append(c.leaves.indices, obj.index)
	}
	return c.leaves.id, start, nil
}

// Flatten all chunks into a node list and a leaf primitive list. Chunks are
// visited in allocation order; chunk-local references are translated into
// global indices. merge does not modify the store and must only be called
// once all build tasks have completed.
func (s *chunkStore) merge() ([]Node, []int32) {
	leafOffsets := make([]int32, len(s.leafChunks))
	var totalLeafItems int32
	for index, c := range s.leafChunks {
		leafOffsets[index] = totalLeafItems
		totalLeafItems += int32(len(c.indices))
	}

	leafPrimitives := make([]int32, 0, totalLeafItems)
	for _, c := range s.leafChunks {
		leafPrimitives = append(leafPrimitives, c.indices...)
	}

	nodeOffsets := make([]int32, len(s.nodeChunks))
	var totalNodes int32
	for index, c := range s.nodeChunks {
		nodeOffsets[index] = totalNodes
		totalNodes += int32(len(c.nodes))
	}

	nodes := make([]Node, totalNodes)
	for chunkIndex, c := range s.nodeChunks {
		base := nodeOffsets[chunkIndex]
		for slot := range c.nodes {
			rn := &c.nodes[slot]
			n := &nodes[base+int32(slot)]
			n.BBox = rn.bbox
			n.Depth = rn.depth
			n.Leaf = rn.leaf

			if rn.leaf {
				n.Left = leafOffsets[rn.leafChunk] + rn.leafStart
				n.Right = n.Left + rn.leafCount
				continue
			}

			n.Left = nodeOffsets[rn.left.chunk] + rn.left.slot
			n.Right = nodeOffsets[rn.right.chunk] + rn.right.slot
		}
	}

	return nodes, leafPrimitives
}
