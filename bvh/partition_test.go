package bvh

import (
	"testing"
)

func TestPartitionObjectSplit(t *testing.T) {
	tris := cubeRow(10)
	objects := objectRefs(tris)
	nodeBox, centroidBox := objectBounds(objects)
	opts := DefaultOptions()

	s := newWorkerScratch(opts.MaxDepth)
	sp := s.findSplit(objects, tris, nodeBox, centroidBox, nodeBox.HalfArea(), true, &opts)
	p := s.partition(objects, tris, 0, &sp)

	if p.kind != objectSplit {
		t.Fatalf("expected an object partition; got kind %d", p.kind)
	}
	if len(p.left) != sp.leftCount || len(p.right) != sp.rightCount {
		t.Fatalf("expected partition sizes to match the split (%d/%d); got %d/%d", sp.leftCount, sp.rightCount, len(p.left), len(p.right))
	}
	if p.leftBox != sp.leftBox || p.rightBox != sp.rightBox {
		t.Fatalf("expected partition bboxes to match the split")
	}
	for _, l := range p.left {
		for _, r := range p.right {
			if l.bbox.Center()[0] >= r.bbox.Center()[0] {
				t.Fatalf("expected object %d to be left of object %d", l.index, r.index)
			}
		}
	}
}

func TestPartitionArbitrarySplit(t *testing.T) {
	tris := cubeRow(7)
	objects := objectRefs(tris)

	s := newWorkerScratch(defaultMaxDepth)
	sp := split{kind: noSplit, axis: -1}
	p := s.partition(objects, tris, 3, &sp)

	if p.kind != arbitrarySplit {
		t.Fatalf("expected an arbitrary partition; got kind %d", p.kind)
	}
	if len(p.left) != 3 || len(p.right) != 4 {
		t.Fatalf("expected a 3/4 partition; got %d/%d", len(p.left), len(p.right))
	}
	for index, obj := range append(append([]objectRef{}, p.left...), p.right...) {
		if obj.index != int32(index) {
			t.Fatalf("expected arbitrary partition to preserve object order; got %d at position %d", obj.index, index)
		}
	}

	// Partition output lives in the scratch lists for the requested depth
	if len(s.left[3]) != 3 || len(s.right[3]) != 4 {
		t.Fatalf("expected scratch lists for depth 3 to hold the partition")
	}
}

func TestPartitionSpatialSplit(t *testing.T) {
	tris := longTriangleScene()
	objects := objectRefs(tris)
	nodeBox, centroidBox := objectBounds(objects)
	opts := DefaultOptions()

	s := newWorkerScratch(opts.MaxDepth)
	sp := s.findSplit(objects, tris, nodeBox, centroidBox, nodeBox.HalfArea(), true, &opts)
	if sp.kind != spatialSplit {
		t.Fatalf("expected a spatial split; got kind %d", sp.kind)
	}

	p := s.partition(objects, tris, 0, &sp)
	if p.kind != spatialSplit {
		t.Fatalf("expected a spatial partition; got kind %d", p.kind)
	}
	if len(p.left) != sp.leftCount || len(p.right) != sp.rightCount {
		t.Fatalf("expected partition sizes to match the split (%d/%d); got %d/%d", sp.leftCount, sp.rightCount, len(p.left), len(p.right))
	}
	if s.stats.ClippedReferences == 0 {
		t.Fatal("expected at least one clipped reference")
	}

	for _, side := range [][]objectRef{p.left, p.right} {
		for _, obj := range side {
			if !tris[obj.index].BBox().Contains(obj.bbox) {
				t.Fatalf("expected fragment bbox %v to be contained in triangle %d bbox", obj.bbox, obj.index)
			}
			if !nodeBox.Contains(obj.bbox) {
				t.Fatalf("expected fragment bbox %v to be contained in the node bbox", obj.bbox)
			}
		}
	}
}
