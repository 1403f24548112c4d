package bvh

import "github.com/achilleasa/sbvh/types"

// The two halves of a partitioned node.
type partition struct {
	kind splitKind

	left, right                   []objectRef
	leftBox, rightBox             types.AABB
	leftCentroids, rightCentroids types.AABB
}

// Separate objects into the depth-indexed scratch lists according to sp. If
// sp does not describe a usable split, or one of the sides ends up empty,
// the object list is split in half instead.
func (s *workerScratch) partition(objects []objectRef, tris []types.Triangle, depth int, sp *split) partition {
	left := s.left[depth][:0]
	right := s.right[depth][:0]
	kind := sp.kind

	var clipped, unsplit int
	switch sp.kind {
	case objectSplit:
		for index := range objects {
			b := bucketIndex(objects[index].bbox.Center()[sp.axis], sp.binMin, sp.binScale, sp.numBuckets)
			if b <= sp.bucket {
				left = append(left, objects[index])
			} else {
				right = append(right, objects[index])
			}
		}
	case spatialSplit:
		for index := range objects {
			decision := s.unsplit[index]
			if decision != unsplitClip && objects[index].straddles(sp.axis, sp.pos) {
				unsplit++
			}

			l, r, toLeft, toRight := routeSpatial(objects[index], tris, sp.axis, sp.pos, decision)
			if toLeft {
				left = append(left, l)
			}
			if toRight {
				right = append(right, r)
			}
			if toLeft && toRight {
				clipped++
			}
		}
	}

	if kind == noSplit || len(left) == 0 || len(right) == 0 {
		kind = arbitrarySplit
		mid := len(objects) / 2
		left = append(left[:0], objects[:mid]...)
		right = append(right[:0], objects[mid:]...)
	} else if kind == spatialSplit {
		s.stats.ClippedReferences += clipped
		s.stats.UnsplitReferences += unsplit
	}

	// Keep any capacity grown by append for the next node at this depth
	s.left[depth], s.right[depth] = left, right

	p := partition{
		kind:  kind,
		left:  left,
		right: right,
	}
	p.leftBox, p.leftCentroids = objectBounds(left)
	p.rightBox, p.rightCentroids = objectBounds(right)
	return p
}
