package bvh

import (
	"math"

	"github.com/achilleasa/sbvh/types"
)

// Number of bins used when evaluating spatial splits.
const spatialBins = maxBuckets

type splitKind uint8

const (
	noSplit splitKind = iota
	objectSplit
	spatialSplit
	arbitrarySplit
)

// A split candidate. All costs are expressed as count * half area and still
// need to be divided by the node half area to become SAH costs.
type split struct {
	kind splitKind

	// Split axis or -1 if no split was found.
	axis int

	// Object splits send objects whose centroid bucket is <= bucket to the
	// left child. The bucket mapping is reproduced from binMin/binScale.
	bucket     int
	numBuckets int
	binMin     float32
	binScale   float32

	// Spatial split plane position along axis.
	pos float32

	cost float32

	leftBox, rightBox     types.AABB
	leftCount, rightCount int
}

// Pick the number of SAH buckets for a node with count objects.
func numBucketsFor(count int) int {
	switch {
	case count < 2:
		return 2
	case count > maxBuckets:
		return maxBuckets
	}
	return count
}

// Map a coordinate to a bucket. Out of range values are clamped to the
// first or last bucket.
func bucketIndex(v, min, scale float32, numBuckets int) int {
	b := int((v - min) * scale)
	if b < 0 {
		return 0
	}
	if b >= numBuckets {
		return numBuckets - 1
	}
	return b
}

// Find the cheapest way to split objects. The binned object split is always
// evaluated; a spatial split is evaluated when the children of the best
// object split overlap by more than opts.SpatialAlpha relative to the root
// area and allowSpatial is set.
func (s *workerScratch) findSplit(objects []objectRef, tris []types.Triangle, nodeBox, centroidBox types.AABB, rootHalfArea float32, allowSpatial bool, opts *Options) split {
	best := s.findObjectSplit(objects, centroidBox)
	if best.kind == noSplit || !allowSpatial || rootHalfArea <= 0 {
		return best
	}

	overlap := best.leftBox.Intersect(best.rightBox).HalfArea()
	if overlap/rootHalfArea <= opts.SpatialAlpha {
		return best
	}

	spatial := s.findSpatialSplit(objects, tris, nodeBox)
	if spatial.kind == noSplit || spatial.cost >= best.cost {
		return best
	}

	if !s.unsplitReferences(objects, tris, &spatial) {
		return best
	}
	if spatial.cost >= best.cost*(1-spatialAcceptEpsilon) {
		return best
	}
	return spatial
}

// Binned SAH search over object centroids on all three axes.
func (s *workerScratch) findObjectSplit(objects []objectRef, centroidBox types.AABB) split {
	best := split{
		kind: noSplit,
		axis: -1,
		cost: math.MaxFloat32,
	}

	numBuckets := numBucketsFor(len(objects))
	extent := centroidBox.Extent()
	for axis := 0; axis < 3; axis++ {
		// All centroids coincide along this axis
		if extent[axis] <= 0 {
			continue
		}

		binMin := centroidBox[0][axis]
		binScale := float32(numBuckets) / extent[axis]

		buckets := s.buckets[:numBuckets]
		for index := range buckets {
			buckets[index] = bucket{bbox: types.EmptyAABB()}
		}
		for index := range objects {
			b := bucketIndex(objects[index].bbox.Center()[axis], binMin, binScale, numBuckets)
			buckets[b].bbox = buckets[b].bbox.Union(objects[index].bbox)
			buckets[b].count++
		}

		// Sweep right to left and record the bounds right of each boundary
		rightBox := types.EmptyAABB()
		rightCount := 0
		for index := numBuckets - 1; index > 0; index-- {
			rightBox = rightBox.Union(buckets[index].bbox)
			rightCount += buckets[index].count
			s.sweepBox[index-1] = rightBox
			s.sweepCount[index-1] = rightCount
		}

		// Sweep left to right and evaluate each boundary
		leftBox := types.EmptyAABB()
		leftCount := 0
		for index := 0; index < numBuckets-1; index++ {
			leftBox = leftBox.Union(buckets[index].bbox)
			leftCount += buckets[index].count
			if leftCount == 0 || s.sweepCount[index] == 0 {
				continue
			}

			cost := float32(leftCount)*leftBox.HalfArea() + float32(s.sweepCount[index])*s.sweepBox[index].HalfArea()
			if cost < best.cost {
				best = split{
					kind:       objectSplit,
					axis:       axis,
					bucket:     index,
					numBuckets: numBuckets,
					binMin:     binMin,
					binScale:   binScale,
					pos:        binMin + float32(index+1)/binScale,
					cost:       cost,
					leftBox:    leftBox,
					rightBox:   s.sweepBox[index],
					leftCount:  leftCount,
					rightCount: s.sweepCount[index],
				}
			}
		}
	}

	return best
}

// Binned spatial split search. Bins span the node bbox; every object is
// clipped against each bin it overlaps so that bin bounds only include the
// part of the triangle that lies inside the bin.
func (s *workerScratch) findSpatialSplit(objects []objectRef, tris []types.Triangle, nodeBox types.AABB) split {
	best := split{
		kind: noSplit,
		axis: -1,
		cost: math.MaxFloat32,
	}

	extent := nodeBox.Extent()
	for axis := 0; axis < 3; axis++ {
		if extent[axis] <= 0 {
			continue
		}

		origin := nodeBox[0][axis]
		binWidth := extent[axis] / spatialBins
		binScale := spatialBins / extent[axis]

		bins := s.bins[:]
		for index := range bins {
			bins[index] = spatialBin{bbox: types.EmptyAABB()}
		}

		for index := range objects {
			obj := &objects[index]
			entry := bucketIndex(obj.bbox[0][axis], origin, binScale, spatialBins)
			exit := bucketIndex(obj.bbox[1][axis], origin, binScale, spatialBins)
			bins[entry].entries++
			bins[exit].exits++

			if entry == exit {
				bins[entry].bbox = bins[entry].bbox.Union(obj.bbox)
				continue
			}

			tri := tris[obj.index]
			for b := entry; b <= exit; b++ {
				lo := origin + float32(b)*binWidth
				hi := origin + float32(b+1)*binWidth
				if b == entry {
					lo = -math.MaxFloat32
				}
				if b == exit {
					hi = math.MaxFloat32
				}
				fragment := clipTriangle(tri, axis, lo, hi).Intersect(obj.bbox)
				bins[b].bbox = bins[b].bbox.Union(fragment)
			}
		}

		rightBox := types.EmptyAABB()
		rightCount := 0
		for index := spatialBins - 1; index > 0; index-- {
			rightBox = rightBox.Union(bins[index].bbox)
			rightCount += bins[index].exits
			s.sweepBox[index-1] = rightBox
			s.sweepCount[index-1] = rightCount
		}

		leftBox := types.EmptyAABB()
		leftCount := 0
		for index := 0; index < spatialBins-1; index++ {
			leftBox = leftBox.Union(bins[index].bbox)
			leftCount += bins[index].entries
			if leftCount == 0 || s.sweepCount[index] == 0 {
				continue
			}

			cost := float32(leftCount)*leftBox.HalfArea() + float32(s.sweepCount[index])*s.sweepBox[index].HalfArea()
			if cost < best.cost {
				best = split{
					kind:       spatialSplit,
					axis:       axis,
					pos:        origin + float32(index+1)*binWidth,
					cost:       cost,
					leftBox:    leftBox,
					rightBox:   s.sweepBox[index],
					leftCount:  leftCount,
					rightCount: s.sweepCount[index],
				}
			}
		}
	}

	return best
}

// Decide, for each object straddling the spatial split plane, whether it is
// cheaper to clip it or to send it whole to one side. Decisions are written
// to the scratch unsplit array. The split cost, bounds and counts are then
// recomputed from the actual routing. Returns false if the routing leaves
// one of the sides empty.
func (s *workerScratch) unsplitReferences(objects []objectRef, tris []types.Triangle, sp *split) bool {
	decisions := s.unsplitDecisions(len(objects))

	leftBox, rightBox := sp.leftBox, sp.rightBox
	leftArea, rightArea := leftBox.HalfArea(), rightBox.HalfArea()
	leftCount, rightCount := float32(sp.leftCount), float32(sp.rightCount)

	for index := range objects {
		decisions[index] = unsplitClip

		obj := &objects[index]
		if !obj.straddles(sp.axis, sp.pos) {
			continue
		}

		splitCost := leftCount*leftArea + rightCount*rightArea
		costLeft, costRight := float32(math.MaxFloat32), float32(math.MaxFloat32)

		unionLeft := leftBox.Union(obj.bbox)
		if rightCount > 1 {
			costLeft = leftCount*unionLeft.HalfArea() + (rightCount-1)*rightArea
		}
		unionRight := rightBox.Union(obj.bbox)
		if leftCount > 1 {
			costRight = (leftCount-1)*leftArea + rightCount*unionRight.HalfArea()
		}

		switch {
		case costLeft <= costRight && costLeft <= splitCost:
			decisions[index] = unsplitLeft
			leftBox, leftArea = unionLeft, unionLeft.HalfArea()
			rightCount--
		case costRight < costLeft && costRight <= splitCost:
			decisions[index] = unsplitRight
			rightBox, rightArea = unionRight, unionRight.HalfArea()
			leftCount--
		}
	}

	// Recompute the exact cost of the routing
	leftBox, rightBox = types.EmptyAABB(), types.EmptyAABB()
	var numLeft, numRight int
	for index := range objects {
		l, r, toLeft, toRight := routeSpatial(objects[index], tris, sp.axis, sp.pos, decisions[index])
		if toLeft {
			leftBox = leftBox.Union(l.bbox)
			numLeft++
		}
		if toRight {
			rightBox = rightBox.Union(r.bbox)
			numRight++
		}
	}

	if numLeft == 0 || numRight == 0 {
		return false
	}

	sp.leftBox, sp.rightBox = leftBox, rightBox
	sp.leftCount, sp.rightCount = numLeft, numRight
	sp.cost = float32(numLeft)*leftBox.HalfArea() + float32(numRight)*rightBox.HalfArea()
	return true
}
