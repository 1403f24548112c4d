package bvh

import (
	"math"

	"github.com/achilleasa/sbvh/types"
)

// Unsplit decisions for objects straddling a spatial split plane.
const (
	unsplitClip int8 = iota
	unsplitLeft
	unsplitRight
)

// objectRef points to a source triangle. Its bbox is the triangle bbox or,
// after spatial splits, the bbox of the clipped triangle fragment.
type objectRef struct {
	bbox  types.AABB
	index int32
}

// Returns true if the object bbox crosses the plane at pos along axis.
func (o *objectRef) straddles(axis int, pos float32) bool {
	return o.bbox[0][axis] < pos && o.bbox[1][axis] > pos
}

// Calculate the bbox of a list of objects and the bbox of their centroids.
func objectBounds(objects []objectRef) (bbox, centroids types.AABB) {
	bbox = types.EmptyAABB()
	centroids = types.EmptyAABB()
	for index := range objects {
		bbox = bbox.Union(objects[index].bbox)
		centroids = centroids.Extend(objects[index].bbox.Center())
	}
	return bbox, centroids
}

// Route an object to the sides of a spatial split plane. Objects that do not
// straddle the plane are routed by their centroid. Straddling objects follow
// their unsplit decision or are clipped into one fragment per side.
func routeSpatial(obj objectRef, tris []types.Triangle, axis int, pos float32, decision int8) (left, right objectRef, toLeft, toRight bool) {
	if !obj.straddles(axis, pos) {
		if obj.bbox.Center()[axis] < pos {
			return obj, right, true, false
		}
		return left, obj, false, true
	}

	switch decision {
	case unsplitLeft:
		return obj, right, true, false
	case unsplitRight:
		return left, obj, false, true
	}

	return clipReference(obj, tris[obj.index], axis, pos)
}

// Clip an object against a split plane. Each fragment bbox is the bbox of the
// clipped source triangle intersected with the object bbox so fragments never
// grow past the object they came from.
func clipReference(obj objectRef, tri types.Triangle, axis int, pos float32) (left, right objectRef, toLeft, toRight bool) {
	left = objectRef{
		bbox:  clipTriangle(tri, axis, -math.MaxFloat32, pos).Intersect(obj.bbox),
		index: obj.index,
	}
	right = objectRef{
		bbox:  clipTriangle(tri, axis, pos, math.MaxFloat32).Intersect(obj.bbox),
		index: obj.index,
	}
	toLeft = !left.bbox.IsEmpty()
	toRight = !right.bbox.IsEmpty()

	// Rounding errors can leave both fragments empty; keep the
	// reference whole in that case.
	if !toLeft && !toRight {
		if obj.bbox.Center()[axis] < pos {
			return obj, right, true, false
		}
		return left, obj, false, true
	}
	return left, right, toLeft, toRight
}
