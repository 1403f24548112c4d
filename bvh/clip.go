package bvh

import "github.com/achilleasa/sbvh/types"

// A triangle clipped by two parallel planes has at most 5 vertices; each
// plane adds at most one.
const maxClipVertices = 5

// Clip a triangle against the slab lo <= p[axis] <= hi and return the bbox
// of the resulting polygon. If the triangle does not intersect the slab the
// returned bbox is empty.
func clipTriangle(tri types.Triangle, axis int, lo, hi float32) types.AABB {
	var bufA, bufB [maxClipVertices]types.Vec3

	poly := append(bufA[:0], tri[0], tri[1], tri[2])
	poly = clipPolygon(poly, bufB[:0], axis, lo, true)
	if len(poly) == 0 {
		return types.EmptyAABB()
	}
	poly = clipPolygon(poly, bufA[:0], axis, hi, false)

	bbox := types.EmptyAABB()
	for _, v := range poly {
		bbox = bbox.Extend(v)
	}
	return bbox
}

// Sutherland-Hodgman clipping of a convex polygon against an axis aligned
// plane. If keepAbove is true the part where p[axis] >= pos is kept,
// otherwise the part where p[axis] <= pos. Intersection points are snapped
// onto the plane.
func clipPolygon(in, out []types.Vec3, axis int, pos float32, keepAbove bool) []types.Vec3 {
	inside := func(v types.Vec3) bool {
		if keepAbove {
			return v[axis] >= pos
		}
		return v[axis] <= pos
	}

	for index, cur := range in {
		next := in[(index+1)%len(in)]
		curIn, nextIn := inside(cur), inside(next)
		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn {
			t := (pos - cur[axis]) / (next[axis] - cur[axis])
			p := cur.Lerp(next, t)
			p[axis] = pos
			out = append(out, p)
		}
	}
	return out
}
