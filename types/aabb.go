package types

import "math"

// An axis-aligned bounding box stored as a {min, max} pair.
type AABB [2]Vec3

// Create an empty (inverted) bounding box. Extending an empty box with a point
// or unioning it with another box yields the other operand.
func EmptyAABB() AABB {
	return AABB{
		Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Create a bounding box from two corner points.
func NewAABB(min, max Vec3) AABB {
	return AABB{MinVec3(min, max), MaxVec3(min, max)}
}

// Returns true if min > max on any axis.
func (b AABB) IsEmpty() bool {
	return b[0][0] > b[1][0] || b[0][1] > b[1][1] || b[0][2] > b[1][2]
}

// Union of two boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{MinVec3(b[0], o[0]), MaxVec3(b[1], o[1])}
}

// Grow the box so that it includes point p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{MinVec3(b[0], p), MaxVec3(b[1], p)}
}

// Intersection of two boxes. The result is empty if the boxes do not overlap.
func (b AABB) Intersect(o AABB) AABB {
	return AABB{MaxVec3(b[0], o[0]), MinVec3(b[1], o[1])}
}

// Box side lengths. Empty boxes report a zero extent.
func (b AABB) Extent() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b[1].Sub(b[0])
}

// Half of the box surface area. Empty boxes have zero area.
func (b AABB) HalfArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	d := b[1].Sub(b[0])
	return d[0]*d[1] + d[1]*d[2] + d[0]*d[2]
}

// Box surface area.
func (b AABB) Area() float32 {
	return 2 * b.HalfArea()
}

// Box centroid.
func (b AABB) Center() Vec3 {
	return b[0].Add(b[1]).Mul(0.5)
}

// Returns true if o lies entirely inside b. An empty o is contained by any box.
func (b AABB) Contains(o AABB) bool {
	if o.IsEmpty() {
		return true
	}
	return o[0][0] >= b[0][0] && o[0][1] >= b[0][1] && o[0][2] >= b[0][2] &&
		o[1][0] <= b[1][0] && o[1][1] <= b[1][1] && o[1][2] <= b[1][2]
}
