package types

// A triangle primitive defined by its three vertices.
type Triangle [3]Vec3

// Get triangle AABB.
func (t Triangle) BBox() AABB {
	return AABB{
		MinVec3(t[0], MinVec3(t[1], t[2])),
		MaxVec3(t[0], MaxVec3(t[1], t[2])),
	}
}

// Get triangle centroid.
func (t Triangle) Center() Vec3 {
	return t[0].Add(t[1]).Add(t[2]).Mul(1.0 / 3.0)
}

// Get triangle area.
func (t Triangle) Area() float32 {
	return 0.5 * t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Len()
}
