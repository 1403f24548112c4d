package input

import "github.com/achilleasa/sbvh/types"

// A mesh is constructed by a list of triangles.
type Mesh struct {
	Name      string
	Triangles []types.Triangle

	bbox            types.AABB
	bboxNeedsUpdate bool
}

// Create a new named mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]types.Triangle, 0),
		bbox:      types.EmptyAABB(),
	}
}

// Append triangles to the mesh.
func (m *Mesh) Append(tris ...types.Triangle) {
	m.Triangles = append(m.Triangles, tris...)
	m.bboxNeedsUpdate = true
}

// Get mesh bounding box.
func (m *Mesh) BBox() types.AABB {
	if m.bboxNeedsUpdate {
		m.bbox = types.EmptyAABB()
		for _, tri := range m.Triangles {
			m.bbox = m.bbox.Union(tri.BBox())
		}
		m.bboxNeedsUpdate = false
	}

	return m.bbox
}

// The Scene contains the geometry parsed by a scene reader.
type Scene struct {
	Meshes []*Mesh
}

// Create a new empty scene.
func NewScene() *Scene {
	return &Scene{
		Meshes: make([]*Mesh, 0),
	}
}

// Total number of triangles in all scene meshes.
func (sc *Scene) TriangleCount() int {
	count := 0
	for _, mesh := range sc.Meshes {
		count += len(mesh.Triangles)
	}
	return count
}

// Get the bounding box of all scene meshes.
func (sc *Scene) BBox() types.AABB {
	bbox := types.EmptyAABB()
	for _, mesh := range sc.Meshes {
		bbox = bbox.Union(mesh.BBox())
	}
	return bbox
}
