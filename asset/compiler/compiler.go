package compiler

import (
	"time"

	"github.com/achilleasa/sbvh/asset/compiler/input"
	"github.com/achilleasa/sbvh/asset/scene"
	"github.com/achilleasa/sbvh/bvh"
	"github.com/achilleasa/sbvh/log"
	"github.com/achilleasa/sbvh/types"
)

type sceneCompiler struct {
	parsedScene    *input.Scene
	optimizedScene *scene.Scene
	opts           bvh.Options
	logger         log.Logger
}

// Compile a scene representation parsed by a scene reader into a flat
// triangle list and a spatial split BVH built with the supplied options.
func Compile(parsedScene *input.Scene, opts bvh.Options) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		parsedScene:    parsedScene,
		optimizedScene: &scene.Scene{},
		opts:           opts,
		logger:         log.New("scene compiler"),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene")

	compiler.flattenGeometry()

	err := compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.optimizedScene, nil
}

// Concatenate the triangles of all meshes into a single list and record
// the mesh each triangle belongs to.
func (sc *sceneCompiler) flattenGeometry() {
	totalTriangles := sc.parsedScene.TriangleCount()

	sc.optimizedScene.Triangles = make([]types.Triangle, 0, totalTriangles)
	sc.optimizedScene.MeshIndex = make([]uint32, 0, totalTriangles)
	sc.optimizedScene.MeshNames = make([]string, len(sc.parsedScene.Meshes))
	for meshIndex, mesh := range sc.parsedScene.Meshes {
		sc.optimizedScene.MeshNames[meshIndex] = mesh.Name
		sc.optimizedScene.Triangles = append(sc.optimizedScene.Triangles, mesh.Triangles...)
		for range mesh.Triangles {
			sc.optimizedScene.MeshIndex = append(sc.optimizedScene.MeshIndex, uint32(meshIndex))
		}
	}
}

// Build the scene BVH.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()
	tris := sc.optimizedScene.Triangles
	sc.logger.Infof("building BVH tree for %d triangles (%d meshes)", len(tris), len(sc.parsedScene.Meshes))

	boxes := make([]types.AABB, len(tris))
	for index, tri := range tris {
		boxes[index] = tri.BBox()
	}

	tree, err := bvh.Build(tris, boxes, sc.opts)
	if err != nil {
		return err
	}

	sc.optimizedScene.BvhNodeList = tree.Nodes
	sc.optimizedScene.LeafPrimitiveList = tree.LeafPrimitives
	sc.optimizedScene.Settings = scene.SettingsFromOptions(sc.opts)
	sc.optimizedScene.BuildStats = tree.Stats

	sc.logger.Infof(
		"BVH tree: %d nodes, %d leaf references (%d duplicates), SAH cost %.3f",
		len(tree.Nodes), tree.Stats.References, tree.Stats.DuplicateReferences(), tree.SAHCost(sc.opts),
	)
	sc.logger.Noticef("partitioned geometry in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}
