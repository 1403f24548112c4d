package compiler

import (
	"errors"
	"testing"

	"github.com/achilleasa/sbvh/asset/compiler/input"
	"github.com/achilleasa/sbvh/bvh"
	"github.com/achilleasa/sbvh/types"
)

func TestCompile(t *testing.T) {
	rawScene := input.NewScene()
	for meshIndex := 0; meshIndex < 3; meshIndex++ {
		mesh := input.NewMesh("mesh")
		offset := float32(meshIndex * 10)
		for index := 0; index < 20; index++ {
			x := offset + float32(index)*0.4
			mesh.Append(types.Triangle{
				types.XYZ(x, 0, 0),
				types.XYZ(x+1, 0, 1),
				types.XYZ(x, 1, 0.5),
			})
		}
		rawScene.Meshes = append(rawScene.Meshes, mesh)
	}

	opts := bvh.DefaultOptions()
	sc, err := Compile(rawScene, opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Triangles) != 60 {
		t.Fatalf("expected 60 triangles; got %d", len(sc.Triangles))
	}
	for index, meshIndex := range sc.MeshIndex {
		if exp := uint32(index / 20); meshIndex != exp {
			t.Fatalf("expected triangle %d to belong to mesh %d; got %d", index, exp, meshIndex)
		}
	}
	if len(sc.MeshNames) != 3 {
		t.Fatalf("expected 3 mesh names; got %d", len(sc.MeshNames))
	}
	if sc.BuildStats.Triangles != 60 {
		t.Fatalf("expected build stats to report 60 triangles; got %d", sc.BuildStats.Triangles)
	}
	if sc.BvhNodeList[0].BBox != rawScene.BBox() {
		t.Fatalf("expected root bbox %v to match the scene bbox %v", sc.BvhNodeList[0].BBox, rawScene.BBox())
	}
	if err = sc.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestCompileInvalidOptions(t *testing.T) {
	rawScene := input.NewScene()
	mesh := input.NewMesh("mesh")
	mesh.Append(types.Triangle{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0)})
	rawScene.Meshes = append(rawScene.Meshes, mesh)

	opts := bvh.DefaultOptions()
	opts.LeafThreshold = 32
	opts.MaxObjectsPerLeaf = 8

	_, err := Compile(rawScene, opts)
	if !errors.Is(err, bvh.ErrInvalidOptions) {
		t.Fatalf("expected error %v; got %v", bvh.ErrInvalidOptions, err)
	}
}
