package reader

import (
	"fmt"

	"github.com/achilleasa/sbvh/asset"
	"github.com/achilleasa/sbvh/asset/scene"
	"github.com/achilleasa/sbvh/bvh"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or http/https URL. Wavefront (.obj) scenes
// are compiled using the supplied BVH build options; compiled (.zip) scenes
// are loaded as-is.
func ReadScene(filename string, opts bvh.Options) (*scene.Scene, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	reader, err := readerFor(res, opts)
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

// Select reader based on the resource extension.
func readerFor(res *asset.Resource, opts bvh.Options) (Reader, error) {
	switch res.Ext() {
	case ".obj":
		return newWavefrontReader(opts), nil
	case ".zip":
		return newZipSceneReader(), nil
	}
	return nil, fmt.Errorf("readScene: unsupported file format %q", res.Ext())
}
