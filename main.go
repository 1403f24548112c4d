package main

import (
	"os"

	"github.com/achilleasa/sbvh/cmd"
	"github.com/achilleasa/sbvh/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "sbvh"
	app.Usage = "build spatial split bounding volume hierarchies for triangle meshes"
	app.Version = "0.0.1"
	app.Flags = cmd.GlobalFlags
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse a scene definition from a wavefront obj file and build a spatial split
BVH over its triangles.

The triangles, the BVH nodes and the leaf primitive list are written to a zip
archive next to the input file which can be supplied as an argument to the
inspect command.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags:     cmd.CompileFlags,
			Action:    cmd.CompileScene,
		},
		{
			Name:        "inspect",
			Usage:       "validate a compiled scene and print its BVH statistics",
			Description: `Load a compiled scene, check the BVH invariants and display scene information.`,
			ArgsUsage:   "scene_file.zip",
			Flags:       cmd.InspectFlags,
			Action:      cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("sbvh").Error(err)
		os.Exit(1)
	}
}
