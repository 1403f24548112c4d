package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/achilleasa/sbvh/asset/scene"
	"github.com/achilleasa/sbvh/asset/scene/reader"
	"github.com/achilleasa/sbvh/asset/scene/writer"
	"github.com/achilleasa/sbvh/bvh"
	"github.com/achilleasa/sbvh/metrics"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli"
)

// Flags for the compile command.
var CompileFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "leaf-threshold",
		Value: bvh.DefaultOptions().LeafThreshold,
		Usage: "nodes with this many triangles or fewer always become leaves",
	},
	cli.IntFlag{
		Name:  "max-leaf-size",
		Value: bvh.DefaultOptions().MaxObjectsPerLeaf,
		Usage: "max number of triangle references per leaf",
	},
	cli.Float64Flag{
		Name:  "intersection-cost",
		Value: float64(bvh.DefaultOptions().IntersectionCost),
		Usage: "SAH cost of a ray/triangle test",
	},
	cli.Float64Flag{
		Name:  "traversal-cost",
		Value: float64(bvh.DefaultOptions().TraversalCost),
		Usage: "SAH cost of traversing an interior node",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Value: bvh.DefaultOptions().MaxDepth,
		Usage: "max tree depth",
	},
	cli.IntFlag{
		Name:  "task-threshold",
		Value: bvh.DefaultOptions().TaskThreshold,
		Usage: "build subtrees with more triangles than this value as separate tasks",
	},
	cli.BoolFlag{
		Name:  "no-spatial-splits",
		Usage: "only use object splits",
	},
	cli.Float64Flag{
		Name:  "spatial-alpha",
		Value: float64(bvh.DefaultOptions().SpatialAlpha),
		Usage: "evaluate spatial splits when the object split children overlap by more than this fraction of the root area",
	},
	cli.IntFlag{
		Name:  "node-chunk-size",
		Value: bvh.DefaultOptions().NodeChunkSize,
		Usage: "number of nodes per result chunk",
	},
	cli.IntFlag{
		Name:  "leaf-chunk-size",
		Value: bvh.DefaultOptions().LeafChunkSize,
		Usage: "number of leaf references per result chunk",
	},
	cli.IntFlag{
		Name:  "max-chunks",
		Value: 0,
		Usage: "max number of allocated result chunks; 0 means no limit",
	},
	cli.IntFlag{
		Name:  "workers, w",
		Value: 0,
		Usage: "number of build workers; 0 uses one worker per CPU",
	},
	cli.StringFlag{
		Name:  "metrics-file",
		Value: "",
		Usage: "write build metrics to this file using the prometheus text format",
	},
}

// Flags for the inspect command.
var InspectFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "json",
		Usage: "print scene information as JSON",
	},
}

func buildOptions(ctx *cli.Context) bvh.Options {
	opts := bvh.DefaultOptions()
	opts.LeafThreshold = ctx.Int("leaf-threshold")
	opts.MaxObjectsPerLeaf = ctx.Int("max-leaf-size")
	opts.IntersectionCost = float32(ctx.Float64("intersection-cost"))
	opts.TraversalCost = float32(ctx.Float64("traversal-cost"))
	opts.MaxDepth = ctx.Int("max-depth")
	opts.TaskThreshold = ctx.Int("task-threshold")
	opts.SpatialSplits = !ctx.Bool("no-spatial-splits")
	opts.SpatialAlpha = float32(ctx.Float64("spatial-alpha"))
	opts.NodeChunkSize = ctx.Int("node-chunk-size")
	opts.LeafChunkSize = ctx.Int("leaf-chunk-size")
	opts.MaxChunks = ctx.Int("max-chunks")
	opts.Workers = ctx.Int("workers")
	return opts
}

// Compile scene to binary format.
func CompileScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene file")
	}

	opts := buildOptions(ctx)

	var buildMetrics *metrics.BuildMetrics
	metricsFile := ctx.String("metrics-file")
	if metricsFile != "" {
		buildMetrics = metrics.New()
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing and compiling scene: %s", sceneFile)
		sc, err := reader.ReadScene(sceneFile, opts)
		if err != nil {
			return err
		}

		// Display compiled scene info
		logger.Noticef("scene information:\n%s", sc.Stats())
		logger.Infof("build statistics:\n%s", sc.BuildStats.Table())

		if buildMetrics != nil {
			buildMetrics.ObserveBuild(sc.BuildStats)
		}

		zipFile := strings.TrimSuffix(sceneFile, ".obj") + ".zip"
		err = writer.WriteScene(sc, zipFile)
		if err != nil {
			return err
		}
	}

	if buildMetrics != nil {
		if err := buildMetrics.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("could not write build metrics: %w", err)
		}
		logger.Infof("wrote build metrics to %s", metricsFile)
	}

	return nil
}

type sceneInfo struct {
	File       string         `json:"file"`
	Meshes     int            `json:"meshes"`
	Triangles  int            `json:"triangles"`
	Nodes      int            `json:"nodes"`
	LeafItems  int            `json:"leaf_items"`
	SAHCost    float32        `json:"sah_cost"`
	Settings   scene.Settings `json:"settings"`
	BuildStats bvh.Stats      `json:"build_stats"`
}

// Display compiled scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing compiled scene zip file")
	}

	sceneFile := ctx.Args().First()
	if !strings.HasSuffix(sceneFile, ".zip") {
		return errors.New("only compiled scene files with a .zip extension are supported")
	}

	sc, err := reader.ReadScene(sceneFile, bvh.Options{})
	if err != nil {
		return err
	}

	if err = sc.Validate(); err != nil {
		return fmt.Errorf("compiled scene %s is invalid: %w", sceneFile, err)
	}

	if ctx.Bool("json") {
		info := sceneInfo{
			File:       sceneFile,
			Meshes:     len(sc.MeshNames),
			Triangles:  len(sc.Triangles),
			Nodes:      len(sc.BvhNodeList),
			LeafItems:  len(sc.LeafPrimitiveList),
			SAHCost:    sc.Tree().SAHCost(sc.Settings.Options()),
			Settings:   sc.Settings,
			BuildStats: sc.BuildStats,
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	// Display compiled scene info
	logger.Noticef("scene information:\n%s", sc.Stats())
	logger.Noticef("build statistics:\n%s", sc.BuildStats.Table())
	return nil
}
