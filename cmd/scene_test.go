package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/sbvh/bvh"
	"github.com/achilleasa/sbvh/log"
	"github.com/urfave/cli"
)

const tetrahedraObj = `o tetra
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 2 3
f 1 2 4
f 1 3 4
f 2 3 4
o tetra2
v 5 0 0
v 6 0 0
v 5 1 0
v 5 0 1
f -4 -3 -2
f -4 -3 -1
f -4 -2 -1
f -3 -2 -1
`

func testContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(nil, set, nil)
}

func TestBuildOptions(t *testing.T) {
	ctx := testContext(t, CompileFlags, "--leaf-threshold", "2", "--max-depth", "20", "--no-spatial-splits", "--workers", "3", "--max-chunks", "64", "--node-chunk-size", "128")
	opts := buildOptions(ctx)

	if opts.LeafThreshold != 2 {
		t.Fatalf("expected leaf threshold to be 2; got %d", opts.LeafThreshold)
	}
	if opts.MaxDepth != 20 {
		t.Fatalf("expected max depth to be 20; got %d", opts.MaxDepth)
	}
	if opts.SpatialSplits {
		t.Fatal("expected spatial splits to be disabled")
	}
	if opts.Workers != 3 {
		t.Fatalf("expected 3 workers; got %d", opts.Workers)
	}
	if opts.MaxChunks != 64 || opts.NodeChunkSize != 128 {
		t.Fatalf("expected max chunks 64 and node chunk size 128; got %d and %d", opts.MaxChunks, opts.NodeChunkSize)
	}
	if opts.LeafChunkSize != bvh.DefaultOptions().LeafChunkSize || opts.SpatialAlpha != bvh.DefaultOptions().SpatialAlpha {
		t.Fatalf("expected default leaf chunk size and spatial alpha; got %d and %g", opts.LeafChunkSize, opts.SpatialAlpha)
	}
	if opts.MaxObjectsPerLeaf != 16 {
		t.Fatalf("expected default max leaf size to be 16; got %d", opts.MaxObjectsPerLeaf)
	}
}

func TestBuildOptionsFromApp(t *testing.T) {
	var opts bvh.Options
	app := cli.NewApp()
	app.Flags = GlobalFlags
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Flags: CompileFlags,
			Action: func(ctx *cli.Context) error {
				opts = buildOptions(ctx)
				return nil
			},
		},
	}

	if err := app.Run([]string{"sbvh", "compile", "-w", "3", "--spatial-alpha", "0.5", "scene.obj"}); err != nil {
		t.Fatal(err)
	}
	if opts.Workers != 3 {
		t.Fatalf("expected 3 workers; got %d", opts.Workers)
	}
	if opts.SpatialAlpha != 0.5 {
		t.Fatalf("expected spatial alpha to be 0.5; got %g", opts.SpatialAlpha)
	}
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.Notice)

	type spec struct {
		args     []string
		expLevel log.Level
		expErr   bool
	}

	specs := []spec{
		{[]string{"--log-level", "warning"}, log.Warning, false},
		{[]string{"--log-level", "Error"}, log.Error, false},
		{[]string{"--log-level", "warning", "-vv"}, log.Debug, false},
		{[]string{"--log-level", "chatty"}, log.Notice, true},
	}

	for index, s := range specs {
		log.SetLevel(log.Notice)
		parent := testContext(t, GlobalFlags, s.args...)
		ctx := cli.NewContext(nil, flag.NewFlagSet("cmd", flag.ContinueOnError), parent)

		err := setupLogging(ctx)
		if s.expErr != (err != nil) {
			t.Errorf("[spec %d] expected error: %t; got %v", index, s.expErr, err)
			continue
		}
		if got := log.GetLevel(); got != s.expLevel {
			t.Errorf("[spec %d] expected log level %s; got %s", index, s.expLevel, got)
		}
	}
}

func TestCompileAndInspectScene(t *testing.T) {
	dir := t.TempDir()
	objFile := filepath.Join(dir, "tetra.obj")
	metricsFile := filepath.Join(dir, "build.prom")
	if err := os.WriteFile(objFile, []byte(tetrahedraObj), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := testContext(t, CompileFlags, "--leaf-threshold", "1", "--metrics-file", metricsFile, objFile)
	if err := CompileScene(ctx); err != nil {
		t.Fatal(err)
	}

	zipFile := filepath.Join(dir, "tetra.zip")
	if _, err := os.Stat(zipFile); err != nil {
		t.Fatalf("expected compiled scene to be written to %s; got %v", zipFile, err)
	}

	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "bvh_triangles_total 8") {
		t.Fatalf("expected metrics file to report 8 triangles; got:\n%s", string(data))
	}

	ctx = testContext(t, InspectFlags, zipFile)
	if err = ShowSceneInfo(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestInspectErrors(t *testing.T) {
	type spec struct {
		args   []string
		expErr string
	}

	specs := []spec{
		{nil, "missing compiled scene zip file"},
		{[]string{"scene.obj"}, "only compiled scene files with a .zip extension are supported"},
	}

	for index, s := range specs {
		ctx := testContext(t, InspectFlags, s.args...)
		err := ShowSceneInfo(ctx)
		if err == nil || err.Error() != s.expErr {
			t.Errorf("[spec %d] expected error %q; got %v", index, s.expErr, err)
		}
	}
}

func TestCompileWithoutArgs(t *testing.T) {
	ctx := testContext(t, CompileFlags)
	if err := CompileScene(ctx); err == nil {
		t.Fatal("expected an error when no scene files are specified")
	}
}
