package cmd

import (
	"github.com/achilleasa/sbvh/log"
	"github.com/urfave/cli"
)

var logger = log.New("sbvh")

// Flags shared by all commands.
var GlobalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "log-level",
		Value: "",
		Usage: "log level (debug, info, notice, warning, error)",
	},
	cli.BoolFlag{
		Name:  "v",
		Usage: "enable verbose logging",
	},
	cli.BoolFlag{
		Name:  "vv",
		Usage: "enable even more verbose logging",
	},
}

func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	logger.Debugf("log level: %s", log.GetLevel())
	return nil
}
