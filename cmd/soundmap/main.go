package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/TonnenFred/soundmap-bot/internal/constants"
	"github.com/TonnenFred/soundmap-bot/internal/logger"
)

func main() {
	r := NewRunner(RunnerOpts{})

	app := &cli.Command{
		Name:    "soundmap",
		Usage:   "Admin tooling for the Soundmap collection store",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   constants.DefaultConfig,
			},
		},
		Commands: r.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Default().Error("command failed", "error", err)
		os.Exit(1)
	}
}
