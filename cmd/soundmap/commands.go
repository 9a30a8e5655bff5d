package main

import (
	"github.com/urfave/cli/v3"

	"github.com/TonnenFred/soundmap-bot/internal/constants"
)

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		initCommand(r),
		statsCommand(r),
		profileCommand(r),
		searchCommand(r),
		exportCommand(r),
	}
}

func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create the database and apply the schema",
		Action: r.Init,
	}
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show row counts across the store",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Stats,
	}
}

func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show a user's collection overview",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "user-id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Profile,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the local track catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "term",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: constants.SearchLimitMax,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.Search,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Dump every user's collection to a JSON snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
		},
		Action: r.Export,
	}
}
