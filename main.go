package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "rekordscratch",
		Usage: "Sort the tracks of a Rekordbox USB export into crate folders on the desktop",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Folder holding the exported playlist .txt files",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Source root to read tracks from, skipping drive detection",
			},
			&cli.StringFlag{
				Name:  "desktop",
				Usage: "Folder to create the crates in",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an extra configuration file",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Run once without the terminal UI, logging progress to stderr",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file used while the terminal UI runs",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log at debug level",
			},
		},
		Commands: []*cli.Command{historyCommand()},
		Action:   run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
