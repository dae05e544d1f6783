package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/itsdinok/rekordscratch/internal/state"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent copy runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to list",
				Value: 10,
			},
		},
		Action: showHistory,
	}
}

func showHistory(_ context.Context, cmd *cli.Command) error {
	mgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer mgr.Close()

	runs, err := mgr.RecentRuns(int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	printHistory(os.Stdout, runs, time.Now())
	return nil
}

// printHistory writes one line per run, newest first.
func printHistory(w io.Writer, runs []state.Run, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	for _, r := range runs {
		when := humanize.RelTime(r.StartedAt, now, "ago", "from now")
		if r.Error != "" {
			fmt.Fprintf(w, "%-16s failed: %s\n", when, r.Error)
			continue
		}
		fmt.Fprintf(w, "%-16s %d/%d matched, %d unmatched, %s copied to %s\n",
			when, r.Matched, r.Total, r.Unmatched, humanize.Bytes(uint64(r.Bytes)), r.CratesRoot)
	}
}
