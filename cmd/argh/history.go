package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chazu/argh/history"
	"github.com/chazu/argh/manifest"
)

// handleHistoryCommand processes the `argh history` subcommand.
// Usage:
//
//	argh history               # journal from argh.toml
//	argh history -n 5 runs.db  # last five runs in runs.db
func handleHistoryCommand(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 20, "Number of runs to list")
	_ = fs.Parse(args)

	path := fs.Arg(0)
	if path == "" {
		m, err := manifest.FindAndLoad(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
			os.Exit(1)
		}
		if m != nil {
			path = m.Resolve(m.History.Path)
		}
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: no journal given")
		fmt.Fprintf(os.Stderr, "Pass a path or set [history].path in %s\n", manifest.FileName)
		os.Exit(1)
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := listHistory(os.Stdout, path, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// listHistory writes up to limit runs from the journal at path, newest first.
func listHistory(w io.Writer, path string, limit int) error {
	j, err := history.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %-11s %8d steps  %-10s %s\n",
			r.StartedAt.Local().Format(time.DateTime), r.ID[:8], r.Status, r.Steps,
			r.Duration.Round(time.Millisecond), r.Program)
		if r.Cause != "" {
			fmt.Fprintf(w, "    %s\n", r.Cause)
		}
	}
	return nil
}
