// Argh CLI - runs Argh! programs
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/argh/console"
	"github.com/chazu/argh/history"
	"github.com/chazu/argh/manifest"
	"github.com/chazu/argh/vm"
	"github.com/chazu/argh/vm/image"
)

// verbosity counts repeated -v flags.
type verbosity int

func (v *verbosity) String() string   { return strconv.Itoa(int(*v)) }
func (v *verbosity) IsBoolFlag() bool { return true }

func (v *verbosity) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*v++
	}
	return nil
}

func main() {
	var verbose verbosity
	flag.Var(&verbose, "v", "Verbose logging (repeat for more)")
	logPath := flag.String("log", "", "Write log output to this file instead of stderr")
	trace := flag.Bool("trace", false, "Log every executed step (implies -v -v)")
	delay := flag.Duration("delay", 0, "Pause between steps")
	snapshotPath := flag.String("snapshot", "", "Write an image here when the run halts")
	resumePath := flag.String("resume", "", "Resume from an image instead of a program file")
	historyPath := flag.String("history", "", "Record the run in this SQLite journal")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: argh [options] <program>\n")
		fmt.Fprintf(os.Stderr, "       argh [options] -resume <image>\n")
		fmt.Fprintf(os.Stderr, "       argh check [paths...]\n")
		fmt.Fprintf(os.Stderr, "       argh history [-n count] [journal]\n")
		fmt.Fprintf(os.Stderr, "       argh dump <image>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSettings are also read from %s in the program's directory or a parent.\n", manifest.FileName)
	}
	flag.Parse()

	level := int(verbose)
	if *trace && level < 2 {
		level = 2
	}
	var logFile *string
	if *logPath != "" {
		logFile = logPath
	}
	commonlog.Configure(level, logFile)

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "check":
			handleCheckCommand(args[1:])
			return
		case "history":
			handleHistoryCommand(args[1:])
			return
		case "dump":
			handleDumpCommand(args[1:])
			return
		}
	}

	if (*resumePath == "") == (len(args) != 1) {
		flag.Usage()
		os.Exit(1)
	}

	source := *resumePath
	if source == "" {
		source = args[0]
	}
	m, err := manifest.FindAndLoad(filepath.Dir(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		m = manifest.Default()
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trace":
			m.Run.Trace = *trace
		case "delay":
			m.Run.StepDelay.Duration = *delay
		case "snapshot":
			m.Snapshot.Path = *snapshotPath
		case "history":
			m.History.Path = *historyPath
		}
	})

	os.Exit(runProgram(source, *resumePath != "", m))
}

// runProgram loads and runs a program or image and returns the exit code.
func runProgram(path string, resume bool, m *manifest.Manifest) int {
	log := commonlog.GetLogger("argh.cli")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdio := console.NewStdio(m.Input.Prompt)
	opts := append(m.Options(), stdio.Options()...)

	var (
		machine *vm.VM
		digest  string
	)
	if resume {
		snap, err := image.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		machine, err = vm.Restore(snap, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !machine.Running() {
			fmt.Fprintf(os.Stderr, "Error: %s is a halted image; nothing to resume\n", path)
			return 1
		}
		digest = history.Digest([]byte(machine.Codebox().String()))
		log.Infof("resumed %s at step %d", path, machine.Steps())
	} else {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		machine = vm.New(vm.ParseCodebox(string(src)), opts...)
		digest = history.Digest(src)
		log.Infof("loaded %s (%dx%d)", path, machine.Codebox().Width(), machine.Codebox().Height())
	}

	started := time.Now()
	runErr := machine.Run(ctx)
	elapsed := time.Since(started)

	if err := stdio.Flush(); err != nil {
		log.Errorf("flushing output: %s", err)
	}

	if p := m.Resolve(m.Snapshot.Path); p != "" && !errors.Is(runErr, vm.ErrInterrupted) {
		if err := image.WriteFile(p, machine.Snapshot()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing image: %v\n", err)
		} else {
			log.Infof("wrote image %s", p)
		}
	}

	if p := m.Resolve(m.History.Path); p != "" {
		recordRun(p, &history.Record{
			Program:   path,
			Digest:    digest,
			StartedAt: started,
			Duration:  elapsed,
			Steps:     machine.Steps(),
			Status:    history.StatusOf(runErr),
			Cause:     causeOf(runErr),
		})
	}

	switch {
	case runErr == nil:
		return 0
	case errors.Is(runErr, vm.ErrInterrupted):
		stdio.Println("User exited!")
		return 0
	case vm.IsAbort(runErr):
		log.Infof("%s", runErr)
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
}

func causeOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// recordRun appends r to the journal at path. Journal failures never change
// the exit code.
func recordRun(path string, r *history.Record) {
	j, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	defer j.Close()
	if err := j.Record(context.Background(), r); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
