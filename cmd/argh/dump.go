package main

import (
	"fmt"
	"os"

	"github.com/chazu/argh/vm"
	"github.com/chazu/argh/vm/image"
)

// handleDumpCommand prints the state held in an image file.
func handleDumpCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: argh dump <image>")
		os.Exit(1)
	}

	snap, err := image.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	m, err := vm.Restore(snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(m.Dump())
	if !m.Running() {
		fmt.Println("Halted")
	}
}
