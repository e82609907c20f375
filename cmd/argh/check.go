package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chazu/argh/conformance"
)

// handleCheckCommand processes the `argh check` subcommand.
// Usage:
//
//	argh check                 # suites in ./conformance/testdata
//	argh check dir/ a.yaml     # given directories and files
func handleCheckCommand(args []string) {
	if len(args) == 0 {
		args = []string{"conformance/testdata"}
	}

	var suites []*conformance.Suite
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if info.IsDir() {
			found, err := conformance.LoadDir(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			suites = append(suites, found...)
			continue
		}
		s, err := conformance.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		suites = append(suites, s)
	}

	if len(suites) == 0 {
		fmt.Fprintln(os.Stderr, "No scenario files found")
		os.Exit(1)
	}

	passed, failed := 0, 0
	for _, s := range suites {
		for _, r := range s.Run(context.Background()) {
			if r.Passed() {
				passed++
				continue
			}
			failed++
			fmt.Printf("FAIL %s: %s\n", s.Name, r.Case.Name)
			fmt.Printf("    %s\n", strings.Join(r.Failures, "\n    "))
		}
	}

	fmt.Printf("%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
