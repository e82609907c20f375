// Package conformance runs YAML scenario suites against the interpreter.
//
// A suite file holds a list of cases. Each case gives a program, optional
// input lines and the expected output, final status and, optionally, the
// final stack and selected cells:
//
//	suite: core
//	cases:
//	  - name: print
//	    program: |
//	      pq
//	      A
//	    output: "A"
//
// Files are checked against an embedded JSON schema before they are run.
package conformance

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/chazu/argh/vm"
)

//go:embed scenario.schema.json
var schemaText string

var schema = jsonschema.MustCompileString("scenario.schema.json", schemaText)

// DefaultMaxSteps bounds cases that do not set max-steps.
const DefaultMaxSteps = 100000

// Statuses a case can expect.
const (
	StatusOK        = "ok"
	StatusAbort     = "abort"
	StatusStepLimit = "step-limit"
)

var causeNames = map[string]error{
	"out-of-bounds":       vm.ErrOutOfBounds,
	"stack-empty":         vm.ErrStackEmpty,
	"unknown-instruction": vm.ErrUnknownInstruction,
	"bad-character":       vm.ErrBadCharacter,
}

// Suite is one scenario file.
type Suite struct {
	Name  string `yaml:"suite"`
	Cases []Case `yaml:"cases"`

	Path string `yaml:"-"`
}

// Case is one scenario.
type Case struct {
	Name     string       `yaml:"name"`
	Program  string       `yaml:"program"`
	Input    []string     `yaml:"input"`
	Output   string       `yaml:"output"`
	Status   string       `yaml:"status"`
	Cause    string       `yaml:"cause"`
	MaxSteps uint64       `yaml:"max-steps"`
	Stack    []int        `yaml:"stack"`
	Cells    []CellExpect `yaml:"cells"`
}

// CellExpect is an expected final cell code.
type CellExpect struct {
	X    int `yaml:"x"`
	Y    int `yaml:"y"`
	Code int `yaml:"code"`
}

// Result is the outcome of running one case.
type Result struct {
	Case     *Case
	Output   string
	Status   string
	Err      error
	Failures []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Parse validates and decodes a suite.
func Parse(data []byte) (*Suite, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON value types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("suite is not JSON-compatible: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return &s, nil
}

// Load reads a suite file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// LoadDir reads every *.yaml and *.yml suite in dir, sorted by file name.
func LoadDir(dir string) ([]*Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	suites := make([]*Suite, 0, len(names))
	for _, name := range names {
		s, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// Run executes every case in the suite.
func (s *Suite) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(s.Cases))
	for i := range s.Cases {
		results = append(results, s.Cases[i].Run(ctx))
	}
	return results
}

// Run executes the case against in-memory I/O and checks expectations.
func (c *Case) Run(ctx context.Context) Result {
	var out strings.Builder
	maxSteps := c.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	m := vm.New(vm.ParseCodebox(c.Program),
		vm.WithOutput(vm.NewWriterOutput(&out)),
		vm.WithInput(vm.NewLinesInput(c.Input...)),
		vm.WithStepLimit(maxSteps))
	err := m.Run(ctx)

	r := Result{Case: c, Output: out.String(), Err: err}
	switch {
	case err == nil:
		r.Status = StatusOK
	case vm.IsAbort(err):
		r.Status = StatusAbort
	case errors.Is(err, vm.ErrStepLimit):
		r.Status = StatusStepLimit
	default:
		r.Status = err.Error()
	}

	want := c.Status
	if want == "" {
		want = StatusOK
	}
	if r.Status != want {
		r.fail("status = %s (%v), want %s", r.Status, err, want)
	}
	if c.Cause != "" && !errors.Is(err, causeNames[c.Cause]) {
		r.fail("cause = %v, want %s", err, c.Cause)
	}
	if r.Output != c.Output {
		r.fail("output = %q, want %q", r.Output, c.Output)
	}
	if c.Stack != nil {
		if got := m.Stack().Values(); !slices.Equal(got, c.Stack) {
			r.fail("stack = %v, want %v", got, c.Stack)
		}
	}
	for _, want := range c.Cells {
		cell, err := m.Codebox().At(vm.Coord{X: want.X, Y: want.Y})
		if err != nil {
			r.fail("cell (%d,%d): %v", want.X, want.Y, err)
			continue
		}
		if cell.Code != want.Code {
			r.fail("cell (%d,%d) = %d, want %d", want.X, want.Y, cell.Code, want.Code)
		}
	}
	return r
}

func (r *Result) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}
