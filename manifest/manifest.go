// Package manifest handles argh.toml run configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chazu/argh/vm"
)

// FileName is the configuration file looked up next to programs.
const FileName = "argh.toml"

// Manifest represents an argh.toml configuration.
type Manifest struct {
	Run      Run      `toml:"run"`
	Input    Input    `toml:"input"`
	Snapshot Snapshot `toml:"snapshot"`
	History  History  `toml:"history"`

	// Dir is the directory containing the argh.toml file (set at load time).
	Dir string `toml:"-"`
}

// Run configures the interpreter loop.
type Run struct {
	Trace        bool     `toml:"trace"`
	StepDelay    Duration `toml:"step-delay"`
	AbortMessage string   `toml:"abort-message"`
}

// Input configures the console line source.
type Input struct {
	Prompt string `toml:"prompt"`
}

// Snapshot configures the post-run image.
type Snapshot struct {
	Path string `toml:"path"`
}

// History configures the run journal.
type History struct {
	Path string `toml:"path"`
}

// Duration is a time.Duration written as a string such as "10ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %s", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no argh.toml exists.
func Default() *Manifest {
	return &Manifest{
		Run: Run{AbortMessage: vm.DefaultAbortMessage},
	}
}

// Load parses an argh.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Run.AbortMessage == "" {
		m.Run.AbortMessage = vm.DefaultAbortMessage
	}

	return m, nil
}

// FindAndLoad walks up from startDir to find an argh.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Resolve makes a configured path absolute relative to the manifest directory.
// Empty paths stay empty.
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// Options converts the run settings into VM options.
func (m *Manifest) Options() []vm.Option {
	return []vm.Option{
		vm.WithTrace(m.Run.Trace),
		vm.WithStepDelay(m.Run.StepDelay.Duration),
		vm.WithAbortMessage(m.Run.AbortMessage),
	}
}
