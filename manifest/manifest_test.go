package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chazu/argh/vm"
)

func TestLoadManifest(t *testing.T) {
	// Create a temporary directory with an argh.toml
	dir := t.TempDir()
	tomlContent := `
[run]
trace = true
step-delay = "10ms"
abort-message = "argh!!"

[input]
prompt = "> "

[snapshot]
path = "out/last.img"

[history]
path = "/var/lib/argh/history.db"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !m.Run.Trace {
		t.Error("run trace = false, want true")
	}
	if m.Run.StepDelay.Duration != 10*time.Millisecond {
		t.Errorf("step delay = %v, want 10ms", m.Run.StepDelay.Duration)
	}
	if m.Run.AbortMessage != "argh!!" {
		t.Errorf("abort message = %q, want argh!!", m.Run.AbortMessage)
	}
	if m.Input.Prompt != "> " {
		t.Errorf("prompt = %q, want %q", m.Input.Prompt, "> ")
	}
	if got := m.Resolve(m.Snapshot.Path); got != filepath.Join(m.Dir, "out", "last.img") {
		t.Errorf("snapshot path = %q", got)
	}
	if got := m.Resolve(m.History.Path); got != "/var/lib/argh/history.db" {
		t.Errorf("history path = %q, absolute paths must stay as written", got)
	}
	if len(m.Options()) != 3 {
		t.Errorf("options count = %d, want 3", len(m.Options()))
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[run]\ntrace = false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Run.AbortMessage != vm.DefaultAbortMessage {
		t.Errorf("abort message = %q, want default", m.Run.AbortMessage)
	}
	if m.Run.StepDelay.Duration != 0 {
		t.Errorf("step delay = %v, want 0", m.Run.StepDelay.Duration)
	}
	if m.Resolve("") != "" {
		t.Error("empty path should stay empty")
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Error("expected error for missing argh.toml")
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[run]\nstep-delay = \"soon\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for unparseable step-delay")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[input]\nprompt = \"? \"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "programs", "demo")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected to find manifest in parent directory")
	}
	if m.Input.Prompt != "? " {
		t.Errorf("prompt = %q, want %q", m.Input.Prompt, "? ")
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	// t.TempDir() lives under the system temp dir, which has no argh.toml.
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil manifest, got one from %s", m.Dir)
	}
}
