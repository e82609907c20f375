package vm

import "fmt"

// SnapshotVersion is the current Snapshot layout.
const SnapshotVersion = 1

// Snapshot is the complete state of a VM, enough to resume it.
type Snapshot struct {
	Version  int    `cbor:"version"`
	Width    int    `cbor:"width"`
	Height   int    `cbor:"height"`
	Codes    []int  `cbor:"codes"` // row-major
	X        int    `cbor:"x"`
	Y        int    `cbor:"y"`
	Heading  int    `cbor:"heading"`
	Stack    []int  `cbor:"stack"`
	Pending  []int  `cbor:"pending,omitempty"`
	InputEOF bool   `cbor:"input_eof,omitempty"`
	Running  bool   `cbor:"running"`
	Steps    uint64 `cbor:"steps"`
}

// Snapshot captures the VM state.
func (vm *VM) Snapshot() *Snapshot {
	return &Snapshot{
		Version:  SnapshotVersion,
		Width:    vm.box.Width(),
		Height:   vm.box.Height(),
		Codes:    vm.box.Codes(),
		X:        vm.pos.X,
		Y:        vm.pos.Y,
		Heading:  int(vm.heading),
		Stack:    vm.stack.Values(),
		Pending:  vm.Pending(),
		InputEOF: vm.inputEOF,
		Running:  vm.running,
		Steps:    vm.steps,
	}
}

// Restore builds a VM from a snapshot. I/O and run options are not part of a
// snapshot and are supplied again through opts.
func Restore(s *Snapshot, opts ...Option) (*VM, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot: unsupported version %d", s.Version)
	}
	h := Heading(s.Heading)
	if !h.Valid() {
		return nil, fmt.Errorf("snapshot: invalid heading %d", s.Heading)
	}
	box, err := codeboxFromCodes(s.Width, s.Height, s.Codes)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	vm := New(box, opts...)
	vm.pos = Coord{X: s.X, Y: s.Y}
	vm.heading = h
	vm.stack.items = append([]int(nil), s.Stack...)
	vm.pending = append([]int(nil), s.Pending...)
	vm.inputEOF = s.InputEOF
	vm.running = s.Running
	vm.steps = s.Steps
	return vm, nil
}
