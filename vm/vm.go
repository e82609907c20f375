package vm

import (
	"context"
	"errors"
	"time"

	"github.com/tliron/commonlog"
)

// VM is one Argh! run. It owns the codebox, stack and pending input for the
// run's duration and is not safe for concurrent use.
type VM struct {
	box     *Codebox
	pos     Coord
	heading Heading
	stack   Stack
	running bool
	steps   uint64

	// Pending input: character codes of the current line plus the sentinel.
	pending  []int
	inputEOF bool

	out Output
	in  Input

	// Trace logs every executed step at debug level.
	Trace bool

	stepDelay    time.Duration
	stepLimit    uint64
	abortMessage string
	log          commonlog.Logger
}

// Option configures a VM.
type Option func(*VM)

// WithOutput sets the sink used by Print and the abort procedure.
func WithOutput(out Output) Option {
	return func(vm *VM) { vm.out = out }
}

// WithInput sets the line source used by UserInput.
func WithInput(in Input) Option {
	return func(vm *VM) { vm.in = in }
}

// WithTrace enables per-step debug logging.
func WithTrace(on bool) Option {
	return func(vm *VM) { vm.Trace = on }
}

// WithStepDelay pauses between steps.
func WithStepDelay(d time.Duration) Option {
	return func(vm *VM) { vm.stepDelay = d }
}

// WithStepLimit stops Run with ErrStepLimit after n steps. Zero means no limit.
func WithStepLimit(n uint64) Option {
	return func(vm *VM) { vm.stepLimit = n }
}

// WithAbortMessage replaces the diagnostic written by the abort procedure.
func WithAbortMessage(msg string) Option {
	return func(vm *VM) { vm.abortMessage = msg }
}

// WithLogger sets the logger.
func WithLogger(log commonlog.Logger) Option {
	return func(vm *VM) { vm.log = log }
}

// New creates a running VM at the origin heading V1.
func New(box *Codebox, opts ...Option) *VM {
	vm := &VM{
		box:          box,
		pos:          Origin,
		heading:      V1,
		running:      true,
		out:          nopOutput{},
		in:           NewLinesInput(),
		abortMessage: DefaultAbortMessage,
		log:          commonlog.GetLogger("argh.vm"),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Codebox returns the grid being executed.
func (vm *VM) Codebox() *Codebox { return vm.box }

// Position returns the instruction pointer.
func (vm *VM) Position() Coord { return vm.pos }

// Heading returns the current heading.
func (vm *VM) Heading() Heading { return vm.heading }

// Stack returns the operand stack.
func (vm *VM) Stack() *Stack { return &vm.stack }

// Pending returns a copy of the unread input codes.
func (vm *VM) Pending() []int {
	out := make([]int, len(vm.pending))
	copy(out, vm.pending)
	return out
}

// Running reports whether the VM can still step.
func (vm *VM) Running() bool { return vm.running }

// Steps returns the number of instructions executed so far.
func (vm *VM) Steps() uint64 { return vm.steps }

// Run steps until Quit, input exhaustion, abort or cancellation. It returns
// nil on a graceful stop, an *AbortError on a fatal condition and
// ErrInterrupted when ctx is cancelled.
func (vm *VM) Run(ctx context.Context) error {
	for vm.running {
		if err := vm.Step(ctx); err != nil {
			return err
		}
		if vm.stepDelay > 0 && vm.running {
			select {
			case <-ctx.Done():
				vm.running = false
				return ErrInterrupted
			case <-time.After(vm.stepDelay):
			}
		}
	}
	return nil
}

// Step executes the instruction under the pointer and advances along the
// heading.
func (vm *VM) Step(ctx context.Context) error {
	if !vm.running {
		return ErrHalted
	}
	if ctx.Err() != nil {
		vm.running = false
		return ErrInterrupted
	}
	if vm.stepLimit > 0 && vm.steps >= vm.stepLimit {
		vm.running = false
		return ErrStepLimit
	}

	cell, err := vm.box.At(vm.pos)
	if err != nil {
		return vm.abort(err, nil)
	}
	vm.steps++

	if vm.Trace {
		vm.log.Debugf("step=%d pos=%s heading=%s cell=%s depth=%d",
			vm.steps, vm.pos, vm.heading, cell, vm.stack.Len())
	}

	if err := vm.execute(ctx, cell); err != nil {
		if errors.Is(err, ErrInterrupted) {
			vm.running = false
			return err
		}
		return vm.abort(err, &cell)
	}

	if vm.running {
		vm.advance()
	}
	return nil
}

func (vm *VM) advance() {
	vm.pos = vm.pos.Step(vm.heading)
}

// abort is the single fatal path: halt, write the diagnostic, report.
func (vm *VM) abort(cause error, cell *Cell) error {
	vm.running = false
	ae := &AbortError{Cause: cause, Position: vm.pos, Cell: cell, Step: vm.steps}
	vm.log.Debugf("%v", ae)

	msg := "\n" + vm.abortMessage + "\n"
	for _, r := range msg {
		if err := vm.out.WriteChar(r); err != nil {
			vm.log.Warningf("writing abort message: %v", err)
			break
		}
	}
	return ae
}
