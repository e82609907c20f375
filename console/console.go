// Package console connects a VM to the process's standard streams.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/chazu/argh/vm"
)

type lineResult struct {
	line string
	err  error
}

// Input reads lines from a reader on a helper goroutine so that a blocked
// read can be abandoned when the run context is cancelled. Lines are only
// read on demand.
type Input struct {
	r        *bufio.Reader
	prompt   string
	promptTo io.Writer

	once    sync.Once
	req     chan struct{}
	res     chan lineResult
	waiting bool
	done    bool
}

// NewInput returns an Input over r. A non-empty prompt is written to promptTo
// before each line is requested.
func NewInput(r io.Reader, prompt string, promptTo io.Writer) *Input {
	return &Input{
		r:        bufio.NewReader(r),
		prompt:   prompt,
		promptTo: promptTo,
		req:      make(chan struct{}),
		res:      make(chan lineResult, 1),
	}
}

func (in *Input) start() {
	go func() {
		for range in.req {
			line, err := in.r.ReadString('\n')
			if err == io.EOF && line != "" {
				err = nil
			}
			in.res <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
		}
	}()
}

// ReadLine implements vm.Input.
func (in *Input) ReadLine(ctx context.Context) (string, error) {
	if in.done {
		return "", io.EOF
	}
	in.once.Do(in.start)

	if !in.waiting {
		if in.prompt != "" && in.promptTo != nil {
			fmt.Fprint(in.promptTo, in.prompt)
		}
		select {
		case in.req <- struct{}{}:
			in.waiting = true
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	select {
	case res := <-in.res:
		in.waiting = false
		if res.err != nil {
			in.done = true
			close(in.req)
		}
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stdio bundles the process's standard streams as VM collaborators.
type Stdio struct {
	Out *bufio.Writer
	In  *Input
}

// NewStdio wires stdout and stdin. The prompt is shown on stderr only when
// stdin is a terminal.
func NewStdio(prompt string) *Stdio {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		prompt = ""
	}
	return &Stdio{
		Out: bufio.NewWriter(os.Stdout),
		In:  NewInput(os.Stdin, prompt, os.Stderr),
	}
}

// Options returns the VM options for these streams.
func (s *Stdio) Options() []vm.Option {
	return []vm.Option{
		vm.WithOutput(vm.NewWriterOutput(s.Out)),
		vm.WithInput(s.In),
	}
}

// Flush writes any buffered output.
func (s *Stdio) Flush() error {
	return s.Out.Flush()
}

// Println writes a line outside program output, for CLI notices.
func (s *Stdio) Println(msg string) {
	fmt.Fprintln(s.Out, msg)
	_ = s.Out.Flush()
}
