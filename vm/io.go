package vm

import (
	"bufio"
	"context"
	"io"
	"strings"
	"unicode/utf8"
)

// Output receives program output one character at a time. Implementations
// must flush after every character.
type Output interface {
	WriteChar(r rune) error
}

// Input supplies one line of program input per call, without its line
// terminator. It returns io.EOF once the stream is exhausted and should give
// up promptly when ctx is cancelled.
type Input interface {
	ReadLine(ctx context.Context) (string, error)
}

type flusher interface {
	Flush() error
}

// WriterOutput writes characters to an io.Writer, flushing it after each one
// when the writer supports Flush.
type WriterOutput struct {
	w   io.Writer
	buf [utf8.UTFMax]byte
}

// NewWriterOutput returns an Output over w.
func NewWriterOutput(w io.Writer) *WriterOutput {
	return &WriterOutput{w: w}
}

// WriteChar implements Output.
func (o *WriterOutput) WriteChar(r rune) error {
	n := utf8.EncodeRune(o.buf[:], r)
	if _, err := o.w.Write(o.buf[:n]); err != nil {
		return err
	}
	if f, ok := o.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// LinesInput serves a fixed list of lines, then io.EOF.
type LinesInput struct {
	lines []string
}

// NewLinesInput returns an Input that yields lines in order.
func NewLinesInput(lines ...string) *LinesInput {
	return &LinesInput{lines: lines}
}

// ReadLine implements Input.
func (in *LinesInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(in.lines) == 0 {
		return "", io.EOF
	}
	line := in.lines[0]
	in.lines = in.lines[1:]
	return line, nil
}

// ReaderInput reads lines from an io.Reader. It blocks in the underlying
// read and only observes ctx between lines.
type ReaderInput struct {
	r *bufio.Reader
}

// NewReaderInput returns an Input over r.
func NewReaderInput(r io.Reader) *ReaderInput {
	return &ReaderInput{r: bufio.NewReader(r)}
}

// ReadLine implements Input.
func (in *ReaderInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := in.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

type nopOutput struct{}

func (nopOutput) WriteChar(rune) error { return nil }
