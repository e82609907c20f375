package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestInputReadsOnDemand(t *testing.T) {
	var prompts bytes.Buffer
	in := NewInput(strings.NewReader("first\nsecond\r\nlast"), "> ", &prompts)
	ctx := context.Background()

	for _, want := range []string{"first", "second", "last"} {
		got, err := in.ReadLine(ctx)
		if err != nil {
			t.Fatalf("ReadLine() error: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine() = %q, want %q", got, want)
		}
	}
	if _, err := in.ReadLine(ctx); err != io.EOF {
		t.Errorf("ReadLine() at end: err = %v, want io.EOF", err)
	}
	if _, err := in.ReadLine(ctx); err != io.EOF {
		t.Errorf("ReadLine() after end: err = %v, want io.EOF", err)
	}
	if got := prompts.String(); got != "> > > > " {
		t.Errorf("prompts = %q, want one per request", got)
	}
}

func TestInputCancelWhileBlocked(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	in := NewInput(pr, "", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := in.ReadLine(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}

	// The abandoned request is still served once a line arrives.
	go func() { _, _ = io.WriteString(pw, "late\n") }()
	got, err := in.ReadLine(context.Background())
	if err != nil || got != "late" {
		t.Errorf("ReadLine() = %q, %v; want late", got, err)
	}
}
