package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/chazu/argh/vm"
)

func TestRecordAndRecent(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "db", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 3; i++ {
		r := &Record{
			Program:   fmt.Sprintf("prog%d.agh", i),
			Digest:    Digest([]byte{byte(i)}),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  time.Duration(i+1) * time.Millisecond,
			Steps:     uint64(10 * i),
			Status:    StatusOK,
		}
		if err := j.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if r.ID == "" {
			t.Error("Record did not assign an ID")
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d rows", len(got))
	}
	if got[0].Program != "prog2.agh" || got[1].Program != "prog1.agh" {
		t.Errorf("order = %s, %s; want newest first", got[0].Program, got[1].Program)
	}
	if got[0].Steps != 20 || got[0].Duration != 3*time.Millisecond || !got[0].StartedAt.Equal(base.Add(2*time.Minute)) {
		t.Errorf("row = %+v", got[0])
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want Status
	}{
		{nil, StatusOK},
		{&vm.AbortError{Cause: vm.ErrStackEmpty}, StatusAbort},
		{fmt.Errorf("run: %w", &vm.AbortError{Cause: vm.ErrOutOfBounds}), StatusAbort},
		{vm.ErrInterrupted, StatusInterrupted},
		{errors.New("disk on fire"), StatusError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestDigest(t *testing.T) {
	if got := Digest([]byte("q")); len(got) != 64 {
		t.Errorf("Digest length = %d, want 64 hex chars", len(got))
	}
	if Digest([]byte("q")) == Digest([]byte("Q")) {
		t.Error("distinct programs share a digest")
	}
}
