// Package history keeps a SQLite journal of interpreter runs.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/argh/vm"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("argh.history")
}

// Status is the outcome of a run.
type Status string

const (
	StatusOK          Status = "ok"          // Quit or input exhausted
	StatusAbort       Status = "abort"       // fatal condition
	StatusInterrupted Status = "interrupted" // cancelled by signal
	StatusError       Status = "error"       // failed before or outside the engine
)

// StatusOf classifies the error returned by vm.Run.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case vm.IsAbort(err):
		return StatusAbort
	case errors.Is(err, vm.ErrInterrupted):
		return StatusInterrupted
	default:
		return StatusError
	}
}

// Record is one journal row.
type Record struct {
	ID        string
	Program   string
	Digest    string
	StartedAt time.Time
	Duration  time.Duration
	Steps     uint64
	Status    Status
	Cause     string
}

// Digest returns the hex SHA-256 of program source.
func Digest(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Journal is an open run journal.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			program TEXT NOT NULL,
			digest TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			status TEXT NOT NULL,
			cause TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record inserts r, assigning an ID when it has none.
func (j *Journal) Record(ctx context.Context, r *Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, program, digest, started_at, duration_ns, steps, status, cause)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Program, r.Digest, r.StartedAt.UTC().Format(time.RFC3339Nano),
		int64(r.Duration), int64(r.Steps), string(r.Status), r.Cause)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	logger().Debugf("recorded run %s (%s, %d steps)", r.ID, r.Status, r.Steps)
	return nil
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, program, digest, started_at, duration_ns, steps, status, cause
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			started string
			durNS   int64
			steps   int64
			status  string
		)
		if err := rows.Scan(&r.ID, &r.Program, &r.Digest, &started, &durNS, &steps, &status, &r.Cause); err != nil {
			return nil, err
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad started_at %q: %w", r.ID, started, err)
		}
		r.Duration = time.Duration(durNS)
		r.Steps = uint64(steps)
		r.Status = Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
