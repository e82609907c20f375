// Package image reads and writes VM snapshots. An image is a magic header
// followed by a zstd stream holding the canonical CBOR encoding of a
// vm.Snapshot.
package image

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/chazu/argh/vm"
)

// Magic identifies an image file.
const Magic = "ARGHIMG1"

// ErrNotImage is returned when the input does not start with Magic.
var ErrNotImage = errors.New("image: not an argh image")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal encodes a snapshot to CBOR without compression.
func Marshal(s *vm.Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal decodes a snapshot from CBOR.
func Unmarshal(data []byte) (*vm.Snapshot, error) {
	var s vm.Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("image: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// Write writes a complete image to w.
func Write(w io.Writer, s *vm.Snapshot) error {
	body, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("image: marshal snapshot: %w", err)
	}
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(body); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Read reads a complete image from r.
func Read(r io.Reader) (*vm.Snapshot, error) {
	br := bufio.NewReader(r)
	head := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, head); err != nil || !bytes.Equal(head, []byte(Magic)) {
		return nil, ErrNotImage
	}
	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	body, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("image: decompress: %w", err)
	}
	return Unmarshal(body)
}

// WriteFile writes an image to path, creating parent directories.
func WriteFile(path string, s *vm.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile reads an image from path.
func ReadFile(path string) (*vm.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}
