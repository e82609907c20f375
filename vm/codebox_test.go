package vm

import (
	"errors"
	"testing"
)

func TestCodeboxPadsToRectangle(t *testing.T) {
	box := NewCodebox([]string{"abc", "", "de\n", "f"})
	if box.Width() != 3 || box.Height() != 4 {
		t.Fatalf("size = %dx%d, want 3x4", box.Width(), box.Height())
	}
	if got := len(box.Codes()); got != box.Width()*box.Height() {
		t.Errorf("cell count = %d, want %d", got, box.Width()*box.Height())
	}
	for _, c := range []Coord{{0, 1}, {1, 1}, {2, 1}, {2, 2}, {1, 3}, {2, 3}} {
		cell, err := box.At(c)
		if err != nil {
			t.Fatalf("At(%s): %v", c, err)
		}
		if cell != Space {
			t.Errorf("At(%s) = %s, want padding space", c, cell)
		}
	}
	if cell, _ := box.At(Coord{1, 2}); cell.Code != 'e' {
		t.Errorf("At(1,2) = %s, want 'e'", cell)
	}
}

func TestCodeboxBounds(t *testing.T) {
	box := NewCodebox([]string{"ab", "cd"})
	for _, c := range []Coord{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {5, 5}} {
		if _, err := box.At(c); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%s): err = %v, want ErrOutOfBounds", c, err)
		}
		if err := box.Set(c, Space); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%s): err = %v, want ErrOutOfBounds", c, err)
		}
	}
}

func TestCodeboxSetRedecodes(t *testing.T) {
	box := NewCodebox([]string{"ab"})
	if err := box.Set(Coord{1, 0}, Decode('Q')); err != nil {
		t.Fatal(err)
	}
	cell, _ := box.At(Coord{1, 0})
	if cell.Kind != KindQuit || !cell.Upper() {
		t.Errorf("written cell = %s, want uppercase QUIT", cell)
	}
}

func TestParseCodebox(t *testing.T) {
	box := ParseCodebox("q\nab\n")
	if box.Width() != 2 || box.Height() != 2 {
		t.Errorf("size = %dx%d, want 2x2", box.Width(), box.Height())
	}
	if got := box.String(); got != "q \nab\n" {
		t.Errorf("String() = %q", got)
	}
	if empty := ParseCodebox(""); empty.Height() != 0 {
		t.Errorf("empty source height = %d", empty.Height())
	}
}
