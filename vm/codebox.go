package vm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Codebox is the rectangular, mutable program grid. Cells are stored row-major
// in a single slice; every access goes through the bounds check in index.
type Codebox struct {
	cells  []Cell
	width  int
	height int
}

// NewCodebox builds a codebox from program lines. Rows shorter than the
// longest line are padded with space cells. Line terminators are not part of
// the program and are stripped if present.
func NewCodebox(lines []string) *Codebox {
	rows := make([][]rune, len(lines))
	width := 0
	for i, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		rows[i] = []rune(line)
		if len(rows[i]) > width {
			width = len(rows[i])
		}
	}

	b := &Codebox{
		cells:  make([]Cell, width*len(rows)),
		width:  width,
		height: len(rows),
	}
	for y, row := range rows {
		for x := 0; x < width; x++ {
			cell := Space
			if x < len(row) {
				cell = Decode(int(row[x]))
			}
			b.cells[y*width+x] = cell
		}
	}
	return b
}

// ParseCodebox splits source text into lines and builds a codebox from them.
// A trailing newline does not add an empty row.
func ParseCodebox(src string) *Codebox {
	src = strings.TrimSuffix(src, "\n")
	if src == "" {
		return NewCodebox(nil)
	}
	return NewCodebox(strings.Split(src, "\n"))
}

// codeboxFromCodes rebuilds a codebox from row-major raw codes.
func codeboxFromCodes(width, height int, codes []int) (*Codebox, error) {
	if width < 0 || height < 0 || (width > 0 && height > len(codes)/width) || len(codes) != width*height {
		return nil, fmt.Errorf("codebox: %d codes do not fill %dx%d", len(codes), width, height)
	}
	b := &Codebox{
		cells:  make([]Cell, len(codes)),
		width:  width,
		height: height,
	}
	for i, code := range codes {
		b.cells[i] = Decode(code)
	}
	return b, nil
}

// Width returns the number of columns.
func (b *Codebox) Width() int { return b.width }

// Height returns the number of rows.
func (b *Codebox) Height() int { return b.height }

// Contains reports whether c addresses an existing cell.
func (b *Codebox) Contains(c Coord) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

func (b *Codebox) index(c Coord) (int, error) {
	if !b.Contains(c) {
		return 0, fmt.Errorf("%w: %s not in %dx%d", ErrOutOfBounds, c, b.width, b.height)
	}
	return c.Y*b.width + c.X, nil
}

// At returns the cell at c.
func (b *Codebox) At(c Coord) (Cell, error) {
	i, err := b.index(c)
	if err != nil {
		return Cell{}, err
	}
	return b.cells[i], nil
}

// Set replaces the cell at c. The new cell is live immediately.
func (b *Codebox) Set(c Coord, cell Cell) error {
	i, err := b.index(c)
	if err != nil {
		return err
	}
	b.cells[i] = cell
	return nil
}

// Codes returns the raw codes row-major.
func (b *Codebox) Codes() []int {
	out := make([]int, len(b.cells))
	for i, cell := range b.cells {
		out[i] = cell.Code
	}
	return out
}

// String renders the grid one row per line. Codes with no printable
// character render as a space.
func (b *Codebox) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for _, cell := range b.cells[y*b.width : (y+1)*b.width] {
			sb.WriteRune(displayRune(cell))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func displayRune(c Cell) rune {
	r, ok := c.Rune()
	if !ok || r == 0 || r < ' ' || r == utf8.RuneError {
		return ' '
	}
	return r
}
