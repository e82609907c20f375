package vm

import "fmt"

// Coord addresses a cell in the codebox. X is the column, Y the row.
type Coord struct {
	X, Y int
}

// Origin is the top-left cell, where every run starts.
var Origin = Coord{}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Step returns the coordinate one cell along heading h.
func (c Coord) Step(h Heading) Coord {
	return c.Add(h.Vector())
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Neighbor offsets used by instructions that touch the cell above or below them.
var (
	north = Coord{X: 0, Y: -1}
	south = Coord{X: 0, Y: 1}
	east  = Coord{X: 1, Y: 0}
)

// Heading is an index into the fixed cyclic order of the four heading vectors.
// Turning right moves one step forward through the order, turning left one
// step back.
type Heading int

const (
	V0 Heading = iota // (0,-1)
	V1                // (1,0)
	V2                // (0,1)
	V3                // (-1,0)

	headingCount = 4
)

var headingVectors = [headingCount]Coord{
	V0: {X: 0, Y: -1},
	V1: {X: 1, Y: 0},
	V2: {X: 0, Y: 1},
	V3: {X: -1, Y: 0},
}

// Vector returns the unit offset for the heading.
func (h Heading) Vector() Coord {
	return headingVectors[h.norm()]
}

// Right returns the heading one step clockwise in the cyclic order.
func (h Heading) Right() Heading {
	return (h.norm() + 1) % headingCount
}

// Left returns the heading one step counter-clockwise in the cyclic order.
func (h Heading) Left() Heading {
	return (h.norm() + headingCount - 1) % headingCount
}

// Valid reports whether h names one of the four headings.
func (h Heading) Valid() bool {
	return h >= V0 && h < headingCount
}

func (h Heading) norm() Heading {
	return ((h % headingCount) + headingCount) % headingCount
}

func (h Heading) String() string {
	if !h.Valid() {
		return fmt.Sprintf("Heading(%d)", int(h))
	}
	v := headingVectors[h]
	return fmt.Sprintf("V%d(%d,%d)", int(h), v.X, v.Y)
}
