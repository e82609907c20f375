package vm

import "testing"

func TestHeadingVectors(t *testing.T) {
	tests := []struct {
		h    Heading
		want Coord
	}{
		{V0, Coord{0, -1}},
		{V1, Coord{1, 0}},
		{V2, Coord{0, 1}},
		{V3, Coord{-1, 0}},
	}
	for _, tt := range tests {
		if got := tt.h.Vector(); got != tt.want {
			t.Errorf("%s.Vector() = %s, want %s", tt.h, got, tt.want)
		}
	}
}

func TestHeadingTurns(t *testing.T) {
	right := []Heading{V1, V2, V3, V0}
	left := []Heading{V3, V0, V1, V2}
	for h := V0; h < headingCount; h++ {
		if got := h.Right(); got != right[h] {
			t.Errorf("%s.Right() = %s, want %s", h, got, right[h])
		}
		if got := h.Left(); got != left[h] {
			t.Errorf("%s.Left() = %s, want %s", h, got, left[h])
		}
		if got := h.Right().Left(); got != h {
			t.Errorf("%s.Right().Left() = %s, want %s", h, got, h)
		}
	}
}

func TestCoordStructuralEquality(t *testing.T) {
	a := Coord{X: 0, Y: 0}
	b := Coord{X: 1, Y: 0}.Add(Coord{X: -1, Y: 0})
	if a != b || b != Origin {
		t.Errorf("coords %s and %s should compare equal to origin", a, b)
	}
	if got := (Coord{2, 3}).Step(V3); got != (Coord{1, 3}) {
		t.Errorf("Step(V3) = %s, want (1,3)", got)
	}
}
