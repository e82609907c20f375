package vm

import (
	"strings"
	"testing"
)

func TestAllKindsHaveMetadata(t *testing.T) {
	for _, k := range AllKinds() {
		info := GetKindInfo(k)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Kind %d has no metadata", k)
		}
	}
	if got := Kind(200).String(); !strings.HasPrefix(got, "UNKNOWN") {
		t.Errorf("undefined kind String() = %q", got)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		code  int
		kind  Kind
		upper bool
	}{
		{'h', KindMoveH, false},
		{'H', KindMoveH, true},
		{'j', KindMoveJ, false},
		{'K', KindMoveK, true},
		{'l', KindMoveL, false},
		{'a', KindAdd, false},
		{'R', KindReduce, true},
		{'d', KindDropDupe, false},
		{'D', KindDropDupe, true},
		{'s', KindAppend, false},
		{'F', KindCodeboxChange, true},
		{'e', KindEOF, false},
		{'G', KindUserInput, true},
		{'p', KindPrint, false},
		{'x', KindTurn, false},
		{'X', KindTurn, true},
		{'#', KindShebang, false},
		{'q', KindQuit, false},
		{'Q', KindQuit, true},
		{' ', KindDefault, false},
		{'!', KindDefault, false},
		{'z', KindDefault, false},
		{Sentinel, KindDefault, false},
		{-1, KindDefault, false},
		{0x110000, KindDefault, false},
		{0xD800, KindDefault, false},
	}
	for _, tt := range tests {
		c := Decode(tt.code)
		if c.Code != tt.code {
			t.Errorf("Decode(%d).Code = %d", tt.code, c.Code)
		}
		if c.Kind != tt.kind {
			t.Errorf("Decode(%d).Kind = %s, want %s", tt.code, c.Kind, tt.kind)
		}
		if c.Upper() != tt.upper {
			t.Errorf("Decode(%d).Upper() = %v, want %v", tt.code, c.Upper(), tt.upper)
		}
	}
}

func TestMoveLettersSelectDistinctHeadings(t *testing.T) {
	seen := make(map[Heading]rune)
	for _, letter := range "hjkl" {
		k := Decode(int(letter)).Kind
		if !k.IsMove() {
			t.Fatalf("%q is not a move", letter)
		}
		h := moveHeadings[k]
		if prev, dup := seen[h]; dup {
			t.Errorf("%q and %q both select %s", prev, letter, h)
		}
		seen[h] = letter
	}
	if len(seen) != headingCount {
		t.Errorf("move letters cover %d headings, want %d", len(seen), headingCount)
	}
}
