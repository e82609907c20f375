package vm

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Kind is the decoded instruction kind of a cell. The set is closed; any code
// that is not one of the letters below decodes to KindDefault.
type Kind uint8

const (
	KindDefault Kind = iota // Executing it aborts
	KindMoveH               // h/H: heading V3
	KindMoveJ               // j/J: heading V2
	KindMoveK               // k/K: heading V0
	KindMoveL               // l/L: heading V1
	KindAdd                 // a/A: pop, add neighbor code, push
	KindReduce              // r/R: pop, subtract neighbor code, push
	KindDropDupe            // d: duplicate top, D: drop top
	KindAppend              // s/S: push neighbor code
	KindCodeboxChange       // f/F: pop, write into neighbor
	KindEOF                 // e/E: write sentinel into neighbor
	KindUserInput           // g/G: write next input character into neighbor
	KindPrint               // p/P: print neighbor
	KindTurn                // x: turn right if top > 0, X: turn left if top < 0
	KindShebang             // #: divert a leading #! line downward
	KindQuit                // q/Q: stop
)

// Sentinel is the end-of-input value, both on the stack and as a cell code.
const Sentinel = 0

// KindInfo provides metadata about each instruction kind.
type KindInfo struct {
	Name   string // Human-readable name
	Letter rune   // Lowercase letter that decodes to this kind
}

var kindInfoTable = map[Kind]KindInfo{
	KindDefault:       {"DEFAULT", 0},
	KindMoveH:         {"MOVE_H", 'h'},
	KindMoveJ:         {"MOVE_J", 'j'},
	KindMoveK:         {"MOVE_K", 'k'},
	KindMoveL:         {"MOVE_L", 'l'},
	KindAdd:           {"ADD", 'a'},
	KindReduce:        {"REDUCE", 'r'},
	KindDropDupe:      {"DROP_DUPE", 'd'},
	KindAppend:        {"APPEND", 's'},
	KindCodeboxChange: {"CODEBOX_CHANGE", 'f'},
	KindEOF:           {"EOF", 'e'},
	KindUserInput:     {"USER_INPUT", 'g'},
	KindPrint:         {"PRINT", 'p'},
	KindTurn:          {"TURN", 'x'},
	KindShebang:       {"SHEBANG", '#'},
	KindQuit:          {"QUIT", 'q'},
}

// letterKinds is the decode table, built from kindInfoTable.
var letterKinds = func() map[rune]Kind {
	m := make(map[rune]Kind, len(kindInfoTable))
	for k, info := range kindInfoTable {
		if info.Letter != 0 {
			m[info.Letter] = k
		}
	}
	return m
}()

// moveHeadings maps the movement kinds to the heading they select.
var moveHeadings = map[Kind]Heading{
	KindMoveH: V3,
	KindMoveJ: V2,
	KindMoveK: V0,
	KindMoveL: V1,
}

// GetKindInfo returns metadata for a kind.
func GetKindInfo(k Kind) KindInfo {
	if info, ok := kindInfoTable[k]; ok {
		return info
	}
	return KindInfo{Name: fmt.Sprintf("UNKNOWN(%d)", uint8(k))}
}

func (k Kind) String() string {
	return GetKindInfo(k).Name
}

// IsMove reports whether k is one of the four movement kinds.
func (k Kind) IsMove() bool {
	_, ok := moveHeadings[k]
	return ok
}

// AllKinds returns every defined kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(kindInfoTable))
	for k := KindDefault; k <= KindQuit; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Cell is one codebox entry: the raw character code and its decoded kind.
type Cell struct {
	Code int
	Kind Kind
}

// Space is the padding cell.
var Space = Decode(' ')

// Decode turns a character code into a cell. The kind ignores letter case;
// codes that are not valid characters decode to KindDefault.
func Decode(code int) Cell {
	c := Cell{Code: code, Kind: KindDefault}
	r, ok := codeRune(code)
	if !ok {
		return c
	}
	if k, found := letterKinds[unicode.ToLower(r)]; found {
		c.Kind = k
	}
	return c
}

// Upper reports whether the cell selects the uppercase behavior.
func (c Cell) Upper() bool {
	r, ok := codeRune(c.Code)
	return ok && unicode.IsUpper(r)
}

// Rune returns the character for the cell code, if it has one.
func (c Cell) Rune() (rune, bool) {
	return codeRune(c.Code)
}

func (c Cell) String() string {
	if r, ok := codeRune(c.Code); ok && unicode.IsPrint(r) {
		return fmt.Sprintf("%q %s", r, c.Kind)
	}
	return fmt.Sprintf("#%d %s", c.Code, c.Kind)
}

func codeRune(code int) (rune, bool) {
	if code < 0 || code > utf8.MaxRune {
		return 0, false
	}
	r := rune(code)
	return r, utf8.ValidRune(r)
}
