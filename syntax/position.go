package syntax

import "fmt"

// Position represents a line/column position in source text
// Uses LSP conventions: 1-based line numbers, 0-based character offsets
type Position struct {
	Line      int `json:"line" yaml:"line"`           // 1-based line number
	Character int `json:"character" yaml:"character"` // 0-based character offset within line
	Offset    int `json:"offset" yaml:"offset"`       // 0-based byte offset in entire source
}

// String renders the position as line:column with a 1-based column, the way
// compilers print locations.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character+1)
}

// Range represents a source code span from start to end position
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// positionTracker maintains line/column/offset state during tokenization
type positionTracker struct {
	line      int
	character int
	offset    int
}

func newPositionTracker() *positionTracker {
	return &positionTracker{line: 1}
}

// advance updates position after consuming one rune of width n bytes
func (pt *positionTracker) advance(r rune, n int) {
	if r == '\n' {
		pt.line++
		pt.character = 0
	} else {
		pt.character++
	}
	pt.offset += n
}

func (pt *positionTracker) mark() Position {
	return Position{Line: pt.line, Character: pt.character, Offset: pt.offset}
}
