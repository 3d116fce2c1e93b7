// Package buffer holds the line-oriented document model: an ordered sequence
// of rune slices mutated only through splice operations. The buffer never
// holds fewer than one line; an empty document is a single empty line.
package buffer

import (
	"errors"
	"strings"
)

var (
	// ErrOutOfRange reports a row, column, or span endpoint outside the
	// document bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrStartOfBuffer reports a backward delete at the very start of the
	// document, where there is nothing to remove and no line to join.
	ErrStartOfBuffer = errors.New("start of buffer")
)

// Buffer is the in-memory document: one rune slice per line, insertion order
// is document order.
type Buffer struct {
	lines [][]rune
}

// New returns a buffer holding a single empty line.
func New() *Buffer {
	return &Buffer{lines: [][]rune{{}}}
}

// FromLines builds a buffer from already-split lines. An empty slice yields
// the single-empty-line document.
func FromLines(lines []string) *Buffer {
	if len(lines) == 0 {
		return New()
	}
	b := &Buffer{lines: make([][]rune, len(lines))}
	for i, s := range lines {
		b.lines[i] = []rune(s)
	}
	return b
}

// FromText splits text on line breaks, normalizing CRLF first.
func FromText(text string) *Buffer {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return FromLines(strings.Split(text, "\n"))
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineLen returns the rune length of the given row, 0 for rows outside the
// buffer.
func (b *Buffer) LineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

// Line returns the text of the given row, "" for rows outside the buffer.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return string(b.lines[row])
}

// Lines returns a copy of the document as strings.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, line := range b.lines {
		out[i] = string(line)
	}
	return out
}

// Text joins the lines with single line breaks. No trailing terminator is
// added.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(line))
	}
	return sb.String()
}

// End returns the position just past the last rune of the last line.
func (b *Buffer) End() Position {
	row := len(b.lines) - 1
	return Position{Row: row, Col: len(b.lines[row])}
}

// All spans the whole document, offset 0 of the first line through the end of
// the last line.
func (b *Buffer) All() Span {
	return Span{Start: Position{}, End: b.End()}
}

// Clamp forces p into the valid range: 0 <= row < LineCount and
// 0 <= col <= LineLen(row).
func (b *Buffer) Clamp(p Position) Position {
	if p.Row < 0 {
		p.Row = 0
	}
	if p.Row >= len(b.lines) {
		p.Row = len(b.lines) - 1
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if max := len(b.lines[p.Row]); p.Col > max {
		p.Col = max
	}
	return p
}

// Valid reports whether p satisfies the position invariant without clamping.
func (b *Buffer) Valid(p Position) bool {
	return b.Clamp(p) == p
}

// Reset replaces the whole document with a single empty line.
func (b *Buffer) Reset() {
	b.lines = [][]rune{{}}
}

// SplitLine breaks line p.Row in two at p.Col: the head keeps the row, the
// tail becomes a new line immediately after. The returned position is the
// start of the tail line.
func (b *Buffer) SplitLine(p Position) Position {
	p = b.Clamp(p)
	line := b.lines[p.Row]
	head := append([]rune(nil), line[:p.Col]...)
	tail := append([]rune(nil), line[p.Col:]...)

	lines := make([][]rune, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:p.Row]...)
	lines = append(lines, head, tail)
	lines = append(lines, b.lines[p.Row+1:]...)
	b.lines = lines

	return Position{Row: p.Row + 1, Col: 0}
}

// InsertText splices s into line p.Row at p.Col and returns the position
// after the inserted text. s must not contain line breaks; line structure is
// changed only by SplitLine and InsertBlock.
func (b *Buffer) InsertText(p Position, s string) Position {
	p = b.Clamp(p)
	ins := []rune(s)
	line := b.lines[p.Row]
	next := make([]rune, 0, len(line)+len(ins))
	next = append(next, line[:p.Col]...)
	next = append(next, ins...)
	next = append(next, line[p.Col:]...)
	b.lines[p.Row] = next
	return Position{Row: p.Row, Col: p.Col + len(ins)}
}

// InsertBlock splices a multi-segment blob at p. A single segment behaves as
// InsertText. Otherwise line p.Row is cut at p.Col, the first segment is
// appended to the head, interior segments become whole lines, and the tail of
// the original line follows the last segment. Returns the position after the
// last inserted segment.
func (b *Buffer) InsertBlock(p Position, segs []string) Position {
	if len(segs) == 0 {
		return b.Clamp(p)
	}
	if len(segs) == 1 {
		return b.InsertText(p, segs[0])
	}
	p = b.Clamp(p)
	line := b.lines[p.Row]

	first := append([]rune(nil), line[:p.Col]...)
	first = append(first, []rune(segs[0])...)

	lastSeg := []rune(segs[len(segs)-1])
	last := append([]rune(nil), lastSeg...)
	last = append(last, line[p.Col:]...)

	lines := make([][]rune, 0, len(b.lines)+len(segs)-1)
	lines = append(lines, b.lines[:p.Row]...)
	lines = append(lines, first)
	for _, seg := range segs[1 : len(segs)-1] {
		lines = append(lines, []rune(seg))
	}
	lines = append(lines, last)
	lines = append(lines, b.lines[p.Row+1:]...)
	b.lines = lines

	return Position{Row: p.Row + len(segs) - 1, Col: len(lastSeg)}
}

// DeleteBackward removes up to count runes immediately before p on its own
// line. A delete at column 0 instead joins the line onto the previous one,
// regardless of count. At (0,0) the buffer is untouched and ErrStartOfBuffer
// is returned. The returned position is where the cursor lands.
func (b *Buffer) DeleteBackward(p Position, count int) (Position, error) {
	p = b.Clamp(p)
	if p.Col > 0 {
		n := count
		if n > p.Col {
			n = p.Col
		}
		line := b.lines[p.Row]
		next := make([]rune, 0, len(line)-n)
		next = append(next, line[:p.Col-n]...)
		next = append(next, line[p.Col:]...)
		b.lines[p.Row] = next
		return Position{Row: p.Row, Col: p.Col - n}, nil
	}
	if p.Row == 0 {
		return p, ErrStartOfBuffer
	}

	// Join the current line onto the end of the previous one.
	seam := len(b.lines[p.Row-1])
	b.lines[p.Row-1] = append(b.lines[p.Row-1], b.lines[p.Row]...)
	b.lines = append(b.lines[:p.Row], b.lines[p.Row+1:]...)
	return Position{Row: p.Row - 1, Col: seam}, nil
}

// TextIn extracts the text covered by the half-open span without mutating the
// buffer. Lines inside the span are joined with single line breaks.
func (b *Buffer) TextIn(s Span) string {
	s = b.clampSpan(s)
	if s.SameRow() {
		return string(b.lines[s.Start.Row][s.Start.Col:s.End.Col])
	}
	var sb strings.Builder
	sb.WriteString(string(b.lines[s.Start.Row][s.Start.Col:]))
	for row := s.Start.Row + 1; row < s.End.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[row]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[s.End.Row][:s.End.Col]))
	return sb.String()
}

// DeleteSpan removes the half-open span and returns the removed text. When
// the span crosses lines the head of the start line is joined with the tail
// of the end line; interior lines are dropped. The caller's cursor belongs at
// s.Start afterwards.
func (b *Buffer) DeleteSpan(s Span) string {
	s = b.clampSpan(s)
	removed := b.TextIn(s)

	if s.SameRow() {
		line := b.lines[s.Start.Row]
		next := make([]rune, 0, len(line)-(s.End.Col-s.Start.Col))
		next = append(next, line[:s.Start.Col]...)
		next = append(next, line[s.End.Col:]...)
		b.lines[s.Start.Row] = next
		return removed
	}

	head := b.lines[s.Start.Row][:s.Start.Col]
	tail := b.lines[s.End.Row][s.End.Col:]
	merged := make([]rune, 0, len(head)+len(tail))
	merged = append(merged, head...)
	merged = append(merged, tail...)

	lines := make([][]rune, 0, len(b.lines)-(s.End.Row-s.Start.Row))
	lines = append(lines, b.lines[:s.Start.Row]...)
	lines = append(lines, merged)
	lines = append(lines, b.lines[s.End.Row+1:]...)
	b.lines = lines
	return removed
}

func (b *Buffer) clampSpan(s Span) Span {
	s.Start = b.Clamp(s.Start)
	s.End = b.Clamp(s.End)
	if s.Start.Compare(s.End) > 0 {
		s.Start, s.End = s.End, s.Start
	}
	return s
}
