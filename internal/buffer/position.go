package buffer

// Position addresses a point in the document by (row, col), both 0-based and
// counted in runes. Col may equal the row's length: the cursor then sits
// after the last rune of the line.
type Position struct {
	Row int
	Col int
}

// Compare orders positions in document order: -1 when p is before q, 0 when
// equal, 1 when p is after q.
func (p Position) Compare(q Position) int {
	if p.Row != q.Row {
		if p.Row < q.Row {
			return -1
		}
		return 1
	}
	if p.Col != q.Col {
		if p.Col < q.Col {
			return -1
		}
		return 1
	}
	return 0
}

// Span is a half-open range [Start, End) in document order. The command
// surface speaks 1-based inclusive coordinates; by the time a Span exists the
// end column has already been converted to its exclusive form.
type Span struct {
	Start Position
	End   Position
}

// SameRow reports whether the span begins and ends on one line.
func (s Span) SameRow() bool {
	return s.Start.Row == s.End.Row
}
