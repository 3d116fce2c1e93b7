package command

import (
	"fmt"

	"github.com/Andy-177/ve/internal/buffer"
)

// SpanArg is a range argument exactly as the user typed it: 1-based
// coordinates with an inclusive end column. Resolve validates it against a
// buffer and yields the half-open internal span, so copy, del range, and
// paste range all reject an invalid range identically.
type SpanArg struct {
	form     spanForm
	startRow int
	startCol int
	endRow   int
	endCol   int
}

type spanForm int

const (
	spanAll     spanForm = iota // the literal "all"
	spanColumns                 // c1 c2, on the cursor's row
	spanCells                   // r1,c1 r2,c2
)

// IsAll reports whether the argument was the whole-buffer sentinel.
func (a SpanArg) IsAll() bool { return a.form == spanAll }

// Resolve validates the argument against buf and converts it to a half-open
// span. The cursor supplies the row for the two-column shorthand. Column and
// row violations return ErrOutOfRange; nothing is ever clamped here — an end
// column past the line is rejected on both the shorthand and cell paths.
func (a SpanArg) Resolve(buf *buffer.Buffer, cursor buffer.Position) (buffer.Span, error) {
	switch a.form {
	case spanAll:
		return buf.All(), nil

	case spanColumns:
		return resolveColumns(buf, cursor.Row, a.startCol, a.endCol)

	case spanCells:
		if a.startRow < 1 || a.startRow > a.endRow || a.endRow > buf.LineCount() {
			return buffer.Span{}, fmt.Errorf("%w: rows %d..%d outside 1..%d",
				buffer.ErrOutOfRange, a.startRow, a.endRow, buf.LineCount())
		}
		if a.startRow == a.endRow {
			return resolveColumns(buf, a.startRow-1, a.startCol, a.endCol)
		}
		startRow, endRow := a.startRow-1, a.endRow-1
		if a.startCol < 1 || a.startCol-1 > buf.LineLen(startRow) {
			return buffer.Span{}, fmt.Errorf("%w: column %d outside line %d",
				buffer.ErrOutOfRange, a.startCol, a.startRow)
		}
		if a.endCol < 1 || a.endCol-1 >= buf.LineLen(endRow) {
			return buffer.Span{}, fmt.Errorf("%w: column %d outside line %d",
				buffer.ErrOutOfRange, a.endCol, a.endRow)
		}
		return buffer.Span{
			Start: buffer.Position{Row: startRow, Col: a.startCol - 1},
			End:   buffer.Position{Row: endRow, Col: a.endCol},
		}, nil
	}
	return buffer.Span{}, fmt.Errorf("%w: unresolved range form", ErrInvalidArgument)
}

// resolveColumns applies the single-row rule: both columns 1-based, start no
// greater than end, and the inclusive end must address a rune on the line.
func resolveColumns(buf *buffer.Buffer, row, startCol, endCol int) (buffer.Span, error) {
	if startCol < 1 || startCol > endCol || endCol-1 >= buf.LineLen(row) {
		return buffer.Span{}, fmt.Errorf("%w: columns %d..%d outside line %d",
			buffer.ErrOutOfRange, startCol, endCol, row+1)
	}
	return buffer.Span{
		Start: buffer.Position{Row: row, Col: startCol - 1},
		End:   buffer.Position{Row: row, Col: endCol},
	}, nil
}
