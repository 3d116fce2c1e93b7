// Package render draws plain-text frames of the document for the console
// front end: a title line, the buffer with right-aligned line numbers, and a
// marker row that places a ^ under the cursor cell.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Andy-177/ve/internal/session"
)

// Console renders session views to a writer, one frame per applied command.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Render writes one frame. Writer errors are dropped: rendering is a side
// effect and never fails the command that triggered it.
func (c *Console) Render(v session.View) {
	var b strings.Builder
	b.WriteString("-- " + Title(v.Path, v.Dirty) + " --\n")
	digits := len(strconv.Itoa(len(v.Lines)))
	for i, line := range v.Lines {
		fmt.Fprintf(&b, "%*d %s\n", digits, i+1, line)
		if i == v.Cursor.Row {
			b.WriteString(markerRow(digits, line, v.Cursor.Col))
		}
	}
	io.WriteString(c.w, b.String())
}

// Title is the document label shared by both front ends: the base file name
// with a trailing * while there are unsaved changes, or "untitled" before a
// document is open.
func Title(path string, dirty bool) string {
	name := "untitled"
	if path != "" {
		name = filepath.Base(path)
	}
	if dirty {
		name += "*"
	}
	return name
}

// markerRow blanks the gutter and puts ^ under the display cell of the
// cursor column. Widths are display cells, not runes, so the marker stays
// aligned under wide characters.
func markerRow(digits int, line string, col int) string {
	runes := []rune(line)
	if col > len(runes) {
		col = len(runes)
	}
	pad := digits + 1 + runewidth.StringWidth(string(runes[:col]))
	return strings.Repeat(" ", pad) + "^\n"
}
