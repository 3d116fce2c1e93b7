// Package command decodes the editor's textual command language.
//
// Each command is one line: a verb plus arguments, with 1-based coordinates
// at the surface. Parse turns a line into exactly one Command variant with
// its argument shape validated; coordinate bounds are checked at apply time
// against the live buffer.
package command

// Command is one decoded editor command. The concrete types below form the
// closed set of variants; the session dispatches on them with a type switch.
type Command interface{ isCommand() }

// Direction selects which way a horizontal cursor move goes.
type Direction int

const (
	Left Direction = iota
	Right
)

// Edge names the two ends reachable with the start/end keywords, both for
// in-line moves and for line jumps.
type Edge int

const (
	Start Edge = iota
	End
)

// Open loads path into the session, starting a new empty document when the
// file does not exist.
type Open struct{ Path string }

// Move shifts the cursor Count columns in Dir, clamped to the current line.
type Move struct {
	Dir   Direction
	Count int
}

// MoveEdge puts the cursor at the start or end of the current line.
type MoveEdge struct{ To Edge }

// Jump moves the cursor to a 1-based line number, keeping the column when it
// still fits on the target line.
type Jump struct{ Line int }

// JumpEdge moves the cursor to the first or last line.
type JumpEdge struct{ To Edge }

// Break splits the current line at the cursor.
type Break struct{}

// Write inserts literal text at the cursor.
type Write struct{ Text string }

// Space inserts Count spaces at the cursor.
type Space struct{ Count int }

// Delete removes up to Count characters before the cursor.
type Delete struct{ Count int }

// DeleteRange removes a range from the buffer.
type DeleteRange struct{ Range SpanArg }

// Copy captures the whole buffer (Range nil) or a range into the clipboard.
type Copy struct{ Range *SpanArg }

// Paste inserts the clipboard at the cursor (Range nil), or cuts Range and
// re-inserts the cut text at the collapsed position.
type Paste struct{ Range *SpanArg }

// Save persists the buffer, to Path when given, else to the open file.
type Save struct{ Path string }

// Quit closes the session without saving.
type Quit struct{}

// SaveQuit saves and then closes the session.
type SaveQuit struct{}

func (Open) isCommand()        {}
func (Move) isCommand()        {}
func (MoveEdge) isCommand()    {}
func (Jump) isCommand()        {}
func (JumpEdge) isCommand()    {}
func (Break) isCommand()       {}
func (Write) isCommand()       {}
func (Space) isCommand()       {}
func (Delete) isCommand()      {}
func (DeleteRange) isCommand() {}
func (Copy) isCommand()        {}
func (Paste) isCommand()       {}
func (Save) isCommand()        {}
func (Quit) isCommand()        {}
func (SaveQuit) isCommand()    {}
