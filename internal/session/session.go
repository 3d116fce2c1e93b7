// Package session binds one open document, its cursor, and its clipboard,
// and applies decoded commands to them. A session is Inactive until open
// succeeds and returns to Inactive on quit; editing commands outside an
// active session fail without touching anything.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/Andy-177/ve/internal/buffer"
	"github.com/Andy-177/ve/internal/clipboard"
	"github.com/Andy-177/ve/internal/command"
	"github.com/Andy-177/ve/internal/logger"
	"github.com/Andy-177/ve/internal/storage"
)

var (
	// ErrNoDocument reports an editing command while no document is open.
	ErrNoDocument = errors.New("no open document")
	// ErrEmptyClipboard reports paste with nothing copied.
	ErrEmptyClipboard = errors.New("clipboard is empty")
)

// View is a renderer's snapshot of session state after a command. Lines is a
// fresh copy; holding on to it is safe.
type View struct {
	Path           string
	Lines          []string
	Cursor         buffer.Position
	ClipboardEmpty bool
	Dirty          bool
}

// Renderer receives a View after every successful command while the session
// stays active. Rendering cannot fail a command.
type Renderer interface {
	Render(View)
}

// Session owns the document state. All access goes through the mutex, so at
// most one command is in flight at a time and the dirty probe may run from
// another goroutine.
type Session struct {
	mu sync.Mutex

	store    storage.Store
	renderer Renderer

	active bool
	path   string
	buf    *buffer.Buffer
	cursor buffer.Position
	clip   *clipboard.Clipboard
	saved  string // buffer text at the last load or save
}

// New returns an inactive session backed by store.
func New(store storage.Store) *Session {
	return &Session{
		store: store,
		buf:   buffer.New(),
		clip:  clipboard.New(),
	}
}

// SetRenderer registers the renderer notified after successful commands. A
// nil renderer disables notification.
func (s *Session) SetRenderer(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer = r
}

// Apply executes one decoded command. A failing command leaves the buffer,
// cursor, and clipboard exactly as they were and returns the reason.
func (s *Session) Apply(cmd command.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyLocked(cmd); err != nil {
		logger.Debug("command failed", "command", fmt.Sprintf("%T", cmd), "error", err)
		return err
	}
	if s.active && s.renderer != nil {
		s.renderer.Render(s.viewLocked())
	}
	return nil
}

func (s *Session) applyLocked(cmd command.Command) error {
	switch c := cmd.(type) {
	case command.Open:
		return s.open(c.Path)
	case command.Move:
		return s.move(c.Dir, c.Count)
	case command.MoveEdge:
		return s.moveEdge(c.To)
	case command.Jump:
		return s.jump(c.Line)
	case command.JumpEdge:
		return s.jumpEdge(c.To)
	case command.Break:
		return s.breakLine()
	case command.Write:
		return s.write(c.Text)
	case command.Space:
		return s.write(strings.Repeat(" ", c.Count))
	case command.Delete:
		return s.deleteBack(c.Count)
	case command.DeleteRange:
		return s.deleteRange(c.Range)
	case command.Copy:
		return s.copyText(c.Range)
	case command.Paste:
		return s.paste(c.Range)
	case command.Save:
		return s.save(c.Path)
	case command.Quit:
		s.quit()
		return nil
	case command.SaveQuit:
		return s.saveQuit()
	}
	return fmt.Errorf("%w: %T", command.ErrUnknownCommand, cmd)
}

// open loads path, or starts an empty document when the file is missing.
// The cursor returns to the origin and the clipboard is cleared.
func (s *Session) open(path string) error {
	lines, err := s.store.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		lines = []string{""}
		logger.Info("new document", "path", path)
	case err != nil:
		return err
	default:
		logger.Info("document opened", "path", path, "lines", len(lines))
	}
	s.active = true
	s.path = path
	s.buf = buffer.FromLines(lines)
	s.cursor = buffer.Position{}
	s.clip.Clear()
	s.saved = s.buf.Text()
	return nil
}

func (s *Session) move(dir command.Direction, count int) error {
	if !s.active {
		return ErrNoDocument
	}
	col := s.cursor.Col
	if dir == command.Left {
		col -= count
	} else {
		col += count
	}
	if col < 0 {
		col = 0
	}
	if max := s.buf.LineLen(s.cursor.Row); col > max {
		col = max
	}
	s.cursor.Col = col
	return nil
}

func (s *Session) moveEdge(to command.Edge) error {
	if !s.active {
		return ErrNoDocument
	}
	if to == command.Start {
		s.cursor.Col = 0
	} else {
		s.cursor.Col = s.buf.LineLen(s.cursor.Row)
	}
	return nil
}

// jump moves to a 1-based line. The column carries over when it still fits
// on the target line and is cut to the line length when it does not.
func (s *Session) jump(line int) error {
	if !s.active {
		return ErrNoDocument
	}
	if line < 1 || line > s.buf.LineCount() {
		return fmt.Errorf("%w: line %d outside 1..%d", buffer.ErrOutOfRange, line, s.buf.LineCount())
	}
	s.cursor.Row = line - 1
	if max := s.buf.LineLen(s.cursor.Row); s.cursor.Col > max {
		s.cursor.Col = max
	}
	return nil
}

func (s *Session) jumpEdge(to command.Edge) error {
	if !s.active {
		return ErrNoDocument
	}
	row := 0
	if to == command.End {
		row = s.buf.LineCount() - 1
	}
	s.cursor.Row = row
	if max := s.buf.LineLen(row); s.cursor.Col > max {
		s.cursor.Col = max
	}
	return nil
}

func (s *Session) breakLine() error {
	if !s.active {
		return ErrNoDocument
	}
	s.cursor = s.buf.SplitLine(s.cursor)
	return nil
}

func (s *Session) write(text string) error {
	if !s.active {
		return ErrNoDocument
	}
	s.cursor = s.buf.InsertText(s.cursor, text)
	return nil
}

func (s *Session) deleteBack(count int) error {
	if !s.active {
		return ErrNoDocument
	}
	pos, err := s.buf.DeleteBackward(s.cursor, count)
	if err != nil {
		return err
	}
	s.cursor = pos
	return nil
}

func (s *Session) deleteRange(arg command.SpanArg) error {
	if !s.active {
		return ErrNoDocument
	}
	if arg.IsAll() {
		s.buf.Reset()
		s.cursor = buffer.Position{}
		return nil
	}
	span, err := arg.Resolve(s.buf, s.cursor)
	if err != nil {
		return err
	}
	s.buf.DeleteSpan(span)
	s.cursor = span.Start
	return nil
}

func (s *Session) copyText(arg *command.SpanArg) error {
	if !s.active {
		return ErrNoDocument
	}
	if arg == nil {
		s.clip.Set(s.buf.Text())
		return nil
	}
	span, err := arg.Resolve(s.buf, s.cursor)
	if err != nil {
		return err
	}
	s.clip.Set(s.buf.TextIn(span))
	return nil
}

func (s *Session) paste(arg *command.SpanArg) error {
	if !s.active {
		return ErrNoDocument
	}
	if arg != nil {
		return s.cutPaste(*arg)
	}
	if s.clip.Empty() {
		return ErrEmptyClipboard
	}
	s.cursor = s.buf.InsertBlock(s.cursor, s.clip.Segments())
	return nil
}

// cutPaste removes the range, stores the text in the clipboard, and puts the
// same text straight back at the collapsed start. The document content is
// unchanged on purpose; the clipboard and the cursor are the real effects.
func (s *Session) cutPaste(arg command.SpanArg) error {
	span, err := arg.Resolve(s.buf, s.cursor)
	if err != nil {
		return err
	}
	s.clip.Set(s.buf.DeleteSpan(span))
	s.cursor = s.buf.InsertBlock(span.Start, s.clip.Segments())
	return nil
}

// save persists the buffer, to path when given (save-as: the session's file
// identity moves with it), else to the open file.
func (s *Session) save(path string) error {
	if !s.active {
		return ErrNoDocument
	}
	target := s.path
	if path != "" {
		target = path
	}
	text := s.buf.Text()
	if err := s.store.Save(target, text); err != nil {
		logger.Error("save failed", "path", target, "error", err)
		return err
	}
	s.path = target
	s.saved = text
	logger.Info("document saved", "path", target, "bytes", len(text))
	return nil
}

// quit drops the document, cursor, clipboard, and file identity. Allowed
// while inactive so a front end can always exit.
func (s *Session) quit() {
	s.active = false
	s.path = ""
	s.buf = buffer.New()
	s.cursor = buffer.Position{}
	s.clip.Clear()
	s.saved = ""
	logger.Debug("session closed")
}

// saveQuit saves and then quits. A save failure keeps the session active;
// with nothing open there is nothing to save and it degrades to quit.
func (s *Session) saveQuit() error {
	if s.active {
		if err := s.save(""); err != nil {
			return err
		}
	}
	s.quit()
	return nil
}

// Active reports whether a document is open.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Path returns the open file identity, empty while inactive.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Clipboard returns the current clipboard text.
func (s *Session) Clipboard() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clip.Text()
}

// Dirty reports whether the buffer differs from its last loaded or saved
// image. Safe to call from the poll goroutine.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

// Snapshot returns the current view without applying a command.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		Path:           s.path,
		Lines:          s.buf.Lines(),
		Cursor:         s.cursor,
		ClipboardEmpty: s.clip.Empty(),
		Dirty:          s.dirtyLocked(),
	}
}

func (s *Session) dirtyLocked() bool {
	return s.active && s.buf.Text() != s.saved
}
