package tui

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/Andy-177/ve/internal/command"
	"github.com/Andy-177/ve/internal/config"
	"github.com/Andy-177/ve/internal/session"
	"github.com/Andy-177/ve/internal/storage"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

// newTestUI opens a document seeded with lines (or a missing file when none
// are given) and returns the UI, its session, and the file path.
func newTestUI(t *testing.T, lines ...string) (*UI, *session.Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "x.txt")
	if len(lines) > 0 {
		if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	sess := session.New(storage.Disk{})
	if err := sess.Apply(command.Open{Path: path}); err != nil {
		t.Fatalf("open: %v", err)
	}
	return New(sess, config.Default()), sess, path
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func typeString(ui *UI, s string) {
	for _, r := range s {
		ui.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func screenRow(t *testing.T, s tcell.SimulationScreen, y int) string {
	t.Helper()
	cells, w, h := s.GetContents()
	if y >= h {
		t.Fatalf("row %d beyond screen height %d", y, h)
	}
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) > 0 {
			b.WriteString(string(c.Runes))
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func TestRenderTitleAndDirtyStar(t *testing.T) {
	ui, sess, _ := newTestUI(t, "abc")
	s := newSimScreen(t, 30, 8)

	ui.Render(s)
	row := screenRow(t, s, 0)
	if !strings.Contains(row, "x.txt") || strings.Contains(row, "*") {
		t.Fatalf("title row = %q, want clean x.txt", row)
	}

	if err := sess.Apply(command.Write{Text: "!"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	ui.Render(s)
	if row := screenRow(t, s, 0); !strings.Contains(row, "x.txt*") {
		t.Fatalf("title row = %q, want x.txt*", row)
	}
}

func TestRenderLineNumbersAndText(t *testing.T) {
	ui, _, _ := newTestUI(t, "alpha", "beta")
	s := newSimScreen(t, 20, 6)

	ui.Render(s)
	if row := screenRow(t, s, 1); row != "  1 alpha" {
		t.Fatalf("row 1 = %q, want %q", row, "  1 alpha")
	}
	if row := screenRow(t, s, 2); row != "  2 beta" {
		t.Fatalf("row 2 = %q, want %q", row, "  2 beta")
	}
	if row := screenRow(t, s, 3); row != "" {
		t.Fatalf("row 3 = %q, want blank", row)
	}
}

func TestRenderHardwareCursorOnBufferCell(t *testing.T) {
	ui, sess, _ := newTestUI(t, "abc")
	s := newSimScreen(t, 20, 6)

	if err := sess.Apply(command.Move{Dir: command.Right, Count: 2}); err != nil {
		t.Fatalf("move: %v", err)
	}
	ui.Render(s)
	x, y, visible := s.GetCursor()
	if !visible {
		t.Fatal("cursor not visible")
	}
	// Gutter is 4 cells wide for a one-digit line count.
	if x != 6 || y != 1 {
		t.Fatalf("cursor = (%d, %d), want (6, 1)", x, y)
	}
}

func TestCommandLineEchoAndCursor(t *testing.T) {
	ui, _, _ := newTestUI(t, "abc")
	s := newSimScreen(t, 30, 8)

	ui.HandleKey(key(tcell.KeyCtrlT))
	typeString(ui, "line 1")
	ui.Render(s)

	if row := screenRow(t, s, 7); row != "> line 1" {
		t.Fatalf("command row = %q, want %q", row, "> line 1")
	}
	x, y, visible := s.GetCursor()
	if !visible || x != len("> line 1") || y != 7 {
		t.Fatalf("cursor = (%d, %d, %v), want (%d, 7, true)", x, y, visible, len("> line 1"))
	}
}

func TestEscapeHidesCommandLine(t *testing.T) {
	ui, _, _ := newTestUI(t, "abc")
	s := newSimScreen(t, 30, 8)

	ui.HandleKey(key(tcell.KeyCtrlT))
	typeString(ui, "abc")
	ui.HandleKey(key(tcell.KeyEscape))
	if ui.cmdVisible {
		t.Fatal("command line still visible after escape")
	}
	ui.Render(s)
	if row := screenRow(t, s, 7); row != "" {
		t.Fatalf("command row = %q, want blank", row)
	}
}

func TestCommandLineEditingKeys(t *testing.T) {
	ui, _, _ := newTestUI(t, "abc")

	ui.HandleKey(key(tcell.KeyCtrlT))
	typeString(ui, "xopen")
	ui.HandleKey(key(tcell.KeyHome))
	ui.HandleKey(key(tcell.KeyDelete))
	ui.HandleKey(key(tcell.KeyEnd))
	typeString(ui, " f")
	if got := string(ui.cmdInput); got != "open f" {
		t.Fatalf("input = %q, want %q", got, "open f")
	}

	ui.HandleKey(key(tcell.KeyBackspace2))
	ui.HandleKey(key(tcell.KeyBackspace2))
	if got := string(ui.cmdInput); got != "open" {
		t.Fatalf("input = %q, want %q", got, "open")
	}

	ui.HandleKey(key(tcell.KeyCtrlU))
	if len(ui.cmdInput) != 0 || ui.cmdCursor != 0 {
		t.Fatalf("input not cleared: %q cursor %d", string(ui.cmdInput), ui.cmdCursor)
	}
}

func TestSubmitReportsUnknownCommand(t *testing.T) {
	ui, _, _ := newTestUI(t, "abc")

	ui.HandleKey(key(tcell.KeyCtrlT))
	typeString(ui, "frobnicate")
	if exit := ui.HandleKey(key(tcell.KeyEnter)); exit {
		t.Fatal("unknown command ended the application")
	}
	if !strings.Contains(ui.status, "unknown command") {
		t.Fatalf("status = %q, want unknown command report", ui.status)
	}
	if len(ui.cmdInput) != 0 {
		t.Fatalf("input not cleared after submit: %q", string(ui.cmdInput))
	}
	if !ui.cmdVisible {
		t.Fatal("command line closed by a failed command")
	}
}

func TestSubmitOpenReportsAndKeepsBox(t *testing.T) {
	ui, sess, _ := newTestUI(t, "abc")
	other := filepath.Join(t.TempDir(), "other.txt")

	ui.HandleKey(key(tcell.KeyCtrlT))
	typeString(ui, "open "+other)
	if exit := ui.HandleKey(key(tcell.KeyEnter)); exit {
		t.Fatal("open ended the application")
	}
	if ui.status != "opened "+other {
		t.Fatalf("status = %q, want opened %s", ui.status, other)
	}
	if !ui.cmdVisible {
		t.Fatal("command line closed after open")
	}
	if sess.Path() != other {
		t.Fatalf("session path = %q, want %q", sess.Path(), other)
	}
}

func TestSubmitQuitEndsApplication(t *testing.T) {
	ui, sess, _ := newTestUI(t, "abc")

	ui.HandleKey(key(tcell.KeyCtrlT))
	typeString(ui, "quit")
	if exit := ui.HandleKey(key(tcell.KeyEnter)); !exit {
		t.Fatal("quit did not end the application")
	}
	if sess.Active() {
		t.Fatal("session still active after quit")
	}
}

func TestCtrlQQuitsWithoutSaving(t *testing.T) {
	ui, sess, path := newTestUI(t)
	if err := sess.Apply(command.Write{Text: "hi"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if exit := ui.HandleKey(key(tcell.KeyCtrlQ)); !exit {
		t.Fatal("ctrl+q did not end the application")
	}
	if sess.Active() {
		t.Fatal("session still active")
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ctrl+q wrote the file: stat err = %v", err)
	}
}

func TestCtrlXSavesAndQuits(t *testing.T) {
	ui, sess, path := newTestUI(t)
	if err := sess.Apply(command.Write{Text: "hi"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if exit := ui.HandleKey(key(tcell.KeyCtrlX)); !exit {
		t.Fatal("ctrl+x did not end the application")
	}
	if sess.Active() {
		t.Fatal("session still active")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hi" {
		t.Fatalf("file = %q, want %q", data, "hi")
	}
}

type failingStore struct {
	err error
}

func (f failingStore) Load(string) ([]string, error) { return nil, fs.ErrNotExist }
func (f failingStore) Save(string, string) error     { return f.err }

func TestCtrlXStaysOnSaveFailure(t *testing.T) {
	sess := session.New(failingStore{err: errors.New("disk full")})
	if err := sess.Apply(command.Open{Path: "doomed.txt"}); err != nil {
		t.Fatalf("open: %v", err)
	}
	ui := New(sess, config.Default())

	if exit := ui.HandleKey(key(tcell.KeyCtrlX)); exit {
		t.Fatal("ctrl+x ended the application despite the failed save")
	}
	if !strings.Contains(ui.status, "disk full") {
		t.Fatalf("status = %q, want save failure report", ui.status)
	}
	if !sess.Active() {
		t.Fatal("session closed despite the failed save")
	}
}

func TestCtrlSSavesAndClearsStar(t *testing.T) {
	ui, sess, path := newTestUI(t)
	s := newSimScreen(t, 30, 8)
	if err := sess.Apply(command.Write{Text: "hi"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	if exit := ui.HandleKey(key(tcell.KeyCtrlS)); exit {
		t.Fatal("ctrl+s ended the application")
	}
	if ui.status != "saved "+path {
		t.Fatalf("status = %q, want saved %s", ui.status, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hi" {
		t.Fatalf("file = %q, want %q", data, "hi")
	}
	ui.Render(s)
	if row := screenRow(t, s, 0); strings.Contains(row, "*") {
		t.Fatalf("title row = %q, want no dirty star after save", row)
	}
}

func TestArrowNavigation(t *testing.T) {
	ui, sess, _ := newTestUI(t, "abcd", "xy")

	ui.HandleKey(key(tcell.KeyRight))
	if c := sess.Snapshot().Cursor; c.Row != 0 || c.Col != 1 {
		t.Fatalf("after right: cursor = %+v", c)
	}
	ui.HandleKey(key(tcell.KeyDown))
	if c := sess.Snapshot().Cursor; c.Row != 1 || c.Col != 1 {
		t.Fatalf("after down: cursor = %+v", c)
	}
	ui.HandleKey(key(tcell.KeyDown)) // already on the last line
	if c := sess.Snapshot().Cursor; c.Row != 1 {
		t.Fatalf("down at bottom moved to row %d", c.Row)
	}
	ui.HandleKey(key(tcell.KeyUp))
	ui.HandleKey(key(tcell.KeyUp)) // already on the first line
	if c := sess.Snapshot().Cursor; c.Row != 0 || c.Col != 1 {
		t.Fatalf("after ups: cursor = %+v", c)
	}
	ui.HandleKey(key(tcell.KeyEnd))
	if c := sess.Snapshot().Cursor; c.Col != 4 {
		t.Fatalf("after end: cursor = %+v", c)
	}
	ui.HandleKey(key(tcell.KeyHome))
	if c := sess.Snapshot().Cursor; c.Col != 0 {
		t.Fatalf("after home: cursor = %+v", c)
	}
}

func tenLines() []string {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "line " + strconv.Itoa(i+1)
	}
	return lines
}

func TestWheelScrollsViewNotCursor(t *testing.T) {
	ui, sess, _ := newTestUI(t, tenLines()...)
	s := newSimScreen(t, 20, 6) // three text rows

	ui.Render(s)
	if row := screenRow(t, s, 1); !strings.HasPrefix(row, "  1 ") {
		t.Fatalf("row 1 = %q, want line 1", row)
	}

	ui.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	ui.Render(s)
	if row := screenRow(t, s, 1); !strings.HasPrefix(row, "  4 ") {
		t.Fatalf("row 1 after wheel = %q, want line 4", row)
	}
	if c := sess.Snapshot().Cursor; c.Row != 0 {
		t.Fatalf("wheel moved the cursor to row %d", c.Row)
	}
	if _, _, visible := s.GetCursor(); visible {
		t.Fatal("cursor drawn while scrolled out of view")
	}

	// Any key snaps the view back to the cursor.
	ui.HandleKey(key(tcell.KeyRight))
	ui.Render(s)
	if row := screenRow(t, s, 1); !strings.HasPrefix(row, "  1 ") {
		t.Fatalf("row 1 after key = %q, want line 1", row)
	}
}

func TestScrollFollowsCursor(t *testing.T) {
	ui, sess, _ := newTestUI(t, tenLines()...)
	s := newSimScreen(t, 20, 6)

	if err := sess.Apply(command.Jump{Line: 10}); err != nil {
		t.Fatalf("jump: %v", err)
	}
	ui.Render(s)
	if row := screenRow(t, s, 3); !strings.HasPrefix(row, " 10 ") {
		t.Fatalf("bottom row = %q, want line 10", row)
	}
	x, y, visible := s.GetCursor()
	if !visible || y != 3 || x != 4 {
		t.Fatalf("cursor = (%d, %d, %v), want (4, 3, true)", x, y, visible)
	}
}

func TestInactiveRenderIsBlank(t *testing.T) {
	sess := session.New(storage.Disk{})
	ui := New(sess, config.Default())
	s := newSimScreen(t, 40, 6)

	ui.Render(s)
	if row := screenRow(t, s, 0); !strings.Contains(row, "untitled") {
		t.Fatalf("title row = %q, want untitled", row)
	}
	if row := screenRow(t, s, 1); row != "" {
		t.Fatalf("text row = %q, want blank", row)
	}
	if row := screenRow(t, s, 4); !strings.Contains(row, "Ctrl+T") {
		t.Fatalf("status row = %q, want the command-line hint", row)
	}
	if _, _, visible := s.GetCursor(); visible {
		t.Fatal("cursor visible with no document")
	}
}
