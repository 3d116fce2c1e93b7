// Package tui is the windowed front end: a tcell screen with a title bar,
// a view-only text area with line numbers, a status line, and a command
// input line toggled with Ctrl+T or Ctrl+L.
package tui

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Andy-177/ve/internal/clock"
	"github.com/Andy-177/ve/internal/command"
	"github.com/Andy-177/ve/internal/config"
	"github.com/Andy-177/ve/internal/render"
	"github.com/Andy-177/ve/internal/session"
	"github.com/Andy-177/ve/internal/storage"
	"github.com/Andy-177/ve/internal/watch"
)

// UI draws session state and routes key events to commands. Its methods are
// not safe for concurrent use; Run drives them from one goroutine.
type UI struct {
	session *session.Session
	prompt  []rune

	styleMain    tcell.Style
	styleTitle   tcell.Style
	styleStatus  tcell.Style
	styleLineNum tcell.Style
	styleCmdline tcell.Style

	scroll       int
	followCursor bool
	cmdVisible   bool
	cmdInput     []rune
	cmdCursor    int
	status       string
}

func New(sess *session.Session, cfg config.Config) *UI {
	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorWhite)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorBlack)
	return &UI{
		session: sess,
		prompt:  []rune(cfg.Editor.Prompt),
		styleMain: tcell.StyleDefault.
			Foreground(mainFg).
			Background(mainBg),
		styleTitle: tcell.StyleDefault.
			Foreground(parseColor(cfg.Theme.TitleForeground, mainBg)).
			Background(parseColor(cfg.Theme.TitleBackground, mainFg)),
		styleStatus: tcell.StyleDefault.
			Foreground(parseColor(cfg.Theme.StatusForeground, mainBg)).
			Background(parseColor(cfg.Theme.StatusBackground, mainFg)),
		styleLineNum: tcell.StyleDefault.
			Foreground(parseColor(cfg.Theme.LineNumberForeground, tcell.ColorGray)).
			Background(mainBg),
		styleCmdline: tcell.StyleDefault.
			Foreground(parseColor(cfg.Theme.CommandlineForeground, mainFg)).
			Background(parseColor(cfg.Theme.CommandlineBackground, mainBg)),
		followCursor: true,
		status:       "Ctrl+T opens the command line",
	}
}

// SetStatus replaces the status-line message.
func (u *UI) SetStatus(msg string) {
	u.status = msg
}

// HandleKey consumes one key event and reports whether the application
// should exit.
func (u *UI) HandleKey(ev *tcell.EventKey) bool {
	u.followCursor = true
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		// Exit without saving.
		_ = u.session.Apply(command.Quit{})
		return true
	case tcell.KeyCtrlX:
		if err := u.session.Apply(command.SaveQuit{}); err != nil {
			u.status = err.Error()
			return false
		}
		return true
	case tcell.KeyCtrlS:
		if err := u.session.Apply(command.Save{}); err != nil {
			u.status = err.Error()
		} else {
			u.status = "saved " + u.session.Path()
		}
		return false
	case tcell.KeyCtrlT, tcell.KeyCtrlL:
		u.cmdVisible = !u.cmdVisible
		return false
	}
	if u.cmdVisible {
		return u.handleCommandKey(ev)
	}
	u.handleViewKey(ev)
	return false
}

func (u *UI) handleCommandKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEnter:
		return u.submit()
	case tcell.KeyEscape:
		u.cmdVisible = false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if u.cmdCursor > 0 {
			u.cmdInput = append(u.cmdInput[:u.cmdCursor-1], u.cmdInput[u.cmdCursor:]...)
			u.cmdCursor--
		}
	case tcell.KeyDelete:
		if u.cmdCursor < len(u.cmdInput) {
			u.cmdInput = append(u.cmdInput[:u.cmdCursor], u.cmdInput[u.cmdCursor+1:]...)
		}
	case tcell.KeyLeft, tcell.KeyCtrlB:
		if u.cmdCursor > 0 {
			u.cmdCursor--
		}
	case tcell.KeyRight, tcell.KeyCtrlF:
		if u.cmdCursor < len(u.cmdInput) {
			u.cmdCursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		u.cmdCursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		u.cmdCursor = len(u.cmdInput)
	case tcell.KeyCtrlU:
		u.cmdInput = u.cmdInput[:0]
		u.cmdCursor = 0
	case tcell.KeyRune:
		tail := append([]rune{ev.Rune()}, u.cmdInput[u.cmdCursor:]...)
		u.cmdInput = append(u.cmdInput[:u.cmdCursor], tail...)
		u.cmdCursor++
	}
	return false
}

// submit parses and applies the typed command, reporting the result on the
// status line. It returns true when the command ended the session and the
// application should exit.
func (u *UI) submit() bool {
	line := strings.TrimSpace(string(u.cmdInput))
	u.cmdInput = u.cmdInput[:0]
	u.cmdCursor = 0
	if line == "" {
		return false
	}
	cmd, err := command.Parse(line)
	if err != nil {
		u.status = err.Error()
		return false
	}
	if err := u.session.Apply(cmd); err != nil {
		u.status = err.Error()
		return false
	}
	switch cmd.(type) {
	case command.Quit, command.SaveQuit:
		return true
	case command.Open:
		u.status = "opened " + u.session.Path()
	case command.Save:
		u.status = "saved " + u.session.Path()
	default:
		u.status = ""
	}
	return false
}

// handleViewKey maps navigation keys onto cursor commands while the command
// line is hidden. The text area itself is view-only.
func (u *UI) handleViewKey(ev *tcell.EventKey) {
	if !u.session.Active() {
		return
	}
	v := u.session.Snapshot()
	switch ev.Key() {
	case tcell.KeyLeft:
		_ = u.session.Apply(command.Move{Dir: command.Left, Count: 1})
	case tcell.KeyRight:
		_ = u.session.Apply(command.Move{Dir: command.Right, Count: 1})
	case tcell.KeyUp:
		if v.Cursor.Row > 0 {
			_ = u.session.Apply(command.Jump{Line: v.Cursor.Row})
		}
	case tcell.KeyDown:
		if v.Cursor.Row+1 < len(v.Lines) {
			_ = u.session.Apply(command.Jump{Line: v.Cursor.Row + 2})
		}
	case tcell.KeyHome:
		_ = u.session.Apply(command.MoveEdge{To: command.Start})
	case tcell.KeyEnd:
		_ = u.session.Apply(command.MoveEdge{To: command.End})
	}
}

// HandleMouse scrolls the view without moving the cursor. The next key event
// snaps the view back to the cursor.
func (u *UI) HandleMouse(ev *tcell.EventMouse) {
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		u.scroll -= 3
		u.followCursor = false
	case ev.Buttons()&tcell.WheelDown != 0:
		u.scroll += 3
		u.followCursor = false
	}
}

// Render draws one full frame: title bar, text area, status line, and
// command line.
func (u *UI) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	v := u.session.Snapshot()
	active := v.Path != ""

	u.drawTitle(s, w, v)

	viewHeight := h - 3
	if viewHeight < 0 {
		viewHeight = 0
	}
	u.updateScroll(viewHeight, len(v.Lines), v.Cursor.Row)
	gutter := gutterWidth(len(v.Lines))
	for i := 0; i < viewHeight; i++ {
		y := 1 + i
		idx := u.scroll + i
		if !active || idx >= len(v.Lines) {
			clearLine(s, y, w, u.styleMain)
			continue
		}
		u.drawLine(s, y, w, gutter, idx, v.Lines[idx])
	}

	if statusY := h - 2; statusY >= 1 {
		right := ""
		if active {
			right = fmt.Sprintf(" Ln %d, Col %d ", v.Cursor.Row+1, v.Cursor.Col+1)
		}
		line := composeStatusLine(" "+u.status+" ", right, w)
		for x, r := range line {
			s.SetContent(x, statusY, r, nil, u.styleStatus)
		}
	}

	cursorSet := false
	if cmdY := h - 1; cmdY >= 1 {
		clearLine(s, cmdY, w, u.styleCmdline)
		if u.cmdVisible {
			x := 0
			for _, r := range append(append([]rune{}, u.prompt...), u.cmdInput...) {
				wd := runewidth.RuneWidth(r)
				if wd == 0 {
					continue
				}
				if x+wd > w {
					break
				}
				s.SetContent(x, cmdY, r, nil, u.styleCmdline)
				x += wd
			}
			cx := runesWidth(u.prompt) + runesWidth(u.cmdInput[:u.cmdCursor])
			if cx >= w {
				cx = w - 1
			}
			s.ShowCursor(cx, cmdY)
			cursorSet = true
		}
	}

	if !cursorSet && active {
		if cy := 1 + v.Cursor.Row - u.scroll; cy >= 1 && cy <= viewHeight {
			runes := []rune(v.Lines[v.Cursor.Row])
			col := v.Cursor.Col
			if col > len(runes) {
				col = len(runes)
			}
			cx := gutter + runewidth.StringWidth(string(runes[:col]))
			if cx >= w {
				cx = w - 1
			}
			s.ShowCursor(cx, cy)
			cursorSet = true
		}
	}
	if !cursorSet {
		s.HideCursor()
	}
	s.Show()
}

func (u *UI) drawTitle(s tcell.Screen, w int, v session.View) {
	clearLine(s, 0, w, u.styleTitle)
	title := []rune(render.Title(v.Path, v.Dirty))
	x := (w - len(title)) / 2
	if x < 0 {
		x = 0
	}
	for i, r := range title {
		if x+i >= w {
			break
		}
		s.SetContent(x+i, 0, r, nil, u.styleTitle)
	}
}

func (u *UI) drawLine(s tcell.Screen, y, w, gutter, idx int, line string) {
	// Gutter: leading space, right-aligned number, trailing space.
	numStr := fmt.Sprintf("%*d", gutter-2, idx+1)
	if w > 0 {
		s.SetContent(0, y, ' ', nil, u.styleMain)
	}
	for i, r := range numStr {
		x := 1 + i
		if x >= gutter-1 || x >= w {
			break
		}
		s.SetContent(x, y, r, nil, u.styleLineNum)
	}
	if gutter-1 < w {
		s.SetContent(gutter-1, y, ' ', nil, u.styleMain)
	}
	x := gutter
	for _, r := range line {
		wd := runewidth.RuneWidth(r)
		if wd == 0 {
			continue
		}
		if x+wd > w {
			break
		}
		s.SetContent(x, y, r, nil, u.styleMain)
		x += wd
	}
	for ; x < w; x++ {
		s.SetContent(x, y, ' ', nil, u.styleMain)
	}
}

// updateScroll keeps the cursor row visible unless the user scrolled away
// with the wheel, and keeps the offset inside the document either way.
func (u *UI) updateScroll(viewHeight, lineCount, cursorRow int) {
	if viewHeight <= 0 {
		u.scroll = 0
		return
	}
	if u.followCursor {
		if u.scroll > cursorRow {
			u.scroll = cursorRow
		}
		if cursorRow >= u.scroll+viewHeight {
			u.scroll = cursorRow - viewHeight + 1
		}
	}
	maxScroll := lineCount - viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if u.scroll > maxScroll {
		u.scroll = maxScroll
	}
	if u.scroll < 0 {
		u.scroll = 0
	}
}

// Run owns the terminal: it sets up the screen, opens path when one is
// given, and serves events until a command or key ends the session. The
// dirty poller posts interrupt events so the title star stays current.
func Run(cfg config.Config, path string) error {
	runtime.LockOSThread()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()
	defer screen.Fini()

	sess := session.New(storage.Disk{})
	ui := New(sess, cfg)
	if path != "" {
		if err := sess.Apply(command.Open{Path: path}); err != nil {
			ui.SetStatus(err.Error())
		}
	}

	watcher := watch.Start(clock.RealClock{}, cfg.PollInterval(), sess.Dirty, func(bool) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer watcher.Stop()

	ui.Render(screen)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ui.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			ui.HandleMouse(ev)
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			// Dirty-flag transition; the redraw below refreshes the title.
		}
		ui.Render(screen)
	}
}

func gutterWidth(lineCount int) int {
	if lineCount < 1 {
		lineCount = 1
	}
	digits := len(strconv.Itoa(lineCount))
	if digits < 2 {
		digits = 2
	}
	return 1 + digits + 1
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := width - len(leftRunes) - len(rightRunes)
	if spaceCount < 0 {
		spaceCount = 0
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := 0; i < spaceCount; i++ {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}

func runesWidth(rs []rune) int {
	return runewidth.StringWidth(string(rs))
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
