// Package repl runs the console front end: a prompt, one command per input
// line, and a frame of the document after every successful command.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Andy-177/ve/internal/command"
	"github.com/Andy-177/ve/internal/config"
	"github.com/Andy-177/ve/internal/render"
	"github.com/Andy-177/ve/internal/session"
	"github.com/Andy-177/ve/internal/storage"
)

// REPL reads command lines from in and writes prompts, frames, and error
// reports to out. Command failures are printed and the loop continues; only
// quit, save-and-quit, or exhausted input end it.
type REPL struct {
	session *session.Session
	prompt  string
	in      io.Reader
	out     io.Writer
}

func New(cfg config.Config, in io.Reader, out io.Writer) *REPL {
	s := session.New(storage.Disk{})
	s.SetRenderer(render.NewConsole(out))
	return &REPL{
		session: s,
		prompt:  cfg.Editor.Prompt,
		in:      in,
		out:     out,
	}
}

// Session exposes the underlying editor state, mainly for tests.
func (r *REPL) Session() *session.Session {
	return r.session
}

// Run processes commands until one of them quits or the input runs out. A
// non-empty path opens that document before the first prompt.
func (r *REPL) Run(path string) error {
	if path != "" {
		if err := r.session.Apply(command.Open{Path: path}); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, r.prompt)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := command.Parse(line)
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}
		if err := r.session.Apply(cmd); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}
		switch cmd.(type) {
		case command.Quit, command.SaveQuit:
			return scanner.Err()
		}
	}
	return scanner.Err()
}
