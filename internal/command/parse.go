package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownCommand reports a verb outside the command set.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArgument reports a malformed or missing argument.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Parse decodes one raw command line. The verb is case-insensitive. Text
// after the write verb and the path after open and save are taken verbatim,
// so both may contain spaces.
func Parse(raw string) (Command, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return nil, fmt.Errorf("%w: empty command", ErrInvalidArgument)
	}
	verb, rest, _ := strings.Cut(line, " ")
	switch strings.ToLower(verb) {
	case "open":
		path := strings.TrimSpace(rest)
		if path == "" {
			return nil, fmt.Errorf("%w: open wants a path", ErrInvalidArgument)
		}
		return Open{Path: path}, nil

	case "move":
		return parseMove(strings.Fields(rest))

	case "line":
		return parseJump(strings.Fields(rest))

	case "break":
		if err := wantNoArgs(verb, rest); err != nil {
			return nil, err
		}
		return Break{}, nil

	case "write":
		if rest == "" {
			return nil, fmt.Errorf("%w: write wants text", ErrInvalidArgument)
		}
		return Write{Text: rest}, nil

	case "space":
		args := strings.Fields(rest)
		switch len(args) {
		case 0:
			return Space{Count: 1}, nil
		case 1:
			n, err := parseCount(args[0])
			if err != nil {
				return nil, err
			}
			return Space{Count: n}, nil
		}
		return nil, fmt.Errorf("%w: space wants at most one count", ErrInvalidArgument)

	case "del":
		args := strings.Fields(rest)
		switch {
		case len(args) == 0:
			return Delete{Count: 1}, nil
		case args[0] == "range":
			span, err := parseSpanArg(args[1:])
			if err != nil {
				return nil, err
			}
			return DeleteRange{Range: span}, nil
		case len(args) == 1:
			n, err := parseCount(args[0])
			if err != nil {
				return nil, err
			}
			return Delete{Count: n}, nil
		}
		return nil, fmt.Errorf("%w: del wants a count or a range", ErrInvalidArgument)

	case "copy":
		span, err := parseOptionalRange(strings.Fields(rest))
		if err != nil {
			return nil, err
		}
		return Copy{Range: span}, nil

	case "paste":
		span, err := parseOptionalRange(strings.Fields(rest))
		if err != nil {
			return nil, err
		}
		return Paste{Range: span}, nil

	case "save":
		return Save{Path: strings.TrimSpace(rest)}, nil

	case "quit":
		if err := wantNoArgs(verb, rest); err != nil {
			return nil, err
		}
		return Quit{}, nil

	case "save-and-quit":
		if err := wantNoArgs(verb, rest); err != nil {
			return nil, err
		}
		return SaveQuit{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
}

func parseMove(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: move wants left, right, start, or end", ErrInvalidArgument)
	}
	switch args[0] {
	case "left", "right":
		count := 1
		if len(args) > 2 {
			return nil, fmt.Errorf("%w: move %s wants at most one count", ErrInvalidArgument, args[0])
		}
		if len(args) == 2 {
			n, err := parseCount(args[1])
			if err != nil {
				return nil, err
			}
			count = n
		}
		dir := Left
		if args[0] == "right" {
			dir = Right
		}
		return Move{Dir: dir, Count: count}, nil
	case "start", "end":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: move %s takes no count", ErrInvalidArgument, args[0])
		}
		to := Start
		if args[0] == "end" {
			to = End
		}
		return MoveEdge{To: to}, nil
	}
	return nil, fmt.Errorf("%w: unknown move target %q", ErrInvalidArgument, args[0])
}

func parseJump(args []string) (Command, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: line wants a number, start, or end", ErrInvalidArgument)
	}
	switch args[0] {
	case "start":
		return JumpEdge{To: Start}, nil
	case "end":
		return JumpEdge{To: End}, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a line number", ErrInvalidArgument, args[0])
	}
	return Jump{Line: n}, nil
}

// parseOptionalRange handles the shared copy/paste tail: either nothing or
// the keyword range followed by a range argument.
func parseOptionalRange(args []string) (*SpanArg, error) {
	if len(args) == 0 {
		return nil, nil
	}
	if args[0] != "range" {
		return nil, fmt.Errorf("%w: expected \"range\", got %q", ErrInvalidArgument, args[0])
	}
	span, err := parseSpanArg(args[1:])
	if err != nil {
		return nil, err
	}
	return &span, nil
}

func parseSpanArg(args []string) (SpanArg, error) {
	switch {
	case len(args) == 1 && args[0] == "all":
		return SpanArg{form: spanAll}, nil
	case len(args) == 2 && strings.Contains(args[0], ",") && strings.Contains(args[1], ","):
		startRow, startCol, err := parseCell(args[0])
		if err != nil {
			return SpanArg{}, err
		}
		endRow, endCol, err := parseCell(args[1])
		if err != nil {
			return SpanArg{}, err
		}
		return SpanArg{
			form:     spanCells,
			startRow: startRow, startCol: startCol,
			endRow: endRow, endCol: endCol,
		}, nil
	case len(args) == 2:
		startCol, err := parseInt(args[0])
		if err != nil {
			return SpanArg{}, err
		}
		endCol, err := parseInt(args[1])
		if err != nil {
			return SpanArg{}, err
		}
		return SpanArg{form: spanColumns, startCol: startCol, endCol: endCol}, nil
	}
	return SpanArg{}, fmt.Errorf("%w: range wants \"all\", two columns, or two row,col cells", ErrInvalidArgument)
}

func parseCell(tok string) (row, col int, err error) {
	rowTok, colTok, ok := strings.Cut(tok, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not a row,col cell", ErrInvalidArgument, tok)
	}
	if row, err = parseInt(rowTok); err != nil {
		return 0, 0, err
	}
	if col, err = parseInt(colTok); err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

func parseInt(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidArgument, tok)
	}
	return n, nil
}

func parseCount(tok string) (int, error) {
	n, err := parseInt(tok)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: count must be at least 1", ErrInvalidArgument)
	}
	return n, nil
}

func wantNoArgs(verb, rest string) error {
	if strings.TrimSpace(rest) != "" {
		return fmt.Errorf("%w: %s takes no arguments", ErrInvalidArgument, verb)
	}
	return nil
}
