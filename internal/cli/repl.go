package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

var ErrUnterminatedQuote = errors.New("unterminated quote")

// REPL is the interactive command loop.
type REPL struct {
	app         *App
	historyPath string
	liner       *liner.State
}

// NewREPL keeps its history next to the session file.
func NewREPL(app *App) *REPL {
	r := &REPL{app: app}
	if app.sessionPath != "" {
		r.historyPath = filepath.Join(filepath.Dir(app.sessionPath), "history")
	}
	return r
}

// Run reads commands until quit, Ctrl-C or end of input.
func (r *REPL) Run(ctx context.Context, out, errOut io.Writer) error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if r.historyPath != "" {
		if f, err := os.Open(r.historyPath); err == nil {
			_, _ = r.liner.ReadHistory(f)
			f.Close()
		}
	}
	defer r.saveHistory()

	o := NewIO(out, errOut)
	if owner := r.app.store.Owner(); owner != "" {
		o.Printf("Signed in as %s. Type 'help' for commands.\n", owner)
	} else {
		o.Println("Not signed in. Type 'login <userId>' or 'help'.")
	}

	for {
		line, err := r.liner.Prompt("todo> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				o.Println()
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		args, err := SplitArgs(line)
		if err != nil {
			o.ErrPrintln("error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch strings.ToLower(args[0]) {
		case "quit", "exit", "q":
			return nil
		case "?":
			args[0] = "help"
		}

		r.app.Execute(ctx, o, args)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (r *REPL) saveHistory() {
	if r.historyPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.historyPath), 0o700); err != nil {
		return
	}
	if f, err := os.Create(r.historyPath); err == nil {
		_, _ = r.liner.WriteHistory(f)
		f.Close()
	}
}

// completer completes command names at the start of the line.
func (r *REPL) completer(line string) []string {
	if strings.Contains(line, " ") {
		return nil
	}
	var out []string
	for _, name := range r.app.CommandNames() {
		if strings.HasPrefix(name, strings.ToLower(line)) {
			out = append(out, name)
		}
	}
	return out
}

// SplitArgs splits a prompt line into words. Single or double quotes group
// words, and a backslash escapes the next character outside single quotes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				current.WriteRune(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inWord = true
		case ch == ' ' || ch == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(ch)
			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnterminatedQuote
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}
