package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
)

const (
	shellPrompt   = "task-cli> "
	welcomeBanner = "-----------------------------------------🖋️ WELCOME TASK CLI!🖋️ -----------------------------------------"
	goodbyeBanner = "----------------------------👋 Thanks for using Task CLI! See you later. 🚀----------------------------"
)

// shellCommand runs an interactive session until exit, end of input or
// cancellation. Command errors are printed and the session continues.
func (a *app) shellCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errExtraArgs
	}

	a.inShell = true
	defer func() { a.inShell = false }()

	fmt.Fprintln(a.out, welcomeBanner)
	defer fmt.Fprintln(a.out, "\n"+goodbyeBanner)

	readCtx, stop := context.WithCancel(ctx)
	defer stop()
	lines := readLines(readCtx, a.in)
	for {
		fmt.Fprint(a.out, shellPrompt)

		var line string
		select {
		case <-ctx.Done():
			return nil
		case res, ok := <-lines:
			if !ok {
				return nil
			}
			if res.err != nil {
				return fmt.Errorf("reading input: %w", res.err)
			}
			line = res.line
		}

		fields, err := splitLine(line)
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "exit", "quit":
			return nil
		}
		a.logger.Debug("shell command", "command", fields[0], "args", len(fields)-1)
		if err := a.dispatch(ctx, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

type lineResult struct {
	line string
	err  error
}

// readLines scans r on its own goroutine so the session can stop on
// cancellation while a read is blocked.
func readLines(ctx context.Context, r io.Reader) <-chan lineResult {
	ch := make(chan lineResult)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- lineResult{line: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case ch <- lineResult{err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return ch
}

func printShellHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	writeCommandList(w)
	fmt.Fprintln(w, "  help                         Show this help message")
	fmt.Fprintln(w, "  exit, quit                   Leave the shell")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `Quote arguments that contain spaces: add "Buy milk"`)
}

var (
	errUnterminatedQuote  = errors.New("unterminated quote")
	errUnterminatedEscape = errors.New("unterminated backslash escape")
)

// splitLine splits a shell line into words using POSIX shell quoting.
func splitLine(line string) ([]string, error) {
	words, err := shellquote.Split(line)
	switch {
	case errors.Is(err, shellquote.UnterminatedSingleQuoteError),
		errors.Is(err, shellquote.UnterminatedDoubleQuoteError):
		return nil, errUnterminatedQuote
	case errors.Is(err, shellquote.UnterminatedEscapeError):
		return nil, errUnterminatedEscape
	case err != nil:
		return nil, err
	}
	return words, nil
}
