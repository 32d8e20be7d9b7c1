package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var exitCommands = []string{"exit", "quit"}

// IsExitCommand reports whether line asks to leave the interactive loop.
func IsExitCommand(line string) bool {
	line = strings.TrimSpace(line)
	for _, cmd := range exitCommands {
		if strings.EqualFold(line, cmd) {
			return true
		}
	}
	return false
}

type inputLine struct {
	text string
	err  error
}

// readLines feeds complete lines from in to the returned channel until end of
// input, a read error, or done is closed. Lines have no length limit.
func readLines(in io.Reader, done <-chan struct{}) <-chan inputLine {
	lines := make(chan inputLine)

	go func() {
		defer close(lines)

		r := bufio.NewReader(in)
		for {
			text, err := r.ReadString('\n')
			if text != "" {
				select {
				case lines <- inputLine{text: text}:
				case <-done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					select {
					case lines <- inputLine{err: err}:
					case <-done:
					}
				}
				return
			}
		}
	}()

	return lines
}

// RunInteractive prints the welcome line and answers one line of input at a
// time until an exit command or end of input. Blank lines are skipped. A
// failed request ends the loop and its error is returned. Cancelling ctx
// ends the loop even while waiting for input.
func (a *Agent) RunInteractive(ctx context.Context, in io.Reader) error {
	if in == nil {
		return fmt.Errorf("input reader is required")
	}

	a.renderer.Welcome(a.config.Welcome)

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.renderer.Prompt(a.config.PromptLabel)

		var (
			line inputLine
			ok   bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			return nil
		}
		if line.err != nil {
			return fmt.Errorf("read input: %w", line.err)
		}

		input := strings.TrimSpace(line.text)
		if input == "" {
			continue
		}
		if IsExitCommand(input) {
			a.logger.Debug("Interactive session ended by %q", input)
			return nil
		}

		if _, err := a.RunText(ctx, input); err != nil {
			return err
		}
	}
}
