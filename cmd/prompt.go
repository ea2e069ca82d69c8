package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

type readResult struct {
	line string
	err  error
}

// prompter reads answers line by line from the user.
// A single goroutine owns the reader, so a prompt abandoned on cancellation does not
// swallow the line typed after it.
type prompter struct {
	in  *bufio.Reader
	out io.Writer

	once  sync.Once
	lines chan readResult
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) start() {
	p.once.Do(func() {
		p.lines = make(chan readResult)
		go func() {
			defer close(p.lines)
			for {
				line, err := p.in.ReadString('\n')
				p.lines <- readResult{line: line, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
}

// readLine waits for the next input line or for ctx to end, whichever comes first.
// io.EOF is returned only when the input is exhausted and nothing was typed.
func (p *prompter) readLine(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, label)
	p.start()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
			return "", r.err
		}
		return r.line, nil
	}
}

// ask prints label and returns the next input line without surrounding whitespace.
func (p *prompter) ask(ctx context.Context, label string) (string, error) {
	line, err := p.readLine(ctx, label)
	return strings.TrimSpace(line), err
}

// askRaw is ask without trimming inner content, for values where spacing matters.
func (p *prompter) askRaw(ctx context.Context, label string) (string, error) {
	line, err := p.readLine(ctx, label)
	return strings.TrimRight(line, "\r\n"), err
}

// confirm asks a yes/no question until it gets an answer. An empty answer picks def.
func (p *prompter) confirm(ctx context.Context, question string, def bool) (bool, error) {
	suffix := " [y/N]: "
	if def {
		suffix = " [Y/n]: "
	}
	for {
		answer, err := p.ask(ctx, question+suffix)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y/yes or n/no.")
	}
}
