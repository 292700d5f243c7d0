// Package prompt asks the interactive session questions on a line-oriented
// reader and re-prompts until the answer is valid.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lukemcguire/pasteprobe/result"
)

// ErrCancelled is returned when input ends before a valid answer is given.
var ErrCancelled = errors.New("cancelled by user")

// ErrInvalidTarget is returned by ParseTarget for unusable input.
var ErrInvalidTarget = errors.New("enter a positive number or 'unlimited'")

var (
	unlimitedWords = []string{"unlimited", "infinite", "inf", "u"}
	yesWords       = []string{"y", "yes", "1", "true"}
	noWords        = []string{"n", "no", "0", "false"}
)

// ParseTarget parses a positive count or one of the unlimited keywords.
func ParseTarget(input string) (result.Limit, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, w := range unlimitedWords {
		if input == w {
			return result.Unbounded(), nil
		}
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return result.Limit{}, fmt.Errorf("%q: %w", input, ErrInvalidTarget)
	}
	if n <= 0 {
		return result.Limit{}, fmt.Errorf("%d is not positive: %w", n, ErrInvalidTarget)
	}
	return result.Finite(n), nil
}

// ParseYesNo parses a yes/no answer. ok is false when input is neither.
func ParseYesNo(input string) (answer, ok bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, w := range yesWords {
		if input == w {
			return true, true
		}
	}
	for _, w := range noWords {
		if input == w {
			return false, true
		}
	}
	return false, false
}

// Prompter reads answers from in and writes questions and hints to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Target asks how many available URLs to collect.
func (p *Prompter) Target() (result.Limit, error) {
	for {
		line, err := p.ask("How many available URLs to find? (Enter number or 'unlimited'): ")
		if err != nil {
			return result.Limit{}, err
		}
		target, err := ParseTarget(line)
		if err == nil {
			if target.IsUnbounded() {
				p.printf("Unlimited mode activated! Press Ctrl+C to stop when ready.\n")
			}
			return target, nil
		}
		if n, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil && n <= 0 {
			p.printf("Please enter a positive number.\n")
		} else {
			p.printf("Please enter a valid number or 'unlimited'.\n")
		}
	}
}

// OpenTaken asks whether taken URLs should be opened in the viewer.
func (p *Prompter) OpenTaken() (bool, error) {
	for {
		line, err := p.ask("Open taken URLs in browser to see content? (y/n): ")
		if err != nil {
			return false, err
		}
		if answer, ok := ParseYesNo(line); ok {
			return answer, nil
		}
		p.printf("Please enter 'y' or 'n'.\n")
	}
}

// ask writes question and returns the next line. A final line without a
// newline still counts as an answer; input ending with nothing left is
// ErrCancelled.
func (p *Prompter) ask(question string) (string, error) {
	p.printf("%s", question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return line, nil
}

func (p *Prompter) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}
