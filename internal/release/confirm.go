package release

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user a question and returns the raw answer.
type Confirmer interface {
	Confirm(prompt string) (string, error)
}

// IsAffirmative accepts only "y", ignoring case and surrounding whitespace.
// "yes" is a refusal.
func IsAffirmative(answer string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == "y"
}

// ConsoleConfirmer prompts on Out and reads one line from In.
type ConsoleConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleConfirmer creates a confirmer for an interactive console.
func NewConsoleConfirmer(in io.Reader, out io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm writes prompt and blocks until a line is read. A final line
// without a newline is accepted; no input at all is an error.
func (c *ConsoleConfirmer) Confirm(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	return line, nil
}

// StaticConfirmer returns a canned answer and records the prompts it saw.
type StaticConfirmer struct {
	Answer  string
	Err     error
	Prompts []string
}

// Confirm records prompt and returns the canned answer.
func (c *StaticConfirmer) Confirm(prompt string) (string, error) {
	c.Prompts = append(c.Prompts, prompt)
	return c.Answer, c.Err
}
