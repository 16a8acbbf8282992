// Package prompt asks the operator yes/no questions on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer reads answers line by line. Anything but y/yes is a no.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConfirmer reads answers from in and writes questions to out.
func NewConfirmer(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints question followed by [y/N] and waits for an answer.
// End of input counts as no.
func (c *Confirmer) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N] ", question)

	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Always answers every question with the same value without reading input.
type Always bool

// Confirm returns the fixed answer.
func (a Always) Confirm(string) (bool, error) {
	return bool(a), nil
}
