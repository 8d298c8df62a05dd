// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type (
	// Prompter asks the user a yes/no question.
	Prompter interface {
		Confirm(msg string) (bool, error)
	}

	linePrompter struct {
		in          *bufio.Reader
		out         io.Writer
		interactive bool
	}

	// PrompterFunc adapts a function to the Prompter interface.
	PrompterFunc func(msg string) (bool, error)
)

// Confirm calls f.
func (f PrompterFunc) Confirm(msg string) (bool, error) { return f(msg) }

// NewPrompter returns a Prompter that writes msg followed by "? [y/n] " to out
// and reads one line from in. When interactive is false it answers no
// without reading, so an upgrade from a script needs --force.
func NewPrompter(in io.Reader, out io.Writer, interactive bool) Prompter {
	return &linePrompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

func (p *linePrompter) Confirm(msg string) (bool, error) {
	if !p.interactive {
		return false, nil
	}

	if _, err := fmt.Fprintf(p.out, "%s? [y/n] ", msg); err != nil {
		return false, err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
