package logging

import (
	"io"
	"os"
)

// ConsoleBackend writes rendered lines to an io.Writer, stderr by default.
type ConsoleBackend struct {
	name string
	w    io.Writer
}

// NewConsoleBackend returns a console backend. A nil writer selects
// os.Stderr.
func NewConsoleBackend(name string, w io.Writer) *ConsoleBackend {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleBackend{name: name, w: w}
}

func (c *ConsoleBackend) Name() string { return c.name }

func (c *ConsoleBackend) Write(p []byte) error {
	_, err := c.w.Write(p)
	return err
}
