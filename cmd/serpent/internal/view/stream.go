package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/samedit66/eiffel-compiler/cmd/serpent/version"
)

// Stream is the destination of every view. It remembers the first write
// error so that the command can fail once instead of on every line.
type Stream struct {
	Writer io.Writer
	err    error
}

func NewStream(w io.Writer) *Stream {
	return &Stream{Writer: w}
}

// Write implements io.Writer. Once a write has failed nothing more is
// written.
func (s *Stream) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.Writer.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}

// Err returns the first write error.
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) Println(args ...any) {
	_, _ = fmt.Fprintln(s, args...)
}

func (s *Stream) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s, format, args...)
}

// Indentf writes one line indented by depth tabs, the layout of class
// interfaces.
func (s *Stream) Indentf(depth int, format string, args ...any) {
	_, _ = fmt.Fprintf(s, strings.Repeat("\t", depth)+format+"\n", args...)
}

func (s *Stream) PrintVersion() {
	version.Fprint(s)
}
