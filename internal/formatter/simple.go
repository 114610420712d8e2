package formatter

import (
	"io"
	"strings"
)

// SimpleFormatter re-indents arbitrary multi-line text flowing through it.
// The root formatter passes text through untouched; each SubBlock level
// injects one more indent unit after every line boundary, before the next
// nonempty chunk. Used when an external producer's output must be nested
// into a surrounding block.
type SimpleFormatter struct {
	target  io.Writer
	indent  string
	top     bool
	started bool
	err     error
}

func NewSimpleFormatter(target io.Writer, indentSize int) *SimpleFormatter {
	return &SimpleFormatter{
		target: target,
		indent: strings.Repeat(" ", indentSize),
		top:    true,
	}
}

// SubBlock nests one more indent level over the same stream.
func (s *SimpleFormatter) SubBlock() *SimpleFormatter {
	return &SimpleFormatter{
		target:  s,
		indent:  s.indent,
		started: s.started,
	}
}

func (s *SimpleFormatter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.top {
		return s.target.Write(p)
	}
	chunks := strings.Split(string(p), "\n")
	for i, chunk := range chunks {
		if chunk != "" && !s.started {
			if _, err := io.WriteString(s.target, s.indent); err != nil {
				s.err = err
				return 0, err
			}
			s.started = true
		}
		if _, err := io.WriteString(s.target, chunk); err != nil {
			s.err = err
			return 0, err
		}
		if i < len(chunks)-1 {
			if _, err := io.WriteString(s.target, "\n"); err != nil {
				s.err = err
				return 0, err
			}
			s.started = false
		}
	}
	return len(p), nil
}

func (s *SimpleFormatter) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}
