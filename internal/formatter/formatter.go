package formatter

import (
	"fmt"
	"io"
	"strings"
)

// CodeFormatter owns the output target and the indent unit shared by every
// block derived from it.
type CodeFormatter struct {
	target     io.Writer
	IndentSize int
	err        error
}

func NewCodeFormatter(target io.Writer) *CodeFormatter {
	return &CodeFormatter{target: target, IndentSize: 1}
}

func (c *CodeFormatter) writeIndent(level int) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.target, strings.Repeat(" ", level*c.IndentSize))
}

func (c *CodeFormatter) write(value string) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.target, value)
}

func (c *CodeFormatter) endLine() {
	c.write("\n")
}

// Err returns the first write error, if any. Formatting methods are no-ops
// after an error, so one check at the end is enough.
func (c *CodeFormatter) Err() error {
	return c.err
}

// RootBlock returns the zero-indent block over this formatter.
func (c *CodeFormatter) RootBlock() BlockFormatter {
	return BlockFormatter{target: c, indentLevel: 0}
}

// BlockFormatter writes lines at a fixed indent depth. Sibling blocks share
// the same underlying formatter, so interleaved writes keep their order.
// Safe within one goroutine only.
type BlockFormatter struct {
	target      *CodeFormatter
	indentLevel int
}

// WriteLine emits indentation, the value, and a newline.
func (b BlockFormatter) WriteLine(value string) {
	b.target.writeIndent(b.indentLevel)
	b.target.write(value)
	b.target.endLine()
}

// WriteLinef is WriteLine with formatting.
func (b BlockFormatter) WriteLinef(format string, args ...interface{}) {
	b.WriteLine(fmt.Sprintf(format, args...))
}

// SubBlock returns a sibling block one level deeper over the same target.
func (b BlockFormatter) SubBlock() BlockFormatter {
	return BlockFormatter{target: b.target, indentLevel: b.indentLevel + 1}
}

// Line opens a single line: indentation is written immediately, the newline
// when Close is called. Use `defer line.Close()` so the newline lands on
// every exit path.
func (b BlockFormatter) Line() *LineFormatter {
	b.target.writeIndent(b.indentLevel)
	return &LineFormatter{target: b.target}
}

// WriteText nests pre-rendered multi-line text under this block's indent,
// one SimpleFormatter level per indent step.
func (b BlockFormatter) WriteText(text string) {
	if text == "" {
		return
	}
	sf := NewSimpleFormatter(b.target.target, b.target.IndentSize)
	for i := 0; i < b.indentLevel; i++ {
		sf = sf.SubBlock()
	}
	if _, err := sf.WriteString(text); err != nil && b.target.err == nil {
		b.target.err = err
	}
}

// Err exposes the shared formatter error.
func (b BlockFormatter) Err() error {
	return b.target.Err()
}

// LineFormatter writes fragments of one output line.
type LineFormatter struct {
	target *CodeFormatter
	closed bool
}

func (l *LineFormatter) Write(value string) {
	l.target.write(value)
}

func (l *LineFormatter) Writef(format string, args ...interface{}) {
	l.target.write(fmt.Sprintf(format, args...))
}

// Close terminates the line. Idempotent.
func (l *LineFormatter) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.target.endLine()
}
