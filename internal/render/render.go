// Package render provides output formatting for CLI commands.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer wraps an io.Writer with formatting utilities.
type Writer struct {
	out io.Writer
}

// NewWriter creates a Writer that writes to the given io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Stdout returns a Writer that writes to os.Stdout.
func Stdout() *Writer {
	return NewWriter(os.Stdout)
}

// Stderr returns a Writer that writes to os.Stderr.
func Stderr() *Writer {
	return NewWriter(os.Stderr)
}

// Println writes formatted text with newline.
func (w *Writer) Println(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Line writes a blank line.
func (w *Writer) Line() {
	fmt.Fprintln(w.out)
}

// Header writes an upper-cased title followed by a rule.
func (w *Writer) Header(title string) {
	fmt.Fprintln(w.out, strings.ToUpper(title))
	fmt.Fprintln(w.out, strings.Repeat("─", 40))
}

// Section writes a section header.
func (w *Writer) Section(title string) {
	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, title+":")
}

// Field writes an aligned "label: value" line.
func (w *Writer) Field(label, value string) {
	fmt.Fprintf(w.out, "%-14s%s\n", label+":", value)
}

// Item writes an indented item line.
func (w *Writer) Item(format string, args ...any) {
	fmt.Fprintf(w.out, "  "+format+"\n", args...)
}

// BoolIcon returns icon for boolean.
func BoolIcon(b bool) string {
	if b {
		return Success("✓")
	}
	return Failure("✗")
}

// Truncate shortens a string to max length.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
