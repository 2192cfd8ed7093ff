package render

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ConfigureColor turns colour off when requested or when fd is not a
// terminal. It only ever disables colour.
func ConfigureColor(noColor bool, fd int) {
	if noColor || !term.IsTerminal(fd) {
		color.NoColor = true
	}
}

// Success colours s green.
func Success(s string) string { return color.GreenString(s) }

// Failure colours s red.
func Failure(s string) string { return color.RedString(s) }

// Outcome formats the line printed after a session finishes.
func Outcome(session string, d time.Duration, err error) string {
	if err != nil {
		return fmt.Sprintf("%s session %s failed: %v", Failure("✗"), session, err)
	}
	return fmt.Sprintf("%s session %s was successful in %s", Success("✓"), session, FormatDuration(d))
}

// Outcome writes the session outcome line.
func (w *Writer) Outcome(session string, d time.Duration, err error) {
	fmt.Fprintln(w.out, Outcome(session, d, err))
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
