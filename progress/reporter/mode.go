package reporter

import (
	"fmt"
	"io"

	"github.com/jyjeanne/dita-runner/progress"
)

// Mode selects how much progress output a run produces.
type Mode string

const (
	// Detailed shows a progress bar with percentage, stage label, and
	// file count.
	Detailed Mode = "detailed"

	// Simple shows only the bar and percentage.
	Simple Mode = "simple"

	// Minimal emits one line per headline stage instead of every
	// micro-stage.
	Minimal Mode = "minimal"

	// Quiet emits nothing during the run; errors surface only in the
	// end-of-run summary.
	Quiet Mode = "quiet"
)

// ParseMode converts a user-supplied string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Detailed, Simple, Minimal, Quiet:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown progress mode %q (expected detailed, simple, minimal or quiet)", s)
	}
}

// ForMode returns the reporter implementing the given display mode,
// writing to w. interactive selects in-place line updates versus
// append-style output for the bar modes.
func ForMode(mode Mode, w io.Writer, interactive bool) progress.Reporter {
	switch mode {
	case Simple:
		return NewBarReporter(w, Simple, interactive)
	case Minimal:
		return NewMinimalReporter(w)
	case Quiet:
		return progress.NewNoopReporter()
	default:
		return NewBarReporter(w, Detailed, interactive)
	}
}
