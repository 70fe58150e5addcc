package reporter

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/jyjeanne/dita-runner/progress"
)

// normalize updates the event with calculated values.
// - Sets Timestamp to now if zero
// - Derives Percent from the stage when unset
func normalize(e *progress.Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Percent == 0.0 {
		e.Percent = e.Stage.Percent()
	}
}

// IsTerminal reports whether w is an interactive terminal that supports
// in-place line updates with carriage returns. Pipes, files, and CI logs
// are not, and get append-style output instead.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
