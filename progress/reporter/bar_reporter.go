package reporter

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jyjeanne/dita-runner/progress"
)

// BarReporter writes progress as a visual progress bar with real-time
// updates.
//
// In Detailed mode it shows a fixed-width bracketed bar, the percentage,
// the current stage label, and the file count; Simple mode drops the
// label and count. On an interactive terminal the bar updates in place
// using carriage returns, padding to the previous line's length so a
// shorter repaint leaves no artifacts. On a non-interactive sink every
// distinct line is appended instead, keeping captured logs readable.
//
// Repaints within the same stage are throttled to at most one per
// throttleInterval so that bursts of file-progress events don't flood
// the writer; stage transitions and the completion paint always go
// through.
//
// Example output:
//
//	[=========>...............]  36% Resolving key references (12 files)
//
// The reporter is thread-safe.
type BarReporter struct {
	writer      io.Writer
	mode        Mode
	interactive bool

	mu               sync.Mutex
	barWidth         int
	throttleInterval time.Duration
	lastPaint        time.Time
	lastStage        progress.Stage
	lastLine         string
	lastLineLen      int
	painted          bool
}

// NewBarReporter creates a bar reporter writing to w. mode must be
// Detailed or Simple. interactive enables in-place updates; pass the
// result of IsTerminal(w) unless output style is forced.
func NewBarReporter(w io.Writer, mode Mode, interactive bool) *BarReporter {
	return &BarReporter{
		writer:           w,
		mode:             mode,
		interactive:      interactive,
		barWidth:         25,
		throttleInterval: 200 * time.Millisecond,
	}
}

// Report renders the event as a progress bar line.
//
// This method is safe for concurrent use.
func (b *BarReporter) Report(event progress.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	normalize(&event)

	now := event.Timestamp
	stageChanged := !b.painted || event.Stage != b.lastStage
	final := event.Stage == progress.StageComplete
	if !stageChanged && !final && now.Sub(b.lastPaint) < b.throttleInterval {
		return
	}

	line := b.buildBar(event)
	if b.interactive {
		b.paintInPlace(line, final)
	} else {
		// Append mode: suppress repeats so file-progress ticks that
		// render identically don't duplicate lines in captured logs.
		if line != b.lastLine {
			fmt.Fprintln(b.writer, line)
		}
	}

	b.lastLine = line
	b.lastStage = event.Stage
	b.lastPaint = now
	b.painted = true
}

// paintInPlace overwrites the previous bar line with the new one,
// padding with spaces when the new line is shorter.
func (b *BarReporter) paintInPlace(line string, final bool) {
	out := line
	lineLen := utf8.RuneCountInString(line)
	if pad := b.lastLineLen - lineLen; pad > 0 {
		out += strings.Repeat(" ", pad)
	}
	fmt.Fprint(b.writer, "\r"+out)
	b.lastLineLen = lineLen

	if final {
		fmt.Fprint(b.writer, "\n")
		b.lastLineLen = 0
	}
}

// buildBar constructs the bar string for the event.
//
// The bar is proportionally filled to the stage percentage, with a ">"
// head at the filled/unfilled boundary except at 100%.
//
// Detailed: "[=========>...............]  36% Resolving key references (12 files)"
// Simple:   "[=========>...............]  36%"
func (b *BarReporter) buildBar(event progress.Event) string {
	filled := int(float64(b.barWidth) * event.Percent / 100.0)
	if filled > b.barWidth {
		filled = b.barWidth
	}

	var bar string
	if filled >= b.barWidth {
		bar = strings.Repeat("=", b.barWidth)
	} else if filled > 0 {
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(".", b.barWidth-filled)
	} else {
		bar = strings.Repeat(".", b.barWidth)
	}

	line := fmt.Sprintf("[%s] %3d%%", bar, int(event.Percent))
	if b.mode == Detailed {
		line += fmt.Sprintf(" %s (%d files)", event.Stage, event.Files)
	}
	return line
}
