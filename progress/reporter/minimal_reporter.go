package reporter

import (
	"fmt"
	"io"
	"sync"

	"github.com/jyjeanne/dita-runner/progress"
)

// headlineStages is the curated subset of stages MinimalReporter emits
// lines for. Micro-stages between these are silently absorbed.
var headlineStages = map[progress.Stage]bool{
	progress.StageInit:       true,
	progress.StagePreprocess: true,
	progress.StageTransform:  true,
	progress.StageComplete:   true,
}

// MinimalReporter emits a single timestamped line per headline stage:
// pipeline start, preprocessing, transformation, and completion. Output
// is always append-style, so it is safe for logs and CI regardless of
// terminal support.
//
// Example output:
//
//	[17:06:14] Initializing pipeline
//	[17:06:15] Preprocessing
//	[17:06:22] Transforming
//	[17:06:26] Complete
type MinimalReporter struct {
	writer io.Writer
	mu     sync.Mutex
	last   progress.Stage
	seen   bool
}

// NewMinimalReporter creates a minimal reporter writing to w.
func NewMinimalReporter(w io.Writer) *MinimalReporter {
	return &MinimalReporter{writer: w}
}

// Report emits a line if the event reaches a new headline stage.
//
// This method is safe for concurrent use.
func (m *MinimalReporter) Report(event progress.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalize(&event)

	if !headlineStages[event.Stage] {
		return
	}
	if m.seen && event.Stage == m.last {
		return
	}
	fmt.Fprintf(m.writer, "[%s] %s\n", event.Timestamp.Format("15:04:05"), event.Stage)
	m.last = event.Stage
	m.seen = true
}
