package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/jyjeanne/dita-runner/progress"
)

// JSONReporter writes progress events as newline-delimited JSON (NDJSON).
//
// Each event is serialized to a single JSON line, creating a stream of
// structured data suitable for machine consumption: log aggregation,
// external monitoring, or CI pipelines that parse progress. Every line
// is a complete JSON object that can be parsed independently, so the
// format is robust to interruptions and easy to stream.
//
// Example output:
//
//	{"timestamp":"2026-03-02T17:06:14Z","stage":2,"percent":10}
//	{"timestamp":"2026-03-02T17:06:22Z","stage":9,"files":12,"percent":70}
//	{"timestamp":"2026-03-02T17:06:26Z","stage":11,"percent":100}
//
// The reporter is thread-safe; each JSON line is written atomically.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a new JSON progress reporter that writes to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report writes a progress event as a JSON line.
//
// If the event's Timestamp is zero it is set to the current time, and
// Percent is derived from the stage when unset. Marshaling or write
// errors are silently ignored so a broken sink never disrupts the run.
//
// This method is safe for concurrent use.
func (j *JSONReporter) Report(event progress.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	normalize(&event)

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintln(j.writer, string(data))
}
