package progress

import (
	"sync"

	"github.com/go-logr/logr"

	"github.com/jyjeanne/dita-runner/message"
)

// Snapshot is an immutable, point-in-time copy of aggregated run state,
// safe to read and render without synchronization.
type Snapshot struct {
	Stage          Stage
	FilesProcessed int
	ErrorCount     int
	WarningCount   int
}

// Summary extends Snapshot with full copies of the captured error and
// warning lines. It is produced once, at the end of a run.
type Summary struct {
	Snapshot
	Errors   []string
	Warnings []string
}

// Tracker accumulates telemetry for one toolkit run.
//
// All mutation happens on a single goroutine, the stream reader, via
// OnLine. Reads from other goroutines (the supervisor printing the final
// summary, a render tick) go through Snapshot and FinalSummary, which
// return point-in-time copies under the lock. No reader ever sees a list
// mid-append, and no lock is held across rendering.
type Tracker struct {
	log             logr.Logger
	verboseWarnings bool

	mu       sync.Mutex
	stage    Stage
	files    int
	errors   []string
	warnings []string
}

// NewTracker creates a tracker starting at StageStart.
//
// When verboseWarnings is true, warning lines are echoed through the
// logger as they arrive; otherwise warnings are only counted and surface
// in the final summary. Error lines are always echoed.
func NewTracker(log logr.Logger, verboseWarnings bool) *Tracker {
	return &Tracker{
		log:             log,
		verboseWarnings: verboseWarnings,
	}
}

// OnLine ingests one raw output line and reports whether the current
// stage advanced.
//
// Stage advancement is a one-directional ratchet: a line mapping to a
// stage with a lower ordinal than the one already reached is discarded,
// so out-of-order log lines never move the displayed stage backward.
func (t *Tracker) OnLine(line string) bool {
	stage, matched := DetectStage(line)
	severity := message.Classify(line)
	fileDone := message.IsFileProcessed(line)

	t.mu.Lock()
	advanced := matched && stage > t.stage
	if advanced {
		t.stage = stage
	}
	switch severity {
	case message.SeverityError:
		t.errors = append(t.errors, line)
	case message.SeverityWarning:
		t.warnings = append(t.warnings, line)
	}
	if fileDone {
		t.files++
	}
	t.mu.Unlock()

	switch severity {
	case message.SeverityError:
		t.log.Error(nil, line)
	case message.SeverityWarning:
		if t.verboseWarnings {
			t.log.Info(line)
		}
	}
	return advanced
}

// Snapshot returns an immutable copy of the current aggregate counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Stage:          t.stage,
		FilesProcessed: t.files,
		ErrorCount:     len(t.errors),
		WarningCount:   len(t.warnings),
	}
}

// FinalSummary returns the final counters plus copies of the full error
// and warning lists. Intended to be called once, after the reader
// goroutine has been joined.
func (t *Tracker) FinalSummary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	errs := make([]string, len(t.errors))
	copy(errs, t.errors)
	warns := make([]string, len(t.warnings))
	copy(warns, t.warnings)
	return Summary{
		Snapshot: Snapshot{
			Stage:          t.stage,
			FilesProcessed: t.files,
			ErrorCount:     len(errs),
			WarningCount:   len(warns),
		},
		Errors:   errs,
		Warnings: warns,
	}
}

// Reset clears all state so the tracker can be reused for a subsequent
// invocation.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stage = StageStart
	t.files = 0
	t.errors = nil
	t.warnings = nil
}
