package progress

import (
	"testing"

	"github.com/go-logr/logr"
)

func newTestTracker() *Tracker {
	return NewTracker(logr.Discard(), false)
}

// Feeding lines that map to stages out of order must never move the
// displayed stage backward: [S2, S1, S3] yields [S2, S3].
func TestTrackerStageRatchet(t *testing.T) {
	tr := newTestTracker()

	var displayed []Stage
	feed := []string{
		"[conref] resolving",     // ordinal above keyref
		"keyref:",                // lower ordinal, must be discarded
		"transform.html5:",       // advances again
		"[gen-list] late replay", // lower again, discarded
	}
	for _, line := range feed {
		if tr.OnLine(line) {
			displayed = append(displayed, tr.Snapshot().Stage)
		}
	}

	want := []Stage{StageConref, StageTransform}
	if len(displayed) != len(want) {
		t.Fatalf("displayed stages = %v, want %v", displayed, want)
	}
	for i := range want {
		if displayed[i] != want[i] {
			t.Fatalf("displayed stages = %v, want %v", displayed, want)
		}
	}
}

// Scenario: an error observed mid-run marks the run even when a
// successful completion marker appears later.
func TestTrackerErrorBeforeBuildSuccessful(t *testing.T) {
	tr := newTestTracker()
	for _, line := range []string{
		"[DOTJ031I] No rule for 'x' found",
		"[DOTJ013E] Failed to parse resource",
		"BUILD SUCCESSFUL",
	} {
		tr.OnLine(line)
	}

	sum := tr.FinalSummary()
	if sum.ErrorCount != 1 {
		t.Errorf("errorCount = %d, want 1", sum.ErrorCount)
	}
	if sum.Stage != StageComplete {
		t.Errorf("final stage = %s, want %s", sum.Stage, StageComplete)
	}
	if len(sum.Errors) != 1 || sum.Errors[0] != "[DOTJ013E] Failed to parse resource" {
		t.Errorf("errors = %v", sum.Errors)
	}
}

// Warnings are counted even when live display is disabled.
func TestTrackerWarningsCountedWhenSuppressed(t *testing.T) {
	tr := newTestTracker()
	tr.OnLine("[DOTX023W] navtitle missing")
	tr.OnLine("[DOTX023W] navtitle missing")

	sum := tr.FinalSummary()
	if sum.WarningCount != 2 {
		t.Errorf("warningCount = %d, want 2", sum.WarningCount)
	}
	if sum.ErrorCount != 0 {
		t.Errorf("errorCount = %d, want 0", sum.ErrorCount)
	}
}

// finalSummary().ErrorCount equals the number of Error-classified lines
// regardless of how many of those lines also matched a stage predicate.
func TestTrackerErrorCountRoundTrip(t *testing.T) {
	tr := newTestTracker()
	lines := []string{
		"[DOTJ013E] Failed to parse resource during transform", // also matches a stage
		"[DOTX008F] Cannot find file in preprocess",            // also matches a stage
		"[DOTJ012E] plain failure",
		"[DOTJ031I] informational",
		"Processing file:/a.dita",
	}
	for _, line := range lines {
		tr.OnLine(line)
	}
	if got := tr.FinalSummary().ErrorCount; got != 3 {
		t.Errorf("errorCount = %d, want 3", got)
	}
}

// A zero-line stream still yields a valid snapshot at the initial stage.
func TestTrackerEmptyRun(t *testing.T) {
	tr := newTestTracker()
	sum := tr.FinalSummary()
	if sum.Stage != StageStart {
		t.Errorf("final stage = %s, want %s", sum.Stage, StageStart)
	}
	if sum.FilesProcessed != 0 || sum.ErrorCount != 0 || sum.WarningCount != 0 {
		t.Errorf("summary not zero: %+v", sum)
	}
}

func TestTrackerFilesProcessed(t *testing.T) {
	tr := newTestTracker()
	tr.OnLine("Processing file:/project/a.dita")
	tr.OnLine("Processing file:/project/b.dita")
	tr.OnLine("not a file line")

	if got := tr.Snapshot().FilesProcessed; got != 2 {
		t.Errorf("filesProcessed = %d, want 2", got)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := newTestTracker()
	tr.OnLine("[DOTJ013E] failure")
	tr.OnLine("transform.html5:")
	tr.OnLine("Processing file:/a.dita")
	tr.Reset()

	sum := tr.FinalSummary()
	if sum.Stage != StageStart || sum.ErrorCount != 0 || sum.FilesProcessed != 0 {
		t.Errorf("tracker not reset: %+v", sum)
	}
}

// Summary lists are point-in-time copies: mutating the run after taking
// a summary must not change it.
func TestTrackerSummaryIsCopy(t *testing.T) {
	tr := newTestTracker()
	tr.OnLine("[DOTJ013E] first")
	sum := tr.FinalSummary()
	tr.OnLine("[DOTJ014E] second")

	if len(sum.Errors) != 1 {
		t.Errorf("summary mutated after capture: %v", sum.Errors)
	}
}
