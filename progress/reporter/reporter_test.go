package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jyjeanne/dita-runner/progress"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"detailed", "simple", "minimal", "quiet"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) returned error: %v", s, err)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
}

func TestForMode(t *testing.T) {
	var buf bytes.Buffer
	if _, ok := ForMode(Quiet, &buf, false).(*progress.NoopReporter); !ok {
		t.Error("Quiet mode should yield the no-op reporter")
	}
	if _, ok := ForMode(Minimal, &buf, false).(*MinimalReporter); !ok {
		t.Error("Minimal mode should yield the minimal reporter")
	}
	if _, ok := ForMode(Detailed, &buf, false).(*BarReporter); !ok {
		t.Error("Detailed mode should yield the bar reporter")
	}
}

func TestBarReporterDetailed(t *testing.T) {
	var buf bytes.Buffer
	rep := NewBarReporter(&buf, Detailed, false)

	rep.Report(progress.Event{Stage: progress.StageKeyref, Files: 12})

	out := buf.String()
	if !strings.Contains(out, "36%") {
		t.Errorf("output missing percentage: %q", out)
	}
	if !strings.Contains(out, "Resolving key references") {
		t.Errorf("output missing stage label: %q", out)
	}
	if !strings.Contains(out, "(12 files)") {
		t.Errorf("output missing file count: %q", out)
	}
	if !strings.Contains(out, ">") {
		t.Errorf("bar missing head character below 100%%: %q", out)
	}
}

func TestBarReporterSimpleOmitsLabel(t *testing.T) {
	var buf bytes.Buffer
	rep := NewBarReporter(&buf, Simple, false)

	rep.Report(progress.Event{Stage: progress.StageKeyref})

	out := buf.String()
	if strings.Contains(out, "Resolving") || strings.Contains(out, "files") {
		t.Errorf("simple mode leaked detail: %q", out)
	}
	if !strings.Contains(out, "36%") {
		t.Errorf("simple mode missing percentage: %q", out)
	}
}

func TestBarReporterNoHeadAtCompletion(t *testing.T) {
	var buf bytes.Buffer
	rep := NewBarReporter(&buf, Simple, false)

	rep.Report(progress.Event{Stage: progress.StageComplete})

	out := buf.String()
	if strings.Contains(out, ">") {
		t.Errorf("bar shows head character at 100%%: %q", out)
	}
	if !strings.Contains(out, strings.Repeat("=", 25)) {
		t.Errorf("bar not fully filled at 100%%: %q", out)
	}
}

// Append mode must not duplicate lines when successive events render
// identically.
func TestBarReporterAppendDedupe(t *testing.T) {
	var buf bytes.Buffer
	rep := NewBarReporter(&buf, Simple, false)
	rep.throttleInterval = 0

	rep.Report(progress.Event{Stage: progress.StageKeyref})
	rep.Report(progress.Event{Stage: progress.StageKeyref})
	rep.Report(progress.Event{Stage: progress.StageConref})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 distinct lines, got %d: %q", len(lines), buf.String())
	}
}

// Interactive mode overwrites with a carriage return and pads a shorter
// repaint to the previous line's length.
func TestBarReporterInPlacePadding(t *testing.T) {
	var buf bytes.Buffer
	rep := NewBarReporter(&buf, Detailed, true)
	rep.throttleInterval = 0

	rep.Report(progress.Event{Stage: progress.StageConref, Files: 100})
	long := buf.Len()
	rep.Report(progress.Event{Stage: progress.StageTransform, Files: 100})

	out := buf.String()
	if strings.Count(out, "\r") != 2 {
		t.Errorf("expected two carriage returns, got %d: %q", strings.Count(out, "\r"), out)
	}
	second := out[long:]
	if len(second) == 0 || !strings.HasPrefix(second, "\r") {
		t.Fatalf("second paint malformed: %q", second)
	}
	// "Transforming" renders shorter than "Resolving content references",
	// so the repaint must be space-padded to cover it.
	if !strings.HasSuffix(second, " ") {
		t.Errorf("shorter repaint not padded: %q", second)
	}
}

func TestBarReporterFinalNewlineInteractive(t *testing.T) {
	var buf bytes.Buffer
	rep := NewBarReporter(&buf, Simple, true)

	rep.Report(progress.Event{Stage: progress.StageComplete})

	if !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("completion paint missing trailing newline: %q", buf.String())
	}
}

func TestBarReporterThrottlesSameStage(t *testing.T) {
	var buf bytes.Buffer
	rep := NewBarReporter(&buf, Detailed, false)
	rep.throttleInterval = time.Hour

	base := time.Now()
	rep.Report(progress.Event{Timestamp: base, Stage: progress.StageTransform, Files: 1})
	rep.Report(progress.Event{Timestamp: base.Add(time.Millisecond), Stage: progress.StageTransform, Files: 2})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("throttle did not absorb rapid repaint: %q", buf.String())
	}

	// A stage change always goes through regardless of the interval.
	rep.Report(progress.Event{Timestamp: base.Add(2 * time.Millisecond), Stage: progress.StageOutput})
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("stage change was throttled: %q", buf.String())
	}
}

func TestMinimalReporterHeadlineStagesOnly(t *testing.T) {
	var buf bytes.Buffer
	rep := NewMinimalReporter(&buf)

	for _, st := range []progress.Stage{
		progress.StageInit,
		progress.StageGenList, // micro-stage, absorbed
		progress.StagePreprocess,
		progress.StageKeyref, // micro-stage, absorbed
		progress.StageTransform,
		progress.StageComplete,
	} {
		rep.Report(progress.Event{Stage: st})
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 headline lines, got %d: %q", len(lines), out)
	}
	for _, want := range []string{"Initializing pipeline", "Preprocessing", "Transforming", "Complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing headline %q in %q", want, out)
		}
	}
	if strings.Contains(out, "Resolving") || strings.Contains(out, "Scanning") {
		t.Errorf("micro-stage leaked into minimal output: %q", out)
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewJSONReporter(&buf)

	rep.Report(progress.Event{
		Stage: progress.StageTransform,
		Files: 7,
	})

	var decoded progress.Event
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if decoded.Stage != progress.StageTransform {
		t.Errorf("stage = %v, want %v", decoded.Stage, progress.StageTransform)
	}
	if decoded.Files != 7 {
		t.Errorf("files = %d, want 7", decoded.Files)
	}
	if decoded.Percent != progress.StageTransform.Percent() {
		t.Errorf("percent = %v, want %v", decoded.Percent, progress.StageTransform.Percent())
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp not normalized")
	}
}

func TestChannelReporterDeliversAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rep := NewChannelReporter(ctx)

	rep.Report(progress.Event{Stage: progress.StagePreprocess})
	rep.Report(progress.Event{Stage: progress.StageComplete})

	got := []progress.Event{<-rep.Events(), <-rep.Events()}
	if got[0].Stage != progress.StagePreprocess || got[1].Stage != progress.StageComplete {
		t.Errorf("unexpected events: %+v", got)
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-rep.Events():
			if !ok {
				return // channel closed as expected
			}
		case <-deadline:
			t.Fatal("channel did not close after context cancellation")
		}
	}
}

func TestChannelReporterDropsWhenFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rep := NewChannelReporter(ctx)

	for i := 0; i < 150; i++ {
		rep.Report(progress.Event{Stage: progress.StageTransform, Files: i})
	}
	if rep.DroppedEvents() == 0 {
		t.Error("expected dropped events with no consumer")
	}
}
