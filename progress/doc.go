// Package progress provides real-time progress telemetry for toolkit runs.
//
// The package turns the DITA Open Toolkit's raw console output into a
// pipeline-stage model: DetectStage maps output lines onto an ordered
// stage vocabulary, and Tracker accumulates the current stage, a files
// counter, and the error/warning lines into snapshots that reporters can
// render without locks.
//
// Basic usage:
//
//	tracker := progress.NewTracker(log, false)
//	rep := reporter.NewBarReporter(os.Stderr, reporter.Detailed, true)
//
//	for line := range lines {
//	    if tracker.OnLine(line) {
//	        rep.Report(progress.Event{
//	            Stage: tracker.Snapshot().Stage,
//	        })
//	    }
//	}
//
// For programmatic consumption use reporter.ChannelReporter, which
// exposes events over a channel bounded by a context.
package progress
