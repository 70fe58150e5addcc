// Package runner launches the DITA Open Toolkit as a child process and
// supervises its whole lifecycle.
//
// The Supervisor builds a deterministic argument vector from an
// ExecutionRequest, launches the platform launcher script with stdout
// and stderr merged into a single stream, and runs exactly one reader
// goroutine that feeds each output line through the progress tracker.
// The calling goroutine blocks on process completion with a bounded
// wait; timeout and context cancellation both force-terminate the child
// and are reported distinctly in the ExecutionResult.
//
// Cleanup is deterministic on every exit path: the reader goroutine is
// joined with a short bound, the child's streams are closed defensively,
// and the final summary is printed exactly once after the join.
//
//	sup := runner.New(log,
//	    runner.WithReporter(reporter.ForMode(reporter.Detailed, os.Stderr, true)),
//	)
//	result, err := sup.Run(ctx, runner.ExecutionRequest{
//	    DitaHome: "/opt/dita-ot",
//	    Input:    "doc/userguide.ditamap",
//	    Format:   "html5",
//	    Output:   "build/docs",
//	    Temp:     "build/tmp",
//	})
package runner
