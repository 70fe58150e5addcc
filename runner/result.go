package runner

import (
	"time"
)

// ExecutionResult is the immutable outcome of one toolkit invocation,
// created once at the end of supervision and handed to the caller.
type ExecutionResult struct {
	// ExitCode is the toolkit process exit code, or -1 when the process
	// was terminated before exiting on its own (timeout, cancellation)
	// or its status could not be determined.
	ExitCode int

	// Success is true only when the process exited cleanly on its own
	// and no error-severity lines were observed. A zero exit code alone
	// is not enough: the structured-message error signal takes
	// precedence, since some platform/toolkit combinations report
	// misleading exit codes.
	Success bool

	// Duration is the elapsed wall-clock time of the run.
	Duration time.Duration

	// ErrorCount and WarningCount are the final structured-message tallies.
	ErrorCount   int
	WarningCount int

	// FilesProcessed is the number of input files the toolkit reported
	// processing.
	FilesProcessed int

	// TimedOut is true when the process exceeded its wall-clock budget
	// and was forcibly terminated.
	TimedOut bool

	// Canceled is true when the caller's context was cancelled mid-run.
	// Cancellation is not a toolkit failure and callers should avoid
	// failure messaging for a user-requested stop.
	Canceled bool
}
