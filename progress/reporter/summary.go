package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/jyjeanne/dita-runner/progress"
)

// maxSummaryErrors bounds how many captured error lines the summary
// block prints; the remainder is elided with an "...and N more" marker.
const maxSummaryErrors = 10

// RunInfo carries everything the end-of-run summary needs: the final
// telemetry plus the supervision outcome.
type RunInfo struct {
	Summary    progress.Summary
	Duration   time.Duration
	ExitCode   int
	Success    bool
	TimedOut   bool
	Canceled   bool
	ReadFailed bool
}

// WriteSummary prints the one-time structured summary block for a run.
//
// On failure the block always contains at least one explanation: the
// most recent captured error lines when any exist, otherwise an explicit
// timeout or cancellation notice, a read-failure notice when scanning
// the output broke off, otherwise a generic exit-code notice.
// The user is never left without a reason.
func WriteSummary(w io.Writer, info RunInfo) {
	s := info.Summary

	if info.Success {
		fmt.Fprintf(w, "\nTransformation complete in %s\n", info.Duration.Round(time.Millisecond))
	} else if info.Canceled {
		fmt.Fprintf(w, "\nTransformation canceled after %s\n", info.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(w, "\nTransformation failed after %s\n", info.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(w, "  Final stage:     %s\n", s.Stage)
	fmt.Fprintf(w, "  Files processed: %d\n", s.FilesProcessed)
	fmt.Fprintf(w, "  Warnings:        %d\n", s.WarningCount)
	fmt.Fprintf(w, "  Errors:          %d\n", s.ErrorCount)

	if s.ErrorCount > 0 {
		errs := s.Errors
		elided := 0
		if len(errs) > maxSummaryErrors {
			elided = len(errs) - maxSummaryErrors
			errs = errs[len(errs)-maxSummaryErrors:]
		}
		for _, line := range errs {
			fmt.Fprintf(w, "    %s\n", line)
		}
		if elided > 0 {
			fmt.Fprintf(w, "    ...and %d more\n", elided)
		}
	}

	switch {
	case info.Success:
	case info.TimedOut:
		fmt.Fprintf(w, "  The toolkit did not finish within the configured timeout and was terminated.\n")
	case info.Canceled:
		fmt.Fprintf(w, "  The run was canceled before the toolkit finished.\n")
	case info.ReadFailed:
		fmt.Fprintf(w, "  The toolkit's output could not be read to completion; the counts above may be incomplete.\n")
	case s.ErrorCount == 0:
		fmt.Fprintf(w, "  The toolkit failed with exit code %d.\n", info.ExitCode)
	}
}
