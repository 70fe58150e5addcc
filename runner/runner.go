package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jyjeanne/dita-runner/progress"
	"github.com/jyjeanne/dita-runner/progress/reporter"
	"github.com/jyjeanne/dita-runner/tracing"
)

const (
	// defaultTimeout is the wall-clock ceiling for a run when the
	// request does not set one.
	defaultTimeout = 30 * time.Minute

	// joinTimeout bounds how long cleanup waits for the reader
	// goroutine after the process is gone, so the supervisor itself can
	// never hang on a misbehaving stream.
	joinTimeout = 5 * time.Second
)

// Supervisor owns the end-to-end lifecycle of toolkit invocations: it
// builds the command line, launches the child process, feeds its merged
// output through the telemetry tracker, enforces the timeout, and
// guarantees deterministic cleanup on every exit path.
//
// A Supervisor is reusable across sequential invocations but must not
// run two invocations concurrently; callers wanting parallel runs create
// one Supervisor each.
type Supervisor struct {
	log      logr.Logger
	tracker  *progress.Tracker
	reporter progress.Reporter
	summaryW io.Writer

	// quietSummary suppresses the summary block on success, leaving
	// only the error block for failed runs.
	quietSummary bool

	verboseWarnings bool
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithReporter sets the progress reporter driven during the run.
func WithReporter(r progress.Reporter) Option {
	return func(s *Supervisor) {
		s.reporter = r
	}
}

// WithSummaryWriter sets where the end-of-run summary block is printed.
func WithSummaryWriter(w io.Writer) Option {
	return func(s *Supervisor) {
		s.summaryW = w
	}
}

// WithQuietSummary suppresses the summary on successful runs; failed
// runs still print their error block.
func WithQuietSummary() Option {
	return func(s *Supervisor) {
		s.quietSummary = true
	}
}

// WithVerboseWarnings echoes warning lines through the logger as they
// arrive instead of only counting them for the summary.
func WithVerboseWarnings() Option {
	return func(s *Supervisor) {
		s.verboseWarnings = true
	}
}

// New creates a Supervisor logging through log.
func New(log logr.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		log:      log,
		reporter: progress.NewNoopReporter(),
		summaryW: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracker = progress.NewTracker(log, s.verboseWarnings)
	return s
}

// Run executes one toolkit invocation and blocks until it reaches a
// terminal state.
//
// Only launch failures (missing executable, spawn failure) are returned
// as errors. Every other outcome (toolkit-reported errors, timeout,
// cancellation, reader-side parse failures) is represented in the
// returned ExecutionResult so callers have one uniform success/failure
// decision point.
func (s *Supervisor) Run(ctx context.Context, req ExecutionRequest) (ExecutionResult, error) {
	if err := req.Validate(); err != nil {
		return ExecutionResult{}, err
	}

	ctx, span := tracing.StartNewSpan(ctx, "dita-run",
		attribute.String("input", req.Input),
		attribute.String("format", req.Format),
	)
	defer span.End()

	s.tracker.Reset()

	exe := filepath.Join(req.DitaHome, launcherPath)
	args := req.argv(true)
	s.log.V(2).Info("launching toolkit", "exe", exe, "args", args)

	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(), "DITA_HOME="+req.DitaHome)

	// Merge stdout and stderr into one pipe so line ordering between the
	// two is preserved as the toolkit emitted it. The pipe is created
	// here rather than via StdoutPipe so that reaping the process never
	// races with the reader draining the tail of the stream.
	pr, pw, err := os.Pipe()
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	stdin, err := cmd.StdinPipe()
	if err != nil {
		pr.Close()
		pw.Close()
		return ExecutionResult{}, fmt.Errorf("create stdin pipe: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return ExecutionResult{}, fmt.Errorf("launch %s: %w", exe, err)
	}

	// The parent's copy of the write end must go away so the reader sees
	// EOF when the child exits; nothing is ever written to the child, so
	// its input closes right away too.
	pw.Close()
	stdin.Close()

	proc := newManagedProcess(cmd, pr, stdin)
	proc.watch()

	readerDone := make(chan struct{})
	readErrCh := make(chan error, 1)
	go s.readLoop(pr, readerDone, readErrCh)

	var timedOut, canceled bool
	timeout := req.effectiveTimeout()

	select {
	case <-proc.Done():
	case <-time.After(timeout):
		timedOut = true
		s.log.Info("toolkit run exceeded timeout, terminating", "timeout", timeout)
		if err := proc.Kill(); err != nil {
			s.log.Error(err, "failed to kill timed-out toolkit process")
		}
		<-proc.Done()
	case <-ctx.Done():
		canceled = true
		s.log.V(1).Info("run canceled, terminating toolkit")
		if err := proc.Kill(); err != nil {
			s.log.Error(err, "failed to kill canceled toolkit process")
		}
		<-proc.Done()
	}

	// Join the reader before touching the final summary so summary
	// output never interleaves with in-flight progress lines. The join
	// is bounded: if the reader is stuck, force EOF by closing its pipe.
	var readErr error
	select {
	case <-readerDone:
	case <-time.After(joinTimeout):
		s.log.Info("stream reader did not finish in time, closing stream")
		pr.Close()
		select {
		case <-readerDone:
		case <-time.After(joinTimeout):
			s.log.Info("abandoning stream reader")
		}
	}
	select {
	case readErr = <-readErrCh:
	default:
	}

	if err := proc.CloseStreams(); err != nil {
		s.log.V(2).Info("stream cleanup", "err", err)
	}
	if !timedOut && !canceled {
		// Defensive: the wait already reaped the process, but make sure
		// nothing is left running on unexpected exit paths.
		proc.Kill()
	}

	summary := s.tracker.FinalSummary()
	exited := !timedOut && !canceled
	result := ExecutionResult{
		ExitCode:       proc.ExitCode(),
		Success:        exited && summary.ErrorCount == 0 && proc.ExitCode() == 0 && readErr == nil,
		Duration:       time.Since(start),
		ErrorCount:     summary.ErrorCount,
		WarningCount:   summary.WarningCount,
		FilesProcessed: summary.FilesProcessed,
		TimedOut:       timedOut,
		Canceled:       canceled,
	}
	if timedOut || canceled {
		result.ExitCode = -1
	}

	if !s.quietSummary || !result.Success {
		reporter.WriteSummary(s.summaryW, reporter.RunInfo{
			Summary:    summary,
			Duration:   result.Duration,
			ExitCode:   result.ExitCode,
			Success:    result.Success,
			TimedOut:   result.TimedOut,
			Canceled:   result.Canceled,
			ReadFailed: readErr != nil,
		})
	}

	span.SetAttributes(
		attribute.Bool("success", result.Success),
		attribute.Int("errors", result.ErrorCount),
		attribute.Int("warnings", result.WarningCount),
	)
	s.log.V(1).Info("toolkit run finished",
		"exitCode", result.ExitCode,
		"success", result.Success,
		"duration", result.Duration,
		"errors", result.ErrorCount,
		"warnings", result.WarningCount,
	)
	return result, nil
}

// readLoop is the dedicated stream reader: it consumes the merged output
// line by line until end-of-stream, feeding the tracker and triggering
// the reporter whenever the displayed state changes. Classification
// errors never escape this goroutine; they are reported back through
// errCh and surface as an unsuccessful result.
func (s *Supervisor) readLoop(r io.Reader, done chan<- struct{}, errCh chan<- error) {
	defer close(done)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lastFiles := 0
	for scanner.Scan() {
		line := scanner.Text()
		s.log.V(3).Info(line)

		advanced := s.tracker.OnLine(line)
		snap := s.tracker.Snapshot()
		if advanced || snap.FilesProcessed != lastFiles {
			lastFiles = snap.FilesProcessed
			s.reporter.Report(progress.Event{
				Stage:   snap.Stage,
				Files:   snap.FilesProcessed,
				Message: line,
			})
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		s.log.Error(err, "error reading toolkit output")
		errCh <- err
	}
}
