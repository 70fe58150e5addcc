package runner

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
)

// Sentinel errors for process lifecycle misuse.
var (
	// ErrProcessNotStarted is returned when operations require a started process.
	ErrProcessNotStarted = errors.New("process not started")
)

// managedProcess wraps the toolkit child process, its stdio handles, and
// exit tracking. It is created at launch, owned exclusively by the
// Supervisor, and destroyed on every terminal transition. It is never
// exposed beyond this package.
type managedProcess struct {
	cmd *exec.Cmd

	// output is the merged stdout+stderr read end.
	output io.ReadCloser

	// stdin is the child's input; closed immediately after launch since
	// nothing is ever written to it.
	stdin io.WriteCloser

	// done is closed when the process has been reaped.
	done chan struct{}

	exitCode atomic.Int32

	mu      sync.Mutex
	exitErr error

	waitOnce sync.Once
	killOnce sync.Once
	killErr  error
}

func newManagedProcess(cmd *exec.Cmd, output io.ReadCloser, stdin io.WriteCloser) *managedProcess {
	p := &managedProcess{
		cmd:    cmd,
		output: output,
		stdin:  stdin,
		done:   make(chan struct{}),
	}
	p.exitCode.Store(-1) // -1 indicates not exited
	return p
}

// watch reaps the process in a dedicated goroutine and records its exit
// code. done is closed exactly once, when the exit status is known.
func (p *managedProcess) watch() {
	p.waitOnce.Do(func() {
		go func() {
			err := p.cmd.Wait()

			p.mu.Lock()
			p.exitErr = err
			p.mu.Unlock()

			code := 0
			if err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					code = exitErr.ExitCode()
				} else {
					code = -1
				}
			}
			p.exitCode.Store(int32(code))
			close(p.done)
		}()
	})
}

// ExitCode returns the process exit code, or -1 if it has not exited.
func (p *managedProcess) ExitCode() int {
	return int(p.exitCode.Load())
}

// ExitError returns the error recorded by Wait, if any.
func (p *managedProcess) ExitError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}

// Done returns a channel closed when the process has been reaped.
func (p *managedProcess) Done() <-chan struct{} {
	return p.done
}

// Kill forcibly destroys the process. Safe to call from any exit path;
// only the first call signals the process.
func (p *managedProcess) Kill() error {
	p.killOnce.Do(func() {
		if p.cmd.Process == nil {
			p.killErr = ErrProcessNotStarted
			return
		}
		p.killErr = p.cmd.Process.Kill()
	})
	return p.killErr
}

// CloseStreams closes the child's stdio handles. Each close is attempted
// independently so a failure on one stream does not prevent the others.
func (p *managedProcess) CloseStreams() error {
	var errs []error

	if p.stdin != nil {
		if err := p.stdin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stdin: %w", err))
		}
	}
	if p.output != nil {
		if err := p.output.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close output: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close process I/O: %v", errs)
	}
	return nil
}
