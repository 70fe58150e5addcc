package runner

import (
	"fmt"
	"sort"
	"time"
)

// ExecutionRequest describes one toolkit invocation. Built once per
// invocation and never mutated.
type ExecutionRequest struct {
	// DitaHome is the root of a resolved toolkit installation. The
	// launcher script is expected underneath it, and the value is
	// exported to the child process as DITA_HOME.
	DitaHome string

	// Input is the path of the map or topic to transform.
	Input string

	// Format is the transtype identifier, e.g. "html5" or "pdf".
	Format string

	// Output is the directory the toolkit writes its result into.
	Output string

	// Temp is the scratch directory for intermediate files.
	Temp string

	// Filter is an optional DITAVAL filter file path.
	Filter string

	// Params are extra toolkit parameters, rendered as -Dname=value.
	Params map[string]string

	// Timeout is the wall-clock budget for the whole run. Zero selects
	// the default of thirty minutes.
	Timeout time.Duration
}

// Validate checks that the mandatory fields are present.
func (r ExecutionRequest) Validate() error {
	switch {
	case r.DitaHome == "":
		return fmt.Errorf("dita home directory is required")
	case r.Input == "":
		return fmt.Errorf("input file is required")
	case r.Format == "":
		return fmt.Errorf("output format is required")
	case r.Output == "":
		return fmt.Errorf("output directory is required")
	case r.Temp == "":
		return fmt.Errorf("temp directory is required")
	}
	return nil
}

// argv builds the toolkit argument vector. Every value is a discrete
// element, never folded into a --flag=value token: the values are
// filesystem paths that may contain spaces, and discrete elements are
// immune to shell-quoting problems. Params are rendered in sorted key
// order so the argument set is deterministic.
func (r ExecutionRequest) argv(verbose bool) []string {
	args := []string{
		"--input", r.Input,
		"--format", r.Format,
		"--output", r.Output,
		"--temp", r.Temp,
	}
	if r.Filter != "" {
		args = append(args, "--filter", r.Filter)
	}
	if verbose {
		args = append(args, "-v")
	}

	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, fmt.Sprintf("-D%s=%s", k, r.Params[k]))
	}
	return args
}

// effectiveTimeout returns the configured timeout or the default.
func (r ExecutionRequest) effectiveTimeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return defaultTimeout
}
