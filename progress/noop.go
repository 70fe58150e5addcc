package progress

// NoopReporter is a no-op implementation of Reporter that discards all
// events. It is the default when progress display is disabled, ensuring
// zero overhead on the reader goroutine's hot path.
type NoopReporter struct{}

// NewNoopReporter creates a new no-op progress reporter.
func NewNoopReporter() *NoopReporter {
	return &NoopReporter{}
}

// Report discards the event without any action.
func (n *NoopReporter) Report(event Event) {
	// Intentionally empty - no-op implementation
}
