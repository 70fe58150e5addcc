package reporter

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/jyjeanne/dita-runner/progress"
)

// ChannelReporter sends progress events to a Go channel for programmatic
// consumption: custom UIs, monitoring, or tests that assert on the event
// stream.
//
// The reporter uses a buffered channel with non-blocking sends so a slow
// consumer never stalls the stream reader. When the buffer is full,
// events are dropped and counted (see DroppedEvents).
//
// Lifecycle is bound to a context: the channel closes when the context
// is cancelled, so consumers can simply range over Events().
//
// Example:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	rep := reporter.NewChannelReporter(ctx)
//
//	go func() {
//	    for event := range rep.Events() {
//	        fmt.Printf("%.0f%% %s\n", event.Percent, event.Stage)
//	    }
//	}()
type ChannelReporter struct {
	events        chan progress.Event
	mu            sync.RWMutex
	closed        bool
	droppedEvents atomic.Uint64
	log           logr.Logger
}

// ChannelReporterOption is a function that configures a ChannelReporter.
type ChannelReporterOption func(*ChannelReporter)

// WithLogger sets a logger used to record dropped events at V(1).
func WithLogger(log logr.Logger) ChannelReporterOption {
	return func(r *ChannelReporter) {
		r.log = log
	}
}

// NewChannelReporter creates a channel-based progress reporter whose
// channel (capacity 100) closes when ctx is cancelled.
func NewChannelReporter(ctx context.Context, opts ...ChannelReporterOption) *ChannelReporter {
	r := &ChannelReporter{
		events: make(chan progress.Event, 100),
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		if !r.closed {
			r.closed = true
			close(r.events)
		}
		r.mu.Unlock()
	}()

	return r
}

// Events returns the channel consumers read progress events from.
func (r *ChannelReporter) Events() <-chan progress.Event {
	return r.events
}

// DroppedEvents returns how many events were discarded because the
// consumer could not keep up.
func (r *ChannelReporter) DroppedEvents() uint64 {
	return r.droppedEvents.Load()
}

// Report forwards the event to the channel without blocking. Events sent
// after the context is cancelled, or while the buffer is full, are
// dropped.
func (r *ChannelReporter) Report(event progress.Event) {
	normalize(&event)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.events <- event:
	default:
		dropped := r.droppedEvents.Add(1)
		r.log.V(1).Info("dropped progress event, consumer too slow",
			"stage", event.Stage, "totalDropped", dropped)
	}
}
