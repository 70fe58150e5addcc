package progress

import (
	"time"
)

// Reporter is the interface for outputting progress events.
//
// Reporters receive events from the supervisor's reader goroutine and
// format/output them in various ways:
//   - BarReporter: interactive progress bar (Detailed and Simple modes)
//   - MinimalReporter: one line per headline stage
//   - QuietReporter: discards everything during the run
//   - ChannelReporter: exposes events via a Go channel for programmatic use
//   - JSONReporter: newline-delimited JSON for CI and log aggregation
//
// Implementations must be safe for concurrent use and should not block,
// since Report is called inline from the stream reader goroutine between
// line reads.
type Reporter interface {
	// Report outputs a progress event. Events arrive pre-normalized with
	// timestamps and stage percentages.
	Report(event Event)
}

// Event represents a progress update at a specific point in time.
//
// Events are emitted on every stage transition and periodically as files
// are processed. Not all fields are populated for all events: a stage
// transition carries Stage and Percent, while file-progress events also
// carry the running Files count.
type Event struct {
	// Timestamp is when the event occurred. If not set by the caller,
	// reporters will populate it automatically.
	Timestamp time.Time `json:"timestamp"`

	// Stage is the pipeline stage the run has reached.
	Stage Stage `json:"stage"`

	// Message provides human-readable context (e.g. the toolkit line that
	// triggered a stage transition).
	Message string `json:"message,omitempty"`

	// Files is the number of files the toolkit has processed so far.
	Files int `json:"files,omitempty"`

	// Percent is the completion percentage (0-100). If zero it is derived
	// from the stage's own percentage.
	Percent float64 `json:"percent,omitempty"`
}

// Stage represents a phase of the toolkit's processing pipeline.
//
// Stages are totally ordered: the ordinal is the rank, and each stage
// carries a completion percentage. The percentage sequence is
// non-decreasing, starting at 0 for StageStart and ending at 100 for
// StageComplete. A run's displayed stage only ever moves forward through
// this sequence (see Tracker).
type Stage int

const (
	// StageStart is the initial stage before any toolkit output is seen.
	StageStart Stage = iota

	// StageInit indicates pipeline initialization.
	StageInit

	// StagePreprocess indicates the generic preprocess phase. The narrower
	// preprocessing sub-steps below refine it as they appear in the output.
	StagePreprocess

	// StageGenList indicates input map scanning (gen-list).
	StageGenList

	// StageDebugFilter indicates content filtering (debug-filter).
	StageDebugFilter

	// StageKeyref indicates key reference resolution.
	StageKeyref

	// StageConref indicates content reference resolution.
	StageConref

	// StageMoveMeta indicates metadata propagation (move-meta, mappull).
	StageMoveMeta

	// StageTopicChunk indicates topic chunking.
	StageTopicChunk

	// StageTransform indicates the output transformation proper (XSLT,
	// FO rendering).
	StageTransform

	// StageOutput indicates final output assembly (resource copying).
	StageOutput

	// StageComplete indicates the toolkit has finished, successfully or not.
	StageComplete
)

// stageInfo pairs a stage's display label with its completion percentage.
type stageInfo struct {
	label   string
	percent float64
}

var stageTable = map[Stage]stageInfo{
	StageStart:       {"Starting", 0},
	StageInit:        {"Initializing pipeline", 4},
	StagePreprocess:  {"Preprocessing", 10},
	StageGenList:     {"Scanning input map", 16},
	StageDebugFilter: {"Filtering content", 26},
	StageKeyref:      {"Resolving key references", 36},
	StageConref:      {"Resolving content references", 46},
	StageMoveMeta:    {"Propagating metadata", 54},
	StageTopicChunk:  {"Chunking topics", 60},
	StageTransform:   {"Transforming", 70},
	StageOutput:      {"Writing output", 90},
	StageComplete:    {"Complete", 100},
}

// Stages returns all stages in ordinal order.
func Stages() []Stage {
	out := make([]Stage, 0, len(stageTable))
	for s := StageStart; s <= StageComplete; s++ {
		out = append(out, s)
	}
	return out
}

// String returns the human-readable label for the stage.
func (s Stage) String() string {
	if info, ok := stageTable[s]; ok {
		return info.label
	}
	return "Unknown"
}

// Percent returns the completion percentage associated with the stage.
func (s Stage) Percent() float64 {
	if info, ok := stageTable[s]; ok {
		return info.percent
	}
	return 0
}
