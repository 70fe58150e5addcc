// Package message classifies raw toolkit output lines by severity.
//
// The DITA Open Toolkit tags its own messages with structured codes of the
// form [PREFIXnnnS]: a component prefix, a message number, and a single
// trailing severity letter. Only this code grammar is authoritative:
// free-text markers such as "ERROR" or "Exception" frequently appear in
// third-party output embedded in the stream (stack traces, file names like
// error-messages.xml) and would produce false positives and double-counted
// multi-line traces if they were treated as signals.
package message

import (
	"regexp"
	"strings"
)

// Severity is the classification of a single toolkit output line.
type Severity int

const (
	// SeverityNone marks a line carrying no structured message code.
	SeverityNone Severity = iota

	// SeverityInfo marks an informational code (trailing I). Info lines
	// are excluded from error and warning accounting even when their
	// free-text payload contains words like "error".
	SeverityInfo

	// SeverityWarning marks a warning code (trailing W).
	SeverityWarning

	// SeverityError marks an error or fatal code (trailing E or F).
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

// The toolkit's message component prefixes. Codes from components outside
// this set are not recognized.
const codePrefixes = `DOTA|DOTJ|DOTX|PDFX`

var (
	infoPattern    = regexp.MustCompile(`\[(?:` + codePrefixes + `)\d+I\]`)
	warningPattern = regexp.MustCompile(`\[(?:` + codePrefixes + `)\d+W\]`)
	errorPattern   = regexp.MustCompile(`\[(?:` + codePrefixes + `)\d+[EF]\]`)
)

// Classify maps a raw output line to a severity.
//
// The three code patterns are disjoint, but Info is checked first so that
// a line which could satisfy both a broad and a narrow pattern is never
// escalated: informational is informational by definition. Lines with no
// recognized code classify as SeverityNone. Pure function.
func Classify(line string) Severity {
	switch {
	case infoPattern.MatchString(line):
		return SeverityInfo
	case warningPattern.MatchString(line):
		return SeverityWarning
	case errorPattern.MatchString(line):
		return SeverityError
	default:
		return SeverityNone
	}
}

// IsFileProcessed reports whether a line announces that the toolkit has
// finished processing one input file. The toolkit emits these as
// "Processing file:/path/to/topic.dita".
func IsFileProcessed(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "Processing file:")
}
