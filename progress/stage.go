package progress

import (
	"strings"
)

// stagePredicate maps a set of case-insensitive substrings to a stage.
// Predicates are evaluated in order; the first match wins.
type stagePredicate struct {
	stage    Stage
	keywords []string
}

// stagePredicates is ordered most-specific first. The completion markers
// come before everything else so that a terminating line is never masked
// by a coincidental substring match, and the narrow preprocessing
// sub-steps come before the generic "preprocess" predicate.
var stagePredicates = []stagePredicate{
	{StageComplete, []string{"build successful", "build failed"}},
	{StageGenList, []string{"gen-list", "genmapandtopiclist"}},
	{StageDebugFilter, []string{"debug-filter", "debugandfilter", "profiling"}},
	{StageKeyref, []string{"keyref"}},
	{StageConref, []string{"conref"}},
	{StageMoveMeta, []string{"move-meta", "mappull"}},
	{StageTopicChunk, []string{"chunk"}},
	{StagePreprocess, []string{"preprocess"}},
	{StageTransform, []string{"transform", "xslt", ".fo", "pdf2"}},
	{StageOutput, []string{"copy-image", "copy-css", "output:"}},
	{StageInit, []string{"initializing", "init:"}},
}

// DetectStage maps a raw toolkit output line to a pipeline stage.
//
// Matching is case-insensitive and purely lexical; the function has no
// side effects and no shared state. The second return value is false when
// no predicate matches the line.
func DetectStage(line string) (Stage, bool) {
	lower := strings.ToLower(line)
	for _, p := range stagePredicates {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return p.stage, true
			}
		}
	}
	return StageStart, false
}
