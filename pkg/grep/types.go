package grep

import "slices"

// FileRecord is the path of one regular file produced by the enumerator.
// The path is the walk path (root joined with the relative path), not necessarily absolute.
type FileRecord string

// MatchEntry is one line in one file that contains the search string.
type MatchEntry struct {
	WorkerID int    `json:"workerId" yaml:"workerId"`
	Path     string `json:"path" yaml:"path"`
	Line     int    `json:"line" yaml:"line"` // 1-based
	Text     string `json:"text" yaml:"text"`
}

// OutcomeKind tags what a worker's invocation amounted to.
type OutcomeKind int

// Constants representing the possible worker outcome states.
const (
	// OutcomeIdle means the worker was assigned an empty chunk.
	OutcomeIdle OutcomeKind = iota
	// OutcomeNoMatches means the worker was assigned files but found no matching line.
	OutcomeNoMatches
	// OutcomeMatched means the worker produced at least one MatchEntry.
	OutcomeMatched
)

// String implements fmt.Stringer.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIdle:
		return "idle"
	case OutcomeNoMatches:
		return "no_matches"
	case OutcomeMatched:
		return "matched"
	default:
		return "unknown"
	}
}

// FileFailure records a file that a worker could not search.
type FileFailure struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// WorkerOutcome is the full output of one worker invocation.
//
// Kind is derived from the other fields when the worker finishes and is the only
// field report builders should branch on; an empty Matches slice alone does not
// distinguish an idle worker from one that scanned files without a hit.
type WorkerOutcome struct {
	WorkerID  int           `json:"workerId" yaml:"workerId"`
	Kind      OutcomeKind   `json:"kind" yaml:"kind"`
	Attempted []string      `json:"attempted" yaml:"attempted"` // the chunk, in order
	Processed []string      `json:"processed" yaml:"processed"` // opened successfully, in order
	Skipped   []string      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failed    []FileFailure `json:"failed,omitempty" yaml:"failed,omitempty"`
	Matches   []MatchEntry  `json:"matches,omitempty" yaml:"matches,omitempty"`
}

// newWorkerOutcome creates an outcome for a worker about to scan chunk.
func newWorkerOutcome(workerID int, chunk []FileRecord) WorkerOutcome {
	attempted := make([]string, len(chunk))
	for i, f := range chunk {
		attempted[i] = string(f)
	}
	return WorkerOutcome{
		WorkerID:  workerID,
		Kind:      OutcomeIdle,
		Attempted: attempted,
		Processed: make([]string, 0, len(chunk)),
	}
}

// seal fixes Kind from the collected data. Called once when the worker is done.
func (o *WorkerOutcome) seal() {
	switch {
	case len(o.Matches) > 0:
		o.Kind = OutcomeMatched
	case len(o.Attempted) > 0:
		o.Kind = OutcomeNoMatches
	default:
		o.Kind = OutcomeIdle
	}
}

// MatchedFiles returns the distinct files with at least one match, in first-match order.
func (o WorkerOutcome) MatchedFiles() []string {
	var files []string
	for _, m := range o.Matches {
		// Matches for one file are contiguous, so checking the tail is usually enough.
		if len(files) > 0 && files[len(files)-1] == m.Path {
			continue
		}
		if !slices.Contains(files, m.Path) {
			files = append(files, m.Path)
		}
	}
	return files
}

// CombinedResult is the merge of every worker's outcome, in worker-index order,
// together with the number of files the enumerator discovered.
type CombinedResult struct {
	Outcomes   []WorkerOutcome `json:"outcomes" yaml:"outcomes"`
	TotalFiles int             `json:"totalFiles" yaml:"totalFiles"`
}

// Matches returns every MatchEntry, concatenated in worker-index order.
func (r CombinedResult) Matches() []MatchEntry {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Matches)
	}
	all := make([]MatchEntry, 0, n)
	for _, o := range r.Outcomes {
		all = append(all, o.Matches...)
	}
	return all
}

// MatchCount returns the number of distinct (file, line) pairs.
func (r CombinedResult) MatchCount() int {
	type key struct {
		path string
		line int
	}
	seen := make(map[key]struct{})
	for _, o := range r.Outcomes {
		for _, m := range o.Matches {
			seen[key{m.Path, m.Line}] = struct{}{}
		}
	}
	return len(seen)
}

// MatchedFileCount returns the number of distinct files containing at least one match.
func (r CombinedResult) MatchedFileCount() int {
	seen := make(map[string]struct{})
	for _, o := range r.Outcomes {
		for _, m := range o.Matches {
			seen[m.Path] = struct{}{}
		}
	}
	return len(seen)
}

// Failures returns every soft failure across all workers, in worker-index order.
func (r CombinedResult) Failures() []FileFailure {
	var failed []FileFailure
	for _, o := range r.Outcomes {
		failed = append(failed, o.Failed...)
	}
	return failed
}

// SkippedCount returns how many files were opened but not scanned (binary detection).
func (r CombinedResult) SkippedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Skipped)
	}
	return n
}
