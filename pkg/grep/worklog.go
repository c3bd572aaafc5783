package grep

import (
	"bytes"
	"cmp"
	"io"
	"slices"
	"strconv"
	"strings"
)

// WorkerLogEntry is one line of the worker log.
type WorkerLogEntry struct {
	WorkerID     int      `json:"workerId" yaml:"workerId"`
	Kind         string   `json:"kind" yaml:"kind"`
	Files        []string `json:"files" yaml:"files"` // processed files, chunk order
	MatchedFiles int      `json:"matchedFiles" yaml:"matchedFiles"`
}

// WorkerLog lists every worker with the files it processed.
type WorkerLog struct {
	Entries []WorkerLogEntry `json:"entries" yaml:"entries"`
}

// BuildWorkerLog creates one entry per worker, idle workers included, and orders them.
//
// Workers that matched come first, by descending number of distinct matched files,
// then descending processed count, then ascending worker index. The remaining
// workers follow by descending processed count and ascending worker index.
func BuildWorkerLog(result CombinedResult) WorkerLog {
	entries := make([]WorkerLogEntry, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		entries = append(entries, WorkerLogEntry{
			WorkerID:     o.WorkerID,
			Kind:         o.Kind.String(),
			Files:        slices.Clone(o.Processed),
			MatchedFiles: len(o.MatchedFiles()),
		})
	}

	slices.SortFunc(entries, func(a, b WorkerLogEntry) int {
		aHit, bHit := a.MatchedFiles > 0, b.MatchedFiles > 0
		if aHit != bHit {
			if aHit {
				return -1
			}
			return 1
		}
		if aHit {
			if c := cmp.Compare(b.MatchedFiles, a.MatchedFiles); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(len(b.Files), len(a.Files)); c != 0 {
			return c
		}
		return cmp.Compare(a.WorkerID, b.WorkerID)
	})
	return WorkerLog{Entries: entries}
}

// Render returns the log text, one "<worker>:<file1>,<file2>" line per worker.
// A worker without processed files renders as "<worker>:".
func (l WorkerLog) Render() []byte {
	var buf bytes.Buffer
	for _, e := range l.Entries {
		buf.WriteString(strconv.Itoa(e.WorkerID))
		buf.WriteByte(':')
		buf.WriteString(strings.Join(e.Files, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteTo implements io.WriterTo.
func (l WorkerLog) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(l.Render())
	return int64(n), err
}
