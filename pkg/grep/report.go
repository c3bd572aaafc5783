package grep

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// MatchLine is one matching line within a file group of the match report.
type MatchLine struct {
	Line int    `json:"line" yaml:"line"`
	Text string `json:"text" yaml:"text"`
}

// MatchGroup holds the matching lines of one file, in ascending line order.
type MatchGroup struct {
	Path  string      `json:"path" yaml:"path"`
	Lines []MatchLine `json:"lines" yaml:"lines"`
}

// MatchReport is the match listing: one group per file with at least one match,
// ordered by descending match count and then by ascending path.
type MatchReport struct {
	Groups []MatchGroup `json:"groups" yaml:"groups"`
}

// BuildMatchReport groups the matches of result by file and orders the groups.
// Files without matches do not appear.
func BuildMatchReport(result CombinedResult) MatchReport {
	index := make(map[string]int)
	var groups []MatchGroup
	for _, m := range result.Matches() {
		i, ok := index[m.Path]
		if !ok {
			i = len(groups)
			index[m.Path] = i
			groups = append(groups, MatchGroup{Path: m.Path})
		}
		groups[i].Lines = append(groups[i].Lines, MatchLine{Line: m.Line, Text: m.Text})
	}

	for i := range groups {
		lines := groups[i].Lines
		slices.SortStableFunc(lines, func(a, b MatchLine) int { return cmp.Compare(a.Line, b.Line) })
		groups[i].Lines = slices.CompactFunc(lines, func(a, b MatchLine) bool { return a.Line == b.Line })
	}
	slices.SortFunc(groups, func(a, b MatchGroup) int {
		if c := cmp.Compare(len(b.Lines), len(a.Lines)); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return MatchReport{Groups: groups}
}

// LineCount returns the number of report lines, i.e. distinct (file, line) pairs.
func (r MatchReport) LineCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Lines)
	}
	return n
}

// Render returns the report text, one "<path>:<line>: <text>" line per match.
func (r MatchReport) Render() []byte {
	var buf bytes.Buffer
	for _, g := range r.Groups {
		for _, l := range g.Lines {
			buf.WriteString(FormatMatchLine(g.Path, l.Line, l.Text))
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// WriteTo implements io.WriterTo.
func (r MatchReport) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Render())
	return int64(n), err
}

// FormatMatchLine renders a single match report line without its terminator.
func FormatMatchLine(path string, line int, text string) string {
	return path + ":" + strconv.Itoa(line) + ": " + text
}

// ParseMatchLine splits a match report line back into path, line number and text.
//
// Paths may themselves contain colons, so the separator is taken to be the first
// colon followed by a decimal line number and ": ". Everything after that single
// space is the line text, verbatim. The returned entry's WorkerID is always zero.
func ParseMatchLine(line string) (MatchEntry, error) {
	line = strings.TrimSuffix(line, "\n")
	for start := 0; start < len(line); {
		i := strings.IndexByte(line[start:], ':')
		if i < 0 {
			break
		}
		i += start
		rest := line[i+1:]
		digits := 0
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if i > 0 && digits > 0 && strings.HasPrefix(rest[digits:], ": ") {
			lineNo, err := strconv.Atoi(rest[:digits])
			if err == nil && lineNo > 0 {
				return MatchEntry{
					Path: line[:i],
					Line: lineNo,
					Text: rest[digits+2:],
				}, nil
			}
		}
		start = i + 1
	}
	return MatchEntry{}, fmt.Errorf("%w: %q", ErrMalformedReportLine, line)
}
