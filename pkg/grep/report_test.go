package grep_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stackvity/specific-grep/pkg/grep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(workerID int, kind grep.OutcomeKind, processed []string, matches ...grep.MatchEntry) grep.WorkerOutcome {
	return grep.WorkerOutcome{
		WorkerID:  workerID,
		Kind:      kind,
		Attempted: processed,
		Processed: processed,
		Matches:   matches,
	}
}

func match(workerID int, path string, line int, text string) grep.MatchEntry {
	return grep.MatchEntry{WorkerID: workerID, Path: path, Line: line, Text: text}
}

func TestBuildMatchReport_OrdersGroups(t *testing.T) {
	result := grep.CombinedResult{
		TotalFiles: 5,
		Outcomes: []grep.WorkerOutcome{
			outcome(0, grep.OutcomeMatched, []string{"z.txt", "quiet.txt"},
				match(0, "z.txt", 7, "z7"),
				match(0, "z.txt", 2, "z2"),
			),
			outcome(1, grep.OutcomeMatched, []string{"b.txt", "a.txt"},
				match(1, "b.txt", 1, "b1"),
				match(1, "a.txt", 4, "a4"),
				match(1, "a.txt", 9, "a9"),
			),
			outcome(2, grep.OutcomeMatched, []string{"c.txt"},
				match(2, "c.txt", 3, "c3"),
			),
		},
	}

	report := grep.BuildMatchReport(result)

	var order []string
	for _, g := range report.Groups {
		order = append(order, g.Path)
	}
	assert.Equal(t, []string{"a.txt", "z.txt", "b.txt", "c.txt"}, order, "Descending count, ties by ascending path")
	assert.Equal(t, []grep.MatchLine{{Line: 2, Text: "z2"}, {Line: 7, Text: "z7"}}, report.Groups[1].Lines, "Lines ascend within a group")
	assert.Equal(t, 6, report.LineCount())

	want := strings.Join([]string{
		"a.txt:4: a4",
		"a.txt:9: a9",
		"z.txt:2: z2",
		"z.txt:7: z7",
		"b.txt:1: b1",
		"c.txt:3: c3",
	}, "\n") + "\n"
	assert.Equal(t, want, string(report.Render()))

	var buf bytes.Buffer
	n, err := report.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(want), n)
	assert.Equal(t, want, buf.String())
}

func TestBuildMatchReport_NoMatches(t *testing.T) {
	result := grep.CombinedResult{
		TotalFiles: 1,
		Outcomes:   []grep.WorkerOutcome{outcome(0, grep.OutcomeNoMatches, []string{"a.txt"})},
	}
	report := grep.BuildMatchReport(result)
	assert.Empty(t, report.Groups)
	assert.Empty(t, report.Render())
}

func TestParseMatchLine(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		want    grep.MatchEntry
		wantErr bool
	}{
		{name: "simple", line: "a.txt:12: hello", want: grep.MatchEntry{Path: "a.txt", Line: 12, Text: "hello"}},
		{name: "text with colons", line: "dir/a.go:3: x := map[string]int{\"a\": 1}", want: grep.MatchEntry{Path: "dir/a.go", Line: 3, Text: "x := map[string]int{\"a\": 1}"}},
		{name: "empty text", line: "a.txt:1: ", want: grep.MatchEntry{Path: "a.txt", Line: 1, Text: ""}},
		{name: "leading spaces kept", line: "a.txt:1:   indented", want: grep.MatchEntry{Path: "a.txt", Line: 1, Text: "  indented"}},
		{name: "drive letter path", line: `C:\src\a.txt:5: v`, want: grep.MatchEntry{Path: `C:\src\a.txt`, Line: 5, Text: "v"}},
		{name: "trailing newline", line: "a.txt:2: x\n", want: grep.MatchEntry{Path: "a.txt", Line: 2, Text: "x"}},
		{name: "no line number", line: "a.txt: hello", wantErr: true},
		{name: "missing space", line: "a.txt:4:hello", wantErr: true},
		{name: "zero line", line: "a.txt:0: x", wantErr: true},
		{name: "empty path", line: ":3: x", wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := grep.ParseMatchLine(tc.line)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, grep.ErrMalformedReportLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchReport_RoundTrip(t *testing.T) {
	entries := []grep.MatchEntry{
		match(0, "src/main.go", 10, "func main() { fmt.Println(\"a: b\") }"),
		match(0, "src/main.go", 11, ""),
		match(1, "README", 1, "  spaced out  "),
		match(1, "notes/todo.txt", 42, "12: looks like a prefix"),
	}
	result := grep.CombinedResult{Outcomes: []grep.WorkerOutcome{
		outcome(0, grep.OutcomeMatched, []string{"src/main.go"}, entries[:2]...),
		outcome(1, grep.OutcomeMatched, []string{"README", "notes/todo.txt"}, entries[2:]...),
	}}

	rendered := strings.TrimSuffix(string(grep.BuildMatchReport(result).Render()), "\n")
	var parsed []grep.MatchEntry
	for _, line := range strings.Split(rendered, "\n") {
		e, err := grep.ParseMatchLine(line)
		require.NoError(t, err)
		parsed = append(parsed, e)
	}

	var want []grep.MatchEntry
	for _, e := range entries {
		e.WorkerID = 0
		want = append(want, e)
	}
	assert.ElementsMatch(t, want, parsed)
}
