package display

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stackvity/specific-grep/pkg/grep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() grep.CombinedResult {
	return grep.CombinedResult{
		TotalFiles: 4,
		Outcomes: []grep.WorkerOutcome{
			{
				WorkerID:  0,
				Kind:      grep.OutcomeMatched,
				Processed: []string{"a.txt", "b.txt"},
				Matches: []grep.MatchEntry{
					{WorkerID: 0, Path: "a.txt", Line: 1, Text: "foo"},
					{WorkerID: 0, Path: "a.txt", Line: 2, Text: "bar foo"},
					{WorkerID: 0, Path: "b.txt", Line: 1, Text: "foo"},
				},
			},
			{
				WorkerID:  1,
				Kind:      grep.OutcomeNoMatches,
				Processed: []string{"c.bin"},
				Skipped:   []string{"c.bin"},
				Failed:    []grep.FileFailure{{Path: "d.txt", Reason: "failed to open file: permission denied"}},
			},
		},
	}
}

func TestNewSummary(t *testing.T) {
	s := NewSummary("run-1", sampleResult(), 2, "out.txt", "out.log", 1234*time.Millisecond)

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 4, s.FilesSearched)
	assert.Equal(t, 2, s.FilesMatched)
	assert.Equal(t, 3, s.MatchingLines)
	assert.Equal(t, 1, s.FailedFiles)
	assert.Equal(t, 1, s.SkippedFiles)
	assert.Equal(t, 2, s.Workers)
	assert.Equal(t, "1.234s", s.ElapsedText)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "2.5s", formatElapsed(2500*time.Millisecond))
	assert.Equal(t, "12.35ms", formatElapsed(12345678*time.Nanosecond))
	assert.Equal(t, "42µs", formatElapsed(42*time.Microsecond+300))
}

func TestRender_Text(t *testing.T) {
	s := NewSummary("run-1", sampleResult(), 2, "out.txt", "out.log", 2*time.Second)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, grep.SummaryFormatText, false))

	want := "Search complete\n" +
		"  Files searched:      4\n" +
		"  Files with matches:  2\n" +
		"  Matching lines:      3\n" +
		"  Workers:             2\n" +
		"  Result file:         out.txt\n" +
		"  Log file:            out.log\n" +
		"  Elapsed:             2s\n" +
		"  Skipped binary:      1\n" +
		"  1 file(s) could not be searched:\n" +
		"    d.txt: failed to open file: permission denied\n"
	assert.Equal(t, want, buf.String())
}

func TestRender_JSON(t *testing.T) {
	s := NewSummary("run-1", sampleResult(), 2, "out.txt", "out.log", time.Second)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, grep.SummaryFormatJSON, true))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["runId"])
	assert.EqualValues(t, 3, decoded["matchingLines"])
	assert.Equal(t, "1s", decoded["elapsed"])
	assert.NotContains(t, decoded, "Elapsed")
}

func TestRender_YAML(t *testing.T) {
	s := NewSummary("run-1", sampleResult(), 2, "out.txt", "out.log", time.Second)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, grep.SummaryFormatYAML, false))

	var decoded Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.FilesMatched)
	assert.Equal(t, "out.log", decoded.LogFile)
	require.Len(t, decoded.Failures, 1)
	assert.Equal(t, "d.txt", decoded.Failures[0].Path)
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, Summary{}, grep.SummaryFormat("xml"), false)
	assert.Error(t, err)
}
