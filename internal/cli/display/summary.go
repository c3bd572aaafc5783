// Package display renders the console summary printed after a search run.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stackvity/specific-grep/pkg/grep"
	"gopkg.in/yaml.v3"
)

// Summary holds the figures reported to the user once both artifacts are written.
type Summary struct {
	RunID         string             `json:"runId" yaml:"runId"`
	FilesSearched int                `json:"filesSearched" yaml:"filesSearched"`
	FilesMatched  int                `json:"filesMatched" yaml:"filesMatched"`
	MatchingLines int                `json:"matchingLines" yaml:"matchingLines"`
	FailedFiles   int                `json:"failedFiles" yaml:"failedFiles"`
	SkippedFiles  int                `json:"skippedFiles" yaml:"skippedFiles"`
	Workers       int                `json:"workers" yaml:"workers"`
	ResultFile    string             `json:"resultFile" yaml:"resultFile"`
	LogFile       string             `json:"logFile" yaml:"logFile"`
	Elapsed       time.Duration      `json:"-" yaml:"-"`
	ElapsedText   string             `json:"elapsed" yaml:"elapsed"`
	Failures      []grep.FileFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// NewSummary collects the summary figures of a finished run.
func NewSummary(runID string, result grep.CombinedResult, workers int, resultFile, logFile string, elapsed time.Duration) Summary {
	failures := result.Failures()
	return Summary{
		RunID:         runID,
		FilesSearched: result.TotalFiles,
		FilesMatched:  result.MatchedFileCount(),
		MatchingLines: result.MatchCount(),
		FailedFiles:   len(failures),
		SkippedFiles:  result.SkippedCount(),
		Workers:       workers,
		ResultFile:    resultFile,
		LogFile:       logFile,
		Elapsed:       elapsed,
		ElapsedText:   formatElapsed(elapsed),
		Failures:      failures,
	}
}

// formatElapsed rounds d for display. Sub-millisecond runs keep microsecond precision.
func formatElapsed(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Microsecond).String()
	}
}

// Styles for the text summary on a terminal.
var (
	ColorTitle = lipgloss.Color("62")  // Purple
	ColorLabel = lipgloss.Color("244") // Dim gray
	ColorWarn  = lipgloss.Color("214") // Orange/Yellow

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorTitle)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorLabel)
	WarnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)

// Render writes s to w in the given format. styled enables lipgloss styling of the
// text format and should only be set when w is a terminal.
func Render(w io.Writer, s Summary, format grep.SummaryFormat, styled bool) error {
	switch format {
	case grep.SummaryFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case grep.SummaryFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case grep.SummaryFormatText, "":
		_, err := io.WriteString(w, renderText(s, styled))
		return err
	default:
		return fmt.Errorf("unsupported summary format %q", format)
	}
}

func renderText(s Summary, styled bool) string {
	title, label, warn := TitleStyle.Render, LabelStyle.Render, WarnStyle.Render
	if !styled {
		plain := func(strs ...string) string { return strings.Join(strs, " ") }
		title, label, warn = plain, plain, plain
	}

	rows := []struct {
		name  string
		value string
	}{
		{"Files searched:", fmt.Sprint(s.FilesSearched)},
		{"Files with matches:", fmt.Sprint(s.FilesMatched)},
		{"Matching lines:", fmt.Sprint(s.MatchingLines)},
		{"Workers:", fmt.Sprint(s.Workers)},
		{"Result file:", s.ResultFile},
		{"Log file:", s.LogFile},
		{"Elapsed:", s.ElapsedText},
	}
	if s.SkippedFiles > 0 {
		rows = append(rows, struct{ name, value string }{"Skipped binary:", fmt.Sprint(s.SkippedFiles)})
	}

	var b strings.Builder
	b.WriteString(title("Search complete"))
	b.WriteByte('\n')
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s %s\n", label(fmt.Sprintf("%-20s", r.name)), r.value)
	}
	if s.FailedFiles > 0 {
		b.WriteString(warn(fmt.Sprintf("  %d file(s) could not be searched:", s.FailedFiles)))
		b.WriteByte('\n')
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "    %s: %s\n", f.Path, f.Reason)
		}
	}
	return b.String()
}
