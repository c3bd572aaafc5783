package hooks

import (
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
	"github.com/stackvity/specific-grep/pkg/grep"
)

// CLIHooks implements the grep.Hooks interface for the command line: discovery and
// worker progress go to the debug log, files that could not be searched are printed
// as warnings on the warning stream.
type CLIHooks struct {
	logger  *slog.Logger
	warnOut io.Writer
	warn    *color.Color
	mu      sync.Mutex // serializes writes to warnOut
}

// NewCLIHooks creates a new CLIHooks instance writing warnings to warnOut.
// Colors are used only when colorEnabled is true.
func NewCLIHooks(logger *slog.Logger, warnOut io.Writer, colorEnabled bool) *CLIHooks {
	warn := color.New(color.FgYellow)
	if colorEnabled {
		warn.EnableColor()
	} else {
		warn.DisableColor()
	}
	return &CLIHooks{
		logger:  logger.With(slog.String("component", "hooks")),
		warnOut: warnOut,
		warn:    warn,
	}
}

// OnFileDiscovered handles the event when the enumerator lists a file.
func (h *CLIHooks) OnFileDiscovered(path string) error {
	h.logger.Debug("File discovered", "path", path)
	return nil
}

// OnFileFailed prints a warning for a file that could not be opened or read.
// This method is called from worker goroutines and is thread-safe.
func (h *CLIHooks) OnFileFailed(workerID int, failure grep.FileFailure) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.warn.Fprintf(h.warnOut, "warning: could not search %s: %s\n", failure.Path, failure.Reason)
	return err
}

// OnWorkerComplete logs a worker's outcome once it has passed the barrier.
func (h *CLIHooks) OnWorkerComplete(outcome grep.WorkerOutcome) error {
	h.logger.Debug("Worker complete",
		slog.Int("workerID", outcome.WorkerID),
		slog.String("outcome", outcome.Kind.String()),
		slog.Int("processed", len(outcome.Processed)),
		slog.Int("failed", len(outcome.Failed)),
		slog.Int("matches", len(outcome.Matches)),
	)
	return nil
}

// OnRunComplete logs the final tallies of a successful search.
func (h *CLIHooks) OnRunComplete(result grep.CombinedResult) error {
	h.logger.Debug("Run complete",
		slog.Int("files", result.TotalFiles),
		slog.Int("matchedFiles", result.MatchedFileCount()),
		slog.Int("matches", result.MatchCount()),
		slog.Int("failedFiles", len(result.Failures())),
	)
	return nil
}
