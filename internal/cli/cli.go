package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stackvity/specific-grep/internal/cli/config"
	"github.com/stackvity/specific-grep/internal/cli/display"
	"github.com/stackvity/specific-grep/internal/cli/hooks"
	"github.com/stackvity/specific-grep/internal/filelock"
	"github.com/stackvity/specific-grep/pkg/grep"
)

// Streams bundles the console destinations of a run and whether each one is a terminal.
type Streams struct {
	Out         io.Writer // summary
	Err         io.Writer // soft-failure warnings
	OutStyled   bool      // Out is a terminal; enables lipgloss styling
	ErrColorful bool      // Err is a terminal; enables colored warnings
}

// Run executes one search with the validated configuration: it runs the engine,
// writes the match report and the worker log, then prints the summary.
// sw is the stopwatch started by the caller; the reported elapsed time covers
// everything up to the point both artifacts are on disk.
func Run(cfg config.Config, logger *slog.Logger, sw *grep.Stopwatch, streams Streams) error {
	runID := uuid.NewString()
	logger = logger.With(slog.String("runID", runID))

	opts := cfg.Options
	opts.Logger = logger.Handler()
	opts.EventHooks = hooks.NewCLIHooks(logger, streams.Err, streams.ErrColorful)

	engine, err := grep.NewEngine(opts)
	if err != nil {
		logger.Error("Failed to initialize search engine", slog.String("error", err.Error()))
		return err
	}
	result, err := engine.Run()
	if err != nil {
		logger.Error("Search failed", slog.String("error", err.Error()))
		return err
	}

	report := grep.BuildMatchReport(result)
	workerLog := grep.BuildWorkerLog(result)
	resultPath, logPath := cfg.ResultPath(), cfg.LogPath()
	err = filelock.WriteArtifacts(cfg.OutputDir,
		filelock.Artifact{Path: resultPath, Data: report.Render()},
		filelock.Artifact{Path: logPath, Data: workerLog.Render()},
	)
	if err != nil {
		err = fmt.Errorf("%w: %w", grep.ErrWriteFailed, err)
		logger.Error("Failed to write reports", slog.String("error", err.Error()))
		return err
	}
	elapsed := sw.Stop()
	logger.Info("Reports written",
		slog.String("resultFile", resultPath),
		slog.String("logFile", logPath),
		slog.Int("reportLines", report.LineCount()),
		slog.Duration("elapsed", elapsed),
	)

	summary := display.NewSummary(runID, result, cfg.Threads, resultPath, logPath, elapsed)
	if err := display.Render(streams.Out, summary, cfg.SummaryFormat, streams.OutStyled); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}
	return nil
}
