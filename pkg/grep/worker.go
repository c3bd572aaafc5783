package grep

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"syscall"

	"github.com/stackvity/specific-grep/pkg/grep/encoding"
)

const readBufferSize = 64 * 1024

// SearchWorker scans the files of one chunk for a literal substring.
type SearchWorker struct {
	id         int
	pattern    string
	hooks      Hooks
	logger     *slog.Logger
	encoding   encoding.Handler
	skipBinary bool
	stripCR    bool // text-mode line endings on Windows
}

// NewSearchWorker creates the default ChunkSearcher for workerID. It satisfies WorkerFactory.
// A nil opts.EncodingHandler scans bytes as-is; NewEngine resolves it from opts.Encoding.
func NewSearchWorker(opts *Options, workerID int, loggerHandler slog.Handler) ChunkSearcher {
	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	enc := opts.EncodingHandler
	if enc == nil {
		enc, _ = encoding.NewCharsetHandler("") // passthrough never fails
	}
	return &SearchWorker{
		id:         workerID,
		pattern:    opts.Pattern,
		hooks:      hooks,
		logger:     slog.New(loggerHandler).With(slog.String("component", "worker"), slog.Int("workerID", workerID)),
		encoding:   enc,
		skipBinary: opts.SkipBinary,
		stripCR:    runtime.GOOS == "windows",
	}
}

// SearchChunk implements ChunkSearcher.
//
// Files that cannot be opened or read are recorded in the outcome and the worker moves
// on. Only conditions that make the whole invocation untrustworthy return an error
// wrapping ErrWorkerFatal: running out of file descriptors, or a panic.
func (w *SearchWorker) SearchChunk(chunk []FileRecord) (outcome WorkerOutcome, err error) {
	outcome = newWorkerOutcome(w.id, chunk)
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic recovered in worker", "panicValue", r)
			err = fmt.Errorf("%w: worker %d: panic: %v", ErrWorkerFatal, w.id, r)
		}
	}()

	w.logger.Debug("Worker started", slog.Int("files", len(chunk)))
	for _, file := range chunk {
		if fatal := w.searchFile(string(file), &outcome); fatal != nil {
			w.logger.Error("Worker stopping on fatal error", slog.String("path", string(file)), slog.String("error", fatal.Error()))
			return outcome, fatal
		}
	}
	outcome.seal()
	w.logger.Debug("Worker finished",
		slog.String("outcome", outcome.Kind.String()),
		slog.Int("processed", len(outcome.Processed)),
		slog.Int("failed", len(outcome.Failed)),
		slog.Int("matches", len(outcome.Matches)),
	)
	return outcome, nil
}

// searchFile scans one file, appending to out. The returned error is always fatal.
func (w *SearchWorker) searchFile(path string, out *WorkerOutcome) error {
	f, err := os.Open(path)
	if err != nil {
		if isResourceExhausted(err) {
			return fmt.Errorf("%w: worker %d: opening %s: %w", ErrWorkerFatal, w.id, path, err)
		}
		w.recordFailure(out, path, fmt.Errorf("%w: %w", ErrOpenFailed, err))
		return nil
	}
	defer f.Close()
	out.Processed = append(out.Processed, path)

	raw := bufio.NewReaderSize(f, readBufferSize)
	if w.skipBinary {
		sample, peekErr := raw.Peek(encoding.SniffLen)
		if peekErr != nil && !errors.Is(peekErr, io.EOF) {
			w.recordFailure(out, path, fmt.Errorf("%w: %w", ErrReadFailed, peekErr))
			return nil
		}
		if w.encoding.IsBinary(sample) {
			w.logger.Debug("Skipping binary file", slog.String("path", path))
			out.Skipped = append(out.Skipped, path)
			return nil
		}
	}

	lines := raw
	if w.encoding.Name() != "" {
		lines = bufio.NewReaderSize(w.encoding.NewReader(raw), readBufferSize)
	}

	lineNo := 0
	for {
		line, readErr := lines.ReadString('\n')
		// A final line without a terminator still counts; an empty read at EOF does not.
		if len(line) > 0 {
			lineNo++
			text := w.trimEOL(line)
			if strings.Contains(text, w.pattern) {
				out.Matches = append(out.Matches, MatchEntry{
					WorkerID: w.id,
					Path:     path,
					Line:     lineNo,
					Text:     text,
				})
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				w.recordFailure(out, path, fmt.Errorf("%w: after line %d: %w", ErrReadFailed, lineNo, readErr))
			}
			return nil
		}
	}
}

func (w *SearchWorker) trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	if w.stripCR {
		line = strings.TrimSuffix(line, "\r")
	}
	return line
}

func (w *SearchWorker) recordFailure(out *WorkerOutcome, path string, cause error) {
	failure := FileFailure{Path: path, Reason: cause.Error()}
	out.Failed = append(out.Failed, failure)
	w.logger.Warn("Could not search file", slog.String("path", path), slog.String("error", cause.Error()))
	if hookErr := w.hooks.OnFileFailed(w.id, failure); hookErr != nil {
		w.logger.Warn("Event hook OnFileFailed failed", slog.String("path", path), slog.String("error", hookErr.Error()))
	}
}

// isResourceExhausted reports whether err means the process or system ran out of
// file descriptors, which no later file in the chunk could recover from.
func isResourceExhausted(err error) bool {
	return errors.Is(err, syscall.EMFILE) || errors.Is(err, syscall.ENFILE)
}
