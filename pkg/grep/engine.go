package grep

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stackvity/specific-grep/pkg/grep/encoding"
	"github.com/stackvity/specific-grep/pkg/grep/language"
)

// Engine runs one search: enumerate, partition, scan in parallel, then merge.
type Engine struct {
	opts          *Options
	logger        *slog.Logger
	hooks         Hooks
	workerFactory WorkerFactory
}

// NewEngine validates opts and resolves defaults for the optional dependencies.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrInvalidConfiguration)
	}
	if opts.Threads < 1 {
		return nil, fmt.Errorf("%w: thread count must be at least 1, got %d", ErrInvalidConfiguration, opts.Threads)
	}
	if opts.RootPath == "" {
		return nil, fmt.Errorf("%w: directory cannot be empty", ErrInvalidConfiguration)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.EncodingHandler == nil {
		handler, err := encoding.NewCharsetHandler(opts.Encoding)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		opts.EncodingHandler = handler
		logger.Debug("EncodingHandler not provided, using charset handler.", "encoding", handler.Name())
	}
	if opts.LanguageFilter == nil {
		opts.LanguageFilter = language.NewEnryFilter(opts.Languages)
	}
	factory := opts.WorkerFactory
	if factory == nil {
		factory = NewSearchWorker
		logger.Debug("WorkerFactory not provided, using default.")
	}

	return &Engine{
		opts:          &opts,
		logger:        logger,
		hooks:         opts.EventHooks,
		workerFactory: factory,
	}, nil
}

// Run performs the search and returns the combined result of all workers.
//
// Every worker runs to completion before Run returns, even when one of them fails.
// If any worker failed fatally the result is discarded and the error wraps
// ErrWorkerFatal, joining the individual failures in worker order.
func (e *Engine) Run() (CombinedResult, error) {
	files, err := NewWalker(e.opts, e.opts.Logger).Enumerate()
	if err != nil {
		return CombinedResult{}, err
	}
	chunks, err := Partition(files, e.opts.Threads)
	if err != nil {
		return CombinedResult{}, err
	}
	e.logger.Info("Starting search",
		slog.Int("files", len(files)),
		slog.Int("workers", len(chunks)),
		slog.Int("patternLength", len(e.opts.Pattern)),
	)

	outcomes := make([]WorkerOutcome, len(chunks))
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(workerID int, chunk []FileRecord) {
			defer wg.Done()
			outcomes[workerID], errs[workerID] = e.runWorker(workerID, chunk)
		}(i, chunk)
	}
	wg.Wait()

	if fatal := errors.Join(errs...); fatal != nil {
		e.logger.Error("Search aborted by worker failure", slog.String("error", fatal.Error()))
		if !errors.Is(fatal, ErrWorkerFatal) {
			fatal = fmt.Errorf("%w: %w", ErrWorkerFatal, fatal)
		}
		return CombinedResult{}, fatal
	}

	result := CombinedResult{Outcomes: outcomes, TotalFiles: len(files)}
	e.logger.Info("Search completed",
		slog.Int("matches", result.MatchCount()),
		slog.Int("matchedFiles", result.MatchedFileCount()),
		slog.Int("failedFiles", len(result.Failures())),
	)
	if hookErr := e.hooks.OnRunComplete(result); hookErr != nil {
		e.logger.Warn("Event hook OnRunComplete failed", slog.String("error", hookErr.Error()))
	}
	return result, nil
}

// runWorker runs one searcher, turning a panic that escapes it into a fatal error.
func (e *Engine) runWorker(workerID int, chunk []FileRecord) (outcome WorkerOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic recovered from worker", slog.Int("workerID", workerID), "panicValue", r)
			outcome = WorkerOutcome{WorkerID: workerID}
			err = fmt.Errorf("%w: worker %d: panic: %v", ErrWorkerFatal, workerID, r)
		}
	}()

	searcher := e.workerFactory(e.opts, workerID, e.opts.Logger)
	outcome, err = searcher.SearchChunk(chunk)
	if err != nil {
		if !errors.Is(err, ErrWorkerFatal) {
			err = fmt.Errorf("%w: worker %d: %w", ErrWorkerFatal, workerID, err)
		}
		return outcome, err
	}
	outcome.WorkerID = workerID
	if hookErr := e.hooks.OnWorkerComplete(outcome); hookErr != nil {
		e.logger.Warn("Event hook OnWorkerComplete failed", slog.Int("workerID", workerID), slog.String("error", hookErr.Error()))
	}
	return outcome, nil
}
