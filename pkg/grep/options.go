package grep

import (
	"log/slog"

	"github.com/stackvity/specific-grep/pkg/grep/encoding"
	"github.com/stackvity/specific-grep/pkg/grep/language"
)

// Hooks defines callbacks for events during a search run.
// Implementations MUST be thread-safe: OnFileFailed and OnWorkerComplete are called
// from worker goroutines concurrently. Hook errors are logged and otherwise ignored.
type Hooks interface {
	OnFileDiscovered(path string) error
	OnFileFailed(workerID int, failure FileFailure) error
	OnWorkerComplete(outcome WorkerOutcome) error
	OnRunComplete(result CombinedResult) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnFileDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileDiscovered(path string) error { return nil }

// OnFileFailed implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileFailed(workerID int, failure FileFailure) error { return nil }

// OnWorkerComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnWorkerComplete(outcome WorkerOutcome) error { return nil }

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(result CombinedResult) error { return nil }

// ChunkSearcher scans one chunk of files and returns the worker's outcome.
// A non-nil error means the invocation failed fatally and the run must be abandoned.
type ChunkSearcher interface {
	SearchChunk(chunk []FileRecord) (WorkerOutcome, error)
}

// WorkerFactory defines a function type for creating the searcher of one worker.
type WorkerFactory func(opts *Options, workerID int, loggerHandler slog.Handler) ChunkSearcher

// Options holds all configuration for a search run.
type Options struct {
	// --- Core ---
	RootPath string `mapstructure:"dir"`     // Required: directory to search
	Pattern  string `mapstructure:"-"`       // Literal search string; empty matches every line
	Threads  int    `mapstructure:"threads"` // Worker count W, must be >= 1

	// --- Enumeration ---
	FollowSymlinks bool     `mapstructure:"followSymlinks"`
	IgnorePatterns []string `mapstructure:"ignore"` // gitignore-style globs relative to RootPath
	Languages      []string `mapstructure:"lang"`   // go-enry language names; empty means all files

	// --- Scanning ---
	Encoding   string `mapstructure:"encoding"`   // IANA name; empty means bytes are scanned as-is
	SkipBinary bool   `mapstructure:"skipBinary"` // open but do not scan files sniffed as binary

	// --- Injected Dependencies ---
	EventHooks      Hooks            `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Logger          slog.Handler     `mapstructure:"-"` // Required: logging backend
	WorkerFactory   WorkerFactory    `mapstructure:"-"` // Optional: factory for searchers (testing)
	EncodingHandler encoding.Handler `mapstructure:"-"` // Optional: derived from Encoding if nil
	LanguageFilter  language.Filter  `mapstructure:"-"` // Optional: derived from Languages if nil
}
