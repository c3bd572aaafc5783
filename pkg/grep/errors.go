package grep

import "errors"

// --- Exported Error Variables ---
// These errors represent the categories of failure a search run can produce.
// Library users can check against these using errors.Is.

var (
	// ErrDirectoryNotFound indicates that the search root does not exist or is not a directory.
	// Returned by Enumerate and by NewEngine before any worker is started.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrInvalidConfiguration indicates that the provided Options failed validation
	// (non-positive worker count, unknown encoding, malformed output names).
	// Always detected before the search begins.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrOpenFailed indicates a file could not be opened for reading.
	// This is a soft failure: it is recorded in WorkerOutcome.Failed and the worker continues.
	ErrOpenFailed = errors.New("failed to open file")

	// ErrReadFailed indicates an I/O error while reading lines from an opened file.
	// Soft failure, recorded like ErrOpenFailed. Matches found before the error are kept.
	ErrReadFailed = errors.New("failed to read file")

	// ErrWorkerFatal indicates a worker invocation failed in a way that invalidates the run
	// (descriptor exhaustion, panic). The engine returns it wrapped and no report is built.
	ErrWorkerFatal = errors.New("worker failed fatally")

	// ErrWriteFailed indicates a rendered report could not be written to its destination.
	// The search itself succeeded but the run is considered failed.
	ErrWriteFailed = errors.New("failed to write report")

	// ErrMalformedReportLine is returned by ParseMatchLine for lines that do not follow
	// the "<path>:<line>: <text>" layout.
	ErrMalformedReportLine = errors.New("malformed match report line")
)
