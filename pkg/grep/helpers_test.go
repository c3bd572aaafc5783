package grep_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stackvity/specific-grep/pkg/grep"
	"github.com/stretchr/testify/require"
)

// discardHandler returns a handler that drops all log output.
func discardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// createTestDirStructure builds a tree under rootDir. Keys ending in "/" are directories,
// everything else is a file with the given content (possibly empty).
func createTestDirStructure(t *testing.T, rootDir string, structure map[string]string) {
	t.Helper()
	for path, content := range structure {
		fullPath := filepath.Join(rootDir, filepath.FromSlash(path))
		if strings.HasSuffix(path, "/") {
			require.NoError(t, os.MkdirAll(fullPath, 0755), "Failed to create dir %s", fullPath)
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644), "Failed to write file %s", fullPath)
	}
}

// relPaths strips root from each record and normalizes separators.
func relPaths(t *testing.T, root string, files []grep.FileRecord) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, string(f))
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

// recordingHooks captures hook calls. Safe for concurrent use.
type recordingHooks struct {
	mu          sync.Mutex
	discovered  []string
	failed      []grep.FileFailure
	completed   []int
	runComplete bool
}

func (h *recordingHooks) OnFileDiscovered(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.discovered = append(h.discovered, filepath.ToSlash(path))
	return nil
}

func (h *recordingHooks) OnFileFailed(workerID int, failure grep.FileFailure) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failed = append(h.failed, failure)
	return nil
}

func (h *recordingHooks) OnWorkerComplete(outcome grep.WorkerOutcome) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, outcome.WorkerID)
	return nil
}

func (h *recordingHooks) OnRunComplete(result grep.CombinedResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runComplete = true
	return nil
}
