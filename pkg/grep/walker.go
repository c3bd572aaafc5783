package grep

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stackvity/specific-grep/pkg/grep/ignore"
	"github.com/stackvity/specific-grep/pkg/grep/language"
)

// Walker enumerates the regular files under a root directory.
//
// Order is filepath.WalkDir's lexical order, so enumeration is deterministic for an
// unchanged tree. Symbolic links below the root are skipped unless FollowSymlinks is set; when it is,
// links to regular files are listed under the link's path and every directory,
// linked or not, is descended at most once per resolved path, which also breaks cycles.
// The first path reached in walk order is the one reported.
type Walker struct {
	root           string
	followSymlinks bool
	hooks          Hooks
	logger         *slog.Logger
	ignoreMatcher  *ignore.Matcher
	languageFilter language.Filter
	visitedDirs    map[string]struct{} // resolved real paths, only used when following links
}

// NewWalker creates a new Walker from opts.
func NewWalker(opts *Options, loggerHandler slog.Handler) *Walker {
	logger := slog.New(loggerHandler).With(slog.String("component", "walker"))
	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	filter := opts.LanguageFilter
	if filter == nil {
		filter = language.NewEnryFilter(opts.Languages)
	}
	matcher := ignore.New(opts.IgnorePatterns)
	logger.Debug("Ignore patterns loaded", slog.Int("count", matcher.Len()))
	return &Walker{
		root:           opts.RootPath,
		followSymlinks: opts.FollowSymlinks,
		hooks:          hooks,
		logger:         logger,
		ignoreMatcher:  matcher,
		languageFilter: filter,
		visitedDirs:    make(map[string]struct{}),
	}
}

// Enumerate returns every eligible regular file under the root.
// It fails with ErrDirectoryNotFound when the root is missing or not a directory.
// Entries that cannot be read below the root are logged and omitted.
func (w *Walker) Enumerate() ([]FileRecord, error) {
	info, err := os.Stat(w.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, w.root)
		}
		return nil, fmt.Errorf("%w: cannot access %s: %w", ErrDirectoryNotFound, w.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, w.root)
	}

	w.logger.Info("Starting directory walk", slog.String("path", w.root), slog.Bool("followSymlinks", w.followSymlinks))
	// A root given as a symlink is always resolved (like find -H); WalkDir would
	// otherwise report the link itself and never descend.
	realRoot := w.root
	if resolved, err := filepath.EvalSymlinks(w.root); err == nil {
		realRoot = resolved
	}
	var files []FileRecord
	if err := w.walk(w.root, realRoot, "", &files); err != nil {
		w.logger.Error("Directory walk failed", slog.String("error", err.Error()))
		return nil, err
	}
	w.logger.Info("Directory walk completed", slog.Int("files", len(files)))
	return files, nil
}

// walk traverses realDir, reporting paths under displayDir. relPrefix is the
// slash-separated path of displayDir relative to the search root ("" for the root).
func (w *Walker) walk(displayDir, realDir, relPrefix string, files *[]FileRecord) error {
	if w.followSymlinks && w.seenBefore(realDir) {
		w.logger.Debug("Skipping already visited directory", slog.String("path", displayDir))
		return nil
	}

	return filepath.WalkDir(realDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The root's own failures are caught by Enumerate's Stat; anything else is an
			// unreadable entry below it and is simply left out.
			w.logger.Warn("Error accessing path during walk", slog.String("path", path), slog.String("error", err.Error()))
			if d != nil && d.IsDir() && path != realDir {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(realDir, path)
		if relErr != nil {
			w.logger.Warn("Could not calculate relative path", slog.String("path", path), slog.String("error", relErr.Error()))
			return nil
		}
		if rel == "." {
			return nil
		}
		displayPath := filepath.Join(displayDir, rel)
		relToRoot := filepath.ToSlash(rel)
		if relPrefix != "" {
			relToRoot = relPrefix + "/" + relToRoot
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return w.visitSymlink(displayPath, path, relToRoot, files)
		}

		isDir := d.IsDir()
		if ignored, pattern := w.ignoreMatcher.Match(relToRoot, isDir); ignored {
			w.logger.Debug("Path ignored", slog.String("path", relToRoot), slog.Bool("isDir", isDir), slog.String("pattern", pattern))
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		if isDir {
			if w.followSymlinks && w.seenBefore(path) {
				w.logger.Debug("Skipping already visited directory", slog.String("path", displayPath))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		w.addFile(displayPath, relToRoot, files)
		return nil
	})
}

// visitSymlink handles a symbolic link found during the walk.
func (w *Walker) visitSymlink(displayPath, realPath, relToRoot string, files *[]FileRecord) error {
	if !w.followSymlinks {
		w.logger.Debug("Skipping symbolic link", slog.String("path", displayPath))
		return nil
	}
	target, err := os.Stat(realPath)
	if err != nil {
		w.logger.Warn("Skipping dangling symbolic link", slog.String("path", displayPath), slog.String("error", err.Error()))
		return nil
	}
	isDir := target.IsDir()
	if ignored, pattern := w.ignoreMatcher.Match(relToRoot, isDir); ignored {
		w.logger.Debug("Path ignored", slog.String("path", relToRoot), slog.Bool("isDir", isDir), slog.String("pattern", pattern))
		return nil
	}
	switch {
	case isDir:
		// WalkDir does not descend through a symlinked root, so walk the resolved target.
		resolved, err := filepath.EvalSymlinks(realPath)
		if err != nil {
			w.logger.Warn("Could not resolve symbolic link", slog.String("path", displayPath), slog.String("error", err.Error()))
			return nil
		}
		return w.walk(displayPath, resolved, relToRoot, files)
	case target.Mode().IsRegular():
		w.addFile(displayPath, relToRoot, files)
	}
	return nil
}

// seenBefore records the resolved form of dir and reports whether it was already recorded.
// A directory that cannot be resolved is treated as new.
func (w *Walker) seenBefore(dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	if _, seen := w.visitedDirs[resolved]; seen {
		return true
	}
	w.visitedDirs[resolved] = struct{}{}
	return false
}

func (w *Walker) addFile(displayPath, relToRoot string, files *[]FileRecord) {
	if !w.languageFilter.Allow(relToRoot) {
		w.logger.Debug("Path excluded by language filter", slog.String("path", relToRoot))
		return
	}
	if hookErr := w.hooks.OnFileDiscovered(displayPath); hookErr != nil {
		w.logger.Warn("Event hook OnFileDiscovered failed", slog.String("path", displayPath), slog.String("error", hookErr.Error()))
	}
	*files = append(*files, FileRecord(displayPath))
}
